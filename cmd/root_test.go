package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "tafscan", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Equal(t, rootLongDescription, cmd.Long)
	assert.NotNil(t, cmd.PersistentFlags().Lookup(verboseFlagName))
	assert.NotNil(t, cmd.PersistentFlags().Lookup(logFileFlagName))
}

func TestRootCmd_HelpOutput(t *testing.T) {
	cmd := newRootCmd()
	output := &bytes.Buffer{}
	cmd.SetOut(output)
	cmd.SetErr(&bytes.Buffer{})

	cmd.SetArgs([]string{})
	err := cmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, output.String(), "Usage:")
	assert.Contains(t, output.String(), "compliance score")
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"analyze", "view", "rules", "init", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestWorkflowFor_PrefersOverride(t *testing.T) {
	original := workflow
	defer func() { workflow = original }()

	workflow = nil
	built := workflowFor(newRootCmd())
	require.NotNil(t, built)

	workflow = built
	assert.Same(t, built, workflowFor(newRootCmd()))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"critical", fmt.Errorf("%w: 3 violation(s)", ErrCriticalViolations), exitViolations},
		{"threshold", fmt.Errorf("%w: 60 < 80", ErrScoreBelowThreshold), exitViolations},
		{"invalid root", errors.New("analyze missing: invalid project root"), exitFatal},
		{"usage", errors.New("accepts at most 1 arg(s), received 2"), exitFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestVerdict(t *testing.T) {
	clean := m.NewReport("r", ".")
	clean.CalculateScore()

	critical := m.NewReport("r", ".")
	critical.Add(m.NewViolation(m.ViolationAdaptationInDefinition, "tests/test_login.py", m.WithLine(3)))
	critical.CalculateScore()

	hardcoded := m.NewReport("r", ".")
	hardcoded.Add(
		m.NewViolation(m.ViolationHardcodedTestData, "tests/test_login.py", m.WithLine(4)),
		m.NewViolation(m.ViolationHardcodedTestData, "tests/test_login.py", m.WithLine(5)),
		m.NewViolation(m.ViolationHardcodedTestData, "tests/test_login.py", m.WithLine(6)),
	)
	hardcoded.CalculateScore()

	tests := []struct {
		name      string
		report    *m.Report
		failUnder int
		wantErr   error
	}{
		{"clean", clean, 0, nil},
		{"clean above threshold", clean, 100, nil},
		{"critical always fails", critical, 0, ErrCriticalViolations},
		{"below threshold", hardcoded, 90, ErrScoreBelowThreshold},
		{"threshold disabled", hardcoded, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := verdict(tt.report, tt.failUnder)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute(t *testing.T) {
	originalRootCmd := rootCmd
	defer func() { rootCmd = originalRootCmd }()

	mockCmd := &cobra.Command{
		Use: "test",
		RunE: func(_ *cobra.Command, _ []string) error {
			return nil
		},
	}
	mockCmd.SetOut(&bytes.Buffer{})
	mockCmd.SetErr(&bytes.Buffer{})

	rootCmd = mockCmd

	Execute()
}

func TestExecute_ProcessLevel_ExitCodes(t *testing.T) {
	if mode := os.Getenv("TEST_EXECUTE_SUBPROCESS"); mode != "" {
		rootCmd = &cobra.Command{
			Use:           "test",
			SilenceUsage:  true,
			SilenceErrors: true,
			RunE: func(_ *cobra.Command, _ []string) error {
				switch mode {
				case "critical":
					return ErrCriticalViolations
				case "fatal":
					return errors.New("boom")
				}

				return nil
			},
		}

		Execute()

		return
	}

	tests := []struct {
		mode string
		want int
	}{
		{"success", 0},
		{"critical", exitViolations},
		{"fatal", exitFatal},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cmd := exec.Command(os.Args[0], "-test.run=TestExecute_ProcessLevel_ExitCodes")
			cmd.Env = append(os.Environ(), "TEST_EXECUTE_SUBPROCESS="+tt.mode)
			output, err := cmd.CombinedOutput()

			if tt.want == 0 {
				require.NoError(t, err, "output: %s", output)
				return
			}

			var exitErr *exec.ExitError
			require.ErrorAs(t, err, &exitErr, "output: %s", output)
			assert.Equal(t, tt.want, exitErr.ExitCode())
		})
	}
}
