package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tafscan.dev/pkg/tafscan/internal/domain"
	domainmocks "tafscan.dev/pkg/tafscan/internal/domain/mocks"
	m "tafscan.dev/pkg/tafscan/internal/model"
)

func useWorkflow(t *testing.T, wf domain.Workflow) {
	t.Helper()

	originalWorkflow := workflow
	workflow = wf
	t.Cleanup(func() { workflow = originalWorkflow })
}

func cleanReport() *m.Report {
	report := m.NewReport("r1", ".")
	report.CalculateScore()

	return report
}

func TestAnalyzeCmd_DefaultsToCurrentDirectory(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	cmd := newRootCmd()
	cmd.AddCommand(newAnalyzeCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	mockWorkflow.On("Analyze", mock.Anything, mock.MatchedBy(func(args domain.AnalyzeArgs) bool {
		return args.Root == m.Path(".") && args.Output == "" && !args.Suggest && args.Threads > 0
	})).Return(cleanReport(), nil)

	cmd.SetArgs([]string{"analyze"})
	require.NoError(t, cmd.Execute())
}

func TestAnalyzeCmd_PassesFlagsThrough(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	cmd := newRootCmd()
	cmd.AddCommand(newAnalyzeCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	mockWorkflow.On("Analyze", mock.Anything, mock.MatchedBy(func(args domain.AnalyzeArgs) bool {
		return args.Root == m.Path("./suite") &&
			args.Output == m.Path("report.yaml") &&
			args.Threads == 3 &&
			args.Suggest &&
			len(args.Exclude) == 2 && args.Exclude[0] == "POOR_TEST_NAMING" &&
			len(args.Ignore) == 1 && args.Ignore[0] == "legacy/**"
	})).Return(cleanReport(), nil)

	cmd.SetArgs([]string{
		"analyze", "./suite",
		"-o", "report.yaml",
		"-p", "3",
		"--suggest",
		"-x", "POOR_TEST_NAMING",
		"-x", "HARDCODED_SLEEP",
		"--ignore", "legacy/**",
	})
	require.NoError(t, cmd.Execute())
}

func TestAnalyzeCmd_FailsOnCriticalViolation(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	report := m.NewReport("r2", ".")
	report.Add(m.NewViolation(m.ViolationAdaptationInDefinition, "tests/test_login.py", m.WithLine(7)))
	report.CalculateScore()

	cmd := newRootCmd()
	cmd.AddCommand(newAnalyzeCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	mockWorkflow.On("Analyze", mock.Anything, mock.Anything).Return(report, nil)

	cmd.SetArgs([]string{"analyze", "."})
	err := cmd.Execute()
	require.ErrorIs(t, err, ErrCriticalViolations)
	require.Equal(t, exitViolations, exitCode(err))
}

func TestAnalyzeCmd_FailUnder(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	report := m.NewReport("r3", ".")
	report.Add(m.NewViolation(m.ViolationPoorTestNaming, "tests/test_a.py", m.WithLine(1)))
	report.CalculateScore()

	cmd := newRootCmd()
	cmd.AddCommand(newAnalyzeCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	mockWorkflow.On("Analyze", mock.Anything, mock.Anything).Return(report, nil)

	cmd.SetArgs([]string{"analyze", "--fail-under", "100"})
	require.ErrorIs(t, cmd.Execute(), ErrScoreBelowThreshold)
}

func TestAnalyzeCmd_WorkflowErrorIsFatal(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	cmd := newRootCmd()
	cmd.AddCommand(newAnalyzeCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	mockWorkflow.On("Analyze", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidRoot)

	cmd.SetArgs([]string{"analyze", "missing"})
	err := cmd.Execute()
	require.ErrorIs(t, err, domain.ErrInvalidRoot)
	require.Equal(t, exitFatal, exitCode(err))
}

func TestAnalyzeCmd_RejectsExtraArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.AddCommand(newAnalyzeCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	cmd.SetArgs([]string{"analyze", "a", "b"})
	require.Error(t, cmd.Execute())
}
