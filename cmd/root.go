// Package cmd provides the root command and CLI setup for tafscan.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"tafscan.dev/pkg/tafscan/internal/adapter"
	"tafscan.dev/pkg/tafscan/internal/controller"
	"tafscan.dev/pkg/tafscan/internal/domain"
	"tafscan.dev/pkg/tafscan/internal/domain/checkers"
	"tafscan.dev/pkg/tafscan/internal/frontend"
)

// Process exit codes.
const (
	exitViolations = 1
	exitFatal      = 2
)

// workflow overrides the default workflow; tests replace it with a mock.
var workflow domain.Workflow

var (
	verboseFlag bool
	logFileFlag string
)

const rootLongDescription = `tafscan inspects test-automation code (Python, Java, JavaScript,
TypeScript, C# and Gherkin feature files) and reports violations of the
layered test architecture: tests must not drive the browser directly, page
objects must not assert, and test data must not be hard-coded.

The result is a list of located violations and a 0-100 compliance score.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tafscan",
		Short: "Test automation architecture analyzer",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", defaultLogVerbose, "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, defaultLogFilename, "log file path")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// workflowFor returns the workflow override or builds the default one
// writing to cmd's output.
func workflowFor(cmd *cobra.Command) domain.Workflow {
	if workflow != nil {
		return workflow
	}

	fsAdapter := adapter.NewLocalSourceFSAdapter()
	analyzer := domain.NewAnalyzer(
		fsAdapter,
		frontend.DefaultRegistry(),
		checkers.Factory(fsAdapter),
		domain.WithThreads(viper.GetInt(parallelConfigKey)),
	)
	ui := controller.NewUI(cmd, viper.GetBool(tuiConfigKey) && controller.IsTTY(cmd.OutOrStdout()))

	return domain.NewWorkflow(
		adapter.NewReportStore(fsAdapter),
		adapter.NewProjectConfigStore(fsAdapter),
		ui,
		analyzer,
		domain.NewHeuristicEnricher(),
	)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode maps failed checks to 1 and every other error to 2.
func exitCode(err error) int {
	if errors.Is(err, ErrCriticalViolations) || errors.Is(err, ErrScoreBelowThreshold) {
		return exitViolations
	}

	return exitFatal
}
