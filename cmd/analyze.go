package cmd

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tafscan.dev/pkg/tafscan/internal/domain"
	m "tafscan.dev/pkg/tafscan/internal/model"
)

var (
	// ErrCriticalViolations is returned when the report has a CRITICAL
	// violation.
	ErrCriticalViolations = errors.New("critical violations found")
	// ErrScoreBelowThreshold is returned when the score is below --fail-under.
	ErrScoreBelowThreshold = errors.New("score below threshold")
)

var (
	outputFlag    string
	parallelFlag  int
	failUnderFlag int
	suggestFlag   bool
	tuiFlag       bool
	excludeFlag   []string
	ignoreFlag    []string
)

// analyzeCmd represents the analyze command.
var analyzeCmd = newAnalyzeCmd()

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Analyze a test automation project",
		Long: `Analyze the project rooted at path (default: current directory) and print
every architecture violation with the resulting compliance score.

The command fails when a CRITICAL violation is found or the score is below
--fail-under.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := m.Path(".")
			if len(args) == 1 {
				root = m.Path(args[0])
			}

			report, err := workflowFor(cmd).Analyze(cmd.Context(), domain.AnalyzeArgs{
				Root:    root,
				Output:  m.Path(viper.GetString(outputConfigKey)),
				Threads: threads(),
				Suggest: viper.GetBool(suggestConfigKey),
				Exclude: viper.GetStringSlice(excludeConfigKey),
				Ignore:  viper.GetStringSlice(ignoreConfigKey),
			})
			if err != nil {
				return err
			}

			return verdict(report, viper.GetInt(failUnderConfigKey))
		},
	}

	configureAnalyzeFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func configureAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputFlag, outputFlagName, "o", defaultOutput, "write the report to this file (.json, .yaml or .yml)")
	bindFlagToConfig(cmd.Flags().Lookup(outputFlagName), outputConfigKey)

	cmd.Flags().IntVarP(&parallelFlag, parallelFlagName, "p", defaultParallel, "number of parallel workers (0 = number of CPUs)")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)

	cmd.Flags().IntVar(&failUnderFlag, failUnderFlagName, defaultFailUnder, "fail when the score is below this value")
	bindFlagToConfig(cmd.Flags().Lookup(failUnderFlagName), failUnderConfigKey)

	cmd.Flags().BoolVar(&suggestFlag, suggestFlagName, defaultSuggest, "add a fix suggestion to every violation")
	bindFlagToConfig(cmd.Flags().Lookup(suggestFlagName), suggestConfigKey)

	cmd.Flags().BoolVar(&tuiFlag, tuiFlagName, defaultTUI, "browse the report interactively")
	bindFlagToConfig(cmd.Flags().Lookup(tuiFlagName), tuiConfigKey)

	cmd.Flags().StringArrayVarP(&excludeFlag, excludeFlagName, "x", nil, "violation type to suppress (can be repeated)")
	bindFlagToConfig(cmd.Flags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.Flags().StringArrayVar(&ignoreFlag, ignoreFlagName, nil, "glob of paths to skip (can be repeated)")
	bindFlagToConfig(cmd.Flags().Lookup(ignoreFlagName), ignoreConfigKey)
}

func threads() int {
	if n := viper.GetInt(parallelConfigKey); n > 0 {
		return n
	}

	return runtime.NumCPU()
}

// verdict turns a finished report into the command result.
func verdict(report *m.Report, failUnder int) error {
	if report.HasCritical() {
		return fmt.Errorf("%w: %d violation(s), score %d", ErrCriticalViolations, len(report.Violations), report.Score)
	}

	if failUnder > 0 && report.Score < failUnder {
		return fmt.Errorf("%w: %d < %d", ErrScoreBelowThreshold, report.Score, failUnder)
	}

	return nil
}
