package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

// SimpleUI implements UI using cobra Command's output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayAnalysisStart announces the analysis.
func (s *SimpleUI) DisplayAnalysisStart(ctx context.Context, root m.Path, threads int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Analyzing %s with %d worker(s)\n", root, threads)
}

// DisplayReport prints the violation table, the severity breakdown and the
// score.
func (s *SimpleUI) DisplayReport(ctx context.Context, report *m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if report == nil {
		return fmt.Errorf("no report to display")
	}

	if len(report.Violations) == 0 {
		s.printf("\nNo violations found in %d file(s)\n", report.FilesAnalyzed)
	} else {
		s.printf("\n%s", renderViolationTable(report.Violations))
	}

	s.printf("\n%s\n", renderSummary(report))
	s.printf("Files analyzed: %d  Time: %.2fs\n", report.FilesAnalyzed, report.ExecutionTimeSeconds)
	s.printf("Score: %s\n", renderScore(report.Score))

	return nil
}

// DisplayRules prints the violation taxonomy.
func (s *SimpleUI) DisplayRules(ctx context.Context, types []m.ViolationType) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s", renderRulesTable(types))

	return nil
}

func renderViolationTable(violations []m.Violation) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Severity", "Location", "Type", "Message"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
	})

	for _, v := range violations {
		table.Append([]string{renderSeverity(v.Severity), v.Location(), string(v.Type), v.Message})
	}

	table.SetFooter([]string{"", "", "Total", fmt.Sprintf("%d", len(violations))})

	table.Render()

	return tableBuffer.String()
}

func renderRulesTable(types []m.ViolationType) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Type", "Severity", "Penalty", "Description"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT,
	})

	for _, vt := range types {
		severity := vt.Severity()
		table.Append([]string{string(vt), renderSeverity(severity), fmt.Sprintf("-%d", severity.Penalty()), vt.Description()})
	}

	table.Render()

	return tableBuffer.String()
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
