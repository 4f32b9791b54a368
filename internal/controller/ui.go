// Package controller renders analysis reports for humans.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeAnalyze StartMode = iota
	ModeView
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithAnalyzeMode sets the UI to live analysis mode.
func WithAnalyzeMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeAnalyze
	}
}

// WithViewMode sets the UI to browse a saved report.
func WithViewMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeView
	}
}

// UI displays analysis progress and reports.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayAnalysisStart(ctx context.Context, root m.Path, threads int)
	DisplayReport(ctx context.Context, report *m.Report) error
	DisplayRules(ctx context.Context, types []m.ViolationType) error
}

// NewUI returns the interactive TUI when useTUI is set and the plain
// SimpleUI otherwise.
func NewUI(cmd *cobra.Command, useTUI bool) UI {
	if useTUI {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
