package domain

import (
	"context"
	"fmt"
	"log/slog"

	"tafscan.dev/pkg/tafscan/internal/adapter"
	"tafscan.dev/pkg/tafscan/internal/controller"
	m "tafscan.dev/pkg/tafscan/internal/model"
)

// AnalyzeArgs contains the arguments for analysing a project.
type AnalyzeArgs struct {
	Root m.Path
	// Output, when set, receives the report (JSON, or YAML by extension).
	Output  m.Path
	Threads int
	// Suggest fills AISuggestion on every violation.
	Suggest bool
	// Exclude and Ignore extend the project's exclude_checks and
	// ignore_paths.
	Exclude []string
	Ignore  []string
}

// ViewArgs contains the arguments for displaying a saved report.
type ViewArgs struct {
	Report m.Path
}

// Workflow ties the analyzer to configuration, persistence and display.
type Workflow interface {
	Analyze(ctx context.Context, args AnalyzeArgs) (*m.Report, error)
	View(ctx context.Context, args ViewArgs) (*m.Report, error)
	Rules(ctx context.Context) error
}

type workflow struct {
	adapter.ReportStore
	adapter.ProjectConfigStore
	controller.UI
	analyzer Analyzer
	enricher Enricher
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	reportStore adapter.ReportStore,
	configStore adapter.ProjectConfigStore,
	ui controller.UI,
	analyzer Analyzer,
	enricher Enricher,
) Workflow {
	return &workflow{
		ReportStore:        reportStore,
		ProjectConfigStore: configStore,
		UI:                 ui,
		analyzer:           analyzer,
		enricher:           enricher,
	}
}

func (w *workflow) Analyze(ctx context.Context, args AnalyzeArgs) (*m.Report, error) {
	if err := w.Start(ctx, controller.WithAnalyzeMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return nil, err
	}
	defer w.Close(ctx)

	w.DisplayAnalysisStart(ctx, args.Root, args.Threads)

	cfg := w.Load(ctx, args.Root).Merge(m.ProjectConfig{
		ExcludeChecks: args.Exclude,
		IgnorePaths:   args.Ignore,
	})

	report, err := w.analyzer.Analyze(ctx, args.Root, cfg)
	if err != nil {
		slog.Error("Analysis failed", "root", args.Root, "error", err)
		return nil, fmt.Errorf("analyze %s: %w", args.Root, err)
	}

	if args.Suggest && w.enricher != nil {
		if err := w.enricher.Enrich(ctx, report); err != nil {
			slog.Warn("Enrichment failed, keeping plain report", "error", err)
		}
	}

	if args.Output != "" {
		if err := w.SaveReport(ctx, args.Output, report); err != nil {
			slog.Error("Failed to save report", "path", args.Output, "error", err)
			return report, fmt.Errorf("save report: %w", err)
		}
	}

	if err := w.DisplayReport(ctx, report); err != nil {
		return report, fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return report, nil
}

func (w *workflow) View(ctx context.Context, args ViewArgs) (*m.Report, error) {
	report, err := w.LoadReport(ctx, args.Report)
	if err != nil {
		return nil, err
	}

	if err := w.Start(ctx, controller.WithViewMode()); err != nil {
		return report, err
	}
	defer w.Close(ctx)

	if err := w.DisplayReport(ctx, report); err != nil {
		return report, fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return report, nil
}

func (w *workflow) Rules(ctx context.Context) error {
	return w.DisplayRules(ctx, m.AllViolationTypes())
}
