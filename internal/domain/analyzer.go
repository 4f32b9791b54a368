package domain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"runtime"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"tafscan.dev/pkg/tafscan/internal/adapter"
	"tafscan.dev/pkg/tafscan/internal/frontend"
	m "tafscan.dev/pkg/tafscan/internal/model"
)

// ErrInvalidRoot is returned when the project root is missing or is not a
// directory.
var ErrInvalidRoot = errors.New("invalid project root")

// excludedDirs are never descended into during discovery.
var excludedDirs = map[string]bool{
	".git":          true,
	".hg":           true,
	".svn":          true,
	"node_modules":  true,
	"vendor":        true,
	"__pycache__":   true,
	".venv":         true,
	"venv":          true,
	".tox":          true,
	"build":         true,
	"dist":          true,
	"target":        true,
	"bin":           true,
	"obj":           true,
	".idea":         true,
	".vscode":       true,
	".pytest_cache": true,
	".mypy_cache":   true,
	"coverage":      true,
	".gradle":       true,
}

// IsExcludedDir reports whether discovery skips directories with this name.
func IsExcludedDir(name string) bool {
	return excludedDirs[name]
}

// Analyzer runs the whole pipeline for one project root.
type Analyzer interface {
	Analyze(ctx context.Context, root m.Path, cfg m.ProjectConfig) (*m.Report, error)
}

// CheckerFactory builds a fresh checker set. It is called once per analysis
// so run-scoped registries never leak between runs.
type CheckerFactory func() []Checker

// AnalyzerOption customises an Analyzer.
type AnalyzerOption func(*analyzer)

// WithThreads bounds the worker pool. Values below one mean runtime.NumCPU.
func WithThreads(threads int) AnalyzerOption {
	return func(a *analyzer) {
		if threads > 0 {
			a.threads = threads
		}
	}
}

type analyzer struct {
	fsAdapter   adapter.SourceFSAdapter
	frontends   *frontend.Registry
	newCheckers CheckerFactory
	threads     int
}

// NewAnalyzer constructs an Analyzer reading through fsAdapter and parsing
// with the front-ends in registry.
func NewAnalyzer(fsAdapter adapter.SourceFSAdapter, registry *frontend.Registry, newCheckers CheckerFactory, opts ...AnalyzerOption) Analyzer {
	a := &analyzer{
		fsAdapter:   fsAdapter,
		frontends:   registry,
		newCheckers: newCheckers,
		threads:     runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// analyzedFile is the per-file state shared between the phases.
type analyzedFile struct {
	path   m.Path // relative, slash separated
	parsed *m.ParseResult
	class  m.Classification
}

func (a *analyzer) Analyze(ctx context.Context, root m.Path, cfg m.ProjectConfig) (*m.Report, error) {
	start := time.Now()

	if err := a.validateRoot(root); err != nil {
		return nil, err
	}

	paths, err := a.discover(ctx, root, cfg.IgnorePaths)
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}

	slog.Info("Discovered source files", "root", root, "count", len(paths))

	files, err := a.parseAll(ctx, root, paths, NewClassifier(cfg.APITestPatterns))
	if err != nil {
		return nil, err
	}

	checkers := a.newCheckers()

	for _, file := range files {
		for _, checker := range checkers {
			if indexer, ok := checker.(Indexer); ok && checker.CanCheck(file.path) {
				indexer.Index(file.path, file.parsed, file.class)
			}
		}
	}

	violations, err := a.checkAll(ctx, files, checkers)
	if err != nil {
		return nil, err
	}

	report := m.NewReport(uuid.NewString(), root)
	report.FilesAnalyzed = len(files)

	for _, fileViolations := range violations {
		report.Add(fileViolations...)
	}

	// A project without source files carries no evidence either way.
	if len(files) > 0 {
		for _, checker := range checkers {
			report.Add(safeCheckProject(checker, root)...)
		}
	}

	report.Filter(cfg.ExcludedTypes())
	report.Sort()
	report.CalculateScore()
	report.ExecutionTimeSeconds = time.Since(start).Seconds()

	slog.Info("Analysis finished", "root", root, "files", report.FilesAnalyzed,
		"violations", len(report.Violations), "score", report.Score)

	return report, nil
}

func (a *analyzer) validateRoot(root m.Path) error {
	info, err := a.fsAdapter.FileInfo(root)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidRoot, root, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, root)
	}

	return nil
}

// discover returns the supported files under root as sorted relative paths.
func (a *analyzer) discover(ctx context.Context, root m.Path, ignore []string) ([]m.Path, error) {
	var paths []m.Path

	err := a.fsAdapter.Walk(ctx, root, true, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("Skipping unreadable path", "path", path, "error", err)
			return nil
		}

		rel, relErr := a.fsAdapter.RelPath(root, m.Path(path))
		if relErr != nil {
			slog.Warn("Skipping path outside root", "path", path, "error", relErr)
			return nil
		}

		if d.IsDir() {
			if rel != "." && (excludedDirs[d.Name()] || ignored(rel, ignore)) {
				return fs.SkipDir
			}

			return nil
		}

		if !d.Type().IsRegular() || ignored(rel, ignore) || !a.frontends.Supported(rel) {
			return nil
		}

		paths = append(paths, rel)

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(paths)

	return paths, nil
}

func ignored(rel m.Path, patterns []string) bool {
	for _, pattern := range patterns {
		ok, err := doublestar.Match(pattern, rel.Slash())
		if err != nil {
			slog.Warn("Invalid ignore_paths glob", "pattern", pattern, "error", err)
			continue
		}

		if ok {
			return true
		}
	}

	return false
}

// parseAll parses and classifies every file with a bounded worker pool.
// Results keep the order of paths.
func (a *analyzer) parseAll(ctx context.Context, root m.Path, paths []m.Path, classifier Classifier) ([]analyzedFile, error) {
	files := make([]analyzedFile, len(paths))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(a.threads)

	for i, rel := range paths {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			files[i] = a.parseFile(groupCtx, root, rel, classifier)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("parse files: %w", err)
	}

	return files, nil
}

func (a *analyzer) parseFile(ctx context.Context, root, rel m.Path, classifier Classifier) analyzedFile {
	parsed, src := a.frontends.ParseFile(ctx, a.fsAdapter, a.fsAdapter.JoinPath(string(root), string(rel)))
	if parsed.HasErrors() {
		slog.Debug("Parse errors", "path", rel, "errors", parsed.ParseErrors)
	}

	return analyzedFile{
		path:   rel,
		parsed: parsed,
		class:  classifier.Classify(rel, src, parsed),
	}
}

// checkAll runs every applicable checker on every file. Violations are
// returned per file in the order of files.
func (a *analyzer) checkAll(ctx context.Context, files []analyzedFile, checkers []Checker) ([][]m.Violation, error) {
	violations := make([][]m.Violation, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(a.threads)

	for i, file := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			for _, checker := range checkers {
				if !checker.CanCheck(file.path) {
					continue
				}

				violations[i] = append(violations[i], safeCheck(checker, file)...)
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("check files: %w", err)
	}

	return violations, nil
}

// safeCheck isolates one checker on one file: errors and panics are logged
// and yield no violations.
func safeCheck(checker Checker, file analyzedFile) (violations []m.Violation) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Checker panicked", "checker", checker.Name(), "path", file.path, "panic", rec)
			violations = nil
		}
	}()

	violations, err := checker.Check(file.path, file.parsed, file.class)
	if err != nil {
		slog.Error("Checker failed", "checker", checker.Name(), "path", file.path, "error", err)
		return nil
	}

	return violations
}

func safeCheckProject(checker Checker, root m.Path) (violations []m.Violation) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Project checker panicked", "checker", checker.Name(), "root", root, "panic", rec)
			violations = nil
		}
	}()

	violations, err := checker.CheckProject(root)
	if err != nil {
		slog.Error("Project checker failed", "checker", checker.Name(), "root", root, "error", err)
		return nil
	}

	return violations
}
