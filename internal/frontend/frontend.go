// Package frontend turns source files of every supported language into the
// language-neutral ParseResult consumed by the classifier and the checkers.
package frontend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

// ErrNoCGO is recorded as a parse error when the tree-sitter front-ends are
// compiled out.
var ErrNoCGO = errors.New("tree-sitter front-ends require CGO")

// Frontend parses one language.
type Frontend interface {
	// Language is the tag written to every ParseResult.
	Language() m.Language

	// Extensions lists the lower-cased file extensions handled, with dot.
	Extensions() []string

	// Parse never fails: syntax errors and internal faults are reported
	// through ParseResult.ParseErrors on an otherwise empty result.
	Parse(ctx context.Context, src []byte) *m.ParseResult
}

// FileReader is the bounded read the registry needs from the filesystem.
type FileReader interface {
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)
}

// Registry dispatches files to front-ends by extension.
type Registry struct {
	byExt map[string]Frontend
}

// NewRegistry builds a registry. Later front-ends win on extension clashes.
func NewRegistry(frontends ...Frontend) *Registry {
	r := &Registry{byExt: make(map[string]Frontend)}
	for _, fe := range frontends {
		for _, ext := range fe.Extensions() {
			r.byExt[ext] = fe
		}
	}

	return r
}

// DefaultRegistry holds every built-in front-end.
func DefaultRegistry() *Registry {
	frontends := treeSitterFrontends()
	frontends = append(frontends, NewGherkin())

	return NewRegistry(frontends...)
}

// ForPath returns the front-end for the file extension of path.
func (r *Registry) ForPath(path m.Path) (Frontend, bool) {
	fe, ok := r.byExt[path.Ext()]
	return fe, ok
}

// Supported reports whether some front-end handles path.
func (r *Registry) Supported(path m.Path) bool {
	_, ok := r.ForPath(path)
	return ok
}

// Extensions returns every registered extension, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}

	slices.Sort(exts)

	return exts
}

// ParseFile reads path through reader and parses it. Unsupported, unreadable
// or oversized files degrade to an empty result with one parse error. The
// source is returned alongside so callers can classify without a second read;
// it is nil when the read failed.
func (r *Registry) ParseFile(ctx context.Context, reader FileReader, path m.Path) (*m.ParseResult, []byte) {
	fe, ok := r.ForPath(path)
	if !ok {
		return m.NewErrorResult(m.LangUnknown, fmt.Errorf("no front-end for %s", path)), nil
	}

	src, err := reader.ReadFile(ctx, path)
	if err != nil {
		slog.Warn("Skipping unreadable source file", "path", path, "error", err)
		return m.NewErrorResult(fe.Language(), fmt.Errorf("read %s: %w", path, err)), nil
	}

	return Parse(ctx, fe, src), src
}

// Parse runs fe with panic isolation.
func Parse(ctx context.Context, fe Frontend, src []byte) (result *m.ParseResult) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Front-end panicked", "language", fe.Language(), "panic", rec)
			result = m.NewErrorResult(fe.Language(), fmt.Errorf("internal parser fault: %v", rec))
		}
	}()

	if err := ctx.Err(); err != nil {
		return m.NewErrorResult(fe.Language(), err)
	}

	result = fe.Parse(ctx, src)
	if result == nil {
		result = &m.ParseResult{Language: fe.Language()}
	}

	return result
}
