package domain

import (
	m "tafscan.dev/pkg/tafscan/internal/model"
)

// Checker is one independent rule family. Implementations must be safe for
// concurrent use: Check is called from several workers at once.
type Checker interface {
	// Name identifies the checker in logs.
	Name() string

	// CanCheck filters files by path before any classification is known.
	CanCheck(path m.Path) bool

	// Check inspects one parsed file. path is relative to the project root.
	Check(path m.Path, pr *m.ParseResult, cls m.Classification) ([]m.Violation, error)

	// CheckProject runs whole-project rules once per analysis.
	CheckProject(root m.Path) ([]m.Violation, error)
}

// Indexer is implemented by checkers that need to see every file before any
// file is checked. Index is called sequentially in sorted path order.
type Indexer interface {
	Index(path m.Path, pr *m.ParseResult, cls m.Classification)
}
