package checkers

import (
	"context"
	"io/fs"
	"log/slog"
	"strings"

	"tafscan.dev/pkg/tafscan/internal/adapter"
	"tafscan.dev/pkg/tafscan/internal/domain"
	m "tafscan.dev/pkg/tafscan/internal/model"
)

// maxLayerDepth bounds how deep below the root layer directories are
// looked for, so src/test/java/pages still counts.
const maxLayerDepth = 4

// Accepted directory names per layer.
var (
	testLayerDirs = map[string]bool{
		"test": true, "tests": true, "__tests__": true, "spec": true, "specs": true,
		"e2e": true, "features": true, "testcases": true, "test_cases": true,
	}
	pageLayerDirs = map[string]bool{
		"pages": true, "page_objects": true, "pageobjects": true, "page-objects": true,
		"screens": true, "pom": true,
	}
)

// StructureChecker verifies the project separates tests from page objects.
type StructureChecker struct {
	Base
	fs adapter.SourceFSAdapter
}

// NewStructureChecker creates the whole-project layout checker.
func NewStructureChecker(fsAdapter adapter.SourceFSAdapter) *StructureChecker {
	return &StructureChecker{Base: Base{name: "structure"}, fs: fsAdapter}
}

// CanCheck accepts no file: the rule only looks at the directory tree.
func (c *StructureChecker) CanCheck(m.Path) bool {
	return false
}

func (c *StructureChecker) Check(m.Path, *m.ParseResult, m.Classification) ([]m.Violation, error) {
	return nil, nil
}

// CheckProject reports one violation naming every missing layer directory.
func (c *StructureChecker) CheckProject(root m.Path) ([]m.Violation, error) {
	var hasTests, hasPages bool

	err := c.fs.Walk(context.Background(), root, true, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}

		rel, relErr := c.fs.RelPath(root, m.Path(path))
		if relErr != nil || rel == "." {
			return nil
		}

		name := strings.ToLower(d.Name())
		if domain.IsExcludedDir(name) || strings.Count(rel.Slash(), "/") >= maxLayerDepth {
			return fs.SkipDir
		}

		hasTests = hasTests || testLayerDirs[name]
		hasPages = hasPages || pageLayerDirs[name]

		if hasTests && hasPages {
			return fs.SkipAll
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	var missing []string
	if !hasTests {
		missing = append(missing, "test definition layer (tests/)")
	}

	if !hasPages {
		missing = append(missing, "page object layer (pages/)")
	}

	if len(missing) == 0 {
		return nil, nil
	}

	slog.Debug("Missing layer directories", "root", root, "missing", missing)

	return []m.Violation{m.NewViolation(m.ViolationMissingLayerStructure, root,
		m.WithMessage("Project is missing the %s", strings.Join(missing, " and the ")),
	)}, nil
}
