package checkers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tafscan.dev/pkg/tafscan/internal/adapter"
	m "tafscan.dev/pkg/tafscan/internal/model"
)

func mkdirs(t *testing.T, dirs ...string) m.Path {
	t.Helper()

	root := t.TempDir()
	for _, dir := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0o755))
	}

	return m.Path(root)
}

func TestStructureChecker(t *testing.T) {
	tests := []struct {
		name        string
		dirs        []string
		wantMissing []string
	}{
		{
			name:        "flat project misses both layers",
			dirs:        []string{"utils"},
			wantMissing: []string{"test definition layer", "page object layer"},
		},
		{
			name:        "tests only",
			dirs:        []string{"tests"},
			wantMissing: []string{"page object layer"},
		},
		{
			name:        "pages only",
			dirs:        []string{"src/page_objects"},
			wantMissing: []string{"test definition layer"},
		},
		{
			name: "maven layout",
			dirs: []string{"src/test/java/pages"},
		},
		{
			name: "layers found",
			dirs: []string{"e2e", "e2e/pages"},
		},
		{
			name:        "vendored layers do not count",
			dirs:        []string{"node_modules/lib/tests", "node_modules/lib/pages"},
			wantMissing: []string{"test definition layer", "page object layer"},
		},
		{
			name:        "too deep",
			dirs:        []string{"tests", "a/b/c/d/e/pages"},
			wantMissing: []string{"page object layer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := mkdirs(t, tt.dirs...)

			violations, err := NewStructureChecker(adapter.NewLocalSourceFSAdapter()).CheckProject(root)
			require.NoError(t, err)

			if len(tt.wantMissing) == 0 {
				assert.Empty(t, violations)
				return
			}

			require.Len(t, violations, 1)

			v := violations[0]
			assert.Equal(t, m.ViolationMissingLayerStructure, v.Type)
			assert.Equal(t, m.SeverityCritical, v.Severity)
			assert.Equal(t, root, v.FilePath)
			assert.Zero(t, v.LineNumber)

			for _, part := range tt.wantMissing {
				assert.Contains(t, v.Message, part)
			}
		})
	}
}
