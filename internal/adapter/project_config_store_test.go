package adapter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

func TestLocalProjectConfigStore_Load(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  m.ProjectConfig
	}{
		{
			name: "missing config yields defaults",
			want: m.DefaultProjectConfig(),
		},
		{
			name: "yaml config",
			files: map[string]string{
				ProjectConfigYAML: "exclude_checks:\n  - POOR_TEST_NAMING\nignore_paths:\n  - \"legacy/**\"\n",
			},
			want: m.ProjectConfig{
				ExcludeChecks: []string{"POOR_TEST_NAMING"},
				IgnorePaths:   []string{"legacy/**"},
			},
		},
		{
			name: "toml config",
			files: map[string]string{
				ProjectConfigTOML: "api_test_patterns = [\"**/contract/**\"]\n",
			},
			want: m.ProjectConfig{APITestPatterns: []string{"**/contract/**"}},
		},
		{
			name: "yaml wins over toml",
			files: map[string]string{
				ProjectConfigYAML: "exclude_checks: [HARDCODED_SLEEP]\n",
				ProjectConfigTOML: "exclude_checks = [\"POOR_TEST_NAMING\"]\n",
			},
			want: m.ProjectConfig{ExcludeChecks: []string{"HARDCODED_SLEEP"}},
		},
		{
			name: "malformed config degrades to defaults",
			files: map[string]string{
				ProjectConfigYAML: "exclude_checks: [unterminated\n",
			},
			want: m.DefaultProjectConfig(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			for name, content := range tt.files {
				writeTestFile(t, filepath.Join(root, name), content)
			}

			store := NewProjectConfigStore(NewLocalSourceFSAdapter())

			assert.Equal(t, tt.want, store.Load(context.Background(), m.Path(root)))
		})
	}
}

func TestLocalProjectConfigStore_Save(t *testing.T) {
	root := t.TempDir()
	store := NewProjectConfigStore(NewLocalSourceFSAdapter())
	cfg := m.ProjectConfig{
		ExcludeChecks: []string{"POOR_TEST_NAMING"},
		IgnorePaths:   []string{"legacy/**"},
	}

	path, err := store.Save(m.Path(root), cfg)
	require.NoError(t, err)
	assert.Equal(t, m.Path(filepath.Join(root, ProjectConfigYAML)), path)

	loaded := store.Load(context.Background(), m.Path(root))
	assert.Equal(t, cfg.ExcludeChecks, loaded.ExcludeChecks)
	assert.Equal(t, cfg.IgnorePaths, loaded.IgnorePaths)

	_, err = store.Save(m.Path(root), cfg)
	require.ErrorIs(t, err, ErrProjectConfigExists)
}

func TestLocalProjectConfigStore_SaveKeepsTOML(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, ProjectConfigTOML), "ignore_paths = [\"old/**\"]\n")

	_, err := NewProjectConfigStore(NewLocalSourceFSAdapter()).Save(m.Path(root), m.DefaultProjectConfig())
	require.ErrorIs(t, err, ErrProjectConfigExists)
}
