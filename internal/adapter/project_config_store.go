package adapter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

// Project configuration file names, in lookup order.
const (
	ProjectConfigYAML = ".tafscan.yaml"
	ProjectConfigTOML = ".tafscan.toml"
)

// ErrProjectConfigExists is returned by Save when the root already has a
// project configuration.
var ErrProjectConfigExists = errors.New("project config already exists")

// ProjectConfigStore loads the per-project configuration from the analyzed
// root.
type ProjectConfigStore interface {
	Load(ctx context.Context, root m.Path) m.ProjectConfig
}

// LocalProjectConfigStore reads .tafscan.yaml or .tafscan.toml through a
// SourceFSAdapter.
type LocalProjectConfigStore struct {
	fs SourceFSAdapter
}

// NewProjectConfigStore creates a store reading through fsAdapter.
func NewProjectConfigStore(fsAdapter SourceFSAdapter) *LocalProjectConfigStore {
	return &LocalProjectConfigStore{fs: fsAdapter}
}

// Load returns the project configuration. A missing, unreadable or
// malformed file yields the defaults; problems are logged, never returned.
func (s *LocalProjectConfigStore) Load(ctx context.Context, root m.Path) m.ProjectConfig {
	for _, name := range []string{ProjectConfigYAML, ProjectConfigTOML} {
		path := s.fs.JoinPath(string(root), name)

		data, err := s.fs.ReadFile(ctx, path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("Ignoring unreadable project config", "path", path, "error", err)
				return m.DefaultProjectConfig()
			}

			continue
		}

		cfg, err := decodeProjectConfig(name, data)
		if err != nil {
			slog.Warn("Ignoring malformed project config", "path", path, "error", err)
			return m.DefaultProjectConfig()
		}

		slog.Debug("Loaded project config", "path", path)

		return cfg
	}

	return m.DefaultProjectConfig()
}

func decodeProjectConfig(name string, data []byte) (m.ProjectConfig, error) {
	cfg := m.DefaultProjectConfig()

	var err error

	switch name {
	case ProjectConfigTOML:
		err = toml.Unmarshal(data, &cfg)
	default:
		err = yaml.Unmarshal(data, &cfg)
	}

	if err != nil {
		return m.ProjectConfig{}, fmt.Errorf("decode %s: %w", name, err)
	}

	return cfg, nil
}

// Save writes cfg as .tafscan.yaml in root. Existing YAML or TOML project
// configs are never overwritten.
func (s *LocalProjectConfigStore) Save(root m.Path, cfg m.ProjectConfig) (m.Path, error) {
	for _, name := range []string{ProjectConfigYAML, ProjectConfigTOML} {
		if _, err := s.fs.FileInfo(s.fs.JoinPath(string(root), name)); err == nil {
			return "", fmt.Errorf("%w: %s", ErrProjectConfigExists, name)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode project config: %w", err)
	}

	path := s.fs.JoinPath(string(root), ProjectConfigYAML)
	if err := s.fs.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write project config %s: %w", path, err)
	}

	return path, nil
}
