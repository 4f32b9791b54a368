package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

// ReportStore persists analysis reports. The format follows the file
// extension: .yaml/.yml for YAML, anything else for JSON.
type ReportStore interface {
	SaveReport(ctx context.Context, path m.Path, report *m.Report) error
	LoadReport(ctx context.Context, path m.Path) (*m.Report, error)
}

type reportStore struct {
	fs SourceFSAdapter
}

// NewReportStore creates a ReportStore writing through fsAdapter.
func NewReportStore(fsAdapter SourceFSAdapter) ReportStore {
	return &reportStore{fs: fsAdapter}
}

func (s *reportStore) SaveReport(ctx context.Context, path m.Path, report *m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encodeReport(path, report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if err := s.fs.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}

	return nil
}

func (s *reportStore) LoadReport(ctx context.Context, path m.Path) (*m.Report, error) {
	data, err := s.fs.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}

	var report m.Report

	if isYAML(path) {
		err = yaml.Unmarshal(data, &report)
	} else {
		err = json.Unmarshal(data, &report)
	}

	if err != nil {
		return nil, fmt.Errorf("decode report %s: %w", path, err)
	}

	return &report, nil
}

func encodeReport(path m.Path, report *m.Report) ([]byte, error) {
	if isYAML(path) {
		var buf bytes.Buffer

		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)

		if err := enc.Encode(report); err != nil {
			return nil, err
		}

		if err := enc.Close(); err != nil {
			return nil, err
		}

		return buf.Bytes(), nil
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(data, '\n'), nil
}

func isYAML(path m.Path) bool {
	return path.Ext() == ".yaml" || path.Ext() == ".yml"
}
