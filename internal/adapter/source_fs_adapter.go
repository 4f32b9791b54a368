// Package adapter contains the filesystem and persistence adapters the
// analysis domain depends on.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

// MaxFileSize bounds every source read.
const MaxFileSize int64 = 10 << 20

// ErrFileTooLarge is returned by ReadFile for files above MaxFileSize.
var ErrFileTooLarge = errors.New("file exceeds size limit")

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when scanning user projects. It hides direct `os` access so the
// analyzer can be tested without touching the disk.
type SourceFSAdapter interface {
	// Walk traverses the provided root path. When recursive is false the
	// implementation should limit itself to the root directory (no sub-dirs).
	Walk(ctx context.Context, root m.Path, recursive bool, fn FilepathWalkFunc) error

	// ReadFile loads a file no larger than MaxFileSize.
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)

	// FileInfo returns metadata for a path so the domain can check existence or
	// distinguish between files and directories when necessary.
	FileInfo(path m.Path) (os.FileInfo, error)

	// WriteFile writes content to a file, creating parent directories.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// FilepathWalkFunc mirrors the callback shape used by filepath.WalkDir. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, d fs.DirEntry, err error) error

// LocalSourceFSAdapter backs SourceFSAdapter with the local disk.
type LocalSourceFSAdapter struct {
	maxFileSize int64
}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter using MaxFileSize.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{maxFileSize: MaxFileSize}
}

// Walk iterates over entries under root, optionally descending into
// subdirectories. It stops early when ctx is done.
func (a *LocalSourceFSAdapter) Walk(ctx context.Context, root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.WalkDir(rootStr, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			return fn(path, d, err)
		}

		if d.IsDir() && !recursive && path != rootStr {
			return filepath.SkipDir
		}

		return fn(path, d, nil)
	})
}

// ReadFile loads file contents from disk, refusing files above the limit
// before reading them.
func (a *LocalSourceFSAdapter) ReadFile(ctx context.Context, path m.Path) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// #nosec G304 - path comes from walking the analyzed project
	f, err := os.Open(string(path))
	if err != nil {
		return nil, err
	}

	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", path)
	}

	if info.Size() > a.maxFileSize {
		return nil, fmt.Errorf("%s (%d bytes): %w", path, info.Size(), ErrFileTooLarge)
	}

	// The file may grow between Stat and Read.
	data, err := io.ReadAll(io.LimitReader(f, a.maxFileSize+1))
	if err != nil {
		return nil, err
	}

	if int64(len(data)) > a.maxFileSize {
		return nil, fmt.Errorf("%s: %w", path, ErrFileTooLarge)
	}

	return data, nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	if dir := filepath.Dir(string(path)); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}

	return os.WriteFile(string(path), content, perm)
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(filepath.ToSlash(rel)), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
