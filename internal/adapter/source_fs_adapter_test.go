package adapter

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

func TestLocalSourceFSAdapter_Walk(t *testing.T) {
	t.Run("non recursive skips nested files", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "test_login.py"), "def test_a(): pass\n")

		nestedDir := filepath.Join(root, "pages")
		mustMkdir(t, nestedDir)
		writeTestFile(t, filepath.Join(nestedDir, "login_page.py"), "class LoginPage: pass\n")

		var visited []string
		err := adapter.Walk(context.Background(), m.Path(root), false, func(path string, _ fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			visited = append(visited, path)
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}

		if containsPath(visited, filepath.Join(nestedDir, "login_page.py")) {
			t.Fatalf("Walk() unexpectedly visited nested file when recursive is false")
		}

		if !containsPath(visited, filepath.Join(root, "test_login.py")) {
			t.Fatalf("Walk() did not visit top-level file")
		}
	})

	t.Run("recursive visits nested files", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		nestedDir := filepath.Join(root, "pages")
		mustMkdir(t, nestedDir)
		child := filepath.Join(nestedDir, "login_page.py")
		writeTestFile(t, child, "class LoginPage: pass\n")

		var visited []string
		err := adapter.Walk(context.Background(), m.Path(root), true, func(path string, _ fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			visited = append(visited, path)
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}

		if !containsPath(visited, child) {
			t.Fatalf("Walk() did not visit nested file when recursive")
		}
	})

	t.Run("cancelled context stops the walk", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := adapter.Walk(ctx, m.Path(t.TempDir()), true, func(string, fs.DirEntry, error) error {
			return nil
		})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Walk() error = %v, want context.Canceled", err)
		}
	})
}

func TestLocalSourceFSAdapter_ReadFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "test_login.py")
	content := "def test_login():\n    pass\n"
	writeTestFile(t, path, content)

	got, err := adapter.ReadFile(context.Background(), m.Path(path))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if string(got) != content {
		t.Fatalf("ReadFile() = %q, want %q", string(got), content)
	}
}

func TestLocalSourceFSAdapter_ReadFileTooLarge(t *testing.T) {
	adapter := &LocalSourceFSAdapter{maxFileSize: 16}

	path := filepath.Join(t.TempDir(), "big.py")
	writeTestFile(t, path, strings.Repeat("x", 17))

	_, err := adapter.ReadFile(context.Background(), m.Path(path))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("ReadFile() error = %v, want ErrFileTooLarge", err)
	}
}

func TestLocalSourceFSAdapter_FileInfo(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "main.py")
	writeTestFile(t, path, "print(1)\n")

	info, err := adapter.FileInfo(m.Path(path))
	if err != nil {
		t.Fatalf("FileInfo() error = %v", err)
	}

	if info.IsDir() {
		t.Fatalf("FileInfo() reported file as directory")
	}

	dirInfo, err := adapter.FileInfo(m.Path(root))
	if err != nil {
		t.Fatalf("FileInfo() error = %v", err)
	}

	if !dirInfo.IsDir() {
		t.Fatalf("FileInfo() reported directory as file")
	}
}

func TestLocalSourceFSAdapter_WriteFileCreatesParents(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	path := filepath.Join(t.TempDir(), "reports", "nested", "report.json")
	if err := adapter.WriteFile(m.Path(path), []byte("{}"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("WriteFile() did not create file: %v", err)
	}
}

func TestLocalSourceFSAdapter_PathHelpers(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	base := m.Path(filepath.Join(os.TempDir(), "project"))
	target := m.Path(filepath.Join(string(base), "tests", "ui", "test_login.py"))

	rel, err := adapter.RelPath(base, target)
	if err != nil {
		t.Fatalf("RelPath() error = %v", err)
	}

	if rel != "tests/ui/test_login.py" {
		t.Fatalf("RelPath() = %s, want tests/ui/test_login.py", rel)
	}

	joined := adapter.JoinPath("project", "pages", "login_page.py")
	if string(joined) != filepath.Join("project", "pages", "login_page.py") {
		t.Fatalf("JoinPath() = %s", joined)
	}
}

func writeTestFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("failed to create dir %s: %v", path, err)
	}
}

func containsPath(paths []string, target string) bool {
	for _, p := range paths {
		if p == target {
			return true
		}
	}

	return false
}
