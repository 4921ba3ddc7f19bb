package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"skiff/internal/ports"
)

// TestFileSystem provides real file system operations sandboxed within a
// temporary directory. All paths are resolved relative to the sandbox.
// Use this in tests that need to actually read/write overlay files.
// For unit tests that mock file system calls, use MockFileSystem instead.
type TestFileSystem struct {
	baseDir string
}

// NewTestFileSystem creates a sandboxed file system within a temporary
// directory. The directory is cleaned up when the test completes.
func NewTestFileSystem(t *testing.T) *TestFileSystem {
	t.Helper()
	return &TestFileSystem{baseDir: t.TempDir()}
}

// BaseDir returns the sandbox base directory path.
func (f *TestFileSystem) BaseDir() string {
	return f.baseDir
}

// resolvePath converts a path to be relative to the sandbox directory.
func (f *TestFileSystem) resolvePath(path string) string {
	cleanPath := filepath.Clean(path)
	if filepath.IsAbs(cleanPath) {
		cleanPath = cleanPath[1:]
	}
	return filepath.Join(f.baseDir, cleanPath)
}

func (f *TestFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(f.resolvePath(path))
}

func (f *TestFileSystem) WriteFile(path string, content []byte, _ ports.AccessMode) error {
	resolved := f.resolvePath(path)
	if err := os.MkdirAll(filepath.Dir(resolved), 0700); err != nil {
		return err
	}
	return os.WriteFile(resolved, content, 0600)
}

func (f *TestFileSystem) FileExists(path string) (bool, error) {
	_, err := os.Stat(f.resolvePath(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
