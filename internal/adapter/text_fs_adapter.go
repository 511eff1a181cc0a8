// Package adapter contains infrastructure adapters for the optilabel CLI:
// text files, LLM backends, the code executor and persistent stores.
package adapter

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	m "github.com/mouse-blink/optilabel/internal/model"
)

// TextFSAdapter abstracts the filesystem operations the domain relies on for
// reference labels, counter files, reports and execution workspaces. It hides
// direct `os` access so the workflow logic can be tested without the disk.
//
//nolint:interfacebloat // A richer interface keeps workflow logic decoupled from os/fs.
type TextFSAdapter interface {
	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// HashBytes returns a stable SHA-256 fingerprint of content.
	HashBytes(content []byte) string

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path m.Path) error

	// ReadDir lists the regular files directly under path.
	ReadDir(path m.Path) ([]m.Path, error)

	// CreateTempDir creates a temporary directory.
	CreateTempDir(pattern string) (m.Path, error)

	// RemoveAll removes a directory and all its contents.
	RemoveAll(path m.Path) error

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// LocalTextFSAdapter implements TextFSAdapter on the local disk.
type LocalTextFSAdapter struct{}

// NewLocalTextFSAdapter constructs a LocalTextFSAdapter.
func NewLocalTextFSAdapter() *LocalTextFSAdapter {
	return &LocalTextFSAdapter{}
}

// ReadFile loads file contents from disk.
func (a *LocalTextFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	// #nosec G304 - paths come from the user's own configuration
	return os.ReadFile(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalTextFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// HashBytes returns the hex SHA-256 of content.
func (a *LocalTextFSAdapter) HashBytes(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}

// MkdirAll creates path with 0o750 permissions.
func (a *LocalTextFSAdapter) MkdirAll(path m.Path) error {
	return os.MkdirAll(string(path), 0o750)
}

// ReadDir returns the regular files under path, sorted by name.
func (a *LocalTextFSAdapter) ReadDir(path m.Path) ([]m.Path, error) {
	entries, err := os.ReadDir(string(path))
	if err != nil {
		return nil, err
	}

	files := make([]m.Path, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		files = append(files, m.Path(filepath.Join(string(path), entry.Name())))
	}

	return files, nil
}

// CreateTempDir creates a temporary directory.
func (a *LocalTextFSAdapter) CreateTempDir(pattern string) (m.Path, error) {
	tmpDir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return "", err
	}

	return m.Path(tmpDir), nil
}

// RemoveAll removes a directory and all its contents.
func (a *LocalTextFSAdapter) RemoveAll(path m.Path) error {
	return os.RemoveAll(string(path))
}

// JoinPath joins path elements into a single path.
func (a *LocalTextFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
