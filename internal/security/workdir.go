// Package security confines the files qpasswd reads and writes to the
// working directory, so a --in or --out argument cannot reach outside it.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const FilePermSecure = 0600 // Decrypted output: owner rw only

var (
	ErrPathEscapes  = errors.New("path escapes working directory")
	ErrAbsolutePath = errors.New("absolute paths are not allowed")
	ErrEmptyPath    = errors.New("empty path not allowed")
)

// WorkDir performs file operations rooted at a directory using os.Root
type WorkDir struct {
	root *os.Root
	path string
}

// Open roots a WorkDir at dir
func Open(dir string) (*WorkDir, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	root, err := os.OpenRoot(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open working directory: %w", err)
	}

	return &WorkDir{root: root, path: absPath}, nil
}

// Close releases the directory handle
func (w *WorkDir) Close() error {
	if w.root != nil {
		return w.root.Close()
	}
	return nil
}

// Path returns the absolute directory path
func (w *WorkDir) Path() string {
	return w.path
}

// Normalize validates a user-supplied path and returns it cleaned and
// relative to the working directory.
func (w *WorkDir) Normalize(userPath string) (string, error) {
	if userPath == "" {
		return "", ErrEmptyPath
	}

	if filepath.IsAbs(userPath) {
		rel, err := filepath.Rel(w.path, userPath)
		if err != nil || !filepath.IsLocal(rel) {
			return "", fmt.Errorf("%w: %s", ErrAbsolutePath, userPath)
		}
		userPath = rel
	}

	// Rejects escaping paths and reserved names
	if !filepath.IsLocal(userPath) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, userPath)
	}

	return filepath.Clean(userPath), nil
}

// ReadFile reads a file inside the working directory
func (w *WorkDir) ReadFile(userPath string) ([]byte, error) {
	p, err := w.Normalize(userPath)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	return w.root.ReadFile(p)
}

// WriteFile writes data with owner-only permissions, creating parent
// directories as needed.
func (w *WorkDir) WriteFile(userPath string, data []byte) error {
	p, err := w.Normalize(userPath)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	if dir := filepath.Dir(p); dir != "." {
		if err := w.root.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return w.root.WriteFile(p, data, FilePermSecure)
}

// Exists reports whether the path names an existing file
func (w *WorkDir) Exists(userPath string) bool {
	p, err := w.Normalize(userPath)
	if err != nil {
		return false
	}
	_, err = w.root.Stat(p)
	return err == nil
}
