package store

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// File is a DraftStore backed by one file per key under a directory.
// Keys are path-escaped, so namespaced keys like "ab12/feedbackDraft"
// map to a single flat filename.
type File struct {
	dir string
}

// NewFile creates a file-backed draft store, creating the directory
// if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create draft directory: %w", err)
	}
	return &File{dir: dir}, nil
}

// Save writes the value for key to its file
func (f *File) Save(key, value string) error {
	if err := os.WriteFile(f.path(key), []byte(value), 0644); err != nil {
		return fmt.Errorf("failed to write draft %s: %w", key, err)
	}
	return nil
}

// Load reads the value for key, reporting absence via ok
func (f *File) Load(key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read draft %s: %w", key, err)
	}
	return string(data), true, nil
}

// Clear removes the file for key. A missing file is not an error.
func (f *File) Clear(key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove draft %s: %w", key, err)
	}
	return nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key)+".draft")
}
