package session

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage abstracts the export directory: scan results are written,
// read back and removed by bare file name.
type Storage interface {
	// Save writes an export file and returns the path it landed at
	Save(filename string, data []byte) (string, error)

	// Get reads a previously written export file
	Get(filename string) ([]byte, error)

	// Delete removes an export file
	Delete(filename string) error
}

// LocalStorage keeps export files in a single directory on disk.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates the export directory if needed and returns a
// store rooted there
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// resolve maps a bare file name into the export directory
func (l *LocalStorage) resolve(filename string) string {
	return filepath.Join(l.basePath, filepath.Base(filename))
}

// Save writes an export file into the directory
func (l *LocalStorage) Save(filename string, data []byte) (string, error) {
	path := l.resolve(filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return path, nil
}

// Get reads an export file back
func (l *LocalStorage) Get(filename string) ([]byte, error) {
	data, err := os.ReadFile(l.resolve(filename))
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

// Delete removes an export file
func (l *LocalStorage) Delete(filename string) error {
	if err := os.Remove(l.resolve(filename)); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}
