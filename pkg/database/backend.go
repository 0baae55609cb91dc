package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Backend stores raw document bytes by name. Implementations need no locking of their
// own; the Store serializes access per document name.
type Backend interface {
	Name() string
	// Read returns ErrNoDocument when nothing is stored under name.
	Read(ctx context.Context, name string) ([]byte, error)
	// Write must replace the stored bytes atomically: readers see the old or the new
	// contents, never a mix.
	Write(ctx context.Context, name string, data []byte) error
}

// FileBackend keeps each document as <dir>/<name>.json.
type FileBackend struct {
	dir string
}

// NewFileBackend creates dir if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", dir, err)
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) Name() string { return "file" }

// Path returns the file backing a document.
func (b *FileBackend) Path(name string) string {
	return filepath.Join(b.dir, name+".json")
}

func (b *FileBackend) Read(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(b.Path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoDocument
	}
	return data, err
}

// Write stages the bytes in a temp file next to the target and renames it into place.
func (b *FileBackend) Write(_ context.Context, name string, data []byte) error {
	tmp, err := os.CreateTemp(b.dir, name+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, b.Path(name)); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
