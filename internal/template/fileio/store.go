// Package fileio provides the whole-file read/write primitive shared by the
// transformation components.
package fileio

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/tacogips/drvgen/internal/debug"
	"github.com/tacogips/drvgen/internal/template/model"
)

// Store reads and writes whole files.
type Store interface {
	// ReadFile returns the full content of path.
	ReadFile(path string) (string, error)

	// WriteFile replaces the full content of path, creating parent
	// directories if needed.
	WriteFile(path string, content string) error

	// Exists checks if a file exists at the given path.
	Exists(path string) bool
}

// FileStore implements Store on the local filesystem.
type FileStore struct{}

// NewFileStore creates a new FileStore.
func NewFileStore() Store {
	return &FileStore{}
}

// ReadFile reads path. A missing file is reported as model.NotFound, any
// other failure as model.IOError.
func (s *FileStore) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", model.NewNotFoundError(path, err)
		}
		return "", model.NewIOError(path, "failed to read file", err)
	}
	debug.Debug("[fileio] Read %s (%d bytes)", path, len(data))
	return string(data), nil
}

// WriteFile writes content atomically using a temporary file and rename.
// The mode of an existing file is kept; new files get 0644.
func (s *FileStore) WriteFile(path string, content string) error {
	debug.Debug("[fileio] Writing file: %s (size: %d bytes)", path, len(content))

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return model.NewIOError(path, "failed to create parent directory", err)
		}
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	// Unique suffix so parallel writers in the same directory never share a temp file.
	tempFile := path + ".tmp-" + uuid.NewString()
	f, err := os.OpenFile(tempFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return model.NewIOError(path, "failed to create temporary file", err)
	}

	_, err = f.WriteString(content)
	closeErr := f.Close()

	if err != nil {
		_ = os.Remove(tempFile)
		return model.NewIOError(path, "failed to write file content", err)
	}
	if closeErr != nil {
		_ = os.Remove(tempFile)
		return model.NewIOError(path, "failed to close file", closeErr)
	}

	if err := os.Rename(tempFile, path); err != nil {
		_ = os.Remove(tempFile)
		return model.NewIOError(path, "failed to rename temporary file", err)
	}

	debug.Debug("[fileio] File written successfully: %s", path)
	return nil
}

// Exists checks if a file or directory exists at the given path.
func (s *FileStore) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
