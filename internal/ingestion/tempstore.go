package ingestion

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// TempFile is a transient file opened for writing.
type TempFile interface {
	io.Writer
	io.Closer
	Name() string
}

// TempStore creates and removes transient files.
type TempStore interface {
	Create(suffix string) (TempFile, error)
	Remove(path string) error
}

// OSTempStore creates files under Dir, or os.TempDir when Dir is empty.
type OSTempStore struct {
	Dir string
}

// Create opens a new file with a random name ending in suffix. The file is
// created exclusively so two uploads never share a path.
func (s OSTempStore) Create(suffix string) (TempFile, error) {
	dir := s.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	name := filepath.Join(dir, "upload-"+uuid.NewString()+suffix)
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create transient file: %w", err)
	}
	return f, nil
}

// Remove deletes path. A path that is already gone is not an error.
func (OSTempStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove transient file: %w", err)
	}
	return nil
}
