package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStorage stores objects as files under a base directory.
type LocalStorage struct {
	baseDir string
}

// NewLocal creates a local filesystem storage rooted at baseDir.
func NewLocal(baseDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage dir: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Upload writes the object to a temp file in the same directory and renames
// it into place, so readers never observe a partially written object.
func (s *LocalStorage) Upload(_ context.Context, key string, reader io.Reader, _ string) error {
	path := filepath.Join(s.baseDir, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err := io.Copy(f, reader); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *LocalStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.baseDir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *LocalStorage) Ping(_ context.Context) error {
	_, err := os.Stat(s.baseDir)
	return err
}
