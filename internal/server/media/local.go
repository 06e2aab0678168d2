package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/diarify/internal/filex"
)

// LocalStore keeps images below a directory that is served as /media.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	abs, err := filex.EnsureSubdDir(dir)
	if err != nil {
		return nil, err
	}
	return &LocalStore{dir: abs}, nil
}

// Dir is the absolute root directory.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) path(key string) (string, error) {
	rel, err := relative(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, filepath.FromSlash(rel)), nil
}

func (s *LocalStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	n, err := filex.WriteFile(p, body, size)
	if err != nil {
		return err
	}
	if n != size {
		_ = os.Remove(p)
		return fmt.Errorf("short write for %s: %d of %d bytes", key, n, size)
	}
	return nil
}

// Delete removes the file. A missing file is not an error.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
