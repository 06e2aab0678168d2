// Package filex holds small filesystem helpers used by the local media store.
package filex

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrTooLarge is returned by WriteFile when the source exceeds the limit.
var ErrTooLarge = errors.New("file too large")

// EnsureSubdDir creates dirName under the working directory, or dirName
// itself when it is absolute, and returns the absolute path.
func EnsureSubdDir(dirName string) (string, error) {
	dir := dirName
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dirName)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// WriteFile copies at most limit bytes from r into path. The content goes to
// a temporary file in the same directory first and is renamed into place, so
// a failed write leaves nothing behind.
func WriteFile(path string, r io.Reader, limit int64) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o770); err != nil {
		return 0, fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	n, err := io.Copy(tmp, io.LimitReader(r, limit+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	if n > limit {
		return 0, ErrTooLarge
	}

	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return 0, fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("rename %s: %w", path, err)
	}
	return n, nil
}
