package filex

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureSubdDir_CreatesDirectoryInCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureSubdDir("media")
	require.NoError(t, err)

	// macOS temp dirs resolve through /private.
	want, err := filepath.EvalSymlinks(filepath.Join(tmp, "media"))
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	require.Equal(t, want, gotResolved)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		require.Equal(t, os.FileMode(0o700), perm&0o700)
	}
}

func TestEnsureSubdDir_Absolute(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	got, err := EnsureSubdDir(dir)
	require.NoError(t, err)
	require.Equal(t, dir, got)
	require.DirExists(t, dir)
}

func TestEnsureSubdDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	first, err := EnsureSubdDir("media")
	require.NoError(t, err)

	second, err := EnsureSubdDir("media")
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestEnsureSubdDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	require.NoError(t, os.WriteFile("media", []byte("x"), 0o660))

	_, err := EnsureSubdDir("media")
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uploads", "diary", "x.png")

	n, err := WriteFile(path, strings.NewReader("hello"), 5)
	require.NoError(t, err)
	require.Equal(t, int64(5), n)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello", string(b))
}

func TestWriteFile_TooLargeLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.png")

	_, err := WriteFile(path, strings.NewReader("hello!"), 5)
	require.ErrorIs(t, err, ErrTooLarge)
	require.NoFileExists(t, path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestWriteFile_ReadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.png")

	_, err := WriteFile(path, failingReader{}, 5)
	require.ErrorContains(t, err, "read failed")
	require.NoFileExists(t, path)
}
