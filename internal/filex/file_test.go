package filex

import (
	"os"
	"path/filepath"
	"runtime"
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

	got, err := EnsureSubdDir("downloads")
	require.NoError(t, err)

	want := filepath.Join(tmp, "downloads")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		require.Equal(t, os.FileMode(0o700), perm&0o700)
	}
}

func TestEnsureSubdDir_Absolute(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "x", "y")

	got, err := EnsureSubdDir(abs)
	require.NoError(t, err)
	require.Equal(t, abs, got)
}

func TestEnsureSubdDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	first, err := EnsureSubdDir("downloads")
	require.NoError(t, err)

	second, err := EnsureSubdDir("downloads")
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestEnsureSubdDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	require.NoError(t, os.WriteFile("downloads", []byte("x"), 0o660))

	_, err := EnsureSubdDir("downloads")
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestSaveInDir(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveInDir(dir, "uploads/cat.png", []byte("meow"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "cat.png"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("meow"), b)

	_, err = SaveInDir(dir, "/", []byte("x"))
	require.Error(t, err)
}
