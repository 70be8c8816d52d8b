package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spend.csv")
	require.NoError(t, os.WriteFile(path, []byte("date,category,amount\n"), 0o600))

	files, err := Discover(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestDiscoverDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.CSV", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0o750))

	files, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.CSV"), filepath.Join(dir, "b.csv")}, files)
}

func TestDiscoverMissing(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"))
	require.ErrorIs(t, err, ErrMissingFile)

	_, err = Discover(t.TempDir())
	require.ErrorIs(t, err, ErrMissingFile)
}
