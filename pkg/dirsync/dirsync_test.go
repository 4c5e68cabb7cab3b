package dirsync

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, data := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	}
}

func TestSync(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()

	writeFiles(t, src, map[string]string{
		"index.css":              "body {}",
		"images/tolkien.png":     "png",
		"images/nested/deep.txt": "deep",
	})
	writeFiles(t, dst, map[string]string{
		"stale.html":     "old",
		"old/stale.html": "old",
	})

	stats, err := Sync(src, dst)
	require.NoError(t, err)
	assert.Equal(t, Stats{Files: 3, Dirs: 2, Bytes: int64(len("body {}png" + "deep"))}, stats)

	for name, want := range map[string]string{
		"index.css":              "body {}",
		"images/tolkien.png":     "png",
		"images/nested/deep.txt": "deep",
	} {
		data, err := os.ReadFile(filepath.Join(dst, name))
		require.NoError(t, err, name)
		assert.Equal(t, want, string(data))
	}

	assert.NoFileExists(t, filepath.Join(dst, "stale.html"))
	assert.NoDirExists(t, filepath.Join(dst, "old"))
	assert.DirExists(t, dst)
}

func TestSyncEmptySource(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeFiles(t, dst, map[string]string{"a.txt": "a"})

	stats, err := Sync(src, dst)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)

	entries, err := os.ReadDir(dst)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSyncInvalidPaths(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing")

	_, err := Sync(missing, dir)
	assert.True(t, errors.Is(err, ErrInvalidPath))
	assert.Contains(t, err.Error(), "source")

	_, err = Sync(dir, missing)
	assert.True(t, errors.Is(err, ErrInvalidPath))
	assert.Contains(t, err.Error(), "destination")

	file := filepath.Join(dir, "file.txt")
	writeFiles(t, dir, map[string]string{"file.txt": "x"})
	_, err = Sync(dir, file)
	assert.True(t, errors.Is(err, ErrInvalidPath))
}
