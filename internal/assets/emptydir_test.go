package assets

import (
	stdErrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyDirMissingIsNoop(t *testing.T) {
	report, err := EmptyDir(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Zero(t, report.Removed)
}

func TestEmptyDirRemovesEverythingButRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.html"), "a")
	writeFile(t, filepath.Join(root, "assets", "css", "site.css"), "b")
	writeFile(t, filepath.Join(root, "assets", "img", "x.png"), "c")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	report, err := EmptyDir(root)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 7, report.Removed)

	assert.DirExists(t, root)
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEmptyDirOnFileFails(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f")
	writeFile(t, file, "x")

	_, err := EmptyDir(file)
	assert.Error(t, err)
}

func TestEmptyDirDeepTree(t *testing.T) {
	root := t.TempDir()
	deep := root
	for i := 0; i < 50; i++ {
		deep = filepath.Join(deep, "d")
	}
	writeFile(t, filepath.Join(deep, "leaf.txt"), "x")

	report, err := EmptyDir(root)
	require.NoError(t, err)
	assert.True(t, report.OK())
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEmptyDirKeepsGoingPastFailures(t *testing.T) {
	root := t.TempDir()
	locked := filepath.Join(root, "locked.html")
	writeFile(t, filepath.Join(root, "a.html"), "a")
	writeFile(t, locked, "b")
	writeFile(t, filepath.Join(root, "sub", "c.css"), "c")

	boom := stdErrors.New("permission denied")
	orig := removeEntry
	removeEntry = func(p string) error {
		if p == locked {
			return boom
		}
		return orig(p)
	}
	t.Cleanup(func() { removeEntry = orig })

	report, err := EmptyDir(root)
	require.NoError(t, err)
	assert.False(t, report.OK())
	require.Len(t, report.Failures, 1)
	assert.Equal(t, locked, report.Failures[0].Path)
	assert.ErrorIs(t, report.Failures[0].Err, boom)
	assert.Equal(t, 3, report.Removed)

	assert.DirExists(t, root)
	assert.FileExists(t, locked)
	assert.NoFileExists(t, filepath.Join(root, "a.html"))
	assert.NoDirExists(t, filepath.Join(root, "sub"))
}
