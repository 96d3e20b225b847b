package state

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectSelected(t *testing.T) {
	stubChdir(t, nil)
	root := t.TempDir()
	makeTree(t, root, "a", "b", "c")
	tab := mustTab(t, root)

	assert.Nil(t, CollectSelected(nil))
	assert.Equal(t, []string{filepath.Join(root, "a")}, CollectSelected(tab.CurrList))

	tab.CurrList.SetIndex(2)
	tab.CurrList.ToggleSelected()
	tab.CurrList.SetIndex(1)
	tab.CurrList.ToggleSelected()
	assert.Equal(t, []string{filepath.Join(root, "b"), filepath.Join(root, "c")}, CollectSelected(tab.CurrList))

	empty := mustTab(t, filepath.Join(t.TempDir()))
	assert.Nil(t, CollectSelected(empty.CurrList))
}

func TestOpenCursorEntersDirectories(t *testing.T) {
	stubChdir(t, nil)
	root := t.TempDir()
	makeTree(t, root, "dir/", "file.txt")
	tab := mustTab(t, root)

	paths, err := OpenCursor(tab, testOpts)
	require.NoError(t, err)
	assert.Nil(t, paths)
	assert.Equal(t, filepath.Join(root, "dir"), tab.CurrPath)
}

func TestOpenCursorReturnsFiles(t *testing.T) {
	stubChdir(t, nil)
	root := t.TempDir()
	makeTree(t, root, "dir/", "file.txt")
	tab := mustTab(t, root)
	tab.CurrList.SetIndex(1)

	paths, err := OpenCursor(tab, testOpts)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "file.txt")}, paths)
	assert.Equal(t, root, tab.CurrPath)
}

func TestDeleteSelectedRemovesAndReloads(t *testing.T) {
	stubChdir(t, nil)
	root := t.TempDir()
	makeTree(t, root, "keep", "sub/inner", "zap")
	tab := mustTab(t, root)
	tab.CurrList.SetIndex(0)
	tab.CurrList.ToggleSelected()
	tab.CurrList.SetIndex(2)
	tab.CurrList.ToggleSelected()
	paths := CollectSelected(tab.CurrList)

	removed, err := DeleteSelected(tab, paths, testOpts)

	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{"keep"}, entryNames(tab.CurrList))
	assert.Nil(t, tab.CurrList.SelectedPaths())
	_, statErr := os.Stat(filepath.Join(root, "sub"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDeleteSelectedRejectsForeignPaths(t *testing.T) {
	stubChdir(t, nil)
	root := t.TempDir()
	makeTree(t, root, "a/b")
	tab := mustTab(t, root)

	removed, err := DeleteSelected(tab, []string{filepath.Join(root, "a", "b")}, testOpts)

	require.Error(t, err)
	assert.Zero(t, removed)
	assert.FileExists(t, filepath.Join(root, "a", "b"))
}

func TestDeleteSelectedReportsFailures(t *testing.T) {
	stubChdir(t, nil)
	root := t.TempDir()
	makeTree(t, root, "a", "b")
	tab := mustTab(t, root)

	boom := errors.New("boom")
	orig := removeAllFn
	removeAllFn = func(path string) error {
		if filepath.Base(path) == "a" {
			return boom
		}
		return os.RemoveAll(path)
	}
	t.Cleanup(func() { removeAllFn = orig })

	removed, err := DeleteSelected(tab, []string{filepath.Join(root, "a"), filepath.Join(root, "b")}, testOpts)

	assert.Equal(t, 1, removed)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a"}, entryNames(tab.CurrList))
}
