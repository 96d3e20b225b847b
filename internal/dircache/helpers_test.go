package dircache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	fsutil "github.com/kk-code-lab/tdir/internal/fs"
	"github.com/kk-code-lab/tdir/internal/sortmode"
	"github.com/stretchr/testify/require"
)

var testOpts = sortmode.Options{Mode: sortmode.Lexical, DirsFirst: true}

// makeTree creates dirs (trailing slash) and files relative to root.
func makeTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if p[len(p)-1] == '/' {
			require.NoError(t, os.MkdirAll(full, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(p), 0o644))
	}
}

// touchDir moves the directory's modification marker to a distinct time so
// staleness checks do not depend on filesystem timestamp granularity.
func touchDir(t *testing.T, dir string, offset time.Duration) {
	t.Helper()
	ts := time.Now().Add(offset)
	require.NoError(t, os.Chtimes(dir, ts, ts))
}

func entryNames(l *Listing) []string {
	out := make([]string, 0, l.Len())
	for _, e := range l.Contents() {
		out = append(out, e.Name)
	}
	return out
}

func cursorName(l *Listing) string {
	e, ok := l.CursorEntry()
	if !ok {
		return ""
	}
	return e.Name
}

func mustNew(t *testing.T, path string) *Listing {
	t.Helper()
	l, err := New(path, testOpts)
	require.NoError(t, err)
	return l
}


// countReads wraps the directory reader and returns the number of reads
// made since the call.
func countReads(t *testing.T) *int {
	t.Helper()
	n := 0
	orig := readDirFn
	readDirFn = func(path string) ([]fsutil.Entry, error) {
		n++
		return orig(path)
	}
	t.Cleanup(func() { readDirFn = orig })
	return &n
}
