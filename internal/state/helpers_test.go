package state

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kk-code-lab/tdir/internal/dircache"
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

// stubChdir replaces the process directory change for the duration of the
// test and records every target.
func stubChdir(t *testing.T, fail error) *[]string {
	t.Helper()
	var calls []string
	orig := chdirFn
	chdirFn = func(path string) error {
		calls = append(calls, path)
		return fail
	}
	t.Cleanup(func() { chdirFn = orig })
	return &calls
}

func mustTab(t *testing.T, path string) *Tab {
	t.Helper()
	tab, _, err := NewTab(path, testOpts)
	require.NoError(t, err)
	return tab
}

func cursorName(l *dircache.Listing) string {
	if l == nil {
		return ""
	}
	e, ok := l.CursorEntry()
	if !ok {
		return ""
	}
	return e.Name
}

func entryNames(l *dircache.Listing) []string {
	out := make([]string, 0, l.Len())
	for _, e := range l.Contents() {
		out = append(out, e.Name)
	}
	return out
}

var errDenied = errors.New("permission denied")

// failCheckout makes checking out path fail with err for the duration of
// the test. A *dircache.StaleError still hands back the cached listing, as
// a failed revalidation does.
func failCheckout(t *testing.T, path string, err error) {
	t.Helper()
	orig := checkoutFn
	checkoutFn = func(h *dircache.History, p string, opts sortmode.Options) (*dircache.Listing, error) {
		if p != path {
			return orig(h, p, opts)
		}
		if !dircache.IsStale(err) {
			return nil, err
		}
		l, _ := orig(h, p, opts)
		return l, err
	}
	t.Cleanup(func() { checkoutFn = orig })
}
