package state

import (
	"github.com/kk-code-lab/tdir/internal/dircache"
	"github.com/kk-code-lab/tdir/internal/sortmode"
)

// CollectSelected returns the marked paths of l, or the entry under the
// cursor when nothing is marked, or nil for an empty listing.
func CollectSelected(l *dircache.Listing) []string {
	if l == nil {
		return nil
	}
	if marked := l.SelectedPaths(); len(marked) > 0 {
		return marked
	}
	if entry, ok := l.CursorEntry(); ok {
		return []string{entry.FullPath}
	}
	return nil
}

// OpenCursor acts on the entry under the cursor. A directory is entered
// and nil is returned; otherwise the collected selection is returned for
// the caller to open.
func OpenCursor(tab *Tab, opts sortmode.Options) ([]string, error) {
	entry, ok := tab.CursorEntry()
	if !ok {
		return nil, nil
	}
	if entry.IsDir {
		return nil, EnterDirectory(tab, entry.FullPath, opts)
	}
	return CollectSelected(tab.CurrList), nil
}
