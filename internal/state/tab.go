package state

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/kk-code-lab/tdir/internal/dircache"
	fsutil "github.com/kk-code-lab/tdir/internal/fs"
	"github.com/kk-code-lab/tdir/internal/sortmode"
)

// FileEntry mirrors fs.Entry so UI code can rely on a stable type.
type FileEntry = fsutil.Entry

// Tab is one independent navigation context. Whenever no transition is
// running, CurrList (if set) describes CurrPath, ParentList (if set)
// describes its parent, and neither path is resident in History.
type Tab struct {
	CurrPath   string
	CurrList   *dircache.Listing
	ParentList *dircache.Listing
	History    *dircache.History

	// PreviewErr is the last failure reading the directory under the cursor.
	PreviewErr error
}

// NewTab builds a tab at path with a warm cache for every ancestor. The
// returned diagnostics are best-effort failures that did not prevent the
// tab from opening; the error is non-nil only when path itself is unusable.
func NewTab(path string, opts sortmode.Options) (*Tab, []error, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot resolve %s: %w", path, err)
	}

	tab := &Tab{CurrPath: abs, History: dircache.NewHistory()}
	diagnostics := tab.History.PopulateToRoot(abs, opts)

	curr, err := checkoutFn(tab.History, abs, opts)
	if curr == nil {
		return nil, diagnostics, err
	}
	if err != nil {
		diagnostics = append(diagnostics, err)
	}
	tab.CurrList = curr

	if parent, ok := fsutil.ParentOf(abs); ok {
		// An absent parent was already reported by PopulateToRoot.
		resident := tab.History.Contains(parent)
		tab.ParentList, err = checkoutFn(tab.History, parent, opts)
		if err != nil && resident {
			diagnostics = append(diagnostics, err)
		}
		if tab.ParentList != nil {
			tab.ParentList.Reveal(abs, opts)
		}
	}
	return tab, diagnostics, nil
}

// CursorEntry returns the entry under the cursor of the current listing.
func (t *Tab) CursorEntry() (FileEntry, bool) {
	if t == nil || t.CurrList == nil {
		return FileEntry{}, false
	}
	return t.CurrList.CursorEntry()
}

// CursorPath returns the full path under the cursor, or the directory
// itself when the listing is empty.
func (t *Tab) CursorPath() string {
	if entry, ok := t.CursorEntry(); ok {
		return entry.FullPath
	}
	return t.CurrPath
}

// ReloadTab revalidates the two checked-out listings in place, re-reading
// the current directory from scratch if a previous read left it missing.
func ReloadTab(t *Tab, opts sortmode.Options) error {
	var errs []error
	if t.CurrList == nil {
		curr, err := checkoutFn(t.History, t.CurrPath, opts)
		t.CurrList = curr
		errs = append(errs, err)
	} else {
		errs = append(errs, dircache.Revalidate(t.CurrList, opts))
	}

	if parent, ok := fsutil.ParentOf(t.CurrPath); ok {
		if t.ParentList == nil {
			list, err := checkoutFn(t.History, parent, opts)
			t.ParentList = list
			errs = append(errs, err)
		} else {
			errs = append(errs, dircache.Revalidate(t.ParentList, opts))
		}
		if t.ParentList != nil {
			t.ParentList.Reveal(t.CurrPath, opts)
		}
	}
	return errors.Join(errs...)
}

// MarkStale flags the tab's listings and its whole cache for re-reading.
func (t *Tab) MarkStale() {
	t.History.DeprecateAll()
	if t.CurrList != nil {
		t.CurrList.MarkStale()
	}
	if t.ParentList != nil {
		t.ParentList.MarkStale()
	}
}

// ReloadAll flags everything the tab knows about as stale and reloads the
// visible listings.
func ReloadAll(t *Tab, opts sortmode.Options) error {
	t.MarkStale()
	return ReloadTab(t, opts)
}
