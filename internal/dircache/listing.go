// Package dircache holds directory listings and the per-tab history cache
// that owns them while they are not on screen.
package dircache

import (
	"path/filepath"
	"slices"
	"time"

	fsutil "github.com/kk-code-lab/tdir/internal/fs"
	"github.com/kk-code-lab/tdir/internal/sortmode"
)

// NoCursor is the cursor index of an empty listing.
const NoCursor = -1

// Listing is a snapshot of one directory plus its cursor and staleness
// state. A listing is owned by exactly one holder at a time: either the
// History it lives in, or the tab that checked it out.
type Listing struct {
	path         string
	contents     []fsutil.Entry
	index        int
	updateNeeded bool
	modified     time.Time
	selected     map[string]struct{}

	// filtered holds the entries the visibility filter dropped; pinned is
	// the one of them kept visible anyway (see Reveal).
	filtered []fsutil.Entry
	pinned   string
}

// Seams overridden in tests.
var (
	readDirFn = fsutil.ReadDir
	modTimeFn = fsutil.ModTime
)

type snapshot struct {
	contents []fsutil.Entry
	filtered []fsutil.Entry
	modified time.Time
}

func readSnapshot(path string, opts sortmode.Options, pinned string) (snapshot, error) {
	// Stat before reading so a change racing the read is seen as stale later.
	modified, err := modTimeFn(path)
	if err != nil {
		return snapshot{}, err
	}
	entries, err := readDirFn(path)
	if err != nil {
		return snapshot{}, err
	}
	visible, dropped := opts.Split(entries)
	if i := indexOfPath(dropped, pinned); i >= 0 {
		visible = opts.Insert(visible, dropped[i])
		dropped = slices.Delete(dropped, i, i+1)
	}
	return snapshot{contents: visible, filtered: dropped, modified: modified}, nil
}

// New reads the directory at path and orders it with opts.
func New(path string, opts sortmode.Options) (*Listing, error) {
	path = filepath.Clean(path)
	snap, err := readSnapshot(path, opts, "")
	if err != nil {
		return nil, err
	}
	l := &Listing{
		path:     path,
		contents: snap.contents,
		filtered: snap.filtered,
		index:    NoCursor,
		modified: snap.modified,
	}
	if len(l.contents) > 0 {
		l.index = 0
	}
	return l, nil
}

// Path is the absolute directory this listing describes.
func (l *Listing) Path() string { return l.path }

// Contents returns the ordered entries. Callers must not modify the slice.
func (l *Listing) Contents() []fsutil.Entry { return l.contents }

// Len returns the number of entries.
func (l *Listing) Len() int { return len(l.contents) }

// Index returns the cursor position, or NoCursor when empty.
func (l *Listing) Index() int { return l.index }

// Modified returns the modification marker captured at the last read.
func (l *Listing) Modified() time.Time { return l.modified }

// UpdateNeeded reports the explicit staleness flag only.
func (l *Listing) UpdateNeeded() bool { return l.updateNeeded }

// MarkStale forces the next NeedsUpdate to report true.
func (l *Listing) MarkStale() { l.updateNeeded = true }

// CursorEntry returns the entry under the cursor.
func (l *Listing) CursorEntry() (fsutil.Entry, bool) {
	if l.index < 0 || l.index >= len(l.contents) {
		return fsutil.Entry{}, false
	}
	return l.contents[l.index], true
}

// SetIndex moves the cursor, clamping into the valid range.
func (l *Listing) SetIndex(i int) {
	l.index = clampIndex(i, len(l.contents))
}

// MoveCursor moves the cursor by delta entries, clamped.
func (l *Listing) MoveCursor(delta int) {
	if len(l.contents) == 0 {
		l.index = NoCursor
		return
	}
	l.SetIndex(l.index + delta)
}

// SelectPath puts the cursor on the entry with the given full path.
func (l *Listing) SelectPath(path string) bool {
	if i := indexOfPath(l.contents, filepath.Clean(path)); i >= 0 {
		l.index = i
		return true
	}
	return false
}

// Reveal is SelectPath for an entry that may have been hidden by the
// visibility filter, such as a hidden directory on the way down to the
// current one. A filtered entry at path is made visible, and stays visible
// across re-reads until another path is revealed.
func (l *Listing) Reveal(path string, opts sortmode.Options) bool {
	path = filepath.Clean(path)
	l.pinned = path
	if l.SelectPath(path) {
		return true
	}
	i := indexOfPath(l.filtered, path)
	if i < 0 {
		return false
	}
	entry := l.filtered[i]
	l.filtered = slices.Delete(l.filtered, i, i+1)
	l.contents = opts.Insert(l.contents, entry)
	return l.SelectPath(path)
}

// NeedsUpdate reports whether the listing must be re-read: it was flagged
// stale, or the directory's modification marker moved, or the directory is
// gone. It never mutates the listing.
func (l *Listing) NeedsUpdate() bool {
	if l.updateNeeded {
		return true
	}
	modified, err := modTimeFn(l.path)
	if err != nil {
		return true
	}
	return !modified.Equal(l.modified)
}

// UpdateContents re-reads the directory. The cursor stays on the same entry
// when it still exists, otherwise it is clamped. On error the listing is
// left exactly as it was.
func (l *Listing) UpdateContents(opts sortmode.Options) error {
	snap, err := readSnapshot(l.path, opts, l.pinned)
	if err != nil {
		return err
	}

	prev, hadCursor := l.CursorEntry()
	prevIndex := l.index

	l.contents = snap.contents
	l.filtered = snap.filtered
	l.modified = snap.modified
	l.updateNeeded = false

	restored := hadCursor && l.SelectPath(prev.FullPath)
	if !restored {
		if prevIndex < 0 {
			prevIndex = 0
		}
		l.index = clampIndex(prevIndex, len(l.contents))
	}

	for p := range l.selected {
		if indexOfPath(l.contents, p) < 0 {
			delete(l.selected, p)
		}
	}
	return nil
}

// ToggleSelected flips the selection mark of the cursor entry.
func (l *Listing) ToggleSelected() bool {
	entry, ok := l.CursorEntry()
	if !ok {
		return false
	}
	if _, marked := l.selected[entry.FullPath]; marked {
		delete(l.selected, entry.FullPath)
		return false
	}
	if l.selected == nil {
		l.selected = make(map[string]struct{})
	}
	l.selected[entry.FullPath] = struct{}{}
	return true
}

// IsSelected reports whether path carries a selection mark.
func (l *Listing) IsSelected(path string) bool {
	_, ok := l.selected[path]
	return ok
}

// SelectedPaths returns marked paths in listing order.
func (l *Listing) SelectedPaths() []string {
	if len(l.selected) == 0 {
		return nil
	}
	out := make([]string, 0, len(l.selected))
	for _, e := range l.contents {
		if _, ok := l.selected[e.FullPath]; ok {
			out = append(out, e.FullPath)
		}
	}
	return out
}

// ClearSelection drops every selection mark.
func (l *Listing) ClearSelection() {
	clear(l.selected)
}

func indexOfPath(entries []fsutil.Entry, path string) int {
	if path == "" {
		return -1
	}
	return slices.IndexFunc(entries, func(e fsutil.Entry) bool {
		return e.FullPath == path
	})
}

func clampIndex(i, n int) int {
	switch {
	case n == 0:
		return NoCursor
	case i < 0:
		return 0
	case i >= n:
		return n - 1
	default:
		return i
	}
}
