package dircache

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	fsutil "github.com/kk-code-lab/tdir/internal/fs"
	"github.com/kk-code-lab/tdir/internal/logging"
	"github.com/kk-code-lab/tdir/internal/sortmode"
	"github.com/sirupsen/logrus"
)

// StaleError accompanies a listing whose revalidation failed. The listing
// returned with it keeps its previous contents and cursor and stays flagged
// for update, so the next access retries the read.
type StaleError struct {
	Path string
	Err  error
}

func (e *StaleError) Error() string {
	return fmt.Sprintf("showing cached contents of %s: %v", e.Path, e.Err)
}

func (e *StaleError) Unwrap() error { return e.Err }

// IsStale reports whether err is a revalidation warning rather than a
// failure to produce a listing.
func IsStale(err error) bool {
	var stale *StaleError
	return errors.As(err, &stale)
}

// History maps absolute directory paths to their last known listing. A path
// is absent while its listing is checked out by a tab.
type History struct {
	listings map[string]*Listing
}

// NewHistory returns an empty cache.
func NewHistory() *History {
	return &History{listings: make(map[string]*Listing)}
}

// PopOrCreate checks out the listing for path, removing it from the cache.
// A resident listing is revalidated first; if that fails the stale listing
// is still returned, together with a *StaleError. An absent path is read
// fresh and not inserted.
func (h *History) PopOrCreate(path string, opts sortmode.Options) (*Listing, error) {
	key := filepath.Clean(path)
	l, ok := h.listings[key]
	if !ok {
		return New(key, opts)
	}
	delete(h.listings, key)
	return l, Revalidate(l, opts)
}

// GetOrCreate returns the listing for path while leaving it in the cache.
// An absent path is read and inserted; when that read fails nothing is
// inserted and the listing is nil. Revalidation failures on a resident
// listing yield the stale listing plus a *StaleError.
func (h *History) GetOrCreate(path string, opts sortmode.Options) (*Listing, error) {
	key := filepath.Clean(path)
	if l, ok := h.listings[key]; ok {
		return l, Revalidate(l, opts)
	}
	l, err := New(key, opts)
	if err != nil {
		return nil, err
	}
	h.listings[key] = l
	return l, nil
}

// PutBack checks a listing back in, replacing whatever was resident for
// its path. A nil listing is ignored.
func (h *History) PutBack(l *Listing) {
	if l == nil {
		return
	}
	h.listings[l.path] = l
}

// PopulateToRoot inserts a listing for every strict ancestor of path, each
// with its cursor on the child leading back down to path, even when that
// child is hidden. Unreadable ancestors are skipped; their errors are
// logged and returned.
func (h *History) PopulateToRoot(path string, opts sortmode.Options) []error {
	var diagnostics []error
	child := filepath.Clean(path)
	for _, ancestor := range fsutil.Ancestors(child) {
		l, err := New(ancestor, opts)
		if err != nil {
			logging.L().WithFields(logrus.Fields{
				"path": ancestor,
				"kind": fsutil.KindOf(err).String(),
			}).Warn("skipping ancestor listing")
			diagnostics = append(diagnostics, err)
		} else {
			l.Reveal(child, opts)
			h.listings[ancestor] = l
		}
		child = ancestor
	}
	return diagnostics
}

// DeprecateAll flags every resident listing as stale.
func (h *History) DeprecateAll() {
	for _, l := range h.listings {
		l.updateNeeded = true
	}
}

// Peek returns the resident listing for path without revalidating it.
func (h *History) Peek(path string) (*Listing, bool) {
	l, ok := h.listings[filepath.Clean(path)]
	return l, ok
}

// Contains reports whether path is resident.
func (h *History) Contains(path string) bool {
	_, ok := h.listings[filepath.Clean(path)]
	return ok
}

// Len returns the number of resident listings.
func (h *History) Len() int { return len(h.listings) }

// Paths returns resident paths in sorted order.
func (h *History) Paths() []string {
	out := make([]string, 0, len(h.listings))
	for p := range h.listings {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Revalidate re-reads l if NeedsUpdate reports it stale. A failed re-read
// keeps the cached contents, leaves l flagged and returns a *StaleError.
func Revalidate(l *Listing, opts sortmode.Options) error {
	if !l.NeedsUpdate() {
		return nil
	}
	if err := l.UpdateContents(opts); err != nil {
		l.updateNeeded = true
		logging.L().WithField("path", l.path).WithError(err).Debug("revalidation failed, keeping cached listing")
		return &StaleError{Path: l.path, Err: err}
	}
	return nil
}
