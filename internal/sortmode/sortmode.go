// Package sortmode is the ordering policy applied to directory listings.
// An Options value is immutable once built and is passed explicitly into
// every listing operation.
package sortmode

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/gobwas/glob"
	fsutil "github.com/kk-code-lab/tdir/internal/fs"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Mode selects the primary sort key.
type Mode int

const (
	Natural Mode = iota // case-insensitive, digits compared numerically
	Lexical             // byte order of names
	Mtime               // newest first
	Size                // largest first
)

var modeNames = []string{"natural", "lexical", "mtime", "size"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// Next cycles through the modes in declaration order.
func (m Mode) Next() Mode {
	return Mode((int(m) + 1) % len(modeNames))
}

// ParseMode accepts the names produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Natural, nil
	}
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return Natural, fmt.Errorf("unknown sort mode %q (want one of %s)", s, strings.Join(modeNames, ", "))
}

// Options is the ordering policy plus the visibility filter applied when a
// listing is built.
type Options struct {
	Mode       Mode
	DirsFirst  bool
	Reverse    bool
	ShowHidden bool

	ignorePatterns []string
	ignore         []glob.Glob
}

// Default returns natural ordering, directories first, hidden files hidden.
func Default() Options {
	return Options{Mode: Natural, DirsFirst: true}
}

// WithIgnore returns a copy of o hiding entries whose name matches any of
// the glob patterns. Ignored entries show up again with ShowHidden.
func (o Options) WithIgnore(patterns ...string) (Options, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	kept := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			continue
		}
		g, err := glob.Compile(p)
		if err != nil {
			return o, fmt.Errorf("invalid ignore pattern %q: %w", p, err)
		}
		compiled = append(compiled, g)
		kept = append(kept, p)
	}
	o.ignore = compiled
	o.ignorePatterns = kept
	return o, nil
}

// IgnorePatterns returns the source patterns given to WithIgnore.
func (o Options) IgnorePatterns() []string {
	return slices.Clone(o.ignorePatterns)
}

// Keep reports whether e is visible under o.
func (o Options) Keep(e fsutil.Entry) bool {
	if o.ShowHidden {
		return true
	}
	if e.IsHidden() {
		return false
	}
	for _, g := range o.ignore {
		if g.Match(e.Name) {
			return false
		}
	}
	return true
}

// Sort filters entries in place and orders what remains. The returned
// slice shares the backing array of entries.
func (o Options) Sort(entries []fsutil.Entry) []fsutil.Entry {
	visible, _ := o.Split(entries)
	return visible
}

// Split is Sort that also returns the entries the filter dropped, in their
// original order. visible shares the backing array of entries; dropped
// does not.
func (o Options) Split(entries []fsutil.Entry) (visible, dropped []fsutil.Entry) {
	visible = entries[:0]
	for _, e := range entries {
		if o.Keep(e) {
			visible = append(visible, e)
		} else {
			dropped = append(dropped, e)
		}
	}
	c := getCollator()
	defer collators.Put(c)
	slices.SortStableFunc(visible, func(a, b fsutil.Entry) int {
		return o.compareWith(c, a, b)
	})
	return visible, dropped
}

// Insert places e into sorted at its ordered position.
func (o Options) Insert(sorted []fsutil.Entry, e fsutil.Entry) []fsutil.Entry {
	c := getCollator()
	defer collators.Put(c)
	i, _ := slices.BinarySearchFunc(sorted, e, func(a, b fsutil.Entry) int {
		return o.compareWith(c, a, b)
	})
	return slices.Insert(sorted, i, e)
}

// Compare orders a before b (<0), after (>0) or equal (0) under o.
func (o Options) Compare(a, b fsutil.Entry) int {
	c := getCollator()
	defer collators.Put(c)
	return o.compareWith(c, a, b)
}

// Collators keep scratch buffers, so each sort borrows its own.
var collators = sync.Pool{
	New: func() any {
		return collate.New(language.Und, collate.IgnoreCase, collate.Numeric)
	},
}

func getCollator() *collate.Collator {
	return collators.Get().(*collate.Collator)
}

func (o Options) compareWith(c *collate.Collator, a, b fsutil.Entry) int {
	if o.DirsFirst && a.IsDir != b.IsDir {
		if a.IsDir {
			return -1
		}
		return 1
	}

	r := 0
	switch o.Mode {
	case Mtime:
		r = b.Modified.Compare(a.Modified)
	case Size:
		switch {
		case a.Size > b.Size:
			r = -1
		case a.Size < b.Size:
			r = 1
		}
	}
	if r == 0 && o.Mode == Natural {
		r = c.CompareString(a.Name, b.Name)
	}
	if r == 0 {
		r = strings.Compare(a.Name, b.Name)
	}
	if o.Reverse {
		r = -r
	}
	return r
}
