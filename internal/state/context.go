package state

import (
	"errors"
	"fmt"
	"time"

	"github.com/kk-code-lab/tdir/internal/sortmode"
)

// DefaultMaxTabs caps the number of open tabs when no limit is configured.
const DefaultMaxTabs = 9

// Context is the whole browser state: the open tabs, the ordering policy
// shared by every listing call, and what the status line should show.
type Context struct {
	Tabs    []*Tab
	Active  int
	Options sortmode.Options
	MaxTabs int

	ScreenWidth  int
	ScreenHeight int

	LastError error
	Message   string

	HelpVisible        bool
	PendingDelete      []string
	LastYankTime       time.Time
	ClipboardAvailable bool
	EditorAvailable    bool
}

// NewContext opens a single tab at path and makes it the process's working
// directory. Diagnostics from warming the
// ancestor cache are returned separately from a fatal error.
func NewContext(path string, opts sortmode.Options, maxTabs int) (*Context, []error, error) {
	tab, diagnostics, err := NewTab(path, opts)
	if err != nil {
		return nil, diagnostics, err
	}
	if maxTabs <= 0 {
		maxTabs = DefaultMaxTabs
	}
	if err := chdirFn(tab.CurrPath); err != nil {
		diagnostics = append(diagnostics, err)
	}
	return &Context{
		Tabs:    []*Tab{tab},
		Options: opts,
		MaxTabs: maxTabs,
	}, diagnostics, nil
}

// ActiveTab returns the focused tab.
func (c *Context) ActiveTab() *Tab {
	if c == nil || c.Active < 0 || c.Active >= len(c.Tabs) {
		return nil
	}
	return c.Tabs[c.Active]
}

// CurrentPath returns the directory of the focused tab.
func (c *Context) CurrentPath() string {
	if tab := c.ActiveTab(); tab != nil {
		return tab.CurrPath
	}
	return ""
}

// CurrentFilePath returns the full path under the cursor of the focused tab.
func (c *Context) CurrentFilePath() string {
	if tab := c.ActiveTab(); tab != nil {
		return tab.CursorPath()
	}
	return ""
}

// CurrentFile returns the entry under the cursor of the focused tab.
func (c *Context) CurrentFile() (FileEntry, bool) {
	return c.ActiveTab().CursorEntry()
}

// OpenTab adds a tab at path after the focused one and focuses it.
func (c *Context) OpenTab(path string) error {
	if len(c.Tabs) >= c.MaxTabs {
		return fmt.Errorf("tab limit reached (%d)", c.MaxTabs)
	}
	tab, diagnostics, err := NewTab(path, c.Options)
	if err != nil {
		return err
	}
	pos := c.Active + 1
	c.Tabs = append(c.Tabs[:pos], append([]*Tab{tab}, c.Tabs[pos:]...)...)
	c.Active = pos
	if err := chdirFn(tab.CurrPath); err != nil {
		diagnostics = append(diagnostics, err)
	}
	return errors.Join(diagnostics...)
}

// CloseTab drops the focused tab and its cache. It reports false when the
// last tab was closed.
func (c *Context) CloseTab() (bool, error) {
	if len(c.Tabs) == 0 {
		return false, nil
	}
	c.Tabs = append(c.Tabs[:c.Active], c.Tabs[c.Active+1:]...)
	if len(c.Tabs) == 0 {
		c.Active = 0
		return false, nil
	}
	if c.Active >= len(c.Tabs) {
		c.Active = len(c.Tabs) - 1
	}
	return true, c.focus()
}

// SwitchTab moves focus by delta, wrapping around.
func (c *Context) SwitchTab(delta int) error {
	n := len(c.Tabs)
	if n < 2 {
		return nil
	}
	c.Active = ((c.Active+delta)%n + n) % n
	return c.focus()
}

// MarkAllStale flags every listing of every tab for re-reading. Needed
// when the ordering policy changes, since directory mtimes do not.
func (c *Context) MarkAllStale() {
	for _, tab := range c.Tabs {
		tab.MarkStale()
	}
}

// focus makes the process directory follow the newly focused tab and
// brings its listings up to date.
func (c *Context) focus() error {
	tab := c.ActiveTab()
	if err := chdirFn(tab.CurrPath); err != nil {
		return err
	}
	return ReloadTab(tab, c.Options)
}
