package state

import (
	"errors"
	"path/filepath"

	"github.com/kk-code-lab/tdir/internal/dircache"
	fsutil "github.com/kk-code-lab/tdir/internal/fs"
	"github.com/kk-code-lab/tdir/internal/logging"
	"github.com/kk-code-lab/tdir/internal/sortmode"
)

// Seams overridden in tests.
var (
	chdirFn    = fsutil.Chdir
	checkoutFn = (*dircache.History).PopOrCreate
)

// EnterDirectory moves tab one level down into path, a child of
// tab.CurrPath. If the directory change fails nothing is modified. A
// failure to list path after the change leaves CurrList nil and is
// returned; a *dircache.StaleError means CurrList holds cached data.
func EnterDirectory(tab *Tab, path string, opts sortmode.Options) error {
	path = filepath.Clean(path)
	if path == tab.CurrPath {
		return nil
	}
	if parent, _ := fsutil.ParentOf(path); parent != tab.CurrPath {
		return GoToPath(tab, path, opts)
	}

	if err := chdirFn(path); err != nil {
		return err
	}

	tab.History.PutBack(tab.ParentList)
	tab.ParentList = tab.CurrList
	tab.CurrList = nil

	curr, err := checkoutFn(tab.History, path, opts)
	tab.CurrList = curr
	tab.CurrPath = path
	if tab.ParentList != nil {
		tab.ParentList.Reveal(path, opts)
	}

	if err != nil {
		logging.L().WithField("path", path).WithError(err).Debug("enter directory")
	}
	return err
}

// ParentDirectory moves tab one level up. At the filesystem root it is a
// no-op. The previous current listing is checked into the cache.
func ParentDirectory(tab *Tab, opts sortmode.Options) error {
	parent, ok := fsutil.ParentOf(tab.CurrPath)
	if !ok {
		return nil
	}
	if err := chdirFn(parent); err != nil {
		return err
	}

	child := tab.CurrPath
	tab.History.PutBack(tab.CurrList)
	tab.CurrList = tab.ParentList
	tab.ParentList = nil
	tab.CurrPath = parent

	var errs []error
	if tab.CurrList == nil {
		curr, err := checkoutFn(tab.History, parent, opts)
		tab.CurrList = curr
		errs = append(errs, err)
	} else {
		errs = append(errs, dircache.Revalidate(tab.CurrList, opts))
	}
	if tab.CurrList != nil {
		tab.CurrList.Reveal(child, opts)
	}

	if grand, ok := fsutil.ParentOf(parent); ok {
		list, err := checkoutFn(tab.History, grand, opts)
		tab.ParentList = list
		if list != nil {
			list.Reveal(parent, opts)
		}
		errs = append(errs, err)
	}

	err := errors.Join(errs...)
	if err != nil {
		logging.L().WithField("path", parent).WithError(err).Debug("parent directory")
	}
	return err
}

// GoToPath moves tab to an arbitrary directory. Both live listings are
// checked into the cache and the target and its parent are checked out.
func GoToPath(tab *Tab, path string, opts sortmode.Options) error {
	path = filepath.Clean(path)
	if path == tab.CurrPath {
		return nil
	}
	if err := chdirFn(path); err != nil {
		return err
	}

	tab.History.PutBack(tab.ParentList)
	tab.History.PutBack(tab.CurrList)
	tab.ParentList = nil
	tab.CurrList = nil

	var errs []error
	curr, err := checkoutFn(tab.History, path, opts)
	tab.CurrList = curr
	tab.CurrPath = path
	errs = append(errs, err)

	if parent, ok := fsutil.ParentOf(path); ok {
		list, err := checkoutFn(tab.History, parent, opts)
		tab.ParentList = list
		if list != nil {
			list.Reveal(path, opts)
		}
		errs = append(errs, err)
	}

	err = errors.Join(errs...)
	if err != nil {
		logging.L().WithField("path", path).WithError(err).Debug("go to path")
	}
	return err
}
