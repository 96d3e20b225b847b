package state

import (
	"errors"
	"os"
	"path/filepath"

	fsutil "github.com/kk-code-lab/tdir/internal/fs"
	"github.com/kk-code-lab/tdir/internal/logging"
	"github.com/kk-code-lab/tdir/internal/sortmode"
)

var removeAllFn = os.RemoveAll

// DeleteSelected removes paths, which must be entries of tab.CurrPath, and
// reloads the tab with its whole cache flagged stale. It returns how many
// paths were removed.
func DeleteSelected(tab *Tab, paths []string, opts sortmode.Options) (int, error) {
	var errs []error
	removed := 0
	for _, p := range paths {
		p = filepath.Clean(p)
		if parent, _ := fsutil.ParentOf(p); parent != tab.CurrPath {
			errs = append(errs, fsutil.NewIOError("remove", p, errors.New("not an entry of the current directory")))
			continue
		}
		if err := removeAllFn(p); err != nil {
			errs = append(errs, fsutil.NewIOError("remove", p, err))
			continue
		}
		logging.L().WithField("path", p).Info("removed")
		removed++
	}

	if tab.CurrList != nil {
		tab.CurrList.ClearSelection()
	}
	if err := ReloadAll(tab, opts); err != nil {
		errs = append(errs, err)
	}
	return removed, errors.Join(errs...)
}
