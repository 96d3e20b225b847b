package state

import (
	"fmt"
	"os"

	fsutil "github.com/kk-code-lab/tdir/internal/fs"
	"github.com/kk-code-lab/tdir/internal/logging"
	"github.com/sirupsen/logrus"
)

var userHomeDirFn = os.UserHomeDir

// Rows taken by the header, status line and footer.
const chromeRows = 3

// StateReducer applies actions to a Context.
type StateReducer struct{}

// NewStateReducer creates a new reducer
func NewStateReducer() *StateReducer {
	return &StateReducer{}
}

// Reduce applies action to ctx in place. The returned error is meant for the
// status line; ctx stays consistent whether or not it is nil.
func (r *StateReducer) Reduce(ctx *Context, action Action) (*Context, error) {
	tab := ctx.ActiveTab()
	if tab == nil {
		return ctx, nil
	}

	switch a := action.(type) {

	// ===== NAVIGATION =====

	case NavigateDownAction:
		return ctx, r.moveCursor(ctx, tab, 1)

	case NavigateUpAction:
		return ctx, r.moveCursor(ctx, tab, -1)

	case SelectIndexAction:
		if tab.CurrList == nil {
			return ctx, nil
		}
		tab.CurrList.SetIndex(a.Index)
		r.warmPreview(ctx, tab)
		return ctx, nil

	case EnterDirectoryAction, RightArrowAction:
		entry, ok := tab.CursorEntry()
		if !ok || !entry.IsDir {
			return ctx, nil
		}
		err := EnterDirectory(tab, entry.FullPath, ctx.Options)
		r.warmPreview(ctx, tab)
		return ctx, err

	case GoUpAction:
		err := ParentDirectory(tab, ctx.Options)
		r.warmPreview(ctx, tab)
		return ctx, err

	case GoHomeAction:
		home, err := userHomeDirFn()
		if err != nil {
			return ctx, fmt.Errorf("cannot resolve home directory: %w", err)
		}
		err = GoToPath(tab, home, ctx.Options)
		r.warmPreview(ctx, tab)
		return ctx, err

	case GoToPathAction:
		err := GoToPath(tab, a.Path, ctx.Options)
		r.warmPreview(ctx, tab)
		return ctx, err

	// ===== SCROLL =====

	case ScrollPageDownAction:
		return ctx, r.moveCursor(ctx, tab, ctx.pageSize())

	case ScrollPageUpAction:
		return ctx, r.moveCursor(ctx, tab, -ctx.pageSize())

	case ScrollToStartAction:
		if tab.CurrList == nil {
			return ctx, nil
		}
		tab.CurrList.SetIndex(0)
		r.warmPreview(ctx, tab)
		return ctx, nil

	case ScrollToEndAction:
		if tab.CurrList == nil {
			return ctx, nil
		}
		tab.CurrList.SetIndex(tab.CurrList.Len() - 1)
		r.warmPreview(ctx, tab)
		return ctx, nil

	// ===== LISTING =====

	case ToggleSelectAction:
		if tab.CurrList == nil {
			return ctx, nil
		}
		tab.CurrList.ToggleSelected()
		return ctx, r.moveCursor(ctx, tab, 1)

	case ToggleHiddenFilesAction:
		ctx.Options.ShowHidden = !ctx.Options.ShowHidden
		if ctx.Options.ShowHidden {
			ctx.Message = "showing hidden files"
		} else {
			ctx.Message = "hiding hidden files"
		}
		return ctx, r.reorder(ctx, tab)

	case CycleSortModeAction:
		ctx.Options.Mode = ctx.Options.Mode.Next()
		ctx.Message = "sort: " + ctx.Options.Mode.String()
		return ctx, r.reorder(ctx, tab)

	case ReloadAction:
		err := ReloadAll(tab, ctx.Options)
		r.warmPreview(ctx, tab)
		return ctx, err

	case DeleteSelectedAction:
		paths := CollectSelected(tab.CurrList)
		if len(paths) == 0 {
			return ctx, nil
		}
		ctx.PendingDelete = paths
		return ctx, nil

	case ConfirmDeleteAction:
		paths := ctx.PendingDelete
		ctx.PendingDelete = nil
		if len(paths) == 0 {
			return ctx, nil
		}
		removed, err := DeleteSelected(tab, paths, ctx.Options)
		for _, other := range ctx.Tabs {
			if other != tab {
				other.MarkStale()
			}
		}
		ctx.Message = fmt.Sprintf("deleted %d of %d", removed, len(paths))
		r.warmPreview(ctx, tab)
		return ctx, err

	case CancelDeleteAction:
		ctx.PendingDelete = nil
		return ctx, nil

	// ===== TABS =====

	case NewTabAction:
		err := ctx.OpenTab(tab.CurrPath)
		r.warmPreview(ctx, ctx.ActiveTab())
		return ctx, err

	case CloseTabAction:
		open, err := ctx.CloseTab()
		if !open {
			return ctx, nil
		}
		r.warmPreview(ctx, ctx.ActiveTab())
		return ctx, err

	case NextTabAction:
		err := ctx.SwitchTab(1)
		r.warmPreview(ctx, ctx.ActiveTab())
		return ctx, err

	case PrevTabAction:
		err := ctx.SwitchTab(-1)
		r.warmPreview(ctx, ctx.ActiveTab())
		return ctx, err

	// ===== VIEW =====

	case ResizeAction:
		ctx.ScreenWidth = a.Width
		ctx.ScreenHeight = a.Height
		return ctx, nil

	case HelpToggleAction:
		ctx.HelpVisible = !ctx.HelpVisible
		return ctx, nil

	case HelpHideAction:
		ctx.HelpVisible = false
		return ctx, nil
	}

	return ctx, nil
}

// WarmPreview prepares the listing shown in the preview column.
func (r *StateReducer) WarmPreview(ctx *Context) {
	r.warmPreview(ctx, ctx.ActiveTab())
}

func (r *StateReducer) moveCursor(ctx *Context, tab *Tab, delta int) error {
	if tab.CurrList == nil || tab.CurrList.Len() == 0 {
		return nil
	}
	tab.CurrList.MoveCursor(delta)
	r.warmPreview(ctx, tab)
	return nil
}

// reorder re-reads every listing after an ordering policy change.
func (r *StateReducer) reorder(ctx *Context, tab *Tab) error {
	ctx.MarkAllStale()
	err := ReloadTab(tab, ctx.Options)
	r.warmPreview(ctx, tab)
	return err
}

// warmPreview caches the directory under the cursor without checking it
// out, so the renderer can Peek it.
func (r *StateReducer) warmPreview(ctx *Context, tab *Tab) {
	if tab == nil {
		return
	}
	tab.PreviewErr = nil
	entry, ok := tab.CursorEntry()
	if !ok || !entry.IsDir {
		return
	}
	if _, err := tab.History.GetOrCreate(entry.FullPath, ctx.Options); err != nil {
		tab.PreviewErr = err
		logging.L().WithFields(logrus.Fields{
			"path": entry.FullPath,
			"kind": fsutil.KindOf(err).String(),
		}).Debug("preview listing unavailable")
	}
}

func (c *Context) pageSize() int {
	rows := c.ScreenHeight - chromeRows
	if rows < 1 {
		return 1
	}
	return rows
}
