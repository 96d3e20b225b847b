package app

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/tdir/internal/state"
	renderui "github.com/kk-code-lab/tdir/internal/ui/render"
	"github.com/mattn/go-runewidth"
)

const doubleClickThreshold = 300 * time.Millisecond

func (app *Application) Run() {
	defer app.screen.Fini()

	app.renderer.Render(app.state)
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			eventChan <- app.screen.PollEvent()
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	// The yank flash needs one extra frame to switch off.
	const flashInterval = 100 * time.Millisecond
	var flashCh <-chan time.Time

	for !app.shouldQuit {
		if renderPending {
			app.renderer.Render(app.state)
			renderPending = false
		}

		if flashCh == nil && app.isFlashing() {
			flashCh = time.After(flashInterval)
		}

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case <-flashCh:
			flashCh = nil
			renderPending = true
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey, *tcell.EventResize:
		// A false return means the quit action is already queued; drain it
		// before the loop checks shouldQuit.
		if !app.input.ProcessEvent(ev) {
			app.processActions()
		}
	case *tcell.EventMouse:
		app.handleMouse(ev)
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

// handleMouse maps primary clicks to cursor moves and navigation.
func (app *Application) handleMouse(ev *tcell.EventMouse) bool {
	if app.state == nil || app.state.HelpVisible {
		return true
	}
	if ev.Buttons()&tcell.Button1 == 0 {
		return true
	}

	x, y := ev.Position()
	if y == 0 {
		app.handleBreadcrumbClick(x)
		return true
	}

	layout, ok := app.renderer.LastLayout()
	if !ok {
		return true
	}
	row := y - renderui.ListTop
	if row < 0 || row >= layout.Rows {
		return true
	}

	if layout.ParentWidth > 0 && x < layout.ParentWidth {
		app.actionCh <- statepkg.GoUpAction{}
		return true
	}
	if x < layout.MainStart || x >= layout.MainStart+layout.MainWidth {
		return true
	}

	tab := app.state.ActiveTab()
	if tab == nil || tab.CurrList == nil {
		return true
	}
	l := tab.CurrList
	idx := renderui.WindowStart(l.Index(), l.Len(), layout.Rows) + row
	if idx >= l.Len() {
		return true
	}

	clickKey := fmt.Sprintf("%s#%d", tab.CurrPath, idx)
	doubleClick := app.lastClickKey == clickKey && time.Since(app.lastClickTime) <= doubleClickThreshold
	app.lastClickKey = clickKey
	app.lastClickTime = time.Now()

	app.actionCh <- statepkg.SelectIndexAction{Index: idx}
	if doubleClick {
		app.actionCh <- statepkg.RightArrowAction{}
	}
	return true
}

func (app *Application) handleBreadcrumbClick(x int) bool {
	if x < 0 || app.state == nil {
		return false
	}
	pos := runewidth.StringWidth(renderui.HeaderTitle) + 1
	if x < pos {
		return false
	}

	segments := renderui.FormatBreadcrumbSegments(app.state.CurrentPath())
	sepW := runewidth.StringWidth(renderui.BreadcrumbSep)
	limit := app.state.ScreenWidth - renderui.TabBarWidth(app.state)

	// Clicks are only mapped when the breadcrumb was drawn untruncated.
	totalWidth := 0
	for i, s := range segments {
		if i > 0 {
			totalWidth += sepW
		}
		totalWidth += runewidth.StringWidth(s)
	}
	if pos+totalWidth > limit {
		return false
	}

	currentX := pos
	for i, s := range segments {
		if i > 0 {
			if x >= currentX && x < currentX+sepW {
				app.jumpToBreadcrumb(segments, i-1)
				return true
			}
			currentX += sepW
		}
		segW := runewidth.StringWidth(s)
		if x >= currentX && x < currentX+segW {
			app.jumpToBreadcrumb(segments, i)
			return true
		}
		currentX += segW
	}
	return false
}

func (app *Application) jumpToBreadcrumb(segments []string, idx int) {
	if path := renderui.BreadcrumbPath(segments, idx); path != "" {
		app.actionCh <- statepkg.GoToPathAction{Path: path}
	}
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

func (app *Application) isFlashing() bool {
	if app.state == nil || app.state.LastYankTime.IsZero() {
		return false
	}
	return time.Since(app.state.LastYankTime) < 100*time.Millisecond
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case statepkg.QuitAction:
		app.shouldQuit = true
		return false
	case statepkg.QuitAndChangeAction:
		app.currentPath = app.state.CurrentPath()
		app.shouldQuit = true
		return false
	case statepkg.SuspendAction:
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	case statepkg.ResizeAction:
	default:
		app.state.LastError = nil
		app.state.Message = ""
	}

	return app.handleAppAction(action)
}

func (app *Application) handleAppAction(action statepkg.Action) bool {
	switch action.(type) {
	case statepkg.YankPathAction:
		return app.handleClipboard()
	case statepkg.RightArrowAction:
		return app.handleRightArrow()
	case statepkg.OpenEditorAction:
		return app.handleEditorOpen()
	case statepkg.OpenPagerAction:
		return app.handleOpenPager()
	}

	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		app.state.LastError = err
	}
	if len(app.state.Tabs) == 0 {
		app.shouldQuit = true
	}
	return true
}
