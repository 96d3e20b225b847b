package app

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/tdir/internal/state"
	inputui "github.com/kk-code-lab/tdir/internal/ui/input"
	renderui "github.com/kk-code-lab/tdir/internal/ui/render"
	"github.com/mattn/go-runewidth"
)

func renderedLayout(t *testing.T, app *Application) renderui.Layout {
	t.Helper()
	app.renderer.Render(app.state)
	layout, ok := app.renderer.LastLayout()
	if !ok {
		t.Fatalf("expected a layout after render")
	}
	return layout
}

func newTestInput(app *Application) *inputui.InputHandler {
	h := inputui.NewInputHandler(app.actionCh)
	h.SetState(app.state)
	return h
}

func drainActions(app *Application) []statepkg.Action {
	var out []statepkg.Action
	for {
		select {
		case a := <-app.actionCh:
			out = append(out, a)
		default:
			return out
		}
	}
}

func TestHandleMouseIgnoresPreviewClicks(t *testing.T) {
	app, _ := newTestApplication(t, "a.txt", "b.txt")
	layout := renderedLayout(t, app)
	if !layout.ShowPreview {
		t.Fatalf("expected preview to be visible for test layout")
	}

	ev := tcell.NewEventMouse(layout.PreviewStart+1, renderui.ListTop+1, tcell.Button1, tcell.ModNone)
	if !app.handleMouse(ev) {
		t.Fatalf("handleMouse returned false")
	}
	if got := drainActions(app); len(got) != 0 {
		t.Fatalf("expected no action for preview click, got %v", got)
	}
}

func TestHandleMouseSelectsFromMainPanel(t *testing.T) {
	app, _ := newTestApplication(t, "a.txt", "b.txt", "c.txt")
	layout := renderedLayout(t, app)

	ev := tcell.NewEventMouse(layout.MainStart+1, renderui.ListTop+2, tcell.Button1, tcell.ModNone)
	app.handleMouse(ev)

	got := drainActions(app)
	if len(got) != 1 {
		t.Fatalf("expected one action, got %v", got)
	}
	sel, ok := got[0].(statepkg.SelectIndexAction)
	if !ok || sel.Index != 2 {
		t.Fatalf("expected SelectIndexAction{2}, got %#v", got[0])
	}
}

func TestHandleMouseBelowListIsIgnored(t *testing.T) {
	app, _ := newTestApplication(t, "a.txt")
	layout := renderedLayout(t, app)

	ev := tcell.NewEventMouse(layout.MainStart+1, renderui.ListTop+5, tcell.Button1, tcell.ModNone)
	app.handleMouse(ev)
	if got := drainActions(app); len(got) != 0 {
		t.Fatalf("expected no action past the last entry, got %v", got)
	}
}

func TestHandleMouseDoubleClickOpens(t *testing.T) {
	app, _ := newTestApplication(t, "sub/", "z.txt")
	layout := renderedLayout(t, app)

	ev := tcell.NewEventMouse(layout.MainStart+1, renderui.ListTop, tcell.Button1, tcell.ModNone)
	app.handleMouse(ev)
	app.handleMouse(ev)

	got := drainActions(app)
	if len(got) != 3 {
		t.Fatalf("expected select, select, open; got %v", got)
	}
	if _, ok := got[2].(statepkg.RightArrowAction); !ok {
		t.Fatalf("expected RightArrowAction last, got %T", got[2])
	}
}

func TestHandleMouseSlowClicksDoNotOpen(t *testing.T) {
	app, _ := newTestApplication(t, "sub/")
	layout := renderedLayout(t, app)

	ev := tcell.NewEventMouse(layout.MainStart+1, renderui.ListTop, tcell.Button1, tcell.ModNone)
	app.handleMouse(ev)
	app.lastClickTime = time.Now().Add(-time.Second)
	app.handleMouse(ev)

	for _, a := range drainActions(app) {
		if _, ok := a.(statepkg.RightArrowAction); ok {
			t.Fatalf("slow clicks must not open")
		}
	}
}

func TestHandleMouseParentColumnGoesUp(t *testing.T) {
	app, _ := newTestApplication(t, "a.txt")
	layout := renderedLayout(t, app)
	if layout.ParentWidth == 0 {
		t.Fatalf("expected a parent column")
	}

	app.handleMouse(tcell.NewEventMouse(0, renderui.ListTop, tcell.Button1, tcell.ModNone))
	got := drainActions(app)
	if len(got) != 1 {
		t.Fatalf("expected one action, got %v", got)
	}
	if _, ok := got[0].(statepkg.GoUpAction); !ok {
		t.Fatalf("expected GoUpAction, got %T", got[0])
	}
}

func TestHandleMouseBreadcrumbJumps(t *testing.T) {
	app, dir := newTestApplication(t, "a.txt")
	renderedLayout(t, app)

	segments := renderui.FormatBreadcrumbSegments(dir)
	if len(segments) < 2 {
		t.Fatalf("expected a nested temp dir, got %v", segments)
	}
	// Click the first character of the second-to-last segment.
	x := runewidth.StringWidth(renderui.HeaderTitle) + 1
	for i := 0; i < len(segments)-2; i++ {
		x += runewidth.StringWidth(segments[i]) + runewidth.StringWidth(renderui.BreadcrumbSep)
	}
	app.handleMouse(tcell.NewEventMouse(x, 0, tcell.Button1, tcell.ModNone))

	got := drainActions(app)
	if len(got) != 1 {
		t.Fatalf("expected one action, got %v", got)
	}
	jump, ok := got[0].(statepkg.GoToPathAction)
	if !ok {
		t.Fatalf("expected GoToPathAction, got %T", got[0])
	}
	if filepath.Clean(jump.Path) != filepath.Dir(dir) {
		t.Fatalf("expected jump to %q, got %q", filepath.Dir(dir), jump.Path)
	}
}

func TestHandleMouseIgnoredWhileHelpVisible(t *testing.T) {
	app, _ := newTestApplication(t, "a.txt")
	layout := renderedLayout(t, app)
	app.state.HelpVisible = true

	app.handleMouse(tcell.NewEventMouse(layout.MainStart+1, renderui.ListTop, tcell.Button1, tcell.ModNone))
	if got := drainActions(app); len(got) != 0 {
		t.Fatalf("expected no action under help overlay, got %v", got)
	}
}

func TestHandleActionClearsTransientStatus(t *testing.T) {
	app, _ := newTestApplication(t, "a.txt", "b.txt")
	app.state.LastError = errors.New("old")
	app.state.Message = "old message"

	app.handleAction(statepkg.NavigateDownAction{})

	if app.state.LastError != nil || app.state.Message != "" {
		t.Fatalf("expected status cleared, got err=%v msg=%q", app.state.LastError, app.state.Message)
	}
}

func TestHandleActionResizeKeepsStatus(t *testing.T) {
	app, _ := newTestApplication(t, "a.txt")
	app.state.Message = "keep"

	app.handleAction(statepkg.ResizeAction{Width: 100, Height: 30})

	if app.state.Message != "keep" {
		t.Fatalf("expected resize to keep message, got %q", app.state.Message)
	}
	if app.state.ScreenWidth != 100 || app.state.ScreenHeight != 30 {
		t.Fatalf("expected new size, got %dx%d", app.state.ScreenWidth, app.state.ScreenHeight)
	}
}

func TestQuitKeepsStartingDirectory(t *testing.T) {
	app, _ := newTestApplication(t, "sub/")
	app.currentPath = "/start"

	app.handleAction(statepkg.RightArrowAction{})
	app.handleAction(statepkg.QuitAction{})

	if !app.shouldQuit {
		t.Fatalf("expected quit")
	}
	if app.GetCurrentPath() != "/start" {
		t.Fatalf("expected starting directory, got %q", app.GetCurrentPath())
	}
}

func TestQuitAndChangeReportsCurrentDirectory(t *testing.T) {
	app, dir := newTestApplication(t, "sub/")
	app.currentPath = "/start"

	app.handleAction(statepkg.RightArrowAction{})
	app.handleAction(statepkg.QuitAndChangeAction{})

	if want := filepath.Join(dir, "sub"); app.GetCurrentPath() != want {
		t.Fatalf("expected %q, got %q", want, app.GetCurrentPath())
	}
}

func TestClosingLastTabQuits(t *testing.T) {
	app, _ := newTestApplication(t, "a.txt")

	app.handleAction(statepkg.NewTabAction{})
	app.handleAction(statepkg.CloseTabAction{})
	if app.shouldQuit {
		t.Fatalf("closing one of two tabs must not quit")
	}

	app.handleAction(statepkg.CloseTabAction{})
	if !app.shouldQuit {
		t.Fatalf("expected closing the last tab to quit")
	}
}

func TestHandleEventKeyDrainsQuit(t *testing.T) {
	app, _ := newTestApplication(t, "a.txt")
	app.input = newTestInput(app)

	app.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))

	if !app.shouldQuit {
		t.Fatalf("expected q to quit")
	}
}
