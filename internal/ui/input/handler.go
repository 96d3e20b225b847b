package input

import (
	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/tdir/internal/state"
)

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan statepkg.Action
	state      *statepkg.Context // Reference to current state for mode checking
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// SetState sets the state reference for mode checking
func (ih *InputHandler) SetState(state *statepkg.Context) {
	ih.state = state
}

// ProcessEvent converts a tcell event into an Action. It returns false once
// the user asked to quit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		ih.actionChan <- statepkg.QuitAction{}
		return false
	}

	if ih.state != nil && ih.state.HelpVisible {
		ih.processHelpKey(ev)
		return true
	}

	// Deletion waits for an explicit 'y'; anything else cancels it.
	if ih.state != nil && len(ih.state.PendingDelete) > 0 {
		if ev.Key() == tcell.KeyRune && ev.Rune() == 'y' {
			ih.actionChan <- statepkg.ConfirmDeleteAction{}
		} else {
			ih.actionChan <- statepkg.CancelDeleteAction{}
		}
		return true
	}

	switch ev.Key() {
	case tcell.KeyUp:
		ih.actionChan <- statepkg.NavigateUpAction{}
	case tcell.KeyDown:
		ih.actionChan <- statepkg.NavigateDownAction{}
	case tcell.KeyEnter, tcell.KeyRight:
		ih.actionChan <- statepkg.RightArrowAction{}
	case tcell.KeyLeft:
		ih.actionChan <- statepkg.GoUpAction{}
	case tcell.KeyPgUp:
		ih.actionChan <- statepkg.ScrollPageUpAction{}
	case tcell.KeyPgDn:
		ih.actionChan <- statepkg.ScrollPageDownAction{}
	case tcell.KeyHome:
		ih.actionChan <- statepkg.ScrollToStartAction{}
	case tcell.KeyEnd:
		ih.actionChan <- statepkg.ScrollToEndAction{}
	case tcell.KeyTab:
		ih.actionChan <- statepkg.NextTabAction{}
	case tcell.KeyBacktab:
		ih.actionChan <- statepkg.PrevTabAction{}
	case tcell.KeyF5:
		ih.actionChan <- statepkg.ReloadAction{}
	case tcell.KeyCtrlZ:
		ih.actionChan <- statepkg.SuspendAction{}
	case tcell.KeyRune:
		return ih.processRune(ev.Rune())
	}
	return true
}

func (ih *InputHandler) processHelpKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ih.actionChan <- statepkg.HelpHideAction{}
	case tcell.KeyRune:
		switch ev.Rune() {
		case '?', 'q', 'Q':
			ih.actionChan <- statepkg.HelpHideAction{}
		}
	}
}

func (ih *InputHandler) processRune(r rune) bool {
	switch r {
	case 'q':
		ih.actionChan <- statepkg.QuitAction{}
		return false
	case 'x':
		ih.actionChan <- statepkg.QuitAndChangeAction{}
		return false
	case 'k':
		ih.actionChan <- statepkg.NavigateUpAction{}
	case 'j':
		ih.actionChan <- statepkg.NavigateDownAction{}
	case 'l':
		ih.actionChan <- statepkg.RightArrowAction{}
	case 'h':
		ih.actionChan <- statepkg.GoUpAction{}
	case 'g':
		ih.actionChan <- statepkg.ScrollToStartAction{}
	case 'G':
		ih.actionChan <- statepkg.ScrollToEndAction{}
	case '~':
		ih.actionChan <- statepkg.GoHomeAction{}
	case ' ':
		ih.actionChan <- statepkg.ToggleSelectAction{}
	case '.':
		ih.actionChan <- statepkg.ToggleHiddenFilesAction{}
	case 's':
		ih.actionChan <- statepkg.CycleSortModeAction{}
	case 'r', 'R':
		ih.actionChan <- statepkg.ReloadAction{}
	case 'D':
		ih.actionChan <- statepkg.DeleteSelectedAction{}
	case 't':
		ih.actionChan <- statepkg.NewTabAction{}
	case 'w':
		ih.actionChan <- statepkg.CloseTabAction{}
	case 'y':
		ih.actionChan <- statepkg.YankPathAction{}
	case 'e', 'E':
		if ih.state != nil && ih.state.EditorAvailable {
			ih.actionChan <- statepkg.OpenEditorAction{}
		}
	case 'p', 'P':
		ih.actionChan <- statepkg.OpenPagerAction{}
	case '?':
		ih.actionChan <- statepkg.HelpToggleAction{}
	}
	return true
}
