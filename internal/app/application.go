package app

import (
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/tdir/internal/logging"
	"github.com/kk-code-lab/tdir/internal/sortmode"
	statepkg "github.com/kk-code-lab/tdir/internal/state"
	inputui "github.com/kk-code-lab/tdir/internal/ui/input"
	renderui "github.com/kk-code-lab/tdir/internal/ui/render"
)

// Options configures a new Application.
type Options struct {
	StartPath string
	Sort      sortmode.Options
	MaxTabs   int
	Commands  Commands
}

// Application represents the running app.
type Application struct {
	screen         tcell.Screen
	state          *statepkg.Context
	reducer        *statepkg.StateReducer
	renderer       *renderui.Renderer
	input          *inputui.InputHandler
	actionCh       chan statepkg.Action
	shouldQuit     bool
	currentPath    string
	clipboardCmd   []string
	clipboardAvail bool
	editorCmd      []string
	pagerCmd       []string
	lastClickKey   string
	lastClickTime  time.Time
}

// NewApplication initialises the screen and opens the first tab.
func NewApplication(opts Options) (*Application, error) {
	startPath := opts.StartPath
	if startPath == "" {
		cwd, err := GetCwd()
		if err != nil {
			return nil, err
		}
		startPath = cwd
	}
	origCwd, _ := GetCwd()

	state, diagnostics, err := statepkg.NewContext(startPath, opts.Sort, opts.MaxTabs)
	if err != nil {
		return nil, err
	}
	if len(diagnostics) > 0 {
		logging.L().WithField("count", len(diagnostics)).Warn("some parent directories could not be read")
		state.Message = fmt.Sprintf("unreadable parent directories: %d", len(diagnostics))
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	// Parse mouse sequences so modified clicks don't leak as key events.
	screen.EnableMouse()

	env := hostEnv()
	clipboardCmd, clipboardAvail := env.clipboard(opts.Commands.Clipboard)
	editorCmd, editorAvail := env.editor(opts.Commands.Editor)
	state.ClipboardAvailable = clipboardAvail
	state.EditorAvailable = editorAvail
	state.ScreenWidth, state.ScreenHeight = screen.Size()

	actionCh := make(chan statepkg.Action, 10)
	reducer := statepkg.NewStateReducer()
	inputHandler := inputui.NewInputHandler(actionCh)
	inputHandler.SetState(state)
	reducer.WarmPreview(state)

	return &Application{
		screen:         screen,
		state:          state,
		reducer:        reducer,
		renderer:       renderui.NewRenderer(screen),
		input:          inputHandler,
		actionCh:       actionCh,
		currentPath:    origCwd,
		clipboardCmd:   clipboardCmd,
		clipboardAvail: clipboardAvail,
		editorCmd:      editorCmd,
		pagerCmd:       env.pager(opts.Commands.Pager),
	}, nil
}

// Close cleans up resources.
func (app *Application) Close() error {
	close(app.actionCh)
	app.screen.Fini()
	return nil
}

// GetCurrentPath returns the directory the shell should land in on exit:
// the starting directory, unless the user quit with 'x'.
func (app *Application) GetCurrentPath() string {
	return app.currentPath
}

// GetCwd returns current working directory.
func GetCwd() (string, error) {
	return os.Getwd()
}
