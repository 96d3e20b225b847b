package app

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	fsutil "github.com/kk-code-lab/tdir/internal/fs"
	"github.com/kk-code-lab/tdir/internal/logging"
	statepkg "github.com/kk-code-lab/tdir/internal/state"
)

var commandBuilder = exec.Command

var errNotText = errors.New("not a text file")

func (app *Application) handleClipboard() bool {
	if !app.clipboardAvail || len(app.clipboardCmd) == 0 {
		return true
	}
	target := app.state.CurrentFilePath()
	if target == "" {
		target = app.state.CurrentPath()
	}
	cmd := commandBuilder(app.clipboardCmd[0], app.clipboardCmd[1:]...)
	cmd.Stdin = strings.NewReader(normalizeClipboardPath(target, runtime.GOOS))
	if err := cmd.Run(); err != nil {
		app.state.LastError = fmt.Errorf("%s: %w", app.clipboardCmd[0], err)
		return true
	}
	app.state.LastYankTime = time.Now()
	return true
}

func normalizeClipboardPath(inputPath string, goos string) string {
	if strings.EqualFold(goos, "windows") {
		cleaned := filepath.Clean(inputPath)
		return strings.ReplaceAll(cleaned, "/", `\`)
	}
	return path.Clean(filepath.ToSlash(inputPath))
}

// handleRightArrow enters a directory under the cursor; for files it opens
// the first marked text file in the pager.
func (app *Application) handleRightArrow() bool {
	tab := app.state.ActiveTab()
	if tab == nil {
		return true
	}
	paths, err := statepkg.OpenCursor(tab, app.state.Options)
	if err != nil {
		app.state.LastError = err
	}
	if len(paths) == 0 {
		// Entered a directory: keep the preview column in step.
		app.reducer.WarmPreview(app.state)
		return true
	}
	for _, p := range paths {
		err := app.openFileInPager(p)
		if errors.Is(err, errNotText) {
			continue
		}
		if err != nil {
			app.state.LastError = err
		}
		app.reloadAfterExternal()
		return true
	}
	app.state.Message = fmt.Sprintf("%s: %v", filepath.Base(paths[0]), errNotText)
	return true
}

func (app *Application) handleEditorOpen() bool {
	if !app.state.EditorAvailable || len(app.editorCmd) == 0 {
		return false
	}
	tab := app.state.ActiveTab()
	if tab == nil {
		return false
	}
	entry, ok := tab.CursorEntry()
	if !ok || entry.IsDir {
		return false
	}

	paths := statepkg.CollectSelected(tab.CurrList)
	if err := app.openFilesInEditor(paths); err != nil {
		app.state.LastError = err
	}
	app.reloadAfterExternal()
	return true
}

func (app *Application) handleOpenPager() bool {
	filePath := app.state.CurrentFilePath()
	entry, ok := app.state.CurrentFile()
	if !ok || entry.IsDir {
		return true
	}
	if err := app.openFileInPager(filePath); err != nil {
		if errors.Is(err, errNotText) {
			app.state.Message = fmt.Sprintf("%s: %v", entry.Name, err)
		} else {
			app.state.LastError = err
		}
	}
	return true
}

// reloadAfterExternal picks up whatever an editor or pager changed on disk.
func (app *Application) reloadAfterExternal() {
	tab := app.state.ActiveTab()
	if tab == nil {
		return
	}
	if err := statepkg.ReloadTab(tab, app.state.Options); err != nil {
		logging.L().WithError(err).Debug("reload after external command")
	}
}

func (app *Application) pagerArgs(filePath string) []string {
	if len(app.pagerCmd) == 0 {
		return nil
	}
	args := make([]string, len(app.pagerCmd)+1)
	copy(args, app.pagerCmd)
	args[len(app.pagerCmd)] = filePath
	return args
}

func (app *Application) openFileInPager(filePath string) error {
	sample, err := fsutil.ReadTextSample(filePath)
	if err != nil {
		return fmt.Errorf("cannot read file: %w", err)
	}
	if !fsutil.IsTextFile(filePath, sample) {
		return errNotText
	}

	pagerArgs := app.pagerArgs(filePath)
	if len(pagerArgs) == 0 {
		return fmt.Errorf("no pager command available")
	}
	return app.runAttached(pagerArgs)
}

func (app *Application) openFilesInEditor(paths []string) error {
	if len(app.editorCmd) == 0 {
		return fmt.Errorf("no editor configured")
	}
	if len(paths) == 0 {
		return nil
	}
	return app.runAttached(app.editorArgsWithFiles(paths))
}

// runAttached hands the terminal to an external command, preferring the
// controlling tty so redirected stdio does not leak into the child.
func (app *Application) runAttached(args []string) error {
	if runtime.GOOS == "windows" {
		return app.runExternalFallback(args)
	}
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return app.runExternalFallback(args)
	}
	defer func() {
		_ = tty.Close()
	}()

	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}

	cmd := commandBuilder(args[0], args[1:]...)
	cmd.Stdin = tty
	cmd.Stdout = tty
	cmd.Stderr = tty
	runErr := cmd.Run()

	if err := app.screen.Resume(); err != nil {
		return fmt.Errorf("failed to resume screen: %w", err)
	}
	app.screen.Sync()
	if runErr != nil {
		return fmt.Errorf("%s: %w", args[0], runErr)
	}
	return nil
}

func (app *Application) runExternalFallback(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command available")
	}
	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}
	defer func() {
		_ = flushConsoleInput()
		_ = app.screen.Resume()
		app.screen.Sync()
	}()

	cmd := commandBuilder(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return nil
}

func (app *Application) editorArgsWithFiles(paths []string) []string {
	args := make([]string, 0, len(app.editorCmd)+len(paths))
	args = append(args, app.editorCmd...)
	return append(args, paths...)
}
