package app

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/tdir/internal/sortmode"
	statepkg "github.com/kk-code-lab/tdir/internal/state"
	renderui "github.com/kk-code-lab/tdir/internal/ui/render"
)

func TestNormalizeClipboardPathWindows(t *testing.T) {
	input := `C:\Users\me/project/sub/file.txt`
	got := normalizeClipboardPath(input, "windows")
	want := `C:\Users\me\project\sub\file.txt`
	if got != want {
		t.Fatalf("normalizeClipboardPath(%q, windows) = %q, want %q", input, got, want)
	}
}

func TestNormalizeClipboardPathUnix(t *testing.T) {
	input := "/tmp/project/dir/../file.txt"
	got := normalizeClipboardPath(input, "linux")
	want := "/tmp/project/file.txt"
	if got != want {
		t.Fatalf("normalizeClipboardPath(%q, linux) = %q, want %q", input, got, want)
	}
}

func TestHandleClipboardSetsLastErrorOnFailure(t *testing.T) {
	app, _ := newTestApplication(t, "sample.txt")
	app.clipboardAvail = true
	app.clipboardCmd = []string{"fake-clip", "--flag"}

	var recorded []string
	withFakeCommandBuilder(t, 7, &recorded, func() {
		app.handleClipboard()
	})

	if app.state.LastError == nil {
		t.Fatalf("expected clipboard failure to set LastError")
	}
	if got := app.state.LastError.Error(); !strings.Contains(got, "fake-clip") {
		t.Fatalf("expected error mentioning command, got %q", got)
	}
	if !app.state.LastYankTime.IsZero() {
		t.Fatalf("expected LastYankTime to remain zero on failure")
	}
	assertCommandRecorded(t, recorded, []string{"fake-clip", "--flag"})
}

func TestHandleClipboardUpdatesYankTimeOnSuccess(t *testing.T) {
	app, _ := newTestApplication(t, "sample.txt")
	app.clipboardAvail = true
	app.clipboardCmd = []string{"fake-clip"}

	var recorded []string
	withFakeCommandBuilder(t, 0, &recorded, func() {
		app.handleClipboard()
	})

	if app.state.LastYankTime.IsZero() {
		t.Fatalf("expected LastYankTime to update on success")
	}
	if app.state.LastError != nil {
		t.Fatalf("expected LastError to remain nil on success, got %v", app.state.LastError)
	}
	assertCommandRecorded(t, recorded, []string{"fake-clip"})
}

func TestHandleClipboardWithoutCommandIsNoop(t *testing.T) {
	app, _ := newTestApplication(t, "sample.txt")

	var recorded []string
	withFakeCommandBuilder(t, 0, &recorded, func() {
		app.handleClipboard()
	})

	if recorded != nil {
		t.Fatalf("expected no command, got %v", recorded)
	}
	if !app.state.LastYankTime.IsZero() {
		t.Fatalf("expected LastYankTime to stay zero")
	}
}

func TestRunExternalFallbackPropagatesError(t *testing.T) {
	app := &Application{
		screen: newTestScreen(t),
	}
	args := []string{"fake-pager", "--raw"}

	var recorded []string
	var err error
	withFakeCommandBuilder(t, 3, &recorded, func() {
		err = app.runExternalFallback(args)
	})

	if err == nil {
		t.Fatalf("expected error from fallback")
	}
	if got := err.Error(); !strings.Contains(got, "fake-pager") {
		t.Fatalf("expected error to include command name, got %q", got)
	}
	assertCommandRecorded(t, recorded, args)
}

func TestRightArrowOnDirectoryEntersIt(t *testing.T) {
	app, dir := newTestApplication(t, "sub/", "z.txt")

	app.handleAction(statepkg.RightArrowAction{})

	want := filepath.Join(dir, "sub")
	if got := app.state.CurrentPath(); got != want {
		t.Fatalf("expected to enter %q, got %q", want, got)
	}
	if tab := app.state.ActiveTab(); tab.ParentList == nil || tab.ParentList.Path() != dir {
		t.Fatalf("expected parent listing of %q", dir)
	}
}

func TestRightArrowOnTextFileRunsPager(t *testing.T) {
	app, dir := newTestApplication(t, "notes.txt")
	app.pagerCmd = []string{"fake-pager"}

	var recorded []string
	withFakeCommandBuilder(t, 0, &recorded, func() {
		app.handleAction(statepkg.RightArrowAction{})
	})

	if app.state.LastError != nil {
		t.Fatalf("unexpected error: %v", app.state.LastError)
	}
	assertCommandRecorded(t, recorded, []string{"fake-pager", filepath.Join(dir, "notes.txt")})
}

func TestRightArrowOnBinaryFileSetsMessage(t *testing.T) {
	app, dir := newTestApplication(t)
	if err := os.WriteFile(filepath.Join(dir, "blob.bin"), []byte{0x00, 0x01, 0x02, 0xff}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	reloadActive(t, app)
	app.pagerCmd = []string{"fake-pager"}

	var recorded []string
	withFakeCommandBuilder(t, 0, &recorded, func() {
		app.handleAction(statepkg.RightArrowAction{})
	})

	if recorded != nil {
		t.Fatalf("expected pager not to run, got %v", recorded)
	}
	if !strings.Contains(app.state.Message, "not a text file") {
		t.Fatalf("expected not-a-text-file message, got %q", app.state.Message)
	}
}

func TestEditorOpensMarkedFiles(t *testing.T) {
	app, dir := newTestApplication(t, "a.txt", "b.txt", "c.txt")
	app.state.EditorAvailable = true
	app.editorCmd = []string{"fake-editor", "--wait"}

	app.handleAction(statepkg.ToggleSelectAction{})
	app.handleAction(statepkg.NavigateDownAction{})
	app.handleAction(statepkg.ToggleSelectAction{})

	var recorded []string
	withFakeCommandBuilder(t, 0, &recorded, func() {
		app.handleAction(statepkg.OpenEditorAction{})
	})

	assertCommandRecorded(t, recorded, []string{
		"fake-editor", "--wait",
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "c.txt"),
	})
}

func TestEditorIgnoredOnDirectory(t *testing.T) {
	app, _ := newTestApplication(t, "sub/")
	app.state.EditorAvailable = true
	app.editorCmd = []string{"fake-editor"}

	var recorded []string
	withFakeCommandBuilder(t, 0, &recorded, func() {
		app.handleAction(statepkg.OpenEditorAction{})
	})

	if recorded != nil {
		t.Fatalf("expected editor not to run on a directory, got %v", recorded)
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	code, err := strconv.Atoi(os.Getenv("HELPER_PROCESS_EXIT"))
	if err != nil {
		code = 1
	}
	os.Exit(code)
}

// newTestApplication builds an app over a fresh temp directory. Names
// ending in "/" become directories, the rest small text files.
func newTestApplication(t *testing.T, names ...string) (*Application, string) {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		full := filepath.Join(dir, name)
		if strings.HasSuffix(name, "/") {
			if err := os.MkdirAll(full, 0o755); err != nil {
				t.Fatalf("mkdir %s: %v", name, err)
			}
			continue
		}
		if err := os.WriteFile(full, []byte("hello "+name+"\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	// Opening a tab changes the working directory.
	t.Chdir(dir)

	state, _, err := statepkg.NewContext(dir, sortmode.Default(), 3)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	state.ScreenWidth = 160
	state.ScreenHeight = 40

	scr := newTestScreen(t)
	scr.SetSize(160, 40)

	return &Application{
		screen:   scr,
		state:    state,
		reducer:  statepkg.NewStateReducer(),
		renderer: renderui.NewRenderer(scr),
		actionCh: make(chan statepkg.Action, 4),
	}, dir
}

func reloadActive(t *testing.T, app *Application) {
	t.Helper()
	if _, err := app.reducer.Reduce(app.state, statepkg.ReloadAction{}); err != nil {
		t.Fatalf("reload: %v", err)
	}
}

func withFakeCommandBuilder(t *testing.T, exitCode int, recorded *[]string, fn func()) {
	t.Helper()
	orig := commandBuilder
	commandBuilder = func(name string, args ...string) *exec.Cmd {
		if recorded != nil {
			*recorded = append([]string{name}, args...)
		}
		return helperProcessCommand(exitCode, name, args...)
	}
	defer func() {
		commandBuilder = orig
	}()
	fn()
}

func helperProcessCommand(exitCode int, name string, args ...string) *exec.Cmd {
	cmdArgs := []string{"-test.run=TestHelperProcess", "--", name}
	cmdArgs = append(cmdArgs, args...)
	cmd := exec.Command(os.Args[0], cmdArgs...)
	cmd.Env = append(os.Environ(),
		"GO_WANT_HELPER_PROCESS=1",
		"HELPER_PROCESS_EXIT="+strconv.Itoa(exitCode),
	)
	return cmd
}

func newTestScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("failed to init screen: %v", err)
	}
	t.Cleanup(func() {
		screen.Fini()
	})
	return screen
}

func assertCommandRecorded(t *testing.T, recorded, want []string) {
	t.Helper()
	if len(recorded) != len(want) {
		t.Fatalf("expected command %v, got %v", want, recorded)
	}
	for i := range want {
		if recorded[i] != want[i] {
			t.Fatalf("expected command %v, got %v", want, recorded)
		}
	}
}
