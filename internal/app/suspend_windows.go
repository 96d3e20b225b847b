//go:build windows

package app

import "os"

// Windows has no SIGTSTP/SIGCONT job control.
func contSignals() []os.Signal { return nil }

func (app *Application) suspendToShell() {
	app.state.Message = "suspend is not supported on Windows"
}

func (app *Application) resumeAfterStop() bool {
	return false
}
