package app

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
)

// Commands carries user overrides for the external programs tdir shells
// out to. Empty fields fall back to detection.
type Commands struct {
	Editor    string
	Pager     string
	Clipboard string
}

// commandEnv is the slice of the host environment command detection needs.
type commandEnv struct {
	goos     string
	getenv   func(string) string
	lookPath func(string) (string, error)
}

func hostEnv() commandEnv {
	return commandEnv{goos: runtime.GOOS, getenv: os.Getenv, lookPath: exec.LookPath}
}

func (e commandEnv) windows() bool {
	return strings.EqualFold(e.goos, "windows")
}

// resolve returns the command line with its executable looked up on PATH.
func (e commandEnv) resolve(args []string) ([]string, bool) {
	if len(args) == 0 || args[0] == "" {
		return nil, false
	}
	path, err := e.lookPath(expandUserPath(args[0]))
	if err != nil || path == "" {
		return nil, false
	}
	out := append([]string{path}, args[1:]...)
	return out, true
}

func (e commandEnv) firstOf(candidates ...[]string) ([]string, bool) {
	for _, c := range candidates {
		if resolved, ok := e.resolve(c); ok {
			return resolved, true
		}
	}
	return nil, false
}

func (e commandEnv) clipboard(override string) ([]string, bool) {
	if args := splitCommandLine(override); len(args) > 0 {
		return e.resolve(args)
	}
	var candidates [][]string
	if e.windows() {
		candidates = append(candidates,
			[]string{"clip.exe"}, []string{"clip"},
			[]string{"powershell", "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"},
			[]string{"powershell.exe", "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"},
			[]string{"pwsh", "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"},
		)
	}
	candidates = append(candidates,
		[]string{"pbcopy"},
		[]string{"wl-copy"},
		[]string{"xclip", "-selection", "clipboard"},
		[]string{"xsel", "--clipboard", "--input"},
	)
	return e.firstOf(candidates...)
}

// editor honours the override, then $VISUAL and $EDITOR, then a platform
// default.
func (e commandEnv) editor(override string) ([]string, bool) {
	for _, candidate := range []string{override, e.getenv("VISUAL"), e.getenv("EDITOR")} {
		if resolved, ok := e.resolve(splitCommandLine(candidate)); ok {
			return resolved, true
		}
	}
	if e.windows() {
		return e.firstOf([]string{"code", "--wait"}, []string{"notepad++.exe"}, []string{"notepad.exe"})
	}
	return e.firstOf([]string{"vim"}, []string{"vi"}, []string{"nano"})
}

// pager honours the override, then $PAGER, then a platform default. The
// default is returned unresolved so a missing pager surfaces as a run error.
func (e commandEnv) pager(override string) []string {
	for _, candidate := range []string{override, e.getenv("PAGER")} {
		if args := splitCommandLine(candidate); len(args) > 0 {
			return args
		}
	}
	if e.windows() {
		if resolved, ok := e.firstOf([]string{"more.com"}, []string{"more"}); ok {
			return resolved
		}
		return []string{"cmd", "/C", "type"}
	}
	return []string{"less", "-R"}
}

// splitCommandLine splits cmd on unquoted whitespace. Single and double
// quotes group words; there are no escapes.
func splitCommandLine(cmd string) []string {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return nil
	}

	var args []string
	var current strings.Builder
	inSingle := false
	inDouble := false

	for _, r := range cmd {
		switch {
		case r == '\'' && !inDouble:
			inSingle = !inSingle
		case r == '"' && !inSingle:
			inDouble = !inDouble
		case !inSingle && !inDouble && unicode.IsSpace(r):
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}

var userHomeDirFn = os.UserHomeDir

func expandUserPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	if len(path) > 1 && path[1] != '/' && path[1] != '\\' {
		return path
	}
	home, err := userHomeDirFn()
	if err != nil {
		return path
	}
	if len(path) == 1 {
		return home
	}
	return filepath.Join(home, path[2:])
}
