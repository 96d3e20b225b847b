// Package shellsetup prints the shell function that lets tdir change the
// calling shell's directory on exit.
package shellsetup

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"text/template"
)

// FunctionName is the shell function the snippets define.
const FunctionName = "tdir"

// ResultFile is where a tdir process with the given pid leaves the
// directory the shell should change to.
func ResultFile(pid int) string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("tdir_result_%d.txt", pid))
}

type ParentShellFunc func() string

type Config struct {
	DetectParent ParentShellFunc
	// Executable overrides the binary path embedded in the snippet.
	Executable string
}

// ErrUnsupportedShell is returned for shells without a snippet.
type ErrUnsupportedShell struct {
	Shell string
}

func (e ErrUnsupportedShell) Error() string {
	return fmt.Sprintf("no shell integration for %s; supported: bash, zsh, sh, ksh, fish, pwsh", e.Shell)
}

// The tdir process is started in the background so the function learns its
// pid and can find the result file.
var snippets = map[string]*template.Template{
	"posix": template.Must(template.New("posix").Parse(`{{.Name}}() {
    command {{.Exe}} "$@" &
    tdir_pid=$!
    wait $tdir_pid
    tdir_status=$?

    result_file="${TMPDIR:-/tmp}/tdir_result_$tdir_pid.txt"
    if [ -f "$result_file" ] && [ ! -L "$result_file" ] && [ -O "$result_file" ]; then
        dest=$(cat "$result_file" 2>/dev/null)
        if [ -d "$dest" ]; then
            cd "$dest" || true
        fi
    fi
    rm -f "$result_file" 2>/dev/null
    return $tdir_status
}
`)),
	"fish": template.Must(template.New("fish").Parse(`function {{.Name}}
    command {{.Exe}} $argv &
    set -l tdir_pid $last_pid
    wait $tdir_pid

    set -l tmp (set -q TMPDIR; and echo $TMPDIR; or echo /tmp)
    set -l result_file "$tmp/tdir_result_$tdir_pid.txt"
    if test -f "$result_file" -a ! -L "$result_file" -a -O "$result_file"
        set -l dest (cat "$result_file" 2>/dev/null)
        if test -d "$dest"
            builtin cd "$dest"
        end
    end
    rm -f "$result_file" 2>/dev/null
end
`)),
	"pwsh": template.Must(template.New("pwsh").Parse(`function {{.Name}} {
    $process = Start-Process -FilePath {{.Exe}} -ArgumentList $args -NoNewWindow -PassThru
    $process.WaitForExit()

    $resultFile = Join-Path ([System.IO.Path]::GetTempPath()) "tdir_result_$($process.Id).txt"
    try {
        if (Test-Path $resultFile -PathType Leaf) {
            $dest = (Get-Content $resultFile -Raw -ErrorAction SilentlyContinue).Trim()
            if ($dest -and (Test-Path $dest -PathType Container)) {
                Set-Location $dest
            }
        }
    } finally {
        Remove-Item $resultFile -ErrorAction SilentlyContinue
    }
}
`)),
}

var executableFn = os.Executable

// PrintSetup writes the integration snippet for shellOverride, or for the
// detected shell when the override is empty.
func PrintSetup(w io.Writer, shellOverride string, cfg Config) error {
	parent := cfg.DetectParent
	if parent == nil {
		parent = DetectParentShellName
	}

	shell := canonicalShellName(normalizeShellName(shellOverride))
	if shell == "" {
		shell = detectShell(parent)
	}

	family, ok := snippetFamily(shell)
	if !ok {
		return ErrUnsupportedShell{Shell: shell}
	}

	exe := cfg.Executable
	if exe == "" {
		resolved, err := executableFn()
		if err != nil {
			resolved = FunctionName
		}
		exe = resolved
	}

	return snippets[family].Execute(w, struct {
		Name string
		Exe  string
	}{Name: FunctionName, Exe: quoteFor(family, exe)})
}

func snippetFamily(shell string) (string, bool) {
	switch shell {
	case "bash", "zsh", "sh", "ksh", "dash", "ash":
		return "posix", true
	case "fish":
		return "fish", true
	case "pwsh":
		return "pwsh", true
	default:
		return "", false
	}
}

func quoteFor(family, exe string) string {
	switch family {
	case "pwsh":
		return "'" + strings.ReplaceAll(exe, "'", "''") + "'"
	case "fish":
		return "'" + strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(exe) + "'"
	default:
		return strconv.Quote(exe)
	}
}

func detectShell(parent ParentShellFunc) string {
	return detectShellInternal(runtime.GOOS, os.Getenv, parent)
}

func detectShellInternal(goos string, getenv func(string) string, parent ParentShellFunc) string {
	if shell := canonicalShellName(normalizeShellName(getenv("SHELL"))); shell != "" {
		return shell
	}

	if parent != nil {
		if shell := canonicalShellName(normalizeShellName(parent())); shell != "" {
			return shell
		}
	}

	if strings.EqualFold(goos, "windows") {
		if shell := canonicalShellName(normalizeShellName(getenv("COMSPEC"))); shell == "cmd" {
			return shell
		}
		return "pwsh"
	}

	return "bash"
}

func canonicalShellName(name string) string {
	switch name {
	case "powershell":
		return "pwsh"
	default:
		return strings.TrimPrefix(name, "-")
	}
}

// normalizeShellName reduces a path or command line such as
// `"C:\Program Files\PowerShell\pwsh.exe" -NoLogo` to "pwsh".
func normalizeShellName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	switch value[0] {
	case '"', '\'':
		quote := value[0]
		value = value[1:]
		if idx := strings.IndexByte(value, quote); idx >= 0 {
			value = value[:idx]
		}
	default:
		if idx := strings.IndexAny(value, " \t"); idx >= 0 {
			value = value[:idx]
		}
	}
	if value == "" {
		return ""
	}

	base := path.Base(strings.ReplaceAll(value, `\`, "/"))
	return strings.TrimSuffix(strings.ToLower(base), ".exe")
}
