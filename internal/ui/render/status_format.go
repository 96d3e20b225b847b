package render

import (
	"fmt"
	"strings"

	fsutil "github.com/kk-code-lab/tdir/internal/fs"
	statepkg "github.com/kk-code-lab/tdir/internal/state"
)

func formatStatusText(ctx *statepkg.Context) string {
	switch {
	case len(ctx.PendingDelete) > 0:
		return formatDeletePrompt(ctx.PendingDelete)
	case ctx.LastError != nil:
		return describeError(ctx.LastError)
	case ctx.Message != "":
		return ctx.Message
	}

	tab := ctx.ActiveTab()
	if tab == nil {
		return ""
	}
	entry, ok := tab.CursorEntry()
	if !ok {
		return tab.CurrPath
	}
	parts := []string{entry.FullPath}
	if !entry.IsDir {
		parts = append(parts, formatSize(entry.Size))
	}
	if tab.CurrList != nil {
		if marked := len(tab.CurrList.SelectedPaths()); marked > 0 {
			parts = append(parts, fmt.Sprintf("%d marked", marked))
		}
		parts = append(parts, fmt.Sprintf("%d/%d", tab.CurrList.Index()+1, tab.CurrList.Len()))
	}
	return strings.Join(parts, "  ")
}

func formatDeletePrompt(paths []string) string {
	if len(paths) == 1 {
		return fmt.Sprintf("delete %s? (y/N)", paths[0])
	}
	return fmt.Sprintf("delete %d items? (y/N)", len(paths))
}

// describeError renders err for a single status line. Joined errors are
// reduced to their first line.
func describeError(err error) string {
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i] + " (+more)"
	}
	switch fsutil.KindOf(err) {
	case fsutil.KindPermission:
		return "permission denied: " + msg
	case fsutil.KindNotFound:
		return "not found: " + msg
	case fsutil.KindNotDir:
		return "not a directory: " + msg
	default:
		return msg
	}
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return trimTrailingZero(fmt.Sprintf("%.1f", float64(n)/float64(div))) + " " + string("KMGTPE"[exp]) + "iB"
}

func trimTrailingZero(s string) string {
	return strings.TrimSuffix(strings.TrimSuffix(s, "0"), ".")
}
