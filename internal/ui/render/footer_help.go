package render

import (
	"fmt"
	"strings"

	statepkg "github.com/kk-code-lab/tdir/internal/state"
)

// buildFooterHelpText returns the contextual footer hint string with leading/trailing padding.
func buildFooterHelpText(ctx *statepkg.Context) string {
	parts := buildFooterHelpSegments(ctx)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}

// buildFooterHelpSegments assembles context-aware help hints for the footer.
func buildFooterHelpSegments(ctx *statepkg.Context) []string {
	if ctx == nil {
		return nil
	}
	if len(ctx.PendingDelete) > 0 {
		return []string{"y: confirm delete", "any key: cancel"}
	}

	segments := []string{
		"←↓↑→/hjkl: navigate",
		"~: home",
		"space: mark",
		"s: sort " + ctx.Options.Mode.String(),
	}
	segments = append(segments, persistentHelpSegments(ctx)...)
	return segments
}

func persistentHelpSegments(ctx *statepkg.Context) []string {
	hiddenStatus := "hidden"
	if ctx.Options.ShowHidden {
		hiddenStatus = "visible"
	}

	segments := []string{fmt.Sprintf(".: toggle %s", hiddenStatus)}
	if len(ctx.Tabs) > 1 {
		segments = append(segments, fmt.Sprintf("tab %d/%d", ctx.Active+1, len(ctx.Tabs)))
	} else {
		segments = append(segments, "t: new tab")
	}
	if ctx.ClipboardAvailable {
		segments = append(segments, "y: yank path")
	}
	if ctx.EditorAvailable {
		segments = append(segments, "e: edit file")
	}
	segments = append(segments, "?: help", "q/x: quit/cd")
	return segments
}
