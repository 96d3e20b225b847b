package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/tdir/internal/state"
	textutil "github.com/kk-code-lab/tdir/internal/textutil"
)

type helpOverlayEntry struct {
	keys string
	desc string
}

type helpOverlaySection struct {
	title   string
	entries []helpOverlayEntry
}

func buildHelpOverlayLines(ctx *statepkg.Context) []string {
	hiddenDesc := "Show hidden files"
	if ctx != nil && ctx.Options.ShowHidden {
		hiddenDesc = "Hide hidden files"
	}

	sections := []helpOverlaySection{
		{
			title: "Navigation",
			entries: []helpOverlayEntry{
				{keys: "↑/↓ or k/j", desc: "Move cursor"},
				{keys: "PgUp/PgDn", desc: "Move one screen"},
				{keys: "Home/End g/G", desc: "First / last entry"},
				{keys: "→/↵ or l", desc: "Enter directory / open file"},
				{keys: "←/h", desc: "Parent directory"},
				{keys: "~", desc: "Go home"},
			},
		},
		{
			title: "Listing",
			entries: []helpOverlayEntry{
				{keys: "space", desc: "Mark entry"},
				{keys: ".", desc: hiddenDesc},
				{keys: "s", desc: "Cycle sort mode"},
				{keys: "r or F5", desc: "Reload from disk"},
				{keys: "D", desc: "Delete marked entries (asks first)"},
			},
		},
		{
			title: "Tabs",
			entries: []helpOverlayEntry{
				{keys: "t", desc: "New tab here"},
				{keys: "w", desc: "Close tab"},
				{keys: "Tab/Shift+Tab", desc: "Next / previous tab"},
			},
		},
		{
			title: "Actions",
			entries: []helpOverlayEntry{
				{keys: "y", desc: "Yank path to clipboard"},
				{keys: "e", desc: "Open in external editor ($EDITOR)"},
				{keys: "p", desc: "Open in pager ($PAGER)"},
				{keys: "Ctrl+Z", desc: "Suspend to shell"},
			},
		},
		{
			title: "Exit",
			entries: []helpOverlayEntry{
				{keys: "q", desc: "Quit"},
				{keys: "x", desc: "Quit and cd here"},
				{keys: "Ctrl+C", desc: "Quit immediately"},
				{keys: "?", desc: "Close this help"},
			},
		},
	}

	lines := make([]string, 0, 40)
	for i, section := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.title)
		for _, entry := range section.entries {
			lines = append(lines, formatHelpOverlayEntry(entry))
		}
	}

	return lines
}

func formatHelpOverlayEntry(entry helpOverlayEntry) string {
	key := textutil.SanitizeTerminalText(entry.keys)
	desc := textutil.SanitizeTerminalText(entry.desc)
	return fmt.Sprintf("  %-14s %s", key, desc)
}

func (r *Renderer) drawHelpOverlay(ctx *statepkg.Context, w, h int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	for y := 0; y < h; y++ {
		r.fillRow(0, w, y, baseStyle)
	}

	title := " Help "
	headerStyle := baseStyle.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg).Bold(true)
	titleStart := 0
	titleWidth := r.measureTextWidth(title)
	if w > titleWidth {
		titleStart = (w - titleWidth) / 2
	}
	r.drawTextLine(titleStart, 0, w-titleStart, title, headerStyle)

	lines := buildHelpOverlayLines(ctx)
	row := 2
	maxRow := h - 1
	for _, line := range lines {
		if row >= maxRow {
			break
		}
		text := strings.TrimRight(line, " ")
		text = r.truncateTextToWidth(text, w-4)
		r.drawTextLine(2, row, w-4, text, baseStyle)
		row++
	}

	if h > 0 {
		footerText := r.truncateTextToWidth("? toggle · Esc/q close", w)
		r.drawTextLine(0, h-1, w, footerText, headerStyle)
	}
}
