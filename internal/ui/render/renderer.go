package render

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/tdir/internal/dircache"
	fsutil "github.com/kk-code-lab/tdir/internal/fs"
	statepkg "github.com/kk-code-lab/tdir/internal/state"
	textutil "github.com/kk-code-lab/tdir/internal/textutil"
	"github.com/mattn/go-runewidth"
)

// Renderer handles all UI rendering
type Renderer struct {
	screen           tcell.Screen
	theme            ColorTheme
	runeWidthCache   [128]int // ASCII cache (0-127)
	runeWidthCacheMu sync.RWMutex
	runeWidthWide    sync.Map // For non-ASCII runes
	lastLayout       Layout
	hasLayout        bool
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
	}
}

// Render draws the entire UI based on ctx
func (r *Renderer) Render(ctx *statepkg.Context) {
	r.screen.Clear()
	w, h := r.screen.Size()

	if ctx.HelpVisible {
		r.drawHelpOverlay(ctx, w, h)
		r.screen.Show()
		return
	}

	tab := ctx.ActiveTab()
	layout := computeLayout(w)
	rows := ListRows(h)
	r.lastLayout = Layout{
		ParentWidth:  layout.parentWidth,
		MainStart:    layout.mainStart,
		MainWidth:    layout.mainWidth,
		PreviewStart: layout.previewStart,
		PreviewWidth: layout.previewWidth,
		ShowPreview:  layout.showPreview,
		Rows:         rows,
	}
	r.hasLayout = true

	r.drawHeader(ctx, w)
	if tab != nil {
		if layout.parentWidth > 0 {
			r.drawParentColumn(tab, layout.parentWidth, rows)
			r.drawSeparator(layout.parentWidth, rows, layout.parentSeparator)
		}
		r.drawMainColumn(tab, layout.mainStart, layout.mainWidth, rows)
		if layout.showPreview {
			r.drawSeparator(layout.previewStart-1, rows, layout.previewSeparator)
			r.drawPreviewColumn(tab, layout.previewStart, layout.previewWidth, rows)
		}
	}
	r.drawStatusLine(ctx, w, h)
	r.drawFooter(ctx, w, h)

	r.screen.Show()
}

// LastLayout reports the geometry of the most recent frame with columns.
func (r *Renderer) LastLayout() (Layout, bool) {
	return r.lastLayout, r.hasLayout
}

// drawHeader renders the title, the breadcrumb of the active tab and, with
// more than one tab open, the tab bar on the right.
func (r *Renderer) drawHeader(ctx *statepkg.Context, w int) {
	headerStyle := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)

	tabBar := formatTabBar(ctx)
	tabBarWidth := r.measureTextWidth(tabBar)
	limit := w - tabBarWidth
	if limit < 0 {
		limit = 0
		tabBar = ""
	}

	endX := r.drawTextLine(0, 0, limit, HeaderTitle, headerStyle)
	if endX < limit {
		r.screen.SetContent(endX, 0, ' ', nil, headerStyle)
		endX++
	}

	if endX < limit {
		segments := FormatBreadcrumbSegments(ctx.CurrentPath())
		lastIdx := len(segments) - 1
		last := textutil.SanitizeTerminalText(segments[lastIdx])
		if lastIdx > 0 {
			prefix := strings.Join(segments[:lastIdx], BreadcrumbSep) + BreadcrumbSep
			prefix = textutil.SanitizeTerminalText(prefix)
			budget := limit - endX - r.measureTextWidth(last)
			if budget > 0 {
				prefix = r.truncateLeftToWidth(prefix, budget)
				endX = r.drawTextLine(endX, 0, limit-endX, prefix, headerStyle)
			}
		}
		last = r.truncateTextToWidth(last, limit-endX)
		endX = r.drawTextLine(endX, 0, limit-endX, last, headerStyle.Bold(true))
	}
	r.fillRow(endX, limit, 0, headerStyle)

	if tabBar == "" {
		return
	}
	x := limit
	for i := range ctx.Tabs {
		label := fmt.Sprintf(" %d ", i+1)
		style := headerStyle
		if i == ctx.Active {
			style = tcell.StyleDefault.Background(r.theme.TabActiveBg).Foreground(r.theme.TabActiveFg).Bold(true)
		}
		x = r.drawTextLine(x, 0, w-x, label, style)
	}
}

func formatTabBar(ctx *statepkg.Context) string {
	if len(ctx.Tabs) < 2 {
		return ""
	}
	var b strings.Builder
	for i := range ctx.Tabs {
		fmt.Fprintf(&b, " %d ", i+1)
	}
	return b.String()
}

// TabBarWidth is the number of header cells the tab bar occupies at the
// right edge.
func TabBarWidth(ctx *statepkg.Context) int {
	return runewidth.StringWidth(formatTabBar(ctx))
}

func (r *Renderer) drawSeparator(x, rows, width int) {
	if width <= 0 {
		return
	}
	for y := ListTop; y < ListTop+rows; y++ {
		r.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
	}
}

// drawParentColumn renders the parent listing with its cursor on the
// current directory.
func (r *Renderer) drawParentColumn(tab *statepkg.Tab, width, rows int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.SidebarBg).Foreground(r.theme.SidebarFg)
	if tab.ParentList == nil {
		placeholder := " No parent directory"
		if _, ok := fsutil.ParentOf(tab.CurrPath); ok {
			placeholder = " Parent unreadable"
		}
		r.drawPlaceholder(0, width, rows, placeholder, baseStyle)
		return
	}
	r.drawListing(tab.ParentList, 0, width, rows, columnParent)
}

// drawMainColumn renders the current listing.
func (r *Renderer) drawMainColumn(tab *statepkg.Tab, startX, width, rows int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.SidebarBg).Foreground(r.theme.SidebarFg)
	if tab.CurrList == nil {
		r.drawPlaceholder(startX, width, rows, " Directory unreadable", baseStyle.Foreground(r.theme.ErrorFg))
		return
	}
	if tab.CurrList.Len() == 0 {
		r.drawPlaceholder(startX, width, rows, " Empty directory", baseStyle.Dim(true))
		return
	}
	r.drawListing(tab.CurrList, startX, width, rows, columnMain)
}

type columnKind int

const (
	columnParent columnKind = iota
	columnMain
	columnPreview
)

// drawListing draws the window of l that keeps its cursor visible.
func (r *Renderer) drawListing(l *dircache.Listing, startX, width, rows int, kind columnKind) {
	baseStyle := tcell.StyleDefault.Background(r.theme.SidebarBg)
	entries := l.Contents()
	cursor := l.Index()
	start := WindowStart(cursor, len(entries), rows)

	y := ListTop
	for i := start; i < len(entries) && y < ListTop+rows; i++ {
		entry := entries[i]
		marked := kind == columnMain && l.IsSelected(entry.FullPath)
		style := r.entryStyle(entry, i == cursor, marked, kind)

		mark := " "
		if marked {
			mark = "*"
		}
		prefix := mark + entry.Icon() + " "
		nameWidth := width - r.measureTextWidth(prefix)
		name := textutil.SanitizeTerminalText(entry.Name)
		name = r.truncateTextToWidth(name, nameWidth)

		r.drawRow(startX, y, width, prefix+name, style)
		y++
	}
	for ; y < ListTop+rows; y++ {
		r.fillRow(startX, startX+width, y, baseStyle)
	}
}

func (r *Renderer) entryStyle(entry statepkg.FileEntry, atCursor, marked bool, kind columnKind) tcell.Style {
	baseStyle := tcell.StyleDefault.Background(r.theme.SidebarBg)
	if atCursor {
		switch kind {
		case columnMain:
			return tcell.StyleDefault.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
		default:
			return tcell.StyleDefault.Background(r.theme.SidebarActiveBg).Foreground(r.theme.SidebarActiveFg)
		}
	}

	var style tcell.Style
	switch {
	case marked:
		style = baseStyle.Foreground(r.theme.MarkedFg).Bold(true)
	case entry.IsSymlink:
		style = baseStyle.Foreground(r.theme.SymlinkFg)
	case entry.IsDir:
		style = baseStyle.Foreground(r.theme.DirectoryFg)
	default:
		style = baseStyle.Foreground(r.theme.FileFg)
	}
	if entry.IsHidden() && !marked {
		style = style.Foreground(r.theme.HiddenFg)
	}
	return style
}

func (r *Renderer) drawPlaceholder(startX, width, rows int, text string, style tcell.Style) {
	for y := ListTop; y < ListTop+rows; y++ {
		if y == ListTop {
			r.drawRow(startX, y, width, text, style)
			continue
		}
		r.fillRow(startX, startX+width, y, tcell.StyleDefault.Background(r.theme.SidebarBg))
	}
}

// drawStatusLine shows, in order of priority, a pending confirmation, the
// last error, a transient message, or details of the entry under the cursor.
func (r *Renderer) drawStatusLine(ctx *statepkg.Context, w, h int) {
	y := h - bottomRows
	if y < ListTop {
		return
	}
	normalStyle := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)
	errorStyle := normalStyle.Foreground(r.theme.ErrorFg)
	flashStyle := tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)

	text, style := formatStatusText(ctx), normalStyle
	switch {
	case len(ctx.PendingDelete) > 0 || ctx.LastError != nil:
		style = errorStyle
	case !ctx.LastYankTime.IsZero() && time.Since(ctx.LastYankTime) < 100*time.Millisecond:
		style = flashStyle
	}

	text = textutil.SanitizeTerminalText(text)
	text = r.truncateLeftToWidth(text, w)
	r.drawRow(0, y, w, text, style)
}

func (r *Renderer) drawFooter(ctx *statepkg.Context, w, h int) {
	y := h - 1
	if y < ListTop {
		return
	}
	style := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg).Dim(true)
	helpText := textutil.SanitizeTerminalText(buildFooterHelpText(ctx))
	r.drawRow(0, y, w, r.truncateTextToWidth(helpText, w), style)
}
