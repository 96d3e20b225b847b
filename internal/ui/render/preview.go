package render

import (
	"fmt"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/tdir/internal/dircache"
	statepkg "github.com/kk-code-lab/tdir/internal/state"
	textutil "github.com/kk-code-lab/tdir/internal/textutil"
)

// drawPreviewColumn shows the cached listing of the directory under the
// cursor, or details of a file. It never reads the filesystem itself.
func (r *Renderer) drawPreviewColumn(tab *statepkg.Tab, startX, width, rows int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.PreviewBg).Foreground(r.theme.PreviewFg)
	entry, ok := tab.CursorEntry()
	if !ok {
		r.drawPlaceholder(startX, width, rows, "", baseStyle)
		return
	}

	if entry.IsDir {
		if tab.PreviewErr != nil && !dircache.IsStale(tab.PreviewErr) {
			r.drawPlaceholder(startX, width, rows, " "+describeError(tab.PreviewErr), baseStyle.Foreground(r.theme.ErrorFg))
			return
		}
		l, cached := tab.History.Peek(entry.FullPath)
		switch {
		case !cached:
			r.drawPlaceholder(startX, width, rows, " …", baseStyle.Dim(true))
		case l.Len() == 0:
			r.drawPlaceholder(startX, width, rows, " Empty directory", baseStyle.Dim(true))
		default:
			r.drawListing(l, startX, width, rows, columnPreview)
		}
		return
	}

	lines := fileDetailLines(entry)
	y := ListTop
	for _, line := range lines {
		if y >= ListTop+rows {
			break
		}
		line = textutil.SanitizeTerminalText(line)
		r.drawRow(startX, y, width, " "+r.truncateTextToWidth(line, width-1), baseStyle)
		y++
	}
	for ; y < ListTop+rows; y++ {
		r.fillRow(startX, startX+width, y, baseStyle)
	}
}

func fileDetailLines(entry statepkg.FileEntry) []string {
	lines := []string{
		entry.Name,
		"",
		fmt.Sprintf("size      %s", formatSize(entry.Size)),
		fmt.Sprintf("modified  %s", entry.Modified.Format("2006-01-02 15:04")),
		fmt.Sprintf("mode      %s", entry.Mode),
	}
	if entry.IsSymlink {
		lines = append(lines, "symlink")
	}
	if ext := filepath.Ext(entry.Name); ext != "" {
		lines = append(lines, fmt.Sprintf("type      %s", ext))
	}
	return lines
}
