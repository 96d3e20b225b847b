package render

import (
	"path/filepath"
	"strings"
)

// Screen rows: header on top, then entries, then the status line and the
// footer.
const (
	ListTop       = 1
	bottomRows    = 2
	HeaderTitle   = "tdir"
	BreadcrumbSep = " › "
)

// Layout is the column geometry of the last frame, for mapping mouse
// positions back to columns.
type Layout struct {
	ParentWidth  int
	MainStart    int
	MainWidth    int
	PreviewStart int
	PreviewWidth int
	ShowPreview  bool
	Rows         int
}

type layoutMetrics struct {
	parentWidth      int
	parentSeparator  int
	mainStart        int
	mainWidth        int
	previewSeparator int
	previewStart     int
	previewWidth     int
	showPreview      bool
}

const (
	minMainPanelWidth       = 24
	minPreviewPanelWidth    = 20
	minPreviewTerminalWidth = 72
	previewWidthRatio       = 0.4
)

func computeLayout(w int) layoutMetrics {
	if w < 0 {
		w = 0
	}

	metrics := layoutMetrics{}
	metrics.parentWidth = SidebarWidthForWidth(w)
	if metrics.parentWidth > 0 && metrics.parentWidth < w {
		metrics.parentSeparator = 1
	}

	metrics.mainStart = metrics.parentWidth + metrics.parentSeparator
	contentWidth := w - metrics.mainStart
	if contentWidth < 0 {
		contentWidth = 0
	}
	metrics.mainWidth = contentWidth
	metrics.previewStart = w

	if w < minPreviewTerminalWidth || contentWidth < minMainPanelWidth+minPreviewPanelWidth+1 {
		return metrics
	}

	previewWidth := int(float64(contentWidth)*previewWidthRatio + 0.5)
	if previewWidth < minPreviewPanelWidth {
		previewWidth = minPreviewPanelWidth
	}
	mainWidth := contentWidth - 1 - previewWidth
	if mainWidth < minMainPanelWidth {
		previewWidth -= minMainPanelWidth - mainWidth
		mainWidth = minMainPanelWidth
	}
	if previewWidth < minPreviewPanelWidth {
		return metrics
	}

	metrics.showPreview = true
	metrics.previewSeparator = 1
	metrics.mainWidth = mainWidth
	metrics.previewWidth = previewWidth
	metrics.previewStart = metrics.mainStart + mainWidth + 1
	return metrics
}

// SidebarWidthForWidth returns the width of the parent column for a
// terminal w cells wide; zero hides it.
func SidebarWidthForWidth(w int) int {
	switch {
	case w >= 150:
		return 28
	case w >= 120:
		return 24
	case w >= 100:
		return 20
	case w >= 80:
		return 16
	case w >= 65:
		return 12
	case w >= 52:
		return 10
	default:
		return 0
	}
}

// ListRows returns how many entries fit on a screen h rows tall.
func ListRows(h int) int {
	rows := h - ListTop - bottomRows
	if rows < 0 {
		return 0
	}
	return rows
}

// WindowStart returns the first entry to draw so that cursor is visible,
// centring it once the list overflows.
func WindowStart(cursor, n, rows int) int {
	if rows <= 0 || n <= rows {
		return 0
	}
	if cursor < 0 {
		cursor = 0
	}
	start := cursor - rows/2
	if start < 0 {
		start = 0
	}
	if start > n-rows {
		start = n - rows
	}
	return start
}

// FormatBreadcrumbSegments splits path into the segments shown in the header.
func FormatBreadcrumbSegments(path string) []string {
	if path == "" {
		return []string{"/"}
	}

	cleanPath := filepath.Clean(path)
	if cleanPath == "." {
		cleanPath = "/"
	}

	slashed := filepath.ToSlash(cleanPath)
	if slashed == "/" {
		return []string{"/"}
	}

	var segments []string
	if strings.HasPrefix(slashed, "/") {
		segments = append(segments, "/")
		slashed = strings.TrimPrefix(slashed, "/")
	}
	for _, part := range strings.Split(slashed, "/") {
		if part == "" {
			continue
		}
		segments = append(segments, part)
	}

	if len(segments) == 0 {
		return []string{cleanPath}
	}
	return segments
}

// BreadcrumbPath rebuilds the directory of segments[idx].
func BreadcrumbPath(segments []string, idx int) string {
	if idx < 0 || idx >= len(segments) {
		return ""
	}
	path := ""
	if segments[0] == "/" {
		path = string(filepath.Separator)
	}
	for i := 0; i <= idx; i++ {
		if segments[i] == "/" {
			continue
		}
		if path == "" {
			// Windows volume such as "C:" needs its separator back.
			path = segments[i] + string(filepath.Separator)
			continue
		}
		path = filepath.Join(path, segments[i])
	}
	return path
}
