package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	Background      tcell.Color
	Foreground      tcell.Color
	SidebarBg       tcell.Color
	SidebarFg       tcell.Color
	HiddenFg        tcell.Color
	SidebarActiveBg tcell.Color
	SidebarActiveFg tcell.Color
	SelectionBg     tcell.Color
	SelectionFg     tcell.Color
	MarkedFg        tcell.Color
	DirectoryFg     tcell.Color
	SymlinkFg       tcell.Color
	FileFg          tcell.Color
	FooterBg        tcell.Color
	FooterFg        tcell.Color
	PreviewBg       tcell.Color
	PreviewFg       tcell.Color
	ErrorFg         tcell.Color
	TabActiveBg     tcell.Color
	TabActiveFg     tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:      tcell.ColorDefault,
		Foreground:      tcell.ColorDefault,
		SidebarBg:       tcell.ColorDefault,
		SidebarFg:       tcell.ColorDefault,
		HiddenFg:        tcell.ColorLightSlateGray,
		SidebarActiveBg: tcell.Color239,
		SidebarActiveFg: tcell.ColorWhite,
		SelectionBg:     tcell.Color33,
		SelectionFg:     tcell.ColorWhite,
		MarkedFg:        tcell.Color214, // amber for marked entries
		DirectoryFg:     tcell.Color33,
		SymlinkFg:       tcell.Color51,
		FileFg:          tcell.ColorDefault,
		FooterBg:        tcell.ColorDefault,
		FooterFg:        tcell.ColorDefault,
		PreviewBg:       tcell.ColorDefault,
		PreviewFg:       tcell.ColorDefault,
		ErrorFg:         tcell.Color203,
		TabActiveBg:     tcell.Color33,
		TabActiveFg:     tcell.ColorWhite,
	}
}
