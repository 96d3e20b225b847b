package state

// Action is the base interface for all state mutations
type Action interface{}

// ===== NAVIGATION ACTIONS =====

type NavigateUpAction struct{}
type NavigateDownAction struct{}
type EnterDirectoryAction struct{}
type RightArrowAction struct{}
type GoUpAction struct{}
type GoHomeAction struct{}
type GoToPathAction struct {
	Path string
}
type SelectIndexAction struct {
	Index int
}

// ===== SCROLL ACTIONS =====

type ScrollPageUpAction struct{}
type ScrollPageDownAction struct{}
type ScrollToStartAction struct{}
type ScrollToEndAction struct{}

// ===== LISTING ACTIONS =====

type ToggleSelectAction struct{}
type ToggleHiddenFilesAction struct{}
type CycleSortModeAction struct{}
type ReloadAction struct{}

// DeleteSelectedAction arms deletion; nothing is removed until
// ConfirmDeleteAction arrives.
type DeleteSelectedAction struct{}
type ConfirmDeleteAction struct{}
type CancelDeleteAction struct{}

// ===== TAB ACTIONS =====

type NewTabAction struct{}
type CloseTabAction struct{}
type NextTabAction struct{}
type PrevTabAction struct{}

// ===== VIEW ACTIONS =====

type ResizeAction struct {
	Width  int
	Height int
}

type HelpToggleAction struct{}
type HelpHideAction struct{}

// ===== APPLICATION ACTIONS =====

type YankPathAction struct{}
type OpenEditorAction struct{}
type OpenPagerAction struct{}
type SuspendAction struct{}
type QuitAction struct{}          // q - return to original directory
type QuitAndChangeAction struct{} // x - change to current directory
