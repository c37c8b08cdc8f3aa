package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "left", "right", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data interface{} // Optional data for the mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Suggestion actions
type HighlightSuggestionAction struct {
	Delta int
}

func (a HighlightSuggestionAction) Type() string { return "highlight_suggestion" }

type ChooseSuggestionAction struct {
	Index int // -1 for the highlighted one
}

func (a ChooseSuggestionAction) Type() string { return "choose_suggestion" }

// Gallery and detail actions
type OpenDetailAction struct {
	ID string
}

func (a OpenDetailAction) Type() string { return "open_detail" }

type CloseDetailAction struct{}

func (a CloseDetailAction) Type() string { return "close_detail" }

type OpenPagerAction struct{}

func (a OpenPagerAction) Type() string { return "open_pager" }

type RetryAction struct{}

func (a RetryAction) Type() string { return "retry" }

// History actions
type HistoryAction struct {
	Direction string // "back" or "forward"
}

func (a HistoryAction) Type() string { return "history" }

type CycleKindAction struct{}

func (a CycleKindAction) Type() string { return "cycle_kind" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type TogglePostersAction struct{}

func (a TogglePostersAction) Type() string { return "toggle_posters" }

type QuitAction struct {
	Force      bool // true for Ctrl+C, false for 'q'
	SaveConfig bool
}

func (a QuitAction) Type() string { return "quit" }
