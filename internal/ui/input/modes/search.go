package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"movieseeker/internal/ui/input/types"
)

// SearchMode edits the search field and drives the suggestion dropdown
type SearchMode struct {
	TextInputMode
}

func NewSearchMode(ti *textinput.Model) *SearchMode {
	return &SearchMode{
		TextInputMode: NewTextInputMode(types.ModeSearch, "search", "Search: ", ti),
	}
}

func (m *SearchMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "up", "shift+tab", "ctrl+p":
		if ctx.SuggestionsOpen() {
			return []types.Action{types.HighlightSuggestionAction{Delta: -1}}, true
		}
		return nil, true
	case "down", "tab", "ctrl+n":
		if ctx.SuggestionsOpen() {
			return []types.Action{types.HighlightSuggestionAction{Delta: 1}}, true
		}
		return nil, true
	case "enter":
		if ctx.SuggestionsOpen() && ctx.HighlightedSuggestion() >= 0 {
			return []types.Action{types.ChooseSuggestionAction{Index: -1}}, true
		}
	case "ctrl+t":
		return []types.Action{types.CycleKindAction{}}, true
	}
	return m.TextInputMode.HandleKey(msg, ctx)
}
