package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"movieseeker/internal/ui/input/types"
)

// PaneMode is active while the detail pane covers the gallery
type PaneMode struct{}

func NewPaneMode() *PaneMode {
	return &PaneMode{}
}

func (m *PaneMode) Name() string {
	return "detail"
}

func (m *PaneMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *PaneMode) Exit(ctx types.Context) []types.Action {
	return []types.Action{types.CloseDetailAction{}}
}

func (m *PaneMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc", "q", "backspace":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeBrowse}}, true
	case "enter", "p":
		return []types.Action{types.OpenPagerAction{}}, true
	case "r":
		return []types.Action{types.RetryAction{}}, true
	}
	return nil, true
}
