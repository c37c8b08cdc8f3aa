package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"movieseeker/internal/ui/input/types"
)

// ConfirmMode asks whether changed settings are written back before quitting
type ConfirmMode struct{}

func NewConfirmMode() *ConfirmMode {
	return &ConfirmMode{}
}

func (m *ConfirmMode) Name() string {
	return "save-confirm"
}

func (m *ConfirmMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeBrowse}}, true
	case "y", "Y":
		return []types.Action{types.QuitAction{SaveConfig: true}}, true
	case "n", "N":
		return []types.Action{types.QuitAction{}}, true
	}
	return nil, false
}
