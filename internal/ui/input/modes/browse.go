package modes

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"movieseeker/internal/ui/input/types"
)

const doubleKeyWindow = 500 * time.Millisecond

// BrowseMode moves through the result gallery
type BrowseMode struct {
	lastKeyWasG bool
	lastGTime   time.Time
}

func NewBrowseMode() *BrowseMode {
	return &BrowseMode{}
}

func (m *BrowseMode) Name() string {
	return "browse"
}

func (m *BrowseMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *BrowseMode) Exit(ctx types.Context) []types.Action {
	m.lastKeyWasG = false
	return nil
}

func (m *BrowseMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true
	case tea.KeyUp:
		return navigate("up")
	case tea.KeyDown:
		return navigate("down")
	case tea.KeyLeft:
		return navigate("left")
	case tea.KeyRight:
		return navigate("right")
	case tea.KeyPgUp:
		return navigate("pageup")
	case tea.KeyPgDown:
		return navigate("pagedown")
	case tea.KeyHome:
		return navigate("home")
	case tea.KeyEnd:
		return navigate("end")
	case tea.KeyEnter, tea.KeySpace:
		if id := ctx.CurrentResultID(); id != "" {
			return []types.Action{types.OpenDetailAction{ID: id}}, true
		}
		return nil, false
	}

	key := msg.String()
	if key != "g" {
		m.lastKeyWasG = false
	}

	switch key {
	case "j":
		return navigate("down")
	case "k":
		return navigate("up")
	case "h":
		return navigate("left")
	case "l":
		return navigate("right")
	case "ctrl+d":
		return navigate("pagedown")
	case "ctrl+u":
		return navigate("pageup")
	case "g":
		// gg jumps to the top
		if m.lastKeyWasG && time.Since(m.lastGTime) < doubleKeyWindow {
			m.lastKeyWasG = false
			return navigate("home")
		}
		m.lastKeyWasG = true
		m.lastGTime = time.Now()
		return nil, true
	case "G":
		return navigate("end")
	case "/", "s":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch}}, true
	case "b", "[", "alt+left":
		return []types.Action{types.HistoryAction{Direction: "back"}}, true
	case "f", "]", "alt+right":
		return []types.Action{types.HistoryAction{Direction: "forward"}}, true
	case "t":
		return []types.Action{types.CycleKindAction{}}, true
	case "r":
		return []types.Action{types.RetryAction{}}, true
	case "P":
		return []types.Action{types.TogglePostersAction{}}, true
	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true
	case "q":
		if ctx.SettingsDirty() {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeSaveConfirm}}, true
		}
		return []types.Action{types.QuitAction{}}, true
	}
	return nil, false
}

func navigate(direction string) ([]types.Action, bool) {
	return []types.Action{types.NavigateAction{Direction: direction}}, true
}
