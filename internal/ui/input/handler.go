package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"movieseeker/internal/ui/input/modes"
	"movieseeker/internal/ui/input/types"
)

type Handler struct {
	currentMode types.Mode
	modes       map[types.Mode]types.ModeHandler
	textInput   *textinput.Model // Shared by the text modes
}

func New() *Handler {
	ti := textinput.New()
	ti.Placeholder = "title"
	ti.CharLimit = 256

	h := &Handler{
		currentMode: types.ModeBrowse,
		textInput:   &ti,
		modes:       make(map[types.Mode]types.ModeHandler),
	}

	h.modes[types.ModeBrowse] = modes.NewBrowseMode()
	h.modes[types.ModeSearch] = modes.NewSearchMode(h.textInput)
	h.modes[types.ModePane] = modes.NewPaneMode()
	h.modes[types.ModeSaveConfirm] = modes.NewConfirmMode()

	return h
}

// HandleKey feeds msg to the current mode. Mode changes requested by the
// mode are applied here, together with their Enter and Exit actions.
func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, tea.Cmd) {
	handler := h.modes[h.currentMode]
	if handler == nil {
		return nil, nil
	}

	actions, consumed := handler.HandleKey(msg, ctx)
	if !consumed && !h.isTextMode(h.currentMode) {
		return nil, nil
	}

	var cmd tea.Cmd
	var allActions []types.Action

	for _, action := range actions {
		changeMode, ok := action.(types.ChangeModeAction)
		if !ok {
			allActions = append(allActions, action)
			continue
		}
		if current := h.modes[h.currentMode]; current != nil {
			allActions = append(allActions, current.Exit(ctx)...)
		}
		if c := h.switchTo(changeMode.Mode, changeMode.Data); c != nil {
			cmd = c
		}
		if next := h.modes[h.currentMode]; next != nil {
			allActions = append(allActions, next.Enter(ctx)...)
		}
	}

	// Keys the text mode did not claim go to the text input
	if h.isTextMode(h.currentMode) && !consumed {
		var textCmd tea.Cmd
		*h.textInput, textCmd = h.textInput.Update(msg)
		cmd = textCmd
		allActions = append(allActions, types.UpdateTextAction{Text: h.textInput.Value()})
	}

	return allActions, cmd
}

func (h *Handler) switchTo(mode types.Mode, data interface{}) tea.Cmd {
	oldMode := h.currentMode
	h.currentMode = mode

	if h.isTextMode(mode) {
		if text, ok := data.(string); ok {
			h.textInput.SetValue(text)
			h.textInput.CursorEnd()
		}
		h.textInput.Focus()
		return textinput.Blink
	}
	if h.isTextMode(oldMode) {
		h.textInput.Blur()
	}
	return nil
}

// ChangeMode switches mode without running Enter and Exit actions.
// A string data value replaces the text input content.
func (h *Handler) ChangeMode(mode types.Mode, data interface{}) tea.Cmd {
	return h.switchTo(mode, data)
}

func (h *Handler) CurrentMode() types.Mode {
	if h == nil {
		return types.ModeBrowse
	}
	return h.currentMode
}

// ModeName is the display name of the current mode
func (h *Handler) ModeName() string {
	if m := h.modes[h.currentMode]; m != nil {
		return m.Name()
	}
	return h.currentMode.String()
}

// Prompt is the label for the active text field, if any
func (h *Handler) Prompt() string {
	if p, ok := h.modes[h.currentMode].(interface{ Prompt() string }); ok {
		return p.Prompt()
	}
	return ""
}

// TextInput returns the shared text input
func (h *Handler) TextInput() *textinput.Model {
	return h.textInput
}

// SetText replaces the text input content without changing mode
func (h *Handler) SetText(text string) {
	h.textInput.SetValue(text)
	h.textInput.CursorEnd()
}

func (h *Handler) isTextMode(mode types.Mode) bool {
	return mode == types.ModeSearch
}

// Update handles non-keyboard messages for text input
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	if h.isTextMode(h.currentMode) {
		var cmd tea.Cmd
		*h.textInput, cmd = h.textInput.Update(msg)
		return cmd
	}
	return nil
}

func (h *Handler) Reset() {
	h.currentMode = types.ModeBrowse
	h.textInput.Reset()
	h.textInput.Blur()
}
