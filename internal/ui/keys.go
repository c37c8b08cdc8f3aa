package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap describes the bindings shown in the help footer and overlay.
// Matching itself happens in the input modes.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	Search     key.Binding
	Suggestion key.Binding
	Open       key.Binding
	Pager      key.Binding
	Back       key.Binding
	Forward    key.Binding
	Kind       key.Binding
	Retry      key.Binding
	Posters    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap is the built-in key binding set
var DefaultKeyMap = KeyMap{
	Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	Left:       key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "left")),
	Right:      key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "right")),
	PageUp:     key.NewBinding(key.WithKeys("ctrl+u", "pgup"), key.WithHelp("C-u", "page up")),
	PageDown:   key.NewBinding(key.WithKeys("ctrl+d", "pgdown"), key.WithHelp("C-d", "page down")),
	Home:       key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("gg", "top")),
	End:        key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
	Search:     key.NewBinding(key.WithKeys("/", "s"), key.WithHelp("/", "search")),
	Suggestion: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next suggestion")),
	Open:       key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "details")),
	Pager:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "full record")),
	Back:       key.NewBinding(key.WithKeys("b", "["), key.WithHelp("b", "previous search")),
	Forward:    key.NewBinding(key.WithKeys("f", "]"), key.WithHelp("f", "next search")),
	Kind:       key.NewBinding(key.WithKeys("t", "ctrl+t"), key.WithHelp("t", "movie/series/episode")),
	Retry:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
	Posters:    key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "posters")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Open, k.Back, k.Kind, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Search, k.Suggestion, k.Open, k.Pager, k.Retry},
		{k.Back, k.Forward, k.Kind, k.Posters, k.Help, k.Quit},
	}
}
