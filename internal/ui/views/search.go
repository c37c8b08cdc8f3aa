package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const maxDropdownRows = 8

// SearchRenderer draws the search field and its suggestion dropdown
type SearchRenderer struct {
	styles *Styles
}

// NewSearchRenderer creates a new search renderer
func NewSearchRenderer(styles *Styles) *SearchRenderer {
	return &SearchRenderer{styles: styles}
}

// RenderSearchLine renders the prompt, the field and either the field error or the kind badge
func (s *SearchRenderer) RenderSearchLine(state ViewState) string {
	prompt := state.Prompt
	if prompt == "" {
		prompt = "Search: "
	}

	field := state.SearchInput
	if !state.Searching {
		field = state.Term
		if field == "" {
			field = s.styles.Dim.Render("press / to search")
		}
	}

	badge := lipgloss.NewStyle().
		Foreground(lipgloss.Color(KindColor(state.Kind))).
		Render(fmt.Sprintf("[%s]", state.Kind))

	line := s.styles.Prompt.Render(prompt) + field + "  " + badge
	if state.FieldError != "" {
		line += "  " + s.styles.FieldError.Render(state.FieldError)
	}
	return line
}

// RenderDropdown renders the open suggestion list, or "" when there is nothing to show
func (s *SearchRenderer) RenderDropdown(state ViewState) string {
	if !state.SuggestionsOpen || len(state.Suggestions) == 0 {
		return ""
	}

	width := 0
	for _, item := range state.Suggestions {
		width = max(width, ansi.StringWidth(suggestionLabel(item.Title, item.Year)))
	}
	width = min(width, max(state.Layout.Width-2*mainPaddingX-4, 10))

	var lines []string
	for i, item := range state.Suggestions {
		if i >= maxDropdownRows {
			lines = append(lines, s.styles.Dim.Render(fmt.Sprintf("… %d more", len(state.Suggestions)-i)))
			break
		}
		label := ansi.Truncate(suggestionLabel(item.Title, item.Year), width, "…")
		style := s.styles.DropdownItem
		if i == state.Highlighted {
			style = s.styles.DropdownActive
		}
		lines = append(lines, style.Width(width).Render(label))
	}
	return s.styles.Dropdown.Render(strings.Join(lines, "\n"))
}

func suggestionLabel(title, year string) string {
	if year == "" {
		return title
	}
	return fmt.Sprintf("%s (%s)", title, year)
}
