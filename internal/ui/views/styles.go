package views

import (
	"github.com/charmbracelet/lipgloss"

	"movieseeker/internal/domain"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title           lipgloss.Style
	Confirm         lipgloss.Style
	Dim             lipgloss.Style
	Prompt          lipgloss.Style
	FieldError      lipgloss.Style
	Dropdown        lipgloss.Style
	DropdownItem    lipgloss.Style
	DropdownActive  lipgloss.Style
	CardTitle       lipgloss.Style
	CardTitleActive lipgloss.Style
	CardMeta        lipgloss.Style
	Cursor          lipgloss.Style
	DetailBox       lipgloss.Style
	DetailTitle     lipgloss.Style
	DetailLabel     lipgloss.Style
	DetailValue     lipgloss.Style
	Help            lipgloss.Style
	Main            lipgloss.Style
	Scroll          lipgloss.Style
	StatusError     lipgloss.Style
	StatusWarning   lipgloss.Style
	StatusLoading   lipgloss.Style
	StatusSuccess   lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Confirm:    lipgloss.NewStyle().Bold(true),
		Dim:        lipgloss.NewStyle().Faint(true),
		Prompt:     lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true),
		FieldError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		Dropdown: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		DropdownItem:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		DropdownActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Background(lipgloss.Color("238")).Bold(true),
		CardTitle:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true),
		CardTitleActive: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Background(lipgloss.Color("238")).Bold(true),
		CardMeta:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Cursor:          lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		DetailBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(1, 2),
		DetailTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226")),
		DetailLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Width(10),
		DetailValue: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Help:        lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(mainPaddingY, mainPaddingX),
		Scroll:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
	}
}

// KindColor returns the badge colour for a result kind
func KindColor(kind domain.Kind) string {
	switch kind {
	case domain.KindMovie:
		return "78" // green
	case domain.KindSeries:
		return "33" // blue
	case domain.KindEpisode:
		return "214" // yellow
	default:
		return "241"
	}
}
