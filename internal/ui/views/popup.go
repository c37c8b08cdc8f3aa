package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const resetStyle = "\x1b[0m"

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopupOverlay centres popupContent over a greyed out mainContent
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int, popupStyle lipgloss.Style) string {
	styledPopup := popupStyle.Render(popupContent)

	modalW := lipgloss.Width(styledPopup)
	modalH := lipgloss.Height(styledPopup)
	x := max((width-modalW)/2, 0)
	y := max((height-modalH)/2, 0)

	return Overlay(desaturate(mainContent), styledPopup, x, y)
}

// Overlay draws top over base with its upper left corner at column x, row y.
// Lines of top that fall outside base are dropped.
func Overlay(base, top string, x, y int) string {
	baseLines := strings.Split(base, "\n")
	for i, line := range strings.Split(top, "\n") {
		row := y + i
		if row < 0 || row >= len(baseLines) {
			continue
		}
		baseLines[row] = spliceLine(baseLines[row], line, x)
	}
	return strings.Join(baseLines, "\n")
}

func spliceLine(base, top string, x int) string {
	left := ansi.Truncate(base, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}
	right := ansi.TruncateLeft(base, x+ansi.StringWidth(top), "")
	return left + resetStyle + top + resetStyle + right
}

// desaturate strips colours and styles and recolours text dim gray
func desaturate(s string) string {
	lines := strings.Split(ansi.Strip(s), "\n")
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	for i, line := range lines {
		lines[i] = style.Render(line)
	}
	return strings.Join(lines, "\n")
}
