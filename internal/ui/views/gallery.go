package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"movieseeker/internal/domain"
)

// GalleryRenderer draws the result cards
type GalleryRenderer struct {
	styles *Styles
}

// NewGalleryRenderer creates a new gallery renderer
func NewGalleryRenderer(styles *Styles) *GalleryRenderer {
	return &GalleryRenderer{styles: styles}
}

// RenderGallery renders the rows of the gallery visible at state.ScrollOffset.
// The result is exactly GalleryHeight lines.
func (g *GalleryRenderer) RenderGallery(state ViewState) string {
	layout := state.Layout
	height := layout.GalleryHeight()

	if len(state.Items) == 0 {
		return padLines(g.renderEmpty(state), height)
	}

	cardH := layout.CardHeight()
	cols := layout.Columns()
	firstRow := state.ScrollOffset / cardH
	lastRow := (state.ScrollOffset + height - 1) / cardH

	var lines []string
	for row := firstRow; row <= lastRow && row*cols < len(state.Items); row++ {
		lines = append(lines, strings.Split(g.renderRow(state, row), "\n")...)
	}

	skip := state.ScrollOffset - firstRow*cardH
	if skip > len(lines) {
		skip = len(lines)
	}
	lines = lines[skip:]
	if len(lines) > height {
		lines = lines[:height]
	}
	return padLines(strings.Join(lines, "\n"), height)
}

func (g *GalleryRenderer) renderRow(state ViewState, row int) string {
	cols := state.Layout.Columns()
	gap := strings.Repeat(" ", CardGap)

	var cards []string
	for col := 0; col < cols; col++ {
		index := row*cols + col
		if index >= len(state.Items) {
			break
		}
		if col > 0 {
			cards = append(cards, gap)
		}
		cards = append(cards, g.renderCard(state, index))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n"
}

func (g *GalleryRenderer) renderCard(state ViewState, index int) string {
	item := state.Items[index]
	selected := index == state.Cursor

	var parts []string
	if state.Layout.ShowPosters {
		art := ""
		if state.Poster != nil {
			art = state.Poster(index)
		}
		if art == "" {
			art = blankBlock(CardWidth, PosterHeight)
		}
		parts = append(parts, art)
	}

	titleStyle := g.styles.CardTitle
	prefix := " "
	if selected {
		titleStyle = g.styles.CardTitleActive
		prefix = g.styles.Cursor.Render("▌")
	}
	title := ansi.Truncate(item.Title, CardWidth-1, "…")
	parts = append(parts, prefix+titleStyle.Width(CardWidth-1).Render(title))

	meta := item.Year
	if item.Kind != "" && item.Kind != domain.KindMovie {
		meta = fmt.Sprintf("%s · %s", item.Year, item.Kind)
	}
	parts = append(parts, " "+g.styles.CardMeta.Width(CardWidth-1).Render(ansi.Truncate(meta, CardWidth-1, "…")))

	return lipgloss.NewStyle().Width(CardWidth).Render(strings.Join(parts, "\n"))
}

func (g *GalleryRenderer) renderEmpty(state ViewState) string {
	switch {
	case state.Term == "":
		return g.styles.Dim.Render("Press / to search for a title.")
	case state.Loading:
		return g.styles.StatusLoading.Render(fmt.Sprintf("%s Searching for %q...", state.Spinner, state.Term))
	case state.GalleryErr != nil:
		return g.styles.StatusError.Render("Search failed. Press r to retry.")
	default:
		return g.styles.Dim.Render(fmt.Sprintf("No results for %q.", state.Term))
	}
}

func blankBlock(width, height int) string {
	line := strings.Repeat(" ", width)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// padLines pads or cuts s to exactly n lines
func padLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
