package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"movieseeker/internal/domain"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Layout Layout

	// search field
	Term        string
	Kind        domain.Kind
	Prompt      string
	Searching   bool
	SearchInput string
	FieldError  string

	// suggestion dropdown
	Suggestions        []domain.ResultItem
	SuggestionsOpen    bool
	SuggestionsLoading bool
	Highlighted        int

	// gallery
	Items        []domain.ResultItem
	Cursor       int
	ScrollOffset int
	Poster       func(index int) string
	Loading      bool
	Exhausted    bool
	Total        int
	Page         int
	GalleryErr   error

	// detail pane
	PaneOpen     bool
	PaneErr      error
	Detail       *domain.DetailRecord
	DetailPoster string

	CanGoBack     bool
	CanGoForward  bool
	StatusMessage string
	StatusIsError bool
	Spinner       string
	ConfirmSave   bool
	ShowFullHelp  bool
	HelpModel     help.Model
	Keys          help.KeyMap
}

// Renderer handles all view rendering
type Renderer struct {
	styles        *Styles
	searchRender  *SearchRenderer
	galleryRender *GalleryRenderer
	detailRender  *DetailRenderer
	popupRender   *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:        styles,
		searchRender:  NewSearchRenderer(styles),
		galleryRender: NewGalleryRenderer(styles),
		detailRender:  NewDetailRenderer(styles),
		popupRender:   NewPopupRenderer(styles),
	}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	layout := state.Layout
	content := &strings.Builder{}

	content.WriteString(r.renderTitleLine(state))
	content.WriteString("\n")
	content.WriteString(r.searchRender.RenderSearchLine(state))
	content.WriteString("\n\n")
	content.WriteString(r.galleryRender.RenderGallery(state))
	content.WriteString("\n")
	content.WriteString(r.renderStatusLine(state))
	content.WriteString("\n")
	content.WriteString(r.renderHelpLine(state))

	mainStyle := r.styles.Main.MaxHeight(layout.Height)
	finalContent := mainStyle.Render(content.String())

	if state.PaneOpen {
		body := r.detailRender.RenderDetail(state)
		return r.popupRender.RenderPopupOverlay(finalContent, body, layout.Height, layout.Width, r.styles.DetailBox)
	}

	if state.ShowFullHelp && state.Keys != nil {
		body := r.styles.Title.Render("Keys") + "\n\n" + state.HelpModel.FullHelpView(state.Keys.FullHelp())
		return r.popupRender.RenderPopupOverlay(finalContent, body, layout.Height, layout.Width, r.styles.DetailBox)
	}

	if state.Searching {
		if dropdown := r.searchRender.RenderDropdown(state); dropdown != "" {
			x := mainPaddingX + lipgloss.Width(r.styles.Prompt.Render(state.Prompt))
			return Overlay(finalContent, dropdown, x, layout.SearchLine()+1)
		}
	}
	return finalContent
}

func (r *Renderer) renderTitleLine(state ViewState) string {
	logo := r.styles.Title.Render("movieseeker")

	var indicators []string
	if state.Loading || state.SuggestionsLoading {
		indicators = append(indicators, state.Spinner)
	}
	if state.CanGoBack {
		indicators = append(indicators, "← back")
	}
	if state.CanGoForward {
		indicators = append(indicators, "→ forward")
	}
	if len(indicators) == 0 {
		return logo
	}

	right := r.styles.Dim.Render(strings.Join(indicators, "  "))
	available := state.Layout.Width - 2*mainPaddingX
	padding := available - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + right
}

func (r *Renderer) renderStatusLine(state ViewState) string {
	if state.ConfirmSave {
		return r.styles.Confirm.Render("Save changed settings to the config file? (y/n): ")
	}
	if state.StatusMessage != "" {
		if state.StatusIsError {
			return r.styles.StatusError.Render(state.StatusMessage)
		}
		return r.styles.StatusSuccess.Render(state.StatusMessage)
	}
	if state.GalleryErr != nil {
		return r.styles.StatusError.Render(fmt.Sprintf("Search failed: %v (r to retry)", state.GalleryErr))
	}
	if state.Term == "" {
		return ""
	}

	count := len(state.Items)
	parts := []string{
		fmt.Sprintf("%s of %s results", humanize.Comma(int64(count)), humanize.Comma(int64(state.Total))),
	}
	if state.Page > 0 {
		parts = append(parts, fmt.Sprintf("page %s", humanize.Comma(int64(state.Page))))
	}
	switch {
	case state.Loading:
		parts = append(parts, "loading more")
	case state.Exhausted && count > 0:
		parts = append(parts, "end of results")
	case count > 0:
		parts = append(parts, "scroll for more")
	}
	if hidden := state.ScrollOffset; hidden > 0 {
		parts = append(parts, fmt.Sprintf("↑ %d lines above", hidden))
	}
	return r.styles.StatusLoading.Render(strings.Join(parts, " • "))
}

func (r *Renderer) renderHelpLine(state ViewState) string {
	if state.Keys == nil {
		return r.styles.Help.Render("Press ? for help")
	}
	h := state.HelpModel
	h.Width = state.Layout.Width - 2*mainPaddingX
	return h.ShortHelpView(state.Keys.ShortHelp())
}
