package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"movieseeker/internal/domain"
)

// DetailRenderer draws the content of the detail pane
type DetailRenderer struct {
	styles *Styles
}

// NewDetailRenderer creates a new detail renderer
func NewDetailRenderer(styles *Styles) *DetailRenderer {
	return &DetailRenderer{styles: styles}
}

// RenderDetail renders the pane body for the current detail state
func (d *DetailRenderer) RenderDetail(state ViewState) string {
	textWidth := min(max(state.Layout.Width-CardWidth-16, 30), 72)

	switch {
	case state.PaneErr != nil:
		return d.styles.StatusError.Render(fmt.Sprintf("Could not load details: %v", state.PaneErr)) +
			"\n\n" + d.styles.Dim.Render("r retry • esc close")
	case state.Detail == nil:
		return d.styles.StatusLoading.Render(fmt.Sprintf("%s Loading details...", state.Spinner))
	}

	rec := state.Detail
	var b strings.Builder

	title := rec.Title
	if rec.Year != "" {
		title = fmt.Sprintf("%s (%s)", rec.Title, rec.Year)
	}
	b.WriteString(d.styles.DetailTitle.Render(title))
	b.WriteString("\n")
	if meta := joinPresent(" • ", rec.Rated, rec.Runtime, rec.Genre); meta != "" {
		b.WriteString(d.styles.Dim.Render(meta))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	d.field(&b, "Director", rec.Director, textWidth)
	d.field(&b, "Writer", rec.Writer, textWidth)
	d.field(&b, "Cast", rec.Actors, textWidth)
	d.field(&b, "Released", rec.Released, textWidth)
	if rec.IMDBRating != "" && rec.IMDBRating != domain.PosterNotAvailable {
		rating := rec.IMDBRating + "/10"
		if rec.IMDBVotes != "" && rec.IMDBVotes != domain.PosterNotAvailable {
			rating += fmt.Sprintf(" (%s votes)", rec.IMDBVotes)
		}
		d.field(&b, "IMDb", rating, textWidth)
	}
	for _, r := range rec.Ratings {
		if r.Source != "Internet Movie Database" {
			d.field(&b, shortSource(r.Source), r.Value, textWidth)
		}
	}
	d.field(&b, "Box office", rec.BoxOffice, textWidth)
	d.field(&b, "Awards", rec.Awards, textWidth)

	if present(rec.Plot) {
		b.WriteString("\n")
		b.WriteString(d.styles.DetailValue.Width(textWidth).Render(rec.Plot))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(d.styles.Dim.Render("p full record • r retry • esc close"))

	body := b.String()
	if state.DetailPoster != "" {
		return lipgloss.JoinHorizontal(lipgloss.Top, state.DetailPoster, "   ", body)
	}
	return body
}

func (d *DetailRenderer) field(b *strings.Builder, label, value string, width int) {
	if !present(value) {
		return
	}
	b.WriteString(d.styles.DetailLabel.Render(label))
	b.WriteString(d.styles.DetailValue.Width(width - 10).Render(value))
	b.WriteString("\n")
}

func shortSource(source string) string {
	switch source {
	case "Rotten Tomatoes":
		return "Tomatoes"
	case "Metacritic":
		return "Metacritic"
	default:
		return source
	}
}

func present(v string) bool {
	return v != "" && v != domain.PosterNotAvailable
}

func joinPresent(sep string, values ...string) string {
	var out []string
	for _, v := range values {
		if present(v) {
			out = append(out, v)
		}
	}
	return strings.Join(out, sep)
}

// RenderRecord renders every field of rec as plain text for the pager
func RenderRecord(rec domain.DetailRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", rec.Title, rec.Year)
	b.WriteString(strings.Repeat("=", len(rec.Title)+len(rec.Year)+3))
	b.WriteString("\n\n")

	rows := []struct{ label, value string }{
		{"IMDb ID", rec.ID},
		{"Type", string(rec.Kind)},
		{"Rated", rec.Rated},
		{"Released", rec.Released},
		{"Runtime", rec.Runtime},
		{"Genre", rec.Genre},
		{"Director", rec.Director},
		{"Writer", rec.Writer},
		{"Actors", rec.Actors},
		{"Language", rec.Language},
		{"Country", rec.Country},
		{"Awards", rec.Awards},
		{"Metascore", rec.Metascore},
		{"IMDb rating", rec.IMDBRating},
		{"IMDb votes", rec.IMDBVotes},
		{"DVD", rec.DVD},
		{"Box office", rec.BoxOffice},
		{"Production", rec.Production},
		{"Website", rec.Website},
		{"Poster", rec.PosterURL},
	}
	for _, row := range rows {
		if present(row.value) {
			fmt.Fprintf(&b, "%-12s %s\n", row.label+":", row.value)
		}
	}
	if len(rec.Ratings) > 0 {
		b.WriteString("\nRatings\n")
		for _, r := range rec.Ratings {
			fmt.Fprintf(&b, "  %-24s %s\n", r.Source, r.Value)
		}
	}
	if present(rec.Plot) {
		b.WriteString("\nPlot\n")
		b.WriteString(rec.Plot)
		b.WriteString("\n")
	}
	return b.String()
}
