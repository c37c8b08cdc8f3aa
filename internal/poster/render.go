package poster

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nfnt/resize"
)

const halfBlock = "▀"

// Render draws img into a width x height cell grid. Each cell shows two
// vertically stacked pixels: the foreground paints the upper one.
func Render(img image.Image, width, height int) string {
	if img == nil || width <= 0 || height <= 0 {
		return ""
	}
	scaled := resize.Resize(uint(width), uint(height*2), img, resize.Bilinear)
	b := scaled.Bounds()

	var sb strings.Builder
	for y := 0; y < height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < width; x++ {
			top := hexColor(scaled.At(b.Min.X+x, b.Min.Y+2*y))
			bottom := hexColor(scaled.At(b.Min.X+x, b.Min.Y+2*y+1))
			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render(halfBlock))
		}
	}
	return sb.String()
}

func hexColor(c interface{ RGBA() (r, g, b, a uint32) }) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

var placeholderStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("238")).
	Align(lipgloss.Center, lipgloss.Center)

// Placeholder draws the stand-in shown when a poster cannot be displayed
func Placeholder(width, height int) string {
	if width < 3 || height < 3 {
		return strings.Repeat(" ", max(width, 0))
	}
	label := "no poster"
	if width-2 < len(label) {
		label = "∅"
	}
	return placeholderStyle.
		Width(width - 2).
		Height(height - 2).
		Render(label)
}
