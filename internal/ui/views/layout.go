package views

const (
	CardWidth    = 16
	CardGap      = 2
	PosterHeight = 12

	// title line, search line and a blank line above the gallery
	headerLines = 3
	// status line and key help below it
	footerLines = 2
	// vertical padding of the main container
	mainPaddingY = 1
	mainPaddingX = 2
)

// Layout computes where the gallery sits for a terminal size
type Layout struct {
	Width       int
	Height      int
	ShowPosters bool
}

// Columns is the number of cards per gallery row
func (l Layout) Columns() int {
	inner := l.Width - 2*mainPaddingX
	cols := (inner + CardGap) / (CardWidth + CardGap)
	if cols < 1 {
		return 1
	}
	return cols
}

// CardHeight is the number of lines one gallery row takes, gap included
func (l Layout) CardHeight() int {
	h := 3 // title, year and the gap
	if l.ShowPosters {
		h += PosterHeight
	}
	return h
}

// GalleryHeight is the number of lines available to the gallery
func (l Layout) GalleryHeight() int {
	h := l.Height - 2*mainPaddingY - headerLines - footerLines
	if h < 1 {
		return 1
	}
	return h
}

// Rows is the number of gallery rows needed for n items
func (l Layout) Rows(n int) int {
	cols := l.Columns()
	return (n + cols - 1) / cols
}

// ContentHeight is the full height of the gallery for n items
func (l Layout) ContentHeight(n int) int {
	return l.Rows(n) * l.CardHeight()
}

// RowOf returns the gallery row of the item at index
func (l Layout) RowOf(index int) int {
	return index / l.Columns()
}

// GalleryTop is the screen row where the gallery starts
func (l Layout) GalleryTop() int {
	return mainPaddingY + headerLines
}

// SearchLine is the screen row of the search field
func (l Layout) SearchLine() int {
	return mainPaddingY + 1
}

// MaxOffset is the largest scroll offset that still fills the viewport
func (l Layout) MaxOffset(n int) int {
	off := l.ContentHeight(n) - l.GalleryHeight()
	if off < 0 {
		return 0
	}
	return off
}
