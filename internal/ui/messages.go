package ui

import (
	"image"

	"movieseeker/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// posterMsg carries a downloaded poster. index and id locate the gallery
// card it belongs to; detail marks the poster of the open detail pane.
type posterMsg struct {
	url    string
	index  int
	id     string
	detail bool
	img    image.Image
	err    error
}

// posterWaiter is a gallery card waiting on a poster download
type posterWaiter struct {
	index int
	id    string
}

// pagerMsg contains the result of showing a record in the pager
type pagerMsg struct {
	err error
}

// clearStatusMsg clears a transient status message
type clearStatusMsg struct {
	seq int
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
