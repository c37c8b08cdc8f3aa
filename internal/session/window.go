package session

import (
	"movieseeker/internal/eventbus"
)

// BusWindow delivers WindowScrolledEvent from the event bus as scroll notifications
type BusWindow struct {
	Bus eventbus.EventBus
}

// OnScroll subscribes fn to window scroll events
func (w BusWindow) OnScroll(fn func()) func() {
	return w.Bus.Subscribe(eventbus.EventWindowScrolled, func(eventbus.DomainEvent) { fn() })
}
