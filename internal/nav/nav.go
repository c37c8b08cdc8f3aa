// Package nav holds the navigable browse state: the committed search term,
// addressable as a single "q" query parameter, with back/forward history.
package nav

import (
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"movieseeker/internal/eventbus"
)

// QueryParam is the location parameter carrying the search term
const QueryParam = "q"

// Observer is told about every change of the search term
type Observer func(term, previous string)

type observer struct {
	id uint64
	fn Observer
}

// Navigator owns the search term. Observers run synchronously on the
// goroutine that changed it.
type Navigator struct {
	mu        sync.Mutex
	history   []string
	index     int
	observers []observer
	nextID    uint64
	bus       eventbus.EventBus
}

// New creates a navigator positioned at location, e.g. "?q=dragon" or a
// full URL. bus may be nil.
func New(location string, bus eventbus.EventBus) *Navigator {
	return &Navigator{
		history: []string{ParseLocation(location)},
		bus:     bus,
	}
}

// ParseLocation extracts the trimmed term from a location string.
// Anything unparsable means no active browse.
func ParseLocation(location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return ""
	}
	if i := strings.IndexByte(location, '?'); i >= 0 {
		location = location[i+1:]
	}
	values, err := url.ParseQuery(location)
	if err != nil {
		slog.Debug("nav: ignoring unparsable location", "location", location, "error", err)
		return ""
	}
	return strings.TrimSpace(values.Get(QueryParam))
}

// FormatLocation renders term as a location query string
func FormatLocation(term string) string {
	if term == "" {
		return ""
	}
	return "?" + url.Values{QueryParam: {term}}.Encode()
}

// Term returns the committed search term; empty means no active browse
func (n *Navigator) Term() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.history[n.index]
}

// Location returns the current term as a location query string
func (n *Navigator) Location() string {
	return FormatLocation(n.Term())
}

// SetTerm commits term as a new history entry. It reports whether the term
// changed; committing the current term again does nothing.
func (n *Navigator) SetTerm(term string) bool {
	term = strings.TrimSpace(term)

	n.mu.Lock()
	prev := n.history[n.index]
	if term == prev {
		n.mu.Unlock()
		return false
	}
	n.history = append(n.history[:n.index+1], term)
	n.index++
	n.mu.Unlock()

	n.changed(term, prev)
	return true
}

// Back moves to the previous history entry
func (n *Navigator) Back() bool {
	return n.move(-1)
}

// Forward moves to the next history entry
func (n *Navigator) Forward() bool {
	return n.move(1)
}

func (n *Navigator) move(delta int) bool {
	n.mu.Lock()
	target := n.index + delta
	if target < 0 || target >= len(n.history) {
		n.mu.Unlock()
		return false
	}
	prev := n.history[n.index]
	n.index = target
	term := n.history[target]
	n.mu.Unlock()

	if term != prev {
		n.changed(term, prev)
	}
	return true
}

// CanGoBack reports whether Back would move
func (n *Navigator) CanGoBack() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index > 0
}

// CanGoForward reports whether Forward would move
func (n *Navigator) CanGoForward() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index < len(n.history)-1
}

// Subscribe registers fn for term changes and returns its unsubscribe function
func (n *Navigator) Subscribe(fn Observer) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	n.observers = append(n.observers, observer{id: id, fn: fn})

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		for i, o := range n.observers {
			if o.id == id {
				n.observers = append(n.observers[:i:i], n.observers[i+1:]...)
				break
			}
		}
	}
}

func (n *Navigator) changed(term, prev string) {
	n.mu.Lock()
	observers := make([]Observer, len(n.observers))
	for i, o := range n.observers {
		observers[i] = o.fn
	}
	n.mu.Unlock()

	slog.Info("nav: search term changed", "term", term, "previous", prev)
	for _, fn := range observers {
		fn(term, prev)
	}
	if n.bus != nil {
		n.bus.Publish(eventbus.TermCommittedEvent{Term: term, Previous: prev})
	}
}
