package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventTermCommitted  EventType = "TermCommitted"
	EventWindowScrolled EventType = "WindowScrolled"
	EventResultSelected EventType = "ResultSelected"
	EventFetchFailed    EventType = "FetchFailed"
	EventConfigLoaded   EventType = "ConfigLoaded"
	EventConfigSaved    EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// TermCommittedEvent is emitted when the navigable search term changes
type TermCommittedEvent struct {
	Term     string
	Previous string
}

func (e TermCommittedEvent) Type() EventType { return EventTermCommitted }

// WindowScrolledEvent is emitted for every scroll of the main window.
// Published at input rate; subscribers must debounce.
type WindowScrolledEvent struct{}

func (e WindowScrolledEvent) Type() EventType { return EventWindowScrolled }

// ResultSelectedEvent is emitted when a gallery item is chosen for the detail pane
type ResultSelectedEvent struct {
	ID string
}

func (e ResultSelectedEvent) Type() EventType { return EventResultSelected }

// FetchFailedEvent is emitted when a catalogue fetch fails after retries
type FetchFailedEvent struct {
	Resource string // "suggestions", "search" or "detail"
	Key      string
	Err      error
}

func (e FetchFailedEvent) Type() EventType { return EventFetchFailed }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
