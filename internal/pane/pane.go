// Package pane controls the detail overlay for a single result.
package pane

import (
	"context"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"movieseeker/internal/domain"
)

const DefaultTimeout = 30 * time.Second

// State is the overlay lifecycle
type State int

const (
	Closed State = iota
	OpenLoading
	OpenReady
)

func (s State) String() string {
	switch s {
	case OpenLoading:
		return "open-loading"
	case OpenReady:
		return "open-ready"
	default:
		return "closed"
	}
}

// ModalState is whether the overlay is shown and for which id.
// Closing clears IsOpen only.
type ModalState struct {
	IsOpen    bool
	FocusedID string
}

// Fetcher loads a detail record
type Fetcher interface {
	Detail(ctx context.Context, id string) (domain.DetailRecord, error)
}

// DetailMsg carries the outcome of the fetch for ID
type DetailMsg struct {
	ID     string
	Record domain.DetailRecord
	Err    error
}

// Controller owns the modal state and the one detail record it holds
type Controller struct {
	fetcher Fetcher
	timeout time.Duration

	modal       ModalState
	requestedID string
	recordID    string
	record      domain.DetailRecord
	loading     bool
	err         error
}

// New creates a closed pane controller. A zero timeout takes the default.
func New(fetcher Fetcher, timeout time.Duration) *Controller {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Controller{fetcher: fetcher, timeout: timeout}
}

// Open shows the overlay for id and fetches its record unless it is held
// or already being fetched
func (c *Controller) Open(id string) tea.Cmd {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	c.modal = ModalState{IsOpen: true, FocusedID: id}

	if c.recordID == id {
		return nil
	}
	if c.loading && c.requestedID == id {
		return nil
	}

	c.requestedID = id
	c.recordID = ""
	c.record = domain.DetailRecord{}
	c.loading = true
	c.err = nil

	fetcher := c.fetcher
	timeout := c.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		rec, err := fetcher.Detail(ctx, id)
		return DetailMsg{ID: id, Record: rec, Err: err}
	}
}

// Close hides the overlay. In-flight fetches keep running.
func (c *Controller) Close() {
	c.modal.IsOpen = false
}

// Update handles the controller's own messages
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	m, ok := msg.(DetailMsg)
	if !ok {
		return nil
	}
	if m.ID != c.requestedID || !c.loading {
		slog.Debug("pane: discarding superseded detail", "id", m.ID, "requested", c.requestedID)
		return nil
	}
	c.loading = false

	if m.Err != nil {
		slog.Warn("pane: detail fetch failed", "id", m.ID, "error", m.Err)
		c.err = m.Err
		return nil
	}
	c.record = m.Record
	c.recordID = m.ID
	return nil
}

// State derives the lifecycle state
func (c *Controller) State() State {
	switch {
	case !c.modal.IsOpen:
		return Closed
	case c.loading && c.requestedID == c.modal.FocusedID:
		return OpenLoading
	default:
		return OpenReady
	}
}

// Detail returns the held record and whether it belongs to the focused id
func (c *Controller) Detail() (domain.DetailRecord, bool) {
	if c.recordID == "" || c.recordID != c.modal.FocusedID {
		return domain.DetailRecord{}, false
	}
	return c.record, true
}

func (c *Controller) ModalState() ModalState { return c.modal }
func (c *Controller) IsOpen() bool           { return c.modal.IsOpen }
func (c *Controller) IsLoading() bool        { return c.loading }

// Err returns the failure of the last fetch for the focused id
func (c *Controller) Err() error {
	if c.requestedID != c.modal.FocusedID {
		return nil
	}
	return c.err
}
