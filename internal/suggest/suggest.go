// Package suggest drives the live suggestion dropdown under the search
// field and the commit of a chosen or typed title.
package suggest

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"movieseeker/internal/debounce"
	"movieseeker/internal/domain"
)

const (
	DefaultWait    = 500 * time.Millisecond
	DefaultTimeout = 30 * time.Second
)

// Fetcher looks up suggestion candidates
type Fetcher interface {
	Suggestions(ctx context.Context, q domain.SearchQuery) (domain.ResultPage, error)
}

// Key identifies one suggestion lookup
type Key struct {
	Text string
	Kind domain.Kind
}

// DebouncedMsg is delivered once typing has paused
type DebouncedMsg struct {
	Text string
}

// ResultsMsg carries the outcome of a lookup for Key
type ResultsMsg struct {
	Key  Key
	Page domain.ResultPage
	Err  error
}

// Options configures a Controller
type Options struct {
	Kind    domain.Kind
	Wait    time.Duration
	Timeout time.Duration

	// Send delivers debounce expiries back to the program loop
	Send func(tea.Msg)

	// OnCommit receives every committed title
	OnCommit func(term string) tea.Cmd
}

// Controller owns the suggestion state. All methods except the debounce
// callback must be called from the program loop.
type Controller struct {
	fetcher   Fetcher
	opts      Options
	debouncer *debounce.Scheduler[string]

	text       string
	key        Key
	candidates []domain.ResultItem
	loading    bool
	open       bool
	highlight  int
	fieldErr   *ValidationError
}

// New creates a suggestion controller
func New(fetcher Fetcher, opts Options) *Controller {
	if opts.Kind == "" {
		opts.Kind = domain.KindMovie
	}
	if opts.Wait <= 0 {
		opts.Wait = DefaultWait
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	c := &Controller{fetcher: fetcher, opts: opts, highlight: -1}
	c.debouncer = debounce.New(func(text string) {
		if c.opts.Send != nil {
			c.opts.Send(DebouncedMsg{Text: text})
		}
	}, opts.Wait)
	return c
}

// SetText records a change of the live text value
func (c *Controller) SetText(text string) {
	if text == c.text {
		return
	}
	c.text = text
	c.fieldErr = nil

	if strings.TrimSpace(text) == "" {
		c.debouncer.CancelPending()
		c.clear()
		return
	}
	c.debouncer.Trigger(text)
}

func (c *Controller) clear() {
	c.key = Key{}
	c.candidates = nil
	c.loading = false
	c.open = false
	c.highlight = -1
}

// Update handles the controller's own messages
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case DebouncedMsg:
		// superseded by later typing or cleared
		if msg.Text != c.text || strings.TrimSpace(msg.Text) == "" {
			return nil
		}
		return c.fetch(Key{Text: strings.TrimSpace(msg.Text), Kind: c.opts.Kind})

	case ResultsMsg:
		if msg.Key != c.key {
			slog.Debug("suggest: discarding stale results", "key", msg.Key.Text, "current", c.key.Text)
			return nil
		}
		c.loading = false
		c.highlight = -1
		if msg.Err != nil {
			slog.Warn("suggest: lookup failed", "text", msg.Key.Text, "error", msg.Err)
			c.candidates = nil
			c.open = false
			return nil
		}
		c.candidates = msg.Page.Items
		c.open = len(c.candidates) > 0
	}
	return nil
}

func (c *Controller) fetch(key Key) tea.Cmd {
	c.key = key
	c.loading = true
	fetcher := c.fetcher
	timeout := c.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		page, err := fetcher.Suggestions(ctx, domain.SearchQuery{Term: key.Text, Page: 1, Kind: key.Kind})
		return ResultsMsg{Key: key, Page: page, Err: err}
	}
}

// SetKind switches the result kind and refetches the current text
func (c *Controller) SetKind(kind domain.Kind) tea.Cmd {
	if kind == "" || kind == c.opts.Kind {
		return nil
	}
	c.opts.Kind = kind
	if strings.TrimSpace(c.text) == "" {
		return nil
	}
	c.debouncer.CancelPending()
	return c.fetch(Key{Text: strings.TrimSpace(c.text), Kind: kind})
}

// Submit validates raw text and commits it. An invalid title is kept as
// the field error and nothing is committed.
func (c *Controller) Submit(raw string) (tea.Cmd, error) {
	title, err := ValidateTitle(raw)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			c.fieldErr = verr
		}
		return nil, err
	}
	c.fieldErr = nil
	return c.commit(title), nil
}

// Choose commits the i-th candidate's title
func (c *Controller) Choose(i int) (tea.Cmd, bool) {
	if i < 0 || i >= len(c.candidates) {
		return nil, false
	}
	title := c.candidates[i].Title
	c.text = title
	c.fieldErr = nil
	return c.commit(title), true
}

// ChooseHighlighted commits the highlighted candidate, if any
func (c *Controller) ChooseHighlighted() (tea.Cmd, bool) {
	if !c.open {
		return nil, false
	}
	return c.Choose(c.highlight)
}

func (c *Controller) commit(title string) tea.Cmd {
	c.open = false
	c.highlight = -1
	c.debouncer.CancelPending()
	if c.opts.OnCommit == nil {
		return nil
	}
	return c.opts.OnCommit(title)
}

// Dismiss closes the dropdown and drops a pending lookup
func (c *Controller) Dismiss() {
	c.debouncer.CancelPending()
	c.open = false
	c.highlight = -1
}

// MoveHighlight moves the dropdown highlight by delta, wrapping around
func (c *Controller) MoveHighlight(delta int) {
	n := len(c.candidates)
	if !c.open || n == 0 {
		return
	}
	if c.highlight < 0 {
		if delta > 0 {
			c.highlight = 0
		} else {
			c.highlight = n - 1
		}
		return
	}
	c.highlight = ((c.highlight+delta)%n + n) % n
}

// Close stops the debounce timer; the controller must not be used afterwards
func (c *Controller) Close() {
	c.debouncer.Stop()
}

func (c *Controller) Candidates() []domain.ResultItem { return c.candidates }
func (c *Controller) IsOpen() bool                    { return c.open }
func (c *Controller) IsLoading() bool                 { return c.loading }
func (c *Controller) Highlighted() int                { return c.highlight }
func (c *Controller) Text() string                    { return c.text }
func (c *Controller) Kind() domain.Kind               { return c.opts.Kind }
func (c *Controller) CurrentKey() Key                 { return c.key }

// FieldError returns the pending validation message, or ""
func (c *Controller) FieldError() string {
	if c.fieldErr == nil {
		return ""
	}
	return c.fieldErr.Message
}
