// Package gallery accumulates search results page by page as the user
// scrolls towards the end of the result list.
package gallery

import (
	"context"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"movieseeker/internal/debounce"
	"movieseeker/internal/domain"
)

const (
	DefaultWait      = 500 * time.Millisecond
	DefaultProximity = 2
	DefaultTimeout   = 30 * time.Second
)

// Phase is the pagination state
type Phase int

const (
	Idle Phase = iota
	Fetching
	Appended
)

func (p Phase) String() string {
	switch p {
	case Fetching:
		return "fetching"
	case Appended:
		return "appended"
	default:
		return "idle"
	}
}

// Fetcher loads one page of search results
type Fetcher interface {
	SearchPage(ctx context.Context, q domain.SearchQuery) (domain.ResultPage, error)
}

// Container is the scrollable region holding the result list, measured in rows
type Container interface {
	// ContentBottom is the bottom edge of the content relative to the top of the viewport
	ContentBottom() int
	ViewportHeight() int
}

// Window is the source of window-level scroll notifications
type Window interface {
	// OnScroll registers fn and returns the function that removes it
	OnScroll(fn func()) (release func())
}

// PageKey identifies one page fetch
type PageKey struct {
	Term string
	Page int
	Kind domain.Kind
}

// PageMsg carries the outcome of the fetch for Key
type PageMsg struct {
	Key  PageKey
	Page domain.ResultPage
	Err  error
}

// ScrollCheckMsg asks the controller to test whether more results are wanted.
// It is sent once scrolling has paused.
type ScrollCheckMsg struct{}

// Options configures a Controller
type Options struct {
	Kind      domain.Kind
	Wait      time.Duration
	Proximity int
	Timeout   time.Duration

	// Send delivers scroll checks back to the program loop
	Send func(tea.Msg)

	// OnSelect receives the id passed to SelectResult
	OnSelect func(id string) tea.Cmd
}

// Controller owns the gallery state. Apart from Mount's scroll listener
// its methods must be called from the program loop.
type Controller struct {
	fetcher  Fetcher
	opts     Options
	debounce *debounce.Scheduler[struct{}]

	container Container
	release   func()

	term      string
	page      int
	key       PageKey
	items     []domain.ResultItem
	total     int
	phase     Phase
	loading   bool
	lastEmpty bool
	err       error
	failed    map[int]string
}

// New creates a gallery controller with no term
func New(fetcher Fetcher, opts Options) *Controller {
	if opts.Kind == "" {
		opts.Kind = domain.KindMovie
	}
	if opts.Wait <= 0 {
		opts.Wait = DefaultWait
	}
	if opts.Proximity < 0 {
		opts.Proximity = 0
	} else if opts.Proximity == 0 {
		opts.Proximity = DefaultProximity
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	c := &Controller{
		fetcher: fetcher,
		opts:    opts,
		page:    1,
		items:   []domain.ResultItem{},
		failed:  make(map[int]string),
	}
	c.debounce = debounce.New(func(struct{}) {
		if c.opts.Send != nil {
			c.opts.Send(ScrollCheckMsg{})
		}
	}, opts.Wait)
	return c
}

// Mount acquires the window scroll listener. Mounting twice keeps the
// first listener.
func (c *Controller) Mount(w Window) {
	if c.release != nil || w == nil {
		return
	}
	c.release = w.OnScroll(func() { c.debounce.Trigger(struct{}{}) })
}

// Unmount releases the scroll listener and drops a pending scroll check
func (c *Controller) Unmount() {
	if c.release != nil {
		c.release()
		c.release = nil
	}
	c.debounce.CancelPending()
}

// Mounted reports whether the scroll listener is held
func (c *Controller) Mounted() bool {
	return c.release != nil
}

// Close unmounts and stops the scroll debounce for good
func (c *Controller) Close() {
	c.Unmount()
	c.debounce.Stop()
}

// RegisterScrollContainer sets the region measured by scroll checks
func (c *Controller) RegisterScrollContainer(container Container) {
	c.container = container
}

// SetTerm resets the gallery for term and fetches its first page
func (c *Controller) SetTerm(term string) tea.Cmd {
	c.term = strings.TrimSpace(term)
	c.page = 1
	c.items = []domain.ResultItem{}
	c.total = 0
	c.lastEmpty = false
	c.err = nil
	c.failed = make(map[int]string)
	c.debounce.CancelPending()

	if c.term == "" {
		c.key = PageKey{}
		c.loading = false
		c.phase = Idle
		return nil
	}
	return c.fetch()
}

func (c *Controller) fetch() tea.Cmd {
	key := PageKey{Term: c.term, Page: c.page, Kind: c.opts.Kind}
	c.key = key
	c.loading = true
	c.phase = Fetching

	fetcher := c.fetcher
	timeout := c.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		page, err := fetcher.SearchPage(ctx, domain.SearchQuery{Term: key.Term, Page: key.Page, Kind: key.Kind})
		return PageMsg{Key: key, Page: page, Err: err}
	}
}

// Update handles the controller's own messages
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PageMsg:
		return c.handlePage(msg)
	case ScrollCheckMsg:
		return c.checkScroll()
	}
	return nil
}

func (c *Controller) handlePage(msg PageMsg) tea.Cmd {
	if msg.Key != c.key || !c.loading {
		slog.Debug("gallery: discarding stale page", "term", msg.Key.Term, "page", msg.Key.Page)
		return nil
	}
	c.loading = false

	if msg.Err != nil {
		slog.Warn("gallery: page fetch failed", "term", msg.Key.Term, "page", msg.Key.Page, "error", msg.Err)
		c.err = msg.Err
		c.phase = Idle
		return nil
	}

	c.items = append(c.items, msg.Page.Items...)
	c.total = msg.Page.TotalAvailable
	c.lastEmpty = len(msg.Page.Items) == 0
	c.phase = Appended
	slog.Debug("gallery: page appended", "term", c.term, "page", c.page, "items", len(c.items), "total", c.total)
	return nil
}

func (c *Controller) checkScroll() tea.Cmd {
	if !c.qualifies() {
		return nil
	}
	c.page++
	return c.fetch()
}

// qualifies reports whether a scroll check should load the next page
func (c *Controller) qualifies() bool {
	if c.container == nil || c.term == "" || c.loading || c.err != nil || c.Exhausted() {
		return false
	}
	return c.container.ContentBottom()-c.opts.Proximity <= c.container.ViewportHeight()
}

// Exhausted reports whether every available result has been loaded
func (c *Controller) Exhausted() bool {
	if c.phase != Appended {
		return false
	}
	// an unknown total (0) only ends on an empty page
	return c.lastEmpty || (c.total > 0 && len(c.items) >= c.total)
}

// Retry re-issues the failed fetch for the current page
func (c *Controller) Retry() tea.Cmd {
	if c.err == nil || c.term == "" || c.loading {
		return nil
	}
	c.err = nil
	return c.fetch()
}

// SelectResult forwards id to the selection handler without touching gallery state
func (c *Controller) SelectResult(id string) tea.Cmd {
	if id == "" || c.opts.OnSelect == nil {
		return nil
	}
	return c.opts.OnSelect(id)
}

// PosterFailed records that the poster for the item at index could not be
// shown. id guards against a report for an item that has since been replaced.
func (c *Controller) PosterFailed(index int, id string) bool {
	if index < 0 || index >= len(c.items) || c.items[index].ID != id {
		return false
	}
	c.failed[index] = id
	return true
}

// DisplayPoster returns the poster source to render for the item at index
func (c *Controller) DisplayPoster(index int) string {
	if index < 0 || index >= len(c.items) {
		return domain.PlaceholderPoster
	}
	item := c.items[index]
	if id, ok := c.failed[index]; ok && id == item.ID {
		return domain.PlaceholderPoster
	}
	return item.PosterURL
}

func (c *Controller) Items() []domain.ResultItem { return c.items }
func (c *Controller) IsLoading() bool            { return c.loading }
func (c *Controller) Page() int                  { return c.page }
func (c *Controller) Phase() Phase               { return c.phase }
func (c *Controller) Total() int                 { return c.total }
func (c *Controller) Term() string               { return c.term }
func (c *Controller) Err() error                 { return c.err }
func (c *Controller) Proximity() int             { return c.opts.Proximity }
