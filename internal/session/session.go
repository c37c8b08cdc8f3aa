// Package session wires the suggestion, gallery and detail pane controllers
// to the navigable search term. It holds no state of its own beyond the
// commands the controllers produce while handling one call.
package session

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"movieseeker/internal/domain"
	"movieseeker/internal/eventbus"
	"movieseeker/internal/gallery"
	"movieseeker/internal/nav"
	"movieseeker/internal/pane"
	"movieseeker/internal/suggest"
)

// Catalog is everything the controllers fetch
type Catalog interface {
	Suggestions(ctx context.Context, q domain.SearchQuery) (domain.ResultPage, error)
	SearchPage(ctx context.Context, q domain.SearchQuery) (domain.ResultPage, error)
	Detail(ctx context.Context, id string) (domain.DetailRecord, error)
}

// Options tunes the controllers
type Options struct {
	Kind        domain.Kind
	SuggestWait time.Duration
	ScrollWait  time.Duration
	Proximity   int
	Timeout     time.Duration
}

// Session composes the controllers for one browsing session
type Session struct {
	nav     *nav.Navigator
	bus     eventbus.EventBus
	suggest *suggest.Controller
	gallery *gallery.Controller
	pane    *pane.Controller

	send        func(tea.Msg)
	pending     []tea.Cmd
	unsubscribe func()
}

// New creates a session over navigator. bus may be nil.
func New(navigator *nav.Navigator, catalog Catalog, bus eventbus.EventBus, opts Options) *Session {
	s := &Session{nav: navigator, bus: bus}

	s.suggest = suggest.New(catalog, suggest.Options{
		Kind:     opts.Kind,
		Wait:     opts.SuggestWait,
		Timeout:  opts.Timeout,
		Send:     s.deliver,
		OnCommit: s.commit,
	})
	s.gallery = gallery.New(catalog, gallery.Options{
		Kind:      opts.Kind,
		Wait:      opts.ScrollWait,
		Proximity: opts.Proximity,
		Timeout:   opts.Timeout,
		Send:      s.deliver,
		OnSelect:  s.open,
	})
	s.pane = pane.New(catalog, opts.Timeout)

	s.unsubscribe = navigator.Subscribe(s.termChanged)
	return s
}

// SetSend sets where timer driven messages are delivered, normally Program.Send
func (s *Session) SetSend(send func(tea.Msg)) {
	s.send = send
}

func (s *Session) deliver(msg tea.Msg) {
	if s.send != nil {
		s.send(msg)
	}
}

func (s *Session) termChanged(term, _ string) {
	s.suggest.Dismiss()
	s.pending = append(s.pending, s.gallery.SetTerm(term))
}

func (s *Session) commit(term string) tea.Cmd {
	s.nav.SetTerm(term)
	return s.drain()
}

func (s *Session) open(id string) tea.Cmd {
	if s.bus != nil {
		s.bus.Publish(eventbus.ResultSelectedEvent{ID: id})
	}
	return s.pane.Open(id)
}

func (s *Session) drain() tea.Cmd {
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}

// Init loads the gallery for the term the session started with
func (s *Session) Init() tea.Cmd {
	return s.gallery.SetTerm(s.nav.Term())
}

// Mount attaches the gallery to the window scroll source
func (s *Session) Mount(w gallery.Window) {
	s.gallery.Mount(w)
}

// Unmount detaches the gallery from the window scroll source
func (s *Session) Unmount() {
	s.gallery.Unmount()
}

// SetText forwards a change of the search field
func (s *Session) SetText(text string) {
	s.suggest.SetText(text)
}

// Submit validates and commits typed text
func (s *Session) Submit(raw string) (tea.Cmd, error) {
	return s.suggest.Submit(raw)
}

// Choose commits the i-th suggestion
func (s *Session) Choose(i int) (tea.Cmd, bool) {
	return s.suggest.Choose(i)
}

// ChooseHighlighted commits the highlighted suggestion
func (s *Session) ChooseHighlighted() (tea.Cmd, bool) {
	return s.suggest.ChooseHighlighted()
}

// Select opens the detail pane for a gallery item
func (s *Session) Select(id string) tea.Cmd {
	return s.gallery.SelectResult(id)
}

// ClosePane hides the detail pane
func (s *Session) ClosePane() {
	s.pane.Close()
}

// Back returns to the previous search term
func (s *Session) Back() (tea.Cmd, bool) {
	ok := s.nav.Back()
	return s.drain(), ok
}

// Forward advances to the next search term
func (s *Session) Forward() (tea.Cmd, bool) {
	ok := s.nav.Forward()
	return s.drain(), ok
}

// SetKind switches the result kind for suggestions
func (s *Session) SetKind(kind domain.Kind) tea.Cmd {
	return s.suggest.SetKind(kind)
}

// Retry re-issues failed gallery and detail fetches
func (s *Session) Retry() tea.Cmd {
	cmds := []tea.Cmd{s.gallery.Retry()}
	if s.pane.IsOpen() && s.pane.Err() != nil {
		cmds = append(cmds, s.pane.Open(s.pane.ModalState().FocusedID))
	}
	return tea.Batch(cmds...)
}

// Update routes controller messages
func (s *Session) Update(msg tea.Msg) tea.Cmd {
	switch msg.(type) {
	case suggest.DebouncedMsg, suggest.ResultsMsg:
		return s.suggest.Update(msg)
	case gallery.PageMsg, gallery.ScrollCheckMsg:
		return s.gallery.Update(msg)
	case pane.DetailMsg:
		return s.pane.Update(msg)
	}
	return nil
}

// Close releases the scroll listener, timers and the navigator subscription
func (s *Session) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.gallery.Close()
	s.suggest.Close()
}

func (s *Session) Nav() *nav.Navigator          { return s.nav }
func (s *Session) Suggest() *suggest.Controller { return s.suggest }
func (s *Session) Gallery() *gallery.Controller { return s.gallery }
func (s *Session) Pane() *pane.Controller       { return s.pane }
