package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"movieseeker/internal/config"
	"movieseeker/internal/domain"
	"movieseeker/internal/eventbus"
	"movieseeker/internal/gallery"
	"movieseeker/internal/pane"
	"movieseeker/internal/poster"
	"movieseeker/internal/session"
	"movieseeker/internal/suggest"
	"movieseeker/internal/ui/input"
	inputtypes "movieseeker/internal/ui/input/types"
	"movieseeker/internal/ui/views"
)

const (
	wheelStep      = 3
	statusDuration = 4 * time.Second
	posterTimeout  = 15 * time.Second

	detailPosterWidth  = 20
	detailPosterHeight = 15
)

// Deps are the services the model drives
type Deps struct {
	Bus     eventbus.EventBus
	Config  *config.Config
	Store   config.ConfigService // optional, enables saving changed settings
	Session *session.Session
	Posters *poster.Loader // optional, nil disables poster art
}

// Model represents the UI state
type Model struct {
	bus      eventbus.EventBus
	config   *config.Config
	store    config.ConfigService
	session  *session.Session
	posters  *poster.Loader
	renderer *views.Renderer

	inputHandler *input.Handler
	help         help.Model
	keys         KeyMap
	spinner      spinner.Model

	width        int
	height       int
	cursor       int
	scrollOffset int
	term         string
	kind         domain.Kind
	showPosters  bool
	showHelp     bool
	inPagerMode  bool

	posterArt     map[string]string
	posterPending map[string][]posterWaiter
	detailArt     map[string]string

	statusMessage string
	statusIsError bool
	statusSeq     int

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(deps Deps) *Model {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	kind, err := domain.ParseKind(cfg.Search.Kind)
	if err != nil {
		kind = domain.KindMovie
	}

	m := &Model{
		bus:           deps.Bus,
		config:        cfg,
		store:         deps.Store,
		session:       deps.Session,
		posters:       deps.Posters,
		renderer:      views.NewRenderer(),
		inputHandler:  input.New(),
		help:          help.New(),
		keys:          DefaultKeyMap,
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot)),
		kind:          kind,
		showPosters:   cfg.UI.ShowPosters && deps.Posters != nil,
		posterArt:     make(map[string]string),
		posterPending: make(map[string][]posterWaiter),
		detailArt:     make(map[string]string),
	}
	m.session.Gallery().RegisterScrollContainer(galleryContainer{m})
	m.term = m.session.Nav().Term()
	m.inputHandler.SetText(m.term)
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
}

// galleryContainer reports the gallery geometry in viewport coordinates
type galleryContainer struct {
	m *Model
}

func (c galleryContainer) ContentBottom() int {
	return c.m.layout().ContentHeight(len(c.m.session.Gallery().Items())) - c.m.scrollOffset
}

func (c galleryContainer) ViewportHeight() int {
	return c.m.layout().GalleryHeight()
}

func (m *Model) layout() views.Layout {
	return views.Layout{Width: m.width, Height: m.height, ShowPosters: m.showPosters}
}

// Init mounts the gallery and loads the starting term
func (m *Model) Init() tea.Cmd {
	if os.Getenv("MOVIESEEKER_E2E_TEST") == "1" {
		fmt.Println("__READY__")
	}
	if m.bus != nil {
		m.session.Mount(session.BusWindow{Bus: m.bus})
	}

	cmds := []tea.Cmd{m.session.Init(), m.spinner.Tick}
	if m.term == "" {
		cmds = append(cmds, m.inputHandler.ChangeMode(inputtypes.ModeSearch, ""))
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.clampScroll()

	case tea.KeyMsg:
		if m.inPagerMode {
			return m, nil
		}
		actions, cmd := m.inputHandler.HandleKey(msg, modelContext{m})
		cmds = append(cmds, cmd)
		for _, action := range actions {
			cmds = append(cmds, m.processAction(action))
		}

	case tea.MouseMsg:
		cmds = append(cmds, m.handleMouse(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case suggest.DebouncedMsg, suggest.ResultsMsg, gallery.ScrollCheckMsg:
		cmds = append(cmds, m.session.Update(msg))

	case gallery.PageMsg:
		before := len(m.session.Gallery().Items())
		cmds = append(cmds, m.session.Update(msg))
		cmds = append(cmds, m.loadPosters(before))

	case pane.DetailMsg:
		cmds = append(cmds, m.session.Update(msg))
		cmds = append(cmds, m.loadDetailPoster())

	case posterMsg:
		m.handlePoster(msg)

	case EventMsg:
		cmds = append(cmds, m.handleEvent(msg.Event))

	case pagerMsg:
		if msg.err != nil {
			slog.Warn("ui: pager failed", "error", msg.err)
			cmds = append(cmds, m.setStatus(fmt.Sprintf("Pager failed: %v", msg.err), true))
		}

	case pauseRenderingMsg:
		m.inPagerMode = true

	case resumeRenderingMsg:
		m.inPagerMode = false

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusMessage = ""
			m.statusIsError = false
		}

	default:
		cmds = append(cmds, m.inputHandler.Update(msg))
	}

	m.syncTerm()
	return m, tea.Batch(cmds...)
}

// syncTerm resets the gallery viewport when the committed term changed
func (m *Model) syncTerm() {
	term := m.session.Gallery().Term()
	if term == m.term {
		return
	}
	m.term = term
	m.cursor = 0
	m.scrollOffset = 0
	if m.inputHandler.CurrentMode() != inputtypes.ModeSearch {
		m.inputHandler.SetText(term)
	}
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	slog.Debug("ui: action", "type", action.Type())

	switch a := action.(type) {
	case inputtypes.NavigateAction:
		if m.navigate(a.Direction) {
			m.publishScroll()
		}

	case inputtypes.UpdateTextAction:
		if a.Text != m.session.Suggest().Text() {
			m.session.SetText(a.Text)
		}

	case inputtypes.SubmitTextAction:
		cmd, err := m.session.Submit(a.Text)
		if err != nil {
			return nil
		}
		return tea.Batch(cmd, m.inputHandler.ChangeMode(inputtypes.ModeBrowse, nil))

	case inputtypes.CancelTextAction:
		m.session.Suggest().Dismiss()

	case inputtypes.HighlightSuggestionAction:
		m.session.Suggest().MoveHighlight(a.Delta)

	case inputtypes.ChooseSuggestionAction:
		var cmd tea.Cmd
		var ok bool
		if a.Index < 0 {
			cmd, ok = m.session.ChooseHighlighted()
		} else {
			cmd, ok = m.session.Choose(a.Index)
		}
		if !ok {
			return nil
		}
		m.inputHandler.SetText(m.session.Suggest().Text())
		return tea.Batch(cmd, m.inputHandler.ChangeMode(inputtypes.ModeBrowse, nil))

	case inputtypes.OpenDetailAction:
		cmd := m.session.Select(a.ID)
		m.inputHandler.ChangeMode(inputtypes.ModePane, nil)
		return tea.Batch(cmd, m.loadDetailPoster())

	case inputtypes.CloseDetailAction:
		m.session.ClosePane()

	case inputtypes.OpenPagerAction:
		rec, ok := m.session.Pane().Detail()
		if !ok {
			return nil
		}
		return m.showPager(views.RenderRecord(rec))

	case inputtypes.RetryAction:
		return m.session.Retry()

	case inputtypes.HistoryAction:
		var cmd tea.Cmd
		var ok bool
		if a.Direction == "back" {
			cmd, ok = m.session.Back()
		} else {
			cmd, ok = m.session.Forward()
		}
		if !ok {
			return m.setStatus(fmt.Sprintf("No search to go %s to", a.Direction), false)
		}
		return cmd

	case inputtypes.CycleKindAction:
		m.kind = nextKind(m.kind)
		return tea.Batch(
			m.session.SetKind(m.kind),
			m.setStatus(fmt.Sprintf("Suggestions now list %s results", m.kind), false),
		)

	case inputtypes.TogglePostersAction:
		if m.posters == nil {
			return m.setStatus("Posters are disabled", true)
		}
		m.showPosters = !m.showPosters
		m.clampScroll()
		m.ensureCursorVisible()
		if m.showPosters {
			return m.loadPosters(0)
		}

	case inputtypes.ToggleHelpAction:
		m.showHelp = !m.showHelp

	case inputtypes.QuitAction:
		if a.SaveConfig {
			m.saveSettings()
		}
		return tea.Quit
	}

	return nil
}

func nextKind(k domain.Kind) domain.Kind {
	switch k {
	case domain.KindMovie:
		return domain.KindSeries
	case domain.KindSeries:
		return domain.KindEpisode
	default:
		return domain.KindMovie
	}
}

// settingsDirty reports whether session settings differ from the loaded config
func (m *Model) settingsDirty() bool {
	if m.store == nil {
		return false
	}
	configured := m.config.UI.ShowPosters && m.posters != nil
	return string(m.kind) != m.config.Search.Kind || m.showPosters != configured
}

func (m *Model) saveSettings() {
	cfg := *m.config
	cfg.Search.Kind = string(m.kind)
	if m.posters != nil {
		cfg.UI.ShowPosters = m.showPosters
	}
	if err := m.store.Save(&cfg); err != nil {
		slog.Error("ui: failed to save settings", "path", m.store.Path(), "error", err)
		return
	}
	*m.config = cfg
}

// navigate moves the cursor and reports whether the view moved
func (m *Model) navigate(direction string) bool {
	n := len(m.session.Gallery().Items())
	if n == 0 {
		return false
	}
	layout := m.layout()
	cols := layout.Columns()
	pageItems := max(layout.GalleryHeight()/layout.CardHeight(), 1) * cols

	next := m.cursor
	switch direction {
	case "up":
		next -= cols
	case "down":
		next += cols
	case "left":
		next--
	case "right":
		next++
	case "pageup":
		next -= pageItems
	case "pagedown":
		next += pageItems
	case "home":
		next = 0
	case "end":
		next = n - 1
	}
	next = min(max(next, 0), n-1)
	m.cursor = next
	m.ensureCursorVisible()
	return true
}

func (m *Model) ensureCursorVisible() {
	layout := m.layout()
	cardH := layout.CardHeight()
	top := layout.RowOf(m.cursor) * cardH
	bottom := top + cardH

	if top < m.scrollOffset {
		m.scrollOffset = top
	}
	if bottom > m.scrollOffset+layout.GalleryHeight() {
		m.scrollOffset = bottom - layout.GalleryHeight()
	}
	m.clampScroll()
}

func (m *Model) clampScroll() {
	n := len(m.session.Gallery().Items())
	m.scrollOffset = min(max(m.scrollOffset, 0), m.layout().MaxOffset(n))
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.session.Pane().IsOpen() || msg.Action != tea.MouseActionPress {
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scrollOffset -= wheelStep
	case tea.MouseButtonWheelDown:
		m.scrollOffset += wheelStep
	default:
		return nil
	}
	m.clampScroll()
	m.publishScroll()
	return nil
}

// publishScroll reports a window scroll to the gallery listener
func (m *Model) publishScroll() {
	if m.bus != nil {
		m.bus.Publish(eventbus.WindowScrolledEvent{})
	}
}

func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.FetchFailedEvent:
		// gallery and detail errors have their own display
		if e.Resource == "suggestions" {
			return m.setStatus(fmt.Sprintf("Suggestions unavailable: %v", e.Err), true)
		}
	case eventbus.ConfigSavedEvent:
		return m.setStatus(fmt.Sprintf("Settings saved to %s", e.Path), false)
	}
	return nil
}

func (m *Model) setStatus(message string, isError bool) tea.Cmd {
	m.statusSeq++
	m.statusMessage = message
	m.statusIsError = isError
	seq := m.statusSeq
	return tea.Tick(statusDuration, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

// loadPosters starts downloads for gallery items from index from on
func (m *Model) loadPosters(from int) tea.Cmd {
	if !m.showPosters || m.posters == nil {
		return nil
	}
	items := m.session.Gallery().Items()
	var cmds []tea.Cmd
	for i := from; i < len(items); i++ {
		url := m.session.Gallery().DisplayPoster(i)
		if !items[i].HasPoster() || url != items[i].PosterURL {
			continue
		}
		if _, ok := m.posterArt[url]; ok {
			continue
		}
		// items sharing a poster wait on a single download
		waiters, pending := m.posterPending[url]
		m.posterPending[url] = append(waiters, posterWaiter{index: i, id: items[i].ID})
		if !pending {
			cmds = append(cmds, m.fetchPoster(url, i, items[i].ID, false))
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) loadDetailPoster() tea.Cmd {
	if !m.showPosters || m.posters == nil {
		return nil
	}
	rec, ok := m.session.Pane().Detail()
	if !ok || rec.PosterURL == "" || rec.PosterURL == domain.PosterNotAvailable {
		return nil
	}
	if _, done := m.detailArt[rec.PosterURL]; done {
		return nil
	}
	return m.fetchPoster(rec.PosterURL, -1, rec.ID, true)
}

func (m *Model) fetchPoster(url string, index int, id string, detail bool) tea.Cmd {
	loader := m.posters
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), posterTimeout)
		defer cancel()
		img, err := loader.Load(ctx, url)
		return posterMsg{url: url, index: index, id: id, detail: detail, img: img, err: err}
	}
}

func (m *Model) handlePoster(msg posterMsg) {
	var waiters []posterWaiter
	if !msg.detail {
		waiters = m.posterPending[msg.url]
		delete(m.posterPending, msg.url)
		if len(waiters) == 0 {
			waiters = []posterWaiter{{index: msg.index, id: msg.id}}
		}
	}
	if msg.err != nil {
		if !errors.Is(msg.err, poster.ErrUnavailable) {
			slog.Debug("ui: poster load failed", "url", msg.url, "error", msg.err)
		}
		for _, w := range waiters {
			m.session.Gallery().PosterFailed(w.index, w.id)
		}
		return
	}
	if msg.detail {
		m.detailArt[msg.url] = poster.Render(msg.img, detailPosterWidth, detailPosterHeight)
		return
	}
	m.posterArt[msg.url] = poster.Render(msg.img, views.CardWidth, views.PosterHeight)
}

// posterFor returns the card art for the gallery item at index; "" while loading
func (m *Model) posterFor(index int) string {
	src := m.session.Gallery().DisplayPoster(index)
	switch src {
	case "", domain.PosterNotAvailable, domain.PlaceholderPoster:
		return poster.Placeholder(views.CardWidth, views.PosterHeight)
	}
	return m.posterArt[src]
}

func (m *Model) showPager(content string) tea.Cmd {
	if m.program == nil {
		return nil
	}
	program := m.program
	return func() tea.Msg {
		program.Send(pauseRenderingMsg{})
		err := NewPagerOps(program).Show(content)
		program.Send(resumeRenderingMsg{})
		return pagerMsg{err: err}
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	return m.renderer.Render(m.viewState())
}

func (m *Model) viewState() views.ViewState {
	g := m.session.Gallery()
	s := m.session.Suggest()
	p := m.session.Pane()
	mode := m.inputHandler.CurrentMode()

	state := views.ViewState{
		Layout:             m.layout(),
		Term:               m.term,
		Kind:               m.kind,
		Prompt:             "Search: ",
		Searching:          mode == inputtypes.ModeSearch,
		SearchInput:        m.inputHandler.TextInput().View(),
		FieldError:         s.FieldError(),
		Suggestions:        s.Candidates(),
		SuggestionsOpen:    s.IsOpen(),
		SuggestionsLoading: s.IsLoading(),
		Highlighted:        s.Highlighted(),
		Items:              g.Items(),
		Cursor:             m.cursor,
		ScrollOffset:       m.scrollOffset,
		Poster:             m.posterFor,
		Loading:            g.IsLoading(),
		Exhausted:          g.Exhausted(),
		Total:              g.Total(),
		Page:               g.Page(),
		GalleryErr:         g.Err(),
		PaneOpen:           p.IsOpen(),
		PaneErr:            p.Err(),
		CanGoBack:          m.session.Nav().CanGoBack(),
		CanGoForward:       m.session.Nav().CanGoForward(),
		StatusMessage:      m.statusMessage,
		StatusIsError:      m.statusIsError,
		Spinner:            m.spinner.View(),
		ConfirmSave:        mode == inputtypes.ModeSaveConfirm,
		ShowFullHelp:       m.showHelp,
		HelpModel:          m.help,
		Keys:               m.keys,
	}
	if rec, ok := p.Detail(); ok {
		state.Detail = &rec
		state.DetailPoster = m.detailArt[rec.PosterURL]
	}
	return state
}

// modelContext implements the input Context over the model
type modelContext struct {
	m *Model
}

func (c modelContext) CurrentIndex() int { return c.m.cursor }

func (c modelContext) TotalItems() int { return len(c.m.session.Gallery().Items()) }

func (c modelContext) CurrentResultID() string {
	items := c.m.session.Gallery().Items()
	if c.m.cursor < 0 || c.m.cursor >= len(items) {
		return ""
	}
	return items[c.m.cursor].ID
}

func (c modelContext) SuggestionsOpen() bool { return c.m.session.Suggest().IsOpen() }

func (c modelContext) HighlightedSuggestion() int { return c.m.session.Suggest().Highlighted() }

func (c modelContext) SettingsDirty() bool { return c.m.settingsDirty() }
