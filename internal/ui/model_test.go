package ui

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movieseeker/internal/config"
	"movieseeker/internal/domain"
	"movieseeker/internal/eventbus"
	"movieseeker/internal/nav"
	"movieseeker/internal/poster"
	"movieseeker/internal/session"
	inputtypes "movieseeker/internal/ui/input/types"
)

type fakeCatalog struct {
	mu        sync.Mutex
	searches  []domain.SearchQuery
	posterURL string // shared by every result when set
}

func (f *fakeCatalog) Suggestions(_ context.Context, q domain.SearchQuery) (domain.ResultPage, error) {
	return domain.ResultPage{Page: 1, TotalAvailable: 2, Items: []domain.ResultItem{
		{ID: "s1", Title: q.Term + " Returns", Year: "1999"},
		{ID: "s2", Title: q.Term + " Forever", Year: "2004"},
	}}, nil
}

func (f *fakeCatalog) SearchPage(_ context.Context, q domain.SearchQuery) (domain.ResultPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, q)
	posterURL := f.posterURL
	if posterURL == "" {
		posterURL = domain.PosterNotAvailable
	}
	items := make([]domain.ResultItem, 0, 10)
	for i := 0; i < 10; i++ {
		items = append(items, domain.ResultItem{
			ID:        fmt.Sprintf("%s-%d-%d", q.Term, q.Page, i),
			Title:     fmt.Sprintf("%s %d", q.Term, (q.Page-1)*10+i),
			Year:      "2001",
			Kind:      domain.KindMovie,
			PosterURL: posterURL,
		})
	}
	return domain.ResultPage{Page: q.Page, TotalAvailable: 40, Items: items}, nil
}

func (f *fakeCatalog) Detail(_ context.Context, id string) (domain.DetailRecord, error) {
	return domain.DetailRecord{ID: id, Title: "Detail " + id, Year: "2001", Director: "Someone", Plot: "A plot."}, nil
}

type testModel struct {
	*Model
	t    *testing.T
	cat  *fakeCatalog
	sent chan tea.Msg
}

func newTestModel(t *testing.T, location string, cfg *config.Config, store config.ConfigService) *testModel {
	t.Helper()
	return newTestModelWithCatalog(t, location, cfg, store, &fakeCatalog{})
}

func newTestModelWithCatalog(t *testing.T, location string, cfg *config.Config, store config.ConfigService, cat *fakeCatalog) *testModel {
	t.Helper()
	bus := eventbus.New()
	t.Cleanup(bus.Close)

	sess := session.New(nav.New(location, bus), cat, bus, session.Options{
		SuggestWait: 10 * time.Millisecond,
		ScrollWait:  10 * time.Millisecond,
	})
	t.Cleanup(sess.Close)

	sent := make(chan tea.Msg, 16)
	sess.SetSend(func(msg tea.Msg) { sent <- msg })

	m := NewModel(Deps{Bus: bus, Config: cfg, Store: store, Session: sess})
	tm := &testModel{Model: m, t: t, cat: cat, sent: sent}
	tm.update(tea.WindowSizeMsg{Width: 100, Height: 40})
	tm.drive(m.Init())
	return tm
}

func (tm *testModel) update(msg tea.Msg) {
	_, cmd := tm.Update(msg)
	tm.drive(cmd)
}

// drive runs cmd and feeds what it produces back into the model. Timers
// and spinner ticks are dropped.
func (tm *testModel) drive(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(50 * time.Millisecond):
		return
	}

	switch msg := msg.(type) {
	case nil, spinner.TickMsg, clearStatusMsg, tea.QuitMsg:
		return
	case tea.BatchMsg:
		for _, c := range msg {
			tm.drive(c)
		}
		return
	}
	tm.update(msg)
}

// await feeds the next message delivered through the session's send function
func (tm *testModel) await() {
	tm.t.Helper()
	select {
	case msg := <-tm.sent:
		tm.update(msg)
	case <-time.After(2 * time.Second):
		tm.t.Fatal("no message delivered")
	}
}

func (tm *testModel) keys(s string) {
	tm.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (tm *testModel) key(k tea.KeyType) {
	tm.update(tea.KeyMsg{Type: k})
}

func (tm *testModel) screen() string {
	return ansi.Strip(tm.View())
}

func TestStartsWithTermFromLocation(t *testing.T) {
	tm := newTestModel(t, "?q=alien", nil, nil)

	assert.Equal(t, inputtypes.ModeBrowse, tm.inputHandler.CurrentMode())
	assert.Len(t, tm.session.Gallery().Items(), 10)
	screen := tm.screen()
	assert.Contains(t, screen, "alien 0")
	assert.Contains(t, screen, "10 of 40 results")
}

func TestStartsInSearchModeWithoutTerm(t *testing.T) {
	tm := newTestModel(t, "", nil, nil)

	assert.Equal(t, inputtypes.ModeSearch, tm.inputHandler.CurrentMode())
	assert.Empty(t, tm.cat.searches)
	assert.Contains(t, tm.screen(), "Press / to search")
}

func TestTypingShowsSuggestionsAndChoosingCommits(t *testing.T) {
	tm := newTestModel(t, "", nil, nil)

	tm.keys("alien")
	tm.await()
	require.True(t, tm.session.Suggest().IsOpen())
	assert.Contains(t, tm.screen(), "alien Returns (1999)")

	tm.key(tea.KeyDown)
	tm.key(tea.KeyDown)
	tm.key(tea.KeyEnter)

	assert.Equal(t, inputtypes.ModeBrowse, tm.inputHandler.CurrentMode())
	assert.Equal(t, "alien Forever", tm.session.Nav().Term())
	assert.Len(t, tm.session.Gallery().Items(), 10)
	assert.False(t, tm.session.Suggest().IsOpen())
}

func TestInvalidSubmitShowsFieldError(t *testing.T) {
	tm := newTestModel(t, "", nil, nil)

	tm.keys("Movie@Title!")
	tm.key(tea.KeyEnter)

	assert.Equal(t, inputtypes.ModeSearch, tm.inputHandler.CurrentMode())
	assert.NotEmpty(t, tm.session.Suggest().FieldError())
	assert.Contains(t, tm.screen(), tm.session.Suggest().FieldError())
	assert.Empty(t, tm.cat.searches)
}

func TestSubmitCommitsTerm(t *testing.T) {
	tm := newTestModel(t, "", nil, nil)

	tm.keys("heat")
	tm.key(tea.KeyEnter)

	assert.Equal(t, inputtypes.ModeBrowse, tm.inputHandler.CurrentMode())
	assert.Equal(t, "heat", tm.session.Nav().Term())
	assert.Len(t, tm.session.Gallery().Items(), 10)
}

func TestOpenAndCloseDetailPane(t *testing.T) {
	tm := newTestModel(t, "?q=alien", nil, nil)

	tm.keys("l")
	tm.key(tea.KeyEnter)

	assert.Equal(t, inputtypes.ModePane, tm.inputHandler.CurrentMode())
	rec, ok := tm.session.Pane().Detail()
	require.True(t, ok)
	assert.Equal(t, "alien-1-1", rec.ID)
	screen := tm.screen()
	assert.Contains(t, screen, "Detail alien-1-1 (2001)")
	assert.Contains(t, screen, "Someone")

	tm.key(tea.KeyEsc)
	assert.Equal(t, inputtypes.ModeBrowse, tm.inputHandler.CurrentMode())
	assert.False(t, tm.session.Pane().IsOpen())
}

func TestScrollingLoadsNextPage(t *testing.T) {
	tm := newTestModel(t, "?q=alien", nil, nil)

	tm.keys("j")
	tm.await()

	assert.Len(t, tm.session.Gallery().Items(), 20)
	assert.Equal(t, 2, tm.session.Gallery().Page())
	assert.Contains(t, tm.screen(), "20 of 40 results")
}

func TestHistoryBackRestoresPreviousTerm(t *testing.T) {
	tm := newTestModel(t, "?q=alien", nil, nil)

	tm.keys("/")
	tm.update(tea.KeyMsg{Type: tea.KeyCtrlU})
	tm.keys("heat")
	tm.key(tea.KeyEnter)
	require.Equal(t, "heat", tm.session.Nav().Term())

	tm.keys("b")
	assert.Equal(t, "alien", tm.session.Nav().Term())
	assert.Equal(t, "alien", tm.session.Gallery().Term())
	assert.Equal(t, 0, tm.cursor)
	assert.Contains(t, tm.screen(), "→ forward")
}

func TestFailedPosterFallsBackToPlaceholder(t *testing.T) {
	tm := newTestModel(t, "?q=alien", nil, nil)
	item := tm.session.Gallery().Items()[3]

	tm.update(posterMsg{url: "http://example.test/p.jpg", index: 3, id: item.ID, err: poster.ErrUnavailable})
	assert.Equal(t, domain.PlaceholderPoster, tm.session.Gallery().DisplayPoster(3))

	tm.update(posterMsg{url: "http://example.test/p.jpg", index: 4, id: "other", err: poster.ErrUnavailable})
	assert.NotEqual(t, domain.PlaceholderPoster, tm.session.Gallery().DisplayPoster(4))
}

func TestFailedSharedPosterFallsBackForEveryCard(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	url := srv.URL + "/p.jpg"

	tm := newTestModelWithCatalog(t, "?q=alien", nil, nil, &fakeCatalog{posterURL: url})
	loader, err := poster.NewLoader(srv.Client(), 2, 0)
	require.NoError(t, err)
	tm.posters = loader
	tm.showPosters = true

	cmd := tm.loadPosters(0)
	require.NotNil(t, cmd)
	require.Len(t, tm.posterPending[url], 10, "every card should wait on the one download")

	msg, ok := cmd().(posterMsg)
	require.True(t, ok, "a shared URL should be downloaded once")
	require.Error(t, msg.err)
	tm.update(msg)

	assert.Empty(t, tm.posterPending)
	for i := range tm.session.Gallery().Items() {
		assert.Equal(t, domain.PlaceholderPoster, tm.session.Gallery().DisplayPoster(i), "card %d", i)
		assert.NotEmpty(t, tm.posterFor(i), "card %d", i)
	}
}

func TestSuggestionFailureShowsStatus(t *testing.T) {
	tm := newTestModel(t, "?q=alien", nil, nil)

	tm.update(EventMsg{Event: eventbus.FetchFailedEvent{Resource: "suggestions", Err: fmt.Errorf("boom")}})
	assert.Contains(t, tm.screen(), "Suggestions unavailable: boom")
}

func TestQuitSavesChangedKind(t *testing.T) {
	t.Setenv("OMDB_API_KEY", "")
	t.Chdir(t.TempDir())
	store := config.NewConfigService(filepath.Join(t.TempDir(), "config.toml"))
	cfg := config.DefaultConfig()
	tm := newTestModel(t, "?q=alien", cfg, store)

	tm.keys("t")
	assert.Equal(t, domain.KindSeries, tm.session.Suggest().Kind())

	tm.keys("q")
	assert.Equal(t, inputtypes.ModeSaveConfirm, tm.inputHandler.CurrentMode())
	assert.Contains(t, tm.screen(), "Save changed settings")

	_, cmd := tm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "series", saved.Search.Kind)
}
