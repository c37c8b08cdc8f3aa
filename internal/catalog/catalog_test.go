package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movieseeker/internal/domain"
	"movieseeker/internal/eventbus"
	"movieseeker/internal/querycache"
)

type fakeAPI struct {
	mu        sync.Mutex
	searches  []domain.SearchQuery
	suggests  []domain.SearchQuery
	details   []string
	detailErr error
}

func (f *fakeAPI) Search(_ context.Context, q domain.SearchQuery) (domain.ResultPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, q)
	return domain.ResultPage{Page: q.Page, TotalAvailable: 3, Items: []domain.ResultItem{{ID: "tt1", Title: q.Term}}}, nil
}

func (f *fakeAPI) Suggest(_ context.Context, q domain.SearchQuery) (domain.ResultPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suggests = append(f.suggests, q)
	return domain.ResultPage{Page: 1, Items: []domain.ResultItem{{ID: "tt2", Title: q.Term}}}, nil
}

func (f *fakeAPI) Detail(_ context.Context, id string) (domain.DetailRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.details = append(f.details, id)
	if f.detailErr != nil {
		return domain.DetailRecord{}, f.detailErr
	}
	return domain.DetailRecord{ID: id, Title: "Title " + id}, nil
}

func testOptions() querycache.Options {
	return querycache.Options{Retry: querycache.RetryConfig{MaxAttempts: 1}}
}

func TestKeysDistinguishPayloads(t *testing.T) {
	a := SearchKey(domain.SearchQuery{Term: "dragon", Page: 1, Kind: domain.KindMovie})
	b := SearchKey(domain.SearchQuery{Term: "dragon", Page: 2, Kind: domain.KindMovie})
	c := SuggestionKey(domain.SearchQuery{Term: "dragon", Page: 9, Kind: domain.KindMovie})

	assert.NotEqual(t, a, b)
	assert.Equal(t, `search/suggestions/{"s":"dragon","page":1,"type":"movie"}`, c)
	assert.Equal(t, "detail/tt1/full", DetailKey("tt1"))
}

func TestSearchPageIsMemoised(t *testing.T) {
	api := &fakeAPI{}
	svc := NewService(api, nil, testOptions())

	q := domain.SearchQuery{Term: "dragon", Page: 1, Kind: domain.KindMovie}
	_, err := svc.SearchPage(context.Background(), q)
	require.NoError(t, err)
	page, err := svc.SearchPage(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, "dragon", page.Items[0].Title)
	assert.Len(t, api.searches, 1)

	svc.Invalidate()
	_, _ = svc.SearchPage(context.Background(), q)
	assert.Len(t, api.searches, 2)
}

func TestEmptySuggestionTermSkipsRequest(t *testing.T) {
	api := &fakeAPI{}
	svc := NewService(api, nil, testOptions())

	page, err := svc.Suggestions(context.Background(), domain.SearchQuery{Term: "   "})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Empty(t, api.suggests)
}

func TestSearchRejectsEmptyTerm(t *testing.T) {
	svc := NewService(&fakeAPI{}, nil, testOptions())
	_, err := svc.SearchPage(context.Background(), domain.SearchQuery{Term: ""})
	assert.Error(t, err)
}

func TestDetailFailurePublishesEvent(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	got := make(chan eventbus.FetchFailedEvent, 1)
	bus.Subscribe(eventbus.EventFetchFailed, func(e eventbus.DomainEvent) {
		got <- e.(eventbus.FetchFailedEvent)
	})

	api := &fakeAPI{detailErr: errors.New("Incorrect IMDb ID.")}
	svc := NewService(api, bus, testOptions())

	_, err := svc.Detail(context.Background(), "tt404")
	require.Error(t, err)

	select {
	case ev := <-got:
		assert.Equal(t, ResourceDetail, ev.Resource)
		assert.Equal(t, "detail/tt404/full", ev.Key)
	case <-time.After(time.Second):
		t.Fatal("no FetchFailedEvent published")
	}
}
