// Package catalog provides the keyed fetch functions the controllers use:
// suggestions, search pages and detail records, each memoised by a
// query cache.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"movieseeker/internal/domain"
	"movieseeker/internal/eventbus"
	"movieseeker/internal/querycache"
)

// Resource names carried on FetchFailedEvent
const (
	ResourceSuggestions = "suggestions"
	ResourceSearch      = "search"
	ResourceDetail      = "detail"
)

// API is the remote catalogue
type API interface {
	Search(ctx context.Context, q domain.SearchQuery) (domain.ResultPage, error)
	Suggest(ctx context.Context, q domain.SearchQuery) (domain.ResultPage, error)
	Detail(ctx context.Context, id string) (domain.DetailRecord, error)
}

// Service is the cached view of an API
type Service struct {
	api         API
	bus         eventbus.EventBus
	suggestions *querycache.Cache[domain.ResultPage]
	pages       *querycache.Cache[domain.ResultPage]
	details     *querycache.Cache[domain.DetailRecord]
}

// NewService creates a catalogue service. bus may be nil.
func NewService(api API, bus eventbus.EventBus, opts querycache.Options) *Service {
	return &Service{
		api:         api,
		bus:         bus,
		suggestions: querycache.New[domain.ResultPage](ResourceSuggestions, opts),
		pages:       querycache.New[domain.ResultPage](ResourceSearch, opts),
		details:     querycache.New[domain.DetailRecord](ResourceDetail, opts),
	}
}

type queryPayload struct {
	S    string      `json:"s"`
	Page int         `json:"page"`
	Type domain.Kind `json:"type"`
}

func payloadKey(prefix string, q domain.SearchQuery) string {
	b, _ := json.Marshal(queryPayload{S: q.Term, Page: q.Page, Type: q.Kind})
	return prefix + "/" + string(b)
}

// SuggestionKey is the cache key for a suggestion lookup
func SuggestionKey(q domain.SearchQuery) string {
	q.Page = 1
	return payloadKey("search/suggestions", q)
}

// SearchKey is the cache key for one search page
func SearchKey(q domain.SearchQuery) string {
	return payloadKey("search/movies", q)
}

// DetailKey is the cache key for one detail record
func DetailKey(id string) string {
	return "detail/" + id + "/full"
}

// Suggestions returns the first page of matches for a partially typed title.
// An empty term yields an empty page without a request.
func (s *Service) Suggestions(ctx context.Context, q domain.SearchQuery) (domain.ResultPage, error) {
	q.Term = strings.TrimSpace(q.Term)
	if q.Term == "" {
		return domain.ResultPage{Page: 1, Items: []domain.ResultItem{}}, nil
	}
	key := SuggestionKey(q)
	page, err := s.suggestions.Fetch(ctx, key, func(ctx context.Context) (domain.ResultPage, error) {
		return s.api.Suggest(ctx, q)
	})
	if err != nil {
		s.failed(ResourceSuggestions, key, err)
		return domain.ResultPage{}, err
	}
	return page, nil
}

// SearchPage returns page q.Page of the results for q.Term
func (s *Service) SearchPage(ctx context.Context, q domain.SearchQuery) (domain.ResultPage, error) {
	q.Term = strings.TrimSpace(q.Term)
	if q.Term == "" {
		return domain.ResultPage{}, fmt.Errorf("search: empty term")
	}
	if q.Page < 1 {
		q.Page = 1
	}
	key := SearchKey(q)
	page, err := s.pages.Fetch(ctx, key, func(ctx context.Context) (domain.ResultPage, error) {
		return s.api.Search(ctx, q)
	})
	if err != nil {
		s.failed(ResourceSearch, key, err)
		return domain.ResultPage{}, err
	}
	return page, nil
}

// Detail returns the full record for id
func (s *Service) Detail(ctx context.Context, id string) (domain.DetailRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.DetailRecord{}, fmt.Errorf("detail: empty id")
	}
	key := DetailKey(id)
	rec, err := s.details.Fetch(ctx, key, func(ctx context.Context) (domain.DetailRecord, error) {
		return s.api.Detail(ctx, id)
	})
	if err != nil {
		s.failed(ResourceDetail, key, err)
		return domain.DetailRecord{}, err
	}
	return rec, nil
}

// Invalidate drops every cached result
func (s *Service) Invalidate() {
	s.suggestions.Purge()
	s.pages.Purge()
	s.details.Purge()
}

func (s *Service) failed(resource, key string, err error) {
	if s.bus == nil || err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	s.bus.Publish(eventbus.FetchFailedEvent{Resource: resource, Key: key, Err: err})
}
