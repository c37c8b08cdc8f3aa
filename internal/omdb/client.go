// Package omdb is the HTTP transport for the OMDb catalogue: search,
// suggestion and detail lookups.
package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"movieseeker/internal/domain"
)

const (
	DefaultBaseURL = "https://www.omdbapi.com"
	DefaultTimeout = 10 * time.Second

	maxBodySize = 512 * 1024
)

// Config configures a Client. Zero values take the defaults.
type Config struct {
	APIKey      string
	BaseURL     string
	SearchPath  string
	SuggestPath string
	DetailPath  string
	Timeout     time.Duration
	Client      *http.Client

	// RequestsPerSecond limits outgoing requests; zero disables limiting
	RequestsPerSecond float64
	Burst             int
}

// Client talks to the catalogue over HTTP
type Client struct {
	apiKey      string
	baseURL     string
	searchPath  string
	suggestPath string
	detailPath  string
	http        *http.Client
	limiter     *rate.Limiter
}

// NewClient creates a catalogue client
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	c := &Client{
		apiKey:      strings.TrimSpace(cfg.APIKey),
		baseURL:     strings.TrimRight(baseURL, "/"),
		searchPath:  normalizePath(cfg.SearchPath),
		suggestPath: normalizePath(cfg.SuggestPath),
		detailPath:  normalizePath(cfg.DetailPath),
		http:        httpClient,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c
}

func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// Enabled reports whether an API key is configured
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type searchEntity struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

type searchResponse struct {
	Search       json.RawMessage `json:"Search"`
	TotalResults string          `json:"totalResults"`
	Response     string          `json:"Response"`
	Error        string          `json:"Error"`
}

type detailResponse struct {
	Title    string `json:"Title"`
	Year     string `json:"Year"`
	Rated    string `json:"Rated"`
	Released string `json:"Released"`
	Runtime  string `json:"Runtime"`
	Genre    string `json:"Genre"`
	Director string `json:"Director"`
	Writer   string `json:"Writer"`
	Actors   string `json:"Actors"`
	Plot     string `json:"Plot"`
	Language string `json:"Language"`
	Country  string `json:"Country"`
	Awards   string `json:"Awards"`
	Poster   string `json:"Poster"`
	Ratings  []struct {
		Source string `json:"Source"`
		Value  string `json:"Value"`
	} `json:"Ratings"`
	Metascore  string `json:"Metascore"`
	ImdbRating string `json:"imdbRating"`
	ImdbVotes  string `json:"imdbVotes"`
	ImdbID     string `json:"imdbID"`
	Type       string `json:"Type"`
	DVD        string `json:"DVD"`
	BoxOffice  string `json:"BoxOffice"`
	Production string `json:"Production"`
	Website    string `json:"Website"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

// Search fetches one page of results for q
func (c *Client) Search(ctx context.Context, q domain.SearchQuery) (domain.ResultPage, error) {
	return c.searchAt(ctx, c.searchPath, q)
}

// Suggest fetches the first page of results for a partially typed title
func (c *Client) Suggest(ctx context.Context, q domain.SearchQuery) (domain.ResultPage, error) {
	q.Page = 1
	return c.searchAt(ctx, c.suggestPath, q)
}

func (c *Client) searchAt(ctx context.Context, path string, q domain.SearchQuery) (domain.ResultPage, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	params := url.Values{
		"s":    {strings.TrimSpace(q.Term)},
		"page": {strconv.Itoa(page)},
	}
	if q.Kind != "" {
		params.Set("type", string(q.Kind))
	}

	var resp searchResponse
	if err := c.get(ctx, path, params, &resp); err != nil {
		return domain.ResultPage{}, err
	}

	result := domain.ResultPage{Page: page, Items: []domain.ResultItem{}}
	if strings.EqualFold(resp.Response, "False") {
		if isEmptyResult(resp.Error) {
			return result, nil
		}
		return domain.ResultPage{}, &APIError{Status: http.StatusOK, Message: resp.Error, Code: "RESPONSE_FALSE"}
	}

	result.Items = decodeItems(resp.Search)
	if total, err := strconv.Atoi(strings.TrimSpace(resp.TotalResults)); err == nil {
		result.TotalAvailable = total
	}
	return result, nil
}

// isEmptyResult reports whether a negative response only means "no hits"
func isEmptyResult(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "not found") || strings.Contains(lower, "too many results")
}

// decodeItems treats an absent, null or malformed list as empty
func decodeItems(raw json.RawMessage) []domain.ResultItem {
	items := []domain.ResultItem{}
	if len(raw) == 0 {
		return items
	}
	var entities []searchEntity
	if err := json.Unmarshal(raw, &entities); err != nil {
		slog.Debug("omdb: ignoring malformed Search field", "error", err)
		return items
	}
	for _, e := range entities {
		items = append(items, domain.ResultItem{
			ID:        e.ImdbID,
			Title:     e.Title,
			Year:      e.Year,
			Kind:      domain.Kind(e.Type),
			PosterURL: e.Poster,
		})
	}
	return items
}

// Detail fetches the full record for id
func (c *Client) Detail(ctx context.Context, id string) (domain.DetailRecord, error) {
	params := url.Values{
		"i":    {strings.TrimSpace(id)},
		"plot": {"full"},
	}

	var resp detailResponse
	if err := c.get(ctx, c.detailPath, params, &resp); err != nil {
		return domain.DetailRecord{}, err
	}
	if strings.EqualFold(resp.Response, "False") {
		return domain.DetailRecord{}, &APIError{Status: http.StatusOK, Message: resp.Error, Code: "RESPONSE_FALSE"}
	}

	rec := domain.DetailRecord{
		ID:         resp.ImdbID,
		Title:      resp.Title,
		Year:       resp.Year,
		Rated:      resp.Rated,
		Released:   resp.Released,
		Runtime:    resp.Runtime,
		Genre:      resp.Genre,
		Director:   resp.Director,
		Writer:     resp.Writer,
		Actors:     resp.Actors,
		Plot:       resp.Plot,
		Language:   resp.Language,
		Country:    resp.Country,
		Awards:     resp.Awards,
		PosterURL:  resp.Poster,
		Metascore:  resp.Metascore,
		IMDBRating: resp.ImdbRating,
		IMDBVotes:  resp.ImdbVotes,
		Kind:       domain.Kind(resp.Type),
		DVD:        resp.DVD,
		BoxOffice:  resp.BoxOffice,
		Production: resp.Production,
		Website:    resp.Website,
	}
	if rec.ID == "" {
		rec.ID = id
	}
	for _, r := range resp.Ratings {
		rec.Ratings = append(rec.Ratings, domain.Rating{Source: r.Source, Value: r.Value})
	}
	return rec, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("omdb rate limit: %w", err)
		}
	}

	params.Set("apikey", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("omdb request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("omdb %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("omdb read body: %w", err)
	}
	slog.Debug("omdb: response", "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("omdb decode: %w", err)
	}
	return nil
}
