//go:build e2e && unix

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

const fixtureAPIKey = "e2e-key"

type fixtureItem struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// omdbFixture serves a small catalogue in the OMDb wire format
type omdbFixture struct {
	*httptest.Server

	mu       sync.Mutex
	titles   map[string][]fixtureItem
	details  map[string]map[string]string
	requests []string
	failing  bool
}

func newOMDBFixture(t *testing.T) *omdbFixture {
	t.Helper()
	f := &omdbFixture{
		titles:  map[string][]fixtureItem{},
		details: map[string]map[string]string{},
	}

	alien := make([]fixtureItem, 0, 15)
	for i := 0; i < 15; i++ {
		alien = append(alien, fixtureItem{
			Title:  fmt.Sprintf("Alien %02d", i+1),
			Year:   strconv.Itoa(1979 + i),
			ImdbID: fmt.Sprintf("tt00787%02d", i),
			Type:   "movie",
			Poster: "N/A",
		})
	}
	f.titles["alien"] = alien
	f.titles["heat"] = []fixtureItem{{Title: "Heat", Year: "1995", ImdbID: "tt0113277", Type: "movie", Poster: "N/A"}}
	f.details["tt0078700"] = map[string]string{
		"Title":    "Alien 01",
		"Year":     "1979",
		"Rated":    "R",
		"Runtime":  "117 min",
		"Genre":    "Horror, Sci-Fi",
		"Director": "Ridley Scott",
		"Plot":     "The crew of a commercial spacecraft encounters a deadly lifeform.",
		"imdbID":   "tt0078700",
		"Type":     "movie",
		"Poster":   "N/A",
		"Response": "True",
	}

	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func (f *omdbFixture) serve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.RawQuery)
	failing := f.failing
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if q.Get("apikey") != fixtureAPIKey {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"Response": "False", "Error": "Invalid API key!"})
		return
	}
	if failing {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"Response": "False", "Error": "upstream down"})
		return
	}

	if id := q.Get("i"); id != "" {
		detail, ok := f.details[id]
		if !ok {
			_ = json.NewEncoder(w).Encode(map[string]string{"Response": "False", "Error": "Incorrect IMDb ID."})
			return
		}
		_ = json.NewEncoder(w).Encode(detail)
		return
	}

	items := f.titles[strings.ToLower(strings.TrimSpace(q.Get("s")))]
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	start := (page - 1) * 10
	if len(items) == 0 || start >= len(items) {
		_ = json.NewEncoder(w).Encode(map[string]string{"Response": "False", "Error": "Movie not found!"})
		return
	}
	end := min(start+10, len(items))
	_ = json.NewEncoder(w).Encode(map[string]any{
		"Search":       items[start:end],
		"totalResults": strconv.Itoa(len(items)),
		"Response":     "True",
	})
}

// SetFailing makes every request fail with a server error
func (f *omdbFixture) SetFailing(failing bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing = failing
}

// Requests returns the raw query strings received so far
func (f *omdbFixture) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// Args are the flags pointing the app at the fixture
func (f *omdbFixture) Args() []string {
	return []string{"--api-url", f.URL, "--api-key", fixtureAPIKey}
}
