package domain

import (
	"fmt"
	"strings"
)

// Kind is the result type the catalogue distinguishes
type Kind string

const (
	KindMovie   Kind = "movie"
	KindSeries  Kind = "series"
	KindEpisode Kind = "episode"
)

// PosterNotAvailable is the catalogue's sentinel for a missing poster.
// It is a valid value, not an error.
const PosterNotAvailable = "N/A"

// PlaceholderPoster is the display source substituted when a poster fails to load
const PlaceholderPoster = "placeholder"

// ParseKind converts a user supplied kind name
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindMovie, KindSeries, KindEpisode:
		return k, nil
	case "":
		return KindMovie, nil
	default:
		return "", fmt.Errorf("unknown result kind %q (want movie, series or episode)", s)
	}
}

// ResultItem is one search hit. Immutable once fetched.
type ResultItem struct {
	ID        string
	Title     string
	Year      string
	Kind      Kind
	PosterURL string
}

// HasPoster reports whether the item carries a fetchable poster URL
func (r ResultItem) HasPoster() bool {
	return r.PosterURL != "" && r.PosterURL != PosterNotAvailable
}

// ResultPage is a single fetched page of search results
type ResultPage struct {
	Items          []ResultItem
	TotalAvailable int
	Page           int
}

// SearchQuery identifies one page of search or suggestion results
type SearchQuery struct {
	Term string
	Page int
	Kind Kind
}

// Rating is a third-party score attached to a detail record
type Rating struct {
	Source string
	Value  string
}

// DetailRecord is the full metadata for one ResultItem.ID
type DetailRecord struct {
	ID         string
	Title      string
	Year       string
	Rated      string
	Released   string
	Runtime    string
	Genre      string
	Director   string
	Writer     string
	Actors     string
	Plot       string
	Language   string
	Country    string
	Awards     string
	PosterURL  string
	Ratings    []Rating
	Metascore  string
	IMDBRating string
	IMDBVotes  string
	Kind       Kind
	DVD        string
	BoxOffice  string
	Production string
	Website    string
}
