// Package poster fetches poster images and renders them as terminal art.
package poster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/semaphore"

	"movieseeker/internal/domain"
)

const (
	DefaultConcurrency = 4
	DefaultCacheSize   = 64

	maxImageSize = 4 << 20
)

// ErrUnavailable means the item has no poster that can be shown
var ErrUnavailable = errors.New("poster unavailable")

// Loader downloads and decodes posters with bounded concurrency
type Loader struct {
	http  *http.Client
	sem   *semaphore.Weighted
	cache *lru.Cache[string, image.Image]
}

// NewLoader creates a poster loader. Zero arguments take the defaults.
func NewLoader(client *http.Client, concurrency, cacheSize int) (*Loader, error) {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, image.Image](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create poster cache: %w", err)
	}
	return &Loader{
		http:  client,
		sem:   semaphore.NewWeighted(int64(concurrency)),
		cache: cache,
	}, nil
}

// Load returns the decoded poster at url
func (l *Loader) Load(ctx context.Context, url string) (image.Image, error) {
	url = strings.TrimSpace(url)
	if url == "" || url == domain.PosterNotAvailable || url == domain.PlaceholderPoster {
		return nil, ErrUnavailable
	}
	if img, ok := l.cache.Get(url); ok {
		return img, nil
	}

	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer l.sem.Release(1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image: %v", ErrUnavailable, err)
	}

	slog.Debug("poster: loaded", "url", url, "format", format, "bounds", img.Bounds().String())
	l.cache.Add(url, img)
	return img, nil
}
