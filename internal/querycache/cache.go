// Package querycache memoises keyed asynchronous fetches. Concurrent
// requests for one key share a single call, failures are retried with
// backoff and successes are kept for a bounded time.
package querycache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL        = 5 * time.Minute
	DefaultMaxEntries = 256
)

// Options configures a Cache. Zero values take the defaults.
type Options struct {
	TTL        time.Duration
	MaxEntries int
	Retry      RetryConfig
}

// Cache holds the results of fetches of type T by key
type Cache[T any] struct {
	name  string
	group singleflight.Group
	lru   *expirable.LRU[string, T]
	retry RetryConfig
}

// New creates a cache; name labels its log lines
func New[T any](name string, opts Options) *Cache[T] {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry = DefaultRetryConfig()
	}
	return &Cache[T]{
		name:  name,
		lru:   expirable.NewLRU[string, T](opts.MaxEntries, nil, opts.TTL),
		retry: opts.Retry,
	}
}

// Fetch returns the cached value for key or runs fn to produce it.
// Callers asking for the same key while fn runs share its result.
func (c *Cache[T]) Fetch(ctx context.Context, key string, fn func(context.Context) (T, error)) (T, error) {
	if v, ok := c.lru.Get(key); ok {
		return v, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		if v, ok := c.lru.Get(key); ok {
			return v, nil
		}

		var result T
		attempts := 0
		err := RetryWithBackoff(ctx, c.retry, func() error {
			attempts++
			var err error
			result, err = fn(ctx)
			return err
		})
		if err != nil {
			slog.Warn("querycache: fetch failed", "cache", c.name, "key", key, "attempts", attempts, "error", err)
			return nil, fmt.Errorf("fetch %s: %w", key, err)
		}
		c.lru.Add(key, result)
		return result, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if shared {
		slog.Debug("querycache: shared in-flight fetch", "cache", c.name, "key", key)
	}
	return v.(T), nil
}

// Peek returns a cached value without fetching
func (c *Cache[T]) Peek(key string) (T, bool) {
	return c.lru.Peek(key)
}

// Invalidate drops key so the next Fetch goes to the source
func (c *Cache[T]) Invalidate(key string) {
	c.lru.Remove(key)
	c.group.Forget(key)
}

// Purge drops every cached value
func (c *Cache[T]) Purge() {
	c.lru.Purge()
}

// Len returns the number of cached values
func (c *Cache[T]) Len() int {
	return c.lru.Len()
}
