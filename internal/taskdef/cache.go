package taskdef

import (
	"context"
	"sync"
)

// Cache memoizes task definitions for the process lifetime. Definitions are
// immutable, so a cached value never goes stale; the cache is unbounded and
// guarantees at most one upstream fetch per task id. Failed fetches are not
// cached, so the next caller retries.
type Cache struct {
	fetcher Fetcher

	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	ready chan struct{}
	def   *Definition
	err   error
}

// NewCache wraps fetcher with read-through memoization.
func NewCache(fetcher Fetcher) *Cache {
	return &Cache{
		fetcher: fetcher,
		entries: make(map[string]*cacheEntry),
	}
}

// FetchTask returns the definition for taskID, fetching it at most once.
// Concurrent callers for the same id share one in-flight fetch.
func (c *Cache) FetchTask(ctx context.Context, taskID string) (*Definition, error) {
	c.mu.Lock()
	if e, ok := c.entries[taskID]; ok {
		c.mu.Unlock()
		select {
		case <-e.ready:
			return e.def, e.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	e := &cacheEntry{ready: make(chan struct{})}
	c.entries[taskID] = e
	c.mu.Unlock()

	e.def, e.err = c.fetcher.FetchTask(ctx, taskID)
	if e.err != nil {
		// No negative caching: drop the entry before waiters wake.
		c.mu.Lock()
		delete(c.entries, taskID)
		c.mu.Unlock()
	}
	close(e.ready)
	return e.def, e.err
}

// Len reports how many definitions are cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
