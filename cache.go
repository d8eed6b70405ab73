package inkwell

import (
	"sync"
	"time"
)

// ViewCache caches rendered public responses by view path with a TTL. It is
// the thing the content service's invalidation calls point at: a write names
// the stale paths, the cache drops them, and the next request re-renders.
// Storage itself is never cached; only finished response bodies are.
type ViewCache struct {
	mu      sync.RWMutex
	entries map[string]viewEntry
	ttl     time.Duration
}

type viewEntry struct {
	body    []byte
	fetched time.Time
}

// NewViewCache creates a ViewCache whose entries expire after ttl.
func NewViewCache(ttl time.Duration) *ViewCache {
	return &ViewCache{
		entries: make(map[string]viewEntry),
		ttl:     ttl,
	}
}

// Get returns the cached body for a view path, if present and fresh.
func (c *ViewCache) Get(path string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[path]
	if !ok || time.Since(e.fetched) >= c.ttl {
		return nil, false
	}
	return e.body, true
}

// Put stores a rendered body for a view path.
func (c *ViewCache) Put(path string, body []byte) {
	c.mu.Lock()
	c.entries[path] = viewEntry{body: body, fetched: time.Now()}
	c.mu.Unlock()
}

// Invalidate drops the named view paths so their next read re-renders.
// It satisfies blog.Invalidator.
func (c *ViewCache) Invalidate(paths ...string) {
	c.mu.Lock()
	for _, p := range paths {
		delete(c.entries, p)
	}
	c.mu.Unlock()
}
