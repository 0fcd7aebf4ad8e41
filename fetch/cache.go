package fetch

import (
	"sync"
	"time"
)

// Cache stores fetched response bodies under a normalized URL key for a
// bounded lifetime. Implementations must be safe for concurrent use and may
// drop writes (best-effort).
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, body []byte, ttl time.Duration)
}

type cacheEntry struct {
	body    []byte
	expires time.Time
}

// MemoryCache is an in-process Cache. Concurrent readers only take the read
// lock; a cache write race between invocations is last-write-wins.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: map[string]cacheEntry{},
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(e.expires) {
		return nil, false
	}
	return e.body, true
}

func (c *MemoryCache) Put(key string, body []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{body: body, expires: c.now().Add(ttl)}
	c.mu.Unlock()
}
