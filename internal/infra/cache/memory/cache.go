package memory

import (
	"context"
	"sync"
	"time"
)

// Cache is an in-process TTL cache for serialized market data
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time

	hits   int64
	misses int64
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns a copy of the cached value. Expired entries count as misses.
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || (!e.expiresAt.IsZero() && !c.now().Before(e.expiresAt)) {
		c.mu.Lock()
		c.misses++
		if ok {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}

	c.mu.Lock()
	c.hits++
	c.mu.Unlock()

	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true, nil
}

// Set stores value under key. ttl <= 0 means no expiry.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	v := make([]byte, len(value))
	copy(v, value)

	e := entry{value: v}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

// Len returns the number of entries, expired ones included
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit and miss counters
func (c *Cache) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
