// Package memory provides in-process implementations of woocrawl services.
package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/woocrawl"
)

var _ woocrawl.Cache = (*Cache)(nil)

// Cache is a TTL'd map. Entries expire ttl after they were set; a zero
// ttl keeps entries until they are invalidated. It is safe for concurrent
// use.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

type entry struct {
	value   any
	expires time.Time
}

// NewCache creates a new Cache with the given entry lifetime.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		Now:     time.Now,
	}
}

// Get returns the value stored under key if it has not expired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expires.IsZero() && !c.Now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{value: value}
	if c.ttl > 0 {
		e.expires = c.Now().Add(c.ttl)
	}
	c.entries[key] = e
}

// Invalidate removes every entry whose key starts with prefix. An empty
// prefix clears the cache.
func (c *Cache) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

// Len returns the number of entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
