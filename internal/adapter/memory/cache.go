package memory

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("cache: not found")

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// Cache is a TTL byte cache. It backs idempotent request replay, so entries
// are small and short-lived; expired entries are dropped lazily on Get and
// swept on every Set.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if now := c.now(); !now.Before(entry.expiresAt) {
		c.mu.Lock()
		// A concurrent Set may have replaced the entry since RUnlock.
		if cur, ok := c.entries[key]; ok && !now.Before(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, ErrNotFound
	}
	return entry.value, nil
}

// Set stores value under key, replacing any previous entry.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	now := c.now()
	stored := make([]byte, len(value))
	copy(stored, value)

	c.mu.Lock()
	c.sweepLocked(now)
	c.entries[key] = cacheEntry{
		value:     stored,
		expiresAt: now.Add(ttl),
	}
	c.mu.Unlock()
	return nil
}

// Sweep drops every expired entry and reports how many were removed.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepLocked(c.now())
}

func (c *Cache) sweepLocked(now time.Time) int {
	removed := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len reports the number of entries, expired ones included until swept.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
