package cache

import (
	"context"
	"sync"
	"time"

	"github.com/amirasaad/fxconverter/pkg/cache"
	"github.com/amirasaad/fxconverter/pkg/domain"
)

// MemoryCache implements RateTableCache using in-memory storage
type MemoryCache struct {
	entries map[string]cacheEntry
	mu      sync.RWMutex
	now     func() time.Time
}

type cacheEntry struct {
	snap      *domain.RateSnapshot
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get retrieves a snapshot from cache; expired entries are removed.
func (c *MemoryCache) Get(_ context.Context, key string) (*domain.RateSnapshot, error) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()
	if !exists {
		return nil, nil
	}

	if !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && cur.expiresAt.Equal(entry.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, nil
	}

	return copySnapshot(entry.snap), nil
}

// Set stores a snapshot in cache with TTL. A non-positive TTL stores nothing.
func (c *MemoryCache) Set(_ context.Context, key string, snap *domain.RateSnapshot, ttl time.Duration) error {
	if ttl <= 0 || snap == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		snap:      copySnapshot(snap),
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Delete removes a snapshot from cache
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func copySnapshot(s *domain.RateSnapshot) *domain.RateSnapshot {
	out := *s
	out.Rates = s.Rates.Clone()
	return &out
}

var _ cache.RateTableCache = (*MemoryCache)(nil)
