package cache

import (
	"context"
	"sync"

	"github.com/rpgo/investment-calculator/internal/domain"
)

// DefaultMemoryEntries bounds the in-memory cache when no size is given.
const DefaultMemoryEntries = 256

// MemoryCache implements Cache with an in-process map, evicting the oldest
// insertion once full. Stored results are shared, not copied: projection
// results are immutable once created.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*domain.ProjectionResult
	order   []string
	max     int
}

// NewMemoryCache creates an in-memory cache holding at most maxEntries results.
func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryEntries
	}
	return &MemoryCache{
		entries: make(map[string]*domain.ProjectionResult),
		max:     maxEntries,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*domain.ProjectionResult, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res, ok := c.entries[key]
	return res, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, result *domain.ProjectionResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = result
		return nil
	}
	for len(c.order) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = result
	c.order = append(c.order, key)
	return nil
}

// Len returns the number of cached results.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
