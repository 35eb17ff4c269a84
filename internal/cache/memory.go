package cache

import (
	"context"
	"sync"

	"bikeflow.bluebikes.org/internal/models"
)

// DefaultMemoryEntries bounds the in-process cache. One day of slider
// positions plus the unfiltered view fits.
const DefaultMemoryEntries = models.MinutesPerDay + 2

// MemoryCache is an in-process TrafficCache. When full it drops everything,
// which in practice happens once per dataset refresh.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]models.StationTrafficList
	maxEntries int
}

var _ TrafficCache = (*MemoryCache)(nil)

func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryEntries
	}
	return &MemoryCache{
		entries:    make(map[string]models.StationTrafficList),
		maxEntries: maxEntries,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (models.StationTrafficList, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	traffic, ok := c.entries[key]
	return traffic, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, traffic models.StationTrafficList) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.entries = make(map[string]models.StationTrafficList)
	}
	c.entries[key] = traffic
	return nil
}

// Len returns the number of cached aggregations.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *MemoryCache) Close() error {
	return nil
}
