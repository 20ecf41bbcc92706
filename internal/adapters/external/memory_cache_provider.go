package external

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"weatherbot.app/internal/ports"
	"weatherbot.app/pkg/errors"
)

// MemoryCacheProvider is an in-process TTL cache. Expired entries are evicted on access.
type MemoryCacheProvider struct {
	mu     sync.RWMutex
	items  map[string]memoryCacheItem
	now    func() time.Time
	hits   atomic.Int64
	misses atomic.Int64
}

type memoryCacheItem struct {
	value     []byte
	expiresAt time.Time
}

func NewMemoryCacheProvider() *MemoryCacheProvider {
	return newMemoryCacheProviderWithClock(time.Now)
}

func newMemoryCacheProviderWithClock(clock func() time.Time) *MemoryCacheProvider {
	return &MemoryCacheProvider{
		items: make(map[string]memoryCacheItem),
		now:   clock,
	}
}

func (c *MemoryCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.NewValidationError("cache key cannot be empty")
	}

	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	if ok && c.expired(item) {
		c.evict(key, item.expiresAt)
		ok = false
	}
	if !ok {
		c.RecordMiss()
		return nil, errors.NewNotFoundError("cache miss")
	}

	c.RecordHit()
	return item.value, nil
}

func (c *MemoryCacheProvider) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return errors.NewValidationError("cache key cannot be empty")
	}
	if value == nil {
		return errors.NewValidationError("cache value cannot be nil")
	}
	if ttl <= 0 {
		return errors.NewValidationError("cache TTL must be positive")
	}

	c.mu.Lock()
	c.items[key] = memoryCacheItem{value: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

func (c *MemoryCacheProvider) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.NewValidationError("cache key cannot be empty")
	}

	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCacheProvider) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.NewValidationError("cache key cannot be empty")
	}

	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	return ok && !c.expired(item), nil
}

func (c *MemoryCacheProvider) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.items = make(map[string]memoryCacheItem)
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included
func (c *MemoryCacheProvider) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *MemoryCacheProvider) GetStats() ports.CacheStats {
	return cacheStats(c.hits.Load(), c.misses.Load())
}

func (c *MemoryCacheProvider) RecordHit() {
	c.hits.Add(1)
}

func (c *MemoryCacheProvider) RecordMiss() {
	c.misses.Add(1)
}

func (c *MemoryCacheProvider) expired(item memoryCacheItem) bool {
	return !c.now().Before(item.expiresAt)
}

// evict removes key unless it was refreshed after the expired read
func (c *MemoryCacheProvider) evict(key string, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if current, ok := c.items[key]; ok && current.expiresAt.Equal(expiresAt) {
		delete(c.items, key)
	}
}

func cacheStats(hits, misses int64) ports.CacheStats {
	total := hits + misses
	hitRatio := float64(0)
	if total > 0 {
		hitRatio = float64(hits) / float64(total)
	}

	return ports.CacheStats{
		Hits:        hits,
		Misses:      misses,
		TotalOps:    total,
		HitRatio:    hitRatio,
		LastUpdated: time.Now(),
	}
}
