package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/stockpulse/backend/pkg/logger"
)

// Cache is the TTL store in front of the provider.
// pkg/redis.Cache satisfies it; MemoryCache is the in-process fallback.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache is an in-memory TTL cache.
// Values are stored JSON-encoded so readers never share memory with writers.
// ⭐ SSOT: Redis 미사용 시 upstream 캐싱은 이 구조체에서만
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	logger  *logger.Logger
	now     func() time.Time
}

// NewMemoryCache creates an empty cache
func NewMemoryCache(log *logger.Logger) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		logger:  log,
		now:     time.Now,
	}
}

// Get decodes a live entry into dest
func (c *MemoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists || !c.now().Before(entry.expiresAt) {
		return false, nil
	}

	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached value: %w", err)
	}
	return true, nil
}

// Set stores value until ttl elapses
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	c.mu.Lock()
	c.entries[key] = memoryEntry{data: data, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()

	return nil
}

// Delete removes a key
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Len returns the number of entries, expired ones included
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Sweep removes expired entries and returns how many were dropped
func (c *MemoryCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	count := 0

	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
			count++
		}
	}

	if count > 0 {
		c.logger.WithField("count", count).Debug("Swept expired cache entries")
	}

	return count
}

// Stats returns cache statistics
func (c *MemoryCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := CacheStats{TotalCount: len(c.entries)}
	now := c.now()
	for _, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			stats.ExpiredCount++
		}
	}
	stats.LiveCount = stats.TotalCount - stats.ExpiredCount

	return stats
}

// CacheStats represents cache statistics
type CacheStats struct {
	TotalCount   int `json:"total_count"`
	LiveCount    int `json:"live_count"`
	ExpiredCount int `json:"expired_count"`
}
