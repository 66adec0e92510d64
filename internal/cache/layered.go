package cache

import (
	"time"

	"go.uber.org/zap"
)

// LayeredCache checks memory before disk and writes through to both
type LayeredCache struct {
	memory Cache
	disk   Cache
}

// NewLayeredCache puts memory in front of a disk cache
func NewLayeredCache(memory *MemoryCache, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: memory,
		disk:   NewDiskCache(diskDir, diskTTL),
	}
}

// Get retrieves a value, promoting disk hits into memory
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val, true
	}

	if val, found := c.disk.Get(key); found {
		_ = c.memory.Set(key, val, 0)
		return val, true
	}

	return nil, false
}

// Set stores a value in both layers. A disk failure is logged, not returned:
// the memory layer still serves the entry.
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.memory.Set(key, value, ttl); err != nil {
		return err
	}

	if err := c.disk.Set(key, value, ttl); err != nil {
		zap.L().Warn("disk cache write failed", zap.String("key", key), zap.Error(err))
	}

	return nil
}

// Delete removes a value from both layers
func (c *LayeredCache) Delete(key string) error {
	_ = c.memory.Delete(key)
	return c.disk.Delete(key)
}

// Clear removes all values from both layers
func (c *LayeredCache) Clear() error {
	_ = c.memory.Clear()
	return c.disk.Clear()
}
