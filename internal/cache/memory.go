package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultMemoryEntries bounds the in-process cache when no limit is configured
const DefaultMemoryEntries = 256

// MemoryCache keeps extracted document text in process. Entries expire after
// their TTL, and once maxEntries are held the entry closest to expiry is
// evicted to make room.
type MemoryCache struct {
	items      *gocache.Cache
	maxEntries int
}

// NewMemoryCache creates a memory cache holding at most maxEntries documents
func NewMemoryCache(defaultTTL time.Duration, maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryEntries
	}
	sweep := defaultTTL / 2
	if sweep <= 0 {
		sweep = 10 * time.Minute
	}
	return &MemoryCache{
		items:      gocache.New(defaultTTL, sweep),
		maxEntries: maxEntries,
	}
}

func (c *MemoryCache) Get(key string) ([]byte, bool) {
	val, found := c.items.Get(key)
	if !found {
		return nil, false
	}
	text, ok := val.([]byte)
	return text, ok
}

// Set stores value. A zero ttl uses the cache default.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	if _, exists := c.items.Get(key); !exists && c.items.ItemCount() >= c.maxEntries {
		c.makeRoom()
	}
	c.items.Set(key, value, ttl)
	return nil
}

// makeRoom drops expired entries, then the one expiring soonest if still full
func (c *MemoryCache) makeRoom() {
	c.items.DeleteExpired()
	if c.items.ItemCount() < c.maxEntries {
		return
	}

	var victim string
	var soonest int64
	for key, item := range c.items.Items() {
		// Expiration 0 never expires; evict it only when nothing else qualifies
		exp := item.Expiration
		if exp == 0 {
			exp = 1<<63 - 1
		}
		if victim == "" || exp < soonest {
			victim, soonest = key, exp
		}
	}
	c.items.Delete(victim)
}

func (c *MemoryCache) Delete(key string) error {
	c.items.Delete(key)
	return nil
}

func (c *MemoryCache) Clear() error {
	c.items.Flush()
	return nil
}

// Len reports how many entries are held, including expired ones not yet swept
func (c *MemoryCache) Len() int {
	return c.items.ItemCount()
}
