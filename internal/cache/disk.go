package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// DiskCache persists entries as one JSON file per key
type DiskCache struct {
	dir string
	ttl time.Duration
}

// NewDiskCache creates a new disk cache
func NewDiskCache(dir string, ttl time.Duration) *DiskCache {
	return &DiskCache{
		dir: dir,
		ttl: ttl,
	}
}

type cacheEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get retrieves a value; expired entries are removed on read
func (c *DiskCache) Get(key string) ([]byte, bool) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}

	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false
	}

	return entry.Data, true
}

// Set stores a value. A zero ttl uses the cache default; a zero default never expires.
func (c *DiskCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}

	entry := cacheEntry{Data: value}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return eris.Wrap(err, "cache: marshal entry")
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return eris.Wrap(err, "cache: create dir")
	}

	// Write then rename so concurrent readers never see a partial file
	tmp, err := os.CreateTemp(c.dir, "entry-*.tmp")
	if err != nil {
		return eris.Wrap(err, "cache: create temp file")
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return eris.Wrap(err, "cache: write temp file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return eris.Wrap(err, "cache: close temp file")
	}

	if err := os.Rename(tmp.Name(), c.path(key)); err != nil {
		_ = os.Remove(tmp.Name())
		return eris.Wrap(err, "cache: rename entry")
	}

	return nil
}

// Delete removes a value; a missing entry is not an error
func (c *DiskCache) Delete(key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return eris.Wrap(err, "cache: delete entry")
	}
	return nil
}

// Clear removes all cached files
func (c *DiskCache) Clear() error {
	return os.RemoveAll(c.dir)
}

// path maps a key onto a file name; ':' is not portable in file names
func (c *DiskCache) path(key string) string {
	return filepath.Join(c.dir, strings.ReplaceAll(key, ":", "_")+".cache")
}
