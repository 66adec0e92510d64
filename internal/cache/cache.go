// Package cache stores extracted document text so repeated analyses of the
// same bytes skip PDF, DOCX and HTML extraction.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/ppiankov/contractlens/internal/model"
)

const keyPrefix = "contractlens:v1:"

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from the document MIME type and its raw bytes
func Key(mimeType string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(mimeType))
	h.Write([]byte{0})
	h.Write(data)
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// URLKey derives a cache key for the text of a fetched URL
func URLKey(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return keyPrefix + "url:" + hex.EncodeToString(sum[:])
}

// New builds the configured cache, or nil when caching is disabled
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Dir == "" {
		return NewMemoryCache(cfg.MemoryTTL, cfg.MemoryEntries)
	}
	return NewLayeredCache(NewMemoryCache(cfg.MemoryTTL, cfg.MemoryEntries), cfg.Dir, cfg.TTL)
}
