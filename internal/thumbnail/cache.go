package thumbnail

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"swing-studio/internal/logging"
	"swing-studio/internal/metrics"
)

// keyIdentSuffixLen bounds the identity portion of a cache key when the
// source locator has no path separator to split on.
const keyIdentSuffixLen = 24

// Key derives the cache key for a (source locator, frame) pair. It is a
// pure function shared by producers and consumers, so cache hits work
// across fresh caller instances: the identity portion is the last path
// segment of the locator (e.g. "videoA.mp4" for
// "https://cdn/videoA.mp4"), or a fixed-length suffix when the locator
// has no separator.
func Key(sourceURL string, frame int) string {
	ident := sourceURL
	if idx := strings.LastIndex(sourceURL, "/"); idx >= 0 {
		ident = sourceURL[idx+1:]
	} else if len(sourceURL) > keyIdentSuffixLen {
		ident = sourceURL[len(sourceURL)-keyIdentSuffixLen:]
	}
	return fmt.Sprintf("%s:%d", ident, frame)
}

// Cache is a write-once key to encoded-raster map. Reads are lock-cheap
// and safe on the render path. Entries are never evicted or overwritten
// for the lifetime of the cache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string][]byte)}
}

// Get returns the cached raster for key, if present.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.entries[key]
	return data, ok
}

// Put inserts a raster under key. Entries are write-once: a second Put
// for the same key is a no-op, and a second Put with different bytes
// indicates a producer bug and is logged rather than silently applied.
func (c *Cache) Put(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		if !bytes.Equal(existing, data) {
			logging.Warn("Thumbnail cache: conflicting re-put for %q ignored (%d vs %d bytes)",
				key, len(existing), len(data))
		}
		return
	}

	c.entries[key] = data
	metrics.ThumbnailCacheEntries.Set(float64(len(c.entries)))
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
