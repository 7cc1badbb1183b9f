package fs

import (
	"sync"
	"time"
)

// cacheEntry is the content of one file as last read.
type cacheEntry struct {
	modTime time.Time
	size    int64
	content []byte
}

// cache keeps file contents between listings so re-planning in watch mode only
// reads files that changed. It lives in memory only.
type cache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry // key is the OS-relative path
	hits    int
}

func newCache() *cache {
	return &cache{entries: make(map[string]*cacheEntry)}
}

// Get returns a copy of the cached content if modTime and size still match.
func (c *cache) Get(relPath string, modTime time.Time, size int64) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[relPath]
	if !ok || !e.modTime.Equal(modTime) || e.size != size {
		return nil, false
	}
	c.hits++
	return append([]byte(nil), e.content...), true
}

// Set records content read at modTime.
func (c *cache) Set(relPath string, modTime time.Time, size int64, content []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[relPath] = &cacheEntry{
		modTime: modTime,
		size:    size,
		content: append([]byte(nil), content...),
	}
}

// Prune removes entries that are not in the keep set.
func (c *cache) Prune(keep map[string]bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for path := range c.entries {
		if !keep[path] {
			delete(c.entries, path)
		}
	}
}

// Delete removes a single entry.
func (c *cache) Delete(relPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, relPath)
}

// Len returns the number of entries in the cache.
func (c *cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Hits returns how many reads the cache has served.
func (c *cache) Hits() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits
}
