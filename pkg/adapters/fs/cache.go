package fs

import (
	"sync"
	"time"

	"github.com/aretw0/matrixvault/pkg/core"
)

// cacheEntry holds a decoded matrix together with the file stamp it was read from.
type cacheEntry struct {
	matrix       *core.Matrix
	size         int64
	lastModified time.Time
}

// cache keeps decoded matrices keyed by file name. An entry is valid only
// while the file's size and mtime are unchanged. Matrices are immutable, so
// hits are shared without copying.
type cache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

func newCache() *cache {
	return &cache{entries: make(map[string]*cacheEntry)}
}

// Get returns the cached matrix if the stamp still matches.
func (c *cache) Get(name string, size int64, mtime time.Time) (*core.Matrix, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[name]
	if !ok || entry.size != size || !entry.lastModified.Equal(mtime) {
		return nil, false
	}
	return entry.matrix, true
}

// Set records a decoded matrix.
func (c *cache) Set(name string, size int64, mtime time.Time, m *core.Matrix) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = &cacheEntry{matrix: m, size: size, lastModified: mtime}
}

// Invalidate drops the entry for name.
func (c *cache) Invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, name)
}

// Prune removes entries whose file was not seen in the last listing.
func (c *cache) Prune(seen map[string]bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name := range c.entries {
		if !seen[name] {
			delete(c.entries, name)
		}
	}
}

// Reset drops every entry.
func (c *cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// Len returns the number of cached matrices.
func (c *cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
