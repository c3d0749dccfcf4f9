package sheets

import (
	"sync"
	"time"

	"github.com/supplify/crm/pkg/types"
)

// defaultCacheTTL bounds how long a table read may be served from memory.
const defaultCacheTTL = 4 * time.Second

// readCache holds the last fetched rows per table. A fresh entry short-cuts
// the remote read entirely; an expired entry is kept around as the
// stale-on-error fallback until the next successful fetch or a write
// invalidates it.
type readCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

type cacheEntry struct {
	fetchedAt time.Time
	rows      []types.Row
}

func newReadCache(ttl time.Duration) *readCache {
	return &readCache{ttl: ttl, entries: make(map[string]cacheEntry)}
}

// fresh returns the cached rows if the entry is within TTL.
func (c *readCache) fresh(table string) ([]types.Row, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[table]
	if !ok || time.Since(e.fetchedAt) > c.ttl {
		return nil, false
	}
	return e.rows, true
}

// last returns the cached rows regardless of age.
func (c *readCache) last(table string) ([]types.Row, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[table]
	if !ok {
		return nil, false
	}
	return e.rows, true
}

func (c *readCache) put(table string, rows []types.Row) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[table] = cacheEntry{fetchedAt: time.Now(), rows: rows}
}

// invalidate drops the entry after a successful write so the next read
// reflects it.
func (c *readCache) invalidate(table string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, table)
}
