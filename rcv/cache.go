package rcv

import "sync"

// ResultCache memoizes ContestReports by a caller-supplied key, the way
// backend/memory/memory.go holds poll state under a mutex-guarded map —
// adapted here to cache tabulation results instead of vote objects, and
// keyed by whatever the caller considers a contest identity rather than
// a content hash of the raw input (hashing raw CVRs is out of scope).
type ResultCache struct {
	mu      sync.Mutex
	reports map[string]ContestReport
}

// NewResultCache returns an empty ResultCache.
func NewResultCache() *ResultCache {
	return &ResultCache{reports: make(map[string]ContestReport)}
}

// Get returns the cached report for key, if any.
func (c *ResultCache) Get(key string) (ContestReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.reports[key]
	return r, ok
}

// Store saves a report under key, replacing any previous entry.
func (c *ResultCache) Store(key string, report ContestReport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reports[key] = report
}

// Clear removes one key's cached report.
func (c *ResultCache) Clear(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.reports, key)
}

// ClearAll empties the cache.
func (c *ResultCache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reports = make(map[string]ContestReport)
}
