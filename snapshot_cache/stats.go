package snapshot_cache

import (
	"sync"
	"time"
)

// CacheStats tracks cache performance counters.
type CacheStats struct {
	mu              sync.Mutex
	totalRequests   int64
	hits            int64
	misses          int64
	stores          int64
	unchangedStores int64
	refreshPasses   int64
	lastReset       time.Time
}

func (s *CacheStats) recordHit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalRequests++
	s.hits++
}

func (s *CacheStats) recordMiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalRequests++
	s.misses++
}

func (s *CacheStats) recordStore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stores++
}

func (s *CacheStats) recordUnchangedStore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unchangedStores++
}

func (s *CacheStats) recordRefreshPass() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshPasses++
}

// Stats returns a snapshot of the cache counters together with the number of
// currently cached projects.
func (c *SnapshotCache) Stats() map[string]interface{} {
	c.mu.Lock()
	cached := len(c.entries)
	c.mu.Unlock()

	c.stats.mu.Lock()
	defer c.stats.mu.Unlock()

	hitRate := 0.0
	if c.stats.totalRequests > 0 {
		hitRate = float64(c.stats.hits) / float64(c.stats.totalRequests) * 100
	}

	return map[string]interface{}{
		"cached_projects":  cached,
		"total_requests":   c.stats.totalRequests,
		"cache_hits":       c.stats.hits,
		"cache_misses":     c.stats.misses,
		"stores":           c.stats.stores,
		"unchanged_stores": c.stats.unchangedStores,
		"refresh_passes":   c.stats.refreshPasses,
		"hit_rate":         hitRate,
	}
}

// ResetStats zeroes all performance counters.
func (c *SnapshotCache) ResetStats() {
	c.stats.mu.Lock()
	defer c.stats.mu.Unlock()
	c.stats.totalRequests = 0
	c.stats.hits = 0
	c.stats.misses = 0
	c.stats.stores = 0
	c.stats.unchangedStores = 0
	c.stats.refreshPasses = 0
	c.stats.lastReset = time.Now()
}
