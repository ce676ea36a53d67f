package cache

import (
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/V4T54L/logviewer/internal/adapter/metrics"
	"github.com/V4T54L/logviewer/internal/domain"
)

// SnapshotCache implements domain.SnapshotCache with a size-bounded LRU whose
// entries also expire after a TTL.
type SnapshotCache struct {
	lru     *expirable.LRU[string, *domain.Snapshot]
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewSnapshotCache creates a cache for at most size snapshots, each kept for ttl.
func NewSnapshotCache(size int, ttl time.Duration, logger *slog.Logger, m *metrics.Metrics) *SnapshotCache {
	c := &SnapshotCache{
		logger:  logger.With("component", "snapshot_cache"),
		metrics: m,
	}
	c.lru = expirable.NewLRU[string, *domain.Snapshot](size, c.onEvict, ttl)
	return c
}

func (c *SnapshotCache) onEvict(id string, _ *domain.Snapshot) {
	c.logger.Debug("snapshot evicted", "snapshot_id", id)
	if c.metrics != nil {
		c.metrics.SnapshotEvictions.Inc()
	}
}

func (c *SnapshotCache) updateGauge() {
	if c.metrics != nil {
		c.metrics.SnapshotsCached.Set(float64(c.lru.Len()))
	}
}

// Put stores a snapshot under its ID.
func (c *SnapshotCache) Put(s *domain.Snapshot) {
	c.lru.Add(s.ID, s)
	c.updateGauge()
}

// Get returns a cached snapshot.
func (c *SnapshotCache) Get(id string) (*domain.Snapshot, bool) {
	s, ok := c.lru.Get(id)
	if c.metrics != nil {
		if ok {
			c.metrics.SnapshotCacheHits.Inc()
		} else {
			c.metrics.SnapshotCacheMisses.Inc()
		}
	}
	return s, ok
}

// Remove drops a snapshot.
func (c *SnapshotCache) Remove(id string) {
	c.lru.Remove(id)
	c.updateGauge()
}

// InvalidateFile drops all snapshots read from path and returns how many.
func (c *SnapshotCache) InvalidateFile(path string) int {
	path = filepath.Clean(path)
	n := 0
	for _, id := range c.lru.Keys() {
		s, ok := c.lru.Peek(id)
		if !ok {
			continue
		}
		if slices.Contains(s.Sources, path) {
			c.lru.Remove(id)
			n++
		}
	}
	c.updateGauge()
	return n
}
