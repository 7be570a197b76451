package analysis

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/danielpatrickdp/fatafat-forecast/internal/frequency"
)

// #region source

// Source supplies the chronological digit sequence. Implementations must
// return a copy the cache may keep.
type Source interface {
	Digits() []int
}

// #endregion source

// #region cache-config

// CacheConfig holds the analyzer settings used on every build.
type CacheConfig struct {
	Frequency frequency.Config
}

// DefaultCacheConfig returns the windows used by the scoring engine.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{Frequency: frequency.DefaultConfig()}
}

// CacheStats is a point-in-time view of the cache counters.
type CacheStats struct {
	Hits          int64  `json:"hits"`
	Misses        int64  `json:"misses"`
	Builds        int64  `json:"builds"`
	Invalidations int64  `json:"invalidations"`
	Generation    uint64 `json:"generation"`
	Cached        bool   `json:"cached"`
}

// #endregion cache-config

// #region cache

// Cache memoizes the pattern snapshot of a Source until Invalidate is called.
//
// Safe for concurrent use. Readers of a built snapshot share a read lock;
// concurrent misses within one generation collapse into a single build.
type Cache struct {
	source Source
	config CacheConfig
	logger *zap.Logger

	mu         sync.RWMutex
	snapshot   *Snapshot
	generation uint64
	flight     singleflight.Group

	hits          atomic.Int64
	misses        atomic.Int64
	builds        atomic.Int64
	invalidations atomic.Int64
}

// NewCache creates an empty cache over source. logger may be nil.
func NewCache(source Source, config CacheConfig, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{source: source, config: config, logger: logger}
}

// GetOrBuild returns the memoized snapshot, building it on the first call
// and on the first call after an invalidation.
func (c *Cache) GetOrBuild() *Snapshot {
	c.mu.RLock()
	snap, gen := c.snapshot, c.generation
	c.mu.RUnlock()
	if snap != nil {
		c.hits.Add(1)
		cacheLookups.WithLabelValues("hit").Inc()
		return snap
	}

	c.misses.Add(1)
	cacheLookups.WithLabelValues("miss").Inc()

	v, _, _ := c.flight.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		// A previous flight for this generation may have finished already.
		c.mu.RLock()
		if c.snapshot != nil && c.generation == gen {
			s := c.snapshot
			c.mu.RUnlock()
			return s, nil
		}
		c.mu.RUnlock()

		return c.build(gen), nil
	})
	return v.(*Snapshot)
}

func (c *Cache) build(gen uint64) *Snapshot {
	start := time.Now()
	digits := c.source.Digits()
	snap := BuildSnapshot(digits, c.config.Frequency)
	elapsed := time.Since(start)

	c.builds.Add(1)
	cacheBuilds.Inc()
	buildDuration.Observe(elapsed.Seconds())
	sequenceLength.Set(float64(len(digits)))

	c.mu.Lock()
	stored := c.generation == gen
	if stored {
		c.snapshot = snap
	}
	c.mu.Unlock()

	c.logger.Debug("pattern snapshot built",
		zap.String("snapshot_id", snap.ID),
		zap.Int("sequence_len", len(digits)),
		zap.Uint64("generation", gen),
		zap.Bool("stored", stored),
		zap.Duration("elapsed", elapsed),
	)
	return snap
}

// Peek returns the stored snapshot without building one.
func (c *Cache) Peek() (*Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot, c.snapshot != nil
}

// Invalidate drops the stored snapshot. Idempotent. A build already in
// flight completes for its callers but is not stored.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	c.invalidations.Add(1)
	cacheInvalidations.Inc()
	c.logger.Debug("pattern cache invalidated", zap.Uint64("generation", gen))
}

// Stats returns the cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	gen, cached := c.generation, c.snapshot != nil
	c.mu.RUnlock()
	return CacheStats{
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		Builds:        c.builds.Load(),
		Invalidations: c.invalidations.Load(),
		Generation:    gen,
		Cached:        cached,
	}
}

// #endregion cache
