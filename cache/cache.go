package cache

import (
	"time"

	"short-url-client/config"

	"github.com/dgraph-io/ristretto"
	"github.com/rs/zerolog/log"
)

// Cache remembers short codes the backend recently reported as unknown.
// It is consulted only when the backend cannot be reached; lookups always go to the
// backend first, so codes created elsewhere resolve as soon as they exist.
type Cache struct {
	client *ristretto.Cache
	ttl    time.Duration
}

// New creates a new cache instance with the given configuration
func New(cfg config.CacheConfig) (*Cache, error) {
	maxCost := int64(cfg.MaxSizeMB) * 1024 * 1024

	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: int64(cfg.CounterSize), // Number of keys to track frequency for admission
		MaxCost:     maxCost,                // Maximum cache size in bytes
		BufferItems: 64,                     // Number of keys per Get buffer
		Metrics:     true,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("max_size_mb", cfg.MaxSizeMB).
		Int("ttl_seconds", cfg.TTLSeconds).
		Int("counter_size", cfg.CounterSize).
		Msg("Unknown-code cache initialized")

	return &Cache{
		client: client,
		ttl:    time.Duration(cfg.TTLSeconds) * time.Second,
	}, nil
}

// Unknown returns the backend detail recorded for code, if code is remembered as unknown
func (c *Cache) Unknown(code string) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}
	value, found := c.client.Get(code)
	if !found {
		return "", false
	}
	detail, ok := value.(string)
	return detail, ok
}

// RememberUnknown records that the backend does not know code.
// Cost is the size of the key and detail in bytes.
func (c *Cache) RememberUnknown(code, detail string) bool {
	if c == nil || c.client == nil {
		return false
	}
	return c.client.SetWithTTL(code, detail, int64(len(code)+len(detail)), c.ttl)
}

// Forget drops code from the cache
func (c *Cache) Forget(code string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(code)
}

// Wait blocks until buffered writes are applied
func (c *Cache) Wait() {
	if c == nil || c.client == nil {
		return
	}
	c.client.Wait()
}

// Close cleanly shuts down the cache
func (c *Cache) Close() {
	if c != nil && c.client != nil {
		c.client.Close()
		log.Info().Msg("Cache closed")
	}
}

// MetricsSnapshot is a point-in-time copy of the cache counters
type MetricsSnapshot struct {
	Hits         uint64  `json:"hits"`
	Misses       uint64  `json:"misses"`
	KeysAdded    uint64  `json:"keys_added"`
	KeysEvicted  uint64  `json:"keys_evicted"`
	SetsDropped  uint64  `json:"sets_dropped"`
	SetsRejected uint64  `json:"sets_rejected"`
	HitRatio     float64 `json:"hit_ratio"`
	TTLSeconds   int     `json:"ttl_seconds"`
}

// GetMetricsSnapshot returns current cache metrics as a snapshot
func (c *Cache) GetMetricsSnapshot() MetricsSnapshot {
	if c == nil {
		return MetricsSnapshot{}
	}
	if c.client == nil || c.client.Metrics == nil {
		return MetricsSnapshot{TTLSeconds: int(c.ttl.Seconds())}
	}

	m := c.client.Metrics
	return MetricsSnapshot{
		Hits:         m.Hits(),
		Misses:       m.Misses(),
		KeysAdded:    m.KeysAdded(),
		KeysEvicted:  m.KeysEvicted(),
		SetsDropped:  m.SetsDropped(),
		SetsRejected: m.SetsRejected(),
		HitRatio:     m.Ratio(),
		TTLSeconds:   int(c.ttl.Seconds()),
	}
}
