package cache

import (
	"context"

	"github.com/IvanBrykalov/evictcache/policy"
	"github.com/btcsuite/btclog/v2"
)

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
// Hooks are invoked under the cache lock; keep them cheap.
type Metrics interface {
	Hit()
	Miss()
	Evict()
	Size(entries int)
}

// Options configures a cache. Zero values are safe; defaults are applied in
// New():
//   - empty Policy => LRU
//   - nil Metrics  => NoopMetrics
//   - nil Logger   => btclog.Disabled
type Options[K comparable, V any] struct {
	// Capacity is the maximum number of resident entries. Must be > 0.
	Capacity int

	// Policy selects the eviction policy (policy.FIFO, policy.LRU,
	// policy.LFU). Names are matched case-insensitively.
	Policy policy.Kind

	// Loader fetches a value on cache miss. Used by GetOrLoad.
	Loader func(ctx context.Context, k K) (V, error)

	// OnEvict is called for every capacity eviction, under the cache lock.
	// It must not call back into the cache.
	OnEvict func(k K, v V)

	// Observability
	Metrics Metrics
	Logger  btclog.Logger
}
