// Package cache provides a generic, goroutine-safe, fixed-capacity in-memory
// cache with a selectable eviction policy: FIFO, LRU (default) or LFU.
//
// Design
//
//   - Policies: the eviction logic lives in policy/fifo, policy/lru and
//     policy/lfu. Each owns its key map and eviction index and offers O(1)
//     amortized Get/Put. They can be used directly when no locking is needed.
//
//   - Concurrency: the cache wraps one policy instance behind a single
//     mutex held for the duration of each call. The map and the eviction
//     index are always updated together, so a reader never observes a
//     half-applied Put.
//
//   - Capacity: Capacity must be > 0; New returns an error wrapping
//     policy.ErrInvalidCapacity otherwise. Inserting a new key into a full
//     cache evicts exactly one victim chosen by the policy.
//
//   - Misses: Get reports a miss through its boolean; GetOption returns
//     fn.None. A miss is never an error.
//
//   - GetOrLoad: coalesces concurrent loads for the same key using
//     singleflight. If Loader is nil, GetOrLoad returns ErrNoLoader.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     By default NoopMetrics is used; metrics/prom exports them to Prometheus.
//
//   - Logging: Options.Logger (btclog/v2) receives debug and trace records;
//     logging is disabled by default.
//
// Basic usage
//
//	c, err := cache.New[string, []byte](cache.Options[string, []byte]{
//	    Capacity: 10_000,
//	    Policy:   policy.LFU,
//	})
//	if err != nil {
//	    return err
//	}
//	c.Put("a", []byte("1"))
//	if v, ok := c.Get("a"); ok {
//	    _ = v
//	}
//
// With GetOrLoad
//
//	c, _ := cache.New[string, string](cache.Options[string, string]{
//	    Capacity: 1024,
//	    Loader: func(ctx context.Context, k string) (string, error) {
//	        return "v:" + k, nil // e.g. fetch from DB
//	    },
//	})
//	v, err := c.GetOrLoad(context.Background(), "key")
package cache
