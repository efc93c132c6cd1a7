package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/IvanBrykalov/evictcache/internal/singleflight"
	"github.com/IvanBrykalov/evictcache/policy"
	"github.com/IvanBrykalov/evictcache/policy/fifo"
	"github.com/IvanBrykalov/evictcache/policy/lfu"
	"github.com/IvanBrykalov/evictcache/policy/lru"
	"github.com/btcsuite/btclog/v2"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// ErrNoLoader is returned by GetOrLoad when no Loader was configured in Options.
var ErrNoLoader = errors.New("cache: no Loader provided")

// cache guards one policy instance with a single mutex held for the whole
// of every call.
type cache[K comparable, V any] struct {
	// ---- guarded by mu ----
	mu     sync.Mutex
	pol    policy.Policy[K, V]
	hits   uint64
	misses uint64
	evicts uint64

	kind policy.Kind
	opt  Options[K, V]
	log  btclog.Logger

	// coalesces concurrent loads in GetOrLoad
	sf singleflight.Group[K, V]
}

// New constructs a cache with the provided Options. It fails, without
// building anything, if Capacity <= 0 or Policy names no known policy.
// Defaults:
//   - empty Policy -> LRU
//   - nil Metrics  -> NoopMetrics
//   - nil Logger   -> btclog.Disabled
func New[K comparable, V any](opt Options[K, V]) (Cache[K, V], error) {
	if err := policy.CheckCapacity(opt.Capacity); err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}

	kind := policy.LRU
	if opt.Policy != "" {
		k, err := policy.ParseKind(string(opt.Policy))
		if err != nil {
			return nil, fmt.Errorf("cache: %w", err)
		}
		kind = k
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Logger == nil {
		opt.Logger = btclog.Disabled
	}

	c := &cache[K, V]{
		kind: kind,
		opt:  opt,
		log:  opt.Logger,
	}
	pol, err := newPolicy(kind, opt.Capacity, c.evicted)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	c.pol = pol

	c.log.DebugS(context.Background(), "Cache created",
		"policy", kind, "capacity", opt.Capacity)

	return c, nil
}

// newPolicy builds the policy implementation for kind.
func newPolicy[K comparable, V any](kind policy.Kind, capacity int,
	onEvict policy.EvictFunc[K, V]) (policy.Policy[K, V], error) {

	switch kind {
	case policy.FIFO:
		p, err := fifo.New(capacity, onEvict)
		if err != nil {
			return nil, err
		}
		return p, nil

	case policy.LRU:
		p, err := lru.New(capacity, onEvict)
		if err != nil {
			return nil, err
		}
		return p, nil

	case policy.LFU:
		p, err := lfu.New(capacity, onEvict)
		if err != nil {
			return nil, err
		}
		return p, nil

	default:
		return nil, fmt.Errorf("%w: %q", policy.ErrUnknownPolicy, kind)
	}
}

// ---- Cache[K,V] implementation ----

// Get returns the value for k and a presence flag, touching the entry
// according to the active policy.
func (c *cache[K, V]) Get(k K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.pol.Get(k)
	if ok {
		c.hits++
		c.opt.Metrics.Hit()
	} else {
		c.misses++
		c.opt.Metrics.Miss()
	}
	return v, ok
}

// GetOption wraps Get in an fn.Option.
func (c *cache[K, V]) GetOption(k K) fn.Option[V] {
	v, ok := c.Get(k)
	if !ok {
		return fn.None[V]()
	}
	return fn.Some(v)
}

// Put inserts or updates k→v, evicting one entry if the cache is full.
func (c *cache[K, V]) Put(k K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pol.Put(k, v)
	c.opt.Metrics.Size(c.pol.Len())
}

// Peek returns the value for k without touching it or counting a hit/miss.
func (c *cache[K, V]) Peek(k K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pol.Peek(k)
}

// Contains reports whether k is resident.
func (c *cache[K, V]) Contains(k K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pol.Contains(k)
}

// Remove deletes k if present and returns true on success.
// Explicit removal is not counted as an eviction.
func (c *cache[K, V]) Remove(k K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ok := c.pol.Remove(k)
	if ok {
		c.opt.Metrics.Size(c.pol.Len())
	}
	return ok
}

// Keys returns resident keys, next eviction victim first.
func (c *cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pol.Keys()
}

// Purge drops every entry. Counters are kept.
func (c *cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pol.Purge()
	c.opt.Metrics.Size(0)
}

// Len returns the number of resident entries.
func (c *cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pol.Len()
}

// Cap returns the configured capacity.
func (c *cache[K, V]) Cap() int { return c.opt.Capacity }

// Policy returns the active eviction policy.
func (c *cache[K, V]) Policy() policy.Kind { return c.kind }

// Stats returns a consistent snapshot of the counters.
func (c *cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evicts,
		Len:       c.pol.Len(),
		Cap:       c.opt.Capacity,
	}
}

// GetOrLoad returns the value for k; on miss it loads via Options.Loader,
// coalescing concurrent loads for the same key (singleflight). The loader
// runs without the cache lock held. Loader errors are returned as is and
// nothing is stored.
//
// Cancelling ctx unblocks this caller only; a load already in flight keeps
// running for the other waiters.
func (c *cache[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	var zero V

	// fast path
	if v, ok := c.Get(k); ok {
		return v, nil
	}
	if c.opt.Loader == nil {
		return zero, ErrNoLoader
	}

	v, shared, err := c.sf.Do(ctx, k, func() (V, error) {
		// double-check after flight join
		if v, ok := c.Peek(k); ok {
			return v, nil
		}

		c.log.TraceS(ctx, "Loading entry on miss", "policy", c.kind)

		v, err := c.opt.Loader(ctx, k)
		if err != nil {
			c.log.WarnS(ctx, "Loader failed", err, "policy", c.kind)
			return zero, err
		}
		c.Put(k, v)
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	if shared {
		c.log.TraceS(ctx, "Load shared between callers", "policy", c.kind)
	}
	return v, nil
}

// ---- helpers ----

// evicted is the policy's eviction callback. It runs inside pol.Put, so mu
// is already held.
func (c *cache[K, V]) evicted(k K, v V) {
	c.evicts++
	c.opt.Metrics.Evict()
	c.log.TraceS(context.Background(), "Evicted entry",
		"policy", c.kind, "len", c.pol.Len())

	if cb := c.opt.OnEvict; cb != nil {
		cb(k, v)
	}
}
