package cache

import (
	"context"

	"github.com/IvanBrykalov/evictcache/policy"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// Cache is a fixed-capacity in-memory key/value cache with a selectable
// eviction policy (FIFO, LRU or LFU).
// All methods are safe for concurrent use by multiple goroutines: every call
// runs under a single instance-wide lock, so the policy's map and eviction
// index are always updated as a unit.
//
// Get and Put are O(1) amortized for every policy.
type Cache[K comparable, V any] interface {
	policy.Policy[K, V]

	// GetOption is Get with the result expressed as an fn.Option.
	// A miss is fn.None, never an error.
	GetOption(k K) fn.Option[V]

	// GetOrLoad returns the value for k, loading it via Options.Loader on
	// miss. Concurrent loads for the same key are coalesced.
	// If no Loader was configured, returns ErrNoLoader.
	GetOrLoad(ctx context.Context, k K) (V, error)

	// Policy returns the active eviction policy.
	Policy() policy.Kind

	// Stats returns a snapshot of the instance counters.
	Stats() Stats
}

// Stats is a point-in-time view of cache activity.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Len       int
	Cap       int
}

// HitRatio returns Hits / (Hits + Misses), or 0 before any lookup.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
