package prom

import (
	"testing"

	"github.com/IvanBrykalov/evictcache/cache"
	"github.com/IvanBrykalov/evictcache/policy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestAdapter_CountsCacheActivity(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg, "evictcache", "test", prometheus.Labels{"policy": "lru"})

	c, err := cache.New(cache.Options[string, int]{
		Capacity: 2,
		Policy:   policy.LRU,
		Metrics:  m,
	})
	require.NoError(t, err)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a")    // hit
	c.Get("zzz")  // miss
	c.Put("c", 3) // evicts b

	require.InDelta(t, 1, testutil.ToFloat64(m.hits), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.misses), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.evicts), 0)
	require.InDelta(t, 2, testutil.ToFloat64(m.entries), 0)

	n, err := testutil.GatherAndCount(reg,
		"evictcache_test_hits_total",
		"evictcache_test_misses_total",
		"evictcache_test_evictions_total",
		"evictcache_test_size_entries",
	)
	require.NoError(t, err)
	require.Equal(t, 4, n)
}

// Two caches can share a registry when their const labels differ.
func TestAdapter_DistinctLabels(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	for _, kind := range policy.Kinds() {
		require.NotPanics(t, func() {
			New(reg, "evictcache", "multi", prometheus.Labels{"policy": kind.String()})
		})
	}
	require.Panics(t, func() {
		New(reg, "evictcache", "multi", prometheus.Labels{"policy": "lru"})
	})
}
