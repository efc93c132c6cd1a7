package policytest

import (
	"testing"

	"github.com/IvanBrykalov/evictcache/policy"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// Factory builds the cache under test.
type Factory func(capacity int, onEvict policy.EvictFunc[int, int]) (policy.Policy[int, int], error)

// Run drives random Get/Put/Peek/Remove/Purge sequences against both the
// cache built by newCache and the reference model, and requires identical
// results, identical eviction victims and identical eviction order after
// every step.
func Run(t *testing.T, newCache Factory, newModel func(capacity int) Model) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 8).Draw(t, "capacity")
		keys := rapid.IntRange(0, 2*capacity+1)

		var evicted []int
		c, err := newCache(capacity, func(k, _ int) {
			evicted = append(evicted, k)
		})
		require.NoError(t, err)
		m := newModel(capacity)

		t.Repeat(map[string]func(*rapid.T){
			"get": func(t *rapid.T) {
				k := keys.Draw(t, "k")
				wantV, wantOK := m.Get(k)
				gotV, gotOK := c.Get(k)
				require.Equal(t, wantOK, gotOK, "Get(%d) presence", k)
				require.Equal(t, wantV, gotV, "Get(%d) value", k)
			},
			"put": func(t *rapid.T) {
				k := keys.Draw(t, "k")
				v := rapid.Int().Draw(t, "v")
				evicted = evicted[:0]
				victim, ok := m.Put(k, v)
				c.Put(k, v)
				if ok {
					require.Equal(t, []int{victim}, evicted, "Put(%d) victim", k)
				} else {
					require.Empty(t, evicted, "Put(%d) must not evict", k)
				}
				got, hit := c.Peek(k)
				require.True(t, hit, "Put(%d) then Peek must hit", k)
				require.Equal(t, v, got)
			},
			"peek": func(t *rapid.T) {
				k := keys.Draw(t, "k")
				wantV, wantOK := m.Peek(k)
				gotV, gotOK := c.Peek(k)
				require.Equal(t, wantOK, gotOK)
				require.Equal(t, wantV, gotV)
				require.Equal(t, wantOK, c.Contains(k))
			},
			"remove": func(t *rapid.T) {
				k := keys.Draw(t, "k")
				require.Equal(t, m.Remove(k), c.Remove(k), "Remove(%d)", k)
			},
			"purge": func(t *rapid.T) {
				if rapid.IntRange(0, 9).Draw(t, "purge") != 0 {
					t.Skip("purge is rare")
				}
				m.Purge()
				c.Purge()
			},
			"": func(t *rapid.T) {
				require.LessOrEqual(t, c.Len(), c.Cap())
				require.Equal(t, capacity, c.Cap())
				require.Equal(t, m.Len(), c.Len())
				require.Equal(t, m.Keys(), c.Keys())
			},
		})
	})
}
