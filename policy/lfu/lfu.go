// Package lfu implements the Least-Frequently-Used eviction policy with
// recency tie-break, in O(1) per operation.
//
// Keys are grouped into frequency buckets; each bucket is a recency-ordered
// list (front = most recently touched). The smallest live frequency is
// tracked incrementally, so the victim is always the back of the bucket at
// minFreq and no operation scans.
package lfu

import (
	"sort"

	"github.com/IvanBrykalov/evictcache/internal/dlist"
	"github.com/IvanBrykalov/evictcache/policy"
)

type entry[K comparable, V any] struct {
	key  K
	val  V
	freq int
}

// Cache is a fixed-capacity LFU cache. Cache is not safe for concurrent use.
type Cache[K comparable, V any] struct {
	cap     int
	items   map[K]*dlist.Node[entry[K, V]]
	buckets map[int]*dlist.List[entry[K, V]] // freq -> keys at that freq; never empty
	minFreq int                              // meaningless while len(items) == 0
	onEvict policy.EvictFunc[K, V]
}

var _ policy.Policy[string, int] = (*Cache[string, int])(nil)

// New returns an empty LFU cache holding at most capacity entries.
// onEvict may be nil.
func New[K comparable, V any](capacity int, onEvict policy.EvictFunc[K, V]) (*Cache[K, V], error) {
	if err := policy.CheckCapacity(capacity); err != nil {
		return nil, err
	}
	return &Cache[K, V]{
		cap:     capacity,
		items:   make(map[K]*dlist.Node[entry[K, V]], capacity),
		buckets: make(map[int]*dlist.List[entry[K, V]]),
		onEvict: onEvict,
	}, nil
}

// Get returns the value for k and bumps its frequency on a hit.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	n, ok := c.items[k]
	if !ok {
		var zero V
		return zero, false
	}
	c.touch(n)
	return n.Value.val, true
}

// Put inserts or updates k→v. An update counts as an access. Inserting into
// a full cache first evicts the least frequently used resident key, so the
// new key itself is never the victim. Linking first and then evicting would
// differ only when every resident key has a frequency above 1: the new key
// would be the unique minimum and be dropped by its own Put.
func (c *Cache[K, V]) Put(k K, v V) {
	if n, ok := c.items[k]; ok {
		n.Value.val = v
		c.touch(n)
		return
	}

	if len(c.items) >= c.cap {
		c.evict()
	}

	n := dlist.NewNode(entry[K, V]{key: k, val: v, freq: 1})
	c.items[k] = n
	c.bucket(1).PushFront(n)
	c.minFreq = 1
}

// Peek returns the value for k without changing its frequency.
func (c *Cache[K, V]) Peek(k K) (V, bool) {
	if n, ok := c.items[k]; ok {
		return n.Value.val, true
	}
	var zero V
	return zero, false
}

// Contains reports whether k is resident.
func (c *Cache[K, V]) Contains(k K) bool {
	_, ok := c.items[k]
	return ok
}

// Frequency returns the access count of k (1 right after insertion).
func (c *Cache[K, V]) Frequency(k K) (int, bool) {
	if n, ok := c.items[k]; ok {
		return n.Value.freq, true
	}
	return 0, false
}

// Remove deletes k if present.
func (c *Cache[K, V]) Remove(k K) bool {
	n, ok := c.items[k]
	if !ok {
		return false
	}
	freq := n.Value.freq
	c.unlink(n)
	delete(c.items, k)

	// Only a removal can leave minFreq pointing at a bucket that no longer
	// exists with other keys still resident; recompute from the live buckets.
	if freq == c.minFreq && c.buckets[freq] == nil && len(c.items) > 0 {
		c.minFreq = c.lowestFreq()
	}
	return true
}

// Keys returns keys in eviction order: ascending frequency, and oldest
// first inside a frequency.
func (c *Cache[K, V]) Keys() []K {
	freqs := make([]int, 0, len(c.buckets))
	for f := range c.buckets {
		freqs = append(freqs, f)
	}
	sort.Ints(freqs)

	keys := make([]K, 0, len(c.items))
	for _, f := range freqs {
		for n := c.buckets[f].Back(); n != nil; n = n.Prev() {
			keys = append(keys, n.Value.key)
		}
	}
	return keys
}

// Purge drops every entry.
func (c *Cache[K, V]) Purge() {
	for _, b := range c.buckets {
		b.Init()
	}
	clear(c.buckets)
	clear(c.items)
	c.minFreq = 0
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int { return len(c.items) }

// Cap returns the capacity.
func (c *Cache[K, V]) Cap() int { return c.cap }

// touch moves n from bucket f to the newest slot of bucket f+1.
func (c *Cache[K, V]) touch(n *dlist.Node[entry[K, V]]) {
	old := n.Value.freq
	c.unlink(n)
	if old == c.minFreq && c.buckets[old] == nil {
		c.minFreq = old + 1
	}
	n.Value.freq = old + 1
	c.bucket(old + 1).PushFront(n)
}

// evict drops the oldest key of the minimum-frequency bucket.
func (c *Cache[K, V]) evict() {
	b := c.buckets[c.minFreq]
	if b == nil {
		return
	}
	n := b.PopBack()
	if b.Len() == 0 {
		delete(c.buckets, c.minFreq)
	}
	delete(c.items, n.Value.key)
	if c.onEvict != nil {
		c.onEvict(n.Value.key, n.Value.val)
	}
}

// bucket returns the list for freq, creating it on demand.
func (c *Cache[K, V]) bucket(freq int) *dlist.List[entry[K, V]] {
	b, ok := c.buckets[freq]
	if !ok {
		b = dlist.New[entry[K, V]]()
		c.buckets[freq] = b
	}
	return b
}

// unlink detaches n from its bucket and drops the bucket once empty.
func (c *Cache[K, V]) unlink(n *dlist.Node[entry[K, V]]) {
	f := n.Value.freq
	b := c.buckets[f]
	b.Remove(n)
	if b.Len() == 0 {
		delete(c.buckets, f)
	}
}

// lowestFreq scans the bucket index. It runs only after an explicit Remove
// emptied the minimum bucket; the number of distinct frequencies is bounded
// by the number of resident keys.
func (c *Cache[K, V]) lowestFreq() int {
	lowest := 0
	for f := range c.buckets {
		if lowest == 0 || f < lowest {
			lowest = f
		}
	}
	return lowest
}
