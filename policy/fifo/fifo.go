// Package fifo implements the First-In-First-Out eviction policy.
package fifo

import (
	"github.com/IvanBrykalov/evictcache/internal/dlist"
	"github.com/IvanBrykalov/evictcache/policy"
)

type entry[K comparable, V any] struct {
	key K
	val V
}

// Cache is a fixed-capacity FIFO cache. The victim is always the key with
// the oldest insertion; reads and value updates never move a key.
// Cache is not safe for concurrent use.
type Cache[K comparable, V any] struct {
	cap     int
	items   map[K]*dlist.Node[entry[K, V]]
	queue   *dlist.List[entry[K, V]] // front = newest insertion, back = oldest
	onEvict policy.EvictFunc[K, V]
}

var _ policy.Policy[string, int] = (*Cache[string, int])(nil)

// New returns an empty FIFO cache holding at most capacity entries.
// onEvict may be nil.
func New[K comparable, V any](capacity int, onEvict policy.EvictFunc[K, V]) (*Cache[K, V], error) {
	if err := policy.CheckCapacity(capacity); err != nil {
		return nil, err
	}
	return &Cache[K, V]{
		cap:     capacity,
		items:   make(map[K]*dlist.Node[entry[K, V]], capacity),
		queue:   dlist.New[entry[K, V]](),
		onEvict: onEvict,
	}, nil
}

// Get returns the value for k. Access does not affect eviction order.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	return c.Peek(k)
}

// Put inserts k→v at the back of the queue, or replaces the value of a
// resident key in place without re-enqueueing it.
func (c *Cache[K, V]) Put(k K, v V) {
	if n, ok := c.items[k]; ok {
		n.Value.val = v
		return
	}

	n := dlist.NewNode(entry[K, V]{key: k, val: v})
	c.items[k] = n
	c.queue.PushFront(n)

	if c.queue.Len() > c.cap {
		c.evict()
	}
}

// Peek returns the value for k.
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

// Remove deletes k if present. The queue is intrusive, so the key's slot is
// unlinked directly and eviction never meets a stale key.
func (c *Cache[K, V]) Remove(k K) bool {
	n, ok := c.items[k]
	if !ok {
		return false
	}
	c.queue.Remove(n)
	delete(c.items, k)
	return true
}

// Keys returns keys from oldest to newest insertion.
func (c *Cache[K, V]) Keys() []K {
	keys := make([]K, 0, c.queue.Len())
	for n := c.queue.Back(); n != nil; n = n.Prev() {
		keys = append(keys, n.Value.key)
	}
	return keys
}

// Purge drops every entry.
func (c *Cache[K, V]) Purge() {
	c.queue.Init()
	clear(c.items)
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int { return c.queue.Len() }

// Cap returns the capacity.
func (c *Cache[K, V]) Cap() int { return c.cap }

func (c *Cache[K, V]) evict() {
	n := c.queue.PopBack()
	if n == nil {
		return
	}
	delete(c.items, n.Value.key)
	if c.onEvict != nil {
		c.onEvict(n.Value.key, n.Value.val)
	}
}
