// Package lru implements the Least-Recently-Used eviction policy.
package lru

import (
	"github.com/IvanBrykalov/evictcache/internal/dlist"
	"github.com/IvanBrykalov/evictcache/policy"
)

type entry[K comparable, V any] struct {
	key K
	val V
}

// Cache is a fixed-capacity LRU cache.
//
// A map gives direct access to each entry's node in a recency list
// (front = most recently used, back = least recently used), so a touch is
// an O(1) unlink+relink and the victim is always the back node.
// Cache is not safe for concurrent use.
type Cache[K comparable, V any] struct {
	cap     int
	items   map[K]*dlist.Node[entry[K, V]]
	order   *dlist.List[entry[K, V]]
	onEvict policy.EvictFunc[K, V]
}

var _ policy.Policy[string, int] = (*Cache[string, int])(nil)

// New returns an empty LRU cache holding at most capacity entries.
// onEvict may be nil.
func New[K comparable, V any](capacity int, onEvict policy.EvictFunc[K, V]) (*Cache[K, V], error) {
	if err := policy.CheckCapacity(capacity); err != nil {
		return nil, err
	}
	return &Cache[K, V]{
		cap:     capacity,
		items:   make(map[K]*dlist.Node[entry[K, V]], capacity),
		order:   dlist.New[entry[K, V]](),
		onEvict: onEvict,
	}, nil
}

// Get returns the value for k and promotes it to most recently used.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	n, ok := c.items[k]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(n)
	return n.Value.val, true
}

// Put inserts or updates k→v; either way k becomes most recently used.
func (c *Cache[K, V]) Put(k K, v V) {
	if n, ok := c.items[k]; ok {
		n.Value.val = v
		c.order.MoveToFront(n)
		return
	}

	n := dlist.NewNode(entry[K, V]{key: k, val: v})
	c.items[k] = n
	c.order.PushFront(n)

	if c.order.Len() > c.cap {
		c.evict()
	}
}

// Peek returns the value for k without changing its recency.
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

// Remove deletes k if present.
func (c *Cache[K, V]) Remove(k K) bool {
	n, ok := c.items[k]
	if !ok {
		return false
	}
	c.order.Remove(n)
	delete(c.items, k)
	return true
}

// Keys returns keys from least to most recently used.
func (c *Cache[K, V]) Keys() []K {
	keys := make([]K, 0, c.order.Len())
	for n := c.order.Back(); n != nil; n = n.Prev() {
		keys = append(keys, n.Value.key)
	}
	return keys
}

// Purge drops every entry.
func (c *Cache[K, V]) Purge() {
	c.order.Init()
	clear(c.items)
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int { return c.order.Len() }

// Cap returns the capacity.
func (c *Cache[K, V]) Cap() int { return c.cap }

// evict drops the least recently used entry.
func (c *Cache[K, V]) evict() {
	n := c.order.PopBack()
	if n == nil {
		return
	}
	delete(c.items, n.Value.key)
	if c.onEvict != nil {
		c.onEvict(n.Value.key, n.Value.val)
	}
}
