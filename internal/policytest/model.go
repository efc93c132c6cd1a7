// Package policytest checks eviction-policy caches against naive reference
// models using rapid state-machine tests.
//
// The models are deliberately slow (linear scans over a slice) and share no
// code with the implementations under test.
package policytest

import (
	"slices"
	"sort"
)

// Model is a reference implementation of a cache policy. Put returns the
// key it evicted, if any.
type Model interface {
	Get(k int) (int, bool)
	Put(k, v int) (evicted int, ok bool)
	Peek(k int) (int, bool)
	Remove(k int) bool
	Purge()
	Keys() []int
	Len() int
}

type item struct {
	key  int
	val  int
	freq int
	tick int // time of last touch
}

// base keeps items in a slice and delegates victim choice and touch rules.
type base struct {
	cap   int
	items []item
	clock int

	touchOnAccess bool
	countFreq     bool
	evictBefore   bool // choose the victim before linking a new key
	victim        func([]item) int
	order         func([]item) []item
}

func (m *base) find(k int) int {
	return slices.IndexFunc(m.items, func(it item) bool { return it.key == k })
}

func (m *base) touch(i int) {
	m.clock++
	if m.touchOnAccess {
		m.items[i].tick = m.clock
	}
	if m.countFreq {
		m.items[i].freq++
	}
}

func (m *base) Get(k int) (int, bool) {
	i := m.find(k)
	if i < 0 {
		return 0, false
	}
	m.touch(i)
	return m.items[i].val, true
}

func (m *base) Peek(k int) (int, bool) {
	if i := m.find(k); i >= 0 {
		return m.items[i].val, true
	}
	return 0, false
}

func (m *base) Put(k, v int) (int, bool) {
	if i := m.find(k); i >= 0 {
		m.items[i].val = v
		m.touch(i)
		return 0, false
	}

	var (
		evicted int
		did     bool
	)
	if m.evictBefore && len(m.items) >= m.cap {
		evicted, did = m.evictOne(), true
	}
	m.clock++
	m.items = append(m.items, item{key: k, val: v, freq: 1, tick: m.clock})
	if !m.evictBefore && len(m.items) > m.cap {
		evicted, did = m.evictOne(), true
	}
	return evicted, did
}

func (m *base) evictOne() int {
	i := m.victim(m.items)
	k := m.items[i].key
	m.items = slices.Delete(m.items, i, i+1)
	return k
}

func (m *base) Remove(k int) bool {
	i := m.find(k)
	if i < 0 {
		return false
	}
	m.items = slices.Delete(m.items, i, i+1)
	return true
}

func (m *base) Purge() { m.items = nil }

func (m *base) Len() int { return len(m.items) }

func (m *base) Keys() []int {
	sorted := m.order(slices.Clone(m.items))
	keys := make([]int, len(sorted))
	for i, it := range sorted {
		keys[i] = it.key
	}
	return keys
}

// byTick orders by the tick field, oldest first.
func byTick(items []item) []item {
	sort.SliceStable(items, func(i, j int) bool { return items[i].tick < items[j].tick })
	return items
}

// oldestTick returns the index of the item with the smallest tick.
func oldestTick(items []item) int {
	best := 0
	for i, it := range items {
		if it.tick < items[best].tick {
			best = i
		}
	}
	return best
}

// NewFIFOModel evicts by insertion time; accesses are ignored.
func NewFIFOModel(capacity int) Model {
	return &base{cap: capacity, victim: oldestTick, order: byTick}
}

// NewLRUModel evicts by last access time.
func NewLRUModel(capacity int) Model {
	return &base{
		cap:           capacity,
		touchOnAccess: true,
		victim:        oldestTick,
		order:         byTick,
	}
}

// NewLFUModel evicts the lowest frequency, breaking ties by last access
// time. The victim is picked among resident keys before a new key is added.
func NewLFUModel(capacity int) Model {
	less := func(a, b item) bool {
		if a.freq != b.freq {
			return a.freq < b.freq
		}
		return a.tick < b.tick
	}
	return &base{
		cap:           capacity,
		touchOnAccess: true,
		countFreq:     true,
		evictBefore:   true,
		victim: func(items []item) int {
			best := 0
			for i, it := range items {
				if less(it, items[best]) {
					best = i
				}
			}
			return best
		},
		order: func(items []item) []item {
			sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
			return items
		},
	}
}
