// Package singleflight coalesces concurrent loads of the same key.
package singleflight

import (
	"context"
	"sync"
)

// Group coalesces concurrent function calls for the same key K so that
// the supplied fn is executed at most once per flight. Other concurrent
// callers wait for the shared result.
//
// Keys are compared with ==, so two keys share a flight only if they are
// equal as map keys.
//
// Concurrency notes:
//   - The first caller for a key starts fn in its own goroutine; every
//     caller, the first one included, then waits for the result.
//   - Publishing (val, err) happens-before close(c.done), so reads after
//     <-done observe the final values.
//   - Cancelling ctx unblocks only that caller. fn keeps running and its
//     result is still delivered to the callers that stayed.
type Group[K comparable, V any] struct {
	mu sync.Mutex
	m  map[K]*call[V]
}

type call[V any] struct {
	done chan struct{} // closed when val/err are published
	val  V
	err  error
	dups int
}

// Do runs fn once for the given key and returns its result. shared reports
// whether the result was delivered to more than one caller. If ctx is done
// first, Do returns ctx.Err() and fn is left running.
func (g *Group[K, V]) Do(ctx context.Context, key K,
	fn func() (V, error)) (v V, shared bool, err error) {

	g.mu.Lock()
	if g.m == nil {
		g.m = make(map[K]*call[V])
	}
	c, ok := g.m[key]
	if ok {
		c.dups++
	} else {
		c = &call[V]{done: make(chan struct{})}
		g.m[key] = c
		go g.run(key, c, fn)
	}
	g.mu.Unlock()

	select {
	case <-c.done:
		g.mu.Lock()
		shared = c.dups > 0
		g.mu.Unlock()
		return c.val, shared, c.err

	case <-ctx.Done():
		var zero V
		return zero, false, ctx.Err()
	}
}

// run executes fn, publishes its result and removes the in-flight marker.
func (g *Group[K, V]) run(key K, c *call[V], fn func() (V, error)) {
	c.val, c.err = fn()

	g.mu.Lock()
	delete(g.m, key)
	g.mu.Unlock()

	close(c.done)
}
