package singleflight

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDo_CoalescesSameKey(t *testing.T) {
	t.Parallel()

	var (
		g       Group[string, int]
		calls   atomic.Int64
		release = make(chan struct{})
	)
	fn := func() (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	const n = 16
	var (
		wg     sync.WaitGroup
		shared atomic.Int64
	)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			v, sh, err := g.Do(context.Background(), "k", fn)
			if err != nil || v != 42 {
				t.Errorf("Do: v=%d err=%v", v, err)
			}
			if sh {
				shared.Add(1)
			}
		}()
	}

	// Release fn only once every caller has joined the flight.
	require.Eventually(t, func() bool {
		g.mu.Lock()
		defer g.mu.Unlock()
		c, ok := g.m["k"]
		return ok && c.dups == n-1
	}, 2*time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	require.EqualValues(t, 1, calls.Load())
	require.EqualValues(t, n, shared.Load())
}

// Keys that format alike but are not equal must not share a flight.
func TestDo_DistinctKeysDoNotShare(t *testing.T) {
	t.Parallel()

	var g Group[any, string]
	release := make(chan struct{})
	started := make(chan struct{}, 2)

	load := func(k any) func() (string, error) {
		return func() (string, error) {
			started <- struct{}{}
			<-release
			return typeName(k), nil
		}
	}

	var wg sync.WaitGroup
	got := make([]string, 2)
	for i, k := range []any{1, int64(1)} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, _, err := g.Do(context.Background(), k, load(k))
			if err != nil {
				t.Errorf("Do(%#v): %v", k, err)
			}
			got[i] = v
		}()
	}

	// Both loads must be running at the same time.
	for i := 0; i < 2; i++ {
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatal("keys 1 and int64(1) shared one load")
		}
	}
	close(release)
	wg.Wait()

	require.Equal(t, []string{"int", "int64"}, got)
}

func TestDo_ErrorIsShared(t *testing.T) {
	t.Parallel()

	var g Group[int, int]
	errBoom := errors.New("boom")

	_, _, err := g.Do(context.Background(), 1, func() (int, error) {
		return 0, errBoom
	})
	require.ErrorIs(t, err, errBoom)

	// A finished flight is forgotten; the next call runs fn again.
	v, _, err := g.Do(context.Background(), 1, func() (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	require.Equal(t, 7, v)
}

// A cancelled caller returns at once while fn finishes for the others.
func TestDo_CancelUnblocksOnlyCaller(t *testing.T) {
	t.Parallel()

	var g Group[string, string]
	release := make(chan struct{})
	fn := func() (string, error) {
		<-release
		return "done", nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := g.Do(ctx, "k", fn)
	require.ErrorIs(t, err, context.Canceled)

	res := make(chan string, 1)
	go func() {
		v, _, _ := g.Do(context.Background(), "k", fn)
		res <- v
	}()

	close(release)
	select {
	case v := <-res:
		require.Equal(t, "done", v)
	case <-time.After(2 * time.Second):
		t.Fatal("waiting caller was not released")
	}
}

func typeName(k any) string {
	switch k.(type) {
	case int:
		return "int"
	case int64:
		return "int64"
	default:
		return "other"
	}
}
