package cache

import (
	"context"
	"math/rand"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/IvanBrykalov/evictcache/policy"
)

// A mixed workload of concurrent Put/Get/Peek/Remove on random keys, once
// per policy. Should pass under `-race`, and the capacity bound must hold
// whenever it is observed.
func TestRace_Basic(t *testing.T) {
	for _, kind := range policy.Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			t.Parallel()

			const capacity = 512
			c, err := New(Options[string, []byte]{Capacity: capacity, Policy: kind})
			if err != nil {
				t.Fatal(err)
			}

			workers := 4 * runtime.GOMAXPROCS(0)
			keyspace := 5_000
			deadline := time.Now().Add(500 * time.Millisecond)

			var wg sync.WaitGroup
			wg.Add(workers)
			for w := 0; w < workers; w++ {
				go func(id int) {
					defer wg.Done()
					r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)*9973))
					for time.Now().Before(deadline) {
						k := "k:" + strconv.Itoa(r.Intn(keyspace))
						switch r.Intn(100) {
						case 0, 1, 2, 3, 4: // ~5% Remove
							c.Remove(k)
						case 5, 6, 7, 8, 9: // ~5% Peek
							c.Peek(k)
						case 10, 11, 12, 13, 14, 15, 16, 17, 18, 19: // ~10% Put
							c.Put(k, []byte("x"))
						default: // ~80% Get
							c.Get(k)
						}
						if n := c.Len(); n > capacity {
							t.Errorf("Len %d exceeds capacity %d", n, capacity)
							return
						}
					}
				}(w)
			}
			wg.Wait()

			st := c.Stats()
			if st.Len != len(c.Keys()) {
				t.Fatalf("Stats.Len %d != len(Keys) %d", st.Len, len(c.Keys()))
			}
		})
	}
}

// One hundred goroutines call GetOrLoad on the same key concurrently.
// The Loader should run at most once (singleflight coalescing).
func TestRace_GetOrLoad(t *testing.T) {
	var calls int64

	c, err := New(Options[string, string]{
		Capacity: 1024,
		Loader: func(_ context.Context, k string) (string, error) {
			atomic.AddInt64(&calls, 1)
			time.Sleep(2 * time.Millisecond) // simulate I/O
			return "v:" + k, nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	const goroutines = 100
	key := "same-key"

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := c.GetOrLoad(context.Background(), key)
			if err != nil {
				t.Errorf("GetOrLoad error: %v", err)
				return
			}
			if v != "v:"+key {
				t.Errorf("unexpected value: %q", v)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt64(&calls); got > 1 {
		t.Fatalf("loader should run at most once, got %d", got)
	}

	// Subsequent call should be a pure cache hit.
	if v, err := c.GetOrLoad(context.Background(), key); err != nil || v != "v:"+key {
		t.Fatalf("second GetOrLoad failed: v=%q err=%v", v, err)
	}
}
