package cache

import (
	"math/rand"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/IvanBrykalov/evictcache/policy"
)

// benchmarkMix exercises a read/write mix against a warm cache.
// It uses parallel workers (RunParallel spawns GOMAXPROCS goroutines), which
// all contend on the single cache lock.
func benchmarkMix(b *testing.B, kind policy.Kind, readsPct int) {
	c, err := New(Options[string, string]{
		Capacity: 100_000,
		Policy:   kind,
	})
	if err != nil {
		b.Fatal(err)
	}

	// Preload half the capacity to get a realistic hit-rate.
	for i := 0; i < 50_000; i++ {
		c.Put("k:"+strconv.Itoa(i), "v")
	}

	b.ReportAllocs()
	b.ResetTimer()

	var seed int64 = 1
	keyMask := (1 << 17) - 1 // keyspace larger than capacity to force evictions

	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(atomic.AddInt64(&seed, 1)))
		for pb.Next() {
			k := "k:" + strconv.Itoa(r.Int()&keyMask)
			if r.Intn(100) < readsPct {
				c.Get(k)
			} else {
				c.Put(k, "v")
			}
		}
	})
}

func BenchmarkCache_90r10w(b *testing.B) {
	for _, kind := range policy.Kinds() {
		b.Run(kind.String(), func(b *testing.B) { benchmarkMix(b, kind, 90) })
	}
}

func BenchmarkCache_50r50w(b *testing.B) {
	for _, kind := range policy.Kinds() {
		b.Run(kind.String(), func(b *testing.B) { benchmarkMix(b, kind, 50) })
	}
}

// benchmarkPolicy measures a bare policy without the lock, int keys.
func benchmarkPolicy(b *testing.B, p policy.Policy[int, int]) {
	for i := 0; i < p.Cap(); i++ {
		p.Put(i, i)
	}
	b.ReportAllocs()
	b.ResetTimer()

	mask := 2*p.Cap() - 1
	for i := 0; i < b.N; i++ {
		k := (i * 7919) & mask
		if i&3 == 0 {
			p.Put(k, i)
		} else {
			p.Get(k)
		}
	}
}

func BenchmarkPolicy_IntKeys(b *testing.B) {
	for _, kind := range policy.Kinds() {
		b.Run(kind.String(), func(b *testing.B) {
			p, err := newPolicy[int, int](kind, 1<<16, nil)
			if err != nil {
				b.Fatal(err)
			}
			benchmarkPolicy(b, p)
		})
	}
}
