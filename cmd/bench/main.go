// Command bench runs a synthetic Zipf workload against each eviction policy
// and reports throughput and hit rate. Prometheus metrics and pprof can be
// served while it runs.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/IvanBrykalov/evictcache/cache"
	pmet "github.com/IvanBrykalov/evictcache/metrics/prom"
	"github.com/IvanBrykalov/evictcache/policy"
	"github.com/btcsuite/btclog/v2"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		// go-flags already printed usage for -h.
		var fe *flags.Error
		if errors.As(err, &fe) && fe.Type == flags.ErrHelp {
			os.Exit(0)
		}
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := btclog.NewSLogger(btclog.NewDefaultHandler(os.Stdout))
	log.SetLevel(cfg.level)

	if cfg.PprofAddr != "" {
		go func() {
			log.Infof("pprof: serving at %s", cfg.PprofAddr)
			log.Error(http.ListenAndServe(cfg.PprofAddr, nil))
		}()
	}
	if cfg.MetricsAddr != "" {
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			log.Infof("metrics: serving at %s", cfg.MetricsAddr)
			log.Error(http.ListenAndServe(cfg.MetricsAddr, nil))
		}()
	}

	for _, kind := range cfg.kinds {
		res, err := run(cfg, kind, log)
		if err != nil {
			log.Criticalf("policy %s: %v", kind, err)
			os.Exit(1)
		}
		res.print(cfg)
	}
}

// result is the outcome of one policy run.
type result struct {
	kind    policy.Kind
	workers int
	elapsed time.Duration
	ops     uint64
	reads   uint64
	writes  uint64
	stats   cache.Stats
}

func (r result) print(cfg *config) {
	fmt.Printf("policy=%s cap=%d workers=%d keys=%d dur=%v seed=%d\n",
		r.kind, cfg.Capacity, r.workers, cfg.Keys, r.elapsed, cfg.Seed)
	fmt.Printf("  ops=%d (%.0f ops/s)  reads=%d  writes=%d\n",
		r.ops, float64(r.ops)/r.elapsed.Seconds(), r.reads, r.writes)
	fmt.Printf("  hits=%d  misses=%d  hit-rate=%.2f%%  evictions=%d  len=%d\n",
		r.stats.Hits, r.stats.Misses, r.stats.HitRatio()*100,
		r.stats.Evictions, r.stats.Len)
}

// run builds a cache for kind, preloads it and drives the workload for
// cfg.Duration.
func run(cfg *config, kind policy.Kind, log btclog.Logger) (result, error) {
	metrics := pmet.New(nil, "evictcache", "bench",
		prometheus.Labels{"policy": string(kind)})

	c, err := cache.New(cache.Options[string, string]{
		Capacity: cfg.Capacity,
		Policy:   kind,
		Metrics:  metrics,
		Logger:   log,
	})
	if err != nil {
		return result{}, err
	}

	for i := 0; i < cfg.Preload; i++ {
		c.Put("k:"+strconv.Itoa(i), "v"+strconv.Itoa(i))
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 2 * runtime.GOMAXPROCS(0)
	}

	var reads, writes, total atomic.Uint64
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()

	log.Infof("Running %s workload: workers=%d duration=%v", kind, workers,
		cfg.Duration)

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			// rand.Rand is not goroutine-safe, so each worker owns one.
			r := rand.New(rand.NewSource(cfg.Seed + int64(w)*9973))
			zipf := rand.NewZipf(r, cfg.ZipfS, cfg.ZipfV, uint64(cfg.Keys-1))

			key := func() string {
				return "k:" + strconv.FormatUint(zipf.Uint64(), 10)
			}

			for {
				select {
				case <-ctx.Done():
					return nil
				default:
				}

				total.Add(1)
				if int(r.Int31n(100)) < cfg.ReadPct {
					reads.Add(1)
					c.Get(key())
				} else {
					writes.Add(1)
					c.Put(key(), "v"+strconv.Itoa(r.Int()))
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return result{}, err
	}

	return result{
		kind:    kind,
		workers: workers,
		elapsed: time.Since(start),
		ops:     total.Load(),
		reads:   reads.Load(),
		writes:  writes.Load(),
		stats:   c.Stats(),
	}, nil
}
