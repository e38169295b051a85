package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goThrottle "github.com/KarimL92/goThrottle"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func main() {
	var (
		concurrency = flag.Int("concurrency", 64, "number of concurrent workers")
		ops         = flag.Int("ops", 5000, "evaluations against the shared key")
		limit       = flag.Int("limit", 100, "default per-window limit")
		window      = flag.Duration("window", time.Minute, "counting window")
		poolSize    = flag.Int("pool-size", 16, "store evaluation slots")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
	)
	flag.Parse()

	if *concurrency <= 0 || *ops <= 0 || *limit < -1 {
		fmt.Fprintln(os.Stderr, "concurrency and ops must be > 0, limit must be >= -1")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	cfg := goThrottle.DefaultConfig()
	cfg.JWT.Secret = []byte("loadtest-secret")
	cfg.Limiter.DefaultLimit = *limit
	cfg.Limiter.Window = *window
	cfg.Pool.Size = *poolSize
	cfg.Pool.CheckoutTimeout = 5 * time.Second

	engine, err := goThrottle.New().WithConfig(cfg).WithRedis(client).Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine build failed: %v\n", err)
		os.Exit(1)
	}

	stats := runStorm(ctx, engine, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats(stats)

	// Every worker hammers one shared address, so the read-modify-write cycle
	// races with itself and some requests beyond the nominal limit are admitted.
	// The overshoot below quantifies that on this run.
	if *limit >= 0 && stats.allowed > int64(*limit) {
		fmt.Printf("over-admission: %d allowed past the limit of %d (non-atomic window update)\n",
			stats.allowed-int64(*limit), *limit)
	}

	fmt.Println("---- engine counters ----")
	snap := engine.MetricsSnapshot()
	for id := goThrottle.MetricID(0); id < goThrottle.MetricCount; id++ {
		if v, ok := snap.Counters[id]; ok {
			fmt.Printf("%s %d\n", id.Name(), v)
		}
	}
}

func runStorm(ctx context.Context, engine *goThrottle.Engine, ops, concurrency int) stormStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		allowed   int64
		denied    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}

				t0 := time.Now()
				d, err := engine.Evaluate(ctx, http.Header{}, "10.0.0.1")
				elapsed := time.Since(t0)

				switch {
				case err != nil:
					atomic.AddInt64(&failures, 1)
				case d.Denied():
					atomic.AddInt64(&denied, 1)
				default:
					atomic.AddInt64(&allowed, 1)
				}

				mu.Lock()
				latencies = append(latencies, elapsed)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	total := time.Since(start)

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	return stormStats{
		total:    total,
		ops:      len(latencies),
		allowed:  allowed,
		denied:   denied,
		failures: failures,
		p50:      percentile(latencies, 50),
		p95:      percentile(latencies, 95),
		p99:      percentile(latencies, 99),
		opsPerS:  float64(len(latencies)) / total.Seconds(),
	}
}

type stormStats struct {
	total    time.Duration
	ops      int
	allowed  int64
	denied   int64
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(s stormStats) {
	fmt.Printf("evaluate: ops=%d allowed=%d denied=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		s.ops,
		s.allowed,
		s.denied,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
