// Command bench runs a synthetic, Zipf-skewed read/write workload against
// the cache and reports throughput and hit rate.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/archcache/boundedcache/cache"
)

func main() {
	var (
		memoryLimitMB = flag.Int("mem", 64, "cache memory limit in megabytes")
		mode          = flag.String("mode", "LRU", "eviction policy: LRU | LRA | LFU")

		workers  = flag.Int("workers", 8, "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct  = flag.Int("reads", 80, "read percentage [0..100]")

		keys    = flag.Int("keys", 1_000_000, "keyspace size")
		zipfS   = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV   = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		preload = flag.Int("preload", 10_000, "number of keys to preload before the run")
	)
	flag.Parse()

	c, err := cache.New(cache.Options{
		MemoryLimitMB: *memoryLimitMB,
		Mode:          cache.Mode(*mode),
	})
	if err != nil {
		fmt.Println("cache.New:", err)
		return
	}

	for i := 0; i < *preload; i++ {
		k := "k:" + strconv.Itoa(i)
		_ = c.Put(k, "v"+strconv.Itoa(i))
	}

	readPctVal := *readPct
	keysMax := uint64(*keys - 1)
	seedBase := *seed
	zipfSVal := *zipfS
	zipfVVal := *zipfV
	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}

	var reads, writes, hits, misses, rejected, total uint64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workersN; w++ {
		w := w
		g.Go(func() error {
			// Each worker gets its own RNG + Zipf generator (rand.Rand is not
			// goroutine-safe).
			localR := rand.New(rand.NewSource(seedBase + int64(w)*9973))
			localZipf := rand.NewZipf(localR, zipfSVal, zipfVVal, keysMax)

			keyByZipf := func() string {
				return "k:" + strconv.FormatUint(localZipf.Uint64(), 10)
			}

			for {
				select {
				case <-gctx.Done():
					return nil
				default:
				}

				atomic.AddUint64(&total, 1)
				if int(localR.Int31n(100)) < readPctVal {
					atomic.AddUint64(&reads, 1)
					if _, err := c.Get(keyByZipf()); err == nil {
						atomic.AddUint64(&hits, 1)
					} else {
						atomic.AddUint64(&misses, 1)
					}
				} else {
					atomic.AddUint64(&writes, 1)
					k := keyByZipf()
					if err := c.Put(k, "v"+strconv.Itoa(localR.Int())); err != nil {
						atomic.AddUint64(&rejected, 1)
					}
				}
			}
		})
	}
	_ = g.Wait()
	elapsed := time.Since(start)

	ops := atomic.LoadUint64(&total)
	readsN := atomic.LoadUint64(&reads)
	writesN := atomic.LoadUint64(&writes)
	hitsN := atomic.LoadUint64(&hits)
	missesN := atomic.LoadUint64(&misses)
	rejectedN := atomic.LoadUint64(&rejected)

	hitRate := 0.0
	if readsN > 0 {
		hitRate = float64(hitsN) / float64(readsN) * 100
	}

	fmt.Printf("mode=%s mem=%dMB workers=%d keys=%d dur=%v seed=%d\n",
		*mode, *memoryLimitMB, workersN, *keys, elapsed, seedBase)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d  rejected=%d\n",
		ops, float64(ops)/elapsed.Seconds(), readsN, writesN, rejectedN)
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n", hitsN, missesN, hitRate)
	fmt.Printf("resident entries=%d  usage=%.2fMB (%.1f%%)\n",
		len(c.Identifiers()), c.MemoryUsageMB(), c.MemoryUsageFraction()*100)
}
