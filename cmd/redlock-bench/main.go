// Command redlock-bench measures acquire/release throughput and latency
// against a quorum of Redis servers, following the flag-driven,
// markdown-table-output style of the teacher's bench/main.go.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"

	"github.com/mirkobrombin/redlock/v1/redlock"
)

var (
	concurrency = flag.Int("c", 20, "Concurrency")
	requests    = flag.Int("n", 2000, "Requests per worker")
	addrs       = flag.String("addrs", "", "Comma-separated redis:// addresses; empty spins up 3 in-process miniredis servers")
	ttl         = flag.Duration("ttl", 500*time.Millisecond, "Lock TTL")
	resource    = flag.String("resource", "bench:resource", "Resource name to contend on")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	instances, cleanup := buildInstances(ctx)
	defer cleanup()

	coord, err := redlock.NewCoordinator(instances, redlock.WithRetryCount(0))
	if err != nil {
		log.Fatalf("new coordinator: %v", err)
	}

	fmt.Printf("| %-12s | %-10s | %-14s | %-10s |\n", "Workers", "Attempts", "Grants/sec", "Avg Latency")
	fmt.Println("|:---|:---|:---|:---|")
	runBenchmark(ctx, coord)
}

func buildInstances(ctx context.Context) ([]*redlock.Instance, func()) {
	if *addrs == "" {
		var closers []func()
		var instances []*redlock.Instance
		for i := 0; i < 3; i++ {
			mr, err := miniredis.Run()
			if err != nil {
				log.Fatalf("miniredis: %v", err)
			}
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			inst, err := redlock.NewInstanceFromClient(ctx, client)
			if err != nil {
				log.Fatalf("new instance: %v", err)
			}
			instances = append(instances, inst)
			closers = append(closers, func() { _ = client.Close(); mr.Close() })
		}
		return instances, func() {
			for _, c := range closers {
				c()
			}
		}
	}

	var instances []*redlock.Instance
	for _, url := range strings.Split(*addrs, ",") {
		inst, err := redlock.NewInstanceFromURL(ctx, strings.TrimSpace(url), 100*time.Millisecond)
		if err != nil {
			log.Fatalf("new instance from %s: %v", url, err)
		}
		instances = append(instances, inst)
	}
	return instances, func() {}
}

func runBenchmark(ctx context.Context, coord *redlock.Coordinator) {
	var wg sync.WaitGroup
	var attempts, grants int64
	var totalLatency int64

	start := time.Now()
	for w := 0; w < *concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < *requests; i++ {
				reqStart := time.Now()
				l, err := coord.Lock(ctx, *resource, *ttl)
				atomic.AddInt64(&attempts, 1)
				if err == nil {
					atomic.AddInt64(&grants, 1)
					atomic.AddInt64(&totalLatency, int64(time.Since(reqStart)))
					coord.Unlock(ctx, l)
				}
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	grantsPerSec := float64(grants) / elapsed.Seconds()
	avgLatency := time.Duration(0)
	if grants > 0 {
		avgLatency = time.Duration(totalLatency / grants)
	}

	fmt.Printf("| %-12d | %-10d | %-14.0f | %-10s |\n", *concurrency, attempts, grantsPerSec, avgLatency)
}
