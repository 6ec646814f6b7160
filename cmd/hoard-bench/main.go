// Package main benchmarks cache configurations against synthetic
// workloads and prints latency and hit-rate summaries.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/voxchain/hoard"
	"github.com/voxchain/hoard/benchmark/analysis"
	"github.com/voxchain/hoard/benchmark/simulation"
)

func main() {
	var (
		keys       = flag.Int("keys", 10000, "key space size")
		operations = flag.Int("ops", 100000, "total operations")
		readRatio  = flag.Float64("read-ratio", 0.9, "fraction of operations that are reads")
		skew       = flag.Float64("skew", 1.2, "zipf exponent (<=1 for uniform keys)")
		valueBytes = flag.Int("value-bytes", 256, "payload size per entry")
		maxEntries = flag.Int("max-entries", 2000, "memory tier entry bound")
		tiered     = flag.Bool("tiered", false, "benchmark a memory+disk hierarchy instead of memory only")
		seed       = flag.Int64("seed", 42, "workload seed")
	)
	flag.Parse()

	ctx := context.Background()

	target, cleanup, err := buildTarget(*tiered, *maxEntries)
	if err != nil {
		log.Fatalf("building cache: %v", err)
	}
	defer cleanup()

	workload := simulation.Workload{
		Keys:       *keys,
		Operations: *operations,
		ReadRatio:  *readRatio,
		Skew:       *skew,
		ValueBytes: *valueBytes,
		Seed:       *seed,
	}

	result, err := simulation.Run(ctx, target, workload)
	if err != nil {
		log.Fatalf("running workload: %v", err)
	}

	summary := analysis.Summarize(result.GetMicros)

	fmt.Printf("Operations: %d (%.0f%% reads, skew %.2f)\n", *operations, *readRatio*100, *skew)
	fmt.Printf("Hits:       %d\n", result.Hits)
	fmt.Printf("Misses:     %d\n", result.Misses)
	fmt.Printf("Sets:       %d\n", result.Sets)
	fmt.Printf("Hit rate:   %.2f%%\n", result.HitRate()*100)
	fmt.Println()
	fmt.Printf("Read latency (µs): mean=%.1f stddev=%.1f p50=%.1f p95=%.1f p99=%.1f max=%.1f\n",
		summary.Mean, summary.StdDev, summary.P50, summary.P95, summary.P99, summary.Max)
}

// buildTarget assembles the cache under test.
func buildTarget(tiered bool, maxEntries int) (simulation.Target, func(), error) {
	l1, err := hoard.New(hoard.WithMemoryBackend(maxEntries, hoard.DefaultMaxBytes))
	if err != nil {
		return nil, nil, err
	}

	if !tiered {
		return l1, func() { l1.Close() }, nil
	}

	dir, err := os.MkdirTemp("", "hoard-bench-*")
	if err != nil {
		l1.Close()
		return nil, nil, err
	}

	l2, err := hoard.New(hoard.WithDiskBackend(dir, hoard.DefaultDiskBytes))
	if err != nil {
		l1.Close()
		os.RemoveAll(dir)
		return nil, nil, err
	}

	h := hoard.NewHierarchy()
	h.AddLevel(hoard.L1Memory, l1)
	h.AddLevel(hoard.L2Disk, l2)

	cleanup := func() {
		h.Close()
		os.RemoveAll(dir)
	}
	return h, cleanup, nil
}
