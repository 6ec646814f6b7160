// Package simulation provides tools for replaying keyed access
// workloads against a cache and measuring its behavior.
package simulation

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/voxchain/hoard"
)

// Target is the cache surface a workload runs against. Both
// *hoard.Manager and *hoard.Hierarchy satisfy it.
type Target interface {
	Get(ctx context.Context, key string) (any, bool)
	Set(ctx context.Context, key string, value any, opts ...hoard.SetOption)
}

// Workload describes a synthetic access pattern.
type Workload struct {
	// Keys is the size of the key space.
	Keys int

	// Operations is the total number of cache operations to run.
	Operations int

	// ReadRatio is the fraction of operations that are reads, in [0, 1].
	ReadRatio float64

	// Skew shapes the key popularity distribution. Values above 1 use a
	// zipf distribution with that exponent; otherwise keys are uniform.
	Skew float64

	// ValueBytes is the payload size written on each set.
	ValueBytes int

	// Seed makes runs reproducible.
	Seed int64
}

// Result aggregates one workload run.
type Result struct {
	Hits   int64
	Misses int64
	Sets   int64

	// GetMicros holds per-read latencies in microseconds, in order.
	GetMicros []float64
}

// HitRate returns Hits / (Hits + Misses), 0 when there were no reads.
func (r *Result) HitRate() float64 {
	total := r.Hits + r.Misses
	if total == 0 {
		return 0
	}
	return float64(r.Hits) / float64(total)
}

// Run replays the workload against the target.
func Run(ctx context.Context, target Target, w Workload) (*Result, error) {
	if w.Keys <= 0 || w.Operations <= 0 {
		return nil, fmt.Errorf("workload needs positive keys and operations, got %d/%d", w.Keys, w.Operations)
	}
	if w.ValueBytes <= 0 {
		w.ValueBytes = 64
	}

	rng := rand.New(rand.NewSource(w.Seed))

	var zipf *rand.Zipf
	if w.Skew > 1 {
		zipf = rand.NewZipf(rng, w.Skew, 1, uint64(w.Keys-1))
	}
	nextKey := func() string {
		if zipf != nil {
			return fmt.Sprintf("key-%06d", zipf.Uint64())
		}
		return fmt.Sprintf("key-%06d", rng.Intn(w.Keys))
	}

	payload := string(make([]byte, w.ValueBytes))

	result := &Result{
		GetMicros: make([]float64, 0, w.Operations),
	}

	for i := 0; i < w.Operations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		key := nextKey()
		if rng.Float64() < w.ReadRatio {
			start := time.Now()
			_, ok := target.Get(ctx, key)
			result.GetMicros = append(result.GetMicros, float64(time.Since(start).Microseconds()))
			if ok {
				result.Hits++
			} else {
				result.Misses++
				// Model the caller re-populating on a miss.
				target.Set(ctx, key, payload)
				result.Sets++
			}
		} else {
			target.Set(ctx, key, payload)
			result.Sets++
		}
	}

	return result, nil
}
