// Package analysis provides statistical summaries for benchmark results.
package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary describes a latency sample.
type Summary struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	P50    float64
	P95    float64
	P99    float64
}

// Summarize computes summary statistics over the sample. Returns a zero
// Summary for an empty sample.
func Summarize(sample []float64) Summary {
	if len(sample) == 0 {
		return Summary{}
	}

	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	return Summary{
		N:      len(sorted),
		Mean:   stat.Mean(sorted, nil),
		StdDev: stat.StdDev(sorted, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P50:    stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P95:    stat.Quantile(0.95, stat.Empirical, sorted, nil),
		P99:    stat.Quantile(0.99, stat.Empirical, sorted, nil),
	}
}
