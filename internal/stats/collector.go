// Package stats provides a unified interface for collecting cache metrics.
package stats

// Metric names used throughout the library.
const (
	// Manager metrics.
	MetricHits      = "hoard_hits_total"
	MetricMisses    = "hoard_misses_total"
	MetricEvictions = "hoard_evictions_total"
	MetricSets      = "hoard_sets_total"
	MetricEntries   = "hoard_entries"
	MetricSizeBytes = "hoard_size_bytes"

	// Hierarchy metrics.
	MetricPromotions = "hoard_promotions_total"

	// Backend metrics.
	MetricBackendEvictions = "hoard_backend_evictions_total"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
