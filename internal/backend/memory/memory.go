// Package memory implements an in-memory cache backend bounded by both an
// entry count and a total byte budget.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"go.uber.org/zap"

	"github.com/voxchain/hoard/internal/cache"
	"github.com/voxchain/hoard/internal/stats"
)

// Compile-time check that Backend implements cache.Backend.
var _ cache.Backend = (*Backend)(nil)

// Backend is a thread-safe in-memory cache backend. Eviction is driven by
// recency: when a write would exceed either bound, the least-recently-used
// entries are dropped first. Access frequency is tracked per key alongside
// the LRU order; it does not influence eviction.
type Backend struct {
	maxBytes  int64
	collector stats.Collector
	logger    *zap.Logger

	mu       sync.Mutex
	lru      *simplelru.LRU[string, *cache.Entry]
	freq     map[string]int64
	curBytes int64
}

// New creates a memory backend holding at most maxEntries entries and
// maxBytes total bytes. The collector and logger are optional.
func New(maxEntries int, maxBytes int64, collector stats.Collector, logger *zap.Logger) (*Backend, error) {
	if collector == nil {
		collector = stats.NewNoop()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	b := &Backend{
		maxBytes:  maxBytes,
		collector: collector,
		logger:    logger,
		freq:      make(map[string]int64),
	}

	// The LRU index enforces the entry bound itself; the byte bound is
	// enforced by the eviction loop in Set. The callback keeps byte and
	// frequency bookkeeping consistent for every removal path.
	lru, err := simplelru.NewLRU(maxEntries, func(key string, e *cache.Entry) {
		b.curBytes -= e.SizeBytes
		delete(b.freq, key)
	})
	if err != nil {
		return nil, err
	}
	b.lru = lru

	return b, nil
}

// Get returns the entry for key, refreshing its recency and frequency.
// Expired entries are removed and reported as misses.
func (b *Backend) Get(ctx context.Context, key string) (*cache.Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.lru.Get(key)
	if !ok {
		return nil, cache.ErrNotFound
	}

	now := time.Now()
	if entry.Expired(now) {
		b.lru.Remove(key)
		return nil, cache.ErrNotFound
	}

	entry.Touch(now)
	b.freq[key]++
	return entry, nil
}

// Set stores entry under key, evicting least-recently-used entries until
// the new entry fits under both bounds. A single entry larger than the
// whole byte budget is stored anyway once the cache is empty; that case
// is logged rather than rejected.
func (b *Backend) Set(ctx context.Context, key string, entry *cache.Entry) error {
	entry.SizeBytes = cache.ValueSize(entry.Value)

	b.mu.Lock()
	defer b.mu.Unlock()

	// Overwrites keep the key's accumulated access frequency.
	var prior int64
	if _, ok := b.lru.Peek(key); ok {
		prior = b.freq[key]
		b.lru.Remove(key)
	}

	evicted := 0
	for b.curBytes+entry.SizeBytes > b.maxBytes && b.lru.Len() > 0 {
		b.lru.RemoveOldest()
		evicted++
	}
	if entry.SizeBytes > b.maxBytes {
		b.logger.Warn("entry exceeds cache byte budget",
			zap.String("key", key),
			zap.Int64("sizeBytes", entry.SizeBytes),
			zap.Int64("maxBytes", b.maxBytes),
		)
	}

	// Adding at the entry bound evicts the oldest entry internally.
	if b.lru.Add(key, entry) {
		evicted++
	}
	b.curBytes += entry.SizeBytes
	b.freq[key] = prior + 1

	if evicted > 0 {
		b.collector.IncCounter(stats.MetricBackendEvictions, int64(evicted))
	}
	b.collector.SetGauge(stats.MetricEntries, int64(b.lru.Len()))
	b.collector.SetGauge(stats.MetricSizeBytes, b.curBytes)
	return nil
}

// Delete removes the entry for key.
func (b *Backend) Delete(ctx context.Context, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lru.Remove(key), nil
}

// Clear removes all entries.
func (b *Backend) Clear(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lru.Purge()
	b.curBytes = 0
	b.freq = make(map[string]int64)
	return nil
}

// Keys returns all stored keys, oldest access first.
func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lru.Keys(), nil
}

// Size returns the total stored bytes.
func (b *Backend) Size(ctx context.Context) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.curBytes, nil
}

// Close is a no-op for the memory backend.
func (b *Backend) Close() error {
	return nil
}

// Frequency returns the tracked access count for key. The count is
// advisory: it is maintained on every get and set but eviction remains
// recency-driven.
func (b *Backend) Frequency(key string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.freq[key]
}

// Len returns the number of stored entries.
func (b *Backend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lru.Len()
}
