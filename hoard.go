// Package hoard provides tiered caching with TTL expiry, LRU eviction,
// tag-based invalidation and hit statistics.
//
// Example usage:
//
//	manager, err := hoard.New(
//	    hoard.WithMemoryBackend(1000, 64<<20),
//	    hoard.WithDefaultTTL(5*time.Minute),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer manager.Close()
//
//	manager.Set(ctx, "greeting", "hello", hoard.WithTags("demo"))
//	if v, ok := manager.Get(ctx, "greeting"); ok {
//	    fmt.Println(v)
//	}
package hoard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/voxchain/hoard/internal/cache"
	"github.com/voxchain/hoard/internal/stats"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrNoBackend indicates no backend was provided.
	ErrNoBackend = errors.New("hoard: no backend provided")

	// ErrClosed indicates the manager has been closed.
	ErrClosed = errors.New("hoard: manager closed")
)

// Strategy labels the eviction policy a manager was configured with.
// The label is advisory: backends evict by recency regardless, and the
// label only flows into logs. Access frequency is still tracked so the
// declared policies have the data they would need.
type Strategy string

// Supported strategy labels.
const (
	StrategyLRU      Strategy = "lru"
	StrategyLFU      Strategy = "lfu"
	StrategyFIFO     Strategy = "fifo"
	StrategyAdaptive Strategy = "adaptive"
)

// Stats is a snapshot of one manager's counters and its backend's
// current footprint.
type Stats struct {
	Hits       int64
	Misses     int64
	Evictions  int64
	EntryCount int64
	SizeBytes  int64
	HitRate    float64 // Hits / (Hits + Misses), 0 before any access.
}

// Factory computes a value for a key on demand. Factory errors are the
// one error class the cache propagates to callers unchanged.
type Factory func(ctx context.Context) (any, error)

// Manager wraps one backend with statistics, get-or-compute, tag
// invalidation and warming. A Manager is safe for concurrent use by
// multiple goroutines; its public operations are serialized against each
// other, so two calls on the same manager are strictly ordered.
type Manager struct {
	backend    cache.Backend
	strategy   Strategy
	defaultTTL time.Duration
	collector  stats.Collector
	logger     *zap.Logger
	closed     atomic.Bool

	mu        sync.Mutex
	hits      int64
	misses    int64
	evictions int64

	warmMu  sync.Mutex
	warming map[string]struct{}
}

// New creates a new Manager with the given options.
func New(opts ...Option) (*Manager, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	backend, err := cfg.buildBackend()
	if err != nil {
		return nil, err
	}
	if backend == nil {
		return nil, ErrNoBackend
	}

	m := &Manager{
		backend:    backend,
		strategy:   cfg.strategy,
		defaultTTL: cfg.defaultTTL,
		collector:  cfg.stats,
		logger:     cfg.logger,
		warming:    make(map[string]struct{}),
	}

	m.logger.Debug("manager initialized",
		zap.String("strategy", string(m.strategy)),
		zap.Duration("defaultTTL", m.defaultTTL),
	)

	return m, nil
}

// Get returns the cached value for key. A miss, an expired entry, a
// backend failure and a closed manager all report ok=false; Get never
// fails with an error.
func (m *Manager) Get(ctx context.Context, key string) (any, bool) {
	if m.closed.Load() {
		return nil, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, err := m.backend.Get(ctx, key)
	if err != nil {
		m.misses++
		m.collector.IncCounter(stats.MetricMisses, 1)
		return nil, false
	}

	m.hits++
	m.collector.IncCounter(stats.MetricHits, 1)
	return entry.Value, true
}

// Set stores value under key, replacing any prior entry unconditionally.
// The entry's TTL defaults to the manager's default when no per-call TTL
// is given. Backend write failures are degraded to a dropped write, so
// Set never fails the caller.
func (m *Manager) Set(ctx context.Context, key string, value any, opts ...SetOption) {
	if m.closed.Load() {
		return
	}

	cfg := setConfig{}
	for _, opt := range opts {
		opt.applySet(&cfg)
	}
	ttl := cfg.ttl
	if ttl <= 0 {
		ttl = m.defaultTTL
	}

	entry := cache.NewEntry(key, value, ttl, cfg.tags)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.backend.Set(ctx, key, entry); err != nil {
		m.logger.Debug("set aborted", zap.String("key", key), zap.Error(err))
		return
	}
	m.collector.IncCounter(stats.MetricSets, 1)
}

// Delete removes key, reporting whether an entry was removed.
func (m *Manager) Delete(ctx context.Context, key string) bool {
	if m.closed.Load() {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ok, _ := m.backend.Delete(ctx, key)
	if ok {
		m.evictions++
		m.collector.IncCounter(stats.MetricEvictions, 1)
	}
	return ok
}

// Clear removes every entry and resets the manager's statistics.
func (m *Manager) Clear(ctx context.Context) {
	if m.closed.Load() {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.backend.Clear(ctx); err != nil {
		m.logger.Debug("clear aborted", zap.Error(err))
		return
	}
	m.hits, m.misses, m.evictions = 0, 0, 0
	m.collector.SetGauge(stats.MetricEntries, 0)
	m.collector.SetGauge(stats.MetricSizeBytes, 0)
}

// GetOrSet returns the cached value for key, computing and storing it
// via factory on a miss. Factory errors propagate unchanged and nothing
// is stored.
//
// Concurrent callers racing on the same missing key may each invoke the
// factory and each store their result, last write wins. There is no
// single-flight de-duplication.
func (m *Manager) GetOrSet(ctx context.Context, key string, factory Factory, opts ...SetOption) (any, error) {
	if v, ok := m.Get(ctx, key); ok {
		return v, nil
	}

	v, err := factory(ctx)
	if err != nil {
		return nil, err
	}

	m.Set(ctx, key, v, opts...)
	return v, nil
}

// InvalidateByTags deletes every entry whose tag set intersects tags and
// returns the number removed. The scan is O(n) over the backend; fine
// for the in-memory and dev-scale backends this library targets.
func (m *Manager) InvalidateByTags(ctx context.Context, tags ...string) int {
	if m.closed.Load() {
		return 0
	}

	keys := m.Keys(ctx)

	invalidated := 0
	for _, key := range keys {
		m.mu.Lock()
		entry, err := m.backend.Get(ctx, key)
		m.mu.Unlock()
		if err != nil {
			continue
		}
		if entry.HasAnyTag(tags) && m.Delete(ctx, key) {
			invalidated++
		}
	}
	return invalidated
}

// Warm computes and stores a value for each key that is not already
// being warmed by a concurrent Warm call. The first factory error aborts
// the remaining keys and propagates unchanged.
func (m *Manager) Warm(ctx context.Context, factories map[string]Factory) error {
	for key, factory := range factories {
		m.warmMu.Lock()
		if _, inflight := m.warming[key]; inflight {
			m.warmMu.Unlock()
			continue
		}
		m.warming[key] = struct{}{}
		m.warmMu.Unlock()

		v, err := factory(ctx)

		m.warmMu.Lock()
		delete(m.warming, key)
		m.warmMu.Unlock()

		if err != nil {
			return err
		}
		m.Set(ctx, key, v)
	}
	return nil
}

// Keys returns all keys currently stored in the backend, including
// entries that have expired but not yet been touched.
func (m *Manager) Keys(ctx context.Context) []string {
	if m.closed.Load() {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	keys, err := m.backend.Keys(ctx)
	if err != nil {
		return nil
	}
	return keys
}

// Stats returns the manager's counters with the backend's current size
// and entry count refreshed.
func (m *Manager) Stats(ctx context.Context) Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Stats{
		Hits:      m.hits,
		Misses:    m.misses,
		Evictions: m.evictions,
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}

	if m.closed.Load() {
		return s
	}

	if size, err := m.backend.Size(ctx); err == nil {
		s.SizeBytes = size
	}
	if keys, err := m.backend.Keys(ctx); err == nil {
		s.EntryCount = int64(len(keys))
	}

	m.collector.SetGauge(stats.MetricEntries, s.EntryCount)
	m.collector.SetGauge(stats.MetricSizeBytes, s.SizeBytes)
	return s
}

// Strategy returns the advisory strategy label the manager carries.
func (m *Manager) Strategy() Strategy {
	return m.strategy
}

// Close releases the backend. After Close the manager reports misses.
func (m *Manager) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	if err := m.backend.Close(); err != nil {
		return fmt.Errorf("closing backend: %w", err)
	}
	return nil
}
