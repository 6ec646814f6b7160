package hoard

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/voxchain/hoard/internal/stats"
)

// Level identifies one tier of a hierarchical cache.
type Level int

// Tiers in priority order. Lookups cascade from L1 downward.
const (
	L1Memory Level = iota
	L2Disk
	L3Distributed
)

// levelOrder is the fixed query priority.
var levelOrder = [...]Level{L1Memory, L2Disk, L3Distributed}

// String returns the tier's conventional name.
func (l Level) String() string {
	switch l {
	case L1Memory:
		return "l1_memory"
	case L2Disk:
		return "l2_disk"
	case L3Distributed:
		return "l3_distributed"
	default:
		return "unknown"
	}
}

// DefaultPromotionThreshold is the number of hits after which a key is
// promoted one tier upward.
const DefaultPromotionThreshold = 3

// Hierarchy composes managers into a multi-level cache. Reads cascade
// tier to tier with promotion after repeated hits; writes and deletes
// fan out to every configured tier. Tiers are populated independently:
// presence in one tier implies nothing about the others.
type Hierarchy struct {
	threshold int
	collector stats.Collector
	logger    *zap.Logger

	mu        sync.Mutex
	levels    map[Level]*Manager
	hitCounts map[string]int
}

// HierarchyOption configures a Hierarchy.
type HierarchyOption func(*Hierarchy)

// WithPromotionThreshold sets the hit count that triggers promotion.
func WithPromotionThreshold(n int) HierarchyOption {
	return func(h *Hierarchy) {
		if n > 0 {
			h.threshold = n
		}
	}
}

// WithHierarchyLogger sets the hierarchy's logger.
func WithHierarchyLogger(l *zap.Logger) HierarchyOption {
	return func(h *Hierarchy) {
		h.logger = l
	}
}

// WithHierarchyStats sets the hierarchy's stats collector.
func WithHierarchyStats(c stats.Collector) HierarchyOption {
	return func(h *Hierarchy) {
		h.collector = c
	}
}

// NewHierarchy creates an empty hierarchy. Add tiers with AddLevel.
func NewHierarchy(opts ...HierarchyOption) *Hierarchy {
	h := &Hierarchy{
		threshold: DefaultPromotionThreshold,
		collector: stats.NewNoop(),
		logger:    zap.NewNop(),
		levels:    make(map[Level]*Manager),
		hitCounts: make(map[string]int),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// AddLevel registers a manager as one tier. Registering a level twice
// replaces the earlier manager.
func (h *Hierarchy) AddLevel(level Level, m *Manager) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.levels[level] = m
}

// Manager returns the manager registered for level.
func (h *Hierarchy) Manager(level Level) (*Manager, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.levels[level]
	return m, ok
}

// Get queries tiers in priority order and returns the first hit. Every
// hit bumps the key's counter; once it reaches the promotion threshold
// the value is copied one tier upward (L2 hit into L1, L3 hit into L2).
func (h *Hierarchy) Get(ctx context.Context, key string) (any, bool) {
	for _, level := range levelOrder {
		m, ok := h.manager(level)
		if !ok {
			continue
		}
		if v, hit := m.Get(ctx, key); hit {
			h.considerPromotion(ctx, key, level, v)
			return v, true
		}
	}
	return nil, false
}

// Set writes value to every configured tier. Duplicating storage across
// tiers keeps them consistent.
func (h *Hierarchy) Set(ctx context.Context, key string, value any, opts ...SetOption) {
	for _, level := range levelOrder {
		if m, ok := h.manager(level); ok {
			m.Set(ctx, key, value, opts...)
		}
	}
}

// Delete removes key from every tier and clears its promotion counter,
// reporting whether any tier held it.
func (h *Hierarchy) Delete(ctx context.Context, key string) bool {
	deleted := false
	for _, level := range levelOrder {
		if m, ok := h.manager(level); ok {
			if m.Delete(ctx, key) {
				deleted = true
			}
		}
	}

	h.mu.Lock()
	delete(h.hitCounts, key)
	h.mu.Unlock()

	return deleted
}

// Clear empties every tier and resets all promotion counters.
func (h *Hierarchy) Clear(ctx context.Context) {
	for _, level := range levelOrder {
		if m, ok := h.manager(level); ok {
			m.Clear(ctx)
		}
	}

	h.mu.Lock()
	h.hitCounts = make(map[string]int)
	h.mu.Unlock()
}

// Stats returns a per-tier snapshot.
func (h *Hierarchy) Stats(ctx context.Context) map[Level]Stats {
	out := make(map[Level]Stats)
	for _, level := range levelOrder {
		if m, ok := h.manager(level); ok {
			out[level] = m.Stats(ctx)
		}
	}
	return out
}

// Close closes every tier's manager.
func (h *Hierarchy) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var errs []error
	for _, m := range h.levels {
		if err := m.Close(); err != nil && !errors.Is(err, ErrClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *Hierarchy) manager(level Level) (*Manager, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.levels[level]
	return m, ok
}

// considerPromotion copies the value one tier upward once the key has
// accumulated enough hits. Promotion is one tier at a time, never
// straight to the top, and the promoted copy takes the target tier's
// default TTL.
func (h *Hierarchy) considerPromotion(ctx context.Context, key string, hitLevel Level, value any) {
	h.mu.Lock()
	h.hitCounts[key]++
	count := h.hitCounts[key]
	h.mu.Unlock()

	if count < h.threshold {
		return
	}

	var target Level
	switch hitLevel {
	case L2Disk:
		target = L1Memory
	case L3Distributed:
		target = L2Disk
	default:
		return
	}

	m, ok := h.manager(target)
	if !ok {
		return
	}

	m.Set(ctx, key, value)
	h.collector.IncCounter(stats.MetricPromotions, 1)
	h.logger.Debug("promoted entry",
		zap.String("key", key),
		zap.Stringer("from", hitLevel),
		zap.Stringer("to", target),
		zap.Int("hits", count),
	)
}
