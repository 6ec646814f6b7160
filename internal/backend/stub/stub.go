// Package stub implements a placeholder distributed cache backend.
//
// The distributed (L3) tier has no real shared store behind it: state is
// process-local and lost on exit. The stub honors the full backend
// contract, including lazy expiry, so hierarchies and tests can exercise
// a third tier without network I/O.
package stub

import (
	"context"
	"sync"
	"time"

	"github.com/voxchain/hoard/internal/cache"
)

// Compile-time check that Backend implements cache.Backend.
var _ cache.Backend = (*Backend)(nil)

// Backend is an in-process stand-in for a distributed cache tier.
type Backend struct {
	mu      sync.Mutex
	entries map[string]*cache.Entry
}

// New creates a new stub backend.
func New() *Backend {
	return &Backend{
		entries: make(map[string]*cache.Entry),
	}
}

// Get returns the entry for key, removing it first if expired.
func (b *Backend) Get(ctx context.Context, key string) (*cache.Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.entries[key]
	if !ok {
		return nil, cache.ErrNotFound
	}

	now := time.Now()
	if entry.Expired(now) {
		delete(b.entries, key)
		return nil, cache.ErrNotFound
	}

	entry.Touch(now)
	return entry, nil
}

// Set stores the entry under key.
func (b *Backend) Set(ctx context.Context, key string, entry *cache.Entry) error {
	entry.SizeBytes = cache.ValueSize(entry.Value)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = entry
	return nil
}

// Delete removes the entry for key.
func (b *Backend) Delete(ctx context.Context, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.entries[key]; !ok {
		return false, nil
	}
	delete(b.entries, key)
	return true, nil
}

// Clear removes all entries.
func (b *Backend) Clear(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = make(map[string]*cache.Entry)
	return nil
}

// Keys returns all stored keys.
func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	keys := make([]string, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	return keys, nil
}

// Size returns the total stored bytes.
func (b *Backend) Size(ctx context.Context) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var total int64
	for _, e := range b.entries {
		total += e.SizeBytes
	}
	return total, nil
}

// Close is a no-op for the stub backend.
func (b *Backend) Close() error {
	return nil
}
