package cache

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a backend when a key is absent or its entry
// has expired. Callers treat it as a miss, never as a failure.
var ErrNotFound = errors.New("cache: entry not found")

// Backend is the raw key-to-entry storage contract. Implementations own
// their eviction policy and capacity bounds, and must discard expired
// entries lazily on read (there is no background sweep).
//
// Backends degrade internal I/O failures rather than surfacing them: a
// failed read behaves like a miss and a failed write is logged and
// dropped. The only errors a backend returns besides ErrNotFound are
// context cancellation on blocking operations.
type Backend interface {
	// Get returns the entry for key, touching it on success. Returns
	// ErrNotFound when the key is absent or expired; an expired entry is
	// removed before returning.
	Get(ctx context.Context, key string) (*Entry, error)

	// Set inserts or overwrites the entry for key, evicting other entries
	// first if needed to respect the backend's capacity bounds.
	Set(ctx context.Context, key string, entry *Entry) error

	// Delete removes the entry for key, reporting whether anything was
	// removed.
	Delete(ctx context.Context, key string) (bool, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error

	// Keys returns all currently stored keys. Entries that have expired
	// but not yet been touched are still listed.
	Keys(ctx context.Context) ([]string, error)

	// Size returns the total stored size in bytes.
	Size(ctx context.Context) (int64, error)

	// Close releases any resources held by the backend.
	Close() error
}
