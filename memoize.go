package hoard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// KeyFunc derives a cache key from a call argument.
type KeyFunc[A any] func(arg A) string

// ArgsKey returns a KeyFunc that hashes the JSON encoding of the
// argument under a prefix, giving deterministic filesystem-safe keys for
// arbitrary argument types. Arguments that cannot be JSON-encoded hash
// their string representation instead.
func ArgsKey[A any](prefix string) KeyFunc[A] {
	return func(arg A) string {
		data, err := json.Marshal(arg)
		if err != nil {
			data = []byte(fmt.Sprint(arg))
		}
		sum := sha256.Sum256(append([]byte(prefix+":"), data...))
		key := hex.EncodeToString(sum[:])
		if prefix != "" {
			return prefix + ":" + key
		}
		return key
	}
}

// Memoize wraps fn so results are cached in m under keys derived by
// keyFn. It is the explicit replacement for decorator-style caching:
// the returned function is a plain value the caller composes and passes
// around. Errors from fn propagate unchanged and nothing is cached for
// the failed call.
//
// Memoize inherits GetOrSet's semantics: concurrent calls with the same
// argument may each run fn. A cached value whose dynamic type no longer
// matches R (possible after a serialization round-trip through a disk
// tier) is treated as a miss and recomputed.
func Memoize[A, R any](m *Manager, keyFn KeyFunc[A], fn func(ctx context.Context, arg A) (R, error), opts ...SetOption) func(ctx context.Context, arg A) (R, error) {
	return func(ctx context.Context, arg A) (R, error) {
		key := keyFn(arg)

		if v, ok := m.Get(ctx, key); ok {
			if r, ok := v.(R); ok {
				return r, nil
			}
		}

		r, err := fn(ctx, arg)
		if err != nil {
			var zero R
			return zero, err
		}

		m.Set(ctx, key, r, opts...)
		return r, nil
	}
}

// Invalidator returns a function that removes every entry in m carrying
// any of the given tags, reporting how many were removed. It is the
// explicit replacement for invalidation decorators: call it after a
// mutation that stales the tagged entries.
func Invalidator(m *Manager, tags ...string) func(ctx context.Context) int {
	return func(ctx context.Context) int {
		return m.InvalidateByTags(ctx, tags...)
	}
}
