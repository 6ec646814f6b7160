package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/voxchain/hoard/internal/cache"
)

func newTestBackend(t *testing.T, maxEntries int, maxBytes int64) *Backend {
	t.Helper()
	b, err := New(maxEntries, maxBytes, nil, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return b
}

func TestBackend_RoundTrip(t *testing.T) {
	b := newTestBackend(t, 10, 1<<20)
	ctx := context.Background()

	if err := b.Set(ctx, "k", cache.NewEntry("k", "hello", 0, nil)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	entry, err := b.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if entry.Value != "hello" {
		t.Errorf("Get() value = %v, want hello", entry.Value)
	}
	if entry.AccessCount != 1 {
		t.Errorf("AccessCount = %d, want 1", entry.AccessCount)
	}
}

func TestBackend_MissingKey(t *testing.T) {
	b := newTestBackend(t, 10, 1<<20)

	_, err := b.Get(context.Background(), "absent")
	if !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestBackend_LRUEviction(t *testing.T) {
	b := newTestBackend(t, 2, 1<<20)
	ctx := context.Background()

	b.Set(ctx, "a", cache.NewEntry("a", 1, 0, nil))
	b.Set(ctx, "b", cache.NewEntry("b", 2, 0, nil))

	// Touch a so b becomes the least recently used.
	if _, err := b.Get(ctx, "a"); err != nil {
		t.Fatalf("Get(a) error = %v", err)
	}

	b.Set(ctx, "c", cache.NewEntry("c", 3, 0, nil))

	if _, err := b.Get(ctx, "b"); !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("Get(b) error = %v, want ErrNotFound after eviction", err)
	}
	if _, err := b.Get(ctx, "a"); err != nil {
		t.Errorf("Get(a) error = %v, want survivor", err)
	}
	if _, err := b.Get(ctx, "c"); err != nil {
		t.Errorf("Get(c) error = %v, want survivor", err)
	}
}

func TestBackend_SingleEntryCapacity(t *testing.T) {
	b := newTestBackend(t, 1, 1<<20)
	ctx := context.Background()

	b.Set(ctx, "first", cache.NewEntry("first", 1, 0, nil))
	b.Set(ctx, "second", cache.NewEntry("second", 2, 0, nil))

	if _, err := b.Get(ctx, "first"); !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("Get(first) error = %v, want ErrNotFound", err)
	}
	if _, err := b.Get(ctx, "second"); err != nil {
		t.Errorf("Get(second) error = %v", err)
	}
	if got := b.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestBackend_ByteBoundEviction(t *testing.T) {
	// Each 100-byte string value encodes to 102 JSON bytes, so a 250-byte
	// budget holds two entries at most.
	val := make([]byte, 100)
	for i := range val {
		val[i] = 'x'
	}
	b := newTestBackend(t, 100, 250)
	ctx := context.Background()

	b.Set(ctx, "a", cache.NewEntry("a", string(val), 0, nil))
	b.Set(ctx, "b", cache.NewEntry("b", string(val), 0, nil))
	b.Set(ctx, "c", cache.NewEntry("c", string(val), 0, nil))

	if _, err := b.Get(ctx, "a"); !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("Get(a) error = %v, want ErrNotFound after byte eviction", err)
	}
	if got := b.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}

	size, err := b.Size(ctx)
	if err != nil {
		t.Fatalf("Size() error = %v", err)
	}
	if size > 250 {
		t.Errorf("Size() = %d, want <= 250", size)
	}
}

func TestBackend_OversizedEntryAccepted(t *testing.T) {
	b := newTestBackend(t, 10, 50)
	ctx := context.Background()

	big := make([]byte, 200)
	for i := range big {
		big[i] = 'y'
	}
	if err := b.Set(ctx, "big", cache.NewEntry("big", string(big), 0, nil)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := b.Get(ctx, "big"); err != nil {
		t.Errorf("Get(big) error = %v, want oversized entry stored", err)
	}
}

func TestBackend_ExpiredEntryRemoved(t *testing.T) {
	b := newTestBackend(t, 10, 1<<20)
	ctx := context.Background()

	entry := cache.NewEntry("k", "v", time.Millisecond, nil)
	entry.CreatedAt = entry.CreatedAt.Add(-time.Second)
	b.Set(ctx, "k", entry)

	if _, err := b.Get(ctx, "k"); !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound for expired entry", err)
	}

	keys, err := b.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("Keys() = %v, want expired entry removed", keys)
	}
}

func TestBackend_OverwritePreservesFrequency(t *testing.T) {
	b := newTestBackend(t, 10, 1<<20)
	ctx := context.Background()

	b.Set(ctx, "k", cache.NewEntry("k", "v1", 0, nil))
	b.Get(ctx, "k")
	b.Get(ctx, "k")
	b.Set(ctx, "k", cache.NewEntry("k", "v2", 0, nil))

	// Two gets plus two sets.
	if got := b.Frequency("k"); got != 4 {
		t.Errorf("Frequency() = %d, want 4", got)
	}

	entry, err := b.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if entry.Value != "v2" {
		t.Errorf("Get() value = %v, want v2", entry.Value)
	}
}

func TestBackend_OverwriteAdjustsBytes(t *testing.T) {
	b := newTestBackend(t, 10, 1<<20)
	ctx := context.Background()

	b.Set(ctx, "k", cache.NewEntry("k", "a long initial value here", 0, nil))
	b.Set(ctx, "k", cache.NewEntry("k", "x", 0, nil))

	size, err := b.Size(ctx)
	if err != nil {
		t.Fatalf("Size() error = %v", err)
	}
	if want := cache.ValueSize("x"); size != want {
		t.Errorf("Size() = %d, want %d after overwrite", size, want)
	}
}

func TestBackend_Delete(t *testing.T) {
	b := newTestBackend(t, 10, 1<<20)
	ctx := context.Background()

	b.Set(ctx, "k", cache.NewEntry("k", "v", 0, nil))

	ok, err := b.Delete(ctx, "k")
	if err != nil || !ok {
		t.Errorf("Delete() = %v, %v, want true, nil", ok, err)
	}
	ok, err = b.Delete(ctx, "k")
	if err != nil || ok {
		t.Errorf("second Delete() = %v, %v, want false, nil", ok, err)
	}

	size, _ := b.Size(ctx)
	if size != 0 {
		t.Errorf("Size() = %d after delete, want 0", size)
	}
}

func TestBackend_Clear(t *testing.T) {
	b := newTestBackend(t, 10, 1<<20)
	ctx := context.Background()

	b.Set(ctx, "a", cache.NewEntry("a", 1, 0, nil))
	b.Set(ctx, "b", cache.NewEntry("b", 2, 0, nil))

	if err := b.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if got := b.Len(); got != 0 {
		t.Errorf("Len() = %d after clear, want 0", got)
	}
	size, _ := b.Size(ctx)
	if size != 0 {
		t.Errorf("Size() = %d after clear, want 0", size)
	}
	if got := b.Frequency("a"); got != 0 {
		t.Errorf("Frequency(a) = %d after clear, want 0", got)
	}
}

func TestBackend_ConcurrentAccess(t *testing.T) {
	b := newTestBackend(t, 50, 1<<20)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key-%d", j%25)
				switch j % 5 {
				case 0, 1:
					b.Set(ctx, key, cache.NewEntry(key, j, 0, nil))
				case 2:
					b.Get(ctx, key)
				case 3:
					b.Delete(ctx, key)
				default:
					b.Keys(ctx)
					b.Size(ctx)
				}
			}
		}()
	}
	wg.Wait()

	// Bookkeeping stays consistent after contended access.
	if got := b.Len(); got < 0 || got > 50 {
		t.Errorf("Len() = %d, want within [0, 50]", got)
	}
	size, err := b.Size(ctx)
	if err != nil {
		t.Fatalf("Size() error = %v", err)
	}
	if size < 0 {
		t.Errorf("Size() = %d, want non-negative", size)
	}
	keys, err := b.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != b.Len() {
		t.Errorf("len(Keys()) = %d, Len() = %d, want equal", len(keys), b.Len())
	}
}

func TestBackend_Keys(t *testing.T) {
	b := newTestBackend(t, 10, 1<<20)
	ctx := context.Background()

	b.Set(ctx, "a", cache.NewEntry("a", 1, 0, nil))
	b.Set(ctx, "b", cache.NewEntry("b", 2, 0, nil))

	keys, err := b.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("Keys() = %v, want 2 keys", keys)
	}
}
