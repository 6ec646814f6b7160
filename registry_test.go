package hoard

import (
	"errors"
	"testing"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	m := newTestManager(t)

	if err := r.Register("users", m); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, ok := r.Lookup("users")
	if !ok {
		t.Fatal("Lookup() ok = false, want registered manager")
	}
	if got != m {
		t.Error("Lookup() returned a different manager")
	}

	if _, ok := r.Lookup("absent"); ok {
		t.Error("Lookup(absent) ok = true, want false")
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	r := NewRegistry()

	if err := r.Register("dup", newTestManager(t)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	err := r.Register("dup", newTestManager(t))
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("Register() error = %v, want ErrDuplicateName", err)
	}
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	r.Register("zebra", newTestManager(t))
	r.Register("alpha", newTestManager(t))
	r.Register("mango", newTestManager(t))

	names := r.Names()
	want := []string{"alpha", "mango", "zebra"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q (sorted)", i, names[i], want[i])
		}
	}
}

func TestRegistry_Close(t *testing.T) {
	r := NewRegistry()

	m, err := New(WithMemoryBackend(10, 1<<20))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	r.Register("a", m)

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// The manager is closed and the registry is empty.
	if err := m.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("manager Close() error = %v, want ErrClosed", err)
	}
	if got := r.Names(); len(got) != 0 {
		t.Errorf("Names() = %v after Close, want empty", got)
	}
}

func TestRegistry_CloseSkipsAlreadyClosed(t *testing.T) {
	r := NewRegistry()

	m, err := New(WithMemoryBackend(10, 1<<20))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	r.Register("a", m)
	m.Close()

	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v, want already-closed manager skipped", err)
	}
}
