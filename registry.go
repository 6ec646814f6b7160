package hoard

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrDuplicateName indicates a manager name is already registered.
var ErrDuplicateName = errors.New("hoard: manager name already registered")

// Registry holds named managers with an explicit lifetime. It replaces
// the implicit process-wide default cache: construct a registry where
// the application wires its dependencies, register the managers it
// owns, and Close it on shutdown.
type Registry struct {
	mu       sync.Mutex
	managers map[string]*Manager
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		managers: make(map[string]*Manager),
	}
}

// Register adds a manager under name. Names are unique; re-registering
// returns ErrDuplicateName.
func (r *Registry) Register(name string, m *Manager) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.managers[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	r.managers[name] = m
	return nil
}

// Lookup returns the manager registered under name.
func (r *Registry) Lookup(name string) (*Manager, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.managers[name]
	return m, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.managers))
	for name := range r.managers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every registered manager and empties the registry.
// Managers that were already closed individually are skipped.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, m := range r.managers {
		if err := m.Close(); err != nil && !errors.Is(err, ErrClosed) {
			errs = append(errs, fmt.Errorf("closing %q: %w", name, err))
		}
	}
	r.managers = make(map[string]*Manager)
	return errors.Join(errs...)
}
