package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// Registry holds independent store instances by name. It is an explicit
// object passed by reference, not ambient state, so tests and embedders can
// run as many isolated registries as they need.
type Registry struct {
	mu     sync.RWMutex
	stores map[string]*Store
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{stores: map[string]*Store{}}
}

// Add registers a store under its name.
func (r *Registry) Add(s *Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stores[s.Name()]; ok {
		return fmt.Errorf("store %q: %w", s.Name(), types.ErrDuplicateStore)
	}
	r.stores[s.Name()] = s
	return nil
}

// Get returns the store registered under name.
func (r *Registry) Get(name string) (*Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stores[name]
	if !ok {
		return nil, fmt.Errorf("store %q: %w", name, types.ErrStoreNotFound)
	}
	return s, nil
}

// Remove drops the store registered under name. Removing an unknown name is
// a no-op.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, name)
}

// Names returns the registered store names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.stores))
	for name := range r.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
