package providers

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"thebits/vscale/internal/platform/providers/names"
	"thebits/vscale/internal/services/auth"
	"thebits/vscale/internal/util"
)

// Factory builds a provider of type T using store for credentials.
type Factory[T any] func(store auth.Store) (T, error)

// Registry maps normalized provider names to factories for one resource
// domain (compute, ssh keys, dns).
type Registry[T any] struct {
	kind      string
	shareName bool

	mu        sync.RWMutex
	factories map[string]Factory[T]
}

// NewRegistry returns an empty registry. kind prefixes panic and error
// messages. When shareName is set, registered names are also recorded in
// the global names registry used to validate default-provider.
func NewRegistry[T any](kind string, shareName bool) *Registry[T] {
	return &Registry[T]{
		kind:      kind,
		shareName: shareName,
		factories: map[string]Factory[T]{},
	}
}

// Register adds a factory. It panics on an empty name, a nil factory, or a
// duplicate registration.
func (r *Registry[T]) Register(name string, factory Factory[T]) {
	normalizedName := util.NormalizeKey(name)
	if normalizedName == "" {
		panic(r.kind + ": empty provider name")
	}
	if factory == nil {
		panic(r.kind + ": nil factory")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[normalizedName]; exists {
		panic(fmt.Sprintf("%s: provider %q already registered", r.kind, name))
	}

	r.factories[normalizedName] = factory
	if r.shareName {
		names.Register(normalizedName)
	}
}

// Get constructs the provider registered under name.
func (r *Registry[T]) Get(name string, store auth.Store) (T, error) {
	normalizedName := util.NormalizeKey(name)
	r.mu.RLock()
	factory, ok := r.factories[normalizedName]
	r.mu.RUnlock()

	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: unknown provider %q", r.kind, name)
	}
	return factory(store)
}

// List returns the registered names in sorted order.
func (r *Registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.factories))
}

// Reset clears the registry. Intended for use in tests only.
func (r *Registry[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories = map[string]Factory[T]{}
}
