package providers

import (
	platform "thebits/vscale/internal/platform/providers"
	"thebits/vscale/internal/server/domain"
	"thebits/vscale/internal/services/auth"
)

// Factory is a constructor function that builds a compute Provider given an auth store.
type Factory = platform.Factory[domain.Provider]

var registry = platform.NewRegistry[domain.Provider]("providers", true)

// Register adds a provider factory. It panics on empty name, nil factory,
// or duplicate registration (programmer errors detected at startup).
func Register(name string, factory Factory) { registry.Register(name, factory) }

// Get constructs and returns the provider for the given name, using store
// to retrieve credentials.
func Get(name string, store auth.Store) (domain.Provider, error) { return registry.Get(name, store) }

// List returns the names of all registered providers, sorted.
func List() []string { return registry.List() }

// Reset clears the registry. Intended for use in tests only.
func Reset() { registry.Reset() }
