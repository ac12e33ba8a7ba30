// SPDX-License-Identifier: Apache-2.0

// Package plugin maps manager identifiers to factories so hosts can select
// an implementation by configuration rather than by import.
package plugin

import (
	"fmt"
	"sort"
	"sync"

	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/config"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/errors"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/manager"
)

// Factory creates a fresh, uninitialized manager instance. Settings are
// applied later through Initialize.
type Factory func() (manager.Interface, error)

// Registry holds the available manager factories, keyed by the reverse-DNS
// identifier the factory's managers report. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under the given identifier. Registering the same
// identifier twice is a programming error.
func (r *Registry) Register(identifier string, factory Factory) error {
	if identifier == "" {
		return errors.NewInputValidation("manager identifier must not be empty")
	}
	if factory == nil {
		return errors.NewInputValidation("factory must not be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[identifier]; exists {
		return errors.NewInputValidation(
			fmt.Sprintf("manager %q is already registered", identifier))
	}
	r.factories[identifier] = factory
	return nil
}

// Identifiers lists registered identifiers in sorted order.
func (r *Registry) Identifiers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Create instantiates the manager registered under identifier.
func (r *Registry) Create(identifier string) (manager.Interface, error) {
	r.mu.RLock()
	factory, ok := r.factories[identifier]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.NewConfiguration(
			fmt.Sprintf("no manager registered as %q", identifier))
	}
	iface, err := factory()
	if err != nil {
		return nil, err
	}
	if got := iface.Identifier(); got != identifier {
		return nil, errors.NewConfiguration(
			fmt.Sprintf("factory for %q produced a manager identifying as %q", identifier, got))
	}
	return iface, nil
}

// CreateDefault instantiates the manager named by cfg.Manager.Identifier.
func (r *Registry) CreateDefault(cfg *config.Config) (manager.Interface, error) {
	if cfg == nil || cfg.Manager.Identifier == "" {
		return nil, errors.NewConfiguration("no default manager configured")
	}
	return r.Create(cfg.Manager.Identifier)
}

// defaultRegistry backs the package-level convenience functions, following
// the database/sql driver registration pattern.
var defaultRegistry = NewRegistry()

// Register adds a factory to the default registry, panicking on conflict so
// misregistration fails at init time.
func Register(identifier string, factory Factory) {
	if err := defaultRegistry.Register(identifier, factory); err != nil {
		panic(err)
	}
}

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}
