// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/framegraph/internal/logging"
	"github.com/gogpu/gpucontext"
)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// Priority order for backend selection (first that opens wins).
	// Native APIs first, noop last so headless runs always succeed.
	backendPriority = []string{BackendVulkan, BackendMetal, BackendDX12, BackendGL, BackendNoop}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the registered backend names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Get opens a device with the named backend.
func Get(name string) (gpucontext.DeviceProvider, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return factory()
}

// Default opens a device with the best available backend based on
// priority, then any other registered backend in name order. It returns
// the provider and the name of the backend that opened it.
func Default() (gpucontext.DeviceProvider, string, error) {
	registryMu.RLock()
	var order []string
	for _, name := range backendPriority {
		if _, ok := factories[name]; ok {
			order = append(order, name)
		}
	}
	var rest []string
	for name := range factories {
		if !slices.Contains(backendPriority, name) {
			rest = append(rest, name)
		}
	}
	registryMu.RUnlock()
	slices.Sort(rest)
	order = append(order, rest...)

	var errs []error
	for _, name := range order {
		p, err := Get(name)
		if err == nil && p != nil {
			logging.Logger().Info("backend: selected", "backend", name)
			return p, name, nil
		}
		if err != nil {
			logging.Logger().Debug("backend: unavailable", "backend", name, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return nil, "", errors.Join(append([]error{ErrBackendNotAvailable}, errs...)...)
}
