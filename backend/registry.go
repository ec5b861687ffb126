package backend

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	beholder "github.com/Zulkir/Beholder-sub001"
)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// Priority order for backend selection (first accepting backend wins).
	backendPriority = []string{D3D11, OpenGL, HAL, D3D9}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it is replaced.
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

// Available returns the registered backend names in priority order,
// followed by any others in lexical order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for _, name := range backendPriority {
		if _, ok := factories[name]; ok {
			names = append(names, name)
		}
	}
	var rest []string
	for name := range factories {
		if !slices.Contains(backendPriority, name) {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	return append(names, rest...)
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Create creates a device with the named backend.
func Create(name string, native any, opts ...beholder.Option) (beholder.Device, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	return factory(native, opts...)
}

// Default creates a device with the first backend, in priority order,
// that accepts native. Backends rejecting the handle type are skipped;
// any other failure is returned.
func Default(native any, opts ...beholder.Option) (beholder.Device, error) {
	for _, name := range Available() {
		dev, err := Create(name, native, opts...)
		if err == nil {
			beholder.ApplyOptions(opts...).Log().Info("backend: device created", "backend", name)
			return dev, nil
		}
		if !errors.Is(err, beholder.ErrWrongBackend) {
			return nil, fmt.Errorf("backend %s: %w", name, err)
		}
	}
	return nil, ErrBackendNotAvailable
}
