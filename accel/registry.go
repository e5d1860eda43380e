package accel

import (
	"fmt"
	"sort"
	"sync"

	"github.com/achilleasa/prism/config"
)

// Constructor creates a backend instance configured by props.
type Constructor func(props config.Props) (Accel, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Constructor)
)

// Register a backend constructor under name. Backends register themselves
// from init; registering the same name twice panics.
func Register(name string, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if ctor == nil {
		panic("accel: Register called with nil constructor for " + name)
	}
	if _, exists := registry[name]; exists {
		panic("accel: Register called twice for " + name)
	}
	registry[name] = ctor
}

// Create a backend by name.
func New(name string, props config.Props) (Accel, error) {
	registryMu.RLock()
	ctor, exists := registry[name]
	registryMu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownAccel, name)
	}
	if props == nil {
		props = config.Props{}
	}

	a, err := ctor(props)
	if err != nil {
		return nil, fmt.Errorf("accel: could not create '%s': %w", name, err)
	}
	return a, nil
}

// Get the sorted list of registered backend names.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
