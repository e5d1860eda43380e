// Package asset manages the named assets (meshes, materials, lights and
// cameras) that scene primitives reference, and the resources they are
// loaded from.
package asset

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/achilleasa/prism/config"
	"github.com/achilleasa/prism/log"
)

// Locators may carry this prefix in front of the asset name.
const locatorPrefix = "$.assets."

var namePattern = regexp.MustCompile(`^[\w:-]+$`)

// Factory creates an asset instance from props. The registry is passed so
// that assets can reference previously loaded assets.
type Factory func(reg *Registry, props config.Props) (interface{}, error)

// Registry is a name-keyed collection of asset instances.
type Registry struct {
	logger log.Logger

	mu        sync.RWMutex
	factories map[string]Factory
	assets    map[string]interface{}
	order     []string

	// Relative asset file paths are resolved against this resource.
	base *Resource
}

// Create a registry with the built-in factories.
func NewRegistry() *Registry {
	reg := &Registry{
		logger:    log.New("assets"),
		factories: make(map[string]Factory),
		assets:    make(map[string]interface{}),
	}
	for implKey, factory := range builtinFactories {
		reg.factories[implKey] = factory
	}
	return reg
}

// Register a factory for implKey, replacing any existing one.
func (reg *Registry) RegisterFactory(implKey string, factory Factory) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.factories[implKey] = factory
}

// Resolve relative file references of subsequently loaded assets against
// res.
func (reg *Registry) SetBase(res *Resource) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.base = res
}

// Open a file referenced by an asset.
func (reg *Registry) Open(path string) (*Resource, error) {
	reg.mu.RLock()
	base := reg.base
	reg.mu.RUnlock()
	return NewResource(path, base)
}

// Create an asset using the implKey factory and store it under name.
// Loading an asset with an existing name replaces the previous instance.
func (reg *Registry) Load(name, implKey string, props config.Props) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w '%s'", ErrInvalidName, name)
	}

	reg.mu.RLock()
	factory, exists := reg.factories[implKey]
	reg.mu.RUnlock()
	if !exists {
		return fmt.Errorf("%w '%s'", ErrUnknownImpl, implKey)
	}

	if props == nil {
		props = config.Props{}
	}
	inst, err := factory(reg, props)
	if err != nil {
		reg.logger.Errorf("failed to load asset '%s' (%s): %v", name, implKey, err)
		return fmt.Errorf("asset: could not load '%s': %w", name, err)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, exists = reg.assets[name]; exists {
		reg.logger.Noticef("replacing asset '%s'", name)
	} else {
		reg.order = append(reg.order, name)
	}
	reg.assets[name] = inst
	reg.logger.Debugf("loaded asset '%s' (%s)", name, implKey)
	return nil
}

// Resolve a locator, either a bare asset name or "$.assets.<name>".
func (reg *Registry) Lookup(locator string) (interface{}, error) {
	name := strings.TrimPrefix(locator, locatorPrefix)

	reg.mu.RLock()
	defer reg.mu.RUnlock()
	inst, exists := reg.assets[name]
	if !exists {
		return nil, fmt.Errorf("%w '%s'", ErrNotFound, locator)
	}
	return inst, nil
}

// Get the asset names in load order.
func (reg *Registry) Names() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return append([]string(nil), reg.order...)
}

// Get the registered implementation keys, sorted.
func (reg *Registry) Implementations() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	keys := make([]string, 0, len(reg.factories))
	for k := range reg.factories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
