// Package container provides a lightweight dependency injection container.
//
// The bootstrap binds the event bus, the alter dispatcher, and the form
// builder here; application code resolves them by key instead of reaching
// for globals, and tests can re-bind fakes.
package container

import (
	"fmt"
	"sync"
)

// Well-known binding keys used across the project.
const (
	KeyBus        = "event.bus"
	KeyDispatcher = "alter.dispatcher"
	KeyBuilder    = "form.builder"
	KeyFeed       = "ws.feed"
)

// Factory is a function that produces a service instance.
type Factory func() interface{}

var (
	mu         sync.RWMutex
	bindings   = map[string]Factory{}
	singletons = map[string]interface{}{}
)

// Bind registers a factory under key. Each call to Make invokes factory anew.
func Bind(key string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	bindings[key] = factory
}

// Singleton registers a factory that is called once; subsequent Make calls
// return the cached instance.
func Singleton(key string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	bindings[key] = factory
	// Reserve the slot; resolved lazily on first Make.
	singletons[key] = nil
}

// Make resolves and returns the service registered under key.
// Panics if the key has not been bound — resolving an unbound service is a
// programmer error, not a runtime condition.
func Make(key string) interface{} {
	mu.Lock()
	defer mu.Unlock()

	if inst, ok := singletons[key]; ok && inst != nil {
		return inst
	}

	factory, ok := bindings[key]
	if !ok {
		panic(fmt.Sprintf("formbus/container: unknown binding %q", key))
	}

	instance := factory()

	if _, isSingleton := singletons[key]; isSingleton {
		singletons[key] = instance
	}

	return instance
}

// Has reports whether a key has been bound.
func Has(key string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := bindings[key]
	return ok
}

// Reset removes every binding and cached singleton (useful in tests).
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	bindings = map[string]Factory{}
	singletons = map[string]interface{}{}
}
