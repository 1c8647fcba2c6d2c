// Package registry provides a global registry for built-in carts.
// Carts register themselves in init() functions, allowing the platform
// to discover and load them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/term8/internal/cart"
)

// CartInfo contains metadata about a registered cart.
type CartInfo struct {
	ID     string
	Title  string
	Author string
}

// Factory returns a fresh copy of a cart. Each call must return a new value
// so callers can edit code and sprites without affecting other sessions.
type Factory func() *cart.Cart

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]CartInfo)
	mu        sync.RWMutex
)

// Register adds a cart factory to the registry.
// Typically called from a cart package's init() function.
// Panics if a cart with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: cart %q already registered", id))
	}

	factories[id] = f

	c := f()
	infos[id] = CartInfo{ID: id, Title: c.Name, Author: c.Author}
}

// List returns information about all registered carts, sorted by ID.
func List() []CartInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]CartInfo, 0, len(factories))
	for id := range factories {
		result = append(result, infos[id])
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create returns a new copy of the cart registered under id.
// Returns an error if the cart ID is not registered.
func Create(id string) (*cart.Cart, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown cart %q", id)
	}

	return f(), nil
}

// Exists checks if a cart with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
