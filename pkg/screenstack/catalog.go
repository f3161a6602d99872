package screenstack

import (
	"fmt"
	"sort"
	"sync"
)

// Catalog binds screen types to the factories that build their screen bodies.
// Screens are looked up by their registered type id; there is no runtime type search.
//
// Example:
//
//	catalog := screenstack.NewCatalog().
//	    Register("main-menu", newMainMenu).
//	    Register("settings", newSettings)
type Catalog struct {
	mu        sync.RWMutex
	factories map[ScreenType]Factory
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		factories: make(map[ScreenType]Factory),
	}
}

// Register adds a screen type to the catalog, replacing any previous factory.
func (c *Catalog) Register(t ScreenType, fn Factory) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[t] = fn
	return c
}

func (c *Catalog) Has(t ScreenType) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.factories[t]
	return ok
}

// Types returns the registered screen types in sorted order.
func (c *Catalog) Types() []ScreenType {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]ScreenType, 0, len(c.factories))
	for t := range c.factories {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// build runs the factory for t. A type without a factory gets the visual
// itself as its screen body.
func (c *Catalog) build(t ScreenType, v Visual) (Screen, error) {
	c.mu.RLock()
	fn, ok := c.factories[t]
	c.mu.RUnlock()

	if !ok || fn == nil {
		return v, nil
	}

	body, err := fn(v)
	if err != nil {
		return nil, fmt.Errorf("screen %s factory: %w", t, err)
	}
	return body, nil
}
