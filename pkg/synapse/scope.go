package synapse

import "sync"

// instanceCache guards one-time construction of a singleton binding's
// instance. Prototype bindings never touch it.
//
// Concurrent resolutions of the same singleton serialize on mu; the fast path
// re-reads under a read lock so callers pay no construction cost once the
// instance exists.
//
// Cycle detection is per resolution walk. Two goroutines resolving opposite
// ends of a provider-declared cycle at the same time block on each other's
// cache mutex instead of failing with CircularDependencyError; such cycles
// are still always caught when resolved from a single goroutine, and
// constructor-declared cycles never get this far because Build rejects them.
type instanceCache struct {
	mu       sync.RWMutex
	instance interface{}
	created  bool
}

// get returns the cached instance, constructing it with factory exactly once.
// A factory error leaves the cache empty so a later resolution can retry.
func (c *instanceCache) get(factory func() (interface{}, error)) (interface{}, error) {
	c.mu.RLock()
	if c.created {
		instance := c.instance
		c.mu.RUnlock()
		return instance, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring the write lock
	if c.created {
		return c.instance, nil
	}

	instance, err := factory()
	if err != nil {
		return nil, err
	}

	c.instance = instance
	c.created = true
	return instance, nil
}

// peek returns the cached instance without constructing, for shutdown and
// diagnostics
func (c *instanceCache) peek() (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.instance, c.created
}
