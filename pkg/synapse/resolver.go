package synapse

import (
	"reflect"
)

// resolution tracks one depth-first construction walk. It is shared between
// the container and any providers invoked during the walk so cycles through
// providers are caught the same way as constructor cycles.
type resolution struct {
	visiting    []ContractRef
	visitingSet map[bindingKey]bool
}

// newResolution creates an empty walk state
func newResolution() *resolution {
	return &resolution{visitingSet: make(map[bindingKey]bool)}
}

// enter pushes a contract onto the walk, failing when it is already being
// constructed
func (r *resolution) enter(ref ContractRef) error {
	key := keyFor(ref)
	if r.visitingSet[key] {
		return &CircularDependencyError{Cycle: append(r.path(), ref)}
	}
	r.visiting = append(r.visiting, ref)
	r.visitingSet[key] = true
	return nil
}

// leave pops the most recent contract off the walk
func (r *resolution) leave() {
	last := r.visiting[len(r.visiting)-1]
	r.visiting = r.visiting[:len(r.visiting)-1]
	delete(r.visitingSet, keyFor(last))
}

// path returns a copy of the current walk, outermost request first
func (r *resolution) path() []ContractRef {
	return append([]ContractRef(nil), r.visiting...)
}

// resolveRef is the resolver entry point: it looks up the binding for ref and
// constructs (or fetches) its instance
func (c *Container) resolveRef(ref ContractRef, res *resolution) (interface{}, error) {
	binding, err := c.registry.lookup(ref)
	if err != nil {
		if ub, ok := err.(*UnboundContractError); ok && len(res.visiting) > 0 {
			ub.Path = res.path()
		}
		return nil, err
	}
	return c.resolveBinding(binding, res)
}

// resolveBinding applies the binding's scope policy around rule invocation
func (c *Container) resolveBinding(binding *Binding, res *resolution) (interface{}, error) {
	if err := res.enter(binding.Contract); err != nil {
		return nil, err
	}
	defer res.leave()

	construct := func() (interface{}, error) {
		instance, err := c.invokeRule(binding, res)
		if err != nil {
			return nil, err
		}
		return c.applyAspects(binding, instance), nil
	}

	if binding.Scope == ScopePrototype {
		return construct()
	}

	// Singleton: one-time construction guarded by the binding's cache
	constructed := false
	instance, err := binding.cache.get(func() (interface{}, error) {
		constructed = true
		return construct()
	})
	if err != nil {
		return nil, err
	}
	if constructed {
		c.trackInstance(instance)
	}
	return instance, nil
}

// invokeRule runs the binding's construction rule, resolving its declared
// dependencies first
func (c *Container) invokeRule(binding *Binding, res *resolution) (interface{}, error) {
	switch binding.kind {
	case instanceRule:
		return binding.instance, nil

	case providerRule:
		instance, err := binding.provider(c.withResolution(res))
		if err != nil {
			// Resolver errors from nested lookups pass through untouched so
			// callers see the original kind
			switch err.(type) {
			case *UnboundContractError, *CircularDependencyError, *ConstructionError:
				return nil, err
			}
			return nil, &ConstructionError{Contract: binding.Contract, Err: err}
		}
		return instance, nil

	case constructorRule:
		args := make([]reflect.Value, len(binding.deps))
		for i, dep := range binding.deps {
			value, err := c.resolveRef(dep.ref, res)
			if err != nil {
				return nil, err
			}
			args[i] = valueFor(dep.ref.Type, value)
		}

		out := binding.ctor.Call(args)
		if len(out) == 2 && !out[1].IsNil() {
			return nil, &ConstructionError{Contract: binding.Contract, Err: out[1].Interface().(error)}
		}
		return out[0].Interface(), nil

	case structRule:
		target := reflect.New(binding.structType)
		elem := target.Elem()
		for _, dep := range binding.deps {
			value, err := c.resolveRef(dep.ref, res)
			if err != nil {
				if dep.optional {
					if _, ok := err.(*UnboundContractError); ok {
						continue
					}
				}
				return nil, err
			}
			elem.Field(dep.fieldIndex).Set(valueFor(elem.Field(dep.fieldIndex).Type(), value))
		}

		if target.Type().AssignableTo(binding.Contract.Type) {
			return target.Interface(), nil
		}
		return elem.Interface(), nil

	default:
		return nil, &InvalidConstructorError{Contract: binding.Contract, Reason: "binding has no construction rule"}
	}
}

// valueFor converts a resolved instance into a reflect.Value of the wanted
// type, substituting a zero value for untyped nils
func valueFor(want reflect.Type, v interface{}) reflect.Value {
	if v == nil {
		return reflect.Zero(want)
	}
	return reflect.ValueOf(v)
}

// detectStaticCycles walks the statically-known dependency edges (constructor
// and struct rules) and fails on the first cycle. Provider rules declare no
// edges; cycles through them are caught at resolution time by the visiting
// set.
func detectStaticCycles(registry *bindingRegistry) error {
	visited := make(map[bindingKey]bool)

	for _, b := range registry.all() {
		if visited[keyFor(b.Contract)] {
			continue
		}
		if err := visitStatic(registry, b, visited, newResolution()); err != nil {
			return err
		}
	}
	return nil
}

// visitStatic performs the depth-first traversal for detectStaticCycles
func visitStatic(registry *bindingRegistry, b *Binding, visited map[bindingKey]bool, res *resolution) error {
	if err := res.enter(b.Contract); err != nil {
		return err
	}
	defer res.leave()

	for _, dep := range b.deps {
		target, err := registry.lookup(dep.ref)
		if err != nil {
			// Unbound dependencies are reported at resolution time, with the
			// full resolution path
			continue
		}
		if visited[keyFor(target.Contract)] {
			continue
		}
		if err := visitStatic(registry, target, visited, res); err != nil {
			return err
		}
	}

	visited[keyFor(b.Contract)] = true
	return nil
}
