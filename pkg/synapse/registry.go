package synapse

// bindingKey is the map key for the registry: the contract type plus its
// qualifier
type bindingKey struct {
	typeKey   string
	qualifier string
}

// keyFor builds the registry key for a contract reference
func keyFor(ref ContractRef) bindingKey {
	typeKey := ""
	if ref.Type != nil {
		// PkgPath + String disambiguates same-named types across packages
		typeKey = ref.Type.PkgPath() + "#" + ref.Type.String()
	}
	return bindingKey{typeKey: typeKey, qualifier: ref.Qualifier}
}

// bindingRegistry stores bindings declared during container configuration.
// It is mutated only by the Builder; after Build the container reads it
// without locking.
type bindingRegistry struct {
	bindings map[bindingKey]*Binding

	// order preserves registration order for deterministic eager start and
	// diagnostics
	order []*Binding
}

// newBindingRegistry creates an empty registry
func newBindingRegistry() *bindingRegistry {
	return &bindingRegistry{
		bindings: make(map[bindingKey]*Binding),
	}
}

// register adds a binding, failing with DuplicateBindingError when the
// (contract, qualifier) pair is already taken
func (r *bindingRegistry) register(b *Binding) error {
	key := keyFor(b.Contract)
	if _, exists := r.bindings[key]; exists {
		return &DuplicateBindingError{Contract: b.Contract}
	}

	r.bindings[key] = b
	r.order = append(r.order, b)
	return nil
}

// lookup returns the binding for a contract reference, failing with
// UnboundContractError when none is registered
func (r *bindingRegistry) lookup(ref ContractRef) (*Binding, error) {
	if b, ok := r.bindings[keyFor(ref)]; ok {
		return b, nil
	}
	return nil, &UnboundContractError{Contract: ref}
}

// has reports whether a binding exists for the reference
func (r *bindingRegistry) has(ref ContractRef) bool {
	_, ok := r.bindings[keyFor(ref)]
	return ok
}

// all returns the bindings in registration order
func (r *bindingRegistry) all() []*Binding {
	return append([]*Binding(nil), r.order...)
}
