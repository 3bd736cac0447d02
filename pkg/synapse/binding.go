package synapse

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// ruleKind identifies how a binding produces instances
type ruleKind int

const (
	// constructorRule calls a plain constructor function whose parameters are
	// resolved from the container
	constructorRule ruleKind = iota

	// providerRule calls a provider function that receives the container and
	// performs its own lookups
	providerRule

	// instanceRule returns a fixed, pre-built value
	instanceRule

	// structRule allocates a struct and fills its inject-tagged fields
	structRule
)

// String returns the rule kind name used in diagnostics
func (k ruleKind) String() string {
	switch k {
	case constructorRule:
		return "constructor"
	case providerRule:
		return "provider"
	case instanceRule:
		return "instance"
	case structRule:
		return "struct"
	default:
		return "unknown"
	}
}

// Binding maps a contract reference to a construction rule plus its lifecycle
// policy. Bindings are created through the Builder and are immutable once the
// container is built.
type Binding struct {
	// ID uniquely identifies the binding for diagnostics
	ID string

	// Contract is the (type, qualifier) key the binding satisfies
	Contract ContractRef

	// Scope is the lifecycle policy for produced instances
	Scope Scope

	// Eager requests construction during Container.Start instead of on first
	// resolution. Only meaningful for singletons.
	Eager bool

	kind ruleKind

	// ctor holds the constructor function for constructorRule bindings
	ctor reflect.Value

	// provider holds the provider function for providerRule bindings
	provider func(*Container) (interface{}, error)

	// instance holds the fixed value for instanceRule bindings
	instance interface{}

	// structType holds the target struct type for structRule bindings
	structType reflect.Type

	// deps caches the dependency references declared by the rule
	deps []dependency

	// cache holds the singleton instance once constructed
	cache instanceCache
}

// dependency is one input a construction rule needs before it can run
type dependency struct {
	ref      ContractRef
	optional bool

	// fieldIndex locates the target field for structRule bindings
	fieldIndex int
}

// Dependencies returns the contract references the binding's rule consumes,
// in declaration order
func (b *Binding) Dependencies() []ContractRef {
	refs := make([]ContractRef, len(b.deps))
	for i, d := range b.deps {
		refs[i] = d.ref
	}
	return refs
}

// Kind returns a human-readable name for the binding's rule
func (b *Binding) Kind() string {
	return b.kind.String()
}

// String formats the binding for diagnostics
func (b *Binding) String() string {
	return fmt.Sprintf("%s -> %s rule (%s)", b.Contract, b.kind, b.Scope)
}

// BindOption customizes a binding at registration time
type BindOption func(*Binding)

// Named attaches a qualifier to the binding so multiple bindings of the same
// contract type can coexist
func Named(qualifier string) BindOption {
	return func(b *Binding) {
		b.Contract.Qualifier = qualifier
	}
}

// In sets the binding's lifecycle scope
func In(scope Scope) BindOption {
	return func(b *Binding) {
		b.Scope = scope
	}
}

// AsEager marks a singleton binding for construction during Container.Start
func AsEager() BindOption {
	return func(b *Binding) {
		b.Eager = true
	}
}

// newBinding creates a binding skeleton with defaults applied
func newBinding(ref ContractRef, opts ...BindOption) *Binding {
	b := &Binding{
		ID:       uuid.NewString(),
		Contract: ref,
		Scope:    ScopeSingleton,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BindingBuilder attaches a construction rule to a pending binding. Obtain
// one via Bind; exactly one To* call completes the binding.
type BindingBuilder[T any] struct {
	builder *Builder
	binding *Binding
}

// Bind starts a binding for contract type T on the builder
func Bind[T any](builder *Builder, opts ...BindOption) *BindingBuilder[T] {
	return &BindingBuilder[T]{
		builder: builder,
		binding: newBinding(For[T](), opts...),
	}
}

// To completes the binding with a constructor function. The constructor's
// parameters declare its dependencies and are resolved from the container;
// it must return T, or T plus an error.
func (bb *BindingBuilder[T]) To(constructor interface{}) {
	b := bb.binding
	if constructor == nil {
		bb.builder.recordError(&InvalidConstructorError{Contract: b.Contract, Reason: "constructor is nil"})
		return
	}

	fn := reflect.ValueOf(constructor)
	if fn.Kind() != reflect.Func {
		bb.builder.recordError(&InvalidConstructorError{
			Contract: b.Contract,
			Reason:   fmt.Sprintf("expected a function, got %s", fn.Kind()),
		})
		return
	}

	if err := validateConstructorShape(b.Contract, fn.Type()); err != nil {
		bb.builder.recordError(err)
		return
	}

	b.kind = constructorRule
	b.ctor = fn
	b.deps = constructorDependencies(fn.Type())
	bb.builder.add(b)
}

// ToProvider completes the binding with a provider function that receives the
// container and performs its own lookups
func (bb *BindingBuilder[T]) ToProvider(provider func(*Container) (T, error)) {
	b := bb.binding
	if provider == nil {
		bb.builder.recordError(&InvalidConstructorError{Contract: b.Contract, Reason: "provider is nil"})
		return
	}

	b.kind = providerRule
	b.provider = func(c *Container) (interface{}, error) {
		return provider(c)
	}
	bb.builder.add(b)
}

// ToInstance completes the binding with a fixed value. Instance bindings are
// always singletons.
func (bb *BindingBuilder[T]) ToInstance(instance T) {
	b := bb.binding
	b.kind = instanceRule
	b.instance = instance
	b.Scope = ScopeSingleton
	bb.builder.add(b)
}

// ToStruct completes the binding by allocating a struct of type S and filling
// its inject-tagged exported fields from the container. S (or *S) must
// satisfy the contract type.
func ToStruct[T any, S any](bb *BindingBuilder[T]) {
	b := bb.binding
	st := reflect.TypeOf((*S)(nil)).Elem()
	if st.Kind() != reflect.Struct {
		bb.builder.recordError(&InvalidConstructorError{
			Contract: b.Contract,
			Reason:   fmt.Sprintf("ToStruct target must be a struct type, got %s", st.Kind()),
		})
		return
	}

	if !reflect.PointerTo(st).AssignableTo(b.Contract.Type) && !st.AssignableTo(b.Contract.Type) {
		bb.builder.recordError(&InvalidConstructorError{
			Contract: b.Contract,
			Reason:   fmt.Sprintf("struct %s does not satisfy the contract type", st),
		})
		return
	}

	deps, err := structDependencies(b.Contract, st)
	if err != nil {
		bb.builder.recordError(err)
		return
	}

	b.kind = structRule
	b.structType = st
	b.deps = deps
	bb.builder.add(b)
}

// validateConstructorShape checks that a constructor function returns the
// contract type, optionally with a trailing error
func validateConstructorShape(ref ContractRef, fnType reflect.Type) error {
	if fnType.IsVariadic() {
		return &InvalidConstructorError{Contract: ref, Reason: "variadic constructors are not supported"}
	}

	switch fnType.NumOut() {
	case 1:
		// value only
	case 2:
		if !fnType.Out(1).Implements(errorType) {
			return &InvalidConstructorError{
				Contract: ref,
				Reason:   fmt.Sprintf("second return value must be error, got %s", fnType.Out(1)),
			}
		}
	default:
		return &InvalidConstructorError{
			Contract: ref,
			Reason:   fmt.Sprintf("constructor must return the value, or the value and an error; it returns %d values", fnType.NumOut()),
		}
	}

	if !fnType.Out(0).AssignableTo(ref.Type) {
		return &InvalidConstructorError{
			Contract: ref,
			Reason:   fmt.Sprintf("return type %s does not satisfy the contract type", fnType.Out(0)),
		}
	}

	return nil
}

// constructorDependencies derives the dependency list from a constructor's
// parameter types
func constructorDependencies(fnType reflect.Type) []dependency {
	deps := make([]dependency, 0, fnType.NumIn())
	for i := 0; i < fnType.NumIn(); i++ {
		deps = append(deps, dependency{ref: ContractRef{Type: fnType.In(i)}})
	}
	return deps
}

// structDependencies derives the dependency list from a struct's
// inject-tagged exported fields
func structDependencies(ref ContractRef, st reflect.Type) ([]dependency, error) {
	var deps []dependency
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		tag, ok := field.Tag.Lookup(injectTagName)
		if !ok {
			continue
		}
		if !field.IsExported() {
			return nil, &InvalidConstructorError{
				Contract: ref,
				Reason:   fmt.Sprintf("inject tag on unexported field %s.%s", st, field.Name),
			}
		}

		spec, err := parseInjectTag(tag)
		if err != nil {
			return nil, &InvalidConstructorError{
				Contract: ref,
				Reason:   fmt.Sprintf("field %s.%s: %v", st, field.Name, err),
			}
		}

		deps = append(deps, dependency{
			ref:        ContractRef{Type: field.Type, Qualifier: spec.Name},
			optional:   spec.Optional,
			fieldIndex: i,
		})
	}
	return deps, nil
}
