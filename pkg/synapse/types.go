package synapse

import (
	"fmt"
	"reflect"
)

// Scope controls the lifecycle of instances produced by a binding
type Scope string

const (
	// ScopeSingleton caches the first constructed instance for the lifetime
	// of the container (the default)
	ScopeSingleton Scope = "Singleton"

	// ScopePrototype constructs a fresh instance on every resolution
	ScopePrototype Scope = "Prototype"
)

// String returns the string representation of the scope
func (s Scope) String() string {
	return string(s)
}

// IsValid reports whether the scope is one of the supported lifecycle modes
func (s Scope) IsValid() bool {
	return s == ScopeSingleton || s == ScopePrototype
}

// ParseScope converts a string (case-sensitive) into a Scope
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeSingleton:
		return ScopeSingleton, nil
	case ScopePrototype:
		return ScopePrototype, nil
	default:
		return "", &UnknownScopeError{Value: s}
	}
}

// ContractRef identifies a capability inside a container: a Go type plus an
// optional qualifier that disambiguates multiple bindings of the same type
type ContractRef struct {
	// Type is the contract type (usually an interface, but any type works)
	Type reflect.Type

	// Qualifier is an optional disambiguating tag; empty means the default
	// (unqualified) binding for the type
	Qualifier string
}

// For returns the ContractRef for type T with no qualifier
func For[T any]() ContractRef {
	return ContractRef{Type: reflect.TypeOf((*T)(nil)).Elem()}
}

// ForNamed returns the ContractRef for type T with the given qualifier
func ForNamed[T any](qualifier string) ContractRef {
	return ContractRef{Type: reflect.TypeOf((*T)(nil)).Elem(), Qualifier: qualifier}
}

// ContractOf returns the ContractRef for a value's dynamic type
func ContractOf(v interface{}) ContractRef {
	return ContractRef{Type: reflect.TypeOf(v)}
}

// WithQualifier returns a copy of the reference carrying the given qualifier
func (r ContractRef) WithQualifier(qualifier string) ContractRef {
	r.Qualifier = qualifier
	return r
}

// String formats the reference for error messages and diagnostics.
// Unqualified: "io.Writer". Qualified: `io.Writer@"primary"`.
func (r ContractRef) String() string {
	name := "<nil>"
	if r.Type != nil {
		name = r.Type.String()
	}
	if r.Qualifier == "" {
		return name
	}
	return fmt.Sprintf("%s@%q", name, r.Qualifier)
}

// errorType is used by constructor inspection to recognize error returns
var errorType = reflect.TypeOf((*error)(nil)).Elem()
