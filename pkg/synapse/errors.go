package synapse

import (
	"fmt"
	"strings"
)

// UnboundContractError is returned when a resolution (direct or transitive)
// requests a contract that has no registered binding
type UnboundContractError struct {
	// Contract is the reference that could not be satisfied
	Contract ContractRef

	// Path is the resolution chain that led to the missing contract, outermost
	// request first. Empty for direct lookups.
	Path []ContractRef
}

func (e *UnboundContractError) Error() string {
	msg := fmt.Sprintf("synapse: no binding for contract %s", e.Contract)
	if len(e.Path) > 0 {
		msg += fmt.Sprintf(" (required by %s)", formatPath(e.Path))
	}
	return msg + ". Register it on the builder before Build()"
}

// DuplicateBindingError is returned when a (contract, qualifier) pair is
// registered twice on the same builder
type DuplicateBindingError struct {
	// Contract is the reference that was already bound
	Contract ContractRef
}

func (e *DuplicateBindingError) Error() string {
	return fmt.Sprintf("synapse: duplicate binding for contract %s. Use Named() to register multiple bindings for the same type", e.Contract)
}

// CircularDependencyError is returned when the resolver revisits a contract
// that is still being constructed
type CircularDependencyError struct {
	// Cycle is the dependency chain, starting and ending at the repeated
	// contract (A -> B -> A)
	Cycle []ContractRef
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("synapse: circular dependency detected: %s. Break the cycle with a provider that defers one of the lookups", formatPath(e.Cycle))
}

// InvalidConstructorError is returned when a binding's construction rule does
// not have a usable shape (wrong kind, wrong return types, nil function)
type InvalidConstructorError struct {
	// Contract is the binding the rule was registered for
	Contract ContractRef

	// Reason describes what is wrong with the rule
	Reason string
}

func (e *InvalidConstructorError) Error() string {
	return fmt.Sprintf("synapse: invalid constructor for contract %s: %s", e.Contract, e.Reason)
}

// ConstructionError wraps a failure returned by a constructor or provider so
// callers can tell configuration mistakes from construction failures
type ConstructionError struct {
	// Contract is the binding whose rule failed
	Contract ContractRef

	// Err is the error returned by the constructor or provider
	Err error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("synapse: constructing %s: %v", e.Contract, e.Err)
}

// Unwrap exposes the constructor's error for errors.Is/As
func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// UnknownScopeError is returned when a scope string does not name a supported
// lifecycle mode
type UnknownScopeError struct {
	// Value is the rejected scope string
	Value string
}

func (e *UnknownScopeError) Error() string {
	return fmt.Sprintf("synapse: unknown scope %q. Scope must be %q or %q", e.Value, ScopeSingleton, ScopePrototype)
}

// MultipleBindingErrors collects every configuration error recorded on a
// builder so Build can report them all at once
type MultipleBindingErrors struct {
	Errors []error
}

func (e *MultipleBindingErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}

	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var messages []string
	for i, err := range e.Errors {
		messages = append(messages, fmt.Sprintf("  %d. %s", i+1, err.Error()))
	}

	return fmt.Sprintf("synapse: %d configuration errors:\n%s", len(e.Errors), strings.Join(messages, "\n"))
}

// Unwrap returns the underlying errors for error inspection
func (e *MultipleBindingErrors) Unwrap() []error {
	return e.Errors
}

// formatPath renders a resolution chain as "A -> B -> C"
func formatPath(path []ContractRef) string {
	parts := make([]string, len(path))
	for i, ref := range path {
		parts[i] = ref.String()
	}
	return strings.Join(parts, " -> ")
}
