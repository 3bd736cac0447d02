package synapse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/toyz/synapse/pkg/synapse/aop"
)

// Module groups related bindings so a composition root can be assembled from
// reusable parts
type Module interface {
	// Configure registers the module's bindings on the builder
	Configure(builder *Builder)
}

// ModuleFunc adapts a plain function to the Module interface
type ModuleFunc func(*Builder)

// Configure implements Module
func (f ModuleFunc) Configure(builder *Builder) {
	f(builder)
}

// Builder collects bindings and aspects during container configuration.
// Registration errors are recorded and reported together by Build, so a
// composition root reads as a flat list of declarations.
type Builder struct {
	registry *bindingRegistry
	aspects  []aspect
	errs     []error
}

// aspect pairs a matcher with the interceptors it applies to matching
// function-typed bindings
type aspect struct {
	matcher      aop.Matcher
	interceptors []aop.Interceptor
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{registry: newBindingRegistry()}
}

// Install applies one or more modules to the builder
func (b *Builder) Install(modules ...Module) {
	for _, m := range modules {
		if m == nil {
			b.recordError(errors.New("synapse: Install called with a nil module"))
			continue
		}
		m.Configure(b)
	}
}

// Intercept registers an interceptor chain applied, in registration order, to
// every function-typed binding whose contract matches the matcher
func (b *Builder) Intercept(matcher aop.Matcher, interceptors ...aop.Interceptor) {
	if matcher == nil {
		b.recordError(errors.New("synapse: Intercept called with a nil matcher"))
		return
	}
	if len(interceptors) == 0 {
		b.recordError(errors.New("synapse: Intercept called without interceptors"))
		return
	}
	b.aspects = append(b.aspects, aspect{matcher: matcher, interceptors: interceptors})
}

// add registers a completed binding, recording duplicate-key failures
func (b *Builder) add(binding *Binding) {
	if !binding.Scope.IsValid() {
		b.recordError(&UnknownScopeError{Value: string(binding.Scope)})
		return
	}
	if err := b.registry.register(binding); err != nil {
		b.recordError(err)
	}
}

// recordError stores a configuration error for Build to report
func (b *Builder) recordError(err error) {
	b.errs = append(b.errs, err)
}

// Build freezes the registered bindings into an immutable container. It fails
// with the collected configuration errors, or with CircularDependencyError
// when the statically-declared dependency graph contains a cycle.
func (b *Builder) Build() (*Container, error) {
	if len(b.errs) == 1 {
		return nil, b.errs[0]
	}
	if len(b.errs) > 1 {
		return nil, &MultipleBindingErrors{Errors: b.errs}
	}

	if err := detectStaticCycles(b.registry); err != nil {
		return nil, err
	}

	return &Container{
		id:        uuid.NewString(),
		registry:  b.registry,
		aspects:   b.aspects,
		lifecycle: &lifecycleState{},
	}, nil
}

// Container resolves contracts against an immutable set of bindings. It is
// safe for concurrent use; singleton construction is serialized per binding.
type Container struct {
	id       string
	registry *bindingRegistry
	aspects  []aspect

	// res carries the active walk when the container is handed to a provider
	res *resolution

	// lifecycle is shared between a container and its provider views so
	// Close sees every tracked instance
	lifecycle *lifecycleState
}

// lifecycleState tracks singletons that need shutdown
type lifecycleState struct {
	mu      sync.Mutex
	closers []io.Closer
	closed  bool
}

// ErrContainerClosed is returned by Resolve, Invoke, and Start after Close
var ErrContainerClosed = errors.New("synapse: container is closed")

// checkOpen fails once Close has run
func (c *Container) checkOpen() error {
	ls := c.lifecycle
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.closed {
		return ErrContainerClosed
	}
	return nil
}

// ID returns the container's unique identifier
func (c *Container) ID() string {
	return c.id
}

// Resolve returns a fully constructed instance for the contract reference
func (c *Container) Resolve(ref ContractRef) (interface{}, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	res := c.res
	if res == nil {
		res = newResolution()
	}
	return c.resolveRef(ref, res)
}

// Has reports whether a binding exists for the contract reference
func (c *Container) Has(ref ContractRef) bool {
	return c.registry.has(ref)
}

// Bindings returns the registered bindings in registration order
func (c *Container) Bindings() []*Binding {
	return c.registry.all()
}

// Invoke calls fn with arguments resolved from the container. fn may return
// nothing, or a single error.
func (c *Container) Invoke(fn interface{}) error {
	if err := c.checkOpen(); err != nil {
		return err
	}

	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return fmt.Errorf("synapse: Invoke expects a function, got %T", fn)
	}
	t := v.Type()
	if t.NumOut() > 1 || (t.NumOut() == 1 && !t.Out(0).Implements(errorType)) {
		return fmt.Errorf("synapse: Invoke target may only return an error")
	}

	res := c.res
	if res == nil {
		res = newResolution()
	}

	args := make([]reflect.Value, t.NumIn())
	for i := 0; i < t.NumIn(); i++ {
		value, err := c.resolveRef(ContractRef{Type: t.In(i)}, res)
		if err != nil {
			return err
		}
		args[i] = valueFor(t.In(i), value)
	}

	out := v.Call(args)
	if len(out) == 1 && !out[0].IsNil() {
		return out[0].Interface().(error)
	}
	return nil
}

// Start constructs every eager singleton in registration order. Instances
// implementing Starter are started as they are constructed.
func (c *Container) Start(ctx context.Context) error {
	if err := c.checkOpen(); err != nil {
		return err
	}

	for _, binding := range c.registry.all() {
		if !binding.Eager || binding.Scope != ScopeSingleton {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		instance, err := c.Resolve(binding.Contract)
		if err != nil {
			return err
		}
		if starter, ok := instance.(Starter); ok {
			if err := starter.Start(ctx); err != nil {
				return &ConstructionError{Contract: binding.Contract, Err: err}
			}
		}
	}
	return nil
}

// Starter is implemented by instances that need a startup hook when resolved
// eagerly via Container.Start
type Starter interface {
	Start(ctx context.Context) error
}

// Close shuts down every singleton that implements io.Closer, in reverse
// construction order. The container rejects further use after Close.
func (c *Container) Close() error {
	ls := c.lifecycle
	ls.mu.Lock()
	if ls.closed {
		ls.mu.Unlock()
		return nil
	}
	ls.closed = true
	closers := ls.closers
	ls.closers = nil
	ls.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// withResolution returns a shallow view of the container that shares the
// active walk, so provider lookups participate in cycle detection
func (c *Container) withResolution(res *resolution) *Container {
	view := *c
	view.res = res
	return &view
}

// trackInstance records singleton instances that need shutdown on Close
func (c *Container) trackInstance(instance interface{}) {
	closer, ok := instance.(io.Closer)
	if !ok {
		return
	}
	ls := c.lifecycle
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if !ls.closed {
		ls.closers = append(ls.closers, closer)
	}
}

// applyAspects wraps function-typed instances with every registered
// interceptor chain whose matcher accepts the binding's contract
func (c *Container) applyAspects(binding *Binding, instance interface{}) interface{} {
	if len(c.aspects) == 0 {
		return instance
	}

	v := reflect.ValueOf(instance)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return instance
	}

	name := binding.Contract.String()
	wrapped := v
	// Wrap in reverse so the first-registered aspect ends up outermost and
	// interceptors run in registration order across Intercept calls
	for i := len(c.aspects) - 1; i >= 0; i-- {
		a := c.aspects[i]
		if a.matcher.Matches(name) {
			wrapped = aop.WrapFuncValue(name, wrapped, a.interceptors...)
		}
	}
	return wrapped.Interface()
}

// Resolve returns the instance bound to contract type T
func Resolve[T any](c *Container) (T, error) {
	return ResolveNamed[T](c, "")
}

// ResolveNamed returns the instance bound to contract type T under the given
// qualifier
func ResolveNamed[T any](c *Container, qualifier string) (T, error) {
	var zero T
	instance, err := c.Resolve(ForNamed[T](qualifier))
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, &InvalidConstructorError{
			Contract: ForNamed[T](qualifier),
			Reason:   fmt.Sprintf("bound instance has type %T", instance),
		}
	}
	return typed, nil
}

// MustResolve returns the instance bound to contract type T or panics.
// Intended for composition roots where a missing binding is fatal.
func MustResolve[T any](c *Container) T {
	instance, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return instance
}
