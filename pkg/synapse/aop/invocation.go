// Package aop wraps instances and functions with interceptor chains for
// cross-cutting behavior. Matchers choose which methods are intercepted;
// interceptors run in registration order and either delegate through
// Invocation.Proceed, short-circuit by returning their own results, or
// transform the results and errors flowing back out.
package aop

// Interceptor observes or alters one invocation. Calling inv.Proceed() runs
// the next interceptor (or the target method once the chain is exhausted).
// Returning without calling Proceed short-circuits the call.
type Interceptor func(inv *Invocation) ([]interface{}, error)

// Invocation carries one in-flight call through an interceptor chain
type Invocation struct {
	name string

	// Args are the call arguments. Interceptors may replace entries before
	// delegating.
	Args []interface{}

	chain  []Interceptor
	index  int
	target func(args []interface{}) ([]interface{}, error)
}

// newInvocation builds the chain state for a single call
func newInvocation(name string, args []interface{}, chain []Interceptor, target func([]interface{}) ([]interface{}, error)) *Invocation {
	return &Invocation{name: name, Args: args, chain: chain, target: target}
}

// Name returns the name of the intercepted method
func (inv *Invocation) Name() string {
	return inv.name
}

// Proceed delegates to the next interceptor in the chain, or to the target
// method once every interceptor has run. The target's results and failure
// propagate back unchanged unless an interceptor rewrites them.
func (inv *Invocation) Proceed() ([]interface{}, error) {
	if inv.index < len(inv.chain) {
		next := inv.chain[inv.index]
		inv.index++
		return next(inv)
	}
	return inv.target(inv.Args)
}

// run starts the chain from the first interceptor
func (inv *Invocation) run() ([]interface{}, error) {
	return inv.Proceed()
}
