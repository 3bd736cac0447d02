package aop

import (
	"fmt"
	"reflect"
)

// Proxy exposes an instance's methods behind an interceptor chain. Methods
// the matcher rejects are dispatched straight to the target.
type Proxy struct {
	target       reflect.Value
	matcher      Matcher
	interceptors []Interceptor
}

// Wrap builds a proxy around an instance. The matcher selects which methods
// run the interceptor chain; interceptors execute in the order given.
func Wrap(instance interface{}, matcher Matcher, interceptors ...Interceptor) (*Proxy, error) {
	if instance == nil {
		return nil, fmt.Errorf("aop: cannot wrap a nil instance")
	}
	if matcher == nil {
		matcher = Any()
	}
	return &Proxy{
		target:       reflect.ValueOf(instance),
		matcher:      matcher,
		interceptors: interceptors,
	}, nil
}

// Target returns the wrapped instance
func (p *Proxy) Target() interface{} {
	return p.target.Interface()
}

// Call invokes the named method on the target. Matched methods run through
// the interceptor chain; unmatched methods are called directly. The target
// method's trailing error return, if any, is split out of the result slice.
func (p *Proxy) Call(method string, args ...interface{}) ([]interface{}, error) {
	m := p.target.MethodByName(method)
	if !m.IsValid() {
		return nil, fmt.Errorf("aop: %s has no method %q", p.target.Type(), method)
	}

	target := func(callArgs []interface{}) ([]interface{}, error) {
		return callMethod(m, callArgs)
	}

	if !p.matcher.Matches(method) {
		return target(args)
	}

	return newInvocation(method, args, p.interceptors, target).run()
}

// callMethod performs the reflective call and splits a trailing error return
func callMethod(m reflect.Value, args []interface{}) ([]interface{}, error) {
	mt := m.Type()
	if len(args) != mt.NumIn() {
		return nil, fmt.Errorf("aop: method expects %d arguments, got %d", mt.NumIn(), len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		in[i] = argValue(mt.In(i), arg)
	}

	out := m.Call(in)

	hasError := mt.NumOut() > 0 && mt.Out(mt.NumOut()-1) == errType
	var callErr error
	if hasError {
		if last := out[len(out)-1]; !last.IsNil() {
			callErr = last.Interface().(error)
		}
		out = out[:len(out)-1]
	}

	results := make([]interface{}, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}
	return results, callErr
}

// WrapFunc returns a same-typed function whose calls run through the
// interceptor chain. The chain's error maps onto fn's trailing error return;
// a chain error for a function without one panics, since there is nowhere to
// report it.
func WrapFunc[F any](name string, fn F, interceptors ...Interceptor) F {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		panic(fmt.Sprintf("aop: WrapFunc expects a function, got %T", fn))
	}
	return WrapFuncValue(name, v, interceptors...).Interface().(F)
}

// WrapFuncValue is the reflect.Value form of WrapFunc, for callers that build
// proxies dynamically
func WrapFuncValue(name string, fn reflect.Value, interceptors ...Interceptor) reflect.Value {
	fnType := fn.Type()
	hasError := fnType.NumOut() > 0 && fnType.Out(fnType.NumOut()-1) == errType

	return reflect.MakeFunc(fnType, func(in []reflect.Value) []reflect.Value {
		args := make([]interface{}, len(in))
		for i, v := range in {
			args[i] = v.Interface()
		}

		target := func(callArgs []interface{}) ([]interface{}, error) {
			return callMethod(fn, callArgs)
		}

		results, err := newInvocation(name, args, interceptors, target).run()
		if err != nil && !hasError {
			panic(fmt.Sprintf("aop: interceptor for %q returned an error but the function has no error return: %v", name, err))
		}

		valueOuts := fnType.NumOut()
		if hasError {
			valueOuts--
		}
		// A failing chain may omit result values; they become zero values.
		if len(results) != valueOuts && err == nil {
			panic(fmt.Sprintf("aop: interceptor for %q returned %d values, function returns %d", name, len(results), valueOuts))
		}

		out := make([]reflect.Value, 0, fnType.NumOut())
		for i := 0; i < valueOuts; i++ {
			if i < len(results) {
				out = append(out, argValue(fnType.Out(i), results[i]))
			} else {
				out = append(out, reflect.Zero(fnType.Out(i)))
			}
		}
		if hasError {
			if err != nil {
				out = append(out, reflect.ValueOf(&err).Elem())
			} else {
				out = append(out, reflect.Zero(errType))
			}
		}
		return out
	})
}

// argValue converts an interface value to a reflect.Value of the wanted type,
// substituting a zero value for untyped nils
func argValue(want reflect.Type, v interface{}) reflect.Value {
	if v == nil {
		return reflect.Zero(want)
	}
	rv := reflect.ValueOf(v)
	if rv.Type() != want && rv.Type().ConvertibleTo(want) && !rv.Type().AssignableTo(want) {
		return rv.Convert(want)
	}
	return rv
}

// errType recognizes error returns during reflective calls
var errType = reflect.TypeOf((*error)(nil)).Elem()
