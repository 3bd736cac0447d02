package aop

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeter struct {
	calls int
}

func (g *greeter) Greet(name string) string {
	g.calls++
	return "hello " + name
}

func (g *greeter) Fail(name string) (string, error) {
	g.calls++
	return "", errors.New("greeting failed")
}

func TestProxy_CallDelegatesToTarget(t *testing.T) {
	target := &greeter{}
	p, err := Wrap(target, Any())
	require.NoError(t, err)

	results, err := p.Call("Greet", "world")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "hello world", results[0])
	assert.Equal(t, 1, target.calls)
}

func TestProxy_InterceptorsRunInRegistrationOrder(t *testing.T) {
	var order []string

	first := func(inv *Invocation) ([]interface{}, error) {
		order = append(order, "first-before")
		results, err := inv.Proceed()
		order = append(order, "first-after")
		return results, err
	}
	second := func(inv *Invocation) ([]interface{}, error) {
		order = append(order, "second-before")
		results, err := inv.Proceed()
		order = append(order, "second-after")
		return results, err
	}

	p, err := Wrap(&greeter{}, Any(), first, second)
	require.NoError(t, err)

	_, err = p.Call("Greet", "world")
	require.NoError(t, err)
	assert.Equal(t, []string{"first-before", "second-before", "second-after", "first-after"}, order)
}

func TestProxy_InterceptorShortCircuits(t *testing.T) {
	target := &greeter{}
	shortCircuit := func(inv *Invocation) ([]interface{}, error) {
		return []interface{}{"cached"}, nil
	}

	p, err := Wrap(target, Any(), shortCircuit)
	require.NoError(t, err)

	results, err := p.Call("Greet", "world")
	require.NoError(t, err)
	assert.Equal(t, "cached", results[0])
	// target was never invoked
	assert.Equal(t, 0, target.calls)
}

func TestProxy_UnmatchedMethodBypassesChain(t *testing.T) {
	intercepted := false
	spy := func(inv *Invocation) ([]interface{}, error) {
		intercepted = true
		return inv.Proceed()
	}

	p, err := Wrap(&greeter{}, Named("Fail"), spy)
	require.NoError(t, err)

	_, err = p.Call("Greet", "world")
	require.NoError(t, err)
	assert.False(t, intercepted)

	_, err = p.Call("Fail", "world")
	require.Error(t, err)
	assert.True(t, intercepted)
}

func TestProxy_ErrorPropagatesUnchanged(t *testing.T) {
	passthrough := func(inv *Invocation) ([]interface{}, error) {
		return inv.Proceed()
	}

	p, err := Wrap(&greeter{}, Any(), passthrough)
	require.NoError(t, err)

	_, err = p.Call("Fail", "x")
	require.Error(t, err)
	assert.Equal(t, "greeting failed", err.Error())
}

func TestProxy_InterceptorCanRewriteArguments(t *testing.T) {
	upper := func(inv *Invocation) ([]interface{}, error) {
		inv.Args[0] = "rewritten"
		return inv.Proceed()
	}

	p, err := Wrap(&greeter{}, Any(), upper)
	require.NoError(t, err)

	results, err := p.Call("Greet", "original")
	require.NoError(t, err)
	assert.Equal(t, "hello rewritten", results[0])
}

func TestProxy_UnknownMethod(t *testing.T) {
	p, err := Wrap(&greeter{}, Any())
	require.NoError(t, err)

	_, err = p.Call("Missing")
	assert.Error(t, err)
}

func TestProxy_WrapRejectsNil(t *testing.T) {
	_, err := Wrap(nil, Any())
	assert.Error(t, err)
}

func TestWrapFunc_ReturnsSameTypedProxy(t *testing.T) {
	calls := 0
	base := func(a, b int) int {
		calls++
		return a + b
	}

	logged := func(inv *Invocation) ([]interface{}, error) {
		return inv.Proceed()
	}

	wrapped := WrapFunc("Add", base, logged)
	assert.Equal(t, 5, wrapped(2, 3))
	assert.Equal(t, 1, calls)
}

func TestWrapFunc_ShortCircuitSkipsTarget(t *testing.T) {
	calls := 0
	base := func(key string) (string, error) {
		calls++
		return "live-" + key, nil
	}

	cache := func(inv *Invocation) ([]interface{}, error) {
		if inv.Args[0] == "cached" {
			return []interface{}{"from-cache"}, nil
		}
		return inv.Proceed()
	}

	wrapped := WrapFunc("Lookup", base, cache)

	got, err := wrapped("cached")
	require.NoError(t, err)
	assert.Equal(t, "from-cache", got)
	assert.Equal(t, 0, calls)

	got, err = wrapped("fresh")
	require.NoError(t, err)
	assert.Equal(t, "live-fresh", got)
	assert.Equal(t, 1, calls)
}

func TestWrapFunc_InterceptorErrorMapsToErrorReturn(t *testing.T) {
	base := func(key string) (string, error) {
		return "value", nil
	}

	deny := func(inv *Invocation) ([]interface{}, error) {
		return nil, errors.New("access denied")
	}

	wrapped := WrapFunc("Lookup", base, deny)

	got, err := wrapped("secret")
	require.Error(t, err)
	assert.Equal(t, "access denied", err.Error())
	assert.Empty(t, got)
}

func TestWrapFunc_TargetErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	base := func() error { return boom }

	passthrough := func(inv *Invocation) ([]interface{}, error) {
		return inv.Proceed()
	}

	wrapped := WrapFunc("Do", base, passthrough)
	assert.ErrorIs(t, wrapped(), boom)
}

func TestInvocation_Name(t *testing.T) {
	var seen string
	spy := func(inv *Invocation) ([]interface{}, error) {
		seen = inv.Name()
		return inv.Proceed()
	}

	wrapped := WrapFunc("Compute", func() int { return 1 }, spy)
	wrapped()
	assert.Equal(t, "Compute", seen)
}
