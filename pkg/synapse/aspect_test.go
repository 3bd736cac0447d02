package synapse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/synapse/pkg/synapse/aop"
)

type lookupFunc func(key string) (string, error)

func TestBuilder_InterceptWrapsMatchingFunctionBindings(t *testing.T) {
	hits := 0
	base := lookupFunc(func(key string) (string, error) {
		hits++
		return "live-" + key, nil
	})

	cache := func(inv *aop.Invocation) ([]interface{}, error) {
		if inv.Args[0] == "cached" {
			return []interface{}{"from-cache"}, nil
		}
		return inv.Proceed()
	}

	b := NewBuilder()
	Bind[lookupFunc](b).ToInstance(base)
	b.Intercept(aop.Any(), cache)

	c, err := b.Build()
	require.NoError(t, err)

	fn, err := Resolve[lookupFunc](c)
	require.NoError(t, err)

	got, err := fn("cached")
	require.NoError(t, err)
	assert.Equal(t, "from-cache", got)
	assert.Equal(t, 0, hits)

	got, err = fn("fresh")
	require.NoError(t, err)
	assert.Equal(t, "live-fresh", got)
	assert.Equal(t, 1, hits)
}

func TestBuilder_InterceptRunsInRegistrationOrderAcrossCalls(t *testing.T) {
	var calls []string
	trace := func(name string) aop.Interceptor {
		return func(inv *aop.Invocation) ([]interface{}, error) {
			calls = append(calls, name)
			return inv.Proceed()
		}
	}

	b := NewBuilder()
	Bind[lookupFunc](b).ToInstance(lookupFunc(func(key string) (string, error) {
		calls = append(calls, "target")
		return "live", nil
	}))
	b.Intercept(aop.Any(), trace("first"))
	b.Intercept(aop.Any(), trace("second"))

	c, err := b.Build()
	require.NoError(t, err)

	fn, err := Resolve[lookupFunc](c)
	require.NoError(t, err)

	_, err = fn("k")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "target"}, calls)
}

func TestBuilder_InterceptSkipsUnmatchedContracts(t *testing.T) {
	intercepted := false
	spy := func(inv *aop.Invocation) ([]interface{}, error) {
		intercepted = true
		return inv.Proceed()
	}

	b := NewBuilder()
	Bind[lookupFunc](b).ToInstance(lookupFunc(func(key string) (string, error) {
		return "live", nil
	}))
	b.Intercept(aop.Named("something else"), spy)

	c, err := b.Build()
	require.NoError(t, err)

	fn, err := Resolve[lookupFunc](c)
	require.NoError(t, err)

	_, err = fn("k")
	require.NoError(t, err)
	assert.False(t, intercepted)
}

func TestBuilder_InterceptLeavesNonFunctionBindingsAlone(t *testing.T) {
	spy := func(inv *aop.Invocation) ([]interface{}, error) {
		return inv.Proceed()
	}

	b := NewBuilder()
	Bind[*testConfig](b).ToInstance(&testConfig{DSN: "x"})
	b.Intercept(aop.Any(), spy)

	c, err := b.Build()
	require.NoError(t, err)

	cfg, err := Resolve[*testConfig](c)
	require.NoError(t, err)
	assert.Equal(t, "x", cfg.DSN)
}

func TestBuilder_InterceptErrorPropagation(t *testing.T) {
	denied := errors.New("denied")
	deny := func(inv *aop.Invocation) ([]interface{}, error) {
		return nil, denied
	}

	b := NewBuilder()
	Bind[lookupFunc](b).ToInstance(lookupFunc(func(key string) (string, error) {
		return "live", nil
	}))
	b.Intercept(aop.Any(), deny)

	c, err := b.Build()
	require.NoError(t, err)

	fn, err := Resolve[lookupFunc](c)
	require.NoError(t, err)

	_, err = fn("k")
	assert.ErrorIs(t, err, denied)
}

func TestBuilder_InterceptValidation(t *testing.T) {
	b := NewBuilder()
	b.Intercept(nil, func(inv *aop.Invocation) ([]interface{}, error) { return inv.Proceed() })

	_, err := b.Build()
	assert.Error(t, err)

	b = NewBuilder()
	b.Intercept(aop.Any())

	_, err = b.Build()
	assert.Error(t, err)
}
