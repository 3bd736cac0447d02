package synapse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildError(t *testing.T, configure func(*Builder)) error {
	t.Helper()
	b := NewBuilder()
	configure(b)
	_, err := b.Build()
	require.Error(t, err)
	return err
}

func TestBind_RejectsNilConstructor(t *testing.T) {
	err := buildError(t, func(b *Builder) {
		Bind[userStore](b).To(nil)
	})

	var invalid *InvalidConstructorError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, "nil")
}

func TestBind_RejectsNonFunctionConstructor(t *testing.T) {
	err := buildError(t, func(b *Builder) {
		Bind[userStore](b).To("not a function")
	})

	var invalid *InvalidConstructorError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, "expected a function")
}

func TestBind_RejectsWrongReturnType(t *testing.T) {
	err := buildError(t, func(b *Builder) {
		Bind[userStore](b).To(func() int { return 0 })
	})

	var invalid *InvalidConstructorError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, "does not satisfy the contract type")
}

func TestBind_RejectsExtraReturnValues(t *testing.T) {
	err := buildError(t, func(b *Builder) {
		Bind[*testConfig](b).To(func() (*testConfig, *testDatabase, error) { return nil, nil, nil })
	})

	var invalid *InvalidConstructorError
	require.ErrorAs(t, err, &invalid)
}

func TestBind_RejectsNonErrorSecondReturn(t *testing.T) {
	err := buildError(t, func(b *Builder) {
		Bind[*testConfig](b).To(func() (*testConfig, int) { return nil, 0 })
	})

	var invalid *InvalidConstructorError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, "must be error")
}

func TestBind_RejectsVariadicConstructor(t *testing.T) {
	err := buildError(t, func(b *Builder) {
		Bind[*testConfig](b).To(func(extra ...string) *testConfig { return nil })
	})

	var invalid *InvalidConstructorError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, "variadic")
}

func TestBind_RejectsUnknownScope(t *testing.T) {
	err := buildError(t, func(b *Builder) {
		Bind[*testConfig](b, In(Scope("Request"))).To(func() *testConfig { return &testConfig{} })
	})

	var unknown *UnknownScopeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Request", unknown.Value)
}

func TestToStruct_RejectsNonStructTarget(t *testing.T) {
	err := buildError(t, func(b *Builder) {
		ToStruct[*testConfig, int](Bind[*testConfig](b))
	})

	var invalid *InvalidConstructorError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, "must be a struct type")
}

func TestBinding_Dependencies(t *testing.T) {
	b := NewBuilder()
	Bind[*testConfig](b).ToInstance(&testConfig{})
	Bind[*testDatabase](b).To(newTestDatabase)

	c, err := b.Build()
	require.NoError(t, err)

	bindings := c.Bindings()
	require.Len(t, bindings, 2)

	assert.Empty(t, bindings[0].Dependencies())
	assert.Equal(t, "instance", bindings[0].Kind())

	deps := bindings[1].Dependencies()
	require.Len(t, deps, 1)
	assert.Equal(t, "*synapse.testConfig", deps[0].String())
	assert.Equal(t, "constructor", bindings[1].Kind())
	assert.NotEmpty(t, bindings[1].ID)
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		input   string
		want    Scope
		wantErr bool
	}{
		{input: "Singleton", want: ScopeSingleton},
		{input: "Prototype", want: ScopePrototype},
		{input: "singleton", wantErr: true},
		{input: "", wantErr: true},
		{input: "Request", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseScope(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
		} else {
			require.NoError(t, err, "input %q", tt.input)
			assert.Equal(t, tt.want, got)
		}
	}
}
