package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `
# application wiring
module app

bind Config -> config.FileConfig -Eager
bind Database -> postgres.Database needs Config
bind UserStore @primary -> store.SQLUserStore needs Database, Config -Mode=Prototype
`

func TestParser_ParseManifest(t *testing.T) {
	p := NewParser()

	m, err := p.Parse("app.synapse", sampleManifest)
	require.NoError(t, err)

	assert.Equal(t, "app", m.Module)
	require.Len(t, m.Bindings, 3)

	cfg := m.Bindings[0]
	assert.Equal(t, "Config", cfg.Contract)
	assert.Equal(t, "config.FileConfig", cfg.Impl)
	assert.Empty(t, cfg.Needs)
	assert.Equal(t, ModeSingleton, cfg.Mode)
	assert.True(t, cfg.Eager)
	assert.Equal(t, 5, cfg.Location.Line)

	db := m.Bindings[1]
	assert.Equal(t, "Database", db.Contract)
	assert.Equal(t, []string{"Config"}, db.Needs)
	assert.False(t, db.Eager)

	store := m.Bindings[2]
	assert.Equal(t, "UserStore", store.Contract)
	assert.Equal(t, "primary", store.Qualifier)
	assert.Equal(t, "UserStore@primary", store.Key())
	assert.Equal(t, []string{"Database", "Config"}, store.Needs)
	assert.Equal(t, ModePrototype, store.Mode)
}

func TestParser_ModuleNameDefaultsToFileName(t *testing.T) {
	p := NewParser()

	m, err := p.Parse("wiring/services.synapse", "bind A -> impl.A")
	require.NoError(t, err)
	assert.Equal(t, "services", m.Module)
}

func TestParser_QuotedQualifier(t *testing.T) {
	p := NewParser()

	m, err := p.Parse("app.synapse", `bind Store @"read replica" -> impl.Store`)
	require.NoError(t, err)
	require.Len(t, m.Bindings, 1)
	assert.Equal(t, "read replica", m.Bindings[0].Qualifier)
}

func TestParser_RejectsUnknownParameter(t *testing.T) {
	p := NewParser()

	_, err := p.Parse("app.synapse", "bind A -> impl.A -Lazy")
	require.Error(t, err)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "Lazy", validation.Parameter)
	assert.Contains(t, validation.Suggestion(), "Supported bind parameters")
}

func TestParser_RejectsInvalidMode(t *testing.T) {
	p := NewParser()

	_, err := p.Parse("app.synapse", "bind A -> impl.A -Mode=Request")
	require.Error(t, err)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "Mode", validation.Parameter)
	assert.Contains(t, validation.Actual, "Request")
	assert.Equal(t, "app.synapse", validation.Location().File)
}

func TestParser_RejectsModeWithoutValue(t *testing.T) {
	p := NewParser()

	_, err := p.Parse("app.synapse", "bind A -> impl.A -Mode")
	require.Error(t, err)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "no value", validation.Actual)
}

func TestParser_RejectsEagerWithValue(t *testing.T) {
	p := NewParser()

	_, err := p.Parse("app.synapse", "bind A -> impl.A -Eager=true")
	require.Error(t, err)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "Eager", validation.Parameter)
}

func TestParser_SyntaxErrorCarriesPosition(t *testing.T) {
	p := NewParser()

	_, err := p.Parse("app.synapse", "bind A impl.A")
	require.Error(t, err)

	var syntax *SyntaxError
	require.ErrorAs(t, err, &syntax)
	assert.Equal(t, "app.synapse", syntax.Location().File)
	assert.Contains(t, syntax.Suggestion(), "bind Contract")
}

func TestParser_CollectsMultipleDeclarationErrors(t *testing.T) {
	p := NewParser()

	source := `
bind A -> impl.A -Lazy
bind B -> impl.B -Mode=Request
`
	_, err := p.Parse("app.synapse", source)
	require.Error(t, err)

	var multi *MultipleManifestErrors
	require.ErrorAs(t, err, &multi)
	assert.Len(t, multi.Errors, 2)
}

func TestParser_RejectsDuplicateModuleDeclaration(t *testing.T) {
	p := NewParser()

	_, err := p.Parse("app.synapse", "module one\nmodule two\n")
	require.Error(t, err)

	var syntax *SyntaxError
	require.ErrorAs(t, err, &syntax)
	assert.Contains(t, syntax.Error(), "duplicate module declaration")
}

func TestParser_ParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.synapse")
	require.NoError(t, os.WriteFile(path, []byte(sampleManifest), 0o644))

	p := NewParser()
	m, err := p.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "app", m.Module)
	assert.Equal(t, path, m.Path)
	assert.Len(t, m.Bindings, 3)
}

func TestParser_ParseFileMissing(t *testing.T) {
	p := NewParser()
	_, err := p.ParseFile(filepath.Join(t.TempDir(), "absent.synapse"))
	assert.Error(t, err)
}
