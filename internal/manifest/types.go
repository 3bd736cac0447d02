// Package manifest parses .synapse wiring manifests: a small declaration
// language describing the bindings a composition root will register, so the
// dependency graph can be linted ahead of runtime.
//
// Manifest syntax:
//
//	# comments start with a hash
//	module app
//
//	bind Config -> config.FileConfig -Eager
//	bind Database -> postgres.Database needs Config
//	bind UserStore @primary -> store.SQLUserStore needs Database, Config -Mode=Prototype
package manifest

// SourceLocation identifies where a declaration appears in a manifest file
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

// Binding is one parsed and validated bind declaration
type Binding struct {
	// Contract is the capability name being bound
	Contract string

	// Qualifier is the optional disambiguating tag (empty when unqualified)
	Qualifier string

	// Impl is the implementation the contract is bound to
	Impl string

	// Needs lists the contracts the implementation depends on
	Needs []string

	// Mode is the lifecycle scope, "Singleton" (default) or "Prototype"
	Mode string

	// Eager requests construction at container start
	Eager bool

	// Location is the declaration's position for diagnostics
	Location SourceLocation
}

// Key returns the duplicate-detection key for the binding
func (b *Binding) Key() string {
	if b.Qualifier == "" {
		return b.Contract
	}
	return b.Contract + "@" + b.Qualifier
}

// Manifest is a fully parsed manifest file
type Manifest struct {
	// Module is the graph name from the module declaration, or the file's
	// base name when the declaration is absent
	Module string

	// Bindings are the declarations in file order
	Bindings []*Binding

	// Path is the manifest file the declarations came from
	Path string
}

// Lifecycle mode values accepted by the -Mode parameter
const (
	ModeSingleton = "Singleton"
	ModePrototype = "Prototype"
)
