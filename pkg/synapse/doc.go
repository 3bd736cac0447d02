// Package synapse is a reflection-based dependency injection container.
//
// Bindings map a contract (a Go type plus an optional qualifier) to a
// construction rule: a constructor function, a provider, a fixed instance, or
// an inject-tagged struct. Bindings are declared on a Builder inside a
// composition root, optionally grouped into Modules, and frozen into an
// immutable Container by Build.
//
// Resolution walks the dependency graph depth-first, constructing transitive
// dependencies before invoking each rule. Singleton-scoped bindings cache
// their first instance for the container's lifetime with construction
// serialized per binding; prototype-scoped bindings construct fresh instances
// on every resolution. Cycles in the statically-declared graph fail Build;
// cycles introduced through providers fail at resolution time.
//
// Typical usage:
//
//	b := synapse.NewBuilder()
//	synapse.Bind[Config](b).ToInstance(cfg)
//	synapse.Bind[*sql.DB](b).To(openDatabase)
//	synapse.Bind[UserStore](b, synapse.In(synapse.ScopeSingleton)).To(NewUserStore)
//
//	c, err := b.Build()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Close()
//
//	store, err := synapse.Resolve[UserStore](c)
package synapse
