package web

import (
	"fmt"

	"github.com/toyz/synapse/pkg/synapse"
)

// Route binds an HTTP method and path to a handler contract. The handler is
// resolved from the container at mount time, so it participates in scoping
// and interception like any other binding.
type Route struct {
	Method    string
	Path      string
	Qualifier string
}

// GET is shorthand for a GET route resolved by qualifier
func GET(path, qualifier string) Route {
	return Route{Method: "GET", Path: path, Qualifier: qualifier}
}

// POST is shorthand for a POST route resolved by qualifier
func POST(path, qualifier string) Route {
	return Route{Method: "POST", Path: path, Qualifier: qualifier}
}

// PUT is shorthand for a PUT route resolved by qualifier
func PUT(path, qualifier string) Route {
	return Route{Method: "PUT", Path: path, Qualifier: qualifier}
}

// DELETE is shorthand for a DELETE route resolved by qualifier
func DELETE(path, qualifier string) Route {
	return Route{Method: "DELETE", Path: path, Qualifier: qualifier}
}

// Mount resolves each route's handler from the container and registers it
// with the server. Handlers are bound as HandlerFunc contracts, qualified by
// the route's qualifier.
func Mount(c *synapse.Container, server Server, routes ...Route) error {
	for _, route := range routes {
		ref := synapse.ForNamed[HandlerFunc](route.Qualifier)

		instance, err := c.Resolve(ref)
		if err != nil {
			return fmt.Errorf("failed to mount %s %s: %w", route.Method, route.Path, err)
		}

		handler, ok := instance.(HandlerFunc)
		if !ok {
			if fn, isFunc := instance.(func(Context) error); isFunc {
				handler = fn
			} else {
				return fmt.Errorf("failed to mount %s %s: binding %s is %T, not a web.HandlerFunc",
					route.Method, route.Path, ref, instance)
			}
		}

		server.Handle(route.Method, route.Path, handler)
	}
	return nil
}
