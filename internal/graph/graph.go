// Package graph provides the dependency graph used by the manifest linter:
// insertion-ordered nodes, cycle detection with full chain reporting, and a
// FIFO-stable topological sort.
package graph

import (
	"fmt"
	"sort"
	"strings"
)

// DependencyGraph is a directed graph of contract names
type DependencyGraph struct {
	nodes map[string]*node

	// order preserves insertion order so independent nodes sort FIFO
	order []string
}

type node struct {
	name         string
	dependencies []string
}

// CycleError reports a dependency cycle with the full chain, starting and
// ending at the repeated node
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(e.Chain, " -> "))
}

// New creates an empty dependency graph
func New() *DependencyGraph {
	return &DependencyGraph{nodes: make(map[string]*node)}
}

// AddNode adds a node with its outgoing dependency edges. Adding the same
// name twice merges the dependency lists.
func (g *DependencyGraph) AddNode(name string, dependencies []string) {
	if existing, ok := g.nodes[name]; ok {
		existing.dependencies = append(existing.dependencies, dependencies...)
		return
	}
	g.nodes[name] = &node{name: name, dependencies: dependencies}
	g.order = append(g.order, name)
}

// Has reports whether the graph contains the named node
func (g *DependencyGraph) Has(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Nodes returns the node names in insertion order
func (g *DependencyGraph) Nodes() []string {
	return append([]string(nil), g.order...)
}

// Dependencies returns the outgoing edges of the named node
func (g *DependencyGraph) Dependencies(name string) []string {
	if n, ok := g.nodes[name]; ok {
		return append([]string(nil), n.dependencies...)
	}
	return nil
}

// TopologicalSort returns node names in dependency order: every node appears
// after its dependencies. Independent nodes keep their insertion order.
// Fails with CycleError when the graph contains a cycle.
func (g *DependencyGraph) TopologicalSort() ([]string, error) {
	visited := make(map[string]bool)
	visiting := make(map[string]bool)
	var stack []string
	result := make([]string, 0, len(g.nodes))

	for _, name := range g.order {
		if err := g.visit(name, visited, visiting, &stack, &result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// visit performs the depth-first traversal for TopologicalSort
func (g *DependencyGraph) visit(name string, visited, visiting map[string]bool, stack *[]string, result *[]string) error {
	if visited[name] {
		return nil
	}

	if visiting[name] {
		return &CycleError{Chain: cycleChain(*stack, name)}
	}

	n := g.nodes[name]
	if n == nil {
		// Edges to unknown nodes are reported by the linter, not the sort
		return nil
	}

	visiting[name] = true
	*stack = append(*stack, name)

	for _, dep := range n.dependencies {
		if err := g.visit(dep, visited, visiting, stack, result); err != nil {
			return err
		}
	}

	*stack = (*stack)[:len(*stack)-1]
	visiting[name] = false
	visited[name] = true
	*result = append(*result, name)

	return nil
}

// cycleChain trims the traversal stack down to the cycle itself and closes it
// with the repeated node
func cycleChain(stack []string, repeated string) []string {
	start := 0
	for i, name := range stack {
		if name == repeated {
			start = i
			break
		}
	}
	chain := append([]string(nil), stack[start:]...)
	return append(chain, repeated)
}

// ToDOT renders the graph in Graphviz DOT format. Node and edge lines are
// emitted in a stable order so output diffs cleanly.
func (g *DependencyGraph) ToDOT(title string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("digraph %q {\n", title))
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box, fontname=\"monospace\"];\n")

	for _, name := range g.order {
		sb.WriteString(fmt.Sprintf("  %q;\n", name))
	}

	for _, name := range g.order {
		deps := append([]string(nil), g.nodes[name].dependencies...)
		sort.Strings(deps)
		for _, dep := range deps {
			sb.WriteString(fmt.Sprintf("  %q -> %q;\n", name, dep))
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}
