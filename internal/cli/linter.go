package cli

import (
	"fmt"
	"sort"

	"github.com/toyz/synapse/internal/graph"
	"github.com/toyz/synapse/internal/manifest"
)

// FindingKind classifies lint findings
type FindingKind string

const (
	FindingSyntax     FindingKind = "syntax"
	FindingValidation FindingKind = "validation"
	FindingDuplicate  FindingKind = "duplicate-binding"
	FindingUnbound    FindingKind = "unbound-contract"
	FindingCycle      FindingKind = "circular-dependency"
)

// Finding is one lint diagnostic with its source position
type Finding struct {
	Kind     FindingKind
	Message  string
	Location manifest.SourceLocation
	Hint     string
}

// String renders the finding in file:line:column form
func (f Finding) String() string {
	if f.Location.File == "" {
		return fmt.Sprintf("%s: %s", f.Kind, f.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s",
		f.Location.File, f.Location.Line, f.Location.Column, f.Kind, f.Message)
}

// Report is the result of linting a set of manifests
type Report struct {
	// Manifests are the parsed files, in scan order. Files that failed to
	// parse are absent; their problems appear as findings instead.
	Manifests []*manifest.Manifest

	// Findings are the diagnostics, in the order they were discovered
	Findings []Finding

	// Graph is the combined dependency graph over contract names
	Graph *graph.DependencyGraph
}

// Clean reports whether the lint found no problems
func (r *Report) Clean() bool {
	return len(r.Findings) == 0
}

// BindingCount returns the total number of bindings across all manifests
func (r *Report) BindingCount() int {
	n := 0
	for _, m := range r.Manifests {
		n += len(m.Bindings)
	}
	return n
}

// Linter parses manifests and checks the combined dependency graph for
// duplicate bindings, unbound contracts, and cycles
type Linter struct {
	parser *manifest.Parser
}

// NewLinter creates a manifest linter
func NewLinter() *Linter {
	return &Linter{parser: manifest.NewParser()}
}

// Lint parses every manifest file and runs all checks over the combined set
func (l *Linter) Lint(files []string) (*Report, error) {
	report := &Report{Graph: graph.New()}

	for _, file := range files {
		m, err := l.parser.ParseFile(file)
		if err != nil {
			findings, ok := findingsFromParseError(err)
			if !ok {
				return nil, err
			}
			report.Findings = append(report.Findings, findings...)
			continue
		}
		report.Manifests = append(report.Manifests, m)
	}

	l.checkDuplicates(report)
	l.buildGraph(report)
	l.checkUnbound(report)
	l.checkCycles(report)

	return report, nil
}

// checkDuplicates reports bindings that reuse a (contract, qualifier) pair
// across the whole manifest set
func (l *Linter) checkDuplicates(report *Report) {
	first := make(map[string]manifest.SourceLocation)

	for _, m := range report.Manifests {
		for _, b := range m.Bindings {
			key := b.Key()
			if prev, ok := first[key]; ok {
				report.Findings = append(report.Findings, Finding{
					Kind: FindingDuplicate,
					Message: fmt.Sprintf("contract %s is already bound at %s:%d",
						key, prev.File, prev.Line),
					Location: b.Location,
					Hint:     "Each contract and qualifier pair may be bound once. Add a @qualifier to keep both bindings.",
				})
				continue
			}
			first[key] = b.Location
		}
	}
}

// buildGraph merges every manifest's bindings into one contract graph.
// Needs edges reference contracts by name, ignoring qualifiers.
func (l *Linter) buildGraph(report *Report) {
	for _, m := range report.Manifests {
		for _, b := range m.Bindings {
			report.Graph.AddNode(b.Contract, b.Needs)
		}
	}
}

// checkUnbound reports needs clauses that reference contracts no manifest
// binds
func (l *Linter) checkUnbound(report *Report) {
	for _, m := range report.Manifests {
		for _, b := range m.Bindings {
			for _, need := range b.Needs {
				if report.Graph.Has(need) {
					continue
				}
				report.Findings = append(report.Findings, Finding{
					Kind:     FindingUnbound,
					Message:  fmt.Sprintf("%s needs %s, but no manifest binds it", b.Contract, need),
					Location: b.Location,
					Hint:     fmt.Sprintf("Add a binding: bind %s -> <implementation>", need),
				})
			}
		}
	}
}

// checkCycles reports dependency cycles in the combined graph
func (l *Linter) checkCycles(report *Report) {
	_, err := report.Graph.TopologicalSort()
	if err == nil {
		return
	}

	cycle, ok := err.(*graph.CycleError)
	if !ok {
		report.Findings = append(report.Findings, Finding{
			Kind:    FindingCycle,
			Message: err.Error(),
		})
		return
	}

	report.Findings = append(report.Findings, Finding{
		Kind:     FindingCycle,
		Message:  cycle.Error(),
		Location: l.locationOf(report, cycle.Chain[0]),
		Hint:     "Break the cycle by removing one needs edge or introducing a provider contract",
	})
}

// locationOf finds where a contract is bound, for positioning graph-level
// findings
func (l *Linter) locationOf(report *Report, contract string) manifest.SourceLocation {
	for _, m := range report.Manifests {
		for _, b := range m.Bindings {
			if b.Contract == contract {
				return b.Location
			}
		}
	}
	return manifest.SourceLocation{}
}

// findingsFromParseError converts manifest parse errors into lint findings.
// Returns false for errors that are not manifest diagnostics, such as an
// unreadable file.
func findingsFromParseError(err error) ([]Finding, bool) {
	switch e := err.(type) {
	case *manifest.MultipleManifestErrors:
		findings := make([]Finding, 0, len(e.Errors))
		for _, inner := range e.Errors {
			findings = append(findings, findingFromManifestError(inner))
		}
		return findings, true
	case manifest.ManifestError:
		return []Finding{findingFromManifestError(e)}, true
	default:
		return nil, false
	}
}

// findingFromManifestError maps one manifest diagnostic to a finding
func findingFromManifestError(err manifest.ManifestError) Finding {
	kind := FindingValidation
	if _, ok := err.(*manifest.SyntaxError); ok {
		kind = FindingSyntax
	}
	return Finding{
		Kind:     kind,
		Message:  messageOf(err),
		Location: err.Location(),
		Hint:     err.Suggestion(),
	}
}

// messageOf extracts the core message without the position prefix, which the
// finding carries separately
func messageOf(err manifest.ManifestError) string {
	switch e := err.(type) {
	case *manifest.SyntaxError:
		return e.Msg
	case *manifest.ValidationError:
		return fmt.Sprintf("parameter '%s': expected %s, got %s", e.Parameter, e.Expected, e.Actual)
	default:
		return err.Error()
	}
}

// SortFindings orders findings by file, line, then column for stable output
func SortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i].Location, findings[j].Location
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}
