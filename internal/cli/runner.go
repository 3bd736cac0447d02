package cli

import (
	"fmt"
	"os"

	"github.com/toyz/synapse/internal/utils"
)

// Options configures a lint run
type Options struct {
	// Paths are the files, directories, or "dir/..." patterns to scan.
	// Defaults to "./..." when empty.
	Paths []string

	// Module overrides the graph title, normally taken from go.mod
	Module string

	// DOTPath, when set, writes the combined dependency graph in Graphviz
	// DOT format to the given file
	DOTPath string
}

// Runner wires the scanner, linter, and reporter into the lint command
type Runner struct {
	scanner     *Scanner
	linter      *Linter
	diagnostics *utils.DiagnosticSystem
}

// NewRunner creates a runner writing diagnostics to the given system
func NewRunner(diagnostics *utils.DiagnosticSystem) *Runner {
	return &Runner{
		scanner:     NewScanner(),
		linter:      NewLinter(),
		diagnostics: diagnostics,
	}
}

// Run executes a lint pass and renders the report. It returns the report so
// callers can decide the exit code, and an error for operational failures
// such as unreadable paths.
func (r *Runner) Run(opts Options) (*Report, error) {
	paths := opts.Paths
	if len(paths) == 0 {
		paths = []string{"./..."}
	}

	r.diagnostics.Header(fmt.Sprintf("linting %v", paths))

	files, err := r.scanner.Scan(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		r.diagnostics.Warn("no %s manifests found under %v", ManifestExtension, paths)
	}
	r.diagnostics.Verbose("found %d manifest files", len(files))

	report, err := r.linter.Lint(files)
	if err != nil {
		return nil, err
	}

	NewReporter(r.diagnostics).Render(report)

	if opts.DOTPath != "" {
		title := opts.Module
		if title == "" {
			title = r.resolveModuleName()
		}
		if err := os.WriteFile(opts.DOTPath, []byte(report.Graph.ToDOT(title)), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write graph to %s: %w", opts.DOTPath, err)
		}
		r.diagnostics.Info("wrote dependency graph to %s", opts.DOTPath)
	}

	return report, nil
}

// resolveModuleName derives the graph title from the enclosing go.mod,
// falling back to a generic name outside a module
func (r *Runner) resolveModuleName() string {
	wd, err := os.Getwd()
	if err != nil {
		return "synapse"
	}

	goModPath, err := utils.FindGoModFile(wd)
	if err != nil {
		return "synapse"
	}

	name, err := utils.ParseModuleName(goModPath)
	if err != nil {
		r.diagnostics.Verbose("could not parse %s: %v", goModPath, err)
		return "synapse"
	}
	return name
}
