package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/toyz/synapse/internal/cli"
	"github.com/toyz/synapse/internal/utils"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	flags := flag.NewFlagSet("synapse", flag.ContinueOnError)

	var (
		moduleFlag  = flags.String("module", "", "Graph title for DOT output (defaults to go.mod module)")
		dotFlag     = flags.String("dot", "", "Write the combined dependency graph to the given file in Graphviz DOT format")
		verboseFlag = flags.Bool("verbose", false, "Enable verbose output and detailed error reporting")
		quietFlag   = flags.Bool("quiet", false, "Only show errors and final results")
		helpFlag    = flags.Bool("help", false, "Show help information")
	)

	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <paths...>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Synapse Manifest Linter\n")
		fmt.Fprintf(os.Stderr, "Scans for .synapse wiring manifests and checks the combined dependency graph\n")
		fmt.Fprintf(os.Stderr, "for duplicate bindings, unbound contracts, and circular dependencies.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nArguments:\n")
		fmt.Fprintf(os.Stderr, "  paths              Manifest files, directories, or Go-style patterns\n")
		fmt.Fprintf(os.Stderr, "\nDirectory Patterns:\n")
		fmt.Fprintf(os.Stderr, "  ./...              Scan current directory and all subdirectories recursively\n")
		fmt.Fprintf(os.Stderr, "  ./wiring/...       Scan wiring directory and all its subdirectories\n")
		fmt.Fprintf(os.Stderr, "  ./wiring           Scan only the specific directory (no recursion)\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s ./...                              # Lint every manifest recursively\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s app.synapse                        # Lint a single manifest\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dot graph.dot ./...              # Also export the dependency graph\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --verbose ./wiring/...             # Enable detailed output\n", os.Args[0])
	}

	if err := flags.Parse(argv); err != nil {
		return 2
	}

	if *helpFlag {
		flags.Usage()
		return 0
	}

	var diagnostics *utils.DiagnosticSystem
	switch {
	case *quietFlag:
		diagnostics = utils.NewQuietDiagnostics()
	case *verboseFlag:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}

	args := flags.Args()
	if len(args) == 0 {
		args = []string{"./..."}
	}

	if *verboseFlag {
		diagnostics.Subsection("Configuration")
		diagnostics.List("Target paths: %s", strings.Join(args, ", "))
		if *moduleFlag != "" {
			diagnostics.List("Graph title: %s", *moduleFlag)
		}
		if *dotFlag != "" {
			diagnostics.List("DOT output: %s", *dotFlag)
		}
	}

	runner := cli.NewRunner(diagnostics)
	report, err := runner.Run(cli.Options{
		Paths:   args,
		Module:  *moduleFlag,
		DOTPath: *dotFlag,
	})
	if err != nil {
		diagnostics.Error("Lint failed: %v", err)
		return 2
	}

	if !report.Clean() {
		return 1
	}

	diagnostics.Complete("wiring looks healthy")
	return 0
}
