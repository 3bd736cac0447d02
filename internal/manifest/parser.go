package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// fileNode is the participle grammar root for a manifest file
type fileNode struct {
	Statements []*statementNode `parser:"@@*"`
}

// statementNode is one top-level declaration
type statementNode struct {
	Module *moduleNode `parser:"@@"`
	Bind   *bindNode   `parser:"| @@"`
}

// moduleNode names the dependency graph
type moduleNode struct {
	Pos  lexer.Position
	Name string `parser:"'module' @Ident"`
}

// bindNode is a bind declaration before validation
type bindNode struct {
	Pos       lexer.Position
	Contract  string       `parser:"'bind' @Ident"`
	Qualifier *string      `parser:"(At @(Ident | String))?"`
	Impl      string       `parser:"Arrow @Ident"`
	Needs     []string     `parser:"('needs' @Ident (Comma @Ident)*)?"`
	Params    []*paramNode `parser:"@@*"`
}

// paramNode is a -Name or -Name=Value parameter
type paramNode struct {
	Pos   lexer.Position
	Name  string  `parser:"Dash @Ident"`
	Value *string `parser:"(Equals @(Ident | String))?"`
}

// Parser parses .synapse manifest files
type Parser struct {
	parser *participle.Parser[fileNode]
}

// NewParser builds the manifest grammar
func NewParser() *Parser {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `#[^\n]*`},
		{Name: "String", Pattern: `"(\\"|[^"])*"`},
		{Name: "Arrow", Pattern: `->`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_./]*`},
		{Name: "At", Pattern: `@`},
		{Name: "Dash", Pattern: `-`},
		{Name: "Equals", Pattern: `=`},
		{Name: "Comma", Pattern: `,`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	return &Parser{
		parser: participle.MustBuild[fileNode](
			participle.Lexer(lex),
			participle.Elide("Whitespace", "Comment"),
			participle.UseLookahead(2),
		),
	}
}

// ParseFile reads and parses a manifest file
func (p *Parser) ParseFile(path string) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	return p.Parse(path, string(content))
}

// Parse parses manifest source. Declaration-level problems are collected and
// reported together; a malformed token stream fails immediately with a
// SyntaxError.
func (p *Parser) Parse(path, source string) (*Manifest, error) {
	file, err := p.parser.ParseString(path, source)
	if err != nil {
		return nil, syntaxErrorFrom(path, err)
	}

	m := &Manifest{
		Module: defaultModuleName(path),
		Path:   path,
	}

	var errs []ManifestError
	moduleSeen := false

	for _, stmt := range file.Statements {
		switch {
		case stmt.Module != nil:
			if moduleSeen {
				errs = append(errs, &SyntaxError{
					Msg:  fmt.Sprintf("duplicate module declaration '%s'", stmt.Module.Name),
					Loc:  locationAt(path, stmt.Module.Pos),
					Hint: "A manifest may declare its module name at most once",
				})
				continue
			}
			moduleSeen = true
			m.Module = stmt.Module.Name

		case stmt.Bind != nil:
			binding, bindErrs := convertBind(path, stmt.Bind)
			if len(bindErrs) > 0 {
				errs = append(errs, bindErrs...)
				continue
			}
			m.Bindings = append(m.Bindings, binding)
		}
	}

	if len(errs) == 1 {
		return nil, errs[0]
	}
	if len(errs) > 1 {
		return nil, &MultipleManifestErrors{Errors: errs}
	}

	return m, nil
}

// convertBind validates a parsed bind declaration and converts it to the
// manifest model
func convertBind(path string, node *bindNode) (*Binding, []ManifestError) {
	binding := &Binding{
		Contract: node.Contract,
		Impl:     node.Impl,
		Needs:    append([]string(nil), node.Needs...),
		Mode:     ModeSingleton,
		Location: locationAt(path, node.Pos),
	}

	if node.Qualifier != nil {
		binding.Qualifier = unquote(*node.Qualifier)
	}

	var errs []ManifestError
	for _, param := range node.Params {
		loc := locationAt(path, param.Pos)

		switch param.Name {
		case "Mode":
			if param.Value == nil {
				errs = append(errs, &ValidationError{
					Parameter: "Mode",
					Expected:  "a lifecycle mode value",
					Actual:    "no value",
					Loc:       loc,
					Hint:      suggestionForParam("Mode"),
				})
				continue
			}
			mode := unquote(*param.Value)
			if mode != ModeSingleton && mode != ModePrototype {
				errs = append(errs, &ValidationError{
					Parameter: "Mode",
					Expected:  fmt.Sprintf("%s or %s", ModeSingleton, ModePrototype),
					Actual:    fmt.Sprintf("'%s'", mode),
					Loc:       loc,
					Hint:      suggestionForParam("Mode"),
				})
				continue
			}
			binding.Mode = mode

		case "Eager":
			if param.Value != nil {
				errs = append(errs, &ValidationError{
					Parameter: "Eager",
					Expected:  "a bare flag",
					Actual:    fmt.Sprintf("value '%s'", unquote(*param.Value)),
					Loc:       loc,
					Hint:      suggestionForParam("Eager"),
				})
				continue
			}
			binding.Eager = true

		default:
			errs = append(errs, &ValidationError{
				Parameter: param.Name,
				Expected:  "a supported parameter",
				Actual:    fmt.Sprintf("'-%s'", param.Name),
				Loc:       loc,
				Hint:      suggestionForParam(param.Name),
			})
		}
	}

	return binding, errs
}

// syntaxErrorFrom converts a participle failure into a positioned SyntaxError
func syntaxErrorFrom(path string, err error) *SyntaxError {
	loc := SourceLocation{File: path, Line: 1, Column: 1}
	if perr, ok := err.(participle.Error); ok {
		pos := perr.Position()
		loc.Line = pos.Line
		loc.Column = pos.Column
		return &SyntaxError{
			Msg:  perr.Message(),
			Loc:  loc,
			Hint: "Bind format: bind Contract [@qualifier] -> Impl [needs Dep1, Dep2] [-Mode=Singleton|Prototype] [-Eager]",
		}
	}
	return &SyntaxError{
		Msg:  err.Error(),
		Loc:  loc,
		Hint: "Check the manifest syntax",
	}
}

// locationAt converts a lexer position into a SourceLocation
func locationAt(path string, pos lexer.Position) SourceLocation {
	return SourceLocation{File: path, Line: pos.Line, Column: pos.Column}
}

// defaultModuleName derives a graph name from the manifest file name
func defaultModuleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// unquote strips surrounding double quotes from a token value
func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return strings.ReplaceAll(v[1:len(v)-1], `\"`, `"`)
	}
	return v
}
