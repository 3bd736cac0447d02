package synapse

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// injectTagName is the struct tag consumed by ToStruct bindings
const injectTagName = "inject"

// injectSpec is the parsed form of an inject tag
type injectSpec struct {
	// Name is the qualifier to resolve the field with
	Name string

	// Optional leaves the field zero-valued instead of failing when no
	// binding exists
	Optional bool
}

// injectTag is the participle grammar root for an inject tag value.
// Examples: ``, `name=primary`, `optional`, `name="read replica",optional`.
type injectTag struct {
	Items []*injectTagItem `parser:"(@@ (Comma @@)*)?"`
}

// injectTagItem is a single key or key=value entry
type injectTagItem struct {
	Key   string  `parser:"@Ident"`
	Value *string `parser:"(Equals @(Ident | String))?"`
}

var injectTagParser = participle.MustBuild[injectTag](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `"(\\"|[^"])*"`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.\-]*`},
		{Name: "Equals", Pattern: `=`},
		{Name: "Comma", Pattern: `,`},
		{Name: "Whitespace", Pattern: `\s+`},
	})),
	participle.Elide("Whitespace"),
)

// parseInjectTag parses an inject struct tag value into an injectSpec
func parseInjectTag(tag string) (injectSpec, error) {
	var spec injectSpec
	if strings.TrimSpace(tag) == "" {
		return spec, nil
	}

	parsed, err := injectTagParser.ParseString("", tag)
	if err != nil {
		return spec, fmt.Errorf("invalid inject tag %q: %w", tag, err)
	}

	for _, item := range parsed.Items {
		switch item.Key {
		case "name":
			if item.Value == nil {
				return spec, fmt.Errorf("inject tag %q: 'name' requires a value (name=qualifier)", tag)
			}
			spec.Name = unquoteTagValue(*item.Value)
		case "optional":
			if item.Value != nil {
				return spec, fmt.Errorf("inject tag %q: 'optional' is a flag and takes no value", tag)
			}
			spec.Optional = true
		default:
			return spec, fmt.Errorf("inject tag %q: unknown option %q (supported: name, optional)", tag, item.Key)
		}
	}

	return spec, nil
}

// unquoteTagValue strips surrounding double quotes from a tag value
func unquoteTagValue(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return strings.ReplaceAll(v[1:len(v)-1], `\"`, `"`)
	}
	return v
}
