package manifest

import (
	"fmt"
	"strings"
)

// ManifestError is implemented by every manifest diagnostic so the CLI can
// report position and fix suggestions uniformly
type ManifestError interface {
	error
	Location() SourceLocation
	Suggestion() string
}

// SyntaxError reports a declaration the parser could not read
type SyntaxError struct {
	Msg  string
	Loc  SourceLocation
	Hint string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: syntax error: %s. %s",
		e.Loc.File, e.Loc.Line, e.Loc.Column, e.Msg, e.Hint)
}

func (e *SyntaxError) Location() SourceLocation { return e.Loc }
func (e *SyntaxError) Suggestion() string       { return e.Hint }

// ValidationError reports a well-formed declaration with an invalid
// parameter or value
type ValidationError struct {
	Parameter string
	Expected  string
	Actual    string
	Loc       SourceLocation
	Hint      string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s:%d:%d: parameter '%s' validation failed: expected %s, got %s. %s",
		e.Loc.File, e.Loc.Line, e.Loc.Column,
		e.Parameter, e.Expected, e.Actual, e.Hint)
}

func (e *ValidationError) Location() SourceLocation { return e.Loc }
func (e *ValidationError) Suggestion() string       { return e.Hint }

// MultipleManifestErrors collects every diagnostic found in a parse so a
// manifest is reported in one pass
type MultipleManifestErrors struct {
	Errors []ManifestError
}

func (e *MultipleManifestErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}

	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var messages []string
	for i, err := range e.Errors {
		messages = append(messages, fmt.Sprintf("  %d. %s", i+1, err.Error()))
	}

	return fmt.Sprintf("multiple manifest errors (%d total):\n%s", len(e.Errors), strings.Join(messages, "\n"))
}

// Unwrap returns the underlying errors for error inspection
func (e *MultipleManifestErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// suggestionForParam provides context-aware hints for bind parameters
func suggestionForParam(name string) string {
	switch name {
	case "Mode":
		return fmt.Sprintf("Mode must be '%s' (default) or '%s'. Example: -Mode=%s", ModeSingleton, ModePrototype, ModePrototype)
	case "Eager":
		return "Eager is a boolean flag. Use: -Eager (no value needed)"
	default:
		return "Supported bind parameters: -Mode=Singleton|Prototype, -Eager"
	}
}
