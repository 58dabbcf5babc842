package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched with errors.Is through any amount of wrapping.
var (
	ErrMalformedSchema = errors.New("malformed schema")
	ErrDuplicateName   = errors.New("duplicate name")
	ErrUnknownName     = errors.New("unknown name")
)

// MalformedSchemaError reports a definition node with a missing or
// wrongly-typed attribute.
type MalformedSchemaError struct {
	// Path locates the offending node, e.g. "$.fields[2].type".
	Path string
	// Line and Column are 1-based source positions, zero when unknown.
	Line   int
	Column int
	Msg    string
}

// Error implements the error interface.
func (e *MalformedSchemaError) Error() string {
	var b strings.Builder

	b.WriteString("malformed schema")

	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}

	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d, column %d)", e.Line, e.Column)
	}

	b.WriteString(": ")
	b.WriteString(e.Msg)

	return b.String()
}

// Unwrap returns ErrMalformedSchema.
func (e *MalformedSchemaError) Unwrap() error {
	return ErrMalformedSchema
}

// DuplicateNameError reports a name defined twice in one scope: a field
// name or alias within a record, or a full name within a Names registry.
type DuplicateNameError struct {
	Name string
	// Scope is the record full name, or empty for the registry.
	Scope string
}

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	if e.Scope == "" {
		return fmt.Sprintf("duplicate name %q", e.Name)
	}

	return fmt.Sprintf("duplicate name %q in %s", e.Name, e.Scope)
}

// Unwrap returns ErrDuplicateName.
func (e *DuplicateNameError) Unwrap() error {
	return ErrDuplicateName
}

// UnknownNameError reports a type reference that the registry cannot resolve.
type UnknownNameError struct {
	Name string
	// Path locates the reference, when known.
	Path string
	// Suggestions lists registered names that look similar.
	Suggestions []string
}

// Error implements the error interface.
func (e *UnknownNameError) Error() string {
	msg := fmt.Sprintf("unknown name %q", e.Name)
	if e.Path != "" {
		msg += " at " + e.Path
	}

	if len(e.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(e.Suggestions, ", ") + "?)"
	}

	return msg
}

// Unwrap returns ErrUnknownName.
func (e *UnknownNameError) Unwrap() error {
	return ErrUnknownName
}
