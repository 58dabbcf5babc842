package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/guillefix/avro/internal/common"
)

// Diagnostic codes emitted by the compatibility explainer.
const (
	CodeKindMismatch   = "kind_mismatch"
	CodeNameMismatch   = "name_mismatch"
	CodeMissingField   = "missing_field"
	CodeMissingSymbol  = "missing_symbol"
	CodeSizeMismatch   = "size_mismatch"
	CodeUnionBranch    = "union_branch"
	CodeAliasMatch     = "alias_match"
	CodeDefaultUsed    = "default_used"
	CodePromotion      = "promotion"
	CodeLogicalDropped = "logical_dropped"
	CodeUnresolved     = "unresolved_reference"
)

// Diagnostics holds all diagnostic information from one explanation.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single finding.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a stable identifier for the kind of finding.
	Code string
	// Message is the human-readable description.
	Message string
	// SchemaPair identifies the reader/writer schemas involved, "reader<-writer".
	SchemaPair string
	// FieldPath locates the finding inside the reader schema, e.g. "User.address.zip".
	FieldPath string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Add appends d to the list matching its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case SeverityError:
		d.Errors = append(d.Errors, diag)
	case SeverityWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, schemaPair, fieldPath string, suggestions ...string) {
	d.Add(Diagnostic{
		Severity:    SeverityError,
		Code:        code,
		Message:     message,
		SchemaPair:  schemaPair,
		FieldPath:   fieldPath,
		Suggestions: suggestions,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, schemaPair, fieldPath string) {
	d.Add(Diagnostic{
		Severity:   SeverityWarning,
		Code:       code,
		Message:    message,
		SchemaPair: schemaPair,
		FieldPath:  fieldPath,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, schemaPair, fieldPath string) {
	d.Add(Diagnostic{
		Severity:   SeverityInfo,
		Code:       code,
		Message:    message,
		SchemaPair: schemaPair,
		FieldPath:  fieldPath,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// All returns errors, then warnings, then infos.
func (d *Diagnostics) All() []Diagnostic {
	out := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	out = append(out, d.Errors...)
	out = append(out, d.Warnings...)

	return append(out, d.Infos...)
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.SchemaPair != "" {
		prefix = append(prefix, "["+d.SchemaPair+"]")
	}

	if d.FieldPath != "" {
		prefix = append(prefix, d.FieldPath)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
