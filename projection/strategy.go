package projection

import (
	"strings"

	"github.com/guillefix/avro/internal/match"
)

// Strategy derives projection paths for records and their fields.
type Strategy interface {
	// RecordPath returns the path of a record with the given full name.
	// parent is the path of the field whose type contains the record, or
	// nil for the outermost record.
	RecordPath(parent Path, fullName string) Path
	// FieldPath returns the path of field name inside a record at path rec.
	FieldPath(rec Path, name string) Path
}

// Transform rewrites a single namespace segment.
type Transform func(segment string) string

// Identity leaves segments unchanged.
func Identity(segment string) string { return segment }

// Lower lower-cases a segment.
func Lower(segment string) string { return strings.ToLower(segment) }

// Normalize folds CamelCase and separators away ("Order_Item" -> "orderitem").
func Normalize(segment string) string { return match.NormalizeIdent(segment) }

// Nested roots paths at the outermost record's full name and extends them
// through field names; nested record names do not appear in paths.
type Nested struct{}

// RecordPath implements Strategy.
func (Nested) RecordPath(parent Path, fullName string) Path {
	if parent != nil {
		return parent
	}

	return Path(strings.Split(fullName, "."))
}

// FieldPath implements Strategy.
func (Nested) FieldPath(rec Path, name string) Path {
	return rec.Child(name)
}

// Namespaced derives every record's path from its own full name. Namespace
// segments (all but the last) first lose the longest matching suffix in
// StripSuffixes and are then passed through Transform. The record's simple
// name is kept verbatim.
type Namespaced struct {
	StripSuffixes []string
	Transform     Transform
}

// RecordPath implements Strategy.
func (n Namespaced) RecordPath(_ Path, fullName string) Path {
	segments := strings.Split(fullName, ".")
	out := make(Path, 0, len(segments))

	transform := n.Transform
	if transform == nil {
		transform = Identity
	}

	for i, seg := range segments {
		if i < len(segments)-1 {
			seg = transform(n.strip(seg))
		}

		if seg != "" {
			out = append(out, seg)
		}
	}

	return out
}

// FieldPath implements Strategy.
func (Namespaced) FieldPath(rec Path, name string) Path {
	return rec.Child(name)
}

func (n Namespaced) strip(seg string) string {
	best := ""

	for _, suffix := range n.StripSuffixes {
		if len(suffix) > len(best) && strings.HasSuffix(seg, suffix) && len(seg) > len(suffix) {
			best = suffix
		}
	}

	return strings.TrimSuffix(seg, best)
}
