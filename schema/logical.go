package schema

import (
	"errors"
	"fmt"

	"github.com/guillefix/avro/internal/diagnostic"
	"github.com/guillefix/avro/internal/guard"

	"gopkg.in/yaml.v3"
)

// Logical type names understood by the parser.
const (
	LogicalDecimal         = "decimal"
	LogicalUUID            = "uuid"
	LogicalDate            = "date"
	LogicalTimeMillis      = "time-millis"
	LogicalTimeMicros      = "time-micros"
	LogicalTimestampMillis = "timestamp-millis"
	LogicalTimestampMicros = "timestamp-micros"
	LogicalDuration        = "duration"
)

// Logical annotates an underlying schema with a logical type name and its
// parameters (for example decimal precision and scale).
type Logical struct {
	name       string
	underlying Schema
	props      Props
}

// NewLogical annotates underlying with the logical type name.
func NewLogical(name string, underlying Schema, props Props) *Logical {
	return &Logical{name: name, underlying: underlying, props: props}
}

// Kind implements Schema.
func (l *Logical) Kind() Kind { return KindLogical }

// LogicalType returns the logical type name.
func (l *Logical) LogicalType() string { return l.name }

// Underlying returns the annotated schema.
func (l *Logical) Underlying() Schema { return l.underlying }

// Props returns the logical type parameters and other properties.
func (l *Logical) Props() Props { return l.props }

func (l *Logical) canRead(writer Schema, r *resolver, path string) bool {
	if w, ok := writer.(*Logical); ok {
		if w.name != l.name {
			r.note(diagnostic.SeverityWarning, diagnostic.CodeLogicalDropped,
				fmt.Sprintf("writer logical type %s is read as %s", w.name, l.name), path)
		}

		return r.read(l.underlying, w.underlying, path)
	}

	return r.read(l.underlying, writer, path)
}

func (l *Logical) equal(other Schema, g *guard.Pairs) bool {
	o := other.(*Logical)

	return l.name == o.name && l.props.Equal(o.props) && equalTo(l.underlying, o.underlying, g)
}

func (l *Logical) hash(g *guard.Pairs) uint64 {
	return newHasher(KindLogical).str(l.name).u64(hashOf(l.underlying, g)).u64(l.props.hash()).sum()
}

func (l *Logical) toNode(w *writeState, namespace string) *yaml.Node {
	n := l.underlying.toNode(w, namespace)
	if n.Kind != yaml.MappingNode {
		n = mapNode(strNode("type"), n)
	}

	n.Content = append(n.Content, strNode("logicalType"), strNode(l.name))
	l.props.appendTo(n)

	return n
}

// validateLogical checks a logical type against its underlying schema.
// Unknown names are accepted verbatim.
func validateLogical(name string, underlying Schema, props Props) error {
	resolved := deref(underlying)

	expect := func(kinds ...Kind) error {
		if ref, ok := resolved.(*Ref); ok {
			return fmt.Errorf("logical type %s on unresolved type %s", name, ref.FullName())
		}

		k := underlyingKind(resolved)
		for _, want := range kinds {
			if k == want {
				return nil
			}
		}

		return fmt.Errorf("logical type %s cannot annotate %s", name, k)
	}

	switch name {
	case LogicalDecimal:
		if err := expect(KindBytes, KindFixed); err != nil {
			return err
		}

		return validateDecimal(underlying, props)
	case LogicalUUID:
		return expect(KindString)
	case LogicalDate, LogicalTimeMillis:
		return expect(KindInt)
	case LogicalTimeMicros, LogicalTimestampMillis, LogicalTimestampMicros:
		return expect(KindLong)
	case LogicalDuration:
		if err := expect(KindFixed); err != nil {
			return err
		}

		if f, ok := resolved.(*Fixed); ok && f.size != 12 {
			return fmt.Errorf("duration requires fixed size 12, got %d", f.size)
		}

		return nil
	default:
		return nil
	}
}

func validateDecimal(underlying Schema, props Props) error {
	precision, ok := intProp(props, "precision")
	if !ok || precision <= 0 {
		return errors.New("decimal requires a positive precision")
	}

	scale, _ := intProp(props, "scale")

	if scale < 0 || scale > precision {
		return fmt.Errorf("decimal scale %d must be within 0..%d", scale, precision)
	}

	if f, isFixed := deref(underlying).(*Fixed); isFixed && precision > maxDecimalPrecision(f.size) {
		return fmt.Errorf("fixed(%d) cannot hold decimal precision %d", f.size, precision)
	}

	return nil
}

// maxDecimalPrecision returns floor(log10(2^(8*size-1) - 1)).
func maxDecimalPrecision(size int) int {
	if size <= 0 {
		return 0
	}

	bits := 8*size - 1
	// log10(2) ~= 0.30103; exact enough for the sizes in use.
	return int(float64(bits) * 0.30102999566398120)
}

func intProp(props Props, key string) (int, bool) {
	v, ok := props.Get(key)
	if !ok {
		return 0, false
	}

	var n int
	if err := v.Decode(&n); err != nil {
		return 0, false
	}

	return n, true
}
