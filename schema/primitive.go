package schema

import (
	"fmt"

	"github.com/guillefix/avro/internal/diagnostic"
	"github.com/guillefix/avro/internal/guard"

	"gopkg.in/yaml.v3"
)

// Primitive is one of the eight primitive schemas, optionally carrying
// custom properties.
type Primitive struct {
	kind  Kind
	props Props
}

// Shared primitives without properties.
var (
	Null    = &Primitive{kind: KindNull}
	Boolean = &Primitive{kind: KindBoolean}
	Int     = &Primitive{kind: KindInt}
	Long    = &Primitive{kind: KindLong}
	Float   = &Primitive{kind: KindFloat}
	Double  = &Primitive{kind: KindDouble}
	Bytes   = &Primitive{kind: KindBytes}
	String  = &Primitive{kind: KindString}
)

// NewPrimitive returns a primitive schema of kind k with props.
// It panics if k is not a primitive kind.
func NewPrimitive(k Kind, props Props) *Primitive {
	if !k.IsPrimitive() {
		panic(fmt.Sprintf("schema: %s is not a primitive kind", k))
	}

	return &Primitive{kind: k, props: props}
}

// Kind implements Schema.
func (p *Primitive) Kind() Kind { return p.kind }

// Props returns the custom properties.
func (p *Primitive) Props() Props { return p.props }

// promotions lists, per reader kind, the writer kinds it accepts besides itself.
var promotions = map[Kind][]Kind{
	KindLong:   {KindInt},
	KindFloat:  {KindInt, KindLong},
	KindDouble: {KindInt, KindLong, KindFloat},
	KindString: {KindBytes},
	KindBytes:  {KindString},
}

func promotes(writer, reader Kind) bool {
	for _, k := range promotions[reader] {
		if k == writer {
			return true
		}
	}

	return false
}

func (p *Primitive) canRead(writer Schema, r *resolver, path string) bool {
	wk := writer.Kind()

	switch {
	case wk == p.kind:
		return true
	case promotes(wk, p.kind):
		r.note(diagnostic.SeverityInfo, diagnostic.CodePromotion,
			fmt.Sprintf("writer %s is promoted to %s", wk, p.kind), path)

		return true
	default:
		r.fail(diagnostic.CodeKindMismatch, fmt.Sprintf("writer %s cannot be read as %s", wk, p.kind), path)
		return false
	}
}

func (p *Primitive) equal(other Schema, _ *guard.Pairs) bool {
	o := other.(*Primitive)
	return p.props.Equal(o.props)
}

func (p *Primitive) hash(_ *guard.Pairs) uint64 {
	return newHasher(p.kind).u64(p.props.hash()).sum()
}

func (p *Primitive) toNode(_ *writeState, _ string) *yaml.Node {
	if len(p.props) == 0 {
		return strNode(p.kind.String())
	}

	m := mapNode(strNode("type"), strNode(p.kind.String()))
	p.props.appendTo(m)

	return m
}
