package schema

import (
	"fmt"

	"github.com/guillefix/avro/internal/diagnostic"
	"github.com/guillefix/avro/internal/guard"

	"gopkg.in/yaml.v3"
)

// Array is a sequence of items of one schema.
type Array struct {
	items Schema
	props Props
}

// NewArray creates an array of items.
func NewArray(items Schema, props Props) *Array {
	return &Array{items: items, props: props}
}

// Kind implements Schema.
func (a *Array) Kind() Kind { return KindArray }

// Items returns the element schema.
func (a *Array) Items() Schema { return a.items }

// Props returns the custom properties.
func (a *Array) Props() Props { return a.props }

func (a *Array) canRead(writer Schema, r *resolver, path string) bool {
	w, ok := writer.(*Array)
	if !ok {
		r.fail(diagnostic.CodeKindMismatch, fmt.Sprintf("writer %s cannot be read as array", writer.Kind()), path)
		return false
	}

	return r.read(a.items, w.items, path+"[]")
}

func (a *Array) equal(other Schema, g *guard.Pairs) bool {
	o := other.(*Array)
	return a.props.Equal(o.props) && equalTo(a.items, o.items, g)
}

func (a *Array) hash(g *guard.Pairs) uint64 {
	return newHasher(KindArray).u64(hashOf(a.items, g)).u64(a.props.hash()).sum()
}

func (a *Array) toNode(w *writeState, namespace string) *yaml.Node {
	m := mapNode(strNode("type"), strNode("array"), strNode("items"), a.items.toNode(w, namespace))
	a.props.appendTo(m)

	return m
}

// Map is a string-keyed map of values of one schema.
type Map struct {
	values Schema
	props  Props
}

// NewMap creates a map of values.
func NewMap(values Schema, props Props) *Map {
	return &Map{values: values, props: props}
}

// Kind implements Schema.
func (m *Map) Kind() Kind { return KindMap }

// Values returns the value schema.
func (m *Map) Values() Schema { return m.values }

// Props returns the custom properties.
func (m *Map) Props() Props { return m.props }

func (m *Map) canRead(writer Schema, r *resolver, path string) bool {
	w, ok := writer.(*Map)
	if !ok {
		r.fail(diagnostic.CodeKindMismatch, fmt.Sprintf("writer %s cannot be read as map", writer.Kind()), path)
		return false
	}

	return r.read(m.values, w.values, path+"{}")
}

func (m *Map) equal(other Schema, g *guard.Pairs) bool {
	o := other.(*Map)
	return m.props.Equal(o.props) && equalTo(m.values, o.values, g)
}

func (m *Map) hash(g *guard.Pairs) uint64 {
	return newHasher(KindMap).u64(hashOf(m.values, g)).u64(m.props.hash()).sum()
}

func (m *Map) toNode(w *writeState, namespace string) *yaml.Node {
	n := mapNode(strNode("type"), strNode("map"), strNode("values"), m.values.toNode(w, namespace))
	m.props.appendTo(n)

	return n
}
