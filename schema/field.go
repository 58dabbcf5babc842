package schema

import (
	"github.com/guillefix/avro/internal/common"

	"gopkg.in/yaml.v3"
)

// Order is a field's sort order.
type Order int

const (
	Ascending Order = iota
	Descending
	Ignore
)

// String returns the order as written in schema text.
func (o Order) String() string {
	switch o {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	case Ignore:
		return "ignore"
	default:
		return common.UnknownStr
	}
}

// ParseOrder parses "ascending", "descending" or "ignore".
func ParseOrder(s string) (Order, bool) {
	switch s {
	case "ascending":
		return Ascending, true
	case "descending":
		return Descending, true
	case "ignore":
		return Ignore, true
	default:
		return Ascending, false
	}
}

// Field is one member of a record. A field is immutable once built; its
// position is assigned when it is placed into a record.
type Field struct {
	name    string
	schema  Schema
	aliases []string
	pos     int
	doc     string
	def     *yaml.Node
	order   Order
	props   Props
}

// FieldOption configures a Field.
type FieldOption func(*Field)

// WithFieldAliases adds alternate field names.
func WithFieldAliases(aliases ...string) FieldOption {
	return func(f *Field) { f.aliases = append(f.aliases, aliases...) }
}

// WithFieldDoc sets the documentation string.
func WithFieldDoc(doc string) FieldOption {
	return func(f *Field) { f.doc = doc }
}

// WithDefault sets the default value. A nil node means no default.
func WithDefault(value *yaml.Node) FieldOption {
	return func(f *Field) { f.def = value }
}

// WithNullDefault sets an explicit null default.
func WithNullDefault() FieldOption {
	return WithDefault(NullNode())
}

// WithOrder sets the sort order.
func WithOrder(o Order) FieldOption {
	return func(f *Field) { f.order = o }
}

// WithFieldProp adds a custom property.
func WithFieldProp(key string, value *yaml.Node) FieldOption {
	return func(f *Field) { f.props = f.props.With(key, value) }
}

// NewField creates a field of schema s. Its position is -1 until the field
// is placed in a record.
func NewField(name string, s Schema, opts ...FieldOption) *Field {
	f := &Field{name: name, schema: s, pos: -1}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Name returns the field name.
func (f *Field) Name() string { return f.name }

// Schema returns the field's schema.
func (f *Field) Schema() Schema { return f.schema }

// Aliases returns the alternate names.
func (f *Field) Aliases() []string { return common.Clone(f.aliases) }

// Pos returns the zero-based position within the owning record.
func (f *Field) Pos() int { return f.pos }

// Doc returns the documentation string.
func (f *Field) Doc() string { return f.doc }

// Default returns the default value node, or nil when absent.
func (f *Field) Default() *yaml.Node { return f.def }

// HasDefault reports whether a default is present, including an explicit null.
func (f *Field) HasDefault() bool { return f.def != nil }

// Order returns the sort order.
func (f *Field) Order() Order { return f.order }

// Props returns the custom properties.
func (f *Field) Props() Props { return f.props }

// at returns a copy of f placed at position pos.
func (f *Field) at(pos int) *Field {
	c := *f
	c.aliases = common.Clone(f.aliases)
	c.pos = pos

	return &c
}

// names returns the field name followed by its aliases.
func (f *Field) names() []string {
	return append([]string{f.name}, f.aliases...)
}
