package schema

import (
	"github.com/guillefix/avro/internal/common"
	"github.com/guillefix/avro/internal/guard"

	"gopkg.in/yaml.v3"
)

// Schema is the capability set shared by every schema kind. The set of
// implementations is closed: only types in this package satisfy it.
type Schema interface {
	// Kind returns the schema's tag.
	Kind() Kind

	// canRead applies this kind's resolution rule to a dereferenced,
	// non-union writer (unions are handled by the resolver).
	canRead(writer Schema, r *resolver, path string) bool
	// equal compares against a dereferenced schema of the same kind.
	equal(other Schema, g *guard.Pairs) bool
	// hash returns a structural hash; nested schemas go through hashOf.
	hash(g *guard.Pairs) uint64
	// toNode serializes the schema relative to the enclosing namespace.
	toNode(w *writeState, namespace string) *yaml.Node
}

// NamedSchema is a Schema with a full name: records, errors, enums, fixed.
type NamedSchema interface {
	Schema

	// FullName returns the dotted namespace-qualified name.
	FullName() string
	// Name returns the simple name.
	Name() string
	// Namespace returns the namespace, empty for the null namespace.
	Namespace() string
	// Aliases returns fully-qualified alternate names.
	Aliases() []string
	// Doc returns the documentation string.
	Doc() string
}

// Name is a schema name together with its namespace.
type Name struct {
	Name      string
	Namespace string
}

// NewName builds a Name. A dotted name carries its own namespace and
// overrides the given one.
func NewName(name, namespace string) Name {
	if ns, simple := common.SplitFullName(name); ns != "" {
		return Name{Name: simple, Namespace: ns}
	}

	return Name{Name: name, Namespace: namespace}
}

// Full returns the dotted full name.
func (n Name) Full() string {
	return common.Qualify(n.Name, n.Namespace)
}

// String implements fmt.Stringer.
func (n Name) String() string {
	return n.Full()
}

// named holds identity shared by the named kinds.
type named struct {
	name    Name
	aliases []string
	doc     string
	props   Props
}

// NamedOption configures the identity of a record, enum, or fixed schema.
type NamedOption func(*named)

// WithAliases adds alternate names; simple names are qualified with the
// schema's own namespace.
func WithAliases(aliases ...string) NamedOption {
	return func(n *named) {
		for _, a := range aliases {
			n.aliases = append(n.aliases, common.Qualify(a, n.name.Namespace))
		}
	}
}

// WithDoc sets the documentation string.
func WithDoc(doc string) NamedOption {
	return func(n *named) { n.doc = doc }
}

// WithProp adds a custom property.
func WithProp(key string, value *yaml.Node) NamedOption {
	return func(n *named) { n.props = n.props.With(key, value) }
}

func newNamed(name Name, opts []NamedOption) named {
	n := named{name: name}
	for _, opt := range opts {
		opt(&n)
	}

	return n
}

// FullName implements NamedSchema.
func (n *named) FullName() string { return n.name.Full() }

// Name implements NamedSchema.
func (n *named) Name() string { return n.name.Name }

// Namespace implements NamedSchema.
func (n *named) Namespace() string { return n.name.Namespace }

// Aliases implements NamedSchema.
func (n *named) Aliases() []string { return common.Clone(n.aliases) }

// Doc implements NamedSchema.
func (n *named) Doc() string { return n.doc }

// Props returns the custom properties.
func (n *named) Props() Props { return n.props }

// answersTo reports whether full is this schema's name or one of its aliases.
func (n *named) answersTo(full string) bool {
	if n.name.Full() == full {
		return true
	}

	for _, a := range n.aliases {
		if a == full {
			return true
		}
	}

	return false
}

// deref follows references until a concrete schema is reached. An unbound
// reference is returned as is.
func deref(s Schema) Schema {
	for {
		ref, ok := s.(*Ref)
		if !ok {
			return s
		}

		target := ref.Target()
		if target == nil {
			return s
		}

		s = target
	}
}

// unbound reports whether s is a reference whose target is not registered.
// deref only ever returns such references.
func unbound(s Schema) bool {
	_, ok := s.(*Ref)
	return ok
}

// cycleHash is the contribution of a schema already being hashed further up
// the call stack.
const cycleHash uint64 = 0x9e3779b97f4a7c15

// CanRead reports whether data written with writer can be decoded by a
// consumer built against reader.
func CanRead(reader, writer Schema) bool {
	r := &resolver{g: guard.New()}

	return r.read(reader, writer, rootPath(reader))
}

// Equal reports whether a and b are structurally equal. Self-referential
// graphs are compared pairwise; a pair met again while still being compared
// is assumed equal. An unresolved reference equals nothing but itself.
func Equal(a, b Schema) bool {
	return equalTo(a, b, guard.New())
}

// Hash returns a structural hash consistent with Equal. Unresolved
// references hash to zero.
func Hash(s Schema) uint64 {
	return hashOf(s, guard.New())
}

func equalTo(a, b Schema, g *guard.Pairs) bool {
	a, b = deref(a), deref(b)
	if a == b {
		return true
	}

	if a == nil || b == nil || unbound(a) || unbound(b) || a.Kind() != b.Kind() {
		return false
	}

	return guard.Run(g, a, b, true, func() bool {
		return a.equal(b, g)
	})
}

func hashOf(s Schema, g *guard.Pairs) uint64 {
	s = deref(s)
	if s == nil || unbound(s) {
		return 0
	}

	return guard.Run(g, s, s, cycleHash, func() uint64 {
		return s.hash(g)
	})
}
