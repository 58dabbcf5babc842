package schema

import (
	"sort"

	"github.com/guillefix/avro/internal/common"
	"github.com/guillefix/avro/internal/guard"
	"github.com/guillefix/avro/internal/match"

	"gopkg.in/yaml.v3"
)

// Names is the named-schema registry of one parsing session: an arena of
// named schemas keyed by full name. Schemas refer to each other through Ref
// handles into the arena, which is how forward and cyclic references are
// expressed.
//
// Names is not safe for concurrent mutation.
type Names struct {
	schemas map[string]NamedSchema
	order   []string
	refs    []*Ref
}

// NewNames creates an empty registry.
func NewNames() *Names {
	return &Names{schemas: make(map[string]NamedSchema)}
}

// Register adds s under its full name. Registering a second schema with the
// same full name returns a DuplicateNameError.
func (n *Names) Register(s NamedSchema) error {
	full := s.FullName()
	if _, ok := primitiveKind(full); ok {
		return &DuplicateNameError{Name: full}
	}

	if _, exists := n.schemas[full]; exists {
		return &DuplicateNameError{Name: full}
	}

	n.schemas[full] = s
	n.order = append(n.order, full)

	return nil
}

// Lookup returns the schema registered under a full name.
func (n *Names) Lookup(full string) (NamedSchema, bool) {
	s, ok := n.schemas[full]
	return s, ok
}

// Resolve resolves name as written inside namespace: first as qualified by
// namespace, then, for simple names, in the null namespace.
func (n *Names) Resolve(name, namespace string) (NamedSchema, error) {
	if full, ok := n.find(name, namespace); ok {
		return n.schemas[full], nil
	}

	return nil, n.unknown(common.Qualify(name, namespace), "")
}

// Ref returns a handle to the schema named full. The target need not be
// registered yet.
func (n *Names) Ref(full string) *Ref {
	return n.reference(full, "", "")
}

// FullNames returns registered names in registration order.
func (n *Names) FullNames() []string {
	return common.Clone(n.order)
}

// Check verifies that every handle created by Ref resolves, returning an
// UnknownNameError for the first that does not. Resolved handles are bound
// to their target and do not follow names registered afterwards.
func (n *Names) Check() error {
	for _, ref := range n.refs {
		if !ref.bind() {
			return n.unknown(ref.FullName(), ref.path)
		}
	}

	return nil
}

// reference returns a handle for a name written inside namespace. A name
// already registered is bound at once; any other is resolved on use until
// Check binds it, so it may be registered later.
func (n *Names) reference(name, namespace, path string) *Ref {
	ref := &Ref{names: n, name: name, namespace: namespace, path: path}
	ref.bind()
	n.refs = append(n.refs, ref)

	return ref
}

func (n *Names) find(name, namespace string) (string, bool) {
	full := common.Qualify(name, namespace)
	if _, ok := n.schemas[full]; ok {
		return full, true
	}

	if full != name {
		if _, ok := n.schemas[name]; ok {
			return name, true
		}
	}

	return "", false
}

func (n *Names) unknown(full, path string) error {
	known := make([]string, 0, len(n.order))
	known = append(known, n.order...)
	sort.Strings(known)

	return &UnknownNameError{
		Name:        full,
		Path:        path,
		Suggestions: match.RankNames(full, known, match.DefaultMinScore).Top(3).Names(),
	}
}

// Ref is a handle to a named schema held by a Names registry. All package
// operations see through references to their target.
type Ref struct {
	names     *Names
	name      string
	namespace string
	path      string

	// bound is the full name of the target once it has been fixed.
	bound string
}

// bind fixes the reference to the name it currently resolves to.
func (r *Ref) bind() bool {
	if r.bound != "" {
		return true
	}

	full, ok := r.names.find(r.name, r.namespace)
	if ok {
		r.bound = full
	}

	return ok
}

func (r *Ref) resolve() (string, bool) {
	if r.bound != "" {
		return r.bound, true
	}

	return r.names.find(r.name, r.namespace)
}

// FullName returns the full name the reference resolves to, or its
// namespace-qualified spelling while unresolved.
func (r *Ref) FullName() string {
	if full, ok := r.resolve(); ok {
		return full
	}

	return common.Qualify(r.name, r.namespace)
}

// Target returns the referenced schema, or nil while it is not registered.
func (r *Ref) Target() NamedSchema {
	full, ok := r.resolve()
	if !ok {
		return nil
	}

	return r.names.schemas[full]
}

// Kind returns the target's kind. It panics on an unresolved reference; a
// successful parse never leaves one behind.
func (r *Ref) Kind() Kind {
	t := r.Target()
	if t == nil {
		panic("schema: unresolved reference " + r.FullName())
	}

	return t.Kind()
}

func (r *Ref) canRead(writer Schema, rs *resolver, path string) bool {
	return rs.read(r.Target(), writer, path)
}

func (r *Ref) equal(other Schema, g *guard.Pairs) bool {
	return equalTo(r.Target(), other, g)
}

func (r *Ref) hash(g *guard.Pairs) uint64 {
	return hashOf(r.Target(), g)
}

func (r *Ref) toNode(w *writeState, namespace string) *yaml.Node {
	if t := r.Target(); t != nil {
		return t.toNode(w, namespace)
	}

	return strNode(common.Relative(r.FullName(), namespace))
}
