package schema

import (
	"fmt"

	"github.com/guillefix/avro/internal/diagnostic"
	"github.com/guillefix/avro/internal/guard"

	"gopkg.in/yaml.v3"
)

// Union is an ordered choice between branch schemas.
type Union struct {
	branches []Schema
}

// NewUnion creates a union. Branches may not be unions themselves; unnamed
// branches must differ in kind and named branches in full name.
func NewUnion(branches ...Schema) (*Union, error) {
	seenKinds := make(map[Kind]struct{}, len(branches))
	seenNames := make(map[string]struct{}, len(branches))

	for i, b := range branches {
		if b == nil {
			return nil, &MalformedSchemaError{Msg: fmt.Sprintf("union branch %d is nil", i)}
		}

		if name, ok := branchName(b); ok {
			if _, dup := seenNames[name]; dup {
				return nil, &DuplicateNameError{Name: name, Scope: "union"}
			}

			seenNames[name] = struct{}{}

			continue
		}

		k := underlyingKind(b)
		if k == KindUnion {
			return nil, &MalformedSchemaError{Msg: "unions may not immediately contain other unions"}
		}

		if _, dup := seenKinds[k]; dup {
			return nil, &DuplicateNameError{Name: k.String(), Scope: "union"}
		}

		seenKinds[k] = struct{}{}
	}

	return &Union{branches: append([]Schema(nil), branches...)}, nil
}

// branchName returns the full name of a named branch. References count as
// named even before their target is registered.
func branchName(s Schema) (string, bool) {
	switch b := s.(type) {
	case *Ref:
		return b.FullName(), true
	case NamedSchema:
		return b.FullName(), true
	case *Logical:
		return branchName(b.underlying)
	default:
		return "", false
	}
}

func underlyingKind(s Schema) Kind {
	if l, ok := s.(*Logical); ok {
		return underlyingKind(l.underlying)
	}

	return s.Kind()
}

// Kind implements Schema.
func (u *Union) Kind() Kind { return KindUnion }

// Branches returns the branch schemas in order.
func (u *Union) Branches() []Schema {
	return append([]Schema(nil), u.branches...)
}

// Nullable reports whether the first branch is null.
func (u *Union) Nullable() bool {
	if len(u.branches) == 0 {
		return false
	}

	first := deref(u.branches[0])

	return !unbound(first) && first.Kind() == KindNull
}

func (u *Union) canRead(writer Schema, r *resolver, path string) bool {
	wu, isUnion := writer.(*Union)
	if !isUnion {
		if u.readsBranch(writer, r, path) {
			return true
		}

		r.fail(diagnostic.CodeUnionBranch,
			fmt.Sprintf("no reader union branch can read writer %s", describe(writer)), path)

		return false
	}

	ok := true

	for _, wb := range wu.branches {
		if u.readsBranch(wb, r, path) {
			continue
		}

		r.fail(diagnostic.CodeUnionBranch,
			fmt.Sprintf("writer union branch %s has no matching reader branch", describe(wb)), path)
		ok = false

		if !r.explaining() {
			return false
		}
	}

	return ok
}

func (u *Union) readsBranch(writer Schema, r *resolver, path string) bool {
	q := r.quiet()

	for _, rb := range u.branches {
		if q.read(rb, writer, path) {
			return true
		}
	}

	return false
}

func (u *Union) equal(other Schema, g *guard.Pairs) bool {
	o := other.(*Union)
	if len(u.branches) != len(o.branches) {
		return false
	}

	for i := range u.branches {
		if !equalTo(u.branches[i], o.branches[i], g) {
			return false
		}
	}

	return true
}

func (u *Union) hash(g *guard.Pairs) uint64 {
	h := newHasher(KindUnion)
	for _, b := range u.branches {
		h.u64(hashOf(b, g))
	}

	return h.sum()
}

func (u *Union) toNode(w *writeState, namespace string) *yaml.Node {
	n := seqNode()
	for _, b := range u.branches {
		n.Content = append(n.Content, b.toNode(w, namespace))
	}

	return n
}

// describe names a schema for diagnostics.
func describe(s Schema) string {
	s = deref(s)
	if n, ok := branchName(s); ok {
		return n
	}

	if l, ok := s.(*Logical); ok {
		return l.name
	}

	return s.Kind().String()
}
