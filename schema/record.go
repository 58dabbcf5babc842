package schema

import (
	"fmt"

	"github.com/guillefix/avro/internal/common"
	"github.com/guillefix/avro/internal/diagnostic"
	"github.com/guillefix/avro/internal/guard"
	"github.com/guillefix/avro/internal/match"

	"gopkg.in/yaml.v3"
)

// Record is a named, ordered aggregate of fields. It also models error
// types and the anonymous parameter list of an RPC request.
type Record struct {
	named

	kind    Kind
	request bool
	fields  []*Field
	byName  map[string]*Field
	byAlias map[string]*Field
}

// NewRecord creates a record with no fields.
func NewRecord(name Name, opts ...NamedOption) *Record {
	return &Record{named: newNamed(name, opts), kind: KindRecord}
}

// NewErrorRecord creates an error type with no fields.
func NewErrorRecord(name Name, opts ...NamedOption) *Record {
	return &Record{named: newNamed(name, opts), kind: KindError}
}

// NewRequest creates a request parameter list. The name may be empty.
func NewRequest(name Name, opts ...NamedOption) *Record {
	return &Record{named: newNamed(name, opts), kind: KindRecord, request: true}
}

// Kind implements Schema.
func (r *Record) Kind() Kind { return r.kind }

// IsError reports whether the record is an error type.
func (r *Record) IsError() bool { return r.kind == KindError }

// IsRequest reports whether the record is a request parameter list.
func (r *Record) IsRequest() bool { return r.request }

// SetFields replaces the field list. Fields are copied and positioned in
// list order; the given fields are not modified. When a name or alias
// appears twice a DuplicateNameError is returned and the current fields are
// kept.
func (r *Record) SetFields(fields []*Field) error {
	placed := make([]*Field, len(fields))
	byName := make(map[string]*Field, len(fields))
	byAlias := make(map[string]*Field, len(fields))

	for i, f := range fields {
		if f == nil {
			return &MalformedSchemaError{Msg: fmt.Sprintf("field %d of %s is nil", i, r.scope())}
		}

		p := f.at(i)

		if _, dup := byName[p.name]; dup {
			return &DuplicateNameError{Name: p.name, Scope: r.scope()}
		}

		byName[p.name] = p

		for _, n := range p.names() {
			if _, dup := byAlias[n]; dup {
				return &DuplicateNameError{Name: n, Scope: r.scope()}
			}

			byAlias[n] = p
		}

		placed[i] = p
	}

	r.fields, r.byName, r.byAlias = placed, byName, byAlias

	return nil
}

// Field returns the field with exactly this name, or nil.
func (r *Record) Field(name string) *Field {
	return r.byName[name]
}

// FieldByAlias returns the field whose name or alias is name, or nil.
func (r *Record) FieldByAlias(name string) *Field {
	return r.byAlias[name]
}

// Fields returns the fields in position order.
func (r *Record) Fields() []*Field {
	return append([]*Field(nil), r.fields...)
}

func (r *Record) scope() string {
	if full := r.FullName(); full != "" {
		return full
	}

	return "request"
}

func (r *Record) fieldNames() []string {
	out := make([]string, len(r.fields))
	for i, f := range r.fields {
		out[i] = f.name
	}

	return out
}

// writerField finds the writer field feeding reader field f: by name, then
// by each of f's aliases.
func (r *Record) writerField(f *Field) (wf *Field, viaAlias string) {
	if wf = r.byName[f.name]; wf != nil {
		return wf, ""
	}

	for _, a := range f.aliases {
		if wf = r.byName[a]; wf != nil {
			return wf, a
		}
	}

	return nil, ""
}

func (r *Record) canRead(writer Schema, rs *resolver, path string) bool {
	w, ok := writer.(*Record)
	if !ok {
		rs.fail(diagnostic.CodeKindMismatch,
			fmt.Sprintf("writer %s cannot be read as %s", writer.Kind(), r.kind), path)

		return false
	}

	if !r.answersTo(w.FullName()) {
		rs.fail(diagnostic.CodeNameMismatch,
			fmt.Sprintf("writer record %s does not match %s or its aliases", w.FullName(), r.FullName()), path)

		return false
	}

	if w.FullName() != r.FullName() {
		rs.note(diagnostic.SeverityWarning, diagnostic.CodeAliasMatch,
			fmt.Sprintf("writer record %s matched by alias", w.FullName()), path)
	}

	ok = true

	for _, f := range r.fields {
		fieldPath := path + "." + f.name

		wf, alias := w.writerField(f)

		switch {
		case wf == nil && f.HasDefault():
			rs.note(diagnostic.SeverityWarning, diagnostic.CodeDefaultUsed,
				fmt.Sprintf("writer has no field %s; default is used", f.name), fieldPath)

			continue
		case wf == nil:
			rs.fail(diagnostic.CodeMissingField,
				fmt.Sprintf("writer has no field %s and the reader declares no default", f.name), fieldPath,
				match.RankNames(f.name, w.fieldNames(), match.DefaultMinScore).Top(3).Names()...)

			ok = false
		case alias != "":
			rs.note(diagnostic.SeverityWarning, diagnostic.CodeAliasMatch,
				fmt.Sprintf("writer field %s matched by alias", alias), fieldPath)

			fallthrough
		default:
			if rs.read(f.schema, wf.schema, fieldPath) {
				continue
			}

			ok = false
		}

		if !rs.explaining() {
			return false
		}
	}

	return ok
}

func (r *Record) equal(other Schema, g *guard.Pairs) bool {
	o := other.(*Record)

	if r.FullName() != o.FullName() || r.request != o.request ||
		len(r.fields) != len(o.fields) || !r.props.Equal(o.props) {
		return false
	}

	for i, f := range r.fields {
		of := o.fields[i]

		if f.name != of.name || f.order != of.order ||
			!nodeEqual(f.def, of.def) || !f.props.Equal(of.props) {
			return false
		}

		if !equalTo(f.schema, of.schema, g) {
			return false
		}
	}

	return true
}

func (r *Record) hash(g *guard.Pairs) uint64 {
	h := newHasher(r.kind).str(r.FullName())
	if r.request {
		h.u64(1)
	}

	for _, f := range r.fields {
		h.str(f.name).
			u64(uint64(f.order)).
			u64(nodeHash(f.def)).
			u64(f.props.hash()).
			u64(hashOf(f.schema, g))
	}

	return h.u64(r.props.hash()).sum()
}

func (r *Record) toNode(w *writeState, namespace string) *yaml.Node {
	full := r.FullName()
	if full != "" && !w.define(full) {
		return strNode(common.Relative(full, namespace))
	}

	var m *yaml.Node
	if full == "" {
		m = mapNode(strNode("type"), strNode(r.kind.String()))
	} else {
		m = w.namedHeader(r.kind, &r.named, namespace)
	}

	inner := namespace
	if full != "" {
		inner = r.Namespace()
	}

	list := seqNode()
	for _, f := range r.fields {
		list.Content = append(list.Content, f.toNode(w, inner))
	}

	key := "fields"
	if r.request {
		key = "request"
	}

	m.Content = append(m.Content, strNode(key), list)
	r.props.appendTo(m)

	return m
}

func (f *Field) toNode(w *writeState, namespace string) *yaml.Node {
	m := mapNode(strNode("name"), strNode(f.name), strNode("type"), f.schema.toNode(w, namespace))

	if f.doc != "" {
		m.Content = append(m.Content, strNode("doc"), strNode(f.doc))
	}

	if f.def != nil {
		m.Content = append(m.Content, strNode("default"), f.def)
	}

	if f.order != Ascending {
		m.Content = append(m.Content, strNode("order"), strNode(f.order.String()))
	}

	if len(f.aliases) > 0 {
		m.Content = append(m.Content, strNode("aliases"), strSeq(f.aliases))
	}

	f.props.appendTo(m)

	return m
}
