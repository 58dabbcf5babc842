package schema

import (
	"fmt"

	"github.com/guillefix/avro/internal/common"
	"github.com/guillefix/avro/projection"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// parseRecord parses a record, error or request definition. The record is
// registered before its fields are parsed so that fields can refer to it.
func (p *parser) parseRecord(m *yaml.Node, typeName, namespace, loc string, withProps bool) (Schema, error) {
	fieldsNode, requestNode := mappingValue(m, "fields"), mappingValue(m, "request")

	key, list := "fields", fieldsNode

	switch {
	case fieldsNode != nil && requestNode != nil:
		return nil, p.malformed(m, loc, "record has both fields and request")
	case fieldsNode == nil && requestNode == nil:
		return nil, p.malformed(m, loc, "record requires fields or request")
	case requestNode != nil:
		key, list = "request", requestNode
	}

	request := key == "request"
	listLoc := loc + "." + key

	if seq := unalias(list); seq == nil || seq.Kind != yaml.SequenceNode {
		return nil, p.malformed(list, listLoc, "%s must be a list", key)
	}

	name, err := p.name(m, namespace, loc, !request)
	if err != nil {
		return nil, err
	}

	opts, err := p.namedOptions(m, "record", loc, withProps)
	if err != nil {
		return nil, err
	}

	var rec *Record

	switch {
	case request:
		if typeName == "error" {
			return nil, p.malformed(m, loc, "an error cannot be a request")
		}

		rec = NewRequest(name, opts...)
	case typeName == "error":
		rec = NewErrorRecord(name, opts...)
	default:
		rec = NewRecord(name, opts...)
	}

	inner := namespace
	if rec.FullName() != "" {
		inner = rec.Namespace()

		if err := p.register(rec, loc); err != nil {
			return nil, err
		}
	}

	recPath := p.fieldPath
	if rec.FullName() != "" {
		recPath = p.strategy.RecordPath(p.fieldPath, rec.FullName())
	}

	fields, err := p.parseFields(unalias(list), inner, recPath, listLoc)
	if err != nil {
		return nil, err
	}

	if err := rec.SetFields(fields); err != nil {
		return nil, p.locate(err, list, listLoc)
	}

	return rec, nil
}

func (p *parser) parseFields(list *yaml.Node, namespace string, recPath projection.Path, loc string) ([]*Field, error) {
	fields := make([]*Field, 0, len(list.Content))

	for i, entry := range list.Content {
		f, err := p.parseField(entry, namespace, recPath, fmt.Sprintf("%s[%d]", loc, i))
		if err != nil {
			return nil, err
		}

		if f != nil {
			fields = append(fields, f)
		}
	}

	return fields, nil
}

// parseField parses one field entry. It returns nil when the projection
// drops the field; the field's type is still parsed so that named types it
// defines stay resolvable.
func (p *parser) parseField(n *yaml.Node, namespace string, recPath projection.Path, loc string) (*Field, error) {
	m := unalias(n)
	if m == nil || m.Kind != yaml.MappingNode {
		return nil, p.malformed(n, loc, "field must be a mapping")
	}

	nameNode := mappingValue(m, "name")
	if nameNode == nil {
		return nil, p.malformed(m, loc, "field is missing name")
	}

	name, err := p.str(nameNode, loc+".name")
	if err != nil {
		return nil, err
	}

	if !common.IsValidIdent(name) {
		return nil, p.malformed(nameNode, loc+".name", "invalid field name %q", name)
	}

	typeNode := mappingValue(m, "type")
	if typeNode == nil {
		return nil, p.malformed(m, loc, "field %s is missing type", name)
	}

	if p.cfg.ImplicitNullable {
		typeNode = nullable(typeNode)
	}

	path := p.strategy.FieldPath(recPath, name)

	outer := p.fieldPath
	p.fieldPath = path
	s, err := p.parse(typeNode, namespace, loc+".type")
	p.fieldPath = outer

	if err != nil {
		return nil, err
	}

	if !p.selector.Retain(path) {
		p.log.WithFields(logrus.Fields{
			"field": path.String(),
		}).Debug("field dropped by projection")

		return nil, nil
	}

	opts, err := p.fieldOptions(m, loc)
	if err != nil {
		return nil, err
	}

	return NewField(name, s, opts...), nil
}

func (p *parser) fieldOptions(m *yaml.Node, loc string) ([]FieldOption, error) {
	var opts []FieldOption

	if a := mappingValue(m, "aliases"); a != nil {
		aliases, err := p.strings(a, loc+".aliases")
		if err != nil {
			return nil, err
		}

		opts = append(opts, WithFieldAliases(aliases...))
	}

	if d := mappingValue(m, "doc"); d != nil {
		doc, err := p.str(d, loc+".doc")
		if err != nil {
			return nil, err
		}

		opts = append(opts, WithFieldDoc(doc))
	}

	switch def := mappingValue(m, "default"); {
	case def != nil:
		opts = append(opts, WithDefault(def))
	case p.cfg.ImplicitNullDefault:
		opts = append(opts, WithNullDefault())
	}

	if o := mappingValue(m, "order"); o != nil {
		s, err := p.str(o, loc+".order")
		if err != nil {
			return nil, err
		}

		order, ok := ParseOrder(s)
		if !ok {
			return nil, p.malformed(o, loc+".order", "invalid order %q", s)
		}

		opts = append(opts, WithOrder(order))
	}

	for _, prop := range p.props(m, "field", true) {
		opts = append(opts, WithFieldProp(prop.Key, prop.Value))
	}

	return opts, nil
}

// nullable makes a field type nullable: a null-headed union or null itself
// is kept, any other union gets null moved to its front, and a single type T
// becomes [null, T]. A bare {"type": X} wrapper is judged by X.
func nullable(n *yaml.Node) *yaml.Node {
	t := unalias(n)
	if inner := wrapped(t); inner != nil {
		return nullable(inner)
	}

	if t == nil || isNullType(t) {
		return n
	}

	if t.Kind != yaml.SequenceNode {
		return seqNode(strNode("null"), n)
	}

	if len(t.Content) > 0 && isNullType(t.Content[0]) {
		return n
	}

	out := seqNode(strNode("null"))

	for _, b := range t.Content {
		if !isNullType(b) {
			out.Content = append(out.Content, b)
		}
	}

	out.Line, out.Column = t.Line, t.Column

	return out
}

// wrapped returns X for a mapping {"type": X} with no other keys, where X
// is itself a definition or union.
func wrapped(n *yaml.Node) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode || len(n.Content) != 2 || unalias(n.Content[0]).Value != "type" {
		return nil
	}

	inner := unalias(n.Content[1])
	if inner == nil || (inner.Kind != yaml.SequenceNode && inner.Kind != yaml.MappingNode) {
		return nil
	}

	return inner
}

// isNullType reports whether n names the null type.
func isNullType(n *yaml.Node) bool {
	n = unalias(n)
	if n == nil {
		return false
	}

	switch n.Kind {
	case yaml.ScalarNode:
		return isNull(n) || n.Value == "null"
	case yaml.MappingNode:
		t := unalias(mappingValue(n, "type"))
		return t != nil && t.Kind == yaml.ScalarNode && t.Value == "null" && mappingValue(n, "logicalType") == nil
	default:
		return false
	}
}
