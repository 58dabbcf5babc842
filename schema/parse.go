package schema

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/guillefix/avro/internal/common"
	"github.com/guillefix/avro/projection"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ParseConfig controls how schema text is turned into schemas.
type ParseConfig struct {
	// ImplicitNullable wraps every field type T that is not already a
	// null-headed union into the union [null, T].
	ImplicitNullable bool
	// ImplicitNullDefault gives fields without a declared default an
	// explicit null default.
	ImplicitNullDefault bool
	// Projection lists dotted field paths to keep. Empty keeps every field.
	Projection []string
	// PathStrategy derives the field paths matched against Projection.
	PathStrategy projection.Strategy
	// Logger receives debug tracing.
	Logger logrus.FieldLogger
}

// DefaultParseConfig returns the default configuration.
func DefaultParseConfig() ParseConfig {
	return ParseConfig{
		ImplicitNullable:    true,
		ImplicitNullDefault: true,
		PathStrategy:        projection.Nested{},
		Logger:              logrus.StandardLogger(),
	}
}

// StrictParseConfig returns a configuration that keeps declared types and
// defaults as written.
func StrictParseConfig() ParseConfig {
	cfg := DefaultParseConfig()
	cfg.ImplicitNullable = false
	cfg.ImplicitNullDefault = false

	return cfg
}

// Parse parses JSON or YAML schema text with the default configuration.
func Parse(data []byte) (Schema, error) {
	return ParseWithConfig(data, DefaultParseConfig())
}

// ParseWithConfig parses JSON or YAML schema text into a fresh registry.
func ParseWithConfig(data []byte, cfg ParseConfig) (Schema, error) {
	node, err := decodeNode(data)
	if err != nil {
		return nil, err
	}

	return ParseNode(node, NewNames(), cfg)
}

// ParseNode parses a definition tree, registering named schemas in names.
// References may point forward; they are checked once the tree is parsed.
func ParseNode(node *yaml.Node, names *Names, cfg ParseConfig) (Schema, error) {
	p, err := newParser(names, cfg)
	if err != nil {
		return nil, err
	}

	s, err := p.parse(node, "", "$")
	if err != nil {
		return nil, err
	}

	if err := names.Check(); err != nil {
		return nil, err
	}

	return s, nil
}

// decodeNode reads JSON or YAML text into a node tree.
func decodeNode(data []byte) (*yaml.Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &MalformedSchemaError{Path: "$", Msg: "empty document"}
	}

	var doc yaml.Node

	if err := yaml.Unmarshal(data, &doc); err != nil {
		jsonDoc, jsonErr := decodeJSONNode(data)
		if jsonErr != nil {
			return nil, &MalformedSchemaError{Path: "$", Msg: err.Error()}
		}

		return jsonDoc, nil
	}

	return &doc, nil
}

type parser struct {
	names    *Names
	cfg      ParseConfig
	selector *projection.Selector
	strategy projection.Strategy
	log      logrus.FieldLogger

	// fieldPath is the path of the field whose type is being parsed.
	fieldPath projection.Path
}

func newParser(names *Names, cfg ParseConfig) (*parser, error) {
	selector, err := projection.NewSelector(cfg.Projection)
	if err != nil {
		return nil, fmt.Errorf("projection: %w", err)
	}

	p := &parser{
		names:    names,
		cfg:      cfg,
		selector: selector,
		strategy: cfg.PathStrategy,
		log:      cfg.Logger,
	}

	if p.strategy == nil {
		p.strategy = projection.Nested{}
	}

	if p.log == nil {
		p.log = logrus.StandardLogger()
	}

	return p, nil
}

// Keys consumed by each definition shape; every other key is a custom
// property.
var reservedKeys = map[string][]string{
	"primitive": {"type"},
	"record":    {"type", "name", "namespace", "aliases", "doc", "fields", "request"},
	"enum":      {"type", "name", "namespace", "aliases", "doc", "symbols", "default"},
	"fixed":     {"type", "name", "namespace", "aliases", "doc", "size"},
	"array":     {"type", "items"},
	"map":       {"type", "values"},
	"field":     {"name", "type", "doc", "default", "order", "aliases"},
}

// parse dispatches on the node shape: a name, a union, or a definition.
func (p *parser) parse(n *yaml.Node, namespace, loc string) (Schema, error) {
	n = unalias(n)
	if n == nil {
		return nil, &MalformedSchemaError{Path: loc, Msg: "missing type"}
	}

	switch n.Kind {
	case yaml.ScalarNode:
		return p.parseName(n, namespace, loc)
	case yaml.SequenceNode:
		return p.parseUnion(n, namespace, loc)
	case yaml.MappingNode:
		return p.parseDefinition(n, namespace, loc, true)
	default:
		return nil, p.malformed(n, loc, "unexpected node")
	}
}

func (p *parser) parseName(n *yaml.Node, namespace, loc string) (Schema, error) {
	if isNull(n) {
		return Null, nil
	}

	if n.ShortTag() != "!!str" {
		return nil, p.malformed(n, loc, "type name must be a string, got %q", n.Value)
	}

	if k, ok := primitiveKind(n.Value); ok {
		return primitives[k], nil
	}

	if !common.IsValidFullName(n.Value) {
		return nil, p.malformed(n, loc, "invalid type name %q", n.Value)
	}

	return p.names.reference(n.Value, namespace, loc), nil
}

var primitives = map[Kind]*Primitive{
	KindNull:    Null,
	KindBoolean: Boolean,
	KindInt:     Int,
	KindLong:    Long,
	KindFloat:   Float,
	KindDouble:  Double,
	KindBytes:   Bytes,
	KindString:  String,
}

func (p *parser) parseUnion(n *yaml.Node, namespace, loc string) (Schema, error) {
	branches := make([]Schema, 0, len(n.Content))

	for i, b := range n.Content {
		s, err := p.parse(b, namespace, fmt.Sprintf("%s[%d]", loc, i))
		if err != nil {
			return nil, err
		}

		branches = append(branches, s)
	}

	u, err := NewUnion(branches...)
	if err != nil {
		return nil, p.locate(err, n, loc)
	}

	return u, nil
}

// parseDefinition parses a mapping with a "type" key. withProps is false
// when the mapping also carries a logical type, which then owns the custom
// properties.
func (p *parser) parseDefinition(m *yaml.Node, namespace, loc string, withProps bool) (Schema, error) {
	typeNode := unalias(mappingValue(m, "type"))
	if typeNode == nil {
		return nil, p.malformed(m, loc, "missing type")
	}

	if withProps {
		if lt := unalias(mappingValue(m, "logicalType")); lt != nil && lt.Kind == yaml.ScalarNode && !isNull(lt) {
			return p.parseLogical(m, lt.Value, namespace, loc)
		}
	}

	if typeNode.Kind != yaml.ScalarNode || isNull(typeNode) {
		// {"type": <definition>} wraps a nested definition or union.
		return p.parse(typeNode, namespace, loc+".type")
	}

	switch name := typeNode.Value; name {
	case "record", "error":
		return p.parseRecord(m, name, namespace, loc, withProps)
	case "enum":
		return p.parseEnum(m, namespace, loc, withProps)
	case "fixed":
		return p.parseFixed(m, namespace, loc, withProps)
	case "array":
		items, err := p.parse(mappingValue(m, "items"), namespace, loc+".items")
		if err != nil {
			return nil, err
		}

		return NewArray(items, p.props(m, "array", withProps)), nil
	case "map":
		values, err := p.parse(mappingValue(m, "values"), namespace, loc+".values")
		if err != nil {
			return nil, err
		}

		return NewMap(values, p.props(m, "map", withProps)), nil
	default:
		if k, ok := primitiveKind(name); ok {
			props := p.props(m, "primitive", withProps)
			if len(props) == 0 {
				return primitives[k], nil
			}

			return NewPrimitive(k, props), nil
		}

		return p.parseName(typeNode, namespace, loc+".type")
	}
}

// parseLogical parses the annotated schema and validates the annotation.
// An invalid annotation is dropped and kept as a plain property of the
// underlying schema.
func (p *parser) parseLogical(m *yaml.Node, name, namespace, loc string) (Schema, error) {
	underlying, err := p.parseDefinition(m, namespace, loc, false)
	if err != nil {
		return nil, err
	}

	shape := definitionShape(m)
	props := p.props(m, shape, true)

	params := make(Props, 0, len(props))
	for _, prop := range props {
		if prop.Key != "logicalType" {
			params = append(params, prop)
		}
	}

	if err := validateLogical(name, underlying, params); err != nil {
		p.log.WithFields(logrus.Fields{
			"location":    loc,
			"logicalType": name,
		}).Debugf("ignoring logical type: %v", err)

		return attachProps(underlying, props), nil
	}

	return NewLogical(name, underlying, params), nil
}

func definitionShape(m *yaml.Node) string {
	t := unalias(mappingValue(m, "type"))
	if t == nil || t.Kind != yaml.ScalarNode {
		return "primitive"
	}

	switch t.Value {
	case "record", "error":
		return "record"
	case "enum", "fixed", "array", "map":
		return t.Value
	default:
		return "primitive"
	}
}

// attachProps gives a freshly parsed schema the properties it was parsed
// without.
func attachProps(s Schema, props Props) Schema {
	switch t := s.(type) {
	case *Primitive:
		return NewPrimitive(t.kind, props)
	case *Array:
		t.props = props
	case *Map:
		t.props = props
	case *Fixed:
		t.props = props
	case *Enum:
		t.props = props
	case *Record:
		t.props = props
	}

	return s
}

func (p *parser) parseEnum(m *yaml.Node, namespace, loc string, withProps bool) (Schema, error) {
	name, err := p.name(m, namespace, loc, true)
	if err != nil {
		return nil, err
	}

	symbolsNode := unalias(mappingValue(m, "symbols"))
	if symbolsNode == nil {
		return nil, p.malformed(m, loc, "enum %s requires symbols", name.Full())
	}

	symbols, err := p.strings(symbolsNode, loc+".symbols")
	if err != nil {
		return nil, err
	}

	var def string

	if d := mappingValue(m, "default"); d != nil {
		if def, err = p.str(d, loc+".default"); err != nil {
			return nil, err
		}
	}

	opts, err := p.namedOptions(m, "enum", loc, withProps)
	if err != nil {
		return nil, err
	}

	e, err := NewEnum(name, symbols, def, opts...)
	if err != nil {
		return nil, p.locate(err, m, loc)
	}

	if err := p.register(e, loc); err != nil {
		return nil, err
	}

	return e, nil
}

func (p *parser) parseFixed(m *yaml.Node, namespace, loc string, withProps bool) (Schema, error) {
	name, err := p.name(m, namespace, loc, true)
	if err != nil {
		return nil, err
	}

	sizeNode := unalias(mappingValue(m, "size"))
	if sizeNode == nil {
		return nil, p.malformed(m, loc, "fixed %s requires size", name.Full())
	}

	var size int
	if sizeNode.ShortTag() != "!!int" || sizeNode.Decode(&size) != nil {
		return nil, p.malformed(sizeNode, loc+".size", "size must be an integer, got %q", sizeNode.Value)
	}

	opts, err := p.namedOptions(m, "fixed", loc, withProps)
	if err != nil {
		return nil, err
	}

	f, err := NewFixed(name, size, opts...)
	if err != nil {
		return nil, p.locate(err, sizeNode, loc+".size")
	}

	if err := p.register(f, loc); err != nil {
		return nil, err
	}

	return f, nil
}

// name reads the name and namespace of a named definition. An explicit
// empty namespace selects the null namespace.
func (p *parser) name(m *yaml.Node, namespace, loc string, required bool) (Name, error) {
	nameNode := mappingValue(m, "name")
	if nameNode == nil {
		if required {
			return Name{}, p.malformed(m, loc, "missing name")
		}

		return Name{}, nil
	}

	name, err := p.str(nameNode, loc+".name")
	if err != nil {
		return Name{}, err
	}

	if nsNode := mappingValue(m, "namespace"); nsNode != nil {
		if isNull(nsNode) {
			namespace = ""
		} else if namespace, err = p.str(nsNode, loc+".namespace"); err != nil {
			return Name{}, err
		}
	}

	n := NewName(name, namespace)
	if !common.IsValidIdent(n.Name) || (n.Namespace != "" && !common.IsValidFullName(n.Namespace)) {
		return Name{}, p.malformed(nameNode, loc+".name", "invalid name %q", n.Full())
	}

	return n, nil
}

func (p *parser) namedOptions(m *yaml.Node, shape, loc string, withProps bool) ([]NamedOption, error) {
	var opts []NamedOption

	if a := mappingValue(m, "aliases"); a != nil {
		aliases, err := p.strings(a, loc+".aliases")
		if err != nil {
			return nil, err
		}

		for i, alias := range aliases {
			if !common.IsValidFullName(alias) {
				return nil, p.malformed(a, fmt.Sprintf("%s.aliases[%d]", loc, i), "invalid alias %q", alias)
			}
		}

		opts = append(opts, WithAliases(aliases...))
	}

	if d := mappingValue(m, "doc"); d != nil {
		doc, err := p.str(d, loc+".doc")
		if err != nil {
			return nil, err
		}

		opts = append(opts, WithDoc(doc))
	}

	for _, prop := range p.props(m, shape, withProps) {
		opts = append(opts, WithProp(prop.Key, prop.Value))
	}

	return opts, nil
}

func (p *parser) register(s NamedSchema, loc string) error {
	if err := p.names.Register(s); err != nil {
		return fmt.Errorf("%s: %w", loc, err)
	}

	p.log.WithFields(logrus.Fields{
		"name": s.FullName(),
		"kind": s.Kind().String(),
	}).Debug("registered named schema")

	return nil
}

// props collects the keys of m not consumed by shape.
func (p *parser) props(m *yaml.Node, shape string, enabled bool) Props {
	if !enabled {
		return nil
	}

	reserved := reservedKeys[shape]

	var props Props

	for i := 0; i+1 < len(m.Content); i += 2 {
		key := unalias(m.Content[i]).Value
		if slices.Contains(reserved, key) {
			continue
		}

		props = append(props, Prop{Key: key, Value: m.Content[i+1]})
	}

	return props
}

func (p *parser) str(n *yaml.Node, loc string) (string, error) {
	v := unalias(n)
	if v == nil || v.Kind != yaml.ScalarNode || isNull(v) {
		return "", p.malformed(n, loc, "expected a string")
	}

	return v.Value, nil
}

func (p *parser) strings(n *yaml.Node, loc string) ([]string, error) {
	seq := unalias(n)
	if seq == nil || seq.Kind != yaml.SequenceNode {
		return nil, p.malformed(n, loc, "expected a list of strings")
	}

	out := make([]string, 0, len(seq.Content))

	for i, item := range seq.Content {
		s, err := p.str(item, fmt.Sprintf("%s[%d]", loc, i))
		if err != nil {
			return nil, err
		}

		out = append(out, s)
	}

	return out, nil
}

func (p *parser) malformed(n *yaml.Node, loc, format string, args ...any) error {
	err := &MalformedSchemaError{Path: loc, Msg: fmt.Sprintf(format, args...)}
	if n != nil {
		err.Line, err.Column = n.Line, n.Column
	}

	return err
}

// locate fills in the location of an error raised by a constructor.
func (p *parser) locate(err error, n *yaml.Node, loc string) error {
	if m, ok := err.(*MalformedSchemaError); ok {
		m.Path = loc
		if n != nil {
			m.Line, m.Column = n.Line, n.Column
		}

		return m
	}

	return fmt.Errorf("%s: %w", loc, err)
}
