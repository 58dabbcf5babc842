package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/guillefix/avro/internal/common"

	"gopkg.in/yaml.v3"
)

// writeState tracks the named schemas already written in one document; a
// name is defined in full at its first occurrence and referenced afterwards.
type writeState struct {
	defined map[string]bool
}

func newWriteState() *writeState {
	return &writeState{defined: make(map[string]bool)}
}

// define reports whether full is being written for the first time.
func (w *writeState) define(full string) bool {
	if w.defined[full] {
		return false
	}

	w.defined[full] = true

	return true
}

// namedHeader starts the mapping of a named schema with its type and identity.
func (w *writeState) namedHeader(k Kind, n *named, namespace string) *yaml.Node {
	m := mapNode(strNode("type"), strNode(k.String()), strNode("name"), strNode(n.name.Name))

	if n.name.Namespace != namespace {
		m.Content = append(m.Content, strNode("namespace"), strNode(n.name.Namespace))
	}

	if len(n.aliases) > 0 {
		aliases := make([]string, len(n.aliases))
		for i, a := range n.aliases {
			aliases[i] = common.Relative(a, n.name.Namespace)
		}

		m.Content = append(m.Content, strNode("aliases"), strSeq(aliases))
	}

	if n.doc != "" {
		m.Content = append(m.Content, strNode("doc"), strNode(n.doc))
	}

	return m
}

// ToNode returns s as a schema definition tree.
func ToNode(s Schema) *yaml.Node {
	return s.toNode(newWriteState(), "")
}

// Marshal returns s as compact JSON schema text.
func Marshal(s Schema) ([]byte, error) {
	var buf bytes.Buffer

	if err := writeJSON(&buf, ToNode(s)); err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return buf.Bytes(), nil
}

// MarshalIndent is like Marshal but indents the output.
func MarshalIndent(s Schema, indent string) ([]byte, error) {
	compact, err := Marshal(s)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", indent); err != nil {
		return nil, fmt.Errorf("indent schema: %w", err)
	}

	return buf.Bytes(), nil
}

// MarshalYAML returns s as YAML schema text.
func MarshalYAML(s Schema) ([]byte, error) {
	out, err := yaml.Marshal(ToNode(s))
	if err != nil {
		return nil, fmt.Errorf("marshal schema yaml: %w", err)
	}

	return out, nil
}

// Canonical returns the parsing canonical form of s: full names, no
// namespaces, docs, aliases, defaults or custom properties, logical types
// replaced by their underlying schema, and no whitespace.
func Canonical(s Schema) ([]byte, error) {
	var buf bytes.Buffer

	if err := writeJSON(&buf, canonicalNode(s, make(map[string]bool))); err != nil {
		return nil, fmt.Errorf("canonical form: %w", err)
	}

	return buf.Bytes(), nil
}

func canonicalNode(s Schema, seen map[string]bool) *yaml.Node {
	s = deref(s)

	switch t := s.(type) {
	case *Primitive:
		return strNode(t.kind.String())
	case *Logical:
		return canonicalNode(t.underlying, seen)
	case *Array:
		return mapNode(strNode("type"), strNode("array"), strNode("items"), canonicalNode(t.items, seen))
	case *Map:
		return mapNode(strNode("type"), strNode("map"), strNode("values"), canonicalNode(t.values, seen))
	case *Union:
		n := seqNode()
		for _, b := range t.branches {
			n.Content = append(n.Content, canonicalNode(b, seen))
		}

		return n
	case *Enum:
		if seen[t.FullName()] {
			return strNode(t.FullName())
		}

		seen[t.FullName()] = true

		return mapNode(strNode("name"), strNode(t.FullName()), strNode("type"), strNode("enum"),
			strNode("symbols"), strSeq(t.symbols))
	case *Fixed:
		if seen[t.FullName()] {
			return strNode(t.FullName())
		}

		seen[t.FullName()] = true

		return mapNode(strNode("name"), strNode(t.FullName()), strNode("type"), strNode("fixed"),
			strNode("size"), intNode(t.size))
	case *Record:
		return canonicalRecord(t, seen)
	case *Ref:
		return strNode(t.FullName())
	default:
		return NullNode()
	}
}

func canonicalRecord(r *Record, seen map[string]bool) *yaml.Node {
	full := r.FullName()
	if full != "" && seen[full] {
		return strNode(full)
	}

	m := mapNode()
	if full != "" {
		seen[full] = true
		m.Content = append(m.Content, strNode("name"), strNode(full))
	}

	fields := seqNode()
	for _, f := range r.fields {
		fields.Content = append(fields.Content,
			mapNode(strNode("name"), strNode(f.name), strNode("type"), canonicalNode(f.schema, seen)))
	}

	m.Content = append(m.Content, strNode("type"), strNode(KindRecord.String()), strNode("fields"), fields)

	return m
}

// writeJSON emits a node tree as compact JSON, keeping mapping key order.
func writeJSON(buf *bytes.Buffer, n *yaml.Node) error {
	n = unalias(n)
	if n == nil {
		buf.WriteString("null")
		return nil
	}

	switch n.Kind {
	case yaml.MappingNode:
		buf.WriteByte('{')

		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}

			if err := writeJSONString(buf, unalias(n.Content[i]).Value); err != nil {
				return err
			}

			buf.WriteByte(':')

			if err := writeJSON(buf, n.Content[i+1]); err != nil {
				return err
			}
		}

		buf.WriteByte('}')
	case yaml.SequenceNode:
		buf.WriteByte('[')

		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}

			if err := writeJSON(buf, c); err != nil {
				return err
			}
		}

		buf.WriteByte(']')
	case yaml.ScalarNode:
		return writeJSONScalar(buf, n)
	default:
		return fmt.Errorf("unsupported node kind %d at line %d", n.Kind, n.Line)
	}

	return nil
}

func writeJSONScalar(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.ShortTag() {
	case "!!null":
		buf.WriteString("null")
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}

		buf.WriteString(strconv.FormatBool(b))
	case "!!int", "!!float":
		if isJSONNumber(n.Value) {
			buf.WriteString(n.Value)
			return nil
		}

		out, err := numberLiteral(n)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}

		buf.WriteString(out)
	default:
		return writeJSONString(buf, n.Value)
	}

	return nil
}

// isJSONNumber reports whether s is already a JSON number literal.
func isJSONNumber(s string) bool {
	if s == "" || (s[0] != '-' && (s[0] < '0' || s[0] > '9')) {
		return false
	}

	var v json.Number

	return json.Unmarshal([]byte(s), &v) == nil
}

// numberLiteral rewrites a YAML-only number spelling (0x1F, 0o17, +5, 1_000,
// .5) as a JSON literal. Integers keep full precision.
func numberLiteral(n *yaml.Node) (string, error) {
	if n.ShortTag() == "!!int" {
		if v, ok := new(big.Int).SetString(strings.ReplaceAll(n.Value, "_", ""), 0); ok {
			return v.String(), nil
		}
	}

	var f float64
	if err := n.Decode(&f); err != nil {
		return "", err
	}

	out, err := json.Marshal(f)
	if err != nil {
		return "", err
	}

	return string(out), nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer

	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(s); err != nil {
		return err
	}

	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))

	return nil
}
