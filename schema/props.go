package schema

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

// Prop is one custom property.
type Prop struct {
	Key   string
	Value *yaml.Node
}

// Props is an ordered list of custom properties. Keys are unique; With
// replaces an existing key in place.
type Props []Prop

// With returns props with key set to value.
func (p Props) With(key string, value *yaml.Node) Props {
	out := make(Props, len(p), len(p)+1)
	copy(out, p)

	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}

	return append(out, Prop{Key: key, Value: value})
}

// Get returns the value stored under key.
func (p Props) Get(key string) (*yaml.Node, bool) {
	for _, prop := range p {
		if prop.Key == key {
			return prop.Value, true
		}
	}

	return nil, false
}

// String returns the value under key when it is a scalar.
func (p Props) String(key string) string {
	if v, ok := p.Get(key); ok && v != nil && v.Kind == yaml.ScalarNode {
		return v.Value
	}

	return ""
}

// Equal compares two property lists ignoring order.
func (p Props) Equal(other Props) bool {
	if len(p) != len(other) {
		return false
	}

	for _, prop := range p {
		v, ok := other.Get(prop.Key)
		if !ok || !nodeEqual(prop.Value, v) {
			return false
		}
	}

	return true
}

func (p Props) hash() uint64 {
	var sum uint64

	for _, prop := range p {
		sum ^= newHasher(0).str(prop.Key).u64(nodeHash(prop.Value)).sum()
	}

	return sum
}

func (p Props) appendTo(m *yaml.Node) {
	for _, prop := range p {
		m.Content = append(m.Content, strNode(prop.Key), prop.Value)
	}
}

// hasher feeds typed values into an xxhash digest.
type hasher struct {
	d *xxhash.Digest
}

func newHasher(k Kind) *hasher {
	h := &hasher{d: xxhash.New()}

	return h.u64(uint64(k))
}

func (h *hasher) str(s string) *hasher {
	_, _ = h.d.WriteString(s)
	_, _ = h.d.Write([]byte{0})

	return h
}

func (h *hasher) u64(v uint64) *hasher {
	var b [8]byte

	binary.LittleEndian.PutUint64(b[:], v)
	_, _ = h.d.Write(b[:])

	return h
}

func (h *hasher) sum() uint64 {
	return h.d.Sum64()
}

// Node construction helpers.

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func intNode(v int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)}
}

// NullNode returns a fresh explicit null value node.
func NullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func mapNode(kv ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: kv}
}

func seqNode(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: items}
}

func strSeq(items []string) *yaml.Node {
	n := seqNode()
	for _, s := range items {
		n.Content = append(n.Content, strNode(s))
	}

	return n
}

// unalias follows document and alias nodes to the node holding content.
func unalias(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch {
		case n.Kind == yaml.DocumentNode && len(n.Content) == 1:
			n = n.Content[0]
		case n.Kind == yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}

	return nil
}

// isNull reports whether n is an explicit null value.
func isNull(n *yaml.Node) bool {
	n = unalias(n)
	return n != nil && n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

// nodeEqual compares two value trees. Mapping keys are compared as a set.
func nodeEqual(a, b *yaml.Node) bool {
	a, b = unalias(a), unalias(b)
	if a == nil || b == nil {
		return a == b
	}

	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case yaml.ScalarNode:
		return a.ShortTag() == b.ShortTag() && scalarValue(a) == scalarValue(b)
	case yaml.SequenceNode:
		if len(a.Content) != len(b.Content) {
			return false
		}

		for i := range a.Content {
			if !nodeEqual(a.Content[i], b.Content[i]) {
				return false
			}
		}

		return true
	case yaml.MappingNode:
		if len(a.Content) != len(b.Content) {
			return false
		}

		for i := 0; i+1 < len(a.Content); i += 2 {
			v := mappingValue(b, a.Content[i].Value)
			if v == nil || !nodeEqual(a.Content[i+1], v) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

func nodeHash(n *yaml.Node) uint64 {
	n = unalias(n)
	if n == nil {
		return 0
	}

	h := newHasher(0).u64(uint64(n.Kind))

	switch n.Kind {
	case yaml.ScalarNode:
		h.str(n.ShortTag()).str(scalarValue(n))
	case yaml.SequenceNode:
		for _, c := range n.Content {
			h.u64(nodeHash(c))
		}
	case yaml.MappingNode:
		var sum uint64
		for i := 0; i+1 < len(n.Content); i += 2 {
			sum ^= newHasher(0).str(n.Content[i].Value).u64(nodeHash(n.Content[i+1])).sum()
		}

		h.u64(sum)
	}

	return h.sum()
}

// scalarValue canonicalizes spellings that differ between JSON and YAML
// sources, so `null`, `~` and an empty null all compare equal.
func scalarValue(n *yaml.Node) string {
	switch n.ShortTag() {
	case "!!null":
		return "null"
	case "!!bool":
		return strings.ToLower(n.Value)
	default:
		return n.Value
	}
}

// mappingValue returns the value stored under key in a mapping node.
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if unalias(m.Content[i]).Value == key {
			return m.Content[i+1]
		}
	}

	return nil
}
