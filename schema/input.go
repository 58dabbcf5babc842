package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// decodeJSONNode builds a node tree from JSON text the YAML decoder
// rejects, such as objects with repeated keys. Key order and approximate
// positions are kept.
func decodeJSONNode(data []byte) (*yaml.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	b := &jsonBuilder{dec: dec, data: data}

	n, err := b.value()
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after schema")
	}

	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{n}}, nil
}

type jsonBuilder struct {
	dec  *json.Decoder
	data []byte
}

func (b *jsonBuilder) value() (*yaml.Node, error) {
	n := b.positioned()

	tok, err := b.dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			n.Kind, n.Tag = yaml.MappingNode, "!!map"

			for b.dec.More() {
				key := b.positioned()

				ktok, err := b.dec.Token()
				if err != nil {
					return nil, err
				}

				s, ok := ktok.(string)
				if !ok {
					return nil, fmt.Errorf("line %d: object key must be a string", key.Line)
				}

				key.Kind, key.Tag, key.Value = yaml.ScalarNode, "!!str", s

				v, err := b.value()
				if err != nil {
					return nil, err
				}

				n.Content = append(n.Content, key, v)
			}
		case '[':
			n.Kind, n.Tag = yaml.SequenceNode, "!!seq"

			for b.dec.More() {
				v, err := b.value()
				if err != nil {
					return nil, err
				}

				n.Content = append(n.Content, v)
			}
		default:
			return nil, fmt.Errorf("line %d: unexpected %q", n.Line, t)
		}

		// closing delimiter
		if _, err := b.dec.Token(); err != nil {
			return nil, err
		}
	case string:
		n.Kind, n.Tag, n.Value = yaml.ScalarNode, "!!str", t
	case json.Number:
		n.Kind, n.Tag, n.Value = yaml.ScalarNode, "!!int", t.String()
		if strings.ContainsAny(n.Value, ".eE") {
			n.Tag = "!!float"
		}
	case bool:
		n.Kind, n.Tag, n.Value = yaml.ScalarNode, "!!bool", fmt.Sprint(t)
	case nil:
		n.Kind, n.Tag, n.Value = yaml.ScalarNode, "!!null", "null"
	}

	return n, nil
}

// positioned returns a node carrying the line and column of the next token.
func (b *jsonBuilder) positioned() *yaml.Node {
	off := int(b.dec.InputOffset())
	for off < len(b.data) && strings.IndexByte(" \t\r\n,:", b.data[off]) >= 0 {
		off++
	}

	line := 1 + bytes.Count(b.data[:off], []byte{'\n'})
	col := off - bytes.LastIndexByte(b.data[:off], '\n')

	return &yaml.Node{Line: line, Column: col}
}
