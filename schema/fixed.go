package schema

import (
	"fmt"

	"github.com/guillefix/avro/internal/common"
	"github.com/guillefix/avro/internal/diagnostic"
	"github.com/guillefix/avro/internal/guard"

	"gopkg.in/yaml.v3"
)

// Fixed is a named byte sequence of constant size.
type Fixed struct {
	named

	size int
}

// NewFixed creates a fixed schema of size bytes.
func NewFixed(name Name, size int, opts ...NamedOption) (*Fixed, error) {
	if size < 0 {
		return nil, &MalformedSchemaError{Msg: fmt.Sprintf("fixed %s has negative size %d", name.Full(), size)}
	}

	return &Fixed{named: newNamed(name, opts), size: size}, nil
}

// Kind implements Schema.
func (f *Fixed) Kind() Kind { return KindFixed }

// Size returns the number of bytes.
func (f *Fixed) Size() int { return f.size }

func (f *Fixed) canRead(writer Schema, r *resolver, path string) bool {
	w, ok := writer.(*Fixed)
	if !ok {
		r.fail(diagnostic.CodeKindMismatch, fmt.Sprintf("writer %s cannot be read as fixed", writer.Kind()), path)
		return false
	}

	if !f.answersTo(w.FullName()) {
		r.fail(diagnostic.CodeNameMismatch,
			fmt.Sprintf("writer fixed %s does not match %s or its aliases", w.FullName(), f.FullName()), path)

		return false
	}

	if w.size != f.size {
		r.fail(diagnostic.CodeSizeMismatch, fmt.Sprintf("writer size %d, reader size %d", w.size, f.size), path)
		return false
	}

	return true
}

func (f *Fixed) equal(other Schema, _ *guard.Pairs) bool {
	o := other.(*Fixed)
	return f.FullName() == o.FullName() && f.size == o.size && f.props.Equal(o.props)
}

func (f *Fixed) hash(_ *guard.Pairs) uint64 {
	return newHasher(KindFixed).str(f.FullName()).u64(uint64(f.size)).u64(f.props.hash()).sum()
}

func (f *Fixed) toNode(w *writeState, namespace string) *yaml.Node {
	if !w.define(f.FullName()) {
		return strNode(common.Relative(f.FullName(), namespace))
	}

	m := w.namedHeader(KindFixed, &f.named, namespace)
	m.Content = append(m.Content, strNode("size"), intNode(f.size))
	f.props.appendTo(m)

	return m
}
