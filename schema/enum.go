package schema

import (
	"fmt"
	"slices"

	"github.com/guillefix/avro/internal/common"
	"github.com/guillefix/avro/internal/diagnostic"
	"github.com/guillefix/avro/internal/guard"

	"gopkg.in/yaml.v3"
)

// Enum is a named set of symbols with an optional default symbol used when
// reading a writer symbol the reader does not know.
type Enum struct {
	named

	symbols []string
	def     string
}

// NewEnum creates an enum. Symbols must be valid, unique identifiers and the
// default, when non-empty, must be one of them.
func NewEnum(name Name, symbols []string, def string, opts ...NamedOption) (*Enum, error) {
	seen := make(map[string]struct{}, len(symbols))

	for _, s := range symbols {
		if !common.IsValidIdent(s) {
			return nil, &MalformedSchemaError{Msg: fmt.Sprintf("invalid enum symbol %q in %s", s, name.Full())}
		}

		if _, dup := seen[s]; dup {
			return nil, &DuplicateNameError{Name: s, Scope: "enum " + name.Full()}
		}

		seen[s] = struct{}{}
	}

	if def != "" && !slices.Contains(symbols, def) {
		return nil, &MalformedSchemaError{Msg: fmt.Sprintf("enum %s default %q is not a symbol", name.Full(), def)}
	}

	return &Enum{named: newNamed(name, opts), symbols: common.Clone(symbols), def: def}, nil
}

// Kind implements Schema.
func (e *Enum) Kind() Kind { return KindEnum }

// Symbols returns the symbols in declaration order.
func (e *Enum) Symbols() []string { return common.Clone(e.symbols) }

// Default returns the default symbol, or "".
func (e *Enum) Default() string { return e.def }

func (e *Enum) canRead(writer Schema, r *resolver, path string) bool {
	w, ok := writer.(*Enum)
	if !ok {
		r.fail(diagnostic.CodeKindMismatch, fmt.Sprintf("writer %s cannot be read as enum", writer.Kind()), path)
		return false
	}

	if !e.answersTo(w.FullName()) {
		r.fail(diagnostic.CodeNameMismatch,
			fmt.Sprintf("writer enum %s does not match %s or its aliases", w.FullName(), e.FullName()), path)

		return false
	}

	ok = true

	for _, s := range w.symbols {
		if slices.Contains(e.symbols, s) {
			continue
		}

		if e.def != "" {
			r.note(diagnostic.SeverityWarning, diagnostic.CodeDefaultUsed,
				fmt.Sprintf("writer symbol %s is read as default %s", s, e.def), path)

			continue
		}

		r.fail(diagnostic.CodeMissingSymbol, fmt.Sprintf("writer symbol %s is unknown to the reader", s), path)
		ok = false

		if !r.explaining() {
			return false
		}
	}

	return ok
}

func (e *Enum) equal(other Schema, _ *guard.Pairs) bool {
	o := other.(*Enum)

	return e.FullName() == o.FullName() &&
		slices.Equal(e.symbols, o.symbols) &&
		e.def == o.def &&
		e.props.Equal(o.props)
}

func (e *Enum) hash(_ *guard.Pairs) uint64 {
	h := newHasher(KindEnum).str(e.FullName())
	for _, s := range e.symbols {
		h.str(s)
	}

	return h.str(e.def).u64(e.props.hash()).sum()
}

func (e *Enum) toNode(w *writeState, namespace string) *yaml.Node {
	if !w.define(e.FullName()) {
		return strNode(common.Relative(e.FullName(), namespace))
	}

	m := w.namedHeader(KindEnum, &e.named, namespace)
	m.Content = append(m.Content, strNode("symbols"), strSeq(e.symbols))

	if e.def != "" {
		m.Content = append(m.Content, strNode("default"), strNode(e.def))
	}

	e.props.appendTo(m)

	return m
}
