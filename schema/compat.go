package schema

import (
	"fmt"

	"github.com/guillefix/avro/internal/diagnostic"
	"github.com/guillefix/avro/internal/guard"
)

// resolver walks a reader/writer pair. With a diagnostics sink it keeps
// going after the first incompatibility and records every finding; without
// one it stops at the first.
type resolver struct {
	g     *guard.Pairs
	diags *diagnostic.Diagnostics
	pair  string
}

// read reports whether reader can decode data written with writer. A pair
// met again while it is still being resolved is assumed readable.
func (r *resolver) read(reader, writer Schema, path string) bool {
	reader, writer = deref(reader), deref(writer)
	if reader == nil || writer == nil {
		return false
	}

	for _, s := range []Schema{reader, writer} {
		if ref, ok := s.(*Ref); ok {
			r.fail(diagnostic.CodeUnresolved, fmt.Sprintf("reference %s is not resolved", ref.FullName()), path)
			return false
		}
	}

	return guard.Run(r.g, reader, writer, true, func() bool {
		return r.resolve(reader, writer, path)
	})
}

func (r *resolver) resolve(reader, writer Schema, path string) bool {
	if reader.Kind() != KindUnion {
		switch w := writer.(type) {
		case *Union:
			ok := true

			for _, b := range w.branches {
				if !r.read(reader, b, path) {
					ok = false

					if !r.explaining() {
						return false
					}
				}
			}

			return ok
		case *Logical:
			if reader.Kind() != KindLogical {
				return r.read(reader, w.underlying, path)
			}
		}
	}

	return reader.canRead(writer, r, path)
}

func (r *resolver) explaining() bool {
	return r.diags != nil
}

// quiet returns a resolver sharing the guard but recording nothing, for
// trial reads whose failures are not findings.
func (r *resolver) quiet() *resolver {
	return &resolver{g: r.g}
}

func (r *resolver) fail(code, msg, path string, suggestions ...string) {
	if r.diags != nil {
		r.diags.AddError(code, msg, r.pair, path, suggestions...)
	}
}

func (r *resolver) note(sev diagnostic.Severity, code, msg, path string) {
	if r.diags == nil {
		return
	}

	r.diags.Add(diagnostic.Diagnostic{
		Severity:   sev,
		Code:       code,
		Message:    msg,
		SchemaPair: r.pair,
		FieldPath:  path,
	})
}

// rootPath names the top of a field path.
func rootPath(s Schema) string {
	s = deref(s)
	if s == nil {
		return ""
	}

	if n, ok := s.(NamedSchema); ok && n.FullName() != "" {
		return n.FullName()
	}

	if ref, ok := s.(*Ref); ok {
		return ref.FullName()
	}

	return s.Kind().String()
}

// Explain resolves reader against writer like CanRead and returns every
// finding. The result is valid exactly when CanRead returns true.
func Explain(reader, writer Schema) *diagnostic.Diagnostics {
	r := &resolver{
		g:     guard.New(),
		diags: &diagnostic.Diagnostics{},
		pair:  rootPath(reader) + "<-" + rootPath(writer),
	}

	if !r.read(reader, writer, rootPath(reader)) && r.diags.IsValid() {
		r.diags.AddError(diagnostic.CodeKindMismatch, "schemas cannot be resolved", r.pair, rootPath(reader))
	}

	return r.diags
}
