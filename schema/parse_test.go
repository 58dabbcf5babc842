package schema

import (
	"errors"
	"sync"
	"testing"

	"github.com/guillefix/avro/projection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string, cfg ParseConfig) Schema {
	t.Helper()

	s, err := ParseWithConfig([]byte(text), cfg)
	require.NoError(t, err)

	return s
}

func mustRecord(t *testing.T, s Schema) *Record {
	t.Helper()

	rec, ok := deref(s).(*Record)
	require.True(t, ok, "expected a record, got %s", s.Kind())

	return rec
}

func branchKinds(s Schema) []Kind {
	u, ok := s.(*Union)
	if !ok {
		return []Kind{deref(s).Kind()}
	}

	out := make([]Kind, 0, len(u.branches))
	for _, b := range u.branches {
		out = append(out, deref(b).Kind())
	}

	return out
}

const userSchema = `{
  "type": "record",
  "name": "User",
  "namespace": "com.acme",
  "aliases": ["Person"],
  "doc": "A user",
  "owner": "identity",
  "fields": [
    {"name": "id", "type": "long", "doc": "primary key"},
    {"name": "name", "type": "string", "aliases": ["fullName"], "default": "anon"},
    {"name": "score", "type": "double", "order": "descending", "x-unit": "points"}
  ]
}`

func TestParseRecord(t *testing.T) {
	rec := mustRecord(t, mustParse(t, userSchema, StrictParseConfig()))

	assert.Equal(t, "com.acme.User", rec.FullName())
	assert.Equal(t, "User", rec.Name())
	assert.Equal(t, "com.acme", rec.Namespace())
	assert.Equal(t, []string{"com.acme.Person"}, rec.Aliases())
	assert.Equal(t, "A user", rec.Doc())
	assert.Equal(t, "identity", rec.Props().String("owner"))
	assert.False(t, rec.IsRequest())

	require.Equal(t, []string{"id", "name", "score"}, fieldNames(rec.Fields()))

	id := rec.Field("id")
	assert.Equal(t, KindLong, id.Schema().Kind())
	assert.Equal(t, "primary key", id.Doc())
	assert.False(t, id.HasDefault())

	name := rec.Field("name")
	assert.Equal(t, []string{"fullName"}, name.Aliases())
	require.True(t, name.HasDefault())
	assert.Equal(t, "anon", name.Default().Value)
	assert.Same(t, name, rec.FieldByAlias("fullName"))

	score := rec.Field("score")
	assert.Equal(t, Descending, score.Order())
	assert.Equal(t, 2, score.Pos())
	assert.Equal(t, "points", score.Props().String("x-unit"))
}

func TestParseImplicitNullable(t *testing.T) {
	tests := []struct {
		name     string
		typeNode string
		want     []Kind
	}{
		{name: "primitive", typeNode: `"int"`, want: []Kind{KindNull, KindInt}},
		{name: "null headed union", typeNode: `["null", "string"]`, want: []Kind{KindNull, KindString}},
		{name: "null last", typeNode: `["string", "null"]`, want: []Kind{KindNull, KindString}},
		{name: "no null", typeNode: `["string", "int"]`, want: []Kind{KindNull, KindString, KindInt}},
		{name: "null itself", typeNode: `"null"`, want: []Kind{KindNull}},
		{name: "array", typeNode: `{"type": "array", "items": "int"}`, want: []Kind{KindNull, KindArray}},
		{name: "wrapped null headed union", typeNode: `{"type": ["null", "int"]}`, want: []Kind{KindNull, KindInt}},
		{name: "wrapped union without null", typeNode: `{"type": ["int", "string"]}`, want: []Kind{KindNull, KindInt, KindString}},
		{name: "wrapped definition", typeNode: `{"type": {"type": "map", "values": "long"}}`, want: []Kind{KindNull, KindMap}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := `{"type": "record", "name": "R", "fields": [{"name": "f", "type": ` + tt.typeNode + `}]}`
			rec := mustRecord(t, mustParse(t, text, DefaultParseConfig()))

			assert.Equal(t, tt.want, branchKinds(rec.Field("f").Schema()))
		})
	}
}

func TestParseImplicitNullDefault(t *testing.T) {
	text := `{"type": "record", "name": "R", "fields": [
		{"name": "a", "type": "int"},
		{"name": "b", "type": "int", "default": 5},
		{"name": "c", "type": ["null", "int"], "default": null}
	]}`

	rec := mustRecord(t, mustParse(t, text, DefaultParseConfig()))
	require.True(t, rec.Field("a").HasDefault())
	assert.True(t, isNull(rec.Field("a").Default()))
	assert.Equal(t, "5", rec.Field("b").Default().Value)
	assert.True(t, isNull(rec.Field("c").Default()))

	strict := mustRecord(t, mustParse(t, text, StrictParseConfig()))
	assert.False(t, strict.Field("a").HasDefault())
	assert.Equal(t, KindInt, strict.Field("a").Schema().Kind())
	assert.True(t, strict.Field("c").HasDefault(), "explicit null is a present default")
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
		path string
	}{
		{
			name: "no field list",
			text: `{"type": "record", "name": "R"}`,
			path: "$",
		},
		{
			name: "fields and request",
			text: `{"type": "record", "name": "R", "fields": [], "request": []}`,
			path: "$",
		},
		{
			name: "fields not a list",
			text: `{"type": "record", "name": "R", "fields": {"name": "a"}}`,
			path: "$.fields",
		},
		{
			name: "field without name",
			text: `{"type": "record", "name": "R", "fields": [{"name": "a", "type": "int"}, {"type": "int"}]}`,
			path: "$.fields[1]",
		},
		{
			name: "field without type",
			text: `{"type": "record", "name": "R", "fields": [{"name": "a"}]}`,
			path: "$.fields[0]",
		},
		{
			name: "record without name",
			text: `{"type": "record", "fields": []}`,
			path: "$",
		},
		{
			name: "invalid order",
			text: `{"type": "record", "name": "R", "fields": [{"name": "a", "type": "int", "order": "up"}]}`,
			path: "$.fields[0].order",
		},
		{
			name: "nested union",
			text: `{"type": "record", "name": "R", "fields": [{"name": "a", "type": ["null", ["int", "long"]]}]}`,
			path: "$.fields[0].type",
		},
		{
			name: "enum without symbols",
			text: `{"type": "enum", "name": "E"}`,
			path: "$",
		},
		{
			name: "fixed with text size",
			text: `{"type": "fixed", "name": "F", "size": "four"}`,
			path: "$.size",
		},
		{
			name: "empty document",
			text: `   `,
			path: "$",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWithConfig([]byte(tt.text), StrictParseConfig())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedSchema), err.Error())

			var malformed *MalformedSchemaError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, tt.path, malformed.Path)
		})
	}
}

func TestParseMalformedReportsPosition(t *testing.T) {
	text := "type: record\nname: R\nfields:\n  - name: a\n    type: int\n  - type: int\n"

	_, err := ParseWithConfig([]byte(text), StrictParseConfig())

	var malformed *MalformedSchemaError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "$.fields[1]", malformed.Path)
	assert.Equal(t, 6, malformed.Line)
}

func TestParseDuplicateNames(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "field name",
			text: `{"type": "record", "name": "R", "fields": [{"name": "a", "type": "int"}, {"name": "a", "type": "long"}]}`,
		},
		{
			name: "field alias",
			text: `{"type": "record", "name": "R", "fields": [
				{"name": "a", "type": "int"},
				{"name": "b", "type": "long", "aliases": ["a"]}]}`,
		},
		{
			name: "named type redefined",
			text: `{"type": "record", "name": "R", "fields": [
				{"name": "a", "type": {"type": "fixed", "name": "F", "size": 2}},
				{"name": "b", "type": {"type": "fixed", "name": "F", "size": 4}}]}`,
		},
		{
			name: "record redefines itself",
			text: `{"type": "record", "name": "R", "fields": [
				{"name": "a", "type": {"type": "record", "name": "R", "fields": []}}]}`,
		},
		{
			name: "union branches",
			text: `{"type": "record", "name": "R", "fields": [{"name": "a", "type": ["int", "int"]}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWithConfig([]byte(tt.text), StrictParseConfig())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDuplicateName), err.Error())
		})
	}
}

func TestParseUnknownName(t *testing.T) {
	text := `{"type": "record", "name": "User", "namespace": "com.acme", "fields": [
		{"name": "home", "type": {"type": "record", "name": "Address", "fields": []}},
		{"name": "work", "type": "Adress"}
	]}`

	_, err := ParseWithConfig([]byte(text), StrictParseConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownName))

	var unknown *UnknownNameError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "com.acme.Adress", unknown.Name)
	assert.Equal(t, "$.fields[1].type", unknown.Path)
	assert.Contains(t, unknown.Suggestions, "com.acme.Address")
}

func TestParseSelfReference(t *testing.T) {
	text := `{"type": "record", "name": "LinkedList", "fields": [
		{"name": "value", "type": "int"},
		{"name": "next", "type": ["null", "LinkedList"]}
	]}`

	rec := mustRecord(t, mustParse(t, text, StrictParseConfig()))

	next, ok := rec.Field("next").Schema().(*Union)
	require.True(t, ok)

	ref, ok := next.Branches()[1].(*Ref)
	require.True(t, ok)
	assert.Equal(t, "LinkedList", ref.FullName())
	assert.Same(t, rec, ref.Target())
}

func TestParseForwardReference(t *testing.T) {
	text := `{"type": "record", "name": "R", "namespace": "n", "fields": [
		{"name": "first", "type": "Later"},
		{"name": "second", "type": {"type": "enum", "name": "Later", "symbols": ["A", "B"]}}
	]}`

	rec := mustRecord(t, mustParse(t, text, StrictParseConfig()))

	first := deref(rec.Field("first").Schema())
	e, ok := first.(*Enum)
	require.True(t, ok)
	assert.Equal(t, "n.Later", e.FullName())
	assert.Equal(t, []string{"A", "B"}, e.Symbols())
}

func TestParseNamespaceInheritance(t *testing.T) {
	text := `{"type": "record", "name": "Outer", "namespace": "a", "fields": [
		{"name": "in", "type": {"type": "record", "name": "Inner", "fields": []}},
		{"name": "other", "type": {"type": "record", "name": "Other", "namespace": "b", "fields": [
			{"name": "deep", "type": {"type": "fixed", "name": "Hash", "size": 16}}
		]}},
		{"name": "root", "type": {"type": "record", "name": "Root", "namespace": "", "fields": []}}
	]}`

	names := NewNames()
	node, err := decodeNode([]byte(text))
	require.NoError(t, err)

	_, err = ParseNode(node, names, StrictParseConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"a.Outer", "a.Inner", "b.Other", "b.Hash", "Root"}, names.FullNames())
}

func TestParseRequest(t *testing.T) {
	text := `{"type": "record", "request": [{"name": "id", "type": "long"}, {"name": "q", "type": "string"}]}`

	rec := mustRecord(t, mustParse(t, text, StrictParseConfig()))
	assert.True(t, rec.IsRequest())
	assert.Empty(t, rec.FullName())
	assert.Equal(t, []string{"id", "q"}, fieldNames(rec.Fields()))
}

func TestParseKinds(t *testing.T) {
	text := `{"type": "record", "name": "R", "fields": [
		{"name": "e", "type": {"type": "enum", "name": "Suit", "symbols": ["HEART", "SPADE"], "default": "HEART"}},
		{"name": "f", "type": {"type": "fixed", "name": "MD5", "size": 16}},
		{"name": "a", "type": {"type": "array", "items": "Suit"}},
		{"name": "m", "type": {"type": "map", "values": {"type": "long"}}},
		{"name": "p", "type": {"type": "string", "avro.java.string": "String"}},
		{"name": "n", "type": "null"}
	]}`

	rec := mustRecord(t, mustParse(t, text, StrictParseConfig()))

	e := rec.Field("e").Schema().(*Enum)
	assert.Equal(t, "HEART", e.Default())

	assert.Equal(t, 16, rec.Field("f").Schema().(*Fixed).Size())

	arr := rec.Field("a").Schema().(*Array)
	assert.Same(t, e, deref(arr.Items()))

	m := rec.Field("m").Schema().(*Map)
	assert.Same(t, Long, m.Values())

	p := rec.Field("p").Schema().(*Primitive)
	assert.Equal(t, KindString, p.Kind())
	assert.Equal(t, "String", p.Props().String("avro.java.string"))

	assert.Same(t, Null, rec.Field("n").Schema())
}

func TestParseLogicalTypes(t *testing.T) {
	tests := []struct {
		name        string
		typeNode    string
		logical     string
		underlying  Kind
		wantLogical bool
	}{
		{
			name:        "timestamp",
			typeNode:    `{"type": "long", "logicalType": "timestamp-millis"}`,
			logical:     LogicalTimestampMillis,
			underlying:  KindLong,
			wantLogical: true,
		},
		{
			name:        "decimal bytes",
			typeNode:    `{"type": "bytes", "logicalType": "decimal", "precision": 4, "scale": 2}`,
			logical:     LogicalDecimal,
			underlying:  KindBytes,
			wantLogical: true,
		},
		{
			name:        "decimal fixed",
			typeNode:    `{"type": "fixed", "name": "Money", "size": 8, "logicalType": "decimal", "precision": 18}`,
			logical:     LogicalDecimal,
			underlying:  KindFixed,
			wantLogical: true,
		},
		{
			name:        "custom name kept",
			typeNode:    `{"type": "string", "logicalType": "email"}`,
			logical:     "email",
			underlying:  KindString,
			wantLogical: true,
		},
		{
			name:       "decimal without precision",
			typeNode:   `{"type": "bytes", "logicalType": "decimal"}`,
			underlying: KindBytes,
		},
		{
			name:       "uuid on int",
			typeNode:   `{"type": "int", "logicalType": "uuid"}`,
			underlying: KindInt,
		},
		{
			name:       "fixed too small for precision",
			typeNode:   `{"type": "fixed", "name": "Tiny", "size": 1, "logicalType": "decimal", "precision": 5}`,
			underlying: KindFixed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := `{"type": "record", "name": "R", "fields": [{"name": "f", "type": ` + tt.typeNode + `}]}`
			rec := mustRecord(t, mustParse(t, text, StrictParseConfig()))
			s := rec.Field("f").Schema()

			if !tt.wantLogical {
				assert.Equal(t, tt.underlying, s.Kind())
				assert.NotEmpty(t, propsLogical(s), "rejected annotation is kept as a property")

				return
			}

			l, ok := s.(*Logical)
			require.True(t, ok, "got %s", s.Kind())
			assert.Equal(t, tt.logical, l.LogicalType())
			assert.Equal(t, tt.underlying, deref(l.Underlying()).Kind())
		})
	}
}

// propsLogical returns the logicalType property kept on an unannotated schema.
func propsLogical(s Schema) string {
	type propped interface{ Props() Props }

	if p, ok := s.(propped); ok {
		return p.Props().String("logicalType")
	}

	return ""
}

func TestParseYAML(t *testing.T) {
	yamlText := `
type: record
name: User
namespace: com.acme
aliases: [Person]
doc: A user
owner: identity
fields:
  - name: id
    type: long
    doc: primary key
  - name: name
    type: string
    aliases: [fullName]
    default: anon
  - name: score
    type: double
    order: descending
    x-unit: points
`

	fromJSON := mustParse(t, userSchema, StrictParseConfig())
	fromYAML := mustParse(t, yamlText, StrictParseConfig())

	assert.True(t, Equal(fromJSON, fromYAML))
	assert.Equal(t, Hash(fromJSON), Hash(fromYAML))
}

func TestParseJSONWithRepeatedKeys(t *testing.T) {
	text := `{"type": "record", "name": "R", "doc": "first", "doc": "second",
		"fields": [{"name": "a", "type": "int"}]}`

	rec := mustRecord(t, mustParse(t, text, StrictParseConfig()))
	assert.Equal(t, "first", rec.Doc())
	assert.Equal(t, []string{"a"}, fieldNames(rec.Fields()))
}

func TestParseProjection(t *testing.T) {
	text := `{"type": "record", "name": "b", "namespace": "a", "fields": [
		{"name": "x", "type": "int"},
		{"name": "y", "type": "string"}
	]}`

	tests := []struct {
		name      string
		paths     []string
		want      []string
		positions []int
	}{
		{name: "no projection", paths: nil, want: []string{"x", "y"}, positions: []int{0, 1}},
		{name: "record path", paths: []string{"a.b"}, want: []string{"x", "y"}, positions: []int{0, 1}},
		{name: "single field", paths: []string{"a.b.x"}, want: []string{"x"}, positions: []int{0}},
		{name: "second field", paths: []string{"a.b.y"}, want: []string{"y"}, positions: []int{0}},
		{name: "ancestor", paths: []string{"a"}, want: []string{"x", "y"}, positions: []int{0, 1}},
		{name: "unrelated", paths: []string{"a.c"}, want: []string{}, positions: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultParseConfig()
			cfg.Projection = tt.paths

			rec := mustRecord(t, mustParse(t, text, cfg))

			fields := rec.Fields()
			assert.Equal(t, tt.want, fieldNames(fields))

			positions := make([]int, len(fields))
			for i, f := range fields {
				positions[i] = f.Pos()
			}

			assert.Equal(t, tt.positions, positions)
		})
	}
}

func TestParseProjectionNested(t *testing.T) {
	text := `{"type": "record", "name": "b", "namespace": "a", "fields": [
		{"name": "x", "type": {"type": "record", "name": "Point", "fields": [
			{"name": "lat", "type": "double"},
			{"name": "lon", "type": "double"}
		]}},
		{"name": "y", "type": "string"}
	]}`

	cfg := StrictParseConfig()
	cfg.Projection = []string{"a.b.x.lon"}

	rec := mustRecord(t, mustParse(t, text, cfg))
	require.Equal(t, []string{"x"}, fieldNames(rec.Fields()))

	point := mustRecord(t, rec.Field("x").Schema())
	assert.Equal(t, []string{"lon"}, fieldNames(point.Fields()))
	assert.Equal(t, 0, point.Field("lon").Pos())
}

func TestParseProjectionNamespaced(t *testing.T) {
	text := `{"type": "record", "name": "Order", "namespace": "shop", "fields": [
		{"name": "lines", "type": {"type": "array", "items": {
			"type": "record", "name": "Line", "namespace": "shop.Order_element", "fields": [
				{"name": "sku", "type": "string"},
				{"name": "qty", "type": "int"}
			]}}},
		{"name": "note", "type": "string"}
	]}`

	cfg := StrictParseConfig()
	cfg.PathStrategy = projection.Namespaced{
		StripSuffixes: []string{"_element"},
		Transform:     projection.Lower,
	}
	cfg.Projection = []string{"shop.Order.lines", "shop.order.Line.qty"}

	rec := mustRecord(t, mustParse(t, text, cfg))
	require.Equal(t, []string{"lines"}, fieldNames(rec.Fields()))

	line := mustRecord(t, rec.Field("lines").Schema().(*Array).Items())
	assert.Equal(t, []string{"qty"}, fieldNames(line.Fields()))
}

func TestParseInvalidProjection(t *testing.T) {
	cfg := DefaultParseConfig()
	cfg.Projection = []string{"a..b"}

	_, err := ParseWithConfig([]byte(`"int"`), cfg)
	require.Error(t, err)
}

func TestParseConcurrent(t *testing.T) {
	text := `{"type": "record", "name": "Tree", "fields": [
		{"name": "value", "type": "int"},
		{"name": "children", "type": {"type": "array", "items": "Tree"}}
	]}`

	const workers = 8

	results := make([]Schema, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup

	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			results[i], errs[i] = Parse([]byte(text))
			if errs[i] == nil && !CanRead(results[i], results[i]) {
				errs[i] = errors.New("schema cannot read itself")
			}
		}()
	}

	wg.Wait()

	for i := range workers {
		require.NoError(t, errs[i])
		assert.True(t, Equal(results[0], results[i]))
	}
}
