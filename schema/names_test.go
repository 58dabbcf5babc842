package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamesRegister(t *testing.T) {
	names := NewNames()

	require.NoError(t, names.Register(NewRecord(NewName("User", "com.acme"))))
	require.NoError(t, names.Register(NewRecord(NewName("User", "com.other"))))

	err := names.Register(NewRecord(NewName("com.acme.User", "ignored")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateName))

	err = names.Register(NewRecord(NewName("int", "")))
	assert.True(t, errors.Is(err, ErrDuplicateName), "primitive names are reserved")

	assert.Equal(t, []string{"com.acme.User", "com.other.User"}, names.FullNames())
}

func TestNamesResolve(t *testing.T) {
	names := NewNames()
	local := NewRecord(NewName("Item", "shop"))
	global := NewRecord(NewName("Money", ""))

	require.NoError(t, names.Register(local))
	require.NoError(t, names.Register(global))

	tests := []struct {
		name      string
		ref       string
		namespace string
		want      NamedSchema
	}{
		{name: "simple in namespace", ref: "Item", namespace: "shop", want: local},
		{name: "qualified", ref: "shop.Item", namespace: "elsewhere", want: local},
		{name: "null namespace fallback", ref: "Money", namespace: "shop", want: global},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := names.Resolve(tt.ref, tt.namespace)
			require.NoError(t, err)
			assert.Same(t, tt.want, got)
		})
	}

	_, err := names.Resolve("Itme", "shop")
	require.Error(t, err)

	var unknown *UnknownNameError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "shop.Itme", unknown.Name)
	assert.Equal(t, []string{"shop.Item"}, unknown.Suggestions)
	assert.Contains(t, err.Error(), "did you mean shop.Item?")
}

func TestRefResolvesLate(t *testing.T) {
	names := NewNames()
	ref := names.reference("Later", "ns", "$.fields[0].type")

	assert.Nil(t, ref.Target())
	assert.Equal(t, "ns.Later", ref.FullName())
	assert.Panics(t, func() { ref.Kind() })

	err := names.Check()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownName))

	later, err := NewFixed(NewName("Later", "ns"), 8)
	require.NoError(t, err)
	require.NoError(t, names.Register(later))

	require.NoError(t, names.Check())
	assert.Same(t, later, ref.Target())
	assert.Equal(t, KindFixed, ref.Kind())
	assert.True(t, Equal(ref, later))
	assert.Equal(t, Hash(later), Hash(ref))
}

func TestRefNotRebound(t *testing.T) {
	text := `{"type": "record", "name": "R", "namespace": "a", "fields": [
		{"name": "global", "type": {"type": "record", "name": "Foo", "namespace": "", "fields": []}},
		{"name": "first", "type": "Foo"},
		{"name": "local", "type": {"type": "enum", "name": "Foo", "symbols": ["X"]}},
		{"name": "second", "type": "Foo"}]}`

	rec := mustRecord(t, mustParse(t, text, StrictParseConfig()))

	first := deref(rec.Field("first").Schema())
	assert.Equal(t, KindRecord, first.Kind())
	assert.Equal(t, "Foo", first.(NamedSchema).FullName())

	second := deref(rec.Field("second").Schema())
	assert.Equal(t, KindEnum, second.Kind())
	assert.Equal(t, "a.Foo", second.(NamedSchema).FullName())
}

func TestRefBoundByCheck(t *testing.T) {
	names := NewNames()
	ref := names.reference("Foo", "a", "$.fields[0].type")

	global := NewRecord(NewName("Foo", ""))
	require.NoError(t, names.Register(global))
	require.NoError(t, names.Check())

	require.NoError(t, names.Register(NewRecord(NewName("Foo", "a"))))
	assert.Same(t, global, ref.Target())
	assert.Equal(t, "Foo", ref.FullName())
}

func TestUnresolvedRefDoesNotPanic(t *testing.T) {
	names := NewNames()
	rec := NewRecord(NewName("R", ""))
	require.NoError(t, rec.SetFields([]*Field{NewField("f", names.Ref("missing.X"))}))

	other := NewRecord(NewName("R", ""))
	require.NoError(t, other.SetFields([]*Field{NewField("f", Int)}))

	assert.NotPanics(t, func() {
		assert.False(t, Equal(rec, other))
		assert.False(t, Equal(other, rec))
		assert.NotEqual(t, Hash(rec), Hash(other))
		assert.False(t, CanRead(rec, other))
		assert.False(t, CanRead(other, rec))
	})

	diags := Explain(rec, other)
	require.True(t, diags.HasErrors())
	assert.Equal(t, "unresolved_reference", diags.Errors[0].Code)
	assert.Equal(t, "R.f", diags.Errors[0].FieldPath)

	ref := names.Ref("missing.X")
	assert.True(t, Equal(ref, ref))
	assert.Equal(t, uint64(0), Hash(ref))
	assert.False(t, CanRead(ref, ref))
}
