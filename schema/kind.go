package schema

//go:generate go tool stringer -type=Kind -linecomment -output=kind_string.go

// Kind tags the closed set of schema kinds.
type Kind int

const (
	KindNull    Kind = iota // null
	KindBoolean             // boolean
	KindInt                 // int
	KindLong                // long
	KindFloat               // float
	KindDouble              // double
	KindBytes               // bytes
	KindString              // string
	KindRecord              // record
	KindEnum                // enum
	KindArray               // array
	KindMap                 // map
	KindUnion               // union
	KindFixed               // fixed
	KindError               // error
	KindLogical             // logical

	// KindTotal is the number of kinds defined.
	KindTotal = int(iota)
)

// IsPrimitive reports whether k is one of the eight primitive kinds.
func (k Kind) IsPrimitive() bool {
	return k >= KindNull && k <= KindString
}

// IsNamed reports whether schemas of kind k carry a full name.
func (k Kind) IsNamed() bool {
	switch k {
	case KindRecord, KindError, KindEnum, KindFixed:
		return true
	default:
		return false
	}
}

// IsRecord reports whether k is a record or error kind.
func (k Kind) IsRecord() bool {
	return k == KindRecord || k == KindError
}

// primitiveKind maps a primitive type name to its kind.
func primitiveKind(name string) (Kind, bool) {
	for k := KindNull; k <= KindString; k++ {
		if k.String() == name {
			return k, true
		}
	}

	return 0, false
}
