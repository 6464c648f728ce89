package ir

import "fmt"

// Type identifies the kind of JSON value a Node holds.
type Type int

const (
	NullType Type = iota
	NumberType
	StringType
	BoolType
	ObjectType
	ArrayType
)

// String returns the wire name of the type, as reported in node
// projections ("object", "array", "string", "number", "boolean", "null").
func (t Type) String() string {
	s, ok := map[Type]string{
		ObjectType: "object",
		ArrayType:  "array",
		StringType: "string",
		NumberType: "number",
		BoolType:   "boolean",
		NullType:   "null",
	}[t]
	if ok {
		return s
	}
	return "<unknown type>"
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	tt, ok := map[string]Type{
		"null":    NullType,
		"boolean": BoolType,
		"number":  NumberType,
		"string":  StringType,
		"array":   ArrayType,
		"object":  ObjectType,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized type %q", d)
	}
	*t = tt
	return nil
}

func Types() []Type {
	return []Type{
		NullType,
		NumberType,
		StringType,
		BoolType,
		ObjectType,
		ArrayType,
	}
}

// IsLeaf reports whether the type carries no children.
func (t Type) IsLeaf() bool {
	switch t {
	case ObjectType, ArrayType:
		return false
	default:
		return true
	}
}

// IsScalar reports whether the type is a plain scalar value. Null is a
// leaf but not a scalar: it is neither editable nor value-searchable.
func (t Type) IsScalar() bool {
	switch t {
	case StringType, NumberType, BoolType:
		return true
	default:
		return false
	}
}
