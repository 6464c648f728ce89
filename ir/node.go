// Package ir holds the in-memory representation of a JSON document.
//
// Unlike a map-based decoding, object members keep their insertion
// order: Keys and Values are parallel slices on object nodes. The tree
// is mutable in place, but documents shared across goroutines are
// cloned before mutation (see package doc).
package ir

import (
	"math"
	"strconv"
)

type Node struct {
	Type Type

	// Keys and Values are parallel for ObjectType; ArrayType uses
	// Values alone.
	Keys   []string
	Values []*Node

	String string // StringType

	// Number is the literal text of a NumberType value; exactly one of
	// Int64/Float64 is set alongside it.
	Number  string
	Int64   *int64
	Float64 *float64

	Bool bool
}

func Null() *Node {
	return &Node{Type: NullType}
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func FromInt(v int64) *Node {
	return &Node{
		Type:   NumberType,
		Number: strconv.FormatInt(v, 10),
		Int64:  &v,
	}
}

func FromFloat(f float64) *Node {
	return &Node{
		Type:    NumberType,
		Number:  strconv.FormatFloat(f, 'g', -1, 64),
		Float64: &f,
	}
}

// FromNumberLit builds a number from its literal text, preferring the
// integer reading. Non-finite results are rejected by the caller via
// the second return.
func FromNumberLit(lit string) (*Node, bool) {
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		n := FromInt(i)
		n.Number = lit
		return n, true
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, false
	}
	n := FromFloat(f)
	n.Number = lit
	return n, true
}

func FromBool(v bool) *Node {
	return &Node{Type: BoolType, Bool: v}
}

func NewObject() *Node {
	return &Node{Type: ObjectType}
}

func NewArray() *Node {
	return &Node{Type: ArrayType}
}

// Append adds an entry to an object or array. Object entries with a
// duplicate key are appended as-is; JSON permits duplicates and lookup
// takes the first.
func (n *Node) Append(key string, v *Node) {
	if n.Type == ObjectType {
		n.Keys = append(n.Keys, key)
	}
	n.Values = append(n.Values, v)
}

// Get returns the value of the first object member with the given key.
func (n *Node) Get(key string) (*Node, bool) {
	if n.Type != ObjectType {
		return nil, false
	}
	for i, k := range n.Keys {
		if k == key {
			return n.Values[i], true
		}
	}
	return nil, false
}

// ChildCount returns the number of members or elements; zero for leafs.
func (n *Node) ChildCount() int {
	return len(n.Values)
}

// NumberText returns the canonical text of a number value.
func (n *Node) NumberText() string {
	if n.Number != "" {
		return n.Number
	}
	if n.Int64 != nil {
		return strconv.FormatInt(*n.Int64, 10)
	}
	if n.Float64 != nil {
		return strconv.FormatFloat(*n.Float64, 'g', -1, 64)
	}
	return "0"
}

func (n *Node) Clone() *Node {
	res := &Node{}
	n.CloneTo(res)
	return res
}

func (n *Node) CloneTo(dst *Node) {
	dst.Type = n.Type
	dst.String = n.String
	dst.Number = n.Number
	dst.Bool = n.Bool
	if n.Int64 != nil {
		i := *n.Int64
		dst.Int64 = &i
	}
	if n.Float64 != nil {
		f := *n.Float64
		dst.Float64 = &f
	}
	if n.Keys != nil {
		dst.Keys = make([]string, len(n.Keys))
		copy(dst.Keys, n.Keys)
	}
	if n.Values != nil {
		dst.Values = make([]*Node, len(n.Values))
		for i, v := range n.Values {
			c := &Node{}
			v.CloneTo(c)
			dst.Values[i] = c
		}
	}
}

// Set overwrites the receiver with the content of src. It is the
// single-walk mutation primitive: resolve once, then Set on the
// returned handle.
func (n *Node) Set(src *Node) {
	*n = *src
}

// ToAny converts the tree to plain Go values (map/slice/scalars) for
// consumers that do not care about member order, such as JSONPath and
// expression evaluation. Numbers become int64 or float64.
func ToAny(n *Node) any {
	switch n.Type {
	case ObjectType:
		res := make(map[string]any, len(n.Keys))
		for i, k := range n.Keys {
			res[k] = ToAny(n.Values[i])
		}
		return res
	case ArrayType:
		res := make([]any, len(n.Values))
		for i, v := range n.Values {
			res[i] = ToAny(v)
		}
		return res
	case StringType:
		return n.String
	case NumberType:
		if n.Int64 != nil {
			return *n.Int64
		}
		if n.Float64 != nil {
			return *n.Float64
		}
		return n.Number
	case BoolType:
		return n.Bool
	case NullType:
		return nil
	default:
		panic("impossible production")
	}
}
