// Package tree projects ir values into lightweight view nodes for
// tree display: type, preview, and child count, addressed by JSON
// Pointer. Nodes are recomputed from the live document on every call
// and never cached.
package tree

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/snappyview/snappy/ir"
)

// PreviewLimit is the character budget for string previews.
const PreviewLimit = 120

var ErrInvalidPointer = errors.New("invalid pointer")

// Node is the view-only summary of one JSON value. Field names are
// part of the wire contract.
type Node struct {
	Pointer     string  `json:"pointer"`
	Key         *string `json:"key"`
	ValueType   string  `json:"value_type"`
	HasChildren bool    `json:"has_children"`
	ChildCount  int     `json:"child_count"`
	Preview     string  `json:"preview"`
}

// Truncate cuts s at max runes, marking the cut with an ellipsis.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

func preview(v *ir.Node) string {
	switch v.Type {
	case ir.ObjectType:
		if len(v.Values) == 0 {
			return "{} 0 keys"
		}
		return fmt.Sprintf("{…} %d keys", len(v.Values))
	case ir.ArrayType:
		if len(v.Values) == 0 {
			return "[] 0 items"
		}
		return fmt.Sprintf("[…] %d items", len(v.Values))
	case ir.StringType:
		return Truncate(v.String, PreviewLimit)
	case ir.NumberType:
		return v.NumberText()
	case ir.BoolType:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return "null"
	}
}

// Summarize builds the view node for v as the child of parentPtr under
// the given raw key (object key or decimal index). A nil key denotes
// the value at parentPtr itself.
func Summarize(parentPtr string, key *string, v *ir.Node) Node {
	pointer := parentPtr
	if key != nil {
		pointer = ir.AppendPointer(parentPtr, *key)
	}
	return Node{
		Pointer:     pointer,
		Key:         key,
		ValueType:   v.Type.String(),
		HasChildren: len(v.Values) > 0,
		ChildCount:  len(v.Values),
		Preview:     preview(v),
	}
}

// ForPointer builds the view node for the value already known to live
// at pointer. The key is derived from the pointer's last segment.
func ForPointer(v *ir.Node, pointer string) Node {
	var key *string
	if pointer != "" {
		k := ir.LastToken(pointer)
		key = &k
	}
	return Node{
		Pointer:     pointer,
		Key:         key,
		ValueType:   v.Type.String(),
		HasChildren: len(v.Values) > 0,
		ChildCount:  len(v.Values),
		Preview:     preview(v),
	}
}

// Children returns up to limit child nodes of the value at pointer,
/// starting at offset, in member/index order. It is total: an
// unresolvable pointer degrades to the root, and scalars or
// out-of-range windows yield an empty slice.
func Children(root *ir.Node, pointer string, offset, limit int) []Node {
	target, ok := ir.Resolve(root, pointer)
	if !ok {
		target = root
		pointer = ""
	}
	if target.Type.IsLeaf() || offset < 0 || limit <= 0 || offset >= len(target.Values) {
		return []Node{}
	}
	end := offset + limit
	if end > len(target.Values) {
		end = len(target.Values)
	}
	res := make([]Node, 0, end-offset)
	for i := offset; i < end; i++ {
		var key string
		if target.Type == ir.ObjectType {
			key = target.Keys[i]
		} else {
			key = strconv.Itoa(i)
		}
		res = append(res, Summarize(pointer, &key, target.Values[i]))
	}
	return res
}

// BuildNode re-projects the value at pointer, reporting unresolvable
// pointers as errors. Used to return fresh nodes after mutation.
func BuildNode(root *ir.Node, pointer string) (Node, error) {
	v, ok := ir.Resolve(root, pointer)
	if !ok {
		return Node{}, ErrInvalidPointer
	}
	return ForPointer(v, pointer), nil
}
