// Package mutate implements in-place edits of a document tree. Every
// operation validates before it assigns, so a failed edit leaves the
// tree exactly as it was.
package mutate

import (
	"errors"
	"fmt"
	"strings"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/snappyview/snappy/encode"
	"github.com/snappyview/snappy/ir"
	"github.com/snappyview/snappy/parse"
)

var (
	ErrInvalidPointer = errors.New("invalid pointer")
	ErrBadNumber      = errors.New("invalid number literal")
	ErrBadBool        = errors.New("invalid boolean (expected true/false)")
	ErrEditNull       = errors.New("editing null not supported")
	ErrEditComposite  = errors.New("editing non-scalar value not supported")
	ErrTypeChange     = errors.New("type change not allowed (must remain object/array)")
)

// SetScalar replaces the scalar at pointer with a value parsed from
// newText according to the scalar's current kind. Strings take the
// text verbatim, numbers re-parse the literal, booleans accept
// true/false in any case. Null and composite targets are rejected.
func SetScalar(root *ir.Node, pointer, newText string) error {
	n, ok := ir.Resolve(root, pointer)
	if !ok {
		return ErrInvalidPointer
	}
	switch n.Type {
	case ir.StringType:
		n.Set(ir.FromString(newText))
	case ir.NumberType:
		v, ok := ir.FromNumberLit(newText)
		if !ok {
			return fmt.Errorf("%w: %q", ErrBadNumber, newText)
		}
		n.Set(v)
	case ir.BoolType:
		switch strings.ToLower(newText) {
		case "true":
			n.Set(ir.FromBool(true))
		case "false":
			n.Set(ir.FromBool(false))
		default:
			return fmt.Errorf("%w: %q", ErrBadBool, newText)
		}
	case ir.NullType:
		return ErrEditNull
	default:
		return ErrEditComposite
	}
	return nil
}

// SetSubtree replaces the object or array at pointer with the parse of
// newJSONText. The replacement must have the same kind as the current
// value, an object stays an object and an array stays an array.
func SetSubtree(root *ir.Node, pointer, newJSONText string) error {
	n, ok := ir.Resolve(root, pointer)
	if !ok {
		return ErrInvalidPointer
	}
	if n.Type != ir.ObjectType && n.Type != ir.ArrayType {
		return errors.New("current value is not an object or array")
	}
	v, err := parse.Parse([]byte(newJSONText))
	if err != nil {
		return fmt.Errorf("edited subtree must be an object or array: %w", err)
	}
	if v.Type != n.Type {
		return ErrTypeChange
	}
	n.Set(v)
	return nil
}

// PromoteString parses the string at pointer as embedded JSON and
// replaces the string node with the parsed object or array. The text
// must syntactically look like one before the parse is attempted.
func PromoteString(root *ir.Node, pointer string) error {
	n, ok := ir.Resolve(root, pointer)
	if !ok {
		return ErrInvalidPointer
	}
	if n.Type != ir.StringType {
		return errors.New("target node is not a string")
	}
	trimmed := strings.TrimSpace(n.String)
	looksObject := strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")
	looksArray := strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")
	if !looksObject && !looksArray {
		return errors.New("string does not look like a JSON object/array")
	}
	v, err := parse.Parse([]byte(trimmed))
	if err != nil {
		return fmt.Errorf("embedded JSON: %w", err)
	}
	if v.Type != ir.ObjectType && v.Type != ir.ArrayType {
		return errors.New("parsed value is not an object/array")
	}
	n.Set(v)
	return nil
}

// ApplyPatch applies an RFC 6902 patch document to root and returns
// the patched tree. The input tree is not modified.
func ApplyPatch(root *ir.Node, patchJSON []byte) (*ir.Node, error) {
	p, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return nil, fmt.Errorf("decoding patch: %w", err)
	}
	src, err := encode.Marshal(root)
	if err != nil {
		return nil, err
	}
	out, err := p.Apply(src)
	if err != nil {
		return nil, fmt.Errorf("applying patch: %w", err)
	}
	patched, err := parse.Parse(out)
	if err != nil {
		return nil, fmt.Errorf("patched document: %w", err)
	}
	return patched, nil
}

// DiffPreview renders a unified-patch style textual diff between the
// subtrees a and b, both pretty printed with two-space indentation.
func DiffPreview(a, b *ir.Node) (string, error) {
	at, err := encode.MarshalIndent(a, "  ")
	if err != nil {
		return "", err
	}
	bt, err := encode.MarshalIndent(b, "  ")
	if err != nil {
		return "", err
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(at), string(bt), false)
	patches := dmp.PatchMake(string(at), diffs)
	return dmp.PatchToText(patches), nil
}
