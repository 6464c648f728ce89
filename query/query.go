// Package query answers read-only questions about a document tree
// beyond plain navigation: RFC 9535 JSONPath selection and predicate
// filtering of a node's children.
package query

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/expr-lang/expr"
	segjson "github.com/segmentio/encoding/json"
	"github.com/theory/jsonpath"

	"github.com/snappyview/snappy/ir"
	"github.com/snappyview/snappy/tree"
)

// JSONPath evaluates a JSONPath expression against root and returns
// the list of matched values encoded as a JSON array.
func JSONPath(root *ir.Node, expression string) ([]byte, error) {
	p, err := jsonpath.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("parsing jsonpath: %w", err)
	}
	matched := []any(p.Select(ir.ToAny(root)))
	if matched == nil {
		matched = []any{}
	}
	out, err := segjson.Marshal(matched)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FilterChildren evaluates a boolean expression against each direct
// child of the composite at pointer and returns the [offset,
// offset+limit) window of the children that satisfy it, along with
// the total match count. The expression sees three variables: key
// (object member name, "" for arrays), index (position), and value
// (the child as plain data).
func FilterChildren(root *ir.Node, pointer, expression string, offset, limit int) ([]tree.Node, int, error) {
	v, ok := ir.Resolve(root, pointer)
	if !ok {
		return nil, 0, errors.New("invalid pointer")
	}
	if v.Type != ir.ObjectType && v.Type != ir.ArrayType {
		return nil, 0, errors.New("node has no children to filter")
	}

	program, err := expr.Compile(expression,
		expr.Env(map[string]any{"key": "", "index": 0, "value": any(nil)}),
		expr.AsBool(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("compiling filter: %w", err)
	}

	var matched []tree.Node
	for i, child := range v.Values {
		key := ""
		if v.Type == ir.ObjectType {
			key = v.Keys[i]
		}
		env := map[string]any{
			"key":   key,
			"index": i,
			"value": ir.ToAny(child),
		}
		out, err := expr.Run(program, env)
		if err != nil {
			return nil, 0, fmt.Errorf("evaluating filter: %w", err)
		}
		if !out.(bool) {
			continue
		}
		label := key
		if v.Type == ir.ArrayType {
			label = strconv.Itoa(i)
		}
		matched = append(matched, tree.Summarize(pointer, &label, child))
	}

	total := len(matched)
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}
	end := offset + limit
	if offset > total {
		offset = total
	}
	if end > total {
		end = total
	}
	window := make([]tree.Node, end-offset)
	copy(window, matched[offset:end])
	return window, total, nil
}
