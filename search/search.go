// Package search finds matches over keys, scalar values, and pointer
// paths of a document, in bulk (collect then paginate) or streaming
// (bounded batches emitted during traversal) mode.
//
// Both modes share one traversal semantics so their totals agree:
// paths are checked once per composite node before descent (the root
// included), keys once per object entry, and values only for scalar
// entries and elements. Composite children are always recursed into,
// whatever the value flag says.
package search

import (
	"strconv"
	"strings"

	"github.com/snappyview/snappy/ir"
	"github.com/snappyview/snappy/tree"
)

// Result is one search match. Field names are wire contract.
type Result struct {
	Node      tree.Node `json:"node"`
	MatchType string    `json:"match_type"`
	MatchText string    `json:"match_text"`
	Context   *string   `json:"context"`
}

// Response is the bulk search reply. TotalCount is exact: the full
// match set is collected before slicing.
type Response struct {
	Results    []Result `json:"results"`
	TotalCount int      `json:"total_count"`
	HasMore    bool     `json:"has_more"`
}

const (
	matchKey   = "key"
	matchValue = "value"
	matchPath  = "path"
)

// Bulk runs a complete recursive search and returns the
// [offset, offset+limit) window of the match set. An empty or
// whitespace-only query yields an empty zero-count response.
func Bulk(root *ir.Node, query string, f Flags, offset, limit int) Response {
	if strings.TrimSpace(query) == "" {
		return Response{Results: []Result{}}
	}
	m := NewMatcher(query, f)
	var collected []Result
	bulkVisit(root, "", m, f, &collected)

	total := len(collected)
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
	results := make([]Result, end-offset)
	copy(results, collected[offset:end])
	return Response{
		Results:    results,
		TotalCount: total,
		HasMore:    offset+limit < total,
	}
}

// bulkVisit handles one composite (or root) node: path check first,
// then its entries, recursing into composite children.
func bulkVisit(v *ir.Node, pointer string, m *Matcher, f Flags, out *[]Result) {
	if f.Paths && m.Match(pointer) {
		*out = append(*out, Result{
			Node:      tree.ForPointer(v, pointer),
			MatchType: matchPath,
			MatchText: pointer,
		})
	}
	switch v.Type {
	case ir.ObjectType:
		for i, key := range v.Keys {
			child := v.Values[i]
			if f.Keys && m.Match(key) {
				k := key
				*out = append(*out, Result{
					Node:      tree.Summarize(pointer, &k, child),
					MatchType: matchKey,
					MatchText: key,
				})
			}
			if child.Type.IsScalar() {
				if f.Values {
					text := scalarText(child)
					if m.Match(text) {
						k := key
						ctx := "in key: " + key
						*out = append(*out, Result{
							Node:      tree.Summarize(pointer, &k, child),
							MatchType: matchValue,
							MatchText: text,
							Context:   &ctx,
						})
					}
				}
			} else if !child.Type.IsLeaf() {
				bulkVisit(child, ir.AppendPointer(pointer, key), m, f, out)
			}
		}
	case ir.ArrayType:
		for i, child := range v.Values {
			if child.Type.IsScalar() {
				if f.Values {
					text := scalarText(child)
					if m.Match(text) {
						k := strconv.Itoa(i)
						ctx := "in index: " + k
						*out = append(*out, Result{
							Node:      tree.Summarize(pointer, &k, child),
							MatchType: matchValue,
							MatchText: text,
							Context:   &ctx,
						})
					}
				}
			} else if !child.Type.IsLeaf() {
				bulkVisit(child, ir.AppendIndex(pointer, i), m, f, out)
			}
		}
	}
}

func scalarText(v *ir.Node) string {
	switch v.Type {
	case ir.StringType:
		return v.String
	case ir.NumberType:
		return v.NumberText()
	case ir.BoolType:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
