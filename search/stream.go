package search

import (
	"strconv"
	"strings"
	"time"

	"github.com/snappyview/snappy/ir"
	"github.com/snappyview/snappy/tree"
)

// BatchSize is the number of results per streamed batch.
const BatchSize = 10

// Batch is one incremental slice of streaming results.
type Batch struct {
	ID         uint64   `json:"id"`
	Batch      []Result `json:"batch"`
	TotalSoFar int      `json:"total_so_far"`
	ElapsedMS  int64    `json:"elapsed_ms"`
}

// Done is the terminal event of one streaming search.
type Done struct {
	ID        uint64 `json:"id"`
	Total     int    `json:"total"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

// Stream traverses root with an explicit work stack, emitting a batch
// every BatchSize results and one Done event at the end. It runs to
// completion: there is no cancellation primitive, and concurrent
// streams are distinguished only by their ids. Batch boundaries are
// purely count-driven, so one object's entries may span batches.
func Stream(root *ir.Node, id uint64, query string, f Flags, emitBatch func(Batch), emitDone func(Done)) {
	start := time.Now()
	m := NewMatcher(query, f)

	type item struct {
		v       *ir.Node
		pointer string
	}
	stack := []item{{v: root, pointer: ""}}

	totalSoFar := 0
	batch := make([]Result, 0, BatchSize)
	flush := func() {
		totalSoFar += len(batch)
		emitBatch(Batch{
			ID:         id,
			Batch:      batch,
			TotalSoFar: totalSoFar,
			ElapsedMS:  time.Since(start).Milliseconds(),
		})
		batch = make([]Result, 0, BatchSize)
	}
	push := func(r Result) {
		batch = append(batch, r)
		if len(batch) >= BatchSize {
			flush()
		}
	}

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		v, pointer := it.v, it.pointer

		if f.Paths && m.Match(pointer) {
			push(Result{
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
					push(Result{
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
							push(Result{
								Node:      tree.Summarize(pointer, &k, child),
								MatchType: matchValue,
								MatchText: text,
								Context:   &ctx,
							})
						}
					}
				} else if !child.Type.IsLeaf() {
					stack = append(stack, item{v: child, pointer: ir.AppendPointer(pointer, key)})
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
							push(Result{
								Node:      tree.Summarize(pointer, &k, child),
								MatchType: matchValue,
								MatchText: text,
								Context:   &ctx,
							})
						}
					}
				} else if !child.Type.IsLeaf() {
					stack = append(stack, item{v: child, pointer: ir.AppendIndex(pointer, i)})
				}
			}
		}
	}

	if len(batch) > 0 {
		flush()
	}
	emitDone(Done{
		ID:        id,
		Total:     totalSoFar,
		ElapsedMS: time.Since(start).Milliseconds(),
	})
}

// EmptyQuery reports whether a query is empty for search purposes.
// Bulk treats it as a zero-result response; streaming refuses to run.
func EmptyQuery(query string) bool {
	return strings.TrimSpace(query) == ""
}
