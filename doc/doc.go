// Package doc manages the lifetime of the loaded JSON document.
//
// A Document is read-mostly: navigation and search retain a snapshot,
// traverse it on background goroutines, and release it when done.
// Mutation goes through ForWrite, which clones the tree only when a
// snapshot is still outstanding, so in-flight traversals keep seeing
// the version they started with.
package doc

import (
	"sync/atomic"

	"github.com/snappyview/snappy/ir"
)

type Document struct {
	root *ir.Node

	// refs counts the holders of this tree: the current owner plus any
	// outstanding snapshots.
	refs atomic.Int64
}

// New creates a Document owning root. The caller holds the initial
// reference.
func New(root *ir.Node) *Document {
	d := &Document{root: root}
	d.refs.Store(1)
	return d
}

func (d *Document) Root() *ir.Node {
	return d.root
}

// Retain takes a snapshot reference for background traversal. Pair
// with Release.
func (d *Document) Retain() *Document {
	d.refs.Add(1)
	return d
}

func (d *Document) Release() {
	if d.refs.Add(-1) < 0 {
		panic("doc: release without retain")
	}
}

// ForWrite returns a document whose tree is safe to mutate in place:
// the receiver itself when no snapshot is outstanding, otherwise a
// fresh clone. The caller must hold the exclusive document lock so no
// new snapshot can be taken during the check; a concurrently released
// snapshot only makes the clone unnecessary, never unsafe.
func (d *Document) ForWrite() *Document {
	if d.refs.Load() == 1 {
		return d
	}
	return New(d.root.Clone())
}
