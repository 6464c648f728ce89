package doc

import (
	"testing"

	"github.com/snappyview/snappy/ir"
)

func TestForWriteUnshared(t *testing.T) {
	d := New(ir.FromString("x"))
	if w := d.ForWrite(); w != d {
		t.Error("unshared document should be writable in place")
	}
}

func TestForWriteSharedClones(t *testing.T) {
	root := ir.NewObject()
	root.Append("a", ir.FromInt(1))
	d := New(root)

	snap := d.Retain()
	w := d.ForWrite()
	if w == d {
		t.Fatal("shared document must be cloned for write")
	}

	// Mutating the clone leaves the snapshot's view intact.
	n, _ := ir.Resolve(w.Root(), "/a")
	n.Set(ir.FromInt(2))
	old, _ := ir.Resolve(snap.Root(), "/a")
	if old.Int64 == nil || *old.Int64 != 1 {
		t.Error("snapshot saw the mutation")
	}
	snap.Release()
}

func TestReleaseAfterRetain(t *testing.T) {
	d := New(ir.Null())
	s := d.Retain()
	s.Release()
	if w := d.ForWrite(); w != d {
		t.Error("after release, document is unshared again")
	}
}
