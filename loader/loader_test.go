package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/snappyview/snappy/ir"
)

func TestLoadReaderProgress(t *testing.T) {
	// 3 MiB of JSON: progress must be reported at least every MiB plus
	// once at end of stream.
	var sb strings.Builder
	sb.WriteString(`{"blob":"`)
	sb.WriteString(strings.Repeat("a", 3*emitEvery))
	sb.WriteString(`"}`)
	in := sb.String()

	var events []Progress
	root, err := LoadReader(strings.NewReader(in), "mem.json", int64(len(in)), nil, func(p Progress) {
		events = append(events, p)
	})
	if err != nil {
		t.Fatal(err)
	}
	if root.Type != ir.ObjectType {
		t.Fatalf("root type %s", root.Type)
	}
	if len(events) < 3 {
		t.Fatalf("got %d progress events", len(events))
	}
	last := events[len(events)-1]
	if !last.Done || last.Canceled {
		t.Errorf("final event = %+v", last)
	}
	if last.ReadBytes != int64(len(in)) {
		t.Errorf("readBytes = %d, want %d", last.ReadBytes, len(in))
	}
	if last.Percent < 99.9 || last.Percent > 100.1 {
		t.Errorf("percent = %f", last.Percent)
	}
	for i := 1; i < len(events); i++ {
		if events[i].ReadBytes < events[i-1].ReadBytes {
			t.Error("progress went backwards")
		}
	}
}

func TestLoadReaderUnknownTotal(t *testing.T) {
	var events []Progress
	_, err := LoadReader(strings.NewReader(`[1,2,3]`), "x.json", 0, nil, func(p Progress) {
		events = append(events, p)
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range events {
		if e.Percent != 0 {
			t.Errorf("percent = %f with unknown total", e.Percent)
		}
	}
}

func TestLoadReaderCanceled(t *testing.T) {
	var cancel atomic.Bool
	// The reader polls the flag at each read step; with the flag set
	// up front the stream truncates immediately and the parse fails.
	cancel.Store(true)
	in := `{"a":` + strings.Repeat("1", 100) + `}`
	_, err := LoadReader(strings.NewReader(in), "big.json", int64(len(in)), &cancel, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrCanceled) {
		t.Errorf("error = %v, want ErrCanceled", err)
	}
}

func TestLoadReaderCancelMidStream(t *testing.T) {
	var cancel atomic.Bool
	// Cancel from inside a progress callback, mid-parse.
	blob := `{"blob":"` + strings.Repeat("b", 2*emitEvery) + `"}`
	var sawCancelEvent bool
	_, err := LoadReader(bytes.NewReader([]byte(blob)), "big.json", int64(len(blob)), &cancel, func(p Progress) {
		if p.Canceled {
			sawCancelEvent = true
		}
		cancel.Store(true)
	})
	if !errors.Is(err, ErrCanceled) {
		t.Fatalf("error = %v, want ErrCanceled", err)
	}
	if !sawCancelEvent {
		t.Error("no canceled progress event observed")
	}
}

func TestLoadReaderParseFailureIsNotCancellation(t *testing.T) {
	_, err := LoadReader(strings.NewReader(`{"a":`), "trunc.json", 6, nil, nil)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if errors.Is(err, ErrCanceled) {
		t.Error("plain parse failure reported as cancellation")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(path, []byte(`{"users":[{"name":"Ann"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	root, err := LoadFile(path, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	n, ok := ir.Resolve(root, "/users/0/name")
	if !ok || n.String != "Ann" {
		t.Errorf("resolve name: %v %v", n, ok)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.json"), nil, nil); err == nil {
		t.Error("expected open error")
	}
}

func TestLoadYAMLKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")
	y := "zebra: 1\nalpha:\n  - x\n  - true\nmike: null\n"
	if err := os.WriteFile(path, []byte(y), 0o644); err != nil {
		t.Fatal(err)
	}
	root, err := LoadFile(path, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"zebra", "alpha", "mike"}
	for i, k := range want {
		if root.Keys[i] != k {
			t.Fatalf("keys = %v, want %v", root.Keys, want)
		}
	}
	n, ok := ir.Resolve(root, "/alpha/1")
	if !ok || n.Type != ir.BoolType || !n.Bool {
		t.Errorf("alpha/1 = %+v", n)
	}
}

func TestLoadText(t *testing.T) {
	root, err := LoadText(`{"a":1}`)
	if err != nil {
		t.Fatal(err)
	}
	if root.Type != ir.ObjectType {
		t.Errorf("type = %s", root.Type)
	}
	if _, err := LoadText("not json"); err == nil {
		t.Error("expected error")
	}
}
