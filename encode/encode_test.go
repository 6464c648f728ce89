package encode

import (
	"testing"

	"github.com/snappyview/snappy/ir"
	"github.com/snappyview/snappy/parse"
)

func roundTrip(t *testing.T, in string) string {
	t.Helper()
	n, err := parse.Parse([]byte(in))
	if err != nil {
		t.Fatalf("parse %q: %v", in, err)
	}
	out, err := Marshal(n)
	if err != nil {
		t.Fatalf("marshal %q: %v", in, err)
	}
	return string(out)
}

func TestMarshalCompact(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`null`, `null`},
		{`true`, `true`},
		{`42`, `42`},
		{`-3.5`, `-3.5`},
		{`"hi"`, `"hi"`},
		{`[]`, `[]`},
		{`{}`, `{}`},
		{`[1,2,3]`, `[1,2,3]`},
		{`{"b":1,"a":2}`, `{"b":1,"a":2}`},
		{`{"nested":{"x":[true,null,"s"]}}`, `{"nested":{"x":[true,null,"s"]}}`},
		{`"line\nbreak"`, `"line\nbreak"`},
		{`{"a/b":1}`, `{"a/b":1}`},
	}
	for _, tt := range tests {
		if got := roundTrip(t, tt.in); got != tt.want {
			t.Errorf("Marshal(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestMarshalPreservesLiteralNumber(t *testing.T) {
	if got := roundTrip(t, `1e14`); got != `1e14` {
		t.Errorf("got %s", got)
	}
	if got := roundTrip(t, `0.10`); got != `0.10` {
		t.Errorf("got %s", got)
	}
}

func TestMarshalIndent(t *testing.T) {
	n, err := parse.Parse([]byte(`{"a":[1,2],"b":{}}`))
	if err != nil {
		t.Fatal(err)
	}
	out, err := MarshalIndent(n, "  ")
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"a\": [\n    1,\n    2\n  ],\n  \"b\": {}\n}"
	if string(out) != want {
		t.Errorf("MarshalIndent:\n%s\nwant:\n%s", out, want)
	}
}

func TestEncodeUnknownTypeFails(t *testing.T) {
	if err := Encode(&ir.Node{Type: ir.Type(99)}, discard{}); err == nil {
		t.Error("expected error for unknown node type")
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
