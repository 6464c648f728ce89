package parse

import (
	"strings"
	"testing"

	"github.com/snappyview/snappy/ir"
)

type parseTest struct {
	in  string
	bad bool
}

func TestParse(t *testing.T) {
	pts := []parseTest{
		{in: `null`},
		{in: `true`},
		{in: `false`},
		{in: `22`},
		{in: `-7`},
		{in: `0`},
		{in: `1e14`},
		{in: `3.25e-2`},
		{in: `"hello"`},
		{in: `""`},
		{in: `"a\nb\t\"c\"\\"`},
		{in: `"Aé"`},
		{in: `"😀"`},
		{in: `[]`},
		{in: `[1]`},
		{in: `[1,2,3]`},
		{in: `[[]]`},
		{in: `[1,[2,[3]]]`},
		{in: `{}`},
		{in: `{"a":1}`},
		{in: `{"a":{"b":[true,null]}}`},
		{in: "  {\n\t\"a\": 1\r\n}  "},
		{in: ``, bad: true},
		{in: `  `, bad: true},
		{in: `{`, bad: true},
		{in: `[1,`, bad: true},
		{in: `{"a"}`, bad: true},
		{in: `{"a":}`, bad: true},
		{in: `{a:1}`, bad: true},
		{in: `[1 2]`, bad: true},
		{in: `"unterminated`, bad: true},
		{in: `"bad \q escape"`, bad: true},
		{in: `01`, bad: true},
		{in: `1.`, bad: true},
		{in: `1e`, bad: true},
		{in: `-`, bad: true},
		{in: `nul`, bad: true},
		{in: `truex`, bad: true},
		{in: `{} garbage`, bad: true},
		{in: `1e999`, bad: true},
	}
	for _, pt := range pts {
		_, err := Parse([]byte(pt.in))
		if pt.bad && err == nil {
			t.Errorf("Parse(%q): expected error", pt.in)
		}
		if !pt.bad && err != nil {
			t.Errorf("Parse(%q): %v", pt.in, err)
		}
	}
}

func TestParseKeepsMemberOrder(t *testing.T) {
	n, err := Parse([]byte(`{"zebra":1,"alpha":2,"mike":3}`))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"zebra", "alpha", "mike"}
	for i, k := range want {
		if n.Keys[i] != k {
			t.Fatalf("keys = %v, want %v", n.Keys, want)
		}
	}
}

func TestParseEscapedKeys(t *testing.T) {
	n, err := Parse([]byte(`{"a/b":1,"a~b":2}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := n.Get("a/b"); !ok {
		t.Error("missing key a/b")
	}
	if _, ok := n.Get("a~b"); !ok {
		t.Error("missing key a~b")
	}
}

func TestParseNumbers(t *testing.T) {
	n, err := Parse([]byte(`[42,-3,3.5,1e3,123456789012345678901234567890]`))
	if err != nil {
		t.Fatal(err)
	}
	if n.Values[0].Int64 == nil || *n.Values[0].Int64 != 42 {
		t.Error("expected integer 42")
	}
	if n.Values[2].Float64 == nil {
		t.Error("expected float 3.5")
	}
	// Too big for int64, falls back to float.
	if n.Values[4].Float64 == nil {
		t.Error("expected float fallback for oversized integer")
	}
	if n.Values[4].Number != "123456789012345678901234567890" {
		t.Errorf("literal text not preserved: %q", n.Values[4].Number)
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Parse([]byte("{\n  \"a\": nope\n}"))
	if err == nil {
		t.Fatal("expected error")
	}
	pe, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type %T", err)
	}
	if pe.Line != 2 {
		t.Errorf("line = %d, want 2", pe.Line)
	}
	if !strings.Contains(pe.Error(), "line 2") {
		t.Errorf("error text %q", pe.Error())
	}
}

func TestParseSurrogatePair(t *testing.T) {
	n, err := Parse([]byte(`"😀"`))
	if err != nil {
		t.Fatal(err)
	}
	if n.Type != ir.StringType || n.String != "\U0001F600" {
		t.Errorf("got %q", n.String)
	}
}
