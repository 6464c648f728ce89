package ir

import "testing"

func TestEscapeTokenRoundTrip(t *testing.T) {
	keys := []string{
		"plain",
		"a/b",
		"a~b",
		"~/",
		"/~",
		"~0",
		"~1",
		"a~1b/c~0d",
		"",
	}
	for _, k := range keys {
		esc := EscapeToken(k)
		if got := UnescapeToken(esc); got != k {
			t.Errorf("round trip %q: escaped %q, unescaped %q", k, esc, got)
		}
	}
}

func TestEscapeTokenOrder(t *testing.T) {
	// "~" must be escaped before "/" so that "~1" in the output always
	// means a literal "/".
	if got := EscapeToken("~1"); got != "~01" {
		t.Errorf("EscapeToken(~1) = %q, want ~01", got)
	}
	if got := UnescapeToken("~01"); got != "~1" {
		t.Errorf("UnescapeToken(~01) = %q, want ~1", got)
	}
}

func testDoc() *Node {
	users := NewArray()
	ann := NewObject()
	ann.Append("name", FromString("Ann"))
	bo := NewObject()
	bo.Append("name", FromString("Bo"))
	users.Append("", ann)
	users.Append("", bo)

	root := NewObject()
	root.Append("users", users)
	root.Append("a/b", FromInt(7))
	root.Append("count", FromInt(2))
	return root
}

func TestResolve(t *testing.T) {
	root := testDoc()
	tests := []struct {
		pointer string
		ok      bool
		typ     Type
	}{
		{"", true, ObjectType},
		{"/users", true, ArrayType},
		{"/users/0", true, ObjectType},
		{"/users/1/name", true, StringType},
		{"/a~1b", true, NumberType},
		{"/count", true, NumberType},
		{"/missing", false, 0},
		{"/users/2", false, 0},
		{"/users/-1", false, 0},
		{"/users/01", false, 0},
		{"/users/+1", false, 0},
		{"/users/0/name/x", false, 0},
		{"users", false, 0},
	}
	for _, tt := range tests {
		n, ok := Resolve(root, tt.pointer)
		if ok != tt.ok {
			t.Errorf("Resolve(%q): ok = %v, want %v", tt.pointer, ok, tt.ok)
			continue
		}
		if ok && n.Type != tt.typ {
			t.Errorf("Resolve(%q): type = %s, want %s", tt.pointer, n.Type, tt.typ)
		}
	}
}

func TestResolveMutableHandle(t *testing.T) {
	root := testDoc()
	n, ok := Resolve(root, "/users/0/name")
	if !ok {
		t.Fatal("resolve failed")
	}
	n.Set(FromString("Anna"))
	again, _ := Resolve(root, "/users/0/name")
	if again.String != "Anna" {
		t.Errorf("mutation through handle not visible: %q", again.String)
	}
}

func TestLastToken(t *testing.T) {
	if got := LastToken(""); got != "" {
		t.Errorf("LastToken(root) = %q", got)
	}
	if got := LastToken("/a/b~1c"); got != "b/c" {
		t.Errorf("LastToken = %q, want b/c", got)
	}
}
