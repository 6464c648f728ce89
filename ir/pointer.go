package ir

import (
	"strconv"
	"strings"
)

// JSON Pointer (RFC 6901) addressing. The empty pointer denotes the
// root; each segment escapes "~" as "~0" and "/" as "~1".

func EscapeToken(raw string) string {
	raw = strings.ReplaceAll(raw, "~", "~0")
	return strings.ReplaceAll(raw, "/", "~1")
}

func UnescapeToken(tok string) string {
	tok = strings.ReplaceAll(tok, "~1", "/")
	return strings.ReplaceAll(tok, "~0", "~")
}

// AppendPointer extends a parent pointer with one raw object key or
// array index, escaping as needed.
func AppendPointer(parent, rawToken string) string {
	return parent + "/" + EscapeToken(rawToken)
}

// AppendIndex extends a parent pointer with a decimal array index.
// Indexes never need escaping.
func AppendIndex(parent string, i int) string {
	return parent + "/" + strconv.Itoa(i)
}

// SplitPointer returns the unescaped tokens of a pointer. The empty
// pointer yields nil. A pointer not starting with '/' is malformed.
func SplitPointer(pointer string) ([]string, bool) {
	if pointer == "" {
		return nil, true
	}
	if pointer[0] != '/' {
		return nil, false
	}
	raw := strings.Split(pointer[1:], "/")
	toks := make([]string, len(raw))
	for i, r := range raw {
		toks[i] = UnescapeToken(r)
	}
	return toks, true
}

// LastToken returns the final unescaped token of a pointer, or "" for
// the root pointer.
func LastToken(pointer string) string {
	if pointer == "" {
		return ""
	}
	i := strings.LastIndexByte(pointer, '/')
	return UnescapeToken(pointer[i+1:])
}

// Resolve walks the pointer from root and returns the addressed node.
// The returned node is a live handle into the tree: mutating it (via
// Node.Set) mutates the document, so lookup-then-mutate is one walk.
func Resolve(root *Node, pointer string) (*Node, bool) {
	toks, ok := SplitPointer(pointer)
	if !ok {
		return nil, false
	}
	cur := root
	for _, tok := range toks {
		switch cur.Type {
		case ObjectType:
			v, ok := cur.Get(tok)
			if !ok {
				return nil, false
			}
			cur = v
		case ArrayType:
			// RFC 6901 forbids leading zeros and signs in indexes.
			if tok == "" || tok[0] < '0' || tok[0] > '9' || (len(tok) > 1 && tok[0] == '0') {
				return nil, false
			}
			idx, err := strconv.Atoi(tok)
			if err != nil || idx < 0 || idx >= len(cur.Values) {
				return nil, false
			}
			cur = cur.Values[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}
