// Package parse converts JSON text into ir trees, keeping object
// member order and reporting positioned errors.
package parse

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/snappyview/snappy/ir"
)

// Parse reads one complete JSON value from d. Trailing content other
// than whitespace is an error.
func Parse(d []byte) (*ir.Node, error) {
	p := &parser{d: d}
	p.ws()
	n, err := p.value()
	if err != nil {
		return nil, err
	}
	p.ws()
	if p.i != len(p.d) {
		return nil, errAt(p.d, p.i, "unexpected trailing content")
	}
	return n, nil
}

type parser struct {
	d []byte
	i int
}

func (p *parser) ws() {
	for p.i < len(p.d) {
		switch p.d[p.i] {
		case ' ', '\t', '\n', '\r':
			p.i++
		default:
			return
		}
	}
}

func (p *parser) value() (*ir.Node, error) {
	if p.i >= len(p.d) {
		return nil, errAt(p.d, p.i, "unexpected end of input")
	}
	switch c := p.d[p.i]; {
	case c == '{':
		return p.object()
	case c == '[':
		return p.array()
	case c == '"':
		s, err := p.string()
		if err != nil {
			return nil, err
		}
		return ir.FromString(s), nil
	case c == 't':
		if err := p.lit("true"); err != nil {
			return nil, err
		}
		return ir.FromBool(true), nil
	case c == 'f':
		if err := p.lit("false"); err != nil {
			return nil, err
		}
		return ir.FromBool(false), nil
	case c == 'n':
		if err := p.lit("null"); err != nil {
			return nil, err
		}
		return ir.Null(), nil
	case c == '-' || (c >= '0' && c <= '9'):
		return p.number()
	default:
		return nil, errAt(p.d, p.i, "unexpected character %q", c)
	}
}

func (p *parser) lit(want string) error {
	if !strings.HasPrefix(string(p.d[p.i:min(p.i+len(want), len(p.d))]), want) {
		return errAt(p.d, p.i, "invalid literal")
	}
	p.i += len(want)
	return nil
}

func (p *parser) object() (*ir.Node, error) {
	obj := ir.NewObject()
	p.i++ // '{'
	p.ws()
	if p.i < len(p.d) && p.d[p.i] == '}' {
		p.i++
		return obj, nil
	}
	for {
		p.ws()
		if p.i >= len(p.d) || p.d[p.i] != '"' {
			return nil, errAt(p.d, p.i, "expected object key")
		}
		key, err := p.string()
		if err != nil {
			return nil, err
		}
		p.ws()
		if p.i >= len(p.d) || p.d[p.i] != ':' {
			return nil, errAt(p.d, p.i, "expected ':' after object key")
		}
		p.i++
		p.ws()
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		obj.Append(key, v)
		p.ws()
		if p.i >= len(p.d) {
			return nil, errAt(p.d, p.i, "unterminated object")
		}
		switch p.d[p.i] {
		case ',':
			p.i++
		case '}':
			p.i++
			return obj, nil
		default:
			return nil, errAt(p.d, p.i, "expected ',' or '}' in object")
		}
	}
}

func (p *parser) array() (*ir.Node, error) {
	arr := ir.NewArray()
	p.i++ // '['
	p.ws()
	if p.i < len(p.d) && p.d[p.i] == ']' {
		p.i++
		return arr, nil
	}
	for {
		p.ws()
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		arr.Append("", v)
		p.ws()
		if p.i >= len(p.d) {
			return nil, errAt(p.d, p.i, "unterminated array")
		}
		switch p.d[p.i] {
		case ',':
			p.i++
		case ']':
			p.i++
			return arr, nil
		default:
			return nil, errAt(p.d, p.i, "expected ',' or ']' in array")
		}
	}
}

func (p *parser) string() (string, error) {
	start := p.i
	p.i++ // opening quote
	// Fast path: no escapes, no control characters.
	for p.i < len(p.d) {
		c := p.d[p.i]
		if c == '"' {
			s := string(p.d[start+1 : p.i])
			p.i++
			return s, nil
		}
		if c == '\\' || c < 0x20 {
			break
		}
		p.i++
	}
	if p.i >= len(p.d) {
		return "", errAt(p.d, start, "unterminated string")
	}
	if p.d[p.i] < 0x20 && p.d[p.i] != '\\' {
		return "", errAt(p.d, p.i, "control character in string")
	}
	// Slow path with escapes.
	var sb strings.Builder
	sb.Write(p.d[start+1 : p.i])
	for p.i < len(p.d) {
		c := p.d[p.i]
		switch {
		case c == '"':
			p.i++
			return sb.String(), nil
		case c == '\\':
			p.i++
			if p.i >= len(p.d) {
				return "", errAt(p.d, p.i, "unterminated escape")
			}
			switch e := p.d[p.i]; e {
			case '"', '\\', '/':
				sb.WriteByte(e)
				p.i++
			case 'b':
				sb.WriteByte('\b')
				p.i++
			case 'f':
				sb.WriteByte('\f')
				p.i++
			case 'n':
				sb.WriteByte('\n')
				p.i++
			case 'r':
				sb.WriteByte('\r')
				p.i++
			case 't':
				sb.WriteByte('\t')
				p.i++
			case 'u':
				r, err := p.unicodeEscape()
				if err != nil {
					return "", err
				}
				sb.WriteRune(r)
			default:
				return "", errAt(p.d, p.i, "invalid escape character %q", e)
			}
		case c < 0x20:
			return "", errAt(p.d, p.i, "control character in string")
		default:
			sb.WriteByte(c)
			p.i++
		}
	}
	return "", errAt(p.d, start, "unterminated string")
}

// unicodeEscape consumes "uXXXX" (p.i on 'u'), pairing surrogates.
func (p *parser) unicodeEscape() (rune, error) {
	r1, err := p.hex4()
	if err != nil {
		return 0, err
	}
	if !utf16.IsSurrogate(r1) {
		return r1, nil
	}
	// Expect a low surrogate; otherwise emit the replacement char the
	// way encoding/json does.
	if p.i+1 < len(p.d) && p.d[p.i] == '\\' && p.d[p.i+1] == 'u' {
		save := p.i
		p.i++
		r2, err := p.hex4()
		if err != nil {
			return 0, err
		}
		if dec := utf16.DecodeRune(r1, r2); dec != utf8.RuneError {
			return dec, nil
		}
		p.i = save
	}
	return utf8.RuneError, nil
}

func (p *parser) hex4() (rune, error) {
	p.i++ // 'u'
	if p.i+4 > len(p.d) {
		return 0, errAt(p.d, p.i, "truncated unicode escape")
	}
	var r rune
	for k := 0; k < 4; k++ {
		c := p.d[p.i+k]
		switch {
		case c >= '0' && c <= '9':
			r = r<<4 | rune(c-'0')
		case c >= 'a' && c <= 'f':
			r = r<<4 | rune(c-'a'+10)
		case c >= 'A' && c <= 'F':
			r = r<<4 | rune(c-'A'+10)
		default:
			return 0, errAt(p.d, p.i+k, "invalid unicode escape")
		}
	}
	p.i += 4
	return r, nil
}

func (p *parser) number() (*ir.Node, error) {
	start := p.i
	if p.d[p.i] == '-' {
		p.i++
	}
	switch {
	case p.i < len(p.d) && p.d[p.i] == '0':
		p.i++
	case p.i < len(p.d) && p.d[p.i] >= '1' && p.d[p.i] <= '9':
		for p.i < len(p.d) && p.d[p.i] >= '0' && p.d[p.i] <= '9' {
			p.i++
		}
	default:
		return nil, errAt(p.d, p.i, "invalid number")
	}
	if p.i < len(p.d) && p.d[p.i] == '.' {
		p.i++
		if p.i >= len(p.d) || p.d[p.i] < '0' || p.d[p.i] > '9' {
			return nil, errAt(p.d, p.i, "invalid number fraction")
		}
		for p.i < len(p.d) && p.d[p.i] >= '0' && p.d[p.i] <= '9' {
			p.i++
		}
	}
	if p.i < len(p.d) && (p.d[p.i] == 'e' || p.d[p.i] == 'E') {
		p.i++
		if p.i < len(p.d) && (p.d[p.i] == '+' || p.d[p.i] == '-') {
			p.i++
		}
		if p.i >= len(p.d) || p.d[p.i] < '0' || p.d[p.i] > '9' {
			return nil, errAt(p.d, p.i, "invalid number exponent")
		}
		for p.i < len(p.d) && p.d[p.i] >= '0' && p.d[p.i] <= '9' {
			p.i++
		}
	}
	lit := string(p.d[start:p.i])
	n, ok := ir.FromNumberLit(lit)
	if !ok {
		return nil, errAt(p.d, start, "number %q out of range", lit)
	}
	return n, nil
}
