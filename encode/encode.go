// Package encode renders ir trees back to JSON text, preserving
// object member order. Output is compact by default; indentation and
// terminal colors are options.
package encode

import (
	"bytes"
	"fmt"
	"io"

	segjson "github.com/segmentio/encoding/json"

	"github.com/snappyview/snappy/ir"
)

type encodeOpts struct {
	indent string
	colors *Colors
}

type EncodeOption func(*encodeOpts)

// EncodeIndent enables pretty printing with the given indent unit.
func EncodeIndent(indent string) EncodeOption {
	return func(o *encodeOpts) {
		o.indent = indent
	}
}

// EncodeColors enables ANSI colored output.
func EncodeColors(c *Colors) EncodeOption {
	return func(o *encodeOpts) {
		o.colors = c
	}
}

// Encode writes node as JSON to w.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	o := &encodeOpts{}
	for _, opt := range opts {
		opt(o)
	}
	e := &encoder{w: w, opts: o}
	return e.encode(node, 0)
}

// Marshal returns the compact JSON encoding of node.
func Marshal(node *ir.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(node, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent returns the pretty JSON encoding of node.
func MarshalIndent(node *ir.Node, indent string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(node, &buf, EncodeIndent(indent)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type encoder struct {
	w    io.Writer
	opts *encodeOpts
}

func (e *encoder) encode(n *ir.Node, depth int) error {
	switch n.Type {
	case ir.ObjectType:
		return e.composite(n, depth, '{', '}', true)
	case ir.ArrayType:
		return e.composite(n, depth, '[', ']', false)
	case ir.StringType:
		return e.writeColored(ir.StringType, ValueColor, quoteString(n.String))
	case ir.NumberType:
		return e.writeColored(ir.NumberType, ValueColor, n.NumberText())
	case ir.BoolType:
		if n.Bool {
			return e.writeColored(ir.BoolType, ValueColor, "true")
		}
		return e.writeColored(ir.BoolType, ValueColor, "false")
	case ir.NullType:
		return e.writeColored(ir.NullType, ValueColor, "null")
	default:
		return fmt.Errorf("cannot encode node of type %s", n.Type)
	}
}

func (e *encoder) composite(n *ir.Node, depth int, open, cls byte, keyed bool) error {
	if len(n.Values) == 0 {
		_, err := e.w.Write([]byte{open, cls})
		return err
	}
	if _, err := e.w.Write([]byte{open}); err != nil {
		return err
	}
	for i, v := range n.Values {
		if i > 0 {
			if _, err := io.WriteString(e.w, ","); err != nil {
				return err
			}
		}
		if err := e.newlineIndent(depth + 1); err != nil {
			return err
		}
		if keyed {
			if err := e.writeColored(n.Values[i].Type, FieldColor, quoteString(n.Keys[i])); err != nil {
				return err
			}
			sep := ":"
			if e.opts.indent != "" {
				sep = ": "
			}
			if _, err := io.WriteString(e.w, sep); err != nil {
				return err
			}
		}
		if err := e.encode(v, depth+1); err != nil {
			return err
		}
	}
	if err := e.newlineIndent(depth); err != nil {
		return err
	}
	_, err := e.w.Write([]byte{cls})
	return err
}

func (e *encoder) newlineIndent(depth int) error {
	if e.opts.indent == "" {
		return nil
	}
	if _, err := io.WriteString(e.w, "\n"); err != nil {
		return err
	}
	for range depth {
		if _, err := io.WriteString(e.w, e.opts.indent); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) writeColored(t ir.Type, attr ColorAttr, s string) error {
	if e.opts.colors != nil {
		s = e.opts.colors.Sprint(t, attr, s)
	}
	_, err := io.WriteString(e.w, s)
	return err
}

// quoteString returns the JSON string literal for s.
func quoteString(s string) string {
	d, err := segjson.Marshal(s)
	if err != nil {
		// Marshaling a string cannot fail; invalid UTF-8 is replaced.
		return `""`
	}
	return string(d)
}
