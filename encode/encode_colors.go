package encode

import (
	"github.com/fatih/color"

	"github.com/snappyview/snappy/ir"
)

type Colorable struct {
	Type ir.Type
	Attr ColorAttr
}

type ColorAttr int

const (
	FieldColor ColorAttr = iota
	ValueColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	for _, t := range ir.Types() {
		colors.Map[Colorable{Type: t, Attr: FieldColor}] = color.RGB(196, 96, 16).SprintfFunc()
	}
	able := Colorable{Attr: ValueColor}

	able.Type = ir.StringType
	colors.Map[able] = color.GreenString
	able.Type = ir.NumberType
	colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()
	able.Type = ir.BoolType
	colors.Map[able] = color.MagentaString
	able.Type = ir.NullType
	colors.Map[able] = color.RGB(128, 128, 128).SprintfFunc()
	return colors
}

func colorDefault(s string, args ...any) string {
	if len(args) == 0 {
		return s
	}
	return s
}

func (c *Colors) Sprint(t ir.Type, attr ColorAttr, s string) string {
	fn, ok := c.Map[Colorable{Type: t, Attr: attr}]
	if !ok || fn == nil {
		return c.Default(s)
	}
	return fn("%s", s)
}
