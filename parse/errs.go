package parse

import "fmt"

// Error is a positioned parse error. Offset is a byte position into
// the input; Line and Col are 1-based.
type Error struct {
	Msg    string
	Offset int
	Line   int
	Col    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Col, e.Msg)
}

func errAt(d []byte, off int, format string, args ...any) *Error {
	line, col := 1, 1
	if off > len(d) {
		off = len(d)
	}
	for _, c := range d[:off] {
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &Error{
		Msg:    fmt.Sprintf(format, args...),
		Offset: off,
		Line:   line,
		Col:    col,
	}
}
