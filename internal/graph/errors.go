package graph

import (
	"errors"
	"fmt"
)

// ErrParse is wrapped by every error Parse returns, for errors.Is checks.
var ErrParse = errors.New("parse error")

// ParseError reports malformed input text. Offset is a byte offset into the
// trimmed input; Line and Column are 1-based.
type ParseError struct {
	Offset int
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", ErrParse.Error(), e.Msg)
	}
	return fmt.Sprintf("%s at line %d, column %d: %s", ErrParse.Error(), e.Line, e.Column, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrParse }

func newParseError(src string, offset int, format string, args ...any) *ParseError {
	line, col := 1, 1
	for i := 0; i < offset && i < len(src); i++ {
		if src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &ParseError{
		Offset: offset,
		Line:   line,
		Column: col,
		Msg:    fmt.Sprintf(format, args...),
	}
}
