package parser

import (
	"fmt"

	"github.com/robinvdvleuten/shorthand/ast"
)

// ParseError represents a syntax error during parsing. Malformed input is
// rejected here, before any AST is built.
type ParseError struct {
	Pos     ast.Position
	Message string
	Source  []byte // Source buffer, for rendering context around Pos
}

func (e *ParseError) Error() string {
	location := fmt.Sprintf("%s:%d:%d", e.Pos.Filename, e.Pos.Line, e.Pos.Column)
	if e.Pos.Filename == "" {
		location = fmt.Sprintf("line %d:%d", e.Pos.Line, e.Pos.Column)
	}

	return fmt.Sprintf("%s: %s", location, e.Message)
}

// GetPosition returns where the error occurred.
func (e *ParseError) GetPosition() ast.Position {
	return e.Pos
}

// newErrorf creates a parse error at pos.
func newErrorf(pos ast.Position, source []byte, format string, args ...any) *ParseError {
	return &ParseError{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
		Source:  source,
	}
}
