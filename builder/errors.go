package builder

import (
	"fmt"

	"github.com/robinvdvleuten/shorthand/ast"
)

// BuildError reports a parse tree shape the builder does not recognise.
type BuildError struct {
	Pos     ast.Position
	Message string
}

func (e *BuildError) Error() string {
	if e.Pos.Filename != "" {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message)
	}
	return fmt.Sprintf("line %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// GetPosition returns the position of the offending token.
func (e *BuildError) GetPosition() ast.Position {
	return e.Pos
}
