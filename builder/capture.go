package builder

import (
	"github.com/robinvdvleuten/shorthand/ast"
	"github.com/robinvdvleuten/shorthand/parser"
)

// Capture assigns hidden tokens to nodes. Leading capture looks left of a
// node and absorbs whole blocks of comments and blank lines; trailing
// capture looks right and stops at the end of the line. Every token it
// returns has been claimed.
type Capture struct {
	stream *parser.TokenStream
	claims *Claims
}

// NewCapture creates capture rules over stream backed by claims.
func NewCapture(stream *parser.TokenStream, claims *Claims) *Capture {
	return &Capture{stream: stream, claims: claims}
}

// Leading claims the unclaimed hidden tokens immediately before token
// first, up to the first claimed token or the start of the stream. The
// result is in source order.
func (c *Capture) Leading(first int) ast.Hidden {
	run := c.stream.HiddenLeft(first)

	start := len(run)
	for start > 0 && !c.claims.IsClaimed(run[start-1].Index) {
		start--
	}

	return c.take(run[start:])
}

// Trailing claims the unclaimed hidden tokens immediately after token last
// that stay on its line. The first token containing a line break is left
// unclaimed and ends the capture.
func (c *Capture) Trailing(last int) ast.Hidden {
	run := c.stream.HiddenRight(last)

	end := 0
	for end < len(run) {
		tok := run[end]
		if c.claims.IsClaimed(tok.Index) || c.hidden(tok).HasLineBreak() {
			break
		}
		end++
	}

	return c.take(run[:end])
}

// EOF claims every hidden token after token last that is still unclaimed,
// line breaks included. Pass -1 when the document has no significant
// tokens. It runs once, after every node has been built.
func (c *Capture) EOF(last int) ast.Hidden {
	var out ast.Hidden
	for _, tok := range c.stream.Tokens()[last+1:] {
		if tok.Hidden() && c.claims.TryClaim(tok.Index) {
			out = append(out, c.hidden(tok))
		}
	}
	return out
}

func (c *Capture) take(toks []parser.Token) ast.Hidden {
	if len(toks) == 0 {
		return nil
	}
	out := make(ast.Hidden, 0, len(toks))
	for _, tok := range toks {
		c.claims.Claim(tok.Index)
		out = append(out, c.hidden(tok))
	}
	return out
}

// hidden converts a hidden-channel token.
func (c *Capture) hidden(tok parser.Token) ast.HiddenToken {
	kind := ast.Whitespace
	switch tok.Type {
	case parser.LINECOMMENT:
		kind = ast.CommentLine
	case parser.BLOCKCOMMENT:
		kind = ast.CommentBlock
	}
	return ast.HiddenToken{
		Kind:       kind,
		Text:       c.stream.Text(tok.Index),
		TokenIndex: tok.Index,
	}
}
