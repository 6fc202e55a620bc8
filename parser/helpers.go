package parser

import (
	"fmt"

	"github.com/robinvdvleuten/shorthand/ast"
)

// Helper methods for token navigation. All of them operate on significant
// tokens only; hidden tokens are never seen by the grammar.

func (p *Parser) peek() Token {
	return p.stream.Get(p.sig[p.pos])
}

func (p *Parser) peekAhead(n int) Token {
	pos := p.pos + n
	if pos >= len(p.sig) {
		return p.stream.Get(p.sig[len(p.sig)-1])
	}
	return p.stream.Get(p.sig[pos])
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == EOF
}

func (p *Parser) check(typ TokenType) bool {
	return p.peek().Type == typ
}

func (p *Parser) checkAny(types ...TokenType) bool {
	for _, typ := range types {
		if p.check(typ) {
			return true
		}
	}
	return false
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if !p.isAtEnd() {
		p.pos++
	}
	return tok
}

// atLineStart reports whether the current token begins a new logical line:
// a rule marker, an entity or metadata keyword, or the end of input.
func (p *Parser) atLineStart() bool {
	typ := p.peek().Type
	return typ == STAR || typ == EOF || typ.IsEntityKeyword() || typ.IsMetadataKeyword()
}

// terminal consumes the current token and wraps it in a terminal tree.
func (p *Parser) terminal() *Tree {
	tok := p.advance()
	return &Tree{Kind: TerminalTree, First: tok.Index, Last: tok.Index}
}

// leaf consumes the current token as a single-token tree of the given kind.
func (p *Parser) leaf(kind TreeKind) *Tree {
	tok := p.advance()
	return &Tree{Kind: kind, First: tok.Index, Last: tok.Index}
}

// expectTerminal consumes a token of the given type or fails.
func (p *Parser) expectTerminal(typ TokenType, format string, args ...any) (*Tree, error) {
	if !p.check(typ) {
		return nil, p.error("%s but got %s", fmt.Sprintf(format, args...), p.describe(p.peek()))
	}
	return p.terminal(), nil
}

// lineTerminal consumes any token that does not start a new line.
func (p *Parser) lineTerminal(format string, args ...any) (*Tree, error) {
	if err := p.checkLegal(); err != nil {
		return nil, err
	}
	if p.atLineStart() {
		return nil, p.error("%s but got %s", fmt.Sprintf(format, args...), p.describe(p.peek()))
	}
	return p.terminal(), nil
}

// expectLineEnd fails unless the current token starts a new line.
func (p *Parser) expectLineEnd() error {
	if err := p.checkLegal(); err != nil {
		return err
	}
	if !p.atLineStart() {
		return p.error("unexpected %s", p.describe(p.peek()))
	}
	return nil
}

// checkLegal reports unterminated strings and comments.
func (p *Parser) checkLegal() error {
	if tok := p.peek(); tok.Type == ILLEGAL {
		return p.errorAtToken(tok, "unterminated %s", p.describe(tok))
	}
	return nil
}

// isParams reports whether tok is a parenthesized parameter list.
func (p *Parser) isParams(tok Token) bool {
	return tok.Type == SEQUENCE && tok.Len() > 1 && p.source[tok.Start] == '('
}

// describe renders a token for error messages.
func (p *Parser) describe(tok Token) string {
	switch tok.Type {
	case EOF:
		return "end of file"
	case STAR:
		return "'*'"
	}

	text := tok.String(p.source)
	if len(text) > 32 {
		text = text[:32] + "..."
	}
	return fmt.Sprintf("%q", text)
}

// Error helpers

func (p *Parser) errorAtToken(tok Token, format string, args ...any) error {
	return newErrorf(p.tokenPosition(tok), p.source, format, args...)
}

func (p *Parser) error(format string, args ...any) error {
	return p.errorAtToken(p.peek(), format, args...)
}

// tokenPosition extracts position information from a token. For a rule
// marker the position of the '*' itself is reported.
func (p *Parser) tokenPosition(tok Token) ast.Position {
	if tok.Type == STAR {
		return p.stream.PositionAt(tok.End - 1)
	}
	return ast.Position{
		Filename: p.filename,
		Offset:   tok.Start,
		Line:     tok.Line,
		Column:   tok.Column,
	}
}
