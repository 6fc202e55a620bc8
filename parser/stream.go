package parser

import (
	"sort"

	"github.com/robinvdvleuten/shorthand/ast"
)

// TokenStream is the indexed token sequence of one source file. It holds
// every token the lexer produced, hidden channel included, and answers the
// neighbour queries the AST builder needs.
type TokenStream struct {
	source     []byte
	filename   string
	tokens     []Token
	lineStarts []int
	interner   *Interner
}

// Tokenize lexes source into a token stream.
func Tokenize(source []byte, filename string) *TokenStream {
	lexer := NewLexer(source, filename)
	tokens := lexer.ScanAll()

	lineStarts := []int{0}
	for i, ch := range source {
		if ch == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}

	return &TokenStream{
		source:     source,
		filename:   filename,
		tokens:     tokens,
		lineStarts: lineStarts,
		interner:   lexer.Interner(),
	}
}

// Source returns the source buffer the stream was built from.
func (s *TokenStream) Source() []byte { return s.source }

// Filename returns the filename used for positions.
func (s *TokenStream) Filename() string { return s.filename }

// Len returns the number of tokens, EOF included.
func (s *TokenStream) Len() int { return len(s.tokens) }

// Tokens returns every token in stream order.
func (s *TokenStream) Tokens() []Token { return s.tokens }

// Get returns the token at index i.
func (s *TokenStream) Get(i int) Token { return s.tokens[i] }

// Text returns the source text of token i. Significant tokens are interned
// since paths and names repeat heavily across rules.
func (s *TokenStream) Text(i int) string {
	tok := s.tokens[i]
	if tok.Hidden() {
		return tok.String(s.source)
	}
	return s.interner.InternBytes(tok.Bytes(s.source))
}

// HiddenLeft returns the contiguous run of hidden tokens immediately before
// token i, in source order. Only the run adjacent to i is returned.
func (s *TokenStream) HiddenLeft(i int) []Token {
	if i <= 0 || i > len(s.tokens) {
		return nil
	}
	j := i
	for j > 0 && s.tokens[j-1].Hidden() {
		j--
	}
	if j == i {
		return nil
	}
	return s.tokens[j:i]
}

// HiddenRight returns the contiguous run of hidden tokens immediately after
// token i, in source order.
func (s *TokenStream) HiddenRight(i int) []Token {
	if i < 0 || i >= len(s.tokens)-1 {
		return nil
	}
	j := i + 1
	for j < len(s.tokens) && s.tokens[j].Hidden() {
		j++
	}
	if j == i+1 {
		return nil
	}
	return s.tokens[i+1 : j]
}

// PositionAt converts a byte offset into a source position.
func (s *TokenStream) PositionAt(offset int) ast.Position {
	line := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	return ast.Position{
		Filename: s.filename,
		Offset:   offset,
		Line:     line + 1,
		Column:   offset - s.lineStarts[line] + 1,
	}
}
