// Package parser turns FHIR Shorthand source into an indexed token stream and
// a concrete parse tree.
//
// The token stream keeps every byte of the input: whitespace, line breaks and
// comments travel on the hidden channel next to the significant tokens. The
// parse tree only references significant tokens by index, so consumers can
// ask the stream for the hidden neighbours of any node.
//
// Grammar overview:
//
//	document  = entity*
//	entity    = header metadata* rule*
//	header    = KEYWORD name [params] | "Alias:" name "=" value
//	metadata  = METADATA_KEYWORD value+
//	rule      = "*" ( path [rule-tail] | "^" ... | "insert" ... | "->" ... | code ... )
//
// Every entity, metadata clause and rule starts a new logical line. Malformed
// input is reported as a *ParseError; the parser does not recover.
package parser

import (
	"context"

	"github.com/robinvdvleuten/shorthand/telemetry"
)

// File is the result of parsing one source file.
type File struct {
	Stream *TokenStream
	Tree   *Tree
}

// Parser is a recursive-descent parser over the significant tokens of a
// token stream.
type Parser struct {
	stream   *TokenStream
	source   []byte
	filename string
	sig      []int // indices of significant tokens, EOF last
	pos      int   // position in sig
	entity   TokenType
}

// NewParser creates a parser for the given stream.
func NewParser(stream *TokenStream) *Parser {
	sig := make([]int, 0, stream.Len()/2+1)
	for _, tok := range stream.Tokens() {
		if !tok.Hidden() {
			sig = append(sig, tok.Index)
		}
	}

	return &Parser{
		stream:   stream,
		source:   stream.Source(),
		filename: stream.Filename(),
		sig:      sig,
	}
}

// Parse tokenizes and parses source. The filename is only used for
// positions in errors and nodes.
func Parse(ctx context.Context, filename string, source []byte) (*File, error) {
	collector := telemetry.FromContext(ctx)

	timer := collector.Start("parser.tokenize")
	stream := Tokenize(source, filename)
	timer.End()

	timer = collector.Start("parser.parse")
	defer timer.End()

	tree, err := NewParser(stream).ParseDocument()
	if err != nil {
		return nil, err
	}

	return &File{Stream: stream, Tree: tree}, nil
}

// ParseBytes parses source without a filename.
func ParseBytes(ctx context.Context, source []byte) (*File, error) {
	return Parse(ctx, "", source)
}

// ParseString parses a source string without a filename.
func ParseString(ctx context.Context, source string) (*File, error) {
	return Parse(ctx, "", []byte(source))
}

// MustParseBytes is like ParseBytes but panics on error. Intended for tests
// and examples.
func MustParseBytes(ctx context.Context, source []byte) *File {
	file, err := ParseBytes(ctx, source)
	if err != nil {
		panic(err)
	}
	return file
}

// MustParseString is like ParseString but panics on error.
func MustParseString(ctx context.Context, source string) *File {
	return MustParseBytes(ctx, []byte(source))
}

// ParseDocument parses the whole stream. The document node spans from the
// first significant token (or EOF for an empty document) to EOF.
func (p *Parser) ParseDocument() (*Tree, error) {
	doc := &Tree{
		Kind:  DocumentTree,
		First: p.peek().Index,
	}

	for !p.isAtEnd() {
		if err := p.checkLegal(); err != nil {
			return nil, err
		}
		if !p.peek().Type.IsEntityKeyword() {
			return nil, p.error("expected entity declaration but got %s", p.describe(p.peek()))
		}

		entity, err := p.parseEntity()
		if err != nil {
			return nil, err
		}
		doc.Children = append(doc.Children, entity)
	}

	doc.Last = p.peek().Index
	return doc, nil
}

// parseEntity parses an entity header followed by its metadata and rules.
func (p *Parser) parseEntity() (*Tree, error) {
	header, err := p.parseHeader()
	if err != nil {
		return nil, err
	}

	children := []*Tree{header}

	for p.peek().Type.IsMetadataKeyword() {
		metadata, err := p.parseMetadata()
		if err != nil {
			return nil, err
		}
		children = append(children, metadata)
	}

	for p.check(STAR) {
		rule, err := p.parseRule()
		if err != nil {
			return nil, err
		}
		children = append(children, rule)

		if p.peek().Type.IsMetadataKeyword() {
			return nil, p.error("metadata %s must precede the rules of an entity", p.describe(p.peek()))
		}
	}

	return node(EntityTree, children...), nil
}

// parseHeader parses "Keyword: Name" (with optional RuleSet parameters) or
// "Alias: Name = Value".
func (p *Parser) parseHeader() (*Tree, error) {
	keyword := p.terminal()
	p.entity = p.stream.Get(keyword.First).Type

	name, err := p.lineTerminal("expected name after %s", p.stream.Get(keyword.First).Type)
	if err != nil {
		return nil, err
	}
	children := []*Tree{keyword, name}

	switch p.entity {
	case ALIAS:
		if !p.check(EQUAL) {
			return nil, p.error("expected '=' after alias name but got %s", p.describe(p.peek()))
		}
		children = append(children, p.terminal())
		value, err := p.lineTerminal("expected alias value")
		if err != nil {
			return nil, err
		}
		children = append(children, value)

	case RULESET:
		if p.isParams(p.peek()) {
			children = append(children, p.terminal())
		}
	}

	if err := p.expectLineEnd(); err != nil {
		return nil, err
	}

	return node(HeaderTree, children...), nil
}

// parseMetadata parses a metadata clause: keyword followed by one or more
// values up to the next line starter.
func (p *Parser) parseMetadata() (*Tree, error) {
	keyword := p.terminal()
	children := []*Tree{keyword}

	for !p.atLineStart() {
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		children = append(children, value)
	}

	if len(children) == 1 {
		return nil, p.error("expected value after %s but got %s", p.stream.Get(keyword.First).Type, p.describe(p.peek()))
	}

	return node(MetadataTree, children...), nil
}

// parseValue parses a single value. Codes, references and quantities take
// an optional trailing display string.
func (p *Parser) parseValue() (*Tree, error) {
	if err := p.checkLegal(); err != nil {
		return nil, err
	}

	tok := p.peek()
	switch tok.Type {
	case STRING:
		return p.leaf(StringTree), nil
	case MULTILINESTRING:
		return p.leaf(MultilineStringTree), nil
	case BOOL:
		return p.leaf(BoolTree), nil
	case CANONICAL:
		return p.leaf(CanonicalTree), nil
	case NUMBER:
		if p.peekAhead(1).Type == UNIT {
			children := []*Tree{p.terminal(), p.terminal()}
			if p.check(STRING) {
				children = append(children, p.terminal())
			}
			return node(QuantityTree, children...), nil
		}
		return p.leaf(NumberTree), nil
	case CODE:
		return p.withDisplay(CodeTree), nil
	case REFERENCE:
		return p.withDisplay(ReferenceTree), nil
	}

	if p.atLineStart() {
		return nil, p.error("expected value but got %s", p.describe(tok))
	}
	return p.leaf(NameTree), nil
}

// withDisplay parses a token followed by an optional display string.
func (p *Parser) withDisplay(kind TreeKind) *Tree {
	children := []*Tree{p.terminal()}
	if p.check(STRING) {
		children = append(children, p.terminal())
	}
	return node(kind, children...)
}

// node creates an interior tree node spanning its children.
func node(kind TreeKind, children ...*Tree) *Tree {
	return &Tree{
		Kind:     kind,
		First:    children[0].First,
		Last:     children[len(children)-1].Last,
		Children: children,
	}
}
