// Package builder turns a parse tree into an AST and assigns every hidden
// token of the source to exactly one node.
//
// The builder walks the tree depth first and calls the capture rules in
// document order: a node takes its leading tokens before any of its
// children, and its trailing tokens only after its last child. Once all
// entities are built, the remaining hidden tokens at the end of the file go
// to the document.
//
// Example:
//
//	file, err := parser.Parse(ctx, "patient.fsh", source)
//	if err != nil {
//	    return err
//	}
//	doc, err := builder.Build(ctx, file)
package builder

import (
	"context"
	"fmt"

	"github.com/robinvdvleuten/shorthand/ast"
	"github.com/robinvdvleuten/shorthand/parser"
	"github.com/robinvdvleuten/shorthand/telemetry"
)

// Result holds a built document together with the claims recorded while
// building it.
type Result struct {
	Document *ast.Document
	Claims   *Claims
	Stream   *parser.TokenStream
}

// Build converts a parsed file into an AST document.
func Build(ctx context.Context, file *parser.File) (*ast.Document, error) {
	result, err := BuildResult(ctx, file)
	if err != nil {
		return nil, err
	}
	return result.Document, nil
}

// BuildResult is like Build but also returns the claim set, for callers
// that verify or report token ownership.
func BuildResult(ctx context.Context, file *parser.File) (*Result, error) {
	timer := telemetry.FromContext(ctx).Start("builder.build")
	defer timer.End()

	b := newBuilder(file.Stream)
	doc, err := b.document(file.Tree)
	if err != nil {
		return nil, err
	}

	return &Result{Document: doc, Claims: b.claims, Stream: file.Stream}, nil
}

type builder struct {
	stream  *parser.TokenStream
	claims  *Claims
	capture *Capture
	entity  parser.TokenType
}

func newBuilder(stream *parser.TokenStream) *builder {
	claims := NewClaims()
	return &builder{
		stream:  stream,
		claims:  claims,
		capture: NewCapture(stream, claims),
	}
}

func (b *builder) document(tree *parser.Tree) (*ast.Document, error) {
	if tree == nil || tree.Kind != parser.DocumentTree {
		return nil, fmt.Errorf("builder: expected document tree")
	}

	doc := &ast.Document{Filename: b.stream.Filename()}
	doc.Range = b.span(tree.First, tree.Last)
	doc.SetLeading(b.capture.Leading(tree.First))

	for i, child := range tree.Children {
		entity, err := b.buildEntity(child, i == 0)
		if err != nil {
			return nil, err
		}
		doc.AddEntity(entity)
	}

	trailing := b.capture.EOF(b.lastSignificant(tree.Last))
	if trailing.IsEmpty() && len(doc.Entities) > 0 {
		trailing = glue()
	}
	doc.SetTrailing(trailing)

	return doc, nil
}

// lastSignificant returns the index of the last significant token before
// the EOF token at eof, or -1.
func (b *builder) lastSignificant(eof int) int {
	return eof - len(b.stream.HiddenLeft(eof)) - 1
}

func (b *builder) buildEntity(tree *parser.Tree, first bool) (ast.Entity, error) {
	if tree.Kind != parser.EntityTree || len(tree.Children) == 0 || tree.Children[0].Kind != parser.HeaderTree {
		return nil, b.errorf(tree.First, "unexpected %s in document", tree.Kind)
	}
	header := tree.Children[0]

	b.entity = b.stream.Get(header.First).Type
	entity, base := newEntity(b.entity)
	if entity == nil {
		return nil, b.errorf(header.First, "unknown entity keyword %q", b.stream.Text(header.First))
	}

	base.Range = b.span(tree.First, tree.Last)
	b.leading(entity, tree.First, first)

	c := b.cursor(header.Children, true)
	base.Keyword = c.word()
	base.Name = c.word()
	switch e := entity.(type) {
	case *ast.Alias:
		e.Equals = c.word()
		e.Value = c.word()
	case *ast.RuleSet:
		if !c.done() {
			e.Params = c.word()
		}
	}
	if err := c.finish(header); err != nil {
		return nil, err
	}
	entity.SetTrailing(b.capture.Trailing(header.Last))

	var prev ast.Rule
	for _, child := range tree.Children[1:] {
		switch {
		case child.Kind == parser.MetadataTree:
			if len(base.Rules) > 0 {
				return nil, b.errorf(child.First, "metadata after rules")
			}
			m, err := b.metadata(child)
			if err != nil {
				return nil, err
			}
			base.AddMetadata(m)

		case child.Kind.IsRule():
			rule, err := b.rule(child, prev)
			if err != nil {
				return nil, err
			}
			base.AddRule(rule)
			prev = rule

		default:
			return nil, b.errorf(child.First, "unexpected %s in entity", child.Kind)
		}
	}

	return entity, nil
}

// newEntity allocates the entity for a header keyword and returns its
// shared base.
func newEntity(keyword parser.TokenType) (ast.Entity, *ast.EntityBase) {
	var e ast.Entity
	switch keyword {
	case parser.ALIAS:
		e = &ast.Alias{}
	case parser.PROFILE:
		e = &ast.Profile{}
	case parser.EXTENSION:
		e = &ast.Extension{}
	case parser.LOGICAL:
		e = &ast.Logical{}
	case parser.RESOURCE:
		e = &ast.Resource{}
	case parser.INSTANCE:
		e = &ast.Instance{}
	case parser.INVARIANT:
		e = &ast.Invariant{}
	case parser.VALUESET:
		e = &ast.ValueSet{}
	case parser.CODESYSTEM:
		e = &ast.CodeSystem{}
	case parser.RULESET:
		e = &ast.RuleSet{}
	case parser.MAPPING:
		e = &ast.Mapping{}
	default:
		return nil, nil
	}
	return e, e.Header()
}

func (b *builder) metadata(tree *parser.Tree) (*ast.Metadata, error) {
	m := &ast.Metadata{}
	m.Range = b.span(tree.First, tree.Last)
	b.leading(m, tree.First, false)

	c := b.cursor(tree.Children, true)
	m.Keyword = c.word()
	for !c.done() {
		if v := c.value(); v != nil {
			m.Values = append(m.Values, v)
		}
	}
	if err := c.finish(tree); err != nil {
		return nil, err
	}

	m.SetTrailing(b.capture.Trailing(tree.Last))
	return m, nil
}

// leading captures the leading tokens of a node that starts at token index
// first. A node sharing its first token with its parent has nothing left to
// capture. A node that found nothing gets glue so its default separator is
// not applied on output.
func (b *builder) leading(n ast.Node, first int, sharesParent bool) {
	if sharesParent {
		return
	}
	h := b.capture.Leading(first)
	if h.IsEmpty() {
		h = glue()
	}
	n.SetLeading(h)
}

func glue() ast.Hidden {
	return ast.Hidden{ast.Glue()}
}

// span returns the source range from the start of token first to the end
// of token last.
func (b *builder) span(first, last int) ast.Range {
	return b.rangeOf(b.stream.Get(first).Start, b.stream.Get(last).End)
}

func (b *builder) rangeOf(start, end int) ast.Range {
	return ast.Range{
		Start: b.stream.PositionAt(start),
		End:   b.stream.PositionAt(end),
	}
}

func (b *builder) errorf(index int, format string, args ...any) error {
	return &BuildError{
		Pos:     b.stream.PositionAt(b.stream.Get(index).Start),
		Message: fmt.Sprintf(format, args...),
	}
}
