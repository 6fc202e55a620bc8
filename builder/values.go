package builder

import (
	"github.com/robinvdvleuten/shorthand/ast"
	"github.com/robinvdvleuten/shorthand/parser"
)

// value builds a value node. The value takes its own leading tokens before
// its display or unit children take theirs.
func (b *builder) value(t *parser.Tree, sharesParent bool) (ast.Value, error) {
	raw := b.stream.Text(t.First)

	var v ast.Value
	switch t.Kind {
	case parser.StringTree:
		v = b.stringValue(t.First)
	case parser.MultilineStringTree:
		v = b.multilineValue(t.First)
	case parser.NumberTree:
		v = &ast.NumberValue{Raw: raw}
	case parser.BoolTree:
		v = &ast.BoolValue{Value: raw == "true"}
	case parser.CanonicalTree:
		v = &ast.CanonicalValue{Raw: raw}
	case parser.NameTree:
		v = &ast.NameValue{Name: raw}
	case parser.CodeTree:
		v = &ast.CodeValue{Code: raw}
	case parser.ReferenceTree:
		v = &ast.ReferenceValue{Raw: raw}
	case parser.QuantityTree:
		v = &ast.QuantityValue{Number: raw}
	default:
		return nil, b.errorf(t.First, "expected value but got %s", t.Kind)
	}

	v.SetSpan(b.span(t.First, t.Last))
	b.leading(v, t.First, sharesParent)

	if len(t.Children) == 0 {
		return v, nil
	}

	c := b.cursor(t.Children, true)
	c.skip()
	switch v := v.(type) {
	case *ast.CodeValue:
		if !c.done() {
			v.Display = c.str()
		}
	case *ast.ReferenceValue:
		if !c.done() {
			v.Display = c.str()
		}
	case *ast.QuantityValue:
		v.Unit = c.word()
		if !c.done() {
			v.Display = c.str()
		}
	}

	if err := c.finish(t); err != nil {
		return nil, err
	}
	return v, nil
}

func (b *builder) stringValue(index int) *ast.StringValue {
	raw := b.stream.Text(index)
	v := &ast.StringValue{Value: ast.UnquoteString(raw), Raw: raw}
	v.Range = b.span(index, index)
	return v
}

func (b *builder) multilineValue(index int) *ast.MultilineStringValue {
	raw := b.stream.Text(index)
	v := &ast.MultilineStringValue{Value: ast.UnquoteString(raw), Raw: raw}
	v.Range = b.span(index, index)
	return v
}
