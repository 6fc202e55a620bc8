package builder

import (
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/shorthand/ast"
	"github.com/robinvdvleuten/shorthand/parser"
)

// cursor steps through the children of a parse tree node, building one AST
// node per child in source order. The first error stops the cursor; it is
// returned by finish.
type cursor struct {
	b     *builder
	trees []*parser.Tree
	pos   int
	first bool // the next child starts at its parent's first token
	err   error
}

// cursor creates a cursor over trees. Pass first when the first child
// shares its first token with the parent node, which then already holds
// the leading tokens.
func (b *builder) cursor(trees []*parser.Tree, first bool) *cursor {
	return &cursor{b: b, trees: trees, first: first}
}

func (c *cursor) done() bool {
	return c.err != nil || c.pos >= len(c.trees)
}

func (c *cursor) peek() *parser.Tree {
	if c.err != nil || c.pos >= len(c.trees) {
		return nil
	}
	return c.trees[c.pos]
}

// is reports whether the next child is a single token of one of the types.
func (c *cursor) is(types ...parser.TokenType) bool {
	t := c.peek()
	if t == nil || !t.IsTerminal() {
		return false
	}
	return slices.Contains(types, c.b.stream.Get(t.First).Type)
}

// isTree reports whether the next child is a tree of the given kind.
func (c *cursor) isTree(kind parser.TreeKind) bool {
	t := c.peek()
	return t != nil && t.Kind == kind
}

// next consumes the next child and reports whether it shares its parent's
// first token.
func (c *cursor) next() (*parser.Tree, bool) {
	t := c.peek()
	if t == nil {
		if c.err == nil && len(c.trees) > 0 {
			last := c.trees[len(c.trees)-1]
			c.err = c.b.errorf(last.Last, "unexpected end of line")
		}
		return nil, false
	}
	shares := c.first
	c.first = false
	c.pos++
	return t, shares
}

// skip consumes a child the parent already represents.
func (c *cursor) skip() {
	c.next()
}

func (c *cursor) word() *ast.Word {
	t, shares := c.next()
	if t == nil {
		return nil
	}
	if !t.IsTerminal() {
		c.err = c.b.errorf(t.First, "expected a single token but got %s", t.Kind)
		return nil
	}

	w := &ast.Word{Text: c.b.stream.Text(t.First)}
	w.Range = c.b.span(t.First, t.First)
	c.b.leading(w, t.First, shares)
	return w
}

// optional consumes a word when the next child has one of the types.
func (c *cursor) optional(types ...parser.TokenType) *ast.Word {
	if c.is(types...) {
		return c.word()
	}
	return nil
}

// words consumes a run of words of the given types.
func (c *cursor) words(types ...parser.TokenType) []*ast.Word {
	var words []*ast.Word
	for c.is(types...) {
		words = append(words, c.word())
	}
	return words
}

// path consumes the path of a rule unless the next child is one of the
// keywords that start a path-less rule.
func (c *cursor) path(keywords ...parser.TokenType) *ast.Word {
	if c.is(keywords...) {
		return nil
	}
	return c.word()
}

// str consumes a string token.
func (c *cursor) str() *ast.StringValue {
	if !c.is(parser.STRING) {
		if t := c.peek(); t != nil {
			c.err = c.b.errorf(t.First, "expected string")
		} else {
			c.next()
		}
		return nil
	}

	t, shares := c.next()
	v := c.b.stringValue(t.First)
	c.b.leading(v, t.First, shares)
	return v
}

// text consumes a string or multi-line string token.
func (c *cursor) text() ast.Value {
	if !c.is(parser.MULTILINESTRING) {
		if s := c.str(); s != nil {
			return s
		}
		return nil
	}

	t, shares := c.next()
	v := c.b.multilineValue(t.First)
	c.b.leading(v, t.First, shares)
	return v
}

func (c *cursor) value() ast.Value {
	t, shares := c.next()
	if t == nil {
		return nil
	}
	v, err := c.b.value(t, shares)
	if err != nil {
		c.err = err
		return nil
	}
	return v
}

func (c *cursor) items() []*ast.Item {
	var items []*ast.Item
	for c.isTree(parser.ItemTree) {
		t, _ := c.next()
		item, err := c.b.item(t, len(items))
		if err != nil {
			c.err = err
			return nil
		}
		items = append(items, item)
	}
	return items
}

func (c *cursor) containsItems() []*ast.ContainsItem {
	var items []*ast.ContainsItem
	for c.isTree(parser.ContainsItemTree) {
		t, _ := c.next()
		item, err := c.b.containsItem(t, len(items))
		if err != nil {
			c.err = err
			return nil
		}
		items = append(items, item)
	}
	return items
}

func (c *cursor) sources() []*ast.ComponentSource {
	var sources []*ast.ComponentSource
	for c.isTree(parser.ComponentSourceTree) {
		t, _ := c.next()
		source, err := c.b.componentSource(t, len(sources))
		if err != nil {
			c.err = err
			return nil
		}
		sources = append(sources, source)
	}
	return sources
}

func (c *cursor) filters() []*ast.ComponentFilter {
	var filters []*ast.ComponentFilter
	for c.isTree(parser.ComponentFilterTree) {
		t, _ := c.next()
		filter, err := c.b.componentFilter(t, len(filters))
		if err != nil {
			c.err = err
			return nil
		}
		filters = append(filters, filter)
	}
	return filters
}

// finish reports the first error, or any child left unconsumed.
func (c *cursor) finish(parent *parser.Tree) error {
	if c.err != nil {
		return c.err
	}
	if c.pos < len(c.trees) {
		t := c.trees[c.pos]
		return c.b.errorf(t.First, "unexpected %s in %s", t.Kind, parent.Kind)
	}
	return nil
}
