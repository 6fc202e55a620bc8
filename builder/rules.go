package builder

import (
	"strings"

	"github.com/robinvdvleuten/shorthand/ast"
	"github.com/robinvdvleuten/shorthand/parser"
)

func (b *builder) rule(tree *parser.Tree, prev ast.Rule) (ast.Rule, error) {
	star := tree.Child(0)
	if star == nil || !star.IsTerminal() || b.stream.Get(star.First).Type != parser.STAR {
		return nil, b.errorf(tree.First, "%s does not start with a rule marker", tree.Kind)
	}

	base := b.marker(star.First, tree.Last, prev)
	c := b.cursor(tree.Children[1:], false)

	var rule ast.Rule
	switch tree.Kind {
	case parser.PathRuleTree:
		r := &ast.PathRule{RuleBase: base}
		r.Path = c.word()
		rule = r

	case parser.CardRuleTree:
		r := &ast.CardRule{RuleBase: base}
		r.Path = c.word()
		r.Card = c.word()
		r.Flags = c.words(parser.FLAG)
		rule = r

	case parser.FlagRuleTree:
		r := &ast.FlagRule{RuleBase: base}
		r.Path = c.word()
		r.Flags = c.words(parser.FLAG)
		rule = r

	case parser.BindingRuleTree:
		r := &ast.BindingRule{RuleBase: base}
		r.Path = c.word()
		r.From = c.word()
		r.ValueSet = c.word()
		r.Strength = c.optional(parser.STRENGTH)
		rule = r

	case parser.AssignmentRuleTree:
		r := &ast.AssignmentRule{RuleBase: base}
		r.Path = c.word()
		r.Equals = c.word()
		r.Value = c.value()
		r.Exactly = c.optional(parser.EXACTLY)
		rule = r

	case parser.OnlyRuleTree:
		r := &ast.OnlyRule{RuleBase: base}
		r.Path = c.word()
		r.Only = c.word()
		r.Types = c.items()
		rule = r

	case parser.ContainsRuleTree:
		r := &ast.ContainsRule{RuleBase: base}
		r.Path = c.word()
		r.Contains = c.word()
		r.Items = c.containsItems()
		rule = r

	case parser.CaretValueRuleTree:
		r := &ast.CaretValueRule{RuleBase: base}
		r.Path = c.path(parser.CARET)
		r.Caret = c.word()
		r.Equals = c.word()
		r.Value = c.value()
		r.Exactly = c.optional(parser.EXACTLY)
		rule = r

	case parser.ObeysRuleTree:
		r := &ast.ObeysRule{RuleBase: base}
		r.Path = c.path(parser.OBEYS)
		r.Obeys = c.word()
		r.Invariants = c.items()
		rule = r

	case parser.InsertRuleTree:
		r := &ast.InsertRule{RuleBase: base}
		r.Path = c.path(parser.INSERT)
		r.Insert = c.word()
		r.RuleSet = c.word()
		if !c.done() {
			r.Params = c.word()
		}
		rule = r

	case parser.AddElementRuleTree:
		r := &ast.AddElementRule{RuleBase: base}
		r.Path = c.word()
		r.Card = c.word()
		r.Flags = c.words(parser.FLAG)
		r.Types = c.items()
		r.Short = c.str()
		if !c.done() {
			r.Definition = c.text()
		}
		rule = r

	case parser.MappingRuleTree:
		r := &ast.MappingRule{RuleBase: base}
		r.Path = c.path(parser.ARROW)
		r.Arrow = c.word()
		r.Target = c.str()
		if c.is(parser.STRING) {
			r.Comment = c.str()
		}
		r.Language = c.optional(parser.CODE)
		rule = r

	case parser.ConceptRuleTree:
		r := &ast.ConceptRule{RuleBase: base}
		r.Codes = c.words(parser.CODE)
		if c.is(parser.STRING) {
			r.Display = c.str()
		}
		if !c.done() {
			r.Definition = c.text()
		}
		rule = r

	case parser.CodeCaretValueRuleTree:
		r := &ast.CodeCaretValueRule{RuleBase: base}
		r.Codes = c.words(parser.CODE)
		r.Caret = c.word()
		r.Equals = c.word()
		r.Value = c.value()
		rule = r

	case parser.ComponentRuleTree:
		r := &ast.ComponentRule{RuleBase: base}
		r.Action = c.optional(parser.INCLUDE, parser.EXCLUDE)
		if c.is(parser.CODES) {
			r.Codes = c.word()
		} else if c.isTree(parser.CodeTree) {
			if code, ok := c.value().(*ast.CodeValue); ok {
				r.Concept = code
			}
		}
		r.From = c.optional(parser.FROM)
		r.Sources = c.sources()
		r.Where = c.optional(parser.WHERE)
		r.Filters = c.filters()
		rule = r

	default:
		return nil, b.errorf(tree.First, "unknown rule %s", tree.Kind)
	}

	if err := c.finish(tree); err != nil {
		return nil, err
	}

	rule.SetTrailing(b.capture.Trailing(tree.Last))
	return rule, nil
}

// marker builds the shared part of a rule from its marker token.
//
// A marker token may start with a line comment that stood on a line of its
// own before the rule. That comment is given to the previous rule of the
// entity as trailing tokens, together with the unclaimed tokens in front of
// it. The first rule of an entity keeps it as leading tokens instead,
// followed by the marker's own line break.
func (b *builder) marker(star, last int, prev ast.Rule) ast.RuleBase {
	tok := b.stream.Get(star)
	comment, brk, indent := splitMarker(b.stream.Text(star))

	var base ast.RuleBase
	base.Range = b.rangeOf(tok.End-1, b.stream.Get(last).End)
	base.Break = lineBreak(brk)
	base.Indent = indent

	leading := b.capture.Leading(star)
	if comment == "" {
		base.LeadingHidden = leading
		return base
	}

	note := ast.HiddenToken{Kind: ast.CommentLine, Text: comment, TokenIndex: star}
	if prev != nil {
		trailing := append(prev.Trailing().Clone(), leading...)
		prev.SetTrailing(append(trailing, note))
		return base
	}

	base.LeadingHidden = append(leading, note, ast.HiddenToken{
		Kind:       ast.Whitespace,
		Text:       brk,
		TokenIndex: star,
	})
	base.Break = ast.BreakNone
	return base
}

// splitMarker splits the text of a marker token into its leading line
// comment, its line break and the indentation before '*'.
func splitMarker(text string) (comment, brk, indent string) {
	rest := text
	if strings.HasPrefix(rest, "//") {
		nl := strings.IndexByte(rest, '\n')
		if nl < 0 {
			return rest, "", ""
		}
		end := nl
		if end > 0 && rest[end-1] == '\r' {
			end--
		}
		comment = rest[:end]
		rest = rest[end:]
	}

	switch {
	case strings.HasPrefix(rest, "\r\n"):
		brk = "\r\n"
	case strings.HasPrefix(rest, "\n"):
		brk = "\n"
	}
	rest = rest[len(brk):]

	return comment, brk, strings.TrimSuffix(rest, "*")
}

func lineBreak(brk string) ast.LineBreak {
	switch brk {
	case "\n":
		return ast.BreakLF
	case "\r\n":
		return ast.BreakCRLF
	default:
		return ast.BreakNone
	}
}

func (b *builder) item(t *parser.Tree, index int) (*ast.Item, error) {
	item := &ast.Item{}
	item.Range = b.span(t.First, t.Last)
	b.leading(item, t.First, false)

	c := b.cursor(t.Children, true)
	if index > 0 {
		item.Separator = c.word()
	}
	item.Value = c.word()

	return item, c.finish(t)
}

func (b *builder) containsItem(t *parser.Tree, index int) (*ast.ContainsItem, error) {
	item := &ast.ContainsItem{}
	item.Range = b.span(t.First, t.Last)
	b.leading(item, t.First, false)

	c := b.cursor(t.Children, true)
	if index > 0 {
		item.Separator = c.word()
	}
	item.Name = c.word()
	if item.Named = c.optional(parser.NAMED); item.Named != nil {
		item.Alias = c.word()
	}
	item.Card = c.word()
	item.Flags = c.words(parser.FLAG)

	return item, c.finish(t)
}

func (b *builder) componentSource(t *parser.Tree, index int) (*ast.ComponentSource, error) {
	source := &ast.ComponentSource{}
	source.Range = b.span(t.First, t.Last)
	b.leading(source, t.First, false)

	c := b.cursor(t.Children, true)
	if index > 0 {
		source.Separator = c.word()
	}
	if len(t.Children)-c.pos > 1 {
		source.Keyword = c.word()
	}
	source.Name = c.word()

	return source, c.finish(t)
}

func (b *builder) componentFilter(t *parser.Tree, index int) (*ast.ComponentFilter, error) {
	filter := &ast.ComponentFilter{}
	filter.Range = b.span(t.First, t.Last)
	b.leading(filter, t.First, false)

	c := b.cursor(t.Children, true)
	if index > 0 {
		filter.Separator = c.word()
	}
	filter.Property = c.word()
	filter.Operator = c.word()
	if !c.done() {
		filter.Value = c.value()
	}

	return filter, c.finish(t)
}
