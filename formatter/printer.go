package formatter

import (
	"fmt"
	"strings"

	"github.com/robinvdvleuten/shorthand/ast"
)

// printer renders one tree into a buffer. Every node writes its leading
// tokens (or the default separator), its own text and children, then its
// trailing tokens.
type printer struct {
	f   *Formatter
	buf strings.Builder
}

func (p *printer) write(s string) {
	p.buf.WriteString(s)
}

// hidden writes captured tokens, or def when there are none. Defaults are
// never written at the very start of the output.
func (p *printer) hidden(h ast.Hidden, def string) {
	if !p.f.Canonical && !h.IsEmpty() {
		p.write(h.Text())
		return
	}
	if p.buf.Len() > 0 {
		p.write(def)
	}
}

// sep returns the default separator in front of a node within a line.
func sep(first bool) string {
	if first {
		return ""
	}
	return " "
}

func (p *printer) node(n ast.Node) error {
	switch n := n.(type) {
	case *ast.Document:
		return p.document(n)
	case ast.Entity:
		return p.entity(n, true)
	case *ast.Metadata:
		return p.metadata(n)
	case ast.Rule:
		return p.rule(n)
	case *ast.Word:
		p.word(n, true)
		return nil
	case *ast.Item:
		p.item(n, 0, "", true)
		return nil
	case *ast.ContainsItem:
		p.containsItem(n, 0, true)
		return nil
	case *ast.ComponentSource:
		p.componentSource(n, 0, true)
		return nil
	case *ast.ComponentFilter:
		return p.componentFilter(n, 0, true)
	case ast.Value:
		return p.value(n, true)
	}
	return unknown(n)
}

func (p *printer) document(doc *ast.Document) error {
	p.hidden(doc.Leading(), "")

	for i, e := range doc.Entities {
		if err := p.entity(e, i == 0); err != nil {
			return err
		}
	}

	def := ""
	if len(doc.Entities) > 0 {
		def = p.f.LineBreak
	}
	p.hidden(doc.Trailing(), def)
	return nil
}

func (p *printer) entity(e ast.Entity, first bool) error {
	def := ""
	if !first {
		def = strings.Repeat(p.f.LineBreak, 1+p.f.EntitySpacing)
	}
	p.hidden(e.Leading(), def)

	h := e.Header()
	p.keyword(h.Keyword, ast.EntityKeyword(e.Kind()), true)
	p.word(h.Name, false)

	switch e := e.(type) {
	case *ast.Alias:
		p.keyword(e.Equals, "=", false)
		p.word(e.Value, false)
	case *ast.RuleSet:
		p.word(e.Params, false)
	case *ast.Profile, *ast.Extension, *ast.Logical, *ast.Resource, *ast.Instance,
		*ast.Invariant, *ast.ValueSet, *ast.CodeSystem, *ast.Mapping:
	default:
		return unknown(e)
	}
	p.hidden(e.Trailing(), "")

	for _, m := range h.Metadata {
		if err := p.metadata(m); err != nil {
			return err
		}
	}
	for _, r := range h.Rules {
		if err := p.rule(r); err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) metadata(m *ast.Metadata) error {
	if m.Keyword == nil {
		return fmt.Errorf("formatter: metadata without keyword")
	}

	p.hidden(m.Leading(), p.f.LineBreak)
	p.word(m.Keyword, true)
	for _, v := range m.Values {
		if err := p.value(v, false); err != nil {
			return err
		}
	}
	p.hidden(m.Trailing(), "")
	return nil
}

func (p *printer) rule(r ast.Rule) error {
	base := r.Marker()
	p.hidden(r.Leading(), "")
	p.marker(base)
	p.word(base.Path, false)

	switch r := r.(type) {
	case *ast.PathRule:

	case *ast.CardRule:
		p.word(r.Card, false)
		p.words(r.Flags)

	case *ast.FlagRule:
		p.words(r.Flags)

	case *ast.BindingRule:
		p.keyword(r.From, "from", false)
		p.word(r.ValueSet, false)
		p.word(r.Strength, false)

	case *ast.AssignmentRule:
		p.keyword(r.Equals, "=", false)
		if err := p.value(r.Value, false); err != nil {
			return err
		}
		p.word(r.Exactly, false)

	case *ast.OnlyRule:
		p.keyword(r.Only, "only", false)
		p.items(r.Types, "or")

	case *ast.ContainsRule:
		p.keyword(r.Contains, "contains", false)
		for i, item := range r.Items {
			p.containsItem(item, i, false)
		}

	case *ast.CaretValueRule:
		p.word(r.Caret, false)
		p.keyword(r.Equals, "=", false)
		if err := p.value(r.Value, false); err != nil {
			return err
		}
		p.word(r.Exactly, false)

	case *ast.ObeysRule:
		p.keyword(r.Obeys, "obeys", false)
		p.items(r.Invariants, "and")

	case *ast.InsertRule:
		p.keyword(r.Insert, "insert", false)
		p.word(r.RuleSet, false)
		p.word(r.Params, false)

	case *ast.AddElementRule:
		p.word(r.Card, false)
		p.words(r.Flags)
		p.items(r.Types, "or")
		p.str(r.Short)
		if err := p.value(r.Definition, false); err != nil {
			return err
		}

	case *ast.MappingRule:
		p.keyword(r.Arrow, "->", false)
		p.str(r.Target)
		p.str(r.Comment)
		p.word(r.Language, false)

	case *ast.ConceptRule:
		p.words(r.Codes)
		p.str(r.Display)
		if err := p.value(r.Definition, false); err != nil {
			return err
		}

	case *ast.CodeCaretValueRule:
		p.words(r.Codes)
		p.word(r.Caret, false)
		p.keyword(r.Equals, "=", false)
		if err := p.value(r.Value, false); err != nil {
			return err
		}

	case *ast.ComponentRule:
		p.word(r.Action, false)
		p.word(r.Codes, false)
		if r.Concept != nil {
			if err := p.value(r.Concept, false); err != nil {
				return err
			}
		}
		if len(r.Sources) > 0 {
			p.keyword(r.From, "from", false)
		}
		for i, s := range r.Sources {
			p.componentSource(s, i, false)
		}
		if len(r.Filters) > 0 {
			p.keyword(r.Where, "where", false)
		}
		for i, f := range r.Filters {
			if err := p.componentFilter(f, i, false); err != nil {
				return err
			}
		}

	default:
		return unknown(r)
	}

	p.hidden(r.Trailing(), "")
	return nil
}

// marker writes the line break, indentation and '*' of a rule.
func (p *printer) marker(base *ast.RuleBase) {
	brk := base.Break
	if p.f.Canonical {
		brk = ast.BreakDefault
	}

	indent := base.Indent
	switch brk {
	case ast.BreakDefault:
		if p.buf.Len() > 0 {
			p.write(p.f.LineBreak)
		}
		if indent == "" {
			indent = p.f.Indent
		}
	case ast.BreakNone:
	default:
		p.write(brk.Text())
	}

	p.write(indent)
	p.write("*")
}

// word writes an optional word.
func (p *printer) word(w *ast.Word, first bool) {
	if w == nil {
		return
	}
	p.hidden(w.Leading(), sep(first))
	p.write(w.Text)
	p.hidden(w.Trailing(), "")
}

// keyword writes a required word, using its canonical text when the word
// is missing.
func (p *printer) keyword(w *ast.Word, canonical string, first bool) {
	if w != nil {
		p.word(w, first)
		return
	}
	if p.buf.Len() > 0 {
		p.write(sep(first))
	}
	p.write(canonical)
}

func (p *printer) words(ws []*ast.Word) {
	for _, w := range ws {
		p.word(w, false)
	}
}

func (p *printer) items(items []*ast.Item, separator string) {
	for i, item := range items {
		p.item(item, i, separator, false)
	}
}

func (p *printer) item(item *ast.Item, index int, separator string, first bool) {
	p.hidden(item.Leading(), sep(first))
	switch {
	case item.Separator != nil:
		p.word(item.Separator, true)
		p.word(item.Value, false)
	case index > 0:
		p.write(separator)
		p.word(item.Value, false)
	default:
		p.word(item.Value, true)
	}
	p.hidden(item.Trailing(), "")
}

func (p *printer) containsItem(item *ast.ContainsItem, index int, first bool) {
	p.hidden(item.Leading(), sep(first))
	lead := p.separator(item.Separator, index)
	p.word(item.Name, lead)
	if item.Alias != nil {
		p.keyword(item.Named, "named", false)
		p.word(item.Alias, false)
	}
	p.word(item.Card, false)
	p.words(item.Flags)
	p.hidden(item.Trailing(), "")
}

func (p *printer) componentSource(s *ast.ComponentSource, index int, first bool) {
	p.hidden(s.Leading(), sep(first))
	lead := p.separator(s.Separator, index)
	if s.Keyword != nil {
		p.word(s.Keyword, lead)
		lead = false
	}
	p.word(s.Name, lead)
	p.hidden(s.Trailing(), "")
}

func (p *printer) componentFilter(f *ast.ComponentFilter, index int, first bool) error {
	p.hidden(f.Leading(), sep(first))
	p.word(f.Property, p.separator(f.Separator, index))
	p.word(f.Operator, false)
	if err := p.value(f.Value, false); err != nil {
		return err
	}
	p.hidden(f.Trailing(), "")
	return nil
}

// separator writes the "and" in front of a list entry and reports whether
// the next word is the first of the entry.
func (p *printer) separator(w *ast.Word, index int) bool {
	switch {
	case w != nil:
		p.word(w, true)
		return false
	case index > 0:
		p.write("and")
		return false
	default:
		return true
	}
}

// str writes an optional string value.
func (p *printer) str(s *ast.StringValue) {
	if s != nil {
		p.stringValue(s, false)
	}
}

func (p *printer) stringValue(s *ast.StringValue, first bool) {
	p.hidden(s.Leading(), sep(first))
	p.write(p.f.formatString(s))
	p.hidden(s.Trailing(), "")
}

// value writes an optional value.
func (p *printer) value(v ast.Value, first bool) error {
	if v == nil {
		return nil
	}

	if s, ok := v.(*ast.StringValue); ok {
		if s != nil {
			p.stringValue(s, first)
		}
		return nil
	}

	p.hidden(v.Leading(), sep(first))

	switch v := v.(type) {
	case *ast.MultilineStringValue:
		p.write(p.f.formatMultiline(v))
	case *ast.NumberValue:
		p.write(v.Raw)
	case *ast.BoolValue:
		if v.Value {
			p.write("true")
		} else {
			p.write("false")
		}
	case *ast.CodeValue:
		p.write(v.Code)
		p.str(v.Display)
	case *ast.QuantityValue:
		p.write(v.Number)
		p.word(v.Unit, false)
		p.str(v.Display)
	case *ast.ReferenceValue:
		p.write(v.Raw)
		p.str(v.Display)
	case *ast.CanonicalValue:
		p.write(v.Raw)
	case *ast.NameValue:
		p.write(v.Name)
	default:
		return unknown(v)
	}

	p.hidden(v.Trailing(), "")
	return nil
}
