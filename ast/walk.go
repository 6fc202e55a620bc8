package ast

// Children returns the direct children of n in source order. Optional
// parts that are absent are skipped.
func Children(n Node) []Node {
	var c children

	switch n := n.(type) {
	case *Document:
		for _, e := range n.Entities {
			c.node(e)
		}

	case Entity:
		h := n.Header()
		c.word(h.Keyword)
		c.word(h.Name)
		switch e := n.(type) {
		case *Alias:
			c.word(e.Equals)
			c.word(e.Value)
		case *RuleSet:
			c.word(e.Params)
		}
		for _, m := range h.Metadata {
			c.node(m)
		}
		for _, r := range h.Rules {
			c.node(r)
		}

	case *Metadata:
		c.word(n.Keyword)
		c.values(n.Values...)

	case Rule:
		ruleChildren(&c, n)

	case *Item:
		c.word(n.Separator)
		c.word(n.Value)

	case *ContainsItem:
		c.word(n.Separator)
		c.word(n.Name)
		c.word(n.Named)
		c.word(n.Alias)
		c.word(n.Card)
		c.words(n.Flags)

	case *ComponentSource:
		c.word(n.Separator)
		c.word(n.Keyword)
		c.word(n.Name)

	case *ComponentFilter:
		c.word(n.Separator)
		c.word(n.Property)
		c.word(n.Operator)
		c.values(n.Value)

	case *CodeValue:
		c.str(n.Display)

	case *QuantityValue:
		c.word(n.Unit)
		c.str(n.Display)

	case *ReferenceValue:
		c.str(n.Display)
	}

	return c.list
}

func ruleChildren(c *children, r Rule) {
	c.word(r.Marker().Path)

	switch r := r.(type) {
	case *CardRule:
		c.word(r.Card)
		c.words(r.Flags)
	case *FlagRule:
		c.words(r.Flags)
	case *BindingRule:
		c.word(r.From)
		c.word(r.ValueSet)
		c.word(r.Strength)
	case *AssignmentRule:
		c.word(r.Equals)
		c.values(r.Value)
		c.word(r.Exactly)
	case *OnlyRule:
		c.word(r.Only)
		c.items(r.Types)
	case *ContainsRule:
		c.word(r.Contains)
		for _, item := range r.Items {
			c.node(item)
		}
	case *CaretValueRule:
		c.word(r.Caret)
		c.word(r.Equals)
		c.values(r.Value)
		c.word(r.Exactly)
	case *ObeysRule:
		c.word(r.Obeys)
		c.items(r.Invariants)
	case *InsertRule:
		c.word(r.Insert)
		c.word(r.RuleSet)
		c.word(r.Params)
	case *AddElementRule:
		c.word(r.Card)
		c.words(r.Flags)
		c.items(r.Types)
		c.str(r.Short)
		c.values(r.Definition)
	case *MappingRule:
		c.word(r.Arrow)
		c.str(r.Target)
		c.str(r.Comment)
		c.word(r.Language)
	case *ConceptRule:
		c.words(r.Codes)
		c.str(r.Display)
		c.values(r.Definition)
	case *CodeCaretValueRule:
		c.words(r.Codes)
		c.word(r.Caret)
		c.word(r.Equals)
		c.values(r.Value)
	case *ComponentRule:
		c.word(r.Action)
		c.word(r.Codes)
		if r.Concept != nil {
			c.node(r.Concept)
		}
		c.word(r.From)
		for _, s := range r.Sources {
			c.node(s)
		}
		c.word(r.Where)
		for _, f := range r.Filters {
			c.node(f)
		}
	}
}

// children collects child nodes, dropping nil pointers so no typed nil
// ever ends up behind a Node interface.
type children struct {
	list []Node
}

func (c *children) node(n Node) { c.list = append(c.list, n) }

func (c *children) word(w *Word) {
	if w != nil {
		c.list = append(c.list, w)
	}
}

func (c *children) words(ws []*Word) {
	for _, w := range ws {
		c.word(w)
	}
}

func (c *children) str(s *StringValue) {
	if s != nil {
		c.list = append(c.list, s)
	}
}

func (c *children) values(vs ...Value) {
	for _, v := range vs {
		if v != nil {
			c.list = append(c.list, v)
		}
	}
}

func (c *children) items(items []*Item) {
	for _, item := range items {
		c.list = append(c.list, item)
	}
}

// Walk traverses the tree rooted at n depth-first in source order. If fn
// returns false the children of that node are skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range Children(n) {
		Walk(child, fn)
	}
}

// Inspect calls fn for every node of the tree in source order.
func Inspect(n Node, fn func(Node)) {
	Walk(n, func(n Node) bool {
		fn(n)
		return true
	})
}

// ClearHidden drops the hidden tokens of n and all its descendants, so the
// whole subtree is rendered with canonical spacing.
func ClearHidden(n Node) {
	Inspect(n, func(n Node) {
		n.ClearHidden()
	})
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n Node) int {
	count := 0
	Inspect(n, func(Node) { count++ })
	return count
}
