package parser

import (
	"fmt"
	"strings"
)

// TreeKind identifies the grammar production a parse tree node was built from.
type TreeKind uint8

const (
	TerminalTree TreeKind = iota

	DocumentTree
	EntityTree
	HeaderTree
	MetadataTree

	// Rules
	CardRuleTree
	FlagRuleTree
	BindingRuleTree
	AssignmentRuleTree
	OnlyRuleTree
	ContainsRuleTree
	CaretValueRuleTree
	ObeysRuleTree
	InsertRuleTree
	PathRuleTree
	AddElementRuleTree
	MappingRuleTree
	ConceptRuleTree
	CodeCaretValueRuleTree
	ComponentRuleTree

	// Rule parts
	ItemTree
	ContainsItemTree
	ComponentSourceTree
	ComponentFilterTree

	// Values
	StringTree
	MultilineStringTree
	NumberTree
	BoolTree
	CodeTree
	QuantityTree
	ReferenceTree
	CanonicalTree
	NameTree
)

var treeKindNames = [...]string{
	TerminalTree:           "Terminal",
	DocumentTree:           "Document",
	EntityTree:             "Entity",
	HeaderTree:             "Header",
	MetadataTree:           "Metadata",
	CardRuleTree:           "CardRule",
	FlagRuleTree:           "FlagRule",
	BindingRuleTree:        "BindingRule",
	AssignmentRuleTree:     "AssignmentRule",
	OnlyRuleTree:           "OnlyRule",
	ContainsRuleTree:       "ContainsRule",
	CaretValueRuleTree:     "CaretValueRule",
	ObeysRuleTree:          "ObeysRule",
	InsertRuleTree:         "InsertRule",
	PathRuleTree:           "PathRule",
	AddElementRuleTree:     "AddElementRule",
	MappingRuleTree:        "MappingRule",
	ConceptRuleTree:        "ConceptRule",
	CodeCaretValueRuleTree: "CodeCaretValueRule",
	ComponentRuleTree:      "ComponentRule",
	ItemTree:               "Item",
	ContainsItemTree:       "ContainsItem",
	ComponentSourceTree:    "ComponentSource",
	ComponentFilterTree:    "ComponentFilter",
	StringTree:             "String",
	MultilineStringTree:    "MultilineString",
	NumberTree:             "Number",
	BoolTree:               "Bool",
	CodeTree:               "Code",
	QuantityTree:           "Quantity",
	ReferenceTree:          "Reference",
	CanonicalTree:          "Canonical",
	NameTree:               "Name",
}

func (k TreeKind) String() string {
	if int(k) < len(treeKindNames) && treeKindNames[k] != "" {
		return treeKindNames[k]
	}
	return fmt.Sprintf("TreeKind(%d)", uint8(k))
}

// IsRule reports whether trees of this kind represent a rule line.
func (k TreeKind) IsRule() bool {
	return k >= CardRuleTree && k <= ComponentRuleTree
}

// IsValue reports whether trees of this kind represent a value.
func (k TreeKind) IsValue() bool {
	return k >= StringTree && k <= NameTree
}

// Tree is a node of the concrete parse tree. First and Last are indices of
// the first and last significant tokens the node covers. A terminal wraps a
// single token, so First == Last and it has no children.
type Tree struct {
	Kind     TreeKind
	First    int
	Last     int
	Children []*Tree
}

// IsTerminal reports whether the node wraps a single token.
func (t *Tree) IsTerminal() bool {
	return t.Kind == TerminalTree
}

// Child returns the i-th child, or nil when out of range.
func (t *Tree) Child(i int) *Tree {
	if i < 0 || i >= len(t.Children) {
		return nil
	}
	return t.Children[i]
}

// Dump renders the tree with token text, one node per line. Used in tests
// and by the doctor command.
func (t *Tree) Dump(stream *TokenStream) string {
	var sb strings.Builder
	t.dump(&sb, stream, 0)
	return sb.String()
}

func (t *Tree) dump(sb *strings.Builder, stream *TokenStream, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if t.IsTerminal() {
		tok := stream.Get(t.First)
		fmt.Fprintf(sb, "%s %q\n", tok.Type, stream.Text(t.First))
		return
	}
	fmt.Fprintf(sb, "%s [%d..%d]\n", t.Kind, t.First, t.Last)
	for _, child := range t.Children {
		child.dump(sb, stream, depth+1)
	}
}
