// Package ast declares the types used to represent syntax trees for FHIR
// Shorthand files.
//
// Every node records its source range and two ordered lists of hidden tokens
// (whitespace, line breaks and comments): the ones that belong before the
// node and the ones that belong after it. Together with the significant
// tokens the nodes own, these lists partition the source exactly, which is
// what lets the formatter regenerate a parsed file byte for byte.
//
// A tree can be produced by the builder package from parsed source, or
// constructed programmatically with the New* constructors. Nodes built in
// code carry no hidden tokens and are rendered with canonical spacing.
package ast

import "fmt"

// NodeKind identifies the concrete type of a node.
type NodeKind uint8

const (
	InvalidKind NodeKind = iota

	DocumentKind
	WordKind
	MetadataKind

	// Entities
	AliasKind
	ProfileKind
	ExtensionKind
	LogicalKind
	ResourceKind
	InstanceKind
	InvariantKind
	ValueSetKind
	CodeSystemKind
	RuleSetKind
	MappingKind

	// Rules
	CardRuleKind
	FlagRuleKind
	BindingRuleKind
	AssignmentRuleKind
	OnlyRuleKind
	ContainsRuleKind
	CaretValueRuleKind
	ObeysRuleKind
	InsertRuleKind
	PathRuleKind
	AddElementRuleKind
	MappingRuleKind
	ConceptRuleKind
	CodeCaretValueRuleKind
	ComponentRuleKind

	// Rule parts
	ItemKind
	ContainsItemKind
	ComponentSourceKind
	ComponentFilterKind

	// Values
	StringValueKind
	MultilineStringValueKind
	NumberValueKind
	BoolValueKind
	CodeValueKind
	QuantityValueKind
	ReferenceValueKind
	CanonicalValueKind
	NameValueKind
)

var kindNames = [...]string{
	InvalidKind:              "Invalid",
	DocumentKind:             "Document",
	WordKind:                 "Word",
	MetadataKind:             "Metadata",
	AliasKind:                "Alias",
	ProfileKind:              "Profile",
	ExtensionKind:            "Extension",
	LogicalKind:              "Logical",
	ResourceKind:             "Resource",
	InstanceKind:             "Instance",
	InvariantKind:            "Invariant",
	ValueSetKind:             "ValueSet",
	CodeSystemKind:           "CodeSystem",
	RuleSetKind:              "RuleSet",
	MappingKind:              "Mapping",
	CardRuleKind:             "CardRule",
	FlagRuleKind:             "FlagRule",
	BindingRuleKind:          "BindingRule",
	AssignmentRuleKind:       "AssignmentRule",
	OnlyRuleKind:             "OnlyRule",
	ContainsRuleKind:         "ContainsRule",
	CaretValueRuleKind:       "CaretValueRule",
	ObeysRuleKind:            "ObeysRule",
	InsertRuleKind:           "InsertRule",
	PathRuleKind:             "PathRule",
	AddElementRuleKind:       "AddElementRule",
	MappingRuleKind:          "MappingRule",
	ConceptRuleKind:          "ConceptRule",
	CodeCaretValueRuleKind:   "CodeCaretValueRule",
	ComponentRuleKind:        "ComponentRule",
	ItemKind:                 "Item",
	ContainsItemKind:         "ContainsItem",
	ComponentSourceKind:      "ComponentSource",
	ComponentFilterKind:      "ComponentFilter",
	StringValueKind:          "StringValue",
	MultilineStringValueKind: "MultilineStringValue",
	NumberValueKind:          "NumberValue",
	BoolValueKind:            "BoolValue",
	CodeValueKind:            "CodeValue",
	QuantityValueKind:        "QuantityValue",
	ReferenceValueKind:       "ReferenceValue",
	CanonicalValueKind:       "CanonicalValue",
	NameValueKind:            "NameValue",
}

func (k NodeKind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", uint8(k))
}

// IsEntity reports whether nodes of this kind are entities.
func (k NodeKind) IsEntity() bool {
	return k >= AliasKind && k <= MappingKind
}

// IsRule reports whether nodes of this kind are rules.
func (k NodeKind) IsRule() bool {
	return k >= CardRuleKind && k <= ComponentRuleKind
}

// IsValue reports whether nodes of this kind are values.
func (k NodeKind) IsValue() bool {
	return k >= StringValueKind && k <= NameValueKind
}

// Node is implemented by every AST node.
type Node interface {
	// Span returns the source range the node covers. Zero for nodes built
	// in code.
	Span() Range

	// SetSpan sets the source range. Used by the builder.
	SetSpan(Range)

	// Leading returns the hidden tokens that precede the node.
	Leading() Hidden

	// Trailing returns the hidden tokens that follow the node on its line.
	Trailing() Hidden

	SetLeading(Hidden)
	SetTrailing(Hidden)

	// ClearHidden drops both hidden lists so the node is rendered with
	// canonical spacing. Children are not affected; see ClearHidden.
	ClearHidden()

	Kind() NodeKind
}

// Base carries the range and hidden token lists shared by all nodes.
// Embed it to implement most of Node.
type Base struct {
	Range          Range
	LeadingHidden  Hidden
	TrailingHidden Hidden
}

func (b *Base) Span() Range          { return b.Range }
func (b *Base) SetSpan(r Range)      { b.Range = r }
func (b *Base) Leading() Hidden      { return b.LeadingHidden }
func (b *Base) Trailing() Hidden     { return b.TrailingHidden }
func (b *Base) SetLeading(h Hidden)  { b.LeadingHidden = h }
func (b *Base) SetTrailing(h Hidden) { b.TrailingHidden = h }

func (b *Base) ClearHidden() {
	b.LeadingHidden = nil
	b.TrailingHidden = nil
}

// Document is the root of a parsed file. Its leading tokens are the hidden
// tokens before the first entity; its trailing tokens are everything after
// the last significant token.
type Document struct {
	Base
	Filename string
	Entities []Entity
}

func (d *Document) Kind() NodeKind { return DocumentKind }

// AddEntity appends entities to the document.
func (d *Document) AddEntity(e ...Entity) {
	d.Entities = append(d.Entities, e...)
}

// Word is a single significant token inside a line: a keyword, a path, a
// flag, a cardinality or a name. Text is the exact source text.
type Word struct {
	Base
	Text string
}

func (w *Word) Kind() NodeKind { return WordKind }

// String returns the word text, or "" for a nil word.
func (w *Word) String() string {
	if w == nil {
		return ""
	}
	return w.Text
}
