package ast

// Constructor functions for programmatically building FSH syntax trees.
// These make it easy to generate FSH from code, for example when converting
// from another format. Nodes built here carry no hidden tokens and no source
// range; the formatter renders them with canonical spacing.

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NewDocument creates a document holding the given entities.
//
// Example:
//
//	doc := ast.NewDocument(
//	    ast.NewProfile("MyPatient", ast.WithParent("Patient")),
//	)
func NewDocument(entities ...Entity) *Document {
	return &Document{Entities: entities}
}

// EntityOption is a functional option for configuring an entity.
type EntityOption func(*EntityBase)

// WithMetadata appends metadata clauses.
func WithMetadata(metadata ...*Metadata) EntityOption {
	return func(e *EntityBase) {
		e.AddMetadata(metadata...)
	}
}

// WithRules appends rules.
func WithRules(rules ...Rule) EntityOption {
	return func(e *EntityBase) {
		e.AddRule(rules...)
	}
}

// WithParent adds a "Parent:" clause.
func WithParent(parent string) EntityOption {
	return WithMetadata(NewMetadata("Parent", NewName(parent)))
}

// WithID adds an "Id:" clause.
func WithID(id string) EntityOption {
	return WithMetadata(NewMetadata("Id", NewName(id)))
}

// WithTitle adds a "Title:" clause.
func WithTitle(title string) EntityOption {
	return WithMetadata(NewMetadata("Title", NewString(title)))
}

// WithDescription adds a "Description:" clause.
func WithDescription(description string) EntityOption {
	return WithMetadata(NewMetadata("Description", NewString(description)))
}

func newEntityBase(kind NodeKind, name string, opts []EntityOption) EntityBase {
	e := EntityBase{
		Keyword: NewWord(EntityKeyword(kind)),
		Name:    NewWord(name),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// NewAlias creates an alias declaration.
//
// Example:
//
//	alias := ast.NewAlias("$SCT", "http://snomed.info/sct")
func NewAlias(name, value string) *Alias {
	return &Alias{
		EntityBase: newEntityBase(AliasKind, name, nil),
		Equals:     NewWord("="),
		Value:      NewWord(value),
	}
}

// NewProfile creates a profile.
//
// Example:
//
//	profile := ast.NewProfile("MyPatient",
//	    ast.WithParent("Patient"),
//	    ast.WithRules(ast.NewCardRule("name", "1..*", "MS")),
//	)
func NewProfile(name string, opts ...EntityOption) *Profile {
	return &Profile{newEntityBase(ProfileKind, name, opts)}
}

// NewExtension creates an extension.
func NewExtension(name string, opts ...EntityOption) *Extension {
	return &Extension{newEntityBase(ExtensionKind, name, opts)}
}

// NewLogical creates a logical model.
func NewLogical(name string, opts ...EntityOption) *Logical {
	return &Logical{newEntityBase(LogicalKind, name, opts)}
}

// NewResource creates a custom resource.
func NewResource(name string, opts ...EntityOption) *Resource {
	return &Resource{newEntityBase(ResourceKind, name, opts)}
}

// NewInstance creates an instance of the given profile or resource.
//
// Example:
//
//	jane := ast.NewInstance("Jane", "Patient",
//	    ast.WithRules(ast.NewAssignmentRule("name.given", ast.NewString("Jane"))),
//	)
func NewInstance(name, instanceOf string, opts ...EntityOption) *Instance {
	opts = append([]EntityOption{WithMetadata(NewMetadata("InstanceOf", NewName(instanceOf)))}, opts...)
	return &Instance{newEntityBase(InstanceKind, name, opts)}
}

// NewInvariant creates an invariant.
func NewInvariant(name string, opts ...EntityOption) *Invariant {
	return &Invariant{newEntityBase(InvariantKind, name, opts)}
}

// NewValueSet creates a value set.
func NewValueSet(name string, opts ...EntityOption) *ValueSet {
	return &ValueSet{newEntityBase(ValueSetKind, name, opts)}
}

// NewCodeSystem creates a code system.
func NewCodeSystem(name string, opts ...EntityOption) *CodeSystem {
	return &CodeSystem{newEntityBase(CodeSystemKind, name, opts)}
}

// NewRuleSet creates a rule set. Parameter names, if any, are written as
// part of the name.
//
// Example:
//
//	rs := ast.NewRuleSet("Publisher", []string{"name"},
//	    ast.WithRules(ast.NewCaretValueRule("", "publisher", ast.NewString("{name}"))),
//	)
func NewRuleSet(name string, params []string, opts ...EntityOption) *RuleSet {
	if len(params) > 0 {
		name += "(" + strings.Join(params, ", ") + ")"
	}
	return &RuleSet{EntityBase: newEntityBase(RuleSetKind, name, opts)}
}

// NewMapping creates a mapping.
func NewMapping(name string, opts ...EntityOption) *Mapping {
	return &Mapping{newEntityBase(MappingKind, name, opts)}
}

// NewWord creates a word with the given text.
func NewWord(text string) *Word {
	return &Word{Text: text}
}

// NewMetadata creates a metadata clause. The key is given without colon.
//
// Example:
//
//	m := ast.NewMetadata("Parent", ast.NewName("Patient"))
func NewMetadata(key string, values ...Value) *Metadata {
	return &Metadata{
		Keyword: NewWord(key + ":"),
		Values:  values,
	}
}

func newRuleBase(path string) RuleBase {
	r := RuleBase{}
	if path != "" {
		r.Path = NewWord(path)
	}
	return r
}

func newWords(texts []string) []*Word {
	if len(texts) == 0 {
		return nil
	}
	words := make([]*Word, len(texts))
	for i, text := range texts {
		words[i] = NewWord(text)
	}
	return words
}

func newItems(sep string, values []string) []*Item {
	items := make([]*Item, len(values))
	for i, value := range values {
		items[i] = &Item{Value: NewWord(value)}
		if i > 0 {
			items[i].Separator = NewWord(sep)
		}
	}
	return items
}

// NewCardRule creates a cardinality rule.
//
// Example:
//
//	rule := ast.NewCardRule("name", "1..*", "MS")
func NewCardRule(path, card string, flags ...string) *CardRule {
	return &CardRule{
		RuleBase: newRuleBase(path),
		Card:     NewWord(card),
		Flags:    newWords(flags),
	}
}

// NewFlagRule creates a flag rule.
func NewFlagRule(path string, flags ...string) *FlagRule {
	return &FlagRule{
		RuleBase: newRuleBase(path),
		Flags:    newWords(flags),
	}
}

// NewBindingRule creates a binding rule. Strength is given without
// parentheses ("required") and may be empty.
func NewBindingRule(path, valueSet, strength string) *BindingRule {
	r := &BindingRule{
		RuleBase: newRuleBase(path),
		From:     NewWord("from"),
		ValueSet: NewWord(valueSet),
	}
	if strength != "" {
		r.Strength = NewWord("(" + strength + ")")
	}
	return r
}

// NewAssignmentRule creates an assignment rule.
//
// Example:
//
//	rule := ast.NewAssignmentRule("status", ast.NewCode("", "active"))
func NewAssignmentRule(path string, value Value) *AssignmentRule {
	return &AssignmentRule{
		RuleBase: newRuleBase(path),
		Equals:   NewWord("="),
		Value:    value,
	}
}

// NewOnlyRule creates a type constraint rule.
func NewOnlyRule(path string, types ...string) *OnlyRule {
	return &OnlyRule{
		RuleBase: newRuleBase(path),
		Only:     NewWord("only"),
		Types:    newItems("or", types),
	}
}

// NewContainsRule creates a contains rule. Separators are added to the
// items as needed.
func NewContainsRule(path string, items ...*ContainsItem) *ContainsRule {
	for i, item := range items {
		if i > 0 && item.Separator == nil {
			item.Separator = NewWord("and")
		}
	}
	return &ContainsRule{
		RuleBase: newRuleBase(path),
		Contains: NewWord("contains"),
		Items:    items,
	}
}

// NewContainsItem creates a slice for a contains rule.
func NewContainsItem(name, card string, flags ...string) *ContainsItem {
	return &ContainsItem{
		Name:  NewWord(name),
		Card:  NewWord(card),
		Flags: newWords(flags),
	}
}

// NewCaretValueRule creates a caret value rule. The caret path may be
// given with or without its '^'; path may be empty.
func NewCaretValueRule(path, caret string, value Value) *CaretValueRule {
	if !strings.HasPrefix(caret, "^") {
		caret = "^" + caret
	}
	return &CaretValueRule{
		RuleBase: newRuleBase(path),
		Caret:    NewWord(caret),
		Equals:   NewWord("="),
		Value:    value,
	}
}

// NewObeysRule creates an obeys rule; path may be empty.
func NewObeysRule(path string, invariants ...string) *ObeysRule {
	return &ObeysRule{
		RuleBase:   newRuleBase(path),
		Obeys:      NewWord("obeys"),
		Invariants: newItems("and", invariants),
	}
}

// NewInsertRule creates an insert rule; path may be empty.
func NewInsertRule(path, ruleSet string) *InsertRule {
	return &InsertRule{
		RuleBase: newRuleBase(path),
		Insert:   NewWord("insert"),
		RuleSet:  NewWord(ruleSet),
	}
}

// NewPathRule creates a path rule.
func NewPathRule(path string) *PathRule {
	return &PathRule{RuleBase: newRuleBase(path)}
}

// NewMappingRule creates a mapping rule; path may be empty.
func NewMappingRule(path, target string) *MappingRule {
	return &MappingRule{
		RuleBase: newRuleBase(path),
		Arrow:    NewWord("->"),
		Target:   NewString(target),
	}
}

// NewConceptRule creates a concept rule. Display and definition may be
// empty; a definition without display is not representable in FSH and is
// dropped.
//
// Example:
//
//	rule := ast.NewConceptRule("active", "Active", "The record is in use")
func NewConceptRule(code, display, definition string) *ConceptRule {
	r := &ConceptRule{Codes: []*Word{NewWord("#" + code)}}
	if display != "" {
		r.Display = NewString(display)
		if definition != "" {
			r.Definition = NewString(definition)
		}
	}
	return r
}

// NewIncludeRule creates a value set component including all codes of a
// system.
func NewIncludeRule(system string) *ComponentRule {
	return &ComponentRule{
		Action:  NewWord("include"),
		Codes:   NewWord("codes"),
		From:    NewWord("from"),
		Sources: []*ComponentSource{{Keyword: NewWord("system"), Name: NewWord(system)}},
	}
}

// NewString creates a string value. The formatter quotes and escapes it.
func NewString(s string) *StringValue {
	return &StringValue{Value: s}
}

// NewMultilineString creates a triple-quoted string value.
func NewMultilineString(s string) *MultilineStringValue {
	return &MultilineStringValue{Value: s}
}

// NewNumber creates a number value from an exact decimal.
func NewNumber(d decimal.Decimal) *NumberValue {
	return &NumberValue{Raw: d.String()}
}

// NewBool creates a boolean value.
func NewBool(b bool) *BoolValue {
	return &BoolValue{Value: b}
}

// NewCode creates a code value. System may be empty or an alias.
//
// Example:
//
//	code := ast.NewCode("$SCT", "123456")
func NewCode(system, code string) *CodeValue {
	if strings.ContainsAny(code, " \t") {
		code = `"` + code + `"`
	}
	return &CodeValue{Code: system + "#" + code}
}

// NewCodeWithDisplay creates a code value with a display string.
func NewCodeWithDisplay(system, code, display string) *CodeValue {
	v := NewCode(system, code)
	v.Display = NewString(display)
	return v
}

// NewQuantity creates a quantity with a UCUM unit.
func NewQuantity(d decimal.Decimal, unit string) *QuantityValue {
	return &QuantityValue{
		Number: d.String(),
		Unit:   NewWord("'" + unit + "'"),
	}
}

// NewReference creates a reference to one or more targets.
func NewReference(targets ...string) *ReferenceValue {
	return &ReferenceValue{Raw: "Reference(" + strings.Join(targets, " or ") + ")"}
}

// NewCanonical creates a canonical reference.
func NewCanonical(target string) *CanonicalValue {
	return &CanonicalValue{Raw: "Canonical(" + target + ")"}
}

// NewName creates a bare name value.
func NewName(name string) *NameValue {
	return &NameValue{Name: name}
}
