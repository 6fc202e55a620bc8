package ast

// Rule is the interface implemented by all rule lines. The set of
// implementations is closed.
type Rule interface {
	Node
	Marker() *RuleBase
	ruleNode()
}

// LineBreak records the line break a rule marker was written with.
type LineBreak uint8

const (
	// BreakDefault lets the formatter choose: its configured line break,
	// or nothing at the start of the output.
	BreakDefault LineBreak = iota
	// BreakNone means the marker had no line break of its own; the
	// preceding hidden tokens end the previous line.
	BreakNone
	BreakLF
	BreakCRLF
)

// Text returns the literal break, or "" for BreakDefault and BreakNone.
func (b LineBreak) Text() string {
	switch b {
	case BreakLF:
		return "\n"
	case BreakCRLF:
		return "\r\n"
	default:
		return ""
	}
}

func (b LineBreak) String() string {
	switch b {
	case BreakNone:
		return "none"
	case BreakLF:
		return "LF"
	case BreakCRLF:
		return "CRLF"
	default:
		return "default"
	}
}

// RuleBase holds the marker of a rule line ("\n  *") and its path. The
// range of a rule starts at the '*'.
type RuleBase struct {
	Base
	Break  LineBreak
	Indent string
	Path   *Word // nil for rules without a path ("* ^status = #draft")
}

func (r *RuleBase) Marker() *RuleBase { return r }
func (r *RuleBase) ruleNode()         {}

// ClearHidden drops the hidden tokens and the recorded line break. The
// indent is kept since it carries the nesting of indented rules.
func (r *RuleBase) ClearHidden() {
	r.Base.ClearHidden()
	r.Break = BreakDefault
}

// PathText returns the path, or "" when the rule has none.
func (r *RuleBase) PathText() string {
	return r.Path.String()
}

// Item is one entry of a separated list: the types of an only rule or the
// invariants of an obeys rule. Every item after the first owns the
// separator word before it.
type Item struct {
	Base
	Separator *Word // "or" / "and", nil for the first item
	Value     *Word
}

func (i *Item) Kind() NodeKind { return ItemKind }

// CardRule sets the cardinality of an element.
//
//	Profile: MyPatient
//	* name 1..* MS
type CardRule struct {
	RuleBase
	Card  *Word
	Flags []*Word
}

func (r *CardRule) Kind() NodeKind { return CardRuleKind }

// FlagRule sets flags on an element.
//
//	Profile: MyPatient
//	* name MS SU
type FlagRule struct {
	RuleBase
	Flags []*Word
}

func (r *FlagRule) Kind() NodeKind { return FlagRuleKind }

// BindingRule binds an element to a value set.
//
//	Profile: MyObservation
//	* code from MyValueSet (required)
type BindingRule struct {
	RuleBase
	From     *Word
	ValueSet *Word
	Strength *Word // "(required)", optional
}

func (r *BindingRule) Kind() NodeKind { return BindingRuleKind }

// AssignmentRule assigns a value to an element.
//
//	Profile: MyCondition
//	* status = #active (exactly)
type AssignmentRule struct {
	RuleBase
	Equals  *Word
	Value   Value
	Exactly *Word // optional
}

func (r *AssignmentRule) Kind() NodeKind { return AssignmentRuleKind }

// OnlyRule restricts the types of an element.
//
//	Profile: MyObservation
//	* value[x] only string or Quantity
type OnlyRule struct {
	RuleBase
	Only  *Word
	Types []*Item
}

func (r *OnlyRule) Kind() NodeKind { return OnlyRuleKind }

// ContainsRule defines slices or extensions.
//
//	Profile: MyPatient
//	* extension contains foo 0..1 MS and bar named baz 1..*
type ContainsRule struct {
	RuleBase
	Contains *Word
	Items    []*ContainsItem
}

func (r *ContainsRule) Kind() NodeKind { return ContainsRuleKind }

// ContainsItem is one slice of a contains rule.
type ContainsItem struct {
	Base
	Separator *Word // "and", nil for the first item
	Name      *Word
	Named     *Word // optional "named"
	Alias     *Word // slice name after "named"
	Card      *Word
	Flags     []*Word
}

func (i *ContainsItem) Kind() NodeKind { return ContainsItemKind }

// CaretValueRule sets a property of the element definition or of the
// structure itself when there is no path.
//
//	Profile: MyPatient
//	* name ^short = "Name"
type CaretValueRule struct {
	RuleBase
	Caret   *Word
	Equals  *Word
	Value   Value
	Exactly *Word
}

func (r *CaretValueRule) Kind() NodeKind { return CaretValueRuleKind }

// ObeysRule attaches invariants to an element.
//
//	Profile: MyPatient
//	* name obeys inv-1 and inv-2
type ObeysRule struct {
	RuleBase
	Obeys      *Word
	Invariants []*Item
}

func (r *ObeysRule) Kind() NodeKind { return ObeysRuleKind }

// InsertRule inserts the rules of a rule set.
//
//	Profile: MyPatient
//	* insert Publisher("ACME")
type InsertRule struct {
	RuleBase
	Insert  *Word
	RuleSet *Word
	Params  *Word // parameter list written apart from the name, optional
}

func (r *InsertRule) Kind() NodeKind { return InsertRuleKind }

// PathRule names a path without changing it, typically to anchor indented
// child rules.
//
//	Profile: MyPatient
//	* name
type PathRule struct {
	RuleBase
}

func (r *PathRule) Kind() NodeKind { return PathRuleKind }

// AddElementRule declares a new element in a logical model or resource.
//
//	Logical: MyList
//	* item 0..* BackboneElement "Item" "An item of the list"
type AddElementRule struct {
	RuleBase
	Card       *Word
	Flags      []*Word
	Types      []*Item
	Short      *StringValue
	Definition Value // *StringValue or *MultilineStringValue, optional
}

func (r *AddElementRule) Kind() NodeKind { return AddElementRuleKind }

// MappingRule maps a path onto a target expression.
//
//	Mapping: PatientToV2
//	* name -> "PID-5" "Patient name" #lang
type MappingRule struct {
	RuleBase
	Arrow    *Word
	Target   *StringValue
	Comment  *StringValue // optional
	Language *Word        // optional code
}

func (r *MappingRule) Kind() NodeKind { return MappingRuleKind }

// ConceptRule defines a concept of a code system. Several codes describe
// a hierarchy path.
//
//	CodeSystem: MyCodes
//	* #parent #child "Child" "A child concept"
type ConceptRule struct {
	RuleBase
	Codes      []*Word
	Display    *StringValue // optional
	Definition Value        // *StringValue or *MultilineStringValue, optional
}

func (r *ConceptRule) Kind() NodeKind { return ConceptRuleKind }

// CodeCaretValueRule sets a property of a concept.
//
//	CodeSystem: MyCodes
//	* #active ^designation.value = "Active"
type CodeCaretValueRule struct {
	RuleBase
	Codes  []*Word
	Caret  *Word
	Equals *Word
	Value  Value
}

func (r *CodeCaretValueRule) Kind() NodeKind { return CodeCaretValueRuleKind }

// ComponentRule includes or excludes codes in a value set, either a single
// concept or a filtered selection.
//
//	ValueSet: MyCodes
//	* include codes from system $SCT where concept is-a #123
//	* exclude $SCT#456 "Display"
type ComponentRule struct {
	RuleBase
	Action  *Word      // "include" / "exclude", optional
	Codes   *Word      // "codes" for filter components
	Concept *CodeValue // concept components
	From    *Word
	Sources []*ComponentSource
	Where   *Word
	Filters []*ComponentFilter
}

func (r *ComponentRule) Kind() NodeKind { return ComponentRuleKind }

// IsExclude reports whether the component removes codes.
func (r *ComponentRule) IsExclude() bool {
	return r.Action.String() == "exclude"
}

// ComponentSource is a "system X" or "valueset Y" clause of a component.
type ComponentSource struct {
	Base
	Separator *Word // "and", nil for the first source
	Keyword   *Word // "system" / "valueset"; may be omitted after "and"
	Name      *Word
}

func (s *ComponentSource) Kind() NodeKind { return ComponentSourceKind }

// ComponentFilter is a "property operator value" clause after "where".
type ComponentFilter struct {
	Base
	Separator *Word // "and", nil for the first filter
	Property  *Word
	Operator  *Word
	Value     Value // optional
}

func (f *ComponentFilter) Kind() NodeKind { return ComponentFilterKind }

var (
	_ Rule = (*CardRule)(nil)
	_ Rule = (*FlagRule)(nil)
	_ Rule = (*BindingRule)(nil)
	_ Rule = (*AssignmentRule)(nil)
	_ Rule = (*OnlyRule)(nil)
	_ Rule = (*ContainsRule)(nil)
	_ Rule = (*CaretValueRule)(nil)
	_ Rule = (*ObeysRule)(nil)
	_ Rule = (*InsertRule)(nil)
	_ Rule = (*PathRule)(nil)
	_ Rule = (*AddElementRule)(nil)
	_ Rule = (*MappingRule)(nil)
	_ Rule = (*ConceptRule)(nil)
	_ Rule = (*CodeCaretValueRule)(nil)
	_ Rule = (*ComponentRule)(nil)
)
