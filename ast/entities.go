package ast

import "strings"

// Entity is the interface implemented by all top-level FSH declarations.
// The set of implementations is closed.
type Entity interface {
	Node
	Header() *EntityBase
	entityNode()
}

// EntityBase holds what every entity has: the keyword and name of its
// header line, metadata clauses and rules. Its trailing tokens are the
// hidden tokens left on the header line.
type EntityBase struct {
	Base
	Keyword  *Word // "Profile:", or nil for the canonical keyword
	Name     *Word
	Metadata []*Metadata
	Rules    []Rule
}

func (e *EntityBase) Header() *EntityBase { return e }
func (e *EntityBase) entityNode()         {}

// NameText returns the entity name.
func (e *EntityBase) NameText() string {
	return e.Name.String()
}

// AddMetadata appends metadata clauses.
func (e *EntityBase) AddMetadata(m ...*Metadata) {
	e.Metadata = append(e.Metadata, m...)
}

// AddRule appends rules.
func (e *EntityBase) AddRule(r ...Rule) {
	e.Rules = append(e.Rules, r...)
}

// Lookup returns the first metadata clause with the given key ("Parent",
// "Title"), or nil.
func (e *EntityBase) Lookup(key string) *Metadata {
	for _, m := range e.Metadata {
		if m.Key() == key {
			return m
		}
	}
	return nil
}

// Alias binds a short name to a URL.
//
// Example:
//
//	Alias: $SCT = http://snomed.info/sct
type Alias struct {
	EntityBase
	Equals *Word
	Value  *Word
}

func (a *Alias) Kind() NodeKind { return AliasKind }

// Profile constrains a FHIR resource or data type.
//
// Example:
//
//	Profile: MyPatient
//	Parent: Patient
//	* name 1..* MS
type Profile struct{ EntityBase }

func (p *Profile) Kind() NodeKind { return ProfileKind }

// Extension defines a FHIR extension.
//
// Example:
//
//	Extension: BirthSex
//	Id: birthsex
//	* value[x] only code
type Extension struct{ EntityBase }

func (e *Extension) Kind() NodeKind { return ExtensionKind }

// Logical defines a logical model.
type Logical struct{ EntityBase }

func (l *Logical) Kind() NodeKind { return LogicalKind }

// Resource defines a custom resource.
type Resource struct{ EntityBase }

func (r *Resource) Kind() NodeKind { return ResourceKind }

// Instance defines an example or definitional instance.
//
// Example:
//
//	Instance: Jane
//	InstanceOf: MyPatient
//	* name.given = "Jane"
type Instance struct{ EntityBase }

func (i *Instance) Kind() NodeKind { return InstanceKind }

// Invariant declares a constraint referenced by obeys rules.
type Invariant struct{ EntityBase }

func (i *Invariant) Kind() NodeKind { return InvariantKind }

// ValueSet defines a value set through include and exclude components.
type ValueSet struct{ EntityBase }

func (v *ValueSet) Kind() NodeKind { return ValueSetKind }

// CodeSystem defines a code system through concept rules.
type CodeSystem struct{ EntityBase }

func (c *CodeSystem) Kind() NodeKind { return CodeSystemKind }

// RuleSet is a reusable group of rules, optionally parameterized.
//
// Example:
//
//	RuleSet: Publisher(name)
//	* ^publisher = "{name}"
type RuleSet struct {
	EntityBase
	Params *Word // "(a, b)" when written apart from the name
}

func (r *RuleSet) Kind() NodeKind { return RuleSetKind }

// ParamNames returns the declared parameter names, whether the list is
// attached to the name or written separately.
func (r *RuleSet) ParamNames() []string {
	text := r.Params.String()
	if text == "" {
		if idx := strings.IndexByte(r.NameText(), '('); idx >= 0 {
			text = r.NameText()[idx:]
		}
	}
	return splitParams(text)
}

// Mapping maps elements of a profile onto another specification.
type Mapping struct{ EntityBase }

func (m *Mapping) Kind() NodeKind { return MappingKind }

// Metadata is a "Keyword: value" clause under an entity header.
type Metadata struct {
	Base
	Keyword *Word // "Parent:", or nil when built in code without one
	Values  []Value
}

func (m *Metadata) Kind() NodeKind { return MetadataKind }

// Key returns the keyword without its colon.
func (m *Metadata) Key() string {
	return strings.TrimSpace(strings.TrimSuffix(m.Keyword.String(), ":"))
}

// entityKeywords maps entity kinds to their canonical header keywords.
var entityKeywords = map[NodeKind]string{
	AliasKind:      "Alias:",
	ProfileKind:    "Profile:",
	ExtensionKind:  "Extension:",
	LogicalKind:    "Logical:",
	ResourceKind:   "Resource:",
	InstanceKind:   "Instance:",
	InvariantKind:  "Invariant:",
	ValueSetKind:   "ValueSet:",
	CodeSystemKind: "CodeSystem:",
	RuleSetKind:    "RuleSet:",
	MappingKind:    "Mapping:",
}

// EntityKeyword returns the canonical header keyword for an entity kind.
func EntityKeyword(kind NodeKind) string {
	return entityKeywords[kind]
}

// splitParams splits "(a, b)" into its trimmed parts.
func splitParams(text string) []string {
	text = strings.TrimSpace(text)
	if len(text) < 2 || text[0] != '(' || text[len(text)-1] != ')' {
		return nil
	}
	inner := strings.TrimSpace(text[1 : len(text)-1])
	if inner == "" {
		return nil
	}

	var params []string
	for _, part := range strings.Split(inner, ",") {
		params = append(params, strings.TrimSpace(part))
	}
	return params
}

var (
	_ Entity = (*Alias)(nil)
	_ Entity = (*Profile)(nil)
	_ Entity = (*Extension)(nil)
	_ Entity = (*Logical)(nil)
	_ Entity = (*Resource)(nil)
	_ Entity = (*Instance)(nil)
	_ Entity = (*Invariant)(nil)
	_ Entity = (*ValueSet)(nil)
	_ Entity = (*CodeSystem)(nil)
	_ Entity = (*RuleSet)(nil)
	_ Entity = (*Mapping)(nil)
)
