package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func childKinds(tree *Tree) []TreeKind {
	kinds := make([]TreeKind, len(tree.Children))
	for i, child := range tree.Children {
		kinds[i] = child.Kind
	}
	return kinds
}

func TestParseEntityStructure(t *testing.T) {
	source := `Alias: $SCT = http://snomed.info/sct

Profile: MyPatient
Parent: Patient
Title: "My Patient"
* name 1..1 MS
* gender = #male
`
	file := MustParseString(context.Background(), source)

	doc := file.Tree
	assert.Equal(t, DocumentTree, doc.Kind)
	assert.Equal(t, []TreeKind{EntityTree, EntityTree}, childKinds(doc))
	assert.Equal(t, EOF, file.Stream.Get(doc.Last).Type)

	alias := doc.Children[0]
	assert.Equal(t, []TreeKind{HeaderTree}, childKinds(alias))
	assert.Equal(t, 4, len(alias.Children[0].Children))

	profile := doc.Children[1]
	assert.Equal(t, []TreeKind{HeaderTree, MetadataTree, MetadataTree, CardRuleTree, AssignmentRuleTree}, childKinds(profile))
	assert.Equal(t, PROFILE, file.Stream.Get(profile.First).Type)
	assert.Equal(t, profile.Children[4].Last, profile.Last)
}

func TestParseRuleKinds(t *testing.T) {
	tests := []struct {
		name   string
		entity string
		rule   string
		want   TreeKind
	}{
		{"card", "Profile: P", "* name 1..1", CardRuleTree},
		{"card with flags", "Profile: P", "* name 1..1 MS SU", CardRuleTree},
		{"flags", "Profile: P", "* name MS ?!", FlagRuleTree},
		{"binding", "Profile: P", "* code from MyVS (required)", BindingRuleTree},
		{"binding without strength", "Profile: P", "* code from MyVS", BindingRuleTree},
		{"assignment", "Instance: I", `* name.family = "Doe"`, AssignmentRuleTree},
		{"assignment exactly", "Profile: P", "* code = #a (exactly)", AssignmentRuleTree},
		{"assignment quantity", "Instance: I", `* valueQuantity = 5 'mg' "milligram"`, AssignmentRuleTree},
		{"only", "Profile: P", "* value[x] only string or Quantity", OnlyRuleTree},
		{"only reference", "Profile: P", "* subject only Reference(Patient or Group)", OnlyRuleTree},
		{"contains", "Profile: P", "* extension contains foo 0..1 MS and bar named baz 1..*", ContainsRuleTree},
		{"caret", "Profile: P", `* ^status = #draft`, CaretValueRuleTree},
		{"caret with path", "Profile: P", `* name ^short = "Name"`, CaretValueRuleTree},
		{"obeys", "Profile: P", "* obeys inv-1", ObeysRuleTree},
		{"obeys with path", "Profile: P", "* name obeys inv-1 and inv-2", ObeysRuleTree},
		{"insert", "Profile: P", "* insert MyRuleSet", InsertRuleTree},
		{"insert with params", "Profile: P", "* insert MyRuleSet(a, b)", InsertRuleTree},
		{"insert with path", "Profile: P", "* name insert MyRuleSet", InsertRuleTree},
		{"path", "Instance: I", "* name", PathRuleTree},
		{"keyword as path", "Instance: I", `* system = "http://x"`, AssignmentRuleTree},
		{"add element", "Logical: L", `* item 0..* BackboneElement "Item" "An item"`, AddElementRuleTree},
		{"add element with choice", "Logical: L", `* value[x] 0..1 MS string or integer "Value"`, AddElementRuleTree},
		{"mapping", "Mapping: M", `* name -> "Patient.name" "comment" #lang`, MappingRuleTree},
		{"mapping without path", "Mapping: M", `* -> "Patient"`, MappingRuleTree},
		{"concept", "CodeSystem: C", `* #a "A" "The letter a"`, ConceptRuleTree},
		{"concept hierarchy", "CodeSystem: C", `* #a #b "B"`, ConceptRuleTree},
		{"code caret", "CodeSystem: C", `* #a ^designation.value = "x"`, CodeCaretValueRuleTree},
		{"component code", "ValueSet: V", `* SCT#123 "Display"`, ComponentRuleTree},
		{"component include", "ValueSet: V", `* include codes from system SCT where concept is-a #123`, ComponentRuleTree},
		{"component exclude", "ValueSet: V", `* exclude codes from valueset A and B`, ComponentRuleTree},
		{"component from both", "ValueSet: V", `* include codes from system SCT and valueset VS`, ComponentRuleTree},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := ParseString(context.Background(), tt.entity+"\n"+tt.rule+"\n")
			assert.NoError(t, err)

			entity := file.Tree.Children[0]
			assert.Equal(t, 2, len(entity.Children))
			assert.Equal(t, tt.want, entity.Children[1].Kind)
		})
	}
}

func TestParseContainsItems(t *testing.T) {
	file := MustParseString(context.Background(), "Profile: P\n* extension contains foo 0..1 MS and bar named baz 1..*\n")

	rule := file.Tree.Children[0].Children[1]
	assert.Equal(t, []TreeKind{TerminalTree, TerminalTree, TerminalTree, ContainsItemTree, ContainsItemTree}, childKinds(rule))

	first := rule.Children[3]
	assert.Equal(t, 3, len(first.Children)) // foo 0..1 MS

	second := rule.Children[4]
	assert.Equal(t, 5, len(second.Children)) // and bar named baz 1..*
	assert.Equal(t, AND, file.Stream.Get(second.First).Type)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		message string
		line    int
		column  int
	}{
		{
			name:    "rule outside entity",
			source:  "* name 1..1\n",
			message: "expected entity declaration but got '*'",
			line:    1,
			column:  1,
		},
		{
			name:    "extra header token",
			source:  "Profile: A B\n",
			message: `unexpected "B"`,
			line:    1,
			column:  12,
		},
		{
			name:    "missing name",
			source:  "Profile:\n* name MS\n",
			message: "expected name after Profile: but got '*'",
			line:    2,
			column:  1,
		},
		{
			name:    "metadata after rules",
			source:  "Profile: A\n* name MS\nParent: Patient\n",
			message: `metadata "Parent:" must precede the rules of an entity`,
			line:    3,
			column:  1,
		},
		{
			name:    "unterminated string",
			source:  "Instance: I\n* name = \"open\n",
			message: `unterminated "\"open\n"`,
			line:    2,
			column:  10,
		},
		{
			name:    "missing equals after caret",
			source:  "Profile: A\n* ^short \"x\"\n",
			message: `expected '=' after caret path but got "\"x\""`,
			line:    2,
			column:  10,
		},
		{
			name:    "empty metadata",
			source:  "Profile: A\nParent:\n",
			message: "expected value after Parent: but got end of file",
			line:    3,
			column:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(context.Background(), tt.source)
			assert.Error(t, err)

			var perr *ParseError
			assert.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.message, perr.Message)
			assert.Equal(t, tt.line, perr.Pos.Line)
			assert.Equal(t, tt.column, perr.Pos.Column)
		})
	}
}

func TestParseEmptyDocument(t *testing.T) {
	file := MustParseString(context.Background(), "// only a comment\n")
	assert.Equal(t, 0, len(file.Tree.Children))
	assert.Equal(t, file.Tree.First, file.Tree.Last)
	assert.Equal(t, EOF, file.Stream.Get(file.Tree.First).Type)
}

func TestParseErrorString(t *testing.T) {
	_, err := Parse(context.Background(), "profiles.fsh", []byte("Profile: A B\n"))
	assert.EqualError(t, err, `profiles.fsh:1:12: unexpected "B"`)
}
