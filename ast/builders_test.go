package ast

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func TestNewProfile(t *testing.T) {
	p := NewProfile("MyPatient",
		WithParent("Patient"),
		WithTitle("My Patient"),
		WithRules(
			NewCardRule("name", "1..*", "MS"),
			NewBindingRule("gender", "GenderVS", "required"),
		),
	)

	assert.Equal(t, ProfileKind, p.Kind())
	assert.Equal(t, "Profile:", p.Keyword.Text)
	assert.Equal(t, "MyPatient", p.NameText())
	assert.Equal(t, 2, len(p.Metadata))
	assert.Equal(t, "Patient", p.Lookup("Parent").Values[0].(*NameValue).Name)
	assert.Equal(t, "My Patient", p.Lookup("Title").Values[0].(*StringValue).Value)
	assert.Zero(t, p.Lookup("Id"))
	assert.Equal(t, 2, len(p.Rules))
	assert.Equal(t, "(required)", p.Rules[1].(*BindingRule).Strength.Text)
}

func TestNewInstance(t *testing.T) {
	i := NewInstance("Jane", "Patient", WithRules(NewAssignmentRule("name.given", NewString("Jane"))))

	assert.Equal(t, "InstanceOf", i.Metadata[0].Key())
	assert.Equal(t, "name.given", i.Rules[0].Marker().PathText())
}

func TestNewRuleSet(t *testing.T) {
	rs := NewRuleSet("Publisher", []string{"name", "url"})
	assert.Equal(t, "Publisher(name, url)", rs.NameText())
	assert.Equal(t, []string{"name", "url"}, rs.ParamNames())

	plain := NewRuleSet("Common", nil)
	assert.Equal(t, "Common", plain.NameText())
	assert.Equal(t, 0, len(plain.ParamNames()))
}

func TestNewRules(t *testing.T) {
	t.Run("OnlySeparators", func(t *testing.T) {
		r := NewOnlyRule("value[x]", "string", "Quantity")
		assert.Zero(t, r.Types[0].Separator)
		assert.Equal(t, "or", r.Types[1].Separator.Text)
	})

	t.Run("ContainsSeparators", func(t *testing.T) {
		r := NewContainsRule("extension", NewContainsItem("a", "0..1"), NewContainsItem("b", "1..1", "MS"))
		assert.Zero(t, r.Items[0].Separator)
		assert.Equal(t, "and", r.Items[1].Separator.Text)
		assert.Equal(t, "MS", r.Items[1].Flags[0].Text)
	})

	t.Run("CaretPrefix", func(t *testing.T) {
		assert.Equal(t, "^short", NewCaretValueRule("name", "short", NewString("x")).Caret.Text)
		assert.Equal(t, "^short", NewCaretValueRule("", "^short", NewString("x")).Caret.Text)
		assert.Zero(t, NewCaretValueRule("", "status", NewCode("", "draft")).Path)
	})

	t.Run("ConceptDefinitionNeedsDisplay", func(t *testing.T) {
		r := NewConceptRule("a", "", "ignored")
		assert.Zero(t, r.Display)
		assert.Zero(t, r.Definition)
		assert.Equal(t, "#a", r.Codes[0].Text)
	})
}

func TestNewValues(t *testing.T) {
	assert.Equal(t, "#active", NewCode("", "active").Code)
	assert.Equal(t, `$SCT#"two words"`, NewCode("$SCT", "two words").Code)
	assert.Equal(t, "Display", NewCodeWithDisplay("$SCT", "1", "Display").Display.Value)
	assert.Equal(t, "42", NewNumber(decimal.NewFromInt(42)).Raw)
	assert.Equal(t, "Reference(A or B)", NewReference("A", "B").Raw)
	assert.Equal(t, "Canonical(X)", NewCanonical("X").Raw)
	assert.True(t, NewBool(true).Value)
}
