package ast

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestNodeKind(t *testing.T) {
	assert.Equal(t, "Profile", ProfileKind.String())
	assert.Equal(t, "NodeKind(250)", NodeKind(250).String())
	assert.True(t, ProfileKind.IsEntity())
	assert.True(t, CardRuleKind.IsRule())
	assert.True(t, ComponentRuleKind.IsRule())
	assert.False(t, ItemKind.IsRule())
	assert.True(t, NameValueKind.IsValue())
	assert.False(t, WordKind.IsValue())
}

func TestRuleClearHidden(t *testing.T) {
	r := NewCardRule("name", "1..1")
	r.Break = BreakCRLF
	r.Indent = "  "
	r.SetLeading(Hidden{NewComment("// c")})

	r.ClearHidden()

	assert.Equal(t, BreakDefault, r.Break)
	assert.Equal(t, "  ", r.Indent)
	assert.True(t, r.Leading().IsEmpty())
}

func TestLineBreakText(t *testing.T) {
	assert.Equal(t, "\n", BreakLF.Text())
	assert.Equal(t, "\r\n", BreakCRLF.Text())
	assert.Equal(t, "", BreakNone.Text())
	assert.Equal(t, "", BreakDefault.Text())
}

func TestWordString(t *testing.T) {
	var w *Word
	assert.Equal(t, "", w.String())
	assert.Equal(t, "MS", NewWord("MS").String())
}

func TestMetadataKey(t *testing.T) {
	m := &Metadata{Keyword: NewWord("Parent :")}
	assert.Equal(t, "Parent", m.Key())
}
