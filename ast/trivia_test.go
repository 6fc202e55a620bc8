package ast

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestHiddenText(t *testing.T) {
	h := Hidden{
		NewWhitespace("  "),
		NewComment("// note"),
		NewWhitespace("\n"),
	}

	assert.Equal(t, "  // note\n", h.Text())
	assert.True(t, h.HasLineBreak())
	assert.Equal(t, 1, len(h.Comments()))
	assert.Equal(t, CommentLine, h.Comments()[0].Kind)
}

func TestHiddenGlue(t *testing.T) {
	h := Hidden{Glue()}

	assert.False(t, h.IsEmpty())
	assert.Equal(t, "", h.Text())
	assert.True(t, h[0].IsGlue())
	assert.Equal(t, NoIndex, h[0].TokenIndex)
	assert.True(t, Hidden(nil).IsEmpty())
}

func TestNewComment(t *testing.T) {
	assert.Equal(t, CommentBlock, NewComment("/* block */").Kind)
	assert.Equal(t, CommentLine, NewComment("// line").Kind)
	assert.True(t, NewComment("// line").IsComment())
	assert.False(t, NewWhitespace(" ").IsComment())
}

func TestHiddenClone(t *testing.T) {
	h := Hidden{NewWhitespace(" ")}
	c := h.Clone()
	c[0].Text = "\t"

	assert.Equal(t, " ", h[0].Text)
	assert.Equal(t, Hidden(nil), Hidden(nil).Clone())
}
