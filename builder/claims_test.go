package builder

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/shorthand/parser"
)

func TestClaims(t *testing.T) {
	c := NewClaims()

	assert.False(t, c.IsClaimed(3))
	assert.True(t, c.TryClaim(3))
	assert.True(t, c.IsClaimed(3))
	assert.False(t, c.TryClaim(3))

	c.TryClaim(1)
	c.TryClaim(7)
	assert.Equal(t, []int{1, 3, 7}, c.Indices())
	assert.Equal(t, 3, c.Len())
}

func TestClaimTwiceInRelease(t *testing.T) {
	if debugClaims {
		t.Skip("double claims panic in debug builds")
	}

	c := NewClaims()
	c.Claim(2)
	c.Claim(2)
	assert.Equal(t, []int{2}, c.Indices())
}

func TestCaptureIsIdempotent(t *testing.T) {
	stream := parser.Tokenize([]byte("Profile: P // c\n\nParent: X\n"), "t.fsh")
	capture := NewCapture(stream, NewClaims())

	// P is token 2, Parent: follows the hidden run after it.
	trailing := capture.Trailing(2)
	assert.Equal(t, " // c", trailing.Text())
	assert.True(t, capture.Trailing(2).IsEmpty())

	parent := 2 + len(stream.HiddenRight(2)) + 1
	assert.Equal(t, parser.PARENT, stream.Get(parent).Type)

	leading := capture.Leading(parent)
	assert.Equal(t, "\n\n", leading.Text())
	assert.True(t, capture.Leading(parent).IsEmpty())
}

func TestLeadingStopsAtClaimed(t *testing.T) {
	stream := parser.Tokenize([]byte("Profile: P\n// a\n// b\nParent: X\n"), "t.fsh")
	claims := NewClaims()
	capture := NewCapture(stream, claims)

	parent := 0
	for _, tok := range stream.Tokens() {
		if tok.Type == parser.PARENT {
			parent = tok.Index
		}
	}

	// Claim the "// a" comment up front.
	for _, tok := range stream.HiddenLeft(parent) {
		if tok.Type == parser.LINECOMMENT && tok.String(stream.Source()) == "// a" {
			claims.Claim(tok.Index)
		}
	}

	assert.Equal(t, "\n// b\n", capture.Leading(parent).Text())
}

func TestEOFClaimsEverythingLeft(t *testing.T) {
	stream := parser.Tokenize([]byte("Profile: P\n\n// x\n\n"), "t.fsh")
	capture := NewCapture(stream, NewClaims())

	assert.Equal(t, "\n\n// x\n\n", capture.EOF(2).Text())
	assert.True(t, capture.EOF(2).IsEmpty())
}
