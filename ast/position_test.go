package ast

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestRangeText(t *testing.T) {
	source := []byte("Profile: MyPatient")

	tests := []struct {
		name string
		rng  Range
		want string
	}{
		{"Keyword", Range{Start: Position{Offset: 0, Line: 1, Column: 1}, End: Position{Offset: 8, Line: 1, Column: 9}}, "Profile:"},
		{"Name", Range{Start: Position{Offset: 9, Line: 1, Column: 10}, End: Position{Offset: 18, Line: 1, Column: 19}}, "MyPatient"},
		{"Zero", Range{}, ""},
		{"Negative", Range{Start: Position{Offset: -1, Line: 1}, End: Position{Offset: 3, Line: 1}}, ""},
		{"Inverted", Range{Start: Position{Offset: 10, Line: 1}, End: Position{Offset: 5, Line: 1}}, ""},
		{"PastEnd", Range{Start: Position{Offset: 9, Line: 1}, End: Position{Offset: 100, Line: 1}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rng.Text(source))
		})
	}
}

func TestRangeContains(t *testing.T) {
	outer := Range{Start: Position{Offset: 0, Line: 1}, End: Position{Offset: 20, Line: 2}}
	inner := Range{Start: Position{Offset: 4, Line: 1}, End: Position{Offset: 8, Line: 1}}

	assert.True(t, outer.Contains(inner))
	assert.False(t, inner.Contains(outer))
	assert.True(t, outer.Contains(outer))
}

func TestPositionString(t *testing.T) {
	assert.Equal(t, "a.fsh:3:7", Position{Filename: "a.fsh", Line: 3, Column: 7}.String())
	assert.Equal(t, "3:7", Position{Line: 3, Column: 7}.String())
	assert.False(t, Position{}.IsValid())
	assert.True(t, Position{Line: 1, Column: 1}.IsValid())
}
