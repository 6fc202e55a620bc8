package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/muesli/termenv"
)

func TestNewStyles(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	assert.NotZero(t, styles)
	assert.NotZero(t, styles.Output())
}

func TestStylesKeepText(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStylesWithProfile(&buf, termenv.ANSI)

	tests := []struct {
		name  string
		style func(string) string
		text  string
	}{
		{"Success", styles.Success, "0 differences"},
		{"Error", styles.Error, "error"},
		{"Warning", styles.Warning, "warning"},
		{"FilePath", styles.FilePath, "input/fsh/profiles.fsh"},
		{"Name", styles.Name, "MyPatient"},
		{"Token", styles.Token, "Profile:"},
		{"Keyword", styles.Keyword, "Alias:"},
		{"Dim", styles.Dim, "// comment"},
		{"Added", styles.Added, "+* name 1..1"},
		{"Removed", styles.Removed, "-* name 0..1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.style(tt.text)
			assert.Contains(t, result, tt.text)
			assert.True(t, strings.Contains(result, "\x1b["), "expected escape sequence in %q", result)
		})
	}
}

func TestStylesPlainProfile(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStylesWithProfile(&buf, termenv.Ascii)

	assert.Equal(t, "MyPatient", styles.Name("MyPatient"))
	assert.Equal(t, "5ms", styles.Timing("5ms", false))
	assert.Equal(t, "500ms", styles.Timing("500ms", true))
}

func TestStylesTiming(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStylesWithProfile(&buf, termenv.ANSI)

	fast := styles.Timing("5ms", false)
	slow := styles.Timing("500ms", true)

	assert.Contains(t, fast, "5ms")
	assert.Contains(t, slow, "500ms")
	assert.NotEqual(t, styles.Dim("500ms"), slow)
}
