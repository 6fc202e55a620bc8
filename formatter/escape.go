package formatter

import (
	"strings"

	"github.com/robinvdvleuten/shorthand/ast"
)

// StringEscapeStyle controls how strings are escaped in formatter output.
type StringEscapeStyle int

const (
	// EscapeStyleOriginal writes the source token of a string when it is
	// available and falls back to CStyle otherwise.
	EscapeStyleOriginal StringEscapeStyle = iota
	// EscapeStyleCStyle quotes the value with C-style escape sequences.
	// Newlines become \n, tabs become \t, quotes become \", backslashes become \\.
	EscapeStyleCStyle
	// EscapeStyleNone only escapes quotes and backslashes, so line breaks
	// and tabs are written as literal characters.
	EscapeStyleNone
)

// formatString returns the quoted form of a string value.
func (f *Formatter) formatString(s *ast.StringValue) string {
	if f.StringEscapeStyle == EscapeStyleOriginal && s.HasRaw() {
		return s.Raw
	}
	return `"` + f.escapeString(s.Value) + `"`
}

// formatMultiline returns the triple-quoted form of a multi-line string.
// Its content is never escaped.
func (f *Formatter) formatMultiline(s *ast.MultilineStringValue) string {
	if f.StringEscapeStyle == EscapeStyleOriginal && s.HasRaw() {
		return s.Raw
	}
	return `"""` + s.Value + `"""`
}

// escapeString escapes special characters in strings for FSH.
// Uses the formatter's configured escape style.
func (f *Formatter) escapeString(s string) string {
	if f.StringEscapeStyle == EscapeStyleNone {
		return escapeQuotes(s)
	}
	return escapeCStyle(s)
}

// escapeCStyle escapes special characters using C-style escape sequences.
func escapeCStyle(s string) string {
	if !strings.ContainsAny(s, "\"\\\n\t\r") {
		return s
	}

	var buf strings.Builder
	buf.Grow(len(s) + 10)

	for _, c := range s {
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\t':
			buf.WriteString(`\t`)
		case '\r':
			buf.WriteString(`\r`)
		default:
			buf.WriteRune(c)
		}
	}

	return buf.String()
}

// escapeQuotes escapes only quotes and backslashes.
func escapeQuotes(s string) string {
	if !strings.ContainsAny(s, "\"\\") {
		return s
	}
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
