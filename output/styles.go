// Package output provides styling helpers for terminal output.
package output

import (
	"io"

	"github.com/muesli/termenv"
)

// ANSI colour numbers used by the CLI.
const (
	red     = "1"
	green   = "2"
	yellow  = "3"
	magenta = "5"
	cyan    = "6"
)

// Styles provides styled output helpers for the CLI. The colour profile is
// detected from the writer, so styles degrade to plain text when the
// output is not a terminal.
type Styles struct {
	output *termenv.Output
}

// NewStyles creates a new Styles instance for the given writer.
func NewStyles(w io.Writer) *Styles {
	return &Styles{
		output: termenv.NewOutput(w),
	}
}

// NewStylesWithProfile creates styles with a fixed colour profile.
func NewStylesWithProfile(w io.Writer, profile termenv.Profile) *Styles {
	return &Styles{
		output: termenv.NewOutput(w, termenv.WithProfile(profile)),
	}
}

func (s *Styles) color(text, color string) termenv.Style {
	return s.output.String(text).Foreground(s.output.Color(color))
}

// Success returns a styled success string (green + bold).
func (s *Styles) Success(text string) string {
	return s.color(text, green).Bold().String()
}

// Error returns a styled error string (red + bold).
func (s *Styles) Error(text string) string {
	return s.color(text, red).Bold().String()
}

// Warning returns a styled warning (yellow + bold).
func (s *Styles) Warning(text string) string {
	return s.color(text, yellow).Bold().String()
}

// FilePath returns a styled file path (cyan).
func (s *Styles) FilePath(text string) string {
	return s.color(text, cyan).String()
}

// Name returns a styled entity name (yellow).
func (s *Styles) Name(text string) string {
	return s.color(text, yellow).String()
}

// Token returns styled source text of a token (magenta).
func (s *Styles) Token(text string) string {
	return s.color(text, magenta).String()
}

// Keyword returns a styled keyword (bold).
func (s *Styles) Keyword(text string) string {
	return s.output.String(text).Bold().String()
}

// Dim returns dimmed text for secondary information such as hidden tokens.
func (s *Styles) Dim(text string) string {
	return s.output.String(text).Faint().String()
}

// Added returns a styled diff line that only exists in the new text.
func (s *Styles) Added(text string) string {
	return s.color(text, green).String()
}

// Removed returns a styled diff line that only exists in the old text.
func (s *Styles) Removed(text string) string {
	return s.color(text, red).String()
}

// Timing returns a styled timing string. Slow operations are red, the rest
// are dimmed.
func (s *Styles) Timing(text string, isSlowOperation bool) string {
	if isSlowOperation {
		return s.color(text, red).String()
	}
	return s.Dim(text)
}

// Output returns the underlying termenv Output for advanced usage.
func (s *Styles) Output() *termenv.Output {
	return s.output
}
