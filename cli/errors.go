package cli

import (
	stdErrors "errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robinvdvleuten/shorthand"
	"github.com/robinvdvleuten/shorthand/ast"
	"github.com/robinvdvleuten/shorthand/errors"
	"github.com/robinvdvleuten/shorthand/output"
	"github.com/robinvdvleuten/shorthand/parser"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders errors with terminal styling and source context.
type ErrorRenderer struct {
	source []byte
	styles *output.Styles
	plain  *errors.TextFormatter
}

// NewErrorRenderer creates a renderer with source content for context.
// Diffs are colored with styles, or left plain when styles is nil.
func NewErrorRenderer(source []byte, styles *output.Styles) *ErrorRenderer {
	return &ErrorRenderer{
		source: source,
		styles: styles,
		plain:  errors.NewTextFormatter(nil),
	}
}

// Render formats a single error with styling and context.
func (r *ErrorRenderer) Render(err error) string {
	var rt *shorthand.RoundTripError
	if stdErrors.As(err, &rt) {
		return r.renderRoundTrip(rt)
	}

	if e, ok := err.(*parser.ParseError); ok {
		source := e.Source
		if source == nil {
			source = r.source
		}
		if source != nil {
			return r.renderWithSourceContext(e.Pos, e.Error(), source)
		}
	}

	if e, ok := err.(interface{ GetPosition() ast.Position }); ok && r.source != nil {
		return r.renderWithSourceContext(e.GetPosition(), err.Error(), r.source)
	}

	return r.plain.Format(err)
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf strings.Builder
	for i, err := range errs {
		buf.WriteString(r.Render(err))

		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

func (r *ErrorRenderer) renderWithSourceContext(pos ast.Position, message string, sourceContent []byte) string {
	var buf strings.Builder

	buf.WriteString(errorStyle.Render(message))
	buf.WriteString("\n\n")

	for _, line := range errors.SourceContext(sourceContent, pos, 2, 1) {
		buf.WriteString("   ")
		buf.WriteString(errContextStyle.Render(line.Text))
		buf.WriteByte('\n')

		if line.Error && pos.Column > 0 {
			buf.WriteString("   ")
			buf.WriteString(line.Caret)
			buf.WriteString(errCaretStyle.Render("^"))
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

func (r *ErrorRenderer) renderRoundTrip(e *shorthand.RoundTripError) string {
	var buf strings.Builder
	buf.WriteString(errorStyle.Render(e.Error()))
	if e.Diff != "" {
		buf.WriteString("\n\n")
		buf.WriteString(renderDiff(e.Diff, r.styles))
	}
	return buf.String()
}

// renderDiff colors the added and removed lines of a unified diff.
func renderDiff(diff string, styles *output.Styles) string {
	if styles == nil {
		return diff
	}

	lines := strings.SplitAfter(diff, "\n")
	var buf strings.Builder
	for _, line := range lines {
		text := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(text, "+++"), strings.HasPrefix(text, "---"):
			buf.WriteString(styles.FilePath(text))
		case strings.HasPrefix(text, "@@"):
			buf.WriteString(styles.Dim(text))
		case strings.HasPrefix(text, "+"):
			buf.WriteString(styles.Added(text))
		case strings.HasPrefix(text, "-"):
			buf.WriteString(styles.Removed(text))
		default:
			buf.WriteString(text)
		}
		if len(text) < len(line) {
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}
