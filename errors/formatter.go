// Package errors renders the errors of the round-trip pipeline for people
// and programs. Error types stay in the packages that produce them
// (parser.ParseError, builder.BuildError, loader.DuplicateNameError); this
// package only handles presentation.
//
// Two formatters are provided:
//   - TextFormatter shows the message, the surrounding source lines and a
//     caret, or the offending node rendered back to FSH
//   - JSONFormatter emits structured errors for editors and CI tooling
package errors

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/robinvdvleuten/shorthand/ast"
	"github.com/robinvdvleuten/shorthand/formatter"
	"github.com/robinvdvleuten/shorthand/parser"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

type positioned interface {
	GetPosition() ast.Position
}

type withNode interface {
	GetNode() ast.Node
}

type withName interface {
	GetName() string
}

const contextIndent = "   "

// TextFormatter formats errors for command-line output.
type TextFormatter struct {
	formatter *formatter.Formatter
	source    []byte
}

// TextFormatterOption is an option for configuring TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithSource sets the source shown around positional errors that do not
// carry their own.
func WithSource(source []byte) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.source = source
	}
}

// NewTextFormatter creates a text formatter. Nodes attached to errors are
// rendered with f, or with a default formatter when f is nil.
func NewTextFormatter(f *formatter.Formatter, opts ...TextFormatterOption) *TextFormatter {
	if f == nil {
		f = formatter.New()
	}
	tf := &TextFormatter{formatter: f}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Format formats a single error.
func (tf *TextFormatter) Format(err error) string {
	if e, ok := err.(withNode); ok && e.GetNode() != nil {
		return tf.formatWithNode(err.Error(), e.GetNode())
	}

	if e, ok := err.(*parser.ParseError); ok {
		source := e.Source
		if source == nil {
			source = tf.source
		}
		if source != nil {
			return formatWithSource(e.Pos, e.Error(), source)
		}
	}

	if e, ok := err.(positioned); ok {
		if tf.source != nil {
			return formatWithSource(e.GetPosition(), err.Error(), tf.source)
		}
		return formatWithPosition(e.GetPosition(), err.Error())
	}

	return err.Error()
}

// FormatAll formats multiple errors, separated by blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = tf.Format(err)
	}
	return strings.Join(parts, "\n\n")
}

// formatWithPosition prefixes message with pos unless it already starts
// with it.
func formatWithPosition(pos ast.Position, message string) string {
	if !pos.IsValid() || strings.HasPrefix(message, pos.String()) {
		return message
	}
	return pos.String() + ": " + message
}

// formatWithSource shows the message followed by two lines of source
// before the error line, the error line with a caret, and one line after.
func formatWithSource(pos ast.Position, message string, source []byte) string {
	var sb strings.Builder
	sb.WriteString(message)
	sb.WriteString("\n\n")

	for _, line := range SourceContext(source, pos, 2, 1) {
		sb.WriteString(contextIndent)
		sb.WriteString(line.Text)
		sb.WriteByte('\n')
		if line.Error && pos.Column > 0 {
			sb.WriteString(contextIndent)
			sb.WriteString(line.Caret)
			sb.WriteString("^\n")
		}
	}

	return sb.String()
}

// formatWithNode shows the message followed by the node rendered as FSH.
func (tf *TextFormatter) formatWithNode(message string, node ast.Node) string {
	text, err := tf.formatter.FormatNode(node)
	if err != nil {
		return message
	}

	var sb strings.Builder
	sb.WriteString(message)
	sb.WriteString("\n\n")
	for _, line := range strings.Split(strings.TrimLeft(text, "\r\n"), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		sb.WriteString(contextIndent)
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type     string         `json:"type"`
	Message  string         `json:"message"`
	Position *PositionJSON  `json:"position,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

// PositionJSON represents a file position in JSON format.
type PositionJSON struct {
	Filename string `json:"filename"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	data, _ := json.MarshalIndent(jf.FormatAllToSlice(errs), "", "  ")
	return string(data)
}

// FormatAllToSlice returns errors as a slice of ErrorJSON structs.
func (jf *JSONFormatter) FormatAllToSlice(errs []error) []ErrorJSON {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		result = append(result, jf.toJSON(err))
	}
	return result
}

func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    fmt.Sprintf("%T", err),
		Message: err.Error(),
	}

	if e, ok := err.(positioned); ok {
		pos := e.GetPosition()
		errJSON.Position = &PositionJSON{
			Filename: pos.Filename,
			Line:     pos.Line,
			Column:   pos.Column,
		}
	}

	details := make(map[string]any)
	if e, ok := err.(withName); ok {
		details["name"] = e.GetName()
	}
	if e, ok := err.(withNode); ok && e.GetNode() != nil {
		details["kind"] = e.GetNode().Kind().String()
	}
	if len(details) > 0 {
		errJSON.Details = details
	}

	return errJSON
}
