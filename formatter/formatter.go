// Package formatter writes FHIR Shorthand syntax trees back to source text.
//
// Hidden tokens captured by the builder are replayed verbatim, so a parsed
// document that was not edited is reproduced byte for byte. Wherever a node
// has no hidden tokens (because it was built in code, or because they were
// cleared) the formatter falls back to canonical spacing: one blank line
// between entities, metadata and rules on their own lines, single spaces
// between the words of a line and a final line break.
package formatter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/robinvdvleuten/shorthand/ast"
	"github.com/robinvdvleuten/shorthand/telemetry"
)

const (
	// DefaultLineBreak ends lines that carry no captured line break.
	DefaultLineBreak = "\n"

	// DefaultEntitySpacing is the number of blank lines between entities.
	DefaultEntitySpacing = 1
)

// ErrUnknownNodeKind is returned for nodes the formatter cannot render.
var ErrUnknownNodeKind = errors.New("unknown node kind")

// Formatter renders syntax trees as FSH source.
type Formatter struct {
	// LineBreak is written where a line ends and no break was captured.
	LineBreak string

	// EntitySpacing is the number of blank lines written between entities
	// that carry no captured separator.
	EntitySpacing int

	// Indent is written before the '*' of rules that have no indentation
	// of their own and no captured line break.
	Indent string

	// Canonical ignores every captured hidden token and line break, so the
	// output uses canonical spacing throughout. The AST is not modified.
	Canonical bool

	// StringEscapeStyle controls how string values are written.
	StringEscapeStyle StringEscapeStyle
}

// Option is a functional option for configuring a Formatter.
type Option func(*Formatter)

// WithLineBreak sets the default line break, "\n" or "\r\n".
func WithLineBreak(lb string) Option {
	return func(f *Formatter) {
		f.LineBreak = lb
	}
}

// WithEntitySpacing sets the number of blank lines between entities.
func WithEntitySpacing(n int) Option {
	return func(f *Formatter) {
		f.EntitySpacing = max(n, 0)
	}
}

// WithIndent sets the default indentation of rules.
func WithIndent(indent string) Option {
	return func(f *Formatter) {
		f.Indent = indent
	}
}

// WithCanonical enables or disables canonical output.
func WithCanonical(canonical bool) Option {
	return func(f *Formatter) {
		f.Canonical = canonical
	}
}

// WithStringEscapeStyle sets how string values are written.
func WithStringEscapeStyle(style StringEscapeStyle) Option {
	return func(f *Formatter) {
		f.StringEscapeStyle = style
	}
}

// New creates a new Formatter with the given options.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		LineBreak:         DefaultLineBreak,
		EntitySpacing:     DefaultEntitySpacing,
		StringEscapeStyle: EscapeStyleOriginal,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Format writes doc to w.
func (f *Formatter) Format(ctx context.Context, doc *ast.Document, w io.Writer) error {
	timer := telemetry.FromContext(ctx).Start("formatter.format")
	defer timer.End()

	p := f.printer()
	if err := p.document(doc); err != nil {
		return err
	}

	_, err := io.WriteString(w, p.buf.String())
	return err
}

// FormatString renders doc and returns the text.
func (f *Formatter) FormatString(ctx context.Context, doc *ast.Document) (string, error) {
	var sb strings.Builder
	if err := f.Format(ctx, doc, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// FormatNode renders a single node as if it started the output, so no
// separator is written before it.
func (f *Formatter) FormatNode(n ast.Node) (string, error) {
	p := f.printer()
	if err := p.node(n); err != nil {
		return "", err
	}
	return p.buf.String(), nil
}

// Format renders doc with a formatter configured by opts.
func Format(ctx context.Context, doc *ast.Document, opts ...Option) (string, error) {
	return New(opts...).FormatString(ctx, doc)
}

// FormatNode renders a single node with a formatter configured by opts.
func FormatNode(n ast.Node, opts ...Option) (string, error) {
	return New(opts...).FormatNode(n)
}

func (f *Formatter) printer() *printer {
	return &printer{f: f}
}

func unknown(n ast.Node) error {
	return fmt.Errorf("%w: %T", ErrUnknownNodeKind, n)
}
