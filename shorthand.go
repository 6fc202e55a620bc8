// Package shorthand reads and writes FHIR Shorthand (FSH) without losing a
// byte. Parsing keeps every comment, blank line and space in the syntax
// tree; formatting an unedited tree reproduces the source exactly, while
// nodes added or cleared in code fall back to canonical spacing.
//
// The pipeline is split over several packages:
//
//	parser     tokens, hidden channel and parse tree
//	builder    syntax tree with hidden tokens assigned to nodes
//	formatter  syntax tree back to text
//	ast        node types, constructors and traversal
//
// This package ties them together for the common cases.
package shorthand

import (
	"context"
	"fmt"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/robinvdvleuten/shorthand/ast"
	"github.com/robinvdvleuten/shorthand/builder"
	"github.com/robinvdvleuten/shorthand/formatter"
	"github.com/robinvdvleuten/shorthand/parser"
)

// Parse parses and builds source. The filename is used for positions only.
func Parse(ctx context.Context, filename string, source []byte) (*ast.Document, error) {
	result, err := ParseResult(ctx, filename, source)
	if err != nil {
		return nil, err
	}
	return result.Document, nil
}

// ParseResult is like Parse but also returns the token stream and claim
// set of the build.
func ParseResult(ctx context.Context, filename string, source []byte) (*builder.Result, error) {
	file, err := parser.Parse(ctx, filename, source)
	if err != nil {
		return nil, err
	}
	return builder.BuildResult(ctx, file)
}

// Format renders doc with the given formatter options.
func Format(ctx context.Context, doc *ast.Document, opts ...formatter.Option) (string, error) {
	return formatter.Format(ctx, doc, opts...)
}

// RoundTrip parses source and formats the result without edits.
func RoundTrip(ctx context.Context, filename string, source []byte, opts ...formatter.Option) (string, error) {
	doc, err := Parse(ctx, filename, source)
	if err != nil {
		return "", err
	}
	return Format(ctx, doc, opts...)
}

// RoundTripError reports a source that did not survive a round trip.
type RoundTripError struct {
	Filename string
	Diff     string // unified diff from the source to the output
	Cause    error  // partition violation, if that was the failure
}

func (e *RoundTripError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: round trip failed: %v", e.Filename, e.Cause)
	}
	return fmt.Sprintf("%s: round trip changed the source", e.Filename)
}

func (e *RoundTripError) Unwrap() error {
	return e.Cause
}

// Check verifies that source is reproduced exactly and that every hidden
// token of it is owned by exactly one node. It returns a *RoundTripError
// when either does not hold.
func Check(ctx context.Context, filename string, source []byte) error {
	result, err := ParseResult(ctx, filename, source)
	if err != nil {
		return err
	}
	return CheckResult(ctx, filename, result)
}

// CheckResult is like Check for a document that was already built. The
// source is taken from the token stream of the build.
func CheckResult(ctx context.Context, filename string, result *builder.Result) error {
	if err := result.Verify(); err != nil {
		return &RoundTripError{Filename: filename, Cause: err}
	}

	source := string(result.Stream.Source())
	out, err := Format(ctx, result.Document)
	if err != nil {
		return err
	}
	if out != source {
		return &RoundTripError{Filename: filename, Diff: Diff(filename, source, out)}
	}
	return nil
}

// Diff returns a unified diff between before and after, or "" when they
// are equal.
func Diff(filename, before, after string) string {
	if before == after {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath(filename), before, after)
	return fmt.Sprint(gotextdiff.ToUnified(filename, filename+" (formatted)", before, edits))
}
