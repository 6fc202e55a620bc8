package ast

import "fmt"

// Position represents a location in the source file.
type Position struct {
	Filename string
	Offset   int // Byte offset
	Line     int // Line number (1-indexed)
	Column   int // Column number (1-indexed)
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// GoString returns a Go-syntax representation of the position.
func (p Position) GoString() string {
	return fmt.Sprintf("Position{Filename: %q, Line: %d, Column: %d}", p.Filename, p.Line, p.Column)
}

// IsValid reports whether the position was set from source.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Range represents a range in the source file. End is exclusive.
type Range struct {
	Start Position
	End   Position
}

// IsZero returns true if this is an uninitialized range.
func (r Range) IsZero() bool {
	return r.Start == Position{} && r.End == Position{}
}

// Contains reports whether other lies within r.
func (r Range) Contains(other Range) bool {
	return r.Start.Offset <= other.Start.Offset && other.End.Offset <= r.End.Offset
}

// Text extracts the source text for this range.
// Returns empty string if range is invalid or zero.
func (r Range) Text(source []byte) string {
	if r.IsZero() || r.Start.Offset < 0 || r.End.Offset < r.Start.Offset || r.End.Offset > len(source) {
		return ""
	}
	return string(source[r.Start.Offset:r.End.Offset])
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%d:%d", r.Start, r.End.Line, r.End.Column)
}
