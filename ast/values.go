package ast

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Value is the interface implemented by all assignable values. The set of
// implementations is closed.
type Value interface {
	Node
	valueNode()
}

// StringValue is a quoted string. Raw holds the source token, quotes and
// escapes included, so it can be written back unchanged; Value is the
// unescaped content.
type StringValue struct {
	Base
	Value string
	Raw   string
}

func (v *StringValue) Kind() NodeKind { return StringValueKind }
func (v *StringValue) valueNode()     {}

// HasRaw reports whether the original token is available.
func (v *StringValue) HasRaw() bool { return v.Raw != "" }

// MultilineStringValue is a triple-quoted string.
type MultilineStringValue struct {
	Base
	Value string
	Raw   string
}

func (v *MultilineStringValue) Kind() NodeKind { return MultilineStringValueKind }
func (v *MultilineStringValue) valueNode()     {}

// HasRaw reports whether the original token is available.
func (v *MultilineStringValue) HasRaw() bool { return v.Raw != "" }

// NumberValue is a decimal or integer literal, kept as written.
type NumberValue struct {
	Base
	Raw string
}

func (v *NumberValue) Kind() NodeKind { return NumberValueKind }
func (v *NumberValue) valueNode()     {}

// Decimal parses the literal as an exact decimal.
func (v *NumberValue) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(v.Raw)
}

// BoolValue is true or false.
type BoolValue struct {
	Base
	Value bool
}

func (v *BoolValue) Kind() NodeKind { return BoolValueKind }
func (v *BoolValue) valueNode()     {}

// CodeValue is a coded value: "system#code", "#code" or "#\"quoted code\"",
// optionally followed by a display string.
type CodeValue struct {
	Base
	Code    string
	Display *StringValue
}

func (v *CodeValue) Kind() NodeKind { return CodeValueKind }
func (v *CodeValue) valueNode()     {}

// System returns the part before '#', which may be an alias.
func (v *CodeValue) System() string {
	system, _, _ := strings.Cut(v.Code, "#")
	return system
}

// CodePart returns the part after '#' with quotes removed.
func (v *CodeValue) CodePart() string {
	_, code, _ := strings.Cut(v.Code, "#")
	if len(code) >= 2 && code[0] == '"' && code[len(code)-1] == '"' {
		return UnquoteString(code)
	}
	return code
}

// QuantityValue is a number with a UCUM unit and an optional display.
//
//	5.4 'mg' "milligram"
type QuantityValue struct {
	Base
	Number  string
	Unit    *Word // "'mg'"
	Display *StringValue
}

func (v *QuantityValue) Kind() NodeKind { return QuantityValueKind }
func (v *QuantityValue) valueNode()     {}

// Decimal parses the numeric part as an exact decimal.
func (v *QuantityValue) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(v.Number)
}

// UnitCode returns the unit without its quotes.
func (v *QuantityValue) UnitCode() string {
	return strings.Trim(v.Unit.String(), "'")
}

// ReferenceValue is "Reference(Target)" with an optional display.
type ReferenceValue struct {
	Base
	Raw     string
	Display *StringValue
}

func (v *ReferenceValue) Kind() NodeKind { return ReferenceValueKind }
func (v *ReferenceValue) valueNode()     {}

// Targets returns the referenced names. "Reference(A or B)" yields A and B.
func (v *ReferenceValue) Targets() []string {
	return groupTargets(v.Raw)
}

// CanonicalValue is "Canonical(Target)" or "Canonical(Target|version)".
type CanonicalValue struct {
	Base
	Raw string
}

func (v *CanonicalValue) Kind() NodeKind { return CanonicalValueKind }
func (v *CanonicalValue) valueNode()     {}

// Target returns the referenced name without version.
func (v *CanonicalValue) Target() string {
	targets := groupTargets(v.Raw)
	if len(targets) == 0 {
		return ""
	}
	target, _, _ := strings.Cut(targets[0], "|")
	return target
}

// NameValue is any other bare token used as a value: an instance name, a
// URL, an alias, a date.
type NameValue struct {
	Base
	Name string
}

func (v *NameValue) Kind() NodeKind { return NameValueKind }
func (v *NameValue) valueNode()     {}

// groupTargets splits the "A or B" list inside "Keyword(...)".
func groupTargets(raw string) []string {
	open := strings.IndexByte(raw, '(')
	if open < 0 || !strings.HasSuffix(raw, ")") {
		return nil
	}

	var targets []string
	for _, part := range strings.Fields(raw[open+1 : len(raw)-1]) {
		if part != "or" {
			targets = append(targets, part)
		}
	}
	return targets
}

// UnquoteString removes the quotes of a string token and resolves its
// escape sequences. Triple-quoted strings are returned without their
// delimiters. Unknown escapes keep the escaped character.
func UnquoteString(raw string) string {
	switch {
	case len(raw) >= 6 && strings.HasPrefix(raw, `"""`) && strings.HasSuffix(raw, `"""`):
		return raw[3 : len(raw)-3]
	case len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"':
		raw = raw[1 : len(raw)-1]
	default:
		return raw
	}

	if !strings.ContainsRune(raw, '\\') {
		return raw
	}

	var sb strings.Builder
	sb.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if ch != '\\' || i+1 == len(raw) {
			sb.WriteByte(ch)
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		default:
			sb.WriteByte(raw[i])
		}
	}
	return sb.String()
}

var (
	_ Value = (*StringValue)(nil)
	_ Value = (*MultilineStringValue)(nil)
	_ Value = (*NumberValue)(nil)
	_ Value = (*BoolValue)(nil)
	_ Value = (*CodeValue)(nil)
	_ Value = (*QuantityValue)(nil)
	_ Value = (*ReferenceValue)(nil)
	_ Value = (*CanonicalValue)(nil)
	_ Value = (*NameValue)(nil)
)
