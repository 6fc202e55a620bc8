package formatter

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/shorthand/ast"
	"github.com/robinvdvleuten/shorthand/builder"
	"github.com/robinvdvleuten/shorthand/parser"
)

func parse(t *testing.T, source string) *ast.Document {
	t.Helper()
	ctx := context.Background()
	file, err := parser.ParseString(ctx, source)
	assert.NoError(t, err)
	doc, err := builder.Build(ctx, file)
	assert.NoError(t, err)
	return doc
}

func programmatic() *ast.Document {
	return ast.NewDocument(
		ast.NewAlias("$SCT", "http://snomed.info/sct"),
		ast.NewProfile("MyPatient",
			ast.WithParent("Patient"),
			ast.WithRules(
				ast.NewCardRule("name", "1..*", "MS"),
				ast.NewAssignmentRule("status", ast.NewCode("", "active")),
			),
		),
	)
}

func TestFormatRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"Empty", ""},
		{"Whitespace", " \n\t\n"},
		{"Alias", "Alias: $LNC = http://loinc.org\n"},
		{"Comments", "// a\nProfile: A // b\n/* c */ Parent: B\n// d\n* name 1..1 // e\n\n// f\n"},
		{"CRLF", "Profile: A\r\n* name MS\r\n"},
		{"Binding", "Profile: A\n* code from http://x/vs (extensible)\n"},
		{"Only", "Profile: A\n* value[x] only Quantity or   string\n"},
		{"Contains", "Profile: A\n* extension contains\n    a named b 0..1 MS and\n    c 1..1\n"},
		{"Caret", "Profile: A\n* ^status = #draft (exactly)\n"},
		{"Obeys", "Profile: A\n* obeys inv-1 and inv-2\n"},
		{"Insert", "Profile: A\n* insert Publisher(\"HL7\")\n"},
		{"Component", "ValueSet: V\n* include codes from system http://loinc.org and valueset X where concept is-a #1\n* exclude $SCT#2 \"Two\"\n"},
		{"CodeCaret", "CodeSystem: C\n* #a \"A\"\n* #a ^designation.value = \"x\"\n"},
		{"Mapping", "Mapping: M\nSource: P\nTarget: \"http://x\"\n* name -> \"PID-5\" \"comment\" #lang\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Format(context.Background(), parse(t, tt.source))
			assert.NoError(t, err)
			assert.Equal(t, tt.source, out)
		})
	}
}

func TestFormatExample(t *testing.T) {
	source, err := os.ReadFile("../testdata/example.fsh")
	assert.NoError(t, err)

	out, err := Format(context.Background(), parse(t, string(source)))
	assert.NoError(t, err)
	assert.Equal(t, string(source), out)
}

func TestFormatProgrammatic(t *testing.T) {
	out, err := Format(context.Background(), programmatic())
	assert.NoError(t, err)
	assert.Equal(t, "Alias: $SCT = http://snomed.info/sct\n\nProfile: MyPatient\nParent: Patient\n* name 1..* MS\n* status = #active\n", out)
}

func TestFormatOptions(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		expected string
	}{
		{
			name:     "Indent",
			opts:     []Option{WithIndent("  ")},
			expected: "Alias: $SCT = http://snomed.info/sct\n\nProfile: MyPatient\nParent: Patient\n  * name 1..* MS\n  * status = #active\n",
		},
		{
			name:     "CRLF",
			opts:     []Option{WithLineBreak("\r\n")},
			expected: "Alias: $SCT = http://snomed.info/sct\r\n\r\nProfile: MyPatient\r\nParent: Patient\r\n* name 1..* MS\r\n* status = #active\r\n",
		},
		{
			name:     "NoEntitySpacing",
			opts:     []Option{WithEntitySpacing(0)},
			expected: "Alias: $SCT = http://snomed.info/sct\nProfile: MyPatient\nParent: Patient\n* name 1..* MS\n* status = #active\n",
		},
		{
			name:     "NegativeSpacingIsZero",
			opts:     []Option{WithEntitySpacing(-3)},
			expected: "Alias: $SCT = http://snomed.info/sct\nProfile: MyPatient\nParent: Patient\n* name 1..* MS\n* status = #active\n",
		},
		{
			name:     "WideSpacing",
			opts:     []Option{WithEntitySpacing(2)},
			expected: "Alias: $SCT = http://snomed.info/sct\n\n\nProfile: MyPatient\nParent: Patient\n* name 1..* MS\n* status = #active\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Format(context.Background(), programmatic(), tt.opts...)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestFormatCanonical(t *testing.T) {
	doc := parse(t, "// c\nProfile:  A // x\n\n\n* name   1..1\n")

	out, err := Format(context.Background(), doc, WithCanonical(true))
	assert.NoError(t, err)
	assert.Equal(t, "Profile: A\n* name 1..1\n", out)

	// The tree itself is untouched.
	out, err = Format(context.Background(), doc)
	assert.NoError(t, err)
	assert.Equal(t, "// c\nProfile:  A // x\n\n\n* name   1..1\n", out)
}

func TestFormatEditedDocument(t *testing.T) {
	doc := parse(t, "Profile: A // keep\n* name 1..1\n")

	profile := doc.Entities[0].(*ast.Profile)
	profile.AddRule(ast.NewFlagRule("gender", "MS"))
	doc.AddEntity(ast.NewInvariant("inv-1",
		ast.WithDescription("Must have a name"),
	))

	out, err := Format(context.Background(), doc)
	assert.NoError(t, err)
	assert.Equal(t, "Profile: A // keep\n* name 1..1\n* gender MS\n\nInvariant: inv-1\nDescription: \"Must have a name\"\n", out)
}

func TestFormatNode(t *testing.T) {
	doc := parse(t, "Profile: A\n* name   1..1 // c\n")
	rule := doc.Entities[0].Header().Rules[0]

	out, err := FormatNode(rule)
	assert.NoError(t, err)
	assert.Equal(t, "\n* name   1..1 // c", out)

	ast.ClearHidden(rule)
	out, err = FormatNode(rule)
	assert.NoError(t, err)
	assert.Equal(t, "* name 1..1", out)

	out, err = FormatNode(ast.NewCodeWithDisplay("$SCT", "1", "One"))
	assert.NoError(t, err)
	assert.Equal(t, `$SCT#1 "One"`, out)
}

type bogusNode struct {
	ast.Base
}

func (*bogusNode) Kind() ast.NodeKind { return ast.NodeKind(255) }

func TestUnknownNodeKind(t *testing.T) {
	_, err := FormatNode(&bogusNode{})
	assert.True(t, errors.Is(err, ErrUnknownNodeKind))
	assert.Contains(t, err.Error(), "bogusNode")

	doc := ast.NewDocument(ast.NewProfile("A"))
	doc.Entities[0].Header().Metadata = []*ast.Metadata{{}}
	_, err = Format(context.Background(), doc)
	assert.Error(t, err)
}

func TestEscapeStyles(t *testing.T) {
	raw := &ast.StringValue{Value: "a\tb", Raw: `"a\tb"`}
	built := ast.NewString("say \"hi\"\nnow")

	tests := []struct {
		name     string
		style    StringEscapeStyle
		value    *ast.StringValue
		expected string
	}{
		{"OriginalKeepsRaw", EscapeStyleOriginal, raw, `"a\tb"`},
		{"OriginalEscapesBuilt", EscapeStyleOriginal, built, `"say \"hi\"\nnow"`},
		{"CStyle", EscapeStyleCStyle, raw, `"a\tb"`},
		{"CStyleBuilt", EscapeStyleCStyle, built, `"say \"hi\"\nnow"`},
		{"None", EscapeStyleNone, built, "\"say \\\"hi\\\"\nnow\""},
		{"NoneRaw", EscapeStyleNone, raw, "\"a\tb\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := FormatNode(tt.value, WithStringEscapeStyle(tt.style))
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestMultilineString(t *testing.T) {
	out, err := FormatNode(ast.NewMultilineString("\nline\n"))
	assert.NoError(t, err)
	assert.Equal(t, "\"\"\"\nline\n\"\"\"", out)
}
