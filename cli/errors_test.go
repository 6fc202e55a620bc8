package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/muesli/termenv"

	"github.com/robinvdvleuten/shorthand"
	"github.com/robinvdvleuten/shorthand/ast"
	"github.com/robinvdvleuten/shorthand/loader"
	"github.com/robinvdvleuten/shorthand/output"
	"github.com/robinvdvleuten/shorthand/parser"
)

func TestErrorRenderer_RenderParseErrorWithSourceContext(t *testing.T) {
	source := "Profile: A\nParent: Patient\n* name 1..1\n* gender ???\n* birthDate MS\n"

	_, err := parser.Parse(context.Background(), "test.fsh", []byte(source))
	assert.Error(t, err)

	output := NewErrorRenderer(nil, nil).Render(err)

	assert.Contains(t, output, "test.fsh:4:")

	lines := strings.Split(output, "\n")
	var shown []string
	for _, line := range lines {
		if strings.HasPrefix(line, "   ") {
			shown = append(shown, line)
		}
	}
	assert.Equal(t, []string{
		"   Parent: Patient",
		"   * name 1..1",
		"   * gender ???",
		"   " + strings.Repeat(" ", 9) + "^",
		"   * birthDate MS",
	}, shown)
}

func TestErrorRenderer_RenderPositionedError(t *testing.T) {
	source := []byte("Profile: A\n\nProfile: A\n")
	project := &loader.Project{}
	for _, name := range []string{"a.fsh", "b.fsh"} {
		file, err := loader.New().LoadBytes(context.Background(), name, source)
		assert.NoError(t, err)
		project.Files = append(project.Files, file)
	}

	errs := project.Duplicates()
	assert.Equal(t, 3, len(errs))

	t.Run("WithSource", func(t *testing.T) {
		output := NewErrorRenderer(source, nil).Render(errs[0])
		assert.Contains(t, output, `a.fsh:3:1: Profile "A" is already declared at a.fsh:1:1`)
		assert.Contains(t, output, "   Profile: A\n   ^\n")
	})

	t.Run("WithoutSource", func(t *testing.T) {
		output := NewErrorRenderer(nil, nil).Render(errs[0])
		assert.Contains(t, output, `Profile "A" is already declared`)
		assert.Contains(t, output, "Profile: A")
	})
}

func TestErrorRenderer_RenderAll(t *testing.T) {
	renderer := NewErrorRenderer(nil, nil)
	assert.Equal(t, "", renderer.RenderAll(nil))

	output := renderer.RenderAll([]error{
		fmt.Errorf("first"),
		fmt.Errorf("second"),
	})
	assert.Equal(t, "first\n\nsecond", output)
}

func TestErrorRenderer_RenderRoundTrip(t *testing.T) {
	err := &shorthand.RoundTripError{
		Filename: "a.fsh",
		Diff:     shorthand.Diff("a.fsh", "Profile: A\n* name 1..1\n", "Profile: A\n* name 0..1\n"),
	}

	output := NewErrorRenderer(nil, nil).Render(err)
	assert.Contains(t, output, "a.fsh: round trip changed the source")
	assert.Contains(t, output, "-* name 1..1\n")
	assert.Contains(t, output, "+* name 0..1\n")
}

func TestRenderDiff(t *testing.T) {
	diff := "--- a.fsh\n+++ a.fsh (formatted)\n@@ -1,2 +1,2 @@\n Profile: A\n-* name 1..1\n+* name 0..1\n"

	var buf bytes.Buffer
	plain := output.NewStylesWithProfile(&buf, termenv.Ascii)
	assert.Equal(t, diff, renderDiff(diff, plain))
	assert.Equal(t, diff, renderDiff(diff, nil))

	colored := output.NewStylesWithProfile(&buf, termenv.ANSI)
	rendered := renderDiff(diff, colored)
	assert.NotEqual(t, diff, rendered)
	assert.Contains(t, rendered, "\x1b[")
	assert.Contains(t, rendered, " Profile: A\n")
	assert.Equal(t, strings.Count(diff, "\n"), strings.Count(rendered, "\n"))
}

func TestErrorRenderer_PlainError(t *testing.T) {
	pos := ast.Position{Filename: "a.fsh", Line: 1, Column: 1}
	err := &parser.ParseError{Pos: pos, Message: "boom"}
	assert.Equal(t, "a.fsh:1:1: boom", NewErrorRenderer(nil, nil).Render(err))
}
