package formatter

import (
	"context"
	"os"
	"testing"

	"github.com/robinvdvleuten/shorthand/ast"
	"github.com/robinvdvleuten/shorthand/builder"
	"github.com/robinvdvleuten/shorthand/parser"
)

func FuzzRoundTrip(f *testing.F) {
	// Seed corpus - valid FSH only
	seeds := []string{
		"Alias: $SCT = http://snomed.info/sct",
		"Profile: A\nParent: Patient\n* name 1..1 MS",
		"Profile: A // note\r\n* name MS\r\n",
		"Profile: A\n// first\n* name 1..1\n\n// second\n* gender 0..0\n",
		"RuleSet: R(a, b)\n* {a} = {b}\n",
		"Instance: I\nInstanceOf: Observation\n* valueQuantity = 5.4 'mg' \"mg\"\n",
		"ValueSet: V\n* include codes from system http://loinc.org where concept is-a #123\n",
		"CodeSystem: C\n* #a \"A\"\n  * #b \"B\" \"\"\"\n  definition\n  \"\"\"\n",
		"Mapping: M\nSource: A\nTarget: \"http://x\"\n* name -> \"n\" \"comment\" #lang\n",
		"Extension: E\n* value[x] only string or Reference(Patient or Group)\n",
		"/* block */\nLogical: L\n* a 0..1 string \"A\"\n\n\n",
	}

	if example, err := os.ReadFile("../testdata/example.fsh"); err == nil {
		seeds = append(seeds, string(example))
	}

	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		// CRITICAL: Must never panic
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("round trip panicked: %v\nInput: %q", r, data)
			}
		}()

		ctx := context.Background()

		file, err := parser.ParseBytes(ctx, data)
		if err != nil {
			return // Skip invalid inputs
		}
		result, err := builder.BuildResult(ctx, file)
		if err != nil {
			return
		}

		// Property 1: every hidden token has exactly one owner
		if err := result.Verify(); err != nil {
			t.Fatalf("partition: %v\nInput: %q", err, data)
		}

		// Property 2: Format(Build(Parse(x))) == x
		out, err := Format(ctx, result.Document)
		if err != nil {
			t.Fatalf("Format failed: %v", err)
		}
		if out != string(data) {
			t.Fatalf("not lossless:\nInput:  %q\nOutput: %q", data, out)
		}

		// Property 3: canonical output parses and is a fixed point
		ast.ClearHidden(result.Document)
		canonical, err := Format(ctx, result.Document)
		if err != nil {
			t.Fatalf("canonical format failed: %v", err)
		}
		file2, err := parser.ParseString(ctx, canonical)
		if err != nil {
			t.Fatalf("re-parsing failed: %v\nCanonical: %q", err, canonical)
		}
		doc2, err := builder.Build(ctx, file2)
		if err != nil {
			t.Fatalf("re-building failed: %v\nCanonical: %q", err, canonical)
		}
		again, err := Format(ctx, doc2)
		if err != nil {
			t.Fatalf("second format failed: %v", err)
		}
		if again != canonical {
			t.Errorf("canonical output is not stable:\nFirst:  %q\nSecond: %q", canonical, again)
		}
	})
}
