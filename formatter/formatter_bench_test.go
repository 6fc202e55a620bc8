package formatter

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/robinvdvleuten/shorthand/ast"
	"github.com/robinvdvleuten/shorthand/builder"
	"github.com/robinvdvleuten/shorthand/parser"
)

func buildDoc(b *testing.B, source string) *ast.Document {
	b.Helper()
	ctx := context.Background()
	file, err := parser.ParseString(ctx, source)
	if err != nil {
		b.Fatal(err)
	}
	doc, err := builder.Build(ctx, file)
	if err != nil {
		b.Fatal(err)
	}
	return doc
}

func generateProfiles(n int) string {
	var sb strings.Builder
	sb.WriteString("Alias: $SCT = http://snomed.info/sct\n\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "// Profile %d\nProfile: Patient%d\nParent: Patient\nTitle: \"Patient %d\"\n", i, i, i)
		sb.WriteString("* name 1..* MS // required\n")
		sb.WriteString("* gender from http://hl7.org/fhir/ValueSet/administrative-gender (required)\n")
		sb.WriteString("* identifier contains mrn 1..1 MS and ssn 0..1\n")
		sb.WriteString("* maritalStatus = $SCT#87915002 \"Married\"\n\n")
	}
	return sb.String()
}

// BenchmarkFormat benchmarks the formatter with various file sizes
func BenchmarkFormat(b *testing.B) {
	example, err := os.ReadFile("../testdata/example.fsh")
	if err != nil {
		b.Fatal(err)
	}

	sizes := []struct {
		name   string
		source string
	}{
		{"Example", string(example)},
		{"MediumFile", generateProfiles(100)},
		{"LargeFile", generateProfiles(1000)},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			doc := buildDoc(b, size.source)
			f := New()
			ctx := context.Background()

			b.SetBytes(int64(len(size.source)))
			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				if err := f.Format(ctx, doc, io.Discard); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkFormatCanonical benchmarks output without captured tokens
func BenchmarkFormatCanonical(b *testing.B) {
	doc := buildDoc(b, generateProfiles(100))
	f := New(WithCanonical(true))
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if err := f.Format(ctx, doc, io.Discard); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRoundTrip benchmarks the full parse, build and format pipeline
func BenchmarkRoundTrip(b *testing.B) {
	source := generateProfiles(100)
	ctx := context.Background()

	b.SetBytes(int64(len(source)))
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		file, err := parser.ParseString(ctx, source)
		if err != nil {
			b.Fatal(err)
		}
		doc, err := builder.Build(ctx, file)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := Format(ctx, doc); err != nil {
			b.Fatal(err)
		}
	}
}
