// Large FSH File Generator
//
// This tool generates a large FHIR Shorthand file for performance testing and
// profiling. It mixes every entity kind with comments, blank lines and odd
// spacing so the hidden channel is exercised as much as the grammar.
//
// Usage:
//
//	go run main.go > large.fsh
//	go run main.go 20MB > large.fsh  # Specify target size
package main

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
)

const (
	defaultTargetSize = 10 * 1024 * 1024 // 10MB
)

var (
	resources = []string{
		"Patient", "Observation", "Condition", "Encounter", "Practitioner",
		"Organization", "MedicationRequest", "Procedure", "AllergyIntolerance",
	}

	elements = []string{
		"identifier", "status", "category", "code", "subject", "encounter",
		"effective[x]", "issued", "performer", "value[x]", "note", "name",
		"name.given", "name.family", "gender", "birthDate", "address.line",
	}

	flags      = []string{"MS", "SU", "?!", "N", "TU"}
	cards      = []string{"0..1", "1..1", "0..*", "1..*", "0..0"}
	strengths  = []string{"(required)", "(extensible)", "(preferred)", "(example)"}
	types      = []string{"string", "boolean", "dateTime", "CodeableConcept", "Reference(Patient)", "Quantity"}
	notes      = []string{"confirm with the working group", "see the implementation guide", "kept for compatibility", "profiled for the registry"}
	words      = []string{"clinical", "registry", "national", "core", "extended", "minimal", "research"}
	codeSystem = []string{"$SCT", "$LNC", "http://terminology.hl7.org/CodeSystem/v3-ActCode"}
)

func main() {
	targetSize := uint64(defaultTargetSize)
	if len(os.Args) > 1 {
		if size, err := humanize.ParseBytes(os.Args[1]); err == nil {
			targetSize = size
		}
	}

	out := bufio.NewWriter(os.Stdout)
	stats, err := generate(out, targetSize, rand.New(rand.NewSource(1)))
	if err == nil {
		err = out.Flush()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Generated %s with %d entities and %d rules\n",
		humanize.Bytes(stats.bytes), stats.entities, stats.rules)
}

// stats counts what generate wrote.
type stats struct {
	bytes    uint64
	entities int
	rules    int
}

// generate writes entities to w until at least targetSize bytes are
// written.
func generate(w io.Writer, targetSize uint64, rng *rand.Rand) (stats, error) {
	g := &generator{rng: rng}
	g.header()

	for g.stats.bytes+uint64(g.buf.Len()) < targetSize {
		switch rng.Intn(10) {
		case 0, 1, 2, 3: // 40% - Profile
			g.profile()
		case 4, 5: // 20% - Extension
			g.extension()
		case 6: // 10% - ValueSet
			g.valueSet()
		case 7: // 10% - CodeSystem
			g.codeSystem()
		case 8: // 10% - Instance
			g.instance()
		default: // 10% - Invariant
			g.invariant()
		}
		g.stats.entities++

		if g.buf.Len() > 64*1024 {
			if err := g.flush(w); err != nil {
				return g.stats, err
			}
		}
	}

	return g.stats, g.flush(w)
}

type generator struct {
	rng   *rand.Rand
	buf   strings.Builder
	stats stats
	n     int
}

func (g *generator) flush(w io.Writer) error {
	n, err := io.WriteString(w, g.buf.String())
	g.stats.bytes += uint64(n)
	g.buf.Reset()
	return err
}

func (g *generator) printf(format string, args ...any) {
	fmt.Fprintf(&g.buf, format, args...)
}

func (g *generator) pick(list []string) string {
	return list[g.rng.Intn(len(list))]
}

// name returns a fresh entity name.
func (g *generator) name(prefix string) string {
	g.n++
	word := g.pick(words)
	return fmt.Sprintf("%s%s%s%d", prefix, strings.ToUpper(word[:1]), word[1:], g.n)
}

// separator writes the blank lines and comments between entities.
func (g *generator) separator() {
	g.buf.WriteString("\n")
	switch g.rng.Intn(6) {
	case 0:
		g.printf("// %s\n", g.pick(notes))
	case 1:
		g.printf("/* %s\n   %s */\n", g.pick(notes), g.pick(notes))
	case 2:
		g.buf.WriteString("\n")
	}
}

// comment ends a line with a comment now and then.
func (g *generator) comment() string {
	if g.rng.Intn(8) == 0 {
		return " // " + g.pick(notes)
	}
	return ""
}

func (g *generator) header() {
	g.printf("// Generated FSH for benchmarking\n")
	g.printf("Alias: $SCT = http://snomed.info/sct\n")
	g.printf("Alias: $LNC = http://loinc.org // LOINC\n")
	g.printf("\nRuleSet: Metadata(status)\n* ^status = #draft\n* ^publisher = \"{status}\"\n* ^experimental = false\n")
}

func (g *generator) rule(format string, args ...any) {
	indent := ""
	if g.rng.Intn(10) == 0 {
		indent = "  "
	}
	g.printf("%s* "+format+"%s\n", append(append([]any{indent}, args...), g.comment())...)
	g.stats.rules++
}

func (g *generator) profile() {
	g.separator()
	name := g.name("")
	g.printf("Profile: %s%s\n", name, g.comment())
	g.printf("Parent: %s\n", g.pick(resources))
	g.printf("Id: %s\n", strings.ToLower(name))
	g.printf("Title: \"%s profile\"\n", name)
	g.printf("Description: \"A %s constraint on %s.\"\n", g.pick(words), g.pick(resources))
	g.rule("insert Metadata(draft)")

	for i := 0; i < 3+g.rng.Intn(12); i++ {
		element := g.pick(elements)
		switch g.rng.Intn(7) {
		case 0:
			g.rule("%s %s %s", element, g.pick(cards), g.pick(flags))
		case 1:
			g.rule("%s   %s", element, g.pick(flags))
		case 2:
			g.rule("%s from http://hl7.org/fhir/ValueSet/%s %s", element, strings.ToLower(g.pick(resources)), g.pick(strengths))
		case 3:
			g.rule("%s only %s or %s", element, g.pick(types), g.pick(types))
		case 4:
			g.rule("%s = %s#%d \"%s\"", element, g.pick(codeSystem), 100000+g.rng.Intn(900000), g.pick(words))
		case 5:
			g.rule("%s ^short = \"%s %s\"", element, g.pick(words), element)
		default:
			g.rule("%s obeys inv-%d", element, g.rng.Intn(100))
		}
	}
}

func (g *generator) extension() {
	g.separator()
	name := g.name("Ext")
	g.printf("Extension: %s\n", name)
	g.printf("Id: %s\n", strings.ToLower(name))
	g.printf("Context: %s\n", g.pick(resources))
	g.rule("value[x] only %s", g.pick(types))
	g.rule("value[x] 1..1 MS")
}

func (g *generator) valueSet() {
	g.separator()
	name := g.name("VS")
	g.printf("ValueSet: %s\n", name)
	g.printf("Title: \"%s codes\"\n", name)
	g.rule("include codes from system %s where concept is-a #%d", g.pick(codeSystem), 100000+g.rng.Intn(900000))
	g.rule("%s#%d \"%s\"", g.pick(codeSystem), 100000+g.rng.Intn(900000), g.pick(words))
	if g.rng.Intn(2) == 0 {
		g.rule("exclude %s#%d", g.pick(codeSystem), 100000+g.rng.Intn(900000))
	}
}

func (g *generator) codeSystem() {
	g.separator()
	name := g.name("CS")
	g.printf("CodeSystem: %s\n", name)
	for i := 0; i < 2+g.rng.Intn(6); i++ {
		g.rule("#%s-%d \"%s\" \"%s %s\"", g.pick(words), i, g.pick(words), g.pick(words), g.pick(notes))
	}
}

func (g *generator) instance() {
	g.separator()
	name := g.name("Example")
	g.printf("Instance: %s\n", name)
	g.printf("InstanceOf: %s\n", g.pick(resources))
	g.printf("Usage: #example\n")
	g.rule("status = #final")
	g.rule("valueQuantity = %d.%d 'mg' \"milligram\"", g.rng.Intn(500), g.rng.Intn(10))
	g.rule("issued = \"2024-0%d-1%dT10:00:00Z\"", 1+g.rng.Intn(9), g.rng.Intn(10))
}

func (g *generator) invariant() {
	g.separator()
	g.printf("Invariant: inv-%d\n", g.rng.Intn(100000))
	g.printf("Description: \"%s must be present\"\n", g.pick(elements))
	g.printf("Expression: \"%s.exists()\"\n", strings.Split(g.pick(elements), ".")[0])
	g.printf("Severity: #error\n")
}
