package errors

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/shorthand/ast"
)

// ContextLine is one source line shown around an error.
type ContextLine struct {
	Number int    // 1-based line number
	Text   string // line without its line break
	Caret  string // padding before the caret; set on the error line only
	Error  bool   // whether this is the line the error points at
}

// SourceContext returns the lines of source from before lines above pos to
// after lines below it. The caret padding keeps tabs and accounts for wide
// runes, so the caret lines up in a terminal.
func SourceContext(source []byte, pos ast.Position, before, after int) []ContextLine {
	if len(source) == 0 || !pos.IsValid() {
		return nil
	}

	lines := strings.Split(string(source), "\n")
	first := max(pos.Line-1-before, 0)
	last := min(pos.Line-1+after, len(lines)-1)

	var out []ContextLine
	for i := first; i <= last; i++ {
		line := ContextLine{
			Number: i + 1,
			Text:   strings.TrimSuffix(lines[i], "\r"),
		}
		if i == pos.Line-1 {
			line.Error = true
			line.Caret = caretPadding(line.Text, pos.Column)
		}
		out = append(out, line)
	}
	return out
}

// caretPadding returns the whitespace that puts a caret under the byte
// column of line.
func caretPadding(line string, column int) string {
	if column <= 1 {
		return ""
	}
	prefix := line
	if column-1 < len(line) {
		prefix = line[:column-1]
	}

	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}
