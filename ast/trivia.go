package ast

import "strings"

// Trivia is the content the grammar ignores: whitespace, line breaks and
// comments. It is kept on the nodes as hidden tokens so a tree can be
// written back without losing any of it.

// HiddenKind classifies a hidden token.
type HiddenKind uint8

const (
	// Whitespace is a run of blanks, or a single line break.
	Whitespace HiddenKind = iota
	// CommentLine is a // comment, without its line break.
	CommentLine
	// CommentBlock is a /* */ comment.
	CommentBlock
)

func (k HiddenKind) String() string {
	switch k {
	case CommentLine:
		return "CommentLine"
	case CommentBlock:
		return "CommentBlock"
	default:
		return "Whitespace"
	}
}

// NoIndex is the token index of hidden tokens that do not come from the
// token stream, such as glue and synthesized line breaks.
const NoIndex = -1

// HiddenToken is one piece of trivia with its exact text.
type HiddenToken struct {
	Kind       HiddenKind
	Text       string
	TokenIndex int // Index in the token stream, or NoIndex
}

// IsGlue reports whether the token is zero-width. Glue marks a position
// where the source had no trivia at all, so the formatter must not fall
// back to its default separator.
func (t HiddenToken) IsGlue() bool {
	return t.Text == ""
}

// IsComment reports whether the token is a comment.
func (t HiddenToken) IsComment() bool {
	return t.Kind == CommentLine || t.Kind == CommentBlock
}

// HasLineBreak reports whether the token contains a line break.
func (t HiddenToken) HasLineBreak() bool {
	return strings.ContainsAny(t.Text, "\r\n")
}

// Hidden is an ordered list of hidden tokens. Nil and empty lists are
// equivalent: both mean "use the default".
type Hidden []HiddenToken

// IsEmpty reports whether the list holds no tokens.
func (h Hidden) IsEmpty() bool {
	return len(h) == 0
}

// Text concatenates the token texts.
func (h Hidden) Text() string {
	if len(h) == 1 {
		return h[0].Text
	}
	var sb strings.Builder
	for _, tok := range h {
		sb.WriteString(tok.Text)
	}
	return sb.String()
}

// Comments returns the comment tokens in order.
func (h Hidden) Comments() []HiddenToken {
	var comments []HiddenToken
	for _, tok := range h {
		if tok.IsComment() {
			comments = append(comments, tok)
		}
	}
	return comments
}

// HasLineBreak reports whether any token contains a line break.
func (h Hidden) HasLineBreak() bool {
	for _, tok := range h {
		if tok.HasLineBreak() {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no storage with h.
func (h Hidden) Clone() Hidden {
	if h == nil {
		return nil
	}
	return append(Hidden(nil), h...)
}

// NewComment creates a hidden comment token for use in code-built trees.
// Text must include the comment markers ("// note" or "/* note */").
func NewComment(text string) HiddenToken {
	kind := CommentLine
	if strings.HasPrefix(text, "/*") {
		kind = CommentBlock
	}
	return HiddenToken{Kind: kind, Text: text, TokenIndex: NoIndex}
}

// NewWhitespace creates a hidden whitespace token for use in code-built
// trees.
func NewWhitespace(text string) HiddenToken {
	return HiddenToken{Kind: Whitespace, Text: text, TokenIndex: NoIndex}
}

// Glue returns a zero-width whitespace token.
func Glue() HiddenToken {
	return HiddenToken{Kind: Whitespace, TokenIndex: NoIndex}
}
