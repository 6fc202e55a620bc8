package parser

// Lexer implements a zero-copy lexer for FHIR Shorthand files.
//
// Unlike a lexer that skips trivia, every byte of the input ends up in
// exactly one token: whitespace, line breaks and comments are emitted on the
// hidden channel so the parse tree can be mapped back onto the exact source.
//
// The zero-copy approach:
// - Tokens store byte offsets, not string values
// - String interning for repeated paths and names
// - Pre-allocated token buffer

import (
	"bytes"
)

// Lexer tokenizes FHIR Shorthand source code.
type Lexer struct {
	source   []byte    // Source buffer
	filename string    // Filename for error reporting
	pos      int       // Current byte position
	line     int       // Current line (1-indexed)
	column   int       // Current column (1-indexed)
	tokens   []Token   // Token buffer (pre-allocated)
	interner *Interner // String interning pool
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source []byte, filename string) *Lexer {
	// Hidden tokens roughly double the token count compared to a lexer
	// that drops trivia, so estimate one token per 6 bytes.
	estimatedTokens := len(source)/6 + 64

	internerCap := len(source) / 40
	if internerCap < 256 {
		internerCap = 256
	}

	return &Lexer{
		source:   source,
		filename: filename,
		line:     1,
		column:   1,
		tokens:   make([]Token, 0, estimatedTokens),
		interner: NewInterner(internerCap),
	}
}

// Interner returns the string interner, useful for parser.
func (l *Lexer) Interner() *Interner {
	return l.interner
}

// ScanAll lexes the entire source file and returns all tokens, hidden ones
// included, followed by a single EOF token.
func (l *Lexer) ScanAll() []Token {
	// A marker on the very first line has no preceding line break.
	if end, ok := l.markerEnd(0, false); ok {
		l.emit(STAR, end)
	}

	for l.pos < len(l.source) {
		tok := l.scanToken()
		tok.Index = len(l.tokens)
		l.tokens = append(l.tokens, tok)
	}

	l.tokens = append(l.tokens, Token{
		Type:   EOF,
		Index:  len(l.tokens),
		Start:  l.pos,
		End:    l.pos,
		Line:   l.line,
		Column: l.column,
	})

	return l.tokens
}

// emit appends a token spanning from the current position to end.
func (l *Lexer) emit(typ TokenType, end int) {
	start, line, col := l.pos, l.line, l.column
	l.advanceTo(end)
	l.tokens = append(l.tokens, Token{typ, len(l.tokens), start, l.pos, line, col})
}

// scanToken scans the next token from the current position.
func (l *Lexer) scanToken() Token {
	start := l.pos
	startLine := l.line
	startCol := l.column

	ch := l.peek()

	switch {
	case ch == '\n' || ch == '\r' && l.peekAt(1) == '\n':
		if end, ok := l.markerEnd(l.pos, true); ok {
			l.advanceTo(end)
			return Token{STAR, 0, start, l.pos, startLine, startCol}
		}
		if ch == '\r' {
			l.advance()
		}
		l.advance()
		return Token{NEWLINE, 0, start, l.pos, startLine, startCol}

	case isBlank(ch) || ch == '\r':
		for l.pos < len(l.source) && (isBlank(l.source[l.pos]) || l.source[l.pos] == '\r' && l.peekAt(1) != '\n') {
			l.advance()
		}
		return Token{WHITESPACE, 0, start, l.pos, startLine, startCol}

	case ch == '/' && l.peekAt(1) == '/':
		return l.scanLineComment(start, startLine, startCol)

	case ch == '/' && l.peekAt(1) == '*':
		return l.scanBlockComment(start, startLine, startCol)

	case ch == '"':
		if bytes.HasPrefix(l.source[l.pos:], []byte(`"""`)) {
			return l.scanMultilineString(start, startLine, startCol)
		}
		return l.scanString(start, startLine, startCol)

	case ch == '\'':
		return l.scanUnit(start, startLine, startCol)

	case isUpper(ch):
		if end, typ, ok := l.keywordWithColon(); ok {
			l.advanceTo(end)
			return Token{typ, 0, start, l.pos, startLine, startCol}
		}
		return l.scanWord(start, startLine, startCol)

	default:
		return l.scanWord(start, startLine, startCol)
	}
}

// markerEnd reports whether a rule marker begins at pos and where it ends.
// A marker is an optional line break, indentation and a '*' that is followed
// by whitespace, a line break or the end of input.
func (l *Lexer) markerEnd(pos int, needBreak bool) (int, bool) {
	src := l.source
	if needBreak {
		switch {
		case pos+1 < len(src) && src[pos] == '\r' && src[pos+1] == '\n':
			pos += 2
		case pos < len(src) && src[pos] == '\n':
			pos++
		default:
			return 0, false
		}
	}

	for pos < len(src) && (src[pos] == ' ' || src[pos] == '\t') {
		pos++
	}
	if pos >= len(src) || src[pos] != '*' {
		return 0, false
	}
	pos++
	if pos < len(src) && !isBlank(src[pos]) && src[pos] != '\n' && src[pos] != '\r' {
		return 0, false
	}
	return pos, true
}

// scanLineComment scans a // comment up to, not including, its line break.
// A comment on a line of its own that is directly followed by a rule marker
// on the next line is folded into the marker token. A comment ending a line
// with code on it stays a comment.
func (l *Lexer) scanLineComment(start, line, col int) Token {
	for l.pos < len(l.source) && l.source[l.pos] != '\n' {
		if l.source[l.pos] == '\r' && l.peekAt(1) == '\n' {
			break
		}
		l.advance()
	}

	if !l.startsLine(start) {
		return Token{LINECOMMENT, 0, start, l.pos, line, col}
	}
	if end, ok := l.markerEnd(l.pos, true); ok {
		l.advanceTo(end)
		return Token{STAR, 0, start, l.pos, line, col}
	}

	return Token{LINECOMMENT, 0, start, l.pos, line, col}
}

// startsLine reports whether only blanks precede pos on its line.
func (l *Lexer) startsLine(pos int) bool {
	for i := pos - 1; i >= 0; i-- {
		switch ch := l.source[i]; {
		case ch == '\n':
			return true
		case !isBlank(ch):
			return false
		}
	}
	return true
}

// scanBlockComment scans a /* ... */ comment. An unterminated comment
// consumes the rest of the input and is reported as ILLEGAL.
func (l *Lexer) scanBlockComment(start, line, col int) Token {
	l.advance() // '/'
	l.advance() // '*'

	for l.pos < len(l.source) {
		if l.source[l.pos] == '*' && l.peekAt(1) == '/' {
			l.advance()
			l.advance()
			return Token{BLOCKCOMMENT, 0, start, l.pos, line, col}
		}
		l.advance()
	}

	return Token{ILLEGAL, 0, start, l.pos, line, col}
}

// scanString scans a quoted string: "...". Strings may span lines and
// support backslash escapes.
func (l *Lexer) scanString(start, line, col int) Token {
	l.advance() // opening quote

	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch == '"' {
			l.advance()
			return Token{STRING, 0, start, l.pos, line, col}
		}
		if ch == '\\' && l.pos+1 < len(l.source) {
			l.advance()
		}
		l.advance()
	}

	return Token{ILLEGAL, 0, start, l.pos, line, col}
}

// scanMultilineString scans a triple-quoted string: """...""".
func (l *Lexer) scanMultilineString(start, line, col int) Token {
	l.advanceTo(l.pos + 3)

	idx := bytes.Index(l.source[l.pos:], []byte(`"""`))
	if idx < 0 {
		l.advanceTo(len(l.source))
		return Token{ILLEGAL, 0, start, l.pos, line, col}
	}

	l.advanceTo(l.pos + idx + 3)
	return Token{MULTILINESTRING, 0, start, l.pos, line, col}
}

// scanUnit scans a UCUM unit: 'mg'. Units never span lines.
func (l *Lexer) scanUnit(start, line, col int) Token {
	l.advance() // opening quote

	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch == '\n' || ch == '\r' {
			break
		}
		l.advance()
		if ch == '\'' {
			return Token{UNIT, 0, start, l.pos, line, col}
		}
	}

	// No closing quote: fall back to an ordinary word.
	l.pos, l.line, l.column = start, line, col
	return l.scanWord(start, line, col)
}

// keywordWithColon matches an entity or metadata keyword, optional blanks
// and a colon at the current position.
func (l *Lexer) keywordWithColon() (int, TokenType, bool) {
	pos := l.pos
	for pos < len(l.source) && isLetter(l.source[pos]) {
		pos++
	}

	typ, ok := colonKeywords[string(l.source[l.pos:pos])]
	if !ok {
		return 0, 0, false
	}

	for pos < len(l.source) && isBlank(l.source[pos]) {
		pos++
	}
	if pos >= len(l.source) || l.source[pos] != ':' {
		return 0, 0, false
	}
	return pos + 1, typ, true
}

var colonKeywords = map[string]TokenType{
	"Alias":      ALIAS,
	"Profile":    PROFILE,
	"Extension":  EXTENSION,
	"Logical":    LOGICAL,
	"Resource":   RESOURCE,
	"Instance":   INSTANCE,
	"Invariant":  INVARIANT,
	"ValueSet":   VALUESET,
	"CodeSystem": CODESYSTEM,
	"RuleSet":    RULESET,
	"Mapping":    MAPPING,

	"Parent":          PARENT,
	"Id":              ID,
	"Title":           TITLE,
	"Description":     DESCRIPTION,
	"Expression":      EXPRESSION,
	"XPath":           XPATH,
	"Severity":        SEVERITY,
	"InstanceOf":      INSTANCEOF,
	"Usage":           USAGE,
	"Source":          SOURCE,
	"Target":          TARGET,
	"Context":         CONTEXT,
	"Characteristics": CHARACTERISTICS,
}

// scanWord scans a run of non-whitespace characters and classifies it.
// Parenthesized groups and quoted code parts may contain blanks.
func (l *Lexer) scanWord(start, line, col int) Token {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if isBlank(ch) || ch == '\n' || ch == '\r' {
			break
		}
		switch {
		case ch == '(':
			l.skipGroup()
		case ch == '#' && l.peekAt(1) == '"':
			l.advance()
			l.skipQuoted()
		default:
			l.advance()
		}
	}

	typ := classifyWord(l.source[start:l.pos])
	return Token{typ, 0, start, l.pos, line, col}
}

// skipGroup consumes a balanced parenthesized group on the current line.
func (l *Lexer) skipGroup() {
	depth := 0
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		switch ch {
		case '\n', '\r':
			return
		case '"':
			l.skipQuoted()
			continue
		case '(':
			depth++
		case ')':
			depth--
		}
		l.advance()
		if depth == 0 {
			return
		}
	}
}

// skipQuoted consumes a "..." run without leaving the current line.
func (l *Lexer) skipQuoted() {
	l.advance() // opening quote
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch == '\n' || ch == '\r' {
			return
		}
		if ch == '\\' && l.pos+1 < len(l.source) {
			l.advance()
		}
		l.advance()
		if ch == '"' {
			return
		}
	}
}

// classifyWord returns the token type for a scanned word.
// Uses byte comparison to avoid allocating strings.
func classifyWord(word []byte) TokenType {
	switch {
	case len(word) == 0:
		return ILLEGAL
	case bytes.Equal(word, []byte("=")):
		return EQUAL
	case bytes.Equal(word, []byte("->")):
		return ARROW
	case bytes.Equal(word, []byte("true")), bytes.Equal(word, []byte("false")):
		return BOOL
	case isFlag(word):
		return FLAG
	case word[0] == '(':
		return classifyGroup(word)
	case word[0] == '^':
		return CARET
	case bytes.HasPrefix(word, []byte("Reference(")) && word[len(word)-1] == ')':
		return REFERENCE
	case bytes.HasPrefix(word, []byte("Canonical(")) && word[len(word)-1] == ')':
		return CANONICAL
	case bytes.IndexByte(word, '#') >= 0:
		return CODE
	case isCard(word):
		return CARD
	case isNumber(word):
		return NUMBER
	}

	if typ, ok := ruleKeywords[string(word)]; ok {
		return typ
	}
	return SEQUENCE
}

var ruleKeywords = map[string]TokenType{
	"from":     FROM,
	"only":     ONLY,
	"or":       OR,
	"and":      AND,
	"contains": CONTAINS,
	"named":    NAMED,
	"obeys":    OBEYS,
	"insert":   INSERT,
	"include":  INCLUDE,
	"exclude":  EXCLUDE,
	"codes":    CODES,
	"system":   SYSTEM,
	"valueset": VALUESETREF,
	"where":    WHERE,
}

// classifyGroup classifies a word that starts with '('.
func classifyGroup(word []byte) TokenType {
	if word[len(word)-1] != ')' {
		return SEQUENCE
	}
	inner := string(bytes.TrimSpace(word[1 : len(word)-1]))
	switch inner {
	case "required", "extensible", "preferred", "example":
		return STRENGTH
	case "exactly":
		return EXACTLY
	default:
		return SEQUENCE
	}
}

func isFlag(word []byte) bool {
	switch string(word) {
	case "MS", "SU", "TU", "N", "D", "?!":
		return true
	default:
		return false
	}
}

// isCard matches [0-9]*..([0-9]+|*)
func isCard(word []byte) bool {
	idx := bytes.Index(word, []byte(".."))
	if idx < 0 {
		return false
	}
	if !allDigits(word[:idx]) {
		return false
	}
	upper := word[idx+2:]
	if len(upper) == 0 {
		return false
	}
	return bytes.Equal(upper, []byte("*")) || (allDigits(upper))
}

// isNumber matches [+-]?[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?
func isNumber(word []byte) bool {
	i := 0
	if i < len(word) && (word[i] == '+' || word[i] == '-') {
		i++
	}
	j := digitsFrom(word, i)
	if j == i {
		return false
	}
	i = j
	if i < len(word) && word[i] == '.' {
		j = digitsFrom(word, i+1)
		if j == i+1 {
			return false
		}
		i = j
	}
	if i < len(word) && (word[i] == 'e' || word[i] == 'E') {
		i++
		if i < len(word) && (word[i] == '+' || word[i] == '-') {
			i++
		}
		j = digitsFrom(word, i)
		if j == i {
			return false
		}
		i = j
	}
	return i == len(word)
}

func digitsFrom(word []byte, i int) int {
	for i < len(word) && word[i] >= '0' && word[i] <= '9' {
		i++
	}
	return i
}

func allDigits(b []byte) bool {
	return digitsFrom(b, 0) == len(b)
}

func isBlank(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\f'
}

func isUpper(ch byte) bool {
	return ch >= 'A' && ch <= 'Z'
}

func isLetter(ch byte) bool {
	return ch >= 'A' && ch <= 'Z' || ch >= 'a' && ch <= 'z'
}

// Helper methods

func (l *Lexer) peek() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.source) {
		return 0
	}
	return l.source[l.pos+offset]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	ch := l.source[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceTo(end int) {
	for l.pos < end {
		l.advance()
	}
}
