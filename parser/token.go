package parser

// TokenType represents the type of token scanned from the input.
type TokenType uint8

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Hidden channel
	WHITESPACE   // spaces, tabs and form feeds
	NEWLINE      // \n or \r\n
	LINECOMMENT  // // comment (without its line break)
	BLOCKCOMMENT // /* comment */

	// Rule marker: an optional line comment, a line break, indentation and '*'
	STAR

	// Entity keywords (always followed by ':')
	ALIAS      // Alias:
	PROFILE    // Profile:
	EXTENSION  // Extension:
	LOGICAL    // Logical:
	RESOURCE   // Resource:
	INSTANCE   // Instance:
	INVARIANT  // Invariant:
	VALUESET   // ValueSet:
	CODESYSTEM // CodeSystem:
	RULESET    // RuleSet:
	MAPPING    // Mapping:

	// Metadata keywords (always followed by ':')
	PARENT          // Parent:
	ID              // Id:
	TITLE           // Title:
	DESCRIPTION     // Description:
	EXPRESSION      // Expression:
	XPATH           // XPath:
	SEVERITY        // Severity:
	INSTANCEOF      // InstanceOf:
	USAGE           // Usage:
	SOURCE          // Source:
	TARGET          // Target:
	CONTEXT         // Context:
	CHARACTERISTICS // Characteristics:

	// Rule keywords
	FROM        // from
	ONLY        // only
	OR          // or
	AND         // and
	CONTAINS    // contains
	NAMED       // named
	OBEYS       // obeys
	INSERT      // insert
	INCLUDE     // include
	EXCLUDE     // exclude
	CODES       // codes
	SYSTEM      // system
	VALUESETREF // valueset
	WHERE       // where
	EXACTLY     // (exactly)

	// Literals
	STRENGTH        // (required) (extensible) (preferred) (example)
	FLAG            // MS SU TU N D ?!
	EQUAL           // =
	ARROW           // ->
	CARD            // 0..1, 1..*, ..*
	NUMBER          // 12, -3.5, 1e3
	STRING          // "quoted"
	MULTILINESTRING // """quoted"""
	BOOL            // true false
	CODE            // system#code, #code, #"quoted code"
	UNIT            // 'mg'
	REFERENCE       // Reference(Patient or Group)
	CANONICAL       // Canonical(MyProfile)
	CARET           // ^short
	SEQUENCE        // any other run of non-whitespace characters
)

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	WHITESPACE:   "WHITESPACE",
	NEWLINE:      "NEWLINE",
	LINECOMMENT:  "LINE_COMMENT",
	BLOCKCOMMENT: "BLOCK_COMMENT",

	STAR: "*",

	ALIAS:      "Alias:",
	PROFILE:    "Profile:",
	EXTENSION:  "Extension:",
	LOGICAL:    "Logical:",
	RESOURCE:   "Resource:",
	INSTANCE:   "Instance:",
	INVARIANT:  "Invariant:",
	VALUESET:   "ValueSet:",
	CODESYSTEM: "CodeSystem:",
	RULESET:    "RuleSet:",
	MAPPING:    "Mapping:",

	PARENT:          "Parent:",
	ID:              "Id:",
	TITLE:           "Title:",
	DESCRIPTION:     "Description:",
	EXPRESSION:      "Expression:",
	XPATH:           "XPath:",
	SEVERITY:        "Severity:",
	INSTANCEOF:      "InstanceOf:",
	USAGE:           "Usage:",
	SOURCE:          "Source:",
	TARGET:          "Target:",
	CONTEXT:         "Context:",
	CHARACTERISTICS: "Characteristics:",

	FROM:        "from",
	ONLY:        "only",
	OR:          "or",
	AND:         "and",
	CONTAINS:    "contains",
	NAMED:       "named",
	OBEYS:       "obeys",
	INSERT:      "insert",
	INCLUDE:     "include",
	EXCLUDE:     "exclude",
	CODES:       "codes",
	SYSTEM:      "system",
	VALUESETREF: "valueset",
	WHERE:       "where",
	EXACTLY:     "(exactly)",

	STRENGTH:        "STRENGTH",
	FLAG:            "FLAG",
	EQUAL:           "=",
	ARROW:           "->",
	CARD:            "CARD",
	NUMBER:          "NUMBER",
	STRING:          "STRING",
	MULTILINESTRING: "MULTILINE_STRING",
	BOOL:            "BOOL",
	CODE:            "CODE",
	UNIT:            "UNIT",
	REFERENCE:       "REFERENCE",
	CANONICAL:       "CANONICAL",
	CARET:           "CARET",
	SEQUENCE:        "SEQUENCE",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Channel separates grammar tokens from the whitespace and comments the
// grammar ignores but exact reconstruction needs.
type Channel uint8

const (
	DefaultChannel Channel = iota
	HiddenChannel
)

func (c Channel) String() string {
	if c == HiddenChannel {
		return "hidden"
	}
	return "default"
}

// Channel returns the channel tokens of this type are emitted on.
func (t TokenType) Channel() Channel {
	switch t {
	case WHITESPACE, NEWLINE, LINECOMMENT, BLOCKCOMMENT:
		return HiddenChannel
	default:
		return DefaultChannel
	}
}

// IsEntityKeyword reports whether t opens an entity declaration.
func (t TokenType) IsEntityKeyword() bool {
	return t >= ALIAS && t <= MAPPING
}

// IsMetadataKeyword reports whether t opens a metadata clause.
func (t TokenType) IsMetadataKeyword() bool {
	return t >= PARENT && t <= CHARACTERISTICS
}

// IsRuleKeyword reports whether t is one of the lowercase rule keywords.
// These double as path segments ("system", "codes") when they appear where a
// path is expected.
func (t TokenType) IsRuleKeyword() bool {
	return t >= FROM && t <= WHERE
}

// Token represents a lexical token with zero-copy semantics.
// Instead of storing the token text as a string (which would allocate),
// we store byte offsets into the original source buffer.
type Token struct {
	Type   TokenType
	Index  int // Position in the token stream
	Start  int // Byte offset into source buffer
	End    int // End offset (exclusive)
	Line   int // Line number (1-indexed)
	Column int // Column number (1-indexed)
}

// String materializes the token text from the source buffer.
func (t Token) String(source []byte) string {
	if t.Start > len(source) || t.End > len(source) || t.Start > t.End {
		return ""
	}
	return string(source[t.Start:t.End])
}

// Bytes returns a zero-copy view of the token text.
func (t Token) Bytes(source []byte) []byte {
	if t.Start > len(source) || t.End > len(source) || t.Start > t.End {
		return nil
	}
	return source[t.Start:t.End]
}

// Len returns the length of the token in bytes.
func (t Token) Len() int {
	return t.End - t.Start
}

// Hidden reports whether the token travels on the hidden channel.
func (t Token) Hidden() bool {
	return t.Type.Channel() == HiddenChannel
}
