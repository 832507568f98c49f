package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token produced during recovery.
	Invalid Kind = iota
	// EOF marks the end of the submitted snippet.
	EOF

	// Ident represents an identifier token.
	Ident

	// KwImport represents the 'import' keyword.
	KwImport
	// KwData represents the 'data' keyword.
	KwData
	// KwLet represents the 'let' keyword.
	KwLet
	// KwFunc represents the 'func' keyword.
	KwFunc
	// KwReturn represents the 'return' keyword.
	KwReturn
	// KwIf represents the 'if' keyword.
	KwIf
	// KwElse represents the 'else' keyword.
	KwElse
	// KwWhile represents the 'while' keyword.
	KwWhile
	// KwFor represents the 'for' keyword.
	KwFor
	// KwBreak represents the 'break' keyword.
	KwBreak
	// KwContinue represents the 'continue' keyword.
	KwContinue
	// KwTrue represents the 'true' keyword.
	KwTrue
	// KwFalse represents the 'false' keyword.
	KwFalse
	// KwNull represents the 'null' keyword.
	KwNull

	// IntLit represents an integer literal.
	IntLit
	// RealLit represents a real (floating point) literal.
	RealLit
	// StringLit represents a string literal.
	StringLit

	Plus    // +
	Minus   // -
	Star    // *
	Slash   // /
	Percent // %

	Assign // =
	EqEq   // ==
	Bang   // !
	BangEq // !=
	Lt     // <
	LtEq   // <=
	Gt     // >
	GtEq   // >=
	AndAnd // &&
	OrOr   // ||

	Colon     // :
	Semicolon // ;
	Comma     // ,
	Dot       // .
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
)

var kindNames = map[Kind]string{
	Invalid:    "invalid",
	EOF:        "eof",
	Ident:      "identifier",
	KwImport:   "'import'",
	KwData:     "'data'",
	KwLet:      "'let'",
	KwFunc:     "'func'",
	KwReturn:   "'return'",
	KwIf:       "'if'",
	KwElse:     "'else'",
	KwWhile:    "'while'",
	KwFor:      "'for'",
	KwBreak:    "'break'",
	KwContinue: "'continue'",
	KwTrue:     "'true'",
	KwFalse:    "'false'",
	KwNull:     "'null'",
	IntLit:     "integer literal",
	RealLit:    "real literal",
	StringLit:  "string literal",
	Plus:       "'+'",
	Minus:      "'-'",
	Star:       "'*'",
	Slash:      "'/'",
	Percent:    "'%'",
	Assign:     "'='",
	EqEq:       "'=='",
	Bang:       "'!'",
	BangEq:     "'!='",
	Lt:         "'<'",
	LtEq:       "'<='",
	Gt:         "'>'",
	GtEq:       "'>='",
	AndAnd:     "'&&'",
	OrOr:       "'||'",
	Colon:      "':'",
	Semicolon:  "';'",
	Comma:      "','",
	Dot:        "'.'",
	LParen:     "'('",
	RParen:     "')'",
	LBrace:     "'{'",
	RBrace:     "'}'",
	LBracket:   "'['",
	RBracket:   "']'",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}
