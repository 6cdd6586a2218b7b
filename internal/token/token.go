package token

// TokenType identifies the lexical class of a token.
type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals
	IDENT_LOWER TokenType = "IDENT_LOWER" // bindings: x, rest
	IDENT_UPPER TokenType = "IDENT_UPPER" // constructors/types: Some, MyOpt
	INT         TokenType = "INT"
	FLOAT       TokenType = "FLOAT"
	CHAR        TokenType = "CHAR"
	STRING      TokenType = "STRING"
	TRUE        TokenType = "TRUE"
	FALSE       TokenType = "FALSE"

	// Punctuation used in pattern notation
	UNDERSCORE TokenType = "_"
	LPAREN     TokenType = "("
	RPAREN     TokenType = ")"
	LBRACKET   TokenType = "["
	RBRACKET   TokenType = "]"
	LBRACE     TokenType = "{"
	RBRACE     TokenType = "}"
	COMMA      TokenType = ","
	COLON      TokenType = ":"
	PIPE       TokenType = "|"
	AT         TokenType = "@"
	CARET      TokenType = "^"
	AMPERSAND  TokenType = "&"
	DOT        TokenType = "."
	DOTDOT     TokenType = ".."
	DOTDOTEQ   TokenType = "..="
	ELLIPSIS   TokenType = "..."
	MINUS      TokenType = "-"
)

// Token carries a lexeme and its source position.
// Line and Column are 1-based; a zero Token means "no position".
type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
	Column int
}

// IsZero reports whether the token carries no position information.
func (t Token) IsZero() bool {
	return t.Type == "" && t.Lexeme == "" && t.Line == 0 && t.Column == 0
}
