package lexer

import "fmt"

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	EOF TokenType = iota

	// Structure
	LPAREN // (
	RPAREN // )

	// Leaves
	NUMBER // 42
	SYMBOL // forward, turn-left, my_var
)

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// String returns a string representation of the token type
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case NUMBER:
		return "NUMBER"
	case SYMBOL:
		return "SYMBOL"
	default:
		return fmt.Sprintf("TokenType(%d)", int(t))
	}
}

// IsParen reports whether the token is structural
func (t Token) IsParen() bool {
	return t.Type == LPAREN || t.Type == RPAREN
}

// String returns the token as it would be shown in an error message
func (t Token) String() string {
	if t.Type == EOF {
		return "end of input"
	}
	return fmt.Sprintf("'%s'", t.Literal)
}
