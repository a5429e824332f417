package lexer

import (
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/lhaig/mazebot/internal/diagnostic"
)

// Lexer scans robot program source and produces tokens
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int  // current line number
	column       int  // current column number
	fold         cases.Caser
}

// New creates a new Lexer instance
func New(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
		fold:   cases.Fold(),
	}
	l.readChar()
	return l
}

// readChar reads the next character and advances the position
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII code for NUL
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// peekChar returns the next character without advancing the position
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

// skipWhitespace skips whitespace characters
func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && isSpace(l.ch) {
		if l.ch == '\n' {
			l.line++
			l.column = 0
		}
		l.readChar()
	}
}

// skipLineComment skips a comment up to, but not including, the newline
func (l *Lexer) skipLineComment() {
	for !l.atEnd() && l.ch != '\n' {
		l.readChar()
	}
}

// readSymbol reads a symbol and folds it to lower case
func (l *Lexer) readSymbol() string {
	position := l.position
	for !l.atEnd() && (isSymbolChar(l.ch) || isDigit(l.ch)) {
		l.readChar()
	}
	return l.fold.String(l.input[position:l.position])
}

// readNumber reads a run of digits, with an optional leading minus sign
// so the parser can reject negative literals by name.
func (l *Lexer) readNumber() string {
	position := l.position
	if l.ch == '-' {
		l.readChar()
	}
	for !l.atEnd() && isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() (Token, error) {
	for {
		l.skipWhitespace()
		if l.atEnd() {
			return Token{Type: EOF, Line: l.line, Column: l.column}, nil
		}
		if l.ch == ';' || l.ch == '#' || (l.ch == '/' && l.peekChar() == '/') {
			l.skipLineComment()
			continue
		}
		break
	}

	tok := Token{Line: l.line, Column: l.column}

	switch {
	case l.ch == '(':
		tok.Type, tok.Literal = LPAREN, "("
	case l.ch == ')':
		tok.Type, tok.Literal = RPAREN, ")"
	case isDigit(l.ch) || (l.ch == '-' && isDigit(l.peekChar())):
		tok.Type, tok.Literal = NUMBER, l.readNumber()
		return tok, nil // readNumber already advanced
	case isSymbolChar(l.ch):
		tok.Type, tok.Literal = SYMBOL, l.readSymbol()
		return tok, nil // readSymbol already advanced
	default:
		r, _ := utf8.DecodeRuneInString(l.input[l.position:])
		return tok, diagnostic.Newf(diagnostic.UnexpectedCharacter, tok.Line, tok.Column,
			"Unexpected character '%c'", r)
	}

	l.readChar()
	return tok, nil
}

// Tokenize returns all tokens from the input, ending with EOF.
// The first unexpected character aborts tokenization.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

// Tokenize is a convenience wrapper around New(input).Tokenize()
func Tokenize(input string) ([]Token, error) {
	return New(input).Tokenize()
}

// Helper functions

func isSymbolChar(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch == '-'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\v' || ch == '\f'
}
