package parser

import (
	"github.com/lhaig/mazebot/internal/diagnostic"
	"github.com/lhaig/mazebot/internal/lexer"
)

// sexpr is the generic S-expression tree the reader produces. It only
// lives between the read and transform passes.
type sexpr interface {
	line() int
}

type listExpr struct {
	items []sexpr
	ln    int
	col   int
}

type symbolExpr struct {
	value string
	ln    int
	col   int
}

// numberExpr keeps the literal text; the transformer validates it so
// errors name the construct that used the number.
type numberExpr struct {
	text string
	ln   int
	col  int
}

func (l *listExpr) line() int   { return l.ln }
func (s *symbolExpr) line() int { return s.ln }
func (n *numberExpr) line() int { return n.ln }

// head returns the list's leading symbol, if it has one
func (l *listExpr) head() (*symbolExpr, bool) {
	if len(l.items) == 0 {
		return nil, false
	}
	sym, ok := l.items[0].(*symbolExpr)
	return sym, ok
}

// current returns the current token
func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

// advance moves to the next token and returns the consumed token
func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// check returns true if the current token is of the given type
func (p *Parser) check(tt lexer.TokenType) bool {
	return p.current().Type == tt
}

// readExpr reads one S-expression
func (p *Parser) readExpr() (sexpr, error) {
	tok := p.current()
	switch tok.Type {
	case lexer.LPAREN:
		return p.readList()
	case lexer.SYMBOL:
		p.advance()
		return &symbolExpr{value: tok.Literal, ln: tok.Line, col: tok.Column}, nil
	case lexer.NUMBER:
		p.advance()
		return &numberExpr{text: tok.Literal, ln: tok.Line, col: tok.Column}, nil
	case lexer.RPAREN:
		return nil, diagnostic.Newf(diagnostic.UnexpectedToken, tok.Line, tok.Column,
			"Unexpected ')'")
	default:
		return nil, diagnostic.Newf(diagnostic.UnexpectedEOF, tok.Line, tok.Column,
			"Unexpected end of input")
	}
}

// readList reads a parenthesized list; the opening paren is current
func (p *Parser) readList() (*listExpr, error) {
	start := p.advance()
	list := &listExpr{ln: start.Line, col: start.Column}

	for {
		switch p.current().Type {
		case lexer.RPAREN:
			p.advance()
			return list, nil
		case lexer.EOF:
			return nil, diagnostic.Newf(diagnostic.UnclosedList, start.Line, start.Column,
				"Unclosed list starting").WithHint("add a matching ')'")
		}

		item, err := p.readExpr()
		if err != nil {
			return nil, err
		}
		list.items = append(list.items, item)
	}
}
