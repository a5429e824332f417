package parser

import (
	"github.com/lhaig/mazebot/internal/ast"
	"github.com/lhaig/mazebot/internal/diagnostic"
	"github.com/lhaig/mazebot/internal/lexer"
)

// Parser holds the parser state
type Parser struct {
	tokens []lexer.Token
	pos    int
	lexErr error
}

// New creates a new parser. Lexing happens eagerly; a lex error is
// reported by Parse.
func New(source string) *Parser {
	tokens, err := lexer.Tokenize(source)
	return &Parser{
		tokens: tokens,
		pos:    0,
		lexErr: err,
	}
}

// Parse reads the whole program and returns its root Block.
// The first error aborts parsing; no partial AST is returned.
// Errors are *diagnostic.ProgramError values.
func (p *Parser) Parse() (*ast.Block, error) {
	if p.lexErr != nil {
		return nil, p.lexErr
	}

	// Read pass: token stream -> S-expressions
	var exprs []sexpr
	for !p.check(lexer.EOF) {
		expr, err := p.readExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}

	// Transform pass: S-expressions -> AST
	root := &ast.Block{Line: 1}
	for _, expr := range exprs {
		list, ok := expr.(*listExpr)
		if !ok {
			return nil, topLevelError(expr)
		}
		stmt, err := transformList(list)
		if err != nil {
			return nil, err
		}
		root.Statements = append(root.Statements, stmt)
	}
	return root, nil
}

// Parse is a convenience wrapper around New(source).Parse()
func Parse(source string) (*ast.Block, error) {
	return New(source).Parse()
}

func topLevelError(expr sexpr) error {
	switch e := expr.(type) {
	case *symbolExpr:
		return diagnostic.Newf(diagnostic.TopLevelMustBeList, e.ln, e.col,
			"Top level expressions must be lists, found '%s'", e.value).
			WithHint("wrap it in parentheses, e.g. '(" + e.value + ")'")
	case *numberExpr:
		return diagnostic.Newf(diagnostic.TopLevelMustBeList, e.ln, e.col,
			"Top level expressions must be lists, found '%s'", e.text)
	default:
		return diagnostic.Newf(diagnostic.TopLevelMustBeList, expr.line(), 0,
			"Top level expressions must be lists")
	}
}
