package lexer

import (
	"errors"
	"testing"

	"github.com/lhaig/mazebot/internal/diagnostic"
)

func TestNextToken_Structure(t *testing.T) {
	input := "(forward) (repeat 3 (turn-left))"
	expected := []struct {
		typ     TokenType
		literal string
	}{
		{LPAREN, "("},
		{SYMBOL, "forward"},
		{RPAREN, ")"},
		{LPAREN, "("},
		{SYMBOL, "repeat"},
		{NUMBER, "3"},
		{LPAREN, "("},
		{SYMBOL, "turn-left"},
		{RPAREN, ")"},
		{RPAREN, ")"},
		{EOF, ""},
	}

	l := New(input)
	for i, exp := range expected {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("token[%d] - unexpected error: %v", i, err)
		}
		if tok.Type != exp.typ {
			t.Errorf("token[%d] - wrong type. expected=%q, got=%q", i, exp.typ, tok.Type)
		}
		if tok.Literal != exp.literal {
			t.Errorf("token[%d] - wrong literal. expected=%q, got=%q", i, exp.literal, tok.Literal)
		}
	}
}

func TestNextToken_SymbolsAreCaseFolded(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"FORWARD", "forward"},
		{"Turn-Left", "turn-left"},
		{"my_Var2", "my_var2"},
		{"_hidden", "_hidden"},
		{"-", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok, err := New(tt.input).NextToken()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tok.Type != SYMBOL {
				t.Fatalf("expected SYMBOL, got %s", tok.Type)
			}
			if tok.Literal != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tok.Literal)
			}
		})
	}
}

func TestNextToken_Numbers(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"0", "0"},
		{"42", "42"},
		{"007", "007"},
		{"-3", "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok, err := New(tt.input).NextToken()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tok.Type != NUMBER {
				t.Fatalf("expected NUMBER, got %s", tok.Type)
			}
			if tok.Literal != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tok.Literal)
			}
		})
	}
}

func TestNextToken_Comments(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"semicolon", "; go east\n(forward)"},
		{"hash", "# go east\n(forward)"},
		{"double slash", "// go east\n(forward)"},
		{"trailing", "(forward) ; done\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var types []TokenType
			for _, tok := range tokens {
				types = append(types, tok.Type)
			}
			expected := []TokenType{LPAREN, SYMBOL, RPAREN, EOF}
			if len(types) != len(expected) {
				t.Fatalf("expected %v, got %v", expected, types)
			}
			for i := range expected {
				if types[i] != expected[i] {
					t.Errorf("token[%d]: expected %s, got %s", i, expected[i], types[i])
				}
			}
		})
	}
}

func TestNextToken_LineTracking(t *testing.T) {
	input := "(forward)\n\n; comment\n  (turn-left)\r\n(forward)"
	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := map[string][]int{}
	for _, tok := range tokens {
		if tok.Type == SYMBOL {
			lines[tok.Literal] = append(lines[tok.Literal], tok.Line)
		}
	}

	if got := lines["forward"]; len(got) != 2 || got[0] != 1 || got[1] != 5 {
		t.Errorf("expected forward on lines [1 5], got %v", got)
	}
	if got := lines["turn-left"]; len(got) != 1 || got[0] != 4 {
		t.Errorf("expected turn-left on line 4, got %v", got)
	}
}

func TestNextToken_Columns(t *testing.T) {
	tokens, err := Tokenize("(repeat 10)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []int{1, 2, 9, 11}
	for i, col := range expected {
		if tokens[i].Column != col {
			t.Errorf("token[%d] %s: expected column %d, got %d", i, tokens[i].Literal, col, tokens[i].Column)
		}
	}
}

func TestTokenize_UnexpectedCharacter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		char  string
		line  int
	}{
		{"brace", "(forward)\n{", "{", 2},
		{"plus", "(repeat +3 (forward))", "+", 1},
		{"single slash", "/ (forward)", "/", 1},
		{"unicode", "\n\n(forwärd)", "ä", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var perr *diagnostic.ProgramError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *diagnostic.ProgramError, got %T", err)
			}
			if perr.Kind != diagnostic.UnexpectedCharacter {
				t.Errorf("expected UnexpectedCharacter, got %s", perr.Kind)
			}
			if perr.Line != tt.line {
				t.Errorf("expected line %d, got %d", tt.line, perr.Line)
			}
			want := "Unexpected character '" + tt.char + "'"
			if perr.Message != want {
				t.Errorf("expected message %q, got %q", want, perr.Message)
			}
		})
	}
}

func TestTokenize_Empty(t *testing.T) {
	for _, input := range []string{"", "   \n\t", "; only a comment"} {
		tokens, err := Tokenize(input)
		if err != nil {
			t.Fatalf("input %q: unexpected error: %v", input, err)
		}
		if len(tokens) != 1 || tokens[0].Type != EOF {
			t.Errorf("input %q: expected only EOF, got %v", input, tokens)
		}
	}
}
