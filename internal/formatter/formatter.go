package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lhaig/mazebot/internal/ast"
)

// Format takes a parsed program and returns canonical source: one
// statement per line, bodies indented two spaces, closing parens kept on
// the last line of the form, and a blank line around function definitions.
func Format(prog *ast.Block) string {
	f := &formatter{}
	if prog != nil {
		f.formatProgram(prog)
	}
	return f.sb.String()
}

type formatter struct {
	sb     strings.Builder
	indent int
}

// --- helpers ---

func (f *formatter) emit(s string) {
	f.sb.WriteString(s)
}

func (f *formatter) emitf(format string, args ...any) {
	f.sb.WriteString(fmt.Sprintf(format, args...))
}

func (f *formatter) newline() {
	f.sb.WriteString("\n")
	f.sb.WriteString(f.indentStr())
}

func (f *formatter) incIndent() { f.indent++ }
func (f *formatter) decIndent() { f.indent-- }

func (f *formatter) indentStr() string {
	return strings.Repeat("  ", f.indent)
}

// --- program-level ---

func (f *formatter) formatProgram(prog *ast.Block) {
	stmts := flatten(prog.Statements)
	for i, stmt := range stmts {
		if i > 0 {
			f.emit("\n")
			if isFunction(stmt) || isFunction(stmts[i-1]) {
				f.emit("\n")
			}
		}
		f.formatStatement(stmt)
	}
	if len(stmts) > 0 {
		f.emit("\n")
	}
}

// --- statements ---

func (f *formatter) formatStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.Command:
		f.emitf("(%s)", commandName(s.Kind))
	case *ast.Repeat:
		f.emit("(repeat ")
		f.formatExpression(s.Count)
		f.formatBody(s.Body)
		f.emit(")")
	case *ast.If:
		f.emit("(if ")
		f.formatCondition(s.Condition)
		f.formatBody(s.Body)
		f.emit(")")
	case *ast.Set:
		f.emitf("(set %s ", s.Name)
		f.formatExpression(s.Value)
		f.emit(")")
	case *ast.Function:
		f.emitf("(function %s (%s)", s.Name, strings.Join(s.Params, " "))
		f.formatBody(s.Body)
		f.emit(")")
	case *ast.Call:
		if s.Implicit {
			f.emitf("(%s", s.Name)
		} else {
			f.emitf("(call %s", s.Name)
		}
		for _, arg := range s.Args {
			f.emit(" ")
			f.formatExpression(arg)
		}
		f.emit(")")
	case *ast.Block:
		for i, inner := range flatten(s.Statements) {
			if i > 0 {
				f.newline()
			}
			f.formatStatement(inner)
		}
	}
}

func (f *formatter) formatBody(stmts []ast.Statement) {
	f.incIndent()
	for _, stmt := range flatten(stmts) {
		f.newline()
		f.formatStatement(stmt)
	}
	f.decIndent()
}

func (f *formatter) formatCondition(c *ast.Condition) {
	if c == nil {
		return
	}
	if c.Negated {
		f.emit("(not ")
	}
	f.emitf("(%s %s)", c.Kind, c.Direction)
	if c.Negated {
		f.emit(")")
	}
}

// --- expressions ---

func (f *formatter) formatExpression(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		f.emit(strconv.Itoa(e.Value))
	case *ast.VariableReference:
		f.emit(e.Name)
	case *ast.DistanceToEnd:
		f.emit("(distance-to-end)")
	}
}

func commandName(k ast.CommandKind) string {
	switch k {
	case ast.TurnLeft:
		return "turn-left"
	case ast.TurnRight:
		return "turn-right"
	default:
		return "forward"
	}
}

func isFunction(stmt ast.Statement) bool {
	_, ok := stmt.(*ast.Function)
	return ok
}

// flatten splices nested blocks into their parent so they print as
// plain statement runs
func flatten(stmts []ast.Statement) []ast.Statement {
	out := make([]ast.Statement, 0, len(stmts))
	for _, stmt := range stmts {
		if b, ok := stmt.(*ast.Block); ok {
			out = append(out, flatten(b.Statements)...)
			continue
		}
		out = append(out, stmt)
	}
	return out
}
