package linter

import (
	"sort"

	"github.com/lhaig/mazebot/internal/ast"
	"github.com/lhaig/mazebot/internal/diagnostic"
)

// Linter performs static checks on a parsed robot program.
// It reports warnings (never errors) using the diagnostic system.
type Linter struct {
	prog *ast.Block
	diag *diagnostic.Diagnostics

	functions map[string]*ast.Function
	called    map[string]bool
	assigned  map[string]bool
}

// Lint runs all lint rules on the given program and returns diagnostics.
func Lint(prog *ast.Block) *diagnostic.Diagnostics {
	l := &Linter{
		prog:      prog,
		diag:      diagnostic.New(),
		functions: make(map[string]*ast.Function),
		called:    make(map[string]bool),
		assigned:  make(map[string]bool),
	}
	if prog == nil {
		return l.diag
	}

	l.collect()
	l.lintStatements(prog.Statements, nil)
	l.lintFunctions()

	return l.diag
}

// collect records every definition, call and assignment in the program.
// Definitions inside bodies count too: the executor registers them when
// it reaches them.
func (l *Linter) collect() {
	ast.Inspect(l.prog, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.Function:
			if prev, ok := l.functions[node.Name]; ok {
				l.diag.Warningf(node.Line, 0,
					"function '%s' is already defined at line %d", node.Name, prev.Line)
			} else {
				l.functions[node.Name] = node
			}
		case *ast.Call:
			l.called[node.Name] = true
		case *ast.Set:
			l.assigned[node.Name] = true
		}
		return true
	})
}

// lintStatements checks a statement list. fn is the enclosing function,
// nil at top level.
func (l *Linter) lintStatements(stmts []ast.Statement, fn *ast.Function) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.Repeat:
			l.checkRepeat(s)
			l.lintExpression(s.Count, fn)
			l.lintStatements(s.Body, fn)
		case *ast.If:
			if len(s.Body) == 0 {
				l.diag.Warningf(s.Line, 0, "if has an empty body")
			}
			l.lintStatements(s.Body, fn)
		case *ast.Set:
			l.lintExpression(s.Value, fn)
		case *ast.Function:
			l.lintStatements(s.Body, s)
		case *ast.Call:
			l.checkCall(s)
			for _, arg := range s.Args {
				l.lintExpression(arg, fn)
			}
		case *ast.Block:
			l.lintStatements(s.Statements, fn)
		}
	}
}

func (l *Linter) lintExpression(expr ast.Expression, fn *ast.Function) {
	ref, ok := expr.(*ast.VariableReference)
	if !ok {
		return
	}
	if l.assigned[ref.Name] || (fn != nil && hasParam(fn, ref.Name)) {
		return
	}
	l.diag.WarningWithHint(ref.Line, 0,
		"variable '"+ref.Name+"' is never set",
		diagnostic.Suggest(ref.Name, l.knownVariables(fn)))
}

// lintFunctions checks every definition once the whole program is known.
func (l *Linter) lintFunctions() {
	for _, name := range sortedNames(l.functions) {
		fn := l.functions[name]
		if len(fn.Body) == 0 {
			l.diag.Warningf(fn.Line, 0, "function '%s' has an empty body", fn.Name)
		}
		if !l.called[fn.Name] {
			l.diag.Warningf(fn.Line, 0, "function '%s' is never called", fn.Name)
		}
		l.checkUnusedParams(fn)
	}
}

// --- Lint rules ---

// checkRepeat warns about loops that can never run their body
func (l *Linter) checkRepeat(r *ast.Repeat) {
	if lit, ok := r.Count.(*ast.NumberLiteral); ok && lit.Value == 0 {
		l.diag.Warningf(r.Line, 0, "repeat count is 0, the body never runs")
	}
	if len(r.Body) == 0 {
		l.diag.Warningf(r.Line, 0, "repeat has an empty body")
	}
}

// checkCall warns when the target is never defined or the argument count
// does not match the definition.
func (l *Linter) checkCall(c *ast.Call) {
	fn, ok := l.functions[c.Name]
	if !ok {
		l.diag.WarningWithHint(c.Line, 0,
			"call to undefined function '"+c.Name+"'",
			diagnostic.Suggest(c.Name, sortedNames(l.functions)))
		return
	}
	if len(c.Args) != len(fn.Params) {
		l.diag.Warningf(c.Line, 0,
			"function '%s' expects %d argument(s) but is called with %d",
			fn.Name, len(fn.Params), len(c.Args))
	}
}

// checkUnusedParams warns about parameters that are never read in the body.
func (l *Linter) checkUnusedParams(fn *ast.Function) {
	used := make(map[string]bool)
	for _, stmt := range fn.Body {
		ast.Inspect(stmt, func(n ast.Node) bool {
			if inner, ok := n.(*ast.Function); ok && inner != fn {
				return false
			}
			if ref, ok := n.(*ast.VariableReference); ok {
				used[ref.Name] = true
			}
			return true
		})
	}
	for _, p := range fn.Params {
		if !used[p] {
			l.diag.Warningf(fn.Line, 0,
				"parameter '%s' in '%s' is never used", p, fn.Name)
		}
	}
}

// --- Name helpers ---

func (l *Linter) knownVariables(fn *ast.Function) []string {
	var names []string
	for name := range l.assigned {
		names = append(names, name)
	}
	if fn != nil {
		names = append(names, fn.Params...)
	}
	sort.Strings(names)
	return names
}

func hasParam(fn *ast.Function, name string) bool {
	for _, p := range fn.Params {
		if p == name {
			return true
		}
	}
	return false
}

func sortedNames(functions map[string]*ast.Function) []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
