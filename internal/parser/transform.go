package parser

import (
	"strconv"

	"github.com/lhaig/mazebot/internal/ast"
	"github.com/lhaig/mazebot/internal/diagnostic"
)

// construct is the closed set of list heads the language understands.
// Any head that is not a construct is an implicit function call.
type construct int

const (
	implicitCall construct = iota
	cmdForward
	cmdTurnLeft
	cmdTurnRight
	cmdLeft
	cmdRight
	cmdTurn
	kwRepeat
	kwIf
	kwSet
	kwFunction
	kwCall
	kwCondition
	kwDistance
)

// lookupConstruct classifies a list head
func lookupConstruct(head string) construct {
	switch head {
	case "forward", "move", "move-forward":
		return cmdForward
	case "turn-left":
		return cmdTurnLeft
	case "turn-right":
		return cmdTurnRight
	case "left":
		return cmdLeft
	case "right":
		return cmdRight
	case "turn":
		return cmdTurn
	case "repeat":
		return kwRepeat
	case "if":
		return kwIf
	case "set", "let":
		return kwSet
	case "function", "def", "define", "func":
		return kwFunction
	case "call":
		return kwCall
	case "sensor", "closer", "not":
		return kwCondition
	case "distance-to-end", "distance":
		return kwDistance
	default:
		return implicitCall
	}
}

var conditionHeads = []string{"sensor", "closer", "not"}

var expressionHeads = []string{"distance-to-end", "distance"}

// transformStatement turns a statement-position S-expression into an AST node
func transformStatement(expr sexpr) (ast.Statement, error) {
	list, ok := expr.(*listExpr)
	if !ok {
		return nil, diagnostic.Newf(diagnostic.InvalidArgument, expr.line(), 0,
			"Statements must be lists, found %s", describe(expr))
	}
	return transformList(list)
}

func transformBody(items []sexpr) ([]ast.Statement, error) {
	body := make([]ast.Statement, 0, len(items))
	for _, item := range items {
		stmt, err := transformStatement(item)
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	return body, nil
}

// transformList dispatches on the list's head symbol
func transformList(list *listExpr) (ast.Statement, error) {
	if len(list.items) == 0 {
		return nil, diagnostic.Newf(diagnostic.EmptyExpression, list.ln, list.col, "Empty expression")
	}
	head, ok := list.head()
	if !ok {
		return nil, diagnostic.Newf(diagnostic.InvalidArgument, list.ln, list.col,
			"Expression must start with a symbol, found %s", describe(list.items[0]))
	}
	rest := list.items[1:]

	switch lookupConstruct(head.value) {
	case cmdForward:
		return command(head, rest, ast.Forward)
	case cmdTurnLeft, cmdLeft:
		return command(head, rest, ast.TurnLeft)
	case cmdTurnRight, cmdRight:
		return command(head, rest, ast.TurnRight)
	case cmdTurn:
		return turn(head, rest)
	case kwRepeat:
		return repeat(head, rest)
	case kwIf:
		return ifStatement(head, rest)
	case kwSet:
		return set(head, rest)
	case kwFunction:
		return function(head, rest)
	case kwCall:
		return explicitCall(head, rest)
	case kwCondition:
		return nil, diagnostic.Newf(diagnostic.ReservedName, head.ln, head.col,
			"'%s' can only be used as an if condition", head.value).
			WithHint("write (if (" + head.value + " ...) ...)")
	case kwDistance:
		return nil, diagnostic.Newf(diagnostic.ReservedName, head.ln, head.col,
			"'%s' is an expression, not a statement", head.value).
			WithHint("use it as a value, e.g. (set d (" + head.value + "))")
	case implicitCall:
		return buildCall(head, head, rest, true)
	}
	panic("unreachable: unhandled construct for " + head.value)
}

func command(head *symbolExpr, rest []sexpr, kind ast.CommandKind) (ast.Statement, error) {
	if len(rest) > 0 {
		return nil, diagnostic.Newf(diagnostic.InvalidArgument, head.ln, head.col,
			"%s takes no arguments", head.value)
	}
	return &ast.Command{Kind: kind, Line: head.ln}, nil
}

func turn(head *symbolExpr, rest []sexpr) (ast.Statement, error) {
	if len(rest) == 0 {
		return nil, diagnostic.Newf(diagnostic.InvalidArgument, head.ln, head.col,
			"turn requires a direction").WithHint("write (turn left) or (turn right)")
	}
	if len(rest) > 1 {
		return nil, diagnostic.Newf(diagnostic.InvalidArgument, head.ln, head.col,
			"turn takes exactly one direction")
	}
	dir, ok := rest[0].(*symbolExpr)
	if !ok {
		return nil, diagnostic.Newf(diagnostic.InvalidArgument, rest[0].line(), 0,
			"Invalid turn direction %s", describe(rest[0]))
	}
	switch dir.value {
	case "left":
		return &ast.Command{Kind: ast.TurnLeft, Line: head.ln}, nil
	case "right":
		return &ast.Command{Kind: ast.TurnRight, Line: head.ln}, nil
	}
	return nil, diagnostic.Newf(diagnostic.UnknownDirection, dir.ln, dir.col,
		"Unknown turn direction '%s'", dir.value).
		WithHint(diagnostic.Suggest(dir.value, []string{"left", "right"}))
}

func repeat(head *symbolExpr, rest []sexpr) (ast.Statement, error) {
	if len(rest) == 0 {
		return nil, diagnostic.Newf(diagnostic.InvalidArgument, head.ln, head.col,
			"repeat requires a count")
	}
	count, err := expression(rest[0])
	if err != nil {
		return nil, err
	}
	body, err := transformBody(rest[1:])
	if err != nil {
		return nil, err
	}
	return &ast.Repeat{Count: count, Body: body, Line: head.ln}, nil
}

func ifStatement(head *symbolExpr, rest []sexpr) (ast.Statement, error) {
	if len(rest) == 0 {
		return nil, diagnostic.Newf(diagnostic.InvalidArgument, head.ln, head.col,
			"if requires a condition")
	}
	cond, err := condition(rest[0])
	if err != nil {
		return nil, err
	}
	body, err := transformBody(rest[1:])
	if err != nil {
		return nil, err
	}
	return &ast.If{Condition: cond, Body: body, Line: head.ln}, nil
}

// condition parses (sensor DIR), (closer DIR) or (not COND)
func condition(expr sexpr) (*ast.Condition, error) {
	list, ok := expr.(*listExpr)
	if !ok {
		return nil, diagnostic.Newf(diagnostic.InvalidArgument, expr.line(), 0,
			"Invalid condition %s", describe(expr)).
			WithHint("conditions look like (sensor front) or (closer left)")
	}
	if len(list.items) == 0 {
		return nil, diagnostic.Newf(diagnostic.EmptyExpression, list.ln, list.col, "Empty condition")
	}
	head, ok := list.head()
	if !ok {
		return nil, diagnostic.Newf(diagnostic.InvalidArgument, list.ln, list.col,
			"Condition must start with a symbol")
	}
	args := list.items[1:]

	switch head.value {
	case "sensor":
		dir, err := direction(head, args)
		if err != nil {
			return nil, err
		}
		return &ast.Condition{Kind: ast.SensorCondition, Direction: dir, Line: head.ln}, nil
	case "closer":
		dir, err := direction(head, args)
		if err != nil {
			return nil, err
		}
		return &ast.Condition{Kind: ast.CloserCondition, Direction: dir, Line: head.ln}, nil
	case "not":
		if len(args) != 1 {
			return nil, diagnostic.Newf(diagnostic.InvalidArgument, head.ln, head.col,
				"not expects a single condition")
		}
		inner, err := condition(args[0])
		if err != nil {
			return nil, err
		}
		negated := *inner
		negated.Negated = !inner.Negated
		return &negated, nil
	}
	return nil, diagnostic.Newf(diagnostic.UnknownCondition, head.ln, head.col,
		"Unknown condition '%s'", head.value).
		WithHint(diagnostic.Suggest(head.value, conditionHeads))
}

func direction(head *symbolExpr, args []sexpr) (ast.Direction, error) {
	if len(args) == 0 {
		return 0, diagnostic.Newf(diagnostic.InvalidArgument, head.ln, head.col,
			"%s requires a direction", head.value)
	}
	if len(args) > 1 {
		return 0, diagnostic.Newf(diagnostic.InvalidArgument, head.ln, head.col,
			"%s takes exactly one direction", head.value)
	}
	sym, ok := args[0].(*symbolExpr)
	if !ok {
		return 0, diagnostic.Newf(diagnostic.InvalidArgument, args[0].line(), 0,
			"Invalid %s direction %s", head.value, describe(args[0]))
	}
	dir, ok := ast.LookupDirection(sym.value)
	if !ok {
		return 0, diagnostic.Newf(diagnostic.UnknownDirection, sym.ln, sym.col,
			"Unknown %s direction '%s'", head.value, sym.value).
			WithHint(diagnostic.Suggest(sym.value, ast.DirectionNames))
	}
	return dir, nil
}

func set(head *symbolExpr, rest []sexpr) (ast.Statement, error) {
	if len(rest) != 2 {
		return nil, diagnostic.Newf(diagnostic.InvalidArgument, head.ln, head.col,
			"%s requires a variable name and a value", head.value)
	}
	name, ok := rest[0].(*symbolExpr)
	if !ok {
		return nil, diagnostic.Newf(diagnostic.InvalidArgument, rest[0].line(), 0,
			"%s requires a variable name, found %s", head.value, describe(rest[0]))
	}
	value, err := expression(rest[1])
	if err != nil {
		return nil, err
	}
	return &ast.Set{Name: name.value, Value: value, Line: head.ln}, nil
}

func function(head *symbolExpr, rest []sexpr) (ast.Statement, error) {
	if len(rest) < 2 {
		return nil, diagnostic.Newf(diagnostic.MalformedFunction, head.ln, head.col,
			"function requires a name and parameter list").
			WithHint("write (function name (params...) body...)")
	}
	name, ok := rest[0].(*symbolExpr)
	if !ok {
		return nil, diagnostic.Newf(diagnostic.MalformedFunction, rest[0].line(), 0,
			"function name must be a symbol, found %s", describe(rest[0]))
	}
	if lookupConstruct(name.value) != implicitCall {
		return nil, diagnostic.Newf(diagnostic.ReservedName, name.ln, name.col,
			"'%s' is a built-in and cannot be used as a function name", name.value)
	}
	paramList, ok := rest[1].(*listExpr)
	if !ok {
		return nil, diagnostic.Newf(diagnostic.MalformedFunction, rest[1].line(), 0,
			"function parameters must be a list, found %s", describe(rest[1]))
	}

	params := make([]string, 0, len(paramList.items))
	seen := make(map[string]bool, len(paramList.items))
	for _, item := range paramList.items {
		param, ok := item.(*symbolExpr)
		if !ok {
			return nil, diagnostic.Newf(diagnostic.MalformedFunction, item.line(), 0,
				"function parameter must be a symbol, found %s", describe(item))
		}
		if seen[param.value] {
			return nil, diagnostic.Newf(diagnostic.MalformedFunction, param.ln, param.col,
				"duplicate parameter '%s' in function '%s'", param.value, name.value)
		}
		seen[param.value] = true
		params = append(params, param.value)
	}

	body, err := transformBody(rest[2:])
	if err != nil {
		return nil, err
	}
	return &ast.Function{Name: name.value, Params: params, Body: body, Line: head.ln}, nil
}

func explicitCall(head *symbolExpr, rest []sexpr) (ast.Statement, error) {
	if len(rest) == 0 {
		return nil, diagnostic.Newf(diagnostic.InvalidArgument, head.ln, head.col,
			"call requires a function name")
	}
	name, ok := rest[0].(*symbolExpr)
	if !ok {
		return nil, diagnostic.Newf(diagnostic.InvalidArgument, rest[0].line(), 0,
			"call requires a function name, found %s", describe(rest[0]))
	}
	return buildCall(head, name, rest[1:], false)
}

func buildCall(head, name *symbolExpr, argExprs []sexpr, implicit bool) (ast.Statement, error) {
	args := make([]ast.Expression, 0, len(argExprs))
	for _, a := range argExprs {
		arg, err := expression(a)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return &ast.Call{Name: name.value, Args: args, Implicit: implicit, Line: head.ln}, nil
}

// expression parses a value position: a number, a variable or (distance-to-end)
func expression(expr sexpr) (ast.Expression, error) {
	switch e := expr.(type) {
	case *numberExpr:
		return number(e)
	case *symbolExpr:
		return &ast.VariableReference{Name: e.value, Line: e.ln}, nil
	case *listExpr:
		return listExpression(e)
	}
	return nil, diagnostic.Newf(diagnostic.UnknownExpression, expr.line(), 0, "Unsupported expression")
}

func listExpression(list *listExpr) (ast.Expression, error) {
	if len(list.items) == 0 {
		return nil, diagnostic.Newf(diagnostic.EmptyExpression, list.ln, list.col, "Empty expression")
	}
	head, ok := list.head()
	if !ok {
		return nil, diagnostic.Newf(diagnostic.InvalidArgument, list.ln, list.col,
			"Expression must start with a symbol, found %s", describe(list.items[0]))
	}
	if lookupConstruct(head.value) == kwDistance {
		if len(list.items) != 1 {
			return nil, diagnostic.Newf(diagnostic.InvalidArgument, head.ln, head.col,
				"%s does not take arguments", head.value)
		}
		return &ast.DistanceToEnd{Line: list.ln}, nil
	}
	return nil, diagnostic.Newf(diagnostic.UnknownExpression, head.ln, head.col,
		"Unknown expression '%s'", head.value).
		WithHint(diagnostic.Suggest(head.value, expressionHeads))
}

func number(n *numberExpr) (ast.Expression, error) {
	if len(n.text) > 0 && n.text[0] == '-' {
		return nil, diagnostic.Newf(diagnostic.NegativeNumber, n.ln, n.col,
			"Numbers must be non-negative, found %s", n.text)
	}
	value, err := strconv.Atoi(n.text)
	if err != nil {
		return nil, diagnostic.Newf(diagnostic.NumberOutOfRange, n.ln, n.col,
			"Number %s is too large", n.text)
	}
	return &ast.NumberLiteral{Value: value, Line: n.ln}, nil
}

// describe renders an S-expression for error messages
func describe(expr sexpr) string {
	switch e := expr.(type) {
	case *symbolExpr:
		return "'" + e.value + "'"
	case *numberExpr:
		return "number " + e.text
	case *listExpr:
		if head, ok := e.head(); ok {
			return "list '(" + head.value + " ...)'"
		}
		return "a list"
	}
	return "an unknown expression"
}
