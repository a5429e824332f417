package ast

import (
	"fmt"
	"strings"
)

// Print returns a tree-like string representation of the AST for debugging
func Print(node Node) string {
	var sb strings.Builder
	printNode(&sb, node, 0)
	return sb.String()
}

func printNode(sb *strings.Builder, node Node, indent int) {
	if node == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *Block:
		sb.WriteString(prefix + "Block\n")
		printStatements(sb, n.Statements, indent+1)

	case *Command:
		sb.WriteString(fmt.Sprintf("%sCommand: %s (line %d)\n", prefix, n.Kind, n.Line))

	case *Repeat:
		sb.WriteString(fmt.Sprintf("%sRepeat (line %d)\n", prefix, n.Line))
		sb.WriteString(prefix + "  Count:\n")
		printNode(sb, n.Count, indent+2)
		sb.WriteString(prefix + "  Body:\n")
		printStatements(sb, n.Body, indent+2)

	case *If:
		sb.WriteString(fmt.Sprintf("%sIf (line %d)\n", prefix, n.Line))
		printNode(sb, n.Condition, indent+1)
		sb.WriteString(prefix + "  Body:\n")
		printStatements(sb, n.Body, indent+2)

	case *Condition:
		not := ""
		if n.Negated {
			not = "not "
		}
		sb.WriteString(fmt.Sprintf("%sCondition: %s%s %s\n", prefix, not, n.Kind, n.Direction))

	case *Set:
		sb.WriteString(fmt.Sprintf("%sSet: %s (line %d)\n", prefix, n.Name, n.Line))
		printNode(sb, n.Value, indent+1)

	case *Function:
		sb.WriteString(fmt.Sprintf("%sFunction: %s(%s) (line %d)\n", prefix, n.Name, strings.Join(n.Params, ", "), n.Line))
		printStatements(sb, n.Body, indent+1)

	case *Call:
		kind := "Call"
		if n.Implicit {
			kind = "Call (implicit)"
		}
		sb.WriteString(fmt.Sprintf("%s%s: %s (line %d)\n", prefix, kind, n.Name, n.Line))
		for _, arg := range n.Args {
			printNode(sb, arg, indent+1)
		}

	case *NumberLiteral:
		sb.WriteString(fmt.Sprintf("%sNumber: %d\n", prefix, n.Value))

	case *VariableReference:
		sb.WriteString(fmt.Sprintf("%sVariable: %s\n", prefix, n.Name))

	case *DistanceToEnd:
		sb.WriteString(prefix + "DistanceToEnd\n")

	default:
		sb.WriteString(fmt.Sprintf("%s<unknown node %T>\n", prefix, node))
	}
}

func printStatements(sb *strings.Builder, stmts []Statement, indent int) {
	for _, stmt := range stmts {
		printNode(sb, stmt, indent)
	}
}
