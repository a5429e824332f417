package ast

// Inspect traverses the tree rooted at node in depth-first order, calling
// fn for each node. If fn returns false, the children of that node are
// skipped.
func Inspect(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Block:
		inspectAll(n.Statements, fn)
	case *Repeat:
		Inspect(n.Count, fn)
		inspectAll(n.Body, fn)
	case *If:
		Inspect(n.Condition, fn)
		inspectAll(n.Body, fn)
	case *Set:
		Inspect(n.Value, fn)
	case *Function:
		inspectAll(n.Body, fn)
	case *Call:
		for _, arg := range n.Args {
			Inspect(arg, fn)
		}
	}
}

func inspectAll(stmts []Statement, fn func(Node) bool) {
	for _, stmt := range stmts {
		Inspect(stmt, fn)
	}
}

// Commands returns the primitive commands of a program in source order,
// ignoring control flow. For a program without loops, conditionals or
// calls this is exactly the sequence the executor will emit.
func Commands(node Node) []CommandKind {
	var out []CommandKind
	Inspect(node, func(n Node) bool {
		if c, ok := n.(*Command); ok {
			out = append(out, c.Kind)
		}
		return true
	})
	return out
}
