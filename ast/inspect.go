package ast

// Inspect traverses the tree rooted at n depth-first and calls fn on every
// node. Children are visited only when fn returns true.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch nd := n.(type) {
	case *Stylesheet:
		inspectStmts(nd.Statements, fn)
	case *StyleRule:
		for _, s := range nd.Selectors {
			Inspect(s, fn)
		}
		inspectStmts(nd.Body, fn)
	case *Declaration:
		Inspect(nd.Value, fn)
	case *VariableAssignment:
		Inspect(nd.Value, fn)
	case *IfClause:
		Inspect(nd.Condition, fn)
		inspectStmts(nd.Body, fn)
		if nd.Else != nil {
			Inspect(nd.Else, fn)
		}
	case *ElseClause:
		inspectStmts(nd.Body, fn)
	case *Operation:
		Inspect(nd.Left, fn)
		Inspect(nd.Right, fn)
	}
}

func inspectStmts(stmts []Statement, fn func(Node) bool) {
	for _, s := range stmts {
		Inspect(s, fn)
	}
}

// Resolved reports whether sheet is fully evaluated: no variables,
// conditionals or unfolded operations remain anywhere in the tree.
func Resolved(sheet *Stylesheet) bool {
	ok := true
	Inspect(sheet, func(n Node) bool {
		switch n.(type) {
		case *VariableAssignment, *VariableReference, *IfClause, *ElseClause, *Operation:
			ok = false
		}
		return ok
	})
	return ok
}
