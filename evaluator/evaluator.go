// Package evaluator folds an ICSS stylesheet into plain CSS rules.
//
// Evaluation substitutes variables, folds arithmetic, keeps only the branch
// of each if/else selected by its condition and drops variable assignments.
// The input tree is never modified: Apply returns a new stylesheet that
// shares only the immutable literal nodes with the input.
package evaluator

import (
	"errors"
	"fmt"

	"github.com/rubiojr/icss/ast"
	"github.com/rubiojr/icss/scope"
)

// ErrPrecondition is wrapped by every PreconditionError.
var ErrPrecondition = errors.New("evaluation precondition violated")

// PreconditionError reports input the type checker should have rejected,
// such as an undefined variable or a non-bool condition.
type PreconditionError struct {
	Node   ast.Node
	Reason string
}

func (e *PreconditionError) Error() string {
	if e.Node == nil {
		return e.Reason
	}
	return fmt.Sprintf("line %d: %s", e.Node.NodeLine(), e.Reason)
}

func (e *PreconditionError) Unwrap() error { return ErrPrecondition }

func precondition(n ast.Node, format string, args ...any) error {
	return &PreconditionError{Node: n, Reason: fmt.Sprintf(format, args...)}
}

// Evaluator resolves stylesheets. It is not safe for concurrent use; each
// call to Apply starts from an empty scope stack.
type Evaluator struct {
	values *scope.Stack[ast.Literal]
	diags  ast.Diagnostics
	f      *ast.Factory
}

// New returns an Evaluator.
func New() *Evaluator {
	return &Evaluator{f: ast.NewFactory()}
}

// Name implements ast.Transform.
func (e *Evaluator) Name() string { return "evaluate" }

// Transform implements ast.Transform.
func (e *Evaluator) Transform(sheet *ast.Stylesheet) (*ast.Stylesheet, ast.Diagnostics, error) {
	return e.Apply(sheet)
}

// Apply evaluates sheet. The result contains only style rules whose bodies
// hold declarations with literal values. Rules declaring the same property
// twice are kept as they are and reported as DuplicateProperty diagnostics.
func (e *Evaluator) Apply(sheet *ast.Stylesheet) (*ast.Stylesheet, ast.Diagnostics, error) {
	e.values = scope.New[ast.Literal]()
	e.diags = nil
	if sheet == nil {
		return nil, nil, &PreconditionError{Reason: "missing stylesheet"}
	}
	out, err := e.evalStylesheet(sheet)
	if err != nil {
		return nil, e.diags, err
	}
	return out, e.diags, nil
}

// Globals evaluates only the top-level variable assignments of sheet and
// returns the final value of each variable.
func (e *Evaluator) Globals(sheet *ast.Stylesheet) (map[string]ast.Literal, error) {
	e.values = scope.New[ast.Literal]()
	e.diags = nil
	if sheet == nil {
		return nil, &PreconditionError{Reason: "missing stylesheet"}
	}
	defer e.values.Enter()()

	for _, s := range sheet.Statements {
		if assign, ok := s.(*ast.VariableAssignment); ok {
			if err := e.evalAssignment(assign); err != nil {
				return nil, err
			}
		}
	}
	globals := make(map[string]ast.Literal)
	for _, name := range e.values.Names() {
		globals[name], _ = e.values.Resolve(name)
	}
	return globals, nil
}

func (e *Evaluator) evalStylesheet(sheet *ast.Stylesheet) (*ast.Stylesheet, error) {
	defer e.values.Enter()()

	stmts := make([]ast.Statement, 0, len(sheet.Statements))
	for _, s := range sheet.Statements {
		switch st := s.(type) {
		case *ast.VariableAssignment:
			if err := e.evalAssignment(st); err != nil {
				return nil, err
			}
		case *ast.StyleRule:
			rule, err := e.evalRule(st)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, rule)
		default:
			return nil, precondition(s, "unexpected %T at stylesheet level", s)
		}
	}
	return e.f.StylesheetFrom(sheet, stmts), nil
}

func (e *Evaluator) evalAssignment(assign *ast.VariableAssignment) error {
	v, err := e.fold(assign.Value)
	if err != nil {
		return err
	}
	e.values.Bind(assign.Name, v)
	return nil
}

func (e *Evaluator) evalRule(rule *ast.StyleRule) (*ast.StyleRule, error) {
	body, err := e.evalBlock(rule.Body)
	if err != nil {
		return nil, err
	}
	out := e.f.RuleWithBody(rule, body)
	if prop, ok := duplicateProperty(body); ok {
		e.diags.Add(ast.DuplicateProperty, out,
			"property %q is declared more than once in this rule", prop)
	}
	return out, nil
}

// evalBlock evaluates body in a fresh frame and returns the flattened
// declarations it produces.
func (e *Evaluator) evalBlock(body []ast.Statement) ([]ast.Statement, error) {
	defer e.values.Enter()()

	var out []ast.Statement
	for _, s := range body {
		if err := e.evalBodyStmt(s, &out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// evalBodyStmt appends the declarations produced by s to out.
func (e *Evaluator) evalBodyStmt(s ast.Statement, out *[]ast.Statement) error {
	switch st := s.(type) {
	case *ast.VariableAssignment:
		return e.evalAssignment(st)
	case *ast.Declaration:
		v, err := e.fold(st.Value)
		if err != nil {
			return err
		}
		*out = append(*out, e.f.DeclarationWithValue(st, v))
		return nil
	case *ast.IfClause:
		branch, err := e.evalIfClause(st)
		if err != nil {
			return err
		}
		*out = append(*out, branch...)
		return nil
	default:
		return precondition(s, "unexpected %T in rule body", s)
	}
}

// evalIfClause returns the evaluated statements of the branch selected by
// the clause condition.
func (e *Evaluator) evalIfClause(clause *ast.IfClause) ([]ast.Statement, error) {
	cond, err := e.fold(clause.Condition)
	if err != nil {
		return nil, err
	}
	b, ok := cond.(*ast.BoolLiteral)
	if !ok {
		return nil, precondition(clause, "if condition evaluated to %s, not a bool", cond)
	}

	switch {
	case b.Value:
		return e.evalBlock(clause.Body)
	case clause.Else != nil:
		return e.evalBlock(clause.Else.Body)
	default:
		return nil, nil
	}
}

// fold resolves expr to a literal.
func (e *Evaluator) fold(expr ast.Expr) (ast.Literal, error) {
	switch ex := expr.(type) {
	case ast.Literal:
		return ex, nil
	case *ast.VariableReference:
		v, ok := e.values.Resolve(ex.Name)
		if !ok {
			return nil, precondition(ex, "variable %s is not defined", ex.Name)
		}
		return v, nil
	case *ast.Operation:
		return e.foldOperation(ex)
	case nil:
		return nil, &PreconditionError{Reason: "missing expression"}
	default:
		return nil, precondition(expr, "cannot evaluate %T", expr)
	}
}

func (e *Evaluator) foldOperation(op *ast.Operation) (ast.Literal, error) {
	left, err := e.fold(op.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.fold(op.Right)
	if err != nil {
		return nil, err
	}
	lv, ok := ast.NumericValue(left)
	if !ok {
		return nil, precondition(op, "left operand of %s is %s, not a number", op.Op, left)
	}
	rv, ok := ast.NumericValue(right)
	if !ok {
		return nil, precondition(op, "right operand of %s is %s, not a number", op.Op, right)
	}

	line := op.NodeLine()
	switch op.Op {
	case ast.OpAdd:
		return e.f.Numeric(left, lv+rv, line), nil
	case ast.OpSubtract:
		return e.f.Numeric(left, lv-rv, line), nil
	case ast.OpMultiply:
		// The unit comes from the non-scalar side.
		if _, scalar := left.(*ast.ScalarLiteral); scalar {
			return e.f.Numeric(right, lv*rv, line), nil
		}
		return e.f.Numeric(left, lv*rv, line), nil
	default:
		return nil, precondition(op, "unknown operator %s", op.Op)
	}
}

// duplicateProperty returns the first property declared twice in body.
func duplicateProperty(body []ast.Statement) (string, bool) {
	seen := make(map[string]bool)
	for _, s := range body {
		d, ok := s.(*ast.Declaration)
		if !ok {
			continue
		}
		if seen[d.Property] {
			return d.Property, true
		}
		seen[d.Property] = true
	}
	return "", false
}
