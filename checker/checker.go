// Package checker performs scoped static type checking of an ICSS stylesheet.
// It never modifies the tree; every violation becomes an ast.Diagnostic and
// checking always runs to the end of the stylesheet.
package checker

import (
	"slices"
	"strings"

	"github.com/rubiojr/icss/ast"
	"github.com/rubiojr/icss/scope"
)

// Checker type-checks stylesheets. A Checker is not safe for concurrent use;
// each call to Check starts from an empty scope stack.
type Checker struct {
	vars  *scope.Stack[ExpressionType]
	diags ast.Diagnostics
}

// New returns a Checker.
func New() *Checker {
	return &Checker{}
}

// Name implements ast.Check.
func (c *Checker) Name() string { return "type-check" }

// Check type-checks sheet and returns every diagnostic found.
func (c *Checker) Check(sheet *ast.Stylesheet) ast.Diagnostics {
	c.vars = scope.New[ExpressionType]()
	c.diags = nil
	if sheet != nil {
		c.checkStylesheet(sheet)
	}
	return c.diags
}

func (c *Checker) checkStylesheet(sheet *ast.Stylesheet) {
	c.vars.Push()
	for _, s := range sheet.Statements {
		switch st := s.(type) {
		case *ast.VariableAssignment:
			c.checkVariableAssignment(st)
		case *ast.StyleRule:
			c.checkStyleRule(st)
		default:
			c.internal(s, "unexpected %T at stylesheet level", s)
		}
	}
	c.vars.Pop()
	c.vars.Clear()
}

func (c *Checker) checkStyleRule(rule *ast.StyleRule) {
	defer c.vars.Enter()()
	c.checkBody(rule.Body)
}

// checkBody checks the statements of a rule, then-branch or else-branch in
// the current innermost frame.
func (c *Checker) checkBody(body []ast.Statement) {
	for _, s := range body {
		switch st := s.(type) {
		case *ast.Declaration:
			c.checkDeclaration(st)
		case *ast.IfClause:
			c.checkIfClause(st)
		case *ast.VariableAssignment:
			c.checkVariableAssignment(st)
		default:
			c.internal(s, "unexpected %T in rule body", s)
		}
	}
}

func (c *Checker) checkIfClause(clause *ast.IfClause) {
	func() {
		defer c.vars.Enter()()
		if t := c.exprType(clause.Condition); t != TypeBool {
			c.diags.Add(ast.NonBooleanCondition, clause,
				"if condition must be a bool, got %s", t)
		}
		c.checkBody(clause.Body)
	}()

	if clause.Else != nil {
		defer c.vars.Enter()()
		c.checkBody(clause.Else.Body)
	}
}

func (c *Checker) checkDeclaration(decl *ast.Declaration) {
	t := c.exprType(decl.Value)

	allowed, ok := propertyTypes[decl.Property]
	if !ok {
		c.diags.Add(ast.UnknownProperty, decl,
			"unknown property %q, supported properties are: %s",
			decl.Property, strings.Join(Properties(), ", "))
		return
	}
	if !slices.Contains(allowed, t) {
		c.diags.Add(ast.InvalidPropertyValueType, decl,
			"property %q cannot have a %s value, expected %s",
			decl.Property, t, typeList(allowed))
	}
}

func (c *Checker) checkVariableAssignment(assign *ast.VariableAssignment) {
	t := c.exprType(assign.Value)
	if t == TypeUndefined {
		c.diags.Add(ast.UnresolvedAssignment, assign,
			"cannot assign %s: value type is undefined", assign.Name)
		return
	}

	if prev, ok := c.vars.Resolve(assign.Name); ok && prev != t {
		c.diags.Add(ast.TypeMismatchOnReassignment, assign,
			"variable %s cannot change type from %s to %s", assign.Name, prev, t)
	}
	c.vars.Bind(assign.Name, t)
}

// exprType infers the type of e, recording diagnostics for the nodes that
// break a typing rule.
func (c *Checker) exprType(e ast.Expr) ExpressionType {
	switch ex := e.(type) {
	case ast.Literal:
		return literalType(ex)
	case *ast.VariableReference:
		t, ok := c.vars.Resolve(ex.Name)
		if !ok {
			c.diags.Add(ast.UndefinedVariable, ex,
				"variable %s is not defined in this scope", ex.Name)
			return TypeUndefined
		}
		return t
	case *ast.Operation:
		return c.operationType(ex)
	case nil:
		c.internal(nil, "missing expression")
		return TypeUndefined
	default:
		c.internal(e, "unexpected expression %T", e)
		return TypeUndefined
	}
}

// internal records a node the parser never produces.
func (c *Checker) internal(n ast.Node, format string, args ...any) {
	c.diags.Add(ast.InternalError, n, format, args...)
}

func (c *Checker) operationType(op *ast.Operation) ExpressionType {
	left := c.exprType(op.Left)
	right := c.exprType(op.Right)

	if isOperandForbidden(left) || isOperandForbidden(right) {
		c.diags.Add(ast.InvalidOperandType, op,
			"colors and bools cannot be used in %s operations", op.Op)
		return TypeUndefined
	}

	switch op.Op {
	case ast.OpMultiply:
		if left != TypeScalar && right != TypeScalar {
			c.diags.Add(ast.IncompatibleOperandTypes, op,
				"multiplication needs at least one scalar operand, got %s * %s", left, right)
			return TypeUndefined
		}
		if left == TypeScalar {
			return right
		}
		return left
	default:
		if left != right {
			c.diags.Add(ast.IncompatibleOperandTypes, op,
				"operands of %s must have the same type, got %s and %s", op.Op, left, right)
			return TypeUndefined
		}
		return left
	}
}

// isOperandForbidden reports known types that cannot take part in arithmetic.
func isOperandForbidden(t ExpressionType) bool {
	return t != TypeUndefined && !t.IsArithmetic()
}

func typeList(types []ExpressionType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, " or ")
}
