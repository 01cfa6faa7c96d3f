package ast

import "strconv"

// Node is the interface for all AST nodes.
type Node interface {
	node()
	NodeLine() int
}

// BaseNode provides the source position shared by all nodes.
type BaseNode struct {
	SourceLine int // 1-based source line (0 if unknown)
}

func (b BaseNode) NodeLine() int { return b.SourceLine }

// Statement is the interface for statement nodes. Top-level statements are
// VariableAssignment or StyleRule; rule bodies hold Declaration, IfClause or
// VariableAssignment.
type Statement interface {
	Node
	stmt()
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	expr()
}

// Literal is an expression that is already a concrete value.
type Literal interface {
	Expr
	literal()
	String() string
}

// Selector is the interface for style rule selectors.
type Selector interface {
	Node
	selector()
	String() string
}

// Stylesheet is the root node.
type Stylesheet struct {
	BaseNode
	Statements []Statement
	SourceFile string // display path of the source file
}

func (s *Stylesheet) node() {}

// Rules returns the style rules of the stylesheet in source order.
func (s *Stylesheet) Rules() []*StyleRule {
	var rules []*StyleRule
	for _, st := range s.Statements {
		if r, ok := st.(*StyleRule); ok {
			rules = append(rules, r)
		}
	}
	return rules
}

// StyleRule represents selector[, selector...] { body }.
type StyleRule struct {
	BaseNode
	Selectors []Selector
	Body      []Statement
}

func (r *StyleRule) node() {}
func (r *StyleRule) stmt() {}

// TagSelector matches elements by tag name (e.g. "p").
type TagSelector struct {
	BaseNode
	Name string
}

func (t *TagSelector) node()          {}
func (t *TagSelector) selector()      {}
func (t *TagSelector) String() string { return t.Name }

// ClassSelector matches elements by class (e.g. ".menu").
type ClassSelector struct {
	BaseNode
	Name string // without the leading dot
}

func (c *ClassSelector) node()          {}
func (c *ClassSelector) selector()      {}
func (c *ClassSelector) String() string { return "." + c.Name }

// IdSelector matches an element by id (e.g. "#menu").
type IdSelector struct {
	BaseNode
	Name string // without the leading hash
}

func (i *IdSelector) node()          {}
func (i *IdSelector) selector()      {}
func (i *IdSelector) String() string { return "#" + i.Name }

// Declaration represents property: value;
type Declaration struct {
	BaseNode
	Property string
	Value    Expr
}

func (d *Declaration) node() {}
func (d *Declaration) stmt() {}

// VariableAssignment represents Name := value;
type VariableAssignment struct {
	BaseNode
	Name  string
	Value Expr
}

func (v *VariableAssignment) node() {}
func (v *VariableAssignment) stmt() {}

// IfClause represents if [condition] { body } [else { body }].
type IfClause struct {
	BaseNode
	Condition Expr
	Body      []Statement
	Else      *ElseClause // nil when there is no else branch
}

func (i *IfClause) node() {}
func (i *IfClause) stmt() {}

// ElseClause holds the alternative branch of an IfClause.
type ElseClause struct {
	BaseNode
	Body []Statement
}

func (e *ElseClause) node() {}

// VariableReference is a use of a variable.
type VariableReference struct {
	BaseNode
	Name string
}

func (v *VariableReference) node() {}
func (v *VariableReference) expr() {}

// Operator is an arithmetic operator.
type Operator int

const (
	OpAdd Operator = iota
	OpSubtract
	OpMultiply
)

func (o Operator) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	default:
		return "?"
	}
}

// Operation represents left op right. Operand order matters for Multiply.
type Operation struct {
	BaseNode
	Op    Operator
	Left  Expr
	Right Expr
}

func (o *Operation) node() {}
func (o *Operation) expr() {}

// ColorLiteral is a color token such as #ff0000, kept verbatim.
type ColorLiteral struct {
	BaseNode
	Value string
}

func (c *ColorLiteral) node()          {}
func (c *ColorLiteral) expr()          {}
func (c *ColorLiteral) literal()       {}
func (c *ColorLiteral) String() string { return c.Value }

// PixelLiteral is an integer length in pixels.
type PixelLiteral struct {
	BaseNode
	Value int
}

func (p *PixelLiteral) node()          {}
func (p *PixelLiteral) expr()          {}
func (p *PixelLiteral) literal()       {}
func (p *PixelLiteral) String() string { return strconv.Itoa(p.Value) + "px" }

// PercentageLiteral is an integer percentage.
type PercentageLiteral struct {
	BaseNode
	Value int
}

func (p *PercentageLiteral) node()          {}
func (p *PercentageLiteral) expr()          {}
func (p *PercentageLiteral) literal()       {}
func (p *PercentageLiteral) String() string { return strconv.Itoa(p.Value) + "%" }

// ScalarLiteral is a unitless integer.
type ScalarLiteral struct {
	BaseNode
	Value int
}

func (s *ScalarLiteral) node()          {}
func (s *ScalarLiteral) expr()          {}
func (s *ScalarLiteral) literal()       {}
func (s *ScalarLiteral) String() string { return strconv.Itoa(s.Value) }

// BoolLiteral is TRUE or FALSE.
type BoolLiteral struct {
	BaseNode
	Value bool
}

func (b *BoolLiteral) node()    {}
func (b *BoolLiteral) expr()    {}
func (b *BoolLiteral) literal() {}
func (b *BoolLiteral) String() string {
	if b.Value {
		return "TRUE"
	}
	return "FALSE"
}
