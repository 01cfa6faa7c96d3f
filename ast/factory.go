package ast

// Factory centralizes node creation for transform passes so rewritten nodes
// keep the source position of the node they replace.
type Factory struct{}

// NewFactory returns a new Factory.
func NewFactory() *Factory { return &Factory{} }

// StylesheetFrom creates a new Stylesheet copying metadata from src with new statements.
func (f *Factory) StylesheetFrom(src *Stylesheet, stmts []Statement) *Stylesheet {
	return &Stylesheet{
		BaseNode:   src.BaseNode,
		Statements: stmts,
		SourceFile: src.SourceFile,
	}
}

// RuleWithBody creates a copy of a StyleRule with a new body. The selector
// slice is copied so the two rules do not share backing storage.
func (f *Factory) RuleWithBody(src *StyleRule, body []Statement) *StyleRule {
	selectors := make([]Selector, len(src.Selectors))
	copy(selectors, src.Selectors)
	return &StyleRule{BaseNode: src.BaseNode, Selectors: selectors, Body: body}
}

// DeclarationWithValue creates a copy of a Declaration with a new value.
func (f *Factory) DeclarationWithValue(src *Declaration, value Expr) *Declaration {
	cp := *src
	cp.Value = value
	return &cp
}

// Numeric creates a numeric literal of the same kind as like, holding value.
// It returns nil when like is not a Pixel, Percentage or Scalar literal.
func (f *Factory) Numeric(like Literal, value int, line int) Literal {
	base := BaseNode{SourceLine: line}
	switch like.(type) {
	case *PixelLiteral:
		return &PixelLiteral{BaseNode: base, Value: value}
	case *PercentageLiteral:
		return &PercentageLiteral{BaseNode: base, Value: value}
	case *ScalarLiteral:
		return &ScalarLiteral{BaseNode: base, Value: value}
	default:
		return nil
	}
}

// NumericValue returns the integer payload of a Pixel, Percentage or Scalar literal.
func NumericValue(lit Literal) (int, bool) {
	switch l := lit.(type) {
	case *PixelLiteral:
		return l.Value, true
	case *PercentageLiteral:
		return l.Value, true
	case *ScalarLiteral:
		return l.Value, true
	default:
		return 0, false
	}
}
