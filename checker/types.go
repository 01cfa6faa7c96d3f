package checker

import "github.com/rubiojr/icss/ast"

// ExpressionType is the static type of an ICSS expression.
type ExpressionType int

const (
	// TypeUndefined means the type could not be inferred; an error has
	// already been recorded for the cause.
	TypeUndefined ExpressionType = iota
	// TypeColor is a color literal such as #ff0000.
	TypeColor
	// TypePixel is a length in px.
	TypePixel
	// TypePercentage is a length in %.
	TypePercentage
	// TypeScalar is a unitless integer.
	TypeScalar
	// TypeBool is TRUE or FALSE.
	TypeBool
)

func (t ExpressionType) String() string {
	switch t {
	case TypeUndefined:
		return "undefined"
	case TypeColor:
		return "color"
	case TypePixel:
		return "pixel"
	case TypePercentage:
		return "percentage"
	case TypeScalar:
		return "scalar"
	case TypeBool:
		return "bool"
	default:
		return "?"
	}
}

// IsArithmetic returns true for types that may appear as operation operands.
func (t ExpressionType) IsArithmetic() bool {
	return t == TypePixel || t == TypePercentage || t == TypeScalar
}

// literalType maps a literal node to its type tag.
func literalType(lit ast.Literal) ExpressionType {
	switch lit.(type) {
	case *ast.ColorLiteral:
		return TypeColor
	case *ast.PixelLiteral:
		return TypePixel
	case *ast.PercentageLiteral:
		return TypePercentage
	case *ast.ScalarLiteral:
		return TypeScalar
	case *ast.BoolLiteral:
		return TypeBool
	default:
		return TypeUndefined
	}
}

// propertyTypes lists the supported properties and the value types each accepts.
var propertyTypes = map[string][]ExpressionType{
	"color":            {TypeColor},
	"background-color": {TypeColor},
	"width":            {TypePixel, TypePercentage},
	"height":           {TypePixel, TypePercentage},
}

// Properties returns the supported property names.
func Properties() []string {
	return []string{"color", "background-color", "width", "height"}
}
