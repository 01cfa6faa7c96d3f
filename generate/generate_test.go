package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/icss/ast"
)

func decl(prop string, v ast.Expr) *ast.Declaration {
	return &ast.Declaration{Property: prop, Value: v}
}

func TestCSSSingleRule(t *testing.T) {
	sheet := &ast.Stylesheet{Statements: []ast.Statement{
		&ast.StyleRule{
			Selectors: []ast.Selector{&ast.TagSelector{Name: "p"}},
			Body: []ast.Statement{
				decl("width", &ast.PixelLiteral{Value: 20}),
				decl("color", &ast.ColorLiteral{Value: "#ff0000"}),
			},
		},
	}}
	out, err := CSS(sheet, Options{})
	require.NoError(t, err)
	assert.Equal(t, "p {\n  width: 20px;\n  color: #ff0000;\n}\n", out)
}

func TestCSSMultipleRules(t *testing.T) {
	sheet := &ast.Stylesheet{Statements: []ast.Statement{
		&ast.VariableAssignment{Name: "Ignored", Value: &ast.ScalarLiteral{Value: 1}},
		&ast.StyleRule{
			Selectors: []ast.Selector{
				&ast.TagSelector{Name: "a"},
				&ast.ClassSelector{Name: "menu"},
				&ast.IdSelector{Name: "main"},
			},
			Body: []ast.Statement{decl("height", &ast.PercentageLiteral{Value: 50})},
		},
		&ast.StyleRule{
			Selectors: []ast.Selector{&ast.TagSelector{Name: "div"}},
		},
	}}
	out, err := CSS(sheet, Options{Indent: 4})
	require.NoError(t, err)
	assert.Equal(t, "a, .menu, #main {\n    height: 50%;\n}\n\ndiv {\n}\n", out)
}

func TestCSSEmpty(t *testing.T) {
	out, err := CSS(&ast.Stylesheet{}, Options{})
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = CSS(nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestValue(t *testing.T) {
	tests := []struct {
		in   ast.Expr
		want string
	}{
		{&ast.PixelLiteral{Value: -4}, "-4px"},
		{&ast.PercentageLiteral{Value: 100}, "100%"},
		{&ast.ScalarLiteral{Value: 3}, "3"},
		{&ast.ColorLiteral{Value: "#ABC"}, "#ABC"},
		{&ast.BoolLiteral{Value: true}, "true"},
		{&ast.BoolLiteral{Value: false}, "false"},
	}
	for _, tt := range tests {
		got, err := Value(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestCSSRejectsUnevaluated(t *testing.T) {
	tests := map[string]ast.Statement{
		"reference": decl("width", &ast.VariableReference{BaseNode: ast.BaseNode{SourceLine: 3}, Name: "W"}),
		"operation": decl("width", &ast.Operation{Op: ast.OpAdd, Left: &ast.PixelLiteral{}, Right: &ast.PixelLiteral{}}),
		"nil value": decl("width", nil),
		"if clause": &ast.IfClause{Condition: &ast.BoolLiteral{Value: true}},
	}
	for name, st := range tests {
		t.Run(name, func(t *testing.T) {
			sheet := &ast.Stylesheet{Statements: []ast.Statement{
				&ast.StyleRule{Selectors: []ast.Selector{&ast.TagSelector{Name: "p"}}, Body: []ast.Statement{st}},
			}}
			_, err := CSS(sheet, Options{})
			assert.Error(t, err)
		})
	}
}

func TestCSSRuleWithoutSelectors(t *testing.T) {
	sheet := &ast.Stylesheet{Statements: []ast.Statement{&ast.StyleRule{BaseNode: ast.BaseNode{SourceLine: 9}}}}
	_, err := CSS(sheet, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 9")
}
