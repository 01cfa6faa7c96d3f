// Package generate renders an evaluated stylesheet as CSS text.
package generate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rubiojr/icss/ast"
)

// DefaultIndent is the number of spaces before each declaration.
const DefaultIndent = 2

// Options controls rendering.
type Options struct {
	// Indent is the number of spaces before each declaration. Zero or
	// negative means DefaultIndent.
	Indent int
}

// cssWriter manages indented CSS output.
type cssWriter struct {
	sb     strings.Builder
	indent string
	level  int
}

// Linef writes an indented, formatted line with a trailing newline appended.
func (w *cssWriter) Linef(format string, args ...any) {
	w.sb.WriteString(strings.Repeat(w.indent, w.level))
	fmt.Fprintf(&w.sb, format, args...)
	w.sb.WriteByte('\n')
}

// Blank writes an empty line.
func (w *cssWriter) Blank() { w.sb.WriteByte('\n') }

func (w *cssWriter) Indent() { w.level++ }
func (w *cssWriter) Dedent() { w.level-- }

func (w *cssWriter) String() string { return w.sb.String() }

// CSS renders the style rules of sheet. Every declaration value must be a
// literal; unevaluated expressions are an error. Variable assignments left
// at the top level are ignored.
func CSS(sheet *ast.Stylesheet, opts Options) (string, error) {
	if sheet == nil {
		return "", nil
	}
	n := opts.Indent
	if n <= 0 {
		n = DefaultIndent
	}
	w := &cssWriter{indent: strings.Repeat(" ", n)}

	for i, rule := range sheet.Rules() {
		if i > 0 {
			w.Blank()
		}
		if err := writeRule(w, rule); err != nil {
			return "", err
		}
	}
	return w.String(), nil
}

func writeRule(w *cssWriter, rule *ast.StyleRule) error {
	if len(rule.Selectors) == 0 {
		return fmt.Errorf("line %d: style rule without selectors", rule.NodeLine())
	}
	sels := make([]string, len(rule.Selectors))
	for i, s := range rule.Selectors {
		sels[i] = s.String()
	}
	w.Linef("%s {", strings.Join(sels, ", "))
	w.Indent()
	for _, st := range rule.Body {
		decl, ok := st.(*ast.Declaration)
		if !ok {
			return fmt.Errorf("line %d: cannot render %T, stylesheet is not evaluated", st.NodeLine(), st)
		}
		v, err := Value(decl.Value)
		if err != nil {
			return fmt.Errorf("line %d: property %s: %w", decl.NodeLine(), decl.Property, err)
		}
		w.Linef("%s: %s;", decl.Property, v)
	}
	w.Dedent()
	w.Linef("}")
	return nil
}

// Value returns the CSS text of a literal value.
func Value(e ast.Expr) (string, error) {
	switch v := e.(type) {
	case *ast.BoolLiteral:
		if v.Value {
			return "true", nil
		}
		return "false", nil
	case ast.Literal:
		return v.String(), nil
	case nil:
		return "", errors.New("missing value")
	default:
		return "", fmt.Errorf("value %T is not a literal", e)
	}
}
