package compiler

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/icss/ast"
	"github.com/rubiojr/icss/config"
	"github.com/rubiojr/icss/parser"
)

func compile(t *testing.T, src string) *CompileResult {
	t.Helper()
	c := &Compiler{}
	result, err := c.CompileSource(src, "test.icss")
	require.NoError(t, err)
	return result
}

func kinds(ds ast.Diagnostics) []ast.DiagnosticKind {
	out := make([]ast.DiagnosticKind, len(ds))
	for i, d := range ds {
		out[i] = d.Kind
	}
	return out
}

func TestCompileSource(t *testing.T) {
	result := compile(t, "Width := 10px; p { width: Width * 2; }")
	require.True(t, result.OK())
	assert.Equal(t, "p {\n  width: 20px;\n}\n", result.CSS)
	assert.Equal(t, "test.icss", result.SourceFile)
	assert.True(t, ast.Resolved(result.Evaluated))
	assert.False(t, ast.Resolved(result.Stylesheet), "parsed tree is left untouched")
}

func TestCompileExamples(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "examples", "*.icss"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			want, err := os.ReadFile(OutputPath(file))
			require.NoError(t, err)

			c := &Compiler{}
			result, err := c.Compile(file)
			require.NoError(t, err)
			require.Empty(t, result.Diagnostics)
			assert.Equal(t, string(want), result.CSS)
		})
	}
}

func TestCompileReportsCheckerDiagnostics(t *testing.T) {
	result := compile(t, "p {\n  width: #fff;\n  color: Missing;\n  border: 1px;\n}\n")
	assert.False(t, result.OK())
	assert.Equal(t, []ast.DiagnosticKind{
		ast.InvalidPropertyValueType,
		ast.UndefinedVariable,
		ast.InvalidPropertyValueType,
		ast.UnknownProperty,
	}, kinds(result.Diagnostics))
	assert.Nil(t, result.Evaluated, "evaluation is skipped")
	assert.Empty(t, result.CSS)
	assert.Equal(t, 2, result.Diagnostics[0].Line())
	assert.Equal(t, 3, result.Diagnostics[2].Line())
	assert.Equal(t, 4, result.Diagnostics[3].Line())
}

func TestCompileInvalidOperand(t *testing.T) {
	result := compile(t, "p { width: 1px + #000000; }")
	assert.Equal(t, []ast.DiagnosticKind{ast.InvalidOperandType}, kinds(result.Diagnostics))
}

func TestCompileBranchScope(t *testing.T) {
	result := compile(t, "p {\n  if [TRUE] { W := 1px; }\n  width: W;\n}\n")
	assert.Equal(t, []ast.DiagnosticKind{ast.UndefinedVariable, ast.InvalidPropertyValueType},
		kinds(result.Diagnostics))
	assert.Equal(t, 3, result.Diagnostics[0].Line())
}

func TestCompileNestedElseFlattens(t *testing.T) {
	src := `p {
  if [FALSE] {
    width: 1px;
  } else {
    color: #111111;
    if [TRUE] { height: 2px; } else { height: 3px; }
    width: 4%;
  }
}`
	result := compile(t, src)
	require.True(t, result.OK())
	assert.Equal(t, "p {\n  color: #111111;\n  height: 2px;\n  width: 4%;\n}\n", result.CSS)
}

func TestCompileDuplicateProperty(t *testing.T) {
	src := "p {\n  width: 1px;\n  if [TRUE] { width: 2px; }\n}\n"

	t.Run("strict", func(t *testing.T) {
		result := compile(t, src)
		assert.Equal(t, []ast.DiagnosticKind{ast.DuplicateProperty}, kinds(result.Diagnostics))
		assert.Empty(t, result.CSS)
		assert.NotNil(t, result.Evaluated)
	})

	t.Run("lenient", func(t *testing.T) {
		cfg := config.Default()
		cfg.Strict = false
		c := &Compiler{Config: cfg}
		result, err := c.CompileSource(src, "test.icss")
		require.NoError(t, err)
		assert.True(t, result.OK())
		assert.Equal(t, []ast.DiagnosticKind{ast.DuplicateProperty}, kinds(result.Warnings))
		assert.Equal(t, "p {\n  width: 1px;\n  width: 2px;\n}\n", result.CSS)
	})
}

func TestCompileIndent(t *testing.T) {
	cfg := config.Default()
	cfg.Indent = 4
	c := &Compiler{Config: cfg}
	result, err := c.CompileSource("a { color: #000; }", "test.icss")
	require.NoError(t, err)
	assert.Equal(t, "a {\n    color: #000;\n}\n", result.CSS)
}

func TestCompileSyntaxError(t *testing.T) {
	c := &Compiler{}
	_, err := c.CompileSource("p { width 10px; }", "bad.icss")
	require.Error(t, err)
	var pe *parser.Error
	assert.True(t, errors.As(err, &pe))
	assert.False(t, parser.IsIncomplete(err))
}

func TestCompileStylesheetMalformedTree(t *testing.T) {
	// Trees built by hand can skip the parser's guarantees.
	sheet := &ast.Stylesheet{SourceFile: "built.icss", Statements: []ast.Statement{
		&ast.StyleRule{
			Selectors: []ast.Selector{&ast.TagSelector{Name: "p"}},
			Body:      []ast.Statement{&ast.Declaration{Property: "width"}},
		},
	}}
	c := &Compiler{}
	result, err := c.CompileStylesheet(sheet)
	require.NoError(t, err)
	assert.Equal(t, []ast.DiagnosticKind{ast.InternalError, ast.InvalidPropertyValueType},
		kinds(result.Diagnostics))
	assert.Nil(t, result.Evaluated, "evaluation is skipped")
}

func TestCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.icss")
	require.NoError(t, os.WriteFile(path, []byte("X := 1px;\nX := #fff;\n"), 0o644))

	c := &Compiler{}
	result, err := c.Check(path)
	require.NoError(t, err)
	assert.Equal(t, []ast.DiagnosticKind{ast.TypeMismatchOnReassignment}, kinds(result.Diagnostics))
	assert.Nil(t, result.Evaluated)
	assert.Equal(t, path+":2: variable X cannot change type from pixel to color [type-mismatch]\n",
		result.Diagnostics.Format(result.SourceFile))
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "site.icss")
	require.NoError(t, os.WriteFile(src, []byte("a { width: 2px * 3; }\n"), 0o644))

	c := &Compiler{}
	result, err := c.Build(src, "")
	require.NoError(t, err)
	assert.True(t, result.OK())

	data, err := os.ReadFile(filepath.Join(dir, "site.css"))
	require.NoError(t, err)
	assert.Equal(t, "a {\n  width: 6px;\n}\n", string(data))

	out := filepath.Join(dir, "custom.css")
	_, err = c.Build(src, out)
	require.NoError(t, err)
	assert.FileExists(t, out)
}

func TestBuildWithErrorsWritesNothing(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "site.icss")
	require.NoError(t, os.WriteFile(src, []byte("a { width: Nope; }\n"), 0o644))

	c := &Compiler{}
	result, err := c.Build(src, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDiagnostics)
	require.NotNil(t, result)
	assert.True(t, result.Diagnostics.Has(ast.UndefinedVariable))
	assert.NoFileExists(t, filepath.Join(dir, "site.css"))
}

func TestBuildMissingFile(t *testing.T) {
	c := &Compiler{}
	_, err := c.Build(filepath.Join(t.TempDir(), "missing.icss"), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	c := &Compiler{Progress: &buf}
	_, err := c.CompileSource("a { color: #000; }", "p.icss")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{"parse p.icss", "check p.icss", "evaluate p.icss", "generate p.icss"}, lines)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "site.css", OutputPath("site.icss"))
	assert.Equal(t, filepath.Join("a", "b.css"), OutputPath(filepath.Join("a", "b.icss")))
	assert.Equal(t, "noext.css", OutputPath("noext"))
}
