package compiler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rubiojr/icss/ast"
	"github.com/rubiojr/icss/checker"
	"github.com/rubiojr/icss/config"
	"github.com/rubiojr/icss/evaluator"
	"github.com/rubiojr/icss/generate"
	"github.com/rubiojr/icss/parser"
)

// ErrDiagnostics is returned by Build when the stylesheet has errors. The
// diagnostics themselves are in the CompileResult.
var ErrDiagnostics = errors.New("stylesheet has errors")

// Compiler orchestrates the full compilation pipeline:
// parse, check, evaluate, generate.
type Compiler struct {
	// Config holds the project settings. Nil means config.Default().
	Config *config.Config
	// Progress, when set, receives one line per pipeline pass.
	Progress io.Writer
}

// CompileResult holds the output of a compilation.
type CompileResult struct {
	SourceFile string
	// Stylesheet is the parsed input tree.
	Stylesheet *ast.Stylesheet
	// Evaluated is the resolved tree, nil when checking failed.
	Evaluated *ast.Stylesheet
	// Diagnostics block output.
	Diagnostics ast.Diagnostics
	// Warnings are reported but do not block output.
	Warnings ast.Diagnostics
	// CSS is the rendered output, empty when Diagnostics is not.
	CSS string
}

// OK reports whether the compilation produced output.
func (r *CompileResult) OK() bool { return len(r.Diagnostics) == 0 }

func (c *Compiler) config() *config.Config {
	if c.Config == nil {
		return config.Default()
	}
	return c.Config
}

func (c *Compiler) logf(format string, args ...any) {
	if c.Progress != nil {
		fmt.Fprintf(c.Progress, format+"\n", args...)
	}
}

// ParseFile reads and parses an .icss file without checking it.
func (c *Compiler) ParseFile(filename string) (*ast.Stylesheet, error) {
	c.logf("parse %s", filename)
	return parser.ParseFile(filename)
}

// ParseSource parses ICSS source text without checking it.
func (c *Compiler) ParseSource(src, name string) (*ast.Stylesheet, error) {
	c.logf("parse %s", name)
	return parser.ParseSource(src, name)
}

// Compile reads an .icss file and runs the whole pipeline. Syntax and I/O
// failures are returned as errors; semantic problems are reported in the
// result's Diagnostics.
func (c *Compiler) Compile(filename string) (*CompileResult, error) {
	sheet, err := c.ParseFile(filename)
	if err != nil {
		return nil, err
	}
	return c.CompileStylesheet(sheet)
}

// CompileSource compiles ICSS source text.
func (c *Compiler) CompileSource(src, name string) (*CompileResult, error) {
	sheet, err := c.ParseSource(src, name)
	if err != nil {
		return nil, err
	}
	return c.CompileStylesheet(sheet)
}

// Check parses and type-checks an .icss file without evaluating it.
func (c *Compiler) Check(filename string) (*CompileResult, error) {
	sheet, err := c.ParseFile(filename)
	if err != nil {
		return nil, err
	}
	return &CompileResult{
		SourceFile:  sheet.SourceFile,
		Stylesheet:  sheet,
		Diagnostics: c.check(sheet),
	}, nil
}

func (c *Compiler) check(sheet *ast.Stylesheet) ast.Diagnostics {
	c.logf("check %s", sheet.SourceFile)
	checks := ast.CheckChain{checker.New()}
	return checks.Run(sheet)
}

// CompileStylesheet checks, evaluates and renders an already parsed
// stylesheet. Evaluation only runs when checking found nothing.
func (c *Compiler) CompileStylesheet(sheet *ast.Stylesheet) (*CompileResult, error) {
	cfg := c.config()
	result := &CompileResult{SourceFile: sheet.SourceFile, Stylesheet: sheet}

	result.Diagnostics = c.check(sheet)
	if !result.OK() {
		return result, nil
	}

	c.logf("evaluate %s", sheet.SourceFile)
	passes := ast.Chain(evaluator.New())
	out, diags, err := passes.Transform(sheet)
	if err != nil {
		return nil, fmt.Errorf("evaluating %s: %w", sheet.SourceFile, err)
	}
	if !ast.Resolved(out) {
		return nil, fmt.Errorf("evaluating %s: unresolved nodes remain after evaluation", sheet.SourceFile)
	}
	result.Evaluated = out
	for _, d := range diags {
		if !cfg.Strict && d.Kind == ast.DuplicateProperty {
			result.Warnings = append(result.Warnings, d)
		} else {
			result.Diagnostics = append(result.Diagnostics, d)
		}
	}
	if !result.OK() {
		return result, nil
	}

	c.logf("generate %s", sheet.SourceFile)
	css, err := generate.CSS(out, generate.Options{Indent: cfg.Indent})
	if err != nil {
		return nil, fmt.Errorf("generating %s: %w", sheet.SourceFile, err)
	}
	result.CSS = css
	return result, nil
}

// Build compiles an .icss file and writes the CSS to output. An empty
// output derives the name from the input, replacing its extension with
// .css. When the stylesheet has errors nothing is written and the error
// wraps ErrDiagnostics.
func (c *Compiler) Build(filename, output string) (*CompileResult, error) {
	result, err := c.Compile(filename)
	if err != nil {
		return nil, err
	}
	if !result.OK() {
		return result, fmt.Errorf("%s: %w", filename, ErrDiagnostics)
	}

	if output == "" {
		output = OutputPath(filename)
	}
	if err := os.WriteFile(output, []byte(result.CSS), 0644); err != nil {
		return result, fmt.Errorf("writing CSS: %w", err)
	}
	return result, nil
}

// OutputPath returns the default .css path for an .icss source file.
func OutputPath(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ".css"
}
