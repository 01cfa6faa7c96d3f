// Package parser builds an ast.Stylesheet from ICSS source text.
//
//	stylesheet   := (varAssign | styleRule)* EOF
//	styleRule    := selector ("," selector)* "{" body "}"
//	body         := (declaration | ifClause | varAssign)*
//	declaration  := LOWER_IDENT ":" expr ";"
//	varAssign    := CAPITAL_IDENT ":=" expr ";"
//	ifClause     := "if" "[" expr "]" "{" body "}" ("else" "{" body "}")?
//	expr         := term (("+" | "-") term)*
//	term         := factor ("*" factor)*
//	factor       := PIXEL | PERCENT | SCALAR | COLOR | TRUE | FALSE | CAPITAL_IDENT
package parser

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rubiojr/icss/ast"
	"github.com/rubiojr/icss/scanner"
)

// Error is a syntax error at a source position.
type Error struct {
	File string
	Line int
	Col  int
	Msg  string

	// incomplete is set when the input ended before the construct did.
	incomplete bool
}

func (e *Error) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Col, e.Msg)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

// IsIncomplete reports whether err was caused by input that ended early,
// meaning more input could still make it valid.
func IsIncomplete(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.incomplete
}

// Parser is a recursive-descent ICSS parser.
type Parser struct {
	file string
	toks []scanner.Token
	pos  int
}

// ParseFile reads an ICSS source file and parses it.
func ParseFile(filename string) (*ast.Stylesheet, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return ParseSource(string(src), filename)
}

// ParseSource parses ICSS source text. The name is used in error messages
// and recorded as the stylesheet's SourceFile.
func ParseSource(src, name string) (*ast.Stylesheet, error) {
	sc := scanner.New(src)
	p := &Parser{file: name, toks: sc.All()}
	if sc.Unterminated {
		last := p.toks[len(p.toks)-1]
		return nil, &Error{File: name, Line: last.Line, Col: last.Col, Msg: "unterminated comment", incomplete: true}
	}
	sheet, err := p.parseStylesheet()
	if err != nil {
		return nil, err
	}
	sheet.SourceFile = name
	return sheet, nil
}

func (p *Parser) peek() scanner.Token { return p.toks[p.pos] }

func (p *Parser) next() scanner.Token {
	t := p.toks[p.pos]
	if t.Kind != scanner.EOF {
		p.pos++
	}
	return t
}

func (p *Parser) errorf(t scanner.Token, format string, args ...any) *Error {
	return &Error{
		File:       p.file,
		Line:       t.Line,
		Col:        t.Col,
		Msg:        fmt.Sprintf(format, args...),
		incomplete: t.Kind == scanner.EOF,
	}
}

func (p *Parser) expect(k scanner.Kind, context string) (scanner.Token, error) {
	t := p.next()
	if t.Kind != k {
		return t, p.errorf(t, "expected %s in %s, got %s", k, context, t)
	}
	return t, nil
}

func base(t scanner.Token) ast.BaseNode { return ast.BaseNode{SourceLine: t.Line} }

func (p *Parser) parseStylesheet() (*ast.Stylesheet, error) {
	sheet := &ast.Stylesheet{BaseNode: ast.BaseNode{SourceLine: 1}}
	for p.peek().Kind != scanner.EOF {
		var st ast.Statement
		var err error
		if p.peek().Kind == scanner.CapitalIdent {
			st, err = p.parseVariableAssignment()
		} else {
			st, err = p.parseStyleRule()
		}
		if err != nil {
			return nil, err
		}
		sheet.Statements = append(sheet.Statements, st)
	}
	return sheet, nil
}

func (p *Parser) parseStyleRule() (*ast.StyleRule, error) {
	rule := &ast.StyleRule{BaseNode: base(p.peek())}
	for {
		sel, err := p.parseSelector()
		if err != nil {
			return nil, err
		}
		rule.Selectors = append(rule.Selectors, sel)
		if p.peek().Kind != scanner.Comma {
			break
		}
		p.next()
	}
	body, err := p.parseBlock("style rule")
	if err != nil {
		return nil, err
	}
	rule.Body = body
	return rule, nil
}

func (p *Parser) parseSelector() (ast.Selector, error) {
	t := p.next()
	switch t.Kind {
	case scanner.LowerIdent:
		return &ast.TagSelector{BaseNode: base(t), Name: t.Text}, nil
	case scanner.ClassIdent:
		return &ast.ClassSelector{BaseNode: base(t), Name: t.Text[1:]}, nil
	case scanner.Hash:
		return &ast.IdSelector{BaseNode: base(t), Name: t.Text[1:]}, nil
	default:
		return nil, p.errorf(t, "expected selector, got %s", t)
	}
}

// parseBlock parses "{" body "}".
func (p *Parser) parseBlock(context string) ([]ast.Statement, error) {
	if _, err := p.expect(scanner.LBrace, context); err != nil {
		return nil, err
	}
	var body []ast.Statement
	for {
		t := p.peek()
		var st ast.Statement
		var err error
		switch t.Kind {
		case scanner.RBrace:
			p.next()
			return body, nil
		case scanner.LowerIdent:
			st, err = p.parseDeclaration()
		case scanner.CapitalIdent:
			st, err = p.parseVariableAssignment()
		case scanner.If:
			st, err = p.parseIfClause()
		default:
			return nil, p.errorf(t, "expected declaration, variable assignment, if or '}' in %s, got %s", context, t)
		}
		if err != nil {
			return nil, err
		}
		body = append(body, st)
	}
}

func (p *Parser) parseDeclaration() (*ast.Declaration, error) {
	name := p.next()
	if _, err := p.expect(scanner.Colon, "declaration"); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scanner.Semicolon, "declaration"); err != nil {
		return nil, err
	}
	return &ast.Declaration{BaseNode: base(name), Property: name.Text, Value: value}, nil
}

func (p *Parser) parseVariableAssignment() (*ast.VariableAssignment, error) {
	name := p.next()
	if _, err := p.expect(scanner.Assign, "variable assignment"); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scanner.Semicolon, "variable assignment"); err != nil {
		return nil, err
	}
	return &ast.VariableAssignment{BaseNode: base(name), Name: name.Text, Value: value}, nil
}

func (p *Parser) parseIfClause() (*ast.IfClause, error) {
	kw := p.next()
	if _, err := p.expect(scanner.LBracket, "if condition"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scanner.RBracket, "if condition"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock("if clause")
	if err != nil {
		return nil, err
	}
	clause := &ast.IfClause{BaseNode: base(kw), Condition: cond, Body: body}

	if p.peek().Kind == scanner.Else {
		el := p.next()
		elseBody, err := p.parseBlock("else clause")
		if err != nil {
			return nil, err
		}
		clause.Else = &ast.ElseClause{BaseNode: base(el), Body: elseBody}
	}
	return clause, nil
}

func (p *Parser) parseExpr() (ast.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		var op ast.Operator
		switch t.Kind {
		case scanner.Plus:
			op = ast.OpAdd
		case scanner.Minus:
			op = ast.OpSubtract
		default:
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &ast.Operation{BaseNode: base(t), Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseTerm() (ast.Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == scanner.Star {
		t := p.next()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &ast.Operation{BaseNode: base(t), Op: ast.OpMultiply, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseFactor() (ast.Expr, error) {
	t := p.next()
	switch t.Kind {
	case scanner.Pixel:
		v, err := p.atoi(t, strings.TrimSuffix(t.Text, "px"))
		return &ast.PixelLiteral{BaseNode: base(t), Value: v}, err
	case scanner.Percentage:
		v, err := p.atoi(t, strings.TrimSuffix(t.Text, "%"))
		return &ast.PercentageLiteral{BaseNode: base(t), Value: v}, err
	case scanner.Scalar:
		v, err := p.atoi(t, t.Text)
		return &ast.ScalarLiteral{BaseNode: base(t), Value: v}, err
	case scanner.Hash:
		return &ast.ColorLiteral{BaseNode: base(t), Value: t.Text}, nil
	case scanner.True:
		return &ast.BoolLiteral{BaseNode: base(t), Value: true}, nil
	case scanner.False:
		return &ast.BoolLiteral{BaseNode: base(t), Value: false}, nil
	case scanner.CapitalIdent:
		return &ast.VariableReference{BaseNode: base(t), Name: t.Text}, nil
	default:
		return nil, p.errorf(t, "expected value, got %s", t)
	}
}

func (p *Parser) atoi(t scanner.Token, digits string) (int, error) {
	v, err := strconv.Atoi(digits)
	if err != nil {
		return 0, p.errorf(t, "number %s out of range", t.Text)
	}
	return v, nil
}
