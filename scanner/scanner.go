// Package scanner splits ICSS source text into tokens. It tracks line and
// column positions and skips whitespace and /* ... */ comments.
package scanner

import (
	"fmt"
	"strings"
)

// Kind identifies the lexical class of a token.
type Kind int

const (
	EOF Kind = iota
	Illegal

	LowerIdent   // p, width, background-color
	CapitalIdent // Width, LinkColor
	ClassIdent   // .menu
	Hash         // #menu or #ff0000, decided by the parser
	Pixel        // 10px
	Percentage   // 50%
	Scalar       // 3

	True  // TRUE
	False // FALSE
	If    // if
	Else  // else

	Colon     // :
	Assign    // :=
	Semicolon // ;
	Comma     // ,
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	Plus      // +
	Minus     // -
	Star      // *
)

var kindNames = map[Kind]string{
	EOF:          "end of input",
	Illegal:      "illegal character",
	LowerIdent:   "identifier",
	CapitalIdent: "variable name",
	ClassIdent:   "class selector",
	Hash:         "hash",
	Pixel:        "pixel value",
	Percentage:   "percentage",
	Scalar:       "number",
	True:         "TRUE",
	False:        "FALSE",
	If:           "if",
	Else:         "else",
	Colon:        "':'",
	Assign:       "':='",
	Semicolon:    "';'",
	Comma:        "','",
	LBrace:       "'{'",
	RBrace:       "'}'",
	LBracket:     "'['",
	RBracket:     "']'",
	Plus:         "'+'",
	Minus:        "'-'",
	Star:         "'*'",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var keywords = map[string]Kind{
	"TRUE":  True,
	"FALSE": False,
	"if":    If,
	"else":  Else,
}

// Token is a lexeme with its position.
type Token struct {
	Kind Kind
	Text string // source text of the token
	Line int    // 1-based
	Col  int    // 1-based, in bytes
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return t.Kind.String()
	case Illegal:
		return fmt.Sprintf("illegal character %q", t.Text)
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Text)
}

// Scanner iterates byte-by-byte over source text and groups bytes into
// tokens.
type Scanner struct {
	src       string
	pos       int // offset of the next unread byte
	line      int
	lineStart int // offset of the first byte of the current line

	// Unterminated reports that the input ended inside a comment.
	Unterminated bool
}

// New creates a Scanner for the given source text.
func New(src string) *Scanner {
	return &Scanner{src: src, line: 1}
}

// peek returns the byte n positions ahead without advancing, or 0 at end.
func (s *Scanner) peek(n int) byte {
	if s.pos+n >= len(s.src) {
		return 0
	}
	return s.src[s.pos+n]
}

// lookingAt checks if the unread input starts with prefix.
func (s *Scanner) lookingAt(prefix string) bool {
	return strings.HasPrefix(s.src[s.pos:], prefix)
}

// advance consumes one byte, updating line tracking.
func (s *Scanner) advance() byte {
	ch := s.src[s.pos]
	s.pos++
	if ch == '\n' {
		s.line++
		s.lineStart = s.pos
	}
	return ch
}

func (s *Scanner) skipSpaceAndComments() {
	for s.pos < len(s.src) {
		switch {
		case isSpace(s.src[s.pos]):
			s.advance()
		case s.lookingAt("/*"):
			s.advance()
			s.advance()
			for !s.lookingAt("*/") {
				if s.pos >= len(s.src) {
					s.Unterminated = true
					return
				}
				s.advance()
			}
			s.advance()
			s.advance()
		default:
			return
		}
	}
}

// Next returns the next token. At end of input it returns an EOF token,
// repeatedly if called again.
func (s *Scanner) Next() Token {
	s.skipSpaceAndComments()
	tok := Token{Line: s.line, Col: s.pos - s.lineStart + 1}
	if s.pos >= len(s.src) {
		tok.Kind = EOF
		return tok
	}

	start := s.pos
	ch := s.advance()
	switch {
	case ch == ':':
		tok.Kind = Colon
		if s.peek(0) == '=' {
			s.advance()
			tok.Kind = Assign
		}
	case ch == ';':
		tok.Kind = Semicolon
	case ch == ',':
		tok.Kind = Comma
	case ch == '{':
		tok.Kind = LBrace
	case ch == '}':
		tok.Kind = RBrace
	case ch == '[':
		tok.Kind = LBracket
	case ch == ']':
		tok.Kind = RBracket
	case ch == '+':
		tok.Kind = Plus
	case ch == '-':
		tok.Kind = Minus
	case ch == '*':
		tok.Kind = Star
	case ch == '.' && isIdentStart(s.peek(0)):
		s.consumeWhile(isIdentPart)
		tok.Kind = ClassIdent
	case ch == '#' && isIdentPart(s.peek(0)):
		s.consumeWhile(isIdentPart)
		tok.Kind = Hash
	case isDigit(ch):
		s.consumeWhile(isDigit)
		switch {
		case s.lookingAt("px"):
			s.advance()
			s.advance()
			tok.Kind = Pixel
		case s.peek(0) == '%':
			s.advance()
			tok.Kind = Percentage
		default:
			tok.Kind = Scalar
		}
	case isUpper(ch):
		s.consumeWhile(isVarPart)
		tok.Kind = CapitalIdent
	case isLower(ch):
		s.consumeWhile(isIdentPart)
		tok.Kind = LowerIdent
	default:
		tok.Kind = Illegal
	}
	tok.Text = s.src[start:s.pos]
	if kw, ok := keywords[tok.Text]; ok && (tok.Kind == LowerIdent || tok.Kind == CapitalIdent) {
		tok.Kind = kw
	}
	return tok
}

// All scans the whole input and returns its tokens, ending with EOF.
func (s *Scanner) All() []Token {
	var toks []Token
	for {
		t := s.Next()
		toks = append(toks, t)
		if t.Kind == EOF {
			return toks
		}
	}
}

func (s *Scanner) consumeWhile(pred func(byte) bool) {
	for s.pos < len(s.src) && pred(s.src[s.pos]) {
		s.advance()
	}
}

func isSpace(ch byte) bool { return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' }
func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }
func isUpper(ch byte) bool { return ch >= 'A' && ch <= 'Z' }
func isLower(ch byte) bool { return ch >= 'a' && ch <= 'z' }

func isIdentStart(ch byte) bool { return isLower(ch) || isUpper(ch) || ch == '_' }

// isIdentPart accepts the characters of selectors and property names.
func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '-'
}

// isVarPart accepts the characters of variable names, which exclude '-' so
// that "Width-2px" scans as a subtraction.
func isVarPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
