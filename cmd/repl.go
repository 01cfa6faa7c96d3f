package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/peterh/liner"
	"github.com/rubiojr/icss/ast"
	"github.com/rubiojr/icss/compiler"
	"github.com/rubiojr/icss/evaluator"
	"github.com/rubiojr/icss/parser"
)

const (
	historyFile = ".icss_history"
	promptMain  = "icss> "
	promptCont  = "....> "
	replBanner  = "ICSS interactive shell. Type :help for commands."
	replHelp    = `:vars   list the variables defined so far
:reset  forget every variable
:quit   leave the shell`
)

func runREPL(comp *compiler.Compiler, p *printer) error {
	fmt.Println(replBanner)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	// Without a home directory the shell runs without history.
	if histPath, ok := historyPath(os.UserHomeDir); ok {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	s := &session{comp: comp, out: os.Stdout, p: p}
	for {
		src, ok := readEntry(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return nil
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if s.handle(src) {
			return nil
		}
	}
}

// historyPath returns the history file inside the home directory, or false
// when the home directory cannot be determined.
func historyPath(home func() (string, error)) (string, bool) {
	dir, err := home()
	if err != nil || dir == "" {
		return "", false
	}
	return filepath.Join(dir, historyFile), true
}

// readEntry reads lines until they form a complete entry, continuing while
// the parser reports input that ended early.
func readEntry(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, err := parser.ParseSource(src, ""); parser.IsIncomplete(err) {
			continue
		}
		return src, true
	}
}

// session holds the state of one interactive shell. Top-level variable
// assignments from accepted entries carry over to later entries.
type session struct {
	comp    *compiler.Compiler
	out     io.Writer
	p       *printer
	globals []ast.Statement
	entries int
}

// handle runs one entry and reports whether the shell should exit.
func (s *session) handle(src string) bool {
	input := strings.TrimSpace(src)
	if strings.HasPrefix(input, ":") {
		switch strings.ToLower(input) {
		case ":quit", ":q", ":exit":
			return true
		case ":reset":
			s.globals = nil
			fmt.Fprintln(s.out, "variables cleared")
		case ":vars":
			s.printVars()
		case ":help":
			fmt.Fprintln(s.out, replHelp)
		default:
			fmt.Fprintln(s.out, "unknown command. Type :help for commands.")
		}
		return false
	}
	s.eval(src)
	return false
}

func (s *session) eval(src string) {
	s.entries++
	name := fmt.Sprintf("<repl:%d>", s.entries)
	entry, err := s.comp.ParseSource(src, name)
	if err != nil {
		s.p.errorf("%v", err)
		return
	}

	sheet := &ast.Stylesheet{
		SourceFile: name,
		Statements: append(slices.Clone(s.globals), entry.Statements...),
	}
	result, err := s.comp.CompileStylesheet(sheet)
	if err != nil {
		s.p.errorf("%v", err)
		return
	}
	s.p.report(result)
	if !result.OK() {
		return
	}

	for _, st := range entry.Statements {
		if assign, ok := st.(*ast.VariableAssignment); ok {
			s.globals = append(s.globals, assign)
		}
	}
	fmt.Fprint(s.out, result.CSS)
}

func (s *session) printVars() {
	vars, err := evaluator.New().Globals(&ast.Stylesheet{Statements: s.globals})
	if err != nil {
		s.p.errorf("%v", err)
		return
	}
	if len(vars) == 0 {
		fmt.Fprintln(s.out, "no variables defined")
		return
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(s.out, "%s := %s\n", name, vars[name])
	}
}
