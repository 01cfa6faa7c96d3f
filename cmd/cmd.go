package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rubiojr/icss/ast"
	"github.com/rubiojr/icss/compiler"
	"github.com/rubiojr/icss/config"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// Execute runs the ICSS CLI with the given version string.
func Execute(version string) {
	cmd := &cli.Command{
		Name:                   "icss",
		Usage:                  "Compile ICSS stylesheets to CSS",
		Version:                version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to the project config file",
				Sources: cli.EnvVars(config.EnvVar),
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Aliases: []string{"C"},
				Usage:   "Disable ANSI color output",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Print each compiler pass to stderr",
			},
		},
		// Allow `icss site.icss` as shorthand for `icss build site.icss`
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 0 && strings.HasSuffix(cmd.Args().First(), ".icss") {
				return buildAction(ctx, cmd)
			}
			return cli.DefaultShowRootCommandHelp(cmd)
		},
		Commands: []*cli.Command{
			{
				Name:      "build",
				Usage:     "Compile an .icss file to CSS",
				ArgsUsage: "<file.icss>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file, - for stdout (default: input name with .css)",
					},
				},
				Action: buildAction,
			},
			{
				Name:      "check",
				Usage:     "Type-check an .icss file without generating CSS",
				ArgsUsage: "<file.icss>",
				Action:    checkAction,
			},
			{
				Name:      "test",
				Usage:     "Compare compiled .icss files with the .css files next to them",
				ArgsUsage: "[file.icss | directory]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "jobs",
						Aliases: []string{"j"},
						Usage:   "Parallel stylesheets",
						Value:   1,
					},
				},
				Action: testAction,
			},
			{
				Name:   "repl",
				Usage:  "Start an interactive ICSS shell",
				Action: replAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the config and builds the compiler and diagnostic printer
// shared by every command.
func setup(cmd *cli.Command) (*compiler.Compiler, *printer, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("resolving working directory: %w", err)
	}
	cfg, err := config.Resolve(cmd.String("config"), dir)
	if err != nil {
		return nil, nil, err
	}

	comp := &compiler.Compiler{Config: cfg}
	if cmd.Bool("verbose") {
		comp.Progress = os.Stderr
		if cfg.Path != "" {
			fmt.Fprintf(os.Stderr, "config %s\n", cfg.Path)
		}
	}
	color := useColor(cfg.Color, cmd.Bool("no-color"), os.Getenv("NO_COLOR") != "",
		term.IsTerminal(int(os.Stderr.Fd())))
	return comp, &printer{w: os.Stderr, color: color}, nil
}

func buildAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: icss build [-o output] <file.icss>")
	}
	comp, p, err := setup(cmd)
	if err != nil {
		return err
	}
	file := cmd.Args().First()
	output := cmd.String("output")
	// Also check if -o was passed after the filename (urfave quirk)
	if output == "" {
		args := cmd.Args().Slice()
		for i, arg := range args {
			if (arg == "-o" || arg == "--output") && i+1 < len(args) {
				output = args[i+1]
			}
		}
	}

	if output == "-" {
		result, err := comp.Compile(file)
		if err != nil {
			return err
		}
		p.report(result)
		if !result.OK() {
			return fmt.Errorf("%s: %w", file, compiler.ErrDiagnostics)
		}
		fmt.Print(result.CSS)
		return nil
	}

	result, err := comp.Build(file, output)
	if result != nil {
		p.report(result)
	}
	return err
}

func checkAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: icss check <file.icss>")
	}
	comp, p, err := setup(cmd)
	if err != nil {
		return err
	}
	file := cmd.Args().First()
	result, err := comp.Check(file)
	if err != nil {
		return err
	}
	p.report(result)
	if !result.OK() {
		return fmt.Errorf("%s: %w", file, compiler.ErrDiagnostics)
	}
	return nil
}

func replAction(ctx context.Context, cmd *cli.Command) error {
	comp, p, err := setup(cmd)
	if err != nil {
		return err
	}
	return runREPL(comp, p)
}

// useColor decides whether diagnostics are colored. The --no-color flag
// always wins, then an explicit config mode, then NO_COLOR and the
// terminal check.
func useColor(mode config.ColorMode, noColorFlag, noColorEnv, isTTY bool) bool {
	if noColorFlag {
		return false
	}
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return !noColorEnv && isTTY
}

const (
	colorError = "\033[31m"
	colorWarn  = "\033[33m"
	colorReset = "\033[0m"
)

// printer writes diagnostics as file:line: label: message [kind].
type printer struct {
	w     io.Writer
	color bool
}

func (p *printer) label(text, color string) string {
	if !p.color {
		return text
	}
	return color + text + colorReset
}

func (p *printer) diagnostic(file, label string, d ast.Diagnostic) {
	if file != "" {
		fmt.Fprintf(p.w, "%s:", file)
	}
	fmt.Fprintf(p.w, "%d: %s: %s [%s]\n", d.Line(), label, d.Message, d.Kind)
}

func (p *printer) report(result *compiler.CompileResult) {
	for _, d := range result.Warnings {
		p.diagnostic(result.SourceFile, p.label("warning", colorWarn), d)
	}
	for _, d := range result.Diagnostics {
		p.diagnostic(result.SourceFile, p.label("error", colorError), d)
	}
}

func (p *printer) errorf(format string, args ...any) {
	fmt.Fprintf(p.w, "%s: %s\n", p.label("error", colorError), fmt.Sprintf(format, args...))
}
