package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/rubiojr/icss/compiler"
	"github.com/urfave/cli/v3"
)

const (
	colorOK    = "\033[32m"
	colorFail  = colorError
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"
)

// testAction compiles every .icss file that has a .css file next to it and
// compares the output with that file.
func testAction(ctx context.Context, cmd *cli.Command) error {
	targets := cmd.Args().Slice()
	if len(targets) == 0 {
		targets = []string{"."}
	}
	comp, p, err := setup(cmd)
	if err != nil {
		return err
	}

	files, err := collectSources(targets)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .icss files found")
	}

	sum := runGolden(comp, files, int(cmd.Int("jobs")), p, os.Stdout)
	if sum.failed > 0 {
		return fmt.Errorf("%d of %d stylesheets failed", sum.failed, len(files))
	}
	return nil
}

// collectSources expands directories into the .icss files they contain.
func collectSources(targets []string) ([]string, error) {
	var files []string
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", target, err)
		}
		if !info.IsDir() {
			files = append(files, target)
			continue
		}
		entries, err := os.ReadDir(target)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", target, err)
		}
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".icss") {
				files = append(files, filepath.Join(target, e.Name()))
			}
		}
	}
	return files, nil
}

type goldenSummary struct {
	passed, failed, skipped int
}

type goldenResult struct {
	status string
	buf    bytes.Buffer
}

// runGolden checks files using up to jobs workers. Output is buffered per
// file and written in input order.
func runGolden(comp *compiler.Compiler, files []string, jobs int, p *printer, w io.Writer) goldenSummary {
	if jobs < 1 {
		jobs = 1
	}
	results := make([]goldenResult, len(files))
	done := make([]chan struct{}, len(files))
	for i := range done {
		done[i] = make(chan struct{})
	}

	work := make(chan int, len(files))
	for i := range files {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				results[i].status = checkGolden(comp, files[i], &results[i].buf)
				close(done[i])
			}
		}()
	}

	var sum goldenSummary
	for i := range results {
		<-done[i]
		r := &results[i]
		switch r.status {
		case statusPass:
			sum.passed++
			fmt.Fprintf(w, "%s %s\n", p.label(statusPass, colorOK), files[i])
		case statusFail:
			sum.failed++
			fmt.Fprintf(w, "%s %s\n", p.label(statusFail, colorFail), files[i])
		default:
			sum.skipped++
			fmt.Fprintf(w, "%s %s\n", statusSkip, files[i])
		}
		w.Write(r.buf.Bytes())
	}
	wg.Wait()

	if sum.failed > 0 {
		fmt.Fprintf(w, "\n%d files, %d passed, %s, %d skipped\n",
			len(files), sum.passed, p.label(fmt.Sprintf("%d failed", sum.failed), colorFail), sum.skipped)
	} else {
		fmt.Fprintf(w, "\n%d files, %s, %d failed, %d skipped\n",
			len(files), p.label(fmt.Sprintf("%d passed", sum.passed), colorOK), sum.failed, sum.skipped)
	}
	return sum
}

// checkGolden compiles file and compares the CSS with the expected file,
// writing any failure details to out.
func checkGolden(comp *compiler.Compiler, file string, out io.Writer) string {
	wantPath := compiler.OutputPath(file)
	want, err := os.ReadFile(wantPath)
	if errors.Is(err, fs.ErrNotExist) {
		return statusSkip
	}
	if err != nil {
		fmt.Fprintf(out, "    %v\n", err)
		return statusFail
	}

	result, err := comp.Compile(file)
	if err != nil {
		fmt.Fprintf(out, "    %v\n", err)
		return statusFail
	}
	if err := result.Diagnostics.Err(); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintf(out, "    %s\n", line)
		}
		return statusFail
	}
	if result.CSS == string(want) {
		return statusPass
	}

	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(want)),
		B:        difflib.SplitLines(result.CSS),
		FromFile: wantPath,
		ToFile:   file,
		Context:  2,
	})
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line != "" {
			fmt.Fprintf(out, "    %s", line)
		}
	}
	return statusFail
}
