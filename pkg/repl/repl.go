// Package repl provides a read/transform/print loop.
//
// Each snippet is transformed with the configured providers and the
// generated code is printed. A line that is a complete program on its own is
// transformed right away. Otherwise the REPL reads lines until a blank line
// and transforms them together.
//
// When stdin is not a terminal all of stdin is read as one snippet instead.
package repl

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/yonasBSD/mako/internal/exitcode"
	"github.com/yonasBSD/mako/pkg/api"
)

func Run(options api.TransformOptions, stdin io.Reader, stdout io.Writer, stderr io.Writer) error {
	// Diagnostics are printed here, not streamed by the transformer
	options.LogLevel = api.LogLevelSilent
	transformer := api.NewTransformer(options)

	if f, ok := stdin.(*os.File); ok && f == os.Stdin && term.IsTerminal(int(f.Fd())) {
		return runInteractive(transformer, stdout, stderr)
	}
	return runBatch(transformer, stdin, stdout, stderr)
}

func runBatch(transformer *api.Transformer, stdin io.Reader, stdout io.Writer, stderr io.Writer) error {
	bytes, err := ioutil.ReadAll(stdin)
	if err != nil {
		return fmt.Errorf("Could not read from stdin: %s", err.Error())
	}
	if !printResult(transformer.Transform(string(bytes), ""), stdout, stderr) {
		return exitcode.ErrReported
	}
	return nil
}

func runInteractive(transformer *api.Transformer, stdout io.Writer, stderr io.Writer) error {
	rl, err := readline.New(">>> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		if err := rep(rl, transformer, stdout, stderr); err != nil {
			if err == readline.ErrInterrupt {
				fmt.Fprintln(stdout, err)
				continue
			}
			break
		}
	}
	fmt.Fprintln(stdout)
	return nil
}

// rep reads, transforms, and prints one snippet. It returns an error
// (possibly readline.ErrInterrupt) only if readline failed. Problems with the
// snippet itself are printed.
func rep(rl *readline.Instance, transformer *api.Transformer, stdout io.Writer, stderr io.Writer) error {
	rl.SetPrompt(">>> ")
	var lines []string

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF && len(lines) > 0 {
				break
			}
			return err
		}

		if strings.TrimSpace(line) == "" {
			if len(lines) == 0 {
				continue
			}
			break
		}
		lines = append(lines, line)
		rl.SetPrompt("... ")

		if len(lines) == 1 {
			if result := transformer.Transform(line+"\n", ""); !isIncomplete(result) {
				printResult(result, stdout, stderr)
				return nil
			}
		}
	}

	printResult(transformer.Transform(strings.Join(lines, "\n")+"\n", ""), stdout, stderr)
	return nil
}

// A snippet that stops in the middle of a construct needs more lines
func isIncomplete(result api.TransformResult) bool {
	for _, msg := range result.Errors {
		if strings.HasSuffix(msg.Text, "end of file") {
			return true
		}
	}
	return false
}

// Returns false if there were errors
func printResult(result api.TransformResult, stdout io.Writer, stderr io.Writer) bool {
	printMessages(stderr, "warning", result.Warnings)
	if len(result.Errors) > 0 {
		printMessages(stderr, "error", result.Errors)
		return false
	}
	stdout.Write(result.Code)
	return true
}

func printMessages(w io.Writer, kind string, msgs []api.Message) {
	for _, msg := range msgs {
		if loc := msg.Location; loc != nil {
			fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", loc.File, loc.Line, loc.Column, kind, msg.Text)
		} else {
			fmt.Fprintf(w, "%s: %s\n", kind, msg.Text)
		}
	}
}
