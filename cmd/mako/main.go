package main

import (
	"fmt"
	"os"
	"runtime/pprof"
	"runtime/trace"
	"strings"

	"github.com/yonasBSD/mako/internal/logger"
	"github.com/yonasBSD/mako/pkg/cli"
)

const helpText = `
Usage:
  mako [options] [files]

With no files, mako reads from stdin and writes to stdout.

Options:
  --provide:K=V         Inject "const K = require(V)" when the free name K
                        is used. V is "module" or "module,member"
  --platform=...        Platform target (browser, node, or neutral,
                        default browser). Browser adds the node polyfills
  --require-name=...    The function used to load modules (default require)
  --config=...          Read providers and options from a JSON config file
  --outdir=...          The output directory (for multiple files)
  --watch               Transform the files again when they change
  --repl                Start an interactive session
  --color=...           Force use of color terminal escapes (true or false)

  --minify-whitespace   Remove whitespace
  --ascii-only          Escape all non-ASCII characters
  --indent=...          Number of spaces per indent level (default 2)

Advanced options:
  --version             Print the current version and exit (` + makoVersion + `)
  --sourcefile=...      Set the file name used in messages (for stdin)
  --error-limit=...     Maximum error count or 0 to disable (default 10)
  --log-level=...       Disable logging (info, warning, error, silent)

Examples:
  # Polyfill node globals for the browser
  mako app.js > out.js

  # Use a custom provider for the free name $
  mako --provide:$=jquery < input.js > output.js

  # Take "Foo" from the "foo" module's "Foo" export
  mako --provide:Foo=foo,Foo --outdir=dist a.js b.js
`

func main() {
	osArgs := os.Args[1:]
	traceFile := ""
	cpuprofileFile := ""

	// Do an initial scan over the argument list
	argsEnd := 0
	for _, arg := range osArgs {
		switch {
		// Show help if a common help flag is provided
		case arg == "-h", arg == "-help", arg == "--help", arg == "/?":
			fmt.Fprintf(os.Stderr, "%s\n", helpText)
			os.Exit(0)

		// Special-case the version flag here
		case arg == "--version":
			fmt.Fprintf(os.Stderr, "%s\n", makoVersion)
			os.Exit(0)

		case strings.HasPrefix(arg, "--trace="):
			traceFile = arg[len("--trace="):]

		case strings.HasPrefix(arg, "--cpuprofile="):
			cpuprofileFile = arg[len("--cpuprofile="):]

		default:
			// Strip any arguments that were handled above
			osArgs[argsEnd] = arg
			argsEnd++
		}
	}
	osArgs = osArgs[:argsEnd]

	// Print help text when there are no arguments and nothing is piped in
	if len(osArgs) == 0 && logger.GetTerminalInfo(os.Stdin).IsTTY {
		fmt.Fprintf(os.Stderr, "%s\n", helpText)
		os.Exit(0)
	}

	// Capture the defer statements below so the profiles are flushed first
	exitCode := 1
	func() {
		// To view a CPU trace, use "go tool trace [file]"
		if traceFile != "" {
			f, err := os.Create(traceFile)
			if err != nil {
				logger.PrintErrorToStderr(osArgs, fmt.Sprintf(
					"Failed to create trace file: %s", err.Error()))
				return
			}
			defer f.Close()
			trace.Start(f)
			defer trace.Stop()
		}

		// To view a CPU profile, use "go tool pprof [file]"
		if cpuprofileFile != "" {
			f, err := os.Create(cpuprofileFile)
			if err != nil {
				logger.PrintErrorToStderr(osArgs, fmt.Sprintf(
					"Failed to create cpuprofile file: %s", err.Error()))
				return
			}
			defer f.Close()
			pprof.StartCPUProfile(f)
			defer pprof.StopCPUProfile()
		}

		exitCode = cli.Run(osArgs)
	}()

	os.Exit(exitCode)
}
