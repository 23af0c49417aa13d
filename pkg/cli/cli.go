// This API exposes the command-line interface for mako. It can be used to
// run mako from Go without the overhead of creating a child process.
package cli

import (
	"errors"
	"os"

	"github.com/yonasBSD/mako/internal/exitcode"
	"github.com/yonasBSD/mako/internal/logger"
)

// This function invokes the mako CLI. It takes an array of command-line
// arguments (excluding the executable argument itself) and returns an exit
// code. With no input files it transforms stdin to stdout.
//
// Example usage:
//
//   package main
//
//   import (
//       "os"
//
//       "github.com/yonasBSD/mako/pkg/cli"
//   )
//
//   func main() {
//       os.Exit(cli.Run(os.Args[1:]))
//   }
//
func Run(osArgs []string) int {
	err := runImpl(osArgs, os.Stdin, os.Stdout, os.Stderr)
	if err != nil && !errors.Is(err, exitcode.ErrReported) {
		logger.PrintErrorToStderr(osArgs, err.Error())
	}
	return exitcode.Get(err)
}
