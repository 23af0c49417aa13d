// Package exitcode maps the errors returned by the command-line tool to
// process exit codes.
package exitcode

import (
	"errors"
	"flag"
	"fmt"
)

const (
	Success = 0

	// Some input could not be read, parsed, transformed, or written
	Failure = 1

	// The command line itself is wrong
	Usage = 2
)

// Coder is an interface to control what value Get returns.
type Coder interface {
	error
	ExitCode() int
}

// Get gets the exit code associated with an error. Cases:
//
//     nil => Success
//     errors implementing Coder => value returned by ExitCode
//     flag.ErrHelp => Usage
//     all other errors => Failure
func Get(err error) int {
	if err == nil {
		return Success
	}

	if coder := Coder(nil); errors.As(err, &coder) {
		return coder.ExitCode()
	}

	if errors.Is(err, flag.ErrHelp) {
		return Usage
	}

	return Failure
}

// Set wraps an error in a Coder, setting its error code.
func Set(err error, code int) error {
	if err == nil {
		return nil
	}
	return coder{err, code}
}

// The problems have already been printed, so only the exit code is left
var ErrReported = Set(errors.New("Errors were reported"), Failure)

// Usagef formats an error about the command line
func Usagef(format string, args ...interface{}) error {
	return Set(fmt.Errorf(format, args...), Usage)
}

var _ Coder = coder{}

type coder struct {
	error
	int
}

func (co coder) ExitCode() int {
	return co.int
}

func (co coder) Unwrap() error {
	return co.error
}
