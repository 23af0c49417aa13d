package exitcode_test

import (
	"errors"
	"flag"
	"fmt"
	"testing"

	"github.com/yonasBSD/mako/internal/exitcode"
)

func TestGet(t *testing.T) {
	base := exitcode.Set(errors.New(""), 4)
	wrapped := fmt.Errorf("wrapping: %w", base)

	testCases := map[string]struct {
		error
		int
	}{
		"nil":      {nil, exitcode.Success},
		"default":  {errors.New(""), exitcode.Failure},
		"help":     {flag.ErrHelp, exitcode.Usage},
		"usage":    {exitcode.Usagef("Invalid flag: %q", "--x"), exitcode.Usage},
		"reported": {exitcode.ErrReported, exitcode.Failure},
		"set":      {exitcode.Set(errors.New(""), 3), 3},
		"wrapped":  {wrapped, 4},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			err := tc.error
			want := tc.int
			got := exitcode.Get(err)
			if got != want {
				t.Errorf("%v: %d != %d", err, got, want)
			}
		})
	}
}

func TestSet(t *testing.T) {
	t.Run("same-message", func(t *testing.T) {
		err := errors.New("hello")
		coder := exitcode.Set(err, exitcode.Usage)
		if got, want := err.Error(), coder.Error(); got != want {
			t.Errorf("error message %q != %q", got, want)
		}
	})
	t.Run("keep-chain", func(t *testing.T) {
		err := errors.New("hello")
		coder := exitcode.Set(err, exitcode.Failure)
		if !errors.Is(coder, err) {
			t.Errorf("broken chain: %v is not %v", coder, err)
		}
	})
	t.Run("nil", func(t *testing.T) {
		if exitcode.Set(nil, exitcode.Usage) != nil {
			t.Error("expected nil")
		}
	})
	t.Run("usagef", func(t *testing.T) {
		err := exitcode.Usagef("Invalid indent value: %q", "x")
		if got, want := err.Error(), "Invalid indent value: \"x\""; got != want {
			t.Errorf("error message %q != %q", got, want)
		}
	})
}
