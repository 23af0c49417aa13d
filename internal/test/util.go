package test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/kylelemons/godebug/diff"
	"github.com/yonasBSD/mako/internal/logger"
)

func AssertEqual(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		t.Fatalf("%s != %s", observed, expected)
	}
}

// AssertEqualWithDiff prints a line diff instead of both values when the
// values are multi-line strings, which is what printed code usually is.
func AssertEqualWithDiff(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		stringA := fmt.Sprintf("%v", observed)
		stringB := fmt.Sprintf("%v", expected)
		if strings.Contains(stringA, "\n") || strings.Contains(stringB, "\n") {
			t.Fatal("\n" + diff.Diff(stringB, stringA))
		} else {
			t.Fatalf("%q != %q", stringA, stringB)
		}
	}
}

func SourceForTest(contents string) logger.Source {
	return logger.Source{
		Index:      0,
		PrettyPath: "<stdin>",
		Contents:   contents,
	}
}

// MsgsToString renders messages without colors and without source excerpts
// so tests can compare them against short literal strings.
func MsgsToString(msgs []logger.Msg) string {
	text := ""
	for _, msg := range msgs {
		text += msg.String(logger.StderrOptions{}, logger.TerminalInfo{})
	}
	return text
}
