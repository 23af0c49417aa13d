package helpers

import (
	"strings"
	"testing"

	"github.com/yonasBSD/mako/internal/test"
)

func expectQuoted(t *testing.T, text string, quoteChar byte, asciiOnly bool, expected string) {
	t.Helper()
	t.Run(text, func(t *testing.T) {
		t.Helper()
		test.AssertEqualWithDiff(t, string(QuoteWith(text, quoteChar, asciiOnly)), expected)
	})
}

func TestQuoteWith(t *testing.T) {
	expectQuoted(t, "process", '"', false, `"process"`)
	expectQuoted(t, "it's", '\'', false, `'it\'s'`)
	expectQuoted(t, "it's", '"', false, `"it's"`)
	expectQuoted(t, "a\"b", '"', false, `"a\"b"`)
	expectQuoted(t, "a\\b", '"', false, `"a\\b"`)
	expectQuoted(t, "\b\f\n\r\t\v", '"', false, `"\b\f\n\r\t\v"`)
	expectQuoted(t, "\x00\x1F", '"', false, `"\x00\x1F"`)
	expectQuoted(t, "${x}", '`', false, "`${x}`")

	expectQuoted(t, "caf\u00e9", '"', false, "\"caf\u00e9\"")
	expectQuoted(t, "caf\u00e9", '"', true, `"caf\xE9"`)
	expectQuoted(t, "\u4f60", '"', true, `"\u4F60"`)
	expectQuoted(t, "\U0001F600", '"', true, `"\uD83D\uDE00"`)
	expectQuoted(t, "\xFF", '"', true, `"\uFFFD"`)

	// These are escaped even without "asciiOnly"
	expectQuoted(t, "\u2028\uFEFF", '"', false, `"\u2028\uFEFF"`)
	expectQuoted(t, string(AppendWTF8Rune(nil, 0xD800)), '"', false, `"\uD800"`)
}

func TestWTF8(t *testing.T) {
	// Lone surrogates survive a round trip
	buf := AppendWTF8Rune(nil, 0xD800)
	c, width := DecodeWTF8Rune(string(buf))
	test.AssertEqual(t, c, rune(0xD800))
	test.AssertEqual(t, width, 3)

	buf = AppendWTF8Rune(nil, 'a')
	c, width = DecodeWTF8Rune(string(buf))
	test.AssertEqual(t, c, 'a')
	test.AssertEqual(t, width, 1)

	c, width = DecodeWTF8Rune("\xFF")
	test.AssertEqual(t, c, rune(0xFFFD))
	test.AssertEqual(t, width, 1)
}

func TestPrettyPrintedStack(t *testing.T) {
	stack := PrettyPrintedStack()
	first := strings.SplitN(stack, "\n", 2)[0]
	if !strings.HasPrefix(first, "helpers.TestPrettyPrintedStack (helpers/quote_test.go:") {
		t.Fatalf("Unexpected first line: %q", first)
	}
}
