//go:build go1.18

package js_lexer

import (
	"testing"

	"github.com/yonasBSD/mako/internal/logger"
	"github.com/yonasBSD/mako/internal/test"
)

func FuzzLexJS(f *testing.F) {
	f.Add([]byte(`var x = 1;`))
	f.Add([]byte(`/regex/gimsuy`))
	f.Add([]byte("const x = `hello ${world}`"))
	f.Add([]byte(`'A\u{42}\x43\n\t'`))
	f.Add([]byte(`0x1F + 0o17 + 0b1010`))
	f.Add([]byte(`123_456_789n`))
	f.Add([]byte(`#!/usr/bin/env node`))
	f.Add([]byte(`console.log({ process }); Buffer.from('foo')`))

	f.Fuzz(func(t *testing.T, data []byte) {
		// Syntax errors are reported by panicking with LexerPanic. Any other
		// panic is a bug in the lexer.
		defer func() {
			if r := recover(); r != nil {
				if _, isLexerPanic := r.(LexerPanic); !isLexerPanic {
					t.Fatalf("Unexpected panic: %v", r)
				}
			}
		}()

		log := logger.NewDeferLog()
		lexer := NewLexer(log, test.SourceForTest(string(data)))
		for lexer.Token != TEndOfFile && lexer.Token != TSyntaxError {
			lexer.Next()
		}
	})
}
