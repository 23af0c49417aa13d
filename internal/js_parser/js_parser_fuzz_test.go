//go:build go1.18

package js_parser

import (
	"testing"

	"github.com/yonasBSD/mako/internal/js_ast"
	"github.com/yonasBSD/mako/internal/js_printer"
	"github.com/yonasBSD/mako/internal/logger"
	"github.com/yonasBSD/mako/internal/test"
)

func FuzzParseJS(f *testing.F) {
	f.Add([]byte(`var x = 1;`))
	f.Add([]byte(`export default function() {}`))
	f.Add([]byte(`import { foo } from 'bar'`))
	f.Add([]byte(`try { x } catch (e) { e }`))
	f.Add([]byte(`async function* gen() { yield await 1 }`))
	f.Add([]byte(`const x = a?.b ?? c`))
	f.Add([]byte(`console.log({ process }); Buffer.from('foo')`))

	f.Fuzz(func(t *testing.T, data []byte) {
		log := logger.NewDeferLog()
		tree, ok := Parse(log, test.SourceForTest(string(data)))
		if !ok {
			return
		}

		// Every identifier in a tree that parsed must have been resolved
		js_ast.VisitIdents(tree.Stmts, func(id *js_ast.Ident, isDecl bool) {
			if id.Tag == js_ast.InvalidTag {
				t.Fatalf("Identifier %q was never resolved", id.Name)
			}
		})
		js_printer.Print(tree, js_printer.Options{})
	})
}
