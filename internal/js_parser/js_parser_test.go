package js_parser

import (
	"testing"

	"github.com/yonasBSD/mako/internal/js_printer"
	"github.com/yonasBSD/mako/internal/logger"
	"github.com/yonasBSD/mako/internal/test"
)

func expectParseError(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		Parse(log, test.SourceForTest(contents))
		test.AssertEqualWithDiff(t, test.MsgsToString(log.Done()), expected)
	})
}

func expectPrinted(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		tree, ok := Parse(log, test.SourceForTest(contents))
		test.AssertEqualWithDiff(t, test.MsgsToString(log.Done()), "")
		if !ok {
			t.Fatal("Parse error")
		}
		js := js_printer.Print(tree, js_printer.Options{}).JS
		test.AssertEqualWithDiff(t, string(js), expected)
	})
}

func TestComments(t *testing.T) {
	expectParseError(t, "throw //\n x", "<stdin>: error: Unexpected newline after \"throw\"\n")
	expectParseError(t, "throw /**/\n x", "<stdin>: error: Unexpected newline after \"throw\"\n")

	expectPrinted(t, "x = /* comment */ 1", "x = 1;\n")
	expectPrinted(t, "x // comment\ny", "x;\ny;\n")
}

func TestStrictMode(t *testing.T) {
	expectParseError(t, "with (x) y", "<stdin>: error: With statements cannot be used in strict mode\n")
	expectParseError(t, "delete x", "<stdin>: error: Delete of a bare identifier cannot be used in strict mode\n")
	expectPrinted(t, "delete x.y", "delete x.y;\n")

	expectParseError(t, "let eval", "<stdin>: error: Cannot declare \"eval\" in strict mode\n")
	expectParseError(t, "var arguments", "<stdin>: error: Cannot declare \"arguments\" in strict mode\n")
	expectParseError(t, "function f(eval) {}", "<stdin>: error: Cannot declare \"eval\" in strict mode\n")
	expectParseError(t, "let implements", "<stdin>: error: Cannot use \"implements\" as an identifier in strict mode\n")
	expectParseError(t, "implements", "<stdin>: error: Cannot use \"implements\" as an identifier in strict mode\n")
}

func TestDeclarations(t *testing.T) {
	expectPrinted(t, "var x", "var x;\n")
	expectPrinted(t, "let x = 1, y", "let x = 1, y;\n")
	expectPrinted(t, "const x = 1", "const x = 1;\n")
	expectPrinted(t, "let [a, , b] = c", "let [a, , b] = c;\n")
	expectPrinted(t, "let {a, b: [c] = d, ...e} = f", "let { a, b: [c] = d, ...e } = f;\n")

	expectParseError(t, "const x", "<stdin>: error: The constant \"x\" must be initialized\n")
	expectParseError(t, "let [x]", "<stdin>: error: This destructuring pattern must be initialized\n")
}

func TestRedeclaration(t *testing.T) {
	expectPrinted(t, "var x; var x", "var x;\nvar x;\n")
	expectPrinted(t, "function f() {} function f() {}", "function f() {\n}\nfunction f() {\n}\n")
	expectPrinted(t, "var f; function f() {}", "var f;\nfunction f() {\n}\n")
	expectPrinted(t, "function f(a) { var a }", "function f(a) {\n  var a;\n}\n")
	expectPrinted(t, "try {} catch (e) { var e }", "try {\n} catch (e) {\n  var e;\n}\n")
	expectPrinted(t, "let x; { let x }", "let x;\n{\n  let x;\n}\n")

	expectParseError(t, "let x; let x", "<stdin>: error: The symbol \"x\" has already been declared\n")
	expectParseError(t, "let x; var x", "<stdin>: error: The symbol \"x\" has already been declared\n")
	expectParseError(t, "var x; let x", "<stdin>: error: The symbol \"x\" has already been declared\n")
	expectParseError(t, "let x; function x() {}", "<stdin>: error: The symbol \"x\" has already been declared\n")
	expectParseError(t, "class x {} let x", "<stdin>: error: The symbol \"x\" has already been declared\n")
	expectParseError(t, "import x from 'y'; let x", "<stdin>: error: The symbol \"x\" has already been declared\n")
	expectParseError(t, "{ let x; var x }", "<stdin>: error: The symbol \"x\" has already been declared\n")
	expectParseError(t, "function f(a) { let a }", "<stdin>: error: The symbol \"a\" has already been declared\n")
	expectParseError(t, "try {} catch (e) { let e }", "<stdin>: error: The symbol \"e\" has already been declared\n")
}

func TestJumps(t *testing.T) {
	expectPrinted(t, "for (;;) break", "for (; ; )\n  break;\n")
	expectPrinted(t, "for (;;) continue", "for (; ; )\n  continue;\n")
	expectPrinted(t, "x: for (;;) continue x", "x:\n  for (; ; )\n    continue x;\n")
	expectPrinted(t, "x: { break x }", "x: {\n  break x;\n}\n")
	expectPrinted(t, "switch (a) { case 1: break }", "switch (a) {\n  case 1:\n    break;\n}\n")

	expectParseError(t, "break", "<stdin>: error: Cannot use \"break\" here\n")
	expectParseError(t, "continue", "<stdin>: error: Cannot use \"continue\" here\n")
	expectParseError(t, "switch (a) { case 1: continue }", "<stdin>: error: Cannot use \"continue\" here\n")
	expectParseError(t, "for (;;) break x", "<stdin>: error: There is no containing label named \"x\"\n")
	expectParseError(t, "x: { continue x }", "<stdin>: error: Cannot continue to label \"x\"\n")
	expectParseError(t, "x: x: ;", "<stdin>: error: Duplicate label \"x\"\n")
	expectParseError(t, "return", "<stdin>: error: A return statement cannot be used here\n")
	expectParseError(t, "switch (a) { default: default: }", "<stdin>: error: Multiple default clauses are not allowed\n")
}

func TestFor(t *testing.T) {
	expectPrinted(t, "for (x in y) ;", "for (x in y)\n  ;\n")
	expectPrinted(t, "for (var x in y) ;", "for (var x in y)\n  ;\n")
	expectPrinted(t, "for (let x of y) ;", "for (let x of y)\n  ;\n")
	expectPrinted(t, "for ([x] of y) ;", "for ([x] of y)\n  ;\n")
	expectPrinted(t, "async function f() { for await (x of y) ; }", "async function f() {\n  for await (x of y)\n    ;\n}\n")

	expectParseError(t, "for (let x = 1 of y) ;", "<stdin>: error: for-of loop variables cannot have an initializer\n")
	expectParseError(t, "for (let x, y in z) ;", "<stdin>: error: for-in loops must have a single declaration\n")
	expectParseError(t, "for (1 in y) ;", "<stdin>: error: Invalid assignment target\n")
	expectParseError(t, "for await (x of y) ;", "<stdin>: error: Cannot use \"await\" outside an async function\n")
}

func TestAssignTarget(t *testing.T) {
	expectPrinted(t, "x = 1", "x = 1;\n")
	expectPrinted(t, "x.y = 1", "x.y = 1;\n")
	expectPrinted(t, "x[y] = 1", "x[y] = 1;\n")
	expectPrinted(t, "[x, y] = z", "[x, y] = z;\n")
	expectPrinted(t, "({x, y} = z)", "({ x, y } = z);\n")
	expectPrinted(t, "x += 1", "x += 1;\n")
	expectPrinted(t, "x ??= 1", "x ??= 1;\n")

	expectParseError(t, "1 = 2", "<stdin>: error: Invalid assignment target\n")
	expectParseError(t, "x() = 1", "<stdin>: error: Invalid assignment target\n")
	expectParseError(t, "[1] += 2", "<stdin>: error: Invalid assignment target\n")
	expectParseError(t, "++x()", "<stdin>: error: Invalid assignment target\n")
	expectParseError(t, "({a = 1})", "<stdin>: error: Unexpected \"=\"\n")
	expectParseError(t, "[{a = 1}]", "<stdin>: error: Unexpected \"=\"\n")
}

func TestArrow(t *testing.T) {
	expectPrinted(t, "x => x", "(x) => x;\n")
	expectPrinted(t, "(x, y) => x", "(x, y) => x;\n")
	expectPrinted(t, "(x = 1, ...y) => {}", "(x = 1, ...y) => {\n};\n")
	expectPrinted(t, "([x], {y}) => x", "([x], { y }) => x;\n")
	expectPrinted(t, "async () => {}", "async () => {\n};\n")
	expectPrinted(t, "async x => x", "async (x) => x;\n")
	expectPrinted(t, "async(x)", "async(x);\n")
	expectPrinted(t, "async", "async;\n")
	expectPrinted(t, "x => {}, y", "(x) => {\n}, y;\n")

	expectParseError(t, "(1) => {}", "<stdin>: error: Invalid binding pattern\n")
	expectParseError(t, "(...x, y) => {}", "<stdin>: error: Unexpected \",\" after rest pattern\n")
	expectParseError(t, "x\n=> {}", "<stdin>: error: Unexpected newline before \"=>\"\n")
	expectParseError(t, "(...x)", "<stdin>: error: Unexpected \"...\"\n")
	expectParseError(t, "()", "<stdin>: error: Expected \"=>\" but found end of file\n")
}

func TestAwaitAndYield(t *testing.T) {
	expectPrinted(t, "async function f() { await x }", "async function f() {\n  await x;\n}\n")
	expectPrinted(t, "function* f() { yield x }", "function* f() {\n  yield x;\n}\n")
	expectPrinted(t, "function* f() { x = yield }", "function* f() {\n  x = yield;\n}\n")

	expectParseError(t, "await x", "<stdin>: error: Cannot use \"await\" outside an async function\n")
	expectParseError(t, "function* f() { x + yield }", "<stdin>: error: Cannot use a \"yield\" expression here without parentheses\n")
}

func TestClass(t *testing.T) {
	expectPrinted(t, "class A { constructor() {} }", "class A {\n  constructor() {\n  }\n}\n")
	expectPrinted(t, "class A extends B { foo() { super.foo() } }", "class A extends B {\n  foo() {\n    super.foo();\n  }\n}\n")
	expectPrinted(t, "class A { static x = 1; static y() {} }", "class A {\n  static x = 1;\n  static y() {\n  }\n}\n")
	expectPrinted(t, "class A { get x() {} set x(v) {} }", "class A {\n  get x() {\n  }\n  set x(v) {\n  }\n}\n")
	expectPrinted(t, "class A { async *x() {} }", "class A {\n  async *x() {\n  }\n}\n")
	expectPrinted(t, "class A { 'x'() {} }", "class A {\n  'x'() {\n  }\n}\n")
	expectPrinted(t, "class A { [x] = 1 }", "class A {\n  [x] = 1;\n}\n")

	expectParseError(t, "class A { get x(y) {} }", "<stdin>: error: Getter \"x\" must have zero arguments\n")
	expectParseError(t, "class A { set x() {} }", "<stdin>: error: Setter \"x\" must have exactly one argument\n")
	expectParseError(t, "super()", "<stdin>: error: Unexpected \"super\"\n")
}

func TestSuper(t *testing.T) {
	expectPrinted(t, "class A extends B { constructor() { super() } }", "class A extends B {\n  constructor() {\n    super();\n  }\n}\n")
	expectPrinted(t, "class A extends B { foo() { return () => super.foo() } }", "class A extends B {\n  foo() {\n    return () => super.foo();\n  }\n}\n")
	expectPrinted(t, "x = { foo() { super.foo() } }", "x = { foo() {\n  super.foo();\n} };\n")

	expectParseError(t, "super.x", "<stdin>: error: Unexpected \"super\"\n")
	expectParseError(t, "class A { constructor() { super() } }", "<stdin>: error: Unexpected \"super\"\n")
	expectParseError(t, "class A extends B { foo() { super() } }", "<stdin>: error: Unexpected \"super\"\n")
	expectParseError(t, "class A extends B { foo() { function f() { super.x } } }", "<stdin>: error: Unexpected \"super\"\n")
	expectParseError(t, "class A extends B { static constructor() { super() } }", "<stdin>: error: Unexpected \"super\"\n")
}

func TestObject(t *testing.T) {
	expectPrinted(t, "x = {a, b: c, [d]: e, ...f}", "x = { a, b: c, [d]: e, ...f };\n")
	expectPrinted(t, "x = {get a() {}, set a(v) {}}", "x = { get a() {\n}, set a(v) {\n} };\n")
	expectPrinted(t, "x = {async a() {}, *b() {}}", "x = { async a() {\n}, *b() {\n} };\n")
	expectPrinted(t, "x = {get: 1, set: 2, async: 3}", "x = { get: 1, set: 2, async: 3 };\n")
	expectPrinted(t, "x = {if: 1, 'a-b': 2, 3: 4}", "x = { if: 1, 'a-b': 2, 3: 4 };\n")

	expectParseError(t, "x = {if}", "<stdin>: error: Expected \":\" but found \"}\"\n")
}

func TestOptionalChain(t *testing.T) {
	expectPrinted(t, "a?.b", "a?.b;\n")
	expectPrinted(t, "a?.[b]", "a?.[b];\n")
	expectPrinted(t, "a?.(b)", "a?.(b);\n")
	expectPrinted(t, "a?.b.c(d)", "a?.b.c(d);\n")
	expectPrinted(t, "(a?.b).c", "(a?.b).c;\n")

	expectParseError(t, "a?.b`c`", "<stdin>: error: Template literals cannot have an optional chain as a tag\n")
}

func TestPrivateIdentifier(t *testing.T) {
	expectPrinted(t, "class A { #x; y() { return #x in this } }", "class A {\n  #x;\n  y() {\n    return #x in this;\n  }\n}\n")
	expectParseError(t, "class A { #x; y() { #x } }", "<stdin>: error: Unexpected \"#x\"\n")
}

func TestImportExport(t *testing.T) {
	expectPrinted(t, "import x from 'y'", "import x from 'y';\n")
	expectPrinted(t, "import {x as y, z} from 'w'", "import { x as y, z } from 'w';\n")
	expectPrinted(t, "import * as ns from 'x'", "import * as ns from 'x';\n")
	expectPrinted(t, "import.meta.url", "import.meta.url;\n")
	expectPrinted(t, "import('x')", "import('x');\n")
	expectPrinted(t, "export * from 'x'", "export * from 'x';\n")
	expectPrinted(t, "export {default} from 'x'", "export { default } from 'x';\n")
	expectPrinted(t, "export default x", "export default x;\n")
	expectPrinted(t, "export async function f() {}", "export async function f() {\n}\n")

	expectParseError(t, "{ import x from 'y' }", "<stdin>: error: Unexpected \"import\"\n")
	expectParseError(t, "export {default}", "<stdin>: error: Expected identifier but found \"default\"\n")
}

func TestTemplate(t *testing.T) {
	expectPrinted(t, "`a${b}c`", "`a${b}c`;\n")
	expectPrinted(t, "tag`a${b}c`", "tag`a${b}c`;\n")
	expectPrinted(t, "a.b`c`", "a.b`c`;\n")
	expectPrinted(t, "`${`${a}`}`", "`${`${a}`}`;\n")
}

func TestRegExp(t *testing.T) {
	expectPrinted(t, "x = /a/g", "x = /a/g;\n")
	expectPrinted(t, "x = /[/]/", "x = /[/]/;\n")
	expectPrinted(t, "x = a / b / c", "x = a / b / c;\n")
}

func TestEscapedKeyword(t *testing.T) {
	expectParseError(t, "\\u0076ar x", "<stdin>: error: Keywords cannot contain escape characters\n")
}
