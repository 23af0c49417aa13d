package provide

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yonasBSD/mako/internal/config"
	"github.com/yonasBSD/mako/internal/js_ast"
	"github.com/yonasBSD/mako/internal/js_parser"
	"github.com/yonasBSD/mako/internal/js_printer"
	"github.com/yonasBSD/mako/internal/logger"
	"github.com/yonasBSD/mako/internal/test"
)

var polyfills = config.NewProviderTable(config.NodePolyfillProviders())

func parseForTest(t *testing.T, contents string) js_ast.AST {
	t.Helper()
	log := logger.NewDeferLog()
	tree, ok := js_parser.Parse(log, test.SourceForTest(contents))
	test.AssertEqualWithDiff(t, test.MsgsToString(log.Done()), "")
	if !ok {
		t.Fatal("Parse error")
	}
	return tree
}

func printForTest(tree js_ast.AST) string {
	return string(js_printer.Print(tree, js_printer.Options{Indent: 4}).JS)
}

func expectInjectedCommon(t *testing.T, contents string, table *config.ProviderTable, options Options, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		tree := parseForTest(t, contents)
		Inject(&tree, table, tree.UnresolvedTag, options)
		test.AssertEqualWithDiff(t, printForTest(tree), expected)
	})
}

func expectInjected(t *testing.T, contents string, expected string) {
	t.Helper()
	expectInjectedCommon(t, contents, polyfills, Options{}, expected)
}

// Collects the tag of every occurrence of "name"
func tagsOf(tree js_ast.AST, name string) []js_ast.ScopeTag {
	var tags []js_ast.ScopeTag
	js_ast.VisitIdents(tree.Stmts, func(id *js_ast.Ident, isDecl bool) {
		if id.Name == name {
			tags = append(tags, id.Tag)
		}
	})
	return tags
}

const scenarioA = `console.log(process);
console.log(process.env);
Buffer.from('foo');
function foo() {
    let process = 1;
    console.log(process);
    let Buffer = 'b';
    Buffer.from('foo');
}
`

func TestInjectPolyfills(t *testing.T) {
	expectInjected(t, scenarioA,
		`const process = require("process");
const Buffer = require("buffer").Buffer;
`+scenarioA)
}

func TestInjectShorthandProperty(t *testing.T) {
	expectInjected(t, "console.log({process});",
		`const process = require("process");
console.log({ process });
`)
	expectInjected(t, "x = {process, Buffer: 1}",
		`const process = require("process");
x = { process, Buffer: 1 };
`)
}

func TestInjectNothing(t *testing.T) {
	expectInjected(t, "console.log(x)", "console.log(x);\n")
	expectInjected(t, "let process = 1; process", "let process = 1;\nprocess;\n")
	expectInjected(t, "function process() {} process()", "function process() {\n}\nprocess();\n")
	expectInjected(t, "x.process; x.Buffer()", "x.process;\nx.Buffer();\n")
	expectInjected(t, "x = {process: 1}", "x = { process: 1 };\n")

	tree := parseForTest(t, "process")
	result := Inject(&tree, nil, tree.UnresolvedTag, Options{})
	test.AssertEqual(t, len(result.Injected), 0)
	test.AssertEqual(t, result.TopLevelTag, js_ast.InvalidTag)
	test.AssertEqual(t, printForTest(tree), "process;\n")
}

func TestInjectNoShadow(t *testing.T) {
	expectInjected(t, "process; (process) => process",
		`const process = require("process");
process;
(process) => process;
`)
	expectInjected(t, "process; { let process; process }",
		`const process = require("process");
process;
{
    let process;
    process;
}
`)
	expectInjected(t, "try {} catch (process) { process }",
		"try {\n} catch (process) {\n    process;\n}\n")

	tree := parseForTest(t, scenarioA)
	body := tree.ModuleScope.Children[0].Children[0]
	result := Inject(&tree, polyfills, tree.UnresolvedTag, Options{})
	expected := []js_ast.ScopeTag{
		result.TopLevelTag, // const process = ...
		result.TopLevelTag, // console.log(process)
		result.TopLevelTag, // console.log(process.env)
		body.Tag,           // let process = 1
		body.Tag,           // console.log(process)
	}
	if diff := cmp.Diff(expected, tagsOf(tree, "process")); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestInjectAtMostOneDeclaration(t *testing.T) {
	expectInjected(t, "process; process.env; f(process); if (x) process()",
		`const process = require("process");
process;
process.env;
f(process);
if (x)
    process();
`)
}

func TestInjectHoistOrder(t *testing.T) {
	table := config.NewProviderTable(map[string]config.Provider{
		"a": {Module: "mod-a"},
		"b": {Module: "mod-b", Member: "b"},
		"c": {Module: "mod-c"},
	})
	expectInjectedCommon(t, "f(c); function g() { return b + c + a }", table, Options{},
		`const c = require("mod-c");
const b = require("mod-b").b;
const a = require("mod-a");
f(c);
function g() {
    return b + c + a;
}
`)

	tree := parseForTest(t, "b; a; b")
	result := Inject(&tree, table, tree.UnresolvedTag, Options{})
	if diff := cmp.Diff([]string{"b", "a"}, result.Injected); diff != "" {
		t.Fatalf("injected mismatch (-want +got):\n%s", diff)
	}
}

func TestInjectRequireName(t *testing.T) {
	expectInjectedCommon(t, "Buffer.alloc(1)", polyfills, Options{RequireName: "__mako_require__"},
		`const Buffer = __mako_require__("buffer").Buffer;
Buffer.alloc(1);
`)
}

func TestInjectSharedBinding(t *testing.T) {
	tree := parseForTest(t, "process; export {process}; x = {process}")
	top, unresolved := tree.TopLevelTag, tree.UnresolvedTag
	result := Inject(&tree, polyfills, unresolved, Options{})

	tag := result.TopLevelTag
	if tag == js_ast.InvalidTag || tag == top || tag == unresolved {
		t.Fatalf("bad injected tag %d (top=%d unresolved=%d)", tag, top, unresolved)
	}
	if diff := cmp.Diff([]js_ast.ScopeTag{tag, tag, tag, tag}, tagsOf(tree, "process")); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
	test.AssertEqual(t, tree.ModuleScope.Members["process"], js_ast.ScopeMember{Kind: js_ast.SymbolOther, Tag: tag})

	// The module loader itself stays free
	if diff := cmp.Diff([]js_ast.ScopeTag{unresolved}, tagsOf(tree, "require")); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestInjectIdempotent(t *testing.T) {
	tree := parseForTest(t, scenarioA+"x = {process};\n")
	first := Inject(&tree, polyfills, tree.UnresolvedTag, Options{})
	once := printForTest(tree)

	second := Inject(&tree, polyfills, tree.UnresolvedTag, Options{})
	test.AssertEqualWithDiff(t, printForTest(tree), once)
	test.AssertEqual(t, len(first.Injected), 2)
	test.AssertEqual(t, len(second.Injected), 0)
	test.AssertEqual(t, second.TopLevelTag, js_ast.InvalidTag)
}

func TestInjectUnresolvedTree(t *testing.T) {
	expectPanic := func(name string, fn func()) {
		t.Helper()
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected a panic")
				}
			}()
			fn()
		})
	}

	expectPanic("InvalidTag", func() {
		tree := js_ast.AST{Stmts: []js_ast.Stmt{{Data: &js_ast.SExpr{
			Value: js_ast.Expr{Data: &js_ast.EIdentifier{Ident: js_ast.Ident{Name: "process"}}},
		}}}}
		Inject(&tree, polyfills, 1, Options{})
	})

	expectPanic("InvalidUnresolvedTag", func() {
		tree := js_ast.AST{}
		Inject(&tree, polyfills, js_ast.InvalidTag, Options{})
	})
}

func TestRebind(t *testing.T) {
	tree := parseForTest(t, "x; y; function f(x) { return x + y }; x")
	args := tree.ModuleScope.Children[0]
	unresolved := tree.UnresolvedTag

	tag := Rebind(&tree, unresolved, []string{"x"})
	if tag == js_ast.InvalidTag || tag == unresolved || tag == tree.TopLevelTag || tag == args.Tag {
		t.Fatalf("rebind reused tag %d", tag)
	}
	if diff := cmp.Diff([]js_ast.ScopeTag{tag, args.Tag, args.Tag, tag}, tagsOf(tree, "x")); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]js_ast.ScopeTag{unresolved, unresolved}, tagsOf(tree, "y")); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}

	// Each call allocates a new tag
	if other := Rebind(&tree, unresolved, []string{"y"}); other == tag {
		t.Fatalf("rebind reused tag %d", other)
	}
}

func TestRebindHandBuiltTree(t *testing.T) {
	const unresolved js_ast.ScopeTag = 7
	tree := js_ast.AST{Stmts: []js_ast.Stmt{{Data: &js_ast.SExpr{
		Value: js_ast.Expr{Data: &js_ast.EIdentifier{Ident: js_ast.Ident{Name: "a", Tag: unresolved}}},
	}}}}
	tree.ReserveTag(unresolved)

	tag := Rebind(&tree, unresolved, []string{"a"})
	test.AssertEqual(t, tag, js_ast.ScopeTag(8))
	test.AssertEqual(t, tagsOf(tree, "a")[0], tag)
}
