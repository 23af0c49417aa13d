package js_parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yonasBSD/mako/internal/js_ast"
	"github.com/yonasBSD/mako/internal/logger"
	"github.com/yonasBSD/mako/internal/test"
)

type identTag struct {
	Name   string
	Tag    js_ast.ScopeTag
	IsDecl bool
}

func bindForTest(t *testing.T, contents string) js_ast.AST {
	t.Helper()
	log := logger.NewDeferLog()
	tree, ok := Parse(log, test.SourceForTest(contents))
	test.AssertEqualWithDiff(t, test.MsgsToString(log.Done()), "")
	if !ok {
		t.Fatal("Parse error")
	}
	return tree
}

func identTags(tree js_ast.AST) []identTag {
	var result []identTag
	js_ast.VisitIdents(tree.Stmts, func(id *js_ast.Ident, isDecl bool) {
		result = append(result, identTag{Name: id.Name, Tag: id.Tag, IsDecl: isDecl})
	})
	return result
}

func expectTags(t *testing.T, tree js_ast.AST, expected []identTag) {
	t.Helper()
	if diff := cmp.Diff(expected, identTags(tree)); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
}

func scopeKinds(scope *js_ast.Scope) []js_ast.ScopeKind {
	kinds := []js_ast.ScopeKind{scope.Kind}
	for _, child := range scope.Children {
		kinds = append(kinds, scopeKinds(child)...)
	}
	return kinds
}

func TestBindTopLevel(t *testing.T) {
	tree := bindForTest(t, "let x = y; x")
	top, unresolved := tree.TopLevelTag, tree.UnresolvedTag
	if top == js_ast.InvalidTag || unresolved == js_ast.InvalidTag || top == unresolved {
		t.Fatalf("bad reserved tags: top=%d unresolved=%d", top, unresolved)
	}
	test.AssertEqual(t, tree.ModuleScope.Tag, top)
	test.AssertEqual(t, tree.ModuleScope.Kind, js_ast.ScopeEntry)
	expectTags(t, tree, []identTag{
		{"x", top, true},
		{"y", unresolved, false},
		{"x", top, false},
	})
}

func TestBindUseBeforeDeclaration(t *testing.T) {
	tree := bindForTest(t, "f(); g; function f() {} var g")
	top := tree.TopLevelTag
	expectTags(t, tree, []identTag{
		{"f", top, false},
		{"g", top, false},
		{"f", top, true},
		{"g", top, true},
	})
}

func TestBindFunction(t *testing.T) {
	tree := bindForTest(t, "function f(a) { var b; return a + b + c + arguments }")
	args := tree.ModuleScope.Children[0]
	body := args.Children[0]
	test.AssertEqual(t, args.Kind, js_ast.ScopeFunctionArgs)
	test.AssertEqual(t, body.Kind, js_ast.ScopeFunctionBody)
	expectTags(t, tree, []identTag{
		{"f", tree.TopLevelTag, true},
		{"a", args.Tag, true},
		{"b", body.Tag, true},
		{"a", args.Tag, false},
		{"b", body.Tag, false},
		{"c", tree.UnresolvedTag, false},
		{"arguments", args.Tag, false},
	})
}

func TestBindVarRedeclaresParameter(t *testing.T) {
	tree := bindForTest(t, "function f(a) { var a; a }")
	args := tree.ModuleScope.Children[0]
	expectTags(t, tree, []identTag{
		{"f", tree.TopLevelTag, true},
		{"a", args.Tag, true},
		{"a", args.Tag, true},
		{"a", args.Tag, false},
	})
}

func TestBindArrowHasNoArguments(t *testing.T) {
	tree := bindForTest(t, "x => arguments")
	args := tree.ModuleScope.Children[0]
	expectTags(t, tree, []identTag{
		{"x", args.Tag, true},
		{"arguments", tree.UnresolvedTag, false},
	})
}

func TestBindBlockShadowing(t *testing.T) {
	tree := bindForTest(t, "let x; { let x; x } x")
	block := tree.ModuleScope.Children[0]
	test.AssertEqual(t, block.Kind, js_ast.ScopeBlock)
	if block.Tag == tree.TopLevelTag {
		t.Fatal("block scope reused the top-level tag")
	}
	expectTags(t, tree, []identTag{
		{"x", tree.TopLevelTag, true},
		{"x", block.Tag, true},
		{"x", block.Tag, false},
		{"x", tree.TopLevelTag, false},
	})
}

func TestBindBlockFunctionIsBlockScoped(t *testing.T) {
	tree := bindForTest(t, "{ function f() {} } f")
	block := tree.ModuleScope.Children[0]
	expectTags(t, tree, []identTag{
		{"f", block.Tag, true},
		{"f", tree.UnresolvedTag, false},
	})
}

func TestBindHoistedVarInBlock(t *testing.T) {
	tree := bindForTest(t, "{ var x } x")
	top := tree.TopLevelTag
	expectTags(t, tree, []identTag{
		{"x", top, true},
		{"x", top, false},
	})
	if _, ok := tree.ModuleScope.Members["x"]; !ok {
		t.Fatal("expected \"x\" to be hoisted into the module scope")
	}
}

func TestBindCatchParameter(t *testing.T) {
	tree := bindForTest(t, "try {} catch (e) { var e = 1; e } e")
	catch := tree.ModuleScope.Children[1]
	test.AssertEqual(t, catch.Kind, js_ast.ScopeCatchBinding)
	expectTags(t, tree, []identTag{
		{"e", catch.Tag, true},
		{"e", catch.Tag, true},
		{"e", catch.Tag, false},
		{"e", tree.TopLevelTag, false},
	})
}

func TestBindFunctionExpressionName(t *testing.T) {
	tree := bindForTest(t, "(function g() { g }); g")
	name := tree.ModuleScope.Children[0]
	test.AssertEqual(t, name.Kind, js_ast.ScopeFunctionName)
	expectTags(t, tree, []identTag{
		{"g", name.Tag, true},
		{"g", name.Tag, false},
		{"g", tree.UnresolvedTag, false},
	})
}

func TestBindClassExpressionName(t *testing.T) {
	tree := bindForTest(t, "x = class C { m() { return C } }")
	name := tree.ModuleScope.Children[0]
	test.AssertEqual(t, name.Kind, js_ast.ScopeClassName)
	expectTags(t, tree, []identTag{
		{"x", tree.UnresolvedTag, false},
		{"C", name.Tag, true},
		{"C", name.Tag, false},
	})
}

func TestBindImportAndExport(t *testing.T) {
	tree := bindForTest(t, "import a, {b as c} from 'x'; export {a, c as d}")
	top := tree.TopLevelTag
	expectTags(t, tree, []identTag{
		{"a", top, true},
		{"c", top, true},
		{"a", top, false},
		{"c", top, false},
	})
	test.AssertEqual(t, tree.ModuleScope.Members["c"].Kind, js_ast.SymbolImport)
}

func TestBindScopeTree(t *testing.T) {
	tree := bindForTest(t, "function f() { for (;;) {} } try {} catch {} finally {}")
	expected := []js_ast.ScopeKind{
		js_ast.ScopeEntry,
		js_ast.ScopeFunctionArgs,
		js_ast.ScopeFunctionBody,
		js_ast.ScopeBlock, // for
		js_ast.ScopeBlock, // for body
		js_ast.ScopeBlock, // try
		js_ast.ScopeCatchBinding,
		js_ast.ScopeBlock, // catch body
		js_ast.ScopeBlock, // finally
	}
	if diff := cmp.Diff(expected, scopeKinds(tree.ModuleScope)); diff != "" {
		t.Fatalf("scope tree mismatch (-want +got):\n%s", diff)
	}

	// Every scope gets its own tag
	seen := map[js_ast.ScopeTag]bool{tree.UnresolvedTag: true}
	var visit func(scope *js_ast.Scope)
	visit = func(scope *js_ast.Scope) {
		if scope.Tag == js_ast.InvalidTag || seen[scope.Tag] {
			t.Fatalf("duplicate or invalid tag %d for %s scope", scope.Tag, scope.Kind)
		}
		seen[scope.Tag] = true
		for _, child := range scope.Children {
			visit(child)
		}
	}
	visit(tree.ModuleScope)
}
