package provide

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yonasBSD/mako/internal/config"
	"github.com/yonasBSD/mako/internal/js_ast"
	"github.com/yonasBSD/mako/internal/js_printer"
	"github.com/yonasBSD/mako/internal/test"
)

func TestHoistTable(t *testing.T) {
	h := newHoistTable()
	stmt := func(name string) js_ast.Stmt {
		return js_ast.Stmt{Data: &js_ast.SExpr{Value: js_ast.Expr{Data: &js_ast.EString{Value: name}}}}
	}

	h.set("b", stmt("b1"))
	h.set("a", stmt("a1"))
	h.set("b", stmt("b2"))
	test.AssertEqual(t, h.len(), 2)
	if diff := cmp.Diff([]string{"b", "a"}, h.names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	stmts := h.prependTo([]js_ast.Stmt{stmt("rest")})
	js := js_printer.Print(js_ast.AST{Stmts: stmts}, js_printer.Options{}).JS
	test.AssertEqualWithDiff(t, string(js), "\"b2\";\n\"a1\";\n\"rest\";\n")
}

func TestSynthesizeDecl(t *testing.T) {
	printStmt := func(stmt js_ast.Stmt) string {
		return string(js_printer.Print(js_ast.AST{Stmts: []js_ast.Stmt{stmt}}, js_printer.Options{}).JS)
	}

	whole := synthesizeDecl("process", config.Provider{Module: "process"}, "require", 1)
	member := synthesizeDecl("Buffer", config.Provider{Module: "buffer", Member: "Buffer"}, "require", 1)
	test.AssertEqual(t, printStmt(whole), "const process = require(\"process\");\n")
	test.AssertEqual(t, printStmt(member), "const Buffer = require(\"buffer\").Buffer;\n")

	// Synthesizing twice gives structurally identical statements
	again := synthesizeDecl("Buffer", config.Provider{Module: "buffer", Member: "Buffer"}, "require", 1)
	if diff := cmp.Diff(member, again, cmp.AllowUnexported()); diff != "" {
		t.Fatalf("synthesis is not deterministic (-first +second):\n%s", diff)
	}
}
