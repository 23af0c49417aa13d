// Package provide fills in free identifiers from a provider table. A free
// reference to "Buffer" with the provider ("buffer", "Buffer") causes this
// declaration to be inserted at the top of the module:
//
//   const Buffer = require("buffer").Buffer;
//
// References to "Buffer" that are bound by some declaration in the module,
// including shadowing declarations in nested scopes, are left alone.
package provide

import (
	"fmt"

	"github.com/yonasBSD/mako/internal/config"
	"github.com/yonasBSD/mako/internal/js_ast"
)

type Options struct {
	// The function called to load a module. Defaults to "require".
	RequireName string
}

type Result struct {
	// The injected names in the order they were hoisted
	Injected []string

	// The tag shared by the injected declarations and their references. This
	// is InvalidTag if nothing was injected.
	TopLevelTag js_ast.ScopeTag
}

// Inject mutates "tree" in place. The tree must already have been through the
// resolution pass: an identifier with InvalidTag is a bug in the caller and
// causes a panic.
func Inject(tree *js_ast.AST, table *config.ProviderTable, unresolved js_ast.ScopeTag, options Options) Result {
	if unresolved == js_ast.InvalidTag {
		panic("Internal error: the unresolved tag is invalid")
	}

	requireName := options.RequireName
	if requireName == "" {
		requireName = config.DefaultRequireName
	}

	hoisted := newHoistTable()
	js_ast.VisitIdents(tree.Stmts, func(id *js_ast.Ident, isDecl bool) {
		if id.Tag == js_ast.InvalidTag {
			panic(fmt.Sprintf("Internal error: identifier %q was never resolved", id.Name))
		}
		if isDecl || id.Tag != unresolved {
			return
		}
		if p, ok := table.Lookup(id.Name); ok {
			hoisted.set(id.Name, synthesizeDecl(id.Name, p, requireName, unresolved))
		}
	})

	if hoisted.len() == 0 {
		return Result{}
	}

	tree.Stmts = hoisted.prependTo(tree.Stmts)
	names := hoisted.names()
	tag := Rebind(tree, unresolved, names)

	if tree.ModuleScope != nil {
		if tree.ModuleScope.Members == nil {
			tree.ModuleScope.Members = make(map[string]js_ast.ScopeMember)
		}
		for _, name := range names {
			tree.ModuleScope.Members[name] = js_ast.ScopeMember{Kind: js_ast.SymbolOther, Tag: tag}
		}
	}

	return Result{Injected: names, TopLevelTag: tag}
}

// This only depends on its arguments, so synthesizing the same name twice
// always produces the same statement.
//
//   const name = require("module")
//   const name = require("module").member
//
func synthesizeDecl(name string, p config.Provider, requireName string, unresolved js_ast.ScopeTag) js_ast.Stmt {
	value := js_ast.Expr{Data: &js_ast.ECall{
		Target: js_ast.Expr{Data: &js_ast.EIdentifier{Ident: js_ast.Ident{Name: requireName, Tag: unresolved}}},
		Args:   []js_ast.Expr{{Data: &js_ast.EString{Value: p.Module}}},
	}}
	if p.Member != "" {
		value = js_ast.Expr{Data: &js_ast.EDot{Target: value, Name: p.Member}}
	}

	return js_ast.Stmt{Data: &js_ast.SLocal{
		Kind: js_ast.LocalConst,
		Decls: []js_ast.Decl{{
			Binding: js_ast.Binding{Data: &js_ast.BIdentifier{Ident: js_ast.Ident{Name: name, Tag: unresolved}}},
			Value:   &value,
		}},
	}}
}
