package provide

import "github.com/yonasBSD/mako/internal/js_ast"

// Rebind moves every occurrence of the given names that is still unresolved
// into one freshly allocated scope. Declaration sites are included, so a
// declaration and all of its free references end up sharing a binding as if
// the declaration had been written at the top of the module by hand. The new
// tag is returned.
func Rebind(tree *js_ast.AST, unresolved js_ast.ScopeTag, names []string) js_ast.ScopeTag {
	tag := tree.NewTag()

	nameSet := make(map[string]bool, len(names))
	for _, name := range names {
		nameSet[name] = true
	}

	js_ast.VisitIdents(tree.Stmts, func(id *js_ast.Ident, isDecl bool) {
		if id.Tag == unresolved && nameSet[id.Name] {
			id.Tag = tag
		}
	})

	return tag
}
