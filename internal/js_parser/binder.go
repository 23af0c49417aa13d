package js_parser

// The binder is the resolution pass. It builds the scope tree and gives every
// identifier occurrence in the tree a scope tag.
//
// It runs in two phases over the same traversal code. The first phase creates
// the scopes and declares every symbol. The second phase visits the scopes
// again in exactly the same order and resolves every identifier against the
// now-complete scope tree. A single phase would not be enough because a
// reference can come before its declaration, as in "f(); function f() {}".

import (
	"fmt"

	"github.com/yonasBSD/mako/internal/js_ast"
	"github.com/yonasBSD/mako/internal/js_lexer"
	"github.com/yonasBSD/mako/internal/logger"
)

type binder struct {
	log    logger.Log
	source logger.Source
	tree   *js_ast.AST

	current       *js_ast.Scope
	scopesInOrder []*js_ast.Scope
	nextScope     int
	isResolving   bool
}

func bind(log logger.Log, source logger.Source, tree *js_ast.AST) {
	tree.UnresolvedTag = tree.NewTag()
	tree.TopLevelTag = tree.NewTag()
	tree.ModuleScope = &js_ast.Scope{
		Kind:    js_ast.ScopeEntry,
		Tag:     tree.TopLevelTag,
		Members: make(map[string]js_ast.ScopeMember),
	}

	b := &binder{log: log, source: source, tree: tree}

	// Declare
	b.current = tree.ModuleScope
	b.stmts(tree.Stmts)

	// Resolve
	b.isResolving = true
	b.current = tree.ModuleScope
	b.stmts(tree.Stmts)

	if b.current != tree.ModuleScope || b.nextScope != len(b.scopesInOrder) {
		panic("Internal error: the binder did not visit every scope")
	}
}

func (b *binder) pushScope(kind js_ast.ScopeKind) {
	if b.isResolving {
		// The resolve phase must see the scopes in the same order as the declare
		// phase created them
		scope := b.scopesInOrder[b.nextScope]
		if scope.Kind != kind || scope.Parent != b.current {
			panic(fmt.Sprintf("Internal error: expected scope kind %s but found %s", scope.Kind, kind))
		}
		b.nextScope++
		b.current = scope
		return
	}

	scope := &js_ast.Scope{
		Kind:    kind,
		Tag:     b.tree.NewTag(),
		Parent:  b.current,
		Members: make(map[string]js_ast.ScopeMember),
	}
	b.current.Children = append(b.current.Children, scope)
	b.scopesInOrder = append(b.scopesInOrder, scope)
	b.current = scope
}

func (b *binder) popScope() {
	b.current = b.current.Parent
}

func (b *binder) resolve(id *js_ast.Ident) {
	for s := b.current; s != nil; s = s.Parent {
		if member, ok := s.Members[id.Name]; ok {
			id.Tag = member.Tag
			return
		}
	}
	id.Tag = b.tree.UnresolvedTag
}

func (b *binder) addMember(scope *js_ast.Scope, name string, member js_ast.ScopeMember) {
	existing, ok := scope.Members[name]
	if !ok || existing.Kind == js_ast.SymbolArguments {
		scope.Members[name] = member
		return
	}

	// "var" and function declarations may be repeated. The first one wins.
	if existing.Kind.IsHoisted() && member.Kind.IsHoisted() {
		return
	}

	r := js_lexer.RangeOfIdentifier(b.source, member.Loc)
	b.log.AddRangeError(&b.source, r, fmt.Sprintf("The symbol %q has already been declared", name))
}

// Declares a symbol in the nearest function or module scope. Every scope in
// between gets a copy of the member, so a later "let" with the same name in
// one of those scopes is reported as a redeclaration.
func (b *binder) hoist(kind js_ast.SymbolKind, name string, loc logger.Loc) {
	target := b.current
	for !target.Kind.StopsHoisting() {
		target = target.Parent
	}

	// A "var" in a function body that redeclares a parameter is the parameter
	tag := target.Tag
	if target.Kind == js_ast.ScopeFunctionBody {
		if member, ok := target.Parent.Members[name]; ok && member.Kind.IsHoisted() {
			tag = member.Tag
		}
	}

	// Inside a catch clause with a parameter of the same name, the "var"
	// refers to the catch parameter
	memberTag := tag
	for s := b.current; s != target; s = s.Parent {
		if s.Kind == js_ast.ScopeCatchBinding {
			if member, ok := s.Members[name]; ok {
				memberTag = member.Tag
				break
			}
		}
	}

	for s := b.current; s != target; s = s.Parent {
		b.addMember(s, name, js_ast.ScopeMember{Kind: kind, Loc: loc, Tag: memberTag})
		if s.Tag == memberTag {
			memberTag = tag
		}
	}
	b.addMember(target, name, js_ast.ScopeMember{Kind: kind, Loc: loc, Tag: tag})
}

func (b *binder) declareInScope(kind js_ast.SymbolKind, name string, loc logger.Loc) {
	scope := b.current

	// Lexical declarations in a function body or a catch body can't share a
	// name with the parameters of that function or catch clause
	if !kind.IsHoisted() && scope.Parent != nil &&
		(scope.Kind == js_ast.ScopeFunctionBody ||
			(scope.Kind == js_ast.ScopeBlock && scope.Parent.Kind == js_ast.ScopeCatchBinding)) {
		if member, ok := scope.Parent.Members[name]; ok && member.Kind != js_ast.SymbolArguments {
			r := js_lexer.RangeOfIdentifier(b.source, loc)
			b.log.AddRangeError(&b.source, r, fmt.Sprintf("The symbol %q has already been declared", name))
			return
		}
	}

	b.addMember(scope, name, js_ast.ScopeMember{Kind: kind, Loc: loc, Tag: scope.Tag})
}

func (b *binder) declareVar(id *js_ast.Ident, loc logger.Loc) {
	if b.isResolving {
		b.resolve(id)
	} else {
		b.hoist(js_ast.SymbolHoisted, id.Name, loc)
	}
}

func (b *binder) declareLexical(id *js_ast.Ident, loc logger.Loc) {
	if b.isResolving {
		b.resolve(id)
	} else {
		b.declareInScope(js_ast.SymbolOther, id.Name, loc)
	}
}

func (b *binder) declareCatchParam(id *js_ast.Ident, loc logger.Loc) {
	if b.isResolving {
		b.resolve(id)
	} else {
		b.declareInScope(js_ast.SymbolHoisted, id.Name, loc)
	}
}

func (b *binder) declareName(kind js_ast.SymbolKind, name *js_ast.LocIdent) {
	if b.isResolving {
		b.resolve(&name.Ident)
	} else if kind == js_ast.SymbolHoistedFunction {
		b.hoist(kind, name.Ident.Name, name.Loc)
	} else {
		b.declareInScope(kind, name.Ident.Name, name.Loc)
	}
}

func (b *binder) stmts(stmts []js_ast.Stmt) {
	for i := range stmts {
		b.stmt(&stmts[i])
	}
}

func (b *binder) blockStmts(stmts []js_ast.Stmt) {
	b.pushScope(js_ast.ScopeBlock)
	b.stmts(stmts)
	b.popScope()
}

func (b *binder) stmt(stmt *js_ast.Stmt) {
	switch s := stmt.Data.(type) {
	case *js_ast.SBlock:
		b.blockStmts(s.Stmts)

	case *js_ast.SEmpty, *js_ast.SDebugger, *js_ast.SBreak, *js_ast.SContinue,
		*js_ast.SExportStar, *js_ast.SExportFrom:

	case *js_ast.SExportClause:
		for i := range s.Items {
			if b.isResolving {
				b.resolve(&s.Items[i].Name.Ident)
			}
		}

	case *js_ast.SExportDefault:
		if s.Value.Expr != nil {
			b.expr(s.Value.Expr)
		} else if s.Value.Stmt != nil {
			b.stmt(s.Value.Stmt)
		}

	case *js_ast.SExpr:
		b.expr(&s.Value)

	case *js_ast.SFunction:
		// Function declarations in blocks are block scoped in strict mode code
		if s.Fn.Name != nil {
			if b.current.Kind.StopsHoisting() {
				b.declareName(js_ast.SymbolHoistedFunction, s.Fn.Name)
			} else {
				b.declareName(js_ast.SymbolOther, s.Fn.Name)
			}
		}
		b.fn(&s.Fn)

	case *js_ast.SClass:
		if s.Class.Name != nil {
			b.declareName(js_ast.SymbolClass, s.Class.Name)
		}
		b.class(&s.Class)

	case *js_ast.SLabel:
		b.stmt(&s.Stmt)

	case *js_ast.SIf:
		b.expr(&s.Test)
		b.stmt(&s.Yes)
		if s.No != nil {
			b.stmt(s.No)
		}

	case *js_ast.SFor:
		b.pushScope(js_ast.ScopeBlock)
		if s.Init != nil {
			b.stmt(s.Init)
		}
		if s.Test != nil {
			b.expr(s.Test)
		}
		if s.Update != nil {
			b.expr(s.Update)
		}
		b.stmt(&s.Body)
		b.popScope()

	case *js_ast.SForIn:
		b.pushScope(js_ast.ScopeBlock)
		b.stmt(&s.Init)
		b.expr(&s.Value)
		b.stmt(&s.Body)
		b.popScope()

	case *js_ast.SForOf:
		b.pushScope(js_ast.ScopeBlock)
		b.stmt(&s.Init)
		b.expr(&s.Value)
		b.stmt(&s.Body)
		b.popScope()

	case *js_ast.SDoWhile:
		b.stmt(&s.Body)
		b.expr(&s.Test)

	case *js_ast.SWhile:
		b.expr(&s.Test)
		b.stmt(&s.Body)

	case *js_ast.STry:
		b.blockStmts(s.Body)
		if s.Catch != nil {
			b.pushScope(js_ast.ScopeCatchBinding)
			if s.Catch.Binding != nil {
				b.binding(s.Catch.Binding, b.declareCatchParam)
			}
			b.blockStmts(s.Catch.Body)
			b.popScope()
		}
		if s.Finally != nil {
			b.blockStmts(s.Finally.Stmts)
		}

	case *js_ast.SSwitch:
		b.expr(&s.Test)
		b.pushScope(js_ast.ScopeBlock)
		for i := range s.Cases {
			c := &s.Cases[i]
			if c.Value != nil {
				b.expr(c.Value)
			}
			b.stmts(c.Body)
		}
		b.popScope()

	case *js_ast.SImport:
		if s.DefaultName != nil {
			b.declareName(js_ast.SymbolImport, s.DefaultName)
		}
		if s.NamespaceName != nil {
			b.declareName(js_ast.SymbolImport, s.NamespaceName)
		}
		if s.Items != nil {
			items := *s.Items
			for i := range items {
				b.declareName(js_ast.SymbolImport, &items[i].Name)
			}
		}

	case *js_ast.SReturn:
		if s.Value != nil {
			b.expr(s.Value)
		}

	case *js_ast.SThrow:
		b.expr(&s.Value)

	case *js_ast.SLocal:
		declare := b.declareLexical
		if s.Kind == js_ast.LocalVar {
			declare = b.declareVar
		}
		for i := range s.Decls {
			d := &s.Decls[i]
			b.binding(&d.Binding, declare)
			if d.Value != nil {
				b.expr(d.Value)
			}
		}

	default:
		panic(fmt.Sprintf("Internal error: unexpected statement of type %T", stmt.Data))
	}
}

func (b *binder) fn(fn *js_ast.Fn) {
	b.pushScope(js_ast.ScopeFunctionArgs)
	if !b.isResolving {
		b.current.Members["arguments"] = js_ast.ScopeMember{
			Kind: js_ast.SymbolArguments,
			Loc:  fn.OpenParenLoc,
			Tag:  b.current.Tag,
		}
	}
	b.args(fn.Args)
	b.pushScope(js_ast.ScopeFunctionBody)
	b.stmts(fn.Body.Stmts)
	b.popScope()
	b.popScope()
}

func (b *binder) args(args []js_ast.Arg) {
	for i := range args {
		arg := &args[i]
		b.binding(&arg.Binding, b.declareVar)
		if arg.Default != nil {
			b.expr(arg.Default)
		}
	}
}

func (b *binder) class(class *js_ast.Class) {
	if class.Extends != nil {
		b.expr(class.Extends)
	}
	for i := range class.Properties {
		b.property(&class.Properties[i])
	}
}

func (b *binder) property(property *js_ast.Property) {
	if property.IsComputed {
		b.expr(&property.Key)
	}
	if property.Value != nil {
		b.expr(property.Value)
	}
	if property.Initializer != nil {
		b.expr(property.Initializer)
	}
}

func (b *binder) binding(binding *js_ast.Binding, declare func(id *js_ast.Ident, loc logger.Loc)) {
	switch d := binding.Data.(type) {
	case *js_ast.BMissing:

	case *js_ast.BIdentifier:
		declare(&d.Ident, binding.Loc)

	case *js_ast.BArray:
		for i := range d.Items {
			item := &d.Items[i]
			b.binding(&item.Binding, declare)
			if item.DefaultValue != nil {
				b.expr(item.DefaultValue)
			}
		}

	case *js_ast.BObject:
		for i := range d.Properties {
			property := &d.Properties[i]
			if property.IsComputed {
				b.expr(&property.Key)
			}
			b.binding(&property.Value, declare)
			if property.DefaultValue != nil {
				b.expr(property.DefaultValue)
			}
		}

	default:
		panic(fmt.Sprintf("Internal error: unexpected binding of type %T", binding.Data))
	}
}

func (b *binder) exprs(exprs []js_ast.Expr) {
	for i := range exprs {
		b.expr(&exprs[i])
	}
}

func (b *binder) expr(expr *js_ast.Expr) {
	switch e := expr.Data.(type) {
	case *js_ast.EBoolean, *js_ast.ESuper, *js_ast.ENull, *js_ast.EThis, *js_ast.ENewTarget,
		*js_ast.EImportMeta, *js_ast.EPrivateIdentifier, *js_ast.EMissing, *js_ast.ENumber,
		*js_ast.EBigInt, *js_ast.EString, *js_ast.ERegExp:

	case *js_ast.EIdentifier:
		if b.isResolving {
			b.resolve(&e.Ident)
		}

	case *js_ast.EArray:
		b.exprs(e.Items)

	case *js_ast.EUnary:
		b.expr(&e.Value)

	case *js_ast.EBinary:
		b.expr(&e.Left)
		b.expr(&e.Right)

	case *js_ast.ENew:
		b.expr(&e.Target)
		b.exprs(e.Args)

	case *js_ast.ECall:
		b.expr(&e.Target)
		b.exprs(e.Args)

	case *js_ast.EDot:
		b.expr(&e.Target)

	case *js_ast.EIndex:
		b.expr(&e.Target)
		b.expr(&e.Index)

	case *js_ast.EArrow:
		b.pushScope(js_ast.ScopeFunctionArgs)
		b.args(e.Args)
		b.pushScope(js_ast.ScopeFunctionBody)
		b.stmts(e.Body.Stmts)
		b.popScope()
		b.popScope()

	case *js_ast.EFunction:
		// The name of a function expression is only visible inside the function
		if e.Fn.Name != nil {
			b.pushScope(js_ast.ScopeFunctionName)
			b.declareName(js_ast.SymbolClass, e.Fn.Name)
			b.fn(&e.Fn)
			b.popScope()
		} else {
			b.fn(&e.Fn)
		}

	case *js_ast.EClass:
		if e.Class.Name != nil {
			b.pushScope(js_ast.ScopeClassName)
			b.declareName(js_ast.SymbolClass, e.Class.Name)
			b.class(&e.Class)
			b.popScope()
		} else {
			b.class(&e.Class)
		}

	case *js_ast.EObject:
		for i := range e.Properties {
			b.property(&e.Properties[i])
		}

	case *js_ast.ESpread:
		b.expr(&e.Value)

	case *js_ast.ETemplate:
		if e.Tag != nil {
			b.expr(e.Tag)
		}
		for i := range e.Parts {
			b.expr(&e.Parts[i].Value)
		}

	case *js_ast.EAwait:
		b.expr(&e.Value)

	case *js_ast.EYield:
		if e.Value != nil {
			b.expr(e.Value)
		}

	case *js_ast.EIf:
		b.expr(&e.Test)
		b.expr(&e.Yes)
		b.expr(&e.No)

	case *js_ast.EImportCall:
		b.expr(&e.Expr)

	default:
		panic(fmt.Sprintf("Internal error: unexpected expression of type %T", expr.Data))
	}
}
