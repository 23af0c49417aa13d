package js_ast

import "fmt"

// VisitIdents calls "visit" for every identifier occurrence in "stmts" in
// source order. Declaration sites (binding identifiers, function and class
// names, import names) are reported with "isDecl" set. Property keys, member
// names after ".", and labels are not identifiers and are never reported.
//
// The callback may change the identifier through the pointer. It must not
// change the shape of the tree.
func VisitIdents(stmts []Stmt, visit func(id *Ident, isDecl bool)) {
	w := identWalker{visit: visit}
	w.stmts(stmts)
}

type identWalker struct {
	visit func(id *Ident, isDecl bool)
}

func (w *identWalker) stmts(stmts []Stmt) {
	for i := range stmts {
		w.stmt(&stmts[i])
	}
}

func (w *identWalker) locIdent(name *LocIdent, isDecl bool) {
	if name != nil {
		w.visit(&name.Ident, isDecl)
	}
}

func (w *identWalker) stmt(stmt *Stmt) {
	switch s := stmt.Data.(type) {
	case *SBlock:
		w.stmts(s.Stmts)

	case *SEmpty, *SDebugger, *SBreak, *SContinue, *SExportStar:

	case *SExportClause:
		for i := range s.Items {
			w.visit(&s.Items[i].Name.Ident, false)
		}

	case *SExportFrom:
		// The names in a re-export belong to the other module

	case *SExportDefault:
		if s.Value.Expr != nil {
			w.expr(s.Value.Expr)
		} else if s.Value.Stmt != nil {
			w.stmt(s.Value.Stmt)
		}

	case *SExpr:
		w.expr(&s.Value)

	case *SFunction:
		w.fn(&s.Fn)

	case *SClass:
		w.class(&s.Class)

	case *SLabel:
		w.stmt(&s.Stmt)

	case *SIf:
		w.expr(&s.Test)
		w.stmt(&s.Yes)
		if s.No != nil {
			w.stmt(s.No)
		}

	case *SFor:
		if s.Init != nil {
			w.stmt(s.Init)
		}
		if s.Test != nil {
			w.expr(s.Test)
		}
		if s.Update != nil {
			w.expr(s.Update)
		}
		w.stmt(&s.Body)

	case *SForIn:
		w.stmt(&s.Init)
		w.expr(&s.Value)
		w.stmt(&s.Body)

	case *SForOf:
		w.stmt(&s.Init)
		w.expr(&s.Value)
		w.stmt(&s.Body)

	case *SDoWhile:
		w.stmt(&s.Body)
		w.expr(&s.Test)

	case *SWhile:
		w.expr(&s.Test)
		w.stmt(&s.Body)

	case *STry:
		w.stmts(s.Body)
		if s.Catch != nil {
			if s.Catch.Binding != nil {
				w.binding(s.Catch.Binding)
			}
			w.stmts(s.Catch.Body)
		}
		if s.Finally != nil {
			w.stmts(s.Finally.Stmts)
		}

	case *SSwitch:
		w.expr(&s.Test)
		for i := range s.Cases {
			c := &s.Cases[i]
			if c.Value != nil {
				w.expr(c.Value)
			}
			w.stmts(c.Body)
		}

	case *SImport:
		w.locIdent(s.DefaultName, true)
		w.locIdent(s.NamespaceName, true)
		if s.Items != nil {
			items := *s.Items
			for i := range items {
				w.visit(&items[i].Name.Ident, true)
			}
		}

	case *SReturn:
		if s.Value != nil {
			w.expr(s.Value)
		}

	case *SThrow:
		w.expr(&s.Value)

	case *SLocal:
		for i := range s.Decls {
			d := &s.Decls[i]
			w.binding(&d.Binding)
			if d.Value != nil {
				w.expr(d.Value)
			}
		}

	default:
		panic(fmt.Sprintf("Internal error: unexpected statement of type %T", stmt.Data))
	}
}

func (w *identWalker) fn(fn *Fn) {
	w.locIdent(fn.Name, true)
	w.args(fn.Args)
	w.stmts(fn.Body.Stmts)
}

func (w *identWalker) args(args []Arg) {
	for i := range args {
		arg := &args[i]
		w.binding(&arg.Binding)
		if arg.Default != nil {
			w.expr(arg.Default)
		}
	}
}

func (w *identWalker) class(class *Class) {
	w.locIdent(class.Name, true)
	if class.Extends != nil {
		w.expr(class.Extends)
	}
	w.properties(class.Properties)
}

func (w *identWalker) properties(properties []Property) {
	for i := range properties {
		p := &properties[i]
		w.expr(&p.Key)
		if p.Value != nil {
			w.expr(p.Value)
		}
		if p.Initializer != nil {
			w.expr(p.Initializer)
		}
	}
}

func (w *identWalker) binding(binding *Binding) {
	switch b := binding.Data.(type) {
	case *BMissing:

	case *BIdentifier:
		w.visit(&b.Ident, true)

	case *BArray:
		for i := range b.Items {
			item := &b.Items[i]
			w.binding(&item.Binding)
			if item.DefaultValue != nil {
				w.expr(item.DefaultValue)
			}
		}

	case *BObject:
		for i := range b.Properties {
			p := &b.Properties[i]
			w.expr(&p.Key)
			w.binding(&p.Value)
			if p.DefaultValue != nil {
				w.expr(p.DefaultValue)
			}
		}

	default:
		panic(fmt.Sprintf("Internal error: unexpected binding of type %T", binding.Data))
	}
}

func (w *identWalker) exprs(exprs []Expr) {
	for i := range exprs {
		w.expr(&exprs[i])
	}
}

func (w *identWalker) expr(expr *Expr) {
	switch e := expr.Data.(type) {
	case *EBoolean, *ESuper, *ENull, *EThis, *ENewTarget, *EImportMeta,
		*EPrivateIdentifier, *EMissing, *ENumber, *EBigInt, *EString, *ERegExp:

	case *EIdentifier:
		w.visit(&e.Ident, false)

	case *EArray:
		w.exprs(e.Items)

	case *EUnary:
		w.expr(&e.Value)

	case *EBinary:
		w.expr(&e.Left)
		w.expr(&e.Right)

	case *ENew:
		w.expr(&e.Target)
		w.exprs(e.Args)

	case *ECall:
		w.expr(&e.Target)
		w.exprs(e.Args)

	case *EDot:
		w.expr(&e.Target)

	case *EIndex:
		w.expr(&e.Target)
		w.expr(&e.Index)

	case *EArrow:
		w.args(e.Args)
		w.stmts(e.Body.Stmts)

	case *EFunction:
		w.fn(&e.Fn)

	case *EClass:
		w.class(&e.Class)

	case *EObject:
		// A shorthand property keeps its name in the key as a plain string,
		// so only the value is an identifier occurrence
		w.properties(e.Properties)

	case *ESpread:
		w.expr(&e.Value)

	case *ETemplate:
		if e.Tag != nil {
			w.expr(e.Tag)
		}
		for i := range e.Parts {
			w.expr(&e.Parts[i].Value)
		}

	case *EAwait:
		w.expr(&e.Value)

	case *EYield:
		if e.Value != nil {
			w.expr(e.Value)
		}

	case *EIf:
		w.expr(&e.Test)
		w.expr(&e.Yes)
		w.expr(&e.No)

	case *EImportCall:
		w.expr(&e.Expr)

	default:
		panic(fmt.Sprintf("Internal error: unexpected expression of type %T", expr.Data))
	}
}
