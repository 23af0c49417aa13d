package js_parser

// This parser does two passes:
//
// 1. Parse the source into an AST. Modules are always strict mode code, so
//    the sloppy-mode corners of the grammar are reported as errors instead
//    of being supported.
//
// 2. Run the binder over the AST. It builds the scope tree and gives every
//    identifier in the tree its scope tag (see "binder.go").
//
// Syntax errors are reported through the log. Unrecoverable errors unwind the
// parser with a "js_lexer.LexerPanic" which "Parse" recovers from.

import (
	"fmt"

	"github.com/yonasBSD/mako/internal/js_ast"
	"github.com/yonasBSD/mako/internal/js_lexer"
	"github.com/yonasBSD/mako/internal/logger"
)

type parser struct {
	log                logger.Log
	source             logger.Source
	lexer              js_lexer.Lexer
	allowIn            bool
	fnOrArrowDataParse fnOrArrowDataParse
	jumps              jumpTargets

	// This is used to prevent an arrow function with a block body from being
	// followed by anything other than a comma, since "() => {} + 1" is invalid
	afterArrowBodyLoc logger.Loc
}

type fnOrArrowDataParse struct {
	allowAwait  bool
	allowYield  bool
	isOutsideFn bool

	// Arrow functions inherit these from the function around them
	allowSuperCall     bool
	allowSuperProperty bool
}

type jumpLabel struct {
	name   string
	isLoop bool
}

// The targets that "break" and "continue" may refer to. These are reset at
// every function boundary.
type jumpTargets struct {
	labels     []jumpLabel
	loopDepth  int
	breakDepth int
}

type parseStmtOpts struct {
	isModuleScope    bool
	allowLexicalDecl bool
	isExport         bool
	isNameOptional   bool
}

func newParser(log logger.Log, source logger.Source, lexer js_lexer.Lexer) *parser {
	return &parser{
		log:               log,
		source:            source,
		lexer:             lexer,
		allowIn:           true,
		afterArrowBodyLoc: logger.Loc{Start: -1},
		fnOrArrowDataParse: fnOrArrowDataParse{
			isOutsideFn: true,
		},
	}
}

// Parses a module and runs the binder over it. The result is only valid if
// "ok" is true.
func Parse(log logger.Log, source logger.Source) (result js_ast.AST, ok bool) {
	ok = true
	defer func() {
		r := recover()
		if _, isLexerPanic := r.(js_lexer.LexerPanic); isLexerPanic {
			ok = false
		} else if r != nil {
			panic(r)
		}
	}()

	p := newParser(log, source, js_lexer.NewLexer(log, source))

	// Consume a leading hashbang comment
	hashbang := ""
	if p.lexer.Token == js_lexer.THashbang {
		hashbang = p.lexer.Identifier
		p.lexer.Next()
	}

	stmts := p.parseStmtsUpTo(js_lexer.TEndOfFile, parseStmtOpts{
		isModuleScope:    true,
		allowLexicalDecl: true,
	})

	result = js_ast.AST{
		Hashbang: hashbang,
		Stmts:    stmts,
	}
	bind(log, source, &result)
	return
}

func (p *parser) parseStmtsUpTo(end js_lexer.T, opts parseStmtOpts) []js_ast.Stmt {
	stmts := []js_ast.Stmt{}
	for p.lexer.Token != end {
		stmts = append(stmts, p.parseStmt(opts))
	}
	return stmts
}

func (p *parser) forbidLexicalDecl(loc logger.Loc) {
	r := js_lexer.RangeOfIdentifier(p.source, loc)
	p.log.AddRangeError(&p.source, r, "Cannot use a declaration in a single-statement context")
}

func (p *parser) parseStmt(opts parseStmtOpts) js_ast.Stmt {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TSemicolon:
		p.lexer.Next()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SEmpty{}}

	case js_lexer.TExport:
		if !opts.isModuleScope {
			p.lexer.Unexpected()
		}
		p.lexer.Next()
		return p.parseExportStmt(loc)

	case js_lexer.TFunction:
		return p.parseFnStmt(loc, opts, false)

	case js_lexer.TClass:
		if !opts.allowLexicalDecl {
			p.forbidLexicalDecl(loc)
		}
		return p.parseClassStmt(loc, opts)

	case js_lexer.TVar:
		p.lexer.Next()
		decls := p.parseDecls()
		p.requireInitializers(js_ast.LocalVar, decls)
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalVar, Decls: decls, IsExport: opts.isExport}}

	case js_lexer.TConst:
		if !opts.allowLexicalDecl {
			p.forbidLexicalDecl(loc)
		}
		p.lexer.Next()
		decls := p.parseDecls()
		p.requireInitializers(js_ast.LocalConst, decls)
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalConst, Decls: decls, IsExport: opts.isExport}}

	case js_lexer.TIf:
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		yes := p.parseStmt(parseStmtOpts{})
		var no *js_ast.Stmt
		if p.lexer.Token == js_lexer.TElse {
			p.lexer.Next()
			stmt := p.parseStmt(parseStmtOpts{})
			no = &stmt
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SIf{Test: test, Yes: yes, No: no}}

	case js_lexer.TDo:
		p.lexer.Next()
		body := p.parseLoopBody()
		p.lexer.Expect(js_lexer.TWhile)
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)

		// This is a weird corner case where automatic semicolon insertion applies
		// even without a newline present
		if p.lexer.Token == js_lexer.TSemicolon {
			p.lexer.Next()
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SDoWhile{Body: body, Test: test}}

	case js_lexer.TWhile:
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		body := p.parseLoopBody()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SWhile{Test: test, Body: body}}

	case js_lexer.TWith:
		p.log.AddRangeError(&p.source, p.lexer.Range(), "With statements cannot be used in strict mode")
		panic(js_lexer.LexerPanic{})

	case js_lexer.TSwitch:
		return p.parseSwitchStmt(loc)

	case js_lexer.TTry:
		return p.parseTryStmt(loc)

	case js_lexer.TFor:
		return p.parseForStmt(loc)

	case js_lexer.TImport:
		return p.parseImportStmt(loc, opts)

	case js_lexer.TBreak:
		breakRange := p.lexer.Range()
		p.lexer.Next()
		label := p.parseLabelName()
		if label != nil {
			if _, ok := p.findLabel(*label); !ok {
				p.log.AddRangeError(&p.source, breakRange, fmt.Sprintf("There is no containing label named %q", *label))
			}
		} else if p.jumps.breakDepth == 0 {
			p.log.AddRangeError(&p.source, breakRange, "Cannot use \"break\" here")
		}
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SBreak{Label: label}}

	case js_lexer.TContinue:
		continueRange := p.lexer.Range()
		p.lexer.Next()
		label := p.parseLabelName()
		if label != nil {
			if target, ok := p.findLabel(*label); !ok {
				p.log.AddRangeError(&p.source, continueRange, fmt.Sprintf("There is no containing label named %q", *label))
			} else if !target.isLoop {
				p.log.AddRangeError(&p.source, continueRange, fmt.Sprintf("Cannot continue to label %q", *label))
			}
		} else if p.jumps.loopDepth == 0 {
			p.log.AddRangeError(&p.source, continueRange, "Cannot use \"continue\" here")
		}
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SContinue{Label: label}}

	case js_lexer.TReturn:
		if p.fnOrArrowDataParse.isOutsideFn {
			p.log.AddRangeError(&p.source, p.lexer.Range(), "A return statement cannot be used here")
		}
		p.lexer.Next()
		var value *js_ast.Expr
		if p.lexer.Token != js_lexer.TSemicolon &&
			!p.lexer.HasNewlineBefore &&
			p.lexer.Token != js_lexer.TCloseBrace &&
			p.lexer.Token != js_lexer.TEndOfFile {
			expr := p.parseExpr(js_ast.LLowest)
			value = &expr
		}
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SReturn{Value: value}}

	case js_lexer.TThrow:
		p.lexer.Next()
		if p.lexer.HasNewlineBefore {
			p.log.AddError(&p.source, logger.Loc{Start: loc.Start + 5}, "Unexpected newline after \"throw\"")
			panic(js_lexer.LexerPanic{})
		}
		expr := p.parseExpr(js_ast.LLowest)
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SThrow{Value: expr}}

	case js_lexer.TDebugger:
		p.lexer.Next()
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SDebugger{}}

	case js_lexer.TOpenBrace:
		p.lexer.Next()
		stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace, parseStmtOpts{allowLexicalDecl: true})
		p.lexer.Next()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SBlock{Stmts: stmts}}

	default:
		isIdentifier := p.lexer.Token == js_lexer.TIdentifier
		var expr js_ast.Expr

		switch {
		case p.lexer.IsContextualKeyword("async"):
			// "async function foo() {}"
			asyncRange := p.lexer.Range()
			p.lexer.Next()
			if p.lexer.Token == js_lexer.TFunction && !p.lexer.HasNewlineBefore {
				return p.parseFnStmt(loc, opts, true)
			}
			expr = p.parseSuffix(p.parseAsyncPrefixExpr(asyncRange, js_ast.LLowest), js_ast.LLowest, nil)

		case p.lexer.IsContextualKeyword("let"):
			// "let" is always a declaration in strict mode code
			letRange := p.lexer.Range()
			p.lexer.Next()
			switch p.lexer.Token {
			case js_lexer.TIdentifier, js_lexer.TOpenBracket, js_lexer.TOpenBrace:
				if !opts.allowLexicalDecl {
					p.forbidLexicalDecl(loc)
				}
				decls := p.parseDecls()
				p.requireInitializers(js_ast.LocalLet, decls)
				p.lexer.ExpectOrInsertSemicolon()
				return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalLet, Decls: decls, IsExport: opts.isExport}}
			}
			p.checkIdentifierReference(letRange, "let")
			let := js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Ident: js_ast.Ident{Name: "let"}}}
			expr = p.parseSuffix(let, js_ast.LLowest, nil)

		default:
			expr = p.parseExpr(js_ast.LLowest)
		}

		// Parse a labeled statement
		if isIdentifier && p.lexer.Token == js_lexer.TColon {
			if ident, ok := expr.Data.(*js_ast.EIdentifier); ok {
				return p.parseLabeledStmt(loc, ident.Ident.Name)
			}
		}

		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: expr}}
	}
}

func (p *parser) parseLabeledStmt(loc logger.Loc, name string) js_ast.Stmt {
	if _, ok := p.findLabel(name); ok {
		r := js_lexer.RangeOfIdentifier(p.source, loc)
		p.log.AddRangeError(&p.source, r, fmt.Sprintf("Duplicate label %q", name))
	}
	p.lexer.Next()

	isLoop := false
	switch p.lexer.Token {
	case js_lexer.TFor, js_lexer.TWhile, js_lexer.TDo:
		isLoop = true
	}

	p.jumps.labels = append(p.jumps.labels, jumpLabel{name: name, isLoop: isLoop})
	stmt := p.parseStmt(parseStmtOpts{})
	p.jumps.labels = p.jumps.labels[:len(p.jumps.labels)-1]
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SLabel{Name: name, Stmt: stmt}}
}

func (p *parser) findLabel(name string) (jumpLabel, bool) {
	for i := len(p.jumps.labels) - 1; i >= 0; i-- {
		if label := p.jumps.labels[i]; label.name == name {
			return label, true
		}
	}
	return jumpLabel{}, false
}

func (p *parser) parseLabelName() *string {
	if p.lexer.Token != js_lexer.TIdentifier || p.lexer.HasNewlineBefore {
		return nil
	}
	name := p.lexer.Identifier
	p.lexer.Next()
	return &name
}

func (p *parser) parseLoopBody() js_ast.Stmt {
	p.jumps.loopDepth++
	p.jumps.breakDepth++
	stmt := p.parseStmt(parseStmtOpts{})
	p.jumps.loopDepth--
	p.jumps.breakDepth--
	return stmt
}

func (p *parser) parseSwitchStmt(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()
	p.lexer.Expect(js_lexer.TOpenParen)
	test := p.parseExpr(js_ast.LLowest)
	p.lexer.Expect(js_lexer.TCloseParen)

	bodyLoc := p.lexer.Loc()
	p.lexer.Expect(js_lexer.TOpenBrace)
	cases := []js_ast.Case{}
	foundDefault := false

	p.jumps.breakDepth++
	for p.lexer.Token != js_lexer.TCloseBrace {
		var value *js_ast.Expr
		body := []js_ast.Stmt{}

		if p.lexer.Token == js_lexer.TDefault {
			if foundDefault {
				p.log.AddRangeError(&p.source, p.lexer.Range(), "Multiple default clauses are not allowed")
				panic(js_lexer.LexerPanic{})
			}
			foundDefault = true
			p.lexer.Next()
			p.lexer.Expect(js_lexer.TColon)
		} else {
			p.lexer.Expect(js_lexer.TCase)
			expr := p.parseExpr(js_ast.LLowest)
			value = &expr
			p.lexer.Expect(js_lexer.TColon)
		}

	caseBody:
		for {
			switch p.lexer.Token {
			case js_lexer.TCloseBrace, js_lexer.TCase, js_lexer.TDefault:
				break caseBody

			default:
				body = append(body, p.parseStmt(parseStmtOpts{allowLexicalDecl: true}))
			}
		}

		cases = append(cases, js_ast.Case{Value: value, Body: body})
	}
	p.jumps.breakDepth--

	p.lexer.Expect(js_lexer.TCloseBrace)
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SSwitch{
		Test:    test,
		BodyLoc: bodyLoc,
		Cases:   cases,
	}}
}

func (p *parser) parseTryStmt(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()
	bodyLoc := p.lexer.Loc()
	p.lexer.Expect(js_lexer.TOpenBrace)
	body := p.parseStmtsUpTo(js_lexer.TCloseBrace, parseStmtOpts{allowLexicalDecl: true})
	p.lexer.Next()

	var catch *js_ast.Catch
	var finally *js_ast.Finally

	if p.lexer.Token == js_lexer.TCatch {
		catchLoc := p.lexer.Loc()
		p.lexer.Next()

		// The catch binding is optional
		var binding *js_ast.Binding
		if p.lexer.Token == js_lexer.TOpenParen {
			p.lexer.Next()
			value := p.parseBinding()
			binding = &value
			p.lexer.Expect(js_lexer.TCloseParen)
		}

		p.lexer.Expect(js_lexer.TOpenBrace)
		stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace, parseStmtOpts{allowLexicalDecl: true})
		p.lexer.Next()
		catch = &js_ast.Catch{Loc: catchLoc, Binding: binding, Body: stmts}
	}

	if catch == nil || p.lexer.Token == js_lexer.TFinally {
		finallyLoc := p.lexer.Loc()
		p.lexer.Expect(js_lexer.TFinally)
		p.lexer.Expect(js_lexer.TOpenBrace)
		stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace, parseStmtOpts{allowLexicalDecl: true})
		p.lexer.Next()
		finally = &js_ast.Finally{Loc: finallyLoc, Stmts: stmts}
	}

	return js_ast.Stmt{Loc: loc, Data: &js_ast.STry{
		BodyLoc: bodyLoc,
		Body:    body,
		Catch:   catch,
		Finally: finally,
	}}
}

func (p *parser) parseForStmt(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()

	// "for await (let x of y) {}"
	isForAwait := p.lexer.IsContextualKeyword("await")
	if isForAwait {
		if !p.fnOrArrowDataParse.allowAwait {
			p.log.AddRangeError(&p.source, p.lexer.Range(), "Cannot use \"await\" outside an async function")
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TOpenParen)

	var init *js_ast.Stmt
	var test *js_ast.Expr
	var update *js_ast.Expr
	var decls []js_ast.Decl
	var initErrors deferredErrors
	localKind := js_ast.LocalVar
	isLocal := false

	// "in" expressions aren't allowed here
	p.allowIn = false

	initLoc := p.lexer.Loc()
	switch {
	case p.lexer.Token == js_lexer.TVar:
		p.lexer.Next()
		isLocal = true
		decls = p.parseDecls()

	case p.lexer.Token == js_lexer.TConst:
		p.lexer.Next()
		isLocal = true
		localKind = js_ast.LocalConst
		decls = p.parseDecls()

	case p.lexer.IsContextualKeyword("let"):
		p.lexer.Next()
		isLocal = true
		localKind = js_ast.LocalLet
		decls = p.parseDecls()

	case p.lexer.Token == js_lexer.TSemicolon:

	default:
		expr := p.parseExprOrBindings(js_ast.LLowest, &initErrors)
		init = &js_ast.Stmt{Loc: initLoc, Data: &js_ast.SExpr{Value: expr}}
	}

	if isLocal {
		init = &js_ast.Stmt{Loc: initLoc, Data: &js_ast.SLocal{Kind: localKind, Decls: decls}}
	}

	// "in" expressions are allowed again
	p.allowIn = true

	// Detect for-of and for-in loops
	isForOf := p.lexer.IsContextualKeyword("of")
	if init != nil && (isForOf || p.lexer.Token == js_lexer.TIn) {
		loopType := "in"
		if isForOf {
			loopType = "of"
		}
		if isLocal {
			p.forbidInitializers(decls, loopType)
		} else if expr := init.Data.(*js_ast.SExpr).Value; !p.isValidAssignmentTarget(expr, true) {
			p.log.AddRangeError(&p.source, logger.Range{Loc: expr.Loc}, "Invalid assignment target")
		}
		p.lexer.Next()

		if isForOf {
			value := p.parseExpr(js_ast.LComma)
			p.lexer.Expect(js_lexer.TCloseParen)
			body := p.parseLoopBody()
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SForOf{IsAwait: isForAwait, Init: *init, Value: value, Body: body}}
		}

		if isForAwait {
			p.lexer.ExpectedString("\"of\"")
		}
		value := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		body := p.parseLoopBody()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SForIn{Init: *init, Value: value, Body: body}}
	}

	if isForAwait {
		p.lexer.ExpectedString("\"of\"")
	}
	p.logExprErrors(&initErrors)

	// Only require "const" statement initializers when we know we're a normal for loop
	if isLocal {
		p.requireInitializers(localKind, decls)
	}

	p.lexer.Expect(js_lexer.TSemicolon)
	if p.lexer.Token != js_lexer.TSemicolon {
		expr := p.parseExpr(js_ast.LLowest)
		test = &expr
	}

	p.lexer.Expect(js_lexer.TSemicolon)
	if p.lexer.Token != js_lexer.TCloseParen {
		expr := p.parseExpr(js_ast.LLowest)
		update = &expr
	}

	p.lexer.Expect(js_lexer.TCloseParen)
	body := p.parseLoopBody()
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SFor{Init: init, Test: test, Update: update, Body: body}}
}

func (p *parser) parseDecls() []js_ast.Decl {
	decls := []js_ast.Decl{}

	for {
		var value *js_ast.Expr
		local := p.parseBinding()

		if p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			expr := p.parseExpr(js_ast.LComma)
			value = &expr
		}

		decls = append(decls, js_ast.Decl{Binding: local, Value: value})

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	return decls
}

func (p *parser) requireInitializers(kind js_ast.LocalKind, decls []js_ast.Decl) {
	for _, d := range decls {
		if d.Value != nil {
			continue
		}
		if id, ok := d.Binding.Data.(*js_ast.BIdentifier); ok {
			if kind == js_ast.LocalConst {
				r := js_lexer.RangeOfIdentifier(p.source, d.Binding.Loc)
				p.log.AddRangeError(&p.source, r, fmt.Sprintf("The constant %q must be initialized", id.Ident.Name))
			}
		} else {
			p.log.AddError(&p.source, d.Binding.Loc, "This destructuring pattern must be initialized")
		}
	}
}

func (p *parser) forbidInitializers(decls []js_ast.Decl, loopType string) {
	if len(decls) > 1 {
		p.log.AddError(&p.source, decls[1].Binding.Loc, fmt.Sprintf("for-%s loops must have a single declaration", loopType))
	} else if len(decls) == 1 && decls[0].Value != nil {
		p.log.AddError(&p.source, decls[0].Value.Loc, fmt.Sprintf("for-%s loop variables cannot have an initializer", loopType))
	}
}

func (p *parser) parseFnStmt(loc logger.Loc, opts parseStmtOpts, isAsync bool) js_ast.Stmt {
	// Function declarations are block scoped in strict mode code
	if !opts.allowLexicalDecl {
		p.forbidLexicalDecl(loc)
	}

	p.lexer.Expect(js_lexer.TFunction)
	isGenerator := p.lexer.Token == js_lexer.TAsterisk
	if isGenerator {
		p.lexer.Next()
	}

	var name *js_ast.LocIdent
	if !opts.isNameOptional || p.lexer.Token == js_lexer.TIdentifier {
		nameLoc := p.lexer.Loc()
		nameText := p.lexer.Identifier
		p.checkBindingName(p.lexer.Range(), nameText)
		p.lexer.Expect(js_lexer.TIdentifier)
		name = &js_ast.LocIdent{Loc: nameLoc, Ident: js_ast.Ident{Name: nameText}}
	}

	fn := p.parseFn(name, fnOrArrowDataParse{allowAwait: isAsync, allowYield: isGenerator})
	fn.IsAsync = isAsync
	fn.IsGenerator = isGenerator
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SFunction{Fn: fn, IsExport: opts.isExport}}
}

func (p *parser) parseClassStmt(loc logger.Loc, opts parseStmtOpts) js_ast.Stmt {
	p.lexer.Expect(js_lexer.TClass)

	var name *js_ast.LocIdent
	if !opts.isNameOptional || p.lexer.Token == js_lexer.TIdentifier {
		nameLoc := p.lexer.Loc()
		nameText := p.lexer.Identifier
		p.checkBindingName(p.lexer.Range(), nameText)
		p.lexer.Expect(js_lexer.TIdentifier)
		name = &js_ast.LocIdent{Loc: nameLoc, Ident: js_ast.Ident{Name: nameText}}
	}

	class := p.parseClass(name)
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SClass{Class: class, IsExport: opts.isExport}}
}

func (p *parser) parseFn(name *js_ast.LocIdent, data fnOrArrowDataParse) (fn js_ast.Fn) {
	fn.Name = name
	fn.OpenParenLoc = p.lexer.Loc()
	p.lexer.Expect(js_lexer.TOpenParen)

	// Await and yield in the arguments follow the rules of the function body
	oldFnOrArrowData := p.fnOrArrowDataParse
	oldAllowIn := p.allowIn
	p.fnOrArrowDataParse = data
	p.allowIn = true

	for p.lexer.Token != js_lexer.TCloseParen {
		// Skip over "..." for a rest argument
		if p.lexer.Token == js_lexer.TDotDotDot {
			p.lexer.Next()
			fn.HasRestArg = true
		}

		binding := p.parseBinding()
		var value *js_ast.Expr
		if !fn.HasRestArg && p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			expr := p.parseExpr(js_ast.LComma)
			value = &expr
		}

		fn.Args = append(fn.Args, js_ast.Arg{Binding: binding, Default: value})

		if p.lexer.Token != js_lexer.TComma {
			break
		}

		// JavaScript does not allow a comma after a rest argument
		if fn.HasRestArg {
			p.lexer.Expected(js_lexer.TCloseParen)
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TCloseParen)
	fn.Body = p.parseFnBody()

	p.fnOrArrowDataParse = oldFnOrArrowData
	p.allowIn = oldAllowIn
	return
}

// The caller is responsible for setting "p.fnOrArrowDataParse"
func (p *parser) parseFnBody() js_ast.FnBody {
	oldJumps := p.jumps
	p.jumps = jumpTargets{}

	loc := p.lexer.Loc()
	p.lexer.Expect(js_lexer.TOpenBrace)
	stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace, parseStmtOpts{allowLexicalDecl: true})
	p.lexer.Next()

	p.jumps = oldJumps
	return js_ast.FnBody{Loc: loc, Stmts: stmts}
}

func (p *parser) parseClass(name *js_ast.LocIdent) js_ast.Class {
	var extends *js_ast.Expr

	if p.lexer.Token == js_lexer.TExtends {
		p.lexer.Next()
		value := p.parseExpr(js_ast.LNew)
		extends = &value
	}

	bodyLoc := p.lexer.Loc()
	p.lexer.Expect(js_lexer.TOpenBrace)
	properties := []js_ast.Property{}

	// Allow "in" inside class bodies
	oldAllowIn := p.allowIn
	p.allowIn = true

	opts := propertyOpts{isClass: true, isDerivedClass: extends != nil}
	for p.lexer.Token != js_lexer.TCloseBrace {
		if p.lexer.Token == js_lexer.TSemicolon {
			p.lexer.Next()
			continue
		}
		properties = append(properties, p.parseProperty(js_ast.PropertyNormal, opts, nil))
	}

	p.allowIn = oldAllowIn
	p.lexer.Expect(js_lexer.TCloseBrace)
	return js_ast.Class{
		Name:       name,
		Extends:    extends,
		BodyLoc:    bodyLoc,
		Properties: properties,
	}
}

func (p *parser) parsePath() (logger.Loc, js_ast.EString) {
	pathLoc := p.lexer.Loc()
	if p.lexer.Token != js_lexer.TStringLiteral {
		p.lexer.Expected(js_lexer.TStringLiteral)
	}
	path := js_ast.EString{Value: p.lexer.StringLiteral, Quote: p.lexer.StringQuote()}
	p.lexer.Next()
	return pathLoc, path
}

func (p *parser) parseImportStmt(loc logger.Loc, opts parseStmtOpts) js_ast.Stmt {
	importRange := p.lexer.Range()
	p.lexer.Next()

	// "import('path')"
	// "import.meta"
	if p.lexer.Token == js_lexer.TOpenParen || p.lexer.Token == js_lexer.TDot {
		expr := p.parseSuffix(p.parseImportExpr(loc, js_ast.LLowest), js_ast.LLowest, nil)
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: expr}}
	}

	if !opts.isModuleScope {
		p.log.AddRangeError(&p.source, importRange, "Unexpected \"import\"")
		panic(js_lexer.LexerPanic{})
	}

	stmt := js_ast.SImport{}

	switch p.lexer.Token {
	case js_lexer.TStringLiteral:
		// "import 'path'"

	case js_lexer.TAsterisk:
		// "import * as ns from 'path'"
		p.lexer.Next()
		p.lexer.ExpectContextualKeyword("as")
		stmt.NamespaceName = p.parseImportBindingName()
		p.lexer.ExpectContextualKeyword("from")

	case js_lexer.TOpenBrace:
		// "import {item1, item2} from 'path'"
		items, isSingleLine := p.parseImportClause()
		stmt.Items = &items
		stmt.IsSingleLine = isSingleLine
		p.lexer.ExpectContextualKeyword("from")

	case js_lexer.TIdentifier:
		// "import defaultItem from 'path'"
		stmt.DefaultName = p.parseImportBindingName()

		if p.lexer.Token == js_lexer.TComma {
			p.lexer.Next()
			switch p.lexer.Token {
			case js_lexer.TAsterisk:
				// "import defaultItem, * as ns from 'path'"
				p.lexer.Next()
				p.lexer.ExpectContextualKeyword("as")
				stmt.NamespaceName = p.parseImportBindingName()

			case js_lexer.TOpenBrace:
				// "import defaultItem, {item1, item2} from 'path'"
				items, isSingleLine := p.parseImportClause()
				stmt.Items = &items
				stmt.IsSingleLine = isSingleLine

			default:
				p.lexer.Unexpected()
			}
		}

		p.lexer.ExpectContextualKeyword("from")

	default:
		p.lexer.Unexpected()
	}

	stmt.PathLoc, stmt.Path = p.parsePath()
	p.lexer.ExpectOrInsertSemicolon()
	return js_ast.Stmt{Loc: loc, Data: &stmt}
}

func (p *parser) parseImportBindingName() *js_ast.LocIdent {
	loc := p.lexer.Loc()
	name := p.lexer.Identifier
	p.checkBindingName(p.lexer.Range(), name)
	p.lexer.Expect(js_lexer.TIdentifier)
	return &js_ast.LocIdent{Loc: loc, Ident: js_ast.Ident{Name: name}}
}

func (p *parser) parseImportClause() ([]js_ast.ClauseItem, bool) {
	items := []js_ast.ClauseItem{}
	p.lexer.Expect(js_lexer.TOpenBrace)
	isSingleLine := !p.lexer.HasNewlineBefore

	for p.lexer.Token != js_lexer.TCloseBrace {
		isIdentifier := p.lexer.Token == js_lexer.TIdentifier
		aliasLoc := p.lexer.Loc()
		alias := p.lexer.Identifier
		if !p.lexer.IsIdentifierOrKeyword() {
			p.lexer.Expect(js_lexer.TIdentifier)
		}
		aliasRange := p.lexer.Range()
		p.lexer.Next()

		name := js_ast.LocIdent{Loc: aliasLoc, Ident: js_ast.Ident{Name: alias}}

		if p.lexer.IsContextualKeyword("as") {
			// "import {a as b} from 'path'"
			p.lexer.Next()
			name = *p.parseImportBindingName()
		} else if !isIdentifier {
			// An import where the name is a keyword must have an alias
			p.lexer.ExpectedString("\"as\"")
		} else {
			p.checkBindingName(aliasRange, alias)
		}

		items = append(items, js_ast.ClauseItem{
			Alias:    alias,
			AliasLoc: aliasLoc,
			Name:     name,
		})

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
		if p.lexer.HasNewlineBefore {
			isSingleLine = false
		}
	}

	if p.lexer.HasNewlineBefore {
		isSingleLine = false
	}
	p.lexer.Expect(js_lexer.TCloseBrace)
	return items, isSingleLine
}

func (p *parser) parseExportClause() ([]js_ast.ClauseItem, logger.Range, bool) {
	items := []js_ast.ClauseItem{}
	firstKeywordItemRange := logger.Range{}
	p.lexer.Expect(js_lexer.TOpenBrace)
	isSingleLine := !p.lexer.HasNewlineBefore

	for p.lexer.Token != js_lexer.TCloseBrace {
		alias := p.lexer.Identifier
		aliasLoc := p.lexer.Loc()
		name := js_ast.LocIdent{Loc: aliasLoc, Ident: js_ast.Ident{Name: alias}}

		// The name can actually be a keyword if we're really an "export from"
		// statement. However, we won't know until later. Remember where the
		// first keyword was so we can report an error if it's not.
		if p.lexer.Token != js_lexer.TIdentifier && firstKeywordItemRange.Len == 0 {
			firstKeywordItemRange = p.lexer.Range()
		}
		if !p.lexer.IsIdentifierOrKeyword() {
			p.lexer.Expect(js_lexer.TIdentifier)
		}
		p.lexer.Next()

		if p.lexer.IsContextualKeyword("as") {
			p.lexer.Next()
			alias = p.lexer.Identifier
			aliasLoc = p.lexer.Loc()
			if !p.lexer.IsIdentifierOrKeyword() {
				p.lexer.Expect(js_lexer.TIdentifier)
			}
			p.lexer.Next()
		}

		items = append(items, js_ast.ClauseItem{
			Alias:    alias,
			AliasLoc: aliasLoc,
			Name:     name,
		})

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
		if p.lexer.HasNewlineBefore {
			isSingleLine = false
		}
	}

	if p.lexer.HasNewlineBefore {
		isSingleLine = false
	}
	p.lexer.Expect(js_lexer.TCloseBrace)
	return items, firstKeywordItemRange, isSingleLine
}

func (p *parser) parseExportStmt(loc logger.Loc) js_ast.Stmt {
	exportOpts := parseStmtOpts{isModuleScope: true, allowLexicalDecl: true, isExport: true}

	switch p.lexer.Token {
	case js_lexer.TVar, js_lexer.TConst, js_lexer.TFunction, js_lexer.TClass:
		return p.parseStmt(exportOpts)

	case js_lexer.TIdentifier:
		if p.lexer.IsContextualKeyword("let") || p.lexer.IsContextualKeyword("async") {
			stmt := p.parseStmt(exportOpts)
			switch stmt.Data.(type) {
			case *js_ast.SLocal, *js_ast.SFunction:
				return stmt
			}
			p.log.AddError(&p.source, stmt.Loc, "Expected a declaration after \"export\"")
			panic(js_lexer.LexerPanic{})
		}
		p.lexer.Unexpected()

	case js_lexer.TDefault:
		defaultLoc := p.lexer.Loc()
		p.lexer.Next()
		defaultOpts := parseStmtOpts{isModuleScope: true, allowLexicalDecl: true, isNameOptional: true}

		// "export default async function() {}"
		if p.lexer.IsContextualKeyword("async") {
			asyncRange := p.lexer.Range()
			p.lexer.Next()
			if p.lexer.Token == js_lexer.TFunction && !p.lexer.HasNewlineBefore {
				stmt := p.parseFnStmt(asyncRange.Loc, defaultOpts, true)
				return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{Value: js_ast.ExprOrStmt{Stmt: &stmt}}}
			}
			expr := p.parseSuffix(p.parseAsyncPrefixExpr(asyncRange, js_ast.LComma), js_ast.LComma, nil)
			p.lexer.ExpectOrInsertSemicolon()
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{Value: js_ast.ExprOrStmt{Expr: &expr}}}
		}

		// "export default function() {}"
		// "export default class {}"
		if p.lexer.Token == js_lexer.TFunction || p.lexer.Token == js_lexer.TClass {
			var stmt js_ast.Stmt
			if p.lexer.Token == js_lexer.TFunction {
				stmt = p.parseFnStmt(defaultLoc, defaultOpts, false)
			} else {
				stmt = p.parseClassStmt(defaultLoc, defaultOpts)
			}
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{Value: js_ast.ExprOrStmt{Stmt: &stmt}}}
		}

		// "export default expr"
		expr := p.parseExpr(js_ast.LComma)
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{Value: js_ast.ExprOrStmt{Expr: &expr}}}

	case js_lexer.TAsterisk:
		p.lexer.Next()
		var alias *js_ast.ExportStarAlias

		// "export * as ns from 'path'"
		if p.lexer.IsContextualKeyword("as") {
			p.lexer.Next()
			alias = &js_ast.ExportStarAlias{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
			if !p.lexer.IsIdentifierOrKeyword() {
				p.lexer.Expect(js_lexer.TIdentifier)
			}
			p.lexer.Next()
		}

		// "export * from 'path'"
		p.lexer.ExpectContextualKeyword("from")
		pathLoc, path := p.parsePath()
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportStar{Alias: alias, Path: path, PathLoc: pathLoc}}

	case js_lexer.TOpenBrace:
		items, firstKeywordItemRange, isSingleLine := p.parseExportClause()

		// "export {a, b as c} from 'path'"
		if p.lexer.IsContextualKeyword("from") {
			p.lexer.Next()
			pathLoc, path := p.parsePath()
			for i := range items {
				// These names belong to the other module
				items[i].Name.Ident.Tag = js_ast.InvalidTag
			}
			p.lexer.ExpectOrInsertSemicolon()
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportFrom{
				Items:        items,
				Path:         path,
				PathLoc:      pathLoc,
				IsSingleLine: isSingleLine,
			}}
		}

		// "export {a, b as c}"
		if firstKeywordItemRange.Len > 0 {
			p.log.AddRangeError(&p.source, firstKeywordItemRange, fmt.Sprintf(
				"Expected identifier but found %q", p.source.TextForRange(firstKeywordItemRange)))
			panic(js_lexer.LexerPanic{})
		}
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportClause{Items: items, IsSingleLine: isSingleLine}}
	}

	p.lexer.Unexpected()
	return js_ast.Stmt{}
}
