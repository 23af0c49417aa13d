package js_parser

import (
	"fmt"

	"github.com/yonasBSD/mako/internal/js_ast"
	"github.com/yonasBSD/mako/internal/js_lexer"
	"github.com/yonasBSD/mako/internal/logger"
)

// This is used to record errors that are only errors if the expression turns
// out not to be a binding pattern. For example, "{a = 1}" is only valid as
// the left side of an assignment or as the arguments of an arrow function.
type deferredErrors struct {
	invalidExprDefaultValue logger.Range
}

func (from *deferredErrors) mergeInto(to *deferredErrors) {
	if from.invalidExprDefaultValue.Len > 0 {
		to.invalidExprDefaultValue = from.invalidExprDefaultValue
	}
}

func (p *parser) logExprErrors(errors *deferredErrors) {
	if errors.invalidExprDefaultValue.Len > 0 {
		p.log.AddRangeError(&p.source, errors.invalidExprDefaultValue, "Unexpected \"=\"")
	}
}

// Modules are strict mode code, so the strict mode reserved words can never
// be used as names
func (p *parser) checkBindingName(r logger.Range, name string) {
	switch {
	case name == "eval" || name == "arguments":
		p.log.AddRangeError(&p.source, r, fmt.Sprintf("Cannot declare %q in strict mode", name))
	case name == "await" || js_lexer.StrictModeReservedWords[name]:
		p.log.AddRangeError(&p.source, r, fmt.Sprintf("Cannot use %q as an identifier in strict mode", name))
	}
}

func (p *parser) checkIdentifierReference(r logger.Range, name string) {
	if js_lexer.StrictModeReservedWords[name] {
		p.log.AddRangeError(&p.source, r, fmt.Sprintf("Cannot use %q as an identifier in strict mode", name))
	}
}

func (p *parser) parseExpr(level js_ast.L) js_ast.Expr {
	return p.parseExprCommon(level, nil)
}

func (p *parser) parseExprOrBindings(level js_ast.L, errors *deferredErrors) js_ast.Expr {
	return p.parseExprCommon(level, errors)
}

func (p *parser) parseExprCommon(level js_ast.L, errors *deferredErrors) js_ast.Expr {
	expr := p.parsePrefix(level, errors)
	return p.parseSuffix(expr, level, errors)
}

func (p *parser) parseStringLiteral() js_ast.Expr {
	value := js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EString{
		Value: p.lexer.StringLiteral,
		Quote: p.lexer.StringQuote(),
	}}
	p.lexer.Next()
	return value
}

func (p *parser) parseTemplateParts() (headRaw string, parts []js_ast.TemplatePart) {
	headRaw = p.lexer.RawTemplateContents()
	if p.lexer.Token == js_lexer.TNoSubstitutionTemplateLiteral {
		p.lexer.Next()
		return
	}
	p.lexer.Next()

	// Allow "in" inside template literals
	oldAllowIn := p.allowIn
	p.allowIn = true

	for {
		value := p.parseExpr(js_ast.LLowest)
		tailLoc := p.lexer.Loc()
		p.lexer.RescanCloseBraceAsTemplateToken()
		parts = append(parts, js_ast.TemplatePart{
			Value:   value,
			TailLoc: tailLoc,
			TailRaw: p.lexer.RawTemplateContents(),
		})
		if p.lexer.Token == js_lexer.TTemplateTail {
			p.lexer.Next()
			break
		}
		p.lexer.Next()
	}

	p.allowIn = oldAllowIn
	return
}

func (p *parser) parseCallArgs() []js_ast.Expr {
	// Allow "in" inside call arguments
	oldAllowIn := p.allowIn
	p.allowIn = true

	args := []js_ast.Expr{}
	p.lexer.Expect(js_lexer.TOpenParen)

	for p.lexer.Token != js_lexer.TCloseParen {
		loc := p.lexer.Loc()
		isSpread := p.lexer.Token == js_lexer.TDotDotDot
		if isSpread {
			p.lexer.Next()
		}
		arg := p.parseExpr(js_ast.LComma)
		if isSpread {
			arg = js_ast.Expr{Loc: loc, Data: &js_ast.ESpread{Value: arg}}
		}
		args = append(args, arg)
		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TCloseParen)
	p.allowIn = oldAllowIn
	return args
}

func (p *parser) parseFnExpr(loc logger.Loc, isAsync bool) js_ast.Expr {
	p.lexer.Expect(js_lexer.TFunction)
	isGenerator := p.lexer.Token == js_lexer.TAsterisk
	if isGenerator {
		p.lexer.Next()
	}

	// The name is optional
	var name *js_ast.LocIdent
	if p.lexer.Token == js_lexer.TIdentifier {
		nameLoc := p.lexer.Loc()
		nameText := p.lexer.Identifier
		p.checkBindingName(p.lexer.Range(), nameText)
		p.lexer.Next()
		name = &js_ast.LocIdent{Loc: nameLoc, Ident: js_ast.Ident{Name: nameText}}
	}

	fn := p.parseFn(name, fnOrArrowDataParse{allowAwait: isAsync, allowYield: isGenerator})
	fn.IsAsync = isAsync
	fn.IsGenerator = isGenerator
	return js_ast.Expr{Loc: loc, Data: &js_ast.EFunction{Fn: fn}}
}

func (p *parser) parseArrowBody(args []js_ast.Arg, data fnOrArrowDataParse) *js_ast.EArrow {
	arrowLoc := p.lexer.Loc()

	// Newlines are not allowed before "=>"
	if p.lexer.HasNewlineBefore {
		p.log.AddRangeError(&p.source, p.lexer.Range(), "Unexpected newline before \"=>\"")
		panic(js_lexer.LexerPanic{})
	}

	p.lexer.Expect(js_lexer.TEqualsGreaterThan)

	oldFnOrArrowData := p.fnOrArrowDataParse
	data.allowSuperCall = oldFnOrArrowData.allowSuperCall
	data.allowSuperProperty = oldFnOrArrowData.allowSuperProperty
	p.fnOrArrowDataParse = data
	defer func() { p.fnOrArrowDataParse = oldFnOrArrowData }()

	if p.lexer.Token == js_lexer.TOpenBrace {
		body := p.parseFnBody()
		p.afterArrowBodyLoc = p.lexer.Loc()
		return &js_ast.EArrow{Args: args, Body: body}
	}

	oldJumps := p.jumps
	p.jumps = jumpTargets{}
	expr := p.parseExpr(js_ast.LComma)
	p.jumps = oldJumps

	return &js_ast.EArrow{
		Args:       args,
		PreferExpr: true,
		Body: js_ast.FnBody{Loc: arrowLoc, Stmts: []js_ast.Stmt{
			{Loc: expr.Loc, Data: &js_ast.SReturn{Value: &expr}},
		}},
	}
}

// This parses everything after "async" when it's used as a prefix
func (p *parser) parseAsyncPrefixExpr(asyncRange logger.Range, level js_ast.L) js_ast.Expr {
	// "async function() {}"
	if !p.lexer.HasNewlineBefore && p.lexer.Token == js_lexer.TFunction {
		return p.parseFnExpr(asyncRange.Loc, true)
	}

	// Check the precedence level to avoid parsing an arrow function in
	// "new async () => {}". This also avoids parsing "new async()" as
	// "new (async())()" instead.
	if !p.lexer.HasNewlineBefore && level < js_ast.LMember {
		switch p.lexer.Token {
		// "async => {}"
		case js_lexer.TEqualsGreaterThan:
			if level <= js_ast.LAssign {
				arg := js_ast.Arg{Binding: js_ast.Binding{Loc: asyncRange.Loc, Data: &js_ast.BIdentifier{
					Ident: js_ast.Ident{Name: "async"},
				}}}
				return js_ast.Expr{Loc: asyncRange.Loc, Data: p.parseArrowBody([]js_ast.Arg{arg}, fnOrArrowDataParse{})}
			}

		// "async x => {}"
		case js_lexer.TIdentifier:
			if level <= js_ast.LAssign {
				nameLoc := p.lexer.Loc()
				name := p.lexer.Identifier
				p.checkBindingName(p.lexer.Range(), name)
				p.lexer.Next()
				if p.lexer.Token != js_lexer.TEqualsGreaterThan {
					p.lexer.Expected(js_lexer.TEqualsGreaterThan)
				}
				arg := js_ast.Arg{Binding: js_ast.Binding{Loc: nameLoc, Data: &js_ast.BIdentifier{
					Ident: js_ast.Ident{Name: name},
				}}}
				arrow := p.parseArrowBody([]js_ast.Arg{arg}, fnOrArrowDataParse{allowAwait: true})
				arrow.IsAsync = true
				return js_ast.Expr{Loc: asyncRange.Loc, Data: arrow}
			}

		// "async()"
		// "async () => {}"
		case js_lexer.TOpenParen:
			p.lexer.Next()
			return p.parseParenExpr(asyncRange.Loc, level, true)
		}
	}

	// "async"
	// "async + 1"
	return js_ast.Expr{Loc: asyncRange.Loc, Data: &js_ast.EIdentifier{Ident: js_ast.Ident{Name: "async"}}}
}

// This assumes the "(" has already been parsed
func (p *parser) parseParenExpr(loc logger.Loc, level js_ast.L, isAsync bool) js_ast.Expr {
	items := []js_ast.Expr{}
	errors := deferredErrors{}
	spreadRange := logger.Range{}
	commaAfterSpread := logger.Loc{}

	// Allow "in" inside parentheses
	oldAllowIn := p.allowIn
	p.allowIn = true

	// Scan over the comma-separated arguments or expressions
	for p.lexer.Token != js_lexer.TCloseParen {
		itemLoc := p.lexer.Loc()
		isSpread := p.lexer.Token == js_lexer.TDotDotDot

		if isSpread {
			spreadRange = p.lexer.Range()
			p.lexer.Next()
		}

		// We don't know yet whether these are arguments or expressions, so parse
		// a superset of the expression syntax. Errors about things that are valid
		// in one but not in the other are deferred.
		item := p.parseExprOrBindings(js_ast.LComma, &errors)

		if isSpread {
			item = js_ast.Expr{Loc: itemLoc, Data: &js_ast.ESpread{Value: item}}
		}

		items = append(items, item)
		if p.lexer.Token != js_lexer.TComma {
			break
		}

		// Spread arguments must come last. If there's a spread argument followed
		// by a comma, throw an error if we use these expressions as bindings.
		if isSpread {
			commaAfterSpread = p.lexer.Loc()
		}

		// Eat the comma token
		p.lexer.Next()
	}

	// The parenthetical construct must end with a close parenthesis
	p.lexer.Expect(js_lexer.TCloseParen)

	// Restore "in" operator status before we parse the arrow function body
	p.allowIn = oldAllowIn

	// Are these arguments to an arrow function?
	if p.lexer.Token == js_lexer.TEqualsGreaterThan {
		// Arrow functions are not allowed inside certain expressions
		if level > js_ast.LAssign {
			p.lexer.Unexpected()
		}

		if commaAfterSpread.Start != 0 {
			p.log.AddRangeError(&p.source, logger.Range{Loc: commaAfterSpread, Len: 1}, "Unexpected \",\" after rest pattern")
		}

		var invalidLog []logger.Range
		args := []js_ast.Arg{}

		// First, try converting the expressions to bindings
		for _, item := range items {
			isSpread := false
			if spread, ok := item.Data.(*js_ast.ESpread); ok {
				item = spread.Value
				isSpread = true
			}
			binding, initializer, log := p.convertExprToBindingAndInitializer(item, invalidLog, isSpread)
			invalidLog = log
			args = append(args, js_ast.Arg{Binding: binding, Default: initializer})
		}

		// Now that we've decided we're an arrow function, report binding pattern
		// conversion errors
		if len(invalidLog) > 0 {
			for _, r := range invalidLog {
				p.log.AddRangeError(&p.source, r, "Invalid binding pattern")
			}
			panic(js_lexer.LexerPanic{})
		}

		arrow := p.parseArrowBody(args, fnOrArrowDataParse{allowAwait: isAsync})
		arrow.IsAsync = isAsync
		arrow.HasRestArg = spreadRange.Len > 0
		return js_ast.Expr{Loc: loc, Data: arrow}
	}

	// Are these arguments for a call to a function named "async"?
	if isAsync {
		p.logExprErrors(&errors)
		async := js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Ident: js_ast.Ident{Name: "async"}}}
		return js_ast.Expr{Loc: loc, Data: &js_ast.ECall{
			Target: async,
			Args:   items,
		}}
	}

	// Is this a chain of expressions and comma operators?
	if len(items) > 0 {
		p.logExprErrors(&errors)
		if spreadRange.Len > 0 {
			p.log.AddRangeError(&p.source, spreadRange, "Unexpected \"...\"")
			panic(js_lexer.LexerPanic{})
		}
		value := items[0]
		for _, item := range items[1:] {
			value = js_ast.Expr{Loc: value.Loc, Data: &js_ast.EBinary{Op: js_ast.BinOpComma, Left: value, Right: item}}
		}
		return value
	}

	// Indicate that we expected an arrow function
	p.lexer.Expected(js_lexer.TEqualsGreaterThan)
	return js_ast.Expr{}
}

func (p *parser) convertExprToBindingAndInitializer(
	expr js_ast.Expr, invalidLog []logger.Range, isSpread bool,
) (js_ast.Binding, *js_ast.Expr, []logger.Range) {
	var initializer *js_ast.Expr
	if assign, ok := expr.Data.(*js_ast.EBinary); ok && assign.Op == js_ast.BinOpAssign {
		right := assign.Right
		initializer = &right
		expr = assign.Left
	}
	binding, invalidLog := p.convertExprToBinding(expr, invalidLog)
	if initializer != nil && isSpread {
		p.log.AddError(&p.source, initializer.Loc, "A rest argument cannot have a default initializer")
	}
	return binding, initializer, invalidLog
}

// Note: do not write to "p.log" in this function. Any errors due to conversion
// from expression to binding should be written to "invalidLog" instead. That
// way we can potentially keep this as an expression if it turns out it's not
// needed as a binding after all.
func (p *parser) convertExprToBinding(expr js_ast.Expr, invalidLog []logger.Range) (js_ast.Binding, []logger.Range) {
	switch e := expr.Data.(type) {
	case *js_ast.EMissing:
		return js_ast.Binding{Loc: expr.Loc, Data: &js_ast.BMissing{}}, invalidLog

	case *js_ast.EIdentifier:
		return js_ast.Binding{Loc: expr.Loc, Data: &js_ast.BIdentifier{Ident: e.Ident}}, invalidLog

	case *js_ast.EArray:
		items := []js_ast.ArrayBinding{}
		isSpread := false
		for _, item := range e.Items {
			if i, ok := item.Data.(*js_ast.ESpread); ok {
				isSpread = true
				item = i.Value
			}
			binding, initializer, log := p.convertExprToBindingAndInitializer(item, invalidLog, isSpread)
			invalidLog = log
			items = append(items, js_ast.ArrayBinding{Binding: binding, DefaultValue: initializer})
		}
		return js_ast.Binding{Loc: expr.Loc, Data: &js_ast.BArray{
			Items:        items,
			HasSpread:    isSpread,
			IsSingleLine: e.IsSingleLine,
		}}, invalidLog

	case *js_ast.EObject:
		properties := []js_ast.PropertyBinding{}
		for _, item := range e.Properties {
			if item.IsMethod || item.Kind == js_ast.PropertyGet || item.Kind == js_ast.PropertySet {
				invalidLog = append(invalidLog, js_lexer.RangeOfIdentifier(p.source, item.Key.Loc))
				continue
			}
			binding, initializer, log := p.convertExprToBindingAndInitializer(*item.Value, invalidLog, false)
			invalidLog = log
			if initializer == nil {
				initializer = item.Initializer
			}
			properties = append(properties, js_ast.PropertyBinding{
				IsSpread:     item.Kind == js_ast.PropertySpread,
				IsComputed:   item.IsComputed,
				Key:          item.Key,
				Value:        binding,
				DefaultValue: initializer,
			})
		}
		return js_ast.Binding{Loc: expr.Loc, Data: &js_ast.BObject{
			Properties:   properties,
			IsSingleLine: e.IsSingleLine,
		}}, invalidLog

	default:
		invalidLog = append(invalidLog, logger.Range{Loc: expr.Loc})
		return js_ast.Binding{}, invalidLog
	}
}

func (p *parser) parseBinding() js_ast.Binding {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TIdentifier:
		name := p.lexer.Identifier
		p.checkBindingName(p.lexer.Range(), name)
		p.lexer.Next()
		return js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Ident: js_ast.Ident{Name: name}}}

	case js_lexer.TOpenBracket:
		p.lexer.Next()
		isSingleLine := !p.lexer.HasNewlineBefore
		items := []js_ast.ArrayBinding{}
		hasSpread := false

		// "in" expressions are allowed
		oldAllowIn := p.allowIn
		p.allowIn = true

		for p.lexer.Token != js_lexer.TCloseBracket {
			if p.lexer.Token == js_lexer.TComma {
				binding := js_ast.Binding{Loc: p.lexer.Loc(), Data: &js_ast.BMissing{}}
				items = append(items, js_ast.ArrayBinding{Binding: binding})
			} else {
				if p.lexer.Token == js_lexer.TDotDotDot {
					p.lexer.Next()
					hasSpread = true
				}

				binding := p.parseBinding()

				var defaultValue *js_ast.Expr
				if !hasSpread && p.lexer.Token == js_lexer.TEquals {
					p.lexer.Next()
					value := p.parseExpr(js_ast.LComma)
					defaultValue = &value
				}

				items = append(items, js_ast.ArrayBinding{Binding: binding, DefaultValue: defaultValue})

				// Commas after spread elements are not allowed
				if hasSpread && p.lexer.Token == js_lexer.TComma {
					p.log.AddRangeError(&p.source, p.lexer.Range(), "Unexpected \",\" after rest pattern")
					panic(js_lexer.LexerPanic{})
				}
			}

			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
			if p.lexer.HasNewlineBefore {
				isSingleLine = false
			}
		}

		p.allowIn = oldAllowIn

		if p.lexer.HasNewlineBefore {
			isSingleLine = false
		}
		p.lexer.Expect(js_lexer.TCloseBracket)
		return js_ast.Binding{Loc: loc, Data: &js_ast.BArray{
			Items:        items,
			HasSpread:    hasSpread,
			IsSingleLine: isSingleLine,
		}}

	case js_lexer.TOpenBrace:
		p.lexer.Next()
		isSingleLine := !p.lexer.HasNewlineBefore
		properties := []js_ast.PropertyBinding{}

		// "in" expressions are allowed
		oldAllowIn := p.allowIn
		p.allowIn = true

		for p.lexer.Token != js_lexer.TCloseBrace {
			property := p.parsePropertyBinding()
			properties = append(properties, property)

			// Commas after spread elements are not allowed
			if property.IsSpread && p.lexer.Token == js_lexer.TComma {
				p.log.AddRangeError(&p.source, p.lexer.Range(), "Unexpected \",\" after rest pattern")
				panic(js_lexer.LexerPanic{})
			}

			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
			if p.lexer.HasNewlineBefore {
				isSingleLine = false
			}
		}

		p.allowIn = oldAllowIn

		if p.lexer.HasNewlineBefore {
			isSingleLine = false
		}
		p.lexer.Expect(js_lexer.TCloseBrace)
		return js_ast.Binding{Loc: loc, Data: &js_ast.BObject{
			Properties:   properties,
			IsSingleLine: isSingleLine,
		}}
	}

	p.lexer.Expect(js_lexer.TIdentifier)
	return js_ast.Binding{}
}

func (p *parser) parsePropertyBinding() js_ast.PropertyBinding {
	var key js_ast.Expr
	isComputed := false

	switch p.lexer.Token {
	case js_lexer.TDotDotDot:
		p.lexer.Next()
		loc := p.lexer.Loc()
		name := p.lexer.Identifier
		p.checkBindingName(p.lexer.Range(), name)
		p.lexer.Expect(js_lexer.TIdentifier)
		return js_ast.PropertyBinding{
			IsSpread: true,
			Key:      js_ast.Expr{Loc: loc, Data: &js_ast.EMissing{}},
			Value:    js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Ident: js_ast.Ident{Name: name}}},
		}

	case js_lexer.TNumericLiteral:
		key = js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.ENumber{Value: p.lexer.Number}}
		p.lexer.Next()

	case js_lexer.TStringLiteral:
		key = p.parseStringLiteral()

	case js_lexer.TBigIntegerLiteral:
		key = js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EBigInt{Value: p.lexer.Identifier}}
		p.lexer.Next()

	case js_lexer.TOpenBracket:
		isComputed = true
		p.lexer.Next()
		key = p.parseExpr(js_ast.LComma)
		p.lexer.Expect(js_lexer.TCloseBracket)

	default:
		name := p.lexer.Identifier
		loc := p.lexer.Loc()
		nameRange := p.lexer.Range()
		isIdentifier := p.lexer.Token == js_lexer.TIdentifier
		if !p.lexer.IsIdentifierOrKeyword() {
			p.lexer.Expect(js_lexer.TIdentifier)
		}
		p.lexer.Next()
		key = js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: name}}

		// "{a}" and "{a = 1}"
		if p.lexer.Token != js_lexer.TColon {
			if !isIdentifier {
				p.lexer.Expect(js_lexer.TColon)
			}
			p.checkBindingName(nameRange, name)
			value := js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Ident: js_ast.Ident{Name: name}}}

			var defaultValue *js_ast.Expr
			if p.lexer.Token == js_lexer.TEquals {
				p.lexer.Next()
				expr := p.parseExpr(js_ast.LComma)
				defaultValue = &expr
			}

			return js_ast.PropertyBinding{
				Key:          key,
				Value:        value,
				DefaultValue: defaultValue,
			}
		}
	}

	p.lexer.Expect(js_lexer.TColon)
	value := p.parseBinding()

	var defaultValue *js_ast.Expr
	if p.lexer.Token == js_lexer.TEquals {
		p.lexer.Next()
		expr := p.parseExpr(js_ast.LComma)
		defaultValue = &expr
	}

	return js_ast.PropertyBinding{
		IsComputed:   isComputed,
		Key:          key,
		Value:        value,
		DefaultValue: defaultValue,
	}
}

type propertyOpts struct {
	isAsync        bool
	isGenerator    bool
	isStatic       bool
	isClass        bool
	isDerivedClass bool
}

func (p *parser) keyNameForError(key js_ast.Expr) string {
	switch k := key.Data.(type) {
	case *js_ast.EString:
		return fmt.Sprintf("%q", k.Value)
	case *js_ast.EPrivateIdentifier:
		return fmt.Sprintf("%q", k.Name)
	}
	return "property"
}

func (p *parser) parseProperty(kind js_ast.PropertyKind, opts propertyOpts, errors *deferredErrors) js_ast.Property {
	var key js_ast.Expr
	keyRange := p.lexer.Range()
	isComputed := false

	switch p.lexer.Token {
	case js_lexer.TNumericLiteral:
		key = js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.ENumber{Value: p.lexer.Number}}
		p.lexer.Next()

	case js_lexer.TStringLiteral:
		key = p.parseStringLiteral()

	case js_lexer.TBigIntegerLiteral:
		key = js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EBigInt{Value: p.lexer.Identifier}}
		p.lexer.Next()

	case js_lexer.TPrivateIdentifier:
		if !opts.isClass {
			p.lexer.Expected(js_lexer.TIdentifier)
		}
		key = js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EPrivateIdentifier{Name: p.lexer.Identifier}}
		p.lexer.Next()

	case js_lexer.TOpenBracket:
		isComputed = true
		p.lexer.Next()

		// Allow "in" inside property names
		oldAllowIn := p.allowIn
		p.allowIn = true
		key = p.parseExpr(js_ast.LComma)
		p.allowIn = oldAllowIn

		p.lexer.Expect(js_lexer.TCloseBracket)

	case js_lexer.TAsterisk:
		if kind != js_ast.PropertyNormal || opts.isGenerator {
			p.lexer.Unexpected()
		}
		p.lexer.Next()
		opts.isGenerator = true
		return p.parseProperty(js_ast.PropertyNormal, opts, errors)

	default:
		name := p.lexer.Identifier
		raw := p.lexer.Raw()
		nameRange := p.lexer.Range()
		if !p.lexer.IsIdentifierOrKeyword() {
			p.lexer.Expect(js_lexer.TIdentifier)
		}
		p.lexer.Next()

		// Support contextual keywords
		if kind == js_ast.PropertyNormal && !opts.isGenerator {
			// Does the following token look like a key?
			couldBeModifierKeyword := p.lexer.IsIdentifierOrKeyword()
			if !couldBeModifierKeyword {
				switch p.lexer.Token {
				case js_lexer.TOpenBracket, js_lexer.TNumericLiteral, js_lexer.TStringLiteral,
					js_lexer.TAsterisk, js_lexer.TPrivateIdentifier, js_lexer.TBigIntegerLiteral:
					couldBeModifierKeyword = true
				}
			}

			// If so, check for a modifier keyword
			if couldBeModifierKeyword && raw == name {
				switch name {
				case "get":
					if !opts.isAsync {
						return p.parseProperty(js_ast.PropertyGet, opts, nil)
					}

				case "set":
					if !opts.isAsync {
						return p.parseProperty(js_ast.PropertySet, opts, nil)
					}

				case "async":
					if !opts.isAsync && !p.lexer.HasNewlineBefore {
						opts.isAsync = true
						return p.parseProperty(kind, opts, nil)
					}

				case "static":
					if !opts.isStatic && !opts.isAsync && opts.isClass {
						opts.isStatic = true
						return p.parseProperty(kind, opts, nil)
					}
				}
			}
		}

		key = js_ast.Expr{Loc: nameRange.Loc, Data: &js_ast.EString{Value: name}}

		// Parse a shorthand property
		if !opts.isClass && kind == js_ast.PropertyNormal && p.lexer.Token != js_lexer.TColon &&
			p.lexer.Token != js_lexer.TOpenParen && !opts.isGenerator && !opts.isAsync &&
			js_lexer.Keywords[name] == 0 {
			if name == "await" && p.fnOrArrowDataParse.allowAwait {
				p.log.AddRangeError(&p.source, nameRange, "Cannot use \"await\" as an identifier here")
			}
			p.checkIdentifierReference(nameRange, name)
			value := js_ast.Expr{Loc: key.Loc, Data: &js_ast.EIdentifier{Ident: js_ast.Ident{Name: name}}}

			// Destructuring patterns have an optional default value
			var initializer *js_ast.Expr
			if errors != nil && p.lexer.Token == js_lexer.TEquals {
				errors.invalidExprDefaultValue = p.lexer.Range()
				p.lexer.Next()
				expr := p.parseExpr(js_ast.LComma)
				initializer = &expr
			}

			return js_ast.Property{
				Kind:         kind,
				Key:          key,
				Value:        &value,
				Initializer:  initializer,
				WasShorthand: true,
			}
		}
	}

	// Parse a class field with an optional initial value
	if opts.isClass && kind == js_ast.PropertyNormal && !opts.isAsync &&
		!opts.isGenerator && p.lexer.Token != js_lexer.TOpenParen {
		var initializer *js_ast.Expr
		if p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			oldFnOrArrowData := p.fnOrArrowDataParse
			p.fnOrArrowDataParse = fnOrArrowDataParse{allowSuperProperty: true}
			expr := p.parseExpr(js_ast.LComma)
			p.fnOrArrowDataParse = oldFnOrArrowData
			initializer = &expr
		}
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Property{
			Key:         key,
			Initializer: initializer,
			IsComputed:  isComputed,
			IsStatic:    opts.isStatic,
		}
	}

	// Parse a method expression
	if p.lexer.Token == js_lexer.TOpenParen || kind != js_ast.PropertyNormal ||
		opts.isClass || opts.isAsync || opts.isGenerator {
		loc := p.lexer.Loc()
		// Only the constructor of a class with "extends" may call "super()"
		isConstructor := false
		if str, ok := key.Data.(*js_ast.EString); ok && opts.isClass && !isComputed && !opts.isStatic {
			isConstructor = str.Value == "constructor"
		}
		fn := p.parseFn(nil, fnOrArrowDataParse{
			allowAwait:         opts.isAsync,
			allowYield:         opts.isGenerator,
			allowSuperCall:     isConstructor && opts.isDerivedClass,
			allowSuperProperty: true,
		})
		fn.IsAsync = opts.isAsync
		fn.IsGenerator = opts.isGenerator

		switch kind {
		case js_ast.PropertyGet:
			if len(fn.Args) > 0 {
				p.log.AddRangeError(&p.source, keyRange, fmt.Sprintf(
					"Getter %s must have zero arguments", p.keyNameForError(key)))
			}

		case js_ast.PropertySet:
			if len(fn.Args) != 1 {
				p.log.AddRangeError(&p.source, keyRange, fmt.Sprintf(
					"Setter %s must have exactly one argument", p.keyNameForError(key)))
			}
		}

		value := js_ast.Expr{Loc: loc, Data: &js_ast.EFunction{Fn: fn}}
		return js_ast.Property{
			Kind:       kind,
			Key:        key,
			Value:      &value,
			IsComputed: isComputed,
			IsMethod:   true,
			IsStatic:   opts.isStatic,
		}
	}

	// Parse an object key/value pair
	p.lexer.Expect(js_lexer.TColon)
	value := p.parseExprOrBindings(js_ast.LComma, errors)
	return js_ast.Property{
		Kind:       kind,
		Key:        key,
		Value:      &value,
		IsComputed: isComputed,
	}
}

func (p *parser) parseImportExpr(loc logger.Loc, level js_ast.L) js_ast.Expr {
	// Parse an "import.meta" expression
	if p.lexer.Token == js_lexer.TDot {
		p.lexer.Next()
		if !p.lexer.IsContextualKeyword("meta") {
			p.lexer.ExpectedString("\"meta\"")
		}
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EImportMeta{}}
	}

	if level > js_ast.LCall {
		r := js_lexer.RangeOfIdentifier(p.source, loc)
		p.log.AddRangeError(&p.source, r, "Cannot use an \"import\" expression here without parentheses")
	}

	// Allow "in" inside call arguments
	oldAllowIn := p.allowIn
	p.allowIn = true

	p.lexer.Expect(js_lexer.TOpenParen)
	value := p.parseExpr(js_ast.LComma)
	p.lexer.Expect(js_lexer.TCloseParen)

	p.allowIn = oldAllowIn
	return js_ast.Expr{Loc: loc, Data: &js_ast.EImportCall{Expr: value}}
}

func (p *parser) parseYieldExpr(loc logger.Loc) js_ast.Expr {
	// Parse a yield-from expression, which yields from an iterator
	isStar := p.lexer.Token == js_lexer.TAsterisk
	if isStar {
		if p.lexer.HasNewlineBefore {
			p.lexer.Unexpected()
		}
		p.lexer.Next()
	}

	var value *js_ast.Expr

	// The yield expression only has a value in certain cases
	switch p.lexer.Token {
	case js_lexer.TCloseBrace, js_lexer.TCloseBracket, js_lexer.TCloseParen,
		js_lexer.TColon, js_lexer.TComma, js_lexer.TSemicolon:

	default:
		if isStar || !p.lexer.HasNewlineBefore {
			expr := p.parseExpr(js_ast.LYield)
			value = &expr
		}
	}

	return js_ast.Expr{Loc: loc, Data: &js_ast.EYield{Value: value, IsStar: isStar}}
}

func (p *parser) isValidAssignmentTarget(expr js_ast.Expr, allowPattern bool) bool {
	switch e := expr.Data.(type) {
	case *js_ast.EIdentifier:
		return true

	case *js_ast.EDot:
		return e.OptionalChain == js_ast.OptionalChainNone

	case *js_ast.EIndex:
		return e.OptionalChain == js_ast.OptionalChainNone

	case *js_ast.EArray:
		if !allowPattern {
			return false
		}
		for _, item := range e.Items {
			if spread, ok := item.Data.(*js_ast.ESpread); ok {
				item = spread.Value
			} else if assign, ok := item.Data.(*js_ast.EBinary); ok && assign.Op == js_ast.BinOpAssign {
				item = assign.Left
			}
			if _, ok := item.Data.(*js_ast.EMissing); !ok && !p.isValidAssignmentTarget(item, true) {
				return false
			}
		}
		return true

	case *js_ast.EObject:
		if !allowPattern {
			return false
		}
		for _, property := range e.Properties {
			if property.IsMethod || property.Kind == js_ast.PropertyGet || property.Kind == js_ast.PropertySet {
				return false
			}
			value := *property.Value
			if assign, ok := value.Data.(*js_ast.EBinary); ok && assign.Op == js_ast.BinOpAssign {
				value = assign.Left
			}
			if !p.isValidAssignmentTarget(value, property.Kind != js_ast.PropertySpread) {
				return false
			}
		}
		return true
	}

	return false
}

func (p *parser) checkAssignTarget(expr js_ast.Expr, allowPattern bool) {
	if !p.isValidAssignmentTarget(expr, allowPattern) {
		p.log.AddError(&p.source, expr.Loc, "Invalid assignment target")
	}
}

func (p *parser) parsePrefix(level js_ast.L, errors *deferredErrors) js_ast.Expr {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TSuper:
		superRange := p.lexer.Range()
		p.lexer.Next()

		isValid := false
		switch p.lexer.Token {
		case js_lexer.TOpenParen:
			isValid = p.fnOrArrowDataParse.allowSuperCall
		case js_lexer.TDot, js_lexer.TOpenBracket:
			isValid = p.fnOrArrowDataParse.allowSuperProperty
		}
		if !isValid {
			p.log.AddRangeError(&p.source, superRange, "Unexpected \"super\"")
			panic(js_lexer.LexerPanic{})
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.ESuper{}}

	case js_lexer.TOpenParen:
		p.lexer.Next()

		// Arrow functions aren't allowed in the middle of expressions
		if level > js_ast.LAssign {
			// Allow "in" inside parentheses
			oldAllowIn := p.allowIn
			p.allowIn = true

			value := p.parseExpr(js_ast.LLowest)
			p.lexer.Expect(js_lexer.TCloseParen)

			p.allowIn = oldAllowIn
			return value
		}

		return p.parseParenExpr(loc, level, false)

	case js_lexer.TFalse:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: false}}

	case js_lexer.TTrue:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: true}}

	case js_lexer.TNull:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENull{}}

	case js_lexer.TThis:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EThis{}}

	case js_lexer.TPrivateIdentifier:
		// "#x in y" is the only place a private name can start an expression
		nameRange := p.lexer.Range()
		name := p.lexer.Identifier
		p.lexer.Next()
		if p.lexer.Token != js_lexer.TIn || level >= js_ast.LCompare {
			p.log.AddRangeError(&p.source, nameRange, fmt.Sprintf("Unexpected %q", name))
			panic(js_lexer.LexerPanic{})
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EPrivateIdentifier{Name: name}}

	case js_lexer.TIdentifier:
		name := p.lexer.Identifier
		nameRange := p.lexer.Range()
		raw := p.lexer.Raw()
		p.lexer.Next()

		// Handle async and await expressions
		switch name {
		case "async":
			if raw == "async" {
				return p.parseAsyncPrefixExpr(nameRange, level)
			}

		case "await":
			if raw != "await" {
				p.log.AddRangeError(&p.source, nameRange, "The keyword \"await\" cannot be escaped")
			} else if !p.fnOrArrowDataParse.allowAwait {
				p.log.AddRangeError(&p.source, nameRange, "Cannot use \"await\" outside an async function")
			}
			value := p.parseExpr(js_ast.LPrefix)
			if p.lexer.Token == js_lexer.TAsteriskAsterisk {
				p.lexer.Unexpected()
			}
			return js_ast.Expr{Loc: loc, Data: &js_ast.EAwait{Value: value}}

		case "yield":
			if p.fnOrArrowDataParse.allowYield {
				if raw != "yield" {
					p.log.AddRangeError(&p.source, nameRange, "The keyword \"yield\" cannot be escaped")
				} else if level > js_ast.LAssign {
					p.log.AddRangeError(&p.source, nameRange, "Cannot use a \"yield\" expression here without parentheses")
				}
				return p.parseYieldExpr(loc)
			}
		}

		// Handle the start of an arrow function
		if p.lexer.Token == js_lexer.TEqualsGreaterThan && level <= js_ast.LAssign {
			p.checkBindingName(nameRange, name)
			arg := js_ast.Arg{Binding: js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Ident: js_ast.Ident{Name: name}}}}
			return js_ast.Expr{Loc: loc, Data: p.parseArrowBody([]js_ast.Arg{arg}, fnOrArrowDataParse{})}
		}

		p.checkIdentifierReference(nameRange, name)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Ident: js_ast.Ident{Name: name}}}

	case js_lexer.TStringLiteral:
		return p.parseStringLiteral()

	case js_lexer.TNoSubstitutionTemplateLiteral, js_lexer.TTemplateHead:
		headRaw, parts := p.parseTemplateParts()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ETemplate{HeadRaw: headRaw, Parts: parts}}

	case js_lexer.TNumericLiteral:
		value := p.lexer.Number
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENumber{Value: value}}

	case js_lexer.TBigIntegerLiteral:
		value := p.lexer.Identifier
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBigInt{Value: value}}

	case js_lexer.TSlash, js_lexer.TSlashEquals:
		p.lexer.ScanRegExp()
		value := p.lexer.Raw()
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ERegExp{Value: value}}

	case js_lexer.TVoid:
		return p.parseUnaryExpr(loc, js_ast.UnOpVoid)

	case js_lexer.TTypeof:
		return p.parseUnaryExpr(loc, js_ast.UnOpTypeof)

	case js_lexer.TDelete:
		value := p.parseUnaryExpr(loc, js_ast.UnOpDelete)
		target := value.Data.(*js_ast.EUnary).Value
		if _, ok := target.Data.(*js_ast.EIdentifier); ok {
			r := js_lexer.RangeOfIdentifier(p.source, target.Loc)
			p.log.AddRangeError(&p.source, r, "Delete of a bare identifier cannot be used in strict mode")
		}
		return value

	case js_lexer.TPlus:
		return p.parseUnaryExpr(loc, js_ast.UnOpPos)

	case js_lexer.TMinus:
		return p.parseUnaryExpr(loc, js_ast.UnOpNeg)

	case js_lexer.TTilde:
		return p.parseUnaryExpr(loc, js_ast.UnOpCpl)

	case js_lexer.TExclamation:
		return p.parseUnaryExpr(loc, js_ast.UnOpNot)

	case js_lexer.TMinusMinus:
		p.lexer.Next()
		value := p.parseExpr(js_ast.LPrefix)
		p.checkAssignTarget(value, false)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPreDec, Value: value}}

	case js_lexer.TPlusPlus:
		p.lexer.Next()
		value := p.parseExpr(js_ast.LPrefix)
		p.checkAssignTarget(value, false)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPreInc, Value: value}}

	case js_lexer.TFunction:
		return p.parseFnExpr(loc, false)

	case js_lexer.TClass:
		p.lexer.Next()
		var name *js_ast.LocIdent
		if p.lexer.Token == js_lexer.TIdentifier {
			nameText := p.lexer.Identifier
			p.checkBindingName(p.lexer.Range(), nameText)
			name = &js_ast.LocIdent{Loc: p.lexer.Loc(), Ident: js_ast.Ident{Name: nameText}}
			p.lexer.Next()
		}
		class := p.parseClass(name)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EClass{Class: class}}

	case js_lexer.TNew:
		p.lexer.Next()

		// Special-case the weird "new.target" expression here
		if p.lexer.Token == js_lexer.TDot {
			p.lexer.Next()
			if !p.lexer.IsContextualKeyword("target") {
				p.lexer.Unexpected()
			}
			p.lexer.Next()
			return js_ast.Expr{Loc: loc, Data: &js_ast.ENewTarget{}}
		}

		target := p.parseExpr(js_ast.LMember)
		args := []js_ast.Expr{}
		if p.lexer.Token == js_lexer.TOpenParen {
			args = p.parseCallArgs()
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENew{Target: target, Args: args}}

	case js_lexer.TOpenBracket:
		p.lexer.Next()
		isSingleLine := !p.lexer.HasNewlineBefore
		items := []js_ast.Expr{}
		selfErrors := deferredErrors{}

		// Allow "in" inside arrays
		oldAllowIn := p.allowIn
		p.allowIn = true

		for p.lexer.Token != js_lexer.TCloseBracket {
			switch p.lexer.Token {
			case js_lexer.TComma:
				items = append(items, js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EMissing{}})

			case js_lexer.TDotDotDot:
				dotsLoc := p.lexer.Loc()
				p.lexer.Next()
				item := p.parseExprOrBindings(js_ast.LComma, &selfErrors)
				items = append(items, js_ast.Expr{Loc: dotsLoc, Data: &js_ast.ESpread{Value: item}})

			default:
				item := p.parseExprOrBindings(js_ast.LComma, &selfErrors)
				items = append(items, item)
			}

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
		p.lexer.Expect(js_lexer.TCloseBracket)
		p.allowIn = oldAllowIn

		p.handleSelfErrors(&selfErrors, errors)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EArray{Items: items, IsSingleLine: isSingleLine}}

	case js_lexer.TOpenBrace:
		p.lexer.Next()
		isSingleLine := !p.lexer.HasNewlineBefore
		properties := []js_ast.Property{}
		selfErrors := deferredErrors{}

		// Allow "in" inside object literals
		oldAllowIn := p.allowIn
		p.allowIn = true

		for p.lexer.Token != js_lexer.TCloseBrace {
			if p.lexer.Token == js_lexer.TDotDotDot {
				p.lexer.Next()
				value := p.parseExprOrBindings(js_ast.LComma, &selfErrors)
				properties = append(properties, js_ast.Property{
					Kind:  js_ast.PropertySpread,
					Key:   js_ast.Expr{Loc: value.Loc, Data: &js_ast.EMissing{}},
					Value: &value,
				})
			} else {
				property := p.parseProperty(js_ast.PropertyNormal, propertyOpts{}, &selfErrors)
				properties = append(properties, property)
			}

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
		p.allowIn = oldAllowIn

		p.handleSelfErrors(&selfErrors, errors)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EObject{Properties: properties, IsSingleLine: isSingleLine}}

	case js_lexer.TImport:
		p.lexer.Next()
		return p.parseImportExpr(loc, level)

	case js_lexer.TEscapedKeyword:
		p.log.AddRangeError(&p.source, p.lexer.Range(), "Keywords cannot contain escape characters")
		panic(js_lexer.LexerPanic{})
	}

	p.lexer.Unexpected()
	return js_ast.Expr{}
}

// Array and object literals only keep their deferred errors if they might
// still turn into a binding pattern
func (p *parser) handleSelfErrors(selfErrors *deferredErrors, errors *deferredErrors) {
	switch {
	case p.lexer.Token == js_lexer.TEquals:
		// This is a destructuring assignment, so the errors don't apply
	case errors != nil:
		selfErrors.mergeInto(errors)
	default:
		p.logExprErrors(selfErrors)
	}
}

func (p *parser) parseUnaryExpr(loc logger.Loc, op js_ast.OpCode) js_ast.Expr {
	p.lexer.Next()
	value := p.parseExpr(js_ast.LPrefix)

	// "-a ** b" is ambiguous and is a syntax error
	if p.lexer.Token == js_lexer.TAsteriskAsterisk {
		p.lexer.Unexpected()
	}
	return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: op, Value: value}}
}

// Binary and assignment operators without special parsing rules. Each one
// binds at the level "js_ast.OpTable" gives it.
var binaryOps = map[js_lexer.T]js_ast.OpCode{
	js_lexer.TPlus:                              js_ast.BinOpAdd,
	js_lexer.TMinus:                             js_ast.BinOpSub,
	js_lexer.TAsterisk:                          js_ast.BinOpMul,
	js_lexer.TSlash:                             js_ast.BinOpDiv,
	js_lexer.TPercent:                           js_ast.BinOpRem,
	js_lexer.TAsteriskAsterisk:                  js_ast.BinOpPow,
	js_lexer.TLessThan:                          js_ast.BinOpLt,
	js_lexer.TLessThanEquals:                    js_ast.BinOpLe,
	js_lexer.TGreaterThan:                       js_ast.BinOpGt,
	js_lexer.TGreaterThanEquals:                 js_ast.BinOpGe,
	js_lexer.TInstanceof:                        js_ast.BinOpInstanceof,
	js_lexer.TLessThanLessThan:                  js_ast.BinOpShl,
	js_lexer.TGreaterThanGreaterThan:            js_ast.BinOpShr,
	js_lexer.TGreaterThanGreaterThanGreaterThan: js_ast.BinOpUShr,
	js_lexer.TEqualsEquals:                      js_ast.BinOpLooseEq,
	js_lexer.TExclamationEquals:                 js_ast.BinOpLooseNe,
	js_lexer.TEqualsEqualsEquals:                js_ast.BinOpStrictEq,
	js_lexer.TExclamationEqualsEquals:           js_ast.BinOpStrictNe,
	js_lexer.TBar:                               js_ast.BinOpBitwiseOr,
	js_lexer.TAmpersand:                         js_ast.BinOpBitwiseAnd,
	js_lexer.TCaret:                             js_ast.BinOpBitwiseXor,

	js_lexer.TPlusEquals:                              js_ast.BinOpAddAssign,
	js_lexer.TMinusEquals:                             js_ast.BinOpSubAssign,
	js_lexer.TAsteriskEquals:                          js_ast.BinOpMulAssign,
	js_lexer.TSlashEquals:                             js_ast.BinOpDivAssign,
	js_lexer.TPercentEquals:                           js_ast.BinOpRemAssign,
	js_lexer.TAsteriskAsteriskEquals:                  js_ast.BinOpPowAssign,
	js_lexer.TLessThanLessThanEquals:                  js_ast.BinOpShlAssign,
	js_lexer.TGreaterThanGreaterThanEquals:            js_ast.BinOpShrAssign,
	js_lexer.TGreaterThanGreaterThanGreaterThanEquals: js_ast.BinOpUShrAssign,
	js_lexer.TBarEquals:                               js_ast.BinOpBitwiseOrAssign,
	js_lexer.TAmpersandEquals:                         js_ast.BinOpBitwiseAndAssign,
	js_lexer.TCaretEquals:                             js_ast.BinOpBitwiseXorAssign,
	js_lexer.TQuestionQuestionEquals:                  js_ast.BinOpNullishCoalescingAssign,
	js_lexer.TBarBarEquals:                            js_ast.BinOpLogicalOrAssign,
	js_lexer.TAmpersandAmpersandEquals:                js_ast.BinOpLogicalAndAssign,
}

func (p *parser) parseSuffix(left js_ast.Expr, level js_ast.L, errors *deferredErrors) js_ast.Expr {
	optionalChain := js_ast.OptionalChainNone

	for {
		// An arrow function body with braces ends the expression it appears in,
		// except for a trailing comma operator
		if p.lexer.Loc() == p.afterArrowBodyLoc {
			for {
				switch p.lexer.Token {
				case js_lexer.TComma:
					if level >= js_ast.LComma {
						return left
					}
					p.lexer.Next()
					right := p.parseExpr(js_ast.LComma)
					left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: js_ast.BinOpComma, Left: left, Right: right}}

				default:
					return left
				}
			}
		}

		// Reset the optional chain flag by default. That way "c.d" in "a?.b + c.d"
		// isn't treated as part of the chain.
		oldOptionalChain := optionalChain
		optionalChain = js_ast.OptionalChainNone

		switch p.lexer.Token {
		case js_lexer.TDot:
			p.lexer.Next()
			if p.lexer.Token == js_lexer.TPrivateIdentifier {
				// "a.#b"
				index := js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EPrivateIdentifier{Name: p.lexer.Identifier}}
				p.lexer.Next()
				left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EIndex{
					Target:        left,
					Index:         index,
					OptionalChain: oldOptionalChain,
				}}
			} else {
				// "a.b"
				if !p.lexer.IsIdentifierOrKeyword() {
					p.lexer.Expect(js_lexer.TIdentifier)
				}
				name := p.lexer.Identifier
				nameLoc := p.lexer.Loc()
				p.lexer.Next()
				left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EDot{
					Target:        left,
					Name:          name,
					NameLoc:       nameLoc,
					OptionalChain: oldOptionalChain,
				}}
			}
			optionalChain = oldOptionalChain

		case js_lexer.TQuestionDot:
			p.lexer.Next()

			switch p.lexer.Token {
			case js_lexer.TOpenBracket:
				// "a?.[b]"
				p.lexer.Next()

				// Allow "in" inside the brackets
				oldAllowIn := p.allowIn
				p.allowIn = true
				index := p.parseExpr(js_ast.LLowest)
				p.allowIn = oldAllowIn

				p.lexer.Expect(js_lexer.TCloseBracket)
				left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EIndex{
					Target:        left,
					Index:         index,
					OptionalChain: js_ast.OptionalChainStart,
				}}

			case js_lexer.TOpenParen:
				// "a?.()"
				if level >= js_ast.LCall {
					return left
				}
				left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.ECall{
					Target:        left,
					Args:          p.parseCallArgs(),
					OptionalChain: js_ast.OptionalChainStart,
				}}

			case js_lexer.TPrivateIdentifier:
				// "a?.#b"
				index := js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EPrivateIdentifier{Name: p.lexer.Identifier}}
				p.lexer.Next()
				left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EIndex{
					Target:        left,
					Index:         index,
					OptionalChain: js_ast.OptionalChainStart,
				}}

			default:
				// "a?.b"
				if !p.lexer.IsIdentifierOrKeyword() {
					p.lexer.Expect(js_lexer.TIdentifier)
				}
				name := p.lexer.Identifier
				nameLoc := p.lexer.Loc()
				p.lexer.Next()
				left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EDot{
					Target:        left,
					Name:          name,
					NameLoc:       nameLoc,
					OptionalChain: js_ast.OptionalChainStart,
				}}
			}

			optionalChain = js_ast.OptionalChainContinue

		case js_lexer.TNoSubstitutionTemplateLiteral, js_lexer.TTemplateHead:
			if oldOptionalChain != js_ast.OptionalChainNone {
				p.log.AddRangeError(&p.source, p.lexer.Range(), "Template literals cannot have an optional chain as a tag")
			}
			tag := left
			headRaw, parts := p.parseTemplateParts()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.ETemplate{Tag: &tag, HeadRaw: headRaw, Parts: parts}}

		case js_lexer.TOpenBracket:
			p.lexer.Next()

			// Allow "in" inside the brackets
			oldAllowIn := p.allowIn
			p.allowIn = true
			index := p.parseExpr(js_ast.LLowest)
			p.allowIn = oldAllowIn

			p.lexer.Expect(js_lexer.TCloseBracket)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EIndex{
				Target:        left,
				Index:         index,
				OptionalChain: oldOptionalChain,
			}}
			optionalChain = oldOptionalChain

		case js_lexer.TOpenParen:
			if level >= js_ast.LCall {
				return left
			}
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.ECall{
				Target:        left,
				Args:          p.parseCallArgs(),
				OptionalChain: oldOptionalChain,
			}}
			optionalChain = oldOptionalChain

		case js_lexer.TQuestion:
			if level >= js_ast.LConditional {
				return left
			}
			p.lexer.Next()

			// Allow "in" in between "?" and ":"
			oldAllowIn := p.allowIn
			p.allowIn = true
			yes := p.parseExpr(js_ast.LComma)
			p.allowIn = oldAllowIn

			p.lexer.Expect(js_lexer.TColon)
			no := p.parseExpr(js_ast.LComma)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EIf{Test: left, Yes: yes, No: no}}

		case js_lexer.TMinusMinus, js_lexer.TPlusPlus:
			if p.lexer.HasNewlineBefore || level >= js_ast.LPostfix {
				return left
			}
			op := js_ast.UnOpPostDec
			if p.lexer.Token == js_lexer.TPlusPlus {
				op = js_ast.UnOpPostInc
			}
			p.checkAssignTarget(left, false)
			p.lexer.Next()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EUnary{Op: op, Value: left}}

		case js_lexer.TComma:
			if level >= js_ast.LComma {
				return left
			}
			p.lexer.Next()
			right := p.parseExpr(js_ast.LComma)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: js_ast.BinOpComma, Left: left, Right: right}}

		case js_lexer.TQuestionQuestion:
			if level >= js_ast.LNullishCoalescing {
				return left
			}
			p.lexer.Next()
			right := p.parseExpr(js_ast.LNullishCoalescing)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: js_ast.BinOpNullishCoalescing, Left: left, Right: right}}

		case js_lexer.TBarBar:
			if level >= js_ast.LLogicalOr {
				return left
			}

			// Prevent "||" inside "??" from the right
			if level == js_ast.LNullishCoalescing {
				p.lexer.Unexpected()
			}

			p.lexer.Next()
			right := p.parseExpr(js_ast.LLogicalOr)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: js_ast.BinOpLogicalOr, Left: left, Right: right}}

			// Prevent "||" inside "??" from the left
			if level < js_ast.LNullishCoalescing {
				left = p.parseSuffix(left, js_ast.LNullishCoalescing+1, nil)
				if p.lexer.Token == js_lexer.TQuestionQuestion {
					p.lexer.Unexpected()
				}
			}

		case js_lexer.TAmpersandAmpersand:
			if level >= js_ast.LLogicalAnd {
				return left
			}

			// Prevent "&&" inside "??" from the right
			if level == js_ast.LNullishCoalescing {
				p.lexer.Unexpected()
			}

			p.lexer.Next()
			right := p.parseExpr(js_ast.LLogicalAnd)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: js_ast.BinOpLogicalAnd, Left: left, Right: right}}

			// Prevent "&&" inside "??" from the left
			if level < js_ast.LNullishCoalescing {
				left = p.parseSuffix(left, js_ast.LNullishCoalescing+1, nil)
				if p.lexer.Token == js_lexer.TQuestionQuestion {
					p.lexer.Unexpected()
				}
			}

		case js_lexer.TIn:
			if level >= js_ast.LCompare || !p.allowIn {
				return left
			}
			p.lexer.Next()
			right := p.parseExpr(js_ast.LCompare)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: js_ast.BinOpIn, Left: left, Right: right}}

		case js_lexer.TEquals:
			if level >= js_ast.LAssign {
				return left
			}
			p.checkAssignTarget(left, true)
			p.lexer.Next()
			right := p.parseExpr(js_ast.LAssign - 1)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: js_ast.BinOpAssign, Left: left, Right: right}}

		default:
			op, ok := binaryOps[p.lexer.Token]
			if !ok {
				return left
			}
			opLevel := js_ast.OpTable[op].Level
			if level >= opLevel {
				return left
			}
			if opLevel == js_ast.LAssign {
				p.checkAssignTarget(left, false)
			}
			p.lexer.Next()

			// Right-associative operators bind their right operand one level lower
			rightLevel := opLevel
			if op.IsRightAssociative() {
				rightLevel--
			}
			right := p.parseExpr(rightLevel)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: op, Left: left, Right: right}}
		}
	}
}
