package js_printer

import (
	"fmt"

	"github.com/yonasBSD/mako/internal/helpers"
	"github.com/yonasBSD/mako/internal/js_ast"
	"github.com/yonasBSD/mako/internal/js_lexer"
)

const hexChars = "0123456789ABCDEF"
const lastASCII = 0x7E

type printer struct {
	js                 []byte
	options            Options
	indent             int
	stmtStart          int
	exportDefaultStart int
	arrowExprStart     int
	forOfInitStart     int
	prevOpEnd          int
	prevNumEnd         int
	prevRegExpEnd      int
	needsSemicolon     bool
	prevOp             js_ast.OpCode
}

func (p *printer) print(text string) {
	p.js = append(p.js, text...)
}

// This is the same as "print(string(bytes))" without any unnecessary temporary
// allocations
func (p *printer) printBytes(bytes []byte) {
	p.js = append(p.js, bytes...)
}

// Strings are printed with the quote character they were written with.
// Synthesized strings have no quote character and use double quotes.
func (p *printer) printQuoted(text string, quote byte) {
	if quote == 0 {
		quote = '"'
	}
	p.printBytes(helpers.QuoteWith(text, quote, p.options.ASCIIOnly))
}

func (p *printer) printIndent() {
	if !p.options.MinifyWhitespace {
		for i := p.indent * p.options.Indent; i > 0; i-- {
			p.js = append(p.js, ' ')
		}
	}
}

func (p *printer) printIdent(id js_ast.Ident) {
	// Minify "return #foo in bar" to "return#foo in bar"
	if len(id.Name) == 0 || id.Name[0] != '#' {
		p.printSpaceBeforeIdentifier()
	}
	p.printIdentifier(id.Name)
}

func (p *printer) printClauseAlias(alias string) {
	if js_lexer.IsIdentifier(alias) {
		p.printSpaceBeforeIdentifier()
		p.printIdentifier(alias)
	} else {
		p.printQuoted(alias, 0)
	}
}

func (p *printer) canPrintIdentifier(name string) bool {
	return js_lexer.IsIdentifier(name)
}

func (p *printer) printIdentifier(name string) {
	if !p.options.ASCIIOnly {
		p.print(name)
		return
	}

	for _, c := range name {
		if c <= lastASCII {
			p.js = append(p.js, byte(c))
		} else if c <= 0xFFFF {
			p.js = append(p.js, '\\', 'u', hexChars[c>>12], hexChars[(c>>8)&15], hexChars[(c>>4)&15], hexChars[c&15])
		} else {
			p.js = append(p.js, fmt.Sprintf("\\u{%X}", c)...)
		}
	}
}

func (p *printer) printDefault(value *js_ast.Expr) {
	if value != nil {
		p.printSpace()
		p.print("=")
		p.printSpace()
		p.printExpr(*value, js_ast.LComma, 0)
	}
}

func (p *printer) printBinding(binding js_ast.Binding) {
	switch b := binding.Data.(type) {
	case *js_ast.BMissing:

	case *js_ast.BIdentifier:
		p.printIdent(b.Ident)

	case *js_ast.BArray:
		last := len(b.Items) - 1
		p.printList("[", "]", len(b.Items), b.IsSingleLine, func(i int) {
			item := b.Items[i]
			if b.HasSpread && i == last {
				p.print("...")
			}
			p.printBinding(item.Binding)
			p.printDefault(item.DefaultValue)

			// "[a, ,]" needs the trailing comma to keep the hole
			if _, ok := item.Binding.Data.(*js_ast.BMissing); ok && i == last {
				p.print(",")
			}
		})

	case *js_ast.BObject:
		p.printList("{", "}", len(b.Properties), b.IsSingleLine, func(i int) {
			p.printPropertyBinding(b.Properties[i])
		})

	default:
		panic(fmt.Sprintf("Unexpected binding of type %T", binding.Data))
	}
}

func (p *printer) printPropertyBinding(property js_ast.PropertyBinding) {
	switch {
	case property.IsSpread:
		p.print("...")

	case property.IsComputed:
		p.print("[")
		p.printExpr(property.Key, js_ast.LComma, 0)
		p.print("]:")
		p.printSpace()

	default:
		str, ok := property.Key.Data.(*js_ast.EString)
		if !ok || str.Quote != 0 || !p.canPrintIdentifier(str.Value) {
			p.printExpr(property.Key, js_ast.LLowest, 0)
		} else {
			p.printSpaceBeforeIdentifier()
			p.printIdentifier(str.Value)
			if id, ok := property.Value.Data.(*js_ast.BIdentifier); ok && id.Ident.Name == str.Value {
				p.printDefault(property.DefaultValue)
				return
			}
		}
		p.print(":")
		p.printSpace()
	}

	p.printBinding(property.Value)
	p.printDefault(property.DefaultValue)
}

// printList prints "count" comma-separated items between "open" and "close".
// Multi-line lists put every item on its own line. Single-line braces get
// padding ("{ a }") but brackets don't ("[a]").
func (p *printer) printList(open string, close string, count int, isSingleLine bool, printItem func(i int)) {
	padded := open == "{"
	p.print(open)
	if count > 0 {
		if !isSingleLine {
			p.indent++
		}
		for i := 0; i < count; i++ {
			if i > 0 {
				p.print(",")
			}
			if !isSingleLine {
				p.printNewline()
				p.printIndent()
			} else if i > 0 || padded {
				p.printSpace()
			}
			printItem(i)
		}
		if !isSingleLine {
			p.indent--
			p.printNewline()
			p.printIndent()
		} else if padded {
			p.printSpace()
		}
	}
	p.print(close)
}

func (p *printer) printSpace() {
	if !p.options.MinifyWhitespace {
		p.print(" ")
	}
}

func (p *printer) printNewline() {
	if !p.options.MinifyWhitespace {
		p.print("\n")
	}
}

func (p *printer) printSpaceBeforeOperator(next js_ast.OpCode) {
	if p.prevOpEnd == len(p.js) {
		prev := p.prevOp

		// "+ + y" => "+ +y"
		// "+ ++ y" => "+ ++y"
		// "x + + y" => "x+ +y"
		// "x ++ + y" => "x+++y"
		// "x + ++ y" => "x+ ++y"
		// "-- >" => "-- >"
		// "< ! --" => "<! --"
		if ((prev == js_ast.BinOpAdd || prev == js_ast.UnOpPos) && (next == js_ast.BinOpAdd || next == js_ast.UnOpPos || next == js_ast.UnOpPreInc)) ||
			((prev == js_ast.BinOpSub || prev == js_ast.UnOpNeg) && (next == js_ast.BinOpSub || next == js_ast.UnOpNeg || next == js_ast.UnOpPreDec)) ||
			(prev == js_ast.UnOpPostDec && next == js_ast.BinOpGt) ||
			(prev == js_ast.UnOpNot && next == js_ast.UnOpPreDec && len(p.js) > 1 && p.js[len(p.js)-2] == '<') {
			p.print(" ")
		}
	}
}

func (p *printer) printSemicolonAfterStatement() {
	if !p.options.MinifyWhitespace {
		p.print(";\n")
	} else {
		p.needsSemicolon = true
	}
}

func (p *printer) printSemicolonIfNeeded() {
	if p.needsSemicolon {
		p.print(";")
		p.needsSemicolon = false
	}
}

func (p *printer) printSpaceBeforeIdentifier() {
	buffer := p.js
	n := len(buffer)
	if n > 0 && (js_lexer.IsIdentifierContinue(rune(buffer[n-1])) || n == p.prevRegExpEnd) {
		p.print(" ")
	}
}

func (p *printer) printFnArgs(args []js_ast.Arg, hasRestArg bool, isArrow bool) {
	wrap := true

	// Minify "(a) => {}" as "a=>{}"
	if p.options.MinifyWhitespace && !hasRestArg && isArrow && len(args) == 1 {
		if _, ok := args[0].Binding.Data.(*js_ast.BIdentifier); ok && args[0].Default == nil {
			wrap = false
		}
	}

	if wrap {
		p.print("(")
	}

	for i, arg := range args {
		if i != 0 {
			p.print(",")
			p.printSpace()
		}
		if hasRestArg && i+1 == len(args) {
			p.print("...")
		}
		p.printBinding(arg.Binding)
		p.printDefault(arg.Default)
	}

	if wrap {
		p.print(")")
	}
}

func (p *printer) printFn(fn js_ast.Fn) {
	p.printFnArgs(fn.Args, fn.HasRestArg, false /* isArrow */)
	p.printSpace()
	p.printBlock(fn.Body.Stmts)
}

func (p *printer) printFnKeyword(fn js_ast.Fn) {
	p.printSpaceBeforeIdentifier()
	if fn.IsAsync {
		p.print("async ")
	}
	p.print("function")
	if fn.IsGenerator {
		p.print("*")
		p.printSpace()
	}
	if fn.Name != nil {
		p.printIdent(fn.Name.Ident)
	}
}

func (p *printer) printClass(class js_ast.Class) {
	if class.Name != nil {
		p.printIdent(class.Name.Ident)
	}
	if class.Extends != nil {
		p.print(" extends")
		p.printSpace()
		p.printExpr(*class.Extends, js_ast.LNew-1, 0)
	}
	p.printSpace()

	p.print("{")
	p.printNewline()
	p.indent++

	for _, item := range class.Properties {
		p.printSemicolonIfNeeded()
		p.printIndent()
		p.printProperty(item)

		// Need semicolons after class fields
		if item.Value == nil {
			p.printSemicolonAfterStatement()
		} else {
			p.printNewline()
		}
	}

	p.needsSemicolon = false
	p.indent--
	p.printIndent()
	p.print("}")
}

func (p *printer) printProperty(item js_ast.Property) {
	if item.Kind == js_ast.PropertySpread {
		p.print("...")
		p.printExpr(*item.Value, js_ast.LComma, 0)
		return
	}

	if item.IsStatic {
		p.printKeyword("static")
		p.printSpace()
	}

	switch item.Kind {
	case js_ast.PropertyGet:
		p.printKeyword("get")
		p.printSpace()

	case js_ast.PropertySet:
		p.printKeyword("set")
		p.printSpace()
	}

	var method *js_ast.EFunction
	if item.Value != nil && (item.IsMethod || item.Kind != js_ast.PropertyNormal) {
		method, _ = item.Value.Data.(*js_ast.EFunction)
	}
	if method != nil {
		if method.Fn.IsAsync {
			p.printKeyword("async")
			p.printSpace()
		}
		if method.Fn.IsGenerator {
			p.print("*")
		}
	}

	if item.IsComputed {
		p.print("[")
		p.printExpr(item.Key, js_ast.LComma, 0)
		p.print("]")
	} else {
		switch key := item.Key.Data.(type) {
		case *js_ast.EPrivateIdentifier:
			p.printSpaceBeforeIdentifier()
			p.print(key.Name)

		case *js_ast.EString:
			if key.Quote == 0 && p.canPrintIdentifier(key.Value) {
				p.printSpaceBeforeIdentifier()
				p.printIdentifier(key.Value)

				// Use a shorthand property if the names are the same. Only the name
				// is compared, so a retagged identifier keeps its shorthand form.
				if method == nil && item.Value != nil {
					if id, ok := item.Value.Data.(*js_ast.EIdentifier); ok && id.Ident.Name == key.Value {
						p.printDefault(item.Initializer)
						return
					}
				}
			} else {
				p.printQuoted(key.Value, key.Quote)
			}

		default:
			p.printExpr(item.Key, js_ast.LLowest, 0)
		}
	}

	if method != nil {
		p.printFn(method.Fn)
		return
	}

	if item.Value != nil {
		p.print(":")
		p.printSpace()
		p.printExpr(*item.Value, js_ast.LComma, 0)
	}

	p.printDefault(item.Initializer)
}

func isOptionalChain(expr js_ast.Expr) bool {
	switch e := expr.Data.(type) {
	case *js_ast.EDot:
		return e.OptionalChain != js_ast.OptionalChainNone
	case *js_ast.EIndex:
		return e.OptionalChain != js_ast.OptionalChainNone
	case *js_ast.ECall:
		return e.OptionalChain != js_ast.OptionalChainNone
	}
	return false
}

type printExprFlags uint16

const (
	forbidCall printExprFlags = 1 << iota
	forbidIn
	hasNonOptionalChainParent
	isFollowedByOf
	isInsideForAwait
)

func (p *printer) printArgs(args []js_ast.Expr) {
	p.print("(")
	for i, arg := range args {
		if i != 0 {
			p.print(",")
			p.printSpace()
		}
		p.printExpr(arg, js_ast.LComma, 0)
	}
	p.print(")")
}

func (p *printer) openParen(wrap bool) {
	if wrap {
		p.print("(")
	}
}

func (p *printer) closeParen(wrap bool) {
	if wrap {
		p.print(")")
	}
}

// Keywords like "in" and "typeof" may need a space before them, while
// symbolic operators may need one to avoid merging with the previous one.
func (p *printer) printOperator(op js_ast.OpCode) {
	entry := js_ast.OpTable[op]
	if entry.IsKeyword {
		p.printSpaceBeforeIdentifier()
		p.print(entry.Text)
		return
	}
	p.printSpaceBeforeOperator(op)
	p.print(entry.Text)
	p.prevOp = op
	p.prevOpEnd = len(p.js)
}

func (p *printer) printKeyword(keyword string) {
	p.printSpaceBeforeIdentifier()
	p.print(keyword)
}

// Function and class expressions can't start a statement and object literals
// can't start a statement or an arrow function body
func (p *printer) isAtStatementStart() bool {
	n := len(p.js)
	return p.stmtStart == n || p.exportDefaultStart == n
}

func (p *printer) isAtObjectAmbiguity() bool {
	n := len(p.js)
	return p.stmtStart == n || p.arrowExprStart == n
}

func (p *printer) printExpr(expr js_ast.Expr, level js_ast.L, flags printExprFlags) {
	switch e := expr.Data.(type) {
	case *js_ast.EMissing:

	case *js_ast.ESuper:
		p.printKeyword("super")

	case *js_ast.ENull:
		p.printKeyword("null")

	case *js_ast.EThis:
		p.printKeyword("this")

	case *js_ast.ENewTarget:
		p.printKeyword("new.target")

	case *js_ast.EImportMeta:
		p.printKeyword("import.meta")

	case *js_ast.EBoolean:
		if e.Value {
			p.printKeyword("true")
		} else {
			p.printKeyword("false")
		}

	case *js_ast.ESpread:
		p.print("...")
		p.printExpr(e.Value, js_ast.LComma, 0)

	case *js_ast.EPrivateIdentifier:
		p.print(e.Name)

	case *js_ast.ENew:
		wrap := level >= js_ast.LCall
		p.openParen(wrap)
		p.printKeyword("new")
		p.printSpace()
		p.printExpr(e.Target, js_ast.LNew, forbidCall)

		// "new x()" can drop the "()" when minifying unless it's followed by a
		// member access or a call
		if !p.options.MinifyWhitespace || len(e.Args) > 0 || level >= js_ast.LPostfix {
			p.printArgs(e.Args)
		}
		p.closeParen(wrap)

	case *js_ast.ECall:
		wrap := level >= js_ast.LNew || flags&forbidCall != 0
		targetFlags := printExprFlags(0)
		if e.OptionalChain == js_ast.OptionalChainNone {
			targetFlags = hasNonOptionalChainParent
		} else if flags&hasNonOptionalChainParent != 0 {
			wrap = true
		}
		p.openParen(wrap)
		p.printExpr(e.Target, js_ast.LPostfix, targetFlags)
		if e.OptionalChain == js_ast.OptionalChainStart {
			p.print("?.")
		}
		p.printArgs(e.Args)
		p.closeParen(wrap)

	case *js_ast.EImportCall:
		wrap := level >= js_ast.LNew || flags&forbidCall != 0
		p.openParen(wrap)
		p.printKeyword("import")
		p.printArgs([]js_ast.Expr{e.Expr})
		p.closeParen(wrap)

	case *js_ast.EDot:
		wrap := p.printMemberTarget(e.Target, e.OptionalChain, flags)
		switch {
		case !p.canPrintIdentifier(e.Name):
			p.print("[")
			p.printQuoted(e.Name, 0)
			p.print("]")
		case e.OptionalChain == js_ast.OptionalChainStart:
			p.printIdentifier(e.Name)
		default:
			// "1.toString" is a syntax error
			if p.prevNumEnd == len(p.js) {
				p.print(" ")
			}
			p.print(".")
			p.printIdentifier(e.Name)
		}
		p.closeParen(wrap)

	case *js_ast.EIndex:
		wrap := p.printMemberTarget(e.Target, e.OptionalChain, flags)
		if private, ok := e.Index.Data.(*js_ast.EPrivateIdentifier); ok {
			if e.OptionalChain != js_ast.OptionalChainStart {
				p.print(".")
			}
			p.print(private.Name)
		} else {
			p.print("[")
			p.printExpr(e.Index, js_ast.LLowest, 0)
			p.print("]")
		}
		p.closeParen(wrap)

	case *js_ast.EIf:
		wrap := level >= js_ast.LConditional
		if wrap {
			flags &= ^forbidIn
		}
		p.openParen(wrap)
		p.printExpr(e.Test, js_ast.LConditional, flags&forbidIn)
		p.printSpace()
		p.print("?")
		p.printSpace()
		p.printExpr(e.Yes, js_ast.LYield, 0)
		p.printSpace()
		p.print(":")
		p.printSpace()
		p.printExpr(e.No, js_ast.LYield, flags&forbidIn)
		p.closeParen(wrap)

	case *js_ast.EArrow:
		wrap := level >= js_ast.LAssign
		p.openParen(wrap)
		p.printArrow(e, flags)
		p.closeParen(wrap)

	case *js_ast.EFunction:
		wrap := p.isAtStatementStart()
		p.openParen(wrap)
		p.printFnKeyword(e.Fn)
		p.printFn(e.Fn)
		p.closeParen(wrap)

	case *js_ast.EClass:
		wrap := p.isAtStatementStart()
		p.openParen(wrap)
		p.printKeyword("class")
		p.printClass(e.Class)
		p.closeParen(wrap)

	case *js_ast.EArray:
		last := len(e.Items) - 1
		p.printList("[", "]", len(e.Items), e.IsSingleLine, func(i int) {
			p.printExpr(e.Items[i], js_ast.LComma, 0)
			if _, ok := e.Items[i].Data.(*js_ast.EMissing); ok && i == last {
				p.print(",")
			}
		})

	case *js_ast.EObject:
		wrap := p.isAtObjectAmbiguity()
		p.openParen(wrap)
		p.printList("{", "}", len(e.Properties), e.IsSingleLine, func(i int) {
			p.printProperty(e.Properties[i])
		})
		p.closeParen(wrap)

	case *js_ast.EString:
		p.printQuoted(e.Value, e.Quote)

	case *js_ast.ETemplate:
		if e.Tag != nil {
			// "a?.b`c`" is a syntax error
			if isOptionalChain(*e.Tag) {
				p.print("(")
				p.printExpr(*e.Tag, js_ast.LLowest, 0)
				p.print(")")
			} else {
				p.printExpr(*e.Tag, js_ast.LPostfix, 0)
			}
		}
		p.print("`" + e.HeadRaw)
		for _, part := range e.Parts {
			p.print("${")
			p.printExpr(part.Value, js_ast.LLowest, 0)
			p.print("}" + part.TailRaw)
		}
		p.print("`")

	case *js_ast.ERegExp:
		// "a / /b/" must not turn into a line comment
		if n := len(p.js); n > 0 && p.js[n-1] == '/' {
			p.print(" ")
		}
		p.print(e.Value)
		p.prevRegExpEnd = len(p.js)

	case *js_ast.EBigInt:
		p.printKeyword(e.Value + "n")

	case *js_ast.ENumber:
		p.printNumber(e.Value, level)

	case *js_ast.EIdentifier:
		// "for (let of x)" and "for (async of x)" are parsed differently
		name := e.Ident.Name
		wrap := len(p.js) == p.forOfInitStart && (name == "let" ||
			(name == "async" && flags&isFollowedByOf != 0 && flags&isInsideForAwait == 0))
		p.openParen(wrap)
		p.printSpaceBeforeIdentifier()
		p.printIdentifier(name)
		p.closeParen(wrap)

	case *js_ast.EAwait:
		wrap := level >= js_ast.LPrefix
		p.openParen(wrap)
		p.printKeyword("await")
		p.printSpace()
		p.printExpr(e.Value, js_ast.LPrefix-1, 0)
		p.closeParen(wrap)

	case *js_ast.EYield:
		wrap := level >= js_ast.LAssign
		p.openParen(wrap)
		p.printKeyword("yield")
		if e.Value != nil {
			if e.IsStar {
				p.print("*")
			}
			p.printSpace()
			p.printExpr(*e.Value, js_ast.LYield, 0)
		}
		p.closeParen(wrap)

	case *js_ast.EUnary:
		wrap := level >= js_ast.OpTable[e.Op].Level
		p.openParen(wrap)
		if e.Op.IsPrefix() {
			p.printOperator(e.Op)
			if js_ast.OpTable[e.Op].IsKeyword {
				p.printSpace()
			}
			p.printExpr(e.Value, js_ast.LPrefix-1, 0)
		} else {
			p.printExpr(e.Value, js_ast.LPostfix-1, 0)
			p.printOperator(e.Op)
		}
		p.closeParen(wrap)

	case *js_ast.EBinary:
		p.printBinary(e, level, flags)

	default:
		panic(fmt.Sprintf("Unexpected expression of type %T", expr.Data))
	}
}

// printMemberTarget prints the object of "a.b" or "a[b]" along with a "?." if
// this link starts an optional chain. An optional chain that is the target of
// a regular member access is parenthesized since "(a?.b).c" differs from
// "a?.b.c". The return value says whether a ")" is still owed.
func (p *printer) printMemberTarget(target js_ast.Expr, chain js_ast.OptionalChain, flags printExprFlags) bool {
	wrap := false
	if chain == js_ast.OptionalChainNone {
		flags |= hasNonOptionalChainParent
	} else {
		wrap = flags&hasNonOptionalChainParent != 0
		flags &= ^hasNonOptionalChainParent
	}
	p.openParen(wrap)
	p.printExpr(target, js_ast.LPostfix, flags&(forbidCall|hasNonOptionalChainParent))
	if chain == js_ast.OptionalChainStart {
		p.print("?.")
	}
	return wrap
}

func (p *printer) printArrow(e *js_ast.EArrow, flags printExprFlags) {
	if e.IsAsync {
		p.printKeyword("async")
		p.printSpace()
	}
	p.printFnArgs(e.Args, e.HasRestArg, true /* isArrow */)
	p.printSpace()
	p.print("=>")
	p.printSpace()

	if len(e.Body.Stmts) == 1 && e.PreferExpr {
		if s, ok := e.Body.Stmts[0].Data.(*js_ast.SReturn); ok && s.Value != nil {
			p.arrowExprStart = len(p.js)
			p.printExpr(*s.Value, js_ast.LComma, flags&forbidIn)
			return
		}
	}
	p.printBlock(e.Body.Stmts)
}

func (p *printer) printBinary(e *js_ast.EBinary, level js_ast.L, flags printExprFlags) {
	opLevel := js_ast.OpTable[e.Op].Level
	wrap := level >= opLevel || (e.Op == js_ast.BinOpIn && flags&forbidIn != 0)

	// "({a} = b)" would otherwise parse as a block
	if _, ok := e.Left.Data.(*js_ast.EObject); ok && p.isAtObjectAmbiguity() {
		wrap = true
	}
	if wrap {
		flags &= ^forbidIn
	}

	leftLevel, rightLevel := binaryOperandLevels(e, opLevel)

	p.openParen(wrap)
	p.printExpr(e.Left, leftLevel, flags&forbidIn)
	if e.Op != js_ast.BinOpComma {
		p.printSpace()
	}
	p.printOperator(e.Op)
	p.printSpace()
	p.printExpr(e.Right, rightLevel, flags&forbidIn)
	p.closeParen(wrap)
}

// binaryOperandLevels returns the levels that the operands of a binary
// operator are printed at. An operand is parenthesized when its own level is
// at or below the returned one.
func binaryOperandLevels(e *js_ast.EBinary, opLevel js_ast.L) (left js_ast.L, right js_ast.L) {
	left, right = opLevel-1, opLevel-1
	if e.Op.IsRightAssociative() {
		left = opLevel
	}
	if e.Op.IsLeftAssociative() {
		right = opLevel
	}

	switch e.Op {
	case js_ast.BinOpNullishCoalescing:
		// "??" can't be mixed with "||" or "&&" without parentheses
		if isLogicalOrAnd(e.Left) {
			left = js_ast.LPrefix
		}
		if isLogicalOrAnd(e.Right) {
			right = js_ast.LPrefix
		}

	case js_ast.BinOpPow:
		// "-a ** b" and "await a ** b" are syntax errors. Negative numbers are
		// printed as unary expressions too.
		switch l := e.Left.Data.(type) {
		case *js_ast.EUnary:
			if l.Op < js_ast.UnOpPreDec {
				left = js_ast.LCall
			}
		case *js_ast.EAwait, *js_ast.ENumber:
			left = js_ast.LCall
		}
	}
	return
}

func isLogicalOrAnd(expr js_ast.Expr) bool {
	binary, ok := expr.Data.(*js_ast.EBinary)
	return ok && (binary.Op == js_ast.BinOpLogicalOr || binary.Op == js_ast.BinOpLogicalAnd)
}

func (p *printer) printDeclStmt(isExport bool, keyword string, decls []js_ast.Decl) {
	p.printIndent()
	p.printSpaceBeforeIdentifier()
	if isExport {
		p.print("export ")
	}
	p.printDecls(keyword, decls, 0)
	p.printSemicolonAfterStatement()
}

func localKeyword(kind js_ast.LocalKind) string {
	switch kind {
	case js_ast.LocalLet:
		return "let"
	case js_ast.LocalConst:
		return "const"
	default:
		return "var"
	}
}

func (p *printer) printForLoopInit(init js_ast.Stmt, flags printExprFlags) {
	switch s := init.Data.(type) {
	case *js_ast.SExpr:
		p.printExpr(s.Value, js_ast.LLowest, flags)
	case *js_ast.SLocal:
		p.printDecls(localKeyword(s.Kind), s.Decls, flags)
	default:
		panic("Internal error")
	}
}

func (p *printer) printDecls(keyword string, decls []js_ast.Decl, flags printExprFlags) {
	p.print(keyword)
	p.printSpace()

	for i, decl := range decls {
		if i != 0 {
			p.print(",")
			p.printSpace()
		}
		p.printBinding(decl.Binding)

		if decl.Value != nil {
			p.printSpace()
			p.print("=")
			p.printSpace()
			p.printExpr(*decl.Value, js_ast.LComma, flags)
		}
	}
}

func (p *printer) printBody(body js_ast.Stmt) {
	if block, ok := body.Data.(*js_ast.SBlock); ok {
		p.printSpace()
		p.printBlock(block.Stmts)
		p.printNewline()
	} else {
		p.printNewline()
		p.indent++
		p.printStmt(body)
		p.indent--
	}
}

func (p *printer) printBlock(stmts []js_ast.Stmt) {
	p.print("{")
	p.printNewline()

	p.indent++
	for _, stmt := range stmts {
		p.printSemicolonIfNeeded()
		p.printStmt(stmt)
	}
	p.indent--
	p.needsSemicolon = false

	p.printIndent()
	p.print("}")
}

func wrapToAvoidAmbiguousElse(s js_ast.S) bool {
	for {
		switch current := s.(type) {
		case *js_ast.SIf:
			if current.No == nil {
				return true
			}
			s = current.No.Data

		case *js_ast.SFor:
			s = current.Body.Data

		case *js_ast.SForIn:
			s = current.Body.Data

		case *js_ast.SForOf:
			s = current.Body.Data

		case *js_ast.SWhile:
			s = current.Body.Data

		case *js_ast.SLabel:
			s = current.Stmt.Data

		default:
			return false
		}
	}
}

func (p *printer) printIf(s *js_ast.SIf) {
	p.printKeyword("if")
	p.printSpace()
	p.printParenthesized(s.Test)

	// Braces keep "if (a) if (b) c; else d" from binding the "else" to the
	// inner "if"
	yes, isBlock := s.Yes.Data.(*js_ast.SBlock)
	if isBlock || wrapToAvoidAmbiguousElse(s.Yes.Data) {
		stmts := []js_ast.Stmt{s.Yes}
		if isBlock {
			stmts = yes.Stmts
		}
		p.printSpace()
		p.printBlock(stmts)
		if s.No == nil {
			p.printNewline()
			return
		}
		p.printSpace()
	} else {
		p.printNewline()
		p.indent++
		p.printStmt(s.Yes)
		p.indent--
		if s.No == nil {
			return
		}
		p.printIndent()
	}

	p.printSemicolonIfNeeded()
	p.printKeyword("else")
	if elseIf, ok := s.No.Data.(*js_ast.SIf); ok {
		p.printSpace()
		p.printIf(elseIf)
	} else {
		p.printBody(*s.No)
	}
}

func (p *printer) printParenthesized(expr js_ast.Expr) {
	p.print("(")
	p.printExpr(expr, js_ast.LLowest, 0)
	p.print(")")
}

func (p *printer) printClauseItems(items []js_ast.ClauseItem, isSingleLine bool, printItem func(item js_ast.ClauseItem)) {
	p.printList("{", "}", len(items), isSingleLine, func(i int) {
		printItem(items[i])
	})
}

func (p *printer) printFrom(path js_ast.EString) {
	p.printSpace()
	p.printKeyword("from")
	p.printSpace()
	p.printQuoted(path.Value, path.Quote)
}

func (p *printer) printStmt(stmt js_ast.Stmt) {
	switch s := stmt.Data.(type) {
	case *js_ast.SFunction:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		if s.IsExport {
			p.print("export ")
		}
		p.printFnKeyword(s.Fn)
		p.printFn(s.Fn)
		p.printNewline()

	case *js_ast.SClass:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		if s.IsExport {
			p.print("export ")
		}
		p.print("class")
		p.printClass(s.Class)
		p.printNewline()

	case *js_ast.SEmpty:
		p.printIndent()
		p.print(";")
		p.printNewline()

	case *js_ast.SExportDefault:
		p.printIndent()
		p.printKeyword("export default")
		p.printSpace()

		if s.Value.Expr != nil {
			// Functions and classes must be wrapped to avoid confusion with their statement forms
			p.exportDefaultStart = len(p.js)

			p.printExpr(*s.Value.Expr, js_ast.LComma, 0)
			p.printSemicolonAfterStatement()
			return
		}

		switch s2 := s.Value.Stmt.Data.(type) {
		case *js_ast.SFunction:
			p.printFnKeyword(s2.Fn)
			p.printFn(s2.Fn)
			p.printNewline()

		case *js_ast.SClass:
			p.printKeyword("class")
			p.printClass(s2.Class)
			p.printNewline()

		default:
			panic("Internal error")
		}

	case *js_ast.SExportStar:
		p.printIndent()
		p.printKeyword("export")
		p.printSpace()
		p.print("*")
		if s.Alias != nil {
			p.printSpace()
			p.print("as")
			p.printSpace()
			p.printClauseAlias(s.Alias.Name)
		}
		p.printFrom(s.Path)
		p.printSemicolonAfterStatement()

	case *js_ast.SExportClause:
		p.printIndent()
		p.printKeyword("export")
		p.printSpace()
		p.printClauseItems(s.Items, s.IsSingleLine, func(item js_ast.ClauseItem) {
			name := item.Name.Ident.Name
			p.printIdentifier(name)
			if name != item.Alias {
				p.print(" as")
				p.printSpace()
				p.printClauseAlias(item.Alias)
			}
		})
		p.printSemicolonAfterStatement()

	case *js_ast.SExportFrom:
		p.printIndent()
		p.printKeyword("export")
		p.printSpace()
		p.printClauseItems(s.Items, s.IsSingleLine, func(item js_ast.ClauseItem) {
			name := item.Name.Ident.Name
			p.printClauseAlias(name)
			if name != item.Alias {
				p.printSpace()
				p.printKeyword("as")
				p.printSpace()
				p.printClauseAlias(item.Alias)
			}
		})
		p.printFrom(s.Path)
		p.printSemicolonAfterStatement()

	case *js_ast.SLocal:
		p.printDeclStmt(s.IsExport, localKeyword(s.Kind), s.Decls)

	case *js_ast.SIf:
		p.printIndent()
		p.printIf(s)

	case *js_ast.SDoWhile:
		p.printIndent()
		p.printKeyword("do")
		if block, ok := s.Body.Data.(*js_ast.SBlock); ok {
			p.printSpace()
			p.printBlock(block.Stmts)
			p.printSpace()
		} else {
			p.printNewline()
			p.indent++
			p.printStmt(s.Body)
			p.printSemicolonIfNeeded()
			p.indent--
			p.printIndent()
		}
		p.print("while")
		p.printSpace()
		p.printParenthesized(s.Test)
		p.printSemicolonAfterStatement()

	case *js_ast.SForIn:
		p.printIndent()
		p.printKeyword("for")
		p.printSpace()
		p.print("(")
		p.printForLoopInit(s.Init, forbidIn)
		p.printForInOfTail("in", s.Value, js_ast.LLowest, s.Body)

	case *js_ast.SForOf:
		flags := forbidIn | isFollowedByOf
		p.printIndent()
		p.printKeyword("for")
		if s.IsAwait {
			p.print(" await")
			flags |= isInsideForAwait
		}
		p.printSpace()
		p.print("(")
		p.forOfInitStart = len(p.js)
		p.printForLoopInit(s.Init, flags)
		p.printForInOfTail("of", s.Value, js_ast.LComma, s.Body)

	case *js_ast.SWhile:
		p.printIndent()
		p.printKeyword("while")
		p.printSpace()
		p.printParenthesized(s.Test)
		p.printBody(s.Body)

	case *js_ast.SLabel:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.printIdentifier(s.Name)
		p.print(":")
		p.printBody(s.Stmt)

	case *js_ast.STry:
		p.printIndent()
		p.printTry(s)

	case *js_ast.SFor:
		p.printIndent()
		p.printKeyword("for")
		p.printSpace()
		p.print("(")
		if s.Init != nil {
			p.printForLoopInit(*s.Init, forbidIn)
		}
		p.print(";")
		p.printSpace()
		if s.Test != nil {
			p.printExpr(*s.Test, js_ast.LLowest, 0)
		}
		p.print(";")
		p.printSpace()
		if s.Update != nil {
			p.printExpr(*s.Update, js_ast.LLowest, 0)
		}
		p.print(")")
		p.printBody(s.Body)

	case *js_ast.SSwitch:
		p.printIndent()
		p.printSwitch(s)

	case *js_ast.SImport:
		itemCount := 0

		p.printIndent()
		p.printKeyword("import")
		p.printSpace()

		if s.DefaultName != nil {
			p.printIdent(s.DefaultName.Ident)
			itemCount++
		}

		if s.Items != nil {
			if itemCount > 0 {
				p.print(",")
				p.printSpace()
			}
			p.printClauseItems(*s.Items, s.IsSingleLine, func(item js_ast.ClauseItem) {
				p.printClauseAlias(item.Alias)
				name := item.Name.Ident.Name
				if name != item.Alias {
					p.printSpace()
					p.printKeyword("as ")
					p.printIdentifier(name)
				}
			})
			itemCount++
		}

		if s.NamespaceName != nil {
			if itemCount > 0 {
				p.print(",")
				p.printSpace()
			}
			p.print("*")
			p.printSpace()
			p.print("as ")
			p.printIdentifier(s.NamespaceName.Ident.Name)
			itemCount++
		}

		if itemCount > 0 {
			p.printFrom(s.Path)
		} else {
			p.printQuoted(s.Path.Value, s.Path.Quote)
		}
		p.printSemicolonAfterStatement()

	case *js_ast.SBlock:
		p.printIndent()
		p.printBlock(s.Stmts)
		p.printNewline()

	case *js_ast.SDebugger:
		p.printIndent()
		p.printKeyword("debugger")
		p.printSemicolonAfterStatement()

	case *js_ast.SBreak:
		p.printJump("break", s.Label)

	case *js_ast.SContinue:
		p.printJump("continue", s.Label)

	case *js_ast.SReturn:
		p.printIndent()
		p.printKeyword("return")
		if s.Value != nil {
			p.printSpace()
			p.printExpr(*s.Value, js_ast.LLowest, 0)
		}
		p.printSemicolonAfterStatement()

	case *js_ast.SThrow:
		p.printIndent()
		p.printKeyword("throw")
		p.printSpace()
		p.printExpr(s.Value, js_ast.LLowest, 0)
		p.printSemicolonAfterStatement()

	case *js_ast.SExpr:
		p.printIndent()
		p.stmtStart = len(p.js)
		p.printExpr(s.Value, js_ast.LLowest, 0)
		p.printSemicolonAfterStatement()

	default:
		panic(fmt.Sprintf("Unexpected statement of type %T", stmt.Data))
	}
}

func (p *printer) printForInOfTail(keyword string, value js_ast.Expr, level js_ast.L, body js_ast.Stmt) {
	p.printSpace()
	p.printKeyword(keyword)
	p.printSpace()
	p.printExpr(value, level, 0)
	p.print(")")
	p.printBody(body)
}

func (p *printer) printJump(keyword string, label *string) {
	p.printIndent()
	p.printKeyword(keyword)
	if label != nil {
		p.print(" ")
		p.printIdentifier(*label)
	}
	p.printSemicolonAfterStatement()
}

func (p *printer) printTry(s *js_ast.STry) {
	p.printKeyword("try")
	p.printSpace()
	p.printBlock(s.Body)

	if catch := s.Catch; catch != nil {
		p.printSpace()
		p.print("catch")
		if catch.Binding != nil {
			p.printSpace()
			p.print("(")
			p.printBinding(*catch.Binding)
			p.print(")")
		}
		p.printSpace()
		p.printBlock(catch.Body)
	}

	if s.Finally != nil {
		p.printSpace()
		p.print("finally")
		p.printSpace()
		p.printBlock(s.Finally.Stmts)
	}

	p.printNewline()
}

func (p *printer) printSwitch(s *js_ast.SSwitch) {
	p.printKeyword("switch")
	p.printSpace()
	p.printParenthesized(s.Test)
	p.printSpace()
	p.print("{")
	p.printNewline()
	p.indent++

	for _, c := range s.Cases {
		p.printSemicolonIfNeeded()
		p.printIndent()
		if c.Value == nil {
			p.print("default:")
		} else {
			p.print("case")
			p.printSpace()
			p.printExpr(*c.Value, js_ast.LLowest, 0)
			p.print(":")
		}

		// "case 1: { ... }" keeps the block on the same line
		if len(c.Body) == 1 {
			if block, ok := c.Body[0].Data.(*js_ast.SBlock); ok {
				p.printSpace()
				p.printBlock(block.Stmts)
				p.printNewline()
				continue
			}
		}

		p.printNewline()
		p.indent++
		for _, stmt := range c.Body {
			p.printSemicolonIfNeeded()
			p.printStmt(stmt)
		}
		p.indent--
	}

	p.indent--
	p.printIndent()
	p.print("}")
	p.printNewline()
	p.needsSemicolon = false
}

type Options struct {
	// The number of spaces per indent level. Zero means two.
	Indent int

	MinifyWhitespace bool

	// Escape every character outside of printable ASCII
	ASCIIOnly bool
}

type PrintResult struct {
	JS []byte
}

func newPrinter(options Options) *printer {
	if options.Indent <= 0 {
		options.Indent = 2
	}
	return &printer{
		options:            options,
		stmtStart:          -1,
		exportDefaultStart: -1,
		arrowExprStart:     -1,
		forOfInitStart:     -1,
		prevOpEnd:          -1,
		prevNumEnd:         -1,
		prevRegExpEnd:      -1,
	}
}

func Print(tree js_ast.AST, options Options) PrintResult {
	p := newPrinter(options)
	if tree.Hashbang != "" {
		p.print(tree.Hashbang + "\n")
	}
	for _, stmt := range tree.Stmts {
		p.printStmt(stmt)
		p.printSemicolonIfNeeded()
	}
	return PrintResult{JS: p.js}
}

// PrintExpr prints a single expression, such as a parsed JSON value
func PrintExpr(expr js_ast.Expr, options Options) []byte {
	p := newPrinter(options)
	p.printExpr(expr, js_ast.LLowest, 0)
	return p.js
}
