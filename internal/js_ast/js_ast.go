package js_ast

import (
	"github.com/yonasBSD/mako/internal/logger"
)

// Every module (i.e. file) is parsed into a separate AST data structure. The
// parser also runs the resolution pass, which gives every identifier in the
// tree a scope tag.
//
// Identifiers are not references into a symbol table. Instead each one
// carries its own name and the tag of the scope that declares it. Two
// identifiers refer to the same binding if and only if both the name and the
// tag are equal. Identifiers that no scope in the module declares get the
// module's unresolved tag.
//
// Unlike the rest of the compiler, passes that run after parsing mutate the
// tree in place. A pass owns the tree for the whole duration of its run.

type L int

// https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Operators/Operator_Precedence
const (
	LLowest L = iota
	LComma
	LSpread
	LYield
	LAssign
	LConditional
	LNullishCoalescing
	LLogicalOr
	LLogicalAnd
	LBitwiseOr
	LBitwiseXor
	LBitwiseAnd
	LEquals
	LCompare
	LShift
	LAdd
	LMultiply
	LExponentiation
	LPrefix
	LPostfix
	LNew
	LCall
	LMember
)

type OpCode int

func (op OpCode) IsPrefix() bool {
	return op < UnOpPostDec
}

func (op OpCode) IsLeftAssociative() bool {
	return op >= BinOpAdd && op < BinOpComma && op != BinOpPow
}

func (op OpCode) IsRightAssociative() bool {
	return op >= BinOpAssign || op == BinOpPow
}

// If you add a new token, remember to add it to "OpTable" too
const (
	// Prefix
	UnOpPos OpCode = iota
	UnOpNeg
	UnOpCpl
	UnOpNot
	UnOpVoid
	UnOpTypeof
	UnOpDelete

	// Prefix update
	UnOpPreDec
	UnOpPreInc

	// Postfix update
	UnOpPostDec
	UnOpPostInc

	// Left-associative
	BinOpAdd
	BinOpSub
	BinOpMul
	BinOpDiv
	BinOpRem
	BinOpPow
	BinOpLt
	BinOpLe
	BinOpGt
	BinOpGe
	BinOpIn
	BinOpInstanceof
	BinOpShl
	BinOpShr
	BinOpUShr
	BinOpLooseEq
	BinOpLooseNe
	BinOpStrictEq
	BinOpStrictNe
	BinOpNullishCoalescing
	BinOpLogicalOr
	BinOpLogicalAnd
	BinOpBitwiseOr
	BinOpBitwiseAnd
	BinOpBitwiseXor

	// Non-associative
	BinOpComma

	// Right-associative
	BinOpAssign
	BinOpAddAssign
	BinOpSubAssign
	BinOpMulAssign
	BinOpDivAssign
	BinOpRemAssign
	BinOpPowAssign
	BinOpShlAssign
	BinOpShrAssign
	BinOpUShrAssign
	BinOpBitwiseOrAssign
	BinOpBitwiseAndAssign
	BinOpBitwiseXorAssign
	BinOpNullishCoalescingAssign
	BinOpLogicalOrAssign
	BinOpLogicalAndAssign
)

type opTableEntry struct {
	Text      string
	Level     L
	IsKeyword bool
}

var OpTable = []opTableEntry{
	// Prefix
	{"+", LPrefix, false},
	{"-", LPrefix, false},
	{"~", LPrefix, false},
	{"!", LPrefix, false},
	{"void", LPrefix, true},
	{"typeof", LPrefix, true},
	{"delete", LPrefix, true},

	// Prefix update
	{"--", LPrefix, false},
	{"++", LPrefix, false},

	// Postfix update
	{"--", LPostfix, false},
	{"++", LPostfix, false},

	// Left-associative
	{"+", LAdd, false},
	{"-", LAdd, false},
	{"*", LMultiply, false},
	{"/", LMultiply, false},
	{"%", LMultiply, false},
	{"**", LExponentiation, false}, // Right-associative
	{"<", LCompare, false},
	{"<=", LCompare, false},
	{">", LCompare, false},
	{">=", LCompare, false},
	{"in", LCompare, true},
	{"instanceof", LCompare, true},
	{"<<", LShift, false},
	{">>", LShift, false},
	{">>>", LShift, false},
	{"==", LEquals, false},
	{"!=", LEquals, false},
	{"===", LEquals, false},
	{"!==", LEquals, false},
	{"??", LNullishCoalescing, false},
	{"||", LLogicalOr, false},
	{"&&", LLogicalAnd, false},
	{"|", LBitwiseOr, false},
	{"&", LBitwiseAnd, false},
	{"^", LBitwiseXor, false},

	// Non-associative
	{",", LComma, false},

	// Right-associative
	{"=", LAssign, false},
	{"+=", LAssign, false},
	{"-=", LAssign, false},
	{"*=", LAssign, false},
	{"/=", LAssign, false},
	{"%=", LAssign, false},
	{"**=", LAssign, false},
	{"<<=", LAssign, false},
	{">>=", LAssign, false},
	{">>>=", LAssign, false},
	{"|=", LAssign, false},
	{"&=", LAssign, false},
	{"^=", LAssign, false},
	{"??=", LAssign, false},
	{"||=", LAssign, false},
	{"&&=", LAssign, false},
}

// A scope tag identifies one lexical scope. Tags are only meaningful within
// the tree that allocated them.
type ScopeTag uint32

// The zero tag is never handed out. An identifier still carrying it was never
// seen by the resolution pass.
const InvalidTag ScopeTag = 0

type Ident struct {
	Name string
	Tag  ScopeTag
}

// Reports whether both identifiers name the same binding
func (a Ident) SameBinding(b Ident) bool {
	return a.Name == b.Name && a.Tag == b.Tag
}

type LocIdent struct {
	Loc   logger.Loc
	Ident Ident
}

type PropertyKind int

const (
	PropertyNormal PropertyKind = iota
	PropertyGet
	PropertySet
	PropertySpread
)

type Property struct {
	Key Expr

	// This is omitted for class fields
	Value *Expr

	// This is used when parsing a pattern that uses default values:
	//
	//   [a = 1] = [];
	//   ({a = 1} = {});
	//
	// It's also used for class fields:
	//
	//   class Foo { a = 1 }
	//
	Initializer *Expr

	Kind         PropertyKind
	IsComputed   bool
	IsMethod     bool
	IsStatic     bool
	WasShorthand bool
}

type PropertyBinding struct {
	IsComputed   bool
	IsSpread     bool
	Key          Expr
	Value        Binding
	DefaultValue *Expr
}

type Arg struct {
	Binding Binding
	Default *Expr
}

type Fn struct {
	Name         *LocIdent
	OpenParenLoc logger.Loc
	Args         []Arg
	Body         FnBody

	IsAsync     bool
	IsGenerator bool
	HasRestArg  bool
}

type FnBody struct {
	Loc   logger.Loc
	Stmts []Stmt
}

type Class struct {
	Name       *LocIdent
	Extends    *Expr
	BodyLoc    logger.Loc
	Properties []Property
}

type ArrayBinding struct {
	Binding      Binding
	DefaultValue *Expr
}

type Binding struct {
	Loc  logger.Loc
	Data B
}

// This interface is never called. Its purpose is to encode a variant type in
// Go's type system.
type B interface{ isBinding() }

type BMissing struct{}

func (*BMissing) isBinding() {}

type BIdentifier struct{ Ident Ident }

func (*BIdentifier) isBinding() {}

type BArray struct {
	Items        []ArrayBinding
	HasSpread    bool
	IsSingleLine bool
}

func (*BArray) isBinding() {}

type BObject struct {
	Properties   []PropertyBinding
	IsSingleLine bool
}

func (*BObject) isBinding() {}

type Expr struct {
	Loc  logger.Loc
	Data E
}

// This interface is never called. Its purpose is to encode a variant type in
// Go's type system.
type E interface{ isExpr() }

type EArray struct {
	Items        []Expr
	IsSingleLine bool
}

func (*EArray) isExpr() {}

type EUnary struct {
	Op    OpCode
	Value Expr
}

func (*EUnary) isExpr() {}

type EBinary struct {
	Left  Expr
	Right Expr
	Op    OpCode
}

func (*EBinary) isExpr() {}

type EBoolean struct{ Value bool }

func (*EBoolean) isExpr() {}

type ESuper struct{}

func (*ESuper) isExpr() {}

type ENull struct{}

func (*ENull) isExpr() {}

type EThis struct{}

func (*EThis) isExpr() {}

type ENew struct {
	Target Expr
	Args   []Expr
}

func (*ENew) isExpr() {}

type ENewTarget struct{}

func (*ENewTarget) isExpr() {}

type EImportMeta struct{}

func (*EImportMeta) isExpr() {}

type OptionalChain uint8

const (
	// "a.b"
	OptionalChainNone OptionalChain = iota

	// "a?.b"
	OptionalChainStart

	// "a?.b.c" => ".c" is OptionalChainContinue
	// "(a?.b).c" => ".c" is OptionalChainNone
	OptionalChainContinue
)

type ECall struct {
	Target        Expr
	Args          []Expr
	OptionalChain OptionalChain
}

func (*ECall) isExpr() {}

type EDot struct {
	Target        Expr
	Name          string
	NameLoc       logger.Loc
	OptionalChain OptionalChain
}

func (*EDot) isExpr() {}

type EIndex struct {
	Target        Expr
	Index         Expr
	OptionalChain OptionalChain
}

func (*EIndex) isExpr() {}

type EArrow struct {
	Args []Arg
	Body FnBody

	IsAsync    bool
	HasRestArg bool
	PreferExpr bool // Use shorthand if true and "Body" is a single return statement
}

func (*EArrow) isExpr() {}

type EFunction struct{ Fn Fn }

func (*EFunction) isExpr() {}

type EClass struct{ Class Class }

func (*EClass) isExpr() {}

type EIdentifier struct{ Ident Ident }

func (*EIdentifier) isExpr() {}

type EPrivateIdentifier struct{ Name string }

func (*EPrivateIdentifier) isExpr() {}

type EMissing struct{}

func (*EMissing) isExpr() {}

type ENumber struct{ Value float64 }

func (*ENumber) isExpr() {}

type EBigInt struct{ Value string }

func (*EBigInt) isExpr() {}

type EObject struct {
	Properties   []Property
	IsSingleLine bool
}

func (*EObject) isExpr() {}

type ESpread struct{ Value Expr }

func (*ESpread) isExpr() {}

type EString struct {
	Value string

	// The quote character the string was written with. Zero means the string
	// was synthesized and should be printed with double quotes.
	Quote byte
}

func (*EString) isExpr() {}

type TemplatePart struct {
	Value   Expr
	TailLoc logger.Loc
	TailRaw string
}

// Template literals keep their raw text, escapes included, so they print
// back exactly as written.
type ETemplate struct {
	Tag     *Expr
	HeadRaw string
	Parts   []TemplatePart
}

func (*ETemplate) isExpr() {}

type ERegExp struct{ Value string }

func (*ERegExp) isExpr() {}

type EAwait struct {
	Value Expr
}

func (*EAwait) isExpr() {}

type EYield struct {
	Value  *Expr
	IsStar bool
}

func (*EYield) isExpr() {}

type EIf struct {
	Test Expr
	Yes  Expr
	No   Expr
}

func (*EIf) isExpr() {}

// A dynamic "import()" expression
type EImportCall struct {
	Expr Expr
}

func (*EImportCall) isExpr() {}

type ExprOrStmt struct {
	Expr *Expr
	Stmt *Stmt
}

type Stmt struct {
	Loc  logger.Loc
	Data S
}

// This interface is never called. Its purpose is to encode a variant type in
// Go's type system.
type S interface{ isStmt() }

type SBlock struct {
	Stmts []Stmt
}

func (*SBlock) isStmt() {}

type SEmpty struct{}

func (*SEmpty) isStmt() {}

type SDebugger struct{}

func (*SDebugger) isStmt() {}

// "export {a, b as c}"
type SExportClause struct {
	Items        []ClauseItem
	IsSingleLine bool
}

func (*SExportClause) isStmt() {}

// "export {a, b as c} from 'path'"
type SExportFrom struct {
	Items        []ClauseItem
	Path         EString
	PathLoc      logger.Loc
	IsSingleLine bool
}

func (*SExportFrom) isStmt() {}

type SExportDefault struct {
	Value ExprOrStmt // May be a SFunction or SClass
}

func (*SExportDefault) isStmt() {}

type ExportStarAlias struct {
	Loc  logger.Loc
	Name string
}

// "export * from 'path'" and "export * as ns from 'path'"
type SExportStar struct {
	Alias   *ExportStarAlias
	Path    EString
	PathLoc logger.Loc
}

func (*SExportStar) isStmt() {}

type SExpr struct {
	Value Expr
}

func (*SExpr) isStmt() {}

type SFunction struct {
	Fn       Fn
	IsExport bool
}

func (*SFunction) isStmt() {}

type SClass struct {
	Class    Class
	IsExport bool
}

func (*SClass) isStmt() {}

type SLabel struct {
	Name string
	Stmt Stmt
}

func (*SLabel) isStmt() {}

type SIf struct {
	Test Expr
	Yes  Stmt
	No   *Stmt
}

func (*SIf) isStmt() {}

type SFor struct {
	Init   *Stmt // May be a SConst, SLet, SVar, or SExpr
	Test   *Expr
	Update *Expr
	Body   Stmt
}

func (*SFor) isStmt() {}

type SForIn struct {
	Init  Stmt // May be a SConst, SLet, SVar, or SExpr
	Value Expr
	Body  Stmt
}

func (*SForIn) isStmt() {}

type SForOf struct {
	IsAwait bool
	Init    Stmt // May be a SConst, SLet, SVar, or SExpr
	Value   Expr
	Body    Stmt
}

func (*SForOf) isStmt() {}

type SDoWhile struct {
	Body Stmt
	Test Expr
}

func (*SDoWhile) isStmt() {}

type SWhile struct {
	Test Expr
	Body Stmt
}

func (*SWhile) isStmt() {}

type Catch struct {
	Loc     logger.Loc
	Binding *Binding
	Body    []Stmt
}

type Finally struct {
	Loc   logger.Loc
	Stmts []Stmt
}

type STry struct {
	BodyLoc logger.Loc
	Body    []Stmt
	Catch   *Catch
	Finally *Finally
}

func (*STry) isStmt() {}

type Case struct {
	Value *Expr
	Body  []Stmt
}

type SSwitch struct {
	Test    Expr
	BodyLoc logger.Loc
	Cases   []Case
}

func (*SSwitch) isStmt() {}

// This object represents all of these types of import statements:
//
//   import 'path'
//   import {item1, item2} from 'path'
//   import * as ns from 'path'
//   import defaultItem, {item1, item2} from 'path'
//   import defaultItem, * as ns from 'path'
//
// Many parts are optional and can be combined in different ways. The only
// restriction is that you cannot have both a clause and a star namespace.
type SImport struct {
	DefaultName   *LocIdent
	Items         *[]ClauseItem
	NamespaceName *LocIdent
	Path          EString
	PathLoc       logger.Loc
	IsSingleLine  bool
}

func (*SImport) isStmt() {}

type SReturn struct {
	Value *Expr
}

func (*SReturn) isStmt() {}

type SThrow struct {
	Value Expr
}

func (*SThrow) isStmt() {}

type LocalKind uint8

const (
	LocalVar LocalKind = iota
	LocalLet
	LocalConst
)

type SLocal struct {
	Decls    []Decl
	Kind     LocalKind
	IsExport bool
}

func (*SLocal) isStmt() {}

type SBreak struct {
	Label *string
}

func (*SBreak) isStmt() {}

type SContinue struct {
	Label *string
}

func (*SContinue) isStmt() {}

type ClauseItem struct {
	Alias    string
	AliasLoc logger.Loc

	// For imports and local exports this is an identifier in this module. For
	// re-exports ("export {a} from 'path'") the name belongs to the other
	// module, so its tag is always InvalidTag and it is never visited.
	Name LocIdent
}

type Decl struct {
	Binding Binding
	Value   *Expr
}

type ScopeKind int

const (
	ScopeBlock ScopeKind = iota
	ScopeCatchBinding
	ScopeClassName
	ScopeFunctionName

	// The scopes below stop hoisted variables from extending into parent scopes
	ScopeEntry // This is a module
	ScopeFunctionArgs
	ScopeFunctionBody
)

func (kind ScopeKind) StopsHoisting() bool {
	return kind >= ScopeEntry
}

func (kind ScopeKind) String() string {
	switch kind {
	case ScopeBlock:
		return "block"
	case ScopeCatchBinding:
		return "catch"
	case ScopeClassName:
		return "class-name"
	case ScopeFunctionName:
		return "function-name"
	case ScopeEntry:
		return "module"
	case ScopeFunctionArgs:
		return "function-args"
	case ScopeFunctionBody:
		return "function-body"
	}
	return "unknown"
}

type SymbolKind uint8

const (
	// An unbound symbol is one that isn't declared in the file it's referenced
	// in. For example, using "window" without declaring it will be unbound.
	SymbolUnbound SymbolKind = iota

	// This has special merging behavior. You're allowed to re-declare these
	// symbols more than once in the same scope. These symbols are also hoisted
	// out of the scope they are declared in to the closest containing function
	// or module scope. These are the symbols with this kind:
	//
	// - Function parameters
	// - Function statements
	// - Variables declared using "var"
	//
	SymbolHoisted
	SymbolHoistedFunction

	// A class name in its own scope, or a named function expression
	SymbolClass

	// Imported names are bound at the module level and can't be reassigned
	SymbolImport

	// "let" and "const" in any scope, and function declarations in blocks
	SymbolOther

	// The implicit "arguments" object of a non-arrow function
	SymbolArguments
)

func (kind SymbolKind) IsHoisted() bool {
	return kind == SymbolHoisted || kind == SymbolHoistedFunction
}

type ScopeMember struct {
	Kind SymbolKind
	Loc  logger.Loc

	// The scope that owns the declaration. Hoisted "var" declarations are
	// copied into every scope they pass through, and the copies keep the tag
	// of the scope the variable was hoisted to.
	Tag ScopeTag
}

type Scope struct {
	Kind     ScopeKind
	Tag      ScopeTag
	Parent   *Scope
	Children []*Scope
	Members  map[string]ScopeMember
}

type AST struct {
	Hashbang    string
	Stmts       []Stmt
	ModuleScope *Scope

	// Every identifier that no scope in this module declares has this tag
	UnresolvedTag ScopeTag

	// This is the tag of the module scope itself
	TopLevelTag ScopeTag

	lastTag ScopeTag
}

// Allocates a tag that no other scope in this tree uses
func (tree *AST) NewTag() ScopeTag {
	tree.lastTag++
	return tree.lastTag
}

// Tags allocated by a different tree (e.g. when a tree is built by hand in a
// test) must be registered so "NewTag" never hands them out again.
func (tree *AST) ReserveTag(tag ScopeTag) {
	if tag > tree.lastTag {
		tree.lastTag = tag
	}
}
