package js_lexer

// The lexer converts a source file to a stream of tokens. The lexer is not
// run to completion before the parser starts. Instead the parser calls it
// repeatedly, because some tokens depend on what the parser expects next.
// Regular expression literals and the continuation of template literals are
// the two cases of that here.
//
// Identifiers are slices of the input file. String literals are decoded into
// WTF-8 so that lone surrogates written as escapes survive a round trip.

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/yonasBSD/mako/internal/helpers"
	"github.com/yonasBSD/mako/internal/logger"
)

type T uint

// Every token needs an entry in "tokenToString", "operatorText" or "Keywords"
const (
	TEndOfFile T = iota
	TSyntaxError

	// "#!/usr/bin/env node"
	THashbang

	// Literals
	TNoSubstitutionTemplateLiteral // Contents are in lexer.RawTemplateContents()
	TNumericLiteral                // Contents are in lexer.Number (float64)
	TStringLiteral                 // Contents are in lexer.StringLiteral (string)
	TBigIntegerLiteral             // Contents are in lexer.Identifier (string)

	// Pseudo-literals
	TTemplateHead   // Contents are in lexer.RawTemplateContents()
	TTemplateMiddle // Contents are in lexer.RawTemplateContents()
	TTemplateTail   // Contents are in lexer.RawTemplateContents()

	// Punctuation
	TAmpersand
	TAmpersandAmpersand
	TAsterisk
	TAsteriskAsterisk
	TBar
	TBarBar
	TCaret
	TCloseBrace
	TCloseBracket
	TCloseParen
	TColon
	TComma
	TDot
	TDotDotDot
	TEqualsEquals
	TEqualsEqualsEquals
	TEqualsGreaterThan
	TExclamation
	TExclamationEquals
	TExclamationEqualsEquals
	TGreaterThan
	TGreaterThanEquals
	TGreaterThanGreaterThan
	TGreaterThanGreaterThanGreaterThan
	TLessThan
	TLessThanEquals
	TLessThanLessThan
	TMinus
	TMinusMinus
	TOpenBrace
	TOpenBracket
	TOpenParen
	TPercent
	TPlus
	TPlusPlus
	TQuestion
	TQuestionDot
	TQuestionQuestion
	TSemicolon
	TSlash
	TTilde

	// Assignments
	TAmpersandAmpersandEquals
	TAmpersandEquals
	TAsteriskAsteriskEquals
	TAsteriskEquals
	TBarBarEquals
	TBarEquals
	TCaretEquals
	TEquals
	TGreaterThanGreaterThanEquals
	TGreaterThanGreaterThanGreaterThanEquals
	TLessThanLessThanEquals
	TMinusEquals
	TPercentEquals
	TPlusEquals
	TQuestionQuestionEquals
	TSlashEquals

	// Class-private fields and methods
	TPrivateIdentifier

	// Identifiers
	TIdentifier     // Contents are in lexer.Identifier (string)
	TEscapedKeyword // A keyword that has been escaped as an identifer

	// Reserved words
	TBreak
	TCase
	TCatch
	TClass
	TConst
	TContinue
	TDebugger
	TDefault
	TDelete
	TDo
	TElse
	TEnum
	TExport
	TExtends
	TFalse
	TFinally
	TFor
	TFunction
	TIf
	TImport
	TIn
	TInstanceof
	TNew
	TNull
	TReturn
	TSuper
	TSwitch
	TThis
	TThrow
	TTrue
	TTry
	TTypeof
	TVar
	TVoid
	TWhile
	TWith
)

var Keywords = map[string]T{
	// Reserved words
	"break":      TBreak,
	"case":       TCase,
	"catch":      TCatch,
	"class":      TClass,
	"const":      TConst,
	"continue":   TContinue,
	"debugger":   TDebugger,
	"default":    TDefault,
	"delete":     TDelete,
	"do":         TDo,
	"else":       TElse,
	"enum":       TEnum,
	"export":     TExport,
	"extends":    TExtends,
	"false":      TFalse,
	"finally":    TFinally,
	"for":        TFor,
	"function":   TFunction,
	"if":         TIf,
	"import":     TImport,
	"in":         TIn,
	"instanceof": TInstanceof,
	"new":        TNew,
	"null":       TNull,
	"return":     TReturn,
	"super":      TSuper,
	"switch":     TSwitch,
	"this":       TThis,
	"throw":      TThrow,
	"true":       TTrue,
	"try":        TTry,
	"typeof":     TTypeof,
	"var":        TVar,
	"void":       TVoid,
	"while":      TWhile,
	"with":       TWith,
}

// Modules are always strict mode code, so these can't be binding names
var StrictModeReservedWords = map[string]bool{
	"implements": true,
	"interface":  true,
	"let":        true,
	"package":    true,
	"private":    true,
	"protected":  true,
	"public":     true,
	"static":     true,
	"yield":      true,
}

type json struct {
	parse         bool
	allowComments bool
}

type Lexer struct {
	log                             logger.Log
	source                          logger.Source
	current                         int
	start                           int
	end                             int
	Token                           T
	HasNewlineBefore                bool
	codePoint                       rune
	StringLiteral                   string
	Identifier                      string
	Number                          float64
	rescanCloseBraceAsTemplateToken bool
	json                            json
}

type LexerPanic struct{}

func NewLexer(log logger.Log, source logger.Source) Lexer {
	lexer := Lexer{
		log:    log,
		source: source,
	}
	lexer.step()
	lexer.Next()
	return lexer
}

func NewLexerJSON(log logger.Log, source logger.Source, allowComments bool) Lexer {
	lexer := Lexer{
		log:    log,
		source: source,
		json: json{
			parse:         true,
			allowComments: allowComments,
		},
	}
	lexer.step()
	lexer.Next()
	return lexer
}

func (lexer *Lexer) Loc() logger.Loc {
	return logger.Loc{Start: int32(lexer.start)}
}

func (lexer *Lexer) Range() logger.Range {
	return logger.Range{Loc: logger.Loc{Start: int32(lexer.start)}, Len: int32(lexer.end - lexer.start)}
}

func (lexer *Lexer) Raw() string {
	return lexer.source.Contents[lexer.start:lexer.end]
}

// The quote character of the current string literal token
func (lexer *Lexer) StringQuote() byte {
	return lexer.source.Contents[lexer.start]
}

// Template literals are printed exactly as written, so only their raw text
// is needed. Windows newlines are normalized the same way JavaScript
// normalizes them when computing the raw value.
func (lexer *Lexer) RawTemplateContents() string {
	var text string
	switch lexer.Token {
	case TNoSubstitutionTemplateLiteral, TTemplateTail:
		// "`x`" or "}x`"
		text = lexer.source.Contents[lexer.start+1 : lexer.end-1]

	case TTemplateHead, TTemplateMiddle:
		// "`x${" or "}x${"
		text = lexer.source.Contents[lexer.start+1 : lexer.end-2]
	}

	if strings.IndexByte(text, '\r') == -1 {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

func (lexer *Lexer) IsIdentifierOrKeyword() bool {
	return lexer.Token >= TIdentifier
}

func (lexer *Lexer) IsContextualKeyword(text string) bool {
	return lexer.Token == TIdentifier && lexer.Raw() == text
}

func (lexer *Lexer) ExpectContextualKeyword(text string) {
	if !lexer.IsContextualKeyword(text) {
		lexer.ExpectedString(fmt.Sprintf("%q", text))
	}
	lexer.Next()
}

func (lexer *Lexer) SyntaxError() {
	loc := logger.Loc{Start: int32(lexer.end)}
	message := "Unexpected end of file"
	if lexer.end < len(lexer.source.Contents) {
		c, _ := utf8.DecodeRuneInString(lexer.source.Contents[lexer.end:])
		if c < 0x20 {
			message = fmt.Sprintf("Syntax error \"\\x%02X\"", c)
		} else if c >= 0x80 {
			message = fmt.Sprintf("Syntax error \"\\u{%x}\"", c)
		} else if c != '"' {
			message = fmt.Sprintf("Syntax error \"%c\"", c)
		} else {
			message = "Syntax error '\"'"
		}
	}
	lexer.addError(loc, message)
	panic(LexerPanic{})
}

func (lexer *Lexer) ExpectedString(text string) {
	found := fmt.Sprintf("%q", lexer.Raw())
	if lexer.start == len(lexer.source.Contents) {
		found = "end of file"
	}
	lexer.addRangeError(lexer.Range(), fmt.Sprintf("Expected %s but found %s", text, found))
	panic(LexerPanic{})
}

func (lexer *Lexer) Expected(token T) {
	if text, ok := tokenToString[token]; ok {
		lexer.ExpectedString(text)
	} else {
		lexer.Unexpected()
	}
}

func (lexer *Lexer) Unexpected() {
	found := fmt.Sprintf("%q", lexer.Raw())
	if lexer.start == len(lexer.source.Contents) {
		found = "end of file"
	}
	lexer.addRangeError(lexer.Range(), fmt.Sprintf("Unexpected %s", found))
	panic(LexerPanic{})
}

func (lexer *Lexer) Expect(token T) {
	if lexer.Token != token {
		lexer.Expected(token)
	}
	lexer.Next()
}

func (lexer *Lexer) ExpectOrInsertSemicolon() {
	if lexer.Token == TSemicolon || (!lexer.HasNewlineBefore &&
		lexer.Token != TCloseBrace && lexer.Token != TEndOfFile) {
		lexer.Expect(TSemicolon)
	}
}

func (lexer *Lexer) Next() {
	lexer.HasNewlineBefore = lexer.end == 0

	for {
		lexer.start = lexer.end
		lexer.Token = 0

		switch lexer.codePoint {
		case -1: // This indicates the end of the file
			lexer.Token = TEndOfFile

		case '#':
			if lexer.start == 0 && strings.HasPrefix(lexer.source.Contents, "#!") {
				// "#!/usr/bin/env node"
				lexer.Token = THashbang
				lexer.skipToEndOfLine()
				lexer.Identifier = lexer.Raw()
			} else {
				// "#foo"
				lexer.step()
				if !IsIdentifierStart(lexer.codePoint) {
					lexer.SyntaxError()
				}
				lexer.step()
				for IsIdentifierContinue(lexer.codePoint) {
					lexer.step()
				}
				lexer.Identifier = lexer.Raw()
				lexer.Token = TPrivateIdentifier
			}

		case '\r', '\n', '\u2028', '\u2029':
			lexer.step()
			lexer.HasNewlineBefore = true
			continue

		case '\t', ' ':
			lexer.step()
			continue

		case '(', ')', '[', ']', '{', '}', ',', ':', ';', '~':
			lexer.Token = punctuation[lexer.codePoint]
			lexer.step()

		case '?':
			// '?' or '?.' or '??' or '??='
			lexer.step()
			switch lexer.codePoint {
			case '?':
				lexer.step()
				lexer.Token = lexer.withEquals(TQuestionQuestion, TQuestionQuestionEquals)
			case '.':
				lexer.Token = TQuestion

				// Lookahead to disambiguate with 'a?.1:b'
				if lexer.current < len(lexer.source.Contents) {
					if c := lexer.source.Contents[lexer.current]; c < '0' || c > '9' {
						lexer.step()
						lexer.Token = TQuestionDot
					}
				}
			default:
				lexer.Token = TQuestion
			}

		case '%':
			// '%' or '%='
			lexer.step()
			lexer.Token = lexer.withEquals(TPercent, TPercentEquals)

		case '&':
			// '&' or '&=' or '&&' or '&&='
			lexer.Token = lexer.doubledOperator(TAmpersand, TAmpersandEquals, TAmpersandAmpersand, TAmpersandAmpersandEquals)

		case '|':
			// '|' or '|=' or '||' or '||='
			lexer.Token = lexer.doubledOperator(TBar, TBarEquals, TBarBar, TBarBarEquals)

		case '^':
			// '^' or '^='
			lexer.step()
			lexer.Token = lexer.withEquals(TCaret, TCaretEquals)

		case '+':
			// '+' or '+=' or '++'
			lexer.Token = lexer.doubledOperator(TPlus, TPlusEquals, TPlusPlus, TPlusPlus)

		case '-':
			// '-' or '-=' or '--'
			lexer.Token = lexer.doubledOperator(TMinus, TMinusEquals, TMinusMinus, TMinusMinus)

		case '*':
			// '*' or '*=' or '**' or '**='
			lexer.Token = lexer.doubledOperator(TAsterisk, TAsteriskEquals, TAsteriskAsterisk, TAsteriskAsteriskEquals)

		case '/':
			// '/' or '/=' or '//' or '/* ... */'
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TSlashEquals

			case '/':
				lexer.skipToEndOfLine()
				lexer.checkCommentAllowed()
				continue

			case '*':
				lexer.step()
			multiLineComment:
				for {
					switch lexer.codePoint {
					case '*':
						lexer.step()
						if lexer.codePoint == '/' {
							lexer.step()
							break multiLineComment
						}

					case '\r', '\n', '\u2028', '\u2029':
						lexer.step()
						lexer.HasNewlineBefore = true

					case -1: // This indicates the end of the file
						lexer.start = lexer.end
						lexer.addError(lexer.Loc(), "Expected \"*/\" to terminate multi-line comment")
						panic(LexerPanic{})

					default:
						lexer.step()
					}
				}
				lexer.checkCommentAllowed()
				continue

			default:
				lexer.Token = TSlash
			}

		case '=':
			// '=' or '=>' or '==' or '==='
			lexer.step()
			switch lexer.codePoint {
			case '>':
				lexer.step()
				lexer.Token = TEqualsGreaterThan
			case '=':
				lexer.step()
				lexer.Token = lexer.withEquals(TEqualsEquals, TEqualsEqualsEquals)
			default:
				lexer.Token = TEquals
			}

		case '<':
			// '<' or '<<' or '<=' or '<<='
			lexer.Token = lexer.doubledOperator(TLessThan, TLessThanEquals, TLessThanLessThan, TLessThanLessThanEquals)

		case '>':
			// '>' or '>>' or '>>>' or '>=' or '>>=' or '>>>='
			lexer.step()
			if lexer.codePoint == '>' {
				lexer.step()
				if lexer.codePoint == '>' {
					lexer.step()
					lexer.Token = lexer.withEquals(TGreaterThanGreaterThanGreaterThan, TGreaterThanGreaterThanGreaterThanEquals)
				} else {
					lexer.Token = lexer.withEquals(TGreaterThanGreaterThan, TGreaterThanGreaterThanEquals)
				}
			} else {
				lexer.Token = lexer.withEquals(TGreaterThan, TGreaterThanEquals)
			}

		case '!':
			// '!' or '!=' or '!=='
			lexer.step()
			if lexer.codePoint == '=' {
				lexer.step()
				lexer.Token = lexer.withEquals(TExclamationEquals, TExclamationEqualsEquals)
			} else {
				lexer.Token = TExclamation
			}

		case '\'', '"', '`':
			lexer.scanStringOrTemplate()

		case '\\':
			lexer.Identifier, lexer.Token = lexer.scanIdentifierWithEscapes()

		case '.', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			lexer.parseNumericLiteralOrDot()

		default:
			// Check for unusual whitespace characters
			if IsWhitespace(lexer.codePoint) {
				lexer.step()
				continue
			}

			if IsIdentifierStart(lexer.codePoint) {
				lexer.scanIdentifier()
				break
			}

			lexer.end = lexer.current
			lexer.Token = TSyntaxError
		}

		return
	}
}

// Punctuation that never starts a longer token
var punctuation = [128]T{
	'(': TOpenParen,
	')': TCloseParen,
	'[': TOpenBracket,
	']': TCloseBracket,
	'{': TOpenBrace,
	'}': TCloseBrace,
	',': TComma,
	':': TColon,
	';': TSemicolon,
	'~': TTilde,
}

func (lexer *Lexer) scanIdentifier() {
	lexer.step()
	for IsIdentifierContinue(lexer.codePoint) {
		lexer.step()
	}
	if lexer.codePoint == '\\' {
		lexer.Identifier, lexer.Token = lexer.scanIdentifierWithEscapes()
		return
	}
	lexer.Identifier = lexer.Raw()
	if keyword, ok := Keywords[lexer.Identifier]; ok {
		lexer.Token = keyword
	} else {
		lexer.Token = TIdentifier
	}
}

// Scans an operator character that may be doubled ("&&") and may be
// followed by "=" either way ("&=" and "&&="). Operators that have no
// assignment form when doubled pass the same token twice.
func (lexer *Lexer) doubledOperator(single T, singleEquals T, double T, doubleEquals T) T {
	c := lexer.codePoint
	lexer.step()
	if lexer.codePoint != c {
		return lexer.withEquals(single, singleEquals)
	}
	lexer.step()
	if double == doubleEquals {
		return double
	}
	return lexer.withEquals(double, doubleEquals)
}

// Consumes a trailing "=" if there is one
func (lexer *Lexer) withEquals(without T, with T) T {
	if lexer.codePoint == '=' {
		lexer.step()
		return with
	}
	return without
}

func (lexer *Lexer) skipToEndOfLine() {
	for {
		lexer.step()
		switch lexer.codePoint {
		case '\r', '\n', '\u2028', '\u2029', -1:
			return
		}
	}
}

func (lexer *Lexer) checkCommentAllowed() {
	if lexer.json.parse && !lexer.json.allowComments {
		lexer.addRangeError(lexer.Range(), "JSON does not support comments")
	}
}

func (lexer *Lexer) scanStringOrTemplate() {
	quote := lexer.codePoint
	needsSlowPath := false
	suffixLen := 1

	if quote != '`' {
		lexer.Token = TStringLiteral
	} else if lexer.rescanCloseBraceAsTemplateToken {
		lexer.Token = TTemplateTail
	} else {
		lexer.Token = TNoSubstitutionTemplateLiteral
	}
	lexer.step()

stringLiteral:
	for {
		switch lexer.codePoint {
		case '\\':
			needsSlowPath = true
			lexer.step()

			// An escape can't be cut off by the end of the file
			if lexer.codePoint == -1 {
				lexer.addError(logger.Loc{Start: int32(lexer.end)}, "Unterminated string literal")
				panic(LexerPanic{})
			}

			// Handle Windows CRLF
			if lexer.codePoint == '\r' && !lexer.json.parse {
				lexer.step()
				if lexer.codePoint == '\n' {
					lexer.step()
				}
				continue
			}

		case -1: // This indicates the end of the file
			lexer.SyntaxError()

		case '\r', '\n':
			if quote != '`' {
				lexer.addError(logger.Loc{Start: int32(lexer.end)}, "Unterminated string literal")
				panic(LexerPanic{})
			}

		case '$':
			if quote == '`' {
				lexer.step()
				if lexer.codePoint == '{' {
					suffixLen = 2
					lexer.step()
					if lexer.rescanCloseBraceAsTemplateToken {
						lexer.Token = TTemplateMiddle
					} else {
						lexer.Token = TTemplateHead
					}
					break stringLiteral
				}
				continue stringLiteral
			}

		case quote:
			lexer.step()
			break stringLiteral

		default:
			if lexer.json.parse && lexer.codePoint < 0x20 {
				lexer.SyntaxError()
			}
		}
		lexer.step()
	}

	// Template literals are kept raw, so there is nothing to decode
	if quote == '`' {
		return
	}

	text := lexer.source.Contents[lexer.start+1 : lexer.end-suffixLen]
	if needsSlowPath {
		lexer.StringLiteral = lexer.decodeEscapeSequences(lexer.start+1, text)
	} else {
		lexer.StringLiteral = text
	}

	if quote == '\'' && lexer.json.parse {
		lexer.addRangeError(lexer.Range(), "JSON strings must use double quotes")
	}
}

// This is an edge case that doesn't really exist in the wild, so it doesn't
// need to be as fast as possible.
func (lexer *Lexer) scanIdentifierWithEscapes() (string, T) {
	// First pass: scan over the identifier to see how long it is
	for {
		// Scan a unicode escape sequence. There is at least one because that's
		// what caused us to get on this slow path in the first place.
		if lexer.codePoint == '\\' {
			lexer.step()
			if lexer.codePoint != 'u' {
				lexer.SyntaxError()
			}
			lexer.step()
			if lexer.codePoint != '{' {
				for j := 0; j < 4; j++ {
					lexer.stepHexDigit()
				}
				continue
			}
			lexer.step()
			for lexer.codePoint != '}' {
				lexer.stepHexDigit()
			}
			lexer.step()
			continue
		}

		// Stop when we reach the end of the identifier
		if !IsIdentifierContinue(lexer.codePoint) {
			break
		}
		lexer.step()
	}

	// Second pass: re-use our existing escape sequence parser
	text := lexer.decodeEscapeSequences(lexer.start, lexer.Raw())

	// Even though it was escaped, it must still be a valid identifier
	if !IsIdentifier(text) {
		lexer.addRangeError(lexer.Range(), fmt.Sprintf("Invalid identifier: %q", text))
	}

	// Escaped keywords are not allowed to work as actual keywords, but they are
	// allowed wherever we allow identifiers or keywords. For example:
	//
	//   // This is an error (equivalent to "var var;")
	//   var \u0076\u0061\u0072;
	//
	//   // This is an fine (equivalent to "foo.var;")
	//   foo.\u0076\u0061\u0072;
	//
	if Keywords[text] != 0 {
		return text, TEscapedKeyword
	}
	return text, TIdentifier
}

func (lexer *Lexer) stepHexDigit() {
	if !isHexDigit(lexer.codePoint) {
		lexer.SyntaxError()
	}
	lexer.step()
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c rune) rune {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c + 10 - 'a'
	default:
		return c + 10 - 'A'
	}
}

func (lexer *Lexer) parseNumericLiteralOrDot() {
	// Number or dot
	first := lexer.codePoint
	lexer.step()

	// Dot without a digit after it
	if first == '.' && (lexer.codePoint < '0' || lexer.codePoint > '9') {
		// "..."
		if lexer.codePoint == '.' &&
			lexer.current < len(lexer.source.Contents) &&
			lexer.source.Contents[lexer.current] == '.' {
			lexer.step()
			lexer.step()
			lexer.Token = TDotDotDot
			return
		}

		// "."
		lexer.Token = TDot
		return
	}

	// Assume this is a number, but potentially change to a bigint later
	lexer.Token = TNumericLiteral
	hasDotOrExponent := first == '.'
	base := 0.0

	// Check for binary, octal, or hexadecimal literal
	if first == '0' {
		switch lexer.codePoint {
		case 'b', 'B':
			base = 2
		case 'o', 'O':
			base = 8
		case 'x', 'X':
			base = 16
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '_':
			lexer.addRangeError(logger.Range{Loc: lexer.Loc(), Len: int32(lexer.current - lexer.start)},
				"Legacy octal literals are not allowed in strict mode")
			panic(LexerPanic{})
		}
	}

	if base != 0 {
		lexer.step()
		lexer.Number = lexer.scanRadixDigits(base)
		if lexer.codePoint == 'n' {
			// Store bigints as text to avoid precision loss
			lexer.Identifier = strings.ReplaceAll(lexer.Raw(), "_", "")
		}
	} else {
		// Floating-point literal
		lexer.scanDecimalDigits()

		// Fractional digits
		if first != '.' && lexer.codePoint == '.' {
			hasDotOrExponent = true
			lexer.step()
			if lexer.codePoint == '_' {
				lexer.SyntaxError()
			}
			lexer.scanDecimalDigits()
		}

		// Exponent
		if lexer.codePoint == 'e' || lexer.codePoint == 'E' {
			hasDotOrExponent = true
			lexer.step()
			if lexer.codePoint == '+' || lexer.codePoint == '-' {
				lexer.step()
			}
			if lexer.codePoint < '0' || lexer.codePoint > '9' {
				lexer.SyntaxError()
			}
			lexer.scanDecimalDigits()
		}

		text := strings.ReplaceAll(lexer.Raw(), "_", "")

		if lexer.codePoint == 'n' && !hasDotOrExponent {
			// The only bigint literal that can start with 0 is "0n"
			if len(text) > 1 && first == '0' {
				lexer.SyntaxError()
			}

			// Store bigints as text to avoid precision loss
			lexer.Identifier = text
		} else {
			value, _ := strconv.ParseFloat(text, 64)
			lexer.Number = value
		}
	}

	// Handle bigint literals
	if lexer.codePoint == 'n' && !hasDotOrExponent {
		lexer.Token = TBigIntegerLiteral
		lexer.step()
	}

	// Identifiers can't occur immediately after numbers
	if IsIdentifierStart(lexer.codePoint) {
		lexer.SyntaxError()
	}
}

// Scans the digits of "0b", "0o" or "0x" literals. There must be at least
// one digit and each must be below the base.
func (lexer *Lexer) scanRadixDigits(base float64) float64 {
	value := 0.0
	for digits := 0; ; digits++ {
		c := lexer.codePoint
		if c == '_' && digits > 0 {
			lexer.step()
			if !isHexDigit(lexer.codePoint) {
				lexer.SyntaxError()
			}
			c = lexer.codePoint
		}
		if !isHexDigit(c) {
			if digits == 0 {
				lexer.SyntaxError()
			}
			return value
		}
		digit := float64(hexValue(c))
		if digit >= base {
			lexer.SyntaxError()
		}
		value = value*base + digit
		lexer.step()
	}
}

// Underscores may separate digits but may not be doubled or come last
func (lexer *Lexer) scanDecimalDigits() {
	for {
		c := lexer.codePoint
		if c == '_' {
			lexer.step()
			if lexer.codePoint < '0' || lexer.codePoint > '9' {
				lexer.SyntaxError()
			}
			continue
		}
		if c < '0' || c > '9' {
			return
		}
		lexer.step()
	}
}

// The parser calls this when it sees a "/" or "/=" token in a position where
// an expression is expected
func (lexer *Lexer) ScanRegExp() {
	validateAndStep := func() {
		if lexer.codePoint == '\\' {
			lexer.step()
		}

		switch lexer.codePoint {
		case '\r', '\n', 0x2028, 0x2029:
			// Newlines aren't allowed in regular expressions
			lexer.SyntaxError()

		case -1: // This indicates the end of the file
			lexer.SyntaxError()

		default:
			lexer.step()
		}
	}

	for {
		switch lexer.codePoint {
		case '/':
			lexer.step()
			for IsIdentifierContinue(lexer.codePoint) {
				switch lexer.codePoint {
				case 'd', 'g', 'i', 'm', 's', 'u', 'v', 'y':
					lexer.step()

				default:
					lexer.SyntaxError()
				}
			}
			return

		case '[':
			lexer.step()
			for lexer.codePoint != ']' {
				validateAndStep()
			}
			lexer.step()

		default:
			validateAndStep()
		}
	}
}

var simpleEscapes = map[rune]rune{
	'b': '\b',
	'f': '\f',
	'n': '\n',
	'r': '\r',
	't': '\t',
	'v': '\v',
}

// Decodes the escapes in "text", which starts at offset "start" in the
// source. Errors point at the offending character.
func (lexer *Lexer) decodeEscapeSequences(start int, text string) string {
	decoded := make([]byte, 0, len(text))

	for i := 0; i < len(text); {
		c, width := utf8.DecodeRuneInString(text[i:])
		i += width
		if c != '\\' {
			decoded = helpers.AppendWTF8Rune(decoded, c)
			continue
		}

		escape, width := utf8.DecodeRuneInString(text[i:])
		if lexer.json.parse && !strings.ContainsRune(jsonEscapes, escape) {
			lexer.end = start + i
			lexer.SyntaxError()
		}
		i += width

		if simple, ok := simpleEscapes[escape]; ok {
			decoded = append(decoded, byte(simple))
			continue
		}

		switch escape {
		case '0':
			// "\0" is allowed but "\01" is a legacy octal escape
			if i < len(text) && text[i] >= '0' && text[i] <= '9' {
				lexer.end = start + i
				lexer.addError(logger.Loc{Start: int32(lexer.end)}, "Legacy octal escape sequences are not allowed in strict mode")
				panic(LexerPanic{})
			}
			c = 0

		case 'x':
			c, i = lexer.decodeHexDigits(start, text, i, 2)

		case 'u':
			c, i = lexer.decodeUnicodeEscape(start, text, i)

		case '\r', '\n', '\u2028', '\u2029':
			// A line continuation contributes nothing to the value, and a
			// Windows newline counts as one line break
			if escape == '\r' && i < len(text) && text[i] == '\n' {
				i++
			}
			continue

		default:
			c = escape
		}

		decoded = helpers.AppendWTF8Rune(decoded, c)
	}

	return string(decoded)
}

const jsonEscapes = "\"\\/bfnrtu"

func (lexer *Lexer) decodeHexDigits(start int, text string, i int, count int) (rune, int) {
	value := rune(0)
	for j := 0; j < count; j++ {
		c, width := utf8.DecodeRuneInString(text[i:])
		if !isHexDigit(c) {
			lexer.end = start + i
			lexer.SyntaxError()
		}
		value = value*16 | hexValue(c)
		i += width
	}
	return value, i
}

// Decodes "\uXXXX" or "\u{X...}" starting after the "u". Surrogate pairs
// written as two fixed-length escapes are joined into one code point.
func (lexer *Lexer) decodeUnicodeEscape(start int, text string, i int) (rune, int) {
	if i < len(text) && text[i] == '{' {
		if lexer.json.parse {
			lexer.end = start + i
			lexer.SyntaxError()
		}

		// The range of an out-of-range error starts at the backslash
		escapeStart := i - 2
		value := rune(0)
		i++
		for digits := 0; ; digits++ {
			c, width := utf8.DecodeRuneInString(text[i:])
			if c == '}' && digits > 0 {
				return value, i + width
			}
			if !isHexDigit(c) {
				lexer.end = start + i
				lexer.SyntaxError()
			}
			value = value*16 | hexValue(c)
			i += width
			if value > utf8.MaxRune {
				lexer.addRangeError(logger.Range{Loc: logger.Loc{Start: int32(start + escapeStart)}, Len: int32(i - escapeStart)},
					"Unicode escape sequence is out of range")
				panic(LexerPanic{})
			}
		}
	}

	value, i := lexer.decodeHexDigits(start, text, i, 4)
	if utf16.IsSurrogate(value) && value < 0xDC00 && strings.HasPrefix(text[i:], "\\u") && len(text) >= i+6 {
		if low, err := strconv.ParseUint(text[i+2:i+6], 16, 16); err == nil {
			if pair := utf16.DecodeRune(value, rune(low)); pair != utf8.RuneError {
				return pair, i + 6
			}
		}
	}
	return value, i
}

func (lexer *Lexer) RescanCloseBraceAsTemplateToken() {
	if lexer.Token != TCloseBrace {
		lexer.Expected(TCloseBrace)
	}

	lexer.rescanCloseBraceAsTemplateToken = true
	lexer.codePoint = '`'
	lexer.current = lexer.end
	lexer.end -= 1
	lexer.Next()
	lexer.rescanCloseBraceAsTemplateToken = false
}

func (lexer *Lexer) step() {
	codePoint, width := utf8.DecodeRuneInString(lexer.source.Contents[lexer.current:])

	// Use -1 to indicate the end of the file
	if width == 0 {
		codePoint = -1
	}

	lexer.codePoint = codePoint
	lexer.end = lexer.current
	lexer.current += width
}

func (lexer *Lexer) addError(loc logger.Loc, text string) {
	lexer.log.AddError(&lexer.source, loc, text)
}

func (lexer *Lexer) addRangeError(r logger.Range, text string) {
	lexer.log.AddRangeError(&lexer.source, r, text)
}
