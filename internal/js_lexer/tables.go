package js_lexer

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/yonasBSD/mako/internal/logger"
)

// Tokens that aren't spelled the same way every time. Operators and keywords
// are described by their source text.
var tokenToString = map[T]string{
	TEndOfFile:   "end of file",
	TSyntaxError: "syntax error",
	THashbang:    "hashbang comment",

	TNoSubstitutionTemplateLiteral: "template literal",
	TTemplateHead:                  "template literal",
	TTemplateMiddle:                "template literal",
	TTemplateTail:                  "template literal",
	TNumericLiteral:                "number",
	TStringLiteral:                 "string",
	TBigIntegerLiteral:             "bigint",

	TPrivateIdentifier: "private identifier",
	TIdentifier:        "identifier",
	TEscapedKeyword:    "escaped keyword",
}

var operatorText = map[T]string{
	TAmpersand:                               "&",
	TAmpersandAmpersand:                      "&&",
	TAsterisk:                                "*",
	TAsteriskAsterisk:                        "**",
	TBar:                                     "|",
	TBarBar:                                  "||",
	TCaret:                                   "^",
	TCloseBrace:                              "}",
	TCloseBracket:                            "]",
	TCloseParen:                              ")",
	TColon:                                   ":",
	TComma:                                   ",",
	TDot:                                     ".",
	TDotDotDot:                               "...",
	TEqualsEquals:                            "==",
	TEqualsEqualsEquals:                      "===",
	TEqualsGreaterThan:                       "=>",
	TExclamation:                             "!",
	TExclamationEquals:                       "!=",
	TExclamationEqualsEquals:                 "!==",
	TGreaterThan:                             ">",
	TGreaterThanEquals:                       ">=",
	TGreaterThanGreaterThan:                  ">>",
	TGreaterThanGreaterThanGreaterThan:       ">>>",
	TLessThan:                                "<",
	TLessThanEquals:                          "<=",
	TLessThanLessThan:                        "<<",
	TMinus:                                   "-",
	TMinusMinus:                              "--",
	TOpenBrace:                               "{",
	TOpenBracket:                             "[",
	TOpenParen:                               "(",
	TPercent:                                 "%",
	TPlus:                                    "+",
	TPlusPlus:                                "++",
	TQuestion:                                "?",
	TQuestionDot:                             "?.",
	TQuestionQuestion:                        "??",
	TSemicolon:                               ";",
	TSlash:                                   "/",
	TTilde:                                   "~",
	TAmpersandAmpersandEquals:                "&&=",
	TAmpersandEquals:                         "&=",
	TAsteriskAsteriskEquals:                  "**=",
	TAsteriskEquals:                          "*=",
	TBarBarEquals:                            "||=",
	TBarEquals:                               "|=",
	TCaretEquals:                             "^=",
	TEquals:                                  "=",
	TGreaterThanGreaterThanEquals:            ">>=",
	TGreaterThanGreaterThanGreaterThanEquals: ">>>=",
	TLessThanLessThanEquals:                  "<<=",
	TMinusEquals:                             "-=",
	TPercentEquals:                           "%=",
	TPlusEquals:                              "+=",
	TQuestionQuestionEquals:                  "??=",
	TSlashEquals:                             "/=",
}

func init() {
	for token, text := range operatorText {
		tokenToString[token] = strconv.Quote(text)
	}
	for text, token := range Keywords {
		tokenToString[token] = strconv.Quote(text)
	}
}

// These follow the "ID_Start" and "ID_Continue" properties that the
// JavaScript grammar is defined in terms of
var idStart = []*unicode.RangeTable{unicode.L, unicode.Nl, unicode.Other_ID_Start}
var idContinue = []*unicode.RangeTable{
	unicode.L, unicode.Nl, unicode.Other_ID_Start,
	unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue,
}

func IsIdentifier(text string) bool {
	if len(text) == 0 {
		return false
	}
	for i, codePoint := range text {
		if i == 0 {
			if !IsIdentifierStart(codePoint) {
				return false
			}
		} else {
			if !IsIdentifierContinue(codePoint) {
				return false
			}
		}
	}
	return true
}

func IsIdentifierStart(codePoint rune) bool {
	switch {
	case codePoint == '_' || codePoint == '$',
		codePoint >= 'a' && codePoint <= 'z',
		codePoint >= 'A' && codePoint <= 'Z':
		return true
	}

	// All ASCII identifier start code points are listed above
	if codePoint < 0x7F {
		return false
	}

	return unicode.In(codePoint, idStart...)
}

func IsIdentifierContinue(codePoint rune) bool {
	switch {
	case codePoint == '_' || codePoint == '$',
		codePoint >= '0' && codePoint <= '9',
		codePoint >= 'a' && codePoint <= 'z',
		codePoint >= 'A' && codePoint <= 'Z':
		return true
	}

	// All ASCII identifier continue code points are listed above
	if codePoint < 0x7F {
		return false
	}

	// ZWNJ and ZWJ are allowed in identifiers
	if codePoint == 0x200C || codePoint == 0x200D {
		return true
	}

	return unicode.In(codePoint, idContinue...)
}

// See the "White Space Code Points" table in the ECMAScript standard
func IsWhitespace(codePoint rune) bool {
	switch codePoint {
	case
		'\u0009', // character tabulation
		'\u000B', // line tabulation
		'\u000C', // form feed
		'\u0020', // space
		'\u00A0', // no-break space
		'\uFEFF': // zero width non-breaking space
		return true
	}

	// Unicode "Space_Separator" code points
	return codePoint > 0x7F && unicode.Is(unicode.Zs, codePoint)
}

func RangeOfIdentifier(source logger.Source, loc logger.Loc) logger.Range {
	text := source.Contents[loc.Start:]
	if len(text) == 0 {
		return logger.Range{Loc: loc, Len: 0}
	}

	i := 0
	c, width := utf8.DecodeRuneInString(text)
	i += width

	if IsIdentifierStart(c) {
		// Search for the end of the identifier
		for i < len(text) {
			c2, width2 := utf8.DecodeRuneInString(text[i:])
			if !IsIdentifierContinue(c2) {
				return logger.Range{Loc: loc, Len: int32(i)}
			}
			i += width2
		}
	}

	return logger.Range{Loc: loc, Len: int32(i)}
}
