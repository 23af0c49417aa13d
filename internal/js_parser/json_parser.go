package js_parser

import (
	"fmt"

	"github.com/yonasBSD/mako/internal/js_ast"
	"github.com/yonasBSD/mako/internal/js_lexer"
	"github.com/yonasBSD/mako/internal/logger"
)

type ParseJSONOptions struct {
	AllowComments       bool
	AllowTrailingCommas bool
}

// ParseJSON reads a JSON document into the same expression tree that the
// JavaScript parser produces, so config files get the same location-aware
// diagnostics. The tree never goes through the binder.
func ParseJSON(log logger.Log, source logger.Source, options ParseJSONOptions) (result js_ast.Expr, ok bool) {
	ok = true
	defer func() {
		r := recover()
		if _, isLexerPanic := r.(js_lexer.LexerPanic); isLexerPanic {
			ok = false
		} else if r != nil {
			panic(r)
		}
	}()

	p := &jsonParser{
		log:     log,
		source:  source,
		lexer:   js_lexer.NewLexerJSON(log, source, options.AllowComments),
		options: options,
	}
	result = p.parseValue()
	p.lexer.Expect(js_lexer.TEndOfFile)
	return
}

type jsonParser struct {
	log     logger.Log
	source  logger.Source
	lexer   js_lexer.Lexer
	options ParseJSONOptions
}

func (p *jsonParser) parseValue() js_ast.Expr {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TNull:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENull{}}

	case js_lexer.TTrue, js_lexer.TFalse:
		value := p.lexer.Token == js_lexer.TTrue
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: value}}

	case js_lexer.TStringLiteral:
		return p.parseString()

	case js_lexer.TNumericLiteral, js_lexer.TMinus:
		sign := 1.0
		if p.lexer.Token == js_lexer.TMinus {
			sign = -1
			p.lexer.Next()
		}
		value := p.lexer.Number
		p.lexer.Expect(js_lexer.TNumericLiteral)
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENumber{Value: sign * value}}

	case js_lexer.TOpenBracket:
		return js_ast.Expr{Loc: loc, Data: p.parseArray()}

	case js_lexer.TOpenBrace:
		return js_ast.Expr{Loc: loc, Data: p.parseObject()}
	}

	p.lexer.Unexpected()
	return js_ast.Expr{}
}

func (p *jsonParser) parseString() js_ast.Expr {
	value := js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EString{
		Value: p.lexer.StringLiteral,
		Quote: p.lexer.StringQuote(),
	}}
	p.lexer.Expect(js_lexer.TStringLiteral)
	return value
}

func (p *jsonParser) parseArray() *js_ast.EArray {
	array := &js_ast.EArray{Items: []js_ast.Expr{}}
	array.IsSingleLine = p.parseList(js_lexer.TCloseBracket, func() {
		array.Items = append(array.Items, p.parseValue())
	})
	return array
}

func (p *jsonParser) parseObject() *js_ast.EObject {
	object := &js_ast.EObject{Properties: []js_ast.Property{}}
	seen := make(map[string]bool)

	object.IsSingleLine = p.parseList(js_lexer.TCloseBrace, func() {
		keyRange := p.lexer.Range()
		if p.lexer.Token != js_lexer.TStringLiteral {
			p.lexer.Expect(js_lexer.TStringLiteral)
		}
		key := p.parseString()

		name := key.Data.(*js_ast.EString).Value
		if seen[name] {
			p.log.AddRangeWarning(&p.source, keyRange, fmt.Sprintf("Duplicate key: %q", name))
		}
		seen[name] = true

		p.lexer.Expect(js_lexer.TColon)
		value := p.parseValue()
		object.Properties = append(object.Properties, js_ast.Property{
			Kind:  js_ast.PropertyNormal,
			Key:   key,
			Value: &value,
		})
	})
	return object
}

// parseList consumes the opening token, then comma-separated items up to and
// including "closeToken". It reports whether the list fits on one line.
func (p *jsonParser) parseList(closeToken js_lexer.T, parseItem func()) bool {
	p.lexer.Next()
	isSingleLine := !p.lexer.HasNewlineBefore

	for count := 0; p.lexer.Token != closeToken; count++ {
		if count > 0 {
			if p.lexer.HasNewlineBefore {
				isSingleLine = false
			}
			if !p.parseComma(closeToken) {
				break
			}
			if p.lexer.HasNewlineBefore {
				isSingleLine = false
			}
		}
		parseItem()
	}

	if p.lexer.HasNewlineBefore {
		isSingleLine = false
	}
	p.lexer.Expect(closeToken)
	return isSingleLine
}

// Returns false if the comma was trailing
func (p *jsonParser) parseComma(closeToken js_lexer.T) bool {
	commaRange := p.lexer.Range()
	p.lexer.Expect(js_lexer.TComma)
	if p.lexer.Token != closeToken {
		return true
	}
	if !p.options.AllowTrailingCommas {
		p.log.AddRangeError(&p.source, commaRange, "JSON does not support trailing commas")
	}
	return false
}
