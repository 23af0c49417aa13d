package api

import (
	"fmt"

	"github.com/yonasBSD/mako/internal/config"
	"github.com/yonasBSD/mako/internal/helpers"
	"github.com/yonasBSD/mako/internal/js_lexer"
	"github.com/yonasBSD/mako/internal/js_parser"
	"github.com/yonasBSD/mako/internal/js_printer"
	"github.com/yonasBSD/mako/internal/logger"
	"github.com/yonasBSD/mako/internal/provide"
)

func validatePlatform(value Platform) config.Platform {
	switch value {
	case PlatformBrowser:
		return config.PlatformBrowser
	case PlatformNode:
		return config.PlatformNode
	case PlatformNeutral:
		return config.PlatformNeutral
	default:
		panic("Invalid platform")
	}
}

func validateColor(value StderrColor) logger.StderrColor {
	switch value {
	case ColorIfTerminal:
		return logger.ColorIfTerminal
	case ColorNever:
		return logger.ColorNever
	case ColorAlways:
		return logger.ColorAlways
	default:
		panic("Invalid color")
	}
}

func validateLogLevel(value LogLevel) logger.LogLevel {
	switch value {
	case LogLevelInfo:
		return logger.LevelInfo
	case LogLevelWarning:
		return logger.LevelWarning
	case LogLevelError:
		return logger.LevelError
	case LogLevelSilent:
		return logger.LevelSilent
	default:
		panic("Invalid log level")
	}
}

func validateProviders(log logger.Log, providers map[string]Provider, platform config.Platform, requireName string) *config.ProviderTable {
	var userProviders map[string]config.Provider
	if len(providers) > 0 {
		userProviders = make(map[string]config.Provider, len(providers))
		for name, p := range providers {
			userProviders[name] = config.Provider{Module: p.Module, Member: p.Member}
		}
	}
	return config.ProcessProviders(log, userProviders, platform, requireName)
}

func validateRequireName(log logger.Log, name string) string {
	if name != "" && !js_lexer.IsIdentifier(name) {
		log.AddError(nil, logger.Loc{}, fmt.Sprintf("Invalid require name: %q", name))
	}
	return name
}

func validateIndent(log logger.Log, indent int) int {
	if indent < 0 {
		log.AddError(nil, logger.Loc{}, fmt.Sprintf("Invalid indent: %d", indent))
	}
	return indent
}

func messagesOfKind(kind logger.MsgKind, msgs []logger.Msg) []Message {
	var filtered []Message
	for _, msg := range msgs {
		if msg.Kind == kind {
			var location *Location

			if loc := msg.Location; loc != nil {
				location = &Location{
					File:     loc.File,
					Line:     loc.Line,
					Column:   loc.Column,
					Length:   loc.Length,
					LineText: loc.LineText,
				}
			}

			filtered = append(filtered, Message{
				Text:     msg.Text,
				Location: location,
			})
		}
	}
	return filtered
}

////////////////////////////////////////////////////////////////////////////////
// Transform API

// Everything in here is read-only after construction
type transformer struct {
	options       TransformOptions
	configOptions config.Options
	printOptions  js_printer.Options

	// Problems with the options themselves. These are reported with the
	// result of every transform.
	validateErrors   []Message
	validateWarnings []Message
}

func (t *transformer) newLog() logger.Log {
	if t.options.LogLevel == LogLevelSilent {
		return logger.NewDeferLog()
	}
	return logger.NewStderrLog(logger.StderrOptions{
		IncludeSource: true,
		ErrorLimit:    t.options.ErrorLimit,
		Color:         validateColor(t.options.Color),
		LogLevel:      validateLogLevel(t.options.LogLevel),
	})
}

func newTransformerImpl(options TransformOptions) *transformer {
	t := &transformer{options: options}

	// Convert and validate the options
	validateLog := t.newLog()
	platform := validatePlatform(options.Platform)
	t.configOptions = config.Options{
		RequireName: validateRequireName(validateLog, options.RequireName),
		Platform:    platform,
	}
	t.configOptions.Providers = validateProviders(validateLog, options.Providers, platform, t.configOptions.RequireNameOrDefault())
	t.printOptions = js_printer.Options{
		Indent:           validateIndent(validateLog, options.Indent),
		MinifyWhitespace: options.MinifyWhitespace,
		ASCIIOnly:        options.ASCIIOnly,
	}

	validateMsgs := validateLog.Done()
	t.validateErrors = messagesOfKind(logger.Error, validateMsgs)
	t.validateWarnings = messagesOfKind(logger.Warning, validateMsgs)
	return t
}

func (t *transformer) transform(input string, sourcefile string) (result TransformResult) {
	// Stop now if there were errors
	if len(t.validateErrors) > 0 {
		return TransformResult{
			Errors:   t.validateErrors,
			Warnings: t.validateWarnings,
		}
	}

	if sourcefile == "" {
		sourcefile = t.options.Sourcefile
	}
	if sourcefile == "" {
		sourcefile = "<stdin>"
	}
	source := logger.Source{
		Index:      0,
		PrettyPath: sourcefile,
		Contents:   input,
	}

	log := t.newLog()

	// Internal errors are reported as messages instead of crashing the host
	defer func() {
		if r := recover(); r != nil {
			log.AddError(nil, logger.Loc{}, fmt.Sprintf("panic: %v\n\n%s", r, helpers.PrettyPrintedStack()))
			msgs := log.Done()
			result = TransformResult{
				Errors:   messagesOfKind(logger.Error, msgs),
				Warnings: append(append([]Message{}, t.validateWarnings...), messagesOfKind(logger.Warning, msgs)...),
			}
		}
	}()

	tree, ok := js_parser.Parse(log, source)
	if ok && !log.HasErrors() {
		injected := provide.Inject(&tree, t.configOptions.Providers, tree.UnresolvedTag, provide.Options{
			RequireName: t.configOptions.RequireNameOrDefault(),
		})
		result.Injected = injected.Injected
		result.Code = js_printer.Print(tree, t.printOptions).JS
	}

	msgs := log.Done()
	result.Errors = messagesOfKind(logger.Error, msgs)
	result.Warnings = append(append([]Message{}, t.validateWarnings...), messagesOfKind(logger.Warning, msgs)...)
	if len(result.Errors) > 0 {
		result.Code = nil
		result.Injected = nil
	}
	return
}
