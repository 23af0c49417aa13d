package config

import (
	"fmt"

	"github.com/yonasBSD/mako/internal/js_ast"
	"github.com/yonasBSD/mako/internal/js_parser"
	"github.com/yonasBSD/mako/internal/logger"
)

// The contents of a "mako.config.json" file. Fields that are absent from
// the file are left as their zero values.
type ConfigFile struct {
	Providers   map[string]Provider
	RequireName string
	Platform    *Platform
}

// Parses a file like this:
//
//   {
//     "platform": "browser",
//     "requireName": "__mako_require__",
//     "providers": {
//       "process": ["process"],
//       "Buffer": ["buffer", "Buffer"]
//     }
//   }
//
func ParseConfigFile(log logger.Log, source logger.Source) (*ConfigFile, bool) {
	json, ok := js_parser.ParseJSON(log, source, js_parser.ParseJSONOptions{
		AllowComments:       true,
		AllowTrailingCommas: true,
	})
	if !ok {
		return nil, false
	}

	if _, ok := json.Data.(*js_ast.EObject); !ok {
		log.AddError(&source, json.Loc, "Expected the configuration to be an object")
		return nil, false
	}

	result := &ConfigFile{}
	hasErrors := false

	// Parse "platform"
	if valueJSON, _, ok := getProperty(json, "platform"); ok {
		if value, ok := getString(valueJSON); ok {
			switch value {
			case "browser":
				platform := PlatformBrowser
				result.Platform = &platform
			case "node":
				platform := PlatformNode
				result.Platform = &platform
			case "neutral":
				platform := PlatformNeutral
				result.Platform = &platform
			default:
				log.AddRangeError(&source, source.RangeOfString(valueJSON.Loc),
					fmt.Sprintf("Invalid platform %q (valid: browser, node, neutral)", value))
				hasErrors = true
			}
		} else {
			log.AddError(&source, valueJSON.Loc, "Expected \"platform\" to be a string")
			hasErrors = true
		}
	}

	// Parse "requireName"
	if valueJSON, _, ok := getProperty(json, "requireName"); ok {
		if value, ok := getString(valueJSON); ok && value != "" {
			result.RequireName = value
		} else {
			log.AddError(&source, valueJSON.Loc, "Expected \"requireName\" to be a non-empty string")
			hasErrors = true
		}
	}

	// Parse "providers"
	if valueJSON, _, ok := getProperty(json, "providers"); ok {
		providers, ok := valueJSON.Data.(*js_ast.EObject)
		if !ok {
			log.AddError(&source, valueJSON.Loc, "Expected \"providers\" to be an object")
			return nil, false
		}

		result.Providers = make(map[string]Provider)
		for _, prop := range providers.Properties {
			name, _ := getString(prop.Key)
			keyRange := source.RangeOfString(prop.Key.Loc)
			p, ok := parseProviderJSON(log, source, *prop.Value)
			if !ok {
				hasErrors = true
				continue
			}
			if err := ValidateProvider(name, p); err != nil {
				log.AddRangeError(&source, keyRange, err.Error())
				hasErrors = true
				continue
			}
			result.Providers[name] = p
		}
	}

	if hasErrors {
		return nil, false
	}
	return result, true
}

// Providers are either ["module"], ["module", "member"], or just "module"
func parseProviderJSON(log logger.Log, source logger.Source, json js_ast.Expr) (Provider, bool) {
	if value, ok := getString(json); ok {
		return Provider{Module: value}, true
	}

	if array, ok := json.Data.(*js_ast.EArray); ok && len(array.Items) >= 1 && len(array.Items) <= 2 {
		module, ok := getString(array.Items[0])
		if !ok {
			log.AddError(&source, array.Items[0].Loc, "Expected the module path to be a string")
			return Provider{}, false
		}
		var member string
		if len(array.Items) == 2 {
			if member, ok = getString(array.Items[1]); !ok {
				log.AddError(&source, array.Items[1].Loc, "Expected the member name to be a string")
				return Provider{}, false
			}
		}
		return Provider{Module: module, Member: member}, true
	}

	log.AddError(&source, json.Loc, "Expected a provider to be a string or an array of one or two strings")
	return Provider{}, false
}

func getProperty(json js_ast.Expr, name string) (js_ast.Expr, logger.Loc, bool) {
	if obj, ok := json.Data.(*js_ast.EObject); ok {
		for _, prop := range obj.Properties {
			if key, ok := prop.Key.Data.(*js_ast.EString); ok && key.Value == name {
				return *prop.Value, prop.Key.Loc, true
			}
		}
	}
	return js_ast.Expr{}, logger.Loc{}, false
}

func getString(json js_ast.Expr) (string, bool) {
	if value, ok := json.Data.(*js_ast.EString); ok {
		return value.Value, true
	}
	return "", false
}
