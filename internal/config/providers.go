package config

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/yonasBSD/mako/internal/js_lexer"
	"github.com/yonasBSD/mako/internal/logger"
)

// A provider says where the value of a free identifier comes from. An empty
// member means the identifier is bound to the whole module.
type Provider struct {
	Module string
	Member string
}

func (p Provider) String() string {
	if p.Member == "" {
		return p.Module
	}
	return p.Module + "," + p.Member
}

// A provider table is never mutated after construction, so one table can be
// shared by any number of concurrent transforms.
type ProviderTable struct {
	providers map[string]Provider
}

func NewProviderTable(providers map[string]Provider) *ProviderTable {
	table := &ProviderTable{providers: make(map[string]Provider, len(providers))}
	for name, p := range providers {
		table.providers[name] = p
	}
	return table
}

// A nil table has no providers
func (table *ProviderTable) Lookup(name string) (Provider, bool) {
	if table == nil {
		return Provider{}, false
	}
	p, ok := table.providers[name]
	return p, ok
}

func (table *ProviderTable) Len() int {
	if table == nil {
		return 0
	}
	return len(table.providers)
}

// The provided names in sorted order
func (table *ProviderTable) Names() []string {
	if table == nil {
		return nil
	}
	names := make([]string, 0, len(table.providers))
	for name := range table.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Node's "process" and "Buffer" globals don't exist in the browser. These
// are filled in from the npm packages of the same name.
func NodePolyfillProviders() map[string]Provider {
	return map[string]Provider{
		"process": {Module: "process"},
		"Buffer":  {Module: "buffer", Member: "Buffer"},
	}
}

var processedPolyfillsMutex sync.Mutex
var processedPolyfills *ProviderTable

// Parses the value of a "--provide:name=value" flag. The value is either a
// module path or a module path and a member name separated by a comma.
func ParseProvider(value string) (Provider, error) {
	module, member := value, ""
	if comma := strings.IndexByte(value, ','); comma != -1 {
		module, member = value[:comma], value[comma+1:]
		if member == "" {
			return Provider{}, fmt.Errorf("Missing member name after \",\" in %q", value)
		}
	}
	if module == "" {
		return Provider{}, fmt.Errorf("Missing module path in %q", value)
	}
	if member != "" && !js_lexer.IsIdentifier(member) {
		return Provider{}, fmt.Errorf("Invalid member name: %q", member)
	}
	return Provider{Module: module, Member: member}, nil
}

// Merges the user's providers on top of the defaults for the platform and
// validates the result. Problems are reported to the log, and invalid entries
// are left out of the table.
//
// Nothing may be provided under "requireName". Every injected declaration
// calls it, so a declaration of that name would be read before it exists.
func ProcessProviders(log logger.Log, userProviders map[string]Provider, platform Platform, requireName string) *ProviderTable {
	var defaults map[string]Provider
	if platform == PlatformBrowser {
		defaults = NodePolyfillProviders()
	}
	_, requireIsDefault := defaults[requireName]

	// Optimization: reuse the polyfill table if there is nothing to merge
	if len(userProviders) == 0 && platform == PlatformBrowser && !requireIsDefault {
		processedPolyfillsMutex.Lock()
		defer processedPolyfillsMutex.Unlock()
		if processedPolyfills == nil {
			processedPolyfills = NewProviderTable(defaults)
		}
		return processedPolyfills
	}

	result := make(map[string]Provider)
	for name, p := range defaults {
		if name != requireName {
			result[name] = p
		}
	}

	// Validate in sorted order so the messages are deterministic
	names := make([]string, 0, len(userProviders))
	for name := range userProviders {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := userProviders[name]
		if err := ValidateProvider(name, p); err != nil {
			log.AddError(nil, logger.Loc{}, err.Error())
			continue
		}
		if name == requireName {
			log.AddError(nil, logger.Loc{}, fmt.Sprintf(
				"Cannot provide %q because that name is used to load modules", name))
			continue
		}
		if old, ok := defaults[name]; ok && old != p {
			log.AddWarning(nil, logger.Loc{}, fmt.Sprintf(
				"The provider %q replaces the default provider %q for %q", p, old, name))
		}
		result[name] = p
	}

	return NewProviderTable(result)
}

func ValidateProvider(name string, p Provider) error {
	if !js_lexer.IsIdentifier(name) {
		return fmt.Errorf("Invalid provided name: %q", name)
	}
	if p.Module == "" {
		return fmt.Errorf("Missing module path for provided name %q", name)
	}
	if p.Member != "" && !js_lexer.IsIdentifier(p.Member) {
		return fmt.Errorf("Invalid member name %q for provided name %q", p.Member, name)
	}
	return nil
}
