package config

type Platform uint8

const (
	// No globals are provided unless the user asks for them
	PlatformNeutral Platform = iota

	// Node's globals are filled in with polyfills
	PlatformBrowser

	// Node's globals already exist
	PlatformNode
)

func (p Platform) String() string {
	switch p {
	case PlatformBrowser:
		return "browser"
	case PlatformNode:
		return "node"
	default:
		return "neutral"
	}
}

// The name generated code uses to load another module
const DefaultRequireName = "require"

// Everything needed to transform one module. Options are passed explicitly
// to every pass. Nothing in the compiler reads global configuration.
type Options struct {
	Providers   *ProviderTable
	RequireName string
	Platform    Platform
}

func (options *Options) RequireNameOrDefault() string {
	if options.RequireName == "" {
		return DefaultRequireName
	}
	return options.RequireName
}
