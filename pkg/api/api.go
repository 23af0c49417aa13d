package api

type Platform uint8

const (
	PlatformBrowser Platform = iota
	PlatformNode
	PlatformNeutral
)

type Location struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int // in bytes
	LineText string
}

type Message struct {
	Text     string
	Location *Location
}

type StderrColor uint8

const (
	ColorIfTerminal StderrColor = iota
	ColorNever
	ColorAlways
)

type LogLevel uint8

const (
	LogLevelSilent LogLevel = iota
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

// Where a provided name comes from. An empty member means the name is bound
// to the whole module.
type Provider struct {
	Module string
	Member string
}

////////////////////////////////////////////////////////////////////////////////
// Transform API

type TransformOptions struct {
	Color      StderrColor
	ErrorLimit int
	LogLevel   LogLevel

	// Browser builds get polyfills for "process" and "Buffer" unless these
	// names are overridden in "Providers"
	Platform    Platform
	Providers   map[string]Provider
	RequireName string

	Indent           int
	MinifyWhitespace bool
	ASCIIOnly        bool

	Sourcefile string
}

type TransformResult struct {
	Errors   []Message
	Warnings []Message

	Code []byte

	// The provided names that were injected, in the order they were hoisted
	Injected []string
}

// Transform is safe to call concurrently. The options are only read.
func Transform(input string, options TransformOptions) TransformResult {
	return NewTransformer(options).Transform(input, options.Sourcefile)
}

// A transformer validates its options once so that the same provider table
// can be shared by many transforms, including concurrent ones.
type Transformer struct {
	impl *transformer
}

func NewTransformer(options TransformOptions) *Transformer {
	return &Transformer{impl: newTransformerImpl(options)}
}

// An empty "sourcefile" means the "Sourcefile" option, or "<stdin>" if that
// is also empty.
func (t *Transformer) Transform(input string, sourcefile string) TransformResult {
	return t.impl.transform(input, sourcefile)
}
