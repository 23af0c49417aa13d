package logger

// Messages are formatted like clang's diagnostics: the file, line and column,
// then the line of source text with the offending range underlined. The
// compiler packages never return Go errors for problems in user input.
// Everything goes through a Log so the host can decide whether to stream the
// messages to stderr or collect them.

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

type Log struct {
	AddMsg    func(Msg)
	HasErrors func() bool
	Done      func() []Msg
}

type LogLevel int8

const (
	LevelNone LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelSilent
)

type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
	Info
)

// A message of this kind is shown when the log level is at or below this
var levelForKind = [...]LogLevel{
	Error:   LevelError,
	Warning: LevelWarning,
	Info:    LevelInfo,
}

func (kind MsgKind) String() string {
	switch kind {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	}
	panic("Internal error")
}

type Msg struct {
	Kind     MsgKind
	Text     string
	Location *MsgLocation
}

type MsgLocation struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int // in bytes
	LineText string
}

type Loc struct {
	// The 0-based byte offset from the start of the file
	Start int32
}

type Range struct {
	Loc Loc
	Len int32
}

type Source struct {
	Index uint32

	// Only used in messages. It never touches the file system so it doesn't
	// need to be absolute.
	PrettyPath string

	Contents string
}

func (s *Source) TextForRange(r Range) string {
	return s.Contents[r.Loc.Start : r.Loc.Start+r.Len]
}

// RangeOfString covers the quoted string literal that starts at "loc",
// including both quotes. It's empty if there's no string there.
func (s *Source) RangeOfString(loc Loc) Range {
	text := s.Contents[loc.Start:]
	if text == "" || (text[0] != '"' && text[0] != '\'') {
		return Range{Loc: loc}
	}
	for i := 1; i < len(text); i++ {
		switch text[i] {
		case text[0]:
			return Range{Loc: loc, Len: int32(i + 1)}
		case '\\':
			i++
		}
	}
	return Range{Loc: loc}
}

// Messages without a location go first. The rest are ordered by where they
// point, then by kind and text so the order never depends on timing.
func sortMsgs(msgs []Msg) {
	sort.SliceStable(msgs, func(i int, j int) bool {
		a, b := msgs[i], msgs[j]
		if (a.Location == nil) != (b.Location == nil) {
			return a.Location == nil
		}
		if la, lb := a.Location, b.Location; la != nil {
			switch {
			case la.File != lb.File:
				return la.File < lb.File
			case la.Line != lb.Line:
				return la.Line < lb.Line
			case la.Column != lb.Column:
				return la.Column < lb.Column
			case la.Length != lb.Length:
				return la.Length < lb.Length
			}
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Text < b.Text
	})
}

func plural(noun string, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, noun)
	}
	return fmt.Sprintf("%d %ss", count, noun)
}

func errorAndWarningSummary(errors int, warnings int) string {
	var parts []string
	if warnings != 0 || errors == 0 {
		parts = append(parts, plural("warning", warnings))
	}
	if errors != 0 {
		parts = append(parts, plural("error", errors))
	}
	return strings.Join(parts, " and ")
}

type TerminalInfo struct {
	IsTTY           bool
	UseColorEscapes bool
	Width           int
	Height          int
}

// https://no-color.org/
func hasNoColorEnvironmentVariable() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

type StderrColor uint8

const (
	ColorIfTerminal StderrColor = iota
	ColorNever
	ColorAlways
)

func (color StderrColor) useColorEscapes(file *os.File) bool {
	switch color {
	case ColorNever:
		return false
	case ColorAlways:
		return SupportsColorEscapes
	}
	return GetTerminalInfo(file).UseColorEscapes
}

type StderrOptions struct {
	IncludeSource bool
	ErrorLimit    int
	Color         StderrColor
	LogLevel      LogLevel
}

// NewStderrLog prints each message as soon as it's added. Once "ErrorLimit"
// errors have been seen, further messages are kept but not printed.
func NewStderrLog(options StderrOptions) Log {
	var mutex sync.Mutex
	var msgs []Msg
	var errors, warnings int
	errorLimitWasHit := false
	terminalInfo := GetTerminalInfo(os.Stderr)
	terminalInfo.UseColorEscapes = options.Color.useColorEscapes(os.Stderr)

	return Log{
		AddMsg: func(msg Msg) {
			mutex.Lock()
			defer mutex.Unlock()
			msgs = append(msgs, msg)
			if errorLimitWasHit {
				return
			}

			switch msg.Kind {
			case Error:
				errors++
			case Warning:
				warnings++
			}
			if options.LogLevel <= levelForKind[msg.Kind] {
				writeStringWithColor(os.Stderr, msg.String(options, terminalInfo))
			}

			if options.ErrorLimit != 0 && errors >= options.ErrorLimit {
				errorLimitWasHit = true
				if options.LogLevel <= LevelError {
					writeStringWithColor(os.Stderr, fmt.Sprintf(
						"%s reached (disable error limit with --error-limit=0)\n", errorAndWarningSummary(errors, warnings)))
				}
			}
		},
		HasErrors: func() bool {
			mutex.Lock()
			defer mutex.Unlock()
			return errors > 0
		},
		Done: func() []Msg {
			mutex.Lock()
			defer mutex.Unlock()
			if !errorLimitWasHit && options.LogLevel <= LevelInfo && (warnings != 0 || errors != 0) {
				writeStringWithColor(os.Stderr, errorAndWarningSummary(errors, warnings)+"\n")
			}
			sortMsgs(msgs)
			return msgs
		},
	}
}

var logLevelFlags = map[string]LogLevel{
	"--log-level=info":    LevelInfo,
	"--log-level=warning": LevelWarning,
	"--log-level=error":   LevelError,
	"--log-level=silent":  LevelSilent,
}

func PrintErrorToStderr(osArgs []string, text string) {
	PrintMessageToStderr(osArgs, Msg{Kind: Error, Text: text})
}

// PrintMessageToStderr honors "--color" and "--log-level" in "osArgs" even
// when the rest of the arguments couldn't be parsed.
func PrintMessageToStderr(osArgs []string, msg Msg) {
	options := StderrOptions{IncludeSource: true}
	for _, arg := range osArgs {
		if level, ok := logLevelFlags[arg]; ok {
			options.LogLevel = level
		} else if arg == "--color=false" {
			options.Color = ColorNever
		} else if arg == "--color=true" {
			options.Color = ColorAlways
		}
	}

	log := NewStderrLog(options)
	log.AddMsg(msg)
	log.Done()
}

func NewDeferLog() Log {
	var mutex sync.Mutex
	var msgs []Msg
	hasErrors := false

	return Log{
		AddMsg: func(msg Msg) {
			mutex.Lock()
			defer mutex.Unlock()
			hasErrors = hasErrors || msg.Kind == Error
			msgs = append(msgs, msg)
		},
		HasErrors: func() bool {
			mutex.Lock()
			defer mutex.Unlock()
			return hasErrors
		},
		Done: func() []Msg {
			mutex.Lock()
			defer mutex.Unlock()
			sortMsgs(msgs)
			return msgs
		},
	}
}

func (log Log) AddError(source *Source, loc Loc, text string) {
	log.AddRangeError(source, Range{Loc: loc}, text)
}

func (log Log) AddWarning(source *Source, loc Loc, text string) {
	log.AddRangeWarning(source, Range{Loc: loc}, text)
}

func (log Log) AddRangeError(source *Source, r Range, text string) {
	log.AddMsg(Msg{Kind: Error, Text: text, Location: LocationOrNil(source, r)})
}

func (log Log) AddRangeWarning(source *Source, r Range, text string) {
	log.AddMsg(Msg{Kind: Warning, Text: text, Location: LocationOrNil(source, r)})
}

func (log Log) AddInfo(text string) {
	log.AddMsg(Msg{Kind: Info, Text: text})
}

// Prints a line of status text that isn't tied to any message
func PrintTextWithColor(file *os.File, color StderrColor, callback func(Colors) string) {
	var colors Colors
	if color.useColorEscapes(file) {
		colors = TerminalColors
	}
	writeStringWithColor(file, callback(colors))
}
