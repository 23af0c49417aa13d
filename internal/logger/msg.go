package logger

import (
	"fmt"
	"strings"
)

type Colors struct {
	Reset     string
	Bold      string
	ResetBold string
	Dim       string

	Red     string
	Green   string
	Magenta string
	Cyan    string
}

var TerminalColors = Colors{
	Reset:     "\033[0m",
	Bold:      "\033[1m",
	ResetBold: "\033[0;1m",
	Dim:       "\033[37m",

	Red:     "\033[31m",
	Green:   "\033[32m",
	Magenta: "\033[35m",
	Cyan:    "\033[36m",
}

func (colors Colors) forKind(kind MsgKind) string {
	switch kind {
	case Warning:
		return colors.Magenta
	case Info:
		return colors.Cyan
	}
	return colors.Red
}

// String renders the message in one of three forms depending on how much is
// known about where it came from:
//
//   error: text
//   file.js: error: text
//   file.js:1:2: error: text
//   let x = ;
//           ^
func (msg Msg) String(options StderrOptions, terminalInfo TerminalInfo) string {
	var colors Colors
	if terminalInfo.UseColorEscapes {
		colors = TerminalColors
	}
	sb := strings.Builder{}

	sb.WriteString(colors.Bold)
	if loc := msg.Location; loc != nil {
		if !options.IncludeSource {
			fmt.Fprintf(&sb, "%s: ", loc.File)
		} else {
			fmt.Fprintf(&sb, "%s:%d:%d: ", loc.File, loc.Line, loc.Column)
		}
	}
	fmt.Fprintf(&sb, "%s%s: %s%s%s\n", colors.forKind(msg.Kind), msg.Kind, colors.ResetBold, msg.Text, colors.Reset)

	if msg.Location != nil && options.IncludeSource {
		e := excerptForLocation(*msg.Location, terminalInfo.Width)
		fmt.Fprintf(&sb, "%s%s%s%s%s\n%s%s%s%s\n",
			e.before, colors.Green, e.marked, colors.Reset, e.after,
			colors.Green, strings.Repeat(" ", len(e.before)), e.marker(), colors.Reset)
	}

	return sb.String()
}

// Returns the 0-based line and column of "offset" along with the bounds of
// the line that contains it. "\r\n" counts as one line break.
func computeLineAndColumn(contents string, offset int) (line int, column int, lineStart int, lineEnd int) {
	if offset > len(contents) {
		offset = len(contents)
	}

	for i := 0; i < offset; i++ {
		if width := lineBreakWidth(contents[i:offset]); width > 0 {
			line++
			i += width - 1
			lineStart = i + 1
		}
	}

	lineEnd = offset
	for lineEnd < len(contents) && lineBreakWidth(contents[lineEnd:]) == 0 {
		lineEnd++
	}

	column = offset - lineStart
	return
}

// Returns the number of bytes of the line break at the start of "text", or
// zero if it doesn't start with one. U+2028 and U+2029 take three bytes.
func lineBreakWidth(text string) int {
	switch {
	case strings.HasPrefix(text, "\r\n"):
		return 2
	case text == "":
		return 0
	case text[0] == '\r' || text[0] == '\n':
		return 1
	case strings.HasPrefix(text, "\u2028") || strings.HasPrefix(text, "\u2029"):
		return 3
	}
	return 0
}

func LocationOrNil(source *Source, r Range) *MsgLocation {
	if source == nil {
		return nil
	}
	line, column, lineStart, lineEnd := computeLineAndColumn(source.Contents, int(r.Loc.Start))
	return &MsgLocation{
		File:     source.PrettyPath,
		Line:     line + 1,
		Column:   column,
		Length:   int(r.Len),
		LineText: source.Contents[lineStart:lineEnd],
	}
}

// The source line split around the marked range, with tabs expanded and
// trimmed to fit the terminal
type excerpt struct {
	before string
	marked string
	after  string
}

func (e excerpt) marker() string {
	if len(e.marked) > 1 {
		return strings.Repeat("~", len(e.marked))
	}
	return "^"
}

func clamp(value int, lo int, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

func excerptForLocation(loc MsgLocation, width int) excerpt {
	column := clamp(loc.Column, 0, len(loc.LineText))
	length := clamp(loc.Length, 0, len(loc.LineText)-column)

	line := renderTabStops(loc.LineText, 2)
	start := len(renderTabStops(loc.LineText[:column], 2))
	end := start
	if length > 0 {
		end = len(renderTabStops(loc.LineText[:column+length], 2))
	}

	if width < 1 {
		width = 80
	}
	if len(line) > width {
		line, start, end = trimLineToWidth(line, start, end, width)
	}

	return excerpt{
		before: line[:start],
		marked: line[start:end],
		after:  line[end:],
	}
}

// Cuts a window of "width" bytes out of "line" that shows the marked range,
// replacing the cut ends with "...". The marker bounds are shifted to match.
func trimLineToWidth(line string, start int, end int, width int) (string, int, int) {
	// Center the marked range, but keep its start in the first fifth
	sliceStart := (start + end - width) / 2
	if sliceStart > start-width/5 {
		sliceStart = start - width/5
	}
	sliceStart = clamp(sliceStart, 0, len(line)-width)
	sliceEnd := sliceStart + width

	sliced := line[sliceStart:sliceEnd]
	start -= sliceStart
	end -= sliceStart
	if start < 0 {
		start = 0
	}
	if end > len(sliced) {
		end = len(sliced)
	}

	if len(sliced) > 3 && sliceStart > 0 {
		sliced = "..." + sliced[3:]
		if start < 3 {
			start = 3
		}
	}
	if len(sliced) > 3 && sliceEnd < len(line) {
		sliced = sliced[:len(sliced)-3] + "..."
		if end > len(sliced)-3 {
			end = len(sliced) - 3
		}
	}
	if end < start {
		end = start
	}
	return sliced, start, end
}

func renderTabStops(withTabs string, spacesPerTab int) string {
	if !strings.ContainsRune(withTabs, '\t') {
		return withTabs
	}
	sb := strings.Builder{}
	column := 0
	for _, c := range withTabs {
		if c != '\t' {
			sb.WriteRune(c)
			column++
			continue
		}
		for spaces := spacesPerTab - column%spacesPerTab; spaces > 0; spaces-- {
			sb.WriteByte(' ')
			column++
		}
	}
	return sb.String()
}
