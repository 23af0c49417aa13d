// This package contains internal CLI-related code that must be shared with
// other internal code outside of the CLI package.

package cli_helpers

import (
	"fmt"

	"github.com/yonasBSD/mako/pkg/api"
)

type ErrorWithNote struct {
	Text string
	Note string
}

func MakeErrorWithNote(text string, note string) *ErrorWithNote {
	return &ErrorWithNote{
		Text: text,
		Note: note,
	}
}

func (e *ErrorWithNote) Error() string {
	if e.Note == "" {
		return e.Text
	}
	return fmt.Sprintf("%s\n\n  %s", e.Text, e.Note)
}

func ParsePlatform(text string) (api.Platform, *ErrorWithNote) {
	switch text {
	case "browser":
		return api.PlatformBrowser, nil
	case "node":
		return api.PlatformNode, nil
	case "neutral":
		return api.PlatformNeutral, nil
	default:
		return api.PlatformBrowser, MakeErrorWithNote(
			fmt.Sprintf("Invalid platform value: %q", text),
			"Valid values are \"browser\", \"node\", or \"neutral\".",
		)
	}
}

func ParseColor(text string) (api.StderrColor, *ErrorWithNote) {
	switch text {
	case "", "true":
		return api.ColorAlways, nil
	case "false":
		return api.ColorNever, nil
	default:
		return api.ColorIfTerminal, MakeErrorWithNote(
			fmt.Sprintf("Invalid color value: %q", text),
			"Valid values are \"true\" or \"false\".",
		)
	}
}

func ParseLogLevel(text string) (api.LogLevel, *ErrorWithNote) {
	switch text {
	case "info":
		return api.LogLevelInfo, nil
	case "warning":
		return api.LogLevelWarning, nil
	case "error":
		return api.LogLevelError, nil
	case "silent":
		return api.LogLevelSilent, nil
	default:
		return api.LogLevelInfo, MakeErrorWithNote(
			fmt.Sprintf("Invalid log level value: %q", text),
			"Valid values are \"info\", \"warning\", \"error\", or \"silent\".",
		)
	}
}
