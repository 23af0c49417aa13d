package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yonasBSD/mako/internal/logger"
	"github.com/yonasBSD/mako/internal/test"
)

func expectConfigFile(t *testing.T, contents string, expected ConfigFile) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		result, ok := ParseConfigFile(log, test.SourceForTest(contents))
		test.AssertEqualWithDiff(t, test.MsgsToString(log.Done()), "")
		if !ok {
			t.Fatal("Parse error")
		}
		if diff := cmp.Diff(expected, *result); diff != "" {
			t.Fatalf("config mismatch (-want +got):\n%s", diff)
		}
	})
}

func expectConfigFileError(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		result, ok := ParseConfigFile(log, test.SourceForTest(contents))
		test.AssertEqualWithDiff(t, test.MsgsToString(log.Done()), expected)
		if ok || result != nil {
			t.Fatal("Expected a parse error")
		}
	})
}

func TestConfigFile(t *testing.T) {
	browser := PlatformBrowser
	node := PlatformNode

	expectConfigFile(t, `{}`, ConfigFile{})
	expectConfigFile(t, `{"platform": "node"}`, ConfigFile{Platform: &node})
	expectConfigFile(t, `{"requireName": "__mako_require__"}`, ConfigFile{RequireName: "__mako_require__"})

	expectConfigFile(t, `
		// Comments and trailing commas are allowed
		{
			"platform": "browser",
			"providers": {
				"process": ["process"],
				"Buffer": ["buffer", "Buffer",],
				"global": "./global",
				"empty": ["./empty", ""],
			},
		}
	`, ConfigFile{
		Platform: &browser,
		Providers: map[string]Provider{
			"process": {Module: "process"},
			"Buffer":  {Module: "buffer", Member: "Buffer"},
			"global":  {Module: "./global"},
			"empty":   {Module: "./empty"},
		},
	})
}

func TestConfigFileErrors(t *testing.T) {
	expectConfigFileError(t, `[]`, "<stdin>: error: Expected the configuration to be an object\n")
	expectConfigFileError(t, `{"platform": 1}`, "<stdin>: error: Expected \"platform\" to be a string\n")
	expectConfigFileError(t, `{"platform": "web"}`,
		"<stdin>: error: Invalid platform \"web\" (valid: browser, node, neutral)\n")
	expectConfigFileError(t, `{"requireName": ""}`,
		"<stdin>: error: Expected \"requireName\" to be a non-empty string\n")
	expectConfigFileError(t, `{"providers": []}`, "<stdin>: error: Expected \"providers\" to be an object\n")
	expectConfigFileError(t, `{"providers": {"x": 1}}`,
		"<stdin>: error: Expected a provider to be a string or an array of one or two strings\n")
	expectConfigFileError(t, `{"providers": {"x": []}}`,
		"<stdin>: error: Expected a provider to be a string or an array of one or two strings\n")
	expectConfigFileError(t, `{"providers": {"x": [1]}}`, "<stdin>: error: Expected the module path to be a string\n")
	expectConfigFileError(t, `{"providers": {"x": ["a", 1]}}`, "<stdin>: error: Expected the member name to be a string\n")
	expectConfigFileError(t, `{"providers": {"1x": ["a"]}}`, "<stdin>: error: Invalid provided name: \"1x\"\n")
	expectConfigFileError(t, `{"providers": {"x": [""]}}`,
		"<stdin>: error: Missing module path for provided name \"x\"\n")

	// Every invalid provider is reported
	expectConfigFileError(t, `{"providers": {"a": 1, "b": 2}}`,
		"<stdin>: error: Expected a provider to be a string or an array of one or two strings\n"+
			"<stdin>: error: Expected a provider to be a string or an array of one or two strings\n")

	// JSON syntax errors come from the JSON parser
	expectConfigFileError(t, `{"platform": }`, "<stdin>: error: Unexpected \"}\"\n")
}
