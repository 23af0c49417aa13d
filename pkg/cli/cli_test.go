package cli

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/yonasBSD/mako/internal/exitcode"
	"github.com/yonasBSD/mako/internal/test"
	"github.com/yonasBSD/mako/pkg/api"
)

func expectParsed(t *testing.T, args []string, expected api.TransformOptions) {
	t.Helper()
	t.Run(strings.Join(args, " "), func(t *testing.T) {
		t.Helper()
		options := newRunOptions()
		if err := parseOptionsImpl(args, &options); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if diff := cmp.Diff(expected, options.transform); diff != "" {
			t.Fatalf("options mismatch (-want +got):\n%s", diff)
		}
	})
}

func expectParseError(t *testing.T, args []string, expected string) {
	t.Helper()
	t.Run(strings.Join(args, " "), func(t *testing.T) {
		t.Helper()
		options := newRunOptions()
		err := parseOptionsImpl(args, &options)
		if err == nil {
			t.Fatalf("expected an error")
		}
		test.AssertEqualWithDiff(t, err.Error(), expected)
		test.AssertEqual(t, exitcode.Get(err), exitcode.Usage)
	})
}

func defaultsWith(f func(*api.TransformOptions)) api.TransformOptions {
	options := newRunOptions().transform
	f(&options)
	return options
}

func TestParseOptions(t *testing.T) {
	expectParsed(t, nil, defaultsWith(func(*api.TransformOptions) {}))
	expectParsed(t, []string{"--provide:$=jquery", "--provide:Foo=foo,Foo"}, defaultsWith(func(o *api.TransformOptions) {
		o.Providers["$"] = api.Provider{Module: "jquery"}
		o.Providers["Foo"] = api.Provider{Module: "foo", Member: "Foo"}
	}))
	expectParsed(t, []string{"--platform=node", "--require-name=__mako_require__"}, defaultsWith(func(o *api.TransformOptions) {
		o.Platform = api.PlatformNode
		o.RequireName = "__mako_require__"
	}))
	expectParsed(t, []string{"--minify-whitespace", "--ascii-only", "--indent=4"}, defaultsWith(func(o *api.TransformOptions) {
		o.MinifyWhitespace = true
		o.ASCIIOnly = true
		o.Indent = 4
	}))
	expectParsed(t, []string{"--color", "--log-level=silent", "--error-limit=0", "--sourcefile=in.js"}, defaultsWith(func(o *api.TransformOptions) {
		o.Color = api.ColorAlways
		o.LogLevel = api.LogLevelSilent
		o.ErrorLimit = 0
		o.Sourcefile = "in.js"
	}))
	expectParsed(t, []string{"--color=false"}, defaultsWith(func(o *api.TransformOptions) {
		o.Color = api.ColorNever
	}))
}

func TestParseOptionsFiles(t *testing.T) {
	options := newRunOptions()
	err := parseOptionsImpl([]string{"a.js", "--outdir=out", "b.js", "--watch"}, &options)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	test.AssertEqual(t, strings.Join(options.files, ","), "a.js,b.js")
	test.AssertEqual(t, options.outdir, "out")
	test.AssertEqual(t, options.watch, true)
}

func TestParseOptionsErrors(t *testing.T) {
	expectParseError(t, []string{"--bundle"}, "Invalid flag: \"--bundle\"")
	expectParseError(t, []string{"--provide:X"}, "Missing \"=\" in \"--provide:X\"")
	expectParseError(t, []string{"--provide:X=foo,"}, "Missing member name after \",\" in \"foo,\"")
	expectParseError(t, []string{"--provide:X=,Y"}, "Missing module path in \",Y\"")
	expectParseError(t, []string{"--platform=deno"},
		"Invalid platform value: \"deno\"\n\n  Valid values are \"browser\", \"node\", or \"neutral\".")
	expectParseError(t, []string{"--indent=-2"}, "Invalid indent value: \"-2\"")
	expectParseError(t, []string{"--error-limit=x"}, "Invalid error limit: \"x\"")
	expectParseError(t, []string{"--repl", "a.js"}, "Cannot use \"--repl\" with input files")
	expectParseError(t, []string{"--watch"}, "Cannot use \"--watch\" without input files")
	expectParseError(t, []string{"a.js", "b.js"}, "Must use \"--outdir\" when there are multiple input files")
}

func writeFileForTest(t *testing.T, path string, contents string) {
	t.Helper()
	if err := ioutil.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFileForTest(t *testing.T, path string) string {
	t.Helper()
	contents, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(contents)
}

func TestRunStdin(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := runImpl(nil, strings.NewReader("x = Buffer.from(process.env)\n"), &stdout, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	test.AssertEqualWithDiff(t, stdout.String(), `const Buffer = require("buffer").Buffer;
const process = require("process");
x = Buffer.from(process.env);
`)
}

func TestRunStdinError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := runImpl([]string{"--log-level=silent"}, strings.NewReader("x = ;\n"), &stdout, &stderr)
	test.AssertEqual(t, err, exitcode.ErrReported)
	test.AssertEqual(t, exitcode.Get(err), exitcode.Failure)
	test.AssertEqual(t, stdout.String(), "")
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "in.js")
	writeFileForTest(t, file, "$(() => $.ready)\n")

	var stdout, stderr bytes.Buffer
	err := runImpl([]string{file, "--platform=neutral", "--provide:$=jquery"}, strings.NewReader(""), &stdout, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	test.AssertEqualWithDiff(t, stdout.String(), "const $ = require(\"jquery\");\n$(() => $.ready);\n")
}

func TestRunOutdir(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.js")
	b := filepath.Join(dir, "b.js")
	outdir := filepath.Join(dir, "out")
	writeFileForTest(t, a, "process.exit(1)\n")
	writeFileForTest(t, b, "let process = 1\nprocess\n")

	var stdout, stderr bytes.Buffer
	err := runImpl([]string{a, b, "--outdir=" + outdir}, strings.NewReader(""), &stdout, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	test.AssertEqual(t, stdout.String(), "")
	test.AssertEqualWithDiff(t, readFileForTest(t, filepath.Join(outdir, "a.js")),
		"const process = require(\"process\");\nprocess.exit(1);\n")
	test.AssertEqualWithDiff(t, readFileForTest(t, filepath.Join(outdir, "b.js")),
		"let process = 1;\nprocess;\n")
}

func TestRunOutdirCollision(t *testing.T) {
	dir := t.TempDir()
	err := runImpl([]string{filepath.Join(dir, "x", "a.js"), filepath.Join(dir, "y", "a.js"), "--outdir=" + dir},
		strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	if err == nil {
		t.Fatalf("expected an error")
	}
	test.AssertEqual(t, exitcode.Get(err), exitcode.Usage)
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "mako.config.json")
	writeFileForTest(t, configFile, `{
		// Comments and trailing commas are allowed
		"platform": "node",
		"requireName": "__mako_require__",
		"providers": {
			"Foo": ["foo", "Foo"],
			"Bar": "bar",
		},
	}`)

	// Values from the command line win over the config file
	var stdout, stderr bytes.Buffer
	err := runImpl([]string{"--config=" + configFile, "--provide:Bar=other-bar"},
		strings.NewReader("new Foo(Bar, process)\n"), &stdout, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	test.AssertEqualWithDiff(t, stdout.String(), `const Foo = __mako_require__("foo").Foo;
const Bar = __mako_require__("other-bar");
new Foo(Bar, process);
`)
}

func TestRunConfigFileMissing(t *testing.T) {
	err := runImpl([]string{"--config=" + filepath.Join(t.TempDir(), "missing.json")},
		strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	if err == nil || !strings.HasPrefix(err.Error(), "Could not read config file: ") {
		t.Fatalf("unexpected error: %v", err)
	}
	test.AssertEqual(t, exitcode.Get(err), exitcode.Failure)
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "in.js")
	writeFileForTest(t, file, "a\n")

	changes := make(chan string, 8)
	w := newWatcher([]string{file})
	w.interval = time.Millisecond
	w.retransform = func(path string) { changes <- path }
	w.start()
	defer w.stop()

	// Writing the same contents again is not a change
	writeFileForTest(t, file, "a\n")
	writeFileForTest(t, file, "b\n")

	select {
	case path := <-changes:
		test.AssertEqual(t, path, file)
	case <-time.After(10 * time.Second):
		t.Fatalf("the change was never noticed")
	}
}

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "in.js")
	isDirty := watchFile(file)
	test.AssertEqual(t, isDirty(), false)

	writeFileForTest(t, file, "a\n")
	test.AssertEqual(t, isDirty(), true)
	test.AssertEqual(t, isDirty(), false)

	writeFileForTest(t, file, "a\n")
	test.AssertEqual(t, isDirty(), false)

	writeFileForTest(t, file, "")
	test.AssertEqual(t, isDirty(), true)
}
