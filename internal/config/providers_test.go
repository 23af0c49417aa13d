package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yonasBSD/mako/internal/logger"
	"github.com/yonasBSD/mako/internal/test"
)

func TestProviderTable(t *testing.T) {
	input := map[string]Provider{
		"process": {Module: "process"},
		"Buffer":  {Module: "buffer", Member: "Buffer"},
	}
	table := NewProviderTable(input)

	// The table has its own copy of the map
	input["fs"] = Provider{Module: "fs"}
	test.AssertEqual(t, table.Len(), 2)

	p, ok := table.Lookup("Buffer")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, p, Provider{Module: "buffer", Member: "Buffer"})

	_, ok = table.Lookup("fs")
	test.AssertEqual(t, ok, false)
	_, ok = table.Lookup("buffer")
	test.AssertEqual(t, ok, false)

	if diff := cmp.Diff([]string{"Buffer", "process"}, table.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestNilProviderTable(t *testing.T) {
	var table *ProviderTable
	_, ok := table.Lookup("process")
	test.AssertEqual(t, ok, false)
	test.AssertEqual(t, table.Len(), 0)
	test.AssertEqual(t, len(table.Names()), 0)
}

func TestProviderString(t *testing.T) {
	test.AssertEqual(t, Provider{Module: "process"}.String(), "process")
	test.AssertEqual(t, Provider{Module: "buffer", Member: "Buffer"}.String(), "buffer,Buffer")
}

func TestParseProvider(t *testing.T) {
	expectProvider := func(value string, expected Provider) {
		t.Helper()
		p, err := ParseProvider(value)
		if err != nil {
			t.Fatalf("unexpected error for %q: %s", value, err)
		}
		test.AssertEqual(t, p, expected)
	}
	expectError := func(value string, expected string) {
		t.Helper()
		_, err := ParseProvider(value)
		if err == nil {
			t.Fatalf("expected an error for %q", value)
		}
		test.AssertEqual(t, err.Error(), expected)
	}

	expectProvider("process", Provider{Module: "process"})
	expectProvider("buffer,Buffer", Provider{Module: "buffer", Member: "Buffer"})
	expectProvider("./polyfills/process.js", Provider{Module: "./polyfills/process.js"})
	expectProvider("@scope/pkg,$x", Provider{Module: "@scope/pkg", Member: "$x"})

	expectError("", "Missing module path in \"\"")
	expectError(",x", "Missing module path in \",x\"")
	expectError("buffer,", "Missing member name after \",\" in \"buffer,\"")
	expectError("a,1b", "Invalid member name: \"1b\"")
	expectError("a,b,c", "Invalid member name: \"b,c\"")
}

func TestProcessProviders(t *testing.T) {
	log := logger.NewDeferLog()
	table := ProcessProviders(log, nil, PlatformNeutral, DefaultRequireName)
	test.AssertEqual(t, table.Len(), 0)

	table = ProcessProviders(log, nil, PlatformNode, DefaultRequireName)
	test.AssertEqual(t, table.Len(), 0)

	// Browser builds get the polyfills, and the table is shared
	table = ProcessProviders(log, nil, PlatformBrowser, DefaultRequireName)
	if diff := cmp.Diff([]string{"Buffer", "process"}, table.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if other := ProcessProviders(log, nil, PlatformBrowser, DefaultRequireName); other != table {
		t.Fatal("expected the polyfill table to be reused")
	}

	// User providers override the polyfills
	table = ProcessProviders(log, map[string]Provider{
		"process": {Module: "./my-process"},
		"global":  {Module: "./global", Member: "g"},
	}, PlatformBrowser, DefaultRequireName)
	p, _ := table.Lookup("process")
	test.AssertEqual(t, p, Provider{Module: "./my-process"})
	if diff := cmp.Diff([]string{"Buffer", "global", "process"}, table.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	test.AssertEqualWithDiff(t, test.MsgsToString(log.Done()),
		"warning: The provider \"./my-process\" replaces the default provider \"process\" for \"process\"\n")
}

func TestProcessProvidersSameProviderNoWarning(t *testing.T) {
	log := logger.NewDeferLog()
	ProcessProviders(log, map[string]Provider{
		"process": {Module: "process"},
	}, PlatformBrowser, DefaultRequireName)
	test.AssertEqual(t, test.MsgsToString(log.Done()), "")
}

func TestProcessProvidersRequireName(t *testing.T) {
	log := logger.NewDeferLog()
	table := ProcessProviders(log, map[string]Provider{
		"require": {Module: "my-require"},
		"$":       {Module: "jquery"},
	}, PlatformNeutral, DefaultRequireName)
	if diff := cmp.Diff([]string{"$"}, table.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	test.AssertEqualWithDiff(t, test.MsgsToString(log.Done()),
		"error: Cannot provide \"require\" because that name is used to load modules\n")

	// A polyfill with the same name as the loader is dropped without a message
	log = logger.NewDeferLog()
	table = ProcessProviders(log, nil, PlatformBrowser, "process")
	if diff := cmp.Diff([]string{"Buffer"}, table.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	test.AssertEqual(t, test.MsgsToString(log.Done()), "")
}

func TestProcessProvidersInvalid(t *testing.T) {
	log := logger.NewDeferLog()
	table := ProcessProviders(log, map[string]Provider{
		"1x": {Module: "a"},
		"y":  {Module: ""},
		"z":  {Module: "m", Member: "a-b"},
		"ok": {Module: "m"},
	}, PlatformNeutral, DefaultRequireName)

	if diff := cmp.Diff([]string{"ok"}, table.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	test.AssertEqualWithDiff(t, test.MsgsToString(log.Done()),
		"error: Invalid member name \"a-b\" for provided name \"z\"\n"+
			"error: Invalid provided name: \"1x\"\n"+
			"error: Missing module path for provided name \"y\"\n")
}

func TestRequireNameOrDefault(t *testing.T) {
	options := Options{}
	test.AssertEqual(t, options.RequireNameOrDefault(), "require")
	options.RequireName = "__mako_require__"
	test.AssertEqual(t, options.RequireNameOrDefault(), "__mako_require__")
}

func TestPlatformString(t *testing.T) {
	test.AssertEqual(t, PlatformNeutral.String(), "neutral")
	test.AssertEqual(t, PlatformBrowser.String(), "browser")
	test.AssertEqual(t, PlatformNode.String(), "node")
}
