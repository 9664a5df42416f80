// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) *Config {
	t.Helper()
	c, _, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return c
}

func TestParseBasicClass(t *testing.T) {
	c := mustParse(t, `class CfgPatches { class Main { units[] = {"ace"}; }; };`)
	if len(c.Root.Entries) != 1 {
		t.Fatalf("got %d root entries, want 1", len(c.Root.Entries))
	}
	top := c.Root.Entries[0]
	if top.Key != "CfgPatches" {
		t.Fatalf("top.Key = %q, want CfgPatches", top.Key)
	}
	cls, ok := top.Value.(ClassValueEntry)
	if !ok {
		t.Fatalf("top.Value is %T, want ClassValueEntry", top.Value)
	}
	if len(cls.Class.Entries) != 1 || cls.Class.Entries[0].Key != "Main" {
		t.Fatalf("CfgPatches entries = %+v", cls.Class.Entries)
	}
	inner := cls.Class.Entries[0].Value.(ClassValueEntry).Class
	arr := inner.Entries[0].Value.(ArrayEntry).Array
	if len(arr.Elements) != 1 || arr.Elements[0].(StringElement) != "ace" {
		t.Fatalf("units = %+v", arr.Elements)
	}
}

func TestNumberClassification(t *testing.T) {
	c := mustParse(t, `a = 5; b = 5.0; c = 5e2; d = -7; e = 2147483648;`)
	want := map[string]Entry{
		"a": IntEntry(5),
		"b": FloatEntry(5.0),
		"c": FloatEntry(500),
		"d": IntEntry(-7),
		"e": FloatEntry(2147483648),
	}
	for _, entry := range c.Root.Entries {
		if w, ok := want[entry.Key]; ok && w != entry.Value {
			t.Errorf("%s = %#v, want %#v", entry.Key, entry.Value, w)
		}
	}
}

func TestExternalAndDeletion(t *testing.T) {
	c := mustParse(t, `class Foo; delete Bar;`)
	if len(c.Root.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(c.Root.Entries))
	}
	foo := c.Root.Entries[0].Value.(ClassValueEntry).Class
	if !foo.IsExternal || foo.Entries != nil {
		t.Errorf("Foo = %+v, want IsExternal with nil Entries", foo)
	}
	bar := c.Root.Entries[1].Value.(ClassValueEntry).Class
	if !bar.IsDeletion || bar.Entries != nil {
		t.Errorf("Bar = %+v, want IsDeletion with nil Entries", bar)
	}
}

func TestEmptyArrayRoundTrip(t *testing.T) {
	c := mustParse(t, `units[] = {};`)
	arr := c.Root.Entries[0].Value.(ArrayEntry).Array
	if len(arr.Elements) != 0 {
		t.Fatalf("elements = %+v, want none", arr.Elements)
	}
	out := Write(c)
	if !strings.Contains(out, "units[] = {};") {
		t.Errorf("Write = %q, want it to contain units[] = {};", out)
	}
}

func TestArrayExpansion(t *testing.T) {
	c := mustParse(t, `units[] += {"a","b"};`)
	arr := c.Root.Entries[0].Value.(ArrayEntry).Array
	if !arr.IsExpansion {
		t.Error("IsExpansion = false, want true")
	}
}

func TestTrailingCommaWarning(t *testing.T) {
	_, warnings, err := Parse(`units[] = {"a", "b",};`)
	if err != nil {
		t.Fatal(err)
	}
	if !hasWarning(warnings, "trailing-comma") {
		t.Errorf("warnings = %+v, want trailing-comma", warnings)
	}
}

func TestDuplicateKeyWarning(t *testing.T) {
	_, warnings, err := Parse(`a = 1; a = 2;`)
	if err != nil {
		t.Fatal(err)
	}
	if !hasWarning(warnings, "duplicate-key") {
		t.Errorf("warnings = %+v, want duplicate-key", warnings)
	}
}

func TestQuotedEscape(t *testing.T) {
	c := mustParse(t, `s = "he said ""hi""";`)
	s := c.Root.Entries[0].Value.(StringEntry)
	if string(s) != `he said "hi"` {
		t.Errorf("s = %q, want %q", s, `he said "hi"`)
	}
}

func TestEmptyClassBodyWrite(t *testing.T) {
	c := mustParse(t, `class Foo {};`)
	out := Write(c)
	if !strings.Contains(out, "class Foo {};") {
		t.Errorf("Write = %q, want class Foo {};", out)
	}
}

func hasWarning(ws []Warning, name string) bool {
	for _, w := range ws {
		if w.Name == name {
			return true
		}
	}
	return false
}
