// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package preprocess

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/armaforge/armaforge/warn"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStringifyAndPaste(t *testing.T) {
	dir := t.TempDir()
	src := "#define Q(x) #x\n#define D(a,b) a##_##b\nfoo = Q(D(ace, frag));\n"
	path := writeTemp(t, dir, "main.hpp", src)
	out, _, err := Process(path, nil, warn.NewDiscard())
	if err != nil {
		t.Fatal(err)
	}
	want := `foo = "ace_frag";`
	if !strings.Contains(out, want) {
		t.Errorf("output = %q, want it to contain %q", out, want)
	}
}

func TestMacroInClassName(t *testing.T) {
	dir := t.TempDir()
	src := "#define DOUBLES(x,y) x##_##y\n" +
		"#define ADDON DOUBLES(ace, frag)\n" +
		"class CfgPatches { class ADDON { units[] = {}; }; };\n"
	path := writeTemp(t, dir, "main.hpp", src)
	out, _, err := Process(path, nil, warn.NewDiscard())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "class ace_frag") {
		t.Errorf("output = %q, want a class named ace_frag", out)
	}
}

func TestSelfRecursionBlocker(t *testing.T) {
	dir := t.TempDir()
	src := "#define X X y\nX\n"
	path := writeTemp(t, dir, "main.hpp", src)
	out, _, err := Process(path, nil, warn.NewDiscard())
	if err != nil {
		t.Fatal(err)
	}
	got := strings.TrimSpace(out)
	if got != "X y" {
		t.Errorf("output = %q, want %q", got, "X y")
	}
}

func TestLineOriginCount(t *testing.T) {
	dir := t.TempDir()
	src := "a = 1;\nb = 2;\nc = 3;\n"
	path := writeTemp(t, dir, "main.hpp", src)
	out, lm, err := Process(path, nil, warn.NewDiscard())
	if err != nil {
		t.Fatal(err)
	}
	newlines := strings.Count(out, "\n")
	if lm.Len() != newlines {
		t.Errorf("LineMap has %d entries, output has %d newlines", lm.Len(), newlines)
	}
	for i := 0; i < lm.Len(); i++ {
		if lm.Origin(i).Line != i+1 {
			t.Errorf("Origin(%d).Line = %d, want %d", i, lm.Origin(i).Line, i+1)
		}
	}
}

func TestConditionalSkip(t *testing.T) {
	dir := t.TempDir()
	src := "#define FOO\n" +
		"a = 1;\n" +
		"#ifdef FOO\n" +
		"b = 2;\n" +
		"#else\n" +
		"c = 3;\n" +
		"#endif\n" +
		"#ifndef FOO\n" +
		"d = 4;\n" +
		"#endif\n" +
		"e = 5;\n"
	path := writeTemp(t, dir, "main.hpp", src)
	out, _, err := Process(path, nil, warn.NewDiscard())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"a = 1;", "b = 2;", "e = 5;"} {
		if !strings.Contains(out, want) {
			t.Errorf("output = %q, want it to contain %q", out, want)
		}
	}
	for _, notWant := range []string{"c = 3;", "d = 4;"} {
		if strings.Contains(out, notWant) {
			t.Errorf("output = %q, did not want it to contain %q", out, notWant)
		}
	}
}

func TestNestedConditional(t *testing.T) {
	dir := t.TempDir()
	src := "#define OUTER\n" +
		"#ifdef OUTER\n" +
		"#ifdef INNER\n" +
		"x = 1;\n" +
		"#else\n" +
		"x = 2;\n" +
		"#endif\n" +
		"#endif\n"
	path := writeTemp(t, dir, "main.hpp", src)
	out, _, err := Process(path, nil, warn.NewDiscard())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "x = 2;") || strings.Contains(out, "x = 1;") {
		t.Errorf("output = %q, want only x = 2;", out)
	}
}

func TestArgCountMismatchBecomesLiteral(t *testing.T) {
	dir := t.TempDir()
	src := "#define PAIR(a,b) a b\nfoo = PAIR(one, two, three);\n"
	path := writeTemp(t, dir, "main.hpp", src)
	out, _, err := Process(path, nil, warn.NewDiscard())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "PAIR(") {
		t.Errorf("output = %q, want the mismatched invocation to survive literally", out)
	}
}

func TestIncludeRelative(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "child.hpp", "value = 42;\n")
	path := writeTemp(t, dir, "main.hpp", `#include "child.hpp"`+"\n")
	out, _, err := Process(path, nil, warn.NewDiscard())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "value = 42;") {
		t.Errorf("output = %q, want included content", out)
	}
}

func TestIncludeAbsoluteViaPrefix(t *testing.T) {
	root := t.TempDir()
	addon := filepath.Join(root, "x", "cba", "addons", "whatever")
	scripts := filepath.Join(addon, "scripts")
	if err := os.MkdirAll(scripts, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(addon, "$PBOPREFIX$"), []byte(`x\cba\addons\whatever`), 0o644); err != nil {
		t.Fatal(err)
	}
	writeTemp(t, scripts, "include.h", "value = 42;\n")
	path := writeTemp(t, root, "main.hpp", `#include "\x\cba\addons\whatever\scripts\include.h"`+"\n")
	out, _, err := Process(path, []string{root}, warn.NewDiscard())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "value = 42;") {
		t.Errorf("output = %q, want included content", out)
	}
}

func TestIncludeAbsoluteDirectFallback(t *testing.T) {
	root := t.TempDir()
	writeTemp(t, root, "include.h", "value = 7;\n")
	path := writeTemp(t, root, "main.hpp", `#include "\include.h"`+"\n")
	out, _, err := Process(path, []string{root}, warn.NewDiscard())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "value = 7;") {
		t.Errorf("output = %q, want included content", out)
	}
}

func TestIncludeNotFound(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "main.hpp", `#include "missing.hpp"`+"\n")
	_, _, err := Process(path, nil, warn.NewDiscard())
	if err == nil {
		t.Fatal("expected an error for a missing include")
	}
	if !warn.Is(err, warn.KindIncludeNotFound) {
		t.Errorf("error = %v, want Kind IncludeNotFound", err)
	}
}

func TestBuiltinLine(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "main.hpp", "n = __LINE__;\n")
	out, _, err := Process(path, nil, warn.NewDiscard())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "n = 1;") {
		t.Errorf("output = %q, want n = 1;", out)
	}
}
