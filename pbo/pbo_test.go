// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pbo

import (
	"bytes"
	"crypto/sha1"
	"os"
	"path/filepath"
	"testing"
)

func TestPBORoundTrip(t *testing.T) {
	p := newPBO()
	p.Extensions["prefix"] = "x\\addons\\ace_frag"
	p.Add("config.cpp", []byte("class CfgPatches {};"))
	p.Add("model.p3d", []byte{0x01, 0x02, 0x03})

	data := p.Write()
	got, err := Read(data)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Extensions["prefix"] != p.Extensions["prefix"] {
		t.Errorf("prefix = %q, want %q", got.Extensions["prefix"], p.Extensions["prefix"])
	}
	wantNames := p.SortedNames()
	if len(got.Names) != len(wantNames) {
		t.Fatalf("names = %v, want %v", got.Names, wantNames)
	}
	for i, name := range wantNames {
		if got.Names[i] != name {
			t.Errorf("Names[%d] = %q, want %q", i, got.Names[i], name)
		}
		if !bytes.Equal(got.Files[name], p.Files[name]) {
			t.Errorf("Files[%q] = %v, want %v", name, got.Files[name], p.Files[name])
		}
	}
}

func TestPBOSortOrder(t *testing.T) {
	p := newPBO()
	p.Add("Zulu.txt", []byte("z"))
	p.Add("alpha.txt", []byte("a"))
	p.Add("Mike.txt", []byte("m"))

	want := []string{"alpha.txt", "Mike.txt", "Zulu.txt"}
	got := p.SortedNames()
	for i, name := range want {
		if got[i] != name {
			t.Fatalf("SortedNames = %v, want %v", got, want)
		}
	}

	data := p.Write()
	read, err := Read(data)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	for i, name := range want {
		if read.Names[i] != name {
			t.Fatalf("Read order = %v, want %v", read.Names, want)
		}
	}
}

func TestPBOChecksum(t *testing.T) {
	p := newPBO()
	p.Add("a.txt", []byte("hello"))
	data := p.Write()

	read, err := Read(data)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := sha1.Sum(data[:len(data)-20])
	if read.Checksum != want {
		t.Errorf("Checksum = % x, want % x", read.Checksum, want)
	}
}

func TestBuildFromDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "$PBOPREFIX$"), []byte("x\\ace_frag\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Build(dir, BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.Extensions["prefix"] != "x\\ace_frag" {
		t.Errorf("prefix = %q, want x\\ace_frag", p.Extensions["prefix"])
	}
	if string(p.Files["readme.txt"]) != "hi" {
		t.Errorf("readme.txt = %q, want hi", p.Files["readme.txt"])
	}
	if _, ok := p.Files["$PBOPREFIX$"]; ok {
		t.Error("$PBOPREFIX$ should not appear as an archive entry")
	}
}

func TestBuildExcludesGlob(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("k"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "drop.bak"), []byte("d"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Build(dir, BuildOptions{Exclude: []string{"*.bak"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := p.Files["drop.bak"]; ok {
		t.Error("drop.bak should have been excluded")
	}
	if _, ok := p.Files["keep.txt"]; !ok {
		t.Error("keep.txt should have been kept")
	}
}

func TestBuildNoBinSentinelDisablesBinarize(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "$NOBIN$"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.cpp"), []byte("class CfgPatches {};"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Build(dir, BuildOptions{Binarize: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := p.Files["config.cpp"]; !ok {
		t.Error("config.cpp should remain untouched text, not binarized to .bin")
	}
}
