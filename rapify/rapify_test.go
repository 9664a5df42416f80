// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rapify

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/armaforge/armaforge/biio"
	"github.com/armaforge/armaforge/config"
)

func mustParse(t *testing.T, src string) *config.Config {
	t.Helper()
	c, _, err := config.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return c
}

func roundTrip(t *testing.T, c *config.Config) *config.Config {
	t.Helper()
	data, err := Write(c)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(data)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return got
}

func TestEmptyRootHeaderBytes(t *testing.T) {
	c := &config.Config{Root: config.Class{Entries: nil}}
	data, err := Write(c)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	// 16-byte header, 1-byte parent C-string, 1-byte num_entries varint,
	// 4-byte trailer.
	want := []byte{
		0x00, 0x72, 0x61, 0x50, // magic
		0x00, 0x00, 0x00, 0x00, 0x08, 0x00, 0x00, 0x00, // reserved
	}
	if !bytes.Equal(data[:len(want)], want) {
		t.Fatalf("header = % x, want % x", data[:len(want)], want)
	}
	gotEnumOffset := biio.NewReader(data[12:16]).U32LE()
	if wantOffset := uint32(headerSize + 0 + 1); gotEnumOffset != wantOffset {
		t.Errorf("enum_offset = %d, want %d", gotEnumOffset, wantOffset)
	}
	if data[16] != 0x00 {
		t.Errorf("parent_name byte = %#x, want 0x00", data[16])
	}
	if data[17] != 0x00 {
		t.Errorf("num_entries varint = %#x, want 0x00", data[17])
	}
	tail := data[len(data)-4:]
	if !bytes.Equal(tail, []byte{0, 0, 0, 0}) {
		t.Errorf("enum_trailer = % x, want 00 00 00 00", tail)
	}
}

func TestVarintEncoding(t *testing.T) {
	w := biio.NewWriter()
	w.CompressedInt(300)
	if got, want := w.Bytes(), []byte{0xAC, 0x02}; !bytes.Equal(got, want) {
		t.Errorf("CompressedInt(300) = % x, want % x", got, want)
	}
}

func TestRapifyRoundTripScalarsAndArrays(t *testing.T) {
	c := mustParse(t, `
class CfgPatches {
	class Main {
		units[] = {"ace_main", "ace_frag"};
		requiredVersion = 2.0;
		count = 5;
		tags[] += {"x","y"};
	};
};
`)
	got := roundTrip(t, c)
	if !reflect.DeepEqual(*got, *c) {
		t.Fatalf("round trip mismatch:\n got: %+v\nwant: %+v", got, c)
	}
}

func TestRapifyRoundTripNestedClasses(t *testing.T) {
	c := mustParse(t, `
class A {
	class B {
		class C {
			v = 1;
		};
		w = "hi";
	};
	class D {
		x = 2;
	};
};
`)
	got := roundTrip(t, c)
	if !reflect.DeepEqual(*got, *c) {
		t.Fatalf("round trip mismatch:\n got: %+v\nwant: %+v", got, c)
	}
}

func TestRapifyExternalAndDeletion(t *testing.T) {
	c := mustParse(t, `class Foo; delete Bar;`)
	got := roundTrip(t, c)
	foo := got.Root.Entries[0].Value.(config.ClassValueEntry).Class
	if !foo.IsExternal || foo.Entries != nil {
		t.Errorf("Foo = %+v, want external stub with nil Entries", foo)
	}
	bar := got.Root.Entries[1].Value.(config.ClassValueEntry).Class
	if !bar.IsDeletion || bar.Entries != nil {
		t.Errorf("Bar = %+v, want deletion stub with nil Entries", bar)
	}
}

func TestRapifyEmptyArray(t *testing.T) {
	c := mustParse(t, `units[] = {};`)
	got := roundTrip(t, c)
	arr := got.Root.Entries[0].Value.(config.ArrayEntry).Array
	if len(arr.Elements) != 0 {
		t.Errorf("elements = %+v, want none", arr.Elements)
	}
}

func TestRapifyNestedArrays(t *testing.T) {
	c := mustParse(t, `grid[] = {{1,2},{3,4}};`)
	got := roundTrip(t, c)
	if !reflect.DeepEqual(*got, *c) {
		t.Fatalf("round trip mismatch:\n got: %+v\nwant: %+v", got, c)
	}
}

func TestBadMagicRejected(t *testing.T) {
	_, err := Read([]byte("not a rapified file at all"))
	if err == nil {
		t.Fatal("Read with bad magic: want error, got nil")
	}
}
