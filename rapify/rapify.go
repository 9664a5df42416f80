// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rapify converts between config.Config trees and Bohemia's
// "rapified" \0raP binary format: a header, a tree of class bodies
// linked by absolute file offsets, and a fixed trailer.
//
// The offset-discipline writer and the seek-record-restore reader are
// grounded on perffile's record layout (perffile/format.go's fileHeader,
// perffile/reader.go's save-position-then-seek pattern for its optional
// per-record sections) generalized from perf.data's single flat record
// table to rapify's recursive class tree.
package rapify

import (
	"fmt"

	"github.com/armaforge/armaforge/biio"
	"github.com/armaforge/armaforge/config"
	"github.com/armaforge/armaforge/warn"
)

const (
	magic        = "\x00raP"
	headerSize   = 16 // magic(4) + reserved(8) + enum_offset(4)
	trailerSize  = 4
	tagClass     = 0x00
	tagScalar    = 0x01
	tagArray     = 0x02
	tagExternal  = 0x03
	tagDeletion  = 0x04
	tagExpansion = 0x05

	subString = 0x00
	subFloat  = 0x01
	subInt    = 0x02

	elemString = 0
	elemFloat  = 1
	elemInt    = 2
	elemArray  = 3
)

var reserved = [8]byte{0, 0, 0, 0, 8, 0, 0, 0}

var expansionMarker = [4]byte{0x01, 0x00, 0x00, 0x00}

// Write serialises c as a rapified byte stream.
func Write(c *config.Config) ([]byte, error) {
	w := &writer{bw: biio.NewWriter()}
	w.bw.Raw([]byte(magic))
	w.bw.Raw(reserved[:])
	enumOffset := headerSize + len(c.Root.Parent) + 1
	w.bw.U32LE(uint32(enumOffset))
	if err := w.writeClassBody(&c.Root, headerSize); err != nil {
		return nil, warn.Wrap(warn.KindInternal, "writing root class body", err)
	}
	w.bw.Raw(make([]byte, trailerSize))
	return w.bw.Bytes(), nil
}

// Read parses a rapified byte stream back into a Config tree.
func Read(data []byte) (*config.Config, error) {
	r := &reader{buf: data}
	if len(data) < headerSize {
		return nil, warn.Wrap(warn.KindRapifyFormat, "reading header", biio.ErrUnexpectedEOF)
	}
	if string(data[:4]) != magic {
		return nil, warn.Wrap(warn.KindRapifyFormat, "reading header", fmt.Errorf("bad magic %q", data[:4]))
	}
	root, err := r.readClassBody(headerSize)
	if err != nil {
		return nil, warn.Wrap(warn.KindRapifyFormat, "reading root class body", err)
	}
	return &config.Config{Root: *root}, nil
}
