// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pbo reads and writes Bohemia Interactive's PBO archive format
// a flat concatenation of per-file headers, an optional leading
// product-entry block of key/value metadata, file payloads in header
// order, and a trailing SHA-1 checksum.
//
// The header-sequence-then-payload reading shape, and the pattern of
// trusting declared sizes rather than re-scanning for boundaries, is
// grounded on perffile/reader.go's record-table walk.
package pbo

import (
	"crypto/sha1"
	"fmt"
	"sort"
	"strings"

	"github.com/armaforge/armaforge/biio"
	"github.com/armaforge/armaforge/warn"
)

const packingMethodVers = 0x56657273 // ASCII "Vers"

// Header is one PBO file-table entry.
type Header struct {
	Filename      string
	PackingMethod uint32
	OriginalSize  uint32
	Reserved      uint32
	Timestamp     uint32
	DataSize      uint32
}

// PBO is a parsed or in-progress archive.
type PBO struct {
	Extensions map[string]string
	Names      []string
	Files      map[string][]byte
	Checksum   [20]byte
}

func newPBO() *PBO {
	return &PBO{Extensions: map[string]string{}, Files: map[string][]byte{}}
}

// Read parses data as a complete PBO archive.
func Read(data []byte) (*PBO, error) {
	r := biio.NewReader(data)
	p := newPBO()

	first, err := readHeader(r)
	if err != nil {
		return nil, warn.Wrap(warn.KindPBOFormat, "reading product-entry header", err)
	}
	if first.Filename == "" && first.PackingMethod == packingMethodVers {
		for {
			key := r.CString()
			if r.Err() != nil {
				return nil, warn.Wrap(warn.KindPBOFormat, "reading product entries", r.Err())
			}
			if key == "" {
				break
			}
			p.Extensions[key] = r.CString()
		}
		first, err = readHeader(r)
		if err != nil {
			return nil, warn.Wrap(warn.KindPBOFormat, "reading first file header", err)
		}
	}

	var headers []Header
	for first.Filename != "" {
		headers = append(headers, first)
		first, err = readHeader(r)
		if err != nil {
			return nil, warn.Wrap(warn.KindPBOFormat, "reading file header", err)
		}
	}

	for _, h := range headers {
		data := r.Bytes(int(h.DataSize))
		if r.Err() != nil {
			return nil, warn.Wrap(warn.KindPBOFormat, fmt.Sprintf("reading payload for %q", h.Filename), r.Err())
		}
		p.Names = append(p.Names, h.Filename)
		p.Files[h.Filename] = data
	}

	r.Skip(1) // discarded byte before the checksum
	sum := r.Bytes(20)
	if r.Err() != nil {
		return nil, warn.Wrap(warn.KindPBOFormat, "reading checksum trailer", r.Err())
	}
	copy(p.Checksum[:], sum)
	return p, nil
}

func readHeader(r *biio.Reader) (Header, error) {
	h := Header{
		Filename:      r.CString(),
		PackingMethod: r.U32LE(),
		OriginalSize:  r.U32LE(),
		Reserved:      r.U32LE(),
		Timestamp:     r.U32LE(),
		DataSize:      r.U32LE(),
	}
	return h, r.Err()
}

func writeHeader(w *biio.Writer, h Header) {
	w.CString(h.Filename)
	w.U32LE(h.PackingMethod)
	w.U32LE(h.OriginalSize)
	w.U32LE(h.Reserved)
	w.U32LE(h.Timestamp)
	w.U32LE(h.DataSize)
}

// sortedNames returns p.Names ordered case-insensitively, breaking ties
// with the original ordinal order (this is the only reordering and
// is deterministic").
func sortedNames(names []string) []string {
	out := append([]string(nil), names...)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

// Write serialises p, sorting file entries by case-insensitive name and
// appending the SHA-1 checksum.
func (p *PBO) Write() []byte {
	names := sortedNames(p.Names)
	w := biio.NewWriter()

	writeHeader(w, Header{PackingMethod: packingMethodVers})
	if prefix, ok := p.Extensions["prefix"]; ok {
		w.CString("prefix")
		w.CString(prefix)
	}
	var otherKeys []string
	for k := range p.Extensions {
		if k != "prefix" {
			otherKeys = append(otherKeys, k)
		}
	}
	sort.Strings(otherKeys)
	for _, k := range otherKeys {
		w.CString(k)
		w.CString(p.Extensions[k])
	}
	w.CString("")

	for _, name := range names {
		body := p.Files[name]
		writeHeader(w, Header{Filename: name, DataSize: uint32(len(body))})
	}
	writeHeader(w, Header{}) // trailer: empty filename, all zero

	for _, name := range names {
		w.Raw(p.Files[name])
	}
	w.U8(0)

	sum := sha1.Sum(w.Bytes())
	w.Raw(sum[:])
	return w.Bytes()
}

// Add inserts or replaces a file entry.
func (p *PBO) Add(name string, body []byte) {
	if _, exists := p.Files[name]; !exists {
		p.Names = append(p.Names, name)
	}
	p.Files[name] = body
}

// SortedNames returns the archive's file names in the order Write would
// emit them (case-insensitive, stable).
func (p *PBO) SortedNames() []string {
	return sortedNames(p.Names)
}
