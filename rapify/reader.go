// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rapify

import (
	"fmt"

	"github.com/armaforge/armaforge/biio"
	"github.com/armaforge/armaforge/config"
)

// reader is single-threaded random access over the full file contents:
// readClassBody seeks to an absolute offset, reads a class, and returns,
// leaving the caller's own cursor position untouched: it never shares a
// cursor across a body_offset jump.
type reader struct {
	buf []byte
}

func (r *reader) at(offset int) *biio.Reader {
	return biio.NewReader(r.buf[offset:])
}

func (r *reader) readClassBody(offset int) (*config.Class, error) {
	br := r.at(offset)
	cls := &config.Class{Parent: br.CString(), Entries: []config.ClassEntry{}}
	n := br.CompressedInt()
	if err := br.Err(); err != nil {
		return nil, fmt.Errorf("class header at offset %d: %w", offset, err)
	}

	type pending struct {
		index  int
		offset int
	}
	var children []pending

	for i := uint32(0); i < n; i++ {
		tag := br.U8()
		var entry config.ClassEntry
		switch tag {
		case tagClass:
			name := br.CString()
			childOffset := br.U32LE()
			entry = config.ClassEntry{Key: name, Value: config.ClassValueEntry{Class: config.Class{Name: name}}}
			children = append(children, pending{index: len(cls.Entries), offset: int(childOffset)})
		case tagScalar:
			sub := br.U8()
			name := br.CString()
			switch sub {
			case subString:
				entry = config.ClassEntry{Key: name, Value: config.StringEntry(br.CString())}
			case subFloat:
				entry = config.ClassEntry{Key: name, Value: config.FloatEntry(br.F32LE())}
			case subInt:
				entry = config.ClassEntry{Key: name, Value: config.IntEntry(br.I32LE())}
			default:
				return nil, fmt.Errorf("class %q: unknown scalar sub-tag %#x", cls.Parent, sub)
			}
		case tagArray:
			name := br.CString()
			arr, err := readArray(br)
			if err != nil {
				return nil, err
			}
			entry = config.ClassEntry{Key: name, Value: config.ArrayEntry{Array: arr}}
		case tagExternal:
			name := br.CString()
			entry = config.ClassEntry{Key: name, Value: config.ClassValueEntry{Class: config.Class{Name: name, IsExternal: true}}}
		case tagDeletion:
			name := br.CString()
			entry = config.ClassEntry{Key: name, Value: config.ClassValueEntry{Class: config.Class{Name: name, IsDeletion: true}}}
		case tagExpansion:
			br.Skip(4)
			name := br.CString()
			arr, err := readArray(br)
			if err != nil {
				return nil, err
			}
			arr.IsExpansion = true
			entry = config.ClassEntry{Key: name, Value: config.ArrayEntry{Array: arr}}
		default:
			return nil, fmt.Errorf("class %q: unknown entry tag %#x", cls.Parent, tag)
		}
		if err := br.Err(); err != nil {
			return nil, fmt.Errorf("class %q entry %d: %w", cls.Parent, i, err)
		}
		cls.Entries = append(cls.Entries, entry)
	}

	for _, c := range children {
		child, err := r.readClassBody(c.offset)
		if err != nil {
			return nil, err
		}
		orig := cls.Entries[c.index].Value.(config.ClassValueEntry).Class
		child.Name = orig.Name
		cls.Entries[c.index].Value = config.ClassValueEntry{Class: *child}
	}
	return cls, nil
}

func readArray(br *biio.Reader) (config.ConfigArray, error) {
	n := br.CompressedInt()
	arr := config.ConfigArray{Elements: []config.ArrayElement{}}
	for i := uint32(0); i < n; i++ {
		kind := br.U8()
		switch kind {
		case elemString:
			arr.Elements = append(arr.Elements, config.StringElement(br.CString()))
		case elemFloat:
			arr.Elements = append(arr.Elements, config.FloatElement(br.F32LE()))
		case elemInt:
			arr.Elements = append(arr.Elements, config.IntElement(br.I32LE()))
		case elemArray:
			sub, err := readArray(br)
			if err != nil {
				return config.ConfigArray{}, err
			}
			arr.Elements = append(arr.Elements, config.SubArrayElement{Array: sub})
		default:
			return config.ConfigArray{}, fmt.Errorf("unknown array element type %#x", kind)
		}
	}
	if err := br.Err(); err != nil {
		return config.ConfigArray{}, err
	}
	return arr, nil
}
