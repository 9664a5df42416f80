// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rapify

import (
	"fmt"

	"github.com/armaforge/armaforge/biio"
	"github.com/armaforge/armaforge/config"
)

type writer struct {
	bw *biio.Writer
}

// writeClassBody writes cls's own header and entries at bodyOffset, then
// recurses into its nested classes' bodies in entry order. bodyOffset
// must equal w.bw.Len() on entry: the offset discipline threads a single
// running cursor through the whole tree, so every body starts exactly
// where the previous write left off.
func (w *writer) writeClassBody(cls *config.Class, bodyOffset int) error {
	if w.bw.Len() != bodyOffset {
		return fmt.Errorf("internal: class %q body offset mismatch: at %d, want %d", cls.Name, w.bw.Len(), bodyOffset)
	}
	w.bw.CString(cls.Parent)
	w.bw.CompressedInt(uint32(len(cls.Entries)))

	childOffsets := make([]int, len(cls.Entries))
	cursor := bodyOffset + classBodySize(cls)
	for i, e := range cls.Entries {
		start := w.bw.Len()
		switch v := e.Value.(type) {
		case config.ClassValueEntry:
			switch {
			case v.Class.IsExternal:
				w.bw.U8(tagExternal)
				w.bw.CString(e.Key)
			case v.Class.IsDeletion:
				w.bw.U8(tagDeletion)
				w.bw.CString(e.Key)
			default:
				w.bw.U8(tagClass)
				w.bw.CString(e.Key)
				w.bw.U32LE(uint32(cursor))
				childOffsets[i] = cursor
				cursor += totalSize(&v.Class)
			}
		case config.StringEntry:
			w.bw.U8(tagScalar)
			w.bw.U8(subString)
			w.bw.CString(e.Key)
			w.bw.CString(string(v))
		case config.FloatEntry:
			w.bw.U8(tagScalar)
			w.bw.U8(subFloat)
			w.bw.CString(e.Key)
			w.bw.F32LE(float32(v))
		case config.IntEntry:
			w.bw.U8(tagScalar)
			w.bw.U8(subInt)
			w.bw.CString(e.Key)
			w.bw.I32LE(int32(v))
		case config.ArrayEntry:
			if v.Array.IsExpansion {
				w.bw.U8(tagExpansion)
				w.bw.Raw(expansionMarker[:])
			} else {
				w.bw.U8(tagArray)
			}
			w.bw.CString(e.Key)
			w.writeArray(v.Array)
		default:
			return fmt.Errorf("internal: unhandled entry type %T for %q", e.Value, e.Key)
		}
		if got, want := w.bw.Len()-start, entrySize(e); got != want {
			return fmt.Errorf("internal: entry %q wrote %d bytes, want %d", e.Key, got, want)
		}
	}

	if got, want := w.bw.Len(), bodyOffset+classBodySize(cls); got != want {
		return fmt.Errorf("internal: class %q body wrote %d bytes, want %d", cls.Name, got-bodyOffset, want-bodyOffset)
	}

	for i, e := range cls.Entries {
		v, ok := e.Value.(config.ClassValueEntry)
		if !ok || v.Class.IsExternal || v.Class.IsDeletion {
			continue
		}
		if err := w.writeClassBody(&v.Class, childOffsets[i]); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writeArray(a config.ConfigArray) {
	w.bw.CompressedInt(uint32(len(a.Elements)))
	for _, e := range a.Elements {
		switch v := e.(type) {
		case config.StringElement:
			w.bw.U8(elemString)
			w.bw.CString(string(v))
		case config.FloatElement:
			w.bw.U8(elemFloat)
			w.bw.F32LE(float32(v))
		case config.IntElement:
			w.bw.U8(elemInt)
			w.bw.I32LE(int32(v))
		case config.SubArrayElement:
			w.bw.U8(elemArray)
			w.writeArray(v.Array)
		}
	}
}
