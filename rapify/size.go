// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rapify

import (
	"github.com/armaforge/armaforge/biio"
	"github.com/armaforge/armaforge/config"
)

// classBodySize is the size, in bytes, of cls's own header and entries,
// not including any nested class's body, which is written separately at
// an offset recorded in this class's entry list.
func classBodySize(cls *config.Class) int {
	n := len(cls.Parent) + 1 + biio.CompressedIntLen(uint32(len(cls.Entries)))
	for _, e := range cls.Entries {
		n += entrySize(e)
	}
	return n
}

func entrySize(e config.ClassEntry) int {
	nameLen := len(e.Key) + 1
	switch v := e.Value.(type) {
	case config.ClassValueEntry:
		switch {
		case v.Class.IsExternal, v.Class.IsDeletion:
			return 1 + nameLen
		default:
			return 1 + nameLen + 4
		}
	case config.StringEntry:
		return 1 + 1 + nameLen + len(string(v)) + 1
	case config.FloatEntry:
		return 1 + 1 + nameLen + 4
	case config.IntEntry:
		return 1 + 1 + nameLen + 4
	case config.ArrayEntry:
		size := nameLen + arraySize(v.Array)
		if v.Array.IsExpansion {
			return 1 + 4 + size
		}
		return 1 + size
	}
	return 0
}

// totalSize is classBodySize plus the recursive size of every nested
// class body reachable from cls, i.e. the full span of bytes cls and its
// descendants occupy once written.
func totalSize(cls *config.Class) int {
	n := classBodySize(cls)
	for _, e := range cls.Entries {
		if v, ok := e.Value.(config.ClassValueEntry); ok && !v.Class.IsExternal && !v.Class.IsDeletion {
			n += totalSize(&v.Class)
		}
	}
	return n
}

func arraySize(a config.ConfigArray) int {
	n := biio.CompressedIntLen(uint32(len(a.Elements)))
	for _, e := range a.Elements {
		n += 1 + arrayElementSize(e)
	}
	return n
}

func arrayElementSize(e config.ArrayElement) int {
	switch v := e.(type) {
	case config.StringElement:
		return len(string(v)) + 1
	case config.FloatElement:
		return 4
	case config.IntElement:
		return 4
	case config.SubArrayElement:
		return arraySize(v.Array)
	}
	return 0
}
