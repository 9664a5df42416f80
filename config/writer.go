// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Write renders c back to config source text. It is the approximate
// inverse of Parse: float formatting and original whitespace are not
// preserved, but key order, class nesting and the external/deletion/empty
// distinctions are.
func Write(c *Config) string {
	var b strings.Builder
	for _, e := range c.Root.Entries {
		writeEntry(&b, e, 0)
	}
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("\t")
	}
}

func writeEntry(b *strings.Builder, e ClassEntry, depth int) {
	indent(b, depth)
	switch v := e.Value.(type) {
	case ClassValueEntry:
		writeClass(b, v.Class, depth)
	case StringEntry:
		fmt.Fprintf(b, "%s = %s;\n", e.Key, quoteString(string(v)))
	case FloatEntry:
		fmt.Fprintf(b, "%s = %s;\n", e.Key, formatFloat(float32(v)))
	case IntEntry:
		fmt.Fprintf(b, "%s = %d;\n", e.Key, int32(v))
	case ArrayEntry:
		op := "[]"
		if v.Array.IsExpansion {
			op = "[] +"
		}
		fmt.Fprintf(b, "%s%s = %s;\n", e.Key, op, formatArray(v.Array))
	}
}

func writeClass(b *strings.Builder, cls Class, depth int) {
	if cls.IsDeletion {
		fmt.Fprintf(b, "delete %s;\n", cls.Name)
		return
	}
	b.WriteString("class ")
	b.WriteString(cls.Name)
	if cls.Parent != "" {
		b.WriteString(": ")
		b.WriteString(cls.Parent)
	}
	if cls.IsExternal {
		b.WriteString(";\n")
		return
	}
	if len(cls.Entries) == 0 {
		b.WriteString(" {};\n")
		return
	}
	b.WriteString(" {\n")
	for _, e := range cls.Entries {
		writeEntry(b, e, depth+1)
	}
	indent(b, depth)
	b.WriteString("};\n")
}

func formatArray(a ConfigArray) string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = formatArrayElement(e)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func formatArrayElement(e ArrayElement) string {
	switch v := e.(type) {
	case StringElement:
		return quoteString(string(v))
	case FloatElement:
		return formatFloat(float32(v))
	case IntElement:
		return strconv.Itoa(int(int32(v)))
	case SubArrayElement:
		return formatArray(v.Array)
	}
	return ""
}

func quoteString(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// formatFloat matches the "accept any round-trippable float format" rule
// the writer's own choice is the shortest representation that
// reads back the same value, not a byte-exact replica of the original
// debug-style formatter.
func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}
