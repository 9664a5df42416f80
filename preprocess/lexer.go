// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package preprocess

import (
	"fmt"
	"strings"
)

// logicalLine is one line of input after continuations and comments have
// been folded into TokNewline/TokComment markers, but before macro
// resolution.
type logicalLine struct {
	tokens    []Token
	startLine int // original line number of the first physical line
}

func isIdentStart(r byte) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentCont(r byte) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

var directiveKeywords = map[string]bool{
	"include": true, "define": true, "undef": true,
	"ifdef": true, "ifndef": true, "else": true, "endif": true,
}

// directiveKeywordAt reports whether an identifier starting at pos is one
// of the directive keywords recognized at the start of a logical line.
func directiveKeywordAt(src string, pos int) bool {
	j := pos
	for j < len(src) && isIdentCont(src[j]) {
		j++
	}
	return directiveKeywords[src[pos:j]]
}

// tokenizeSource splits normalized source (LF line endings, BOM already
// stripped) into logical lines of Tokens, handling backslash-newline
// continuation and comment removal as it goes so every consumed original
// newline is accounted for in a TokNewline/TokComment token, or in the
// logical line boundary itself.
//
// A leading '#' immediately introducing one of the directive keywords is
// emitted as a plain Regular("#") token rather than triggering the
// stringification-invocation rule (which only makes sense for '#' inside a
// macro replacement list, never at the very start of a source line); the
// directive parser in directive.go recognizes the resulting
// Regular("#"), Macro{Name:"define", ...} pair.
func tokenizeSource(src string) ([]logicalLine, error) {
	var lines []logicalLine
	var cur []Token
	var reg strings.Builder
	lineNo := 1
	lineStart := 1
	atLineStart := true
	i := 0
	n := len(src)

	flushReg := func() {
		if reg.Len() > 0 {
			cur = append(cur, regular(reg.String()))
			reg.Reset()
		}
	}
	endLine := func() {
		flushReg()
		lines = append(lines, logicalLine{tokens: cur, startLine: lineStart})
		cur = nil
		lineStart = lineNo
		atLineStart = true
	}

	for i < n {
		c := src[i]

		// Backslash-newline continuation: join without ending the
		// logical line, but still consume the original line number.
		if c == '\\' && i+1 < n && src[i+1] == '\n' {
			flushReg()
			cur = append(cur, newline("", 1))
			lineNo++
			i += 2
			continue
		}

		if c == '\n' {
			i++
			lineNo++
			endLine()
			continue
		}

		if c == ' ' || c == '\t' || c == '\r' {
			reg.WriteByte(c)
			i++
			continue
		}

		// String literal: consumed atomically so embedded // or /* or
		// identifiers inside a quoted string are never misread as
		// comments or macro invocations. "" is an embedded-quote
		// escape, so a doubled quote does not end the string.
		if c == '"' {
			atLineStart = false
			start := i
			i++
			for i < n {
				if src[i] == '"' {
					if i+1 < n && src[i+1] == '"' {
						i += 2
						continue
					}
					i++
					break
				}
				if src[i] == '\n' {
					break
				}
				i++
			}
			reg.WriteString(src[start:i])
			continue
		}

		if c == '/' && i+1 < n && src[i+1] == '/' {
			atLineStart = false
			j := i + 2
			for j < n && src[j] != '\n' {
				j++
			}
			flushReg()
			cur = append(cur, comment(0))
			i = j
			continue
		}

		if c == '/' && i+1 < n && src[i+1] == '*' {
			atLineStart = false
			j := i + 2
			extra := 0
			closed := false
			for j+1 < n {
				if src[j] == '\n' {
					extra++
				}
				if src[j] == '*' && src[j+1] == '/' {
					j += 2
					closed = true
					break
				}
				j++
			}
			if !closed {
				return nil, fmt.Errorf("unterminated comment starting at line %d", lineNo)
			}
			flushReg()
			cur = append(cur, comment(extra))
			lineNo += extra
			i = j
			continue
		}

		if c == '#' && i+1 < n && src[i+1] == '#' {
			atLineStart = false
			flushReg()
			cur = append(cur, concat())
			i += 2
			continue
		}

		if c == '#' && atLineStart && i+1 < n && isIdentStart(src[i+1]) && directiveKeywordAt(src, i+1) {
			flushReg()
			cur = append(cur, regular("#"))
			i++
			atLineStart = false
			continue
		}

		if c == '#' && i+1 < n && isIdentStart(src[i+1]) {
			atLineStart = false
			inv, consumed, newI, err := scanInvocation(src, i+1, true)
			if err != nil {
				return nil, err
			}
			flushReg()
			cur = append(cur, macro(inv))
			if consumed > 0 {
				cur = append(cur, newline("", consumed))
				lineNo += consumed
			}
			i = newI
			continue
		}

		if isIdentStart(c) {
			atLineStart = false
			inv, consumed, newI, err := scanInvocation(src, i, false)
			if err != nil {
				return nil, err
			}
			flushReg()
			cur = append(cur, macro(inv))
			if consumed > 0 {
				cur = append(cur, newline("", consumed))
				lineNo += consumed
			}
			i = newI
			continue
		}

		atLineStart = false
		reg.WriteByte(c)
		i++
	}
	if reg.Len() > 0 || len(cur) > 0 {
		endLine()
	}
	return lines, nil
}

// scanInvocation scans an identifier starting at src[start], and if it is
// immediately followed by '(' (no intervening whitespace), also scans a
// balanced, comma-separated argument list. quoted marks a #NAME form (the
// caller has already consumed the '#'). It returns the extra number of
// newlines consumed while scanning a multi-line argument list.
func scanInvocation(src string, start int, quoted bool) (Invocation, int, int, error) {
	n := len(src)
	j := start
	for j < n && isIdentCont(src[j]) {
		j++
	}
	name := src[start:j]
	if j >= n || src[j] != '(' {
		orig := name
		if quoted {
			orig = "#" + name
		}
		return Invocation{Name: name, Original: orig, Quoted: quoted}, 0, j, nil
	}

	// j itself is the invocation's own opening '(': start scanning just
	// past it, already one level deep, so that paren does not get
	// written into the first argument's text.
	depth := 1
	var args []string
	var cur strings.Builder
	extra := 0
	i := j + 1
	closed := false
	for i < n {
		c := src[i]
		switch {
		case c == '"':
			cur.WriteByte(c)
			i++
			for i < n {
				cur.WriteByte(src[i])
				if src[i] == '"' {
					i++
					if i < n && src[i] == '"' {
						cur.WriteByte(src[i])
						i++
						continue
					}
					break
				}
				if src[i] == '\n' {
					extra++
				}
				i++
			}
			continue
		case c == '(':
			depth++
			cur.WriteByte(c)
			i++
		case c == ')':
			depth--
			i++
			if depth == 0 {
				args = append(args, cur.String())
				cur.Reset()
				closed = true
			} else {
				cur.WriteByte(c)
			}
		case c == ',' && depth == 1:
			args = append(args, cur.String())
			cur.Reset()
			i++
		case c == '\n':
			extra++
			cur.WriteByte(c)
			i++
		default:
			cur.WriteByte(c)
			i++
		}
		if closed {
			break
		}
	}
	if !closed {
		return Invocation{}, 0, 0, fmt.Errorf("unterminated macro argument list for %q", name)
	}

	trimmed := make([]string, len(args))
	for k, a := range args {
		trimmed[k] = strings.TrimSpace(a)
	}
	if len(trimmed) == 1 && trimmed[0] == "" {
		trimmed = []string{}
	}
	orig := src[start:i]
	if quoted {
		orig = "#" + orig
	}
	return Invocation{Name: name, Args: trimmed, Original: orig, Quoted: quoted}, extra, i, nil
}
