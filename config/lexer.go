// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"
)

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

const opChars = "{}[]=,;:+"

// tokenize lexes preprocessed config source into a flat token stream.
// Whitespace is insignificant; there are no comments left to see (the
// preprocessor already stripped them).
func tokenize(src string) ([]Tok, error) {
	var out []Tok
	i, n := 0, len(src)
	for i < n {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++

		case c == '"':
			start := i
			i++
			var b strings.Builder
			closed := false
			for i < n {
				if src[i] == '"' {
					if i+1 < n && src[i+1] == '"' {
						b.WriteByte('"')
						i += 2
						continue
					}
					i++
					closed = true
					break
				}
				b.WriteByte(src[i])
				i++
			}
			if !closed {
				return nil, fmt.Errorf("offset %d: unterminated string literal", start)
			}
			out = append(out, Tok{Kind: TokString, Text: b.String(), Offset: start})

		case isIdentStart(c):
			start := i
			for i < n && isIdentCont(src[i]) {
				i++
			}
			out = append(out, Tok{Kind: TokIdent, Text: src[start:i], Offset: start})

		case isDigit(c) || (c == '-' && i+1 < n && (isDigit(src[i+1]) || src[i+1] == '.')) || (c == '.' && i+1 < n && isDigit(src[i+1])):
			start := i
			if c == '-' {
				i++
			}
			for i < n && isDigit(src[i]) {
				i++
			}
			if i < n && src[i] == '.' {
				i++
				for i < n && isDigit(src[i]) {
					i++
				}
			}
			if i < n && (src[i] == 'e' || src[i] == 'E') {
				j := i + 1
				if j < n && (src[j] == '+' || src[j] == '-') {
					j++
				}
				if j < n && isDigit(src[j]) {
					i = j
					for i < n && isDigit(src[i]) {
						i++
					}
				}
			}
			out = append(out, Tok{Kind: TokNumber, Text: src[start:i], Offset: start})

		case strings.IndexByte(opChars, c) >= 0:
			out = append(out, Tok{Kind: TokOp, Text: string(c), Offset: i})
			i++

		default:
			return nil, fmt.Errorf("offset %d: unexpected character %q", i, string(c))
		}
	}
	return out, nil
}
