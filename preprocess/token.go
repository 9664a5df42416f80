// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package preprocess implements the config-source macro preprocessor:
// object-like and function-like macros with stringification and
// token pasting, #include resolution, and #ifdef-family conditional
// compilation, with a line-origin map so later diagnostics can point back
// at the original file and line.
//
// The tokenizer's shape, a table of token kinds produced by a single
// scan over a line, is adapted from a full C lexer, generalized down to
// the smaller token set this grammar actually needs.
package preprocess

// TokKind classifies a Token.
type TokKind int

const (
	// TokRegular is any run of source text that isn't a macro candidate,
	// a comment, a newline marker, or the ## operator.
	TokRegular TokKind = iota
	// TokNewline is a span of text (usually empty or a single space)
	// that replaces n physical newlines folded into the current logical
	// line, e.g. by a trailing backslash continuation.
	TokNewline
	// TokMacro is a candidate macro invocation: any identifier, whether
	// or not it turns out to name a definition.
	TokMacro
	// TokComment is a removed comment spanning n newlines.
	TokComment
	// TokConcat is the ## operator.
	TokConcat
)

// Token is one element of a tokenized logical line.
type Token struct {
	Kind Tok
}

// Tok is kept distinct from TokKind to let each variant carry its own
// payload without a big sum-of-pointers struct; Token wraps whichever
// variant applies. Exactly one of the following is meaningful for a given
// Kind:
//
//	TokRegular: Text
//	TokNewline: Text, N
//	TokMacro:   Invocation
//	TokComment: N
//	TokConcat:  (none)
type Tok struct {
	Kind       TokKind
	Text       string
	N          int
	Invocation Invocation
}

// Invocation is a candidate macro use: a bare identifier, optionally
// followed immediately by a parenthesized, comma-separated argument list.
type Invocation struct {
	Name string
	// Args is nil for a bare identifier (no parens at all), and non-nil
	// (possibly empty, for NAME()) when parens were present.
	Args []string
	// Original is the verbatim source text of the whole invocation,
	// used to re-emit it unchanged when it turns out not to resolve to
	// a usable definition.
	Original string
	// Quoted marks invocations written as #NAME or #NAME(...), which
	// request stringification of the expansion.
	Quoted bool
}

func regular(text string) Token        { return Token{Tok{Kind: TokRegular, Text: text}} }
func newline(text string, n int) Token { return Token{Tok{Kind: TokNewline, Text: text, N: n}} }
func comment(n int) Token              { return Token{Tok{Kind: TokComment, N: n}} }
func concat() Token                    { return Token{Tok{Kind: TokConcat}} }
func macro(inv Invocation) Token       { return Token{Tok{Kind: TokMacro, Invocation: inv}} }
