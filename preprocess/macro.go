// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package preprocess

import "strings"

// MacroDef is one #define'd name. Params is nil for an object-like macro
// (#define NAME body) and non-nil (possibly empty, for NAME()) for a
// function-like one (#define NAME(a, b) body).
type MacroDef struct {
	Name   string
	Params []string
	Body   []Token
}

// env is the macro environment threaded through expansion: globals is the
// shared, mutable #define table; locals holds the current macro call's
// already-expanded argument text, keyed by parameter name, and is nil
// outside of any call.
type env struct {
	globals map[string]*MacroDef
	locals  map[string]string
}

func newEnv() *env {
	return &env{globals: make(map[string]*MacroDef)}
}

// withLocals returns an env sharing globals but replacing locals entirely:
// a nested macro body only ever sees its own parameters plus the global
// table, never an enclosing call's parameters.
func (e *env) withLocals(locals map[string]string) *env {
	return &env{globals: e.globals, locals: locals}
}

func stringify(s string) string {
	return `"` + strings.TrimSpace(s) + `"`
}

// parens returns the literal "(...)" text of an invocation, or "" if it
// had no argument list at all.
func (inv Invocation) parens() string {
	s := inv.Original
	if inv.Quoted {
		s = s[1:]
	}
	return s[len(inv.Name):]
}

// expand renders a sequence of tokens to its final text, resolving every
// macro invocation and eliminating ## concatenation markers by contributing
// no text at their position: adjacent token text is
// simply concatenated, so omitting a separator is all ## needs.
func (p *Processor) expand(toks []Token, e *env, stack []string) (string, error) {
	var b strings.Builder
	for _, t := range toks {
		switch t.Kind.Kind {
		case TokRegular:
			b.WriteString(t.Kind.Text)
		case TokNewline, TokComment, TokConcat:
			// Contribute no text.
		case TokMacro:
			v, err := p.resolveInvocation(t.Kind.Invocation, e, stack)
			if err != nil {
				return "", err
			}
			b.WriteString(v)
		}
	}
	return b.String(), nil
}

// resolveInvocation expands a single candidate macro invocation to its
// final text.
func (p *Processor) resolveInvocation(inv Invocation, e *env, stack []string) (string, error) {
	value, err := p.resolveValue(inv, e, stack)
	if err != nil {
		return "", err
	}
	if inv.Quoted {
		if _, isParam := e.locals[inv.Name]; !isParam || inv.Args != nil {
			p.warnf("stringify-non-parameter", "stringifying %q, which is not a macro parameter here", inv.Name)
		}
		value = stringify(value)
	}
	return value, nil
}

func (p *Processor) resolveValue(inv Invocation, e *env, stack []string) (string, error) {
	if inv.Args == nil {
		if v, ok := e.locals[inv.Name]; ok {
			return v, nil
		}
	}

	for _, s := range stack {
		if s == inv.Name {
			// Self-recursion blocker: do not re-enter an
			// expansion already in progress; emit the invocation
			// literally instead.
			return inv.Original, nil
		}
	}

	if inv.Args == nil {
		if v, ok := p.builtinValue(inv.Name); ok {
			return v, nil
		}
	}

	def, ok := e.globals[inv.Name]
	if !ok {
		return inv.Original, nil
	}

	if def.Params == nil {
		body, err := p.expand(def.Body, e.withLocals(nil), append(stack, inv.Name))
		if err != nil {
			return "", err
		}
		return body + inv.parens(), nil
	}

	if inv.Args == nil {
		// No parens at all: a function-like macro named but not called.
		return inv.Original, nil
	}
	if len(inv.Args) != len(def.Params) {
		// Pseudo-call: emit the name literally and expand
		// each argument in place.
		var parts []string
		for _, raw := range inv.Args {
			v, err := p.expandArgText(raw, e, stack)
			if err != nil {
				return "", err
			}
			parts = append(parts, v)
		}
		return inv.Name + "(" + strings.Join(parts, ", ") + ")", nil
	}

	locals := make(map[string]string, len(def.Params))
	for i, param := range def.Params {
		v, err := p.expandArgText(inv.Args[i], e, stack)
		if err != nil {
			return "", err
		}
		locals[param] = v
	}
	return p.expand(def.Body, e.withLocals(locals), append(stack, inv.Name))
}

// expandArgText tokenizes and fully expands one raw (already-split,
// whitespace-trimmed) macro argument, in the caller's environment and
// stack: arguments are always expanded before substitution, whether or not
// the parameter they bind to is referenced bare or with #.
func (p *Processor) expandArgText(raw string, e *env, stack []string) (string, error) {
	joined := strings.ReplaceAll(raw, "\n", " ")
	lines, err := tokenizeSource(joined)
	if err != nil {
		return "", err
	}
	var toks []Token
	for _, l := range lines {
		toks = append(toks, l.tokens...)
	}
	return p.expand(toks, e, stack)
}
