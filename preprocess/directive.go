// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package preprocess

import (
	"fmt"
	"strings"
)

// condFrame is one level of a #ifdef/#ifndef/#else/#endif nest. active is
// the fully resolved active-ness of the current branch, folding in every
// ancestor frame, so testing the current output state only ever needs to
// look at the top of the stack (level/level_true counters,
// collapsed into one bool per frame since this grammar has no #elif).
type condFrame struct {
	active bool
	taken  bool // whether any branch at this level has been true yet
}

// isWhitespaceRegular reports whether t is a Regular token holding only
// whitespace (the separator between directive keyword and its argument).
func isWhitespaceRegular(t Token) bool {
	return t.Kind.Kind == TokRegular && strings.TrimSpace(t.Kind.Text) == ""
}

// splitDirective recognizes a logical line of the form `# keyword rest...`
// (the '#' and keyword are emitted as Regular("#"), Macro{Name: keyword}
// by the lexer's directive special case) and returns the keyword and the
// remaining tokens, with leading separator whitespace dropped.
func splitDirective(toks []Token) (keyword string, rest []Token, ok bool) {
	i := 0
	for i < len(toks) && isWhitespaceRegular(toks[i]) {
		i++
	}
	if i >= len(toks) || !(toks[i].Kind.Kind == TokRegular && toks[i].Kind.Text == "#") {
		return "", nil, false
	}
	i++
	if i >= len(toks) || toks[i].Kind.Kind != TokMacro {
		return "", nil, false
	}
	name := toks[i].Kind.Invocation.Name
	if !directiveKeywords[name] {
		return "", nil, false
	}
	rest = toks[i+1:]
	for len(rest) > 0 && isWhitespaceRegular(rest[0]) {
		rest = rest[1:]
	}
	return name, rest, true
}

// firstMacroName returns the Name of the first Macro token in toks, the
// identifier argument of #undef/#ifdef/#ifndef.
func firstMacroName(toks []Token) (string, bool) {
	for _, t := range toks {
		if t.Kind.Kind == TokMacro {
			return t.Kind.Invocation.Name, true
		}
	}
	return "", false
}

// dropLeadingSeparator removes one leading whitespace-only Regular token,
// the separator between a macro's name/parameter list and its replacement
// list; internal whitespace within the body is left untouched.
func dropLeadingSeparator(toks []Token) []Token {
	if len(toks) > 0 && isWhitespaceRegular(toks[0]) {
		return toks[1:]
	}
	return toks
}

// handleDefine processes the body of a #define directive: rest is the
// token stream after the "define" keyword, starting with the Macro token
// naming the definition being introduced.
func (p *Processor) handleDefine(rest []Token) error {
	if len(rest) == 0 || rest[0].Kind.Kind != TokMacro {
		return fmt.Errorf("malformed #define at %s:%d", p.curFile, p.curLine)
	}
	inv := rest[0].Kind.Invocation
	def := &MacroDef{Name: inv.Name, Body: dropLeadingSeparator(rest[1:])}
	if inv.Args != nil {
		def.Params = append([]string(nil), inv.Args...)
	}
	p.env.globals[inv.Name] = def
	return nil
}

func (p *Processor) handleUndef(rest []Token) error {
	name, ok := firstMacroName(rest)
	if !ok {
		return fmt.Errorf("malformed #undef at %s:%d", p.curFile, p.curLine)
	}
	if name == "__FILE__" || name == "__LINE__" {
		p.warnf("undef-builtin", "#undef of built-in macro %s has no effect", name)
		return nil
	}
	delete(p.env.globals, name)
	return nil
}

// processDirective updates the conditional stack and, for #define/#undef/
// #include while in an active branch, the macro table or included text.
// It reports whether the line was a recognized directive at all.
func (p *Processor) processDirective(line logicalLine) (bool, error) {
	keyword, rest, ok := splitDirective(line.tokens)
	if !ok {
		return false, nil
	}

	switch keyword {
	case "ifdef", "ifndef":
		name, has := firstMacroName(rest)
		if !has {
			return true, fmt.Errorf("malformed #%s at %s:%d", keyword, p.curFile, p.curLine)
		}
		_, defined := p.env.globals[name]
		if name == "__FILE__" || name == "__LINE__" {
			defined = true
		}
		cond := defined
		if keyword == "ifndef" {
			cond = !defined
		}
		parentActive := p.condActive()
		p.conds = append(p.conds, condFrame{active: parentActive && cond, taken: cond})
		return true, nil

	case "else":
		if len(p.conds) == 0 {
			return true, fmt.Errorf("#else without #ifdef/#ifndef at %s:%d", p.curFile, p.curLine)
		}
		top := &p.conds[len(p.conds)-1]
		parentActive := true
		if len(p.conds) > 1 {
			parentActive = p.conds[len(p.conds)-2].active
		}
		cond := !top.taken
		top.taken = top.taken || cond
		top.active = parentActive && cond
		return true, nil

	case "endif":
		if len(p.conds) == 0 {
			return true, fmt.Errorf("#endif without #ifdef/#ifndef at %s:%d", p.curFile, p.curLine)
		}
		p.conds = p.conds[:len(p.conds)-1]
		return true, nil

	case "define":
		if !p.condActive() {
			return true, nil
		}
		return true, p.handleDefine(rest)

	case "undef":
		if !p.condActive() {
			return true, nil
		}
		return true, p.handleUndef(rest)

	case "include":
		if !p.condActive() {
			return true, nil
		}
		return true, p.handleInclude(rest)
	}
	return true, nil
}

func (p *Processor) condActive() bool {
	if len(p.conds) == 0 {
		return true
	}
	return p.conds[len(p.conds)-1].active
}
