// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package preprocess

import (
	"os"
	"strconv"
	"strings"

	"github.com/armaforge/armaforge/warn"
)

// Origin records which original file and line an output line came from, so
// later stages (config parsing, rapify) can point diagnostics back at the
// source the author actually edited rather than the flattened output
type Origin struct {
	File string
	Line int
}

// LineMap maps each 0-indexed output line to its Origin.
type LineMap struct {
	origins []Origin
}

func (m *LineMap) append(o Origin) { m.origins = append(m.origins, o) }

// Origin returns the file and line that produced output line n (0-indexed),
// or the zero Origin if n is out of range.
func (m *LineMap) Origin(n int) Origin {
	if n < 0 || n >= len(m.origins) {
		return Origin{}
	}
	return m.origins[n]
}

// Len returns the number of lines recorded.
func (m *LineMap) Len() int { return len(m.origins) }

// Processor holds all state threaded through one preprocessing run: the
// macro table, the #ifdef nesting stack, the #include search path, and the
// running output.
type Processor struct {
	env   *env
	conds []condFrame
	roots []string
	reg   *warn.Registry

	including map[string]bool
	out       strings.Builder
	lines     LineMap

	curFile string
	curLine int
}

// Process runs the full preprocessor over mainFile, resolving
// #include directives against roots, and returns the flattened
// output text plus a LineMap back to original file:line pairs. reg
// receives every non-fatal diagnostic; pass warn.NewDiscard() if
// none are wanted.
func Process(mainFile string, roots []string, reg *warn.Registry) (string, *LineMap, error) {
	p := &Processor{
		env:       newEnv(),
		roots:     roots,
		reg:       reg,
		including: make(map[string]bool),
	}
	if err := p.processFile(mainFile); err != nil {
		return "", nil, err
	}
	return p.out.String(), &p.lines, nil
}

func (p *Processor) warnf(name, format string, args ...interface{}) {
	if p.reg != nil {
		p.reg.Warn(name, format, args...)
	}
}

// normalize strips a UTF-8 BOM and normalizes CRLF/CR line endings to LF,
// so tokenizeSource only ever has to deal with '\n'.
func normalize(src []byte) string {
	s := string(src)
	s = strings.TrimPrefix(s, "\xef\xbb\xbf")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s
}

// processFile tokenizes and macro-expands one file's worth of source into
// p.out, recursing into #include directives as they're encountered.
func (p *Processor) processFile(path string) error {
	abs := path
	if p.including[abs] {
		return warn.Wrap(warn.KindPreprocessParse, "#include cycle at "+path, errInclude)
	}
	p.including[abs] = true
	defer delete(p.including, abs)

	raw, err := os.ReadFile(path)
	if err != nil {
		return warn.Wrap(warn.KindInputRead, "reading "+path, err)
	}

	savedFile, savedLine := p.curFile, p.curLine
	p.curFile = path
	defer func() { p.curFile, p.curLine = savedFile, savedLine }()

	lines, err := tokenizeSource(normalize(raw))
	if err != nil {
		return warn.Wrap(warn.KindPreprocessParse, "tokenizing "+path, err)
	}

	depth := len(p.conds)
	for _, line := range lines {
		p.curLine = line.startLine
		isDirective, err := p.processDirective(line)
		if err != nil {
			return warn.Wrap(warn.KindPreprocessParse, "directive in "+path, err)
		}
		if isDirective {
			continue
		}
		if !p.condActive() {
			continue
		}
		text, err := p.expand(line.tokens, p.env, nil)
		if err != nil {
			return warn.Wrap(warn.KindMacroExpansion, "expanding line in "+path, err)
		}
		p.out.WriteString(text)
		p.out.WriteByte('\n')
		p.lines.append(Origin{File: path, Line: line.startLine})
	}
	if len(p.conds) != depth {
		return warn.Wrap(warn.KindPreprocessParse, "unterminated #ifdef/#ifndef in "+path, errUnterminatedCond)
	}
	return nil
}

var errInclude = preprocessError("include cycle")
var errUnterminatedCond = preprocessError("unterminated conditional")

type preprocessError string

func (e preprocessError) Error() string { return string(e) }

// builtinValue resolves __FILE__/__LINE__ at the current position, or
// reports ok=false for any other name.
func (p *Processor) builtinValue(name string) (string, bool) {
	switch name {
	case "__FILE__":
		return `"` + p.curFile + `"`, true
	case "__LINE__":
		return strconv.Itoa(p.curLine), true
	}
	return "", false
}
