// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Warning is a non-fatal parser suggestion, carrying a byte offset
// into the preprocessed text that the caller maps back through the
// preprocessor's LineMap to report a file and line.
type Warning struct {
	Name    string
	Offset  int
	Message string
}

type parser struct {
	t        toks
	warnings []Warning
}

// ParseError is returned for a malformed config; Offset is a byte offset
// into the preprocessed text, as for Warning.
type ParseError struct {
	Offset  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Message)
}

// Parse lexes and parses preprocessed config source into a Config tree,
// plus any non-fatal warnings accumulated along the way.
func Parse(src string) (*Config, []Warning, error) {
	toksSlice, err := tokenize(src)
	if err != nil {
		return nil, nil, &ParseError{Message: err.Error()}
	}
	p := &parser{t: toks{s: toksSlice}}
	root := Class{Entries: []ClassEntry{}}
	if err := p.parseStatements(&root); err != nil {
		return nil, p.warnings, err
	}
	if tok := p.t.Next(); tok.Kind != TokEOF {
		return nil, p.warnings, &ParseError{Offset: tok.Offset, Message: fmt.Sprintf("unexpected %s at top level", tok)}
	}
	return &Config{Root: root}, p.warnings, nil
}

// parseStatements parses statements into cls.Entries until EOF or a
// closing '}' (left unconsumed for the caller).
func (p *parser) parseStatements(cls *Class) error {
	for {
		tok := p.t.Next()
		if tok.Kind == TokEOF || tok.Match(TokOp, "}") {
			return nil
		}
		entry, err := p.parseStatement(cls)
		if err != nil {
			return err
		}
		cls.Entries = append(cls.Entries, entry)
	}
}

func (p *parser) parseStatement(parent *Class) (ClassEntry, error) {
	tok := p.t.Next()
	switch {
	case tok.Match(TokIdent, "class"):
		return p.parseClass(parent)
	case tok.Match(TokIdent, "delete"):
		p.t.Skip(1)
		name, err := p.expectIdent()
		if err != nil {
			return ClassEntry{}, err
		}
		if err := p.expectOp(";"); err != nil {
			return ClassEntry{}, err
		}
		return ClassEntry{Key: name, Value: ClassValueEntry{Class: Class{Name: name, IsDeletion: true}}}, nil
	default:
		return p.parseAssignment(parent)
	}
}

func (p *parser) parseClass(parent *Class) (ClassEntry, error) {
	p.t.Skip(1) // "class"
	nameOff := p.t.Next().Offset
	name, err := p.expectIdent()
	if err != nil {
		return ClassEntry{}, err
	}
	cls := Class{Name: name}
	if p.t.Try(TokOp, ":") {
		parent, err := p.expectIdent()
		if err != nil {
			return ClassEntry{}, err
		}
		cls.Parent = parent
	}
	if p.t.Try(TokOp, ";") {
		cls.IsExternal = true
		return ClassEntry{Key: name, Value: ClassValueEntry{Class: cls}}, nil
	}
	if err := p.expectOp("{"); err != nil {
		return ClassEntry{}, err
	}
	cls.Entries = []ClassEntry{}
	if err := p.parseStatements(&cls); err != nil {
		return ClassEntry{}, err
	}
	if err := p.expectOp("}"); err != nil {
		return ClassEntry{}, err
	}
	if err := p.expectOp(";"); err != nil {
		return ClassEntry{}, err
	}
	p.checkDuplicate(parent, name, nameOff)
	return ClassEntry{Key: name, Value: ClassValueEntry{Class: cls}}, nil
}

func (p *parser) parseAssignment(parent *Class) (ClassEntry, error) {
	nameOff := p.t.Next().Offset
	name, err := p.expectIdent()
	if err != nil {
		return ClassEntry{}, err
	}
	isArray := false
	isExpansion := false
	if p.t.Try(TokOp, "[") {
		isArray = true
		if err := p.expectOp("]"); err != nil {
			return ClassEntry{}, err
		}
		if p.t.Try(TokOp, "+") {
			isExpansion = true
			if err := p.expectOp("="); err != nil {
				return ClassEntry{}, err
			}
		} else if err := p.expectOp("="); err != nil {
			return ClassEntry{}, err
		}
	} else if err := p.expectOp("="); err != nil {
		return ClassEntry{}, err
	}

	var value Entry
	if isArray || p.t.Peek(TokOp, "{") {
		arr, err := p.parseArray()
		if err != nil {
			return ClassEntry{}, err
		}
		arr.IsExpansion = isExpansion
		value = ArrayEntry{Array: arr}
	} else {
		v, err := p.parseScalar()
		if err != nil {
			return ClassEntry{}, err
		}
		value = v
	}
	if err := p.expectOp(";"); err != nil {
		return ClassEntry{}, err
	}
	p.checkDuplicate(parent, name, nameOff)
	return ClassEntry{Key: name, Value: value}, nil
}

func (p *parser) parseScalar() (Entry, error) {
	tok := p.t.Next()
	switch tok.Kind {
	case TokString:
		p.t.Skip(1)
		return StringEntry(tok.Text), nil
	case TokNumber:
		p.t.Skip(1)
		return classifyNumber(tok.Text), nil
	case TokIdent:
		// An unquoted identifier used as a scalar value (common typo in
		// hand-written configs); accept it as a string, with a warning.
		p.t.Skip(1)
		p.warn("unquoted-string-value", tok.Offset, fmt.Sprintf("value %q should be quoted", tok.Text))
		return StringEntry(tok.Text), nil
	default:
		return nil, &ParseError{Offset: tok.Offset, Message: fmt.Sprintf("expected a value, got %s", tok)}
	}
}

func (p *parser) parseArray() (ConfigArray, error) {
	if err := p.expectOp("{"); err != nil {
		return ConfigArray{}, err
	}
	arr := ConfigArray{Elements: []ArrayElement{}}
	if p.t.Try(TokOp, "}") {
		return arr, nil
	}
	for {
		elem, err := p.parseArrayElement()
		if err != nil {
			return ConfigArray{}, err
		}
		arr.Elements = append(arr.Elements, elem)
		if !p.t.Try(TokOp, ",") {
			break
		}
		if tok := p.t.Next(); tok.Match(TokOp, "}") {
			p.warn("trailing-comma", tok.Offset, "trailing comma in array")
			break
		}
	}
	if err := p.expectOp("}"); err != nil {
		return ConfigArray{}, err
	}
	return arr, nil
}

func (p *parser) parseArrayElement() (ArrayElement, error) {
	tok := p.t.Next()
	if tok.Match(TokOp, "{") {
		sub, err := p.parseArray()
		if err != nil {
			return nil, err
		}
		return SubArrayElement{Array: sub}, nil
	}
	switch tok.Kind {
	case TokString:
		p.t.Skip(1)
		return StringElement(tok.Text), nil
	case TokNumber:
		p.t.Skip(1)
		switch v := classifyNumber(tok.Text).(type) {
		case IntEntry:
			return IntElement(v), nil
		case FloatEntry:
			return FloatElement(v), nil
		}
	}
	return nil, &ParseError{Offset: tok.Offset, Message: fmt.Sprintf("expected an array element, got %s", tok)}
}

// classifyNumber implements the rule: no '.' and no 'e'/'E' and fits in
// a signed 32-bit integer -> Int; otherwise Float.
func classifyNumber(text string) Entry {
	if !strings.ContainsAny(text, ".eE") {
		if v, err := strconv.ParseInt(text, 10, 64); err == nil && v >= math.MinInt32 && v <= math.MaxInt32 {
			return IntEntry(int32(v))
		}
	}
	f, _ := strconv.ParseFloat(text, 32)
	return FloatEntry(float32(f))
}

func (p *parser) expectIdent() (string, error) {
	tok := p.t.Next()
	if tok.Kind != TokIdent {
		return "", &ParseError{Offset: tok.Offset, Message: fmt.Sprintf("expected an identifier, got %s", tok)}
	}
	p.t.Skip(1)
	return tok.Text, nil
}

func (p *parser) expectOp(op string) error {
	tok := p.t.Next()
	if !tok.Match(TokOp, op) {
		return &ParseError{Offset: tok.Offset, Message: fmt.Sprintf("expected %q, got %s", op, tok)}
	}
	p.t.Skip(1)
	return nil
}

func (p *parser) warn(name string, offset int, message string) {
	p.warnings = append(p.warnings, Warning{Name: name, Offset: offset, Message: message})
}

// checkDuplicate warns when name already appears among parent's entries;
// offset is the byte offset of the statement's key token.
func (p *parser) checkDuplicate(parent *Class, name string, offset int) {
	count := 0
	for _, e := range parent.Entries {
		if e.Key == name {
			count++
		}
	}
	if count > 0 {
		p.warn("duplicate-key", offset, fmt.Sprintf("duplicate key %q", name))
	}
}
