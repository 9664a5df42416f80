// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package preprocess

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"

	"github.com/armaforge/armaforge/warn"
)

// extractIncludePath reconstructs the literal text of a #include
// argument, working around the fact that an unquoted (angle-bracket) path
// containing letters gets scanned as a sequence of macro-invocation
// candidates rather than one Regular run.
func extractIncludePath(rest []Token) string {
	var b strings.Builder
	for _, t := range rest {
		switch t.Kind.Kind {
		case TokRegular:
			b.WriteString(t.Kind.Text)
		case TokMacro:
			b.WriteString(t.Kind.Invocation.Original)
		}
	}
	return strings.TrimSpace(b.String())
}

// quotedPath strips the surrounding "..." from a raw #include argument.
// Only the quoted form is recognized.
func quotedPath(raw string) (path string, ok bool) {
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return raw[1 : len(raw)-1], true
	}
	return "", false
}

// resolveInclude dispatches on the leading character of path: anything
// other than '\' resolves relative to the canonicalised parent directory
// of the file holding the directive; a leading '\' makes it absolute,
// matched against each search root by consulting $PBOPREFIX$ files so
// that prefix-concatenated-with-relative-path equals path.
func (p *Processor) resolveInclude(path string) (string, error) {
	if !strings.HasPrefix(path, `\`) {
		dir := filepath.Dir(p.curFile)
		if p.curFile == "" {
			dir = "."
		}
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		candidate := filepath.Clean(filepath.Join(dir, filepath.FromSlash(strings.ReplaceAll(path, `\`, "/"))))
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		return "", fmt.Errorf("include %q not found relative to %s", path, dir)
	}

	arg := strings.TrimPrefix(path, `\`)
	for _, root := range p.roots {
		if candidate, ok := findByPrefix(root, arg); ok {
			return candidate, nil
		}
		direct := filepath.Join(root, filepath.FromSlash(strings.ReplaceAll(arg, `\`, "/")))
		if _, err := os.Stat(direct); err == nil {
			return direct, nil
		}
	}
	return "", fmt.Errorf("include %q not found (searched %d root(s))", path, len(p.roots))
}

// findByPrefix recursively walks root (skipping .git) looking for a file
// whose nearest-ancestor $PBOPREFIX$ prefix, concatenated with its path
// relative to that ancestor, equals arg.
func findByPrefix(root, arg string) (string, bool) {
	cache := map[string]prefixInfo{}
	var found string
	hit := false
	// fastwalk calls this function from several goroutines; mu serializes
	// access to cache, found and hit.
	var mu sync.Mutex
	_ = fastwalk.Walk(&fastwalk.Config{}, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		if hit {
			return fs.SkipAll
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return fs.SkipDir
			}
			return nil
		}
		dir := filepath.Dir(path)
		info := prefixForDir(dir, root, cache)
		if info.prefix == "" {
			return nil
		}
		rel, err := filepath.Rel(info.base, path)
		if err != nil {
			return nil
		}
		candidate := strings.TrimSuffix(info.prefix, `\`) + `\` + strings.ReplaceAll(filepath.ToSlash(rel), "/", `\`)
		if candidate == arg {
			found, hit = path, true
			return fs.SkipAll
		}
		return nil
	})
	return found, hit
}

// prefixInfo is a $PBOPREFIX$ value and the directory holding that file.
type prefixInfo struct {
	prefix string
	base   string
}

// prefixForDir returns the $PBOPREFIX$ value governing dir, found by
// walking upward from dir (inclusive) to root, together with the directory
// it was found in, or a zero prefixInfo if none exists.
// Results are memoized in cache per directory.
func prefixForDir(dir, root string, cache map[string]prefixInfo) prefixInfo {
	if v, ok := cache[dir]; ok {
		return v
	}
	var info prefixInfo
	if data, err := os.ReadFile(filepath.Join(dir, "$PBOPREFIX$")); err == nil {
		info = prefixInfo{prefix: firstPrefixLine(data), base: dir}
	} else if parent := filepath.Dir(dir); dir != root && parent != dir {
		info = prefixForDir(parent, root, cache)
	}
	cache[dir] = info
	return info
}

// firstPrefixLine parses $PBOPREFIX$ contents: lines are key=value, with a
// bare line meaning prefix=<line>. It returns the "prefix" value.
func firstPrefixLine(data []byte) string {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if k, v, ok := strings.Cut(line, "="); ok {
			if strings.TrimSpace(k) == "prefix" {
				return strings.TrimSpace(v)
			}
			continue
		}
		return line
	}
	return ""
}

func (p *Processor) handleInclude(rest []Token) error {
	raw := extractIncludePath(rest)
	path, ok := quotedPath(raw)
	if !ok {
		return fmt.Errorf("malformed #include at %s:%d: %q", p.curFile, p.curLine, raw)
	}
	resolved, err := p.resolveInclude(path)
	if err != nil {
		return warn.Wrap(warn.KindIncludeNotFound, fmt.Sprintf("%s:%d", p.curFile, p.curLine), err)
	}
	return p.processFile(resolved)
}
