// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pbo

import (
	"bufio"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"

	"github.com/armaforge/armaforge/binarize"
	"github.com/armaforge/armaforge/config"
	"github.com/armaforge/armaforge/rapify"
	"github.com/armaforge/armaforge/warn"
)

// BuildOptions controls Build's directory-to-archive packaging.
type BuildOptions struct {
	// Binarize enables config-to-rapified and model-binarizer conversion.
	// Build disables it unconditionally if $NOBIN$ or $NOBIN-NOTEST$ is
	// present at the source directory's root.
	Binarize bool
	// Exclude holds doublestar glob patterns evaluated against each
	// file's slash-separated path relative to dir; a match excludes it.
	Exclude []string
	Reg     *warn.Registry
}

// Build walks dir and assembles a PBO from its contents ("Build from
// directory").
func Build(dir string, opts BuildOptions) (*PBO, error) {
	p := newPBO()

	binarizeOn := opts.Binarize
	for _, sentinel := range []string{"$NOBIN$", "$NOBIN-NOTEST$"} {
		if _, err := os.Stat(filepath.Join(dir, sentinel)); err == nil {
			binarizeOn = false
		}
	}

	var relPaths []string
	var mu sync.Mutex // fastwalk calls the walk function concurrently
	err := fastwalk.Walk(&fastwalk.Config{}, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return fs.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		mu.Lock()
		relPaths = append(relPaths, filepath.ToSlash(rel))
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, warn.Wrap(warn.KindPBOFormat, "walking source directory", err)
	}

	for _, rel := range relPaths {
		excluded := false
		for _, pattern := range opts.Exclude {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		base := filepath.Base(rel)
		if base == "$PBOPREFIX$" || base == "$NOBIN$" || base == "$NOBIN-NOTEST$" {
			if base == "$PBOPREFIX$" {
				if err := readPrefixFile(filepath.Join(dir, rel), p.Extensions); err != nil {
					return nil, err
				}
			}
			continue
		}

		body, err := os.ReadFile(filepath.Join(dir, rel))
		if err != nil {
			return nil, warn.Wrap(warn.KindInputRead, "reading "+rel, err)
		}

		archiveName, body, err := processEntry(rel, filepath.Join(dir, rel), body, binarizeOn, opts.Reg)
		if err != nil {
			return nil, err
		}
		p.Add(strings.ReplaceAll(archiveName, "/", `\`), body)
	}

	if _, ok := p.Extensions["prefix"]; !ok {
		p.Extensions["prefix"] = filepath.Base(filepath.Clean(dir))
	}
	return p, nil
}

func readPrefixFile(path string, ext map[string]string) error {
	f, err := os.Open(path)
	if err != nil {
		return warn.Wrap(warn.KindInputRead, "reading $PBOPREFIX$", err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if k, v, ok := strings.Cut(line, "="); ok {
			ext[strings.TrimSpace(k)] = strings.TrimSpace(v)
		} else {
			ext["prefix"] = line
		}
	}
	return sc.Err()
}

func processEntry(rel, fullPath string, body []byte, binarizeOn bool, reg *warn.Registry) (string, []byte, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(rel), "."))
	switch {
	case binarizeOn && (ext == "cpp" || ext == "rvmat"):
		cfg, _, err := config.Parse(string(body))
		if err != nil {
			return "", nil, warn.Wrap(warn.KindConfigParse, "parsing "+rel, err)
		}
		raw, err := rapify.Write(cfg)
		if err != nil {
			return "", nil, warn.Wrap(warn.KindRapifyFormat, "rapifying "+rel, err)
		}
		name := rel
		if ext == "cpp" && strings.EqualFold(filepath.Base(rel), "config.cpp") {
			name = rel[:len(rel)-len(filepath.Ext(rel))] + ".bin"
		}
		return name, raw, nil

	case binarizeOn && (ext == "rtm" || ext == "p3d"):
		out, err := binarize.Binarize(context.Background(), fullPath)
		switch {
		case err == nil:
			return rel, out, nil
		case warn.Is(err, warn.KindUnsupported):
			if reg != nil {
				reg.Warn("binarize-unsupported", "external binarizer unavailable, storing %s verbatim", rel)
			}
			return rel, body, nil
		default:
			return "", nil, err
		}

	case ext == "p3do":
		return rel[:len(rel)-len(filepath.Ext(rel))] + ".p3d", body, nil

	default:
		return rel, body, nil
	}
}
