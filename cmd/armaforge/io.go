// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"os"

	"github.com/armaforge/armaforge/warn"
)

// readInput reads path, or stdin if path is empty.
func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, warn.Wrap(warn.KindInputRead, "reading "+path, err)
	}
	return data, nil
}

// writeOutput writes data to path, or stdout if path is empty. force must
// be true to overwrite an existing regular file.
func writeOutput(path string, data []byte, force bool) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		if err != nil {
			return warn.Wrap(warn.KindOutputWrite, "writing stdout", err)
		}
		return nil
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return warn.Wrap(warn.KindOutputWrite, "writing "+path, os.ErrExist)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return warn.Wrap(warn.KindOutputWrite, "writing "+path, err)
	}
	return nil
}

// arg returns args[i] or def if there's no such argument.
func arg(args []string, i int, def string) string {
	if i < len(args) {
		return args[i]
	}
	return def
}
