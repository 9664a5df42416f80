// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package binarize shells out to the engine vendor's model/texture
// binarizer: a reserved hook available only on Windows hosts that
// have the tool installed. On any other host Binarize fails fast with an
// Unsupported error; pbo.Build falls back to copying the input through
// unchanged and logging a warning.
//
// The subprocess invocation is grounded on internal/cparse/pp.go's
// exec.Command("cc", ...) shim, generalized from a stdin/stdout pipe to a
// real binary that only speaks through temp-directory files.
package binarize

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/armaforge/armaforge/warn"
)

// envOverride names the environment variable that overrides the default
// binarizer install path, for tests and nonstandard installs.
const envOverride = "ARMAFORGE_BINARIZE_PATH"

// defaultPath is where the vendor's binarizer conventionally installs
// itself; looked up only when envOverride is unset.
const defaultPath = `C:\Program Files (x86)\Bohemia Interactive\Binarize\binarize_x64.exe`

func locate() string {
	if p := os.Getenv(envOverride); p != "" {
		return p
	}
	return defaultPath
}

// Binarize converts the file at path (given its original extension, used
// to name the temp copy) using the external binarizer and returns the
// converted bytes. It only runs on GOOS "windows"; everywhere else it
// returns a warn.KindUnsupported error.
func Binarize(ctx context.Context, path string) ([]byte, error) {
	if runtime.GOOS != "windows" {
		return nil, warn.Wrap(warn.KindUnsupported, "binarize", fmt.Errorf("external binarizer is Windows-only"))
	}

	in, err := os.ReadFile(path)
	if err != nil {
		return nil, warn.Wrap(warn.KindInputRead, "reading "+path, err)
	}

	tmp, err := os.MkdirTemp("", "armaforge-binarize-")
	if err != nil {
		return nil, warn.Wrap(warn.KindExternalTool, "creating temp directory", err)
	}
	defer os.RemoveAll(tmp)

	inDir := filepath.Join(tmp, "in")
	outDir := filepath.Join(tmp, "out")
	if err := os.MkdirAll(inDir, 0o755); err != nil {
		return nil, warn.Wrap(warn.KindExternalTool, "creating input temp directory", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, warn.Wrap(warn.KindExternalTool, "creating output temp directory", err)
	}

	inFile := filepath.Join(inDir, filepath.Base(path))
	if err := os.WriteFile(inFile, in, 0o644); err != nil {
		return nil, warn.Wrap(warn.KindExternalTool, "staging input file", err)
	}

	cmd := exec.CommandContext(ctx, locate(), "-norecurse", "-silent", inDir, outDir)
	if os.Getenv("BIOUTPUT") == "1" {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Run(); err != nil {
		return nil, warn.Wrap(warn.KindExternalTool, "running binarizer", err)
	}

	outFile := filepath.Join(outDir, filepath.Base(path))
	out, err := os.ReadFile(outFile)
	if err != nil {
		return nil, warn.Wrap(warn.KindExternalTool, "reading binarizer output", err)
	}
	return out, nil
}
