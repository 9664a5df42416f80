// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/armaforge/armaforge/pbo"
	"github.com/armaforge/armaforge/sign"
	"github.com/armaforge/armaforge/warn"
)

func newPackCmd() *cobra.Command {
	var exclude []string
	var extraExt []string
	cmd := &cobra.Command{
		Use:   "pack <srcdir> [dst]",
		Short: "Write PBO without binarisation",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := warn.Stderr(nil)
			archive, err := pbo.Build(args[0], pbo.BuildOptions{Exclude: exclude, Reg: reg})
			if err != nil {
				return err
			}
			applyExtraExtensions(archive, extraExt)
			reg.PrintSummary(os.Stderr)
			return writeOutput(arg(args, 1, ""), archive.Write(), true)
		},
	}
	cmd.Flags().StringArrayVarP(&exclude, "exclude", "x", nil, "glob pattern excluded from the archive (repeatable)")
	cmd.Flags().StringArrayVarP(&extraExt, "extension", "e", nil, "K=V header extension (repeatable)")
	return cmd
}

func newBuildCmd() *cobra.Command {
	var exclude []string
	var extraExt []string
	var signWith string
	var useV2 bool
	cmd := &cobra.Command{
		Use:   "build <srcdir> [dst]",
		Short: "Write PBO with binarisation",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := warn.Stderr(nil)
			archive, err := pbo.Build(args[0], pbo.BuildOptions{Binarize: true, Exclude: exclude, Reg: reg})
			if err != nil {
				return err
			}
			applyExtraExtensions(archive, extraExt)
			reg.PrintSummary(os.Stderr)
			data := archive.Write()
			if err := writeOutput(arg(args, 1, ""), data, true); err != nil {
				return err
			}
			if signWith == "" {
				return nil
			}
			built, err := pbo.Read(data)
			if err != nil {
				return err
			}
			return signWithKey(signWith, built, useV2, arg(args, 1, "")+".bisign")
		},
	}
	cmd.Flags().StringArrayVarP(&exclude, "exclude", "x", nil, "glob pattern excluded from the archive (repeatable)")
	cmd.Flags().StringArrayVarP(&extraExt, "extension", "e", nil, "K=V header extension (repeatable)")
	cmd.Flags().StringVar(&signWith, "sign", "", "private key to sign the built PBO with")
	cmd.Flags().BoolVar(&useV2, "v2", false, "use the V2 file-hash extension filter instead of V3")
	cmd.Flags().Bool("v3", true, "use the V3 file-hash extension filter (default)")
	return cmd
}

func applyExtraExtensions(p *pbo.PBO, kv []string) {
	for _, e := range kv {
		if k, v, ok := strings.Cut(e, "="); ok {
			p.Extensions[k] = v
		}
	}
}

func signWithKey(privPath string, p *pbo.PBO, useV2 bool, sigPath string) error {
	data, err := readInput(privPath)
	if err != nil {
		return err
	}
	priv, err := sign.DecodePrivate(data)
	if err != nil {
		return err
	}
	version := sign.V3
	if useV2 {
		version = sign.V2
	}
	sig, err := sign.Sign(priv, p, version)
	if err != nil {
		return err
	}
	return writeOutput(sigPath, sign.EncodeSign(sig), true)
}
