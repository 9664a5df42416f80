// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/armaforge/armaforge/pbo"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [src]",
		Short: "Print header extensions and file table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(arg(args, 0, ""))
			if err != nil {
				return err
			}
			archive, err := pbo.Read(data)
			if err != nil {
				return err
			}
			var keys []string
			for k := range archive.Extensions {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, archive.Extensions[k])
			}
			for _, name := range archive.Names {
				fmt.Fprintf(cmd.OutOrStdout(), "%-40s %s\n", name, humanize.Bytes(uint64(len(archive.Files[name]))))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "checksum: %x\n", archive.Checksum)
			return nil
		},
	}
	return cmd
}

func newUnpackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unpack <src> <dstdir>",
		Short: "Extract all files; write $PBOPREFIX$",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			archive, err := pbo.Read(data)
			if err != nil {
				return err
			}
			dstdir := args[1]
			if err := os.MkdirAll(dstdir, 0o755); err != nil {
				return err
			}
			for _, name := range archive.Names {
				dst := filepath.Join(dstdir, filepath.FromSlash(strings.ReplaceAll(name, `\`, "/")))
				if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
					return err
				}
				if err := os.WriteFile(dst, archive.Files[name], 0o644); err != nil {
					return err
				}
			}
			if prefix, ok := archive.Extensions["prefix"]; ok {
				if err := os.WriteFile(filepath.Join(dstdir, "$PBOPREFIX$"), []byte(prefix+"\n"), 0o644); err != nil {
					return err
				}
			}
			return nil
		},
	}
	return cmd
}

func newCatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat <src> <name> [dst]",
		Short: "Extract one file",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			archive, err := pbo.Read(data)
			if err != nil {
				return err
			}
			body, ok := archive.Files[args[1]]
			if !ok {
				return fmt.Errorf("no such file in archive: %s", args[1])
			}
			return writeOutput(arg(args, 2, ""), body, true)
		},
	}
	return cmd
}
