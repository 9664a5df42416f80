// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/armaforge/armaforge/preprocess"
	"github.com/armaforge/armaforge/warn"
)

func newPreprocessCmd() *cobra.Command {
	var includes []string
	var muted []string
	cmd := &cobra.Command{
		Use:   "preprocess [src [dst]]",
		Short: "Write preprocessed text",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := arg(args, 0, "")
			dst := arg(args, 1, "")
			reg := warn.Stderr(muted)
			if src == "" {
				tmp, err := os.CreateTemp("", "armaforge-stdin-*")
				if err != nil {
					return warn.Wrap(warn.KindInputRead, "buffering stdin", err)
				}
				defer os.Remove(tmp.Name())
				data, err := readInput("")
				if err != nil {
					return err
				}
				if _, err := tmp.Write(data); err != nil {
					return warn.Wrap(warn.KindInputRead, "buffering stdin", err)
				}
				tmp.Close()
				src = tmp.Name()
			}
			out, _, err := preprocess.Process(src, includes, reg)
			if err != nil {
				return err
			}
			reg.PrintSummary(os.Stderr)
			return writeOutput(dst, []byte(out), true)
		},
	}
	cmd.Flags().StringArrayVarP(&includes, "include", "i", nil, "include search root (repeatable)")
	cmd.Flags().StringArrayVarP(&muted, "mute", "w", nil, "warning name to suppress (repeatable)")
	return cmd
}
