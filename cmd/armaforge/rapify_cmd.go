// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"

	"github.com/armaforge/armaforge/config"
	"github.com/armaforge/armaforge/rapify"
	"github.com/armaforge/armaforge/warn"
)

func newRapifyCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "rapify [src [dst]]",
		Short: "Write \\0raP bytes",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(arg(args, 0, ""))
			if err != nil {
				return err
			}
			cfg, _, err := config.Parse(string(data))
			if err != nil {
				return warn.Wrap(warn.KindConfigParse, "parsing config", err)
			}
			out, err := rapify.Write(cfg)
			if err != nil {
				return err
			}
			return writeOutput(arg(args, 1, ""), out, force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing destination file")
	return cmd
}

func newDerapifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derapify [src [dst]]",
		Short: "Inverse of rapify",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(arg(args, 0, ""))
			if err != nil {
				return err
			}
			cfg, err := rapify.Read(data)
			if err != nil {
				return err
			}
			return writeOutput(arg(args, 1, ""), []byte(config.Write(cfg)), true)
		},
	}
	return cmd
}
