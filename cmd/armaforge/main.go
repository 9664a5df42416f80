// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command armaforge is the unified preprocessor/config/PBO/signing tool:
// one binary, eleven subcommands, each thin enough to delegate straight
// into preprocess, config, rapify, pbo and sign.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "armaforge",
		Short:         "Preprocess, rapify and package Arma-style config and PBO content",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		newPreprocessCmd(),
		newRapifyCmd(),
		newDerapifyCmd(),
		newPackCmd(),
		newBuildCmd(),
		newInspectCmd(),
		newUnpackCmd(),
		newCatCmd(),
		newKeygenCmd(),
		newSignCmd(),
		newVerifyCmd(),
	)
	return cmd
}
