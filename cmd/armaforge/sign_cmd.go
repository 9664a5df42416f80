// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/armaforge/armaforge/pbo"
	"github.com/armaforge/armaforge/sign"
)

func newKeygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen <name>",
		Short: "Write <name>.biprivatekey, <name>.bikey",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			priv, err := sign.GenerateKeyPair(name)
			if err != nil {
				return err
			}
			if err := writeOutput(name+".biprivatekey", sign.EncodePrivate(priv), true); err != nil {
				return err
			}
			return writeOutput(name+".bikey", sign.EncodePublic(priv.Public()), true)
		},
	}
	return cmd
}

func newSignCmd() *cobra.Command {
	var useV2 bool
	cmd := &cobra.Command{
		Use:   "sign <priv> <pbo> [sig]",
		Short: "Write signature file",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			privData, err := readInput(args[0])
			if err != nil {
				return err
			}
			priv, err := sign.DecodePrivate(privData)
			if err != nil {
				return err
			}
			pboData, err := readInput(args[1])
			if err != nil {
				return err
			}
			archive, err := pbo.Read(pboData)
			if err != nil {
				return err
			}
			version := sign.V3
			if useV2 {
				version = sign.V2
			}
			sig, err := sign.Sign(priv, archive, version)
			if err != nil {
				return err
			}
			dst := arg(args, 2, args[1]+".bisign")
			return writeOutput(dst, sign.EncodeSign(sig), true)
		},
	}
	cmd.Flags().BoolVar(&useV2, "v2", false, "use the V2 file-hash extension filter instead of V3")
	return cmd
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <pub> <pbo> [sig]",
		Short: "Exit nonzero on mismatch",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pubData, err := readInput(args[0])
			if err != nil {
				return err
			}
			pub, err := sign.DecodePublic(pubData)
			if err != nil {
				return err
			}
			pboData, err := readInput(args[1])
			if err != nil {
				return err
			}
			archive, err := pbo.Read(pboData)
			if err != nil {
				return err
			}
			sigPath := arg(args, 2, args[1]+".bisign")
			sigData, err := readInput(sigPath)
			if err != nil {
				return err
			}
			sig, err := sign.DecodeSign(sigData)
			if err != nil {
				return err
			}
			if err := sign.Verify(pub, archive, sig); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	return cmd
}
