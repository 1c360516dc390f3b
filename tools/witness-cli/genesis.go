// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"

	"github.com/Fantom-foundation/Multiproof/go/common"
	"github.com/Fantom-foundation/Multiproof/go/database/multiproof"
	"github.com/Fantom-foundation/Multiproof/go/database/multiproof/io"
	"github.com/urfave/cli/v2"
)

var (
	outFlag = cli.StringFlag{
		Name:     "out",
		Usage:    "the witness file to be written",
		Required: true,
	}
	depthFlag = cli.UintFlag{
		Name:  "depth",
		Usage: "the depth of the account tree",
		Value: multiproof.MaxDepth,
	}
	accountFlag = cli.StringSliceFlag{
		Name:  "account",
		Usage: "an initial account of the form <address>:<balance>",
	}
	coverFlag = cli.StringSliceFlag{
		Name:  "cover",
		Usage: "an address to be covered by the witness, all initial accounts if not set",
	}
)

var genesisCommand = cli.Command{
	Action: genesis,
	Name:   "genesis",
	Usage:  "creates a witness for a new account tree",
	Flags: []cli.Flag{
		&outFlag,
		&depthFlag,
		&accountFlag,
		&coverFlag,
		&archiveFlag,
		&archiveTypeFlag,
	},
}

func genesis(context *cli.Context) error {
	depth := context.Uint(depthFlag.Name)
	if depth > multiproof.MaxDepth {
		return fmt.Errorf("invalid depth %d, maximum is %d", depth, multiproof.MaxDepth)
	}
	generator, err := multiproof.NewGenerator(configForDepth(uint16(depth)))
	if err != nil {
		return err
	}

	covered := []common.Address{}
	for _, def := range context.StringSlice(accountFlag.Name) {
		address, account, err := parseAccount(def)
		if err != nil {
			return err
		}
		generator.Set(address, account)
		covered = append(covered, address)
	}
	if context.IsSet(coverFlag.Name) {
		covered = covered[:0]
		for _, str := range context.StringSlice(coverFlag.Name) {
			address, err := parseAddress(str)
			if err != nil {
				return err
			}
			covered = append(covered, address)
		}
	}

	proof, err := generator.Witness(covered...)
	if err != nil {
		return err
	}
	if err := io.WriteFile(context.String(outFlag.Name), proof); err != nil {
		return err
	}
	if err := archiveWitness(context, proof); err != nil {
		return err
	}
	fmt.Fprintf(context.App.Writer, "Created witness with root %v covering %d accounts\n", proof.GetHash(), len(proof.Addresses()))
	return nil
}
