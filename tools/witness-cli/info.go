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

	"github.com/urfave/cli/v2"
)

var (
	footprintFlag = cli.BoolFlag{
		Name:  "footprint",
		Usage: "print the memory footprint of the witness",
	}
)

var infoCommand = cli.Command{
	Action: info,
	Name:   "info",
	Usage:  "prints summary information about a witness",
	Flags: []cli.Flag{
		&witnessFlag,
		&footprintFlag,
	},
}

var verifyCommand = cli.Command{
	Action: verify,
	Name:   "verify",
	Usage:  "checks the consistency of a witness",
	Flags: []cli.Flag{
		&witnessFlag,
	},
}

func info(context *cli.Context) error {
	state, err := loadState(context.String(witnessFlag.Name))
	if err != nil {
		return err
	}
	proof := state.GetProof()
	config := proof.GetConfig()
	out := context.App.Writer
	fmt.Fprintf(out, "Witness properties:\n")
	fmt.Fprintf(out, "\tRoot:          %v\n", proof.GetHash())
	fmt.Fprintf(out, "\tConfiguration: %v\n", config.Name)
	fmt.Fprintf(out, "\tDepth:         %d\n", config.Depth)
	fmt.Fprintf(out, "\tAccounts:      %d\n", len(proof.Addresses()))
	fmt.Fprintf(out, "\tEntries:       %d\n", len(proof.Entries()))
	if context.Bool(footprintFlag.Name) {
		fmt.Fprintf(out, "\n--- Memory Footprint ---\n%v", proof.GetMemoryFootprint())
	}
	return nil
}

func verify(context *cli.Context) error {
	// Loading a witness checks it against its root hash.
	state, err := loadState(context.String(witnessFlag.Name))
	if err != nil {
		return err
	}
	proof := state.GetProof()
	if err := proof.Verify(); err != nil {
		return err
	}
	fmt.Fprintf(context.App.Writer, "Witness is consistent, root %v\n", proof.GetHash())
	return nil
}
