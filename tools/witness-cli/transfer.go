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

	"github.com/Fantom-foundation/Multiproof/go/database/multiproof/io"
	"github.com/Fantom-foundation/Multiproof/go/processor"
	"github.com/urfave/cli/v2"
)

var (
	fromFlag = cli.StringFlag{
		Name:     "from",
		Usage:    "the address of the sender",
		Required: true,
	}
	toFlag = cli.StringFlag{
		Name:     "to",
		Usage:    "the address of the receiver",
		Required: true,
	}
	amountFlag = cli.Uint64Flag{
		Name:     "amount",
		Usage:    "the number of tokens to be transferred",
		Required: true,
	}
)

var transferCommand = cli.Command{
	Action: transfer,
	Name:   "transfer",
	Usage:  "transfers tokens between two accounts known to a witness and updates the witness",
	Flags: []cli.Flag{
		&witnessFlag,
		&fromFlag,
		&toFlag,
		&amountFlag,
		&archiveFlag,
		&archiveTypeFlag,
	},
}

func transfer(context *cli.Context) error {
	from, err := parseAddress(context.String(fromFlag.Name))
	if err != nil {
		return err
	}
	to, err := parseAddress(context.String(toFlag.Name))
	if err != nil {
		return err
	}
	path := context.String(witnessFlag.Name)
	state, err := loadState(path)
	if err != nil {
		return err
	}
	nonce, err := state.GetNonce(from)
	if err != nil {
		return err
	}

	// Signing is not supported by this tool, an empty signature is used.
	tx := processor.Transfer{
		From:   from,
		To:     to,
		Nonce:  nonce,
		Amount: context.Uint64(amountFlag.Name),
	}
	if err := processor.ApplyTransactions(state, []processor.Transaction{tx}); err != nil {
		return err
	}

	proof := state.GetProof()
	if err := io.WriteFile(path, proof); err != nil {
		return err
	}
	if err := archiveWitness(context, proof); err != nil {
		return err
	}
	fmt.Fprintf(context.App.Writer, "Applied %v, new root %v\n", tx, proof.GetHash())
	return nil
}
