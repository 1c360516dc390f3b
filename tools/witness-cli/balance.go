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

var balanceCommand = cli.Command{
	Action:    balance,
	Name:      "balance",
	Usage:     "prints the balance and nonce of an account",
	ArgsUsage: "<address>",
	Flags: []cli.Flag{
		&witnessFlag,
	},
}

var accountsCommand = cli.Command{
	Action: accounts,
	Name:   "accounts",
	Usage:  "lists the addresses of the accounts known to a witness",
	Flags: []cli.Flag{
		&witnessFlag,
	},
}

func balance(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return fmt.Errorf("missing address")
	}
	address, err := parseAddress(context.Args().Get(0))
	if err != nil {
		return err
	}
	state, err := loadState(context.String(witnessFlag.Name))
	if err != nil {
		return err
	}
	account, err := state.GetAccount(address)
	if err != nil {
		return err
	}
	fmt.Fprintf(context.App.Writer, "Balance: %d\nNonce:   %d\n", account.Balance, account.Nonce)
	return nil
}

func accounts(context *cli.Context) error {
	state, err := loadState(context.String(witnessFlag.Name))
	if err != nil {
		return err
	}
	for _, address := range state.GetProof().Addresses() {
		fmt.Fprintln(context.App.Writer, address)
	}
	return nil
}
