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
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

// Run with `go run ./tools/witness-cli <command> <flags>`

var (
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "sets the log level (0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace)",
		Value: int(log.LvlWarn),
	}
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "Multiproof Witness Toolbox",
		HelpName:  "witness",
		Usage:     "A set of utilities to create, inspect and update account witnesses",
		Copyright: "(c) 2024 Fantom Foundation",
		Flags: []cli.Flag{
			&verbosityFlag,
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			&genesisCommand,
			&balanceCommand,
			&accountsCommand,
			&transferCommand,
			&infoCommand,
			&verifyCommand,
			&restoreCommand,
			&serveCommand,
		},
	}
}

func setupLogging(context *cli.Context) error {
	glogger := log.NewGlogHandler(log.StreamHandler(context.App.ErrWriter, log.TerminalFormat(false)))
	glogger.Verbosity(log.Lvl(context.Int(verbosityFlag.Name)))
	log.Root().SetHandler(glogger)
	return nil
}
