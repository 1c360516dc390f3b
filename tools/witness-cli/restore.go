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
	"errors"
	"fmt"

	"github.com/Fantom-foundation/Multiproof/go/common"
	"github.com/Fantom-foundation/Multiproof/go/database/multiproof/io"
	"github.com/urfave/cli/v2"
)

var (
	requiredArchiveFlag = cli.StringFlag{
		Name:     archiveFlag.Name,
		Usage:    archiveFlag.Usage,
		Required: true,
	}
	rootFlag = cli.StringFlag{
		Name:  "root",
		Usage: "the root hash of the witness to be restored, the latest witness if not set",
	}
	listFlag = cli.BoolFlag{
		Name:  "list",
		Usage: "list the roots of all archived witnesses instead of restoring one",
	}
	restoreOutFlag = cli.StringFlag{
		Name:  outFlag.Name,
		Usage: "the witness file to be written",
	}
)

var restoreCommand = cli.Command{
	Action: restore,
	Name:   "restore",
	Usage:  "restores a witness from an archive",
	Flags: []cli.Flag{
		&requiredArchiveFlag,
		&archiveTypeFlag,
		&rootFlag,
		&listFlag,
		&restoreOutFlag,
	},
}

func restore(context *cli.Context) (err error) {
	archive, err := openArchive(context.String(archiveTypeFlag.Name), context.String(requiredArchiveFlag.Name))
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, archive.Close())
	}()

	if context.Bool(listFlag.Name) {
		roots, err := archive.Roots()
		if err != nil {
			return err
		}
		for _, root := range roots {
			fmt.Fprintln(context.App.Writer, root)
		}
		return nil
	}

	out := context.String(restoreOutFlag.Name)
	if out == "" {
		return fmt.Errorf("missing output file")
	}

	var root common.Hash
	if context.IsSet(rootFlag.Name) {
		if root, err = parseHash(context.String(rootFlag.Name)); err != nil {
			return err
		}
	} else {
		var found bool
		if root, found, err = archive.Latest(); err != nil {
			return err
		} else if !found {
			return fmt.Errorf("archive is empty")
		}
	}

	proof, err := archive.Get(root)
	if err != nil {
		return err
	}
	if err := io.WriteFile(out, proof); err != nil {
		return err
	}
	fmt.Fprintf(context.App.Writer, "Restored witness %v\n", root)
	return nil
}
