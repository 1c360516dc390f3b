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
	"strconv"
	"strings"

	"github.com/Fantom-foundation/Multiproof/go/common"
	"github.com/Fantom-foundation/Multiproof/go/database/multiproof"
	"github.com/Fantom-foundation/Multiproof/go/database/multiproof/bolt"
	"github.com/Fantom-foundation/Multiproof/go/database/multiproof/io"
	"github.com/Fantom-foundation/Multiproof/go/database/multiproof/ldb"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

var (
	witnessFlag = cli.StringFlag{
		Name:     "witness",
		Usage:    "the JSON witness file describing the known accounts",
		Required: true,
	}
	archiveFlag = cli.StringFlag{
		Name:  "archive",
		Usage: "the location of a witness archive, disabled if empty",
	}
	archiveTypeFlag = cli.StringFlag{
		Name:  "archive-type",
		Usage: "the archive implementation, either 'ldb' (a directory) or 'bolt' (a file)",
		Value: "ldb",
	}
)

func loadState(path string) (*multiproof.State, error) {
	proof, err := io.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load witness %v: %w", path, err)
	}
	log.Info("Loaded witness", "file", path, "root", proof.GetHash())
	return multiproof.NewState(proof), nil
}

func openArchive(kind, path string) (multiproof.Archive, error) {
	var archive multiproof.Archive
	var err error
	switch kind {
	case "ldb":
		archive, err = ldb.Open(path)
	case "bolt":
		archive, err = bolt.Open(path)
	default:
		return nil, fmt.Errorf("unknown archive type %q", kind)
	}
	if err != nil {
		return nil, err
	}
	return archive, nil
}

// archiveWitness adds the given proof to the archive selected by the flags
// of the given context, if any.
func archiveWitness(context *cli.Context, proof *multiproof.Multiproof) (err error) {
	path := context.String(archiveFlag.Name)
	if path == "" {
		return nil
	}
	archive, err := openArchive(context.String(archiveTypeFlag.Name), path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := archive.Close(); closeErr != nil {
			if err == nil {
				err = closeErr
			} else {
				log.Error("Failure closing archive", "err", closeErr)
			}
		}
	}()
	return archive.Add(proof)
}

// parseAddress parses a hex encoded address argument.
func parseAddress(str string) (common.Address, error) {
	return common.ParseAddress(strings.TrimSpace(str))
}

// parseAccount parses an account definition of the form <address>:<balance>.
func parseAccount(str string) (common.Address, common.Account, error) {
	addr, balance, found := strings.Cut(str, ":")
	if !found {
		return common.Address{}, common.Account{}, fmt.Errorf("invalid account %q, expected <address>:<balance>", str)
	}
	address, err := parseAddress(addr)
	if err != nil {
		return common.Address{}, common.Account{}, err
	}
	value, err := strconv.ParseUint(balance, 10, 64)
	if err != nil {
		return common.Address{}, common.Account{}, fmt.Errorf("invalid balance %q: %w", balance, err)
	}
	return address, common.Account{Balance: value}, nil
}

func parseHash(str string) (common.Hash, error) {
	data, err := hexutil.Decode(str)
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid hash %q: %w", str, err)
	}
	if len(data) != common.HashSize {
		return common.Hash{}, fmt.Errorf("invalid hash %q: expected %d bytes, got %d", str, common.HashSize, len(data))
	}
	return common.Hash(data), nil
}

// configForDepth provides the predefined configuration of the given depth, or
// a custom configuration if there is none.
func configForDepth(depth uint16) multiproof.Config {
	for _, config := range []multiproof.Config{multiproof.DefaultConfig, multiproof.TestConfig} {
		if config.Depth == depth {
			return config
		}
	}
	return multiproof.Config{Name: fmt.Sprintf("Depth-%d", depth), Depth: depth}
}
