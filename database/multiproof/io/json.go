// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package io

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/Fantom-foundation/Multiproof/go/common"
	"github.com/Fantom-foundation/Multiproof/go/database/multiproof"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// WitnessFile is the JSON representation of a multiproof exchanged between
// nodes. It lists the minimal set of entries required to reconstruct the
// multiproof and the root hash the reconstruction is checked against.
type WitnessFile struct {
	Config  string         `json:"config"`
	Depth   uint16         `json:"depth"`
	Root    hexutil.Bytes  `json:"root"`
	Entries []WitnessEntry `json:"entries"`
}

// WitnessEntry is either a node described by its hash or a leaf described by
// its account.
type WitnessEntry struct {
	Depth   uint16          `json:"depth"`
	Index   *hexutil.Big    `json:"index"`
	Hash    hexutil.Bytes   `json:"hash,omitempty"`
	Account *WitnessAccount `json:"account,omitempty"`
}

type WitnessAccount struct {
	Balance hexutil.Uint64 `json:"balance"`
	Nonce   hexutil.Uint64 `json:"nonce"`
	PubKey  hexutil.Bytes  `json:"pubKey"`
}

// Export produces the witness file describing the given multiproof.
func Export(proof *multiproof.Multiproof) WitnessFile {
	config := proof.GetConfig()
	root := proof.GetHash()
	res := WitnessFile{
		Config:  config.Name,
		Depth:   config.Depth,
		Root:    root[:],
		Entries: []WitnessEntry{},
	}
	for _, entry := range proof.Entries() {
		cur := WitnessEntry{
			Depth: entry.Position.Depth(),
			Index: (*hexutil.Big)(entry.Position.Index().ToBig()),
		}
		if entry.Account != nil {
			cur.Account = &WitnessAccount{
				Balance: hexutil.Uint64(entry.Account.Balance),
				Nonce:   hexutil.Uint64(entry.Account.Nonce),
				PubKey:  append([]byte{}, entry.Account.PubKey[:]...),
			}
		} else {
			cur.Hash = append([]byte{}, entry.Hash[:]...)
		}
		res.Entries = append(res.Entries, cur)
	}
	return res
}

// Import reconstructs the multiproof described by the given witness file.
// All consistency checks of multiproof construction are applied.
func Import(file WitnessFile) (*multiproof.Multiproof, error) {
	config, err := resolveConfig(file.Config, file.Depth)
	if err != nil {
		return nil, err
	}
	if len(file.Root) != common.HashSize {
		return nil, fmt.Errorf("invalid root hash length: %d", len(file.Root))
	}
	root := common.Hash(file.Root)

	entries := make([]multiproof.Entry, 0, len(file.Entries))
	for i, cur := range file.Entries {
		entry, err := parseEntry(&cur)
		if err != nil {
			return nil, fmt.Errorf("invalid entry %d: %w", i, err)
		}
		entries = append(entries, entry)
	}
	return multiproof.New(config, root, entries)
}

func parseEntry(entry *WitnessEntry) (multiproof.Entry, error) {
	if entry.Index == nil {
		return multiproof.Entry{}, fmt.Errorf("missing index")
	}
	index, overflow := uint256.FromBig((*big.Int)(entry.Index))
	if overflow || entry.Index.ToInt().Sign() < 0 {
		return multiproof.Entry{}, fmt.Errorf("index out of range: %v", entry.Index)
	}
	pos := multiproof.NewPosition(entry.Depth, index)

	if entry.Account != nil {
		if len(entry.Hash) != 0 {
			return multiproof.Entry{}, fmt.Errorf("entry at %v has both a hash and an account", pos)
		}
		if len(entry.Account.PubKey) != common.PubKeySize {
			return multiproof.Entry{}, fmt.Errorf("invalid public key length: %d", len(entry.Account.PubKey))
		}
		return multiproof.AccountEntry(pos, common.Account{
			Balance: uint64(entry.Account.Balance),
			Nonce:   uint64(entry.Account.Nonce),
			PubKey:  common.PubKey(entry.Account.PubKey),
		}), nil
	}
	if len(entry.Hash) != common.HashSize {
		return multiproof.Entry{}, fmt.Errorf("invalid hash length: %d", len(entry.Hash))
	}
	return multiproof.HashEntry(pos, common.Hash(entry.Hash)), nil
}

// resolveConfig prefers predefined configurations and falls back to a custom
// configuration with the given name and depth.
func resolveConfig(name string, depth uint16) (multiproof.Config, error) {
	if config, found := multiproof.GetConfigByName(name); found && config.Depth == depth {
		return config, nil
	}
	config := multiproof.Config{Name: name, Depth: depth}
	if err := config.Validate(); err != nil {
		return multiproof.Config{}, err
	}
	return config, nil
}

// ReadFile reads a JSON witness file and reconstructs the multiproof it describes.
func ReadFile(path string) (*multiproof.Multiproof, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file WitnessFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse witness file %v: %w", path, err)
	}
	return Import(file)
}

// WriteFile writes the given multiproof into a JSON witness file.
func WriteFile(path string, proof *multiproof.Multiproof) error {
	content, err := json.MarshalIndent(Export(proof), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0600)
}
