// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package multiproof

import (
	"github.com/Fantom-foundation/Multiproof/go/common"
)

// Generator maintains a complete sparse Merkle tree of accounts and produces
// multiproofs for subsets of its accounts. Leaves without an explicitly set
// account hold the empty account; the hashes of empty sub-trees are
// precomputed, so only the paths of set accounts need to be stored.
type Generator struct {
	config   Config
	defaults []common.Hash // defaults[h] is the hash of an empty sub-tree of height h
	accounts map[Position]common.Account
	hashes   map[Position]common.Hash // hashes of all non-empty sub-trees
}

// NewGenerator creates a generator for an empty tree of the given shape.
func NewGenerator(config Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	defaults := make([]common.Hash, int(config.Depth)+1)
	defaults[0] = hashLeaf(&common.Account{})
	for i := 1; i < len(defaults); i++ {
		defaults[i] = hashInner(defaults[i-1], defaults[i-1])
	}
	return &Generator{
		config:   config,
		defaults: defaults,
		accounts: map[Position]common.Account{},
		hashes:   map[Position]common.Hash{},
	}, nil
}

// Set updates the account of the given address and all hashes on its path.
func (g *Generator) Set(address common.Address, account common.Account) {
	pos := Locate(g.config, address)
	g.accounts[pos] = account
	hash := hashLeaf(&account)
	g.hashes[pos] = hash
	for cur := pos; !cur.IsRoot(); cur = cur.Parent() {
		hash = hashPair(cur, hash, g.hashOf(cur.Sibling()))
		g.hashes[cur.Parent()] = hash
	}
}

// Get provides the account of the given address. Unset accounts are empty.
func (g *Generator) Get(address common.Address) common.Account {
	return g.accounts[Locate(g.config, address)]
}

// GetHash provides the root hash of the full tree.
func (g *Generator) GetHash() common.Hash {
	return g.hashOf(RootPosition())
}

// Witness creates a multiproof covering the accounts of the given addresses.
func (g *Generator) Witness(addresses ...common.Address) (*Multiproof, error) {
	leaves := make([]Position, 0, len(addresses))
	for _, address := range addresses {
		leaves = append(leaves, Locate(g.config, address))
	}
	entries := collectWitness(leaves, g.hashOf, func(pos Position) common.Account {
		return g.accounts[pos]
	})
	return New(g.config, g.GetHash(), entries)
}

func (g *Generator) hashOf(pos Position) common.Hash {
	if hash, found := g.hashes[pos]; found {
		return hash
	}
	return g.defaults[g.config.Depth-pos.depth]
}
