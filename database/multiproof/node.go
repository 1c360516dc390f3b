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
	"fmt"

	"github.com/Fantom-foundation/Multiproof/go/common"
)

type nodeKind byte

const (
	// proofNode is a node of which only the hash is known.
	proofNode nodeKind = iota
	// innerNode is a node of which both children are known.
	innerNode
	// leafNode is a leaf of which the account is known.
	leafNode
)

func (k nodeKind) String() string {
	switch k {
	case proofNode:
		return "proof"
	case innerNode:
		return "inner"
	case leafNode:
		return "leaf"
	}
	return fmt.Sprintf("unknown(%d)", byte(k))
}

// node is the state of a single tree position known to a multiproof. The
// hash is always up to date with the account (leaf) or the children (inner).
type node struct {
	kind    nodeKind
	hash    common.Hash
	account common.Account // only valid for leaf nodes
}

func (n *node) String() string {
	if n.kind == leafNode {
		return fmt.Sprintf("%v %v %v", n.kind, n.hash, n.account)
	}
	return fmt.Sprintf("%v %v", n.kind, n.hash)
}

// Entry is an element of the witness data a multiproof is constructed from.
// If Account is set, the entry describes a known leaf. Otherwise, the entry
// describes a node of which only the hash is known.
type Entry struct {
	Position Position
	Hash     common.Hash
	Account  *common.Account
}

// HashEntry creates an entry for a node of which only the hash is known.
func HashEntry(pos Position, hash common.Hash) Entry {
	return Entry{Position: pos, Hash: hash}
}

// AccountEntry creates an entry for a leaf with a known account.
func AccountEntry(pos Position, account common.Account) Entry {
	return Entry{Position: pos, Account: &account}
}

func (e Entry) String() string {
	if e.Account != nil {
		return fmt.Sprintf("%v -> %v", e.Position, *e.Account)
	}
	return fmt.Sprintf("%v -> %v", e.Position, e.Hash)
}
