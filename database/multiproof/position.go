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
	"github.com/holiman/uint256"
)

// Position identifies a node in the account tree by its depth below the root
// and its index within its level. The root is at depth 0 and index 0, the
// children of the node with index i are located at indices 2i and 2i+1 one
// level below.
//
// Positions are comparable and may be used as map keys.
type Position struct {
	depth uint16
	index uint256.Int
}

// NewPosition creates a position for the given depth and index. The index is
// copied.
func NewPosition(depth uint16, index *uint256.Int) Position {
	return Position{depth: depth, index: *index}
}

// RootPosition is the position of the root of every tree.
func RootPosition() Position {
	return Position{}
}

// Locate provides the position of the leaf holding the account with the given
// address. The leaf index is the address value truncated to the lowest
// config.Depth bits. With the maximum depth every address is located at its
// own leaf.
func Locate(config Config, address common.Address) Position {
	index := address.Uint256()
	if config.Depth < MaxDepth {
		mask := new(uint256.Int).Lsh(uint256.NewInt(1), uint(config.Depth))
		mask.Sub(mask, uint256.NewInt(1))
		index.And(index, mask)
	}
	return Position{depth: config.Depth, index: *index}
}

// Depth is the number of levels between the root and this position.
func (p Position) Depth() uint16 {
	return p.depth
}

// Index provides a copy of the index of this position within its level.
func (p Position) Index() *uint256.Int {
	return p.index.Clone()
}

func (p Position) IsRoot() bool {
	return p.depth == 0
}

// IsLeft is true if this position is the left child of its parent.
func (p Position) IsLeft() bool {
	return p.index.Uint64()&1 == 0
}

// Parent provides the position of the parent node. Must not be called on the root.
func (p Position) Parent() Position {
	res := Position{depth: p.depth - 1}
	res.index.Rsh(&p.index, 1)
	return res
}

// Sibling provides the position of the other child of this node's parent.
// Must not be called on the root.
func (p Position) Sibling() Position {
	res := Position{depth: p.depth}
	res.index.Xor(&p.index, uint256.NewInt(1))
	return res
}

// Child provides the left (bit = 0) or right (bit = 1) child of this position.
func (p Position) Child(bit uint64) Position {
	res := Position{depth: p.depth + 1}
	res.index.Lsh(&p.index, 1)
	res.index.Or(&res.index, uint256.NewInt(bit&1))
	return res
}

// Address provides the smallest address located at this leaf position.
func (p Position) Address() common.Address {
	return common.AddressFromUint256(&p.index)
}

// isValidIn checks whether this position is part of a tree of the given config.
func (p Position) isValidIn(config Config) bool {
	return p.depth <= config.Depth && p.index.BitLen() <= int(p.depth)
}

// Compare orders positions by their depth first and their index second.
func (p *Position) Compare(other *Position) int {
	if p.depth != other.depth {
		if p.depth < other.depth {
			return -1
		}
		return 1
	}
	return p.index.Cmp(&other.index)
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%s", p.depth, p.index.Hex())
}
