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

import "github.com/Fantom-foundation/Multiproof/go/common"

// hashLeaf computes the hash of a leaf node holding the given account.
func hashLeaf(account *common.Account) common.Hash {
	var data [accountEncodedSize]byte
	AccountEncoder{}.Store(data[:], account)
	return common.Keccak256(data[:])
}

// hashInner computes the hash of an inner node from the hashes of its children.
func hashInner(left, right common.Hash) common.Hash {
	return common.Keccak256(left[:], right[:])
}

// hashPair orders the hashes of a node and its sibling and combines them
// into the hash of their parent.
func hashPair(pos Position, hash, siblingHash common.Hash) common.Hash {
	if pos.IsLeft() {
		return hashInner(hash, siblingHash)
	}
	return hashInner(siblingHash, hash)
}
