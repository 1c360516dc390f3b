// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package multiproof implements a partial view of a binary Merkle tree of
// accounts. A Multiproof retains the accounts of a subset of the tree's
// leaves together with the hashes of all sibling sub-trees required to
// recompute the root hash. This allows a holder to read and update the
// covered accounts and to derive the new root hash of the full tree
// without ever seeing the rest of the tree.
//
// Tree nodes are addressed by their Position, the pair of their depth and
// their index within that level. Accounts are located at the leaf level,
// where the index is derived from the account address (see Locate).
//
// A node known to a Multiproof is in one of three states:
//   - a proof node, of which only the hash is known,
//   - an inner node, of which both children are known, or
//   - a leaf node, of which the account record is known.
//
// Only leaf nodes can be read or written. Accessing an account whose leaf
// is not known fails with state.ErrUnknownAddress.
package multiproof
