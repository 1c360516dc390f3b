// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package state

//go:generate mockgen -source state.go -destination state_mocks.go -package state

import (
	"github.com/Fantom-foundation/Multiproof/go/common"
)

// State provides read and write access to the accounts covered by a partial
// view of the global account tree. Accounts outside of the covered part of
// the tree can neither be read nor written; such accesses fail with an
// UnknownAddressError.
//
// Implementations are not safe for concurrent use. A State is exclusively
// owned by the component currently processing it.
type State interface {
	// GetAccount provides the full record of the account with the given address.
	GetAccount(address common.Address) (common.Account, error)

	// GetBalance provides the balance of the account with the given address.
	GetBalance(address common.Address) (uint64, error)

	// GetNonce provides the nonce of the account with the given address.
	GetNonce(address common.Address) (uint64, error)

	// Apply replaces the record of the account with the given address and
	// updates the state hash accordingly.
	Apply(address common.Address, account common.Account) error

	// GetHash provides the current root hash of the account tree.
	GetHash() common.Hash

	// CreateSnapshot captures the current content of this state. The snapshot
	// is not affected by later modifications of the state.
	CreateSnapshot() Snapshot

	// Restore resets this state to the content captured by the given snapshot.
	// Only snapshots created by the same kind of state can be restored.
	Restore(snapshot Snapshot) error
}

// Snapshot is an immutable copy of the content of a State.
type Snapshot interface {
	// GetHash provides the root hash of the captured state.
	GetHash() common.Hash
}
