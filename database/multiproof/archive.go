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

//go:generate mockgen -source archive.go -destination archive_mocks.go -package multiproof

import "github.com/Fantom-foundation/Multiproof/go/common"

// Archive retains multiproofs indexed by their root hash, such that every
// state of a node's partial view produced by processing transactions can be
// restored later on. Implementations must be safe for concurrent use.
type Archive interface {
	// Add stores a copy of the given multiproof and marks it as the latest
	// witness. Adding a witness with a root already present replaces the
	// retained witness.
	Add(*Multiproof) error

	// Get restores the multiproof with the given root hash. The result is
	// owned by the caller. Unknown roots are reported by ErrWitnessNotFound.
	Get(root common.Hash) (*Multiproof, error)

	// Has checks whether a multiproof with the given root hash is archived.
	Has(root common.Hash) (bool, error)

	// Latest provides the root of the most recently added multiproof. The
	// second result is false if the archive is empty.
	Latest() (common.Hash, bool, error)

	// Roots lists the root hashes of all archived multiproofs in ascending order.
	Roots() ([]common.Hash, error)

	common.MemoryFootprintProvider

	Close() error
}
