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

const (
	// ErrInvalidConfig is reported for tree configurations that can not be used.
	ErrInvalidConfig = common.ConstError("invalid configuration")

	// ErrInvalidEntry is reported for witness entries not fitting the tree.
	ErrInvalidEntry = common.ConstError("invalid witness entry")

	// ErrMissingSibling is reported if the hash of a sibling required for
	// computing the root hash is not part of the witness.
	ErrMissingSibling = common.ConstError("missing sibling")

	// ErrInconsistentProof is reported if the hashes of a witness do not
	// match each other. A multiproof reporting this error is corrupted and
	// must not be used any more; it has to be rebuilt from trusted data.
	ErrInconsistentProof = common.ConstError("inconsistent proof")

	// ErrWitnessNotFound is reported by archives for unknown root hashes.
	ErrWitnessNotFound = common.ConstError("witness not found")
)
