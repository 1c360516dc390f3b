// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package processor

//go:generate mockgen -source signature.go -destination signature_mocks.go -package processor

import "github.com/Fantom-foundation/Multiproof/go/common"

// SignatureVerifier checks the authorization of transactions. Signature
// schemes are provided by external components; the processor only consults
// the verifier, if one is configured.
type SignatureVerifier interface {
	// Verify returns true if the signature is a valid signature of the given
	// digest by the owner of the given public key.
	Verify(digest common.Hash, signature Signature, key common.PubKey) bool
}
