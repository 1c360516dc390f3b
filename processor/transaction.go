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

import (
	"encoding/binary"
	"fmt"

	"github.com/Fantom-foundation/Multiproof/go/common"
)

// SignatureSize is the size of transaction signatures in bytes.
const SignatureSize = 96

// Signature authorizes a transaction on behalf of the owner of the sender account.
type Signature [SignatureSize]byte

// Transaction is a state transition that can be processed by a Processor.
// The set of transaction types is closed; Transfer is the only variant.
type Transaction interface {
	fmt.Stringer
	isTransaction()
}

// Transfer moves Amount tokens from the From account to the To account. The
// Nonce must match the current nonce of the sender.
type Transfer struct {
	From      common.Address
	To        common.Address
	Nonce     uint64
	Amount    uint64
	Signature Signature
}

func (Transfer) isTransaction() {}

// SigningHash is the digest covered by the transfer's signature. It includes
// all fields except the signature itself.
func (t Transfer) SigningHash() common.Hash {
	var numbers [16]byte
	binary.BigEndian.PutUint64(numbers[0:], t.Nonce)
	binary.BigEndian.PutUint64(numbers[8:], t.Amount)
	return common.Keccak256(t.From[:], t.To[:], numbers[:])
}

func (t Transfer) String() string {
	return fmt.Sprintf("Transfer{from: %v, to: %v, nonce: %d, amount: %d}", t.From, t.To, t.Nonce, t.Amount)
}
