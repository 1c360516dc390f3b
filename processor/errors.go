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
	"fmt"

	"github.com/Fantom-foundation/Multiproof/go/common"
)

const (
	// ErrInvalidNonce is reported for transactions not matching the current
	// nonce of their sender, thus being stale, replayed, or out of order.
	ErrInvalidNonce = common.ConstError("invalid nonce")

	// ErrInsufficientBalance is reported for transfers exceeding the balance
	// of their sender.
	ErrInsufficientBalance = common.ConstError("insufficient balance")

	// ErrBalanceOverflow is reported for transfers that would push the
	// balance of the receiver beyond the maximum representable value.
	ErrBalanceOverflow = common.ConstError("balance overflow")

	// ErrInvalidSignature is reported for transactions rejected by the
	// configured signature verifier.
	ErrInvalidSignature = common.ConstError("invalid signature")

	// ErrUnsupportedTransaction is reported for unknown transaction types.
	ErrUnsupportedTransaction = common.ConstError("unsupported transaction")
)

// InvalidNonceError reports the nonce of the sender and the nonce of the
// rejected transaction.
type InvalidNonceError struct {
	Expected uint64
	Got      uint64
}

func (e InvalidNonceError) Error() string {
	return fmt.Sprintf("%v: expected %d, got %d", ErrInvalidNonce, e.Expected, e.Got)
}

func (e InvalidNonceError) Unwrap() error {
	return ErrInvalidNonce
}

// InsufficientBalanceError reports the available balance of the sender and
// the amount required by the rejected transfer.
type InsufficientBalanceError struct {
	Have uint64
	Need uint64
}

func (e InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%v: have %d, need %d", ErrInsufficientBalance, e.Have, e.Need)
}

func (e InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

// TransactionError identifies the transaction that stopped the processing
// of a batch and the reason of its failure.
type TransactionError struct {
	Index       int
	Transaction Transaction
	Err         error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction %d (%v) failed: %v", e.Index, e.Transaction, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}
