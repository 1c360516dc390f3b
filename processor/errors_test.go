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
	"errors"
	"fmt"
	"testing"

	"github.com/Fantom-foundation/Multiproof/go/common"
)

func TestErrors_TypedErrorsUnwrapToSentinels(t *testing.T) {
	tests := []struct {
		err  error
		want error
		text string
	}{
		{InvalidNonceError{Expected: 6, Got: 5}, ErrInvalidNonce, "invalid nonce: expected 6, got 5"},
		{InsufficientBalanceError{Have: 10, Need: 50}, ErrInsufficientBalance, "insufficient balance: have 10, need 50"},
	}
	for _, test := range tests {
		if !errors.Is(test.err, test.want) {
			t.Errorf("%v should be a %v", test.err, test.want)
		}
		if got := test.err.Error(); got != test.text {
			t.Errorf("unexpected message, wanted %q, got %q", test.text, got)
		}
	}
}

func TestTransactionError_IdentifiesFailedTransaction(t *testing.T) {
	tx := Transfer{From: common.AddressFromNumber(1), To: common.AddressFromNumber(2), Nonce: 3, Amount: 4}
	err := error(&TransactionError{Index: 7, Transaction: tx, Err: InvalidNonceError{Expected: 1, Got: 3}})

	want := fmt.Sprintf("transaction 7 (%v) failed: invalid nonce: expected 1, got 3", tx)
	if got := err.Error(); got != want {
		t.Errorf("unexpected message, wanted %q, got %q", want, got)
	}
	var nonceErr InvalidNonceError
	if !errors.As(err, &nonceErr) || nonceErr.Got != 3 {
		t.Errorf("cause should be reachable, got %v", nonceErr)
	}
}

func TestTransfer_SigningHashCoversAllFieldsButSignature(t *testing.T) {
	base := Transfer{From: common.AddressFromNumber(1), To: common.AddressFromNumber(2), Nonce: 3, Amount: 4}
	hash := base.SigningHash()

	signed := base
	signed.Signature = Signature{1}
	if signed.SigningHash() != hash {
		t.Errorf("signature should not be covered by the signing hash")
	}

	variants := []Transfer{base, base, base, base}
	variants[0].From = common.AddressFromNumber(5)
	variants[1].To = common.AddressFromNumber(5)
	variants[2].Nonce = 5
	variants[3].Amount = 5
	for _, variant := range variants {
		if variant.SigningHash() == hash {
			t.Errorf("modification of %v should change signing hash", variant)
		}
	}
}
