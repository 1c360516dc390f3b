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
	"testing"

	"github.com/Fantom-foundation/Multiproof/go/common"
)

func TestAccountEncoder_CanEncodeAndDecodeAccounts(t *testing.T) {
	encoder := AccountEncoder{}
	accounts := []common.Account{
		{},
		{Balance: 1},
		{Nonce: 1},
		{Balance: ^uint64(0), Nonce: ^uint64(0)},
		{Balance: 12, Nonce: 14, PubKey: common.PubKey{1, 2, 3, 47: 4}},
	}
	buffer := make([]byte, encoder.GetEncodedSize())
	for _, account := range accounts {
		encoder.Store(buffer, &account)
		var restored common.Account
		encoder.Load(buffer, &restored)
		if restored != account {
			t.Errorf("failed to restore %v, got %v", account, restored)
		}
	}
}

func TestAccountEncoder_UsesFixedBigEndianLayout(t *testing.T) {
	encoder := AccountEncoder{}
	buffer := make([]byte, encoder.GetEncodedSize())
	encoder.Store(buffer, &common.Account{Balance: 0x0102, Nonce: 0x03, PubKey: common.PubKey{0xaa, 47: 0xbb}})

	if got, want := len(buffer), 64; got != want {
		t.Fatalf("unexpected encoded size, wanted %d, got %d", want, got)
	}
	if buffer[6] != 0x01 || buffer[7] != 0x02 {
		t.Errorf("unexpected balance encoding: %x", buffer[0:8])
	}
	if buffer[15] != 0x03 {
		t.Errorf("unexpected nonce encoding: %x", buffer[8:16])
	}
	if buffer[16] != 0xaa || buffer[63] != 0xbb {
		t.Errorf("unexpected key encoding: %x", buffer[16:])
	}
}

func TestHashLeaf_DependsOnAllFields(t *testing.T) {
	accounts := []common.Account{
		{},
		{Balance: 1},
		{Nonce: 1},
		{PubKey: common.PubKey{47: 1}},
	}
	seen := map[common.Hash]common.Account{}
	for _, account := range accounts {
		hash := hashLeaf(&account)
		if other, found := seen[hash]; found {
			t.Errorf("hash collision between %v and %v", account, other)
		}
		seen[hash] = account
	}
}

func TestHashPair_OrdersChildrenByPosition(t *testing.T) {
	a, b := common.Hash{1}, common.Hash{2}
	left := RootPosition().Child(0)
	right := left.Sibling()
	if got, want := hashPair(left, a, b), hashInner(a, b); got != want {
		t.Errorf("unexpected hash for left child, wanted %v, got %v", want, got)
	}
	if got, want := hashPair(right, a, b), hashInner(b, a); got != want {
		t.Errorf("unexpected hash for right child, wanted %v, got %v", want, got)
	}
}
