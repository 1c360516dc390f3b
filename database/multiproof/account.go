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
	"encoding/binary"

	"github.com/Fantom-foundation/Multiproof/go/common"
)

// AccountEncoder converts accounts into their fixed-size binary layout:
// balance (8 bytes) | nonce (8 bytes) | public key (48 bytes), where
// integers are big-endian encoded.
type AccountEncoder struct{}

const accountEncodedSize = 8 + 8 + common.PubKeySize

func (AccountEncoder) GetEncodedSize() int {
	return accountEncodedSize
}

func (AccountEncoder) Store(dst []byte, account *common.Account) {
	binary.BigEndian.PutUint64(dst[0:], account.Balance)
	binary.BigEndian.PutUint64(dst[8:], account.Nonce)
	copy(dst[16:], account.PubKey[:])
}

func (AccountEncoder) Load(src []byte, account *common.Account) {
	account.Balance = binary.BigEndian.Uint64(src[0:])
	account.Nonce = binary.BigEndian.Uint64(src[8:])
	copy(account.PubKey[:], src[16:])
}
