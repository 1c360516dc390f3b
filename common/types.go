// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/holiman/uint256"
)

const (
	HashSize    = 32
	AddressSize = 32
	PubKeySize  = 48
)

// Hash is the output of the hashing primitive used for all tree nodes.
type Hash [HashSize]byte

func (h Hash) String() string {
	return fmt.Sprintf("0x%x", h[:])
}

// Address is a 256-bit account identifier. It is interpreted as a big-endian
// unsigned integer when mapped to a position in the account tree.
type Address [AddressSize]byte

func (a Address) String() string {
	return fmt.Sprintf("0x%x", a[:])
}

// Uint256 returns the numeric value of the address.
func (a Address) Uint256() *uint256.Int {
	return new(uint256.Int).SetBytes32(a[:])
}

// AddressFromUint256 converts a numeric value into an address.
func AddressFromUint256(value *uint256.Int) Address {
	return Address(value.Bytes32())
}

// AddressFromNumber is a convenience constructor mostly used in tests.
func AddressFromNumber(value uint64) Address {
	return AddressFromUint256(uint256.NewInt(value))
}

// ParseAddress parses a hex encoded address with an optional 0x prefix.
// Inputs shorter than 32 bytes are left-padded with zeros.
func ParseAddress(str string) (Address, error) {
	if len(str) >= 2 && str[0] == '0' && (str[1] == 'x' || str[1] == 'X') {
		str = str[2:]
	}
	if len(str)%2 == 1 {
		str = "0" + str
	}
	data, err := hex.DecodeString(str)
	if err != nil {
		return Address{}, fmt.Errorf("invalid address %q: %w", str, err)
	}
	if len(data) > AddressSize {
		return Address{}, fmt.Errorf("invalid address %q: exceeds %d bytes", str, AddressSize)
	}
	var res Address
	copy(res[AddressSize-len(data):], data)
	return res, nil
}

// PubKey is the public key an account is controlled by.
type PubKey [PubKeySize]byte

// Account is the fixed-layout record stored at every leaf of the account tree.
type Account struct {
	Balance uint64
	Nonce   uint64
	PubKey  PubKey
}

func (a Account) String() string {
	return fmt.Sprintf("Account{balance: %d, nonce: %d, key: 0x%x}", a.Balance, a.Nonce, a.PubKey[:])
}

// Comparator compares two values of the same type.
type Comparator[T any] interface {
	// Compare returns 0 if a == b, a negative value if a < b, and a positive value otherwise.
	Compare(a, b *T) int
}

type HashComparator struct{}

func (c HashComparator) Compare(a, b *Hash) int {
	return bytes.Compare(a[:], b[:])
}

type AddressComparator struct{}

func (c AddressComparator) Compare(a, b *Address) int {
	return bytes.Compare(a[:], b[:])
}
