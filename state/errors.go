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

import (
	"fmt"

	"github.com/Fantom-foundation/Multiproof/go/common"
)

const (
	// ErrUnknownAddress is reported when an account is accessed that is not
	// covered by the partial view of the state. Callers need to obtain a
	// proof covering the account before retrying.
	ErrUnknownAddress = common.ConstError("unknown address")

	// ErrIncompatibleSnapshot is reported when restoring a snapshot that was
	// not created by the restoring state implementation.
	ErrIncompatibleSnapshot = common.ConstError("incompatible snapshot")
)

// UnknownAddressError reports the address that could not be accessed.
type UnknownAddressError struct {
	Address common.Address
}

func (e UnknownAddressError) Error() string {
	return fmt.Sprintf("%v: %v", ErrUnknownAddress, e.Address)
}

func (e UnknownAddressError) Unwrap() error {
	return ErrUnknownAddress
}
