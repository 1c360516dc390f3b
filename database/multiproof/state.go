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
	"errors"
	"fmt"

	"github.com/Fantom-foundation/Multiproof/go/common"
	"github.com/Fantom-foundation/Multiproof/go/state"
)

// State adapts a Multiproof to the state.State interface, translating account
// addresses into tree positions.
type State struct {
	proof *Multiproof
}

var _ state.State = (*State)(nil)

// NewState creates a state operating in place on the given multiproof.
func NewState(proof *Multiproof) *State {
	return &State{proof: proof}
}

// GetProof provides the multiproof this state is operating on.
func (s *State) GetProof() *Multiproof {
	return s.proof
}

func (s *State) GetAccount(address common.Address) (common.Account, error) {
	account, err := s.proof.GetAccount(s.proof.Locate(address))
	if err != nil {
		return common.Account{}, translateError(address, err)
	}
	return account, nil
}

func (s *State) GetBalance(address common.Address) (uint64, error) {
	account, err := s.GetAccount(address)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

func (s *State) GetNonce(address common.Address) (uint64, error) {
	account, err := s.GetAccount(address)
	if err != nil {
		return 0, err
	}
	return account.Nonce, nil
}

func (s *State) Apply(address common.Address, account common.Account) error {
	if err := s.proof.SetAccount(s.proof.Locate(address), account); err != nil {
		return translateError(address, err)
	}
	return nil
}

func (s *State) GetHash() common.Hash {
	return s.proof.GetHash()
}

func (s *State) CreateSnapshot() state.Snapshot {
	return &snapshot{proof: s.proof.Copy()}
}

func (s *State) Restore(snap state.Snapshot) error {
	data, ok := snap.(*snapshot)
	if !ok {
		return fmt.Errorf("%w: got %T", state.ErrIncompatibleSnapshot, snap)
	}
	s.proof.restore(data.proof)
	return nil
}

func translateError(address common.Address, err error) error {
	if errors.Is(err, state.ErrUnknownAddress) {
		return state.UnknownAddressError{Address: address}
	}
	return err
}

type snapshot struct {
	proof *Multiproof
}

func (s *snapshot) GetHash() common.Hash {
	return s.proof.GetHash()
}
