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
	"testing"

	"github.com/Fantom-foundation/Multiproof/go/common"
	"github.com/Fantom-foundation/Multiproof/go/state"
	"go.uber.org/mock/gomock"
)

func newTestState(t *testing.T, accounts map[common.Address]common.Account, covered ...common.Address) *State {
	t.Helper()
	generator := newGenerator(t, TestConfig, accounts)
	proof, err := generator.Witness(covered...)
	if err != nil {
		t.Fatalf("failed to create witness: %v", err)
	}
	return NewState(proof)
}

func TestState_ProvidesAccountInformation(t *testing.T) {
	address := common.AddressFromNumber(5)
	account := common.Account{Balance: 100, Nonce: 5, PubKey: common.PubKey{1}}
	s := newTestState(t, map[common.Address]common.Account{address: account}, address)

	got, err := s.GetAccount(address)
	if err != nil || got != account {
		t.Errorf("unexpected account, wanted %v, got %v, err %v", account, got, err)
	}
	balance, err := s.GetBalance(address)
	if err != nil || balance != 100 {
		t.Errorf("unexpected balance, wanted 100, got %d, err %v", balance, err)
	}
	nonce, err := s.GetNonce(address)
	if err != nil || nonce != 5 {
		t.Errorf("unexpected nonce, wanted 5, got %d, err %v", nonce, err)
	}
}

func TestState_UnknownAddressesAreReported(t *testing.T) {
	known := common.AddressFromNumber(5)
	unknown := common.AddressFromNumber(6)
	s := newTestState(t, map[common.Address]common.Account{
		known:   {Balance: 100},
		unknown: {Balance: 200},
	}, known)

	check := func(operation string, err error) {
		t.Helper()
		var target state.UnknownAddressError
		if !errors.As(err, &target) {
			t.Errorf("%s: expected unknown address error, got %v", operation, err)
			return
		}
		if target.Address != unknown {
			t.Errorf("%s: unexpected address in error, wanted %v, got %v", operation, unknown, target.Address)
		}
	}

	_, err := s.GetAccount(unknown)
	check("GetAccount", err)
	balance, err := s.GetBalance(unknown)
	check("GetBalance", err)
	if balance != 0 {
		t.Errorf("no balance should be reported for unknown addresses, got %d", balance)
	}
	_, err = s.GetNonce(unknown)
	check("GetNonce", err)
	before := s.GetHash()
	check("Apply", s.Apply(unknown, common.Account{Balance: 1}))
	if got := s.GetHash(); got != before {
		t.Errorf("failed update should not change the hash")
	}
}

func TestState_ApplyUpdatesAccountAndHash(t *testing.T) {
	address := common.AddressFromNumber(5)
	generator := newGenerator(t, TestConfig, map[common.Address]common.Account{address: {Balance: 100}})
	proof, err := generator.Witness(address)
	if err != nil {
		t.Fatalf("failed to create witness: %v", err)
	}
	s := NewState(proof)

	updated := common.Account{Balance: 50, Nonce: 1}
	if err := s.Apply(address, updated); err != nil {
		t.Fatalf("failed to apply update: %v", err)
	}
	generator.Set(address, updated)
	if got, want := s.GetHash(), generator.GetHash(); got != want {
		t.Errorf("unexpected hash, wanted %v, got %v", want, got)
	}
	if got, _ := s.GetAccount(address); got != updated {
		t.Errorf("unexpected account, wanted %v, got %v", updated, got)
	}
	if s.GetProof() != proof {
		t.Errorf("state should operate on the given proof")
	}
}

func TestState_SnapshotsCanBeRestored(t *testing.T) {
	address := common.AddressFromNumber(5)
	s := newTestState(t, map[common.Address]common.Account{address: {Balance: 100}}, address)
	proof := s.GetProof()

	snapshot := s.CreateSnapshot()
	if got, want := snapshot.GetHash(), s.GetHash(); got != want {
		t.Errorf("unexpected snapshot hash, wanted %v, got %v", want, got)
	}
	if err := s.Apply(address, common.Account{Balance: 1}); err != nil {
		t.Fatalf("failed to apply update: %v", err)
	}
	if s.GetHash() == snapshot.GetHash() {
		t.Errorf("snapshot should not be affected by updates")
	}
	if err := s.Restore(snapshot); err != nil {
		t.Fatalf("failed to restore snapshot: %v", err)
	}
	if got, want := s.GetHash(), snapshot.GetHash(); got != want {
		t.Errorf("unexpected hash after restore, wanted %v, got %v", want, got)
	}
	if balance, _ := proof.GetAccount(proof.Locate(address)); balance.Balance != 100 {
		t.Errorf("proof should be restored in place, got %v", balance)
	}

	// The snapshot may be restored repeatedly.
	if err := s.Apply(address, common.Account{Balance: 2}); err != nil {
		t.Fatalf("failed to apply update: %v", err)
	}
	if err := s.Restore(snapshot); err != nil {
		t.Fatalf("failed to restore snapshot: %v", err)
	}
	if got, _ := s.GetBalance(address); got != 100 {
		t.Errorf("unexpected balance after second restore, wanted 100, got %d", got)
	}
}

func TestState_ForeignSnapshotsAreRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	snapshot := state.NewMockSnapshot(ctrl)

	s := newTestState(t, nil)
	if err := s.Restore(snapshot); !errors.Is(err, state.ErrIncompatibleSnapshot) {
		t.Errorf("foreign snapshot should be rejected, got %v", err)
	}
}

func TestState_CorruptionIsReported(t *testing.T) {
	address := common.AddressFromNumber(5)
	s := newTestState(t, map[common.Address]common.Account{address: {Balance: 100}}, address)
	proof := s.GetProof()
	proof.nodes[proof.Locate(address)].account.Balance = 1
	if err := proof.Verify(); !errors.Is(err, ErrInconsistentProof) {
		t.Fatalf("corruption should be detected, got %v", err)
	}
	if _, err := s.GetBalance(address); !errors.Is(err, ErrInconsistentProof) {
		t.Errorf("corruption should be reported, got %v", err)
	}
}
