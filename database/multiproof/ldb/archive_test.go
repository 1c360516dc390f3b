// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ldb

import (
	"bytes"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/Fantom-foundation/Multiproof/go/common"
	"github.com/Fantom-foundation/Multiproof/go/database/multiproof"
	"golang.org/x/exp/slices"
)

func openArchive(t *testing.T, directory string) *Archive {
	t.Helper()
	archive, err := Open(directory)
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	return archive
}

func newTestState(t *testing.T) *multiproof.State {
	t.Helper()
	generator, err := multiproof.NewGenerator(multiproof.TestConfig)
	if err != nil {
		t.Fatalf("failed to create generator: %v", err)
	}
	a, b := common.AddressFromNumber(1), common.AddressFromNumber(2)
	generator.Set(a, common.Account{Balance: 100})
	generator.Set(b, common.Account{Balance: 50})
	generator.Set(common.AddressFromNumber(3), common.Account{Balance: 10})
	proof, err := generator.Witness(a, b)
	if err != nil {
		t.Fatalf("failed to create witness: %v", err)
	}
	return multiproof.NewState(proof)
}

func TestArchive_EmptyArchiveContainsNoWitnesses(t *testing.T) {
	archive := openArchive(t, t.TempDir())
	defer archive.Close()

	roots, err := archive.Roots()
	if err != nil || len(roots) != 0 {
		t.Errorf("empty archive should contain no roots, got %v, err %v", roots, err)
	}
	if _, found, err := archive.Latest(); found || err != nil {
		t.Errorf("empty archive should have no latest root, got %t, err %v", found, err)
	}
	if _, err := archive.Get(common.Hash{1}); !errors.Is(err, multiproof.ErrWitnessNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
	if found, err := archive.Has(common.Hash{1}); found || err != nil {
		t.Errorf("empty archive should not contain any root, got %t, err %v", found, err)
	}
}

func TestArchive_AddedWitnessesCanBeRetrieved(t *testing.T) {
	archive := openArchive(t, t.TempDir())
	defer archive.Close()

	state := newTestState(t)
	first := state.GetProof().Copy()
	if err := state.Apply(common.AddressFromNumber(1), common.Account{Balance: 90, Nonce: 1}); err != nil {
		t.Fatalf("failed to update state: %v", err)
	}
	second := state.GetProof().Copy()

	for _, proof := range []*multiproof.Multiproof{first, second} {
		if err := archive.Add(proof); err != nil {
			t.Fatalf("failed to add witness: %v", err)
		}
	}

	for _, proof := range []*multiproof.Multiproof{first, second} {
		root := proof.GetHash()
		if found, err := archive.Has(root); !found || err != nil {
			t.Errorf("archive should contain %v, got %t, err %v", root, found, err)
		}
		restored, err := archive.Get(root)
		if err != nil {
			t.Fatalf("failed to get witness %v: %v", root, err)
		}
		if !proof.Equals(restored) {
			t.Errorf("restored witness differs, wanted %v, got %v", proof, restored)
		}
	}

	roots, err := archive.Roots()
	if err != nil {
		t.Fatalf("failed to list roots: %v", err)
	}
	want := []common.Hash{first.GetHash(), second.GetHash()}
	sort.Slice(want, func(i, j int) bool { return bytes.Compare(want[i][:], want[j][:]) < 0 })
	if !slices.Equal(roots, want) {
		t.Errorf("unexpected roots, wanted %v, got %v", want, roots)
	}

	latest, found, err := archive.Latest()
	if err != nil || !found || latest != second.GetHash() {
		t.Errorf("unexpected latest root, wanted %v, got %v, %t, err %v", second.GetHash(), latest, found, err)
	}
}

func TestArchive_ContentIsPersistent(t *testing.T) {
	directory := t.TempDir()
	proof := newTestState(t).GetProof()

	archive := openArchive(t, directory)
	if err := archive.Add(proof); err != nil {
		t.Fatalf("failed to add witness: %v", err)
	}
	if err := archive.Close(); err != nil {
		t.Fatalf("failed to close archive: %v", err)
	}

	archive = openArchive(t, directory)
	defer archive.Close()
	restored, err := archive.Get(proof.GetHash())
	if err != nil {
		t.Fatalf("failed to get witness: %v", err)
	}
	if !proof.Equals(restored) {
		t.Errorf("restored witness differs")
	}
}

func TestArchive_WitnessOfUnknownContentCanBeAdded(t *testing.T) {
	archive := openArchive(t, t.TempDir())
	defer archive.Close()

	generator, err := multiproof.NewGenerator(multiproof.TestConfig)
	if err != nil {
		t.Fatalf("failed to create generator: %v", err)
	}
	proof, err := generator.Witness()
	if err != nil {
		t.Fatalf("failed to create witness: %v", err)
	}
	if err := archive.Add(proof); err != nil {
		t.Fatalf("failed to add witness: %v", err)
	}
	restored, err := archive.Get(proof.GetHash())
	if err != nil || restored.GetHash() != generator.GetHash() {
		t.Errorf("failed to restore witness without accounts, got %v, err %v", restored, err)
	}
}

func TestArchive_OpenArchivesAreLocked(t *testing.T) {
	directory := t.TempDir()
	archive := openArchive(t, directory)
	defer archive.Close()

	// LevelDB locks the directory while it is open.
	if _, err := Open(directory); err == nil {
		t.Errorf("opening a locked archive should fail")
	}
}

func TestArchive_ReportsMemoryFootprint(t *testing.T) {
	archive := openArchive(t, t.TempDir())
	defer archive.Close()
	footprint := archive.GetMemoryFootprint().String()
	for _, want := range []string{"writeBuffer", "cache (0 witnesses)"} {
		if !strings.Contains(footprint, want) {
			t.Errorf("footprint should cover %v, got %v", want, footprint)
		}
	}
}

func TestArchive_RetrievedWitnessesAreIndependent(t *testing.T) {
	archive := openArchive(t, t.TempDir())
	defer archive.Close()

	state := newTestState(t)
	root := state.GetHash()
	if err := archive.Add(state.GetProof()); err != nil {
		t.Fatalf("failed to add witness: %v", err)
	}

	// Modifying the added witness or a retrieved one must not affect the archive.
	if err := state.Apply(common.AddressFromNumber(1), common.Account{Balance: 1}); err != nil {
		t.Fatalf("failed to update state: %v", err)
	}
	first, err := archive.Get(root)
	if err != nil {
		t.Fatalf("failed to get witness: %v", err)
	}
	if err := multiproof.NewState(first).Apply(common.AddressFromNumber(2), common.Account{Balance: 1}); err != nil {
		t.Fatalf("failed to update retrieved witness: %v", err)
	}
	second, err := archive.Get(root)
	if err != nil {
		t.Fatalf("failed to get witness: %v", err)
	}
	if got := second.GetHash(); got != root {
		t.Errorf("archived witness was modified, wanted root %v, got %v", root, got)
	}
}

func TestArchive_WitnessesAreRestoredBeyondCacheCapacity(t *testing.T) {
	archive, err := OpenWithCacheSize(t.TempDir(), 1)
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	defer archive.Close()

	state := newTestState(t)
	proofs := []*multiproof.Multiproof{}
	for i := 0; i < 3; i++ {
		if err := state.Apply(common.AddressFromNumber(1), common.Account{Balance: uint64(i)}); err != nil {
			t.Fatalf("failed to update state: %v", err)
		}
		proof := state.GetProof().Copy()
		if err := archive.Add(proof); err != nil {
			t.Fatalf("failed to add witness: %v", err)
		}
		proofs = append(proofs, proof)
	}
	for _, proof := range proofs {
		restored, err := archive.Get(proof.GetHash())
		if err != nil {
			t.Fatalf("failed to get witness: %v", err)
		}
		if !proof.Equals(restored) {
			t.Errorf("restored witness differs")
		}
	}
}

func TestArchive_InvalidCacheSizeIsRejected(t *testing.T) {
	if _, err := OpenWithCacheSize(t.TempDir(), 0); err == nil {
		t.Errorf("opening an archive without cache should fail")
	}
}
