// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Fantom-foundation/Multiproof/go/common"
	"github.com/Fantom-foundation/Multiproof/go/database/multiproof/io"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"witness"}, args...))
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("failed to run %v: %v", args, err)
	}
	return out
}

func createGenesis(t *testing.T, dir string, extra ...string) string {
	t.Helper()
	witness := filepath.Join(dir, "witness.json")
	args := []string{"genesis", "--out", witness, "--depth", "8", "--account", "0x01:100", "--account", "0x02:10"}
	mustRun(t, append(args, extra...)...)
	return witness
}

func TestCli_GenesisCreatesWitnessOfAccounts(t *testing.T) {
	witness := createGenesis(t, t.TempDir())

	out := mustRun(t, "balance", "--witness", witness, "0x01")
	if !strings.Contains(out, "Balance: 100") || !strings.Contains(out, "Nonce:   0") {
		t.Errorf("unexpected balance output: %v", out)
	}

	out = mustRun(t, "accounts", "--witness", witness)
	want := common.AddressFromNumber(1).String() + "\n" + common.AddressFromNumber(2).String() + "\n"
	if out != want {
		t.Errorf("unexpected accounts, wanted %v, got %v", want, out)
	}
}

func TestCli_GenesisCanCoverSubsetOfAccounts(t *testing.T) {
	witness := createGenesis(t, t.TempDir(), "--cover", "0x02")

	out := mustRun(t, "accounts", "--witness", witness)
	if want := common.AddressFromNumber(2).String() + "\n"; out != want {
		t.Errorf("unexpected accounts, wanted %v, got %v", want, out)
	}
	if _, err := run(t, "balance", "--witness", witness, "0x01"); err == nil || !strings.Contains(err.Error(), "unknown address") {
		t.Errorf("balance of uncovered account should fail, got %v", err)
	}
}

func TestCli_TransferUpdatesWitness(t *testing.T) {
	witness := createGenesis(t, t.TempDir())
	before, err := io.ReadFile(witness)
	if err != nil {
		t.Fatalf("failed to read witness: %v", err)
	}

	mustRun(t, "transfer", "--witness", witness, "--from", "0x01", "--to", "0x02", "--amount", "30")

	out := mustRun(t, "balance", "--witness", witness, "0x01")
	if !strings.Contains(out, "Balance: 70") || !strings.Contains(out, "Nonce:   1") {
		t.Errorf("unexpected sender: %v", out)
	}
	out = mustRun(t, "balance", "--witness", witness, "0x02")
	if !strings.Contains(out, "Balance: 40") {
		t.Errorf("unexpected receiver: %v", out)
	}

	after, err := io.ReadFile(witness)
	if err != nil {
		t.Fatalf("failed to read witness: %v", err)
	}
	if before.GetHash() == after.GetHash() {
		t.Errorf("transfer should change the root")
	}
}

func TestCli_FailedTransferKeepsWitness(t *testing.T) {
	witness := createGenesis(t, t.TempDir())

	_, err := run(t, "transfer", "--witness", witness, "--from", "0x02", "--to", "0x01", "--amount", "50")
	if err == nil || !strings.Contains(err.Error(), "insufficient balance") {
		t.Errorf("expected insufficient balance, got %v", err)
	}
	_, err = run(t, "transfer", "--witness", witness, "--from", "0x01", "--to", "0x03", "--amount", "5")
	if err == nil || !strings.Contains(err.Error(), "unknown address") {
		t.Errorf("expected unknown address, got %v", err)
	}

	out := mustRun(t, "balance", "--witness", witness, "0x01")
	if !strings.Contains(out, "Balance: 100") || !strings.Contains(out, "Nonce:   0") {
		t.Errorf("failed transfers should not modify the witness: %v", out)
	}
}

func TestCli_InfoAndVerifyDescribeWitness(t *testing.T) {
	witness := createGenesis(t, t.TempDir())

	out := mustRun(t, "info", "--witness", witness, "--footprint")
	for _, want := range []string{"Depth:         8", "Accounts:      2", "Memory Footprint"} {
		if !strings.Contains(out, want) {
			t.Errorf("info should contain %q, got %v", want, out)
		}
	}
	if out := mustRun(t, "verify", "--witness", witness); !strings.Contains(out, "consistent") {
		t.Errorf("unexpected verification output: %v", out)
	}
}

func TestCli_ArchivedWitnessesCanBeRestored(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "archive")
	witness := createGenesis(t, dir, "--archive", archive)
	genesis, err := io.ReadFile(witness)
	if err != nil {
		t.Fatalf("failed to read witness: %v", err)
	}
	mustRun(t, "transfer", "--witness", witness, "--from", "0x01", "--to", "0x02", "--amount", "1", "--archive", archive)
	latest, err := io.ReadFile(witness)
	if err != nil {
		t.Fatalf("failed to read witness: %v", err)
	}

	out := mustRun(t, "restore", "--archive", archive, "--list")
	for _, root := range []common.Hash{genesis.GetHash(), latest.GetHash()} {
		if !strings.Contains(out, root.String()) {
			t.Errorf("archive should list %v, got %v", root, out)
		}
	}

	restored := filepath.Join(dir, "restored.json")
	mustRun(t, "restore", "--archive", archive, "--root", genesis.GetHash().String(), "--out", restored)
	proof, err := io.ReadFile(restored)
	if err != nil {
		t.Fatalf("failed to read restored witness: %v", err)
	}
	if !proof.Equals(genesis) {
		t.Errorf("restored witness differs from genesis")
	}

	mustRun(t, "restore", "--archive", archive, "--out", restored)
	proof, err = io.ReadFile(restored)
	if err != nil {
		t.Fatalf("failed to read restored witness: %v", err)
	}
	if !proof.Equals(latest) {
		t.Errorf("restored witness differs from latest witness")
	}
}

func TestCli_WitnessesCanBeArchivedInBolt(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "archive.db")
	witness := createGenesis(t, dir, "--archive", archive, "--archive-type", "bolt")
	mustRun(t, "transfer", "--witness", witness, "--from", "0x01", "--to", "0x02", "--amount", "5", "--archive", archive, "--archive-type", "bolt")
	latest, err := io.ReadFile(witness)
	if err != nil {
		t.Fatalf("failed to read witness: %v", err)
	}

	restored := filepath.Join(dir, "restored.json")
	mustRun(t, "restore", "--archive", archive, "--archive-type", "bolt", "--out", restored)
	proof, err := io.ReadFile(restored)
	if err != nil {
		t.Fatalf("failed to read restored witness: %v", err)
	}
	if !proof.Equals(latest) {
		t.Errorf("restored witness differs from latest witness")
	}
}

func TestCli_InvalidArgumentsAreRejected(t *testing.T) {
	dir := t.TempDir()
	witness := createGenesis(t, dir)
	tests := map[string][]string{
		"missing witness":   {"balance", "0x01"},
		"missing address":   {"balance", "--witness", witness},
		"invalid address":   {"balance", "--witness", witness, "0xzz"},
		"unknown file":      {"info", "--witness", filepath.Join(dir, "missing.json")},
		"invalid account":   {"genesis", "--out", filepath.Join(dir, "x.json"), "--account", "0x01"},
		"invalid balance":   {"genesis", "--out", filepath.Join(dir, "x.json"), "--account", "0x01:abc"},
		"invalid depth":     {"genesis", "--out", filepath.Join(dir, "x.json"), "--depth", "0"},
		"too deep":          {"genesis", "--out", filepath.Join(dir, "x.json"), "--depth", "257"},
		"invalid root":      {"restore", "--archive", filepath.Join(dir, "archive"), "--root", "0x12", "--out", filepath.Join(dir, "y.json")},
		"empty archive":     {"restore", "--archive", filepath.Join(dir, "empty"), "--out", filepath.Join(dir, "y.json")},
		"missing out":       {"restore", "--archive", filepath.Join(dir, "other")},
		"missing recipient": {"transfer", "--witness", witness, "--from", "0x01", "--amount", "1"},
		"unknown archive":   {"restore", "--archive", filepath.Join(dir, "x"), "--archive-type", "sqlite", "--out", filepath.Join(dir, "y.json")},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := run(t, args...); err == nil {
				t.Errorf("running %v should fail", args)
			}
		})
	}
}
