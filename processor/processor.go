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
	"math"

	"github.com/Fantom-foundation/Multiproof/go/state"
	"github.com/ethereum/go-ethereum/log"
)

// Processor applies transactions to a state.
//
// Batches are processed strictly in order. Processing stops at the first
// failing transaction; the effects of all transactions before it are
// retained. Callers requiring all-or-nothing semantics may use
// ApplyTransactionsAtomically.
type Processor struct {
	verifier SignatureVerifier
	logger   log.Logger
}

// Option customizes a Processor.
type Option func(*Processor)

// WithSignatureVerifier makes the processor reject transactions whose
// signature is not accepted by the given verifier. Without a verifier,
// signatures are assumed to be checked by the caller.
func WithSignatureVerifier(verifier SignatureVerifier) Option {
	return func(p *Processor) {
		p.verifier = verifier
	}
}

func NewProcessor(options ...Option) *Processor {
	p := &Processor{logger: log.New("module", "processor")}
	for _, option := range options {
		option(p)
	}
	return p
}

// ApplyTransactions applies the given transactions using a processor without
// signature verification.
func ApplyTransactions(s state.State, transactions []Transaction) error {
	return NewProcessor().ApplyTransactions(s, transactions)
}

// ApplyTransactions applies the given transactions in order. If a transaction
// fails, processing stops and a *TransactionError identifying the failed
// transaction is returned. Transactions before the failing one remain applied.
func (p *Processor) ApplyTransactions(s state.State, transactions []Transaction) error {
	for i, tx := range transactions {
		if err := p.Apply(s, tx); err != nil {
			p.logger.Debug("Transaction failed", "index", i, "tx", tx, "err", err)
			return &TransactionError{Index: i, Transaction: tx, Err: err}
		}
	}
	p.logger.Debug("Applied transactions", "count", len(transactions), "root", s.GetHash())
	return nil
}

// ApplyTransactionsAtomically applies the given transactions in order. If any
// transaction fails, the state is restored to its content before the batch.
func (p *Processor) ApplyTransactionsAtomically(s state.State, transactions []Transaction) error {
	snapshot := s.CreateSnapshot()
	err := p.ApplyTransactions(s, transactions)
	if err == nil {
		return nil
	}
	if restoreErr := s.Restore(snapshot); restoreErr != nil {
		return errors.Join(err, fmt.Errorf("failed to restore state: %w", restoreErr))
	}
	p.logger.Debug("Reverted transactions", "count", len(transactions), "root", s.GetHash())
	return err
}

// Apply applies a single transaction. A rejected transaction does not modify
// the state.
func (p *Processor) Apply(s state.State, tx Transaction) error {
	switch tx := tx.(type) {
	case Transfer:
		return p.applyTransfer(s, &tx)
	case *Transfer:
		return p.applyTransfer(s, tx)
	}
	return fmt.Errorf("%w: %T", ErrUnsupportedTransaction, tx)
}

func (p *Processor) applyTransfer(s state.State, tx *Transfer) error {
	sender, err := s.GetAccount(tx.From)
	if err != nil {
		return err
	}
	if p.verifier != nil && !p.verifier.Verify(tx.SigningHash(), tx.Signature, sender.PubKey) {
		return ErrInvalidSignature
	}
	if sender.Nonce != tx.Nonce {
		return InvalidNonceError{Expected: sender.Nonce, Got: tx.Nonce}
	}
	if sender.Balance < tx.Amount {
		return InsufficientBalanceError{Have: sender.Balance, Need: tx.Amount}
	}

	// The receiver is never created implicitly, it has to be covered by the state.
	receiver, err := s.GetAccount(tx.To)
	if err != nil {
		return err
	}
	if tx.From != tx.To && receiver.Balance > math.MaxUint64-tx.Amount {
		return fmt.Errorf("%w: receiver %v holds %d, receiving %d", ErrBalanceOverflow, tx.To, receiver.Balance, tx.Amount)
	}

	sender.Balance -= tx.Amount
	sender.Nonce++
	if err := s.Apply(tx.From, sender); err != nil {
		return err
	}

	// The receiver is re-read since it may share its record with the sender.
	receiver, err = s.GetAccount(tx.To)
	if err != nil {
		return err
	}
	receiver.Balance += tx.Amount
	if err := s.Apply(tx.To, receiver); err != nil {
		return err
	}
	p.logger.Trace("Applied transfer", "tx", tx, "root", s.GetHash())
	return nil
}
