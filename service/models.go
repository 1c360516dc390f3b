// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package service

import (
	"github.com/Fantom-foundation/Multiproof/go/database/multiproof/io"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type RootsResponse struct {
	Roots  []string `json:"roots"`
	Latest string   `json:"latest,omitempty"`
}

type RootResponse struct {
	Root string `json:"root"`
}

type AccountResponse struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
	Nonce   uint64 `json:"nonce"`
}

type ExtractRequest struct {
	Addresses []string `json:"addresses" binding:"required"`
}

type ExtractResponse struct {
	Complete bool           `json:"complete"`
	Witness  io.WitnessFile `json:"witness"`
}

type TransferRequest struct {
	From      string        `json:"from" binding:"required"`
	To        string        `json:"to" binding:"required"`
	Nonce     uint64        `json:"nonce"`
	Amount    uint64        `json:"amount"`
	Signature hexutil.Bytes `json:"signature,omitempty"`
}

type TransactionsRequest struct {
	// Root selects the witness the transfers are applied to, the latest
	// archived witness if empty.
	Root      string            `json:"root"`
	Transfers []TransferRequest `json:"transfers" binding:"required"`
}

type TransactionsResponse struct {
	PreviousRoot string `json:"previous_root"`
	Root         string `json:"root"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	// Index identifies the rejected transaction, if any.
	Index *int `json:"index,omitempty"`
}
