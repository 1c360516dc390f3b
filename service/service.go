// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package service exposes a multiproof archive through an HTTP interface.
// Nodes obtain witnesses for the accounts they are interested in and submit
// transfers to be applied on archived witnesses.
package service

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Fantom-foundation/Multiproof/go/common"
	"github.com/Fantom-foundation/Multiproof/go/database/multiproof"
	"github.com/Fantom-foundation/Multiproof/go/database/multiproof/io"
	"github.com/Fantom-foundation/Multiproof/go/processor"
	"github.com/Fantom-foundation/Multiproof/go/state"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/gin-gonic/gin"
)

// latestRoot may be used instead of a root hash to refer to the most recently
// archived witness.
const latestRoot = "latest"

type Service struct {
	archive   multiproof.Archive
	processor *processor.Processor
	// mutex serializes updates of the archive to keep its latest witness
	// consistent with the order in which transactions were accepted.
	mutex sync.Mutex
}

func NewService(archive multiproof.Archive, processor *processor.Processor) *Service {
	return &Service{archive: archive, processor: processor}
}

// Handler creates the HTTP handler serving the routes of this service.
func (s *Service) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/health", s.health)
	router.GET("/roots", s.getRoots)
	router.GET("/witness/:root", s.getWitness)
	router.GET("/witness/:root/accounts/:address", s.getAccount)
	router.POST("/witness", s.storeWitness)
	router.POST("/witness/:root/extract", s.extract)
	router.POST("/transactions", s.applyTransactions)
	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("Handled request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}

func (s *Service) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Service) getRoots(c *gin.Context) {
	roots, err := s.archive.Roots()
	if err != nil {
		failure(c, http.StatusInternalServerError, err)
		return
	}
	res := RootsResponse{Roots: make([]string, 0, len(roots))}
	for _, root := range roots {
		res.Roots = append(res.Roots, root.String())
	}
	latest, found, err := s.archive.Latest()
	if err != nil {
		failure(c, http.StatusInternalServerError, err)
		return
	}
	if found {
		res.Latest = latest.String()
	}
	c.JSON(http.StatusOK, res)
}

func (s *Service) getWitness(c *gin.Context) {
	proof, ok := s.loadWitness(c, c.Param("root"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, io.Export(proof))
}

func (s *Service) getAccount(c *gin.Context) {
	address, err := common.ParseAddress(c.Param("address"))
	if err != nil {
		failure(c, http.StatusBadRequest, err)
		return
	}
	proof, ok := s.loadWitness(c, c.Param("root"))
	if !ok {
		return
	}
	account, err := multiproof.NewState(proof).GetAccount(address)
	if errors.Is(err, state.ErrUnknownAddress) {
		failure(c, http.StatusNotFound, err)
		return
	} else if err != nil {
		failure(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, AccountResponse{
		Address: address.String(),
		Balance: account.Balance,
		Nonce:   account.Nonce,
	})
}

func (s *Service) storeWitness(c *gin.Context) {
	var file io.WitnessFile
	if err := c.ShouldBindJSON(&file); err != nil {
		failure(c, http.StatusBadRequest, err)
		return
	}
	proof, err := io.Import(file)
	if err != nil {
		failure(c, http.StatusBadRequest, err)
		return
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err := s.archive.Add(proof); err != nil {
		failure(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusCreated, RootResponse{Root: proof.GetHash().String()})
}

func (s *Service) extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, err)
		return
	}
	addresses := make([]common.Address, 0, len(req.Addresses))
	for _, str := range req.Addresses {
		address, err := common.ParseAddress(str)
		if err != nil {
			failure(c, http.StatusBadRequest, err)
			return
		}
		addresses = append(addresses, address)
	}
	proof, ok := s.loadWitness(c, c.Param("root"))
	if !ok {
		return
	}
	extracted, complete := proof.Extract(addresses...)
	if extracted == nil {
		failure(c, http.StatusInternalServerError, proof.CheckErrors())
		return
	}
	c.JSON(http.StatusOK, ExtractResponse{
		Complete: complete,
		Witness:  io.Export(extracted),
	})
}

func (s *Service) applyTransactions(c *gin.Context) {
	var req TransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, err)
		return
	}
	transactions := make([]processor.Transaction, 0, len(req.Transfers))
	for i, cur := range req.Transfers {
		transfer, err := parseTransfer(&cur)
		if err != nil {
			failure(c, http.StatusBadRequest, fmt.Errorf("invalid transfer %d: %w", i, err))
			return
		}
		transactions = append(transactions, transfer)
	}

	root := req.Root
	if root == "" {
		root = latestRoot
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	proof, ok := s.loadWitness(c, root)
	if !ok {
		return
	}
	previous := proof.GetHash()
	witness := multiproof.NewState(proof)
	if err := s.processor.ApplyTransactionsAtomically(witness, transactions); err != nil {
		var txErr *processor.TransactionError
		if errors.As(err, &txErr) {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Index: &txErr.Index})
			return
		}
		failure(c, http.StatusInternalServerError, err)
		return
	}
	if err := s.archive.Add(witness.GetProof()); err != nil {
		failure(c, http.StatusInternalServerError, err)
		return
	}
	log.Info("Applied transactions", "count", len(transactions), "from", previous, "to", witness.GetHash())
	c.JSON(http.StatusOK, TransactionsResponse{
		PreviousRoot: previous.String(),
		Root:         witness.GetHash().String(),
	})
}

// loadWitness fetches the witness referenced by the given root parameter. If
// this fails, the error response is written and false is returned.
func (s *Service) loadWitness(c *gin.Context, param string) (*multiproof.Multiproof, bool) {
	var root common.Hash
	if param == latestRoot {
		latest, found, err := s.archive.Latest()
		if err != nil {
			failure(c, http.StatusInternalServerError, err)
			return nil, false
		}
		if !found {
			failure(c, http.StatusNotFound, multiproof.ErrWitnessNotFound)
			return nil, false
		}
		root = latest
	} else {
		data, err := hexutil.Decode(param)
		if err != nil || len(data) != common.HashSize {
			failure(c, http.StatusBadRequest, fmt.Errorf("invalid root hash %q", param))
			return nil, false
		}
		root = common.Hash(data)
	}

	proof, err := s.archive.Get(root)
	if errors.Is(err, multiproof.ErrWitnessNotFound) {
		failure(c, http.StatusNotFound, err)
		return nil, false
	} else if err != nil {
		failure(c, http.StatusInternalServerError, err)
		return nil, false
	}
	return proof, true
}

func parseTransfer(req *TransferRequest) (processor.Transfer, error) {
	from, err := common.ParseAddress(req.From)
	if err != nil {
		return processor.Transfer{}, err
	}
	to, err := common.ParseAddress(req.To)
	if err != nil {
		return processor.Transfer{}, err
	}
	res := processor.Transfer{
		From:   from,
		To:     to,
		Nonce:  req.Nonce,
		Amount: req.Amount,
	}
	if len(req.Signature) != 0 {
		if len(req.Signature) != processor.SignatureSize {
			return processor.Transfer{}, fmt.Errorf("invalid signature length: %d", len(req.Signature))
		}
		res.Signature = processor.Signature(req.Signature)
	}
	return res, nil
}

func failure(c *gin.Context, status int, err error) {
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
