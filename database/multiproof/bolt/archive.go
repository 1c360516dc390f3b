// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package bolt provides a multiproof archive stored in a single bbolt file.
package bolt

import (
	"bytes"
	"fmt"
	"unsafe"

	"github.com/Fantom-foundation/Multiproof/go/common"
	"github.com/Fantom-foundation/Multiproof/go/database/multiproof"
	"github.com/Fantom-foundation/Multiproof/go/database/multiproof/io"
	"github.com/ethereum/go-ethereum/log"
	"go.etcd.io/bbolt"
)

var (
	witnessBucket = []byte("witnesses")
	metaBucket    = []byte("meta")
	latestKey     = []byte("latest")
)

var _ multiproof.Archive = (*Archive)(nil)

// Archive is a multiproof.Archive retaining witnesses in a bbolt database,
// using one bucket for encoded witnesses keyed by their root hash and one for
// meta information.
type Archive struct {
	db *bbolt.DB
}

// Open opens the archive stored in the given file, creating a new archive if
// the file does not exist.
func Open(path string) (*Archive, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %v: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{witnessBucket, metaBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Archive{db: db}, nil
}

func (a *Archive) Add(proof *multiproof.Multiproof) error {
	if err := proof.CheckErrors(); err != nil {
		return err
	}
	var buffer bytes.Buffer
	if err := io.Write(&buffer, proof); err != nil {
		return err
	}
	root := proof.GetHash()
	err := a.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(witnessBucket).Put(root[:], buffer.Bytes()); err != nil {
			return err
		}
		return tx.Bucket(metaBucket).Put(latestKey, root[:])
	})
	if err != nil {
		return err
	}
	log.Debug("Archived witness", "root", root, "size", buffer.Len())
	return nil
}

func (a *Archive) Get(root common.Hash) (*multiproof.Multiproof, error) {
	var data []byte
	err := a.db.View(func(tx *bbolt.Tx) error {
		value := tx.Bucket(witnessBucket).Get(root[:])
		if value == nil {
			return fmt.Errorf("%w: %v", multiproof.ErrWitnessNotFound, root)
		}
		// Values are only valid within the transaction.
		data = bytes.Clone(value)
		return nil
	})
	if err != nil {
		return nil, err
	}
	proof, err := io.Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode witness %v: %w", root, err)
	}
	if got := proof.GetHash(); got != root {
		return nil, fmt.Errorf("%w: archived witness %v has root %v", multiproof.ErrInconsistentProof, root, got)
	}
	return proof, nil
}

func (a *Archive) Has(root common.Hash) (bool, error) {
	found := false
	err := a.db.View(func(tx *bbolt.Tx) error {
		found = tx.Bucket(witnessBucket).Get(root[:]) != nil
		return nil
	})
	return found, err
}

func (a *Archive) Latest() (common.Hash, bool, error) {
	var res common.Hash
	found := false
	err := a.db.View(func(tx *bbolt.Tx) error {
		value := tx.Bucket(metaBucket).Get(latestKey)
		if value == nil {
			return nil
		}
		if len(value) != common.HashSize {
			return fmt.Errorf("invalid latest root record of size %d", len(value))
		}
		res, found = common.Hash(value), true
		return nil
	})
	return res, found, err
}

func (a *Archive) Roots() ([]common.Hash, error) {
	res := []common.Hash{}
	err := a.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(witnessBucket).ForEach(func(key, _ []byte) error {
			if len(key) == common.HashSize {
				res = append(res, common.Hash(key))
			}
			return nil
		})
	})
	return res, err
}

func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) GetMemoryFootprint() *common.MemoryFootprint {
	mf := common.NewMemoryFootprint(unsafe.Sizeof(*a))
	stats := a.db.Stats()
	mf.AddChild("freePages", common.NewMemoryFootprint(uintptr(stats.FreeAlloc)))
	return mf
}
