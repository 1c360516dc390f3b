// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package ldb provides a LevelDB backed archive of multiproofs.
package ldb

import (
	"bytes"
	"errors"
	"fmt"
	"unsafe"

	"github.com/Fantom-foundation/Multiproof/go/common"
	"github.com/Fantom-foundation/Multiproof/go/database/multiproof"
	"github.com/Fantom-foundation/Multiproof/go/database/multiproof/io"
	"github.com/ethereum/go-ethereum/common/lru"
	"github.com/ethereum/go-ethereum/log"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	// witnessTable prefixes keys of archived witnesses, followed by their root hash.
	witnessTable = byte('W')
)

var _ multiproof.Archive = (*Archive)(nil)

// DefaultCacheSize is the number of decoded witnesses retained in memory.
const DefaultCacheSize = 16

// latestKey refers to the root hash of the most recently added witness.
var latestKey = []byte{'L'}

// Archive is a multiproof.Archive retaining witnesses in a LevelDB instance.
// Recently used witnesses are kept decoded in memory. It is safe for
// concurrent use.
type Archive struct {
	db      *leveldb.DB
	options *opt.Options
	cache   *lru.Cache[common.Hash, *multiproof.Multiproof]
}

// Open opens the archive stored in the given directory, creating a new one if
// the directory does not contain an archive.
func Open(directory string) (*Archive, error) {
	return OpenWithCacheSize(directory, DefaultCacheSize)
}

// OpenWithCacheSize is like Open but retains up to cacheSize decoded
// witnesses in memory.
func OpenWithCacheSize(directory string, cacheSize int) (*Archive, error) {
	if cacheSize <= 0 {
		return nil, fmt.Errorf("invalid cache size: %d", cacheSize)
	}
	options := &opt.Options{}
	db, err := leveldb.OpenFile(directory, options)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive in %v: %w", directory, err)
	}
	return &Archive{
		db:      db,
		options: options,
		cache:   lru.NewCache[common.Hash, *multiproof.Multiproof](cacheSize),
	}, nil
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
	batch := new(leveldb.Batch)
	batch.Put(witnessKey(root), buffer.Bytes())
	batch.Put(latestKey, root[:])
	if err := a.db.Write(batch, nil); err != nil {
		return err
	}
	a.cache.Add(root, proof.Copy())
	log.Debug("Archived witness", "root", root, "size", buffer.Len())
	return nil
}

func (a *Archive) Get(root common.Hash) (*multiproof.Multiproof, error) {
	if proof, found := a.cache.Get(root); found {
		return proof.Copy(), nil
	}
	data, err := a.db.Get(witnessKey(root), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", multiproof.ErrWitnessNotFound, root)
	}
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
	a.cache.Add(root, proof.Copy())
	return proof, nil
}

func (a *Archive) Has(root common.Hash) (bool, error) {
	return a.db.Has(witnessKey(root), nil)
}

func (a *Archive) Latest() (common.Hash, bool, error) {
	data, err := a.db.Get(latestKey, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return common.Hash{}, false, nil
	}
	if err != nil {
		return common.Hash{}, false, err
	}
	if len(data) != common.HashSize {
		return common.Hash{}, false, fmt.Errorf("invalid latest root record of size %d", len(data))
	}
	return common.Hash(data), true, nil
}

func (a *Archive) Roots() ([]common.Hash, error) {
	iter := a.db.NewIterator(util.BytesPrefix([]byte{witnessTable}), nil)
	defer iter.Release()

	res := []common.Hash{}
	for iter.Next() {
		key := iter.Key()
		if len(key) != 1+common.HashSize {
			continue
		}
		res = append(res, common.Hash(key[1:]))
	}
	return res, iter.Error()
}

func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) GetMemoryFootprint() *common.MemoryFootprint {
	mf := common.NewMemoryFootprint(unsafe.Sizeof(*a))
	cache := common.NewMemoryFootprint(0)
	for _, root := range a.cache.Keys() {
		if proof, found := a.cache.Peek(root); found {
			cache.AddChild(root.String(), proof.GetMemoryFootprint())
		}
	}
	cache.SetNote(fmt.Sprintf("%d witnesses", a.cache.Len()))
	mf.AddChild("cache", cache)
	mf.AddChild("writeBuffer", common.NewMemoryFootprint(uintptr(a.options.GetWriteBuffer())))
	var stats leveldb.DBStats
	if err := a.db.Stats(&stats); err == nil {
		mf.AddChild("blockCache", common.NewMemoryFootprint(uintptr(stats.BlockCacheSize)))
	}
	return mf
}

func witnessKey(root common.Hash) []byte {
	res := make([]byte, 0, 1+common.HashSize)
	res = append(res, witnessTable)
	return append(res, root[:]...)
}
