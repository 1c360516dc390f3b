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
	"fmt"
	"sort"
	"strings"
	"unsafe"

	"github.com/Fantom-foundation/Multiproof/go/common"
	"github.com/Fantom-foundation/Multiproof/go/state"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/exp/maps"
)

// Multiproof is a partial binary Merkle tree of accounts. It is a sparse map
// from tree positions to known nodes. For every known node except the root,
// its sibling is known as well, which makes the root hash recomputable
// from the known nodes alone.
//
// A Multiproof is not safe for concurrent use.
type Multiproof struct {
	config Config
	nodes  map[Position]*node
	err    error // set once the instance was found to be corrupted
}

// New constructs a multiproof for the tree with the given root hash from a
// list of witness entries. All inner nodes on the paths from the entries to
// the root are derived from the entries, which requires the sibling of each
// of those nodes to be covered. The construction fails if the witness is
// incomplete or if the derived root does not match the expected root.
func New(config Config, root common.Hash, entries []Entry) (*Multiproof, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	nodes := make(map[Position]*node, 2*len(entries))
	levels := make([][]Position, int(config.Depth)+1)
	for _, entry := range entries {
		pos := entry.Position
		if !pos.isValidIn(config) {
			return nil, fmt.Errorf("%w: position %v is not part of a tree of depth %d", ErrInvalidEntry, pos, config.Depth)
		}
		if _, exists := nodes[pos]; exists {
			return nil, fmt.Errorf("%w: duplicate entry for position %v", ErrInvalidEntry, pos)
		}
		if entry.Account != nil {
			if pos.depth != config.Depth {
				return nil, fmt.Errorf("%w: account at non-leaf position %v", ErrInvalidEntry, pos)
			}
			nodes[pos] = &node{kind: leafNode, account: *entry.Account, hash: hashLeaf(entry.Account)}
		} else {
			nodes[pos] = &node{kind: proofNode, hash: entry.Hash}
		}
		levels[pos.depth] = append(levels[pos.depth], pos)
	}

	// Derive inner nodes bottom-up, one level at a time.
	for depth := len(levels) - 1; depth > 0; depth-- {
		for _, pos := range levels[depth] {
			parentPos := pos.Parent()
			parent, exists := nodes[parentPos]
			if exists && parent.kind == innerNode {
				continue // already derived through the sibling
			}
			sibling, found := nodes[pos.Sibling()]
			if !found {
				return nil, fmt.Errorf("%w: no sibling for %v", ErrMissingSibling, pos)
			}
			hash := hashPair(pos, nodes[pos].hash, sibling.hash)
			if exists {
				// The witness contains the hash of an inner node redundantly.
				if parent.hash != hash {
					return nil, fmt.Errorf("%w: hash of %v is %v, derived %v", ErrInconsistentProof, parentPos, parent.hash, hash)
				}
				parent.kind = innerNode
				continue
			}
			nodes[parentPos] = &node{kind: innerNode, hash: hash}
			levels[depth-1] = append(levels[depth-1], parentPos)
		}
	}

	rootPos := RootPosition()
	if rootNode, found := nodes[rootPos]; !found {
		nodes[rootPos] = &node{kind: proofNode, hash: root}
	} else if rootNode.hash != root {
		return nil, fmt.Errorf("%w: expected root %v, derived %v", ErrInconsistentProof, root, rootNode.hash)
	}

	log.Debug("Created multiproof", "config", config.Name, "root", root, "entries", len(entries), "nodes", len(nodes))
	return &Multiproof{config: config, nodes: nodes}, nil
}

// GetConfig provides the configuration of the tree covered by this multiproof.
func (m *Multiproof) GetConfig() Config {
	return m.config
}

// Locate provides the position of the leaf of the given address in this tree.
func (m *Multiproof) Locate(address common.Address) Position {
	return Locate(m.config, address)
}

// GetHash provides the current root hash of the tree.
func (m *Multiproof) GetHash() common.Hash {
	return m.nodes[RootPosition()].hash
}

// Contains checks whether the account at the given leaf position is known.
func (m *Multiproof) Contains(pos Position) bool {
	n, found := m.nodes[pos]
	return found && n.kind == leafNode
}

// GetAccount provides the account stored at the given leaf position. If the
// leaf is not known, an error wrapping state.ErrUnknownAddress is returned.
func (m *Multiproof) GetAccount(pos Position) (common.Account, error) {
	if m.err != nil {
		return common.Account{}, m.err
	}
	n, err := m.getLeaf(pos)
	if err != nil {
		return common.Account{}, err
	}
	return n.account, nil
}

// SetAccount replaces the account stored at the given leaf position and
// updates the hashes of all nodes on the path to the root. If the leaf is not
// known, an error wrapping state.ErrUnknownAddress is returned and nothing
// is modified.
func (m *Multiproof) SetAccount(pos Position, account common.Account) error {
	if m.err != nil {
		return m.err
	}
	leaf, err := m.getLeaf(pos)
	if err != nil {
		return err
	}
	leaf.account = account
	leaf.hash = hashLeaf(&account)

	hash := leaf.hash
	for cur := pos; !cur.IsRoot(); cur = cur.Parent() {
		sibling, found := m.nodes[cur.Sibling()]
		if !found {
			return m.fail(fmt.Errorf("%w: no sibling for %v", ErrMissingSibling, cur))
		}
		hash = hashPair(cur, hash, sibling.hash)
		m.nodes[cur.Parent()].hash = hash
	}
	return nil
}

func (m *Multiproof) getLeaf(pos Position) (*node, error) {
	n, found := m.nodes[pos]
	if !found || n.kind != leafNode || pos.depth != m.config.Depth {
		return nil, fmt.Errorf("%w: leaf %v is not covered by the proof", state.ErrUnknownAddress, pos)
	}
	return n, nil
}

// Verify recomputes all hashes of this multiproof from the known accounts and
// proof hashes, ignoring any cached values, and compares them with the cached
// hashes. If any of those differ, the multiproof is corrupted; the error is
// retained and reported by all subsequent read and write operations.
func (m *Multiproof) Verify() error {
	if m.err != nil {
		return m.err
	}
	if _, err := m.recomputeHash(RootPosition()); err != nil {
		return m.fail(err)
	}
	return nil
}

func (m *Multiproof) recomputeHash(pos Position) (common.Hash, error) {
	n, found := m.nodes[pos]
	if !found {
		return common.Hash{}, fmt.Errorf("%w: missing node %v", ErrMissingSibling, pos)
	}
	var hash common.Hash
	switch n.kind {
	case proofNode:
		return n.hash, nil
	case leafNode:
		if pos.depth != m.config.Depth {
			return common.Hash{}, fmt.Errorf("%w: leaf at inner position %v", ErrInconsistentProof, pos)
		}
		hash = hashLeaf(&n.account)
	case innerNode:
		left, err := m.recomputeHash(pos.Child(0))
		if err != nil {
			return common.Hash{}, err
		}
		right, err := m.recomputeHash(pos.Child(1))
		if err != nil {
			return common.Hash{}, err
		}
		hash = hashInner(left, right)
	default:
		return common.Hash{}, fmt.Errorf("%w: unknown node kind %v at %v", ErrInconsistentProof, n.kind, pos)
	}
	if hash != n.hash {
		return common.Hash{}, fmt.Errorf("%w: cached hash of %v is %v, recomputed %v", ErrInconsistentProof, pos, n.hash, hash)
	}
	return hash, nil
}

// CheckErrors returns the error that marked this multiproof as corrupted, if any.
func (m *Multiproof) CheckErrors() error {
	return m.err
}

func (m *Multiproof) fail(err error) error {
	if m.err == nil {
		log.Warn("Multiproof is corrupted", "root", m.GetHash(), "err", err)
		m.err = err
	}
	return m.err
}

// Addresses lists the addresses of all known accounts in ascending order. For
// trees with less than the maximum depth, the smallest address located at
// each leaf is reported.
func (m *Multiproof) Addresses() []common.Address {
	res := make([]common.Address, 0)
	for _, pos := range m.sortedPositions() {
		if m.nodes[pos].kind == leafNode {
			res = append(res, pos.Address())
		}
	}
	return res
}

// Entries provides a minimal witness for this multiproof: all known accounts
// and the hashes of all nodes with unknown content. A multiproof constructed
// from those entries and the current root hash equals this multiproof.
func (m *Multiproof) Entries() []Entry {
	res := make([]Entry, 0)
	for _, pos := range m.sortedPositions() {
		switch n := m.nodes[pos]; n.kind {
		case leafNode:
			res = append(res, AccountEntry(pos, n.account))
		case proofNode:
			res = append(res, HashEntry(pos, n.hash))
		}
	}
	return res
}

// Extract creates a multiproof covering the subset of the given addresses
// also covered by this multiproof. The second result is true if all of the
// requested addresses could be covered.
func (m *Multiproof) Extract(addresses ...common.Address) (*Multiproof, bool) {
	if m.err != nil {
		return nil, false
	}
	complete := true
	leaves := make([]Position, 0, len(addresses))
	for _, address := range addresses {
		pos := m.Locate(address)
		if !m.Contains(pos) {
			complete = false
			continue
		}
		leaves = append(leaves, pos)
	}
	entries := collectWitness(leaves,
		func(pos Position) common.Hash { return m.nodes[pos].hash },
		func(pos Position) common.Account { return m.nodes[pos].account },
	)
	res, err := New(m.config, m.GetHash(), entries)
	if err != nil {
		// Should not happen for a consistent multiproof.
		m.fail(fmt.Errorf("failed to extract witness: %w", err))
		return nil, false
	}
	return res, complete
}

// collectWitness creates the witness entries required for proving the given
// leaves: the leaves themselves and the hashes of all siblings of nodes on
// the paths from the leaves to the root not being on one of those paths.
func collectWitness(
	leaves []Position,
	hashOf func(Position) common.Hash,
	accountOf func(Position) common.Account,
) []Entry {
	onPath := map[Position]bool{}
	res := make([]Entry, 0, 2*len(leaves))
	for _, leaf := range leaves {
		if onPath[leaf] {
			continue // duplicated leaf
		}
		res = append(res, AccountEntry(leaf, accountOf(leaf)))
		for cur := leaf; !onPath[cur]; cur = cur.Parent() {
			onPath[cur] = true
			if cur.IsRoot() {
				break
			}
		}
	}
	siblings := map[Position]bool{}
	for pos := range onPath {
		if pos.IsRoot() {
			continue
		}
		sibling := pos.Sibling()
		if onPath[sibling] || siblings[sibling] {
			continue
		}
		siblings[sibling] = true
		res = append(res, HashEntry(sibling, hashOf(sibling)))
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Position.Compare(&res[j].Position) < 0
	})
	return res
}

// Copy creates an independent deep copy of this multiproof.
func (m *Multiproof) Copy() *Multiproof {
	nodes := make(map[Position]*node, len(m.nodes))
	for pos, n := range m.nodes {
		clone := *n
		nodes[pos] = &clone
	}
	return &Multiproof{config: m.config, nodes: nodes, err: m.err}
}

// restore resets this multiproof to the content of the given one.
func (m *Multiproof) restore(other *Multiproof) {
	restored := other.Copy()
	m.config = restored.config
	m.nodes = restored.nodes
	m.err = restored.err
}

// Equals returns true if both multiproofs cover the same tree with the same
// known nodes.
func (m *Multiproof) Equals(other *Multiproof) bool {
	if m == other {
		return true
	}
	if m == nil || other == nil || m.config != other.config {
		return false
	}
	return maps.EqualFunc(m.nodes, other.nodes, func(a, b *node) bool {
		return *a == *b
	})
}

// String provides a listing of all known nodes ordered by their position.
func (m *Multiproof) String() string {
	var b strings.Builder
	for _, pos := range m.sortedPositions() {
		b.WriteString(fmt.Sprintf("%v: %v\n", pos, m.nodes[pos]))
	}
	return b.String()
}

func (m *Multiproof) sortedPositions() []Position {
	positions := maps.Keys(m.nodes)
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Compare(&positions[j]) < 0
	})
	return positions
}

// GetMemoryFootprint provides the size of this multiproof in memory in bytes.
func (m *Multiproof) GetMemoryFootprint() *common.MemoryFootprint {
	const entrySize = unsafe.Sizeof(Position{}) + unsafe.Sizeof(&node{}) + unsafe.Sizeof(node{})
	mf := common.NewMemoryFootprint(unsafe.Sizeof(*m))
	nodes := common.NewMemoryFootprint(uintptr(len(m.nodes)) * entrySize)
	nodes.SetNote(fmt.Sprintf("%d nodes", len(m.nodes)))
	mf.AddChild("nodes", nodes)
	return mf
}
