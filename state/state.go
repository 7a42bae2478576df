// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"time"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/devnet-tools/layerstate/devchain"
	"github.com/devnet-tools/layerstate/layerstack"
	"github.com/devnet-tools/layerstate/log"
	"github.com/devnet-tools/layerstate/trie"
)

var logger = log.WithContext("pkg", "state")

// Options configures a State.
type Options struct {
	// Hasher computes storage and state roots. Defaults to trie.SecureHasher.
	Hasher trie.Hasher
	// MaxSnapshots bounds the count of kept snapshots, the least recently used one
	// is evicted once exceeded. Zero keeps snapshots forever.
	MaxSnapshots int
}

// State manages the world state.
type State struct {
	stack     *layers
	snapshots snapshotRegistry
	hasher    trie.Hasher
}

// New creates a state with base as the genesis layer. A nil base starts from an empty layer.
func New(base *Layer, opts Options) *State {
	if base == nil {
		base = NewLayer()
	}
	hasher := opts.Hasher
	if hasher == nil {
		hasher = trie.SecureHasher
	}
	s := &State{
		stack:     layerstack.WithBase(base),
		snapshots: newSnapshotRegistry(opts.MaxSnapshots),
		hasher:    hasher,
	}
	metricLayerDepth().Set(1)
	return s
}

func (s *State) top() *Layer {
	return s.stack.Top()
}

// Depth returns the count of layers, one plus the count of pending checkpoints.
func (s *State) Depth() int {
	return s.stack.Depth()
}

// SnapshotCount returns the count of kept snapshots.
func (s *State) SnapshotCount() int {
	return s.snapshots.len()
}

// Basic returns the account at addr.
// An empty account is returned for an absent address, see ReadAccount to tell them apart.
func (s *State) Basic(addr devchain.Address) Account {
	if a, ok := s.top().Account(addr); ok {
		return a
	}
	return emptyAccount()
}

// ReadAccount returns the account at addr and whether it exists.
func (s *State) ReadAccount(addr devchain.Address) (Account, bool) {
	return s.top().Account(addr)
}

// CodeByHash returns the code with the given hash.
func (s *State) CodeByHash(hash devchain.Bytes32) ([]byte, error) {
	if code, ok := s.top().Code(hash); ok {
		return code, nil
	}
	return nil, &InvalidCodeHashError{hash}
}

// CodeByAddress returns the code of the account at addr.
func (s *State) CodeByAddress(addr devchain.Address) ([]byte, error) {
	a := s.Basic(addr)
	code, err := s.CodeByHash(a.CodeHash)
	if err != nil {
		return nil, errors.WithMessagef(err, "account %v", addr)
	}
	return code, nil
}

// Storage returns the storage value of addr at index, zero if absent.
func (s *State) Storage(addr devchain.Address, index uint256.Int) uint256.Int {
	return s.top().StorageSlot(addr, index)
}

// Commit applies a batch of changes produced by execution to the top layer.
// Every upserted account ends up with a storage, possibly empty. Nil diffs are skipped.
func (s *State) Commit(changes Changes) {
	top := s.top()
	for addr, diff := range changes {
		if diff == nil {
			continue
		}
		if diff.Destroyed || diff.IsEmpty() {
			top.removeAccount(addr)
			metricCommittedAccount().AddWithLabel(1, map[string]string{"type": "removed"})
			continue
		}

		top.insertAccount(addr, diff.Info)
		storage := top.storageOrCreate(addr)
		if diff.StorageCleared {
			storage = NewStorage()
			top.storages[addr] = storage
		}
		for index, slot := range diff.Storage {
			storage.Set(index, slot.Present)
		}
		metricCommittedAccount().AddWithLabel(1, map[string]string{"type": "updated"})
	}
	top.markDirty()
	countOp("commit")
}

// InsertAccount inserts or replaces the account at addr, keeping its storage.
func (s *State) InsertAccount(addr devchain.Address, a Account) {
	s.top().InsertAccount(addr, a)
}

// RemoveAccount removes the account at addr with its code and storage,
// and returns the removed account.
func (s *State) RemoveAccount(addr devchain.Address) (Account, bool) {
	return s.top().RemoveAccount(addr)
}

// AccountUpdate describes a partial update of an account. Nil fields are left unchanged.
type AccountUpdate struct {
	Balance *uint256.Int
	Nonce   *uint64
	// Code replaces the code when non-nil. An empty slice clears it.
	Code []byte
}

// UpdateAccount applies the update to the account at addr, which is created if absent.
func (s *State) UpdateAccount(addr devchain.Address, u AccountUpdate) {
	a := s.Basic(addr)
	if u.Balance != nil {
		a.Balance = *u.Balance
	}
	if u.Nonce != nil {
		a.Nonce = *u.Nonce
	}
	if u.Code != nil {
		a.Code = u.Code
		if len(u.Code) == 0 {
			a.CodeHash = devchain.EmptyCodeHash
		}
	}
	s.top().InsertAccount(addr, a)
	countOp("update_account")
}

// SetAccountStorageSlot sets a storage slot directly. The account is created if absent.
func (s *State) SetAccountStorageSlot(addr devchain.Address, index, value uint256.Int) {
	s.top().SetStorageSlot(addr, index, value)
}

// AccountStorageRoot returns the storage root of addr, false if addr has no storage.
func (s *State) AccountStorageRoot(addr devchain.Address) (devchain.Bytes32, bool) {
	return s.top().StorageRoot(addr, s.hasher)
}

// StateRoot returns the state root of the top layer.
func (s *State) StateRoot() devchain.Bytes32 {
	top := s.top()
	if top.HasRoot() {
		return top.Root(s.hasher)
	}
	start := time.Now()
	root := top.Root(s.hasher)
	metricRootDurationMs().Observe(time.Since(start).Milliseconds())
	return root
}

// Checkpoint pushes a copy of the top layer, so that later changes can be reverted.
func (s *State) Checkpoint() {
	// the root is cached before copying, so both layers carry it
	root := s.StateRoot()
	index := s.stack.Push(s.top().Copy())

	countOp("checkpoint")
	metricLayerDepth().Set(int64(s.stack.Depth()))
	logger.Debug("checkpoint", "layer", index, "root", root.AbbrevString())
}

// Revert drops the top layer, restoring the state at the last checkpoint.
func (s *State) Revert() error {
	top := s.stack.TopIndex()
	if top == 0 {
		return ErrCannotRevert
	}
	if err := s.stack.TruncateTo(top - 1); err != nil {
		return errors.Wrap(err, "state: revert")
	}

	countOp("revert")
	metricLayerDepth().Set(int64(s.stack.Depth()))
	logger.Debug("reverted", "layer", top-1)
	return nil
}

// MakeSnapshot saves the whole layer stack under the current state root.
// The second return value is true if a snapshot of the same root already exists,
// in which case the existing snapshot is kept.
func (s *State) MakeSnapshot() (devchain.Bytes32, bool) {
	root := s.StateRoot()
	if _, ok := s.snapshots.get(root); ok {
		return root, true
	}
	s.snapshots.add(root, s.stack.Copy())

	countOp("snapshot")
	metricSnapshotCount().Set(int64(s.snapshots.len()))
	logger.Debug("snapshot taken", "root", root.AbbrevString(), "layers", s.stack.Depth())
	return root, false
}

// SetStateRoot restores the state saved by MakeSnapshot under root.
// All layers accumulated since then, including checkpoints, are discarded.
func (s *State) SetStateRoot(root devchain.Bytes32) error {
	snapshot, ok := s.snapshots.get(root)
	if !ok {
		return &InvalidStateRootError{root}
	}
	// copy, so the snapshot survives later changes and can be restored again
	s.stack = snapshot.Copy()

	countOp("restore")
	metricLayerDepth().Set(int64(s.stack.Depth()))
	logger.Debug("snapshot restored", "root", root.AbbrevString(), "layers", s.stack.Depth())
	return nil
}

// RemoveSnapshot removes the snapshot of root, and returns whether it existed.
// The live state is not affected.
func (s *State) RemoveSnapshot(root devchain.Bytes32) bool {
	existed := s.snapshots.remove(root)
	if existed {
		metricSnapshotCount().Set(int64(s.snapshots.len()))
	}
	return existed
}
