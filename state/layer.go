// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"iter"
	"maps"

	"github.com/holiman/uint256"

	"github.com/devnet-tools/layerstate/devchain"
	"github.com/devnet-tools/layerstate/trie"
)

// Layer is a complete and consistent version of the world state.
type Layer struct {
	accounts map[devchain.Address]Account
	storages map[devchain.Address]*Storage
	codes    map[devchain.Bytes32][]byte // code hash -> code, deduplicated
	codeRefs map[devchain.Bytes32]int    // code hash -> count of accounts referring to it
	root     *devchain.Bytes32           // cached state root, nil if dirty
}

// NewLayer creates an empty layer.
func NewLayer() *Layer {
	return &Layer{
		accounts: make(map[devchain.Address]Account),
		storages: make(map[devchain.Address]*Storage),
		codes:    make(map[devchain.Bytes32][]byte),
		codeRefs: make(map[devchain.Bytes32]int),
	}
}

// New implements layerstack.Layer.
func (l *Layer) New() *Layer {
	return NewLayer()
}

// Copy implements layerstack.Layer. The cached roots are carried over.
func (l *Layer) Copy() *Layer {
	cpy := &Layer{
		accounts: maps.Clone(l.accounts),
		storages: make(map[devchain.Address]*Storage, len(l.storages)),
		// code blobs are owned by the layers and never mutated in place, so they can be shared
		codes:    maps.Clone(l.codes),
		codeRefs: maps.Clone(l.codeRefs),
	}
	for addr, s := range l.storages {
		cpy.storages[addr] = s.Copy()
	}
	if l.root != nil {
		root := *l.root
		cpy.root = &root
	}
	return cpy
}

// Account returns the account at addr.
// The returned account never holds inline code.
func (l *Layer) Account(addr devchain.Address) (Account, bool) {
	a, ok := l.accounts[addr]
	return a, ok
}

// Accounts returns a sequence over all accounts, in no particular order.
func (l *Layer) Accounts() iter.Seq2[devchain.Address, Account] {
	return maps.All(l.accounts)
}

// Len returns the count of accounts.
func (l *Layer) Len() int {
	return len(l.accounts)
}

// InsertAccount inserts or replaces the account at addr.
// Inline code is moved into the code map, keyed by its hash.
// The storage of addr is left untouched.
func (l *Layer) InsertAccount(addr devchain.Address, a Account) {
	l.insertAccount(addr, a)
	l.markDirty()
}

// RemoveAccount removes the account at addr with its storage, and returns the removed account.
func (l *Layer) RemoveAccount(addr devchain.Address) (Account, bool) {
	a, ok := l.removeAccount(addr)
	l.markDirty()
	return a, ok
}

// Code returns a copy of the code with the given hash.
func (l *Layer) Code(hash devchain.Bytes32) ([]byte, bool) {
	if hash == devchain.EmptyCodeHash {
		return []byte{}, true
	}
	code, ok := l.codes[hash]
	if !ok {
		return nil, false
	}
	return bytes.Clone(code), true
}

// CodeCount returns the count of distinct codes stored.
func (l *Layer) CodeCount() int {
	return len(l.codes)
}

// StorageSlot returns the value of the storage slot. Zero is returned for absent ones.
func (l *Layer) StorageSlot(addr devchain.Address, index uint256.Int) uint256.Int {
	if s, ok := l.storages[addr]; ok {
		v, _ := s.Get(index)
		return v
	}
	return uint256.Int{}
}

// StorageLen returns the count of non-zero storage slots of addr.
func (l *Layer) StorageLen(addr devchain.Address) int {
	if s, ok := l.storages[addr]; ok {
		return s.Len()
	}
	return 0
}

// Storage returns a sequence over the storage slots of addr.
func (l *Layer) Storage(addr devchain.Address) iter.Seq2[uint256.Int, uint256.Int] {
	if s, ok := l.storages[addr]; ok {
		return s.All()
	}
	return func(func(uint256.Int, uint256.Int) bool) {}
}

// SetStorageSlot sets the storage slot of addr. The account is created if absent.
func (l *Layer) SetStorageSlot(addr devchain.Address, index, value uint256.Int) {
	if _, ok := l.accounts[addr]; !ok {
		l.accounts[addr] = emptyAccount()
	}
	l.storageOrCreate(addr).Set(index, value)
	l.markDirty()
}

// StorageRoot returns the storage root of addr, false if addr has no storage.
func (l *Layer) StorageRoot(addr devchain.Address, h trie.Hasher) (devchain.Bytes32, bool) {
	if s, ok := l.storages[addr]; ok {
		return s.Root(h), true
	}
	return devchain.Bytes32{}, false
}

// Root returns the state root, computing it with h if the cached one is stale.
func (l *Layer) Root(h trie.Hasher) devchain.Bytes32 {
	if l.root != nil {
		return *l.root
	}

	kvs := make([]trie.KeyValue, 0, len(l.accounts))
	for addr, a := range l.accounts {
		storageRoot := devchain.EmptyRootHash
		if s, ok := l.storages[addr]; ok {
			storageRoot = s.Root(h)
		}
		kvs = append(kvs, trie.KeyValue{Key: addr.Bytes(), Value: encodeAccount(&a, storageRoot)})
	}
	root := h.Root(kvs)
	l.root = &root
	return root
}

// HasRoot returns whether the state root is cached.
func (l *Layer) HasRoot() bool {
	return l.root != nil
}

func (l *Layer) markDirty() {
	l.root = nil
}

func (l *Layer) insertAccount(addr devchain.Address, a Account) {
	if len(a.Code) > 0 {
		hash := devchain.Keccak256(a.Code)
		a.CodeHash = hash
		// equal hash means equal code, the first one wins
		if _, ok := l.codes[hash]; !ok {
			l.codes[hash] = bytes.Clone(a.Code)
		}
	}
	a.Code = nil

	if a.CodeHash.IsZero() {
		a.CodeHash = devchain.EmptyCodeHash
	}

	old, existed := l.accounts[addr]
	l.accounts[addr] = a

	if !existed || old.CodeHash != a.CodeHash {
		l.retainCode(a.CodeHash)
		if existed {
			l.releaseCode(old.CodeHash)
		}
	}
}

func (l *Layer) removeAccount(addr devchain.Address) (Account, bool) {
	delete(l.storages, addr)

	a, ok := l.accounts[addr]
	if !ok {
		return Account{}, false
	}
	delete(l.accounts, addr)
	l.releaseCode(a.CodeHash)
	return a, true
}

func (l *Layer) storageOrCreate(addr devchain.Address) *Storage {
	s, ok := l.storages[addr]
	if !ok {
		s = NewStorage()
		l.storages[addr] = s
	}
	return s
}

func (l *Layer) retainCode(hash devchain.Bytes32) {
	if hash == devchain.EmptyCodeHash {
		return
	}
	l.codeRefs[hash]++
}

// releaseCode drops a reference to the code, and the code itself once unreferenced.
func (l *Layer) releaseCode(hash devchain.Bytes32) {
	if hash == devchain.EmptyCodeHash {
		return
	}
	if n := l.codeRefs[hash] - 1; n > 0 {
		l.codeRefs[hash] = n
		return
	}
	delete(l.codeRefs, hash)
	delete(l.codes, hash)
}
