// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"iter"
	"maps"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/devnet-tools/layerstate/devchain"
	"github.com/devnet-tools/layerstate/trie"
)

// Storage holds the storage slots of an account.
// Slots with zero value are never kept, so the size of storage equals the count of non-zero slots.
type Storage struct {
	slots map[uint256.Int]uint256.Int
	root  *devchain.Bytes32 // cached storage root, nil if dirty
}

// NewStorage creates an empty storage.
func NewStorage() *Storage {
	return &Storage{slots: make(map[uint256.Int]uint256.Int)}
}

// Get returns the value at index.
// The second return value is false if the slot is absent, which means zero value.
func (s *Storage) Get(index uint256.Int) (uint256.Int, bool) {
	v, ok := s.slots[index]
	return v, ok
}

// Set sets the value at index. Zero value removes the slot.
func (s *Storage) Set(index, value uint256.Int) {
	s.markDirty()
	if value.IsZero() {
		delete(s.slots, index)
	} else {
		s.slots[index] = value
	}
}

// Remove removes the slot at index and returns its previous value.
func (s *Storage) Remove(index uint256.Int) (uint256.Int, bool) {
	s.markDirty()
	v, ok := s.slots[index]
	if ok {
		delete(s.slots, index)
	}
	return v, ok
}

// Extend sets all entries, dropping those with zero value.
func (s *Storage) Extend(entries iter.Seq2[uint256.Int, uint256.Int]) {
	s.markDirty()
	for k, v := range entries {
		s.slots[k] = v
	}
	maps.DeleteFunc(s.slots, func(_, v uint256.Int) bool {
		return v.IsZero()
	})
}

// Len returns the count of non-zero slots.
func (s *Storage) Len() int {
	return len(s.slots)
}

// All returns a sequence over all slots, in no particular order.
func (s *Storage) All() iter.Seq2[uint256.Int, uint256.Int] {
	return maps.All(s.slots)
}

// Root returns the storage root, computing it with h if the cached one is stale.
func (s *Storage) Root(h trie.Hasher) devchain.Bytes32 {
	if s.root != nil {
		return *s.root
	}
	var root devchain.Bytes32
	if len(s.slots) == 0 {
		root = devchain.EmptyRootHash
	} else {
		kvs := make([]trie.KeyValue, 0, len(s.slots))
		for k, v := range s.slots {
			key := k.Bytes32()
			kvs = append(kvs, trie.KeyValue{Key: key[:], Value: encodeStorageValue(&v)})
		}
		root = h.Root(kvs)
	}
	s.root = &root
	return root
}

// Copy returns a deep copy of the storage, including the cached root.
func (s *Storage) Copy() *Storage {
	cpy := &Storage{slots: maps.Clone(s.slots)}
	if s.root != nil {
		root := *s.root
		cpy.root = &root
	}
	return cpy
}

func (s *Storage) markDirty() {
	s.root = nil
}

// encodeStorageValue encodes the value into rlp with leading zeros trimmed.
func encodeStorageValue(v *uint256.Int) []byte {
	data, err := rlp.EncodeToBytes(v.Bytes())
	if err != nil {
		panic(err)
	}
	return data
}
