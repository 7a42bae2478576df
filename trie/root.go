// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package trie

import (
	"bytes"
	"fmt"
	"slices"

	ethtrie "github.com/ethereum/go-ethereum/trie"

	"github.com/devnet-tools/layerstate/devchain"
)

// KeyValue is a leaf of the trie.
type KeyValue struct {
	Key   []byte
	Value []byte
}

// Hasher computes the root of the trie made up of the given leaves.
// Keys are unique and the result must not depend on the order of kvs.
type Hasher interface {
	Root(kvs []KeyValue) devchain.Bytes32
}

// HasherFunc adapts an ordinary function to Hasher.
type HasherFunc func(kvs []KeyValue) devchain.Bytes32

// Root implements Hasher.
func (f HasherFunc) Root(kvs []KeyValue) devchain.Bytes32 {
	return f(kvs)
}

// SecureHasher hashes every key with keccak256 before insertion, which is how
// the account trie and storage tries of Ethereum are keyed.
var SecureHasher Hasher = HasherFunc(SecureRoot)

// SecureRoot returns the root of the secure trie holding kvs.
// It panics if two leaves share the same key.
func SecureRoot(kvs []KeyValue) devchain.Bytes32 {
	if len(kvs) == 0 {
		return devchain.EmptyRootHash
	}

	hashed := make([]KeyValue, 0, len(kvs))
	for _, kv := range kvs {
		key := devchain.Keccak256(kv.Key)
		hashed = append(hashed, KeyValue{Key: key[:], Value: kv.Value})
	}
	// the stack trie only accepts keys in ascending order
	slices.SortFunc(hashed, func(a, b KeyValue) int {
		return bytes.Compare(a.Key, b.Key)
	})

	st := ethtrie.NewStackTrie(nil)
	for _, kv := range hashed {
		if err := st.Update(kv.Key, kv.Value); err != nil {
			panic(fmt.Errorf("trie: update %x: %w", kv.Key, err))
		}
	}
	return devchain.Bytes32(st.Hash())
}
