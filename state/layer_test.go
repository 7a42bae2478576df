// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devnet-tools/layerstate/devchain"
	"github.com/devnet-tools/layerstate/trie"
)

func addr(b byte) devchain.Address {
	var a devchain.Address
	a[19] = b
	return a
}

func TestLayerInsertStripsCode(t *testing.T) {
	l := NewLayer()
	code := []byte{0x60, 0x00, 0x60, 0x00}

	l.InsertAccount(addr(1), Account{Balance: u(1), Code: code})

	a, ok := l.Account(addr(1))
	require.True(t, ok)
	assert.Nil(t, a.Code, "code should be stripped")
	assert.Equal(t, devchain.Keccak256(code), a.CodeHash)

	stored, ok := l.Code(a.CodeHash)
	assert.True(t, ok)
	assert.Equal(t, code, stored)
}

func TestLayerInsertNormalizesZeroCodeHash(t *testing.T) {
	l := NewLayer()
	l.InsertAccount(addr(1), Account{Balance: u(1)})

	a, _ := l.Account(addr(1))
	assert.Equal(t, devchain.EmptyCodeHash, a.CodeHash)
	assert.Equal(t, 0, l.CodeCount())
}

func TestLayerEmptyCode(t *testing.T) {
	l := NewLayer()
	code, ok := l.Code(devchain.EmptyCodeHash)
	assert.True(t, ok)
	assert.Equal(t, []byte{}, code)

	_, ok = l.Code(devchain.Bytes32{1})
	assert.False(t, ok)
}

func TestLayerCodeDedup(t *testing.T) {
	l := NewLayer()
	code := []byte{1, 2, 3}

	l.InsertAccount(addr(1), Account{Code: code})
	l.InsertAccount(addr(2), Account{Code: append([]byte(nil), code...)})
	assert.Equal(t, 1, l.CodeCount(), "equal code should be stored once")

	l.RemoveAccount(addr(1))
	got, ok := l.Code(devchain.Keccak256(code))
	assert.True(t, ok, "code still referred by another account")
	assert.Equal(t, code, got)

	l.RemoveAccount(addr(2))
	_, ok = l.Code(devchain.Keccak256(code))
	assert.False(t, ok, "unreferenced code should be dropped")
	assert.Equal(t, 0, l.CodeCount())
}

func TestLayerReplaceCode(t *testing.T) {
	l := NewLayer()
	oldCode, newCode := []byte{1}, []byte{2}

	l.InsertAccount(addr(1), Account{Code: oldCode})
	l.InsertAccount(addr(2), Account{Code: oldCode})

	l.InsertAccount(addr(1), Account{Code: newCode})
	_, ok := l.Code(devchain.Keccak256(oldCode))
	assert.True(t, ok, "old code still referred by addr(2)")

	l.InsertAccount(addr(2), Account{Code: newCode})
	_, ok = l.Code(devchain.Keccak256(oldCode))
	assert.False(t, ok)
	_, ok = l.Code(devchain.Keccak256(newCode))
	assert.True(t, ok)

	// re-inserting with the same hash keeps the single reference
	a, _ := l.Account(addr(2))
	l.InsertAccount(addr(2), a)
	l.RemoveAccount(addr(1))
	_, ok = l.Code(devchain.Keccak256(newCode))
	assert.True(t, ok)
	l.RemoveAccount(addr(2))
	_, ok = l.Code(devchain.Keccak256(newCode))
	assert.False(t, ok)
}

func TestLayerRemoveAccount(t *testing.T) {
	l := NewLayer()
	l.InsertAccount(addr(1), Account{Balance: u(5)})
	l.SetStorageSlot(addr(1), u(1), u(1))

	removed, ok := l.RemoveAccount(addr(1))
	assert.True(t, ok)
	assert.Equal(t, u(5), removed.Balance)

	_, ok = l.Account(addr(1))
	assert.False(t, ok)
	assert.Equal(t, 0, l.StorageLen(addr(1)))
	_, ok = l.StorageRoot(addr(1), trie.SecureHasher)
	assert.False(t, ok)

	_, ok = l.RemoveAccount(addr(1))
	assert.False(t, ok)
}

func TestLayerSetStorageSlotCreatesAccount(t *testing.T) {
	l := NewLayer()
	l.SetStorageSlot(addr(9), u(1), u(7))

	a, ok := l.Account(addr(9))
	assert.True(t, ok)
	assert.Equal(t, emptyAccount(), a)
	assert.Equal(t, u(7), l.StorageSlot(addr(9), u(1)))
}

func TestLayerRootSingleAccount(t *testing.T) {
	var got []trie.KeyValue
	h := trie.HasherFunc(func(kvs []trie.KeyValue) devchain.Bytes32 {
		got = kvs
		return trie.SecureRoot(kvs)
	})

	l := NewLayer()
	l.InsertAccount(addr(0xa), Account{Balance: u(100)})
	root := l.Root(h)

	record := Account{Balance: u(100), CodeHash: devchain.EmptyCodeHash}
	want := []trie.KeyValue{{Key: addr(0xa).Bytes(), Value: encodeAccount(&record, devchain.EmptyRootHash)}}
	assert.Equal(t, want, got)
	assert.Equal(t, trie.SecureRoot(want), root)
}

func TestLayerRootPrecompiles(t *testing.T) {
	l := NewLayer()
	for i := byte(1); i <= 8; i++ {
		l.InsertAccount(addr(i), Account{})
	}
	assert.Equal(t,
		"0x5766c887a7240e4d1c035ccd3830a2f6a0c03d213a9f0b9b27c774916a4abcce",
		l.Root(trie.SecureHasher).String())
}

func TestLayerRootEmpty(t *testing.T) {
	assert.Equal(t, devchain.EmptyRootHash, NewLayer().Root(trie.SecureHasher))
}

func TestLayerRootCache(t *testing.T) {
	h := &countingHasher{}
	l := NewLayer()
	l.InsertAccount(addr(1), Account{Balance: u(1)})
	l.SetStorageSlot(addr(1), u(1), u(1))

	r1 := l.Root(h)
	calls := h.calls
	assert.Equal(t, 2, calls, "one storage root and one state root")
	assert.Equal(t, r1, l.Root(h))
	assert.Equal(t, calls, h.calls, "cached")

	l.SetStorageSlot(addr(1), u(2), u(2))
	r2 := l.Root(h)
	assert.NotEqual(t, r1, r2, "storage change should be reflected in state root")

	l.InsertAccount(addr(2), Account{Nonce: 1})
	assert.NotEqual(t, r2, l.Root(h))

	l.RemoveAccount(addr(2))
	assert.Equal(t, r2, l.Root(h))
}

func TestLayerRootOrderIndependent(t *testing.T) {
	accounts := make([]devchain.Address, 0, 32)
	for i := range byte(32) {
		accounts = append(accounts, addr(i))
	}

	build := func(order []devchain.Address) devchain.Bytes32 {
		l := NewLayer()
		for _, a := range order {
			l.InsertAccount(a, Account{Balance: u(uint64(a[19]) + 1), Code: []byte{a[19] % 3}})
			l.SetStorageSlot(a, u(uint64(a[19])), u(1))
		}
		return l.Root(trie.SecureHasher)
	}

	want := build(accounts)
	rng := rand.New(rand.NewPCG(1, 2))
	for range 5 {
		rng.Shuffle(len(accounts), func(i, j int) { accounts[i], accounts[j] = accounts[j], accounts[i] })
		assert.Equal(t, want, build(accounts))
	}
}

func TestLayerCopy(t *testing.T) {
	l := NewLayer()
	l.InsertAccount(addr(1), Account{Balance: u(1), Code: []byte{1}})
	l.SetStorageSlot(addr(1), u(1), u(1))
	root := l.Root(trie.SecureHasher)

	cpy := l.Copy()
	assert.True(t, cpy.HasRoot())

	l.InsertAccount(addr(1), Account{Balance: u(2)})
	l.SetStorageSlot(addr(1), u(1), u(2))
	l.RemoveAccount(addr(1))

	a, ok := cpy.Account(addr(1))
	assert.True(t, ok)
	assert.Equal(t, u(1), a.Balance)
	assert.Equal(t, u(1), cpy.StorageSlot(addr(1), u(1)))
	_, ok = cpy.Code(devchain.Keccak256([]byte{1}))
	assert.True(t, ok)
	assert.Equal(t, root, cpy.Root(trie.SecureHasher))
}

func TestLayerCodeOwnership(t *testing.T) {
	l := NewLayer()
	code := []byte{0x60, 0x01}
	hash := devchain.Keccak256(code)

	l.InsertAccount(addr(1), Account{Code: code})
	cpy := l.Copy()
	code[0] = 0xff

	got, ok := l.Code(hash)
	require.True(t, ok)
	assert.Equal(t, []byte{0x60, 0x01}, got)
	got[1] = 0xee

	for _, layer := range []*Layer{l, cpy} {
		stored, _ := layer.Code(hash)
		assert.Equal(t, []byte{0x60, 0x01}, stored)
	}
}
