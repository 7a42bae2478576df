// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/devnet-tools/layerstate/devchain"
)

// Account is the basic information of an account.
type Account struct {
	Balance  uint256.Int
	Nonce    uint64
	CodeHash devchain.Bytes32
	// Code is the inline code pending hashing. It's stripped once the account is
	// inserted into a layer.
	Code []byte
}

// IsEmpty returns if an account is empty.
// An empty account has zero balance, zero nonce and no code.
func (a *Account) IsEmpty() bool {
	return a.Balance.IsZero() &&
		a.Nonce == 0 &&
		(a.CodeHash == devchain.EmptyCodeHash || a.CodeHash.IsZero()) &&
		len(a.Code) == 0
}

// HasCode returns whether the account refers to a non-empty code.
func (a *Account) HasCode() bool {
	return !a.CodeHash.IsZero() && a.CodeHash != devchain.EmptyCodeHash
}

func emptyAccount() Account {
	return Account{CodeHash: devchain.EmptyCodeHash}
}

// encodeAccount encodes the consensus representation of the account, which is the leaf value
// of the account trie.
func encodeAccount(a *Account, storageRoot devchain.Bytes32) []byte {
	balance := a.Balance
	data, err := rlp.EncodeToBytes(&types.StateAccount{
		Nonce:    a.Nonce,
		Balance:  &balance,
		Root:     common.Hash(storageRoot),
		CodeHash: a.CodeHash.Bytes(),
	})
	if err != nil {
		panic(err)
	}
	return data
}
