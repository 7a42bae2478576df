// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/devnet-tools/layerstate/devchain"
)

// DumpAccount is the JSON view of an account.
type DumpAccount struct {
	Balance     string            `json:"balance"`
	Nonce       uint64            `json:"nonce"`
	CodeHash    devchain.Bytes32  `json:"codeHash"`
	Code        hexutil.Bytes     `json:"code,omitempty"`
	StorageRoot devchain.Bytes32  `json:"storageRoot"`
	Storage     map[string]string `json:"storage,omitempty"`
}

// Dump is the JSON view of the current world state.
type Dump struct {
	Root     devchain.Bytes32                  `json:"root"`
	Depth    int                               `json:"depth"`
	Accounts map[devchain.Address]*DumpAccount `json:"accounts"`
}

// Dump returns the view of the top layer.
func (s *State) Dump() (*Dump, error) {
	top := s.top()
	d := &Dump{
		Root:     s.StateRoot(),
		Depth:    s.stack.Depth(),
		Accounts: make(map[devchain.Address]*DumpAccount, top.Len()),
	}
	for addr, a := range top.Accounts() {
		code, err := s.CodeByHash(a.CodeHash)
		if err != nil {
			return nil, err
		}
		da := &DumpAccount{
			Balance:     a.Balance.Dec(),
			Nonce:       a.Nonce,
			CodeHash:    a.CodeHash,
			Code:        code,
			StorageRoot: devchain.EmptyRootHash,
		}
		if root, ok := top.StorageRoot(addr, s.hasher); ok {
			da.StorageRoot = root
		}
		if top.StorageLen(addr) > 0 {
			da.Storage = make(map[string]string, top.StorageLen(addr))
			for k, v := range top.Storage(addr) {
				da.Storage[devchain.Uint256ToBytes32(&k).String()] = devchain.Uint256ToBytes32(&v).String()
			}
		}
		d.Accounts[addr] = da
	}
	return d, nil
}
