// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/holiman/uint256"

	"github.com/devnet-tools/layerstate/devchain"
)

// StorageSlot is a storage slot touched during execution.
type StorageSlot struct {
	Original uint256.Int // value before execution
	Present  uint256.Int // resolved value after execution
}

// AccountDiff is the change of an account produced by execution.
type AccountDiff struct {
	Info           Account
	Destroyed      bool
	StorageCleared bool // prior storage was wiped before applying Storage
	Storage        map[uint256.Int]StorageSlot
}

// IsEmpty returns whether the account is empty after execution.
func (d *AccountDiff) IsEmpty() bool {
	return d.Info.IsEmpty()
}

// Changes is a batch of account changes keyed by address.
type Changes map[devchain.Address]*AccountDiff
