// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis builds the base layer of the world state from an allocation config.
package genesis

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/devnet-tools/layerstate/devchain"
	"github.com/devnet-tools/layerstate/state"
)

// PrecompileCount is the count of precompiled contracts, allocated at 0x01 onwards.
const PrecompileCount = 8

// Genesis is the initial allocation of the world state.
type Genesis struct {
	// Precompiles allocates empty accounts at the precompiled contract addresses.
	Precompiles bool      `json:"precompiles" yaml:"precompiles"`
	Accounts    []Account `json:"accounts" yaml:"accounts"`
}

// Account is the account will set to the genesis layer.
// Either Address or PrivateKey must be given.
type Account struct {
	Address    *devchain.Address `json:"address,omitempty" yaml:"address,omitempty"`
	PrivateKey string            `json:"privateKey,omitempty" yaml:"privateKey,omitempty"`
	Balance    *HexOrDecimal256  `json:"balance,omitempty" yaml:"balance,omitempty"`
	Nonce      uint64            `json:"nonce,omitempty" yaml:"nonce,omitempty"`
	Code       string            `json:"code,omitempty" yaml:"code,omitempty"`
	// Storage maps slot index to value, both in hex or decimal.
	Storage map[string]string `json:"storage,omitempty" yaml:"storage,omitempty"`
}

// ResolveAddress returns the address of the account, derived from the private key if absent.
func (a *Account) ResolveAddress() (devchain.Address, error) {
	if a.PrivateKey == "" {
		if a.Address == nil {
			return devchain.Address{}, errors.New("either address or privateKey must be set")
		}
		return *a.Address, nil
	}

	pk, err := crypto.HexToECDSA(strings.TrimPrefix(a.PrivateKey, "0x"))
	if err != nil {
		return devchain.Address{}, errors.Wrap(err, "invalid privateKey")
	}
	addr := devchain.Address(crypto.PubkeyToAddress(pk.PublicKey))
	if a.Address != nil && *a.Address != addr {
		return devchain.Address{}, fmt.Errorf("address %v mismatches the one of privateKey %v", *a.Address, addr)
	}
	return addr, nil
}

func (a *Account) toState() (state.Account, error) {
	var acc state.Account
	if a.Balance != nil {
		b, err := a.Balance.Uint256()
		if err != nil {
			return acc, errors.WithMessage(err, "balance")
		}
		acc.Balance = b
	}
	acc.Nonce = a.Nonce
	if len(a.Code) > 0 {
		code, err := hexutil.Decode(a.Code)
		if err != nil {
			return acc, errors.Wrap(err, "invalid code")
		}
		acc.Code = code
	}
	return acc, nil
}

// Build creates the genesis layer.
func (g *Genesis) Build() (*state.Layer, error) {
	layer := state.NewLayer()

	if g.Precompiles {
		for i := 1; i <= PrecompileCount; i++ {
			layer.InsertAccount(devchain.BytesToAddress([]byte{byte(i)}), state.Account{})
		}
	}

	seen := make(map[devchain.Address]bool, len(g.Accounts))
	for i := range g.Accounts {
		a := &g.Accounts[i]
		addr, err := a.ResolveAddress()
		if err != nil {
			return nil, errors.WithMessagef(err, "accounts[%d]", i)
		}
		if seen[addr] {
			return nil, fmt.Errorf("%v: duplicated account", addr)
		}
		seen[addr] = true

		acc, err := a.toState()
		if err != nil {
			return nil, errors.WithMessagef(err, "%v", addr)
		}
		layer.InsertAccount(addr, acc)

		for k, v := range a.Storage {
			index, err := ParseUint256(k)
			if err != nil {
				return nil, errors.WithMessagef(err, "%v: storage index %q", addr, k)
			}
			value, err := ParseUint256(v)
			if err != nil {
				return nil, errors.WithMessagef(err, "%v: storage value %q", addr, v)
			}
			layer.SetStorageSlot(addr, index, value)
		}
	}
	return layer, nil
}

// BuildFile loads the genesis at path and creates the genesis layer.
func BuildFile(path string) (*state.Layer, error) {
	g, err := Load(path)
	if err != nil {
		return nil, err
	}
	return g.Build()
}

// ParseUint256 parses a hex or decimal integer of at most 256 bits.
func ParseUint256(s string) (uint256.Int, error) {
	b, ok := math.ParseBig256(s)
	if !ok {
		return uint256.Int{}, errors.New("invalid hex or decimal integer")
	}
	return toUint256(b)
}

func toUint256(b *big.Int) (uint256.Int, error) {
	if b.Sign() < 0 {
		return uint256.Int{}, errors.New("must be a non-negative integer")
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return uint256.Int{}, errors.New("exceeds 256 bits")
	}
	return *v, nil
}
