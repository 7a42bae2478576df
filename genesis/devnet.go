// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/devnet-tools/layerstate/devchain"
)

// DevAccount account for development.
type DevAccount struct {
	Address    devchain.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns the well-known development accounts.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcaa1dc08e9f4d53c1",
		"59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d",
		"5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a",
		"7c852118294e51e653712a81e05800f419141751be58f605c371e15141b007a6",
		"47e179ec197488593b187f80a00eb0da91f1b9d0b13f8733639f19c30a34926a",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{devchain.Address(addr), pk})
	}
	devAccounts.Store(accs)
	return accs
}

// DevBalance is the balance of each development account, 10000 ether.
var DevBalance, _ = new(big.Int).SetString("10000000000000000000000", 10)

// NewDevnet creates the genesis with precompiles and funded development accounts.
func NewDevnet() *Genesis {
	g := &Genesis{Precompiles: true}
	for _, a := range DevAccounts() {
		addr := a.Address
		g.Accounts = append(g.Accounts, Account{
			Address: &addr,
			Balance: NewHexOrDecimal256(DevBalance),
		})
	}
	return g
}
