// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/cybar-labs/cybar/cybar"
)

// DevAccount account for development.
type DevAccount struct {
	Address    cybar.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for the dev ledger.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{cybar.Address(addr), pk})
	}
	devAccounts.Store(accs)
	return accs
}

// Token addresses used by the dev ledger.
var (
	DevRewardAsset  = cybar.BytesToAddress([]byte("CYBAR"))
	DevReceiptAsset = cybar.BytesToAddress([]byte("SHOT"))
	DevLPAssets     = []cybar.Address{
		cybar.BytesToAddress([]byte("LP-CYBAR-ETH")),
		cybar.BytesToAddress([]byte("LP-CYBAR-USDC")),
	}
)

// NewDevnet returns the genesis of a dev ledger. The first dev account owns
// it, the second collects the dev cut and the third collects withdrawal fees.
// Every dev account is funded with each LP asset.
func NewDevnet() *Genesis {
	accs := DevAccounts()

	rewardPerBlock, _ := new(big.Int).SetString("10000000000000000000", 10) // 10 CYBAR
	balance, _ := new(big.Int).SetString("1000000000000000000000", 10)      // 1000 LP

	gen := &Genesis{
		LaunchTime:   1526400000,
		RewardAsset:  DevRewardAsset,
		ReceiptAsset: DevReceiptAsset,
		Owner:        accs[0].Address,
		Dev:          accs[1].Address,
		Treasury:     accs[2].Address,
		Emission: Emission{
			RewardPerBlock: (*HexOrDecimal256)(rewardPerBlock),
		},
		Pools: []Pool{
			{Asset: DevLPAssets[0], Weight: 1000, FeeBP: 100, Window: 24 * 60 * 60},
			{Asset: DevLPAssets[1], Weight: 500},
		},
	}
	for _, a := range accs {
		for _, lp := range DevLPAssets {
			gen.Allocations = append(gen.Allocations, Allocation{
				Asset:   lp,
				Account: a.Address,
				Amount:  (*HexOrDecimal256)(new(big.Int).Set(balance)),
			})
		}
	}
	return gen
}
