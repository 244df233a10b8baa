// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package asset provides fungible asset accounting for the built-in ledger.
package asset

import (
	"math/big"

	"github.com/cybar-labs/cybar/cybar"
)

// Assets moves fungible assets on behalf of a custodian. Every asset is
// identified by its address.
type Assets interface {
	// TransferIn moves amount of asset from the account into custody.
	TransferIn(asset, from cybar.Address, amount *big.Int) error
	// TransferOut moves amount of asset from custody to the account.
	TransferOut(asset, to cybar.Address, amount *big.Int) error
	Mint(asset, to cybar.Address, amount *big.Int) error
	Burn(asset, from cybar.Address, amount *big.Int) error
	BalanceOf(asset, account cybar.Address) (*big.Int, error)
}
