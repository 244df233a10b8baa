// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package asset

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/cybar-labs/cybar/builtin/solidity"
	"github.com/cybar-labs/cybar/cybar"
	"github.com/cybar-labs/cybar/log"
	"github.com/cybar-labs/cybar/metrics"
	"github.com/cybar-labs/cybar/state"
)

var (
	// LedgerAddress is where balances of every asset are stored.
	LedgerAddress = cybar.BytesToAddress([]byte("AssetLedger"))

	slotBalances = cybar.BytesToBytes32([]byte("balances"))
	slotSupplies = cybar.BytesToBytes32([]byte("supplies"))

	logger = log.WithContext("pkg", "asset")

	metricAssetOps = metrics.LazyLoadCounterVec("asset_ops_count", []string{"op"})
)

// ErrInsufficientFunds is returned when a debit exceeds the balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// holding keys a balance by asset and account.
type holding struct {
	asset   cybar.Address
	account cybar.Address
}

func (h holding) Bytes() []byte {
	return append(h.asset.Bytes(), h.account.Bytes()...)
}

// Ledger is an Assets implementation that keeps balances in contract
// storage, so it is reverted together with any other state change.
type Ledger struct {
	custody  cybar.Address
	balances *solidity.Mapping[holding, *big.Int]
	supplies *solidity.Mapping[cybar.Address, *big.Int]
}

var _ Assets = (*Ledger)(nil)

// NewLedger creates a ledger whose TransferIn/TransferOut use custody as counterparty.
func NewLedger(st *state.State, custody cybar.Address) *Ledger {
	sctx := solidity.NewContext(LedgerAddress, st)
	return &Ledger{
		custody:  custody,
		balances: solidity.NewMapping[holding, *big.Int](sctx, slotBalances),
		supplies: solidity.NewMapping[cybar.Address, *big.Int](sctx, slotSupplies),
	}
}

// Custody returns the account that holds transferred-in funds.
func (l *Ledger) Custody() cybar.Address {
	return l.custody
}

func (l *Ledger) BalanceOf(asset, account cybar.Address) (*big.Int, error) {
	bal, err := l.balances.Get(holding{asset, account})
	if err != nil {
		return nil, errors.Wrap(err, "get balance")
	}
	return bal, nil
}

// TotalSupply returns minted minus burned amount of asset.
func (l *Ledger) TotalSupply(asset cybar.Address) (*big.Int, error) {
	supply, err := l.supplies.Get(asset)
	if err != nil {
		return nil, errors.Wrap(err, "get supply")
	}
	return supply, nil
}

// Transfer moves amount of asset between two accounts.
func (l *Ledger) Transfer(asset, from, to cybar.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if amount.Sign() == 0 || from == to {
		return nil
	}
	if err := l.debit(asset, from, amount); err != nil {
		return err
	}
	if err := l.credit(asset, to, amount); err != nil {
		return err
	}
	metricAssetOps().AddWithLabel(1, map[string]string{"op": "transfer"})
	logger.Trace("transfer", "asset", asset, "from", from, "to", to, "amount", amount)
	return nil
}

func (l *Ledger) TransferIn(asset, from cybar.Address, amount *big.Int) error {
	return l.Transfer(asset, from, l.custody, amount)
}

func (l *Ledger) TransferOut(asset, to cybar.Address, amount *big.Int) error {
	return l.Transfer(asset, l.custody, to, amount)
}

func (l *Ledger) Mint(asset, to cybar.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return nil
	}
	if err := l.credit(asset, to, amount); err != nil {
		return err
	}
	supply, err := l.TotalSupply(asset)
	if err != nil {
		return err
	}
	if err := l.supplies.Set(asset, supply.Add(supply, amount)); err != nil {
		return errors.Wrap(err, "set supply")
	}
	metricAssetOps().AddWithLabel(1, map[string]string{"op": "mint"})
	logger.Trace("mint", "asset", asset, "to", to, "amount", amount)
	return nil
}

func (l *Ledger) Burn(asset, from cybar.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return nil
	}
	if err := l.debit(asset, from, amount); err != nil {
		return err
	}
	supply, err := l.TotalSupply(asset)
	if err != nil {
		return err
	}
	if err := l.supplies.Set(asset, supply.Sub(supply, amount)); err != nil {
		return errors.Wrap(err, "set supply")
	}
	metricAssetOps().AddWithLabel(1, map[string]string{"op": "burn"})
	logger.Trace("burn", "asset", asset, "from", from, "amount", amount)
	return nil
}

func (l *Ledger) credit(asset, account cybar.Address, amount *big.Int) error {
	bal, err := l.BalanceOf(asset, account)
	if err != nil {
		return err
	}
	if err := l.balances.Set(holding{asset, account}, bal.Add(bal, amount)); err != nil {
		return errors.Wrap(err, "set balance")
	}
	return nil
}

func (l *Ledger) debit(asset, account cybar.Address, amount *big.Int) error {
	bal, err := l.BalanceOf(asset, account)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return errors.WithMessagef(ErrInsufficientFunds, "%v of %v held by %v, need %v", bal, asset, account, amount)
	}
	if err := l.balances.Set(holding{asset, account}, bal.Sub(bal, amount)); err != nil {
		return errors.Wrap(err, "set balance")
	}
	return nil
}

func checkAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errors.Errorf("invalid amount %v", amount)
	}
	return nil
}
