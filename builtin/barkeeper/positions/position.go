// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package positions

import (
	"math/big"

	"github.com/cybar-labs/cybar/cybar"
)

// Position is the stake of one account in one pool.
type Position struct {
	Amount          *big.Int
	RewardDebt      *big.Int
	LastDepositTime uint64
}

func (p *Position) normalize() *Position {
	if p.Amount == nil {
		p.Amount = new(big.Int)
	}
	if p.RewardDebt == nil {
		p.RewardDebt = new(big.Int)
	}
	return p
}

// IsEmpty returns whether the position holds nothing.
func (p *Position) IsEmpty() bool {
	return p.Amount.Sign() == 0 && p.RewardDebt.Sign() == 0 && p.LastDepositTime == 0
}

// Accrued returns amount * acc / AccScale.
func (p *Position) Accrued(acc *big.Int) *big.Int {
	accrued := new(big.Int).Mul(p.Amount, acc)
	return accrued.Div(accrued, cybar.AccScale)
}

// Pending returns the reward owed at the given accumulated reward per share.
func (p *Position) Pending(acc *big.Int) *big.Int {
	pending := p.Accrued(acc)
	return pending.Sub(pending, p.RewardDebt)
}

// SettleDebt marks everything accrued up to acc as paid.
func (p *Position) SettleDebt(acc *big.Int) {
	p.RewardDebt = p.Accrued(acc)
}
