// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package feeguard

import (
	"math/big"

	"github.com/cybar-labs/cybar/builtin/barkeeper/pools"
	"github.com/cybar-labs/cybar/builtin/barkeeper/positions"
	"github.com/cybar-labs/cybar/builtin/barkeeper/reverts"
	"github.com/cybar-labs/cybar/builtin/solidity"
	"github.com/cybar-labs/cybar/cybar"
)

var slotTreasury = cybar.BytesToBytes32([]byte("treasury"))

// Guard charges a fee on withdrawals made shortly after a deposit.
type Guard struct {
	pools    *pools.Service
	treasury *solidity.Address
}

func New(sctx *solidity.Context, pools *pools.Service) *Guard {
	return &Guard{
		pools:    pools,
		treasury: solidity.NewAddress(sctx, slotTreasury),
	}
}

// Treasury returns the recipient of withdrawal fees.
func (g *Guard) Treasury() (cybar.Address, error) {
	return g.treasury.Get()
}

func (g *Guard) SetTreasury(treasury cybar.Address) {
	g.treasury.Set(&treasury)
}

// SetPolicy sets the fee and the window of a pool. It applies to every
// later withdrawal, including those of existing deposits.
func (g *Guard) SetPolicy(id pools.ID, feeBP, window uint64) error {
	if feeBP > cybar.MaxWithdrawalFeeBP {
		return reverts.ErrInvalidFee
	}
	if window > cybar.MaxWithdrawalFeeWindow {
		return reverts.ErrInvalidFeeWindow
	}
	pool, err := g.pools.Get(id)
	if err != nil {
		return err
	}
	pool.WithdrawalFeeBP = feeBP
	pool.WithdrawalFeeWindow = window
	return g.pools.Update(id, pool)
}

// Apply splits gross into what the account receives and the fee. The fee is
// charged while now - LastDepositTime < window; a now earlier than the last
// deposit counts as inside the window.
func Apply(pool *pools.Pool, pos *positions.Position, gross *big.Int, now uint64) (net, fee *big.Int) {
	fee = new(big.Int)
	if pool.WithdrawalFeeBP > 0 && (now < pos.LastDepositTime || now-pos.LastDepositTime < pool.WithdrawalFeeWindow) {
		fee.Mul(gross, new(big.Int).SetUint64(pool.WithdrawalFeeBP))
		fee.Div(fee, new(big.Int).SetUint64(cybar.BasisPoints))
	}
	return new(big.Int).Sub(gross, fee), fee
}
