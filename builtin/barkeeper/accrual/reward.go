// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accrual

import (
	"math/big"

	"github.com/cybar-labs/cybar/builtin/barkeeper/pools"
	"github.com/cybar-labs/cybar/cybar"
)

// Emission is the global reward rate.
type Emission struct {
	BaseRewardPerBlock *big.Int
	Multiplier         uint64
	StartBlock         uint32
}

// RewardPerBlock returns base * multiplier.
func (e *Emission) RewardPerBlock() *big.Int {
	if e.BaseRewardPerBlock == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(e.BaseRewardPerBlock, new(big.Int).SetUint64(e.Multiplier))
}

// Reward is the outcome of accruing a pool up to a block.
type Reward struct {
	Pool    *big.Int // total emitted for the pool
	Dev     *big.Int // dev cut, Pool / divisor
	Stakers *big.Int // Pool - Dev
	Acc     *big.Int // updated accumulated reward per share
}

// Compute accrues pool from its last reward block to block. Every division
// floors and happens after the multiplications it depends on:
//
//	pool    = blocks * rewardPerBlock * weight / totalWeight
//	dev     = pool / devCutDivisor
//	acc    += (pool - dev) * AccScale / totalStaked
//
// Nothing is emitted when the pool is empty, the total weight is zero or
// block is not past the last reward block.
func Compute(pool *pools.Pool, block uint32, rewardPerBlock *big.Int, totalWeight uint64, devCutDivisor uint32) *Reward {
	r := &Reward{
		Pool:    new(big.Int),
		Dev:     new(big.Int),
		Stakers: new(big.Int),
		Acc:     new(big.Int).Set(pool.AccRewardPerShare),
	}
	if block <= pool.LastRewardBlock || totalWeight == 0 || pool.TotalStaked.Sign() <= 0 {
		return r
	}
	blocks := new(big.Int).SetUint64(uint64(block - pool.LastRewardBlock))

	r.Pool.Mul(blocks, rewardPerBlock)
	r.Pool.Mul(r.Pool, new(big.Int).SetUint64(pool.Weight))
	r.Pool.Div(r.Pool, new(big.Int).SetUint64(totalWeight))
	if r.Pool.Sign() == 0 {
		return r
	}

	if devCutDivisor != 0 {
		r.Dev.Div(r.Pool, big.NewInt(int64(devCutDivisor)))
	}
	r.Stakers.Sub(r.Pool, r.Dev)

	inc := new(big.Int).Mul(r.Stakers, cybar.AccScale)
	inc.Div(inc, pool.TotalStaked)
	r.Acc.Add(r.Acc, inc)
	return r
}
