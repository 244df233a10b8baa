// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accrual

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybar-labs/cybar/asset"
	"github.com/cybar-labs/cybar/builtin/barkeeper/pools"
	"github.com/cybar-labs/cybar/builtin/barkeeper/positions"
	"github.com/cybar-labs/cybar/builtin/solidity"
	"github.com/cybar-labs/cybar/cybar"
	"github.com/cybar-labs/cybar/lvldb"
	"github.com/cybar-labs/cybar/state"
)

var (
	contract = cybar.BytesToAddress([]byte("barkeeper"))
	reward   = cybar.BytesToAddress([]byte("cybar"))
	dev      = cybar.BytesToAddress([]byte("dev"))
	alice    = cybar.BytesToAddress([]byte("alice"))
	bob      = cybar.BytesToAddress([]byte("bob"))
)

func TestCompute(t *testing.T) {
	pool := func(weight uint64, last uint32, staked int64) *pools.Pool {
		return &pools.Pool{
			Weight:            weight,
			LastRewardBlock:   last,
			AccRewardPerShare: big.NewInt(0),
			TotalStaked:       big.NewInt(staked),
		}
	}

	tests := []struct {
		name        string
		pool        *pools.Pool
		block       uint32
		rpb         int64
		totalWeight uint64
		poolReward  int64
		dev         int64
		acc         int64
	}{
		{"four blocks, quarter weight", pool(1000, 0, 2000), 4, 1000, 4000, 1000, 100, 450_000_000_000},
		{"same block", pool(1000, 4, 2000), 4, 1000, 4000, 0, 0, 0},
		{"earlier block", pool(1000, 4, 2000), 3, 1000, 4000, 0, 0, 0},
		{"empty pool", pool(1000, 0, 0), 10, 1000, 4000, 0, 0, 0},
		{"zero total weight", pool(0, 0, 10), 10, 1000, 0, 0, 0, 0},
		{"zero weight", pool(0, 0, 10), 10, 1000, 1000, 0, 0, 0},
		{"halted emission", pool(1000, 0, 10), 10, 0, 1000, 0, 0, 0},
		{"floored pool reward", pool(1, 0, 3), 1, 10, 3, 3, 0, 1_000_000_000_000},
		{"dev cut", pool(1, 0, 3), 1, 20, 1, 20, 2, 6_000_000_000_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Compute(tt.pool, tt.block, big.NewInt(tt.rpb), tt.totalWeight, cybar.DefaultDevCutDivisor)
			assert.Equal(t, tt.poolReward, r.Pool.Int64())
			assert.Equal(t, tt.dev, r.Dev.Int64())
			assert.Equal(t, tt.poolReward-tt.dev, r.Stakers.Int64())
			assert.Equal(t, tt.acc, r.Acc.Int64())
			assert.Equal(t, 0, tt.pool.AccRewardPerShare.Sign(), "input is not mutated")
		})
	}
}

func TestCompute_NoDevCut(t *testing.T) {
	pool := &pools.Pool{Weight: 1, AccRewardPerShare: big.NewInt(5), TotalStaked: big.NewInt(1)}
	r := Compute(pool, 1, big.NewInt(7), 1, 0)
	assert.Equal(t, 0, r.Dev.Sign())
	assert.Equal(t, big.NewInt(7), r.Stakers)
	assert.Equal(t, new(big.Int).Add(big.NewInt(5), new(big.Int).Mul(big.NewInt(7), cybar.AccScale)), r.Acc)
}

type fixture struct {
	engine    *Engine
	pools     *pools.Service
	positions *positions.Service
	ledger    *asset.Ledger
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.New(db)

	sctx := solidity.NewContext(contract, st)
	f := &fixture{
		pools:     pools.New(sctx),
		positions: positions.New(sctx),
		ledger:    asset.NewLedger(st, contract),
	}
	f.engine = New(sctx, f.pools, f.positions, f.ledger, cybar.DefaultDevCutDivisor)
	require.NoError(t, f.engine.Initialize(reward, dev, &Emission{
		BaseRewardPerBlock: big.NewInt(1000),
		Multiplier:         1,
	}))

	_, err = f.pools.Add(pools.KindSelfStaking, 1000, reward, 0, 0)
	require.NoError(t, err)
	for _, name := range []string{"lp-a", "lp-b", "lp-c"} {
		_, err = f.pools.Add(pools.KindStandard, 1000, cybar.BytesToAddress([]byte(name)), 0, 0)
		require.NoError(t, err)
	}
	return f
}

func (f *fixture) stake(t *testing.T, id pools.ID, account cybar.Address, amount int64) {
	pool, err := f.pools.Get(id)
	require.NoError(t, err)
	pos, err := f.positions.Get(uint64(id), account)
	require.NoError(t, err)

	pos.Amount.Add(pos.Amount, big.NewInt(amount))
	pos.SettleDebt(pool.AccRewardPerShare)
	pool.TotalStaked.Add(pool.TotalStaked, big.NewInt(amount))

	require.NoError(t, f.positions.Set(uint64(id), account, pos))
	require.NoError(t, f.pools.Update(id, pool))
}

func (f *fixture) balance(t *testing.T, account cybar.Address) int64 {
	bal, err := f.ledger.BalanceOf(reward, account)
	require.NoError(t, err)
	return bal.Int64()
}

func TestEngine_SyncPool(t *testing.T) {
	f := newFixture(t)
	f.stake(t, 1, alice, 1000)
	f.stake(t, 1, bob, 1000)

	pending, err := f.engine.Pending(1, alice, 4)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(450), pending)

	// pending does not write
	pool, err := f.pools.Get(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), pool.LastRewardBlock)
	assert.Equal(t, int64(0), f.balance(t, contract))

	pool, err = f.engine.SyncPool(1, 4)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), pool.LastRewardBlock)
	assert.Equal(t, big.NewInt(450_000_000_000), pool.AccRewardPerShare)
	assert.Equal(t, int64(100), f.balance(t, dev))
	assert.Equal(t, int64(900), f.balance(t, contract))

	for _, account := range []cybar.Address{alice, bob} {
		pending, err := f.engine.Pending(1, account, 4)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(450), pending)
	}

	// idempotent at the same block
	_, err = f.engine.SyncPool(1, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(900), f.balance(t, contract))
}

func TestEngine_SyncEmptyPool(t *testing.T) {
	f := newFixture(t)

	pool, err := f.engine.SyncPool(2, 100)
	require.NoError(t, err)
	assert.Equal(t, uint32(100), pool.LastRewardBlock)
	assert.Equal(t, 0, pool.AccRewardPerShare.Sign())
	assert.Equal(t, int64(0), f.balance(t, dev))
}

func TestEngine_Multiplier(t *testing.T) {
	f := newFixture(t)
	f.stake(t, 1, alice, 1000)

	require.NoError(t, f.engine.SyncAll(4))
	require.NoError(t, f.engine.SetMultiplier(0))

	rpb, err := f.engine.RewardPerBlock()
	require.NoError(t, err)
	assert.Equal(t, 0, rpb.Sign())

	pending, err := f.engine.Pending(1, alice, 400)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(900), pending, "halted emission keeps what accrued before")

	require.NoError(t, f.engine.SyncAll(400))
	require.NoError(t, f.engine.SetMultiplier(2))
	pending, err = f.engine.Pending(1, alice, 404)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(900+1800), pending)

	em, err := f.engine.Emission()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), em.Multiplier)
	assert.Equal(t, big.NewInt(1000), em.BaseRewardPerBlock)
}

func TestEngine_Dev(t *testing.T) {
	f := newFixture(t)

	got, err := f.engine.Dev()
	require.NoError(t, err)
	assert.Equal(t, dev, got)

	f.engine.SetDev(alice)
	got, err = f.engine.Dev()
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	rewardAsset, err := f.engine.RewardAsset()
	require.NoError(t, err)
	assert.Equal(t, reward, rewardAsset)
}
