// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accrual

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/cybar-labs/cybar/asset"
	"github.com/cybar-labs/cybar/builtin/barkeeper/pools"
	"github.com/cybar-labs/cybar/builtin/barkeeper/positions"
	"github.com/cybar-labs/cybar/builtin/solidity"
	"github.com/cybar-labs/cybar/cybar"
	"github.com/cybar-labs/cybar/log"
	"github.com/cybar-labs/cybar/metrics"
)

var (
	slotEmission    = cybar.BytesToBytes32([]byte("emission"))
	slotDev         = cybar.BytesToBytes32([]byte("dev"))
	slotRewardAsset = cybar.BytesToBytes32([]byte("reward-asset"))

	logger = log.WithContext("pkg", "accrual")

	metricMintedReward = metrics.LazyLoadCounterVec("barkeeper_minted_reward", []string{"to"})
	metricPoolSyncs    = metrics.LazyLoadCounter("barkeeper_pool_syncs_count")
)

func SetLogger(l log.Logger) {
	logger = l
}

// Engine emits reward into pools and tracks what each position is owed.
type Engine struct {
	custody       cybar.Address
	devCutDivisor uint32

	pools     *pools.Service
	positions *positions.Service
	assets    asset.Assets

	emission    *solidity.Raw[*Emission]
	dev         *solidity.Address
	rewardAsset *solidity.Address
}

// New creates an engine that mints the stakers' share of reward to the
// contract address of sctx.
func New(
	sctx *solidity.Context,
	pools *pools.Service,
	positions *positions.Service,
	assets asset.Assets,
	devCutDivisor uint32,
) *Engine {
	return &Engine{
		custody:       sctx.Address(),
		devCutDivisor: devCutDivisor,
		pools:         pools,
		positions:     positions,
		assets:        assets,
		emission:      solidity.NewRaw[*Emission](sctx, slotEmission),
		dev:           solidity.NewAddress(sctx, slotDev),
		rewardAsset:   solidity.NewAddress(sctx, slotRewardAsset),
	}
}

func (e *Engine) Initialize(rewardAsset, dev cybar.Address, emission *Emission) error {
	e.rewardAsset.Set(&rewardAsset)
	e.dev.Set(&dev)
	if err := e.emission.Set(emission); err != nil {
		return errors.Wrap(err, "failed to set emission")
	}
	return nil
}

func (e *Engine) Emission() (*Emission, error) {
	em, err := e.emission.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get emission")
	}
	if em.BaseRewardPerBlock == nil {
		em.BaseRewardPerBlock = new(big.Int)
	}
	return em, nil
}

func (e *Engine) RewardPerBlock() (*big.Int, error) {
	em, err := e.Emission()
	if err != nil {
		return nil, err
	}
	return em.RewardPerBlock(), nil
}

// SetMultiplier changes the emission rate. Every pool must have been synced
// to the current block before, otherwise the new rate applies retroactively.
func (e *Engine) SetMultiplier(multiplier uint64) error {
	em, err := e.Emission()
	if err != nil {
		return err
	}
	em.Multiplier = multiplier
	if err := e.emission.Set(em); err != nil {
		return errors.Wrap(err, "failed to set emission")
	}
	return nil
}

func (e *Engine) Dev() (cybar.Address, error) {
	return e.dev.Get()
}

func (e *Engine) SetDev(dev cybar.Address) {
	e.dev.Set(&dev)
}

func (e *Engine) RewardAsset() (cybar.Address, error) {
	return e.rewardAsset.Get()
}

// SyncPool accrues reward of the pool up to block, mints it and returns
// the updated pool.
func (e *Engine) SyncPool(id pools.ID, block uint32) (*pools.Pool, error) {
	pool, err := e.pools.Get(id)
	if err != nil {
		return nil, err
	}
	if block <= pool.LastRewardBlock {
		return pool, nil
	}
	r, err := e.compute(pool, block)
	if err != nil {
		return nil, err
	}
	if r.Pool.Sign() > 0 {
		if err := e.mint(r); err != nil {
			return nil, err
		}
		pool.AccRewardPerShare = r.Acc
	}
	pool.LastRewardBlock = block
	if err := e.pools.Update(id, pool); err != nil {
		return nil, err
	}
	metricPoolSyncs().Add(1)
	logger.Trace("pool synced", "pool", uint64(id), "block", block, "reward", r.Pool, "acc", pool.AccRewardPerShare)
	return pool, nil
}

// SyncAll syncs every pool to block.
func (e *Engine) SyncAll(block uint32) error {
	return e.pools.Each(func(id pools.ID, _ *pools.Pool) error {
		_, err := e.SyncPool(id, block)
		return err
	})
}

// Pending returns the reward account would harvest from pool at block.
// Nothing is written.
func (e *Engine) Pending(id pools.ID, account cybar.Address, block uint32) (*big.Int, error) {
	pool, err := e.pools.Get(id)
	if err != nil {
		return nil, err
	}
	pos, err := e.positions.Get(uint64(id), account)
	if err != nil {
		return nil, err
	}
	r, err := e.compute(pool, block)
	if err != nil {
		return nil, err
	}
	return pos.Pending(r.Acc), nil
}

func (e *Engine) compute(pool *pools.Pool, block uint32) (*Reward, error) {
	rpb, err := e.RewardPerBlock()
	if err != nil {
		return nil, err
	}
	totalWeight, err := e.pools.TotalWeight()
	if err != nil {
		return nil, err
	}
	return Compute(pool, block, rpb, totalWeight, e.devCutDivisor), nil
}

func (e *Engine) mint(r *Reward) error {
	rewardAsset, err := e.RewardAsset()
	if err != nil {
		return err
	}
	dev, err := e.Dev()
	if err != nil {
		return err
	}
	if r.Dev.Sign() > 0 {
		if err := e.assets.Mint(rewardAsset, dev, r.Dev); err != nil {
			return err
		}
		addMinted("dev", r.Dev)
	}
	if err := e.assets.Mint(rewardAsset, e.custody, r.Stakers); err != nil {
		return err
	}
	addMinted("stakers", r.Stakers)
	return nil
}

func addMinted(to string, amount *big.Int) {
	if amount.IsInt64() {
		metricMintedReward().AddWithLabel(amount.Int64(), map[string]string{"to": to})
	}
}
