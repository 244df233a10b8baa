// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vault implements the self-staking pool: reward is compounded into
// principal on every interaction, and a receipt asset is minted one to one
// with the principal.
package vault

import (
	"math/big"

	"github.com/cybar-labs/cybar/asset"
	"github.com/cybar-labs/cybar/builtin/barkeeper/accrual"
	"github.com/cybar-labs/cybar/builtin/barkeeper/pools"
	"github.com/cybar-labs/cybar/builtin/barkeeper/positions"
	"github.com/cybar-labs/cybar/builtin/barkeeper/reverts"
	"github.com/cybar-labs/cybar/builtin/solidity"
	"github.com/cybar-labs/cybar/cybar"
	"github.com/cybar-labs/cybar/xenv"
)

// StakingPool is the id of the self-staking pool.
const StakingPool pools.ID = 0

var slotReceiptAsset = cybar.BytesToBytes32([]byte("receipt-asset"))

type Vault struct {
	custody      cybar.Address
	pools        *pools.Service
	positions    *positions.Service
	engine       *accrual.Engine
	assets       asset.Assets
	receiptAsset *solidity.Address
}

func New(
	sctx *solidity.Context,
	pools *pools.Service,
	positions *positions.Service,
	engine *accrual.Engine,
	assets asset.Assets,
) *Vault {
	return &Vault{
		custody:      sctx.Address(),
		pools:        pools,
		positions:    positions,
		engine:       engine,
		assets:       assets,
		receiptAsset: solidity.NewAddress(sctx, slotReceiptAsset),
	}
}

func (v *Vault) ReceiptAsset() (cybar.Address, error) {
	return v.receiptAsset.Get()
}

func (v *Vault) SetReceiptAsset(receipt cybar.Address) {
	v.receiptAsset.Set(&receipt)
}

// Enter stakes amount of the reward asset for the caller, after compounding
// its pending reward. Receipts are minted for amount and for the compounded
// reward, so the receipt balance always equals the principal.
func (v *Vault) Enter(env *xenv.Environment, amount *big.Int) error {
	account := env.Caller()
	s, err := v.compound(env)
	if err != nil {
		return err
	}
	if amount.Sign() > 0 {
		if err := v.assets.TransferIn(s.rewardAsset, account, amount); err != nil {
			return err
		}
		if err := v.assets.Mint(s.receiptAsset, account, amount); err != nil {
			return err
		}
		s.pos.Amount.Add(s.pos.Amount, amount)
		s.pool.TotalStaked.Add(s.pool.TotalStaked, amount)
		s.pos.LastDepositTime = env.Time()
	}
	return v.save(account, s)
}

// Leave unstakes amount for the caller, after compounding its pending
// reward. The receipts are burned and no withdrawal fee is charged.
func (v *Vault) Leave(env *xenv.Environment, amount *big.Int) error {
	account := env.Caller()
	s, err := v.compound(env)
	if err != nil {
		return err
	}
	if amount.Cmp(s.pos.Amount) > 0 {
		return reverts.ErrInsufficientStake
	}
	if amount.Sign() > 0 {
		if err := v.assets.Burn(s.receiptAsset, account, amount); err != nil {
			return err
		}
		if err := v.assets.TransferOut(s.rewardAsset, account, amount); err != nil {
			return err
		}
		s.pos.Amount.Sub(s.pos.Amount, amount)
		s.pool.TotalStaked.Sub(s.pool.TotalStaked, amount)
	}
	return v.save(account, s)
}

// Burn destroys the receipts mirroring amount of principal being withdrawn
// without reward.
func (v *Vault) Burn(account cybar.Address, amount *big.Int) error {
	receipt, err := v.ReceiptAsset()
	if err != nil {
		return err
	}
	return v.assets.Burn(receipt, account, amount)
}

// RewardReserve returns the reward asset held in custody beyond the staked
// principal, which is what reward can be paid from.
func (v *Vault) RewardReserve() (*big.Int, error) {
	rewardAsset, err := v.engine.RewardAsset()
	if err != nil {
		return nil, err
	}
	pool, err := v.pools.Get(StakingPool)
	if err != nil {
		return nil, err
	}
	return v.reserve(rewardAsset, pool.TotalStaked)
}

func (v *Vault) reserve(rewardAsset cybar.Address, staked *big.Int) (*big.Int, error) {
	bal, err := v.assets.BalanceOf(rewardAsset, v.custody)
	if err != nil {
		return nil, err
	}
	bal.Sub(bal, staked)
	if bal.Sign() < 0 {
		bal.SetInt64(0)
	}
	return bal, nil
}

type session struct {
	pool         *pools.Pool
	pos          *positions.Position
	rewardAsset  cybar.Address
	receiptAsset cybar.Address
}

// compound syncs the staking pool and moves the caller's pending reward into
// principal. The reward is already held in custody, only receipts are minted.
func (v *Vault) compound(env *xenv.Environment) (*session, error) {
	pool, err := v.engine.SyncPool(StakingPool, env.Number())
	if err != nil {
		return nil, err
	}
	s := &session{pool: pool}
	if s.rewardAsset, err = v.engine.RewardAsset(); err != nil {
		return nil, err
	}
	if s.receiptAsset, err = v.ReceiptAsset(); err != nil {
		return nil, err
	}
	if s.pos, err = v.positions.Get(uint64(StakingPool), env.Caller()); err != nil {
		return nil, err
	}

	pending := s.pos.Pending(pool.AccRewardPerShare)
	if pending.Sign() > 0 {
		// floored debts can leave the reserve a few units short
		reserve, err := v.reserve(s.rewardAsset, pool.TotalStaked)
		if err != nil {
			return nil, err
		}
		if pending.Cmp(reserve) > 0 {
			pending = reserve
		}
		if err := v.assets.Mint(s.receiptAsset, env.Caller(), pending); err != nil {
			return nil, err
		}
		s.pos.Amount.Add(s.pos.Amount, pending)
		pool.TotalStaked.Add(pool.TotalStaked, pending)
	}
	return s, nil
}

func (v *Vault) save(account cybar.Address, s *session) error {
	s.pos.SettleDebt(s.pool.AccRewardPerShare)
	if err := v.positions.Set(uint64(StakingPool), account, s.pos); err != nil {
		return err
	}
	return v.pools.Update(StakingPool, s.pool)
}
