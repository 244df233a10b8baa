// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package barkeeper implements the reward ledger: collateral pools that
// share an emission of the reward asset by weight, and a self-staking pool
// that compounds it.
package barkeeper

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/cybar-labs/cybar/asset"
	"github.com/cybar-labs/cybar/builtin/barkeeper/accrual"
	"github.com/cybar-labs/cybar/builtin/barkeeper/feeguard"
	"github.com/cybar-labs/cybar/builtin/barkeeper/pools"
	"github.com/cybar-labs/cybar/builtin/barkeeper/positions"
	"github.com/cybar-labs/cybar/builtin/barkeeper/reverts"
	"github.com/cybar-labs/cybar/builtin/barkeeper/vault"
	"github.com/cybar-labs/cybar/builtin/solidity"
	"github.com/cybar-labs/cybar/cybar"
	"github.com/cybar-labs/cybar/log"
	"github.com/cybar-labs/cybar/state"
	"github.com/cybar-labs/cybar/xenv"
)

var (
	logger = log.WithContext("pkg", "barkeeper")

	// DevCutDivisor splits 1/n of every pool reward to the dev address.
	DevCutDivisor = solidity.NewConfigVariable("barkeeper-dev-cut-divisor", cybar.DefaultDevCutDivisor)

	slotOwner = cybar.BytesToBytes32([]byte("owner"))
)

func SetLogger(l log.Logger) {
	logger = l
}

// Barkeeper is the ledger facade. Every mutating call is atomic: when it
// fails, none of its writes, asset movements included, remain in state.
type Barkeeper struct {
	state *state.State
	owner *solidity.Address

	pools     *pools.Service
	positions *positions.Service
	engine    *accrual.Engine
	guard     *feeguard.Guard
	vault     *vault.Vault
	assets    asset.Assets
}

// New binds the ledger stored at addr. Assets must treat addr as custody.
func New(addr cybar.Address, st *state.State, assets asset.Assets) *Barkeeper {
	sctx := solidity.NewContext(addr, st)

	// debug overrides for testing
	DevCutDivisor.Override(sctx)

	guarded := &guardedAssets{inner: assets}
	poolsService := pools.New(sctx)
	positionsService := positions.New(sctx)
	engine := accrual.New(sctx, poolsService, positionsService, guarded, DevCutDivisor.Get())

	return &Barkeeper{
		state:     st,
		owner:     solidity.NewAddress(sctx, slotOwner),
		pools:     poolsService,
		positions: positionsService,
		engine:    engine,
		guard:     feeguard.New(sctx, poolsService),
		vault:     vault.New(sctx, poolsService, positionsService, engine, guarded),
		assets:    guarded,
	}
}

// Initialize applies cfg and creates the self-staking pool as pool 0.
func (b *Barkeeper) Initialize(env *xenv.Environment, cfg Config) error {
	return b.atomic("initialize", func() error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		n, err := b.pools.Len()
		if err != nil {
			return err
		}
		if n > 0 {
			return reverts.ErrAlreadyInitialized
		}
		b.owner.Set(&cfg.Owner)
		b.guard.SetTreasury(cfg.Treasury)
		b.vault.SetReceiptAsset(cfg.ReceiptAsset)
		emission := &accrual.Emission{
			BaseRewardPerBlock: new(big.Int).Set(cfg.BaseRewardPerBlock),
			Multiplier:         cfg.Multiplier,
			StartBlock:         cfg.StartBlock,
		}
		if err := b.engine.Initialize(cfg.RewardAsset, cfg.Dev, emission); err != nil {
			return err
		}
		if _, err := b.pools.Add(pools.KindSelfStaking, cfg.StakingWeight, cfg.RewardAsset, env.Number(), cfg.StartBlock); err != nil {
			return err
		}
		logger.Info("ledger initialized",
			"owner", cfg.Owner,
			"reward", cfg.RewardAsset,
			"receipt", cfg.ReceiptAsset,
			"rewardPerBlock", emission.RewardPerBlock(),
			"startBlock", cfg.StartBlock,
		)
		return nil
	})
}

// atomic runs fn inside a state checkpoint and reverts to it on error.
func (b *Barkeeper) atomic(op string, fn func() error) error {
	rev := b.state.NewCheckpoint()
	if err := fn(); err != nil {
		b.state.RevertTo(rev)
		result := "error"
		if reverts.IsRevertErr(err) {
			result = "revert"
		}
		metricCalls().AddWithLabel(1, map[string]string{"op": op, "result": result})
		logger.Debug("call reverted", "op", op, "err", err)
		return err
	}
	metricCalls().AddWithLabel(1, map[string]string{"op": op, "result": "ok"})
	return nil
}

func (b *Barkeeper) onlyOwner(env *xenv.Environment) error {
	owner, err := b.owner.Get()
	if err != nil {
		return errors.Wrap(err, "load owner")
	}
	if env.Caller() != owner {
		return reverts.ErrUnauthorized
	}
	return nil
}

func checkAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return reverts.ErrInvalidAmount
	}
	return nil
}

// Add registers a standard pool for asset. With withSync every pool is
// synced first, so the change of total weight is not retroactive.
func (b *Barkeeper) Add(env *xenv.Environment, weight uint64, asset cybar.Address, withSync bool) (pools.ID, error) {
	var id pools.ID
	err := b.atomic("add", func() error {
		if err := b.onlyOwner(env); err != nil {
			return err
		}
		if withSync {
			if err := b.engine.SyncAll(env.Number()); err != nil {
				return err
			}
		}
		em, err := b.engine.Emission()
		if err != nil {
			return err
		}
		if id, err = b.pools.Add(pools.KindStandard, weight, asset, env.Number(), em.StartBlock); err != nil {
			return err
		}
		logger.Info("pool added", "pool", uint64(id), "asset", asset, "weight", weight)
		return nil
	})
	return id, err
}

// Set changes the weight of a pool. A weight of zero stops its emission.
func (b *Barkeeper) Set(env *xenv.Environment, id pools.ID, weight uint64, withSync bool) error {
	return b.atomic("set", func() error {
		if err := b.onlyOwner(env); err != nil {
			return err
		}
		if withSync {
			if err := b.engine.SyncAll(env.Number()); err != nil {
				return err
			}
		}
		if err := b.pools.SetWeight(id, weight); err != nil {
			return err
		}
		logger.Info("pool weight set", "pool", uint64(id), "weight", weight)
		return nil
	})
}

// SetWithdrawal sets the withdrawal fee policy of a pool.
func (b *Barkeeper) SetWithdrawal(env *xenv.Environment, id pools.ID, feeBP, window uint64) error {
	return b.atomic("set-withdrawal", func() error {
		if err := b.onlyOwner(env); err != nil {
			return err
		}
		return b.guard.SetPolicy(id, feeBP, window)
	})
}

// UpdateMultiplier syncs every pool at the current block, then changes the
// emission multiplier.
func (b *Barkeeper) UpdateMultiplier(env *xenv.Environment, multiplier uint64) error {
	return b.atomic("update-multiplier", func() error {
		if err := b.onlyOwner(env); err != nil {
			return err
		}
		if err := b.engine.SyncAll(env.Number()); err != nil {
			return err
		}
		if err := b.engine.SetMultiplier(multiplier); err != nil {
			return err
		}
		logger.Info("multiplier updated", "multiplier", multiplier, "block", env.Number())
		return nil
	})
}

// Dev hands the dev address over. Only the current dev may call it.
func (b *Barkeeper) Dev(env *xenv.Environment, dev cybar.Address) error {
	return b.atomic("dev", func() error {
		current, err := b.engine.Dev()
		if err != nil {
			return err
		}
		if env.Caller() != current {
			return reverts.ErrUnauthorized
		}
		b.engine.SetDev(dev)
		return nil
	})
}

func (b *Barkeeper) TransferOwnership(env *xenv.Environment, owner cybar.Address) error {
	return b.atomic("transfer-ownership", func() error {
		if err := b.onlyOwner(env); err != nil {
			return err
		}
		b.owner.Set(&owner)
		logger.Info("ownership transferred", "from", env.Caller(), "to", owner)
		return nil
	})
}

// standardPool syncs the pool, which must take deposits of a collateral asset.
func (b *Barkeeper) standardPool(env *xenv.Environment, id pools.ID) (*pools.Pool, error) {
	pool, err := b.pools.Get(id)
	if err != nil {
		return nil, err
	}
	if pool.Kind != pools.KindStandard {
		return nil, reverts.ErrInvalidPool
	}
	return b.engine.SyncPool(id, env.Number())
}

// harvest pays the pending reward of pos out to account, at most the
// reward reserve.
func (b *Barkeeper) harvest(account cybar.Address, pool *pools.Pool, pos *positions.Position) error {
	pending := pos.Pending(pool.AccRewardPerShare)
	if pending.Sign() <= 0 {
		return nil
	}
	reserve, err := b.vault.RewardReserve()
	if err != nil {
		return err
	}
	if pending.Cmp(reserve) > 0 {
		logger.Debug("pending reward capped by reserve", "account", account, "pending", pending, "reserve", reserve)
		pending = reserve
	}
	rewardAsset, err := b.engine.RewardAsset()
	if err != nil {
		return err
	}
	return b.assets.TransferOut(rewardAsset, account, pending)
}

func (b *Barkeeper) save(id pools.ID, account cybar.Address, pool *pools.Pool, pos *positions.Position) error {
	pos.SettleDebt(pool.AccRewardPerShare)
	if err := b.positions.Set(uint64(id), account, pos); err != nil {
		return err
	}
	if err := b.pools.Update(id, pool); err != nil {
		return err
	}
	observeTotalStaked(id, pool.TotalStaked)
	return nil
}

// Deposit harvests pending reward and adds amount of collateral to the
// caller's position. A zero amount only harvests.
func (b *Barkeeper) Deposit(env *xenv.Environment, id pools.ID, amount *big.Int) error {
	return b.atomic("deposit", func() error {
		if err := checkAmount(amount); err != nil {
			return err
		}
		account := env.Caller()
		pool, err := b.standardPool(env, id)
		if err != nil {
			return err
		}
		pos, err := b.positions.Get(uint64(id), account)
		if err != nil {
			return err
		}
		if pos.Amount.Sign() > 0 {
			if err := b.harvest(account, pool, pos); err != nil {
				return err
			}
		}
		if amount.Sign() > 0 {
			if err := b.assets.TransferIn(pool.Asset, account, amount); err != nil {
				return err
			}
			pos.Amount.Add(pos.Amount, amount)
			pool.TotalStaked.Add(pool.TotalStaked, amount)
			pos.LastDepositTime = env.Time()
		}
		logger.Debug("deposit", "pool", uint64(id), "account", account, "amount", amount)
		return b.save(id, account, pool, pos)
	})
}

// Withdraw harvests pending reward and returns amount of collateral, less
// the withdrawal fee which goes to the treasury.
func (b *Barkeeper) Withdraw(env *xenv.Environment, id pools.ID, amount *big.Int) error {
	return b.atomic("withdraw", func() error {
		if err := checkAmount(amount); err != nil {
			return err
		}
		account := env.Caller()
		pool, err := b.standardPool(env, id)
		if err != nil {
			return err
		}
		pos, err := b.positions.Get(uint64(id), account)
		if err != nil {
			return err
		}
		if amount.Cmp(pos.Amount) > 0 {
			return reverts.ErrInsufficientBalance
		}
		if err := b.harvest(account, pool, pos); err != nil {
			return err
		}
		if amount.Sign() > 0 {
			net, fee := feeguard.Apply(pool, pos, amount, env.Time())
			if err := b.assets.TransferOut(pool.Asset, account, net); err != nil {
				return err
			}
			if fee.Sign() > 0 {
				treasury, err := b.guard.Treasury()
				if err != nil {
					return err
				}
				if err := b.assets.TransferOut(pool.Asset, treasury, fee); err != nil {
					return err
				}
				if fee.IsInt64() {
					metricFees().Observe(fee.Int64())
				}
			}
			pos.Amount.Sub(pos.Amount, amount)
			pool.TotalStaked.Sub(pool.TotalStaked, amount)
			logger.Debug("withdraw", "pool", uint64(id), "account", account, "amount", amount, "fee", fee)
		}
		return b.save(id, account, pool, pos)
	})
}

// EnterStaking stakes amount of the reward asset into pool 0. Compounded
// reward is minted as receipts along with amount.
func (b *Barkeeper) EnterStaking(env *xenv.Environment, amount *big.Int) error {
	return b.atomic("enter-staking", func() error {
		if err := checkAmount(amount); err != nil {
			return err
		}
		if err := b.vault.Enter(env, amount); err != nil {
			return err
		}
		logger.Debug("enter staking", "account", env.Caller(), "amount", amount)
		return b.observeStaking()
	})
}

// LeaveStaking unstakes amount of the reward asset from pool 0.
func (b *Barkeeper) LeaveStaking(env *xenv.Environment, amount *big.Int) error {
	return b.atomic("leave-staking", func() error {
		if err := checkAmount(amount); err != nil {
			return err
		}
		if err := b.vault.Leave(env, amount); err != nil {
			return err
		}
		logger.Debug("leave staking", "account", env.Caller(), "amount", amount)
		return b.observeStaking()
	})
}

func (b *Barkeeper) observeStaking() error {
	pool, err := b.pools.Get(vault.StakingPool)
	if err != nil {
		return err
	}
	observeTotalStaked(vault.StakingPool, pool.TotalStaked)
	return nil
}

// EmergencyWithdraw returns the caller's whole deposit without reward and
// without fee. Pending reward is forfeited. The pool is not synced.
func (b *Barkeeper) EmergencyWithdraw(env *xenv.Environment, id pools.ID) error {
	return b.atomic("emergency-withdraw", func() error {
		account := env.Caller()
		pool, err := b.pools.Get(id)
		if err != nil {
			return err
		}
		pos, err := b.positions.Get(uint64(id), account)
		if err != nil {
			return err
		}
		amount := new(big.Int).Set(pos.Amount)

		pool.TotalStaked.Sub(pool.TotalStaked, amount)
		pos.Amount.SetInt64(0)
		pos.RewardDebt.SetInt64(0)
		if err := b.positions.Set(uint64(id), account, pos); err != nil {
			return err
		}
		if err := b.pools.Update(id, pool); err != nil {
			return err
		}
		if amount.Sign() > 0 {
			if err := b.assets.TransferOut(pool.Asset, account, amount); err != nil {
				return err
			}
			if pool.Kind == pools.KindSelfStaking {
				if err := b.vault.Burn(account, amount); err != nil {
					return err
				}
			}
		}
		observeTotalStaked(id, pool.TotalStaked)
		logger.Info("emergency withdraw", "pool", uint64(id), "account", account, "amount", amount)
		return nil
	})
}
