// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"math"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/cybar-labs/cybar/builtin/barkeeper/pools"
	"github.com/cybar-labs/cybar/genesis"
	"github.com/cybar-labs/cybar/log"
)

func initAction(ctx *cli.Context) error {
	initLogger(ctx)
	initMetrics(ctx)
	defer dumpMetrics(ctx)

	gen, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	ok, err := s.initialized()
	if err != nil {
		return err
	}
	if ok {
		return errors.New("ledger already initialized")
	}
	if _, _, err := gen.Build(s.st); err != nil {
		return err
	}
	if err := s.commit(); err != nil {
		return err
	}
	log.Info("ledger created", "dir", ctx.String(dataDirFlag.Name), "owner", gen.Owner)
	return nil
}

func dumpGenesisAction(*cli.Context) error {
	data, err := genesis.NewDevnet().Encode()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func poolArg(ctx *cli.Context) pools.ID {
	return pools.ID(ctx.Uint64(poolFlag.Name))
}

func fundAction(ctx *cli.Context, s *session) error {
	asset, err := addressArg(ctx, assetFlag)
	if err != nil {
		return err
	}
	account, err := addressArg(ctx, accountFlag)
	if err != nil {
		return err
	}
	amount, err := amountArg(ctx)
	if err != nil {
		return err
	}
	return s.ledger.Mint(asset, account, amount)
}

func balanceAction(ctx *cli.Context, s *session) error {
	asset, err := addressArg(ctx, assetFlag)
	if err != nil {
		return err
	}
	account, err := addressArg(ctx, accountFlag)
	if err != nil {
		return err
	}
	bal, err := s.ledger.BalanceOf(asset, account)
	if err != nil {
		return err
	}
	fmt.Println(bal)
	return nil
}

func addAction(ctx *cli.Context, s *session) error {
	env, err := makeEnv(ctx)
	if err != nil {
		return err
	}
	asset, err := addressArg(ctx, assetFlag)
	if err != nil {
		return err
	}
	id, err := s.bk.Add(env, ctx.Uint64(weightFlag.Name), asset, ctx.Bool(withSyncFlag.Name))
	if err != nil {
		return err
	}
	fmt.Println(uint64(id))
	return nil
}

func setAction(ctx *cli.Context, s *session) error {
	env, err := makeEnv(ctx)
	if err != nil {
		return err
	}
	return s.bk.Set(env, poolArg(ctx), ctx.Uint64(weightFlag.Name), ctx.Bool(withSyncFlag.Name))
}

func setWithdrawalAction(ctx *cli.Context, s *session) error {
	env, err := makeEnv(ctx)
	if err != nil {
		return err
	}
	return s.bk.SetWithdrawal(env, poolArg(ctx), ctx.Uint64(feeFlag.Name), ctx.Uint64(windowFlag.Name))
}

func updateMultiplierAction(ctx *cli.Context, s *session) error {
	env, err := makeEnv(ctx)
	if err != nil {
		return err
	}
	return s.bk.UpdateMultiplier(env, ctx.Uint64(multiplierFlag.Name))
}

func devAction(ctx *cli.Context, s *session) error {
	env, err := makeEnv(ctx)
	if err != nil {
		return err
	}
	addr, err := addressArg(ctx, addressFlag)
	if err != nil {
		return err
	}
	return s.bk.Dev(env, addr)
}

func transferOwnershipAction(ctx *cli.Context, s *session) error {
	env, err := makeEnv(ctx)
	if err != nil {
		return err
	}
	addr, err := addressArg(ctx, addressFlag)
	if err != nil {
		return err
	}
	return s.bk.TransferOwnership(env, addr)
}

func depositAction(ctx *cli.Context, s *session) error {
	env, err := makeEnv(ctx)
	if err != nil {
		return err
	}
	amount, err := amountArg(ctx)
	if err != nil {
		return err
	}
	return s.bk.Deposit(env, poolArg(ctx), amount)
}

func withdrawAction(ctx *cli.Context, s *session) error {
	env, err := makeEnv(ctx)
	if err != nil {
		return err
	}
	amount, err := amountArg(ctx)
	if err != nil {
		return err
	}
	return s.bk.Withdraw(env, poolArg(ctx), amount)
}

func enterStakingAction(ctx *cli.Context, s *session) error {
	env, err := makeEnv(ctx)
	if err != nil {
		return err
	}
	amount, err := amountArg(ctx)
	if err != nil {
		return err
	}
	return s.bk.EnterStaking(env, amount)
}

func leaveStakingAction(ctx *cli.Context, s *session) error {
	env, err := makeEnv(ctx)
	if err != nil {
		return err
	}
	amount, err := amountArg(ctx)
	if err != nil {
		return err
	}
	return s.bk.LeaveStaking(env, amount)
}

func emergencyWithdrawAction(ctx *cli.Context, s *session) error {
	env, err := makeEnv(ctx)
	if err != nil {
		return err
	}
	return s.bk.EmergencyWithdraw(env, poolArg(ctx))
}

func pendingAction(ctx *cli.Context, s *session) error {
	account, err := addressArg(ctx, accountFlag)
	if err != nil {
		return err
	}
	block := ctx.Uint64(blockFlag.Name)
	if block > math.MaxUint32 {
		return errors.Errorf("block %d out of range", block)
	}
	pending, err := s.bk.PendingReward(poolArg(ctx), account, uint32(block))
	if err != nil {
		return err
	}
	fmt.Println(pending)
	return nil
}
