// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/cybar-labs/cybar/builtin/barkeeper"
	"github.com/cybar-labs/cybar/builtin/barkeeper/accrual"
	"github.com/cybar-labs/cybar/builtin/barkeeper/pools"
	"github.com/cybar-labs/cybar/builtin/barkeeper/positions"
	"github.com/cybar-labs/cybar/cybar"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

type globals struct {
	Owner        cybar.Address
	Dev          cybar.Address
	Treasury     cybar.Address
	RewardAsset  cybar.Address
	ReceiptAsset cybar.Address
	Emission     *accrual.Emission
	TotalWeight  uint64
}

type holding struct {
	Account  cybar.Address
	Position *positions.Position
}

func loadGlobals(bk *barkeeper.Barkeeper) (*globals, error) {
	var (
		g   globals
		err error
	)
	if g.Owner, err = bk.Owner(); err != nil {
		return nil, err
	}
	if g.Dev, err = bk.DevAddress(); err != nil {
		return nil, err
	}
	if g.Treasury, err = bk.Treasury(); err != nil {
		return nil, err
	}
	if g.RewardAsset, err = bk.RewardAsset(); err != nil {
		return nil, err
	}
	if g.ReceiptAsset, err = bk.ReceiptAsset(); err != nil {
		return nil, err
	}
	if g.Emission, err = bk.Emission(); err != nil {
		return nil, err
	}
	if g.TotalWeight, err = bk.TotalWeight(); err != nil {
		return nil, err
	}
	return &g, nil
}

func loadHoldings(bk *barkeeper.Barkeeper, id pools.ID) ([]holding, error) {
	holders, err := bk.Holders(id)
	if err != nil {
		return nil, err
	}
	list := make([]holding, 0, len(holders))
	for _, h := range holders {
		pos, err := bk.Position(id, h)
		if err != nil {
			return nil, err
		}
		list = append(list, holding{h, pos})
	}
	return list, nil
}

func inspect(w io.Writer, bk *barkeeper.Barkeeper, only *pools.ID) error {
	if only != nil {
		pool, err := bk.Pool(*only)
		if err != nil {
			return err
		}
		holdings, err := loadHoldings(bk, *only)
		if err != nil {
			return err
		}
		dumper.Fdump(w, pool, holdings)
		return nil
	}

	g, err := loadGlobals(bk)
	if err != nil {
		return err
	}
	n, err := bk.PoolLength()
	if err != nil {
		return err
	}
	list := make([]*pools.Pool, 0, n)
	for i := uint64(0); i < n; i++ {
		pool, err := bk.Pool(pools.ID(i))
		if err != nil {
			return err
		}
		list = append(list, pool)
	}
	dumper.Fdump(w, g, list)
	return nil
}

func inspectAction(ctx *cli.Context, s *session) error {
	var only *pools.ID
	if ctx.IsSet(poolFlag.Name) {
		id := poolArg(ctx)
		only = &id
	}
	return inspect(os.Stdout, s.bk, only)
}
