// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package barkeeper

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cybar-labs/cybar/asset"
	"github.com/cybar-labs/cybar/builtin/barkeeper/pools"
	"github.com/cybar-labs/cybar/builtin/barkeeper/positions"
	"github.com/cybar-labs/cybar/cybar"
	"github.com/cybar-labs/cybar/lvldb"
	"github.com/cybar-labs/cybar/state"
	"github.com/cybar-labs/cybar/xenv"
)

const genesisTime = 1_600_000_000

var (
	rewardToken  = cybar.BytesToAddress([]byte("cybar"))
	receiptToken = cybar.BytesToAddress([]byte("shot"))
	lp1          = cybar.BytesToAddress([]byte("lp1"))
	lp2          = cybar.BytesToAddress([]byte("lp2"))
	lp3          = cybar.BytesToAddress([]byte("lp3"))

	owner    = cybar.BytesToAddress([]byte("owner"))
	dev      = cybar.BytesToAddress([]byte("dev"))
	treasury = cybar.BytesToAddress([]byte("treasury"))
	alice    = cybar.BytesToAddress([]byte("alice"))
	bob      = cybar.BytesToAddress([]byte("bob"))
	carol    = cybar.BytesToAddress([]byte("carol"))

	custody = cybar.BarkeeperAddress
)

type testLedger struct {
	t      *testing.T
	st     *state.State
	ledger *asset.Ledger
	bk     *Barkeeper
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RewardAsset = rewardToken
	cfg.ReceiptAsset = receiptToken
	cfg.Owner = owner
	cfg.Dev = dev
	cfg.Treasury = treasury
	cfg.BaseRewardPerBlock = big.NewInt(1000)
	return cfg
}

// newTestLedger initializes the ledger at block 0, using assets in place of
// the plain ledger when given.
func newTestLedger(t *testing.T, cfg Config, wrap func(asset.Assets) asset.Assets) *testLedger {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	ledger := asset.NewLedger(st, custody)
	var assets asset.Assets = ledger
	if wrap != nil {
		assets = wrap(ledger)
	}
	l := &testLedger{t: t, st: st, ledger: ledger, bk: New(custody, st, assets)}
	require.NoError(t, l.bk.Initialize(l.env(owner, 0), cfg))
	return l
}

func (l *testLedger) env(caller cybar.Address, block uint32) *xenv.Environment {
	return xenv.New(caller, &xenv.BlockContext{Number: block, Time: genesisTime + uint64(block)*10})
}

func (l *testLedger) addPools(block uint32, assets ...cybar.Address) {
	for _, a := range assets {
		_, err := l.bk.Add(l.env(owner, block), 1000, a, true)
		require.NoError(l.t, err)
	}
}

func (l *testLedger) fund(token, account cybar.Address, amount int64) {
	require.NoError(l.t, l.ledger.Mint(token, account, big.NewInt(amount)))
}

func (l *testLedger) balance(token, account cybar.Address) int64 {
	bal, err := l.ledger.BalanceOf(token, account)
	require.NoError(l.t, err)
	return bal.Int64()
}

func (l *testLedger) pending(id pools.ID, account cybar.Address, block uint32) int64 {
	p, err := l.bk.PendingReward(id, account, block)
	require.NoError(l.t, err)
	return p.Int64()
}

func (l *testLedger) position(id pools.ID, account cybar.Address) *positions.Position {
	pos, err := l.bk.Position(id, account)
	require.NoError(l.t, err)
	return pos
}

func (l *testLedger) pool(id pools.ID) *pools.Pool {
	pool, err := l.bk.Pool(id)
	require.NoError(l.t, err)
	return pool
}

// faultyAssets fails every call for which fail returns true.
type faultyAssets struct {
	asset.Assets
	fail func(op string, token, account cybar.Address) bool
}

var errInjected = asset.ErrInsufficientFunds

func (f *faultyAssets) TransferIn(token, from cybar.Address, amount *big.Int) error {
	if f.fail("in", token, from) {
		return errInjected
	}
	return f.Assets.TransferIn(token, from, amount)
}

func (f *faultyAssets) TransferOut(token, to cybar.Address, amount *big.Int) error {
	if f.fail("out", token, to) {
		return errInjected
	}
	return f.Assets.TransferOut(token, to, amount)
}

func (f *faultyAssets) Mint(token, to cybar.Address, amount *big.Int) error {
	if f.fail("mint", token, to) {
		return errInjected
	}
	return f.Assets.Mint(token, to, amount)
}
