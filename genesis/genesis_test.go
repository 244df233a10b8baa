// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybar-labs/cybar/cybar"
	"github.com/cybar-labs/cybar/genesis"
	"github.com/cybar-labs/cybar/lvldb"
	"github.com/cybar-labs/cybar/state"
)

const sample = `
launchBlock: 10
launchTime: 1600000000
rewardAsset: "0x00000000000000000000000000000000000000c1"
receiptAsset: "0x00000000000000000000000000000000000000c2"
owner: "0x00000000000000000000000000000000000000a1"
dev: "0x00000000000000000000000000000000000000a2"
treasury: "0x00000000000000000000000000000000000000a3"
emission:
  rewardPerBlock: "0x3e8"
  multiplier: 2
  startBlock: 20
  stakingWeight: 500
pools:
  - asset: "0x00000000000000000000000000000000000000b1"
    weight: 1000
    feeBP: 100
    window: 86400
  - asset: "0x00000000000000000000000000000000000000b2"
    weight: 500
allocations:
  - asset: "0x00000000000000000000000000000000000000b1"
    account: "0x00000000000000000000000000000000000000d1"
    amount: 1000000
`

func newState(t *testing.T) *state.State {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return state.New(db)
}

func TestParse(t *testing.T) {
	gen, err := genesis.Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, uint32(10), gen.LaunchBlock)
	assert.Equal(t, cybar.MustParseAddress("0x00000000000000000000000000000000000000c1"), gen.RewardAsset)
	assert.Len(t, gen.Pools, 2)
	assert.Equal(t, uint64(86400), gen.Pools[0].Window)
	assert.Equal(t, int64(1000000), gen.Allocations[0].Amount.Big().Int64())

	cfg := gen.Config()
	assert.Equal(t, int64(1000), cfg.BaseRewardPerBlock.Int64())
	assert.Equal(t, uint64(2), cfg.Multiplier)
	assert.Equal(t, uint32(20), cfg.StartBlock)
	assert.Equal(t, uint64(500), cfg.StakingWeight)
}

func TestParse_Defaults(t *testing.T) {
	gen, err := genesis.Parse([]byte(`
rewardAsset: "0x00000000000000000000000000000000000000c1"
receiptAsset: "0x00000000000000000000000000000000000000c2"
owner: "0x00000000000000000000000000000000000000a1"
emission:
  rewardPerBlock: 1000
`))
	require.NoError(t, err)

	cfg := gen.Config()
	assert.Equal(t, cybar.DefaultRewardMultiplier, cfg.Multiplier)
	assert.Equal(t, cybar.DefaultStakingWeight, cfg.StakingWeight)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		patch   string
		wantErr string
	}{
		{"unknown field", "color: red\n", "field color not found"},
		{"bad amount", "emission:\n  rewardPerBlock: abc\n", "invalid hex or decimal integer"},
		{"fee too high", "pools:\n  - asset: \"0x00000000000000000000000000000000000000b1\"\n    feeBP: 201\n", "fee 201 exceeds 200"},
		{"window too long", "pools:\n  - asset: \"0x00000000000000000000000000000000000000b1\"\n    window: 259201\n", "window 259201 exceeds"},
		{"reward asset pool", "pools:\n  - asset: \"0x00000000000000000000000000000000000000c1\"\n", "already has a pool"},
		{"zero allocation", "allocations:\n  - asset: \"0x00000000000000000000000000000000000000b1\"\n    account: \"0x00000000000000000000000000000000000000d1\"\n    amount: 0\n", "positive integer"},
		{"receipt allocation", "allocations:\n  - asset: \"0x00000000000000000000000000000000000000c2\"\n    account: \"0x00000000000000000000000000000000000000d1\"\n    amount: 1\n", "minted by staking only"},
	}
	base := `
rewardAsset: "0x00000000000000000000000000000000000000c1"
receiptAsset: "0x00000000000000000000000000000000000000c2"
owner: "0x00000000000000000000000000000000000000a1"
`
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := genesis.Parse([]byte(base + tt.patch))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := genesis.Parse([]byte("owner: \"0x00000000000000000000000000000000000000a1\"\n"))
	assert.ErrorContains(t, err, "reward asset is required")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	gen, err := genesis.Load(path)
	require.NoError(t, err)
	assert.Len(t, gen.Allocations, 1)

	_, err = genesis.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read genesis")
}

func TestBuild(t *testing.T) {
	gen, err := genesis.Parse([]byte(sample))
	require.NoError(t, err)

	st := newState(t)
	bk, ledger, err := gen.Build(st)
	require.NoError(t, err)

	n, err := bk.PoolLength()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)

	total, err := bk.TotalWeight()
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), total)

	p1, err := bk.Pool(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), p1.WithdrawalFeeBP)
	assert.Equal(t, uint32(20), p1.LastRewardBlock)

	owner, err := bk.Owner()
	require.NoError(t, err)
	assert.Equal(t, gen.Owner, owner)

	rpb, err := bk.RewardPerBlock()
	require.NoError(t, err)
	assert.Equal(t, int64(2000), rpb.Int64())

	bal, err := ledger.BalanceOf(gen.Pools[0].Asset, gen.Allocations[0].Account)
	require.NoError(t, err)
	assert.Equal(t, int64(1000000), bal.Int64())
}

func TestBuild_RevertsOnFailure(t *testing.T) {
	gen, err := genesis.Parse([]byte(sample))
	require.NoError(t, err)

	st := newState(t)
	_, _, err = gen.Build(st)
	require.NoError(t, err)
	hash := st.Stage().Hash()

	// a second build finds the ledger initialized
	_, _, err = gen.Build(st)
	assert.ErrorContains(t, err, "initialize")
	assert.Equal(t, hash, st.Stage().Hash())
}

func TestEncodeRoundTrip(t *testing.T) {
	gen := genesis.NewDevnet()
	require.NoError(t, gen.Validate())

	data, err := gen.Encode()
	require.NoError(t, err)

	parsed, err := genesis.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, gen.Owner, parsed.Owner)
	assert.Equal(t, 0, gen.Emission.RewardPerBlock.Big().Cmp(parsed.Emission.RewardPerBlock.Big()))
	assert.Len(t, parsed.Allocations, len(gen.Allocations))
}

func TestDevnet(t *testing.T) {
	accs := genesis.DevAccounts()
	require.Len(t, accs, 5)
	assert.Equal(t, accs, genesis.DevAccounts())

	gen := genesis.NewDevnet()
	st := newState(t)
	bk, ledger, err := gen.Build(st)
	require.NoError(t, err)

	dev, err := bk.DevAddress()
	require.NoError(t, err)
	assert.Equal(t, accs[1].Address, dev)

	want, _ := new(big.Int).SetString("1000000000000000000000", 10)
	for _, a := range accs {
		bal, err := ledger.BalanceOf(genesis.DevLPAssets[1], a.Address)
		require.NoError(t, err)
		assert.Equal(t, 0, want.Cmp(bal))
	}
}
