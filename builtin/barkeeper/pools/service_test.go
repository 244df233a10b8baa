// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybar-labs/cybar/builtin/barkeeper/reverts"
	"github.com/cybar-labs/cybar/builtin/solidity"
	"github.com/cybar-labs/cybar/cybar"
	"github.com/cybar-labs/cybar/lvldb"
	"github.com/cybar-labs/cybar/state"
)

var (
	reward = cybar.BytesToAddress([]byte("cybar"))
	lpA    = cybar.BytesToAddress([]byte("lp-a"))
	lpB    = cybar.BytesToAddress([]byte("lp-b"))
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(solidity.NewContext(cybar.BytesToAddress([]byte("barkeeper")), state.New(db)))
}

func TestService_Add(t *testing.T) {
	svc := newService(t)

	// first pool must be self-staking
	_, err := svc.Add(KindStandard, 1000, lpA, 0, 0)
	assert.ErrorIs(t, err, reverts.ErrInvalidPool)

	id, err := svc.Add(KindSelfStaking, 1000, reward, 5, 10)
	require.NoError(t, err)
	assert.Equal(t, ID(0), id)

	_, err = svc.Add(KindSelfStaking, 1000, lpA, 5, 10)
	assert.ErrorIs(t, err, reverts.ErrInvalidPool)

	id, err = svc.Add(KindStandard, 500, lpA, 20, 10)
	require.NoError(t, err)
	assert.Equal(t, ID(1), id)

	_, err = svc.Add(KindStandard, 500, lpA, 20, 10)
	assert.ErrorIs(t, err, reverts.ErrDuplicatedPool)
	_, err = svc.Add(KindStandard, 500, reward, 20, 10)
	assert.ErrorIs(t, err, reverts.ErrDuplicatedPool)

	n, err := svc.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	total, err := svc.TotalWeight()
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), total)

	staking, err := svc.Get(0)
	require.NoError(t, err)
	assert.Equal(t, KindSelfStaking, staking.Kind)
	assert.Equal(t, uint32(10), staking.LastRewardBlock, "accrual waits for the start block")
	assert.Equal(t, 0, staking.TotalStaked.Sign())

	lp, err := svc.Get(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(20), lp.LastRewardBlock)
	assert.Equal(t, lpA, lp.Asset)

	_, err = svc.Get(2)
	assert.ErrorIs(t, err, reverts.ErrInvalidPool)
}

func TestService_UpdateAndWeight(t *testing.T) {
	svc := newService(t)
	_, err := svc.Add(KindSelfStaking, 1000, reward, 0, 0)
	require.NoError(t, err)
	_, err = svc.Add(KindStandard, 1000, lpA, 0, 0)
	require.NoError(t, err)
	_, err = svc.Add(KindStandard, 1000, lpB, 0, 0)
	require.NoError(t, err)

	require.NoError(t, svc.SetWeight(1, 0))
	require.NoError(t, svc.SetWeight(2, 3000))
	total, err := svc.TotalWeight()
	require.NoError(t, err)
	assert.Equal(t, uint64(4000), total)

	pool, err := svc.Get(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(3000), pool.Weight)

	updated := pool.Copy()
	updated.TotalStaked.SetInt64(77)
	updated.LastRewardBlock = 9
	require.NoError(t, svc.Update(2, updated))
	assert.Equal(t, 0, pool.TotalStaked.Sign(), "copy is deep")

	pool, err = svc.Get(2)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(77), pool.TotalStaked)

	updated.Weight = 1
	assert.Error(t, svc.Update(2, updated))
	assert.ErrorIs(t, svc.SetWeight(3, 1), reverts.ErrInvalidPool)

	var visited []ID
	require.NoError(t, svc.Each(func(id ID, _ *Pool) error {
		visited = append(visited, id)
		return nil
	}))
	assert.Equal(t, []ID{0, 1, 2}, visited)
}

func TestService_WeightOverflow(t *testing.T) {
	svc := newService(t)
	_, err := svc.Add(KindSelfStaking, math.MaxUint64-10, reward, 0, 0)
	require.NoError(t, err)

	_, err = svc.Add(KindStandard, 11, lpA, 0, 0)
	assert.ErrorIs(t, err, reverts.ErrWeightOverflow)
	n, err := svc.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	_, err = svc.Add(KindStandard, 10, lpA, 0, 0)
	require.NoError(t, err)
	total, err := svc.TotalWeight()
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), total)

	assert.ErrorIs(t, svc.SetWeight(1, 11), reverts.ErrWeightOverflow)
	pool, err := svc.Get(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), pool.Weight)

	require.NoError(t, svc.SetWeight(0, 0))
	require.NoError(t, svc.SetWeight(1, math.MaxUint64))
	total, err = svc.TotalWeight()
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), total)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "standard", KindStandard.String())
	assert.Equal(t, "self-staking", KindSelfStaking.String())
	assert.Equal(t, "unknown", Kind(9).String())
}
