// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/cybar-labs/cybar/builtin/barkeeper/reverts"
	"github.com/cybar-labs/cybar/builtin/solidity"
	"github.com/cybar-labs/cybar/cybar"
)

var (
	slotPools       = cybar.BytesToBytes32([]byte("pools"))
	slotPoolCount   = cybar.BytesToBytes32([]byte("pool-count"))
	slotTotalWeight = cybar.BytesToBytes32([]byte("total-weight"))
	slotAssetIndex  = cybar.BytesToBytes32([]byte("pool-assets"))
)

// Service is the registry of pools and their allocation weights.
type Service struct {
	pools       *solidity.Mapping[ID, *Pool]
	count       *solidity.Uint256
	totalWeight *solidity.Uint256
	assetIndex  *solidity.Mapping[cybar.Address, uint64] // pool id + 1
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		pools:       solidity.NewMapping[ID, *Pool](sctx, slotPools),
		count:       solidity.NewUint256(sctx, slotPoolCount),
		totalWeight: solidity.NewUint256(sctx, slotTotalWeight),
		assetIndex:  solidity.NewMapping[cybar.Address, uint64](sctx, slotAssetIndex),
	}
}

// Len returns the number of registered pools.
func (s *Service) Len() (uint64, error) {
	n, err := s.count.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get pool count")
	}
	return n.Uint64(), nil
}

// TotalWeight returns the sum of all pool weights.
func (s *Service) TotalWeight() (uint64, error) {
	w, err := s.totalWeight.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get total weight")
	}
	return w.Uint64(), nil
}

// Add appends a pool. Accrual starts at max(currentBlock, startBlock).
func (s *Service) Add(kind Kind, weight uint64, asset cybar.Address, currentBlock, startBlock uint32) (ID, error) {
	if kind != KindStandard && kind != KindSelfStaking {
		return 0, reverts.ErrInvalidPool
	}
	n, err := s.Len()
	if err != nil {
		return 0, err
	}
	// only the first pool may compound
	if (kind == KindSelfStaking) != (n == 0) {
		return 0, reverts.ErrInvalidPool
	}
	existing, err := s.assetIndex.Get(asset)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get pool asset")
	}
	if existing != 0 {
		return 0, reverts.ErrDuplicatedPool
	}

	total, err := s.totalWeight.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get total weight")
	}
	total.Add(total, new(big.Int).SetUint64(weight))
	if !total.IsUint64() {
		return 0, reverts.ErrWeightOverflow
	}

	lastRewardBlock := currentBlock
	if startBlock > lastRewardBlock {
		lastRewardBlock = startBlock
	}
	id := ID(n)
	pool := &Pool{
		Kind:              kind,
		Asset:             asset,
		Weight:            weight,
		LastRewardBlock:   lastRewardBlock,
		AccRewardPerShare: new(big.Int),
		TotalStaked:       new(big.Int),
	}
	if err := s.pools.Set(id, pool); err != nil {
		return 0, errors.Wrap(err, "failed to set pool")
	}
	if err := s.assetIndex.Set(asset, n+1); err != nil {
		return 0, errors.Wrap(err, "failed to set pool asset")
	}
	s.count.Set(new(big.Int).SetUint64(n + 1))
	s.totalWeight.Set(total)
	return id, nil
}

// Get returns the pool, or ErrInvalidPool if id is not registered.
func (s *Service) Get(id ID) (*Pool, error) {
	n, err := s.Len()
	if err != nil {
		return nil, err
	}
	if uint64(id) >= n {
		return nil, reverts.ErrInvalidPool
	}
	pool, err := s.pools.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pool")
	}
	return pool.normalize(), nil
}

// Update stores the accounting fields of a registered pool. The weight is
// only changed through SetWeight.
func (s *Service) Update(id ID, pool *Pool) error {
	current, err := s.Get(id)
	if err != nil {
		return err
	}
	if current.Weight != pool.Weight || current.Kind != pool.Kind || current.Asset != pool.Asset {
		return errors.Errorf("pool %d: immutable fields changed", id)
	}
	if err := s.pools.Set(id, pool); err != nil {
		return errors.Wrap(err, "failed to update pool")
	}
	return nil
}

// SetWeight changes the weight of a pool and the total weight by the delta.
// The total weight must fit in 64 bits.
func (s *Service) SetWeight(id ID, weight uint64) error {
	pool, err := s.Get(id)
	if err != nil {
		return err
	}
	total, err := s.totalWeight.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get total weight")
	}
	total.Sub(total, new(big.Int).SetUint64(pool.Weight))
	total.Add(total, new(big.Int).SetUint64(weight))
	if !total.IsUint64() {
		return reverts.ErrWeightOverflow
	}
	s.totalWeight.Set(total)

	pool.Weight = weight
	if err := s.pools.Set(id, pool); err != nil {
		return errors.Wrap(err, "failed to update pool")
	}
	return nil
}

// Each visits every pool in id order.
func (s *Service) Each(fn func(ID, *Pool) error) error {
	n, err := s.Len()
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		pool, err := s.Get(ID(i))
		if err != nil {
			return err
		}
		if err := fn(ID(i), pool); err != nil {
			return err
		}
	}
	return nil
}
