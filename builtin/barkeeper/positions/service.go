// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package positions

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/cybar-labs/cybar/builtin/solidity"
	"github.com/cybar-labs/cybar/cybar"
)

var (
	slotPositions   = cybar.BytesToBytes32([]byte("positions"))
	slotHolderCount = cybar.BytesToBytes32([]byte("holder-count"))
	slotHolders     = cybar.BytesToBytes32([]byte("holders"))
)

type positionKey struct {
	pool    uint64
	account cybar.Address
}

func (k positionKey) Bytes() []byte {
	return binary.BigEndian.AppendUint64(k.account.Bytes(), k.pool)
}

type poolKey uint64

func (k poolKey) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(k))
}

type holderKey struct {
	pool  uint64
	index uint64
}

func (k holderKey) Bytes() []byte {
	b := binary.BigEndian.AppendUint64(nil, k.pool)
	return binary.BigEndian.AppendUint64(b, k.index)
}

// Service stores positions and remembers which accounts ever held one in
// each pool, so pools can be listed without a user loop in any hot path.
type Service struct {
	positions   *solidity.Mapping[positionKey, *Position]
	holderCount *solidity.Mapping[poolKey, uint64]
	holders     *solidity.Mapping[holderKey, cybar.Address]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		positions:   solidity.NewMapping[positionKey, *Position](sctx, slotPositions),
		holderCount: solidity.NewMapping[poolKey, uint64](sctx, slotHolderCount),
		holders:     solidity.NewMapping[holderKey, cybar.Address](sctx, slotHolders),
	}
}

// Get returns the position of account in pool. Missing positions are empty.
func (s *Service) Get(pool uint64, account cybar.Address) (*Position, error) {
	pos, err := s.positions.Get(positionKey{pool, account})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get position")
	}
	return pos.normalize(), nil
}

func (s *Service) Set(pool uint64, account cybar.Address, pos *Position) error {
	key := positionKey{pool, account}
	exists, err := s.positions.Exists(key)
	if err != nil {
		return errors.Wrap(err, "failed to get position")
	}
	if !exists {
		if pos.IsEmpty() {
			return nil
		}
		if err := s.addHolder(pool, account); err != nil {
			return err
		}
	}
	if err := s.positions.Set(key, pos); err != nil {
		return errors.Wrap(err, "failed to set position")
	}
	return nil
}

func (s *Service) addHolder(pool uint64, account cybar.Address) error {
	n, err := s.holderCount.Get(poolKey(pool))
	if err != nil {
		return errors.Wrap(err, "failed to get holder count")
	}
	if err := s.holders.Set(holderKey{pool, n}, account); err != nil {
		return errors.Wrap(err, "failed to add holder")
	}
	if err := s.holderCount.Set(poolKey(pool), n+1); err != nil {
		return errors.Wrap(err, "failed to set holder count")
	}
	return nil
}

// Holders returns every account that ever held a position in pool, in
// order of their first deposit.
func (s *Service) Holders(pool uint64) ([]cybar.Address, error) {
	n, err := s.holderCount.Get(poolKey(pool))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get holder count")
	}
	holders := make([]cybar.Address, 0, n)
	for i := uint64(0); i < n; i++ {
		addr, err := s.holders.Get(holderKey{pool, i})
		if err != nil {
			return nil, errors.Wrap(err, "failed to get holder")
		}
		holders = append(holders, addr)
	}
	return holders, nil
}
