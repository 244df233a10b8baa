// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package barkeeper

import (
	"math/big"

	"github.com/cybar-labs/cybar/builtin/barkeeper/accrual"
	"github.com/cybar-labs/cybar/builtin/barkeeper/pools"
	"github.com/cybar-labs/cybar/builtin/barkeeper/positions"
	"github.com/cybar-labs/cybar/cybar"
)

func (b *Barkeeper) PoolLength() (uint64, error) {
	return b.pools.Len()
}

func (b *Barkeeper) Pool(id pools.ID) (*pools.Pool, error) {
	return b.pools.Get(id)
}

func (b *Barkeeper) Position(id pools.ID, account cybar.Address) (*positions.Position, error) {
	if _, err := b.pools.Get(id); err != nil {
		return nil, err
	}
	return b.positions.Get(uint64(id), account)
}

// Holders lists every account that ever had a position in the pool.
func (b *Barkeeper) Holders(id pools.ID) ([]cybar.Address, error) {
	if _, err := b.pools.Get(id); err != nil {
		return nil, err
	}
	return b.positions.Holders(uint64(id))
}

// PendingReward returns what account would harvest from the pool at block.
func (b *Barkeeper) PendingReward(id pools.ID, account cybar.Address, block uint32) (*big.Int, error) {
	return b.engine.Pending(id, account, block)
}

func (b *Barkeeper) Emission() (*accrual.Emission, error) {
	return b.engine.Emission()
}

func (b *Barkeeper) RewardPerBlock() (*big.Int, error) {
	return b.engine.RewardPerBlock()
}

func (b *Barkeeper) Multiplier() (uint64, error) {
	em, err := b.engine.Emission()
	if err != nil {
		return 0, err
	}
	return em.Multiplier, nil
}

func (b *Barkeeper) TotalWeight() (uint64, error) {
	return b.pools.TotalWeight()
}

func (b *Barkeeper) DevAddress() (cybar.Address, error) {
	return b.engine.Dev()
}

func (b *Barkeeper) Treasury() (cybar.Address, error) {
	return b.guard.Treasury()
}

func (b *Barkeeper) Owner() (cybar.Address, error) {
	return b.owner.Get()
}

func (b *Barkeeper) RewardAsset() (cybar.Address, error) {
	return b.engine.RewardAsset()
}

func (b *Barkeeper) ReceiptAsset() (cybar.Address, error) {
	return b.vault.ReceiptAsset()
}
