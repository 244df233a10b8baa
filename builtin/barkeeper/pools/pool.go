// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"encoding/binary"
	"math/big"

	"github.com/cybar-labs/cybar/cybar"
)

// Kind tells how a pool handles its deposits and rewards.
type Kind uint8

const (
	// KindStandard pools take a collateral asset and pay reward out on every interaction.
	KindStandard Kind = iota
	// KindSelfStaking is the single pool that takes the reward asset itself and compounds.
	KindSelfStaking
)

func (k Kind) String() string {
	switch k {
	case KindStandard:
		return "standard"
	case KindSelfStaking:
		return "self-staking"
	default:
		return "unknown"
	}
}

type Pool struct {
	Kind                Kind
	Asset               cybar.Address
	Weight              uint64
	LastRewardBlock     uint32
	AccRewardPerShare   *big.Int // scaled by cybar.AccScale
	TotalStaked         *big.Int
	WithdrawalFeeBP     uint64
	WithdrawalFeeWindow uint64 // seconds
}

// normalize fills nil amounts of a decoded pool.
func (p *Pool) normalize() *Pool {
	if p.AccRewardPerShare == nil {
		p.AccRewardPerShare = new(big.Int)
	}
	if p.TotalStaked == nil {
		p.TotalStaked = new(big.Int)
	}
	return p
}

// Copy returns a deep copy of the pool.
func (p *Pool) Copy() *Pool {
	cpy := *p
	cpy.AccRewardPerShare = new(big.Int).Set(p.AccRewardPerShare)
	cpy.TotalStaked = new(big.Int).Set(p.TotalStaked)
	return &cpy
}

// ID is the index of a pool, in creation order.
type ID uint64

func (id ID) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return b[:]
}
