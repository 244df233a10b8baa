// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package barkeeper

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/cybar-labs/cybar/cybar"
)

// Config is applied once, when the ledger is initialized.
type Config struct {
	RewardAsset        cybar.Address
	ReceiptAsset       cybar.Address
	Owner              cybar.Address
	Dev                cybar.Address
	Treasury           cybar.Address
	BaseRewardPerBlock *big.Int
	Multiplier         uint64
	StartBlock         uint32
	StakingWeight      uint64
}

// DefaultConfig returns a config with default emission parameters and
// zero addresses.
func DefaultConfig() Config {
	return Config{
		BaseRewardPerBlock: new(big.Int),
		Multiplier:         cybar.DefaultRewardMultiplier,
		StakingWeight:      cybar.DefaultStakingWeight,
	}
}

func (c *Config) Validate() error {
	if c.RewardAsset.IsZero() {
		return errors.New("reward asset is required")
	}
	if c.ReceiptAsset.IsZero() {
		return errors.New("receipt asset is required")
	}
	if c.RewardAsset == c.ReceiptAsset {
		return errors.New("reward and receipt assets must differ")
	}
	if c.BaseRewardPerBlock == nil || c.BaseRewardPerBlock.Sign() < 0 {
		return errors.Errorf("invalid base reward per block %v", c.BaseRewardPerBlock)
	}
	return nil
}
