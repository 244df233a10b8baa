// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cybar

import "math/big"

// Constants of the reward ledger.
const (
	MaxWithdrawalFeeBP     uint64 = 200          // 2%
	MaxWithdrawalFeeWindow uint64 = 72 * 60 * 60 // 72 hours, in seconds
	BasisPoints            uint64 = 10000

	DefaultDevCutDivisor    uint32 = 10 // 1/10 of each pool reward goes to dev
	DefaultStakingWeight    uint64 = 1000
	DefaultRewardMultiplier uint64 = 1
)

var (
	// AccScale is the fixed-point scale of accumulated reward per share.
	AccScale = big.NewInt(1e12)
)

// Well-known addresses of the built-in ledger.
var (
	// BarkeeperAddress is the custody account of the ledger. Collateral, staked
	// reward and undistributed reward are held here.
	BarkeeperAddress = BytesToAddress([]byte("Barkeeper"))
)
