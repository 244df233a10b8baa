// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package barkeeper

import (
	"math/big"
	"strconv"

	"github.com/cybar-labs/cybar/builtin/barkeeper/pools"
	"github.com/cybar-labs/cybar/metrics"
)

var (
	metricCalls       = metrics.LazyLoadCounterVec("barkeeper_calls_count", []string{"op", "result"})
	metricTotalStaked = metrics.LazyLoadGaugeVec("barkeeper_pool_total_staked", []string{"pool"})
	metricFees        = metrics.LazyLoadHistogram("barkeeper_withdrawal_fee", metrics.BucketAmounts)
)

func observeTotalStaked(id pools.ID, total *big.Int) {
	if total.IsInt64() {
		metricTotalStaked().SetWithLabel(total.Int64(), map[string]string{"pool": strconv.FormatUint(uint64(id), 10)})
	}
}
