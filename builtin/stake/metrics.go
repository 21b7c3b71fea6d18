// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import "github.com/vechain/stakesim/metrics"

var (
	metricTicks        = metrics.LazyLoadCounter("stake_ticks_count")
	metricTickDuration = metrics.LazyLoadHistogram("stake_tick_duration_us", metrics.BucketTickMicros)
	metricTickStorage  = metrics.LazyLoadHistogram("stake_tick_storage_words", metrics.BucketStorageWords)
	metricRounds       = metrics.LazyLoadCounter("stake_rounds_count")
	metricOps          = metrics.LazyLoadCounterVec("stake_ops_count", []string{"op", "result"})
	metricStakers      = metrics.LazyLoadGauge("stake_stakers")
	metricTotalPower   = metrics.LazyLoadGauge("stake_total_power_tokens")
	metricLastReward   = metrics.LazyLoadGauge("stake_last_round_reward_tokens")
)
