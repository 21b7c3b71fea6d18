// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reward mints the round reward and splits it by stake power.
// All division truncates, so the minted reward never exceeds the cap
// and the allocations never exceed the reward.
package reward

import (
	"math/big"

	"github.com/vechain/stakesim/builtin/stake/power"
	"github.com/vechain/stakesim/common"
)

// InflationDenominator is the fixed point base of the inflation factor.
const InflationDenominator = 10000

var inflationDenominator = big.NewInt(InflationDenominator)

// Allocation is a staker's share of a round reward.
type Allocation struct {
	Staker common.StakerID
	Amount *big.Int
}

// ComputeRoundReward returns floor(totalPower * inflationFactor / InflationDenominator), capped at maxReward.
func ComputeRoundReward(totalPower, inflationFactor, maxReward *big.Int) *big.Int {
	if totalPower.Sign() <= 0 {
		return new(big.Int)
	}
	reward := new(big.Int).Mul(totalPower, inflationFactor)
	reward.Div(reward, inflationDenominator)
	if reward.Cmp(maxReward) > 0 {
		reward.Set(maxReward)
	}
	return reward
}

// Allocate splits reward pro rata: floor(power * reward / totalPower) per staker.
// Stakers whose share truncates to zero get nothing. The remainder is returned as dust.
func Allocate(reward, totalPower *big.Int, powers []power.Power) ([]Allocation, *big.Int) {
	dust := new(big.Int).Set(reward)
	if reward.Sign() <= 0 || totalPower.Sign() <= 0 {
		return nil, dust
	}
	var allocations []Allocation
	for _, p := range powers {
		if p.Power.Sign() <= 0 {
			continue
		}
		share := new(big.Int).Mul(p.Power, reward)
		share.Div(share, totalPower)
		if share.Sign() <= 0 {
			continue
		}
		allocations = append(allocations, Allocation{Staker: p.Staker, Amount: share})
		dust.Sub(dust, share)
	}
	return allocations, dust
}
