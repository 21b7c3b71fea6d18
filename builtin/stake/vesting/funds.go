// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting

import (
	"math/big"
	"slices"

	"github.com/vechain/stakesim/builtin/stake/quant"
	"github.com/vechain/stakesim/common"
)

// Spec shapes the linear release of a reward.
type Spec struct {
	InitialDelay common.Epoch // delay before the clock starts
	VestPeriod   common.Epoch // epochs until everything is released
	StepDuration common.Epoch // epochs between release steps
	Quantization common.Epoch // release epochs are rounded up to multiples of this, plus the seed offset
}

// Fund is an amount released at Epoch.
type Fund struct {
	Epoch  common.Epoch
	Amount *big.Int
}

// Funds is kept sorted by Epoch with at most one entry per epoch.
type Funds []Fund

// Sum returns the total still vesting.
func (f Funds) Sum() *big.Int {
	sum := new(big.Int)
	for _, fund := range f {
		sum.Add(sum, fund.Amount)
	}
	return sum
}

// AddLockedFunds schedules vestingSum for linear release starting at currEpoch and returns the release steps.
// Each step is computed from the cumulative target so that rounding never accumulates
// and the last step releases exactly what is left.
func (f *Funds) AddLockedFunds(currEpoch common.Epoch, vestingSum *big.Int, seed common.Epoch, spec *Spec) []Fund {
	q := quant.NewSpec(spec.Quantization, seed)

	// nothing unlocks here, this is just the start of the clock
	vestBegin := currEpoch + spec.InitialDelay
	vestPeriod := big.NewInt(int64(spec.VestPeriod))

	index := make(map[common.Epoch]int, len(*f))
	for i, fund := range *f {
		index[fund.Epoch] = i
	}

	var steps []Fund
	vestedSoFar := new(big.Int)
	for e := vestBegin + spec.StepDuration; vestedSoFar.Cmp(vestingSum) < 0; e += spec.StepDuration {
		vestEpoch := q.QuantizeUp(e)
		elapsed := max(vestEpoch-vestBegin, 0)

		var targetVest *big.Int
		if elapsed < spec.VestPeriod {
			targetVest = new(big.Int).Mul(vestingSum, big.NewInt(int64(elapsed)))
			targetVest.Div(targetVest, vestPeriod)
		} else {
			targetVest = new(big.Int).Set(vestingSum)
		}

		vestThisTime := new(big.Int).Sub(targetVest, vestedSoFar)
		vestedSoFar = targetVest
		steps = append(steps, Fund{Epoch: vestEpoch, Amount: vestThisTime})

		if i, ok := index[vestEpoch]; ok {
			(*f)[i].Amount = new(big.Int).Add((*f)[i].Amount, vestThisTime)
		} else {
			*f = append(*f, Fund{Epoch: vestEpoch, Amount: new(big.Int).Set(vestThisTime)})
			index[vestEpoch] = len(*f) - 1
		}
	}

	slices.SortStableFunc(*f, func(a, b Fund) int {
		switch {
		case a.Epoch < b.Epoch:
			return -1
		case a.Epoch > b.Epoch:
			return 1
		}
		return 0
	})
	return steps
}

// UnlockVested removes the leading entries due before currEpoch and returns their total.
// The scan stops at the first entry not yet due.
func (f *Funds) UnlockVested(currEpoch common.Epoch) *big.Int {
	unlocked := new(big.Int)
	n := 0
	for _, fund := range *f {
		if fund.Epoch >= currEpoch {
			break
		}
		unlocked.Add(unlocked, fund.Amount)
		n++
	}
	*f = (*f)[n:]
	return unlocked
}
