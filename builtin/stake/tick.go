// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"math/big"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/stakesim/builtin/stake/power"
	"github.com/vechain/stakesim/builtin/stake/reward"
	"github.com/vechain/stakesim/common"
)

// OnEpochTick advances the actor to epoch. It must be called once per epoch, in order, without gaps,
// after every caller operation of that epoch. It unlocks principal, recomputes stake power,
// unlocks vested reward and, when a round is due, distributes the round reward.
//
// Calling it again for an epoch already processed, or skipping one, fails with ErrPreconditionViolation.
func (a *Actor) OnEpochTick(epoch common.Epoch) (*TickResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()
	a.sctx.ResetUsage()

	var result *TickResult
	err := a.apply(func() (err error) {
		result, err = a.tick(epoch)
		return err
	})
	if err != nil {
		logger.Error("epoch tick failed", "epoch", epoch, "err", err)
		return nil, err
	}

	metricTicks().Add(1)
	metricTickDuration().Observe(time.Since(start).Microseconds())
	metricTickStorage().Observe(int64(a.sctx.Usage().Total()))
	metricTotalPower().Set(common.WholeTokens(result.TotalStakePower))
	if result.Round != nil {
		metricRounds().Add(1)
		metricLastReward().Set(common.WholeTokens(result.Round.Reward))
	}

	logger.Debug("epoch tick", "epoch", epoch, "power", result.TotalStakePower, "events", len(result.Events))
	return result, nil
}

func (a *Actor) tick(epoch common.Epoch) (*TickResult, error) {
	if !epoch.InRange() {
		return nil, errors.Wrapf(ErrPreconditionViolation, "tick for epoch %v out of range", epoch)
	}
	clk, started, err := a.clock.Get()
	if err != nil {
		return nil, err
	}
	if started && clk.Ticks > 0 && epoch != clk.LastTick+1 {
		return nil, errors.Wrapf(ErrPreconditionViolation, "tick for epoch %v, expected %v", epoch, clk.LastTick+1)
	}
	if started && epoch < clk.Current {
		return nil, errors.Wrapf(ErrPreconditionViolation, "tick for epoch %v after operations for epoch %v", epoch, clk.Current)
	}

	ids, err := a.registry.All()
	if err != nil {
		return nil, err
	}
	metricStakers().Set(int64(len(ids)))

	result := &TickResult{Epoch: epoch}

	// 1. unlock principal
	for _, staker := range ids {
		unlocked, err := a.principal.Unlock(staker, epoch)
		if err != nil {
			return nil, err
		}
		if unlocked.Sign() > 0 {
			result.Events = append(result.Events, Event{Kind: EventPrincipalUnlocked, Epoch: epoch, Staker: staker, Amount: unlocked})
		}
	}

	// 2. recompute stake power
	powers, total, err := a.power.Recompute(epoch, ids, a.principal)
	if err != nil {
		return nil, err
	}
	result.TotalStakePower = total

	// 3. unlock vested reward
	for _, staker := range ids {
		vested, err := a.vesting.Unlock(staker, epoch)
		if err != nil {
			return nil, err
		}
		if vested.Sign() > 0 {
			result.Events = append(result.Events, Event{Kind: EventRewardVested, Epoch: epoch, Staker: staker, Amount: vested})
		}
	}

	// 4. distribute the round reward when due
	next, _, err := a.nextRound.Get()
	if err != nil {
		return nil, err
	}
	if epoch >= next {
		round, err := a.distributeRewards(epoch, next, total, powers)
		if err != nil {
			return nil, err
		}
		result.Round = round
		for _, alloc := range round.Allocations {
			result.Events = append(result.Events, Event{Kind: EventRewardAllocated, Epoch: epoch, Staker: alloc.Staker, Amount: alloc.Amount})
		}
		result.Events = append(result.Events, Event{Kind: EventRoundDistributed, Epoch: epoch, Amount: round.Reward})
	}

	if err := a.clock.Set(clock{Current: epoch + 1, LastTick: epoch, Ticks: clk.Ticks + 1}); err != nil {
		return nil, err
	}
	return result, nil
}

// distributeRewards mints the round reward and schedules each staker's share into vesting.
func (a *Actor) distributeRewards(epoch, next common.Epoch, total *big.Int, powers []power.Power) (*Round, error) {
	if epoch < next {
		return nil, errors.Wrapf(ErrPreconditionViolation, "distribute rewards at epoch %v before round epoch %v", epoch, next)
	}

	roundReward := reward.ComputeRoundReward(total, a.params.InflationFactor, a.params.MaxRewardPerRound)
	allocations, dust := reward.Allocate(roundReward, total, powers)

	allocated := new(big.Int)
	for _, alloc := range allocations {
		if _, err := a.vesting.AddLockedFunds(alloc.Staker, epoch, alloc.Amount); err != nil {
			return nil, err
		}
		allocated.Add(allocated, alloc.Amount)
	}

	next += a.params.RoundPeriod
	if err := a.nextRound.Set(next); err != nil {
		return nil, err
	}
	if err := a.lastReward.Set(roundReward); err != nil {
		return nil, err
	}

	logger.Info("distributed rewards", "epoch", epoch, "reward", roundReward, "dust", dust, "stakers", len(allocations), "next", next)
	return &Round{
		Epoch:          epoch,
		Reward:         roundReward,
		Allocated:      allocated,
		Dust:           dust,
		Allocations:    allocations,
		NextRoundEpoch: next,
	}, nil
}
