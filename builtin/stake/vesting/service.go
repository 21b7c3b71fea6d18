// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakesim/builtin/slots"
	"github.com/vechain/stakesim/builtin/stake/reverts"
	"github.com/vechain/stakesim/common"
)

var (
	slotVesting   = slots.NameToSlot("vesting-rewards")
	slotAvailable = slots.NameToSlot("available-rewards")
)

// Service keeps each staker's vesting schedule and vested, claimable reward.
type Service struct {
	funds     *slots.Mapping[common.StakerID, Funds]
	available *slots.Mapping[common.StakerID, *big.Int]

	spec *Spec
	seed common.Epoch
}

// New creates the service. seed offsets the release grid, normally the epoch the stake period started.
func New(sctx *slots.Context, spec *Spec, seed common.Epoch) *Service {
	return &Service{
		funds:     slots.NewMapping[common.StakerID, Funds](sctx, slotVesting),
		available: slots.NewMapping[common.StakerID, *big.Int](sctx, slotAvailable),
		spec:      spec,
		seed:      seed,
	}
}

// AddLockedFunds schedules vestingSum into the staker's vesting schedule and returns the release steps.
func (s *Service) AddLockedFunds(staker common.StakerID, currEpoch common.Epoch, vestingSum *big.Int) ([]Fund, error) {
	if vestingSum.Sign() < 0 {
		return nil, errors.Errorf("negative vesting sum %s", vestingSum)
	}
	funds, err := s.funds.Get(staker)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get vesting funds")
	}
	steps := funds.AddLockedFunds(currEpoch, vestingSum, s.seed, s.spec)
	if err := s.funds.Set(staker, funds); err != nil {
		return nil, err
	}
	return steps, nil
}

// Unlock moves the staker's entries due before currEpoch into the available reward.
func (s *Service) Unlock(staker common.StakerID, currEpoch common.Epoch) (*big.Int, error) {
	funds, err := s.funds.Get(staker)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get vesting funds")
	}
	pending := len(funds)
	unlocked := funds.UnlockVested(currEpoch)
	if len(funds) == pending {
		return unlocked, nil
	}
	if err := s.funds.Set(staker, funds); err != nil {
		return nil, err
	}
	available, err := s.available.Get(staker)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get available reward")
	}
	if err := s.available.Set(staker, available.Add(available, unlocked)); err != nil {
		return nil, err
	}
	return unlocked, nil
}

// Withdraw takes amount out of the available reward.
func (s *Service) Withdraw(staker common.StakerID, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.ErrNegativeAmount
	}
	available, err := s.available.Get(staker)
	if err != nil {
		return errors.Wrap(err, "failed to get available reward")
	}
	if amount.Cmp(available) > 0 {
		return reverts.ErrInsufficientBalance
	}
	return s.available.Set(staker, available.Sub(available, amount))
}

// Funds returns the staker's vesting schedule.
func (s *Service) Funds(staker common.StakerID) (Funds, error) {
	return s.funds.Get(staker)
}

// Vesting returns the total not yet vested for the staker.
func (s *Service) Vesting(staker common.StakerID) (*big.Int, error) {
	funds, err := s.funds.Get(staker)
	if err != nil {
		return nil, err
	}
	return funds.Sum(), nil
}

// Available returns the staker's vested, claimable reward.
func (s *Service) Available(staker common.StakerID) (*big.Int, error) {
	return s.available.Get(staker)
}
