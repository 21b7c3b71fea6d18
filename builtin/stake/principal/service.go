// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package principal

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakesim/builtin/slots"
	"github.com/vechain/stakesim/builtin/stake/reverts"
	"github.com/vechain/stakesim/common"
)

var (
	slotLocked    = slots.NameToSlot("locked-principals")
	slotAvailable = slots.NameToSlot("available-principals")
)

// Service is the principal ledger: per staker locked deposits and the unlocked available balance.
type Service struct {
	locked    *slots.Mapping[common.StakerID, LockedList]
	available *slots.Mapping[common.StakerID, *big.Int]

	lockDuration common.Epoch
	maturePeriod common.Epoch
}

func New(sctx *slots.Context, lockDuration, maturePeriod common.Epoch) *Service {
	return &Service{
		locked:       slots.NewMapping[common.StakerID, LockedList](sctx, slotLocked),
		available:    slots.NewMapping[common.StakerID, *big.Int](sctx, slotAvailable),
		lockDuration: lockDuration,
		maturePeriod: maturePeriod,
	}
}

// Deposit appends a locked entry for the staker.
func (s *Service) Deposit(staker common.StakerID, epoch common.Epoch, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.ErrNegativeAmount
	}
	list, err := s.locked.Get(staker)
	if err != nil {
		return errors.Wrap(err, "failed to get locked principals")
	}
	list = append(list, Locked{Epoch: epoch, Amount: new(big.Int).Set(amount)})
	return s.locked.Set(staker, list)
}

// Unlock moves every leading entry whose lock expired before currentEpoch into the available balance.
// The scan stops at the first entry still locked.
func (s *Service) Unlock(staker common.StakerID, currentEpoch common.Epoch) (*big.Int, error) {
	list, err := s.locked.Get(staker)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get locked principals")
	}
	unlocked, n := list.sumWhile(func(entry Locked) bool {
		return entry.Epoch+s.lockDuration < currentEpoch
	})
	if n == 0 {
		return unlocked, nil
	}

	if err := s.locked.Set(staker, list[n:]); err != nil {
		return nil, err
	}
	available, err := s.available.Get(staker)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get available principal")
	}
	if err := s.available.Set(staker, available.Add(available, unlocked)); err != nil {
		return nil, err
	}
	return unlocked, nil
}

// Matured returns the sum of leading locked entries old enough to carry stake power at currentEpoch.
func (s *Service) Matured(staker common.StakerID, currentEpoch common.Epoch) (*big.Int, error) {
	list, err := s.locked.Get(staker)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get locked principals")
	}
	matured, _ := list.sumWhile(func(entry Locked) bool {
		return entry.Epoch+s.maturePeriod < currentEpoch
	})
	return matured, nil
}

// Withdraw takes amount out of the available balance.
// It fails with ErrInsufficientBalance and leaves the balance untouched if amount exceeds it.
func (s *Service) Withdraw(staker common.StakerID, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.ErrNegativeAmount
	}
	available, err := s.available.Get(staker)
	if err != nil {
		return errors.Wrap(err, "failed to get available principal")
	}
	if amount.Cmp(available) > 0 {
		return reverts.ErrInsufficientBalance
	}
	return s.available.Set(staker, available.Sub(available, amount))
}

// LockedList returns the staker's locked entries in epoch order.
func (s *Service) LockedList(staker common.StakerID) (LockedList, error) {
	return s.locked.Get(staker)
}

// Locked returns the staker's total locked principal.
func (s *Service) Locked(staker common.StakerID) (*big.Int, error) {
	list, err := s.locked.Get(staker)
	if err != nil {
		return nil, err
	}
	return list.Sum(), nil
}

// Available returns the staker's unlocked principal.
func (s *Service) Available(staker common.StakerID) (*big.Int, error) {
	return s.available.Get(staker)
}
