// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakesim/builtin/stake/reverts"
	"github.com/vechain/stakesim/common"
)

// Deposit locks amount for staker at epoch. The staker is registered on first deposit.
// epoch must not precede the epoch of earlier operations nor fall on an epoch already ticked.
func (a *Actor) Deposit(staker common.StakerID, epoch common.Epoch, amount *big.Int) (*Event, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var event *Event
	err := a.apply(func() error {
		if err := a.checkCaller(staker, amount); err != nil {
			return err
		}
		if err := a.advanceTo(epoch); err != nil {
			return err
		}
		if amount.Cmp(a.params.MinDepositAmount) < 0 {
			return ErrDepositTooSmall
		}
		if _, err := a.registry.Add(staker); err != nil {
			return err
		}
		if err := a.principal.Deposit(staker, epoch, amount); err != nil {
			return err
		}
		event = &Event{Kind: EventDeposited, Epoch: epoch, Staker: staker, Amount: new(big.Int).Set(amount)}
		return nil
	})
	return a.finishOp("deposit", event, err)
}

// WithdrawPrincipal takes amount out of the staker's available principal.
// It fails with ErrInsufficientBalance, changing nothing, if the balance is short.
func (a *Actor) WithdrawPrincipal(staker common.StakerID, amount *big.Int) (*Event, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var event *Event
	err := a.apply(func() (err error) {
		event, err = a.withdraw(staker, amount, EventPrincipalWithdrawn, a.principal.Withdraw)
		return err
	})
	return a.finishOp("withdraw-principal", event, err)
}

// WithdrawReward takes amount out of the balance selected by Params.RewardWithdrawSource.
// It fails with ErrInsufficientBalance, changing nothing, if the balance is short.
func (a *Actor) WithdrawReward(staker common.StakerID, amount *big.Int) (*Event, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	withdraw := a.principal.Withdraw
	if a.params.RewardWithdrawSource == FromReward {
		withdraw = a.vesting.Withdraw
	}

	var event *Event
	err := a.apply(func() (err error) {
		event, err = a.withdraw(staker, amount, EventRewardWithdrawn, withdraw)
		return err
	})
	return a.finishOp("withdraw-reward", event, err)
}

func (a *Actor) withdraw(
	staker common.StakerID,
	amount *big.Int,
	kind EventKind,
	withdraw func(common.StakerID, *big.Int) error,
) (*Event, error) {
	if err := a.checkCaller(staker, amount); err != nil {
		return nil, err
	}
	clk, _, err := a.clock.Get()
	if err != nil {
		return nil, err
	}
	if err := withdraw(staker, amount); err != nil {
		return nil, err
	}
	return &Event{Kind: kind, Epoch: clk.Current, Staker: staker, Amount: new(big.Int).Set(amount)}, nil
}

func (a *Actor) checkCaller(staker common.StakerID, amount *big.Int) error {
	if staker.IsZero() {
		return ErrInvalidStaker
	}
	if amount == nil || amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// advanceTo moves the operation clock to epoch.
func (a *Actor) advanceTo(epoch common.Epoch) error {
	if !epoch.InRange() {
		return errors.Wrapf(ErrPreconditionViolation, "operation for epoch %v out of range", epoch)
	}
	clk, started, err := a.clock.Get()
	if err != nil {
		return err
	}
	if started {
		if epoch < clk.Current {
			return errors.Wrapf(ErrPreconditionViolation, "operation for epoch %v, current epoch is %v", epoch, clk.Current)
		}
		if epoch == clk.Current {
			return nil
		}
	}
	clk.Current = epoch
	return a.clock.Set(clk)
}

func (a *Actor) finishOp(op string, event *Event, err error) (*Event, error) {
	if err != nil {
		result := "fatal"
		if reverts.IsRevertErr(err) {
			result = "reverted"
			logger.Debug("operation reverted", "op", op, "err", err)
		} else {
			logger.Error("operation failed", "op", op, "err", err)
		}
		metricOps().AddWithLabel(1, map[string]string{"op": op, "result": result})
		return nil, err
	}
	metricOps().AddWithLabel(1, map[string]string{"op": op, "result": "ok"})
	logger.Debug(string(event.Kind), "epoch", event.Epoch, "staker", event.Staker, "amount", event.Amount)
	return event, nil
}
