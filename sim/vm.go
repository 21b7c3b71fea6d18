// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sim

import (
	"context"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakesim/builtin/stake"
	"github.com/vechain/stakesim/common"
	"github.com/vechain/stakesim/log"
)

var logger = log.WithContext("pkg", "sim")

func SetLogger(l log.Logger) {
	logger = l
}

// Rejection is a message the actor refused with a recoverable error.
type Rejection struct {
	Message Message
	Err     error
}

// VM delivers messages to an actor epoch by epoch. Within an epoch, messages are applied
// in the order given and always before that epoch's tick.
type VM struct {
	actor  *stake.Actor
	onTick func(*stake.TickResult)
}

func NewVM(actor *stake.Actor) *VM {
	return &VM{actor: actor}
}

// OnTick registers fn to be called after every successful tick.
func (vm *VM) OnTick(fn func(*stake.TickResult)) *VM {
	vm.onTick = fn
	return vm
}

// Exec runs epochs start through stopAt. Recoverable operation errors are recorded in the report
// and the run goes on; any other error aborts the run and is returned with the partial report.
func (vm *VM) Exec(ctx context.Context, messages []Message, start, stopAt common.Epoch) (*Report, error) {
	byEpoch := make(map[common.Epoch][]Message)
	for _, m := range messages {
		byEpoch[m.Epoch] = append(byEpoch[m.Epoch], m)
	}

	report := &Report{Start: start, StopAt: stopAt}
	for epoch := start; epoch <= stopAt; epoch++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		for _, m := range byEpoch[epoch] {
			ev, err := vm.dispatch(epoch, m)
			if err != nil {
				if stake.IsFatal(err) {
					return report, errors.Wrapf(err, "epoch %v: %s by %s", epoch, m.Op.Name(), m.Sender)
				}
				logger.Warn("operation rejected", "epoch", epoch, "op", m.Op.Name(), "sender", m.Sender, "err", err)
				report.Rejected = append(report.Rejected, Rejection{Message: m, Err: err})
				continue
			}
			report.Operations++
			report.Events = append(report.Events, *ev)
		}

		res, err := vm.actor.OnEpochTick(epoch)
		if err != nil {
			return report, errors.Wrapf(err, "tick epoch %v", epoch)
		}
		report.Ticks++
		report.Events = append(report.Events, res.Events...)
		if res.Round != nil {
			report.Rounds = append(report.Rounds, res.Round)
		}
		if vm.onTick != nil {
			vm.onTick(res)
		}
	}
	return report, nil
}

func (vm *VM) dispatch(epoch common.Epoch, m Message) (*stake.Event, error) {
	switch op := m.Op.(type) {
	case Deposit:
		return vm.actor.Deposit(m.Sender, epoch, op.Amount)
	case WithdrawPrincipal:
		amount, err := resolve(op.Amount, op.Max, m.Sender, vm.actor.AvailablePrincipal)
		if err != nil {
			return nil, err
		}
		return vm.actor.WithdrawPrincipal(m.Sender, amount)
	case WithdrawReward:
		amount, err := resolve(op.Amount, op.Max, m.Sender, vm.actor.WithdrawableReward)
		if err != nil {
			return nil, err
		}
		return vm.actor.WithdrawReward(m.Sender, amount)
	default:
		return nil, errors.Errorf("unknown operation %T", m.Op)
	}
}

func resolve(amount *big.Int, isMax bool, sender common.StakerID, balance func(common.StakerID) (*big.Int, error)) (*big.Int, error) {
	if isMax {
		return balance(sender)
	}
	return amount, nil
}
