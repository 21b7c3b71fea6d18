// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sim

import (
	"math/big"

	"github.com/vechain/stakesim/common"
)

// Op is a caller operation. The concrete types are Deposit, WithdrawPrincipal and WithdrawReward.
type Op interface {
	Name() string
	isOp()
}

// Deposit locks Amount for the sender.
type Deposit struct {
	Amount *big.Int
}

// WithdrawPrincipal takes Amount from the sender's available principal, or all of it when Max is set.
type WithdrawPrincipal struct {
	Amount *big.Int
	Max    bool
}

// WithdrawReward takes Amount from the sender's withdrawable reward, or all of it when Max is set.
type WithdrawReward struct {
	Amount *big.Int
	Max    bool
}

func (Deposit) Name() string           { return "deposit" }
func (WithdrawPrincipal) Name() string { return "withdraw-principal" }
func (WithdrawReward) Name() string    { return "withdraw-reward" }

func (Deposit) isOp()           {}
func (WithdrawPrincipal) isOp() {}
func (WithdrawReward) isOp()    {}

// Message is an operation sent by Sender during Epoch.
type Message struct {
	Epoch  common.Epoch
	Sender common.StakerID
	Op     Op
}
