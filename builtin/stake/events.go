// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"math/big"

	"github.com/vechain/stakesim/builtin/stake/reward"
	"github.com/vechain/stakesim/common"
)

type EventKind string

const (
	EventDeposited          EventKind = "deposited"
	EventPrincipalWithdrawn EventKind = "principal-withdrawn"
	EventRewardWithdrawn    EventKind = "reward-withdrawn"
	EventPrincipalUnlocked  EventKind = "principal-unlocked"
	EventRewardVested       EventKind = "reward-vested"
	EventRewardAllocated    EventKind = "reward-allocated"
	EventRoundDistributed   EventKind = "round-distributed"
)

// Event is a structured record of a state change.
// Staker is empty for round events.
type Event struct {
	Kind   EventKind
	Epoch  common.Epoch
	Staker common.StakerID
	Amount *big.Int
}

// Round summarises one reward distribution.
type Round struct {
	Epoch          common.Epoch
	Reward         *big.Int
	Allocated      *big.Int
	Dust           *big.Int
	Allocations    []reward.Allocation
	NextRoundEpoch common.Epoch
}

// TickResult is everything one epoch tick did.
type TickResult struct {
	Epoch           common.Epoch
	TotalStakePower *big.Int
	Round           *Round // nil when no round was due
	Events          []Event
}
