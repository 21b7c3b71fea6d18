// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sim

import (
	"fmt"
	"io"
	"math/big"

	"github.com/vechain/stakesim/builtin/stake"
	"github.com/vechain/stakesim/builtin/stake/principal"
	"github.com/vechain/stakesim/builtin/stake/vesting"
	"github.com/vechain/stakesim/common"
)

// Report is the outcome of one run.
type Report struct {
	Name       string
	Start      common.Epoch
	StopAt     common.Epoch
	Ticks      int
	Operations int
	Rejected   []Rejection
	Rounds     []*stake.Round
	Events     []stake.Event
	Final      *Snapshot

	// Resumed is set when the store had been ticked before; Skipped counts the messages of
	// epochs already ticked.
	Resumed bool
	Skipped int
}

// Minted returns the sum of all round rewards.
func (r *Report) Minted() *big.Int {
	sum := new(big.Int)
	for _, round := range r.Rounds {
		sum.Add(sum, round.Reward)
	}
	return sum
}

// Dust returns the sum of the unallocated remainders of all rounds.
func (r *Report) Dust() *big.Int {
	sum := new(big.Int)
	for _, round := range r.Rounds {
		sum.Add(sum, round.Dust)
	}
	return sum
}

// StakerState is one staker's balances.
type StakerState struct {
	Staker             common.StakerID
	StakePower         *big.Int
	LockedPrincipals   principal.LockedList
	AvailablePrincipal *big.Int
	VestingFunds       vesting.Funds
	AvailableReward    *big.Int
}

// Snapshot is the actor state at a point in time.
type Snapshot struct {
	Info    *stake.Info
	Stakers []StakerState
}

// TakeSnapshot reads the full actor state.
func TakeSnapshot(actor *stake.Actor) (*Snapshot, error) {
	info, err := actor.Info()
	if err != nil {
		return nil, err
	}
	ids, err := actor.Stakers()
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Info: info}
	for _, id := range ids {
		st := StakerState{Staker: id}
		if st.StakePower, err = actor.StakePower(id); err != nil {
			return nil, err
		}
		if st.LockedPrincipals, err = actor.LockedPrincipals(id); err != nil {
			return nil, err
		}
		if st.AvailablePrincipal, err = actor.AvailablePrincipal(id); err != nil {
			return nil, err
		}
		if st.VestingFunds, err = actor.VestingFunds(id); err != nil {
			return nil, err
		}
		if st.AvailableReward, err = actor.AvailableReward(id); err != nil {
			return nil, err
		}
		snap.Stakers = append(snap.Stakers, st)
	}
	return snap, nil
}

// WriteText prints the snapshot in a human readable form.
func (s *Snapshot) WriteText(w io.Writer) error {
	info := s.Info
	lines := []string{
		fmt.Sprintf("TotalStakePower: %s", common.FormatToken(info.TotalStakePower)),
		fmt.Sprintf("MaturePeriod: %v", info.MaturePeriod),
		fmt.Sprintf("RoundPeriod: %v", info.RoundPeriod),
		fmt.Sprintf("PrincipalLockDuration: %v", info.PrincipalLockDuration),
		fmt.Sprintf("MinDepositAmount: %s", common.FormatToken(info.MinDepositAmount)),
		fmt.Sprintf("MaxRewardPerRound: %s", common.FormatToken(info.MaxRewardPerRound)),
		fmt.Sprintf("InflationFactor: %s", info.InflationFactor),
		fmt.Sprintf("LastRoundReward: %s", common.FormatToken(info.LastRoundReward)),
		fmt.Sprintf("NextRoundEpoch: %v", info.NextRoundEpoch),
	}
	for _, st := range s.Stakers {
		lines = append(lines,
			"",
			fmt.Sprintf("Staker: %s", st.Staker),
			fmt.Sprintf("Stake Power: %s%s", common.FormatToken(st.StakePower), share(st.StakePower, info.TotalStakePower)),
			fmt.Sprintf("Locked Principal: %s (%d entries)", common.FormatToken(st.LockedPrincipals.Sum()), len(st.LockedPrincipals)),
			fmt.Sprintf("Available Principal: %s", common.FormatToken(st.AvailablePrincipal)),
			fmt.Sprintf("Vesting Reward: %s (%d entries)", common.FormatToken(st.VestingFunds.Sum()), len(st.VestingFunds)),
			fmt.Sprintf("Available Reward: %s", common.FormatToken(st.AvailableReward)),
		)
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// share renders power/total as a percentage with four decimals, computed in integers.
func share(power, total *big.Int) string {
	if total.Sign() == 0 {
		return ""
	}
	ppm := new(big.Int).Mul(power, big.NewInt(1000000))
	ppm.Div(ppm, total)
	v := ppm.Int64()
	return fmt.Sprintf(" (%d.%04d%%)", v/10000, v%10000)
}

// WriteSummary prints the run totals and the final snapshot.
func (r *Report) WriteSummary(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Scenario: %s\nEpochs: %v..%v (%d ticks)\nOperations: %d accepted, %d rejected\nRounds: %d, minted %s, dust %s\n",
		r.Name, r.Start, r.StopAt, r.Ticks, r.Operations, len(r.Rejected), len(r.Rounds),
		common.FormatToken(r.Minted()), common.FormatToken(r.Dust()))
	if err != nil {
		return err
	}
	if r.Resumed {
		if _, err := fmt.Fprintf(w, "Resumed: %d messages of earlier epochs skipped\n", r.Skipped); err != nil {
			return err
		}
	}
	for _, rej := range r.Rejected {
		if _, err := fmt.Fprintf(w, "!: %v %s by %s: %v\n", rej.Message.Epoch, rej.Message.Op.Name(), rej.Message.Sender, rej.Err); err != nil {
			return err
		}
	}
	if r.Final == nil {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return r.Final.WriteText(w)
}
