// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sim

import (
	"bytes"
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakesim/builtin/stake"
	"github.com/vechain/stakesim/common"
	"github.com/vechain/stakesim/lvldb"
)

func runScenario(t *testing.T, sc *Scenario) *Report {
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	report, err := Run(context.Background(), sc, store, nil)
	require.NoError(t, err)
	return report
}

func TestDemoScenario(t *testing.T) {
	var powerAt []*big.Int
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	defer store.Close()

	report, err := Run(context.Background(), DemoScenario(), store, func(res *stake.TickResult) {
		powerAt = append(powerAt, res.TotalStakePower)
	})
	require.NoError(t, err)

	assert.Equal(t, "demo", report.Name)
	assert.Equal(t, 45, report.Ticks)
	assert.Equal(t, 1, report.Operations)
	assert.Empty(t, report.Rejected)

	// power shows up once the deposit is older than the mature period
	require.Len(t, powerAt, 45)
	assert.Equal(t, 0, powerAt[29].Sign())
	assert.Equal(t, 0, common.Tokens(10000).Cmp(powerAt[30]))

	require.Len(t, report.Rounds, 3)
	for i, epoch := range []common.Epoch{13, 28, 43} {
		assert.Equal(t, epoch, report.Rounds[i].Epoch)
	}
	assert.Equal(t, 0, report.Rounds[0].Reward.Sign())
	assert.Equal(t, 0, report.Rounds[1].Reward.Sign())
	assert.Equal(t, 0, common.Tokens(100).Cmp(report.Rounds[2].Reward))
	assert.Equal(t, 0, common.Tokens(100).Cmp(report.Minted()))
	assert.Equal(t, 0, report.Dust().Sign())

	final := report.Final
	require.NotNil(t, final)
	assert.Equal(t, common.Epoch(58), final.Info.NextRoundEpoch)
	assert.Equal(t, 0, common.Tokens(100).Cmp(final.Info.LastRoundReward))
	require.Len(t, final.Stakers, 1)

	st := final.Stakers[0]
	assert.Equal(t, common.StakerID("t001"), st.Staker)
	assert.Equal(t, 0, common.Tokens(10000).Cmp(st.LockedPrincipals.Sum()))
	assert.Equal(t, 0, st.AvailablePrincipal.Sign())
	assert.Equal(t, 0, common.Tokens(10000).Cmp(st.StakePower))
	assert.Equal(t, 0, common.Tokens(100).Cmp(st.VestingFunds.Sum()))
	assert.Len(t, st.VestingFunds, 180)
	assert.Equal(t, 43+common.EpochsInDay, st.VestingFunds[0].Epoch)
	assert.Equal(t, 0, st.AvailableReward.Sign())
}

func TestVM_RecordsRejections(t *testing.T) {
	sc := DemoScenario()
	sc.StopAt = 25
	sc.Messages = append(sc.Messages,
		// locked principal is not withdrawable
		Message{Epoch: 20, Sender: "t001", Op: WithdrawPrincipal{Amount: big.NewInt(1)}},
		Message{Epoch: 21, Sender: "t002", Op: WithdrawReward{Max: true}},
		Message{Epoch: 22, Sender: "t001", Op: Deposit{Amount: big.NewInt(-1)}},
	)

	report := runScenario(t, sc)
	assert.Equal(t, 26, report.Ticks)
	assert.Equal(t, 2, report.Operations)
	require.Len(t, report.Rejected, 2)
	assert.ErrorIs(t, report.Rejected[0].Err, stake.ErrInsufficientBalance)
	assert.Equal(t, common.Epoch(20), report.Rejected[0].Message.Epoch)
	assert.ErrorIs(t, report.Rejected[1].Err, stake.ErrNegativeAmount)

	var buf bytes.Buffer
	require.NoError(t, report.WriteSummary(&buf))
	assert.Contains(t, buf.String(), "2 accepted, 2 rejected")
	assert.Contains(t, buf.String(), "!: 20 withdraw-principal by t001")
}

func TestVM_WithdrawMax(t *testing.T) {
	sc := DemoScenario()
	sc.Params.PrincipalLockDuration = 2
	sc.Messages = []Message{
		{Epoch: 1, Sender: "a", Op: Deposit{Amount: common.Tokens(50)}},
		{Epoch: 10, Sender: "a", Op: WithdrawPrincipal{Max: true}},
	}
	sc.StopAt = 12

	report := runScenario(t, sc)
	assert.Empty(t, report.Rejected)
	assert.Equal(t, 2, report.Operations)

	var withdrawn *stake.Event
	for i, ev := range report.Events {
		if ev.Kind == stake.EventPrincipalWithdrawn {
			withdrawn = &report.Events[i]
		}
	}
	require.NotNil(t, withdrawn)
	assert.Equal(t, common.Epoch(10), withdrawn.Epoch)
	assert.Equal(t, 0, common.Tokens(50).Cmp(withdrawn.Amount))

	require.Len(t, report.Final.Stakers, 1)
	assert.Equal(t, 0, report.Final.Stakers[0].AvailablePrincipal.Sign())
}

func TestVM_MessagesBeforeTick(t *testing.T) {
	sc := DemoScenario()
	sc.Params.MaturePeriod = 0
	sc.Messages = []Message{{Epoch: 5, Sender: "a", Op: Deposit{Amount: common.Tokens(1)}}}
	sc.StopAt = 6

	var powerAt []*big.Int
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	defer store.Close()

	// a deposit delivered after the tick of its epoch would be rejected as fatal
	report, err := Run(context.Background(), sc, store, func(res *stake.TickResult) {
		powerAt = append(powerAt, res.TotalStakePower)
	})
	require.NoError(t, err)
	require.NotEmpty(t, report.Events)
	assert.Equal(t, stake.EventDeposited, report.Events[0].Kind)
	assert.Equal(t, common.Epoch(5), report.Events[0].Epoch)

	require.Len(t, powerAt, 7)
	assert.Equal(t, 0, powerAt[5].Sign())
	assert.Equal(t, 0, common.Tokens(1).Cmp(powerAt[6]))
}

func TestVM_FatalAborts(t *testing.T) {
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	defer store.Close()

	actor, err := stake.New(store, DemoScenario().Params)
	require.NoError(t, err)

	_, err = NewVM(actor).Exec(context.Background(), nil, 0, 3)
	require.NoError(t, err)

	// the actor has already ticked 0..3
	report, err := NewVM(actor).Exec(context.Background(), nil, 0, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, stake.ErrPreconditionViolation)
	assert.Equal(t, 0, report.Ticks)

	// a deposit for an epoch before the actor clock is fatal too
	msgs := []Message{{Epoch: 2, Sender: "a", Op: Deposit{Amount: big.NewInt(1)}}}
	_, err = NewVM(actor).Exec(context.Background(), msgs, 2, 3)
	assert.ErrorIs(t, err, stake.ErrPreconditionViolation)
}

func TestVM_Cancel(t *testing.T) {
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	defer store.Close()

	actor, err := stake.New(store, DemoScenario().Params)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	ticks := 0
	report, err := NewVM(actor).OnTick(func(*stake.TickResult) {
		ticks++
		if ticks == 3 {
			cancel()
		}
	}).Exec(ctx, nil, 0, 100)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, report.Ticks)
}

func TestSnapshot_WriteText(t *testing.T) {
	report := runScenario(t, DemoScenario())

	var buf bytes.Buffer
	require.NoError(t, report.Final.WriteText(&buf))
	out := buf.String()
	assert.Contains(t, out, "TotalStakePower: 10000 STAR")
	assert.Contains(t, out, "NextRoundEpoch: 58")
	assert.Contains(t, out, "Staker: t001")
	assert.Contains(t, out, "Stake Power: 10000 STAR (100.0000%)")
	assert.Contains(t, out, "Vesting Reward: 100 STAR (180 entries)")
}
