// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakesim/builtin/stake/vesting"
	"github.com/vechain/stakesim/common"
	"github.com/vechain/stakesim/lvldb"
)

// testParams is the small actor the scenario tests run against.
func testParams() *Params {
	return &Params{
		RoundPeriod:           10,
		PrincipalLockDuration: 1,
		MaturePeriod:          1,
		MinDepositAmount:      new(big.Int),
		MaxRewardPerRound:     common.Tokens(30000),
		InflationFactor:       big.NewInt(100),
		FirstRoundEpoch:       13,
		Vest: vesting.Spec{
			VestPeriod:   180 * common.EpochsInDay,
			StepDuration: common.EpochsInDay,
			Quantization: 12 * common.EpochsInHour,
		},
		RewardWithdrawSource: FromPrincipal,
	}
}

func newTestActor(t *testing.T, params *Params) *Actor {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	actor, err := New(db, params)
	require.NoError(t, err)
	return actor
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	actor *Actor

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(actor *Actor) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), actor: actor}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) Deposit(staker common.StakerID, epoch common.Epoch, amount *big.Int) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if _, err := st.actor.Deposit(staker, epoch, amount); err != nil {
			t.Fatalf("failed to deposit for %s at %d: %v", staker, epoch, err)
		}
		t.Logf("deposited %s for %s at %d", amount, staker, epoch)
	})
}

func (st *TestSequence) WithdrawPrincipal(staker common.StakerID, amount *big.Int) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if _, err := st.actor.WithdrawPrincipal(staker, amount); err != nil {
			t.Fatalf("failed to withdraw principal for %s: %v", staker, err)
		}
		t.Logf("withdrawn principal %s for %s", amount, staker)
	})
}

func (st *TestSequence) WithdrawReward(staker common.StakerID, amount *big.Int) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if _, err := st.actor.WithdrawReward(staker, amount); err != nil {
			t.Fatalf("failed to withdraw reward for %s: %v", staker, err)
		}
		t.Logf("withdrawn reward %s for %s", amount, staker)
	})
}

// Tick runs one epoch tick and hands the result to check, if any.
func (st *TestSequence) Tick(epoch common.Epoch, check ...func(*testing.T, *TickResult)) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		result, err := st.actor.OnEpochTick(epoch)
		if err != nil {
			t.Fatalf("failed to tick epoch %d: %v", epoch, err)
		}
		for _, c := range check {
			c(t, result)
		}
	})
}

// Ticks runs every epoch tick from first to last inclusive.
func (st *TestSequence) Ticks(first, last common.Epoch) *TestSequence {
	for e := first; e <= last; e++ {
		st.Tick(e)
	}
	return st
}

func (st *TestSequence) Assert(sa *StakerAssertions) *TestSequence {
	return st.AddFunc(sa.Assert)
}

func (st *TestSequence) Run(t *testing.T) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, f := range st.funcs {
		f(t)
	}
}

type StakerAssertions struct {
	actor  *Actor
	staker common.StakerID

	locked          *big.Int
	available       *big.Int
	power           *big.Int
	vesting         *big.Int
	availableReward *big.Int
}

func AssertStaker(actor *Actor, staker common.StakerID) *StakerAssertions {
	return &StakerAssertions{actor: actor, staker: staker}
}

func (sa *StakerAssertions) Locked(expected *big.Int) *StakerAssertions {
	sa.locked = expected
	return sa
}

func (sa *StakerAssertions) Available(expected *big.Int) *StakerAssertions {
	sa.available = expected
	return sa
}

func (sa *StakerAssertions) Power(expected *big.Int) *StakerAssertions {
	sa.power = expected
	return sa
}

func (sa *StakerAssertions) Vesting(expected *big.Int) *StakerAssertions {
	sa.vesting = expected
	return sa
}

func (sa *StakerAssertions) AvailableReward(expected *big.Int) *StakerAssertions {
	sa.availableReward = expected
	return sa
}

func (sa *StakerAssertions) Assert(t *testing.T) {
	check := func(name string, expected *big.Int, get func(common.StakerID) (*big.Int, error)) {
		if expected == nil {
			return
		}
		got, err := get(sa.staker)
		require.NoError(t, err, "failed to get %s of %s", name, sa.staker)
		assert.Equal(t, 0, expected.Cmp(got), "staker %s %s mismatch: want %s got %s", sa.staker, name, expected, got)
	}

	check("locked principal", sa.locked, sa.actor.LockedPrincipal)
	check("available principal", sa.available, sa.actor.AvailablePrincipal)
	check("stake power", sa.power, sa.actor.StakePower)
	check("vesting reward", sa.vesting, sa.actor.VestingReward)
	check("available reward", sa.availableReward, sa.actor.AvailableReward)
}
