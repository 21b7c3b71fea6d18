// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/vechain/stakesim/builtin/slots"
	"github.com/vechain/stakesim/builtin/stake/power"
	"github.com/vechain/stakesim/builtin/stake/principal"
	"github.com/vechain/stakesim/builtin/stake/stakers"
	"github.com/vechain/stakesim/builtin/stake/vesting"
	"github.com/vechain/stakesim/common"
	"github.com/vechain/stakesim/kv"
	"github.com/vechain/stakesim/log"
)

var (
	logger = log.WithContext("pkg", "stake")

	storeBucket = kv.Bucket("stake/")

	slotParamsHash = slots.NameToSlot("params-hash")
	slotClock      = slots.NameToSlot("clock")
	slotNextRound  = slots.NameToSlot("next-round-epoch")
	slotLastReward = slots.NameToSlot("last-round-reward")
)

func SetLogger(l log.Logger) {
	logger = l
}

// clock tracks where the actor is in the epoch sequence.
type clock struct {
	Current  common.Epoch // epoch caller operations currently belong to
	LastTick common.Epoch
	Ticks    uint64
}

// Info is the actor wide state.
type Info struct {
	TotalStakePower       *big.Int
	MaturePeriod          common.Epoch
	RoundPeriod           common.Epoch
	PrincipalLockDuration common.Epoch
	MinDepositAmount      *big.Int
	MaxRewardPerRound     *big.Int
	InflationFactor       *big.Int
	LastRoundReward       *big.Int
	NextRoundEpoch        common.Epoch
}

// Actor is the stake actor. All calls are serialised by a single lock;
// each mutating call is staged and committed to the store only if it succeeds.
type Actor struct {
	mu     sync.Mutex
	params *Params
	store  kv.Store
	buf    *kv.Buffer
	sctx   *slots.Context

	registry  *stakers.Registry
	principal *principal.Service
	power     *power.Service
	vesting   *vesting.Service

	paramsHash *slots.Value[common.Bytes32]
	clock      *slots.Value[clock]
	nextRound  *slots.Value[common.Epoch]
	lastReward *slots.Uint256
}

// New creates an actor over store. State already present in store is resumed, provided it was
// created with the same params; otherwise New fails with ErrParamsMismatch.
func New(store kv.Store, params *Params) (*Actor, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid stake params")
	}
	params = params.Copy()

	buf := kv.NewBuffer(store)
	sctx := slots.NewContext(storeBucket.NewGetPutter(buf))
	a := &Actor{
		params: params,
		store:  store,
		buf:    buf,
		sctx:   sctx,

		registry:  stakers.New(sctx),
		principal: principal.New(sctx, params.PrincipalLockDuration, params.MaturePeriod),
		power:     power.New(sctx),
		vesting:   vesting.New(sctx, &params.Vest, params.StakePeriodStart),

		paramsHash: slots.NewValue[common.Bytes32](sctx, slotParamsHash),
		clock:      slots.NewValue[clock](sctx, slotClock),
		nextRound:  slots.NewValue[common.Epoch](sctx, slotNextRound),
		lastReward: slots.NewUint256(sctx, slotLastReward),
	}

	err := a.apply(func() error {
		hash := params.Hash()
		stored, ok, err := a.paramsHash.Get()
		if err != nil {
			return err
		}
		if ok {
			if stored != hash {
				return errors.Wrapf(ErrParamsMismatch, "store has %v, got %v", stored, hash)
			}
			return nil
		}
		if err := a.paramsHash.Set(hash); err != nil {
			return err
		}
		return a.nextRound.Set(params.FirstRoundEpoch)
	})
	if err != nil {
		return nil, err
	}

	if params.RewardWithdrawSource == FromPrincipal {
		logger.Warn("reward withdrawals draw from the available principal balance", "source", params.RewardWithdrawSource)
	}
	return a, nil
}

// apply runs fn against the staged buffer and commits on success.
func (a *Actor) apply(fn func() error) error {
	if err := fn(); err != nil {
		a.buf.Discard()
		return err
	}
	if a.buf.Len() == 0 {
		return nil
	}
	if err := a.buf.Commit(a.store.NewBatch()); err != nil {
		a.buf.Discard()
		return errors.Wrap(err, "commit stake state")
	}
	return nil
}

// Params returns a copy of the actor parameters.
func (a *Actor) Params() *Params {
	return a.params.Copy()
}

//
// Getters - no state change
//

// Info returns the actor wide state.
func (a *Actor) Info() (*Info, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	total, err := a.power.Total()
	if err != nil {
		return nil, err
	}
	lastReward, err := a.lastReward.Get()
	if err != nil {
		return nil, err
	}
	next, _, err := a.nextRound.Get()
	if err != nil {
		return nil, err
	}
	return &Info{
		TotalStakePower:       total,
		MaturePeriod:          a.params.MaturePeriod,
		RoundPeriod:           a.params.RoundPeriod,
		PrincipalLockDuration: a.params.PrincipalLockDuration,
		MinDepositAmount:      copyInt(a.params.MinDepositAmount),
		MaxRewardPerRound:     copyInt(a.params.MaxRewardPerRound),
		InflationFactor:       copyInt(a.params.InflationFactor),
		LastRoundReward:       lastReward,
		NextRoundEpoch:        next,
	}, nil
}

// LastTick returns the last epoch ticked. ok is false until the first tick.
func (a *Actor) LastTick() (epoch common.Epoch, ok bool, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	clk, started, err := a.clock.Get()
	if err != nil || !started || clk.Ticks == 0 {
		return 0, false, err
	}
	return clk.LastTick, true, nil
}

// TotalStakePower returns the total stake power as of the last tick.
func (a *Actor) TotalStakePower() (*big.Int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.power.Total()
}

// LastRoundReward returns the reward minted by the latest round.
func (a *Actor) LastRoundReward() (*big.Int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastReward.Get()
}

// NextRoundEpoch returns the epoch at or after which the next round is distributed.
func (a *Actor) NextRoundEpoch() (common.Epoch, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	next, _, err := a.nextRound.Get()
	return next, err
}

// Stakers lists every staker in order of first deposit.
func (a *Actor) Stakers() ([]common.StakerID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.registry.All()
}

// StakePower returns the staker's power as of the last tick.
func (a *Actor) StakePower(staker common.StakerID) (*big.Int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.power.Get(staker)
}

// LockedPrincipals returns the staker's locked deposits in epoch order.
func (a *Actor) LockedPrincipals(staker common.StakerID) (principal.LockedList, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.principal.LockedList(staker)
}

// LockedPrincipal returns the staker's total locked principal.
func (a *Actor) LockedPrincipal(staker common.StakerID) (*big.Int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.principal.Locked(staker)
}

// AvailablePrincipal returns the staker's unlocked principal.
func (a *Actor) AvailablePrincipal(staker common.StakerID) (*big.Int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.principal.Available(staker)
}

// VestingFunds returns the staker's vesting schedule.
func (a *Actor) VestingFunds(staker common.StakerID) (vesting.Funds, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.vesting.Funds(staker)
}

// VestingReward returns the staker's total reward still vesting.
func (a *Actor) VestingReward(staker common.StakerID) (*big.Int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.vesting.Vesting(staker)
}

// AvailableReward returns the staker's vested, claimable reward.
func (a *Actor) AvailableReward(staker common.StakerID) (*big.Int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.vesting.Available(staker)
}

// WithdrawableReward returns what WithdrawReward can currently take, which depends on RewardWithdrawSource.
func (a *Actor) WithdrawableReward(staker common.StakerID) (*big.Int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.params.RewardWithdrawSource == FromReward {
		return a.vesting.Available(staker)
	}
	return a.principal.Available(staker)
}
