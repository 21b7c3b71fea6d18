// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakesim/builtin/stake/vesting"
	"github.com/vechain/stakesim/common"
)

// WithdrawSource names the balance WithdrawReward draws from.
type WithdrawSource string

const (
	// FromPrincipal draws reward withdrawals from the available principal.
	FromPrincipal WithdrawSource = "principal"
	// FromReward draws reward withdrawals from the available reward.
	FromReward WithdrawSource = "reward"
)

// Params are fixed for the lifetime of an actor.
type Params struct {
	RoundPeriod           common.Epoch
	PrincipalLockDuration common.Epoch
	MaturePeriod          common.Epoch
	MinDepositAmount      *big.Int
	MaxRewardPerRound     *big.Int
	InflationFactor       *big.Int
	FirstRoundEpoch       common.Epoch // initial next round epoch
	StakePeriodStart      common.Epoch // seed of the vesting quantization grid
	Vest                  vesting.Spec

	RewardWithdrawSource WithdrawSource
}

// DefaultParams returns the genesis parameters of the stake actor.
func DefaultParams() *Params {
	return &Params{
		RoundPeriod:           1 * common.EpochsInDay,
		PrincipalLockDuration: 90 * common.EpochsInDay,
		MaturePeriod:          12 * common.EpochsInHour,
		MinDepositAmount:      common.Tokens(100),
		MaxRewardPerRound:     common.Tokens(10000),
		InflationFactor:       big.NewInt(100),
		FirstRoundEpoch:       common.EpochsInDay,
		StakePeriodStart:      0,
		Vest: vesting.Spec{
			InitialDelay: 0,
			VestPeriod:   180 * common.EpochsInDay,
			StepDuration: 1 * common.EpochsInDay,
			Quantization: 12 * common.EpochsInHour,
		},
		RewardWithdrawSource: FromPrincipal,
	}
}

// Hash identifies the parameter set. An actor store remembers the hash it was created with.
func (p *Params) Hash() common.Bytes32 {
	return common.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, p)
	})
}

// Copy returns a deep copy.
func (p *Params) Copy() *Params {
	cpy := *p
	cpy.MinDepositAmount = copyInt(p.MinDepositAmount)
	cpy.MaxRewardPerRound = copyInt(p.MaxRewardPerRound)
	cpy.InflationFactor = copyInt(p.InflationFactor)
	return &cpy
}

func copyInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

// Validate rejects parameters the reward and vesting math is undefined for.
func (p *Params) Validate() error {
	switch {
	case p.RoundPeriod <= 0:
		return errors.Errorf("round period must be positive, got %d", p.RoundPeriod)
	case p.PrincipalLockDuration < 0:
		return errors.Errorf("principal lock duration must not be negative, got %d", p.PrincipalLockDuration)
	case p.MaturePeriod < 0:
		return errors.Errorf("mature period must not be negative, got %d", p.MaturePeriod)
	case p.Vest.VestPeriod <= 0:
		return errors.Errorf("vest period must be positive, got %d", p.Vest.VestPeriod)
	case p.Vest.StepDuration <= 0:
		return errors.Errorf("vest step duration must be positive, got %d", p.Vest.StepDuration)
	case p.Vest.Quantization <= 0:
		return errors.Errorf("vest quantization unit must be positive, got %d", p.Vest.Quantization)
	case p.Vest.InitialDelay < 0:
		return errors.Errorf("vest initial delay must not be negative, got %d", p.Vest.InitialDelay)
	}
	for name, v := range map[string]*big.Int{
		"min deposit amount":   p.MinDepositAmount,
		"max reward per round": p.MaxRewardPerRound,
		"inflation factor":     p.InflationFactor,
	} {
		if v == nil || v.Sign() < 0 {
			return errors.Errorf("%s must be set and not negative", name)
		}
	}
	for name, e := range map[string]common.Epoch{
		"round period":            p.RoundPeriod,
		"principal lock duration": p.PrincipalLockDuration,
		"mature period":           p.MaturePeriod,
		"first round epoch":       p.FirstRoundEpoch,
		"stake period start":      p.StakePeriodStart,
		"vest initial delay":      p.Vest.InitialDelay,
		"vest period":             p.Vest.VestPeriod,
		"vest step duration":      p.Vest.StepDuration,
		"vest quantization unit":  p.Vest.Quantization,
	} {
		if !e.InRange() {
			return errors.Errorf("%s %d out of range, limit is %d", name, e, common.MaxEpoch)
		}
	}
	switch p.RewardWithdrawSource {
	case FromPrincipal, FromReward:
	default:
		return errors.Errorf("unknown reward withdraw source %q", p.RewardWithdrawSource)
	}
	return nil
}
