// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sim

import (
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakesim/builtin/stake"
	"github.com/vechain/stakesim/builtin/stake/vesting"
	"github.com/vechain/stakesim/common"
)

// Scenario is a complete simulation: actor parameters, the messages to deliver and the epoch range.
type Scenario struct {
	Name     string
	Params   *stake.Params
	Messages []Message
	Start    common.Epoch
	StopAt   common.Epoch
}

type scenarioFile struct {
	Name     string        `yaml:"name"`
	Params   paramsFile    `yaml:"params"`
	Start    int64         `yaml:"start"`
	StopAt   int64         `yaml:"stopAt"`
	Messages []messageFile `yaml:"messages"`
}

// paramsFile overrides DefaultParams field by field. Amounts are token strings, see common.ParseToken.
type paramsFile struct {
	RoundPeriod           *int64    `yaml:"roundPeriod"`
	PrincipalLockDuration *int64    `yaml:"principalLockDuration"`
	MaturePeriod          *int64    `yaml:"maturePeriod"`
	MinDepositAmount      *string   `yaml:"minDepositAmount"`
	MaxRewardPerRound     *string   `yaml:"maxRewardPerRound"`
	InflationFactor       *string   `yaml:"inflationFactor"`
	FirstRoundEpoch       *int64    `yaml:"firstRoundEpoch"`
	StakePeriodStart      *int64    `yaml:"stakePeriodStart"`
	RewardWithdrawSource  *string   `yaml:"rewardWithdrawSource"`
	Vest                  *vestFile `yaml:"vest"`
}

type vestFile struct {
	InitialDelay *int64 `yaml:"initialDelay"`
	VestPeriod   *int64 `yaml:"vestPeriod"`
	StepDuration *int64 `yaml:"stepDuration"`
	Quantization *int64 `yaml:"quantization"`
}

type messageFile struct {
	Epoch  int64  `yaml:"epoch"`
	Sender string `yaml:"sender"`
	Op     string `yaml:"op"`
	Amount string `yaml:"amount"`
}

// LoadScenario reads a YAML scenario file. The file name is used when the scenario has no name.
func LoadScenario(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc, err := ParseScenario(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load scenario %s", path)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// ParseScenario decodes a YAML scenario. Unknown fields are rejected.
func ParseScenario(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file scenarioFile
	if err := dec.Decode(&file); err != nil {
		return nil, errors.Wrap(err, "decode scenario")
	}

	params, err := file.Params.build()
	if err != nil {
		return nil, err
	}
	sc := &Scenario{
		Name:   file.Name,
		Params: params,
		Start:  common.Epoch(file.Start),
		StopAt: common.Epoch(file.StopAt),
	}
	for i, m := range file.Messages {
		op, err := parseOp(m.Op, m.Amount)
		if err != nil {
			return nil, errors.Wrapf(err, "message %d", i)
		}
		sc.Messages = append(sc.Messages, Message{
			Epoch:  common.Epoch(m.Epoch),
			Sender: common.StakerID(m.Sender),
			Op:     op,
		})
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// Validate checks the parameters and that every message falls within the run range.
func (sc *Scenario) Validate() error {
	if err := sc.Params.Validate(); err != nil {
		return err
	}
	if !sc.Start.InRange() || !sc.StopAt.InRange() {
		return errors.Errorf("epoch range [%v, %v] exceeds the limit %v", sc.Start, sc.StopAt, common.MaxEpoch)
	}
	if sc.StopAt < sc.Start {
		return errors.Errorf("stop epoch %v before start epoch %v", sc.StopAt, sc.Start)
	}
	for i, m := range sc.Messages {
		if m.Epoch < sc.Start || m.Epoch > sc.StopAt {
			return errors.Errorf("message %d: epoch %v outside [%v, %v]", i, m.Epoch, sc.Start, sc.StopAt)
		}
		if m.Sender.IsZero() {
			return errors.Errorf("message %d: missing sender", i)
		}
	}
	return nil
}

func parseOp(name, amount string) (Op, error) {
	isMax := strings.TrimSpace(amount) == "max"
	var value *big.Int
	if !isMax {
		var err error
		if value, err = common.ParseToken(amount); err != nil {
			return nil, err
		}
	}
	switch name {
	case "deposit":
		if isMax {
			return nil, errors.New("deposit needs an explicit amount")
		}
		return Deposit{Amount: value}, nil
	case "withdraw-principal":
		return WithdrawPrincipal{Amount: value, Max: isMax}, nil
	case "withdraw-reward":
		return WithdrawReward{Amount: value, Max: isMax}, nil
	}
	return nil, errors.Errorf("unknown op %q", name)
}

func (p *paramsFile) build() (*stake.Params, error) {
	params := stake.DefaultParams()

	setEpoch := func(dst *common.Epoch, v *int64) {
		if v != nil {
			*dst = common.Epoch(*v)
		}
	}
	setEpoch(&params.RoundPeriod, p.RoundPeriod)
	setEpoch(&params.PrincipalLockDuration, p.PrincipalLockDuration)
	setEpoch(&params.MaturePeriod, p.MaturePeriod)
	setEpoch(&params.FirstRoundEpoch, p.FirstRoundEpoch)
	setEpoch(&params.StakePeriodStart, p.StakePeriodStart)
	if p.Vest != nil {
		setEpoch(&params.Vest.InitialDelay, p.Vest.InitialDelay)
		setEpoch(&params.Vest.VestPeriod, p.Vest.VestPeriod)
		setEpoch(&params.Vest.StepDuration, p.Vest.StepDuration)
		setEpoch(&params.Vest.Quantization, p.Vest.Quantization)
	}

	for _, amount := range []struct {
		name string
		dst  **big.Int
		src  *string
	}{
		{"minDepositAmount", &params.MinDepositAmount, p.MinDepositAmount},
		{"maxRewardPerRound", &params.MaxRewardPerRound, p.MaxRewardPerRound},
		{"inflationFactor", &params.InflationFactor, p.InflationFactor},
	} {
		if amount.src == nil {
			continue
		}
		v, err := common.ParseToken(*amount.src)
		if err != nil {
			return nil, errors.Wrapf(err, "params.%s", amount.name)
		}
		*amount.dst = v
	}
	if p.RewardWithdrawSource != nil {
		params.RewardWithdrawSource = stake.WithdrawSource(*p.RewardWithdrawSource)
	}
	return params, nil
}

// DemoScenario is a single staker walkthrough: one 10000 STAR deposit at epoch 19, run to epoch 44.
func DemoScenario() *Scenario {
	return &Scenario{
		Name: "demo",
		Params: &stake.Params{
			RoundPeriod:           15,
			PrincipalLockDuration: 90 * common.EpochsInDay,
			MaturePeriod:          10,
			MinDepositAmount:      new(big.Int),
			MaxRewardPerRound:     common.Tokens(10000),
			InflationFactor:       big.NewInt(100),
			FirstRoundEpoch:       13,
			Vest: vesting.Spec{
				VestPeriod:   180 * common.EpochsInDay,
				StepDuration: common.EpochsInDay,
				Quantization: 1,
			},
			RewardWithdrawSource: stake.FromPrincipal,
		},
		Messages: []Message{
			{Epoch: 19, Sender: "t001", Op: Deposit{Amount: common.Tokens(10000)}},
		},
		Start:  0,
		StopAt: 44,
	}
}
