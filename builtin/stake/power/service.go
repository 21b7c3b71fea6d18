// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package power

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakesim/builtin/slots"
	"github.com/vechain/stakesim/common"
)

var (
	slotPowers = slots.NameToSlot("stake-powers")
	slotTotal  = slots.NameToSlot("total-stake-power")
)

// Ledger is the principal state stake power is derived from.
type Ledger interface {
	Matured(staker common.StakerID, currentEpoch common.Epoch) (*big.Int, error)
	Available(staker common.StakerID) (*big.Int, error)
}

// Power is the stake power of one staker.
type Power struct {
	Staker common.StakerID
	Power  *big.Int
}

// Service keeps per staker stake power and the total across stakers.
type Service struct {
	powers *slots.Mapping[common.StakerID, *big.Int]
	total  *slots.Uint256
}

func New(sctx *slots.Context) *Service {
	return &Service{
		powers: slots.NewMapping[common.StakerID, *big.Int](sctx, slotPowers),
		total:  slots.NewUint256(sctx, slotTotal),
	}
}

// Recompute derives every staker's power from the ledger at currentEpoch, replacing the previous values.
// Power is matured locked principal plus available principal.
func (s *Service) Recompute(currentEpoch common.Epoch, stakers []common.StakerID, ledger Ledger) ([]Power, *big.Int, error) {
	powers := make([]Power, 0, len(stakers))
	total := new(big.Int)
	for _, staker := range stakers {
		matured, err := ledger.Matured(staker, currentEpoch)
		if err != nil {
			return nil, nil, err
		}
		available, err := ledger.Available(staker)
		if err != nil {
			return nil, nil, err
		}
		power := new(big.Int).Add(matured, available)
		if err := s.powers.Set(staker, power); err != nil {
			return nil, nil, errors.Wrap(err, "failed to set stake power")
		}
		powers = append(powers, Power{Staker: staker, Power: power})
		total.Add(total, power)
	}
	if err := s.total.Set(total); err != nil {
		return nil, nil, errors.Wrap(err, "failed to set total stake power")
	}
	return powers, total, nil
}

// Get returns the staker's power as of the last recompute.
func (s *Service) Get(staker common.StakerID) (*big.Int, error) {
	return s.powers.Get(staker)
}

// Total returns the total power as of the last recompute.
func (s *Service) Total() (*big.Int, error) {
	return s.total.Get()
}
