// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package quant aligns epochs to a periodic grid offset by a seed.
package quant

import (
	"fmt"

	"github.com/vechain/stakesim/common"
)

// Spec describes a grid of period Unit whose points sit at Offset modulo Unit.
type Spec struct {
	Unit   common.Epoch
	Offset common.Epoch
}

// NoQuantization leaves every epoch where it is.
var NoQuantization = NewSpec(1, 0)

// NewSpec builds a grid of period unit offset by seed. unit must be positive.
func NewSpec(unit, seed common.Epoch) Spec {
	if unit <= 0 {
		panic(fmt.Sprintf("quant: non-positive unit %d", unit))
	}
	return Spec{Unit: unit, Offset: mod(seed, unit)}
}

// QuantizeUp aligns e up to the grid.
//
// When e lies before the offset the result is the grid point at or below e,
// so callers must not assume the result is >= e in that case.
//
// e and Unit must lie within common.MaxEpoch; the result then differs from e by
// less than one Unit and cannot overflow.
func (q Spec) QuantizeUp(e common.Epoch) common.Epoch {
	base := e - q.Offset
	quotient := floorDiv(base, q.Unit)
	remainder := base - q.Unit*quotient
	if remainder == 0 {
		return e
	}
	if base < 0 {
		return q.Unit*quotient + q.Offset
	}
	return q.Unit*(quotient+1) + q.Offset
}

// QuantizeUp is shorthand for NewSpec(unit, seed).QuantizeUp(e).
func QuantizeUp(e, unit, seed common.Epoch) common.Epoch {
	return NewSpec(unit, seed).QuantizeUp(e)
}

func floorDiv(a, b common.Epoch) common.Epoch {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b common.Epoch) common.Epoch {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}
