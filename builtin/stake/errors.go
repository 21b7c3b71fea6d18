// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakesim/builtin/stake/reverts"
)

// Recoverable caller errors. The rejected operation changes nothing.
var (
	ErrInsufficientBalance = reverts.ErrInsufficientBalance
	ErrDepositTooSmall     = reverts.ErrDepositTooSmall
	ErrInvalidStaker       = reverts.ErrInvalidStaker
	ErrNegativeAmount      = reverts.ErrNegativeAmount
)

// ErrPreconditionViolation reports a driver ordering bug. The simulation must abort.
var ErrPreconditionViolation = errors.New("precondition violation")

// ErrParamsMismatch reports a store created with different actor parameters.
var ErrParamsMismatch = errors.New("stake params mismatch")

// IsFatal reports whether err must abort the simulation.
func IsFatal(err error) bool {
	return err != nil && !reverts.IsRevertErr(err)
}
