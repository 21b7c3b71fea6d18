// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts holds the recoverable caller errors. A reverted operation leaves no state change.
package reverts

import (
	"errors"
)

var (
	ErrInsufficientBalance = New("insufficient balance")
	ErrDepositTooSmall     = New("deposit below minimum amount")
	ErrInvalidStaker       = New("invalid staker")
	ErrNegativeAmount      = New("negative amount")
)

type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}
