// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slots

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakesim/common"
)

var (
	errUint256Overflow = errors.New("uint256 overflow")
	errUint256Negative = errors.New("uint256 negative")
)

// Uint256 stores an unsigned 256-bit integer at a fixed slot, big-endian without leading zeros.
// Values that do not fit, or would go below zero, are rejected rather than truncated.
type Uint256 struct {
	context *Context
	pos     common.Bytes32
}

func NewUint256(context *Context, pos common.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

func (u *Uint256) Get() (*big.Int, error) {
	raw, err := u.context.load(u.pos)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(raw).ToBig(), nil
}

func (u *Uint256) Set(value *big.Int) error {
	if value.Sign() < 0 {
		return errUint256Negative
	}
	v, overflow := uint256.FromBig(value)
	if overflow {
		return errUint256Overflow
	}
	if v.IsZero() {
		return u.context.save(u.pos, nil)
	}
	return u.context.save(u.pos, v.Bytes())
}

func (u *Uint256) Add(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(storage.Add(storage, value))
}

func (u *Uint256) Sub(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(storage.Sub(storage, value))
}
