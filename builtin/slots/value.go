// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slots

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakesim/common"
)

// Value is a single RLP encoded record stored at a fixed slot.
type Value[V any] struct {
	context *Context
	pos     common.Bytes32
}

func NewValue[V any](context *Context, pos common.Bytes32) *Value[V] {
	return &Value[V]{context: context, pos: pos}
}

// Get returns the stored record and whether the slot was set.
func (v *Value[V]) Get() (value V, ok bool, err error) {
	raw, err := v.context.load(v.pos)
	if err != nil || len(raw) == 0 {
		return value, false, err
	}
	if err := rlp.DecodeBytes(raw, &value); err != nil {
		return value, false, errors.Wrap(err, "decode value")
	}
	return value, true, nil
}

func (v *Value[V]) Set(value V) error {
	raw, err := rlp.EncodeToBytes(value)
	if err != nil {
		return errors.Wrap(err, "encode value")
	}
	return v.context.save(v.pos, raw)
}
