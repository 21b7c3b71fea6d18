// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slots

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakesim/common"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction with RLP encoded values.
// Reading an absent key yields the zero value, or a zero struct when V is a pointer type.
type Mapping[K Key, V any] struct {
	context *Context
	basePos common.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos common.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	raw, err := m.context.load(m.context.position(key.Bytes(), m.basePos))
	if err != nil {
		return value, err
	}
	if reflect.ValueOf(value).Kind() == reflect.Ptr {
		value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
	}
	if len(raw) == 0 {
		return value, nil
	}
	if err := rlp.DecodeBytes(raw, &value); err != nil {
		return value, errors.Wrap(err, "decode mapping value")
	}
	return value, nil
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	raw, err := rlp.EncodeToBytes(value)
	if err != nil {
		return errors.Wrap(err, "encode mapping value")
	}
	return m.context.save(m.context.position(key.Bytes(), m.basePos), raw)
}

// Delete clears the entry for key.
func (m *Mapping[K, V]) Delete(key K) error {
	return m.context.save(m.context.position(key.Bytes(), m.basePos), nil)
}
