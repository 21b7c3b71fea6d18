// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakers

import (
	"math/big"

	"github.com/vechain/stakesim/builtin/slots"
	"github.com/vechain/stakesim/common"
)

var (
	slotHead  = slots.NameToSlot("stakers-head")
	slotTail  = slots.NameToSlot("stakers-tail")
	slotCount = slots.NameToSlot("stakers-count")
	slotKnown = slots.NameToSlot("stakers-known")
)

// Registry is an insertion ordered set of stakers kept as a linked list in storage.
// Stakers are never removed; the order is the one in which they first appeared.
type Registry struct {
	head  *slots.Value[common.StakerID]
	tail  *slots.Value[common.StakerID]
	count *slots.Uint256
	next  *slots.Mapping[common.StakerID, common.StakerID]
	known *slots.Mapping[common.StakerID, bool]
}

func New(sctx *slots.Context) *Registry {
	return &Registry{
		head:  slots.NewValue[common.StakerID](sctx, slotHead),
		tail:  slots.NewValue[common.StakerID](sctx, slotTail),
		count: slots.NewUint256(sctx, slotCount),
		next:  slots.NewMapping[common.StakerID, common.StakerID](sctx, slotHead),
		known: slots.NewMapping[common.StakerID, bool](sctx, slotKnown),
	}
}

// Contains reports whether the staker has been registered.
func (r *Registry) Contains(id common.StakerID) (bool, error) {
	return r.known.Get(id)
}

// Add appends the staker to the end of the list. It returns false if already present.
func (r *Registry) Add(id common.StakerID) (bool, error) {
	known, err := r.known.Get(id)
	if err != nil || known {
		return false, err
	}

	oldTail, ok, err := r.tail.Get()
	if err != nil {
		return false, err
	}

	if !ok {
		// the list is currently empty, set this entry to head & tail
		if err := r.head.Set(id); err != nil {
			return false, err
		}
	} else if err := r.next.Set(oldTail, id); err != nil {
		return false, err
	}

	if err := r.tail.Set(id); err != nil {
		return false, err
	}
	if err := r.known.Set(id, true); err != nil {
		return false, err
	}
	return true, r.count.Add(big.NewInt(1))
}

// Len returns the number of registered stakers.
func (r *Registry) Len() (uint64, error) {
	n, err := r.count.Get()
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// Iter traverses the list in insertion order, calling callback for each staker until completion or error.
func (r *Registry) Iter(callback func(common.StakerID) error) error {
	ptr, ok, err := r.head.Get()
	if err != nil || !ok {
		return err
	}
	tail, _, err := r.tail.Get()
	if err != nil {
		return err
	}

	for {
		if err := callback(ptr); err != nil {
			return err
		}
		if ptr == tail {
			return nil
		}
		if ptr, err = r.next.Get(ptr); err != nil {
			return err
		}
	}
}

// All returns every registered staker in insertion order.
func (r *Registry) All() ([]common.StakerID, error) {
	var ids []common.StakerID
	err := r.Iter(func(id common.StakerID) error {
		ids = append(ids, id)
		return nil
	})
	return ids, err
}
