// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slots

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakesim/cache"
	"github.com/vechain/stakesim/common"
	"github.com/vechain/stakesim/kv"
)

const positionCacheSize = 4096

// Context binds typed slots to a kv store. Each slot lives at a 32-byte position;
// mapping entries live at blake2b(key, base).
type Context struct {
	store     kv.GetPutter
	positions *cache.LRU
	usage     Usage
}

// NewContext creates a context reading and writing through store.
func NewContext(store kv.GetPutter) *Context {
	positions, _ := cache.NewLRU(positionCacheSize)
	return &Context{store: store, positions: positions}
}

// Store returns the underlying kv store.
func (c *Context) Store() kv.GetPutter {
	return c.store
}

// Usage returns the storage words touched since creation or the last ResetUsage.
func (c *Context) Usage() Usage {
	return c.usage
}

func (c *Context) ResetUsage() {
	c.usage = Usage{}
}

// NameToSlot derives a slot position from a human readable name.
func NameToSlot(name string) common.Bytes32 {
	return common.BytesToBytes32([]byte(name))
}

func (c *Context) position(key []byte, base common.Bytes32) common.Bytes32 {
	pos, _ := c.positions.GetOrLoad(string(base[:])+string(key), func(any) (any, error) {
		return common.Blake2b(key, base.Bytes()), nil
	})
	return pos.(common.Bytes32)
}

// load returns the raw value at pos, or nil if nothing is stored there.
func (c *Context) load(pos common.Bytes32) ([]byte, error) {
	raw, err := c.store.Get(pos.Bytes())
	if err != nil {
		if c.store.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "load slot %v", pos)
	}
	c.usage.Reads += toWordSize(len(raw))
	return raw, nil
}

// save writes raw at pos. An empty value clears the slot.
func (c *Context) save(pos common.Bytes32, raw []byte) error {
	var err error
	if len(raw) == 0 {
		err = c.store.Delete(pos.Bytes())
	} else {
		c.usage.Writes += toWordSize(len(raw))
		err = c.store.Put(pos.Bytes(), raw)
	}
	if err != nil {
		return errors.Wrapf(err, "save slot %v", pos)
	}
	return nil
}
