// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"bytes"
	"errors"
	"sort"
)

var errNotFound = errors.New("kv: not found")

type pendingOp struct {
	val     []byte
	deleted bool
}

// Buffer stages writes on top of a source getter. Reads see staged writes first.
// Nothing reaches the source until Commit; Discard drops everything staged.
type Buffer struct {
	src     Getter
	pending map[string]pendingOp
}

var _ GetPutter = (*Buffer)(nil)

// NewBuffer creates a write buffer over src.
func NewBuffer(src Getter) *Buffer {
	return &Buffer{src: src, pending: make(map[string]pendingOp)}
}

func (b *Buffer) Get(key []byte) ([]byte, error) {
	if op, ok := b.pending[string(key)]; ok {
		if op.deleted {
			return nil, errNotFound
		}
		return bytes.Clone(op.val), nil
	}
	return b.src.Get(key)
}

func (b *Buffer) Has(key []byte) (bool, error) {
	if op, ok := b.pending[string(key)]; ok {
		return !op.deleted, nil
	}
	return b.src.Has(key)
}

func (b *Buffer) IsNotFound(err error) bool {
	return err == errNotFound || b.src.IsNotFound(err)
}

func (b *Buffer) Put(key, val []byte) error {
	b.pending[string(key)] = pendingOp{val: bytes.Clone(val)}
	return nil
}

func (b *Buffer) Delete(key []byte) error {
	b.pending[string(key)] = pendingOp{deleted: true}
	return nil
}

// Len returns the number of staged keys.
func (b *Buffer) Len() int {
	return len(b.pending)
}

// Commit writes the staged ops into batch in key order, writes the batch and resets the buffer.
func (b *Buffer) Commit(batch Batch) error {
	keys := make([]string, 0, len(b.pending))
	for k := range b.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		op := b.pending[k]
		var err error
		if op.deleted {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Put([]byte(k), op.val)
		}
		if err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		return err
	}
	b.Discard()
	return nil
}

// Discard drops all staged ops.
func (b *Buffer) Discard() {
	clear(b.pending)
}
