// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"sync"
)

// Bucket provides logical bucket for kv store.
type Bucket string

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &struct {
		GetFunc
		HasFunc
		IsNotFoundFunc
	}{
		func(key []byte) ([]byte, error) {
			buf := bufPool.Get().(*buf)
			defer bufPool.Put(buf)
			buf.k = append(append(buf.k[:0], b...), key...)

			return src.Get(buf.k)
		},
		func(key []byte) (bool, error) {
			buf := bufPool.Get().(*buf)
			defer bufPool.Put(buf)
			buf.k = append(append(buf.k[:0], b...), key...)

			return src.Has(buf.k)
		},
		src.IsNotFound,
	}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter {
	return &struct {
		PutFunc
		DeleteFunc
	}{
		func(key, val []byte) error {
			buf := bufPool.Get().(*buf)
			defer bufPool.Put(buf)
			buf.k = append(append(buf.k[:0], b...), key...)

			return src.Put(buf.k, val)
		},
		func(key []byte) error {
			buf := bufPool.Get().(*buf)
			defer bufPool.Put(buf)
			buf.k = append(append(buf.k[:0], b...), key...)

			return src.Delete(buf.k)
		},
	}
}

// NewGetPutter creates a bucket getter/putter from the source.
func (b Bucket) NewGetPutter(src GetPutter) GetPutter {
	return &struct {
		Getter
		Putter
	}{
		b.NewGetter(src),
		b.NewPutter(src),
	}
}

type buf struct {
	k []byte
}

var bufPool = sync.Pool{
	New: func() any {
		return &buf{}
	},
}
