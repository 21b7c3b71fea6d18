// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slots

// Usage counts storage words read and written.
type Usage struct {
	Reads  uint64
	Writes uint64
}

// Total returns reads plus writes.
func (u Usage) Total() uint64 {
	return u.Reads + u.Writes
}

// toWordSize converts a byte length into 32-byte words, rounding up.
func toWordSize(length int) uint64 {
	return (uint64(length) + 31) / 32
}
