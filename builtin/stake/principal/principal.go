// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package principal

import (
	"math/big"

	"github.com/vechain/stakesim/common"
)

// Locked is a deposit waiting for its lock to expire.
type Locked struct {
	Epoch  common.Epoch
	Amount *big.Int
}

// LockedList is ordered by non-decreasing Epoch, which is the order deposits arrive in.
type LockedList []Locked

// Sum returns the total locked amount.
func (l LockedList) Sum() *big.Int {
	sum := new(big.Int)
	for _, entry := range l {
		sum.Add(sum, entry.Amount)
	}
	return sum
}

// sumWhile adds up entries from the front while cond holds, stopping at the first entry that fails it.
// It returns the sum and the number of entries consumed.
func (l LockedList) sumWhile(cond func(Locked) bool) (*big.Int, int) {
	sum := new(big.Int)
	n := 0
	for _, entry := range l {
		if !cond(entry) {
			break
		}
		sum.Add(sum, entry.Amount)
		n++
	}
	return sum, n
}
