// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package common

// StakerID is the opaque identity of a staker. The empty ID is reserved as "none".
type StakerID string

// Bytes returns the key bytes used to address per-staker storage.
func (id StakerID) Bytes() []byte {
	return []byte(id)
}

// IsZero returns if the ID is empty.
func (id StakerID) IsZero() bool {
	return id == ""
}

func (id StakerID) String() string {
	return string(id)
}
