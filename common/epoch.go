// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package common

import (
	"io"
	"strconv"

	"github.com/ethereum/go-ethereum/rlp"
)

const (
	EpochsInHour Epoch = 120
	EpochsInDay  Epoch = 24 * EpochsInHour

	// MaxEpoch bounds every epoch and duration in absolute value, so that sums of a
	// few of them, as scheduling does, stay within int64.
	MaxEpoch Epoch = 1 << 60
)

// Epoch is the discrete time unit driving all scheduling.
// It is signed: quantization may place a grid point before zero.
type Epoch int64

var (
	_ rlp.Encoder = Epoch(0)
	_ rlp.Decoder = (*Epoch)(nil)
)

// InRange reports whether |e| <= MaxEpoch.
func (e Epoch) InRange() bool {
	return e >= -MaxEpoch && e <= MaxEpoch
}

func (e Epoch) String() string {
	return strconv.FormatInt(int64(e), 10)
}

// EncodeRLP implements rlp.Encoder. The value is written as its two's complement uint64,
// since rlp has no signed integer kind.
func (e Epoch) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, uint64(e))
}

// DecodeRLP implements rlp.Decoder.
func (e *Epoch) DecodeRLP(s *rlp.Stream) error {
	v, err := s.Uint64()
	if err != nil {
		return err
	}
	*e = Epoch(int64(v))
	return nil
}
