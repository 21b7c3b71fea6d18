// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package power

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakesim/builtin/slots"
	"github.com/vechain/stakesim/common"
	"github.com/vechain/stakesim/lvldb"
)

type fakeLedger struct {
	matured   map[common.StakerID]int64
	available map[common.StakerID]int64
	err       error
}

func (l *fakeLedger) Matured(staker common.StakerID, _ common.Epoch) (*big.Int, error) {
	if l.err != nil {
		return nil, l.err
	}
	return big.NewInt(l.matured[staker]), nil
}

func (l *fakeLedger) Available(staker common.StakerID) (*big.Int, error) {
	return big.NewInt(l.available[staker]), nil
}

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(slots.NewContext(db))
}

func TestService_Recompute(t *testing.T) {
	svc := newService(t)
	stakers := []common.StakerID{"a", "b", "c"}
	ledger := &fakeLedger{
		matured:   map[common.StakerID]int64{"a": 10, "b": 5},
		available: map[common.StakerID]int64{"a": 1, "c": 7},
	}

	powers, total, err := svc.Recompute(3, stakers, ledger)
	require.NoError(t, err)
	assert.Equal(t, int64(23), total.Int64())
	require.Len(t, powers, 3)
	assert.Equal(t, common.StakerID("a"), powers[0].Staker)
	assert.Equal(t, int64(11), powers[0].Power.Int64())

	got, err := svc.Get("b")
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Int64())

	stored, err := svc.Total()
	require.NoError(t, err)
	assert.Equal(t, int64(23), stored.Int64())

	// a full recompute replaces earlier values
	ledger.matured = map[common.StakerID]int64{}
	ledger.available = map[common.StakerID]int64{"b": 2}
	_, total, err = svc.Recompute(4, stakers, ledger)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total.Int64())

	got, err = svc.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Sign())
}

func TestService_RecomputeError(t *testing.T) {
	svc := newService(t)
	boom := errors.New("boom")

	_, _, err := svc.Recompute(1, []common.StakerID{"a"}, &fakeLedger{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestService_Empty(t *testing.T) {
	svc := newService(t)

	powers, total, err := svc.Recompute(1, nil, &fakeLedger{})
	require.NoError(t, err)
	assert.Empty(t, powers)
	assert.Equal(t, 0, total.Sign())

	got, err := svc.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Sign())
}
