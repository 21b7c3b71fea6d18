// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package principal

import (
	"math/big"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakesim/builtin/slots"
	"github.com/vechain/stakesim/builtin/stake/reverts"
	"github.com/vechain/stakesim/common"
	"github.com/vechain/stakesim/lvldb"
)

func newService(t *testing.T, lockDuration, maturePeriod common.Epoch) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(slots.NewContext(db), lockDuration, maturePeriod)
}

func TestService_DepositAndUnlock(t *testing.T) {
	svc := newService(t, 5, 1)
	staker := common.StakerID("t001")

	require.NoError(t, svc.Deposit(staker, 10, big.NewInt(100)))
	require.NoError(t, svc.Deposit(staker, 12, big.NewInt(50)))

	locked, err := svc.Locked(staker)
	require.NoError(t, err)
	assert.Equal(t, int64(150), locked.Int64())

	// 10 + 5 < 15 is false, nothing unlocks yet
	unlocked, err := svc.Unlock(staker, 15)
	require.NoError(t, err)
	assert.Equal(t, 0, unlocked.Sign())

	unlocked, err = svc.Unlock(staker, 16)
	require.NoError(t, err)
	assert.Equal(t, int64(100), unlocked.Int64())

	list, err := svc.LockedList(staker)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, common.Epoch(12), list[0].Epoch)
	assert.Equal(t, int64(50), list[0].Amount.Int64())

	available, err := svc.Available(staker)
	require.NoError(t, err)
	assert.Equal(t, int64(100), available.Int64())

	unlocked, err = svc.Unlock(staker, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(50), unlocked.Int64())

	list, err = svc.LockedList(staker)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_UnlockStopsAtFirstLocked(t *testing.T) {
	svc := newService(t, 5, 1)
	staker := common.StakerID("t001")

	// out of order entry blocks the ones behind it
	require.NoError(t, svc.Deposit(staker, 20, big.NewInt(1)))
	require.NoError(t, svc.Deposit(staker, 2, big.NewInt(2)))

	unlocked, err := svc.Unlock(staker, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, unlocked.Sign())

	matured, err := svc.Matured(staker, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, matured.Sign())
}

func TestService_Matured(t *testing.T) {
	svc := newService(t, 100, 2)
	staker := common.StakerID("t001")

	require.NoError(t, svc.Deposit(staker, 10, big.NewInt(7)))
	require.NoError(t, svc.Deposit(staker, 11, big.NewInt(3)))

	for _, tc := range []struct {
		epoch common.Epoch
		want  int64
	}{
		{11, 0},
		{12, 0},
		{13, 7},
		{14, 10},
	} {
		matured, err := svc.Matured(staker, tc.epoch)
		require.NoError(t, err)
		assert.Equal(t, tc.want, matured.Int64(), "epoch %d", tc.epoch)
	}
}

func TestService_Withdraw(t *testing.T) {
	svc := newService(t, 0, 0)
	staker := common.StakerID("t001")

	require.NoError(t, svc.Deposit(staker, 1, big.NewInt(10)))
	_, err := svc.Unlock(staker, 2)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Withdraw(staker, big.NewInt(11)), reverts.ErrInsufficientBalance)
	assert.ErrorIs(t, svc.Withdraw(staker, big.NewInt(-1)), reverts.ErrNegativeAmount)
	available, err := svc.Available(staker)
	require.NoError(t, err)
	assert.Equal(t, int64(10), available.Int64())

	require.NoError(t, svc.Withdraw(staker, big.NewInt(4)))
	require.NoError(t, svc.Withdraw(staker, big.NewInt(6)))
	available, err = svc.Available(staker)
	require.NoError(t, err)
	assert.Equal(t, 0, available.Sign())

	assert.ErrorIs(t, svc.Withdraw("nobody", big.NewInt(1)), reverts.ErrInsufficientBalance)
	require.NoError(t, svc.Withdraw("nobody", big.NewInt(0)))
}

func TestService_Conservation(t *testing.T) {
	f := fuzz.NewWithSeed(42)
	svc := newService(t, 3, 1)
	stakers := []common.StakerID{"a", "b", "c"}
	deposited := map[common.StakerID]*big.Int{}
	for _, s := range stakers {
		deposited[s] = new(big.Int)
	}

	for epoch := common.Epoch(0); epoch < 60; epoch++ {
		var pick, amount uint16
		f.Fuzz(&pick)
		f.Fuzz(&amount)
		staker := stakers[int(pick)%len(stakers)]
		if pick%2 == 0 {
			require.NoError(t, svc.Deposit(staker, epoch, big.NewInt(int64(amount))))
			deposited[staker].Add(deposited[staker], big.NewInt(int64(amount)))
		}

		for _, s := range stakers {
			before, err := svc.LockedList(s)
			require.NoError(t, err)
			_, err = svc.Unlock(s, epoch)
			require.NoError(t, err)
			after, err := svc.LockedList(s)
			require.NoError(t, err)
			// unlocked entries never come back
			require.LessOrEqual(t, len(after), len(before))
			for i, entry := range after {
				kept := before[len(before)-len(after)+i]
				assert.Equal(t, kept.Epoch, entry.Epoch)
				assert.Equal(t, 0, kept.Amount.Cmp(entry.Amount))
			}

			locked, err := svc.Locked(s)
			require.NoError(t, err)
			available, err := svc.Available(s)
			require.NoError(t, err)
			total := new(big.Int).Add(locked, available)
			assert.Equal(t, 0, deposited[s].Cmp(total), "staker %s epoch %d", s, epoch)
		}
	}
}
