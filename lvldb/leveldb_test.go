// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakesim/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		invalidKey = []byte("abc")
	)

	disk, err := New(filepath.Join(t.TempDir(), "stake.db"), Options{16, 16})
	require.NoError(t, err)
	defer disk.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{disk, mem} {
		require.NoError(t, db.Put(key, value))

		got, err := db.Get(key)
		require.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := db.Has(key)
		require.NoError(t, err)
		assert.True(t, has)

		has, err = db.Has(invalidKey)
		require.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, db.Delete(key))
		_, err = db.Get(key)
		assert.True(t, db.IsNotFound(err))
	}
}

func TestLevelDB_Batch(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put([]byte("gone"), []byte("x")))

	batch := db.NewBatch()
	require.NoError(t, batch.Put([]byte("a"), []byte("1")))
	require.NoError(t, batch.Delete([]byte("gone")))
	assert.Equal(t, 2, batch.Len())

	_, err = db.Get([]byte("a"))
	assert.True(t, db.IsNotFound(err), "batch must not be visible before Write")

	require.NoError(t, batch.Write())
	got, err := db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)
	_, err = db.Get([]byte("gone"))
	assert.True(t, db.IsNotFound(err))
}

func TestLevelDB_BufferCommit(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	buf := kv.NewBuffer(db)
	require.NoError(t, kv.Bucket("s/").NewPutter(buf).Put([]byte("k"), []byte("v")))
	require.NoError(t, buf.Commit(db.NewBatch()))

	got, err := db.Get([]byte("s/k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}
