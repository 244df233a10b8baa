// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybar-labs/cybar/cybar"
	"github.com/cybar-labs/cybar/lvldb"
)

func newTestState(t *testing.T) (*State, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), db
}

func TestStateStorage(t *testing.T) {
	st, _ := newTestState(t)

	addr := cybar.BytesToAddress([]byte("contract"))
	key := cybar.BytesToBytes32([]byte("slot"))

	v, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	st.SetStorage(addr, key, cybar.BytesToBytes32([]byte("value")))
	v, err = st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, cybar.BytesToBytes32([]byte("value")), v)

	st.SetStorage(addr, key, cybar.Bytes32{})
	raw, err := st.GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestStateRevert(t *testing.T) {
	st, _ := newTestState(t)

	addr := cybar.BytesToAddress([]byte("contract"))
	key := cybar.BytesToBytes32([]byte("slot"))
	one := cybar.BytesToBytes32([]byte{1})
	two := cybar.BytesToBytes32([]byte{2})

	st.SetStorage(addr, key, one)

	rev := st.NewCheckpoint()
	st.SetStorage(addr, key, two)
	v, _ := st.GetStorage(addr, key)
	assert.Equal(t, two, v)

	st.RevertTo(rev)
	v, _ = st.GetStorage(addr, key)
	assert.Equal(t, one, v)
}

func TestStateEncodeDecode(t *testing.T) {
	st, _ := newTestState(t)

	type body struct {
		A uint64
		B []byte
	}
	addr := cybar.BytesToAddress([]byte("contract"))
	key := cybar.BytesToBytes32([]byte("struct"))

	require.NoError(t, st.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes(&body{A: 7, B: []byte("x")})
	}))

	var decoded body
	require.NoError(t, st.DecodeStorage(addr, key, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &decoded)
	}))
	assert.Equal(t, body{A: 7, B: []byte("x")}, decoded)

	// rlp list values read back as their hash
	v, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	raw, _ := st.GetRawStorage(addr, key)
	assert.Equal(t, cybar.Blake2b(raw), v)
}

func TestStageCommit(t *testing.T) {
	st, db := newTestState(t)

	addr := cybar.BytesToAddress([]byte("contract"))
	k1 := cybar.BytesToBytes32([]byte("k1"))
	k2 := cybar.BytesToBytes32([]byte("k2"))

	st.SetStorage(addr, k1, cybar.BytesToBytes32([]byte{1}))
	st.SetStorage(addr, k2, cybar.BytesToBytes32([]byte{2}))

	stage := st.Stage()
	assert.Equal(t, 2, stage.Len())
	hash := stage.Hash()

	committed, err := stage.Commit(db)
	require.NoError(t, err)
	assert.Equal(t, hash, committed)

	// a fresh state sees committed values
	st2 := New(db)
	v, err := st2.GetStorage(addr, k2)
	require.NoError(t, err)
	assert.Equal(t, cybar.BytesToBytes32([]byte{2}), v)

	_, err = st2.GetStorage(addr, k2)
	require.NoError(t, err)
	hit, miss := st2.CacheStats()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)

	// clearing a slot deletes the key
	st2.SetStorage(addr, k2, cybar.Bytes32{})
	_, err = st2.Stage().Commit(db)
	require.NoError(t, err)

	v, err = New(db).GetStorage(addr, k2)
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}

func TestStageHashDeterministic(t *testing.T) {
	a, _ := newTestState(t)
	b, _ := newTestState(t)

	addr := cybar.BytesToAddress([]byte("contract"))
	for i := byte(0); i < 5; i++ {
		a.SetStorage(addr, cybar.BytesToBytes32([]byte{i}), cybar.BytesToBytes32([]byte{i + 1}))
	}
	for i := byte(5); i > 0; i-- {
		b.SetStorage(addr, cybar.BytesToBytes32([]byte{i - 1}), cybar.BytesToBytes32([]byte{i}))
	}
	assert.Equal(t, a.Stage().Hash(), b.Stage().Hash())
}
