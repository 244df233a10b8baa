// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybar-labs/cybar/cybar"
	"github.com/cybar-labs/cybar/lvldb"
	"github.com/cybar-labs/cybar/state"
)

func newContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(cybar.BytesToAddress([]byte("contract")), state.New(db))
}

type record struct {
	Amount *big.Int
	Time   uint64
}

func TestAddress(t *testing.T) {
	ctx := newContext(t)
	a := NewAddress(ctx, cybar.Bytes32{1})

	value := cybar.BytesToAddress([]byte("someone"))
	a.Set(&value)
	got, err := a.Get()
	require.NoError(t, err)
	assert.Equal(t, value, got)

	a.Set(nil)
	got, err = a.Get()
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	assert.Equal(t, cybar.BytesToAddress([]byte("contract")), ctx.Address())
}

func TestAddress_NegativeCases(t *testing.T) {
	ctx := newContext(t)
	slot := cybar.BytesToBytes32([]byte("slot"))
	// invalid rlp makes GetStorage fail
	ctx.State().SetRawStorage(ctx.Address(), slot, rlp.RawValue{0xFF})

	addr, err := NewAddress(ctx, slot).Get()
	assert.Error(t, err)
	assert.True(t, addr.IsZero())
}

func TestUint256(t *testing.T) {
	ctx := newContext(t)
	u := NewUint256(ctx, cybar.Bytes32{2})

	v, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	u.Set(big.NewInt(120))
	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(120), v)
}

func TestMapping(t *testing.T) {
	ctx := newContext(t)
	m := NewMapping[cybar.Address, *record](ctx, cybar.Bytes32{3})
	key := cybar.BytesToAddress([]byte("alice"))

	ok, err := m.Exists(key)
	require.NoError(t, err)
	assert.False(t, ok)

	empty, err := m.Get(key)
	require.NoError(t, err)
	require.NotNil(t, empty)
	assert.Nil(t, empty.Amount)

	require.NoError(t, m.Set(key, &record{Amount: big.NewInt(7), Time: 42}))
	got, err := m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(7), got.Amount)
	assert.Equal(t, uint64(42), got.Time)

	ok, err = m.Exists(key)
	require.NoError(t, err)
	assert.True(t, ok)

	// other key, same base
	other, err := m.Get(cybar.BytesToAddress([]byte("bob")))
	require.NoError(t, err)
	assert.Nil(t, other.Amount)

	// same key, different base
	other2, err := NewMapping[cybar.Address, *record](ctx, cybar.Bytes32{4}).Get(key)
	require.NoError(t, err)
	assert.Nil(t, other2.Amount)
}

func TestMapping_DecodeError(t *testing.T) {
	ctx := newContext(t)
	m := NewMapping[cybar.Address, *record](ctx, cybar.Bytes32{3})
	key := cybar.BytesToAddress([]byte("alice"))

	ctx.State().SetRawStorage(ctx.Address(), m.position(key), rlp.RawValue{0x01})
	_, err := m.Get(key)
	assert.Error(t, err)
}

func TestConfigVariable(t *testing.T) {
	config := NewConfigVariable("divisor", 10)
	assert.Equal(t, uint32(10), config.Get())
	assert.Equal(t, "divisor", config.Name())
	assert.Equal(t, cybar.BytesToBytes32([]byte("divisor")), config.Slot())

	ctx := newContext(t)
	config.Override(ctx)
	assert.Equal(t, uint32(10), config.Get())

	// bad rlp keeps the default and retries later
	config = NewConfigVariable("test", 10)
	ctx.State().SetRawStorage(ctx.Address(), config.Slot(), rlp.RawValue{0xFF})
	config.Override(ctx)
	assert.Equal(t, uint32(10), config.Get())
	assert.False(t, config.initialised)

	ctx.State().SetStorage(ctx.Address(), config.Slot(), cybar.BytesToBytes32([]byte{4}))
	config.Override(ctx)
	assert.Equal(t, uint32(4), config.Get())

	// read once
	ctx.State().SetStorage(ctx.Address(), config.Slot(), cybar.BytesToBytes32([]byte{5}))
	config.Override(ctx)
	assert.Equal(t, uint32(4), config.Get())

	// out of range values are ignored
	var be8 [8]byte
	binary.BigEndian.PutUint64(be8[:], 1<<40)
	config = NewConfigVariable("big", 10)
	ctx.State().SetStorage(ctx.Address(), config.Slot(), cybar.BytesToBytes32(be8[:]))
	config.Override(ctx)
	assert.Equal(t, uint32(10), config.Get())
}

func TestRaw(t *testing.T) {
	ctx := newContext(t)
	r := NewRaw[*record](ctx, cybar.Bytes32{5})

	v, err := r.Get()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, uint64(0), v.Time)

	require.NoError(t, r.Set(&record{Amount: big.NewInt(3), Time: 9}))
	v, err = r.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(3), v.Amount)
	assert.Equal(t, uint64(9), v.Time)
}
