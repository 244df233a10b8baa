// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/cybar-labs/cybar/cache"
	"github.com/cybar-labs/cybar/cybar"
	"github.com/cybar-labs/cybar/kv"
	"github.com/cybar-labs/cybar/stackedmap"
)

const (
	storageKeyPrefix = "s"
	defaultCacheSize = 4096
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr cybar.Address
	key  cybar.Bytes32
}

// dbKey is the flat key of a storage slot in the underlying kv store.
func (k storageKey) dbKey() []byte {
	b := make([]byte, 0, len(storageKeyPrefix)+cybar.AddressLength+32)
	b = append(b, storageKeyPrefix...)
	b = append(b, k.addr[:]...)
	return append(b, k.key[:]...)
}

// State manages contract storage. All writes are journaled and can be reverted
// to a checkpoint, and only reach the kv store when staged and committed.
type State struct {
	db    kv.Getter
	cache *cache.LRU // cache of committed storage values
	sm    *stackedmap.StackedMap
}

// New create state object.
func New(db kv.Getter) *State {
	c, _ := cache.NewLRU(defaultCacheSize)
	state := State{
		db:    db,
		cache: c,
	}
	state.sm = stackedmap.New(func(key any) (any, bool, error) {
		return state.cacheGetter(key)
	})
	return &state
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key any) (value any, exist bool, err error) {
	switch k := key.(type) {
	case storageKey:
		v, err := s.cache.GetOrLoad(k, func(any) (any, error) {
			metricStorageCounter().AddWithLabel(1, map[string]string{"type": "read", "target": "db"})
			return s.loadStorage(k)
		})
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

func (s *State) loadStorage(k storageKey) (rlp.RawValue, error) {
	raw, err := s.db.Get(k.dbKey())
	if err != nil {
		if s.db.IsNotFound(err) {
			return rlp.RawValue(nil), nil
		}
		return nil, err
	}
	return rlp.RawValue(raw), nil
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr cybar.Address, key cybar.Bytes32) (cybar.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return cybar.Bytes32{}, err
	}
	if len(raw) == 0 {
		return cybar.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return cybar.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return cybar.Blake2b(raw), nil
	}
	return cybar.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr cybar.Address, key, value cybar.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr cybar.Address, key cybar.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr cybar.Address, key cybar.Bytes32, raw rlp.RawValue) {
	metricStorageCounter().AddWithLabel(1, map[string]string{"type": "write", "target": "journal"})
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by end will be absorbed by State instance.
func (s *State) EncodeStorage(addr cybar.Address, key cybar.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr cybar.Address, key cybar.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// CacheStats returns hits and misses of the committed storage cache.
func (s *State) CacheStats() (hit, miss int64) {
	return s.cache.Stats()
}

// Stage makes a stage object to compute hash of changes or commit all changes.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey]rlp.RawValue)
	s.sm.Journal(func(k, v any) bool {
		if key, ok := k.(storageKey); ok {
			changes[key] = v.(rlp.RawValue)
		}
		return true
	})
	return newStage(changes)
}
