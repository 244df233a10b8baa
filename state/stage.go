// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/cybar-labs/cybar/cybar"
	"github.com/cybar-labs/cybar/kv"
)

type change struct {
	key []byte
	val []byte
}

// Stage abstracts the net storage changes of a state.
type Stage struct {
	changes []change
}

func newStage(m map[storageKey]rlp.RawValue) *Stage {
	changes := make([]change, 0, len(m))
	for k, v := range m {
		changes = append(changes, change{k.dbKey(), v})
	}
	sort.Slice(changes, func(i, j int) bool {
		return bytes.Compare(changes[i].key, changes[j].key) < 0
	})
	return &Stage{changes: changes}
}

// Len returns count of changed storage slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Hash computes a digest of all changes, ordered by key.
func (s *Stage) Hash() cybar.Bytes32 {
	data := make([][]byte, 0, len(s.changes)*2)
	for _, c := range s.changes {
		data = append(data, c.key, c.val)
	}
	return cybar.Blake2b(data...)
}

// Commit writes all changes into the store in one batch.
func (s *Stage) Commit(store kv.Store) (cybar.Bytes32, error) {
	batch := store.NewBatch()
	for _, c := range s.changes {
		var err error
		if len(c.val) == 0 {
			err = batch.Delete(c.key)
		} else {
			err = batch.Put(c.key, c.val)
		}
		if err != nil {
			return cybar.Bytes32{}, errors.Wrap(err, "stage changes")
		}
	}
	if err := batch.Write(); err != nil {
		return cybar.Bytes32{}, errors.Wrap(err, "commit changes")
	}
	metricStorageCounter().AddWithLabel(int64(len(s.changes)), map[string]string{"type": "write", "target": "db"})
	return s.Hash(), nil
}
