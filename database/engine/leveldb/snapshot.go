// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package leveldb

import (
	"github.com/btcsuite/txgraph/database/engine"
	"github.com/syndtr/goleveldb/leveldb"
)

// NewSnapshot wraps a goleveldb snapshot.
func NewSnapshot(snapshot *leveldb.Snapshot) engine.Snapshot {
	return &Snapshot{Snapshot: snapshot}
}

// Snapshot implements engine.Snapshot.
type Snapshot struct {
	*leveldb.Snapshot
}

func (s *Snapshot) Has(key []byte) (bool, error) {
	return s.Snapshot.Has(key, nil)
}

// Get returns the value stored under key.  goleveldb already hands out a
// private copy of the value.
func (s *Snapshot) Get(key []byte) ([]byte, error) {
	val, err := s.Snapshot.Get(key, nil)
	if err != nil {
		return nil, convertErr(err)
	}
	return val, nil
}

func (s *Snapshot) Release() {
	s.Snapshot.Release()
}
