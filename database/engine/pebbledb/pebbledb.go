// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pebbledb implements engine.Engine on top of pebble.
package pebbledb

import (
	"errors"
	"runtime"
	"sync/atomic"

	"github.com/btcsuite/txgraph/database/engine"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/bloom"
)

var (
	ErrTxClosed         = errors.New("pebbledb: transaction already closed")
	ErrSnapshotReleased = errors.New("pebbledb: snapshot released")
)

const (
	// DefaultCache is the block cache size in MiB used when none is given.
	DefaultCache = 64

	// DefaultHandles is the open file limit used when none is given.
	DefaultHandles = 16
)

// NewDB opens the pebble database at dbPath, creating it when missing.  When
// create is true an existing database is an error.  cache is the block cache
// size in MiB and handles the open file limit; non-positive values select the
// defaults.
func NewDB(dbPath string, create bool, cache, handles int) (engine.Engine, error) {
	if cache <= 0 {
		cache = DefaultCache
	}
	if handles <= 0 {
		handles = DefaultHandles
	}

	blockCache := pebble.NewCache(int64(cache) * 1024 * 1024)
	defer blockCache.Unref()

	// Blocks are written once and read back by hash, so a bloom filter on
	// every level keeps misses cheap.
	levels := make([]pebble.LevelOptions, 7)
	targetFileSize := int64(2 * 1024 * 1024)
	for i := range levels {
		levels[i] = pebble.LevelOptions{
			TargetFileSize: targetFileSize,
			FilterPolicy:   bloom.FilterPolicy(10),
		}
		targetFileSize *= 2
	}

	opts := &pebble.Options{
		Cache:                    blockCache,
		ErrorIfExists:            create,
		MaxOpenFiles:             handles,
		MaxConcurrentCompactions: runtime.NumCPU,
		Levels:                   levels,
	}
	dbEngine, err := pebble.Open(dbPath, opts)
	if err != nil {
		return nil, err
	}

	return &DB{DB: dbEngine}, nil
}

// DB wraps a pebble handle.
type DB struct {
	*pebble.DB

	closed atomic.Bool
}

// Set closed flag; return true if not already closed.
func (d *DB) setClosed() bool {
	return !d.closed.Swap(true)
}

// Check whether DB was closed.
func (d *DB) isClosed() bool {
	return d.closed.Load()
}

// Transaction returns a new write batch.
func (d *DB) Transaction() (engine.Transaction, error) {
	if d.isClosed() {
		return nil, engine.ErrClosed
	}
	return NewTransaction(d.DB.NewBatch()), nil
}

// Snapshot returns a snapshot of the current database state.
func (d *DB) Snapshot() (engine.Snapshot, error) {
	if d.isClosed() {
		return nil, engine.ErrClosed
	}
	return NewSnapshot(d.DB.NewSnapshot()), nil
}

// Close closes the database.
func (d *DB) Close() error {
	if !d.setClosed() {
		return engine.ErrClosed
	}
	return d.DB.Close()
}
