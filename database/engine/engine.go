// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package engine defines the key/value storage interface shared by the
// on-disk backends in the leveldb and pebbledb subpackages.
package engine

import "errors"

var (
	// ErrNotFound is returned by Snapshot.Get when the key does not
	// exist.  Backends translate their own not-found errors to it.
	ErrNotFound = errors.New("engine: key not found")

	// ErrClosed is returned when an engine is used after Close.
	ErrClosed = errors.New("engine: closed")
)

// Engine is an ordered key/value store.
type Engine interface {
	// Transaction returns a write batch.  Writes become visible to new
	// snapshots once committed.
	Transaction() (Transaction, error)

	// Snapshot returns a consistent read-only view of the store.
	Snapshot() (Snapshot, error)

	// Close releases the engine.  Closing twice returns an error.
	Close() error
}

// Transaction is a batch of writes applied atomically by Commit.
type Transaction interface {
	Put(key, value []byte) error
	Delete(key []byte) error

	// Commit applies the batch.  The transaction cannot be used
	// afterwards.
	Commit() error

	// Discard drops the batch.  It is safe to call more than once and
	// after Commit.
	Discard()
}

// Snapshot is a point-in-time read view.
type Snapshot interface {
	// Get returns a copy of the value stored under key, or ErrNotFound.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Releaser
}

// Releaser is implemented by resources that must be released after use.
type Releaser interface {
	// Release frees the resource.  It is safe to call more than once.
	Release()
}
