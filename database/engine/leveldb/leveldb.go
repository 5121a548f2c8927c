// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package leveldb implements engine.Engine on top of goleveldb.
package leveldb

import (
	"errors"

	"github.com/btcsuite/txgraph/database/engine"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// NewDB opens the leveldb database at dbPath, creating it when missing.  When
// create is true an existing database is an error.
func NewDB(dbPath string, create bool) (engine.Engine, error) {
	opts := opt.Options{
		ErrorIfExist: create,
		Strict:       opt.DefaultStrict,
		Compression:  opt.NoCompression,
		Filter:       filter.NewBloomFilter(10),
	}
	ldb, err := leveldb.OpenFile(dbPath, &opts)
	if err != nil {
		return nil, err
	}
	return &DB{DB: ldb}, nil
}

// DB wraps a goleveldb handle.
type DB struct {
	*leveldb.DB
}

// Transaction returns a new leveldb transaction.  Only one transaction can be
// open at a time; opening a second one blocks until the first is committed or
// discarded.
func (d *DB) Transaction() (engine.Transaction, error) {
	tx, err := d.DB.OpenTransaction()
	if err != nil {
		return nil, convertErr(err)
	}
	return NewTransaction(tx), nil
}

// Snapshot returns a snapshot of the current database state.
func (d *DB) Snapshot() (engine.Snapshot, error) {
	snapshot, err := d.DB.GetSnapshot()
	if err != nil {
		return nil, convertErr(err)
	}
	return NewSnapshot(snapshot), nil
}

// Close closes the database.
func (d *DB) Close() error {
	return convertErr(d.DB.Close())
}

// convertErr maps goleveldb sentinel errors to their engine equivalents.
func convertErr(err error) error {
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return engine.ErrNotFound
	case errors.Is(err, leveldb.ErrClosed):
		return engine.ErrClosed
	}
	return err
}
