// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockcache

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/txgraph/database/engine"
	"github.com/btcsuite/txgraph/database/engine/leveldb"
	"github.com/btcsuite/txgraph/database/engine/pebbledb"
)

// Supported store types.
const (
	TypeLevelDB = "leveldb"
	TypePebble  = "pebble"
)

// Key prefixes.  Heights are stored big-endian so keys sort by height.
var (
	heightKeyPrefix = []byte("h")
	blockKeyPrefix  = []byte("b")
)

var (
	// ErrCacheMiss is returned when the requested record is not stored.
	ErrCacheMiss = errors.New("blockcache: not cached")

	// ErrUnknownType is returned by OpenStore for unsupported store types.
	ErrUnknownType = errors.New("blockcache: unknown store type")
)

// SupportedTypes returns the store types accepted by OpenStore.
func SupportedTypes() []string {
	return []string{TypeLevelDB, TypePebble}
}

// Store persists block hashes by height and raw blocks by hash.
type Store struct {
	db engine.Engine
}

// NewStore returns a Store backed by db.  The store owns db and closes it on
// Close.
func NewStore(db engine.Engine) *Store {
	return &Store{db: db}
}

// OpenStore opens or creates a store of the given type at path.
func OpenStore(storeType, path string) (*Store, error) {
	var (
		db  engine.Engine
		err error
	)
	switch storeType {
	case TypeLevelDB:
		db, err = leveldb.NewDB(path, false)
	case TypePebble:
		db, err = pebbledb.NewDB(path, false, 0, 0)
	default:
		return nil, fmt.Errorf("%w %q (supported: %v)", ErrUnknownType,
			storeType, SupportedTypes())
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open %s store at %s: %w",
			storeType, path, err)
	}

	log.Infof("Opened %s block cache at %s", storeType, path)
	return NewStore(db), nil
}

// heightKey returns the key for the block hash at height.
func heightKey(height int64) []byte {
	key := make([]byte, len(heightKeyPrefix)+8)
	copy(key, heightKeyPrefix)
	binary.BigEndian.PutUint64(key[len(heightKeyPrefix):], uint64(height))
	return key
}

// blockKey returns the key for the block with the given hash.
func blockKey(hash *chainhash.Hash) []byte {
	key := make([]byte, len(blockKeyPrefix)+chainhash.HashSize)
	copy(key, blockKeyPrefix)
	copy(key[len(blockKeyPrefix):], hash[:])
	return key
}

// get reads key from a fresh snapshot.  A missing key returns ErrCacheMiss.
func (s *Store) get(key []byte) ([]byte, error) {
	snapshot, err := s.db.Snapshot()
	if err != nil {
		return nil, err
	}
	defer snapshot.Release()

	val, err := snapshot.Get(key)
	if errors.Is(err, engine.ErrNotFound) {
		return nil, ErrCacheMiss
	}
	return val, err
}

// put writes a single key in its own transaction.
func (s *Store) put(key, value []byte) error {
	tx, err := s.db.Transaction()
	if err != nil {
		return err
	}
	if err := tx.Put(key, value); err != nil {
		tx.Discard()
		return err
	}
	return tx.Commit()
}

// FetchBlockHash returns the stored hash of the block at height.
func (s *Store) FetchBlockHash(height int64) (*chainhash.Hash, error) {
	val, err := s.get(heightKey(height))
	if err != nil {
		return nil, err
	}
	hash, err := chainhash.NewHash(val)
	if err != nil {
		return nil, fmt.Errorf("corrupt hash record at height %d: %w",
			height, err)
	}
	return hash, nil
}

// PutBlockHash stores the hash of the block at height.
func (s *Store) PutBlockHash(height int64, hash *chainhash.Hash) error {
	return s.put(heightKey(height), hash[:])
}

// FetchBlock returns the stored block with the given hash.
func (s *Store) FetchBlock(hash *chainhash.Hash) (*wire.MsgBlock, error) {
	val, err := s.get(blockKey(hash))
	if err != nil {
		return nil, err
	}

	var block wire.MsgBlock
	if err := block.Deserialize(bytes.NewReader(val)); err != nil {
		return nil, fmt.Errorf("corrupt block record %v: %w", hash, err)
	}
	return &block, nil
}

// PutBlock stores block under its hash.
func (s *Store) PutBlock(block *wire.MsgBlock) error {
	var buf bytes.Buffer
	buf.Grow(block.SerializeSize())
	if err := block.Serialize(&buf); err != nil {
		return err
	}
	hash := block.BlockHash()
	return s.put(blockKey(&hash), buf.Bytes())
}

// Close closes the underlying engine.
func (s *Store) Close() error {
	return s.db.Close()
}
