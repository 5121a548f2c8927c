// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockcache

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

var errNotFound = errors.New("not found")

// countingSource is an in-memory upstream that counts requests.
type countingSource struct {
	hashes map[int64]chainhash.Hash
	blocks map[chainhash.Hash]*wire.MsgBlock

	hashCalls  int
	blockCalls int
}

// newCountingSource returns an upstream serving numBlocks blocks at heights
// 0 through numBlocks-1.
func newCountingSource(numBlocks int) *countingSource {
	src := &countingSource{
		hashes: make(map[int64]chainhash.Hash),
		blocks: make(map[chainhash.Hash]*wire.MsgBlock),
	}
	for height := 0; height < numBlocks; height++ {
		block := testBlock(int64(height))
		hash := block.BlockHash()
		src.hashes[int64(height)] = hash
		src.blocks[hash] = block
	}
	return src
}

func (s *countingSource) GetBlockHash(height int64) (*chainhash.Hash, error) {
	s.hashCalls++
	hash, ok := s.hashes[height]
	if !ok {
		return nil, errNotFound
	}
	return &hash, nil
}

func (s *countingSource) GetBlock(hash *chainhash.Hash) (*wire.MsgBlock, error) {
	s.blockCalls++
	block, ok := s.blocks[*hash]
	if !ok {
		return nil, errNotFound
	}
	return block, nil
}

// testBlock returns a block unique to height with a coinbase and one spend.
func testBlock(height int64) *wire.MsgBlock {
	header := wire.NewBlockHeader(1, &chainhash.Hash{}, &chainhash.Hash{},
		0x207fffff, uint32(height))
	header.Timestamp = time.Unix(1296688602+height*600, 0)
	block := wire.NewMsgBlock(header)

	coinbase := wire.NewMsgTx(wire.TxVersion)
	coinbase.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{},
		wire.MaxPrevOutIndex), []byte{byte(height), byte(height >> 8)}, nil))
	coinbase.AddTxOut(wire.NewTxOut(50*1e8, []byte{0x51}))
	block.AddTransaction(coinbase)

	var prev chainhash.Hash
	prev[0] = byte(height)
	spend := wire.NewMsgTx(2)
	spend.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&prev, 1), nil,
		wire.TxWitness{[]byte{0x01, 0x02}}))
	spend.AddTxOut(wire.NewTxOut(1000, []byte{0x00, 0x14}))
	block.AddTransaction(spend)

	return block
}

// openTestStore opens a store of the given type in a temporary directory.
func openTestStore(t *testing.T, storeType string) (*Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), storeType)
	store, err := OpenStore(storeType, path)
	require.NoError(t, err)
	return store, path
}
