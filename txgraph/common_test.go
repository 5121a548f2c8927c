// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txgraph

import (
	"errors"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

var (
	// errUnknownHeight and errUnknownBlock are returned by fakeSource for
	// missing data.
	errUnknownHeight = errors.New("block height out of range")
	errUnknownBlock  = errors.New("block not found")
)

// fakeSource is an in-memory BlockSource.  It records the order of calls so
// tests can assert on the scanning order.
type fakeSource struct {
	hashes map[int64]chainhash.Hash
	blocks map[chainhash.Hash]*wire.MsgBlock

	// failBlock makes GetBlock fail for the block at the given height.
	failBlock map[int64]bool

	hashCalls  []int64
	blockCalls int
}

// newFakeSource returns an empty fakeSource.
func newFakeSource() *fakeSource {
	return &fakeSource{
		hashes:    make(map[int64]chainhash.Hash),
		blocks:    make(map[chainhash.Hash]*wire.MsgBlock),
		failBlock: make(map[int64]bool),
	}
}

// GetBlockHash returns the hash registered for the height.
func (s *fakeSource) GetBlockHash(blockHeight int64) (*chainhash.Hash, error) {
	s.hashCalls = append(s.hashCalls, blockHeight)
	hash, ok := s.hashes[blockHeight]
	if !ok {
		return nil, errUnknownHeight
	}
	return &hash, nil
}

// GetBlock returns the block registered under the hash.
func (s *fakeSource) GetBlock(blockHash *chainhash.Hash) (*wire.MsgBlock, error) {
	s.blockCalls++
	block, ok := s.blocks[*blockHash]
	if !ok {
		return nil, errUnknownBlock
	}
	return block, nil
}

// addBlock creates a block at height holding txs and registers it.
func (s *fakeSource) addBlock(height int64, txs ...*wire.MsgTx) *wire.MsgBlock {
	header := wire.NewBlockHeader(1, &chainhash.Hash{}, &chainhash.Hash{},
		0x207fffff, uint32(height))
	header.Timestamp = time.Unix(1296688602+height*600, 0)
	block := wire.NewMsgBlock(header)
	for _, tx := range txs {
		block.AddTransaction(tx)
	}

	hash := block.BlockHash()
	s.hashes[height] = hash
	if !s.failBlock[height] {
		s.blocks[hash] = block
	}
	return block
}

// coinbaseTx returns a coinbase transaction unique to the passed height.
func coinbaseTx(height int64) *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	prevOut := wire.NewOutPoint(&chainhash.Hash{}, wire.MaxPrevOutIndex)
	sigScript := []byte{0x04, byte(height), byte(height >> 8),
		byte(height >> 16), byte(height >> 24)}
	tx.AddTxIn(wire.NewTxIn(prevOut, sigScript, nil))
	tx.AddTxOut(wire.NewTxOut(50*1e8, []byte{0x51}))
	return tx
}

// spendTx returns a transaction spending output zero of every passed
// transaction, one input each.
func spendTx(prevs ...*wire.MsgTx) *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	for _, prev := range prevs {
		prevHash := prev.TxHash()
		tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&prevHash, 0), nil, nil))
	}
	tx.AddTxOut(wire.NewTxOut(1000, []byte{0x51}))
	return tx
}

// spendHash returns a transaction spending the given outpoints of a
// transaction that is not part of any test block.
func spendHash(prevHash chainhash.Hash, indexes ...uint32) *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	for _, index := range indexes {
		tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&prevHash, index), nil, nil))
	}
	tx.AddTxOut(wire.NewTxOut(1000, []byte{0x51}))
	return tx
}

// hashFromByte returns a hash whose first byte is b.
func hashFromByte(b byte) chainhash.Hash {
	var hash chainhash.Hash
	hash[0] = b
	return hash
}
