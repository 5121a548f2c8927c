// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txgraph

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/txgraph/graph"
)

// progressHeightInterval is the height cadence at which the builder reports
// the block it is about to scan.
const progressHeightInterval = 10

// CoinbaseSource is the identifier every coinbase input points at.  Coinbase
// inputs spend the null outpoint, so their edges all leave this vertex.
var CoinbaseSource chainhash.Hash

// BlockSource provides blocks by height.  It is satisfied by
// *rpcclient.Client.
type BlockSource interface {
	// GetBlockHash returns the hash of the block in the best chain at the
	// given height.
	GetBlockHash(blockHeight int64) (*chainhash.Hash, error)

	// GetBlock returns the block with the given hash.
	GetBlock(blockHash *chainhash.Hash) (*wire.MsgBlock, error)
}

// Graph is a funding graph over transaction hashes.  An edge from A to B
// means an output of transaction A is spent by an input of transaction B.
type Graph = graph.Graph[chainhash.Hash]

// New returns an empty funding graph.
func New() *Graph {
	return graph.New[chainhash.Hash]()
}

// fetchBlock retrieves the block at the given height from src.
func fetchBlock(src BlockSource, height int64) (*btcutil.Block, error) {
	hash, err := src.GetBlockHash(height)
	if err != nil {
		return nil, RetrievalError{
			ErrorCode: ErrBlockHashRetrieval,
			Height:    height,
			Err:       err,
		}
	}

	msgBlock, err := src.GetBlock(hash)
	if err != nil {
		return nil, RetrievalError{
			ErrorCode: ErrBlockRetrieval,
			Height:    height,
			Hash:      hash,
			Err:       err,
		}
	}

	block := btcutil.NewBlock(msgBlock)
	block.SetHeight(int32(height))
	return block, nil
}

// AddBlockEdges inserts one edge per transaction input of block into g, from
// the transaction the input spends to the transaction containing it.
// Transactions and inputs are visited in block order.  Coinbase inputs are
// not skipped and produce edges from CoinbaseSource.  It returns the number of
// edges inserted.
func AddBlockEdges(g *Graph, block *btcutil.Block) int {
	var numEdges int
	for _, tx := range block.Transactions() {
		txHash := *tx.Hash()
		for _, txIn := range tx.MsgTx().TxIn {
			g.InsertEdge(txIn.PreviousOutPoint.Hash, txHash)
			numEdges++
		}
	}
	return numEdges
}

// BuildTransactionGraph scans every block from startHeight to endHeight,
// inclusive and in ascending order, and returns the funding graph of all
// transactions they contain.
//
// Any failure to retrieve a block hash or block aborts the build and returns
// a RetrievalError and no graph.  An invalid range returns a RuleError
// without consulting src.
func BuildTransactionGraph(src BlockSource, startHeight, endHeight int64) (*Graph, error) {
	if startHeight < 0 {
		str := fmt.Sprintf("start height %d is negative", startHeight)
		return nil, ruleError(ErrInvalidRange, str)
	}
	if startHeight > endHeight {
		str := fmt.Sprintf("start height %d is greater than end height %d",
			startHeight, endHeight)
		return nil, ruleError(ErrInvalidRange, str)
	}

	log.Infof("Building transaction graph for heights %d to %d",
		startHeight, endHeight)

	txGraph := New()
	progressLogger := newBlockProgressLogger("Scanned", log)
	for height := startHeight; height <= endHeight; height++ {
		if height%progressHeightInterval == 0 {
			log.Debugf("Scanning block at height %d", height)
		}

		block, err := fetchBlock(src, height)
		if err != nil {
			log.Errorf("Aborting graph build: %v", err)
			return nil, err
		}

		numEdges := AddBlockEdges(txGraph, block)
		log.Tracef("Block %v at height %d added %d edges", block.Hash(),
			height, numEdges)
		progressLogger.LogBlockHeight(block, numEdges)

		// Avoid wrapping around when the range ends at the largest
		// representable height.
		if height == endHeight {
			break
		}
	}

	log.Infof("Transaction graph complete: %d vertices, %d edges",
		txGraph.NumVertices(), txGraph.NumEdges())

	return txGraph, nil
}
