// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package txgraph derives the funding graph of the transactions contained in a
range of blocks.

Transaction A funds transaction B when an input of B spends an output of A.
BuildTransactionGraph fetches every block of an inclusive height range from a
BlockSource, in ascending height order, and inserts one edge per transaction
input, from the transaction the input spends to the transaction that contains
it.  The result is a graph.Graph keyed by transaction hash.

Coinbase inputs are not filtered.  They spend the null outpoint, so the zero
hash (CoinbaseSource) becomes a vertex with one outgoing edge per coinbase
transaction in the range.  Multiple inputs spending outputs of the same
transaction produce parallel edges.

A BlockSource only needs to look up block hashes by height and blocks by hash,
which *rpcclient.Client does directly.

Errors

A build either returns a complete graph or no graph at all.  The first failure
to retrieve a block hash or block aborts the scan with a RetrievalError that
records the height and wraps the error reported by the block source.  Invalid
height ranges are rejected with a RuleError before any block is requested.
*/
package txgraph
