// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockcache

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/txgraph/txgraph"
	"github.com/stretchr/testify/require"
)

// TestSourceMemoryOnly ensures repeated requests are served from memory once
// fetched.
func TestSourceMemoryOnly(t *testing.T) {
	t.Parallel()

	upstream := newCountingSource(5)
	src := New(&Config{Upstream: upstream, MaxHashHeight: 4})

	for pass := 0; pass < 3; pass++ {
		for height := int64(0); height < 5; height++ {
			hash, err := src.GetBlockHash(height)
			require.NoError(t, err)
			block, err := src.GetBlock(hash)
			require.NoError(t, err)
			require.Equal(t, *hash, block.BlockHash())
		}
	}

	require.Equal(t, 5, upstream.hashCalls)
	require.Equal(t, 5, upstream.blockCalls)
	require.Equal(t, Stats{
		HashHits:     10,
		HashMisses:   5,
		BlockMemHits: 10,
		BlockMisses:  5,
	}, src.Stats())
}

// TestSourceMaxHashHeight ensures hashes above the configured height are
// always requested upstream.
func TestSourceMaxHashHeight(t *testing.T) {
	t.Parallel()

	upstream := newCountingSource(10)
	src := New(&Config{Upstream: upstream, MaxHashHeight: 6})

	for pass := 0; pass < 2; pass++ {
		for height := int64(0); height < 10; height++ {
			_, err := src.GetBlockHash(height)
			require.NoError(t, err)
		}
	}

	// Heights 0-6 once, 7-9 twice.
	require.Equal(t, 7+3*2, upstream.hashCalls)

	disabled := New(&Config{Upstream: upstream, MaxHashHeight: -1})
	upstream.hashCalls = 0
	for pass := 0; pass < 2; pass++ {
		_, err := disabled.GetBlockHash(0)
		require.NoError(t, err)
	}
	require.Equal(t, 2, upstream.hashCalls)
}

// TestSourceEviction ensures the in-memory tier is bounded and falls back to
// the upstream source after eviction.
func TestSourceEviction(t *testing.T) {
	t.Parallel()

	upstream := newCountingSource(4)
	src := New(&Config{Upstream: upstream, MaxBlocks: 2, MaxHashHeight: -1})

	fetch := func(height int64) {
		hash := upstream.hashes[height]
		_, err := src.GetBlock(&hash)
		require.NoError(t, err)
	}

	fetch(0)
	fetch(1)
	fetch(0) // hit, 0 becomes most recent
	fetch(2) // evicts 1
	require.Equal(t, 3, upstream.blockCalls)

	fetch(0)
	require.Equal(t, 3, upstream.blockCalls)
	fetch(1)
	require.Equal(t, 4, upstream.blockCalls)
}

// TestSourcePersistent ensures a second source sharing the store is served
// from disk without consulting the upstream source.
func TestSourcePersistent(t *testing.T) {
	t.Parallel()

	for _, storeType := range SupportedTypes() {
		store, path := openTestStore(t, storeType)
		upstream := newCountingSource(6)

		first := New(&Config{Upstream: upstream, Store: store,
			MaxHashHeight: 5})
		g1, err := txgraph.BuildTransactionGraph(first, 0, 5)
		require.NoError(t, err, storeType)
		require.Equal(t, 6, upstream.hashCalls, storeType)
		require.Equal(t, 6, upstream.blockCalls, storeType)
		require.NoError(t, store.Close(), storeType)

		store, err = OpenStore(storeType, path)
		require.NoError(t, err, storeType)
		second := New(&Config{Upstream: upstream, Store: store,
			MaxHashHeight: 5})
		g2, err := txgraph.BuildTransactionGraph(second, 0, 5)
		require.NoError(t, err, storeType)

		// Nothing new was requested upstream.
		require.Equal(t, 6, upstream.hashCalls, storeType)
		require.Equal(t, 6, upstream.blockCalls, storeType)
		require.Equal(t, Stats{HashHits: 6, BlockDiskHits: 6},
			second.Stats(), storeType)

		require.Equal(t, g1.Vertices(), g2.Vertices(), storeType)
		require.Equal(t, g1.NumEdges(), g2.NumEdges(), storeType)
		require.NoError(t, store.Close(), storeType)
	}
}

// TestSourceUpstreamErrors ensures upstream failures are returned unchanged
// and are not cached.
func TestSourceUpstreamErrors(t *testing.T) {
	t.Parallel()

	upstream := newCountingSource(2)
	src := New(&Config{Upstream: upstream, MaxHashHeight: 10})

	_, err := src.GetBlockHash(5)
	require.ErrorIs(t, err, errNotFound)
	_, err = src.GetBlockHash(5)
	require.ErrorIs(t, err, errNotFound)
	require.Equal(t, 2, upstream.hashCalls)

	var missing chainhash.Hash
	missing[31] = 0x01
	_, err = src.GetBlock(&missing)
	require.ErrorIs(t, err, errNotFound)

	// The builder wraps the upstream error in a RetrievalError.
	_, err = txgraph.BuildTransactionGraph(src, 0, 3)
	var rErr txgraph.RetrievalError
	require.ErrorAs(t, err, &rErr)
	require.Equal(t, int64(2), rErr.Height)
	require.ErrorIs(t, err, errNotFound)
}

// TestSourceMismatchedBlock ensures a block whose hash differs from the
// requested one is returned but not cached.
func TestSourceMismatchedBlock(t *testing.T) {
	t.Parallel()

	upstream := newCountingSource(2)
	hash0 := upstream.hashes[0]
	upstream.blocks[hash0] = testBlock(1)

	src := New(&Config{Upstream: upstream, MaxHashHeight: -1})
	for i := 0; i < 2; i++ {
		block, err := src.GetBlock(&hash0)
		require.NoError(t, err)
		require.NotEqual(t, hash0, block.BlockHash())
	}
	require.Equal(t, 2, upstream.blockCalls)
}
