// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockcache

import (
	"errors"
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/txgraph/txgraph"
	"github.com/decred/dcrd/lru"
)

// DefaultMaxBlocks is the number of blocks kept in memory when the config
// does not specify a limit.
const DefaultMaxBlocks = 128

// Config holds the parameters of a caching Source.
type Config struct {
	// Upstream is the authoritative block source consulted on a miss.
	Upstream txgraph.BlockSource

	// Store is the optional persistent cache.  A nil Store caches in
	// memory only.
	Store *Store

	// MaxBlocks bounds the number of blocks held in memory.
	MaxBlocks uint

	// MaxHashHeight is the highest height whose hash may be cached.  Hashes
	// above it can still change through a reorganization and are always
	// requested from the upstream source.  A negative value disables
	// height caching.
	MaxHashHeight int64
}

// Stats counts where requests were served from.
type Stats struct {
	HashHits      uint64 // hashes served from memory or the store
	HashMisses    uint64 // hashes fetched from upstream
	BlockMemHits  uint64 // blocks served from memory
	BlockDiskHits uint64 // blocks served from the store
	BlockMisses   uint64 // blocks fetched from upstream
}

// Source is a txgraph.BlockSource that serves blocks from an in-memory LRU
// cache, then from a persistent Store, and finally from an upstream source.
// Results fetched from upstream are written back to both caches.  It is safe
// for concurrent use.
type Source struct {
	cfg Config

	mtx    sync.Mutex
	hashes map[int64]chainhash.Hash
	blocks lru.KVCache
	stats  Stats
}

// Ensure Source implements the txgraph.BlockSource interface.
var _ txgraph.BlockSource = (*Source)(nil)

// New returns a caching Source for the passed config.
func New(cfg *Config) *Source {
	maxBlocks := cfg.MaxBlocks
	if maxBlocks == 0 {
		maxBlocks = DefaultMaxBlocks
	}
	return &Source{
		cfg:    *cfg,
		hashes: make(map[int64]chainhash.Hash),
		blocks: lru.NewKVCache(maxBlocks),
	}
}

// cacheableHeight returns whether the hash at height may be cached.
func (s *Source) cacheableHeight(height int64) bool {
	return height >= 0 && height <= s.cfg.MaxHashHeight
}

// GetBlockHash returns the hash of the block at height.
//
// This function is safe for concurrent access.
func (s *Source) GetBlockHash(height int64) (*chainhash.Hash, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	cacheable := s.cacheableHeight(height)
	if cacheable {
		if hash, ok := s.hashes[height]; ok {
			s.stats.HashHits++
			return &hash, nil
		}
		if s.cfg.Store != nil {
			hash, err := s.cfg.Store.FetchBlockHash(height)
			switch {
			case err == nil:
				s.hashes[height] = *hash
				s.stats.HashHits++
				return hash, nil
			case !errors.Is(err, ErrCacheMiss):
				log.Warnf("Unable to read cached hash at height "+
					"%d: %v", height, err)
			}
		}
	}

	s.stats.HashMisses++
	hash, err := s.cfg.Upstream.GetBlockHash(height)
	if err != nil {
		return nil, err
	}

	if cacheable {
		s.hashes[height] = *hash
		if s.cfg.Store != nil {
			if err := s.cfg.Store.PutBlockHash(height, hash); err != nil {
				log.Warnf("Unable to cache hash at height %d: %v",
					height, err)
			}
		}
	}
	return hash, nil
}

// GetBlock returns the block with the given hash.
//
// This function is safe for concurrent access.
func (s *Source) GetBlock(blockHash *chainhash.Hash) (*wire.MsgBlock, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if v, ok := s.blocks.Lookup(*blockHash); ok {
		s.stats.BlockMemHits++
		return v.(*wire.MsgBlock), nil
	}

	if s.cfg.Store != nil {
		block, err := s.cfg.Store.FetchBlock(blockHash)
		switch {
		case err == nil:
			s.blocks.Add(*blockHash, block)
			s.stats.BlockDiskHits++
			return block, nil
		case !errors.Is(err, ErrCacheMiss):
			log.Warnf("Unable to read cached block %v: %v", blockHash,
				err)
		}
	}

	s.stats.BlockMisses++
	block, err := s.cfg.Upstream.GetBlock(blockHash)
	if err != nil {
		return nil, err
	}

	if block.BlockHash() != *blockHash {
		log.Warnf("Upstream returned block %v for %v, not caching",
			block.BlockHash(), blockHash)
		return block, nil
	}

	s.blocks.Add(*blockHash, block)
	if s.cfg.Store != nil {
		if err := s.cfg.Store.PutBlock(block); err != nil {
			log.Warnf("Unable to cache block %v: %v", blockHash, err)
		}
	}
	return block, nil
}

// Stats returns a copy of the request counters.
//
// This function is safe for concurrent access.
func (s *Source) Stats() Stats {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.stats
}
