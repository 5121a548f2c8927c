// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package blockcache provides a caching txgraph.BlockSource.

Scanning a large height range over RPC is dominated by block retrieval, and
the same ranges tend to be scanned repeatedly while investigating funding
paths.  Source sits in front of an upstream block source such as an
*rpcclient.Client and serves requests from three tiers in order:

  - an in-memory LRU of recently used blocks
  - an optional on-disk Store backed by leveldb or pebble
  - the upstream source, whose answers are written back to the tiers above

Blocks are immutable once their hash is known, so they are always cached.
The mapping from height to hash is only cached up to Config.MaxHashHeight,
which callers set below the chain tip so a reorganization cannot leave stale
hashes behind.

Failures to read or write the cache are logged and fall through to the
upstream source.  Upstream errors are returned unchanged.
*/
package blockcache
