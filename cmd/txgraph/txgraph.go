// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/txgraph/blockcache"
	"github.com/btcsuite/txgraph/txgraph"
	flags "github.com/jessevdk/go-flags"
)

const appVersion = "0.1.0"

// chainClient is the subset of the RPC client used by txgraph.
type chainClient interface {
	txgraph.BlockSource

	GetBlockCount() (int64, error)
}

// Ensure the RPC client satisfies the chainClient interface.
var _ chainClient = (*rpcclient.Client)(nil)

// connConfig returns the RPC client configuration for cfg.  Bitcoin Core
// serves JSON-RPC over HTTP POST only, so websockets are never used.
func connConfig(cfg *config) (*rpcclient.ConnConfig, error) {
	connCfg := &rpcclient.ConnConfig{
		Host:         cfg.RPCServer,
		User:         cfg.RPCUser,
		Pass:         cfg.RPCPassword,
		HTTPPostMode: true,
		DisableTLS:   !cfg.useTLS,
	}
	if cfg.useTLS {
		certs, err := os.ReadFile(cfg.RPCCert)
		switch {
		case err == nil:
			connCfg.Certificates = certs
		case !os.IsNotExist(err):
			return nil, err
		}
	}
	return connCfg, nil
}

// checkNetwork returns an error when the node's genesis block does not match
// the genesis block of the selected network.
func checkNetwork(chain chainClient, chainParams *chaincfg.Params) error {
	genesis, err := chain.GetBlockHash(0)
	if err != nil {
		return fmt.Errorf("unable to fetch genesis block hash: %v", err)
	}
	if !genesis.IsEqual(chainParams.GenesisHash) {
		return fmt.Errorf("RPC server genesis block %v does not match "+
			"the %s genesis block %v", genesis, chainParams.Name,
			chainParams.GenesisHash)
	}
	return nil
}

// yesNo returns a human readable form of b.
func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// writeReport writes a summary of the built graph along with the answers to
// any queries requested by cfg.
func writeReport(w io.Writer, cfg *config, g *txgraph.Graph, startHeight,
	endHeight int64, elapsed time.Duration, stats blockcache.Stats) {

	fmt.Fprintf(w, "Heights:          %d-%d (%d blocks)\n", startHeight,
		endHeight, endHeight-startHeight+1)
	fmt.Fprintf(w, "Transactions:     %d\n", g.NumVertices())
	fmt.Fprintf(w, "Spends:           %d\n", g.NumEdges())
	fmt.Fprintf(w, "Coinbase inputs:  %d\n", g.OutDegree(txgraph.CoinbaseSource))
	fmt.Fprintf(w, "Elapsed:          %s\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "Block hashes:     %d cached, %d fetched\n",
		stats.HashHits, stats.HashMisses)
	fmt.Fprintf(w, "Blocks:           %d memory, %d disk, %d fetched\n",
		stats.BlockMemHits, stats.BlockDiskHits, stats.BlockMisses)

	if cfg.fromHash != nil && cfg.toHash != nil {
		fmt.Fprintf(w, "Path %v -> %v: %s\n", cfg.fromHash, cfg.toHash,
			yesNo(g.PathExists(*cfg.fromHash, *cfg.toHash)))
	} else if cfg.fromHash != nil {
		reachable := g.Reachable(*cfg.fromHash)
		fmt.Fprintf(w, "Reachable from %v: %d\n", cfg.fromHash,
			len(reachable))
		for _, txid := range reachable {
			fmt.Fprintf(w, "  %v\n", txid)
		}
	}

	if cfg.neighborsHash != nil {
		neighbors := g.Neighbors(*cfg.neighborsHash)
		fmt.Fprintf(w, "Spenders of %v: %d\n", cfg.neighborsHash,
			len(neighbors))
		for _, txid := range neighbors {
			fmt.Fprintf(w, "  %v\n", txid)
		}
	}
}

// run builds the transaction graph described by cfg from chain and writes
// the report to w.
func run(cfg *config, chain chainClient, w io.Writer) error {
	if err := checkNetwork(chain, cfg.params.Params); err != nil {
		return err
	}

	bestHeight, err := chain.GetBlockCount()
	if err != nil {
		return fmt.Errorf("unable to fetch best block height: %v", err)
	}
	endHeight := cfg.EndHeight
	if endHeight < 0 {
		endHeight = bestHeight
	}
	if endHeight > bestHeight {
		return fmt.Errorf("the end height %d is beyond the best block "+
			"height %d", endHeight, bestHeight)
	}

	cacheCfg := blockcache.Config{
		Upstream:      chain,
		MaxBlocks:     cfg.CacheBlocks,
		MaxHashHeight: bestHeight - int64(cfg.ReorgDepth),
	}
	if cfg.CacheType != cacheTypeNone {
		dbPath := filepath.Join(cfg.DataDir, "blocks_"+cfg.CacheType)
		store, err := blockcache.OpenStore(cfg.CacheType, dbPath)
		if err != nil {
			return fmt.Errorf("unable to open block cache: %v", err)
		}
		defer store.Close()
		txgrLog.Debugf("Using %s block cache at %s", cfg.CacheType, dbPath)
		cacheCfg.Store = store
	}
	src := blockcache.New(&cacheCfg)

	txgrLog.Infof("Building transaction graph for heights %d-%d on %s",
		cfg.StartHeight, endHeight, cfg.params.Name)
	start := time.Now()
	g, err := txgraph.BuildTransactionGraph(src, cfg.StartHeight, endHeight)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	txgrLog.Infof("Built graph with %d transactions and %d spends in %s",
		g.NumVertices(), g.NumEdges(), elapsed.Round(time.Millisecond))

	writeReport(w, cfg, g, cfg.StartHeight, endHeight, elapsed, src.Stats())
	return nil
}

// txgraphMain is the real main function for txgraph.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func txgraphMain(cfg *config) error {
	if err := initLogRotator(filepath.Join(cfg.LogDir,
		defaultLogFilename)); err != nil {
		return err
	}
	defer logRotator.Close()

	connCfg, err := connConfig(cfg)
	if err != nil {
		return fmt.Errorf("unable to read RPC certificate: %v", err)
	}
	client, err := rpcclient.New(connCfg, nil)
	if err != nil {
		return fmt.Errorf("unable to create RPC client: %v", err)
	}
	defer client.Shutdown()

	if err := run(cfg, client, os.Stdout); err != nil {
		txgrLog.Errorf("%v", err)
		return err
	}
	return nil
}

func main() {
	// Load configuration and parse command line.  Errors have already been
	// shown to the user along with the usage message.
	cfg, _, err := loadConfig(os.Args[1:])
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			os.Exit(0)
		}
		if err == errShowVersion {
			fmt.Printf("txgraph version %s\n", appVersion)
			os.Exit(0)
		}
		os.Exit(1)
	}

	if err := txgraphMain(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
