// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/txgraph/blockcache"
	flags "github.com/jessevdk/go-flags"
)

const (
	defaultConfigFilename = "txgraph.conf"
	defaultDataDirname    = "data"
	defaultLogLevel       = "info"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "txgraph.log"
	defaultCacheType      = blockcache.TypeLevelDB
	defaultReorgDepth     = 6

	// cacheTypeNone disables the persistent block cache.  Blocks are still
	// cached in memory for the duration of a run.
	cacheTypeNone = "none"
)

var (
	defaultHomeDir     = btcutil.AppDataDir("txgraph", false)
	btcdHomeDir        = btcutil.AppDataDir("btcd", false)
	defaultConfigFile  = filepath.Join(defaultHomeDir, defaultConfigFilename)
	defaultDataDir     = filepath.Join(defaultHomeDir, defaultDataDirname)
	defaultLogDir      = filepath.Join(defaultHomeDir, defaultLogDirname)
	defaultRPCCertFile = filepath.Join(btcdHomeDir, "rpc.cert")
)

// config defines the configuration options for txgraph.
//
// See loadConfig for details on the configuration load process.
type config struct {
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile  string `short:"C" long:"configfile" description:"Path to configuration file"`
	DataDir     string `short:"b" long:"datadir" description:"Directory to store the block cache"`
	LogDir      string `long:"logdir" description:"Directory to log output"`
	DebugLevel  string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`

	RPCServer   string `short:"s" long:"rpcserver" env:"BITCOIN_RPC_URL" description:"RPC server to connect to, optionally with an http:// or https:// scheme"`
	RPCUser     string `short:"u" long:"rpcuser" env:"BITCOIN_RPC_USER" description:"RPC username"`
	RPCPassword string `short:"P" long:"rpcpass" env:"BITCOIN_RPC_PASSWORD" default-mask:"-" description:"RPC password"`
	RPCCert     string `short:"c" long:"rpccert" description:"RPC server certificate chain for validation"`
	TLS         bool   `long:"tls" description:"Connect to the RPC server using TLS"`

	TestNet3       bool `long:"testnet" description:"Use the test network"`
	RegressionTest bool `long:"regtest" description:"Use the regression test network"`
	SigNet         bool `long:"signet" description:"Use the signet test network"`
	SimNet         bool `long:"simnet" description:"Use the simulation test network"`

	StartHeight int64  `long:"start" description:"First block height to scan"`
	EndHeight   int64  `long:"end" description:"Last block height to scan, inclusive -- Defaults to the best block height of the node"`
	CacheType   string `long:"cachetype" description:"Block cache backend {leveldb, pebble, none}"`
	CacheBlocks uint   `long:"cacheblocks" description:"Number of blocks to keep in memory"`
	ReorgDepth  uint   `long:"reorgdepth" description:"Height hashes within this many blocks of the tip are never cached"`

	From      string `long:"from" description:"Transaction id to start a reachability query from"`
	To        string `long:"to" description:"Transaction id the reachability query should reach -- Requires --from"`
	Neighbors string `long:"neighbors" description:"List the transactions spending outputs of this transaction id"`

	params        *params
	useTLS        bool
	fromHash      *chainhash.Hash
	toHash        *chainhash.Hash
	neighborsHash *chainhash.Hash
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(defaultHomeDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but they variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

// validLogLevel returns whether or not logLevel is a valid debug log level.
func validLogLevel(logLevel string) bool {
	switch logLevel {
	case "trace":
		fallthrough
	case "debug":
		fallthrough
	case "info":
		fallthrough
	case "warn":
		fallthrough
	case "error":
		fallthrough
	case "critical":
		return true
	}
	return false
}

// validCacheType returns whether or not cacheType names a supported block
// cache backend.
func validCacheType(cacheType string) bool {
	if cacheType == cacheTypeNone {
		return true
	}
	for _, knownType := range blockcache.SupportedTypes() {
		if cacheType == knownType {
			return true
		}
	}
	return false
}

// parseAndSetDebugLevels attempts to parse the specified debug level and set
// the levels accordingly.  An appropriate error is returned if anything is
// invalid.
func parseAndSetDebugLevels(debugLevel string) error {
	// When the specified string doesn't have any delimters, treat it as
	// the log level for all subsystems.
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		// Validate debug log level.
		if !validLogLevel(debugLevel) {
			str := "the specified debug level [%v] is invalid"
			return fmt.Errorf(str, debugLevel)
		}

		// Change the logging level for all subsystems.
		setLogLevels(debugLevel)

		return nil
	}

	// Split the specified string into subsystem/level pairs while detecting
	// issues and update the log levels accordingly.
	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		if !strings.Contains(logLevelPair, "=") {
			str := "the specified debug level contains an invalid " +
				"subsystem/level pair [%v]"
			return fmt.Errorf(str, logLevelPair)
		}

		// Extract the specified subsystem and log level.
		fields := strings.Split(logLevelPair, "=")
		subsysID, logLevel := fields[0], fields[1]

		// Validate subsystem.
		if _, exists := subsystemLoggers[subsysID]; !exists {
			str := "the specified subsystem [%v] is invalid -- " +
				"supported subsystems %v"
			return fmt.Errorf(str, subsysID, supportedSubsystems())
		}

		// Validate log level.
		if !validLogLevel(logLevel) {
			str := "the specified debug level [%v] is invalid"
			return fmt.Errorf(str, logLevel)
		}

		setLogLevel(subsysID, logLevel)
	}

	return nil
}

// normalizeAddress returns addr with the passed default port appended if
// there is not already a port specified.  A leading http:// or https:// scheme
// is stripped; https selects TLS.  Credentials embedded in the URL are
// returned as well.
func normalizeAddress(addr, defaultPort string) (host string, useTLS bool,
	user *url.Userinfo, err error) {

	host = addr
	if strings.Contains(addr, "://") {
		u, err := url.Parse(addr)
		if err != nil {
			return "", false, nil, err
		}
		switch u.Scheme {
		case "http":
		case "https":
			useTLS = true
		default:
			return "", false, nil, fmt.Errorf("unsupported RPC "+
				"scheme %q", u.Scheme)
		}
		host, user = u.Host, u.User
	}

	if _, _, err := net.SplitHostPort(host); err != nil {
		host = net.JoinHostPort(host, defaultPort)
	}
	return host, useTLS, user, nil
}

// parseTxid parses an optional transaction id flag.  An empty value yields
// nil.
func parseTxid(option, txid string) (*chainhash.Hash, error) {
	if txid == "" {
		return nil, nil
	}
	hash, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s transaction id %q: %v",
			option, txid, err)
	}
	return hash, nil
}

// errShowVersion is returned by loadConfig when the version was requested.
var errShowVersion = errors.New("version requested")

// loadConfig initializes and parses the config using a config file and
// command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// Environment variables fill the RPC connection options whenever they are not
// given on the command line.
func loadConfig(args []string) (*config, []string, error) {
	// Default config.
	cfg := config{
		ConfigFile:  defaultConfigFile,
		DebugLevel:  defaultLogLevel,
		DataDir:     defaultDataDir,
		LogDir:      defaultLogDir,
		RPCCert:     defaultRPCCertFile,
		EndHeight:   -1,
		CacheType:   defaultCacheType,
		CacheBlocks: blockcache.DefaultMaxBlocks,
		ReorgDepth:  defaultReorgDepth,
	}

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified.  Any errors aside from the
	// help message error can be ignored here since they will be caught by
	// the final parse below.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.HelpFlag)
	_, err := preParser.ParseArgs(args)
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			return nil, nil, err
		}
	}

	// Show the version and exit if the version flag was specified.
	if preCfg.ShowVersion {
		return nil, nil, errShowVersion
	}

	// Load additional config from file.
	var configFileError error
	parser := flags.NewParser(&cfg, flags.Default)
	err = flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile)
	if err != nil {
		if _, ok := err.(*os.PathError); !ok {
			err := fmt.Errorf("error parsing config file: %v", err)
			fmt.Fprintln(os.Stderr, err)
			parser.WriteHelp(os.Stderr)
			return nil, nil, err
		}
		configFileError = err
	}

	// Parse command line options again to ensure they take precedence.
	remainingArgs, err := parser.ParseArgs(args)
	if err != nil {
		return nil, nil, err
	}

	// Show usage with the returned error on any validation failure.
	usageErr := func(err error) (*config, []string, error) {
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, nil, err
	}

	if len(remainingArgs) > 0 {
		return usageErr(fmt.Errorf("unexpected arguments %v",
			remainingArgs))
	}

	// Multiple networks can't be selected simultaneously.
	numNets := 0
	cfg.params = &mainNetParams
	if cfg.TestNet3 {
		numNets++
		cfg.params = &testNet3Params
	}
	if cfg.RegressionTest {
		numNets++
		cfg.params = &regressionNetParams
	}
	if cfg.SigNet {
		numNets++
		cfg.params = &sigNetParams
	}
	if cfg.SimNet {
		numNets++
		cfg.params = &simNetParams
	}
	if numNets > 1 {
		return usageErr(errors.New("the testnet, regtest, signet, and " +
			"simnet params can't be used together -- choose one of " +
			"the four"))
	}

	// Append the network type to the data and log directories so they are
	// "namespaced" per network.
	cfg.DataDir = filepath.Join(cleanAndExpandPath(cfg.DataDir),
		cfg.params.Name)
	cfg.LogDir = filepath.Join(cleanAndExpandPath(cfg.LogDir),
		cfg.params.Name)
	cfg.RPCCert = cleanAndExpandPath(cfg.RPCCert)

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", supportedSubsystems())
		os.Exit(0)
	}

	// Parse, validate, and set debug log level(s).
	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return usageErr(err)
	}

	if !validCacheType(cfg.CacheType) {
		return usageErr(fmt.Errorf("the specified cache type [%v] is "+
			"invalid -- supported types %v and %s", cfg.CacheType,
			blockcache.SupportedTypes(), cacheTypeNone))
	}

	if cfg.StartHeight < 0 {
		return usageErr(fmt.Errorf("the start height %d must not be "+
			"negative", cfg.StartHeight))
	}
	if cfg.EndHeight >= 0 && cfg.EndHeight < cfg.StartHeight {
		return usageErr(fmt.Errorf("the end height %d is below the "+
			"start height %d", cfg.EndHeight, cfg.StartHeight))
	}

	// The RPC server defaults to localhost on the network's port.
	if cfg.RPCServer == "" {
		cfg.RPCServer = "localhost"
	}
	host, useTLS, user, err := normalizeAddress(cfg.RPCServer,
		cfg.params.rpcPort)
	if err != nil {
		return usageErr(fmt.Errorf("invalid RPC server %q: %v",
			cfg.RPCServer, err))
	}
	cfg.RPCServer = host
	cfg.useTLS = cfg.TLS || useTLS
	if user != nil {
		if cfg.RPCUser == "" {
			cfg.RPCUser = user.Username()
		}
		if pass, ok := user.Password(); ok && cfg.RPCPassword == "" {
			cfg.RPCPassword = pass
		}
	}

	if cfg.fromHash, err = parseTxid("from", cfg.From); err != nil {
		return usageErr(err)
	}
	if cfg.toHash, err = parseTxid("to", cfg.To); err != nil {
		return usageErr(err)
	}
	if cfg.neighborsHash, err = parseTxid("neighbors", cfg.Neighbors); err != nil {
		return usageErr(err)
	}
	if cfg.toHash != nil && cfg.fromHash == nil {
		return usageErr(errors.New("--to requires --from"))
	}

	// Warn about missing config file only after all other configuration is
	// done.  This prevents the warning on help messages and invalid
	// options.
	if configFileError != nil {
		txgrLog.Debugf("%v", configFileError)
	}

	return &cfg, remainingArgs, nil
}
