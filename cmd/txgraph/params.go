// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/btcsuite/btcd/chaincfg"
)

// params is used to group parameters for various networks such as the main
// network and test networks.
type params struct {
	*chaincfg.Params
	rpcPort string
}

// mainNetParams contains parameters specific to the main network
// (wire.MainNet).  The RPC port is the one used by Bitcoin Core.
var mainNetParams = params{
	Params:  &chaincfg.MainNetParams,
	rpcPort: "8332",
}

// testNet3Params contains parameters specific to the test network (version 3)
// (wire.TestNet3).
var testNet3Params = params{
	Params:  &chaincfg.TestNet3Params,
	rpcPort: "18332",
}

// regressionNetParams contains parameters specific to the regression test
// network (wire.TestNet).
var regressionNetParams = params{
	Params:  &chaincfg.RegressionNetParams,
	rpcPort: "18443",
}

// sigNetParams contains parameters specific to the default signet network
// (wire.SigNet).
var sigNetParams = params{
	Params:  &chaincfg.SigNetParams,
	rpcPort: "38332",
}

// simNetParams contains parameters specific to the simulation test network
// (wire.SimNet).  Only btcd serves this network.
var simNetParams = params{
	Params:  &chaincfg.SimNetParams,
	rpcPort: "18556",
}
