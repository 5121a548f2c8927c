// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txgraph

import (
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btclog"
)

// progressLogInterval is the minimum amount of time between two progress
// messages.
const progressLogInterval = time.Second * 10

// blockProgressLogger provides periodic logging of the number of blocks,
// transactions and funding edges processed by a graph build.
type blockProgressLogger struct {
	receivedLogBlocks int64
	receivedLogTx     int64
	receivedLogEdges  int64
	lastBlockLogTime  time.Time

	subsystemLogger btclog.Logger
	progressAction  string
	sync.Mutex
}

// newBlockProgressLogger returns a new block progress logger.
// The progress message is templated as follows:
//
//	{progressAction} {numProcessed} {blocks|block} in the last {timePeriod}
//	({numTxs} {transactions|transaction}, {numEdges} {edges|edge}, height
//	{lastBlockHeight}, {lastBlockTimeStamp})
func newBlockProgressLogger(progressMessage string, logger btclog.Logger) *blockProgressLogger {
	return &blockProgressLogger{
		lastBlockLogTime: time.Now(),
		progressAction:   progressMessage,
		subsystemLogger:  logger,
	}
}

// pluralize returns singular when n is one and plural otherwise.
func pluralize(n int64, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

// LogBlockHeight records a processed block along with the number of edges it
// contributed.  In order to prevent spam, it limits logging to one message
// every 10 seconds with duration and totals included.
func (b *blockProgressLogger) LogBlockHeight(block *btcutil.Block, numEdges int) {
	b.Lock()
	defer b.Unlock()

	b.receivedLogBlocks++
	b.receivedLogTx += int64(len(block.MsgBlock().Transactions))
	b.receivedLogEdges += int64(numEdges)

	now := time.Now()
	duration := now.Sub(b.lastBlockLogTime)
	if duration < progressLogInterval {
		return
	}

	// Truncate the duration to 10s of milliseconds.
	tDuration := duration.Truncate(10 * time.Millisecond)

	b.subsystemLogger.Infof("%s %d %s in the last %s (%d %s, %d %s, "+
		"height %d, %s)", b.progressAction, b.receivedLogBlocks,
		pluralize(b.receivedLogBlocks, "block", "blocks"), tDuration,
		b.receivedLogTx,
		pluralize(b.receivedLogTx, "transaction", "transactions"),
		b.receivedLogEdges, pluralize(b.receivedLogEdges, "edge", "edges"),
		block.Height(), block.MsgBlock().Header.Timestamp)

	b.receivedLogBlocks = 0
	b.receivedLogTx = 0
	b.receivedLogEdges = 0
	b.lastBlockLogTime = now
}

// SetLastLogTime sets the time of the last progress message.
func (b *blockProgressLogger) SetLastLogTime(time time.Time) {
	b.Lock()
	b.lastBlockLogTime = time
	b.Unlock()
}
