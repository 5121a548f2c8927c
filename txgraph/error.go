// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txgraph

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific RuleError or
// RetrievalError.
const (
	// ErrInvalidRange indicates the requested height range is empty or
	// starts at a negative height.
	ErrInvalidRange ErrorCode = iota

	// ErrBlockHashRetrieval indicates the block source could not provide
	// the hash of the block at a requested height.
	ErrBlockHashRetrieval

	// ErrBlockRetrieval indicates the block source could not provide the
	// block for a hash it previously returned.
	ErrBlockRetrieval
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrInvalidRange:       "ErrInvalidRange",
	ErrBlockHashRetrieval: "ErrBlockHashRetrieval",
	ErrBlockRetrieval:     "ErrBlockRetrieval",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// RuleError identifies a request that can never succeed, such as an invalid
// height range.  The caller can use type assertions to determine if a failure
// was specifically due to a rule violation and access the ErrorCode field to
// ascertain the specific reason.
type RuleError struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	return e.Description
}

// ruleError creates a RuleError given a set of arguments.
func ruleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}

// RetrievalError identifies a failure of the block source to provide a block
// hash or block body.  It always aborts a graph build.  The underlying error
// returned by the block source is available through Unwrap.
type RetrievalError struct {
	ErrorCode ErrorCode       // ErrBlockHashRetrieval or ErrBlockRetrieval
	Height    int64           // Height of the block being fetched
	Hash      *chainhash.Hash // Block hash, nil for hash lookups
	Err       error           // Error returned by the block source
}

// Error satisfies the error interface and prints human-readable errors.
func (e RetrievalError) Error() string {
	if e.Hash != nil {
		return fmt.Sprintf("unable to fetch block %v at height %d: %v",
			e.Hash, e.Height, e.Err)
	}
	return fmt.Sprintf("unable to fetch block hash at height %d: %v",
		e.Height, e.Err)
}

// Unwrap returns the error reported by the block source.
func (e RetrievalError) Unwrap() error {
	return e.Err
}
