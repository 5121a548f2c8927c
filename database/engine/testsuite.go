// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSuiteEngine runs the behavior every Engine implementation must share.
// The new function must return a fresh, empty engine on every call.
func TestSuiteEngine(t *testing.T, new func() Engine) {
	t.Run("TransactionSnapshot", func(t *testing.T) {
		engine := new()
		defer engine.Close()

		// Create new transaction
		tx, err := engine.Transaction()
		require.NoErrorf(t, err, "failed to create transaction")

		// Put some data into the transaction
		key := []byte("key1")
		value := []byte("value1")
		err = tx.Put(key, value)
		require.NoErrorf(t, err, "failed to put data into transaction")

		// Uncommitted data is invisible.
		snapshot, err := engine.Snapshot()
		require.NoErrorf(t, err, "failed to create snapshot")

		has, err := snapshot.Has(key)
		require.NoErrorf(t, err, "failed to check if key exists in snapshot")
		require.Falsef(t, has, "expected key to not exist in snapshot")

		gotValue, err := snapshot.Get(key)
		require.Truef(t, errors.Is(err, ErrNotFound),
			"expected ErrNotFound, got %v", err)
		require.Nil(t, gotValue, "expected to get nil value from snapshot")
		snapshot.Release()

		err = tx.Commit()
		require.NoErrorf(t, err, "failed to commit transaction")
		tx.Discard() // discarding a committed transaction is a no-op

		// Committed data is visible to new snapshots.
		snapshot, err = engine.Snapshot()
		require.NoErrorf(t, err, "failed to create snapshot")

		gotValue, err = snapshot.Get(key)
		require.NoErrorf(t, err, "failed to get value from snapshot")
		require.Equalf(t, value, gotValue, "snapshot value mismatch")

		has, err = snapshot.Has(key)
		require.NoError(t, err)
		require.True(t, has)
		snapshot.Release()
	})

	t.Run("SnapshotIsolation", func(t *testing.T) {
		engine := new()
		defer engine.Close()

		key := []byte("height")
		put := func(value string) {
			tx, err := engine.Transaction()
			require.NoError(t, err)
			require.NoError(t, tx.Put(key, []byte(value)))
			require.NoError(t, tx.Commit())
		}

		put("old")
		snapshot, err := engine.Snapshot()
		require.NoError(t, err)
		defer snapshot.Release()

		put("new")
		got, err := snapshot.Get(key)
		require.NoError(t, err)
		require.Equal(t, []byte("old"), got)

		// Values returned by Get belong to the caller.
		got[0] = 'x'
		again, err := snapshot.Get(key)
		require.NoError(t, err)
		require.Equal(t, []byte("old"), again)
	})

	t.Run("Delete", func(t *testing.T) {
		engine := new()
		defer engine.Close()

		kvs := map[string]string{"b1": "block1", "b2": "block2", "h1": "hash1"}
		tx, err := engine.Transaction()
		require.NoError(t, err)
		for k, v := range kvs {
			require.NoError(t, tx.Put([]byte(k), []byte(v)))
		}
		require.NoError(t, tx.Commit())

		tx, err = engine.Transaction()
		require.NoError(t, err)
		require.NoError(t, tx.Delete([]byte("b2")))
		require.NoError(t, tx.Delete([]byte("missing")))
		require.NoError(t, tx.Commit())

		snapshot, err := engine.Snapshot()
		require.NoError(t, err)
		defer snapshot.Release()
		for k, v := range kvs {
			got, err := snapshot.Get([]byte(k))
			if k == "b2" {
				require.ErrorIs(t, err, ErrNotFound)
				continue
			}
			require.NoError(t, err)
			require.Equal(t, []byte(v), got)
		}
	})

	t.Run("Discard", func(t *testing.T) {
		engine := new()
		defer engine.Close()

		tx, err := engine.Transaction()
		require.NoError(t, err)
		require.NoError(t, tx.Put([]byte("key"), []byte("value")))
		tx.Discard()

		snapshot, err := engine.Snapshot()
		require.NoError(t, err)
		defer snapshot.Release()
		has, err := snapshot.Has([]byte("key"))
		require.NoError(t, err)
		require.False(t, has, "discarded write is visible")
	})

	t.Run("DbClose", func(t *testing.T) {
		engine := new()

		// release
		transaction, err := engine.Transaction()
		require.NoErrorf(t, err, "failed to create transaction")

		transaction.Discard()
		transaction.Discard() // multiple calls to discard should be safe
		err = transaction.Commit()
		require.Errorf(t, err, "expected to get error when committing discarded transaction")

		snapshot, err := engine.Snapshot()
		require.NoErrorf(t, err, "failed to create snapshot")

		snapshot.Release()
		snapshot.Release() // multiple calls to release should be safe
		_, err = snapshot.Get([]byte("key"))
		require.Errorf(t, err, "expected to get error when getting value from released snapshot")

		err = engine.Close()
		require.NoErrorf(t, err, "failed to close engine")

		// Ensure that the engine is closed
		err = engine.Close()
		require.Errorf(t, err, "expected to get error when closing closed engine")

		// Get a transaction from a closed engine
		_, err = engine.Transaction()
		require.Errorf(t, err, "expected to get error when creating transaction from closed engine")

		// Get a snapshot from a closed engine
		_, err = engine.Snapshot()
		require.Errorf(t, err, "expected to get error when creating snapshot from closed engine")
	})
}
