// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kvtest checks that a kv.Store behaves the way the rest of the module expects.
package kvtest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakebook/kv"
)

// Run exercises store with the full suite. The store must be empty.
func Run(t *testing.T, store kv.Store) {
	t.Run("GetPut", func(t *testing.T) { testGetPut(t, store) })
	t.Run("Snapshot", func(t *testing.T) { testSnapshot(t, store) })
	t.Run("Bulk", func(t *testing.T) { testBulk(t, store) })
	t.Run("Iterate", func(t *testing.T) { testIterate(t, store) })
	t.Run("Bucket", func(t *testing.T) { testBucket(t, store) })
}

func testGetPut(t *testing.T, store kv.Store) {
	_, err := store.Get([]byte("missing"))
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))

	has, err := store.Has([]byte("missing"))
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, store.Put([]byte("gp/k"), []byte("v")))
	val, err := store.Get([]byte("gp/k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)

	has, err = store.Has([]byte("gp/k"))
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, store.Delete([]byte("gp/k")))
	_, err = store.Get([]byte("gp/k"))
	assert.True(t, store.IsNotFound(err))
}

func testSnapshot(t *testing.T, store kv.Store) {
	require.NoError(t, store.Put([]byte("snap/k"), []byte("v1")))

	snapshot := store.Snapshot()
	defer snapshot.Release()

	require.NoError(t, store.Put([]byte("snap/k"), []byte("v2")))
	require.NoError(t, store.Put([]byte("snap/new"), []byte("x")))

	val, err := snapshot.Get([]byte("snap/k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), val)

	_, err = snapshot.Get([]byte("snap/new"))
	assert.True(t, snapshot.IsNotFound(err))
	has, err := snapshot.Has([]byte("snap/new"))
	require.NoError(t, err)
	assert.False(t, has)
}

func testBulk(t *testing.T, store kv.Store) {
	require.NoError(t, store.Put([]byte("bulk/gone"), []byte("x")))

	bulk := store.Bulk()
	require.NoError(t, bulk.Put([]byte("bulk/a"), []byte("1")))
	require.NoError(t, bulk.Put([]byte("bulk/b"), []byte("2")))
	require.NoError(t, bulk.Delete([]byte("bulk/gone")))

	// nothing is visible before Write
	has, err := store.Has([]byte("bulk/a"))
	require.NoError(t, err)
	assert.False(t, has)
	has, err = store.Has([]byte("bulk/gone"))
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, bulk.Write())

	val, err := store.Get([]byte("bulk/b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), val)
	has, err = store.Has([]byte("bulk/gone"))
	require.NoError(t, err)
	assert.False(t, has)

	auto := store.Bulk()
	auto.EnableAutoFlush()
	for i := range 1000 {
		require.NoError(t, auto.Put(fmt.Appendf(nil, "bulk/auto/%04d", i), make([]byte, 256)))
	}
	require.NoError(t, auto.Write())
	has, err = store.Has([]byte("bulk/auto/0999"))
	require.NoError(t, err)
	assert.True(t, has)
}

func testIterate(t *testing.T, store kv.Store) {
	for _, k := range []string{"it/c", "it/a", "it/b", "iu/x"} {
		require.NoError(t, store.Put([]byte(k), []byte("v"+k)))
	}

	iter := store.Iterate(kv.Range{Start: []byte("it/"), Limit: []byte("iu")})
	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
		assert.Equal(t, "v"+string(iter.Key()), string(iter.Value()))
	}
	require.NoError(t, iter.Error())
	iter.Release()
	assert.Equal(t, []string{"it/a", "it/b", "it/c"}, keys)

	iter = store.Iterate(kv.Range{Start: []byte("it/"), Limit: []byte("iu")})
	defer iter.Release()
	require.True(t, iter.Last())
	assert.Equal(t, "it/c", string(iter.Key()))
	require.True(t, iter.Prev())
	assert.Equal(t, "it/b", string(iter.Key()))
	require.True(t, iter.First())
	assert.Equal(t, "it/a", string(iter.Key()))
	assert.False(t, iter.Prev())
}

func testBucket(t *testing.T, store kv.Store) {
	bucket := kv.Bucket("bk/").NewStore(store)

	require.NoError(t, bucket.Put([]byte("a"), []byte("1")))
	val, err := store.Get([]byte("bk/a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), val)

	bulk := bucket.Bulk()
	require.NoError(t, bulk.Put([]byte("b"), []byte("2")))
	require.NoError(t, bulk.Write())

	snapshot := bucket.Snapshot()
	defer snapshot.Release()
	val, err = snapshot.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), val)

	iter := bucket.Iterate(kv.Range{})
	defer iter.Release()
	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	assert.Equal(t, []string{"a", "b"}, keys)
}
