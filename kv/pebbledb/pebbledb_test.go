// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pebbledb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakebook/kv"
	"github.com/vechain/stakebook/kv/kvtest"
)

func TestMem(t *testing.T) {
	engine := NewMem()
	defer engine.Close()
	kvtest.Run(t, engine)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	engine, err := Open(dir)
	require.NoError(t, err)
	kvtest.Run(t, engine)
	require.NoError(t, engine.Put([]byte("persist"), []byte("yes")))
	require.NoError(t, engine.Close())

	engine, err = Open(dir)
	require.NoError(t, err)
	defer engine.Close()
	val, err := engine.Get([]byte("persist"))
	require.NoError(t, err)
	assert.Equal(t, []byte("yes"), val)
}

func TestIteratorAfterRelease(t *testing.T) {
	engine := NewMem()
	defer engine.Close()

	iter := engine.Iterate(kv.Range{Start: []byte("a"), Limit: []byte("b")})
	assert.False(t, iter.Next())
	iter.Release()
	assert.NoError(t, iter.Error())
}
