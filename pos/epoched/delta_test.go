// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoched

import (
	"math"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	fuzz "github.com/google/gofuzz"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakebook/pos/epoch"
)

func TestDelta_SumsIncrements(t *testing.T) {
	params := newParams(2, 10)
	d := InitDeltaAtGenesis(int64(100), 0)
	require.NoError(t, d.Set(30, 1, params)) // at 3
	require.NoError(t, d.Set(8, 6, params))  // at 8

	for _, tc := range []struct {
		at   epoch.Epoch
		want int64
	}{{0, 100}, {2, 100}, {3, 130}, {7, 130}, {8, 138}, {20, 138}} {
		got, err := d.Get(tc.at)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "epoch %d", tc.at)
	}
	total, err := d.Total()
	require.NoError(t, err)
	assert.Equal(t, int64(138), total)
}

func TestDelta_FoldsAgedIncrements(t *testing.T) {
	params := newParams(2, 10)
	d := InitDeltaAtGenesis(int64(100), 0)
	require.NoError(t, d.Set(30, 1, params))
	require.NoError(t, d.Set(8, 6, params))

	require.NoError(t, d.Set(5, 25, params)) // at 27, increments up to 15 fold together

	assert.Equal(t, epoch.Epoch(15), d.Oldest())
	assert.Equal(t, []epoch.Epoch{8, 27}, d.Epochs())

	_, err := d.Get(1)
	assert.True(t, errors.Is(err, ErrStaleQuery))

	got, err := d.Get(16)
	require.NoError(t, err)
	assert.Equal(t, int64(138), got)
	got, _ = d.Get(26)
	assert.Equal(t, int64(138), got)
	got, _ = d.Get(27)
	assert.Equal(t, int64(143), got)
}

func TestDelta_SetAccumulatesAndUpdateRewrites(t *testing.T) {
	params := newParams(2, 10)
	d := InitDeltaAtGenesis(uint64(0), 0)

	require.NoError(t, d.Set(5, 1, params))
	require.NoError(t, d.Set(7, 1, params))
	change, ok := d.Change(3)
	assert.True(t, ok)
	assert.Equal(t, uint64(12), change)

	require.NoError(t, d.UpdateFromOffset(func(x uint64) uint64 { return x * 2 }, 1, epoch.PipelineOffset, params))
	change, _ = d.Change(3)
	assert.Equal(t, uint64(24), change)

	_, ok = d.Change(4)
	assert.False(t, ok)

	got, _ := d.Get(2)
	assert.Equal(t, uint64(0), got)
	got, _ = d.Get(3)
	assert.Equal(t, uint64(24), got)
}

func TestDelta_InitIsDelayedByPipeline(t *testing.T) {
	d := InitDelta(int64(4), 5, newParams(2, 10))

	_, err := d.Get(6)
	assert.True(t, errors.Is(err, ErrNoValue))
	got, err := d.Get(7)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got)
	assert.Equal(t, epoch.Epoch(5), d.LastUpdate())
}

func TestDelta_StaleWrite(t *testing.T) {
	params := newParams(1, 3)
	d := InitDeltaAtGenesis(int64(1), 0)
	require.NoError(t, d.Set(1, 10, params))

	err := d.SetAtOffset(1, 2, epoch.PipelineOffset, params)
	assert.True(t, errors.Is(err, ErrStaleWrite))
	err = d.UpdateFromOffset(func(x int64) int64 { return x }, 2, epoch.PipelineOffset, params)
	assert.True(t, errors.Is(err, ErrStaleWrite))
}

func TestDelta_RejectsWritesBeforeLastUpdate(t *testing.T) {
	params := newParams(2, 10)
	d := InitDeltaAtGenesis(int64(1), 0)
	require.NoError(t, d.Set(2, 10, params)) // at 12

	err := d.Set(4, 5, params)
	assert.True(t, errors.Is(err, ErrStaleWrite))
	err = d.UpdateFromOffset(func(x int64) int64 { return x + 4 }, 9, epoch.UnbondingOffset, params)
	assert.True(t, errors.Is(err, ErrStaleWrite))

	assert.Equal(t, []epoch.Epoch{0, 12}, d.Epochs())
	got, err := d.Get(12)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got)
}

func TestDelta_Overflow(t *testing.T) {
	params := newParams(2, 10)

	t.Run("signed", func(t *testing.T) {
		d := InitDeltaAtGenesis(int64(math.MaxInt64-1), 0)

		// the running sum would wrap
		err := d.Set(2, 1, params)
		assert.True(t, errors.Is(err, ErrDeltaOverflow))
		assert.Equal(t, []epoch.Epoch{0}, d.Epochs())

		require.NoError(t, d.Set(1, 1, params))
		got, err := d.Get(3)
		require.NoError(t, err)
		assert.Equal(t, int64(math.MaxInt64), got)

		// the increment itself would wrap
		err = d.Set(math.MaxInt64, 1, params)
		assert.True(t, errors.Is(err, ErrDeltaOverflow))
		err = d.UpdateFromOffset(func(int64) int64 { return 5 }, 1, epoch.PipelineOffset, params)
		assert.True(t, errors.Is(err, ErrDeltaOverflow))
		change, _ := d.Change(3)
		assert.Equal(t, int64(1), change)

		// negative increments bring it back down
		require.NoError(t, d.Set(-10, 1, params))
		total, err := d.Total()
		require.NoError(t, err)
		assert.Equal(t, int64(math.MaxInt64-10), total)

		neg := InitDeltaAtGenesis(int64(math.MinInt64), 0)
		err = neg.Set(-1, 0, params)
		assert.True(t, errors.Is(err, ErrDeltaOverflow))
	})

	t.Run("unsigned", func(t *testing.T) {
		d := InitDeltaAtGenesis(uint64(math.MaxUint64), 0)
		err := d.Set(1, 0, params)
		assert.True(t, errors.Is(err, ErrDeltaOverflow))
		require.NoError(t, d.Set(0, 0, params))

		total, err := d.Total()
		require.NoError(t, err)
		assert.Equal(t, uint64(math.MaxUint64), total)
	})

	t.Run("decoded", func(t *testing.T) {
		data, err := rlp.EncodeToBytes(&historyRLP[uint64]{Entries: []entry[uint64]{
			{Epoch: 0, Value: math.MaxUint64},
			{Epoch: 4, Value: 1},
		}})
		require.NoError(t, err)

		var d Delta[uint64]
		require.NoError(t, rlp.DecodeBytes(data, &d))
		got, err := d.Get(3)
		require.NoError(t, err)
		assert.Equal(t, uint64(math.MaxUint64), got)
		_, err = d.Get(4)
		assert.True(t, errors.Is(err, ErrDeltaOverflow))
		_, err = d.Total()
		assert.True(t, errors.Is(err, ErrDeltaOverflow))
	})
}

func TestDelta_MatchesUnprunedSum(t *testing.T) {
	params := newParams(2, 6)

	type deltaStep struct {
		Advance uint8
		Change  int16
		Op      uint8
	}

	for seed := int64(0); seed < 50; seed++ {
		var steps []deltaStep
		fuzz.NewWithSeed(seed).NilChance(0).NumElements(1, 40).Fuzz(&steps)

		d := InitDeltaAtGenesis(int64(0), 0)
		model := map[epoch.Epoch]int64{}

		current := epoch.Epoch(0)
		for _, s := range steps {
			current = current.Add(uint64(s.Advance % 6))
			change := int64(s.Change)
			switch s.Op % 3 {
			case 0:
				require.NoError(t, d.Set(change, current, params))
				model[current.Add(params.PipelineLength)] += change
			case 1:
				require.NoError(t, d.SetAtOffset(change, current, epoch.UnbondingOffset, params))
				model[current.Add(params.UnbondingLength)] += change
			default:
				fn := func(x int64) int64 { return x*2 + change }
				require.NoError(t, d.UpdateFromOffset(fn, current, epoch.PipelineOffset, params))
				target := current.Add(params.PipelineLength)
				model[target] = fn(model[target])
			}
		}

		for e := d.Oldest(); e <= current.Add(params.UnbondingLength); e++ {
			var want int64
			for at, c := range model {
				if at <= e {
					want += c
				}
			}
			got, err := d.Get(e)
			require.NoError(t, err)
			assert.Equal(t, want, got, "seed %d epoch %d", seed, e)
		}
	}
}

func TestDelta_RLP(t *testing.T) {
	params := newParams(2, 4)
	d := InitDeltaAtGenesis(uint64(10), 0)
	require.NoError(t, d.Set(5, 1, params))
	require.NoError(t, d.Set(7, 9, params))

	data, err := rlp.EncodeToBytes(d)
	require.NoError(t, err)

	var decoded Delta[uint64]
	require.NoError(t, rlp.DecodeBytes(data, &decoded))
	assert.Equal(t, d.Epochs(), decoded.Epochs())
	assert.Equal(t, d.Oldest(), decoded.Oldest())
	for e := d.Oldest(); e < 15; e++ {
		want, _ := d.Get(e)
		got, err := decoded.Get(e)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
