// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoch

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestEpochArithmeticSaturates(t *testing.T) {
	assert.Equal(t, Epoch(7), Epoch(5).Add(2))
	assert.Equal(t, Epoch(math.MaxUint64), Epoch(math.MaxUint64-1).Add(5))
	assert.Equal(t, Epoch(3), Epoch(5).Sub(2))
	assert.Equal(t, Epoch(0), Epoch(5).Sub(10))
	assert.Equal(t, Epoch(0), Epoch(0).Prev())
	assert.Equal(t, Epoch(1), Epoch(0).Next())
	assert.Equal(t, Epoch(9), Max(3, 9))
	assert.Equal(t, "42", Epoch(42).String())
}

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())

	tests := []struct {
		name   string
		params Params
	}{
		{"zero pipeline", Params{PipelineLength: 0, UnbondingLength: 2, MaxActiveValidators: 1, VotesPerToken: VotesPerTokenBase}},
		{"unbonding shorter", Params{PipelineLength: 3, UnbondingLength: 2, MaxActiveValidators: 1, VotesPerToken: VotesPerTokenBase}},
		{"no active slots", Params{PipelineLength: 1, UnbondingLength: 2, MaxActiveValidators: 0, VotesPerToken: VotesPerTokenBase}},
		{"lossy votes", Params{PipelineLength: 1, UnbondingLength: 2, MaxActiveValidators: 1, VotesPerToken: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			assert.True(t, errors.Is(err, ErrInvalidParams), "got %v", err)
		})
	}

	equal := Params{PipelineLength: 2, UnbondingLength: 2, MaxActiveValidators: 1, VotesPerToken: VotesPerTokenBase}
	assert.NoError(t, equal.Validate())
}

func TestWindow(t *testing.T) {
	p := &Params{PipelineLength: 2, UnbondingLength: 10, MaxActiveValidators: 3, VotesPerToken: VotesPerTokenBase}

	w := NewWindow(5, p)
	assert.Equal(t, Epoch(7), w.Pipeline())
	assert.Equal(t, Epoch(15), w.Unbonding())
	assert.Equal(t, Epoch(7), w.Horizon(PipelineOffset))
	assert.Equal(t, Epoch(0), w.Oldest())
	assert.Equal(t, uint64(3), w.MaxActive())

	assert.Equal(t, Epoch(15), NewWindow(25, p).Oldest())
	assert.Equal(t, "pipeline", PipelineOffset.String())
	assert.Equal(t, "unbonding", UnbondingOffset.String())
	assert.Equal(t, "offset(9)", OffsetKind(9).String())
}
