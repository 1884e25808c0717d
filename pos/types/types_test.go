// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"math"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakebook/pos/epoch"
)

func TestTokenAmount_ToChange(t *testing.T) {
	c, err := TokenAmount(100).ToChange()
	require.NoError(t, err)
	assert.Equal(t, TokenChange(100), c)

	c, err = TokenAmount(math.MaxInt64).ToChange()
	require.NoError(t, err)
	assert.Equal(t, TokenChange(math.MaxInt64), c)

	_, err = TokenAmount(math.MaxInt64 + 1).ToChange()
	assert.True(t, errors.Is(err, ErrTokenOverflow))
}

func TestTokenChange_RLP(t *testing.T) {
	for _, c := range []TokenChange{0, 1, -1, 12345, -12345, math.MaxInt64, math.MinInt64} {
		data, err := rlp.EncodeToBytes(c)
		require.NoError(t, err)

		var decoded TokenChange
		require.NoError(t, rlp.DecodeBytes(data, &decoded))
		assert.Equal(t, c, decoded)
	}

	negZero, err := rlp.EncodeToBytes(&tokenChangeRLP{Negative: true})
	require.NoError(t, err)
	var decoded TokenChange
	assert.Error(t, rlp.DecodeBytes(negZero, &decoded))

	tooBig, err := rlp.EncodeToBytes(&tokenChangeRLP{Magnitude: math.MaxInt64 + 1})
	require.NoError(t, err)
	assert.True(t, errors.Is(rlp.DecodeBytes(tooBig, &decoded), ErrTokenOverflow))
}

func TestVotingPowerFromTokens(t *testing.T) {
	params := epoch.DefaultParams()

	power, err := VotingPowerFromTokens(100, params)
	require.NoError(t, err)
	assert.Equal(t, VotingPower(100), power)

	params.VotesPerToken = 15_000 // 1.5 votes per token
	power, err = VotingPowerFromTokens(101, params)
	require.NoError(t, err)
	assert.Equal(t, VotingPower(151), power)

	// the intermediate product does not fit 64 bits but the result does
	power, err = VotingPowerFromTokens(math.MaxUint64/2, params)
	require.NoError(t, err)
	assert.Equal(t, VotingPower(uint64(math.MaxUint64/2)/10_000*15_000+(uint64(math.MaxUint64/2)%10_000)*15_000/10_000), power)

	_, err = VotingPowerFromTokens(math.MaxUint64, params)
	assert.True(t, errors.Is(err, ErrVotingPowerOverflow))
}

func TestVotingPowerIsMonotone(t *testing.T) {
	params := epoch.DefaultParams()
	params.VotesPerToken = 12_345

	var prev VotingPower
	for tokens := TokenAmount(1); tokens < 5000; tokens++ {
		power, err := VotingPowerFromTokens(tokens, params)
		require.NoError(t, err)
		assert.Greater(t, power, prev)
		prev = power
	}
}

func TestValidatorState(t *testing.T) {
	assert.False(t, ValidatorState(0).Valid())
	assert.True(t, Pending.Valid())
	assert.True(t, Jailed.Valid())
	assert.False(t, (Jailed + 1).Valid())

	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "candidate", Candidate.String())
	assert.Equal(t, "unknown(0)", ValidatorState(0).String())
}

func TestBond(t *testing.T) {
	b := Bond{}
	require.NoError(t, b.Add(3, 10))
	require.NoError(t, b.Add(1, 5))
	require.NoError(t, b.Add(3, 1))

	assert.Equal(t, TokenAmount(0), b.At(0))
	assert.Equal(t, TokenAmount(5), b.At(2))
	assert.Equal(t, TokenAmount(16), b.At(3))
	assert.Equal(t, TokenAmount(16), b.Total())

	cpy := b.Clone()
	cpy[9] = 100
	assert.Len(t, b, 2)

	b2 := Bond{0: math.MaxUint64}
	assert.True(t, errors.Is(b2.Add(0, 1), ErrTokenOverflow))
}

func TestBond_RLPIsOrdered(t *testing.T) {
	a := Bond{7: 1, 2: 3, 5: 4}
	b := Bond{5: 4, 7: 1, 2: 3}

	encA, err := rlp.EncodeToBytes(a)
	require.NoError(t, err)
	encB, err := rlp.EncodeToBytes(b)
	require.NoError(t, err)
	assert.Equal(t, encA, encB)

	var decoded Bond
	require.NoError(t, rlp.DecodeBytes(encA, &decoded))
	assert.Equal(t, a, decoded)

	unordered, err := rlp.EncodeToBytes([]bondEntry{{Epoch: 5}, {Epoch: 2}})
	require.NoError(t, err)
	assert.Error(t, rlp.DecodeBytes(unordered, &decoded))
}

func TestPublicKey(t *testing.T) {
	k := PublicKey{0x02, 0xab}
	assert.Equal(t, "0x02ab", k.String())

	cpy := k.Clone()
	cpy[0] = 0x03
	assert.True(t, k.Equal(PublicKey{0x02, 0xab}))
	assert.False(t, k.Equal(cpy))
}
