// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakebook/pos/epoch"
	"github.com/vechain/stakebook/pos/epoched"
	"github.com/vechain/stakebook/pos/types"
	"github.com/vechain/stakebook/pos/validatorset"
	"github.com/vechain/stakebook/thor"
)

func addr(b byte) thor.Address {
	return thor.BytesToAddress([]byte{b})
}

func testParams() *epoch.Params {
	return &epoch.Params{
		PipelineLength:      2,
		UnbondingLength:     6,
		MaxActiveValidators: 2,
		VotesPerToken:       epoch.VotesPerTokenBase,
	}
}

func newGenesisValidator(b byte, tokens types.TokenAmount) types.GenesisValidator {
	return types.GenesisValidator{
		Address:              addr(b),
		StakingRewardAddress: addr(b + 100),
		Tokens:               tokens,
		ConsensusKey:         types.PublicKey{0x02, b},
	}
}

func threeValidators() []types.GenesisValidator {
	return []types.GenesisValidator{
		newGenesisValidator(1, 100),
		newGenesisValidator(2, 50),
		newGenesisValidator(3, 10),
	}
}

func TestInitGenesis(t *testing.T) {
	storage := newMemStorage()
	s := New(storage)
	require.NoError(t, s.InitGenesis(testParams(), threeValidators(), 0))

	set, err := s.ValidatorSet(0)
	require.NoError(t, err)
	assert.Equal(t, []validatorset.WeightedValidator{
		{VotingPower: 100, Address: addr(1)},
		{VotingPower: 50, Address: addr(2)},
	}, set.Active())
	assert.Equal(t, []validatorset.WeightedValidator{
		{VotingPower: 10, Address: addr(3)},
	}, set.Inactive())

	total, err := s.TotalVotingPower(0)
	require.NoError(t, err)
	assert.Equal(t, types.VotingPower(160), total)

	for _, v := range threeValidators() {
		state, err := s.ValidatorState(v.Address, 0)
		require.NoError(t, err)
		assert.Equal(t, types.Candidate, state)

		key, err := s.ConsensusKey(v.Address, 0)
		require.NoError(t, err)
		assert.Equal(t, v.ConsensusKey, key)

		power, err := s.ValidatorVotingPower(v.Address, 0)
		require.NoError(t, err)
		assert.Equal(t, types.VotingPower(v.Tokens), power)

		deltas, err := s.ValidatorTotalDeltas(v.Address, 0)
		require.NoError(t, err)
		assert.Equal(t, types.TokenChange(v.Tokens), deltas)

		reward, err := s.StakingRewardAddress(v.Address)
		require.NoError(t, err)
		assert.Equal(t, v.StakingRewardAddress, reward)

		bond, err := s.Bond(types.SelfBond(v.Address), 0)
		require.NoError(t, err)
		assert.Equal(t, types.Bond{0: v.Tokens}, bond)
	}

	params, err := s.Params()
	require.NoError(t, err)
	assert.Equal(t, testParams(), params)
}

func TestInitGenesisAtLaterEpoch(t *testing.T) {
	s := New(newMemStorage())
	require.NoError(t, s.InitGenesis(testParams(), threeValidators(), 4))

	_, err := s.ValidatorSet(3)
	assert.True(t, errors.Is(err, epoched.ErrNoValue))

	bond, err := s.Bond(types.SelfBond(addr(1)), 4)
	require.NoError(t, err)
	assert.Equal(t, types.Bond{4: 100}, bond)
}

func TestInitGenesisIsOrderIndependent(t *testing.T) {
	base := threeValidators()
	base = append(base, newGenesisValidator(4, 50)) // ties with validator 2

	reference := newMemStorage()
	require.NoError(t, New(reference).InitGenesis(testParams(), base, 0))

	// of the two at 50 the higher address stays active
	refSet, err := New(reference).ValidatorSet(0)
	require.NoError(t, err)
	assert.Equal(t, []validatorset.WeightedValidator{
		{VotingPower: 100, Address: addr(1)},
		{VotingPower: 50, Address: addr(4)},
	}, refSet.Active())

	perms := [][]int{{3, 2, 1, 0}, {1, 3, 0, 2}, {2, 0, 3, 1}, {0, 2, 1, 3}}
	for _, perm := range perms {
		input := make([]types.GenesisValidator, 0, len(perm))
		for _, i := range perm {
			input = append(input, base[i])
		}
		storage := newMemStorage()
		s := New(storage)
		require.NoError(t, s.InitGenesis(testParams(), input, 0))

		assert.Equal(t, reference.snapshot(), storage.snapshot(), "permutation %v", perm)

		set, err := s.ValidatorSet(0)
		require.NoError(t, err)
		assert.Equal(t, refSet.Hash(), set.Hash())
	}
}

func TestInitGenesisErrors(t *testing.T) {
	storage := newMemStorage()
	s := New(storage)

	dup := append(threeValidators(), newGenesisValidator(1, 5))
	err := s.InitGenesis(testParams(), dup, 0)
	assert.True(t, errors.Is(err, ErrDuplicateGenesisValidator))
	assert.Empty(t, storage.data)

	bad := testParams()
	bad.UnbondingLength = 1
	err = s.InitGenesis(bad, threeValidators(), 0)
	assert.True(t, errors.Is(err, epoch.ErrInvalidParams))
	assert.Empty(t, storage.data)

	overflow := []types.GenesisValidator{newGenesisValidator(1, 1<<63)}
	err = s.InitGenesis(testParams(), overflow, 0)
	assert.True(t, errors.Is(err, types.ErrTokenOverflow))
	assert.Empty(t, storage.data)

	require.NoError(t, s.InitGenesis(testParams(), threeValidators(), 0))
	err = s.InitGenesis(testParams(), threeValidators(), 0)
	assert.True(t, errors.Is(err, ErrAlreadyInitialized))
}

func TestBecomeValidator(t *testing.T) {
	s := New(newMemStorage())
	require.NoError(t, s.InitGenesis(testParams(), threeValidators(), 0))

	v := addr(9)
	key := types.PublicKey{0x03, 0x09}
	require.NoError(t, s.BecomeValidator(v, addr(99), key, 5))

	ok, err := s.IsValidator(v)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.ValidatorState(v, 4)
	assert.True(t, errors.Is(err, epoched.ErrNoValue))
	for _, tc := range []struct {
		at   epoch.Epoch
		want types.ValidatorState
	}{{5, types.Pending}, {6, types.Pending}, {7, types.Candidate}, {100, types.Candidate}} {
		state, err := s.ValidatorState(v, tc.at)
		require.NoError(t, err)
		assert.Equal(t, tc.want, state, "epoch %d", tc.at)
	}

	_, err = s.ConsensusKey(v, 6)
	assert.True(t, errors.Is(err, epoched.ErrNoValue))
	got, err := s.ConsensusKey(v, 7)
	require.NoError(t, err)
	assert.Equal(t, key, got)

	reward, err := s.StakingRewardAddress(v)
	require.NoError(t, err)
	assert.Equal(t, addr(99), reward)

	before, err := s.ValidatorSet(6)
	require.NoError(t, err)
	assert.False(t, before.Contains(v))

	after, err := s.ValidatorSet(7)
	require.NoError(t, err)
	member, active, ok := after.Get(v)
	require.True(t, ok)
	assert.False(t, active)
	assert.Equal(t, types.VotingPower(0), member.VotingPower)
	assert.Len(t, after.Active(), 2)

	// no stake was bonded
	bond, err := s.Bond(types.SelfBond(v), 7)
	require.NoError(t, err)
	assert.Nil(t, bond)
}

func TestBecomeValidatorTwice(t *testing.T) {
	storage := newMemStorage()
	s := New(storage)
	require.NoError(t, s.InitGenesis(testParams(), threeValidators(), 0))
	require.NoError(t, s.BecomeValidator(addr(9), addr(99), types.PublicKey{0x02}, 5))

	snapshot := storage.snapshot()
	err := s.BecomeValidator(addr(9), addr(98), types.PublicKey{0x03}, 6)
	assert.True(t, errors.Is(err, ErrAlreadyValidator))
	assert.Equal(t, snapshot, storage.snapshot())

	// genesis validators are validators too
	err = s.BecomeValidator(addr(1), addr(98), types.PublicKey{0x03}, 6)
	assert.True(t, errors.Is(err, ErrAlreadyValidator))
	assert.Equal(t, snapshot, storage.snapshot())
}

func TestBecomeValidatorBeforeGenesis(t *testing.T) {
	storage := newMemStorage()
	s := New(storage)
	err := s.BecomeValidator(addr(9), addr(99), types.PublicKey{0x02}, 5)
	assert.True(t, errors.Is(err, ErrNotInitialized))
	assert.Empty(t, storage.data)
}

func TestBecomeValidatorKeepsScheduledSets(t *testing.T) {
	s := New(newMemStorage())
	require.NoError(t, s.InitGenesis(testParams(), threeValidators(), 0))

	require.NoError(t, s.BecomeValidator(addr(9), addr(99), types.PublicKey{0x03}, 4)) // set at 6
	require.NoError(t, s.BecomeValidator(addr(8), addr(98), types.PublicKey{0x02}, 5)) // set at 7

	at6, err := s.ValidatorSet(6)
	require.NoError(t, err)
	assert.True(t, at6.Contains(addr(9)))
	assert.False(t, at6.Contains(addr(8)))

	// the version scheduled at 7 builds on the one at 6
	at7, err := s.ValidatorSet(7)
	require.NoError(t, err)
	assert.True(t, at7.Contains(addr(8)))
	assert.True(t, at7.Contains(addr(9)))
	assert.Equal(t, 5, at7.Len())

	// several registrations in one epoch share the scheduled version
	require.NoError(t, s.BecomeValidator(addr(7), addr(97), types.PublicKey{0x04}, 5))
	at7, err = s.ValidatorSet(7)
	require.NoError(t, err)
	assert.Equal(t, 6, at7.Len())
}

func TestBecomeValidatorRejectsRetroactiveRegistration(t *testing.T) {
	storage := newMemStorage()
	s := New(storage)
	require.NoError(t, s.InitGenesis(testParams(), threeValidators(), 0))
	require.NoError(t, s.BecomeValidator(addr(8), addr(98), types.PublicKey{0x02}, 10))

	snapshot := storage.snapshot()
	err := s.BecomeValidator(addr(9), addr(99), types.PublicKey{0x03}, 5)
	assert.True(t, errors.Is(err, epoched.ErrStaleWrite))
	assert.Equal(t, snapshot, storage.snapshot())

	ok, err := s.IsValidator(addr(9))
	require.NoError(t, err)
	assert.False(t, ok)

	// the registration goes through at the current epoch
	require.NoError(t, s.BecomeValidator(addr(9), addr(99), types.PublicKey{0x03}, 10))
	set, err := s.ValidatorSet(12)
	require.NoError(t, err)
	assert.True(t, set.Contains(addr(8)))
	assert.True(t, set.Contains(addr(9)))
}

func TestQueriesOutsideTheWindow(t *testing.T) {
	s := New(newMemStorage())
	require.NoError(t, s.InitGenesis(testParams(), threeValidators(), 0))
	require.NoError(t, s.BecomeValidator(addr(9), addr(99), types.PublicKey{0x02}, 20))

	_, err := s.ValidatorSet(3)
	assert.True(t, errors.Is(err, epoched.ErrStaleQuery))

	set, err := s.ValidatorSet(14)
	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())

	_, err = s.ValidatorState(addr(42), 20)
	assert.True(t, errors.Is(err, ErrNotValidator))
	_, err = s.StakingRewardAddress(addr(42))
	assert.True(t, errors.Is(err, ErrNotValidator))

	ok, err := s.IsValidator(addr(42))
	require.NoError(t, err)
	assert.False(t, ok)
}
