// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package store

import (
	"maps"
	"slices"
	"time"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakebook/pos/epoch"
	"github.com/vechain/stakebook/pos/epoched"
	"github.com/vechain/stakebook/pos/staker"
	"github.com/vechain/stakebook/pos/types"
	"github.com/vechain/stakebook/pos/validatorset"
	"github.com/vechain/stakebook/thor"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

// Stage buffers the writes of one logical operation. Reads see the buffered writes first.
// A Stage is not safe for concurrent use.
type Stage struct {
	store  *Store
	writes map[string][]byte
}

var _ staker.Storage = (*Stage)(nil)

func (st *Stage) get(key []byte) ([]byte, error) {
	if val, ok := st.writes[string(key)]; ok {
		return val, nil
	}
	return st.store.get(key)
}

func load[T any](st *Stage, key []byte) (*T, error) {
	data, err := st.get(key)
	if err != nil || data == nil {
		return nil, err
	}
	var v T
	if err := rlp.DecodeBytes(data, &v); err != nil {
		return nil, errors.Wrapf(err, "decode %x", key)
	}
	return &v, nil
}

func (st *Stage) save(key []byte, v any) error {
	data, err := rlp.EncodeToBytes(v)
	if err != nil {
		return errors.Wrapf(err, "encode %x", key)
	}
	st.writes[string(key)] = data
	return nil
}

// Len returns the number of buffered writes.
func (st *Stage) Len() int {
	return len(st.writes)
}

// Commit writes the buffered records in one atomic bulk, in key order.
func (st *Stage) Commit() error {
	if len(st.writes) == 0 {
		return nil
	}
	start := time.Now()

	bulk := st.store.engine.Bulk()
	keys := slices.Sorted(maps.Keys(st.writes))
	for _, k := range keys {
		if err := bulk.Put([]byte(k), st.writes[k]); err != nil {
			return errors.Wrap(err, "stage commit")
		}
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "stage commit")
	}
	for _, k := range keys {
		st.store.cache.Add(k, st.writes[k])
	}

	metricCommitLatency().Observe(time.Since(start).Milliseconds())
	metricCommitKeys().Add(int64(len(keys)))
	logger.Debug("stage committed", "keys", len(keys), "elapsed", time.Since(start))

	st.writes = make(map[string][]byte)
	return nil
}

// Discard drops the buffered writes.
func (st *Stage) Discard() {
	st.writes = make(map[string][]byte)
}

func (st *Stage) ReadParams() (*epoch.Params, error) {
	return load[epoch.Params](st, paramsKey)
}

func (st *Stage) WriteParams(params *epoch.Params) error {
	return st.save(paramsKey, params)
}

func (st *Stage) ReadStakingRewardAddress(validator thor.Address) (*thor.Address, error) {
	return load[thor.Address](st, validatorKey(validator, fieldRewardAddress))
}

func (st *Stage) WriteStakingRewardAddress(validator, reward thor.Address) error {
	return st.save(validatorKey(validator, fieldRewardAddress), reward)
}

func (st *Stage) ReadConsensusKey(validator thor.Address) (*epoched.Value[types.PublicKey], error) {
	return load[epoched.Value[types.PublicKey]](st, validatorKey(validator, fieldConsensusKey))
}

func (st *Stage) WriteConsensusKey(validator thor.Address, key *epoched.Value[types.PublicKey]) error {
	return st.save(validatorKey(validator, fieldConsensusKey), key)
}

func (st *Stage) ReadValidatorState(validator thor.Address) (*epoched.Value[types.ValidatorState], error) {
	return load[epoched.Value[types.ValidatorState]](st, validatorKey(validator, fieldState))
}

func (st *Stage) WriteValidatorState(validator thor.Address, state *epoched.Value[types.ValidatorState]) error {
	return st.save(validatorKey(validator, fieldState), state)
}

func (st *Stage) ReadTotalDeltas(validator thor.Address) (*epoched.Delta[types.TokenChange], error) {
	return load[epoched.Delta[types.TokenChange]](st, validatorKey(validator, fieldTotalDeltas))
}

func (st *Stage) WriteTotalDeltas(validator thor.Address, deltas *epoched.Delta[types.TokenChange]) error {
	return st.save(validatorKey(validator, fieldTotalDeltas), deltas)
}

func (st *Stage) ReadVotingPower(validator thor.Address) (*epoched.Value[types.VotingPower], error) {
	return load[epoched.Value[types.VotingPower]](st, validatorKey(validator, fieldVotingPower))
}

func (st *Stage) WriteVotingPower(validator thor.Address, power *epoched.Value[types.VotingPower]) error {
	return st.save(validatorKey(validator, fieldVotingPower), power)
}

func (st *Stage) ReadBond(id types.BondID) (*epoched.Value[types.Bond], error) {
	return load[epoched.Value[types.Bond]](st, bondKey(id))
}

func (st *Stage) WriteBond(id types.BondID, bond *epoched.Value[types.Bond]) error {
	return st.save(bondKey(id), bond)
}

func (st *Stage) ReadValidatorSet() (*epoched.Value[*validatorset.Set], error) {
	return load[epoched.Value[*validatorset.Set]](st, validatorSetKey)
}

func (st *Stage) WriteValidatorSet(set *epoched.Value[*validatorset.Set]) error {
	return st.save(validatorSetKey, set)
}

func (st *Stage) ReadTotalVotingPower() (*epoched.Value[types.VotingPower], error) {
	return load[epoched.Value[types.VotingPower]](st, totalVotingPowerKey)
}

func (st *Stage) WriteTotalVotingPower(power *epoched.Value[types.VotingPower]) error {
	return st.save(totalVotingPowerKey, power)
}

// Balance returns the amount of token owner holds.
func (st *Stage) Balance(token, owner thor.Address) (types.TokenAmount, error) {
	b, err := load[types.TokenAmount](st, balanceKey(token, owner))
	if err != nil || b == nil {
		return 0, err
	}
	return *b, nil
}

// Mint credits owner with amount of token.
func (st *Stage) Mint(token, owner thor.Address, amount types.TokenAmount) error {
	balance, err := st.Balance(token, owner)
	if err != nil {
		return err
	}
	sum, overflow := math.SafeAdd(uint64(balance), uint64(amount))
	if overflow {
		return errors.Wrapf(types.ErrTokenOverflow, "mint to %v", owner)
	}
	return st.save(balanceKey(token, owner), types.TokenAmount(sum))
}

// Transfer moves amount of token from source to target.
func (st *Stage) Transfer(token, source, target thor.Address, amount types.TokenAmount) error {
	from, err := st.Balance(token, source)
	if err != nil {
		return err
	}
	if from < amount {
		return errors.Wrapf(ErrInsufficientBalance, "%v has %d, needs %d", source, from, amount)
	}
	if source == target {
		return nil
	}
	if err := st.save(balanceKey(token, source), from-amount); err != nil {
		return err
	}
	return st.Mint(token, target, amount)
}
