// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"maps"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakebook/pos/epoch"
	"github.com/vechain/stakebook/pos/epoched"
	"github.com/vechain/stakebook/pos/types"
	"github.com/vechain/stakebook/pos/validatorset"
	"github.com/vechain/stakebook/thor"
)

// memStorage keeps rlp encoded records in a map, so every read hands out a fresh copy.
type memStorage struct {
	data     map[string][]byte
	balances map[string]types.TokenAmount
}

var _ Storage = (*memStorage)(nil)

func newMemStorage() *memStorage {
	return &memStorage{
		data:     make(map[string][]byte),
		balances: make(map[string]types.TokenAmount),
	}
}

func (m *memStorage) snapshot() map[string][]byte {
	return maps.Clone(m.data)
}

func load[T any](m *memStorage, key string) (*T, error) {
	data, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	var v T
	if err := rlp.DecodeBytes(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (m *memStorage) save(key string, v any) error {
	data, err := rlp.EncodeToBytes(v)
	if err != nil {
		return err
	}
	m.data[key] = data
	return nil
}

func validatorKey(addr thor.Address, field string) string {
	return "validator/" + addr.String() + "/" + field
}

func bondKey(id types.BondID) string {
	return "bond/" + id.Source.String() + "/" + id.Validator.String()
}

func (m *memStorage) ReadParams() (*epoch.Params, error) { return load[epoch.Params](m, "params") }
func (m *memStorage) WriteParams(p *epoch.Params) error  { return m.save("params", p) }

func (m *memStorage) ReadStakingRewardAddress(v thor.Address) (*thor.Address, error) {
	return load[thor.Address](m, validatorKey(v, "reward"))
}

func (m *memStorage) WriteStakingRewardAddress(v, reward thor.Address) error {
	return m.save(validatorKey(v, "reward"), reward)
}

func (m *memStorage) ReadConsensusKey(v thor.Address) (*epoched.Value[types.PublicKey], error) {
	return load[epoched.Value[types.PublicKey]](m, validatorKey(v, "key"))
}

func (m *memStorage) WriteConsensusKey(v thor.Address, key *epoched.Value[types.PublicKey]) error {
	return m.save(validatorKey(v, "key"), key)
}

func (m *memStorage) ReadValidatorState(v thor.Address) (*epoched.Value[types.ValidatorState], error) {
	return load[epoched.Value[types.ValidatorState]](m, validatorKey(v, "state"))
}

func (m *memStorage) WriteValidatorState(v thor.Address, state *epoched.Value[types.ValidatorState]) error {
	return m.save(validatorKey(v, "state"), state)
}

func (m *memStorage) ReadTotalDeltas(v thor.Address) (*epoched.Delta[types.TokenChange], error) {
	return load[epoched.Delta[types.TokenChange]](m, validatorKey(v, "deltas"))
}

func (m *memStorage) WriteTotalDeltas(v thor.Address, deltas *epoched.Delta[types.TokenChange]) error {
	return m.save(validatorKey(v, "deltas"), deltas)
}

func (m *memStorage) ReadVotingPower(v thor.Address) (*epoched.Value[types.VotingPower], error) {
	return load[epoched.Value[types.VotingPower]](m, validatorKey(v, "power"))
}

func (m *memStorage) WriteVotingPower(v thor.Address, power *epoched.Value[types.VotingPower]) error {
	return m.save(validatorKey(v, "power"), power)
}

func (m *memStorage) ReadBond(id types.BondID) (*epoched.Value[types.Bond], error) {
	return load[epoched.Value[types.Bond]](m, bondKey(id))
}

func (m *memStorage) WriteBond(id types.BondID, bond *epoched.Value[types.Bond]) error {
	return m.save(bondKey(id), bond)
}

func (m *memStorage) ReadValidatorSet() (*epoched.Value[*validatorset.Set], error) {
	return load[epoched.Value[*validatorset.Set]](m, "validator-set")
}

func (m *memStorage) WriteValidatorSet(set *epoched.Value[*validatorset.Set]) error {
	return m.save("validator-set", set)
}

func (m *memStorage) ReadTotalVotingPower() (*epoched.Value[types.VotingPower], error) {
	return load[epoched.Value[types.VotingPower]](m, "total-voting-power")
}

func (m *memStorage) WriteTotalVotingPower(power *epoched.Value[types.VotingPower]) error {
	return m.save("total-voting-power", power)
}

func (m *memStorage) Transfer(token, source, target thor.Address, amount types.TokenAmount) error {
	from := token.String() + source.String()
	if m.balances[from] < amount {
		return errors.New("insufficient balance")
	}
	m.balances[from] -= amount
	m.balances[token.String()+target.String()] += amount
	return nil
}
