// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakebook/log"
	"github.com/vechain/stakebook/pos/epoch"
	"github.com/vechain/stakebook/pos/types"
	"github.com/vechain/stakebook/pos/validatorset"
	"github.com/vechain/stakebook/thor"
)

var logger = log.WithContext("pkg", "staker")

func SetLogger(l log.Logger) {
	logger = l
}

// Staker implements the validator lifecycle on top of a Storage.
type Staker struct {
	storage Storage
}

// New create a new instance.
func New(storage Storage) *Staker {
	return &Staker{storage: storage}
}

//
// Getters - no state change
//

// Params returns the pos parameters written at genesis.
func (s *Staker) Params() (*epoch.Params, error) {
	params, err := s.storage.ReadParams()
	if err != nil {
		return nil, errors.Wrap(err, "read params")
	}
	if params == nil {
		return nil, ErrNotInitialized
	}
	return params, nil
}

// IsValidator reports whether address has any recorded validator state.
func (s *Staker) IsValidator(address thor.Address) (bool, error) {
	state, err := s.storage.ReadValidatorState(address)
	if err != nil {
		return false, errors.Wrap(err, "read validator state")
	}
	return state != nil, nil
}

func (s *Staker) ValidatorState(address thor.Address, e epoch.Epoch) (types.ValidatorState, error) {
	state, err := s.storage.ReadValidatorState(address)
	if err != nil {
		return 0, errors.Wrap(err, "read validator state")
	}
	if state == nil {
		return 0, errors.Wrapf(ErrNotValidator, "address %v", address)
	}
	st, err := state.Get(e)
	if err != nil {
		return 0, errors.Wrapf(err, "validator %v state", address)
	}
	return st, nil
}

func (s *Staker) ConsensusKey(address thor.Address, e epoch.Epoch) (types.PublicKey, error) {
	key, err := s.storage.ReadConsensusKey(address)
	if err != nil {
		return nil, errors.Wrap(err, "read consensus key")
	}
	if key == nil {
		return nil, errors.Wrapf(ErrNotValidator, "address %v", address)
	}
	k, err := key.Get(e)
	if err != nil {
		return nil, errors.Wrapf(err, "validator %v consensus key", address)
	}
	return k, nil
}

func (s *Staker) ValidatorVotingPower(address thor.Address, e epoch.Epoch) (types.VotingPower, error) {
	power, err := s.storage.ReadVotingPower(address)
	if err != nil {
		return 0, errors.Wrap(err, "read voting power")
	}
	if power == nil {
		return 0, errors.Wrapf(ErrNotValidator, "address %v", address)
	}
	p, err := power.Get(e)
	if err != nil {
		return 0, errors.Wrapf(err, "validator %v voting power", address)
	}
	return p, nil
}

func (s *Staker) ValidatorTotalDeltas(address thor.Address, e epoch.Epoch) (types.TokenChange, error) {
	deltas, err := s.storage.ReadTotalDeltas(address)
	if err != nil {
		return 0, errors.Wrap(err, "read total deltas")
	}
	if deltas == nil {
		return 0, errors.Wrapf(ErrNotValidator, "address %v", address)
	}
	sum, err := deltas.Get(e)
	if err != nil {
		return 0, errors.Wrapf(err, "validator %v total deltas", address)
	}
	return sum, nil
}

func (s *Staker) StakingRewardAddress(address thor.Address) (thor.Address, error) {
	reward, err := s.storage.ReadStakingRewardAddress(address)
	if err != nil {
		return thor.Address{}, errors.Wrap(err, "read staking reward address")
	}
	if reward == nil {
		return thor.Address{}, errors.Wrapf(ErrNotValidator, "address %v", address)
	}
	return *reward, nil
}

// Bond returns the bond entries effective at e, or nil if the bond was never created.
func (s *Staker) Bond(id types.BondID, e epoch.Epoch) (types.Bond, error) {
	bond, err := s.storage.ReadBond(id)
	if err != nil {
		return nil, errors.Wrap(err, "read bond")
	}
	if bond == nil {
		return nil, nil
	}
	b, err := bond.Get(e)
	if err != nil {
		return nil, errors.Wrapf(err, "bond %v -> %v", id.Source, id.Validator)
	}
	return b, nil
}

func (s *Staker) ValidatorSet(e epoch.Epoch) (*validatorset.Set, error) {
	sets, err := s.storage.ReadValidatorSet()
	if err != nil {
		return nil, errors.Wrap(err, "read validator set")
	}
	if sets == nil {
		return nil, ErrNotInitialized
	}
	set, err := sets.Get(e)
	if err != nil {
		return nil, errors.Wrap(err, "validator set")
	}
	return set, nil
}

func (s *Staker) TotalVotingPower(e epoch.Epoch) (types.VotingPower, error) {
	total, err := s.storage.ReadTotalVotingPower()
	if err != nil {
		return 0, errors.Wrap(err, "read total voting power")
	}
	if total == nil {
		return 0, ErrNotInitialized
	}
	p, err := total.Get(e)
	if err != nil {
		return 0, errors.Wrap(err, "total voting power")
	}
	return p, nil
}
