// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakebook/pos/epoch"
	"github.com/vechain/stakebook/pos/epoched"
	"github.com/vechain/stakebook/pos/types"
	"github.com/vechain/stakebook/pos/validatorset"
	"github.com/vechain/stakebook/thor"
)

// BecomeValidator registers address as a validator. It is pending from the current epoch
// and becomes a candidate, with its consensus key binding, after the pipeline delay.
// The validator joins the inactive set with zero voting power at the same horizon.
func (s *Staker) BecomeValidator(
	address thor.Address,
	rewardAddress thor.Address,
	consensusKey types.PublicKey,
	current epoch.Epoch,
) (err error) {
	defer func() { countBecomeValidator(err) }()

	params, err := s.storage.ReadParams()
	if err != nil {
		return errors.Wrap(err, "read params")
	}
	sets, err := s.storage.ReadValidatorSet()
	if err != nil {
		return errors.Wrap(err, "read validator set")
	}
	if params == nil || sets == nil {
		return ErrNotInitialized
	}

	state, err := s.storage.ReadValidatorState(address)
	if err != nil {
		return errors.Wrap(err, "read validator state")
	}
	if state != nil {
		return errors.Wrapf(ErrAlreadyValidator, "address %v", address)
	}

	key := epoched.Init(consensusKey.Clone(), current, params)

	state = epoched.InitNow(types.Pending, current)
	if err := state.Set(types.Candidate, current, params); err != nil {
		return errors.Wrap(err, "schedule candidate state")
	}

	var insertErr error
	joined := validatorset.WeightedValidator{Address: address}
	err = sets.UpdateFromOffset(func(set *validatorset.Set) *validatorset.Set {
		if set == nil {
			set = validatorset.New()
		}
		if err := set.InsertInactive(joined); err != nil && insertErr == nil {
			insertErr = err
		}
		return set
	}, current, epoch.PipelineOffset, params)
	if err != nil {
		return errors.Wrap(err, "update validator set")
	}
	if insertErr != nil {
		return errors.Wrap(insertErr, "update validator set")
	}

	if err := s.storage.WriteStakingRewardAddress(address, rewardAddress); err != nil {
		return errors.Wrap(err, "write staking reward address")
	}
	if err := s.storage.WriteConsensusKey(address, key); err != nil {
		return errors.Wrap(err, "write consensus key")
	}
	if err := s.storage.WriteValidatorState(address, state); err != nil {
		return errors.Wrap(err, "write validator state")
	}
	if err := s.storage.WriteValidatorSet(sets); err != nil {
		return errors.Wrap(err, "write validator set")
	}

	logger.Debug("validator registered",
		"address", address,
		"epoch", current,
		"candidateAt", current.Add(params.PipelineLength),
	)
	return nil
}
