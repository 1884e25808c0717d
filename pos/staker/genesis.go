// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"slices"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/stakebook/metrics"
	"github.com/vechain/stakebook/pos/epoch"
	"github.com/vechain/stakebook/pos/epoched"
	"github.com/vechain/stakebook/pos/types"
	"github.com/vechain/stakebook/pos/validatorset"
	"github.com/vechain/stakebook/thor"
)

type genesisValidator struct {
	types.GenesisValidator
	change types.TokenChange
	power  types.VotingPower
}

// genesisData is everything genesis writes, computed before the first write.
type genesisData struct {
	validators       []genesisValidator // ascending by address
	set              *validatorset.Set
	totalVotingPower types.VotingPower
}

func buildGenesis(params *epoch.Params, validators []types.GenesisValidator) (*genesisData, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	seen := make(map[thor.Address]struct{}, len(validators))
	data := &genesisData{
		validators: make([]genesisValidator, 0, len(validators)),
	}
	weighted := make([]validatorset.WeightedValidator, 0, len(validators))

	var total uint64
	for _, v := range validators {
		if _, ok := seen[v.Address]; ok {
			return nil, errors.Wrapf(ErrDuplicateGenesisValidator, "address %v", v.Address)
		}
		seen[v.Address] = struct{}{}

		change, err := v.Tokens.ToChange()
		if err != nil {
			return nil, errors.Wrapf(err, "validator %v", v.Address)
		}
		power, err := types.VotingPowerFromTokens(v.Tokens, params)
		if err != nil {
			return nil, errors.Wrapf(err, "validator %v", v.Address)
		}
		var overflow bool
		if total, overflow = math.SafeAdd(total, uint64(power)); overflow {
			return nil, errors.Wrap(validatorset.ErrVotingPowerOverflow, "genesis")
		}

		data.validators = append(data.validators, genesisValidator{GenesisValidator: v, change: change, power: power})
		weighted = append(weighted, validatorset.WeightedValidator{VotingPower: power, Address: v.Address})
	}

	slices.SortFunc(data.validators, func(a, b genesisValidator) int {
		return a.Address.Compare(b.Address)
	})

	set, err := validatorset.FromValidators(weighted, params.MaxActiveValidators)
	if err != nil {
		return nil, err
	}
	data.set = set
	data.totalVotingPower = types.VotingPower(total)
	return data, nil
}

// InitGenesis bootstraps the validator records, the validator set and the total voting power,
// all effective from the current epoch.
func (s *Staker) InitGenesis(params *epoch.Params, validators []types.GenesisValidator, current epoch.Epoch) error {
	existing, err := s.storage.ReadParams()
	if err != nil {
		return errors.Wrap(err, "read params")
	}
	if existing != nil {
		return ErrAlreadyInitialized
	}

	data, err := buildGenesis(params, validators)
	if err != nil {
		return err
	}

	for _, v := range data.validators {
		if err := s.initGenesisValidator(v, current); err != nil {
			return errors.Wrapf(err, "genesis validator %v", v.Address)
		}
	}

	if err := s.storage.WriteParams(params); err != nil {
		return errors.Wrap(err, "write params")
	}
	if err := s.storage.WriteValidatorSet(epoched.InitAtGenesis(data.set, current)); err != nil {
		return errors.Wrap(err, "write validator set")
	}
	if err := s.storage.WriteTotalVotingPower(epoched.InitAtGenesis(data.totalVotingPower, current)); err != nil {
		return errors.Wrap(err, "write total voting power")
	}

	metricGenesisValidators().Set(int64(len(data.validators)))
	metricTotalVotingPower().Set(metrics.ClampInt64(uint64(data.totalVotingPower)))
	logger.Info("pos genesis initialized",
		"epoch", current,
		"validators", len(data.validators),
		"active", data.set.ActiveLen(),
		"totalVotingPower", uint64(data.totalVotingPower),
	)
	return nil
}

func (s *Staker) initGenesisValidator(v genesisValidator, current epoch.Epoch) error {
	if err := s.storage.WriteStakingRewardAddress(v.Address, v.StakingRewardAddress); err != nil {
		return err
	}
	if err := s.storage.WriteConsensusKey(v.Address, epoched.InitAtGenesis(v.ConsensusKey.Clone(), current)); err != nil {
		return err
	}
	if err := s.storage.WriteValidatorState(v.Address, epoched.InitAtGenesis(types.Candidate, current)); err != nil {
		return err
	}
	if err := s.storage.WriteTotalDeltas(v.Address, epoched.InitDeltaAtGenesis(v.change, current)); err != nil {
		return err
	}
	if err := s.storage.WriteVotingPower(v.Address, epoched.InitAtGenesis(v.power, current)); err != nil {
		return err
	}
	bond := types.Bond{current: v.Tokens}
	return s.storage.WriteBond(types.SelfBond(v.Address), epoched.InitAtGenesis(bond, current))
}
