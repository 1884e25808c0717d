// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/vechain/stakebook/pos/epoch"
	"github.com/vechain/stakebook/pos/epoched"
	"github.com/vechain/stakebook/pos/types"
	"github.com/vechain/stakebook/pos/validatorset"
	"github.com/vechain/stakebook/thor"
)

// Storage is the persistence and token capability set the staker runs against.
// Reads return nil without error when nothing was written under the key.
type Storage interface {
	ReadParams() (*epoch.Params, error)
	WriteParams(params *epoch.Params) error

	ReadStakingRewardAddress(validator thor.Address) (*thor.Address, error)
	WriteStakingRewardAddress(validator, reward thor.Address) error

	ReadConsensusKey(validator thor.Address) (*epoched.Value[types.PublicKey], error)
	WriteConsensusKey(validator thor.Address, key *epoched.Value[types.PublicKey]) error

	ReadValidatorState(validator thor.Address) (*epoched.Value[types.ValidatorState], error)
	WriteValidatorState(validator thor.Address, state *epoched.Value[types.ValidatorState]) error

	ReadTotalDeltas(validator thor.Address) (*epoched.Delta[types.TokenChange], error)
	WriteTotalDeltas(validator thor.Address, deltas *epoched.Delta[types.TokenChange]) error

	ReadVotingPower(validator thor.Address) (*epoched.Value[types.VotingPower], error)
	WriteVotingPower(validator thor.Address, power *epoched.Value[types.VotingPower]) error

	ReadBond(id types.BondID) (*epoched.Value[types.Bond], error)
	WriteBond(id types.BondID, bond *epoched.Value[types.Bond]) error

	ReadValidatorSet() (*epoched.Value[*validatorset.Set], error)
	WriteValidatorSet(set *epoched.Value[*validatorset.Set]) error

	ReadTotalVotingPower() (*epoched.Value[types.VotingPower], error)
	WriteTotalVotingPower(power *epoched.Value[types.VotingPower]) error

	// Transfer moves amount of token from source to target.
	Transfer(token, source, target thor.Address, amount types.TokenAmount) error
}
