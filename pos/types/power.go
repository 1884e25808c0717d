// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakebook/pos/epoch"
)

var ErrVotingPowerOverflow = errors.New("voting power overflow")

// VotingPower is the consensus weight derived from bonded tokens.
type VotingPower uint64

// VotingPowerFromTokens converts a token amount to voting power:
// tokens * VotesPerToken / VotesPerTokenBase, rounded down.
func VotingPowerFromTokens(tokens TokenAmount, params *epoch.Params) (VotingPower, error) {
	power := new(uint256.Int).Mul(
		uint256.NewInt(uint64(tokens)),
		uint256.NewInt(params.VotesPerToken),
	)
	power.Div(power, uint256.NewInt(epoch.VotesPerTokenBase))
	if !power.IsUint64() {
		return 0, errors.Wrapf(ErrVotingPowerOverflow, "tokens %d", uint64(tokens))
	}
	return VotingPower(power.Uint64()), nil
}
