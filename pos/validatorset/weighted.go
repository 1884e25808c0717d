// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validatorset

import (
	"fmt"

	"github.com/vechain/stakebook/pos/types"
	"github.com/vechain/stakebook/thor"
)

// WeightedValidator is a validator address paired with its voting power.
type WeightedValidator struct {
	VotingPower types.VotingPower
	Address     thor.Address
}

// Outranks reports whether w is ordered before other: higher voting power first,
// higher address first when powers tie. The last member in this order, lowest power
// then lowest address, is the first to be demoted.
func (w WeightedValidator) Outranks(other WeightedValidator) bool {
	if w.VotingPower != other.VotingPower {
		return w.VotingPower > other.VotingPower
	}
	return w.Address.Compare(other.Address) > 0
}

func (w WeightedValidator) String() string {
	return fmt.Sprintf("%v(%d)", w.Address, w.VotingPower)
}

func rankLess(a, b WeightedValidator) bool {
	return a.Outranks(b)
}
