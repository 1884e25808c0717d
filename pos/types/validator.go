// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vechain/stakebook/thor"
)

// PublicKey is a consensus key in its serialized form.
type PublicKey []byte

func (k PublicKey) Clone() PublicKey {
	return bytes.Clone(k)
}

func (k PublicKey) Equal(other PublicKey) bool {
	return bytes.Equal(k, other)
}

func (k PublicKey) String() string {
	return hexutil.Encode(k)
}

// GenesisValidator is one initial stakeholder of the network.
type GenesisValidator struct {
	Address              thor.Address
	StakingRewardAddress thor.Address
	Tokens               TokenAmount
	ConsensusKey         PublicKey
}
