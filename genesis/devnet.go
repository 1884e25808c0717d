// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"strconv"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/vechain/stakebook/pos/epoch"
	"github.com/vechain/stakebook/pos/types"
	"github.com/vechain/stakebook/thor"
)

// DevKey returns the i-th deterministic development key.
func DevKey(i int) *secp256k1.PrivateKey {
	seed := thor.Blake2b([]byte("stakebook devnet"), []byte(strconv.Itoa(i)))
	return secp256k1.PrivKeyFromBytes(seed.Bytes())
}

// KeyAddress derives the address of a consensus key.
func KeyAddress(key types.PublicKey) thor.Address {
	h := thor.Blake2b(key)
	return thor.BytesToAddress(h[12:])
}

// Devnet returns a genesis with n validators built from DevKey, each holding 10000 tokens.
func Devnet(n int) *Genesis {
	g := &Genesis{Params: epoch.DefaultParams()}
	for i := range n {
		key := types.PublicKey(DevKey(i).PubKey().SerializeCompressed())
		addr := KeyAddress(key)
		g.Validators = append(g.Validators, types.GenesisValidator{
			Address:              addr,
			StakingRewardAddress: addr,
			Tokens:               10000,
			ConsensusKey:         key,
		})
	}
	return g
}
