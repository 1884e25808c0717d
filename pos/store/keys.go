// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package store

import (
	"github.com/vechain/stakebook/kv"
	"github.com/vechain/stakebook/pos/types"
	"github.com/vechain/stakebook/thor"
)

var (
	paramsKey           = []byte("p")
	validatorSetKey     = []byte("s")
	totalVotingPowerKey = []byte("t")

	validatorBucket = kv.Bucket("v")
	bondBucket      = kv.Bucket("b")
	balanceBucket   = kv.Bucket("a")
)

// per validator fields, the last byte of a validator key
const (
	fieldRewardAddress byte = 'r'
	fieldConsensusKey  byte = 'k'
	fieldState         byte = 's'
	fieldTotalDeltas   byte = 'd'
	fieldVotingPower   byte = 'w'
)

func validatorKey(addr thor.Address, field byte) []byte {
	return validatorBucket.Key(append(addr.Bytes(), field))
}

func bondKey(id types.BondID) []byte {
	return bondBucket.Key(append(id.Source.Bytes(), id.Validator.Bytes()...))
}

func balanceKey(token, owner thor.Address) []byte {
	return balanceBucket.Key(append(token.Bytes(), owner.Bytes()...))
}
