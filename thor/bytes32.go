// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/hex"
	"encoding/json"
)

// Bytes32 is a 32-byte digest, used for validator set fingerprints.
type Bytes32 [32]byte

var _ json.Marshaler = Bytes32{}

func (b Bytes32) String() string {
	return "0x" + hex.EncodeToString(b[:])
}

func (b Bytes32) Bytes() []byte {
	return b[:]
}

// MarshalJSON encodes b as a 0x prefixed hex string.
func (b Bytes32) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}
