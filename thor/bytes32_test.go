// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>
package thor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytes32MarshalJSON(t *testing.T) {
	expected := `"0x00000000000000000000000000000000000000000000000000006d6173746572"`

	var value Bytes32
	copy(value[26:], "master")

	directMarshallJson, err := value.MarshalJSON()
	assert.NoError(t, err, "Marshaling should not produce an error")
	assert.Equal(t, expected, string(directMarshallJson))

	marshalVal, err := json.Marshal(value)
	assert.NoError(t, err)
	assert.Equal(t, expected, string(marshalVal))

	marshalPtr, err := json.Marshal(&value)
	assert.NoError(t, err)
	assert.Equal(t, expected, string(marshalPtr))

	// as a struct field, by value
	marshalField, err := json.Marshal(struct{ Hash Bytes32 }{value})
	assert.NoError(t, err)
	assert.Equal(t, `{"Hash":`+expected+`}`, string(marshalField))

	var nilPtr *Bytes32
	marshalNil, err := json.Marshal(nilPtr)
	assert.NoError(t, err)
	assert.Equal(t, "null", string(marshalNil))

	assert.Equal(t, value[:], value.Bytes())
}
