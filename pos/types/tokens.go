// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"io"
	"math"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

var ErrTokenOverflow = errors.New("token amount overflow")

// TokenAmount is an unsigned amount of staking tokens.
type TokenAmount uint64

// ToChange converts the amount to a signed change.
func (a TokenAmount) ToChange() (TokenChange, error) {
	if uint64(a) > math.MaxInt64 {
		return 0, errors.Wrapf(ErrTokenOverflow, "amount %d does not fit a token change", uint64(a))
	}
	return TokenChange(a), nil
}

// TokenChange is a signed token increment, e.g. one entry of a validator's total deltas.
type TokenChange int64

type tokenChangeRLP struct {
	Negative  bool
	Magnitude uint64
}

func (c TokenChange) EncodeRLP(w io.Writer) error {
	if c < 0 {
		return rlp.Encode(w, &tokenChangeRLP{Negative: true, Magnitude: uint64(-c)})
	}
	return rlp.Encode(w, &tokenChangeRLP{Magnitude: uint64(c)})
}

func (c *TokenChange) DecodeRLP(s *rlp.Stream) error {
	var dec tokenChangeRLP
	if err := s.Decode(&dec); err != nil {
		return err
	}
	if !dec.Negative {
		if dec.Magnitude > math.MaxInt64 {
			return errors.Wrap(ErrTokenOverflow, "decode token change")
		}
		*c = TokenChange(dec.Magnitude)
		return nil
	}
	if dec.Magnitude == 0 || dec.Magnitude > 1<<63 {
		return errors.New("non-canonical negative token change")
	}
	*c = -TokenChange(dec.Magnitude)
	return nil
}
