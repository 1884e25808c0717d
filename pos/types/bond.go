// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"io"
	"maps"
	"slices"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakebook/pos/epoch"
	"github.com/vechain/stakebook/thor"
)

// BondID identifies the stake a source account bonds to a validator.
type BondID struct {
	Source    thor.Address
	Validator thor.Address
}

// SelfBond returns the id of the bond a validator holds on itself.
func SelfBond(validator thor.Address) BondID {
	return BondID{Source: validator, Validator: validator}
}

// Bond maps the epoch stake was bonded at to the amount bonded.
type Bond map[epoch.Epoch]TokenAmount

func (b Bond) Clone() Bond {
	return maps.Clone(b)
}

// Add bonds amount more at e.
func (b Bond) Add(e epoch.Epoch, amount TokenAmount) error {
	sum, overflow := math.SafeAdd(uint64(b[e]), uint64(amount))
	if overflow {
		return errors.Wrapf(ErrTokenOverflow, "bond at epoch %d", e)
	}
	b[e] = TokenAmount(sum)
	return nil
}

// At returns the stake bonded at or before e.
func (b Bond) At(e epoch.Epoch) TokenAmount {
	var sum TokenAmount
	for at, amount := range b {
		if at <= e {
			sum += amount
		}
	}
	return sum
}

// Total returns the stake bonded across all epochs.
func (b Bond) Total() TokenAmount {
	var sum TokenAmount
	for _, amount := range b {
		sum += amount
	}
	return sum
}

type bondEntry struct {
	Epoch  epoch.Epoch
	Amount TokenAmount
}

// EncodeRLP writes the entries in ascending epoch order.
func (b Bond) EncodeRLP(w io.Writer) error {
	entries := make([]bondEntry, 0, len(b))
	for _, e := range slices.Sorted(maps.Keys(b)) {
		entries = append(entries, bondEntry{Epoch: e, Amount: b[e]})
	}
	return rlp.Encode(w, entries)
}

func (b *Bond) DecodeRLP(s *rlp.Stream) error {
	var entries []bondEntry
	if err := s.Decode(&entries); err != nil {
		return err
	}
	bond := make(Bond, len(entries))
	for i, en := range entries {
		if i > 0 && entries[i-1].Epoch >= en.Epoch {
			return errors.New("bond entries out of order")
		}
		bond[en.Epoch] = en.Amount
	}
	*b = bond
	return nil
}
