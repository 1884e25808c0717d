// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoched

import (
	"io"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/stakebook/pos/epoch"
)

// Value holds the versions of an absolute-valued field, e.g. a consensus key or a voting power.
// The version authoritative for an epoch is the latest one at or before it.
type Value[T any] struct {
	h history[T]
}

// InitAtGenesis creates a field that holds value from the genesis epoch onward.
func InitAtGenesis[T any](value T, genesis epoch.Epoch) *Value[T] {
	return &Value[T]{h: newHistory(genesis, value, genesis)}
}

// InitNow creates a field that holds value from the current epoch onward.
func InitNow[T any](value T, current epoch.Epoch) *Value[T] {
	return &Value[T]{h: newHistory(current, value, current)}
}

// Init creates a field whose first version becomes visible after the pipeline delay.
func Init[T any](value T, current epoch.Epoch, params *epoch.Params) *Value[T] {
	w := epoch.NewWindow(current, params)
	v := &Value[T]{h: newHistory(w.Pipeline(), value, current)}
	v.h.advance(current, params)
	return v
}

// Set schedules value to take effect at current + pipeline length.
func (v *Value[T]) Set(value T, current epoch.Epoch, params *epoch.Params) error {
	return v.SetAtOffset(value, current, epoch.PipelineOffset, params)
}

// SetAtOffset schedules value at the horizon selected by kind. Versions at other epochs are kept.
func (v *Value[T]) SetAtOffset(value T, current epoch.Epoch, kind epoch.OffsetKind, params *epoch.Params) error {
	target := epoch.NewWindow(current, params).Horizon(kind)
	if err := v.h.checkWrite(current, target); err != nil {
		return err
	}
	v.h.put(target, value)
	v.prune(current, params)
	return nil
}

// UpdateFromOffset applies fn to a copy of the value effective at the horizon selected by kind
// and stores the result there. Versions already scheduled after the horizon are updated with fn as well.
// fn receives the zero value when the field has no version at or before the horizon.
func (v *Value[T]) UpdateFromOffset(fn func(T) T, current epoch.Epoch, kind epoch.OffsetKind, params *epoch.Params) error {
	target := epoch.NewWindow(current, params).Horizon(kind)
	if err := v.h.checkWrite(current, target); err != nil {
		return err
	}

	var base T
	if i := v.h.floor(target); i >= 0 {
		base = clone(v.h.entries[i].Value)
	}
	updated := fn(base)

	i, found := v.h.search(target)
	if found {
		i++
	}
	for ; i < len(v.h.entries); i++ {
		v.h.entries[i].Value = fn(clone(v.h.entries[i].Value))
	}
	v.h.put(target, updated)
	v.prune(current, params)
	return nil
}

// Get returns the value effective at e.
// It fails with ErrStaleQuery if e is older than the retained history and with ErrNoValue
// if the field had no version yet at e.
func (v *Value[T]) Get(e epoch.Epoch) (T, error) {
	var zero T
	if err := v.h.checkRead(e); err != nil {
		return zero, err
	}
	i := v.h.floor(e)
	if i < 0 {
		return zero, ErrNoValue
	}
	return clone(v.h.entries[i].Value), nil
}

// Latest returns the last scheduled version and the epoch it takes effect at.
func (v *Value[T]) Latest() (T, epoch.Epoch) {
	last := v.h.entries[len(v.h.entries)-1]
	return clone(last.Value), last.Epoch
}

func (v *Value[T]) LastUpdate() epoch.Epoch { return v.h.lastUpdate }
func (v *Value[T]) Oldest() epoch.Epoch     { return v.h.oldest }
func (v *Value[T]) Len() int                { return len(v.h.entries) }
func (v *Value[T]) Epochs() []epoch.Epoch   { return v.h.epochs() }

// prune keeps the latest version at or before the threshold and everything after it.
func (v *Value[T]) prune(current epoch.Epoch, params *epoch.Params) {
	threshold := v.h.advance(current, params)
	v.h.trim(v.h.floor(threshold))
}

func (v *Value[T]) EncodeRLP(w io.Writer) error {
	return v.h.encode(w)
}

func (v *Value[T]) DecodeRLP(s *rlp.Stream) error {
	return v.h.decode(s)
}
