// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoched

import (
	"io"
	"slices"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakebook/pos/epoch"
)

// Integer is the set of types a Delta can sum.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// ErrDeltaOverflow is returned when the increments of a Delta do not sum within its type.
var ErrDeltaOverflow = errors.New("delta sum overflow")

// add returns a + b, and false if the sum wraps around.
func add[T Integer](a, b T) (T, bool) {
	c := a + b
	if (b > 0 && c < a) || (b < 0 && c > a) {
		return c, false
	}
	return c, true
}

func sum[T Integer](entries []entry[T]) (T, error) {
	var total T
	for _, en := range entries {
		var ok bool
		if total, ok = add(total, en.Value); !ok {
			return 0, errors.Wrapf(ErrDeltaOverflow, "epoch %d", en.Epoch)
		}
	}
	return total, nil
}

// Delta holds per-epoch increments of an additive field, e.g. the token changes of a validator.
// The value at an epoch is the sum of all increments at or before it.
type Delta[T Integer] struct {
	h history[T]
}

// InitDeltaAtGenesis creates a field with a first increment at the genesis epoch.
func InitDeltaAtGenesis[T Integer](change T, genesis epoch.Epoch) *Delta[T] {
	return &Delta[T]{h: newHistory(genesis, change, genesis)}
}

// InitDelta creates a field whose first increment becomes visible after the pipeline delay.
func InitDelta[T Integer](change T, current epoch.Epoch, params *epoch.Params) *Delta[T] {
	w := epoch.NewWindow(current, params)
	d := &Delta[T]{h: newHistory(w.Pipeline(), change, current)}
	d.h.advance(current, params)
	return d
}

// Set adds change to the increment at current + pipeline length.
func (d *Delta[T]) Set(change T, current epoch.Epoch, params *epoch.Params) error {
	return d.SetAtOffset(change, current, epoch.PipelineOffset, params)
}

// SetAtOffset adds change to the increment at the horizon selected by kind.
// The field is left untouched if any resulting sum would overflow.
func (d *Delta[T]) SetAtOffset(change T, current epoch.Epoch, kind epoch.OffsetKind, params *epoch.Params) error {
	target := epoch.NewWindow(current, params).Horizon(kind)
	if err := d.h.checkWrite(current, target); err != nil {
		return err
	}
	existing, _ := d.Change(target)
	updated, ok := add(existing, change)
	if !ok {
		return errors.Wrapf(ErrDeltaOverflow, "epoch %d", target)
	}
	return d.write(target, updated, current, params)
}

// UpdateFromOffset rewrites the increment at the horizon selected by kind with fn.
// fn receives zero when there is no increment at the horizon yet.
func (d *Delta[T]) UpdateFromOffset(fn func(T) T, current epoch.Epoch, kind epoch.OffsetKind, params *epoch.Params) error {
	target := epoch.NewWindow(current, params).Horizon(kind)
	if err := d.h.checkWrite(current, target); err != nil {
		return err
	}
	existing, _ := d.Change(target)
	return d.write(target, fn(existing), current, params)
}

// write stores the increment at target unless a running sum of the increments would overflow.
func (d *Delta[T]) write(target epoch.Epoch, change T, current epoch.Epoch, params *epoch.Params) error {
	saved := slices.Clone(d.h.entries)
	d.h.put(target, change)
	if _, err := sum(d.h.entries); err != nil {
		d.h.entries = saved
		return err
	}
	d.prune(current, params)
	return nil
}

// Get returns the sum of all increments at or before e, with the same
// ErrStaleQuery and ErrNoValue semantics as Value.Get.
func (d *Delta[T]) Get(e epoch.Epoch) (T, error) {
	if err := d.h.checkRead(e); err != nil {
		return 0, err
	}
	i := d.h.floor(e)
	if i < 0 {
		return 0, ErrNoValue
	}
	return sum(d.h.entries[:i+1])
}

// Change returns the increment stored exactly at e.
func (d *Delta[T]) Change(e epoch.Epoch) (T, bool) {
	i, found := d.h.search(e)
	if !found {
		return 0, false
	}
	return d.h.entries[i].Value, true
}

// Total returns the sum of every increment, including scheduled ones.
func (d *Delta[T]) Total() (T, error) {
	return sum(d.h.entries)
}

func (d *Delta[T]) LastUpdate() epoch.Epoch { return d.h.lastUpdate }
func (d *Delta[T]) Oldest() epoch.Epoch     { return d.h.oldest }
func (d *Delta[T]) Len() int                { return len(d.h.entries) }
func (d *Delta[T]) Epochs() []epoch.Epoch   { return d.h.epochs() }

// prune folds every increment at or before the threshold into the latest of them.
func (d *Delta[T]) prune(current epoch.Epoch, params *epoch.Params) {
	threshold := d.h.advance(current, params)
	i := d.h.floor(threshold)
	if i <= 0 {
		return
	}
	// every prefix sum was checked on write
	base, err := sum(d.h.entries[:i+1])
	if err != nil {
		return
	}
	d.h.entries[i].Value = base
	d.h.trim(i)
}

func (d *Delta[T]) EncodeRLP(w io.Writer) error {
	return d.h.encode(w)
}

func (d *Delta[T]) DecodeRLP(s *rlp.Stream) error {
	return d.h.decode(s)
}
