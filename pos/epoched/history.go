// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoched

import (
	"cmp"
	"io"
	"slices"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakebook/pos/epoch"
)

var (
	// ErrStaleQuery is returned when the queried epoch has aged out of the unbonding window.
	ErrStaleQuery = errors.New("epoch is older than the retained history")
	// ErrNoValue is returned when the field has no version at or before the queried epoch.
	ErrNoValue = errors.New("no value at epoch")
	// ErrStaleWrite is returned when a write is made at an epoch before the last write,
	// or would land before the retained history.
	ErrStaleWrite = errors.New("stale write")
)

// Cloner is implemented by values that must be deep-copied before they are handed out or transformed.
type Cloner[T any] interface {
	Clone() T
}

func clone[T any](v T) T {
	if c, ok := any(v).(Cloner[T]); ok {
		return c.Clone()
	}
	return v
}

type entry[T any] struct {
	Epoch epoch.Epoch
	Value T
}

// history is an ascending list of versions, one per epoch at most.
type history[T any] struct {
	entries    []entry[T]
	lastUpdate epoch.Epoch // the latest current epoch a write was made at
	oldest     epoch.Epoch // queries before this epoch are stale
}

func newHistory[T any](first epoch.Epoch, value T, current epoch.Epoch) history[T] {
	return history[T]{
		entries:    []entry[T]{{Epoch: first, Value: value}},
		lastUpdate: current,
	}
}

// search returns the index of the first entry at or after e, and whether it is exactly at e.
func (h *history[T]) search(e epoch.Epoch) (int, bool) {
	return slices.BinarySearchFunc(h.entries, e, func(en entry[T], target epoch.Epoch) int {
		return cmp.Compare(en.Epoch, target)
	})
}

// floor returns the index of the latest entry at or before e, or -1.
func (h *history[T]) floor(e epoch.Epoch) int {
	i, found := h.search(e)
	if found {
		return i
	}
	return i - 1
}

func (h *history[T]) put(e epoch.Epoch, value T) {
	i, found := h.search(e)
	if found {
		h.entries[i].Value = value
		return
	}
	h.entries = slices.Insert(h.entries, i, entry[T]{Epoch: e, Value: value})
}

func (h *history[T]) checkRead(e epoch.Epoch) error {
	if e < h.oldest {
		return errors.Wrapf(ErrStaleQuery, "epoch %d, oldest %d", e, h.oldest)
	}
	return nil
}

// checkWrite rejects writes that go back in time: current must not precede the last write,
// and the target version must stay inside the retained window.
func (h *history[T]) checkWrite(current, target epoch.Epoch) error {
	if current < h.lastUpdate {
		return errors.Wrapf(ErrStaleWrite, "epoch %d, last update %d", current, h.lastUpdate)
	}
	if target < h.oldest {
		return errors.Wrapf(ErrStaleWrite, "epoch %d, oldest %d", target, h.oldest)
	}
	return nil
}

// advance records a write made at current and returns the new pruning threshold.
func (h *history[T]) advance(current epoch.Epoch, params *epoch.Params) epoch.Epoch {
	h.lastUpdate = epoch.Max(h.lastUpdate, current)
	h.oldest = epoch.Max(h.oldest, h.lastUpdate.Sub(params.UnbondingLength))
	return h.oldest
}

// trim drops every entry before index i.
func (h *history[T]) trim(i int) {
	if i <= 0 {
		return
	}
	h.entries = slices.Clone(h.entries[i:])
}

func (h *history[T]) epochs() []epoch.Epoch {
	epochs := make([]epoch.Epoch, 0, len(h.entries))
	for _, en := range h.entries {
		epochs = append(epochs, en.Epoch)
	}
	return epochs
}

type historyRLP[T any] struct {
	LastUpdate epoch.Epoch
	Oldest     epoch.Epoch
	Entries    []entry[T]
}

func (h *history[T]) encode(w io.Writer) error {
	return rlp.Encode(w, &historyRLP[T]{
		LastUpdate: h.lastUpdate,
		Oldest:     h.oldest,
		Entries:    h.entries,
	})
}

func (h *history[T]) decode(s *rlp.Stream) error {
	var dec historyRLP[T]
	if err := s.Decode(&dec); err != nil {
		return err
	}
	if len(dec.Entries) == 0 {
		return errors.New("epoched: empty history")
	}
	for i := 1; i < len(dec.Entries); i++ {
		if dec.Entries[i-1].Epoch >= dec.Entries[i].Epoch {
			return errors.New("epoched: entries out of order")
		}
	}
	*h = history[T]{
		entries:    dec.Entries,
		lastUpdate: dec.LastUpdate,
		oldest:     dec.Oldest,
	}
	return nil
}
