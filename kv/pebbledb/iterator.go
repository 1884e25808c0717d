// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pebbledb

import "github.com/cockroachdb/pebble"

// iterator gives a pebble iterator the leveldb semantics: Next on a fresh iterator
// moves to the first pair and Prev to the last.
type iterator struct {
	iter       *pebble.Iterator
	positioned bool
	err        error
}

func newIterator(iter *pebble.Iterator) *iterator {
	return &iterator{iter: iter}
}

func (i *iterator) First() bool {
	i.positioned = true
	return i.iter.First()
}

func (i *iterator) Last() bool {
	i.positioned = true
	return i.iter.Last()
}

func (i *iterator) Next() bool {
	if !i.positioned {
		return i.First()
	}
	return i.iter.Next()
}

func (i *iterator) Prev() bool {
	if !i.positioned {
		return i.Last()
	}
	return i.iter.Prev()
}

func (i *iterator) Key() []byte {
	if !i.iter.Valid() {
		return nil
	}
	return i.iter.Key()
}

func (i *iterator) Value() []byte {
	if !i.iter.Valid() {
		return nil
	}
	return i.iter.Value()
}

func (i *iterator) Release() {
	if i.iter != nil {
		i.err = i.iter.Close()
		i.iter = nil
	}
}

func (i *iterator) Error() error {
	if i.iter == nil {
		return i.err
	}
	return i.iter.Error()
}

// errIterator is returned when the iterator could not be created.
type errIterator struct {
	err error
}

func (e *errIterator) First() bool   { return false }
func (e *errIterator) Last() bool    { return false }
func (e *errIterator) Next() bool    { return false }
func (e *errIterator) Prev() bool    { return false }
func (e *errIterator) Key() []byte   { return nil }
func (e *errIterator) Value() []byte { return nil }
func (e *errIterator) Release()      {}
func (e *errIterator) Error() error  { return e.err }
