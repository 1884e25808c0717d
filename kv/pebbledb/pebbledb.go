// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pebbledb

import (
	"bytes"
	"io"
	"log"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"github.com/vechain/stakebook/kv"
)

// ErrorOnlyLogger implements pebble.Logger to reduce noise
type ErrorOnlyLogger struct{}

func (l ErrorOnlyLogger) Infof(format string, args ...any) {}
func (l ErrorOnlyLogger) Errorf(format string, args ...any) {
	log.Printf("PEBBLE ERROR: "+format, args...)
}

func (l ErrorOnlyLogger) Fatalf(format string, args ...any) {
	log.Fatalf("PEBBLE FATAL: "+format, args...)
}

type pebbleEngine struct {
	db *pebble.DB
}

var _ kv.Engine = (*pebbleEngine)(nil)

func defaultOptions() *pebble.Options {
	return &pebble.Options{
		L0CompactionThreshold:       4,
		L0StopWritesThreshold:       12,
		LBaseMaxBytes:               64 << 20, // 64MB
		MaxOpenFiles:                1000,
		MemTableSize:                32 << 20, // 32MB
		MemTableStopWritesThreshold: 4,
		Logger:                      ErrorOnlyLogger{},
	}
}

// Open opens or creates a pebble database at the given path.
func Open(path string) (kv.Engine, error) {
	db, err := pebble.Open(path, defaultOptions())
	if err != nil {
		return nil, err
	}
	return &pebbleEngine{db}, nil
}

// NewMem creates a memory-backed engine.
func NewMem() kv.Engine {
	opts := defaultOptions()
	opts.FS = vfs.NewMem()
	db, err := pebble.Open("", opts)
	if err != nil {
		panic(err) // in-memory open only fails on invalid options
	}
	return &pebbleEngine{db}
}

func (p *pebbleEngine) Close() error {
	return p.db.Close()
}

func (p *pebbleEngine) IsNotFound(err error) bool {
	return err == pebble.ErrNotFound
}

type reader interface {
	Get(key []byte) ([]byte, io.Closer, error)
}

// get copies the value out, as pebble only keeps it valid until the closer is closed.
func get(r reader, key []byte) ([]byte, error) {
	val, closer, err := r.Get(key)
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return bytes.Clone(val), nil
}

func has(r reader, key []byte) (bool, error) {
	_, closer, err := r.Get(key)
	if err == pebble.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	closer.Close()
	return true, nil
}

func (p *pebbleEngine) Get(key []byte) ([]byte, error) {
	return get(p.db, key)
}

func (p *pebbleEngine) Has(key []byte) (bool, error) {
	return has(p.db, key)
}

func (p *pebbleEngine) Put(key, val []byte) error {
	return p.db.Set(key, val, pebble.Sync)
}

func (p *pebbleEngine) Delete(key []byte) error {
	return p.db.Delete(key, pebble.Sync)
}

func (p *pebbleEngine) Snapshot() kv.Snapshot {
	s := p.db.NewSnapshot()
	return &struct {
		kv.GetFunc
		kv.HasFunc
		kv.IsNotFoundFunc
		kv.ReleaseFunc
	}{
		func(key []byte) ([]byte, error) { return get(s, key) },
		func(key []byte) (bool, error) { return has(s, key) },
		p.IsNotFound,
		func() { s.Close() },
	}
}

func (p *pebbleEngine) Bulk() kv.Bulk {
	const idealBatchSize = 128 * 1024
	var (
		batch     *pebble.Batch
		autoFlush bool
	)

	getBatch := func() *pebble.Batch {
		if batch == nil {
			batch = p.db.NewBatch()
		}
		return batch
	}
	flush := func(minSize int) error {
		if batch != nil && len(batch.Repr()) >= minSize {
			if !batch.Empty() {
				if err := batch.Commit(pebble.Sync); err != nil {
					return err
				}
			}
			batch.Close()
			batch = nil
		}
		return nil
	}

	return &struct {
		kv.PutFunc
		kv.DeleteFunc
		kv.EnableAutoFlushFunc
		kv.WriteFunc
	}{
		func(key, val []byte) error {
			if err := getBatch().Set(key, val, nil); err != nil {
				return err
			}
			if autoFlush {
				return flush(idealBatchSize)
			}
			return nil
		},
		func(key []byte) error {
			if err := getBatch().Delete(key, nil); err != nil {
				return err
			}
			if autoFlush {
				return flush(idealBatchSize)
			}
			return nil
		},
		func() { autoFlush = true },
		func() error { return flush(0) },
	}
}

func (p *pebbleEngine) Iterate(r kv.Range) kv.Iterator {
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: r.Start,
		UpperBound: r.Limit,
	})
	if err != nil {
		return &errIterator{err}
	}
	return newIterator(iter)
}
