// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package store

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakebook/cache"
	"github.com/vechain/stakebook/kv"
	"github.com/vechain/stakebook/kv/lvldb"
	"github.com/vechain/stakebook/log"
	"github.com/vechain/stakebook/metrics"
	"github.com/vechain/stakebook/thor"
)

var (
	logger = log.WithContext("pkg", "store")

	metricCommitLatency = metrics.LazyLoadHistogram("store_commit_duration_ms", metrics.BucketCommitMs)
	metricCommitKeys    = metrics.LazyLoadCounter("store_committed_keys_count")
)

// Store persists the pos records in a kv store and caches the committed raw values.
type Store struct {
	engine kv.Store
	cache  *cache.LRU[string, []byte]
}

// New creates a store over engine. cacheSize is the number of records kept in the read cache.
func New(engine kv.Store, cacheSize int) (*Store, error) {
	c, err := cache.NewLRU[string, []byte](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "create read cache")
	}
	return &Store{engine: engine, cache: c}, nil
}

// NewMem creates a store backed by an in-memory leveldb.
func NewMem() *Store {
	s, _ := New(lvldb.NewMem(), 1024)
	return s
}

// NewStage starts a set of writes applied together by Commit.
func (s *Store) NewStage() *Stage {
	return &Stage{
		store:  s,
		writes: make(map[string][]byte),
	}
}

// get returns the committed value of key, or nil if there is none.
func (s *Store) get(key []byte) ([]byte, error) {
	val, err := s.cache.GetOrLoad(string(key), func(k string) ([]byte, error) {
		return s.engine.Get([]byte(k))
	})
	if err != nil {
		if s.engine.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "get %x", key)
	}
	return val, nil
}

// Validators lists the addresses with a recorded validator state, in ascending order.
func (s *Store) Validators() ([]thor.Address, error) {
	iter := validatorBucket.NewStore(s.engine).Iterate(kv.Range{})
	defer iter.Release()

	var addrs []thor.Address
	for iter.Next() {
		key := iter.Key()
		if len(key) == thor.AddressLength+1 && key[thor.AddressLength] == fieldState {
			addrs = append(addrs, thor.BytesToAddress(key[:thor.AddressLength]))
		}
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "iterate validators")
	}
	return addrs, nil
}

// CacheStats returns the read cache hits and misses.
func (s *Store) CacheStats() (hit, miss int64) {
	return s.cache.Stats()
}
