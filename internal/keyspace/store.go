// Copyright 2024 Kelvin Clement Mwinuka
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package keyspace

import "sync"

// Store is a fixed collection of shards, each hash-partitioned over a
// disjoint slice of the keyspace. A single-hop command runs on exactly one
// shard; a cross-shard command visits every shard in the first phase and
// writes its result to a single shard in the second, matching the
// two-phase pipeline spec 5 describes for ZUNIONSTORE/ZINTERSTORE.
type Store struct {
	shards []*Shard
}

// NewStore creates a Store with the given number of shards, each running
// its own event-loop goroutine. numShards must be at least 1.
func NewStore(numShards int) *Store {
	if numShards < 1 {
		numShards = 1
	}
	st := &Store{shards: make([]*Shard, numShards)}
	for i := range st.shards {
		st.shards[i] = newShard(i)
	}
	return st
}

// Close stops every shard's event loop. Intended for test teardown and
// graceful server shutdown.
func (st *Store) Close() {
	for _, s := range st.shards {
		s.close()
	}
}

// NumShards reports how many shards the store was created with.
func (st *Store) NumShards() int {
	return len(st.shards)
}

// ShardFor returns the shard that owns key.
func (st *Store) ShardFor(key string) *Shard {
	return st.shards[HashKey(key, len(st.shards))]
}

// WithKey routes fn to the shard owning key and blocks for the result,
// the single-hop execution path spec 5 describes for ordinary commands.
func (st *Store) WithKey(key string, fn func(a Accessor) error) error {
	return st.ShardFor(key).Submit(fn)
}

// Broadcast runs fn concurrently against every shard and waits for all of
// them to finish, returning the first non-nil error encountered. This is
// phase one of a cross-shard aggregation: each shard materializes its own
// partial contribution independently and in parallel.
func (st *Store) Broadcast(fn func(shardIndex int, a Accessor) error) error {
	var wg sync.WaitGroup
	errs := make([]error, len(st.shards))
	for i, s := range st.shards {
		wg.Add(1)
		go func(i int, s *Shard) {
			defer wg.Done()
			errs[i] = s.Submit(func(a Accessor) error {
				return fn(i, a)
			})
		}(i, s)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
