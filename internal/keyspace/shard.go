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

// Package keyspace models the shard scheduler, transaction runtime and
// key-space map that spec 1 lists as external collaborators "assumed
// present". It is a minimal, self-contained stand-in: each Shard runs a
// single-threaded event loop over its own disjoint slice of the keyspace,
// exactly as spec 5 describes, so that internal/zcommands and
// internal/aggregate have something concrete to drive and this module's
// tests can exercise cross-shard behavior end to end.
package keyspace

import (
	"errors"
	"hash/fnv"
)

// ErrWrongType is returned when a key exists but does not hold a sorted
// set.
var ErrWrongType = errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")

// Shard owns a disjoint subset of the keyspace and runs every callback
// submitted to it on its own goroutine, one at a time, so that a value it
// owns is never read or mutated by more than one goroutine at once (spec
// 5's "no intra-set locking is required").
type Shard struct {
	id    int
	data  map[string]interface{}
	tasks chan func()
	done  chan struct{}
}

func newShard(id int) *Shard {
	s := &Shard{
		id:    id,
		data:  make(map[string]interface{}),
		tasks: make(chan func(), 64),
		done:  make(chan struct{}),
	}
	go s.loop()
	return s
}

func (s *Shard) loop() {
	for {
		select {
		case fn := <-s.tasks:
			fn()
		case <-s.done:
			return
		}
	}
}

// Submit runs fn on the shard's event-loop goroutine and blocks until it
// completes, returning fn's error. This is the single-hop execution model
// spec 5 describes: the callback runs to completion without suspension.
func (s *Shard) Submit(fn func(a Accessor) error) error {
	errCh := make(chan error, 1)
	s.tasks <- func() {
		errCh <- fn(shardAccessor{s})
	}
	return <-errCh
}

func (s *Shard) close() {
	close(s.done)
}

// Accessor is the key-space map handle spec 1 says is assumed present: it
// returns a mutable per-key value object.
type Accessor interface {
	// Get returns the current value stored at key, or nil if absent.
	Get(key string) interface{}
	// Set stores value at key, creating the key if it did not exist.
	Set(key string, value interface{})
	// Delete removes key from the keyspace.
	Delete(key string)
}

type shardAccessor struct {
	shard *Shard
}

func (a shardAccessor) Get(key string) interface{} {
	return a.shard.data[key]
}

func (a shardAccessor) Set(key string, value interface{}) {
	a.shard.data[key] = value
}

func (a shardAccessor) Delete(key string) {
	delete(a.shard.data, key)
}

// HashKey partitions a key into a shard index using FNV-1a, the same
// family of non-cryptographic hash used by the teacher's eviction sampler
// for pseudo-random selection.
func HashKey(key string, numShards int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % numShards
}
