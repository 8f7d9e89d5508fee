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

package aggregate

import (
	"math"

	"github.com/sugarzet/sugarzet/internal/keyspace"
	"github.com/sugarzet/sugarzet/internal/zset"
)

// Input names one source key and the weight to apply to its scores.
type Input struct {
	Key    string
	Weight float64
}

// ScoredMap is a coordinator-side or per-shard-partial member -> score
// map, the type spec 4.6 calls a ScoredMap.
type ScoredMap map[zset.Member]zset.Score

// shardPartial is what a single shard contributes in Phase 1: whether it
// owned any of the requested keys at all, whether one of its owned keys
// was absent (forcing an empty intersection result), and the reduced map
// over just the keys it owns.
type shardPartial struct {
	ownedAny bool
	empty    bool
	values   ScoredMap
}

// materializeOwned reduces the subset of inputs owned by this shard into
// one ScoredMap, using union or intersection semantics depending on
// forIntersect. Returns keyspace.ErrWrongType immediately if an owned key
// holds a non-sorted-set value, per spec 4.6's "fails the whole command
// with WRONGTYPE".
func materializeOwned(a keyspace.Accessor, owned []Input, agg Aggregator, forIntersect bool) (shardPartial, error) {
	var result ScoredMap
	sawAbsent := false

	for _, in := range owned {
		v := a.Get(in.Key)
		if v == nil {
			sawAbsent = true
			continue
		}
		set, ok := v.(*zset.SortedSet)
		if !ok {
			return shardPartial{}, keyspace.ErrWrongType
		}

		weighted := make(ScoredMap, set.Length())
		for _, e := range set.All() {
			weighted[e.Member()] = zset.Score(float64(e.ScoreValue()) * in.Weight)
		}

		if result == nil {
			result = weighted
			continue
		}
		if forIntersect {
			merged := make(ScoredMap, len(result))
			for m, sc := range result {
				if other, ok := weighted[m]; ok {
					merged[m] = zset.Score(combineSkipNaN(agg, float64(sc), float64(other)))
				}
			}
			result = merged
		} else {
			for m, sc := range weighted {
				if existing, ok := result[m]; ok {
					result[m] = zset.Score(combineSkipNaN(agg, float64(existing), float64(sc)))
				} else {
					result[m] = sc
				}
			}
		}
	}

	if len(owned) == 0 {
		return shardPartial{}, nil
	}
	if forIntersect && sawAbsent {
		return shardPartial{ownedAny: true, empty: true, values: ScoredMap{}}, nil
	}
	if result == nil {
		result = ScoredMap{}
	}
	return shardPartial{ownedAny: true, values: result}, nil
}

// combineSkipNaN applies the aggregator and returns its result unchanged,
// NaN included; run drops every NaN-scored member after the global merge,
// per spec 4.6's "w x score is NaN" note.
func combineSkipNaN(agg Aggregator, a, b float64) float64 {
	return Combine(agg, a, b)
}

func ownedBy(store *keyspace.Store, shardIndex int, inputs []Input) []Input {
	var owned []Input
	for _, in := range inputs {
		if keyspace.HashKey(in.Key, store.NumShards()) == shardIndex {
			owned = append(owned, in)
		}
	}
	return owned
}

// run executes the two-phase pipeline shared by Union and Intersect.
func run(store *keyspace.Store, inputs []Input, agg Aggregator, forIntersect bool) (ScoredMap, error) {
	partials := make([]shardPartial, store.NumShards())

	err := store.Broadcast(func(shardIndex int, a keyspace.Accessor) error {
		owned := ownedBy(store, shardIndex, inputs)
		if len(owned) == 0 {
			return nil
		}
		p, perr := materializeOwned(a, owned, agg, forIntersect)
		if perr != nil {
			return perr
		}
		partials[shardIndex] = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	var result ScoredMap
	haveResult := false
	for _, p := range partials {
		if !p.ownedAny {
			continue
		}
		if forIntersect && p.empty {
			return ScoredMap{}, nil
		}
		if !haveResult {
			result = p.values
			haveResult = true
			continue
		}
		if forIntersect {
			merged := make(ScoredMap, len(result))
			for m, sc := range result {
				if other, ok := p.values[m]; ok {
					merged[m] = zset.Score(Combine(agg, float64(sc), float64(other)))
				}
			}
			result = merged
			if len(result) == 0 {
				return ScoredMap{}, nil
			}
		} else {
			for m, sc := range p.values {
				if existing, ok := result[m]; ok {
					result[m] = zset.Score(Combine(agg, float64(existing), float64(sc)))
				} else {
					result[m] = sc
				}
			}
		}
	}
	if !haveResult {
		result = ScoredMap{}
	}

	// Drop any member whose combined score came out NaN (0 x +/-inf under
	// mismatched weights), per spec 4.6: the pair is skipped, not an error.
	for m, sc := range result {
		if math.IsNaN(float64(sc)) {
			delete(result, m)
		}
	}
	return result, nil
}

// Union computes the weighted union of inputs, aggregating overlapping
// members with agg.
func Union(store *keyspace.Store, inputs []Input, agg Aggregator) (ScoredMap, error) {
	return run(store, inputs, agg, false)
}

// Intersect computes the weighted intersection of inputs: a member
// survives only if present in every input key.
func Intersect(store *keyspace.Store, inputs []Input, agg Aggregator) (ScoredMap, error) {
	return run(store, inputs, agg, true)
}

// Difference computes the set difference: members present in the first
// key's set but absent, by member, from every other key's set. No
// aggregator or weighting applies (spec's supplemented ZDIFF/ZDIFFSTORE).
func Difference(store *keyspace.Store, keys []string) (ScoredMap, error) {
	if len(keys) == 0 {
		return ScoredMap{}, nil
	}

	var first ScoredMap
	err := store.WithKey(keys[0], func(a keyspace.Accessor) error {
		v := a.Get(keys[0])
		if v == nil {
			first = ScoredMap{}
			return nil
		}
		set, ok := v.(*zset.SortedSet)
		if !ok {
			return keyspace.ErrWrongType
		}
		first = make(ScoredMap, set.Length())
		for _, e := range set.All() {
			first[e.Member()] = e.ScoreValue()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(first) == 0 {
		return ScoredMap{}, nil
	}

	for _, key := range keys[1:] {
		key := key
		err := store.WithKey(key, func(a keyspace.Accessor) error {
			v := a.Get(key)
			if v == nil {
				return nil
			}
			set, ok := v.(*zset.SortedSet)
			if !ok {
				return keyspace.ErrWrongType
			}
			for _, e := range set.All() {
				delete(first, e.Member())
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return first, nil
}

// NewSet constructs the destination sorted set for a write-back.
// Overridable by cmd/sugarzetd so store-family commands honor the same
// configured packed thresholds as ZADD (see internal/zcommands.NewSet).
var NewSet = zset.New

// WriteBack replaces the contents of dest with result, discarding any
// prior value, and deletes dest if result is empty (spec 4.6's write-back
// contract). Returns the number of members written.
func WriteBack(store *keyspace.Store, dest string, result ScoredMap) (int, error) {
	if len(result) == 0 {
		err := store.WithKey(dest, func(a keyspace.Accessor) error {
			a.Delete(dest)
			return nil
		})
		return 0, err
	}

	set := NewSet()
	for m, sc := range result {
		set.Add(m, sc, zset.AddFlags{})
	}
	n := set.Length()
	err := store.WithKey(dest, func(a keyspace.Accessor) error {
		a.Set(dest, set)
		return nil
	})
	return n, err
}
