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

// Package aggregate implements the two-phase ZUNIONSTORE/ZINTERSTORE/
// ZDIFFSTORE pipeline (C7): a per-shard partial materialization phase
// followed by a coordinator-side global merge and destination write-back,
// generalizing the teacher's single-process SortedSet.Union/Intersect
// divide-and-conquer merge (internal/sorted_set/sorted_set.go) into a
// shard-fan-out pipeline over internal/keyspace.
package aggregate

import (
	"errors"
	"math"
	"strings"
)

// Aggregator combines the scores contributed by two occurrences of the
// same member across inputs.
type Aggregator int

const (
	Sum Aggregator = iota
	Min
	Max
)

var errUnknownAggregate = errors.New("syntax error")

// ParseAggregator parses the AGGREGATE token's argument, case-insensitively.
func ParseAggregator(s string) (Aggregator, error) {
	switch strings.ToUpper(s) {
	case "SUM":
		return Sum, nil
	case "MIN":
		return Min, nil
	case "MAX":
		return Max, nil
	default:
		return 0, errUnknownAggregate
	}
}

// Combine applies the aggregator to two scores already seen for the same
// member. Associative and commutative for all three variants, so folding
// per-shard partials in any order reaches the same result (spec 4.6).
func Combine(agg Aggregator, a, b float64) float64 {
	switch agg {
	case Min:
		return math.Min(a, b)
	case Max:
		return math.Max(a, b)
	default:
		return a + b
	}
}
