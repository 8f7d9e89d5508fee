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

package zcommands

import (
	"strconv"
	"strings"

	"github.com/sugarzet/sugarzet/internal/aggregate"
	"github.com/sugarzet/sugarzet/internal/keyspace"
	"github.com/sugarzet/sugarzet/internal/proto"
	"github.com/sugarzet/sugarzet/internal/zset"
)

// parseStoreArgs parses "dest numkeys key1..keyN [WEIGHTS ...] [AGGREGATE ...]"
// starting right after the command name.
func parseStoreArgs(cmd []string, name string) (dest string, inputs []aggregate.Input, agg aggregate.Aggregator, err error) {
	if len(cmd) < 4 {
		return "", nil, 0, errWrongArgs
	}
	dest = cmd[1]
	numKeys, perr := strconv.Atoi(cmd[2])
	if perr != nil || numKeys < 1 {
		return "", nil, 0, errAtLeastOneKey(strings.ToLower(name))
	}
	if len(cmd) < 3+numKeys {
		return "", nil, 0, errWrongArgs
	}
	keys := cmd[3 : 3+numKeys]
	weights := make([]float64, numKeys)
	for i := range weights {
		weights[i] = 1
	}
	agg = aggregate.Sum

	rest := cmd[3+numKeys:]
	for i := 0; i < len(rest); i++ {
		switch strings.ToUpper(rest[i]) {
		case "WEIGHTS":
			if len(rest) < i+1+numKeys {
				return "", nil, 0, errWrongArgs
			}
			for j := 0; j < numKeys; j++ {
				w, werr := strconv.ParseFloat(rest[i+1+j], 64)
				if werr != nil {
					return "", nil, 0, errInvalidWeight
				}
				weights[j] = w
			}
			i += numKeys
		case "AGGREGATE":
			if i+1 >= len(rest) {
				return "", nil, 0, errWrongArgs
			}
			a, aerr := aggregate.ParseAggregator(rest[i+1])
			if aerr != nil {
				return "", nil, 0, aerr
			}
			agg = a
			i++
		default:
			return "", nil, 0, errUnknownOption
		}
	}

	inputs = make([]aggregate.Input, numKeys)
	for i, k := range keys {
		inputs[i] = aggregate.Input{Key: k, Weight: weights[i]}
	}
	return dest, inputs, agg, nil
}

func storeCommand(store *keyspace.Store, cmd []string, name string, forIntersect bool) []byte {
	dest, inputs, agg, err := parseStoreArgs(cmd, name)
	if err != nil {
		return proto.Err(err.Error())
	}

	var result aggregate.ScoredMap
	if forIntersect {
		result, err = aggregate.Intersect(store, inputs, agg)
	} else {
		result, err = aggregate.Union(store, inputs, agg)
	}
	if err != nil {
		return proto.Err(err.Error())
	}

	n, err := aggregate.WriteBack(store, dest, result)
	if err != nil {
		return proto.Err(err.Error())
	}
	return proto.Int(n)
}

// ZUnionStore implements ZUNIONSTORE dest numkeys key [key ...]
// [WEIGHTS w ...] [AGGREGATE SUM|MIN|MAX].
func ZUnionStore(store *keyspace.Store, cmd []string) []byte {
	return storeCommand(store, cmd, "zunionstore", false)
}

// ZInterStore implements ZINTERSTORE with the same argument shape.
func ZInterStore(store *keyspace.Store, cmd []string) []byte {
	return storeCommand(store, cmd, "zinterstore", true)
}

func parseNumKeys(cmd []string, offset int, name string) (keys []string, rest []string, err error) {
	if len(cmd) < offset+2 {
		return nil, nil, errWrongArgs
	}
	n, perr := strconv.Atoi(cmd[offset])
	if perr != nil || n < 1 {
		return nil, nil, errAtLeastOneKey(strings.ToLower(name))
	}
	if len(cmd) < offset+1+n {
		return nil, nil, errWrongArgs
	}
	return cmd[offset+1 : offset+1+n], cmd[offset+1+n:], nil
}

// ZDiff implements ZDIFF numkeys key [key ...] [WITHSCORES].
func ZDiff(store *keyspace.Store, cmd []string) []byte {
	if len(cmd) < 3 {
		return proto.Err(errWrongArgs.Error())
	}
	keys, rest, err := parseNumKeys(cmd, 1, "zdiff")
	if err != nil {
		return proto.Err(err.Error())
	}
	withScores := false
	if len(rest) == 1 && strings.EqualFold(rest[0], "WITHSCORES") {
		withScores = true
	} else if len(rest) > 0 {
		return proto.Err(errUnknownOption.Error())
	}

	result, err := aggregate.Difference(store, keys)
	if err != nil {
		return proto.Err(err.Error())
	}

	results := make([]zset.ScoredMember, 0, len(result))
	for m, sc := range result {
		results = append(results, zset.ScoredMember{Member: m, Score: sc, HasScore: withScores})
	}
	return flattenReply(results)
}

// ZDiffStore implements ZDIFFSTORE dest numkeys key [key ...].
func ZDiffStore(store *keyspace.Store, cmd []string) []byte {
	if len(cmd) < 4 {
		return proto.Err(errWrongArgs.Error())
	}
	dest := cmd[1]
	keys, rest, err := parseNumKeys(cmd, 2, "zdiffstore")
	if err != nil {
		return proto.Err(err.Error())
	}
	if len(rest) > 0 {
		return proto.Err(errUnknownOption.Error())
	}

	result, err := aggregate.Difference(store, keys)
	if err != nil {
		return proto.Err(err.Error())
	}
	n, err := aggregate.WriteBack(store, dest, result)
	if err != nil {
		return proto.Err(err.Error())
	}
	return proto.Int(n)
}

// ZRangeStore implements ZRANGESTORE dest src min max [BYSCORE|BYLEX]
// [REV] [LIMIT offset count], writing the range result to dest instead of
// returning it (grounded in the teacher's handleZRANGESTORE).
func ZRangeStore(store *keyspace.Store, cmd []string) []byte {
	if len(cmd) < 5 {
		return proto.Err(errWrongArgs.Error())
	}
	dest, src := cmd[1], cmd[2]

	var result aggregate.ScoredMap
	err := store.WithKey(src, func(a keyspace.Accessor) error {
		set, gerr := getSet(a, src)
		if gerr != nil {
			return gerr
		}
		if set == nil {
			result = aggregate.ScoredMap{}
			return nil
		}
		results, rerr := runRangeQuery(set, cmd[3], cmd[4], cmd[5:])
		if rerr != nil {
			return rerr
		}
		result = make(aggregate.ScoredMap, len(results))
		for _, r := range results {
			result[r.Member] = r.Score
		}
		return nil
	})
	if err != nil {
		return proto.Err(err.Error())
	}

	n, err := aggregate.WriteBack(store, dest, result)
	if err != nil {
		return proto.Err(err.Error())
	}
	return proto.Int(n)
}
