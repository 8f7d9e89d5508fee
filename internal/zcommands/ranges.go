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

	"github.com/sugarzet/sugarzet/internal/keyspace"
	"github.com/sugarzet/sugarzet/internal/proto"
	"github.com/sugarzet/sugarzet/internal/zset"
)

// flattenReply renders a range result the way every Z range command does
// on the wire: a flat array, interleaving member and score when
// withScores is set rather than nesting pairs (spec 8 scenario 1).
func flattenReply(results []zset.ScoredMember) []byte {
	elements := make([][]byte, 0, len(results)*2)
	for _, r := range results {
		elements = append(elements, proto.Bulk(string(r.Member)))
		if r.HasScore {
			elements = append(elements, proto.Double(float64(r.Score)))
		}
	}
	return proto.Array(elements...)
}

// parseLimit parses a trailing "LIMIT offset count" clause starting at
// tokens[0] == "LIMIT". offset and count are parsed from two distinct
// tokens via independent strconv calls (spec 9's open question: the
// reused-single-token parsing in some implementations is a bug, not
// replicated here).
func parseLimit(tokens []string) (offset, limit uint32, consumed int, err error) {
	if len(tokens) < 3 || !strings.EqualFold(tokens[0], "LIMIT") {
		return 0, zset.NoLimit, 0, nil
	}
	off, perr := strconv.ParseInt(tokens[1], 10, 64)
	if perr != nil || off < 0 {
		return 0, 0, 0, errInvalidFloat
	}
	cnt, perr := strconv.ParseInt(tokens[2], 10, 64)
	if perr != nil {
		return 0, 0, 0, errInvalidFloat
	}
	if cnt < 0 {
		return uint32(off), zset.NoLimit, 3, nil
	}
	return uint32(off), uint32(cnt), 3, nil
}

// runRangeQuery parses and executes a ZRANGE-shaped query (start, stop,
// then BYSCORE/BYLEX/REV/LIMIT/WITHSCORES tokens) against an
// already-resolved set. Shared by ZRange and ZRangeStore, which needs the
// (member, score) pairs rather than a formatted reply.
func runRangeQuery(set *zset.SortedSet, startTok, stopTok string, tokens []string) ([]zset.ScoredMember, error) {
	var byScore, byLex, reverse, withScores bool
	params := zset.RangeParams{Limit: zset.NoLimit}

	for i := 0; i < len(tokens); i++ {
		switch strings.ToUpper(tokens[i]) {
		case "BYSCORE":
			byScore = true
		case "BYLEX":
			byLex = true
		case "REV":
			reverse = true
		case "WITHSCORES":
			withScores = true
		case "LIMIT":
			off, lim, n, err := parseLimit(tokens[i:])
			if err != nil {
				return nil, err
			}
			if n == 0 {
				return nil, errUnknownOption
			}
			params.Offset, params.Limit = off, lim
			i += n - 1
		default:
			return nil, errUnknownOption
		}
	}
	params.Reverse = reverse
	params.WithScores = withScores

	// BYSCORE/BYLEX REV takes max-then-min on the wire (mirroring
	// ZREVRANGEBYSCORE), but the visitor always wants Min=logical-low,
	// Max=logical-high and does the reverse iteration itself.
	if reverse && (byScore || byLex) {
		startTok, stopTok = stopTok, startTok
	}

	switch {
	case byScore:
		minB, err := zset.ParseScoreBound(startTok)
		if err != nil {
			return nil, errInvalidFloat
		}
		maxB, err := zset.ParseScoreBound(stopTok)
		if err != nil {
			return nil, errInvalidFloat
		}
		return set.RangeByScore(zset.ScoreInterval{Min: minB, Max: maxB}, params), nil
	case byLex:
		minB, err := zset.ParseLexBound(startTok)
		if err != nil {
			return nil, errInvalidLexRange
		}
		maxB, err := zset.ParseLexBound(stopTok)
		if err != nil {
			return nil, errInvalidLexRange
		}
		return set.RangeByLex(zset.LexInterval{Min: minB, Max: maxB}, params), nil
	default:
		start, err := strconv.ParseInt(startTok, 10, 32)
		if err != nil {
			return nil, errInvalidFloat
		}
		stop, err := strconv.ParseInt(stopTok, 10, 32)
		if err != nil {
			return nil, errInvalidFloat
		}
		return set.RangeByIndex(zset.IndexInterval{Start: int32(start), End: int32(stop)}, params), nil
	}
}

// ZRange implements ZRANGE key start stop [BYSCORE|BYLEX] [REV]
// [LIMIT offset count] [WITHSCORES].
func ZRange(store *keyspace.Store, cmd []string) []byte {
	if len(cmd) < 4 {
		return proto.Err(errWrongArgs.Error())
	}
	key := cmd[1]

	var reply []byte
	err := store.WithKey(key, func(a keyspace.Accessor) error {
		set, gerr := getSet(a, key)
		if gerr != nil {
			return gerr
		}
		if set == nil {
			reply = proto.Array()
			return nil
		}
		results, rerr := runRangeQuery(set, cmd[2], cmd[3], cmd[4:])
		if rerr != nil {
			reply = proto.Err(rerr.Error())
			return nil
		}
		reply = flattenReply(results)
		return nil
	})
	if err != nil {
		return proto.Err(err.Error())
	}
	return reply
}

func rangeByScoreCommand(store *keyspace.Store, cmd []string, reverse bool) []byte {
	if len(cmd) < 4 {
		return proto.Err(errWrongArgs.Error())
	}
	key := cmd[1]
	// ZREVRANGEBYSCORE takes max then min on the wire (spec 4.5).
	minTok, maxTok := cmd[2], cmd[3]
	if reverse {
		minTok, maxTok = cmd[3], cmd[2]
	}

	params := zset.RangeParams{Reverse: reverse, Limit: zset.NoLimit}
	tokens := cmd[4:]
	for i := 0; i < len(tokens); i++ {
		switch strings.ToUpper(tokens[i]) {
		case "WITHSCORES":
			params.WithScores = true
		case "LIMIT":
			off, lim, n, err := parseLimit(tokens[i:])
			if err != nil {
				return proto.Err(err.Error())
			}
			if n == 0 {
				return proto.Err(errUnknownOption.Error())
			}
			params.Offset, params.Limit = off, lim
			i += n - 1
		default:
			return proto.Err(errUnknownOption.Error())
		}
	}

	minB, err := zset.ParseScoreBound(minTok)
	if err != nil {
		return proto.Err(errInvalidFloat.Error())
	}
	maxB, err := zset.ParseScoreBound(maxTok)
	if err != nil {
		return proto.Err(errInvalidFloat.Error())
	}

	var reply []byte
	rerr := store.WithKey(key, func(a keyspace.Accessor) error {
		set, gerr := getSet(a, key)
		if gerr != nil {
			return gerr
		}
		if set == nil {
			reply = proto.Array()
			return nil
		}
		results := set.RangeByScore(zset.ScoreInterval{Min: minB, Max: maxB}, params)
		reply = flattenReply(results)
		return nil
	})
	if rerr != nil {
		return proto.Err(rerr.Error())
	}
	return reply
}

// ZRangeByScore implements ZRANGEBYSCORE key min max [WITHSCORES]
// [LIMIT offset count].
func ZRangeByScore(store *keyspace.Store, cmd []string) []byte {
	return rangeByScoreCommand(store, cmd, false)
}

// ZRevRangeByScore implements ZREVRANGEBYSCORE key max min [WITHSCORES]
// [LIMIT offset count].
func ZRevRangeByScore(store *keyspace.Store, cmd []string) []byte {
	return rangeByScoreCommand(store, cmd, true)
}

// ZRangeByLex implements ZRANGEBYLEX key min max [LIMIT offset count].
func ZRangeByLex(store *keyspace.Store, cmd []string) []byte {
	if len(cmd) < 4 {
		return proto.Err(errWrongArgs.Error())
	}
	key, minTok, maxTok := cmd[1], cmd[2], cmd[3]
	params := zset.RangeParams{Limit: zset.NoLimit}
	tokens := cmd[4:]
	for i := 0; i < len(tokens); i++ {
		if strings.EqualFold(tokens[i], "LIMIT") {
			off, lim, n, err := parseLimit(tokens[i:])
			if err != nil {
				return proto.Err(err.Error())
			}
			if n == 0 {
				return proto.Err(errUnknownOption.Error())
			}
			params.Offset, params.Limit = off, lim
			i += n - 1
			continue
		}
		return proto.Err(errUnknownOption.Error())
	}

	minB, err := zset.ParseLexBound(minTok)
	if err != nil {
		return proto.Err(errInvalidLexRange.Error())
	}
	maxB, err := zset.ParseLexBound(maxTok)
	if err != nil {
		return proto.Err(errInvalidLexRange.Error())
	}

	var reply []byte
	rerr := store.WithKey(key, func(a keyspace.Accessor) error {
		set, gerr := getSet(a, key)
		if gerr != nil {
			return gerr
		}
		if set == nil {
			reply = proto.Array()
			return nil
		}
		results := set.RangeByLex(zset.LexInterval{Min: minB, Max: maxB}, params)
		reply = flattenReply(results)
		return nil
	})
	if rerr != nil {
		return proto.Err(rerr.Error())
	}
	return reply
}

// ZRevRange implements ZREVRANGE key start stop [WITHSCORES].
func ZRevRange(store *keyspace.Store, cmd []string) []byte {
	if len(cmd) < 4 {
		return proto.Err(errWrongArgs.Error())
	}
	key := cmd[1]
	start, err := strconv.ParseInt(cmd[2], 10, 32)
	if err != nil {
		return proto.Err(errInvalidFloat.Error())
	}
	stop, err := strconv.ParseInt(cmd[3], 10, 32)
	if err != nil {
		return proto.Err(errInvalidFloat.Error())
	}
	withScores := false
	if len(cmd) == 5 {
		if !strings.EqualFold(cmd[4], "WITHSCORES") {
			return proto.Err(errUnknownOption.Error())
		}
		withScores = true
	} else if len(cmd) > 5 {
		return proto.Err(errUnknownOption.Error())
	}

	var reply []byte
	rerr := store.WithKey(key, func(a keyspace.Accessor) error {
		set, gerr := getSet(a, key)
		if gerr != nil {
			return gerr
		}
		if set == nil {
			reply = proto.Array()
			return nil
		}
		results := set.RangeByIndex(zset.IndexInterval{Start: int32(start), End: int32(stop)},
			zset.RangeParams{Reverse: true, WithScores: withScores})
		reply = flattenReply(results)
		return nil
	})
	if rerr != nil {
		return proto.Err(rerr.Error())
	}
	return reply
}
