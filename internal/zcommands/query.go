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
	"math/rand"
	"strconv"
	"strings"

	"github.com/sugarzet/sugarzet/internal/keyspace"
	"github.com/sugarzet/sugarzet/internal/proto"
	"github.com/sugarzet/sugarzet/internal/zset"
)

// ZCard implements ZCARD key.
func ZCard(store *keyspace.Store, cmd []string) []byte {
	if len(cmd) != 2 {
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
			reply = proto.Int(0)
			return nil
		}
		reply = proto.Int(set.Length())
		return nil
	})
	if err != nil {
		return proto.Err(err.Error())
	}
	return reply
}

// ZScore implements ZSCORE key member.
func ZScore(store *keyspace.Store, cmd []string) []byte {
	if len(cmd) != 3 {
		return proto.Err(errWrongArgs.Error())
	}
	key, member := cmd[1], zset.Member(cmd[2])
	var reply []byte
	err := store.WithKey(key, func(a keyspace.Accessor) error {
		set, gerr := getSet(a, key)
		if gerr != nil {
			return gerr
		}
		if set == nil {
			reply = proto.Null()
			return nil
		}
		sc, ok := set.Score(member)
		if !ok {
			reply = proto.Null()
			return nil
		}
		reply = proto.Double(float64(sc))
		return nil
	})
	if err != nil {
		return proto.Err(err.Error())
	}
	return reply
}

// ZMScore implements ZMSCORE key member [member ...], a supplemented
// batched form of ZSCORE grounded in the teacher's handleZMSCORE.
func ZMScore(store *keyspace.Store, cmd []string) []byte {
	if len(cmd) < 3 {
		return proto.Err(errWrongArgs.Error())
	}
	key := cmd[1]
	members := cmd[2:]
	var reply []byte
	err := store.WithKey(key, func(a keyspace.Accessor) error {
		set, gerr := getSet(a, key)
		if gerr != nil {
			return gerr
		}
		elements := make([][]byte, len(members))
		for i, m := range members {
			if set == nil {
				elements[i] = proto.Null()
				continue
			}
			sc, ok := set.Score(zset.Member(m))
			if !ok {
				elements[i] = proto.Null()
				continue
			}
			elements[i] = proto.Double(float64(sc))
		}
		reply = proto.Array(elements...)
		return nil
	})
	if err != nil {
		return proto.Err(err.Error())
	}
	return reply
}

func zrank(store *keyspace.Store, cmd []string, reverse bool) []byte {
	if len(cmd) != 3 {
		return proto.Err(errWrongArgs.Error())
	}
	key, member := cmd[1], zset.Member(cmd[2])
	var reply []byte
	err := store.WithKey(key, func(a keyspace.Accessor) error {
		set, gerr := getSet(a, key)
		if gerr != nil {
			return gerr
		}
		if set == nil {
			reply = proto.Null()
			return nil
		}
		r, ok := set.Rank(member, reverse)
		if !ok {
			reply = proto.Null()
			return nil
		}
		reply = proto.Int(r)
		return nil
	})
	if err != nil {
		return proto.Err(err.Error())
	}
	return reply
}

// ZRank implements ZRANK key member.
func ZRank(store *keyspace.Store, cmd []string) []byte { return zrank(store, cmd, false) }

// ZRevRank implements ZREVRANK key member.
func ZRevRank(store *keyspace.Store, cmd []string) []byte { return zrank(store, cmd, true) }

// ZCount implements ZCOUNT key min max.
func ZCount(store *keyspace.Store, cmd []string) []byte {
	if len(cmd) != 4 {
		return proto.Err(errWrongArgs.Error())
	}
	key := cmd[1]
	minB, err := zset.ParseScoreBound(cmd[2])
	if err != nil {
		return proto.Err(errInvalidFloat.Error())
	}
	maxB, err := zset.ParseScoreBound(cmd[3])
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
			reply = proto.Int(0)
			return nil
		}
		reply = proto.Int(set.CountByScore(zset.ScoreInterval{Min: minB, Max: maxB}))
		return nil
	})
	if rerr != nil {
		return proto.Err(rerr.Error())
	}
	return reply
}

// ZLexCount implements ZLEXCOUNT key min max.
func ZLexCount(store *keyspace.Store, cmd []string) []byte {
	if len(cmd) != 4 {
		return proto.Err(errWrongArgs.Error())
	}
	key := cmd[1]
	minB, err := zset.ParseLexBound(cmd[2])
	if err != nil {
		return proto.Err(errInvalidLexRange.Error())
	}
	maxB, err := zset.ParseLexBound(cmd[3])
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
			reply = proto.Int(0)
			return nil
		}
		reply = proto.Int(set.CountByLex(zset.LexInterval{Min: minB, Max: maxB}))
		return nil
	})
	if rerr != nil {
		return proto.Err(rerr.Error())
	}
	return reply
}

// ZRandMember implements ZRANDMEMBER key [count [WITHSCORES]]. A positive
// count returns up to count distinct members; a negative count allows
// repeats and always returns exactly abs(count) picks, matching
// SRANDMEMBER's repeat semantics (grounded in the teacher's
// SortedSet.GetRandom / handleZRANDMEMBER).
func ZRandMember(store *keyspace.Store, cmd []string) []byte {
	if len(cmd) < 2 || len(cmd) > 4 {
		return proto.Err(errWrongArgs.Error())
	}
	key := cmd[1]
	count := 1
	withScores := false
	explicitCount := false
	if len(cmd) >= 3 {
		c, err := strconv.Atoi(cmd[2])
		if err != nil {
			return proto.Err(errInvalidFloat.Error())
		}
		count = c
		explicitCount = true
	}
	if len(cmd) == 4 {
		if !strings.EqualFold(cmd[3], "WITHSCORES") {
			return proto.Err(errUnknownOption.Error())
		}
		withScores = true
	}

	var reply []byte
	err := store.WithKey(key, func(a keyspace.Accessor) error {
		set, gerr := getSet(a, key)
		if gerr != nil {
			return gerr
		}
		if set == nil || set.Length() == 0 {
			if explicitCount {
				reply = proto.Array()
			} else {
				reply = proto.Null()
			}
			return nil
		}
		all := set.All()

		pick := func() []byte {
			e := all[rand.Intn(len(all))]
			if withScores {
				return proto.Array(proto.Bulk(string(e.Member())), proto.Double(float64(e.ScoreValue())))
			}
			return proto.Bulk(string(e.Member()))
		}

		if !explicitCount {
			e := all[rand.Intn(len(all))]
			reply = proto.Bulk(string(e.Member()))
			return nil
		}

		if count >= 0 {
			n := count
			if n > len(all) {
				n = len(all)
			}
			idx := rand.Perm(len(all))[:n]
			elements := make([][]byte, n)
			for i, j := range idx {
				e := all[j]
				if withScores {
					elements[i] = proto.Array(proto.Bulk(string(e.Member())), proto.Double(float64(e.ScoreValue())))
				} else {
					elements[i] = proto.Bulk(string(e.Member()))
				}
			}
			reply = proto.Array(elements...)
			return nil
		}

		n := -count
		elements := make([][]byte, n)
		for i := 0; i < n; i++ {
			elements[i] = pick()
		}
		reply = proto.Array(elements...)
		return nil
	})
	if err != nil {
		return proto.Err(err.Error())
	}
	return reply
}
