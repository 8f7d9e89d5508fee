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
	"strings"

	"github.com/sugarzet/sugarzet/internal/keyspace"
	"github.com/sugarzet/sugarzet/internal/proto"
	"github.com/sugarzet/sugarzet/internal/zset"
)

type addPair struct {
	member zset.Member
	score  zset.Score
}

// ZAdd implements ZADD key [NX|XX] [GT|LT] [CH] [INCR] score member
// [score member ...]. Flag parsing happens before any pair is touched, so
// a malformed pair list never mutates partway through.
func ZAdd(store *keyspace.Store, cmd []string) []byte {
	if len(cmd) < 4 {
		return proto.Err(errWrongArgs.Error())
	}
	key := cmd[1]

	var flags zset.AddFlags
	i := 2
loop:
	for i < len(cmd) {
		switch strings.ToUpper(cmd[i]) {
		case "NX":
			flags.NX = true
		case "XX":
			flags.XX = true
		case "GT":
			flags.GT = true
		case "LT":
			flags.LT = true
		case "CH":
			flags.CH = true
		case "INCR":
			flags.INCR = true
		default:
			break loop
		}
		i++
	}

	if flags.NX && flags.XX {
		return proto.Err(errXXAndNX.Error())
	}
	if flags.GT && flags.LT {
		return proto.Err(errGTLTNX.Error())
	}
	if flags.NX && (flags.GT || flags.LT) {
		return proto.Err(errGTLTNX.Error())
	}

	rest := cmd[i:]
	if len(rest) == 0 || len(rest)%2 != 0 {
		return proto.Err(errWrongArgs.Error())
	}
	if flags.INCR && len(rest) > 2 {
		return proto.Err(errIncrMultiplePairs.Error())
	}

	pairs := make([]addPair, 0, len(rest)/2)
	for p := 0; p < len(rest); p += 2 {
		sc, err := zset.ParseScore(rest[p])
		if err != nil {
			return proto.Err(errInvalidFloat.Error())
		}
		pairs = append(pairs, addPair{member: zset.Member(rest[p+1]), score: sc})
	}

	var (
		reply []byte
		err   error
	)
	err = store.WithKey(key, func(a keyspace.Accessor) error {
		set, gerr := getSet(a, key)
		if gerr != nil {
			return gerr
		}
		created := set == nil
		if created {
			set = NewSet()
		}

		var added, updated int
		var outcome zset.AddOutcome
		for _, p := range pairs {
			outcome = set.Add(p.member, p.score, flags)
			switch outcome {
			case zset.Added:
				added++
			case zset.Updated:
				updated++
			case zset.Nan:
				reply = proto.Err(errNaN.Error())
				return nil
			}
		}

		if set.Length() > 0 {
			a.Set(key, set)
		} else if !created {
			a.Delete(key)
		}

		if flags.INCR {
			if outcome == zset.NoOp {
				reply = proto.Null()
				return nil
			}
			sc, _ := set.Score(pairs[0].member)
			reply = proto.Double(float64(sc))
			return nil
		}

		count := added
		if flags.CH {
			count += updated
		}
		reply = proto.Int(count)
		return nil
	})
	if err != nil {
		return proto.Err(err.Error())
	}
	return reply
}

// ZIncrBy implements ZINCRBY key increment member: unconditional ZADD
// INCR with no flags.
func ZIncrBy(store *keyspace.Store, cmd []string) []byte {
	if len(cmd) != 4 {
		return proto.Err(errWrongArgs.Error())
	}
	key := cmd[1]
	incr, err := zset.ParseScore(cmd[2])
	if err != nil {
		return proto.Err(errInvalidFloat.Error())
	}
	member := zset.Member(cmd[3])

	var reply []byte
	err = store.WithKey(key, func(a keyspace.Accessor) error {
		set, gerr := getSet(a, key)
		if gerr != nil {
			return gerr
		}
		if set == nil {
			set = NewSet()
		}
		outcome := set.Add(member, incr, zset.AddFlags{INCR: true})
		if outcome == zset.Nan {
			reply = proto.Err(errNaN.Error())
			return nil
		}
		putOrDelete(a, key, set)
		sc, _ := set.Score(member)
		reply = proto.Double(float64(sc))
		return nil
	})
	if err != nil {
		return proto.Err(err.Error())
	}
	return reply
}
